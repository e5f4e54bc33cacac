package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/BruksfildServices01/barberia-api/internal/httperr"
)

const minutesPerDay = 24 * 60

// Window is a half-open working interval [Start, End) expressed in
// minutes since local midnight.
type Window struct {
	Start int
	End   int
}

func (w Window) Valid() bool {
	return w.Start >= 0 && w.End <= minutesPerDay && w.Start < w.End
}

func (w Window) Contains(start, end int) bool {
	return start >= w.Start && end <= w.End
}

func (w Window) String() string {
	return FormatClock(w.Start) + "-" + FormatClock(w.End)
}

// Intersect returns the overlap of two windows, or nil when either is nil
// or the overlap is empty.
func Intersect(a, b *Window) *Window {
	if a == nil || b == nil {
		return nil
	}
	out := Window{Start: max(a.Start, b.Start), End: min(a.End, b.End)}
	if out.Start >= out.End {
		return nil
	}
	return &out
}

// ParseClock reads "HH:MM" (or "HH:MM:SS", seconds ignored) into minutes
// since midnight. "24:00" is accepted as the end of the day.
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, httperr.InvalidArgumentf("invalid_time", "Hora inválida %q, se espera HH:MM", s)
	}
	h, errH := strconv.Atoi(parts[0])
	m, errM := strconv.Atoi(parts[1])
	if errH != nil || errM != nil || len(parts[1]) != 2 || h < 0 || m < 0 || m > 59 {
		return 0, httperr.InvalidArgumentf("invalid_time", "Hora inválida %q, se espera HH:MM", s)
	}
	total := h*60 + m
	if total > minutesPerDay {
		return 0, httperr.InvalidArgumentf("invalid_time", "Hora inválida %q, se espera HH:MM", s)
	}
	return total, nil
}

func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// NewWindow parses a pair of clock values and enforces start < end.
func NewWindow(start, end string) (Window, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Window{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Window{}, err
	}
	w := Window{Start: s, End: e}
	if !w.Valid() {
		return Window{}, httperr.InvalidArgumentf("invalid_window", "La hora de inicio %s debe ser menor que la de fin %s", start, end)
	}
	return w, nil
}

// At places a minute offset on the calendar day of day, in day's location.
func At(day time.Time, minutes int) time.Time {
	y, mo, d := day.Date()
	return time.Date(y, mo, d, minutes/60, minutes%60, 0, 0, day.Location())
}

// MinuteOf returns the minutes since local midnight of t.
func MinuteOf(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// Overlaps is the half-open interval test used for breaks and bookings.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
