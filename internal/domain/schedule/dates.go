package schedule

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/barberia-api/internal/httperr"
)

var friendlyLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseFriendly accepts "YYYY-MM-DD", "YYYY-MM-DD HH:mm",
// "YYYY-MM-DDTHH:mm" and RFC3339. Wall-clock forms are read in loc. A bare
// date used as a range end expands to 23:59:59.999 of that day.
func ParseFriendly(s string, loc *time.Location, rangeEnd bool) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, httperr.InvalidArgumentf("invalid_date", "Fecha requerida")
	}

	if t, err := time.ParseInLocation(time.DateOnly, s, loc); err == nil {
		if rangeEnd {
			return EndOfDay(t), nil
		}
		return t, nil
	}
	for _, layout := range friendlyLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.In(loc), nil
	}

	return time.Time{}, httperr.InvalidArgumentf("invalid_date",
		"Fecha inválida %q, formatos aceptados: YYYY-MM-DD, YYYY-MM-DD HH:mm, YYYY-MM-DDTHH:mm", s)
}

// ParseDay is the strict partner form: exactly YYYY-MM-DD with a year in
// [1900, 2100].
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.ParseInLocation(time.DateOnly, s, loc)
	if err != nil || len(s) != len(time.DateOnly) {
		return time.Time{}, httperr.InvalidArgumentf("invalid_date", "Fecha inválida %q, se espera YYYY-MM-DD", s)
	}
	if t.Year() < 1900 || t.Year() > 2100 {
		return time.Time{}, httperr.InvalidArgumentf("invalid_date", "El año de %q debe estar entre 1900 y 2100", s)
	}
	return t, nil
}

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// MaxRangeDays caps the calendar days one availability query may touch.
const MaxRangeDays = 62

// CheckSpan rejects a [from, to] range touching more than MaxRangeDays
// calendar days.
func CheckSpan(from, to time.Time) error {
	limit := StartOfDay(from).AddDate(0, 0, MaxRangeDays)
	if !to.Before(limit) {
		return httperr.InvalidArgumentf("range_too_long",
			"El rango consultado no puede abarcar más de %d días", MaxRangeDays)
	}
	return nil
}

// Days lists the local midnights of every calendar day touched by
// [from, to]. from and to should share a location.
func Days(from, to time.Time) []time.Time {
	if to.Before(from) {
		return nil
	}
	var out []time.Time
	last := StartOfDay(to)
	for d := StartOfDay(from); !d.After(last); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}
