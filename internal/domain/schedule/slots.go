package schedule

import (
	"cmp"
	"iter"
	"slices"
	"time"
)

// Slot is a computed candidate interval. It is never persisted.
type Slot struct {
	Start      time.Time
	End        time.Time
	BarberID   uint
	BarberName string
	Available  bool
}

// Interval is a blocking booking.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Plan carries everything needed to enumerate one barber's slots on one
// day. A nil Window yields no slots.
type Plan struct {
	BarberID   uint
	BarberName string
	Day        time.Time
	Window     *Window
	Booked     []Interval
	Breaks     []Break
}

// GenerateSlots walks the window from its start in steps of duration. The
// last slot ends at or before the window end; a partial trailing slot is
// never produced. The sequence is lazy and can be ranged over repeatedly.
func GenerateSlots(p Plan, duration int) iter.Seq[Slot] {
	return func(yield func(Slot) bool) {
		if p.Window == nil || duration <= 0 {
			return
		}
		weekday := p.Day.Weekday()
		for cursor := p.Window.Start; cursor+duration <= p.Window.End; cursor += duration {
			start := At(p.Day, cursor)
			end := start.Add(time.Duration(duration) * time.Minute)

			s := Slot{
				Start:      start,
				End:        end,
				BarberID:   p.BarberID,
				BarberName: p.BarberName,
				Available: !OverlapsBreak(weekday, cursor, cursor+duration, p.Breaks) &&
					!overlapsAny(start, end, p.Booked),
			}
			if !yield(s) {
				return
			}
		}
	}
}

// GenerateForBarbers unions the per-barber sequences, barber by barber in
// ascending id and day by day within a barber.
func GenerateForBarbers(plans []Plan, duration int) iter.Seq[Slot] {
	ordered := slices.Clone(plans)
	slices.SortStableFunc(ordered, func(a, b Plan) int {
		if c := cmp.Compare(a.BarberID, b.BarberID); c != 0 {
			return c
		}
		return a.Day.Compare(b.Day)
	})

	return func(yield func(Slot) bool) {
		for _, p := range ordered {
			for s := range GenerateSlots(p, duration) {
				if !yield(s) {
					return
				}
			}
		}
	}
}

// Available filters a sequence down to bookable slots.
func Available(seq iter.Seq[Slot]) iter.Seq[Slot] {
	return func(yield func(Slot) bool) {
		for s := range seq {
			if s.Available && !yield(s) {
				return
			}
		}
	}
}

func overlapsAny(start, end time.Time, booked []Interval) bool {
	for _, b := range booked {
		if Overlaps(start, end, b.Start, b.End) {
			return true
		}
	}
	return false
}
