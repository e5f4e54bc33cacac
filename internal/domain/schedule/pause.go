package schedule

import (
	"time"

	"github.com/BruksfildServices01/barberia-api/internal/models"
)

// Break is a recurring pause of a barber on one weekday.
type Break struct {
	Weekday time.Weekday
	Window  Window
	Label   string
}

// BreaksFrom converts stored rows, skipping rows whose clock values do not
// form a valid window.
func BreaksFrom(rows []models.BarberBreak) []Break {
	out := make([]Break, 0, len(rows))
	for _, row := range rows {
		w, err := NewWindow(row.StartTime, row.EndTime)
		if err != nil {
			continue
		}
		out = append(out, Break{Weekday: time.Weekday(row.Weekday), Window: w, Label: row.Label})
	}
	return out
}

// OverlapsBreak reports whether [start, end) touches any break of weekday.
// Slots are never trimmed around a pause.
func OverlapsBreak(weekday time.Weekday, start, end int, breaks []Break) bool {
	for _, b := range breaks {
		if b.Weekday != weekday {
			continue
		}
		if start < b.Window.End && end > b.Window.Start {
			return true
		}
	}
	return false
}
