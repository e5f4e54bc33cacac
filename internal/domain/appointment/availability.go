package appointment

import (
	"time"

	"github.com/BruksfildServices01/barberia-api/internal/domain/schedule"
	"github.com/BruksfildServices01/barberia-api/internal/models"
)

// Intervals projects blocking appointments of one barber into the shape
// the slot generator consumes.
func Intervals(aps []models.Appointment, barberID uint) []schedule.Interval {
	var out []schedule.Interval
	for _, ap := range aps {
		if ap.BarberID != barberID || !IsBlocking(Status(ap.Status)) {
			continue
		}
		out = append(out, schedule.Interval{Start: ap.StartTime, End: ap.EndTime})
	}
	return out
}

// Overlaps reports whether ap blocks [start, end).
func Overlaps(ap models.Appointment, start, end time.Time) bool {
	return IsBlocking(Status(ap.Status)) && schedule.Overlaps(ap.StartTime, ap.EndTime, start, end)
}
