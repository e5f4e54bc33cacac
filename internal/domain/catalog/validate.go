package catalog

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/barberia-api/internal/domain/schedule"
	"github.com/BruksfildServices01/barberia-api/internal/httperr"
	"github.com/BruksfildServices01/barberia-api/internal/models"
)

func validWeekday(d int) error {
	if d < 0 || d > 6 {
		return httperr.InvalidArgumentf("invalid_weekday", "Día de la semana %d fuera de rango (0-6)", d)
	}
	return nil
}

// ValidateHours checks a recurring row before it is written.
func ValidateHours(weekday int, start, end string) error {
	if err := validWeekday(weekday); err != nil {
		return err
	}
	_, err := schedule.NewWindow(start, end)
	return err
}

// ValidateException normalizes and checks an exception in place.
func ValidateException(e *models.ScheduleException) error {
	e.ScopeType = strings.ToUpper(strings.TrimSpace(e.ScopeType))
	e.Kind = strings.ToUpper(strings.TrimSpace(e.Kind))

	if e.ScopeType != models.ScopeBranch && e.ScopeType != models.ScopeBarber {
		return httperr.InvalidArgumentf("invalid_scope", "scope_type debe ser BRANCH o BARBER")
	}
	if e.ScopeID == 0 {
		return httperr.InvalidArgumentf("invalid_scope", "scope_id requerido")
	}
	if _, err := schedule.ParseDay(e.Date, time.UTC); err != nil {
		return err
	}

	switch e.Kind {
	case models.ExceptionClosed:
		e.StartTime, e.EndTime = nil, nil
		return nil
	case models.ExceptionSpecialHours:
		if e.StartTime == nil || e.EndTime == nil {
			return httperr.InvalidArgumentf("invalid_window", "SPECIAL_HOURS requiere start_time y end_time")
		}
		_, err := schedule.NewWindow(*e.StartTime, *e.EndTime)
		return err
	default:
		return httperr.InvalidArgumentf("invalid_kind", "kind debe ser CLOSED o SPECIAL_HOURS")
	}
}
