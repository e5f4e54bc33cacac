package appointment

import (
	"context"

	"github.com/BruksfildServices01/barberia-api/internal/audit"
	domain "github.com/BruksfildServices01/barberia-api/internal/domain/appointment"
	"github.com/BruksfildServices01/barberia-api/internal/models"
	"github.com/BruksfildServices01/barberia-api/internal/timezone"
)

type ConfirmAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewConfirmAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *ConfirmAppointment {
	return &ConfirmAppointment{
		repo:  repo,
		audit: audit,
	}
}

// Execute confirms a reservation. Confirming a confirmed appointment
// returns it unchanged.
func (uc *ConfirmAppointment) Execute(
	ctx context.Context,
	appointmentID uint,
	actorID *uint,
) (*models.Appointment, error) {

	var ap *models.Appointment
	for attempt := 1; ; attempt++ {
		var err error
		ap, err = uc.repo.GetAppointment(ctx, appointmentID)
		if err != nil {
			return nil, err
		}

		from := domain.Status(ap.Status)
		changed, err := domain.Confirm(ap, timezone.Now())
		if err != nil {
			return nil, err
		}
		if !changed {
			return ap, nil
		}

		err = uc.repo.TransitionAppointment(ctx, ap, from)
		if err == nil {
			break
		}
		// Lost a race: re-read so the state machine sees what won.
		if !domain.IsStateChanged(err) || attempt == transitionAttempts {
			return nil, err
		}
	}

	uc.audit.Dispatch(audit.Event{
		BranchID: &ap.BranchID,
		UserID:   actorID,
		Action:   "appointment_confirmed",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
