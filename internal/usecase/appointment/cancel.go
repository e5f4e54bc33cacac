package appointment

import (
	"context"

	"github.com/BruksfildServices01/barberia-api/internal/audit"
	domain "github.com/BruksfildServices01/barberia-api/internal/domain/appointment"
	"github.com/BruksfildServices01/barberia-api/internal/models"
	"github.com/BruksfildServices01/barberia-api/internal/timezone"
)

// transitionAttempts bounds the re-read loop when a concurrent status
// change wins the guarded write.
const transitionAttempts = 3

type CancelAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCancelAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CancelAppointment {
	return &CancelAppointment{
		repo:  repo,
		audit: audit,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	appointmentID uint,
	reason string,
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
		if !domain.Cancel(ap, timezone.Now(), reason) {
			return ap, nil
		}

		err = uc.repo.TransitionAppointment(ctx, ap, from)
		if err == nil {
			break
		}
		if !domain.IsStateChanged(err) || attempt == transitionAttempts {
			return nil, err
		}
	}

	uc.audit.Dispatch(audit.Event{
		BranchID: &ap.BranchID,
		UserID:   actorID,
		Action:   "appointment_cancelled",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{"reason": ap.CancelReason},
	})

	return ap, nil
}
