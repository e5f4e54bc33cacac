package sale

import (
	"context"
	"log/slog"
	"strings"

	"github.com/BruksfildServices01/barberia-api/internal/audit"
	"github.com/BruksfildServices01/barberia-api/internal/domain/sale"
	"github.com/BruksfildServices01/barberia-api/internal/models"
	"github.com/BruksfildServices01/barberia-api/internal/usecase/appointment"
)

const saleTransitionAttempts = 3

type CancelSale struct {
	sales  sale.Repository
	cancel *appointment.CancelAppointment
	audit  *audit.Dispatcher
	log    *slog.Logger
}

func NewCancelSale(
	sales sale.Repository,
	cancel *appointment.CancelAppointment,
	audit *audit.Dispatcher,
	log *slog.Logger,
) *CancelSale {
	if log == nil {
		log = slog.Default()
	}
	return &CancelSale{sales: sales, cancel: cancel, audit: audit, log: log}
}

// Execute cancels the sale and every appointment linked to it. Cancelling
// twice is harmless.
func (uc *CancelSale) Execute(
	ctx context.Context,
	saleID uint,
	reason string,
	actorID *uint,
) (*models.Sale, error) {

	reason = strings.TrimSpace(reason)

	var s *models.Sale
	for attempt := 1; ; attempt++ {
		var err error
		s, err = uc.sales.GetSale(ctx, saleID)
		if err != nil {
			return nil, err
		}
		// The charge in flight decides the sale; cancelling under it
		// would be overwritten by the outcome.
		if sale.Status(s.Status) == sale.StatusProcessing {
			return nil, sale.ErrPaymentInProgress(s.ID)
		}

		from := sale.Status(s.Status)
		s.Status = string(sale.StatusCancelled)
		if reason != "" {
			s.Comments = reason
		}

		err = uc.sales.TransitionSale(ctx, s, from)
		if err == nil {
			break
		}
		if !sale.IsStateChanged(err) || attempt == saleTransitionAttempts {
			return nil, err
		}
	}

	if reason == "" {
		reason = "Venta cancelada"
	}
	cancelLinkedAppointments(ctx, uc.sales, uc.cancel, uc.log, s.ID, reason)

	uc.audit.Dispatch(audit.Event{
		BranchID: &s.BranchID,
		UserID:   actorID,
		Action:   "sale_cancelled",
		Entity:   "sale",
		EntityID: &s.ID,
	})

	return s, nil
}

func cancelLinkedAppointments(
	ctx context.Context,
	sales sale.Repository,
	cancel *appointment.CancelAppointment,
	log *slog.Logger,
	saleID uint,
	reason string,
) {
	lines, err := sales.ListLines(ctx, saleID)
	if err != nil {
		log.ErrorContext(ctx, "list sale lines failed", "sale_id", saleID, "error", err)
		return
	}
	for _, l := range lines {
		if l.AppointmentID == nil {
			continue
		}
		if _, err := cancel.Execute(ctx, *l.AppointmentID, reason, nil); err != nil {
			log.ErrorContext(ctx, "cancel linked appointment failed",
				"sale_id", saleID, "appointment_id", *l.AppointmentID, "error", err)
		}
	}
}
