package appointment

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/BruksfildServices01/barberia-api/internal/audit"
	domain "github.com/BruksfildServices01/barberia-api/internal/domain/appointment"
	"github.com/BruksfildServices01/barberia-api/internal/domain/catalog"
	"github.com/BruksfildServices01/barberia-api/internal/domain/schedule"
	"github.com/BruksfildServices01/barberia-api/internal/httperr"
	"github.com/BruksfildServices01/barberia-api/internal/models"
	"github.com/BruksfildServices01/barberia-api/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type ReserveInput struct {
	ServiceID uint
	BranchID  uint
	BarberID  uint
	ClientID  *uint

	// Start and End accept the friendly date forms. An empty End means
	// Start plus the service duration.
	Start string
	End   string

	Origin          string
	ExternalSlotRef string
	Notes           string

	ActorID *uint
}

// ======================================================
// USE CASE
// ======================================================

type ReserveAppointment struct {
	catalog catalog.Repository
	repo    domain.Repository
	locker  domain.Locker
	audit   *audit.Dispatcher
	log     *slog.Logger
}

// NewReserveAppointment accepts a nil locker; the repository transaction
// alone still guarantees a single winner.
func NewReserveAppointment(
	cat catalog.Repository,
	repo domain.Repository,
	locker domain.Locker,
	audit *audit.Dispatcher,
	log *slog.Logger,
) *ReserveAppointment {
	if log == nil {
		log = slog.Default()
	}
	return &ReserveAppointment{
		catalog: cat,
		repo:    repo,
		locker:  locker,
		audit:   audit,
		log:     log,
	}
}

type references struct {
	service *models.Service
	branch  *models.Branch
	barber  *models.Barber
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *ReserveAppointment) Execute(
	ctx context.Context,
	in ReserveInput,
) (*models.Appointment, error) {

	refs, err := uc.validateReferences(ctx, in)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 5. Dates in the branch time zone
	// --------------------------------------------------
	loc := timezone.Location(refs.branch.Timezone)

	start, err := schedule.ParseFriendly(in.Start, loc, false)
	if err != nil {
		return nil, err
	}
	end := start.Add(time.Duration(refs.service.DurationMin) * time.Minute)
	if strings.TrimSpace(in.End) != "" {
		if end, err = schedule.ParseFriendly(in.End, loc, false); err != nil {
			return nil, err
		}
	}

	return uc.book(ctx, in, start, end)
}

// ReserveAt books an already resolved interval. It runs the same
// validation as Execute.
func (uc *ReserveAppointment) ReserveAt(
	ctx context.Context,
	in ReserveInput,
	start, end time.Time,
) (*models.Appointment, error) {

	if _, err := uc.validateReferences(ctx, in); err != nil {
		return nil, err
	}
	return uc.book(ctx, in, start, end)
}

func (uc *ReserveAppointment) validateReferences(
	ctx context.Context,
	in ReserveInput,
) (references, error) {

	var refs references
	var err error

	// --------------------------------------------------
	// 1. Service
	// --------------------------------------------------
	if refs.service, err = uc.catalog.GetService(ctx, in.ServiceID); err != nil {
		return refs, err
	}

	// --------------------------------------------------
	// 2. Branch
	// --------------------------------------------------
	if refs.branch, err = uc.catalog.GetBranch(ctx, in.BranchID); err != nil {
		return refs, err
	}

	// --------------------------------------------------
	// 3. Barber working at that branch
	// --------------------------------------------------
	if refs.barber, err = uc.catalog.GetBarber(ctx, in.BarberID); err != nil {
		return refs, err
	}
	if refs.barber.BranchID == nil || *refs.barber.BranchID != in.BranchID {
		return refs, httperr.NotFoundf("barber_not_in_branch",
			"El barbero %d no pertenece a la sucursal %d", in.BarberID, in.BranchID)
	}

	// --------------------------------------------------
	// 4. Client, when given
	// --------------------------------------------------
	if in.ClientID != nil {
		if _, err = uc.catalog.GetClient(ctx, *in.ClientID); err != nil {
			return refs, err
		}
	}

	return refs, nil
}

func (uc *ReserveAppointment) book(
	ctx context.Context,
	in ReserveInput,
	start, end time.Time,
) (*models.Appointment, error) {

	if !start.Before(end) {
		return nil, httperr.InvalidArgumentf("invalid_range",
			"La fecha de inicio debe ser anterior a la fecha de fin")
	}

	// --------------------------------------------------
	// 6. Serialize per barber, then check-and-insert
	// --------------------------------------------------
	if uc.locker != nil {
		unlock, err := uc.locker.Lock(ctx, domain.LockKey(in.BarberID))
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				uc.log.WarnContext(ctx, "booking lock release failed", "barber_id", in.BarberID, "error", err)
			}
		}()
	}

	origin := strings.TrimSpace(in.Origin)
	if origin == "" {
		origin = "INTERNAL"
	}

	ap := &models.Appointment{
		BranchID:        in.BranchID,
		BarberID:        in.BarberID,
		ServiceID:       in.ServiceID,
		ClientID:        in.ClientID,
		StartTime:       start,
		EndTime:         end,
		Status:          string(domain.InitialStatus()),
		Origin:          origin,
		ExternalSlotRef: in.ExternalSlotRef,
		Notes:           in.Notes,
	}

	if err := uc.repo.Reserve(ctx, ap); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 7. Audit
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		BranchID: &ap.BranchID,
		UserID:   in.ActorID,
		Action:   "appointment_reserved",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{
			"barber_id": ap.BarberID,
			"start":     ap.StartTime,
			"origin":    ap.Origin,
		},
	})

	return ap, nil
}
