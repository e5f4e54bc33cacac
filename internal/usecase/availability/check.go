package availability

import (
	"context"
	"slices"

	domain "github.com/BruksfildServices01/barberia-api/internal/domain/appointment"
	"github.com/BruksfildServices01/barberia-api/internal/domain/catalog"
	"github.com/BruksfildServices01/barberia-api/internal/domain/schedule"
	"github.com/BruksfildServices01/barberia-api/internal/httperr"
	"github.com/BruksfildServices01/barberia-api/internal/models"
	"github.com/BruksfildServices01/barberia-api/internal/timezone"
)

type CheckInput struct {
	ServiceID uint
	BranchID  uint
	BarberID  *uint
	From      string
	To        string
}

// Check lists every candidate slot of a service in a branch, per barber,
// over the calendar days touched by the range.
type Check struct {
	catalog catalog.Repository
	planner planner
}

func NewCheck(cat catalog.Repository, apps domain.Repository) *Check {
	return &Check{catalog: cat, planner: newPlanner(cat, apps)}
}

func (uc *Check) Execute(ctx context.Context, in CheckInput) ([]schedule.Slot, error) {
	service, err := uc.catalog.GetService(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}
	if service.DurationMin <= 0 {
		return nil, httperr.InvalidArgumentf("invalid_duration", "El servicio %d no tiene una duración válida", service.ID)
	}

	branch, err := uc.catalog.GetBranch(ctx, in.BranchID)
	if err != nil {
		return nil, err
	}
	loc := timezone.Location(branch.Timezone)

	from, err := schedule.ParseFriendly(in.From, loc, false)
	if err != nil {
		return nil, err
	}
	to, err := schedule.ParseFriendly(in.To, loc, true)
	if err != nil {
		return nil, err
	}
	if !from.Before(to) {
		return nil, errInvertedRange()
	}
	if err := schedule.CheckSpan(from, to); err != nil {
		return nil, err
	}

	barbers, err := uc.barbers(ctx, in)
	if err != nil {
		return nil, err
	}

	plans, err := uc.planner.plans(ctx, branch.ID, barbers, schedule.Days(from, to))
	if err != nil {
		return nil, err
	}

	slots := slices.Collect(schedule.GenerateForBarbers(plans, service.DurationMin))
	if len(slots) == 0 {
		return nil, uc.planner.diagnose(ctx, branch.ID, barbers, in.From, in.To)
	}
	return slots, nil
}

func (uc *Check) barbers(ctx context.Context, in CheckInput) ([]models.Barber, error) {
	if in.BarberID == nil {
		barbers, err := uc.catalog.ListActiveBarbers(ctx, in.BranchID)
		if err != nil {
			return nil, err
		}
		if len(barbers) == 0 {
			return nil, errNoBarbers(in.BranchID)
		}
		return barbers, nil
	}

	barber, err := uc.catalog.GetBarber(ctx, *in.BarberID)
	if err != nil {
		return nil, err
	}
	if !barber.Active || barber.BranchID == nil || *barber.BranchID != in.BranchID {
		return nil, httperr.NotFoundf("barber_not_found",
			"Barbero %d no encontrado o no activo en la sucursal %d", barber.ID, in.BranchID)
	}
	return []models.Barber{*barber}, nil
}
