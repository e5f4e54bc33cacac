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

// barberStep is the granularity of the service-less barber agenda.
const barberStep = 30

type BarberInput struct {
	BarberID uint
	From     string
	To       string
}

type BarberAvailability struct {
	catalog catalog.Repository
	planner planner
}

func NewBarberAvailability(cat catalog.Repository, apps domain.Repository) *BarberAvailability {
	return &BarberAvailability{catalog: cat, planner: newPlanner(cat, apps)}
}

// Execute returns every 30-minute slot of the barber. Days without a
// window are skipped and an empty result is not an error.
func (uc *BarberAvailability) Execute(ctx context.Context, in BarberInput) ([]schedule.Slot, error) {
	barber, err := uc.catalog.GetBarber(ctx, in.BarberID)
	if err != nil {
		return nil, err
	}
	if !barber.Active {
		return nil, catalog.ErrBarberNotFound(in.BarberID)
	}
	if barber.BranchID == nil {
		return nil, httperr.InvalidArgumentf("barber_without_branch",
			"El barbero %d no está asignado a ninguna sucursal", barber.ID)
	}

	branch, err := uc.catalog.GetBranch(ctx, *barber.BranchID)
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

	plans, err := uc.planner.plans(ctx, branch.ID, []models.Barber{*barber}, schedule.Days(from, to))
	if err != nil {
		return nil, err
	}

	slots := slices.Collect(schedule.GenerateForBarbers(plans, barberStep))
	if slots == nil {
		slots = []schedule.Slot{}
	}
	return slots, nil
}
