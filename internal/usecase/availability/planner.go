package availability

import (
	"context"
	"fmt"
	"time"

	domain "github.com/BruksfildServices01/barberia-api/internal/domain/appointment"
	"github.com/BruksfildServices01/barberia-api/internal/domain/catalog"
	"github.com/BruksfildServices01/barberia-api/internal/domain/schedule"
	"github.com/BruksfildServices01/barberia-api/internal/models"
)

// planner turns (branch, barbers, days) into slot generator plans. It is
// read-only and safe for concurrent use.
type planner struct {
	catalog      catalog.Repository
	appointments domain.Repository
	resolver     *schedule.Resolver
}

func newPlanner(cat catalog.Repository, apps domain.Repository) planner {
	return planner{catalog: cat, appointments: apps, resolver: schedule.NewResolver(cat)}
}

func (p planner) plans(
	ctx context.Context,
	branchID uint,
	barbers []models.Barber,
	days []time.Time,
) ([]schedule.Plan, error) {

	if len(barbers) == 0 || len(days) == 0 {
		return nil, nil
	}

	ids := make([]uint, 0, len(barbers))
	for _, b := range barbers {
		ids = append(ids, b.ID)
	}

	breakRows, err := p.catalog.ListBreaks(ctx, ids...)
	if err != nil {
		return nil, fmt.Errorf("list breaks: %w", err)
	}
	breaksByBarber := map[uint][]models.BarberBreak{}
	for _, b := range breakRows {
		breaksByBarber[b.BarberID] = append(breaksByBarber[b.BarberID], b)
	}

	from := schedule.StartOfDay(days[0])
	to := schedule.StartOfDay(days[len(days)-1]).AddDate(0, 0, 1)
	booked, err := p.appointments.ListBlocking(ctx, ids, from, to)
	if err != nil {
		return nil, fmt.Errorf("list blocking appointments: %w", err)
	}

	var out []schedule.Plan
	for _, barber := range barbers {
		breaks := schedule.BreaksFrom(breaksByBarber[barber.ID])
		intervals := domain.Intervals(booked, barber.ID)

		for _, day := range days {
			w, err := p.resolver.ResolveComposite(ctx, branchID, barber.ID, day)
			if err != nil {
				return nil, err
			}
			if w == nil {
				continue
			}
			out = append(out, schedule.Plan{
				BarberID:   barber.ID,
				BarberName: barber.Name,
				Day:        day,
				Window:     w,
				Booked:     intervals,
				Breaks:     breaks,
			})
		}
	}
	return out, nil
}

// diagnose explains an empty result, naming the missing configuration.
func (p planner) diagnose(
	ctx context.Context,
	branchID uint,
	barbers []models.Barber,
	from, to string,
) error {

	n, err := p.catalog.CountWeeklyHours(ctx, schedule.ScopeBranch, branchID)
	if err != nil {
		return err
	}
	if n == 0 {
		return errBranchUnconfigured(branchID)
	}

	for _, b := range barbers {
		n, err := p.catalog.CountWeeklyHours(ctx, schedule.ScopeBarber, b.ID)
		if err != nil {
			return err
		}
		if n > 0 {
			return errNoWindow(from, to)
		}
	}
	return errBarberUnconfigured(barbers[0].ID)
}
