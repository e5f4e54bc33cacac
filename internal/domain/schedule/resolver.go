package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/BruksfildServices01/barberia-api/internal/models"
)

type Scope string

const (
	ScopeBranch Scope = models.ScopeBranch
	ScopeBarber Scope = models.ScopeBarber
)

// Hours is a recurring weekly row as stored.
type Hours struct {
	Start string
	End   string
}

// Source is the read side the resolver needs. Both lookups return nil and
// no error when nothing is configured.
type Source interface {
	FindException(ctx context.Context, scope Scope, scopeID uint, date string) (*models.ScheduleException, error)
	FindWeeklyHours(ctx context.Context, scope Scope, scopeID uint, weekday time.Weekday) (*Hours, error)
}

type Resolver struct {
	src Source
}

func NewResolver(src Source) *Resolver {
	return &Resolver{src: src}
}

// ResolveWindow returns the effective window of one scope on day, or nil
// when the scope does not work that day.
func (r *Resolver) ResolveWindow(ctx context.Context, scope Scope, scopeID uint, day time.Time) (*Window, error) {
	exc, err := r.src.FindException(ctx, scope, scopeID, day.Format(time.DateOnly))
	if err != nil {
		return nil, fmt.Errorf("find exception: %w", err)
	}
	if exc != nil {
		switch exc.Kind {
		case models.ExceptionClosed:
			return nil, nil
		case models.ExceptionSpecialHours:
			if exc.StartTime == nil || exc.EndTime == nil {
				return nil, nil
			}
			w, err := NewWindow(*exc.StartTime, *exc.EndTime)
			if err != nil {
				return nil, fmt.Errorf("exception %d: %w", exc.ID, err)
			}
			return &w, nil
		}
	}

	hours, err := r.src.FindWeeklyHours(ctx, scope, scopeID, day.Weekday())
	if err != nil {
		return nil, fmt.Errorf("find weekly hours: %w", err)
	}
	if hours == nil {
		return nil, nil
	}
	w, err := NewWindow(hours.Start, hours.End)
	if err != nil {
		return nil, fmt.Errorf("%s %d weekday %d: %w", scope, scopeID, day.Weekday(), err)
	}
	return &w, nil
}

// ResolveComposite intersects the branch and barber windows of day.
func (r *Resolver) ResolveComposite(ctx context.Context, branchID, barberID uint, day time.Time) (*Window, error) {
	branch, err := r.ResolveWindow(ctx, ScopeBranch, branchID, day)
	if err != nil || branch == nil {
		return nil, err
	}
	barber, err := r.ResolveWindow(ctx, ScopeBarber, barberID, day)
	if err != nil || barber == nil {
		return nil, err
	}
	return Intersect(branch, barber), nil
}
