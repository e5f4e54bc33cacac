package memory

import (
	"context"
	"slices"
	"time"

	"github.com/BruksfildServices01/barberia-api/internal/domain/catalog"
	"github.com/BruksfildServices01/barberia-api/internal/domain/schedule"
	"github.com/BruksfildServices01/barberia-api/internal/httperr"
	"github.com/BruksfildServices01/barberia-api/internal/models"
)

var _ catalog.Repository = (*Store)(nil)

// --------------------------------------------------
// Schedule source
// --------------------------------------------------

func (s *Store) FindException(_ context.Context, scope schedule.Scope, scopeID uint, date string) (*models.ScheduleException, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range sortedValues(s.exceptions, nil) {
		if e.ScopeType == string(scope) && e.ScopeID == scopeID && e.Date == date {
			return &e, nil
		}
	}
	return nil, nil
}

func (s *Store) FindWeeklyHours(_ context.Context, scope schedule.Scope, scopeID uint, weekday time.Weekday) (*schedule.Hours, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch scope {
	case schedule.ScopeBranch:
		for _, row := range s.branchSchedules {
			if row.BranchID == scopeID && row.Weekday == int(weekday) {
				return &schedule.Hours{Start: row.StartTime, End: row.EndTime}, nil
			}
		}
	case schedule.ScopeBarber:
		for _, row := range s.barberSchedules {
			if row.BarberID == scopeID && row.Weekday == int(weekday) {
				return &schedule.Hours{Start: row.StartTime, End: row.EndTime}, nil
			}
		}
	}
	return nil, nil
}

func (s *Store) CountWeeklyHours(_ context.Context, scope schedule.Scope, scopeID uint) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	switch scope {
	case schedule.ScopeBranch:
		for _, row := range s.branchSchedules {
			if row.BranchID == scopeID {
				n++
			}
		}
	case schedule.ScopeBarber:
		for _, row := range s.barberSchedules {
			if row.BarberID == scopeID {
				n++
			}
		}
	}
	return n, nil
}

// --------------------------------------------------
// Branch
// --------------------------------------------------

func (s *Store) CreateBranch(_ context.Context, b *models.Branch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = s.next("branches")
	b.CreatedAt, b.UpdatedAt = s.now(), s.now()
	s.branches[b.ID] = *b
	return nil
}

func (s *Store) GetBranch(_ context.Context, id uint) (*models.Branch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.branches[id]
	if !ok {
		return nil, catalog.ErrBranchNotFound(id)
	}
	return &b, nil
}

func (s *Store) ListBranches(_ context.Context) ([]models.Branch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.branches, nil), nil
}

// --------------------------------------------------
// Barber
// --------------------------------------------------

func (s *Store) CreateBarber(_ context.Context, b *models.Barber) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = s.next("barbers")
	b.CreatedAt, b.UpdatedAt = s.now(), s.now()
	s.barbers[b.ID] = *b
	return nil
}

func (s *Store) GetBarber(_ context.Context, id uint) (*models.Barber, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.barbers[id]
	if !ok {
		return nil, catalog.ErrBarberNotFound(id)
	}
	return &b, nil
}

func (s *Store) ListActiveBarbers(_ context.Context, branchID uint) ([]models.Barber, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.barbers, func(b models.Barber) bool {
		return b.Active && b.BranchID != nil && *b.BranchID == branchID
	}), nil
}

func (s *Store) ListBarbers(_ context.Context, branchID uint) ([]models.Barber, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.barbers, func(b models.Barber) bool {
		return branchID == 0 || (b.BranchID != nil && *b.BranchID == branchID)
	}), nil
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (s *Store) CreateService(_ context.Context, svc *models.Service) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	svc.ID = s.next("services")
	svc.CreatedAt, svc.UpdatedAt = s.now(), s.now()
	s.services[svc.ID] = *svc
	return nil
}

func (s *Store) GetService(_ context.Context, id uint) (*models.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	svc, ok := s.services[id]
	if !ok {
		return nil, catalog.ErrServiceNotFound(id)
	}
	return &svc, nil
}

func (s *Store) ListServices(_ context.Context) ([]models.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.services, nil), nil
}

func (s *Store) FindServiceByExternalCode(_ context.Context, code string) (*models.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.serviceByCodeLocked(code), nil
}

func (s *Store) serviceByCodeLocked(code string) *models.Service {
	for _, svc := range sortedValues(s.services, nil) {
		if svc.ExternalCode != nil && *svc.ExternalCode == code {
			return &svc
		}
	}
	return nil
}

func (s *Store) UpsertServiceByExternalCode(_ context.Context, svc *models.Service) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if svc.ExternalCode == nil {
		return httperr.InvalidArgumentf("missing_external_code", "Código externo del servicio requerido")
	}
	if existing := s.serviceByCodeLocked(*svc.ExternalCode); existing != nil {
		svc.ID = existing.ID
		svc.CreatedAt = existing.CreatedAt
	} else {
		svc.ID = s.next("services")
		svc.CreatedAt = s.now()
	}
	svc.UpdatedAt = s.now()
	s.services[svc.ID] = *svc
	return nil
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (s *Store) CreateClient(_ context.Context, c *models.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.next("clients")
	c.CreatedAt, c.UpdatedAt = s.now(), s.now()
	s.clients[c.ID] = *c
	return nil
}

func (s *Store) GetClient(_ context.Context, id uint) (*models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clients[id]
	if !ok {
		return nil, catalog.ErrClientNotFound(id)
	}
	return &c, nil
}

func (s *Store) ListClients(_ context.Context) ([]models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.clients, nil), nil
}

func (s *Store) FindClientByExternalCode(_ context.Context, code string) (*models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range sortedValues(s.clients, nil) {
		if c.ExternalCode == code {
			return &c, nil
		}
	}
	return nil, nil
}

// --------------------------------------------------
// Schedules
// --------------------------------------------------

func (s *Store) SaveBranchSchedule(_ context.Context, row *models.BranchSchedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, existing := range s.branchSchedules {
		if existing.BranchID == row.BranchID && existing.Weekday == row.Weekday {
			row.ID, row.CreatedAt = id, existing.CreatedAt
		}
	}
	if row.ID == 0 {
		row.ID = s.next("branch_schedules")
		row.CreatedAt = s.now()
	}
	row.UpdatedAt = s.now()
	s.branchSchedules[row.ID] = *row
	return nil
}

func (s *Store) ListBranchSchedules(_ context.Context, branchID uint) ([]models.BranchSchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.branchSchedules, func(r models.BranchSchedule) bool { return r.BranchID == branchID }), nil
}

func (s *Store) DeleteBranchSchedule(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.branchSchedules[id]; !ok {
		return catalog.ErrRecordNotFound("branch_schedule", id)
	}
	delete(s.branchSchedules, id)
	return nil
}

func (s *Store) SaveBarberSchedule(_ context.Context, row *models.BarberSchedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, existing := range s.barberSchedules {
		if existing.BarberID == row.BarberID && existing.Weekday == row.Weekday {
			row.ID, row.CreatedAt = id, existing.CreatedAt
		}
	}
	if row.ID == 0 {
		row.ID = s.next("barber_schedules")
		row.CreatedAt = s.now()
	}
	row.UpdatedAt = s.now()
	s.barberSchedules[row.ID] = *row
	return nil
}

func (s *Store) ListBarberSchedules(_ context.Context, barberID uint) ([]models.BarberSchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.barberSchedules, func(r models.BarberSchedule) bool { return r.BarberID == barberID }), nil
}

func (s *Store) DeleteBarberSchedule(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.barberSchedules[id]; !ok {
		return catalog.ErrRecordNotFound("barber_schedule", id)
	}
	delete(s.barberSchedules, id)
	return nil
}

func (s *Store) SaveException(_ context.Context, e *models.ScheduleException) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, existing := range s.exceptions {
		if existing.ScopeType == e.ScopeType && existing.ScopeID == e.ScopeID && existing.Date == e.Date {
			e.ID, e.CreatedAt = id, existing.CreatedAt
		}
	}
	if e.ID == 0 {
		e.ID = s.next("exceptions")
		e.CreatedAt = s.now()
	}
	e.UpdatedAt = s.now()
	s.exceptions[e.ID] = *e
	return nil
}

func (s *Store) ListExceptions(_ context.Context, scope schedule.Scope, scopeID uint) ([]models.ScheduleException, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.exceptions, func(e models.ScheduleException) bool {
		return e.ScopeType == string(scope) && e.ScopeID == scopeID
	}), nil
}

func (s *Store) DeleteException(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.exceptions[id]; !ok {
		return catalog.ErrRecordNotFound("schedule_exception", id)
	}
	delete(s.exceptions, id)
	return nil
}

func (s *Store) CreateBreak(_ context.Context, b *models.BarberBreak) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = s.next("breaks")
	b.CreatedAt, b.UpdatedAt = s.now(), s.now()
	s.breaks[b.ID] = *b
	return nil
}

func (s *Store) ListBreaks(_ context.Context, barberIDs ...uint) ([]models.BarberBreak, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.breaks, func(b models.BarberBreak) bool {
		return slices.Contains(barberIDs, b.BarberID)
	}), nil
}

func (s *Store) DeleteBreak(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.breaks[id]; !ok {
		return catalog.ErrRecordNotFound("barber_break", id)
	}
	delete(s.breaks, id)
	return nil
}
