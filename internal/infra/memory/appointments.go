package memory

import (
	"context"
	"slices"
	"time"

	domain "github.com/BruksfildServices01/barberia-api/internal/domain/appointment"
	"github.com/BruksfildServices01/barberia-api/internal/models"
)

var _ domain.Repository = (*Store)(nil)

func (s *Store) Reserve(_ context.Context, ap *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.appointments {
		if existing.BarberID == ap.BarberID && domain.Overlaps(existing, ap.StartTime, ap.EndTime) {
			return domain.ErrSlotTaken()
		}
	}

	ap.ID = s.next("appointments")
	ap.CreatedAt, ap.UpdatedAt = s.now(), s.now()
	s.appointments[ap.ID] = *ap
	return nil
}

func (s *Store) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ap, ok := s.appointments[id]
	if !ok {
		return nil, domain.ErrNotFound(id)
	}
	return &ap, nil
}

func (s *Store) TransitionAppointment(_ context.Context, ap *models.Appointment, from domain.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.appointments[ap.ID]
	if !ok {
		return domain.ErrNotFound(ap.ID)
	}
	if cur.Status != string(from) {
		return domain.ErrStateChanged(ap.ID)
	}

	cur.Status = ap.Status
	cur.ConfirmedAt = ap.ConfirmedAt
	cur.CancelledAt = ap.CancelledAt
	cur.CancelReason = ap.CancelReason
	cur.UpdatedAt = s.now()
	s.appointments[ap.ID] = cur
	*ap = cur
	return nil
}

func (s *Store) ListBlocking(_ context.Context, barberIDs []uint, from, to time.Time) ([]models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := sortedValues(s.appointments, func(ap models.Appointment) bool {
		return slices.Contains(barberIDs, ap.BarberID) && domain.Overlaps(ap, from, to)
	})
	sortByStart(out)
	return out, nil
}

func (s *Store) ListForBarber(_ context.Context, barberID uint, from, to time.Time) ([]models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := sortedValues(s.appointments, func(ap models.Appointment) bool {
		return ap.BarberID == barberID && !ap.StartTime.Before(from) && ap.StartTime.Before(to)
	})
	sortByStart(out)
	return out, nil
}

func (s *Store) FindNear(_ context.Context, branchID, serviceID, clientID uint, at time.Time, tolerance time.Duration) (*models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lo, hi := at.Add(-tolerance), at.Add(tolerance)
	for _, ap := range sortedValues(s.appointments, nil) {
		if ap.BranchID != branchID || ap.ServiceID != serviceID || ap.ClientID == nil || *ap.ClientID != clientID {
			continue
		}
		if ap.Status == string(domain.StatusCancelled) {
			continue
		}
		if !ap.StartTime.Before(lo) && !ap.StartTime.After(hi) {
			return &ap, nil
		}
	}
	return nil, nil
}

func sortByStart(aps []models.Appointment) {
	slices.SortStableFunc(aps, func(a, b models.Appointment) int {
		return a.StartTime.Compare(b.StartTime)
	})
}
