package memory

import (
	"cmp"
	"slices"
	"sync"
	"time"

	"github.com/BruksfildServices01/barberia-api/internal/models"
)

// Store keeps every table in process memory behind one mutex. It backs
// STORAGE=memory and the use-case tests; a single lock makes the
// reservation check-then-insert trivially atomic.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	seq map[string]uint

	branches        map[uint]models.Branch
	barbers         map[uint]models.Barber
	services        map[uint]models.Service
	clients         map[uint]models.Client
	branchSchedules map[uint]models.BranchSchedule
	barberSchedules map[uint]models.BarberSchedule
	exceptions      map[uint]models.ScheduleException
	breaks          map[uint]models.BarberBreak

	appointments map[uint]models.Appointment

	sales        map[uint]models.Sale
	saleLines    map[uint]models.SaleLine
	transactions map[uint]models.PaymentTransaction

	users     map[uint]models.User
	auditLogs []models.AuditLog
}

func NewStore() *Store {
	return &Store{
		now:             time.Now,
		seq:             map[string]uint{},
		branches:        map[uint]models.Branch{},
		barbers:         map[uint]models.Barber{},
		services:        map[uint]models.Service{},
		clients:         map[uint]models.Client{},
		branchSchedules: map[uint]models.BranchSchedule{},
		barberSchedules: map[uint]models.BarberSchedule{},
		exceptions:      map[uint]models.ScheduleException{},
		breaks:          map[uint]models.BarberBreak{},
		appointments:    map[uint]models.Appointment{},
		sales:           map[uint]models.Sale{},
		saleLines:       map[uint]models.SaleLine{},
		transactions:    map[uint]models.PaymentTransaction{},
		users:           map[uint]models.User{},
	}
}

// next must be called with the write lock held.
func (s *Store) next(table string) uint {
	s.seq[table]++
	return s.seq[table]
}

// sortedValues returns map values ordered by ascending id.
func sortedValues[T any](m map[uint]T, keep func(T) bool) []T {
	ids := make([]uint, 0, len(m))
	for id, v := range m {
		if keep == nil || keep(v) {
			ids = append(ids, id)
		}
	}
	slices.SortFunc(ids, cmp.Compare[uint])

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, m[id])
	}
	return out
}
