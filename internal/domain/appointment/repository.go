package appointment

import (
	"context"
	"strconv"
	"time"

	"github.com/BruksfildServices01/barberia-api/internal/httperr"
	"github.com/BruksfildServices01/barberia-api/internal/models"
)

type Repository interface {
	// -------- Appointment (create / conflict) --------

	// Reserve inserts ap unless a blocking appointment of the same barber
	// overlaps it. The check and the insert are atomic; the loser of a
	// race gets ErrSlotTaken.
	Reserve(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Appointment (state change) --------
	GetAppointment(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	// TransitionAppointment persists ap's status fields only while the
	// stored status is still from; otherwise it returns ErrStateChanged.
	TransitionAppointment(
		ctx context.Context,
		ap *models.Appointment,
		from Status,
	) error

	// -------- Availability --------

	// ListBlocking returns RESERVED/CONFIRMED appointments of the barbers
	// that overlap [from, to).
	ListBlocking(
		ctx context.Context,
		barberIDs []uint,
		from time.Time,
		to time.Time,
	) ([]models.Appointment, error)

	// ListForBarber returns every appointment of the barber starting in
	// [from, to), cancelled ones included.
	ListForBarber(
		ctx context.Context,
		barberID uint,
		from time.Time,
		to time.Time,
	) ([]models.Appointment, error)

	// FindNear returns a live appointment of the same service, client and
	// branch starting within tolerance of at, or nil.
	FindNear(
		ctx context.Context,
		branchID uint,
		serviceID uint,
		clientID uint,
		at time.Time,
		tolerance time.Duration,
	) (*models.Appointment, error)
}

// Locker serializes reservations of one barber across processes.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(context.Context) error, err error)
}

func LockKey(barberID uint) string {
	return "booking:barber:" + strconv.FormatUint(uint64(barberID), 10)
}

func ErrNotFound(id uint) error {
	return httperr.NotFoundf("appointment_not_found", "Cita %d no encontrada", id)
}

func ErrStateChanged(id uint) error {
	return httperr.Conflictf("state_changed", "La cita %d cambió de estado, intente de nuevo", id)
}

func IsStateChanged(err error) bool {
	return httperr.IsBusiness(err, "state_changed")
}

func ErrSlotTaken() error {
	return httperr.Conflictf("slot_taken", "El horario ya fue reservado por alguien más")
}
