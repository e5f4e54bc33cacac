package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/barberia-api/internal/domain/appointment"
	"github.com/BruksfildServices01/barberia-api/internal/domain/catalog"
	"github.com/BruksfildServices01/barberia-api/internal/httperr"
	"github.com/BruksfildServices01/barberia-api/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Reserve
// --------------------------------------------------

// Reserve locks the barber row so concurrent reservations of the same
// barber queue up, re-checks overlap and inserts. The exclusion constraint
// on appointments is the last line if the row lock is bypassed.
func (r *AppointmentGormRepository) Reserve(
	ctx context.Context,
	ap *models.Appointment,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var barber models.Barber
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&barber, ap.BarberID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return catalog.ErrBarberNotFound(ap.BarberID)
		}
		if err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Appointment{}).
			Where(
				"barber_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
				ap.BarberID,
				domain.BlockingStatuses,
				ap.EndTime,
				ap.StartTime,
			).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrSlotTaken()
		}

		if err := tx.Create(ap).Error; err != nil {
			if httperr.IsExclusionConflict(err) {
				return domain.ErrSlotTaken()
			}
			return err
		}
		return nil
	})
}

// --------------------------------------------------
// Appointment (state change)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {
	return getByID[models.Appointment](r.db.WithContext(ctx), id, domain.ErrNotFound)
}

// TransitionAppointment is a compare-and-set on status: a concurrent
// transition that committed first leaves zero rows matched.
func (r *AppointmentGormRepository) TransitionAppointment(
	ctx context.Context,
	ap *models.Appointment,
	from domain.Status,
) error {

	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND status = ?", ap.ID, string(from)).
		Updates(map[string]any{
			"status":        ap.Status,
			"confirmed_at":  ap.ConfirmedAt,
			"cancelled_at":  ap.CancelledAt,
			"cancel_reason": ap.CancelReason,
			"updated_at":    now,
		})
	if res.Error != nil {
		if httperr.IsExclusionConflict(res.Error) {
			return domain.ErrSlotTaken()
		}
		return res.Error
	}

	if res.RowsAffected == 0 {
		if _, err := r.GetAppointment(ctx, ap.ID); err != nil {
			return err
		}
		return domain.ErrStateChanged(ap.ID)
	}

	ap.UpdatedAt = now
	return nil
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *AppointmentGormRepository) ListBlocking(
	ctx context.Context,
	barberIDs []uint,
	from time.Time,
	to time.Time,
) ([]models.Appointment, error) {

	if len(barberIDs) == 0 {
		return nil, nil
	}

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where(
			"barber_id IN ? AND status IN ? AND start_time < ? AND end_time > ?",
			barberIDs, domain.BlockingStatuses, to, from,
		).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

func (r *AppointmentGormRepository) ListForBarber(
	ctx context.Context,
	barberID uint,
	from time.Time,
	to time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	err := r.db.WithContext(ctx).
		Where(
			"barber_id = ? AND start_time >= ? AND start_time < ?",
			barberID,
			from,
			to,
		).
		Order("start_time ASC").
		Find(&apps).Error

	if err != nil {
		return nil, err
	}

	return apps, nil
}

func (r *AppointmentGormRepository) FindNear(
	ctx context.Context,
	branchID uint,
	serviceID uint,
	clientID uint,
	at time.Time,
	tolerance time.Duration,
) (*models.Appointment, error) {

	return findFirst[models.Appointment](r.db.WithContext(ctx).
		Where(
			"branch_id = ? AND service_id = ? AND client_id = ? AND status <> ? AND start_time BETWEEN ? AND ?",
			branchID,
			serviceID,
			clientID,
			string(domain.StatusCancelled),
			at.Add(-tolerance),
			at.Add(tolerance),
		))
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
