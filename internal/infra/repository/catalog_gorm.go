package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/barberia-api/internal/domain/catalog"
	"github.com/BruksfildServices01/barberia-api/internal/domain/schedule"
	"github.com/BruksfildServices01/barberia-api/internal/httperr"
	"github.com/BruksfildServices01/barberia-api/internal/models"
)

type CatalogGormRepository struct {
	db *gorm.DB
}

func NewCatalogGormRepository(db *gorm.DB) *CatalogGormRepository {
	return &CatalogGormRepository{db: db}
}

func notFoundOf(entity string) func(uint) error {
	return func(id uint) error { return catalog.ErrRecordNotFound(entity, id) }
}

// --------------------------------------------------
// Schedule source
// --------------------------------------------------

func (r *CatalogGormRepository) FindException(
	ctx context.Context,
	scope schedule.Scope,
	scopeID uint,
	date string,
) (*models.ScheduleException, error) {
	return findFirst[models.ScheduleException](r.db.WithContext(ctx).
		Where("scope_type = ? AND scope_id = ? AND date = ?", string(scope), scopeID, date))
}

func (r *CatalogGormRepository) FindWeeklyHours(
	ctx context.Context,
	scope schedule.Scope,
	scopeID uint,
	weekday time.Weekday,
) (*schedule.Hours, error) {

	switch scope {
	case schedule.ScopeBranch:
		row, err := findFirst[models.BranchSchedule](r.db.WithContext(ctx).
			Where("branch_id = ? AND weekday = ?", scopeID, int(weekday)))
		if err != nil || row == nil {
			return nil, err
		}
		return &schedule.Hours{Start: row.StartTime, End: row.EndTime}, nil

	case schedule.ScopeBarber:
		row, err := findFirst[models.BarberSchedule](r.db.WithContext(ctx).
			Where("barber_id = ? AND weekday = ?", scopeID, int(weekday)))
		if err != nil || row == nil {
			return nil, err
		}
		return &schedule.Hours{Start: row.StartTime, End: row.EndTime}, nil
	}

	return nil, fmt.Errorf("unknown scope %q", scope)
}

func (r *CatalogGormRepository) CountWeeklyHours(
	ctx context.Context,
	scope schedule.Scope,
	scopeID uint,
) (int64, error) {

	var count int64
	q := r.db.WithContext(ctx)
	switch scope {
	case schedule.ScopeBranch:
		q = q.Model(&models.BranchSchedule{}).Where("branch_id = ?", scopeID)
	case schedule.ScopeBarber:
		q = q.Model(&models.BarberSchedule{}).Where("barber_id = ?", scopeID)
	default:
		return 0, fmt.Errorf("unknown scope %q", scope)
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// --------------------------------------------------
// Branch
// --------------------------------------------------

func (r *CatalogGormRepository) CreateBranch(ctx context.Context, b *models.Branch) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *CatalogGormRepository) GetBranch(ctx context.Context, id uint) (*models.Branch, error) {
	return getByID[models.Branch](r.db.WithContext(ctx), id, catalog.ErrBranchNotFound)
}

func (r *CatalogGormRepository) ListBranches(ctx context.Context) ([]models.Branch, error) {
	var out []models.Branch
	err := r.db.WithContext(ctx).Order("id ASC").Find(&out).Error
	return out, err
}

// --------------------------------------------------
// Barber
// --------------------------------------------------

func (r *CatalogGormRepository) CreateBarber(ctx context.Context, b *models.Barber) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *CatalogGormRepository) GetBarber(ctx context.Context, id uint) (*models.Barber, error) {
	return getByID[models.Barber](r.db.WithContext(ctx), id, catalog.ErrBarberNotFound)
}

func (r *CatalogGormRepository) ListActiveBarbers(ctx context.Context, branchID uint) ([]models.Barber, error) {
	var out []models.Barber
	err := r.db.WithContext(ctx).
		Where("branch_id = ? AND active = ?", branchID, true).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

func (r *CatalogGormRepository) ListBarbers(ctx context.Context, branchID uint) ([]models.Barber, error) {
	q := r.db.WithContext(ctx).Order("id ASC")
	if branchID != 0 {
		q = q.Where("branch_id = ?", branchID)
	}
	var out []models.Barber
	err := q.Find(&out).Error
	return out, err
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *CatalogGormRepository) CreateService(ctx context.Context, s *models.Service) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *CatalogGormRepository) GetService(ctx context.Context, id uint) (*models.Service, error) {
	return getByID[models.Service](r.db.WithContext(ctx), id, catalog.ErrServiceNotFound)
}

func (r *CatalogGormRepository) ListServices(ctx context.Context) ([]models.Service, error) {
	var out []models.Service
	err := r.db.WithContext(ctx).Order("id ASC").Find(&out).Error
	return out, err
}

func (r *CatalogGormRepository) FindServiceByExternalCode(ctx context.Context, code string) (*models.Service, error) {
	return findFirst[models.Service](r.db.WithContext(ctx).Where("external_code = ?", code))
}

func (r *CatalogGormRepository) UpsertServiceByExternalCode(ctx context.Context, s *models.Service) error {
	if s.ExternalCode == nil {
		return httperr.InvalidArgumentf("missing_external_code", "Código externo del servicio requerido")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := findFirst[models.Service](tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("external_code = ?", *s.ExternalCode))
		if err != nil {
			return err
		}
		if existing == nil {
			return tx.Create(s).Error
		}

		s.ID = existing.ID
		s.CreatedAt = existing.CreatedAt
		return tx.Save(s).Error
	})
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (r *CatalogGormRepository) CreateClient(ctx context.Context, c *models.Client) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CatalogGormRepository) GetClient(ctx context.Context, id uint) (*models.Client, error) {
	return getByID[models.Client](r.db.WithContext(ctx), id, catalog.ErrClientNotFound)
}

func (r *CatalogGormRepository) ListClients(ctx context.Context) ([]models.Client, error) {
	var out []models.Client
	err := r.db.WithContext(ctx).Order("id ASC").Find(&out).Error
	return out, err
}

func (r *CatalogGormRepository) FindClientByExternalCode(ctx context.Context, code string) (*models.Client, error) {
	return findFirst[models.Client](r.db.WithContext(ctx).Where("external_code = ?", code))
}

// --------------------------------------------------
// Schedules
// --------------------------------------------------

func (r *CatalogGormRepository) SaveBranchSchedule(ctx context.Context, s *models.BranchSchedule) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "branch_id"}, {Name: "weekday"}},
			DoUpdates: clause.AssignmentColumns([]string{"start_time", "end_time", "updated_at"}),
		}).
		Create(s).Error
}

func (r *CatalogGormRepository) ListBranchSchedules(ctx context.Context, branchID uint) ([]models.BranchSchedule, error) {
	var out []models.BranchSchedule
	err := r.db.WithContext(ctx).Where("branch_id = ?", branchID).Order("weekday ASC").Find(&out).Error
	return out, err
}

func (r *CatalogGormRepository) DeleteBranchSchedule(ctx context.Context, id uint) error {
	return deleteByID[models.BranchSchedule](r.db.WithContext(ctx), id, notFoundOf("branch_schedule"))
}

func (r *CatalogGormRepository) SaveBarberSchedule(ctx context.Context, s *models.BarberSchedule) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "barber_id"}, {Name: "weekday"}},
			DoUpdates: clause.AssignmentColumns([]string{"start_time", "end_time", "updated_at"}),
		}).
		Create(s).Error
}

func (r *CatalogGormRepository) ListBarberSchedules(ctx context.Context, barberID uint) ([]models.BarberSchedule, error) {
	var out []models.BarberSchedule
	err := r.db.WithContext(ctx).Where("barber_id = ?", barberID).Order("weekday ASC").Find(&out).Error
	return out, err
}

func (r *CatalogGormRepository) DeleteBarberSchedule(ctx context.Context, id uint) error {
	return deleteByID[models.BarberSchedule](r.db.WithContext(ctx), id, notFoundOf("barber_schedule"))
}

func (r *CatalogGormRepository) SaveException(ctx context.Context, e *models.ScheduleException) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "scope_type"}, {Name: "scope_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"kind", "start_time", "end_time", "reason", "updated_at"}),
		}).
		Create(e).Error
}

func (r *CatalogGormRepository) ListExceptions(
	ctx context.Context,
	scope schedule.Scope,
	scopeID uint,
) ([]models.ScheduleException, error) {

	var out []models.ScheduleException
	err := r.db.WithContext(ctx).
		Where("scope_type = ? AND scope_id = ?", string(scope), scopeID).
		Order("date ASC").
		Find(&out).Error
	return out, err
}

func (r *CatalogGormRepository) DeleteException(ctx context.Context, id uint) error {
	return deleteByID[models.ScheduleException](r.db.WithContext(ctx), id, notFoundOf("schedule_exception"))
}

func (r *CatalogGormRepository) CreateBreak(ctx context.Context, b *models.BarberBreak) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *CatalogGormRepository) ListBreaks(ctx context.Context, barberIDs ...uint) ([]models.BarberBreak, error) {
	if len(barberIDs) == 0 {
		return nil, nil
	}
	var out []models.BarberBreak
	err := r.db.WithContext(ctx).
		Where("barber_id IN ?", barberIDs).
		Order("barber_id ASC, weekday ASC, start_time ASC").
		Find(&out).Error
	return out, err
}

func (r *CatalogGormRepository) DeleteBreak(ctx context.Context, id uint) error {
	return deleteByID[models.BarberBreak](r.db.WithContext(ctx), id, notFoundOf("barber_break"))
}

// Compile-time check
var _ catalog.Repository = (*CatalogGormRepository)(nil)
