package catalog

import (
	"context"

	"github.com/BruksfildServices01/barberia-api/internal/domain/schedule"
	"github.com/BruksfildServices01/barberia-api/internal/httperr"
	"github.com/BruksfildServices01/barberia-api/internal/models"
)

// Repository covers branches, barbers, services, clients and their
// schedule configuration. Getters return a NotFound business error when
// the row does not exist; Find* methods return nil without error.
type Repository interface {
	schedule.Source

	// -------- Branch --------
	CreateBranch(ctx context.Context, b *models.Branch) error
	GetBranch(ctx context.Context, id uint) (*models.Branch, error)
	ListBranches(ctx context.Context) ([]models.Branch, error)

	// -------- Barber --------
	CreateBarber(ctx context.Context, b *models.Barber) error
	GetBarber(ctx context.Context, id uint) (*models.Barber, error)
	// ListActiveBarbers is ordered by ascending id.
	ListActiveBarbers(ctx context.Context, branchID uint) ([]models.Barber, error)
	ListBarbers(ctx context.Context, branchID uint) ([]models.Barber, error)

	// -------- Service --------
	CreateService(ctx context.Context, s *models.Service) error
	GetService(ctx context.Context, id uint) (*models.Service, error)
	ListServices(ctx context.Context) ([]models.Service, error)
	FindServiceByExternalCode(ctx context.Context, code string) (*models.Service, error)
	// UpsertServiceByExternalCode refreshes the first service carrying the
	// same external code or creates it. s receives the stored row.
	UpsertServiceByExternalCode(ctx context.Context, s *models.Service) error

	// -------- Client --------
	CreateClient(ctx context.Context, c *models.Client) error
	GetClient(ctx context.Context, id uint) (*models.Client, error)
	ListClients(ctx context.Context) ([]models.Client, error)
	FindClientByExternalCode(ctx context.Context, code string) (*models.Client, error)

	// -------- Schedules --------
	// SaveBranchSchedule replaces the row of the same (branch, weekday).
	SaveBranchSchedule(ctx context.Context, s *models.BranchSchedule) error
	ListBranchSchedules(ctx context.Context, branchID uint) ([]models.BranchSchedule, error)
	DeleteBranchSchedule(ctx context.Context, id uint) error

	SaveBarberSchedule(ctx context.Context, s *models.BarberSchedule) error
	ListBarberSchedules(ctx context.Context, barberID uint) ([]models.BarberSchedule, error)
	DeleteBarberSchedule(ctx context.Context, id uint) error

	// SaveException replaces the row of the same (scope, scope id, date).
	SaveException(ctx context.Context, e *models.ScheduleException) error
	ListExceptions(ctx context.Context, scope schedule.Scope, scopeID uint) ([]models.ScheduleException, error)
	DeleteException(ctx context.Context, id uint) error

	CreateBreak(ctx context.Context, b *models.BarberBreak) error
	ListBreaks(ctx context.Context, barberIDs ...uint) ([]models.BarberBreak, error)
	DeleteBreak(ctx context.Context, id uint) error

	// CountWeeklyHours tells "never configured" apart from "closed today".
	CountWeeklyHours(ctx context.Context, scope schedule.Scope, scopeID uint) (int64, error)
}

func ErrBranchNotFound(id uint) error {
	return httperr.NotFoundf("branch_not_found", "Sucursal %d no encontrada", id)
}

func ErrBarberNotFound(id uint) error {
	return httperr.NotFoundf("barber_not_found", "Barbero %d no encontrado", id)
}

func ErrServiceNotFound(id uint) error {
	return httperr.NotFoundf("service_not_found", "Servicio %d no encontrado", id)
}

func ErrClientNotFound(id uint) error {
	return httperr.NotFoundf("client_not_found", "Cliente %d no encontrado", id)
}

func ErrRecordNotFound(entity string, id uint) error {
	return httperr.NotFoundf(entity+"_not_found", "Registro %s %d no encontrado", entity, id)
}
