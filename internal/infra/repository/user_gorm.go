package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barberia-api/internal/audit"
	"github.com/BruksfildServices01/barberia-api/internal/auth"
	"github.com/BruksfildServices01/barberia-api/internal/httperr"
	"github.com/BruksfildServices01/barberia-api/internal/models"
)

type UserGormRepository struct {
	db *gorm.DB
}

func NewUserGormRepository(db *gorm.DB) *UserGormRepository {
	return &UserGormRepository{db: db}
}

// --------------------------------------------------
// Users
// --------------------------------------------------

func (r *UserGormRepository) CreateUser(ctx context.Context, u *models.User) error {
	err := r.db.WithContext(ctx).Create(u).Error
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return httperr.Conflictf("email_taken", "El email %s ya está registrado", u.Email)
	}
	return err
}

func (r *UserGormRepository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return findFirst[models.User](r.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)))
}

func (r *UserGormRepository) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return getByID[models.User](r.db.WithContext(ctx), id, func(id uint) error {
		return httperr.NotFoundf("user_not_found", "Usuario %d no encontrado", id)
	})
}

// --------------------------------------------------
// Audit logs
// --------------------------------------------------

func (r *UserGormRepository) SaveAuditLog(ctx context.Context, l *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *UserGormRepository) ListAuditLogs(ctx context.Context, f audit.Filter) ([]models.AuditLog, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.Entity != "" {
		q = q.Where("entity = ?", f.Entity)
	}
	if !f.From.IsZero() {
		q = q.Where("created_at >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("created_at < ?", f.To)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	var out []models.AuditLog
	err := q.Find(&out).Error
	return out, err
}

// Compile-time checks
var (
	_ auth.UserStore = (*UserGormRepository)(nil)
	_ audit.Store    = (*UserGormRepository)(nil)
)
