package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/barberia-api/internal/domain/sale"
	"github.com/BruksfildServices01/barberia-api/internal/models"
)

type SaleGormRepository struct {
	db *gorm.DB
}

func NewSaleGormRepository(db *gorm.DB) *SaleGormRepository {
	return &SaleGormRepository{db: db}
}

// --------------------------------------------------
// Sale
// --------------------------------------------------

func (r *SaleGormRepository) CreateSale(
	ctx context.Context,
	s *models.Sale,
	lines []models.SaleLine,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(s).Error; err != nil {
			return err
		}
		for i := range lines {
			lines[i].SaleID = s.ID
		}
		if len(lines) == 0 {
			return nil
		}
		return tx.Create(&lines).Error
	})
}

func (r *SaleGormRepository) GetSale(ctx context.Context, id uint) (*models.Sale, error) {
	return getByID[models.Sale](r.db.WithContext(ctx), id, sale.ErrNotFound)
}

// TransitionSale only matches the row while its status is one of from,
// so two payments cannot both claim a PENDING sale.
func (r *SaleGormRepository) TransitionSale(ctx context.Context, s *models.Sale, from ...sale.Status) error {
	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Where("id = ? AND status IN ?", s.ID, sale.StatusValues(from...)).
		Updates(map[string]any{
			"status":            s.Status,
			"comments":          s.Comments,
			"confirmation_code": s.ConfirmationCode,
			"updated_at":        now,
		})
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		if _, err := r.GetSale(ctx, s.ID); err != nil {
			return err
		}
		return sale.ErrStateChanged(s.ID)
	}

	s.UpdatedAt = now
	return nil
}

func (r *SaleGormRepository) ListLines(ctx context.Context, saleID uint) ([]models.SaleLine, error) {
	var out []models.SaleLine
	err := r.db.WithContext(ctx).Where("sale_id = ?", saleID).Order("id ASC").Find(&out).Error
	return out, err
}

// --------------------------------------------------
// Payment transactions
// --------------------------------------------------

func (r *SaleGormRepository) CreateTransaction(ctx context.Context, tx *models.PaymentTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

func (r *SaleGormRepository) UpdateTransaction(ctx context.Context, tx *models.PaymentTransaction) error {
	return r.db.WithContext(ctx).Save(tx).Error
}

func (r *SaleGormRepository) ListTransactions(ctx context.Context, saleID uint) ([]models.PaymentTransaction, error) {
	var out []models.PaymentTransaction
	err := r.db.WithContext(ctx).Where("sale_id = ?", saleID).Order("id ASC").Find(&out).Error
	return out, err
}

// Compile-time check
var _ sale.Repository = (*SaleGormRepository)(nil)
