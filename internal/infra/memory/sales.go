package memory

import (
	"context"

	"github.com/BruksfildServices01/barberia-api/internal/domain/catalog"
	"github.com/BruksfildServices01/barberia-api/internal/domain/sale"
	"github.com/BruksfildServices01/barberia-api/internal/httperr"
	"github.com/BruksfildServices01/barberia-api/internal/models"
)

var _ sale.Repository = (*Store)(nil)

func (s *Store) CreateSale(_ context.Context, sl *models.Sale, lines []models.SaleLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.sales {
		if existing.OrderCode == sl.OrderCode {
			return httperr.Conflictf("duplicate_order_code", "El código de orden %s ya existe", sl.OrderCode)
		}
	}

	sl.ID = s.next("sales")
	sl.CreatedAt, sl.UpdatedAt = s.now(), s.now()
	s.sales[sl.ID] = *sl

	for i := range lines {
		lines[i].ID = s.next("sale_lines")
		lines[i].SaleID = sl.ID
		lines[i].CreatedAt = s.now()
		s.saleLines[lines[i].ID] = lines[i]
	}
	return nil
}

func (s *Store) GetSale(_ context.Context, id uint) (*models.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sl, ok := s.sales[id]
	if !ok {
		return nil, sale.ErrNotFound(id)
	}
	return &sl, nil
}

func (s *Store) TransitionSale(_ context.Context, sl *models.Sale, from ...sale.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.sales[sl.ID]
	if !ok {
		return sale.ErrNotFound(sl.ID)
	}
	if !sale.StatusIn(cur.Status, from...) {
		return sale.ErrStateChanged(sl.ID)
	}

	cur.Status = sl.Status
	cur.Comments = sl.Comments
	cur.ConfirmationCode = sl.ConfirmationCode
	cur.UpdatedAt = s.now()
	s.sales[sl.ID] = cur
	*sl = cur
	return nil
}

func (s *Store) ListLines(_ context.Context, saleID uint) ([]models.SaleLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.saleLines, func(l models.SaleLine) bool { return l.SaleID == saleID }), nil
}

func (s *Store) CreateTransaction(_ context.Context, tx *models.PaymentTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx.ID = s.next("payment_transactions")
	tx.CreatedAt, tx.UpdatedAt = s.now(), s.now()
	s.transactions[tx.ID] = *tx
	return nil
}

func (s *Store) UpdateTransaction(_ context.Context, tx *models.PaymentTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.transactions[tx.ID]; !ok {
		return catalog.ErrRecordNotFound("payment_transaction", tx.ID)
	}
	tx.UpdatedAt = s.now()
	s.transactions[tx.ID] = *tx
	return nil
}

func (s *Store) ListTransactions(_ context.Context, saleID uint) ([]models.PaymentTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.transactions, func(tx models.PaymentTransaction) bool { return tx.SaleID == saleID }), nil
}
