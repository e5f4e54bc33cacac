package sale

import (
	"context"
	"slices"
	"strings"

	"github.com/BruksfildServices01/barberia-api/internal/httperr"
	"github.com/BruksfildServices01/barberia-api/internal/models"
)

type Status string

const (
	StatusPending Status = "PENDING"
	// StatusProcessing marks a sale whose charge is in flight. Only the
	// payment that claimed it may move it on.
	StatusProcessing Status = "PROCESSING"
	StatusPaid       Status = "PAID"
	StatusCancelled  Status = "CANCELLED"
)

// ParseStatus accepts the partner's Spanish codes as well as our own. An
// empty value means PENDING.
func ParseStatus(raw string) (Status, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "", "PENDING", "PENDIENTE":
		return StatusPending, nil
	case "PAID", "PAGADA", "PAGADO":
		return StatusPaid, nil
	case "CANCELLED", "CANCELED", "CANCELADA", "CANCELADO":
		return StatusCancelled, nil
	default:
		return "", httperr.InvalidArgumentf("invalid_payment_status",
			"Estado de venta %q no reconocido. Estados disponibles: PENDIENTE, PAGADA, CANCELADA", raw)
	}
}

type Repository interface {
	// CreateSale stores the sale and its lines in one transaction.
	CreateSale(ctx context.Context, s *models.Sale, lines []models.SaleLine) error
	GetSale(ctx context.Context, id uint) (*models.Sale, error)
	// TransitionSale writes status, comments and confirmation code only
	// while the stored status is one of from; otherwise ErrStateChanged.
	TransitionSale(ctx context.Context, s *models.Sale, from ...Status) error
	ListLines(ctx context.Context, saleID uint) ([]models.SaleLine, error)

	CreateTransaction(ctx context.Context, tx *models.PaymentTransaction) error
	UpdateTransaction(ctx context.Context, tx *models.PaymentTransaction) error
	ListTransactions(ctx context.Context, saleID uint) ([]models.PaymentTransaction, error)
}

func ErrNotFound(id uint) error {
	return httperr.NotFoundf("sale_not_found", "Venta %d no encontrada", id)
}

func ErrStateChanged(id uint) error {
	return httperr.Conflictf("sale_state_changed", "La venta %d cambió de estado, intente de nuevo", id)
}

func IsStateChanged(err error) bool {
	return httperr.IsBusiness(err, "sale_state_changed")
}

func ErrPaymentInProgress(id uint) error {
	return httperr.Conflictf("payment_in_progress", "La venta %d tiene un pago en curso", id)
}

// StatusValues lists the statuses as stored, for query filters.
func StatusValues(in ...Status) []string {
	out := make([]string, len(in))
	for i, st := range in {
		out[i] = string(st)
	}
	return out
}

func StatusIn(raw string, in ...Status) bool {
	return slices.Contains(StatusValues(in...), raw)
}
