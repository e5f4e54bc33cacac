package sale

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barberia-api/internal/audit"
	"github.com/BruksfildServices01/barberia-api/internal/domain/catalog"
	"github.com/BruksfildServices01/barberia-api/internal/domain/payment"
	"github.com/BruksfildServices01/barberia-api/internal/domain/sale"
	"github.com/BruksfildServices01/barberia-api/internal/httperr"
	"github.com/BruksfildServices01/barberia-api/internal/models"
	"github.com/BruksfildServices01/barberia-api/internal/usecase/appointment"
)

const defaultPaymentTimeout = 10 * time.Second

// Archiver keeps a copy of raw gateway payloads outside the database.
type Archiver interface {
	Archive(ctx context.Context, key string, body []byte) error
}

type PayInput struct {
	SaleID uint
	// Amount overrides the sale's net total when positive.
	Amount float64
	Card   payment.Card
}

type PaySale struct {
	catalog   catalog.Repository
	sales     sale.Repository
	processor payment.Processor
	archive   Archiver
	confirm   *appointment.ConfirmAppointment
	cancel    *appointment.CancelAppointment
	audit     *audit.Dispatcher
	log       *slog.Logger
	timeout   time.Duration
}

// NewPaySale accepts a nil archiver. A non-positive timeout means 10s.
func NewPaySale(
	cat catalog.Repository,
	sales sale.Repository,
	processor payment.Processor,
	archive Archiver,
	confirm *appointment.ConfirmAppointment,
	cancel *appointment.CancelAppointment,
	audit *audit.Dispatcher,
	log *slog.Logger,
	timeout time.Duration,
) *PaySale {
	if timeout <= 0 {
		timeout = defaultPaymentTimeout
	}
	if log == nil {
		log = slog.Default()
	}
	return &PaySale{
		catalog:   cat,
		sales:     sales,
		processor: processor,
		archive:   archive,
		confirm:   confirm,
		cancel:    cancel,
		audit:     audit,
		log:       log,
		timeout:   timeout,
	}
}

func (uc *PaySale) Execute(ctx context.Context, in PayInput) (*models.PaymentTransaction, error) {

	// --------------------------------------------------
	// 1. Sale with client and branch
	// --------------------------------------------------
	s, err := uc.sales.GetSale(ctx, in.SaleID)
	if err != nil {
		return nil, err
	}
	if err := requirePending(s); err != nil {
		return nil, err
	}
	client, err := uc.catalog.GetClient(ctx, s.ClientID)
	if err != nil {
		return nil, err
	}
	branch, err := uc.catalog.GetBranch(ctx, s.BranchID)
	if err != nil {
		return nil, err
	}

	card := in.Card
	if strings.TrimSpace(card.Number) == "" && strings.TrimSpace(card.Token) == "" {
		return nil, httperr.InvalidArgumentf("missing_card", "Debes proporcionar NumeroTarjetaOrigen para iniciar el pago")
	}
	if card.Holder == "" {
		card.Holder = client.Name
	}
	if card.Email == "" {
		card.Email = client.Email
	}

	amount := s.TotalNet
	if in.Amount > 0 {
		amount = in.Amount
	}
	if amount <= 0 {
		return nil, httperr.InvalidArgumentf("invalid_amount", "El monto debe ser mayor a 0")
	}

	// --------------------------------------------------
	// 2. Claim the sale, then a PENDING transaction
	// --------------------------------------------------
	if err := uc.claim(ctx, s); err != nil {
		return nil, err
	}

	tx := &models.PaymentTransaction{
		SaleID:       s.ID,
		BusinessCode: transactionCode(branch.BusinessCode),
		ExternalID:   s.OrderCode,
		Amount:       amount,
		Status:       string(payment.StatusPending),
		CardLast4:    card.Last4(),
	}
	if err := uc.sales.CreateTransaction(ctx, tx); err != nil {
		uc.release(context.WithoutCancel(ctx), s)
		return nil, err
	}

	// --------------------------------------------------
	// 3. Charge, bounded by the timeout
	// --------------------------------------------------
	req := payment.Request{
		Reference:   s.OrderCode,
		Amount:      amount,
		Description: fmt.Sprintf("Venta %s", s.OrderCode),
		Card:        card,
	}

	chargeCtx, cancel := context.WithTimeout(ctx, uc.timeout)
	res, chargeErr := uc.processor.Charge(chargeCtx, req)
	cancel()

	if chargeErr != nil {
		res = payment.Result{
			Status: payment.StatusRejected,
			Detail: chargeErr.Error(),
		}
		if errors.Is(chargeErr, context.DeadlineExceeded) {
			res.Detail = "Tiempo de espera agotado con el procesador de pagos"
		}
	}

	// --------------------------------------------------
	// 4. Record the outcome
	// --------------------------------------------------
	tx.Status = string(res.Status)
	tx.BankStatus = res.BankStatus
	tx.Description = res.Detail
	if res.ExternalID != "" {
		tx.ExternalID = res.ExternalID
	}
	raw := rawPayload(req, res)
	tx.RawPayload = string(raw)

	// The outcome must be stored even if the caller has gone away.
	persistCtx := context.WithoutCancel(ctx)
	// The sale is settled below either way; a claimed sale must not stay
	// PROCESSING because the transaction row could not be written.
	if err := uc.sales.UpdateTransaction(persistCtx, tx); err != nil {
		uc.log.ErrorContext(persistCtx, "store payment outcome failed",
			"sale_id", s.ID, "transaction_id", tx.ID, "status", tx.Status, "error", err)
	}
	uc.archivePayload(persistCtx, s.ID, tx.ID, raw)

	switch res.Status {
	case payment.StatusApproved:
		if err := uc.markPaid(persistCtx, s); err != nil {
			return nil, err
		}
	case payment.StatusRejected:
		uc.rollback(persistCtx, s, "Pago rechazado")
		uc.dispatch(s, tx, "payment_rejected")
		return nil, httperr.UpstreamFailuref("payment_rejected", "Pago no aprobado: %s", res.Detail)
	default:
		uc.release(persistCtx, s)
	}

	uc.dispatch(s, tx, "payment_"+strings.ToLower(string(res.Status)))
	return tx, nil
}

// requirePending is the precondition for charging a sale.
func requirePending(s *models.Sale) error {
	switch sale.Status(s.Status) {
	case sale.StatusPending:
		return nil
	case sale.StatusProcessing:
		return sale.ErrPaymentInProgress(s.ID)
	default:
		return httperr.InvalidArgumentf("invalid_state", "La venta %d ya está %s", s.ID, s.Status)
	}
}

// claim moves the sale PENDING -> PROCESSING. Whoever loses the guarded
// write gets the precondition error for the state that won.
func (uc *PaySale) claim(ctx context.Context, s *models.Sale) error {
	s.Status = string(sale.StatusProcessing)
	err := uc.sales.TransitionSale(ctx, s, sale.StatusPending)
	if !sale.IsStateChanged(err) {
		return err
	}

	cur, getErr := uc.sales.GetSale(ctx, s.ID)
	if getErr != nil {
		return getErr
	}
	if err := requirePending(cur); err != nil {
		return err
	}
	return sale.ErrStateChanged(s.ID)
}

// release hands a claimed sale back as PENDING, for a charge the bank
// left pending or one that never started.
func (uc *PaySale) release(ctx context.Context, s *models.Sale) {
	s.Status = string(sale.StatusPending)
	if err := uc.sales.TransitionSale(ctx, s, sale.StatusProcessing); err != nil {
		uc.log.ErrorContext(ctx, "release claimed sale failed", "sale_id", s.ID, "error", err)
	}
}

func (uc *PaySale) markPaid(ctx context.Context, s *models.Sale) error {
	s.Status = string(sale.StatusPaid)
	s.ConfirmationCode = fmt.Sprintf("CONF-%d-%d", s.ID, time.Now().UnixMilli())
	if err := uc.sales.TransitionSale(ctx, s, sale.StatusProcessing); err != nil {
		return err
	}

	lines, err := uc.sales.ListLines(ctx, s.ID)
	if err != nil {
		return err
	}
	for _, l := range lines {
		if l.AppointmentID == nil {
			continue
		}
		if _, err := uc.confirm.Execute(ctx, *l.AppointmentID, nil); err != nil {
			uc.log.WarnContext(ctx, "confirm after payment failed",
				"sale_id", s.ID, "appointment_id", *l.AppointmentID, "error", err)
		}
	}
	return nil
}

// rollback cancels the sale and releases its appointments. Failures are
// logged only; the payment outcome is what the caller needs.
func (uc *PaySale) rollback(ctx context.Context, s *models.Sale, reason string) {
	s.Status = string(sale.StatusCancelled)
	if err := uc.sales.TransitionSale(ctx, s, sale.StatusProcessing); err != nil {
		uc.log.ErrorContext(ctx, "cancel sale after rejected payment failed", "sale_id", s.ID, "error", err)
	}
	cancelLinkedAppointments(ctx, uc.sales, uc.cancel, uc.log, s.ID, reason)
}

func (uc *PaySale) archivePayload(ctx context.Context, saleID, txID uint, raw []byte) {
	if uc.archive == nil {
		return
	}
	key := fmt.Sprintf("payments/%d/%d.json", saleID, txID)
	if err := uc.archive.Archive(ctx, key, raw); err != nil {
		uc.log.WarnContext(ctx, "payment payload archive failed", "key", key, "error", err)
	}
}

func (uc *PaySale) dispatch(s *models.Sale, tx *models.PaymentTransaction, action string) {
	uc.audit.Dispatch(audit.Event{
		BranchID: &s.BranchID,
		Action:   action,
		Entity:   "payment_transaction",
		EntityID: &tx.ID,
		Metadata: map[string]any{
			"sale_id":     s.ID,
			"amount":      tx.Amount,
			"bank_status": tx.BankStatus,
		},
	})
}

func transactionCode(business string) string {
	id := uuid.NewString()
	if business = strings.TrimSpace(business); business == "" {
		return "TX-" + id
	}
	return business + "-" + id
}

// rawPayload is what gets stored: the request without card secrets and
// the gateway's answer as received.
func rawPayload(req payment.Request, res payment.Result) []byte {
	body := struct {
		Request  payment.Request `json:"request"`
		Response json.RawMessage `json:"response,omitempty"`
		Detail   string          `json:"detail,omitempty"`
	}{
		Request:  req.Redacted(),
		Response: res.Raw,
		Detail:   res.Detail,
	}
	b, err := json.Marshal(body)
	if err != nil {
		return []byte("{}")
	}
	return b
}
