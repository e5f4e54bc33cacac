package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/mercadopago/sdk-go/pkg/config"
	mp "github.com/mercadopago/sdk-go/pkg/payment"

	"github.com/BruksfildServices01/barberia-api/internal/domain/payment"
)

type mpClient interface {
	Create(ctx context.Context, request mp.Request) (*mp.Response, error)
}

// MercadoPago charges tokenized cards through the Mercado Pago API.
type MercadoPago struct {
	client mpClient
}

var _ payment.Processor = (*MercadoPago)(nil)

func NewMercadoPago(accessToken string) (*MercadoPago, error) {
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}
	return &MercadoPago{client: mp.NewClient(cfg)}, nil
}

func (m *MercadoPago) Charge(ctx context.Context, req payment.Request) (payment.Result, error) {
	installments := req.Card.Installments
	if installments <= 0 {
		installments = 1
	}

	resp, err := m.client.Create(ctx, mp.Request{
		TransactionAmount: req.Amount,
		Token:             req.Card.Token,
		Description:       req.Description,
		Installments:      installments,
		PaymentMethodID:   req.Card.PaymentMethodID,
		ExternalReference: req.Reference,
		Payer: &mp.PayerRequest{
			Email: req.Card.Email,
		},
	})
	if err != nil {
		return payment.Result{}, fmt.Errorf("mercadopago create payment: %w", err)
	}

	raw, _ := json.Marshal(resp)
	return payment.Result{
		Status:     payment.NormalizeStatus(resp.Status),
		ExternalID: strconv.Itoa(resp.ID),
		BankStatus: resp.Status,
		Detail:     resp.StatusDetail,
		Raw:        raw,
	}, nil
}
