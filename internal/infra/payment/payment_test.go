package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mp "github.com/mercadopago/sdk-go/pkg/payment"

	"github.com/BruksfildServices01/barberia-api/internal/domain/payment"
)

func chargeRequest() payment.Request {
	return payment.Request{
		Reference: "ORD-1",
		Amount:    250,
		Card: payment.Card{
			Number: "4111 1111 1111 1234", Holder: "Marta", ExpMonth: 12, ExpYear: 2030, CVV: "123",
		},
	}
}

func TestBankGateway_Charge(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus payment.Status
		wantID     string
		wantDetail string
	}{
		{"approved", http.StatusOK, `{"IdTransaccion": 991, "NombreEstado": "Aprobada", "mensaje": "ok"}`, payment.StatusApproved, "991", "ok"},
		{"pending", http.StatusOK, `{"id_transaccion": "A-1", "estado": "EN_PROCESO"}`, payment.StatusPending, "A-1", ""},
		{"declined", http.StatusOK, `{"transaccionId": "A-2", "status": "DECLINED", "descripcion": "fondos insuficientes"}`, payment.StatusRejected, "A-2", "fondos insuficientes"},
		{"error status", http.StatusUnprocessableEntity, `{"message": "tarjeta inválida"}`, payment.StatusRejected, "", "tarjeta inválida"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got bankRequest
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewDecoder(r.Body).Decode(&got)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			res, err := NewBankGateway(srv.URL, "0001", nil).Charge(context.Background(), chargeRequest())
			if err != nil {
				t.Fatalf("charge: %v", err)
			}
			if res.Status != tt.wantStatus || res.ExternalID != tt.wantID || res.Detail != tt.wantDetail {
				t.Errorf("result = %+v", res)
			}
			if got.NumeroTarjetaOrigen != "4111111111111234" || got.NumeroTarjetaDestino != "0001" || got.Monto != 250 {
				t.Errorf("bank received %+v", got)
			}
		})
	}
}

func TestBankGateway_HonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := NewBankGateway(srv.URL, "", nil).Charge(ctx, chargeRequest())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
}

type fakeMP struct {
	got  mp.Request
	resp *mp.Response
	err  error
}

func (f *fakeMP) Create(_ context.Context, req mp.Request) (*mp.Response, error) {
	f.got = req
	return f.resp, f.err
}

func TestMercadoPago_Charge(t *testing.T) {
	fake := &fakeMP{resp: &mp.Response{ID: 123, Status: "approved", StatusDetail: "accredited"}}
	m := &MercadoPago{client: fake}

	req := chargeRequest()
	req.Card.Token = "tok_1"
	req.Card.PaymentMethodID = "visa"
	req.Card.Email = "marta@example.com"

	res, err := m.Charge(context.Background(), req)
	if err != nil {
		t.Fatalf("charge: %v", err)
	}
	if res.Status != payment.StatusApproved || res.ExternalID != "123" {
		t.Errorf("result = %+v", res)
	}
	if fake.got.Installments != 1 || fake.got.ExternalReference != "ORD-1" || fake.got.Payer.Email != "marta@example.com" {
		t.Errorf("request = %+v", fake.got)
	}
}

func TestMercadoPago_Error(t *testing.T) {
	boom := errors.New("unauthorized")
	_, err := (&MercadoPago{client: &fakeMP{err: boom}}).Charge(context.Background(), chargeRequest())
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
}
