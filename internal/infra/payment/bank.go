package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/BruksfildServices01/barberia-api/internal/domain/payment"
)

// bankRequest is the bank's wire format.
type bankRequest struct {
	NumeroTarjetaOrigen  string  `json:"NumeroTarjetaOrigen"`
	NumeroTarjetaDestino string  `json:"NumeroTarjetaDestino"`
	NombreCliente        string  `json:"NombreCliente"`
	MesExp               int     `json:"MesExp"`
	AnioExp              int     `json:"AnioExp"`
	Cvv                  string  `json:"Cvv"`
	Monto                float64 `json:"Monto"`
}

// The bank has changed field names between versions; these are tried in
// order.
var (
	bankIDFields     = []string{"id_transaccion", "IdTransaccion", "transaccionId", "idTransaccion", "Transaccion", "transaccion_externa"}
	bankStatusFields = []string{"NombreEstado", "nombre_estado", "estado", "status", "resultado", "decision"}
	bankDetailFields = []string{"descripcion", "Descripcion", "mensaje", "message"}
)

type BankGateway struct {
	url         string
	destination string
	client      *http.Client
}

var _ payment.Processor = (*BankGateway)(nil)

// NewBankGateway posts charges to url. The caller bounds each charge with
// its context; client may be nil.
func NewBankGateway(url, destination string, client *http.Client) *BankGateway {
	if client == nil {
		client = &http.Client{}
	}
	return &BankGateway{url: url, destination: destination, client: client}
}

func (g *BankGateway) Charge(ctx context.Context, req payment.Request) (payment.Result, error) {
	dest := req.Card.Destination
	if dest == "" {
		dest = g.destination
	}

	body, err := json.Marshal(bankRequest{
		NumeroTarjetaOrigen:  strings.ReplaceAll(req.Card.Number, " ", ""),
		NumeroTarjetaDestino: dest,
		NombreCliente:        req.Card.Holder,
		MesExp:               req.Card.ExpMonth,
		AnioExp:              req.Card.ExpYear,
		Cvv:                  req.Card.CVV,
		Monto:                req.Amount,
	})
	if err != nil {
		return payment.Result{}, fmt.Errorf("encode bank request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return payment.Result{}, fmt.Errorf("build bank request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return payment.Result{}, fmt.Errorf("bank request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return payment.Result{}, fmt.Errorf("read bank response: %w", err)
	}

	fields := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &fields); err != nil && resp.StatusCode < 300 {
			return payment.Result{}, fmt.Errorf("decode bank response: %w", err)
		}
	}

	res := payment.Result{
		ExternalID: firstString(fields, bankIDFields),
		BankStatus: firstString(fields, bankStatusFields),
		Detail:     firstString(fields, bankDetailFields),
	}
	if json.Valid(raw) {
		res.Raw = raw
	}

	if resp.StatusCode >= 300 {
		// A bank that answers with an error status declined the charge.
		res.Status = payment.StatusRejected
		if res.Detail == "" {
			res.Detail = fmt.Sprintf("El banco respondió %d", resp.StatusCode)
		}
		return res, nil
	}

	res.Status = payment.NormalizeStatus(res.BankStatus)
	return res, nil
}

func firstString(fields map[string]any, keys []string) string {
	for _, k := range keys {
		switch v := fields[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			return strconv.FormatBool(v)
		}
	}
	return ""
}
