package payment

import (
	"context"
	"encoding/json"
	"strings"
)

// Status is the normalized outcome of a charge, whatever the gateway.
type Status string

const (
	StatusApproved Status = "APPROVED"
	StatusPending  Status = "PENDING"
	StatusRejected Status = "REJECTED"
)

type Card struct {
	Number   string `json:"number,omitempty"`
	Holder   string `json:"holder,omitempty"`
	ExpMonth int    `json:"exp_month,omitempty"`
	ExpYear  int    `json:"exp_year,omitempty"`
	CVV      string `json:"cvv,omitempty"`

	// Tokenized flows (Mercado Pago) send a token instead of card data.
	Token           string `json:"token,omitempty"`
	PaymentMethodID string `json:"payment_method_id,omitempty"`
	Installments    int    `json:"installments,omitempty"`
	Email           string `json:"email,omitempty"`

	// Destination overrides the configured receiving account.
	Destination string `json:"destination,omitempty"`
}

func (c Card) Last4() string {
	n := strings.ReplaceAll(c.Number, " ", "")
	if len(n) <= 4 {
		return n
	}
	return n[len(n)-4:]
}

type Request struct {
	Reference   string  `json:"reference"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description,omitempty"`
	Card        Card    `json:"card"`
}

// Redacted is safe to persist: no CVV and only the last digits of the card.
func (r Request) Redacted() Request {
	out := r
	out.Card.CVV = ""
	out.Card.Token = ""
	if r.Card.Number != "" {
		out.Card.Number = "****" + r.Card.Last4()
	}
	return out
}

type Result struct {
	Status     Status
	ExternalID string
	// BankStatus is the gateway's own status string before normalization.
	BankStatus string
	Detail     string
	Raw        json.RawMessage
}

// Processor charges a card through some gateway. A non-nil error means the
// gateway could not be reached or answered garbage; a reachable gateway
// that declines returns StatusRejected and no error.
type Processor interface {
	Charge(ctx context.Context, req Request) (Result, error)
}

// NormalizeStatus folds the heterogeneous status vocabularies of the
// gateways into the three outcomes. Unknown values count as rejections.
func NormalizeStatus(raw string) Status {
	s := strings.ToUpper(strings.TrimSpace(raw))
	switch {
	case strings.Contains(s, "APROB"), strings.Contains(s, "COMPLET"), strings.Contains(s, "EXITOS"),
		s == "SUCCESS", s == "APPROVED", s == "AUTHORIZED", s == "ACCREDITED":
		return StatusApproved
	case strings.Contains(s, "PEND"), s == "EN_PROCESO", s == "PROCESSING", s == "IN_PROCESS", s == "IN_MEDIATION":
		return StatusPending
	default:
		return StatusRejected
	}
}
