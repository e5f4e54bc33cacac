package payment

import "testing"

func TestNormalizeStatus(t *testing.T) {
	tests := map[string]Status{
		"APROBADA":    StatusApproved,
		"aprobado":    StatusApproved,
		"Completada":  StatusApproved,
		"approved":    StatusApproved,
		"SUCCESS":     StatusApproved,
		"PENDIENTE":   StatusPending,
		"in_process":  StatusPending,
		"processing":  StatusPending,
		"RECHAZADA":   StatusRejected,
		"rejected":    StatusRejected,
		"":            StatusRejected,
		"algo raro":   StatusRejected,
	}
	for in, want := range tests {
		if got := NormalizeStatus(in); got != want {
			t.Errorf("NormalizeStatus(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestRequestRedacted(t *testing.T) {
	req := Request{
		Reference: "ORD-1",
		Amount:    250,
		Card:      Card{Number: "4111 1111 1111 1111", CVV: "123", Token: "tok", Holder: "Ana"},
	}
	red := req.Redacted()
	if red.Card.CVV != "" || red.Card.Token != "" {
		t.Fatalf("secrets kept: %+v", red.Card)
	}
	if red.Card.Number != "****1111" {
		t.Fatalf("number = %q", red.Card.Number)
	}
	if req.Card.CVV != "123" {
		t.Fatal("original request was mutated")
	}
}
