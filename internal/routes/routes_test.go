package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barberia-api/internal/auth"
	"github.com/BruksfildServices01/barberia-api/internal/domain/payment"
	"github.com/BruksfildServices01/barberia-api/internal/infra/memory"
	"github.com/BruksfildServices01/barberia-api/internal/models"
)

type approveAll struct{}

func (approveAll) Charge(_ context.Context, req payment.Request) (payment.Result, error) {
	return payment.Result{
		Status:     payment.StatusApproved,
		ExternalID: "BNK-" + req.Reference,
		BankStatus: "APROBADA",
		Raw:        json.RawMessage(`{"estado":"APROBADA"}`),
	}, nil
}

type server struct {
	t       *testing.T
	engine  *gin.Engine
	store   *memory.Store
	tokens  *auth.TokenIssuer
	branch  models.Branch
	barber  models.Barber
	service models.Service
}

// newServer wires the whole API on the in-memory store with a branch open
// Mondays 09:00-18:00 and one barber working 10:00-14:00.
func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	st := memory.NewStore()

	s := &server{t: t, store: st, tokens: auth.NewTokenIssuer("test-secret", time.Hour)}

	s.branch = models.Branch{Name: "Centro", BusinessCode: "BRB01", Timezone: "America/Mexico_City", Active: true}
	mustOK(t, st.CreateBranch(ctx, &s.branch))
	s.barber = models.Barber{Name: "Luis", BranchID: &s.branch.ID, Active: true}
	mustOK(t, st.CreateBarber(ctx, &s.barber))
	code := "CORTE-01"
	s.service = models.Service{Name: "Corte", DurationMin: 30, Price: 150, Active: true, ExternalCode: &code}
	mustOK(t, st.CreateService(ctx, &s.service))
	mustOK(t, st.SaveBranchSchedule(ctx, &models.BranchSchedule{BranchID: s.branch.ID, Weekday: 1, StartTime: "09:00", EndTime: "18:00"}))
	mustOK(t, st.SaveBarberSchedule(ctx, &models.BarberSchedule{BarberID: s.barber.ID, Weekday: 1, StartTime: "10:00", EndTime: "14:00"}))

	verifier := auth.NewVerifier(st, auth.BcryptHasher{Cost: 4}, nil)
	_, err := verifier.Register(ctx, "Admin", "admin@barberia.mx", "secreto123", auth.RoleAdmin)
	mustOK(t, err)

	s.engine = gin.New()
	RegisterRoutes(s.engine, Deps{
		Catalog:      st,
		Appointments: st,
		Sales:        st,
		Users:        st,
		AuditStore:   st,
		Processor:    approveAll{},
		Tokens:       s.tokens,
		Verifier:     verifier,
	})
	return s
}

func mustOK(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func (s *server) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		mustOK(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return out
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d: %s", w.Code, want, w.Body.String())
	}
}

func TestHealth(t *testing.T) {
	s := newServer(t)
	w := s.do(http.MethodGet, "/health", nil, "")
	expectStatus(t, w, http.StatusOK)
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("request id header missing")
	}
}

func TestAvailabilityCheck(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodPost, "/disponibilidad/check", gin.H{
		"servicioId":  s.service.ID,
		"sucursalId":  s.branch.ID,
		"fechaInicio": "2025-12-22",
		"fechaFin":    "2025-12-22",
	}, "")
	expectStatus(t, w, http.StatusOK)

	slots := decode[[]struct {
		Start     time.Time `json:"fechaInicio"`
		BarberID  uint      `json:"barberoId"`
		Available bool      `json:"disponible"`
	}](t, w)
	if len(slots) != 8 {
		t.Fatalf("got %d slots, want 8", len(slots))
	}
	loc, _ := time.LoadLocation("America/Mexico_City")
	if got := slots[0].Start.In(loc).Format("15:04"); got != "10:00" {
		t.Errorf("first slot at %s, want 10:00", got)
	}
}

func TestAvailabilityCheck_Errors(t *testing.T) {
	s := newServer(t)

	tests := []struct {
		name     string
		body     gin.H
		wantCode int
		wantErr  string
	}{
		{"unknown service", gin.H{"servicioId": 99, "sucursalId": s.branch.ID, "fechaInicio": "2025-12-22", "fechaFin": "2025-12-22"}, http.StatusNotFound, "service_not_found"},
		{"inverted range", gin.H{"servicioId": s.service.ID, "sucursalId": s.branch.ID, "fechaInicio": "2025-12-23", "fechaFin": "2025-12-22"}, http.StatusBadRequest, "invalid_range"},
		{"missing fields", gin.H{"servicioId": s.service.ID}, http.StatusBadRequest, "invalid_request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(http.MethodPost, "/disponibilidad/check", tt.body, "")
			expectStatus(t, w, tt.wantCode)
			body := decode[struct {
				Code string `json:"error_code"`
			}](t, w)
			if body.Code != tt.wantErr {
				t.Errorf("error_code = %q, want %q", body.Code, tt.wantErr)
			}
		})
	}
}

func TestAppointmentLifecycle(t *testing.T) {
	s := newServer(t)

	reserve := gin.H{
		"servicioId":  s.service.ID,
		"sucursalId":  s.branch.ID,
		"barberoId":   s.barber.ID,
		"fechaInicio": "2025-12-22 11:00",
		"fechaFin":    "2025-12-22 11:30",
		"origen":      "MALL",
	}

	w := s.do(http.MethodPost, "/citas/reservar", reserve, "")
	expectStatus(t, w, http.StatusCreated)
	ap := decode[models.Appointment](t, w)
	if ap.Status != "RESERVED" {
		t.Fatalf("status = %s, want RESERVED", ap.Status)
	}

	// same slot again
	w = s.do(http.MethodPost, "/citas/reservar", reserve, "")
	expectStatus(t, w, http.StatusBadRequest)

	w = s.do(http.MethodGet, fmt.Sprintf("/citas/%d", ap.ID), nil, "")
	expectStatus(t, w, http.StatusOK)

	w = s.do(http.MethodGet, fmt.Sprintf("/citas/barbero/%d?fecha=2025-12-22", s.barber.ID), nil, "")
	expectStatus(t, w, http.StatusOK)
	agenda := decode[struct {
		Total int `json:"total"`
	}](t, w)
	if agenda.Total != 1 {
		t.Errorf("agenda total = %d, want 1", agenda.Total)
	}

	w = s.do(http.MethodPost, fmt.Sprintf("/citas/%d/cancelar", ap.ID), nil, "")
	expectStatus(t, w, http.StatusOK)
	if got := decode[models.Appointment](t, w); got.Status != "CANCELLED" {
		t.Fatalf("status = %s, want CANCELLED", got.Status)
	}

	// the slot is free again
	w = s.do(http.MethodPost, "/citas/reservar", reserve, "")
	expectStatus(t, w, http.StatusCreated)

	w = s.do(http.MethodGet, "/citas/abc", nil, "")
	expectStatus(t, w, http.StatusBadRequest)
}

func TestMallDayAndSale(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodPost, "/disponibilidad/sol-disp-fecha", gin.H{
		"store_id":            s.branch.ID,
		"service_external_id": "CORTE-01",
		"appointment_date":    "2025-12-22",
	}, "")
	expectStatus(t, w, http.StatusOK)
	days := decode[[]map[string]any](t, w)
	if len(days) != 8 {
		t.Fatalf("got %d mall slots, want 8", len(days))
	}

	w = s.do(http.MethodPost, "/ventas/registrar-servicio", gin.H{
		"user_id":             "CLI-EXT-001",
		"store_id":            s.branch.ID,
		"service_external_id": "CORTE-01",
		"service_price":       150,
		"apointment_date":     "2025-12-22",
		"apointment_time":     "11:00",
		"duration_minutes":    30,
		"payment_status":      "PENDIENTE",
		"payment_method":      "TARJETA",
	}, "")
	expectStatus(t, w, http.StatusCreated)
	res := decode[struct {
		SaleID uint   `json:"venta_id_barberia"`
		Code   string `json:"codigo_reserva"`
		Hour   string `json:"hora_cita"`
	}](t, w)
	if res.SaleID == 0 || res.Code == "" {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Hour != "11:00:00" {
		t.Errorf("hora_cita = %q, want 11:00:00", res.Hour)
	}

	w = s.do(http.MethodPost, fmt.Sprintf("/ventas/%d/pagar", res.SaleID), gin.H{
		"NumeroTarjetaOrigen": "4111111111111111",
		"NombreCliente":       "Juan Pérez",
		"MesExp":              12,
		"AnioExp":             2030,
		"Cvv":                 "123",
	}, "")
	expectStatus(t, w, http.StatusOK)
	tx := decode[models.PaymentTransaction](t, w)
	if tx.Status != "APPROVED" || tx.CardLast4 != "1111" {
		t.Fatalf("unexpected transaction %+v", tx)
	}

	w = s.do(http.MethodGet, fmt.Sprintf("/ventas/%d", res.SaleID), nil, "")
	expectStatus(t, w, http.StatusOK)
	detail := decode[struct {
		Status string `json:"status"`
		Lines  []any  `json:"lines"`
	}](t, w)
	if detail.Status != "PAID" {
		t.Errorf("sale status = %s, want PAID", detail.Status)
	}
	if len(detail.Lines) != 1 {
		t.Errorf("got %d lines, want 1", len(detail.Lines))
	}

	// paying twice is refused
	w = s.do(http.MethodPost, fmt.Sprintf("/ventas/%d/pagar", res.SaleID), gin.H{"NumeroTarjetaOrigen": "4111111111111111"}, "")
	expectStatus(t, w, http.StatusBadRequest)
}

func TestAdminRequiresToken(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodGet, "/admin/sucursales", nil, "")
	expectStatus(t, w, http.StatusUnauthorized)

	w = s.do(http.MethodPost, "/auth/login", gin.H{"email": "admin@barberia.mx", "password": "mala"}, "")
	expectStatus(t, w, http.StatusUnauthorized)

	w = s.do(http.MethodPost, "/auth/login", gin.H{"email": "admin@barberia.mx", "password": "secreto123"}, "")
	expectStatus(t, w, http.StatusOK)
	token := decode[struct {
		Token string `json:"token"`
	}](t, w).Token

	w = s.do(http.MethodGet, "/auth/me", nil, token)
	expectStatus(t, w, http.StatusOK)

	w = s.do(http.MethodGet, "/admin/sucursales", nil, token)
	expectStatus(t, w, http.StatusOK)
	list := decode[struct {
		Total int `json:"total"`
	}](t, w)
	if list.Total != 1 {
		t.Errorf("branches = %d, want 1", list.Total)
	}
}

func TestAdminSchedules(t *testing.T) {
	s := newServer(t)
	admin, err := s.tokens.Issue(&models.User{ID: 1, Role: auth.RoleAdmin})
	mustOK(t, err)

	w := s.do(http.MethodPost, "/admin/horarios/barbero", gin.H{
		"barber_id": s.barber.ID, "weekday": 2, "start_time": "10:00", "end_time": "09:00",
	}, admin)
	expectStatus(t, w, http.StatusBadRequest)

	w = s.do(http.MethodPost, "/admin/horarios/pausa", gin.H{
		"barber_id": s.barber.ID, "weekday": 1, "start_time": "12:00", "end_time": "13:00", "label": "comida",
	}, admin)
	expectStatus(t, w, http.StatusCreated)
	brk := decode[models.BarberBreak](t, w)

	w = s.do(http.MethodPost, "/admin/horarios/excepcion", gin.H{
		"scope_type": "barber", "scope_id": s.barber.ID, "date": "2025-12-22", "kind": "special_hours",
		"start_time": "11:00", "end_time": "13:00",
	}, admin)
	expectStatus(t, w, http.StatusOK)

	w = s.do(http.MethodGet, fmt.Sprintf("/admin/horarios/barbero/%d/dia?fecha=2025-12-22", s.barber.ID), nil, admin)
	expectStatus(t, w, http.StatusOK)
	day := decode[struct {
		Effective struct {
			Start string `json:"start_time"`
			End   string `json:"end_time"`
		} `json:"efectivo"`
	}](t, w)
	if day.Effective.Start != "11:00" || day.Effective.End != "13:00" {
		t.Errorf("effective window = %+v, want 11:00-13:00", day.Effective)
	}

	// the 12:00-13:00 break leaves 11:00 and 11:30
	w = s.do(http.MethodPost, "/disponibilidad/check", gin.H{
		"servicioId": s.service.ID, "sucursalId": s.branch.ID,
		"fechaInicio": "2025-12-22", "fechaFin": "2025-12-22",
	}, "")
	expectStatus(t, w, http.StatusOK)
	free := 0
	for _, sl := range decode[[]struct {
		Available bool `json:"disponible"`
	}](t, w) {
		if sl.Available {
			free++
		}
	}
	if free != 2 {
		t.Errorf("free slots = %d, want 2", free)
	}

	w = s.do(http.MethodDelete, fmt.Sprintf("/admin/horarios/pausa/%d", brk.ID), nil, admin)
	expectStatus(t, w, http.StatusNoContent)
	w = s.do(http.MethodDelete, fmt.Sprintf("/admin/horarios/pausa/%d", brk.ID), nil, admin)
	expectStatus(t, w, http.StatusNotFound)
}
