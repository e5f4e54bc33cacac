package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestRespond_MapsKinds(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"not found", NotFoundf("service_not_found", "Servicio %d no encontrado", 7), http.StatusNotFound, "service_not_found"},
		{"invalid", InvalidArgumentf("invalid_range", "rango"), http.StatusBadRequest, "invalid_range"},
		{"conflict", Conflictf("slot_taken", "ocupado"), http.StatusBadRequest, "slot_taken"},
		{"unconfigured", Unconfiguredf("branch_unconfigured", "sin horario"), http.StatusBadRequest, "branch_unconfigured"},
		{"upstream", UpstreamFailuref("payment_rejected", "rechazado"), http.StatusBadGateway, "payment_rejected"},
		{"wrapped", fmt.Errorf("reserve: %w", Conflictf("slot_taken", "x")), http.StatusBadRequest, "slot_taken"},
		{"plain", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			Respond(c, tt.err)

			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantCode)
			}
			var body HTTPError
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Code != tt.wantBody {
				t.Errorf("error_code = %q, want %q", body.Code, tt.wantBody)
			}
		})
	}
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("wrap: %w", NotFoundf("barber_not_found", "x"))
	if !IsKind(err, KindNotFound) {
		t.Fatal("expected NotFound kind")
	}
	if IsKind(err, KindConflict) {
		t.Fatal("did not expect Conflict kind")
	}
	if !IsBusiness(err, "barber_not_found") {
		t.Fatal("expected business code match")
	}
}

func TestIsExclusionConflict(t *testing.T) {
	if !IsExclusionConflict(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23P01"})) {
		t.Fatal("expected 23P01 to be an exclusion conflict")
	}
	if IsExclusionConflict(&pgconn.PgError{Code: "23505"}) {
		t.Fatal("unique violation is not an exclusion conflict")
	}
}
