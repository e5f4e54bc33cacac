package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barberia-api/internal/audit"
	"github.com/BruksfildServices01/barberia-api/internal/domain/catalog"
	"github.com/BruksfildServices01/barberia-api/internal/httperr"
	"github.com/BruksfildServices01/barberia-api/internal/httpresp"
	"github.com/BruksfildServices01/barberia-api/internal/models"
)

type BarberHandler struct {
	catalog catalog.Repository
	audit   *audit.Dispatcher
}

func NewBarberHandler(cat catalog.Repository, d *audit.Dispatcher) *BarberHandler {
	return &BarberHandler{catalog: cat, audit: d}
}

type CreateBarberRequest struct {
	BranchID *uint  `json:"branch_id"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"omitempty,email"`
	Phone    string `json:"phone"`
}

func (h *BarberHandler) Create(c *gin.Context) {
	var req CreateBarberRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()

	if req.BranchID != nil {
		if _, err := h.catalog.GetBranch(ctx, *req.BranchID); err != nil {
			httperr.Respond(c, err)
			return
		}
	}

	barber := models.Barber{
		BranchID: req.BranchID,
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:    req.Phone,
		Active:   true,
	}

	if err := h.catalog.CreateBarber(ctx, &barber); err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(h.audit, c, barber.BranchID, "barber_created", "barber", barber.ID, gin.H{"name": barber.Name})
	httpresp.Created(c, barber)
}

// List filters by ?sucursalId and, with ?active=true, hides inactive
// barbers.
func (h *BarberHandler) List(c *gin.Context) {
	var branchID uint
	if raw := c.Query("sucursalId"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_id", "sucursalId inválido")
			return
		}
		branchID = uint(v)
	}

	ctx := c.Request.Context()

	var (
		barbers []models.Barber
		err     error
	)
	if c.Query("active") == "true" && branchID != 0 {
		barbers, err = h.catalog.ListActiveBarbers(ctx, branchID)
	} else {
		barbers, err = h.catalog.ListBarbers(ctx, branchID)
	}
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, barbers)
}

func (h *BarberHandler) Get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	barber, err := h.catalog.GetBarber(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, barber)
}
