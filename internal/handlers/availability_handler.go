package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barberia-api/internal/dto"
	"github.com/BruksfildServices01/barberia-api/internal/httperr"
	"github.com/BruksfildServices01/barberia-api/internal/usecase/availability"
)

// ======================================================
// HANDLER
// ======================================================

type AvailabilityHandler struct {
	check  *availability.Check
	barber *availability.BarberAvailability
}

func NewAvailabilityHandler(
	check *availability.Check,
	barber *availability.BarberAvailability,
) *AvailabilityHandler {
	return &AvailabilityHandler{
		check:  check,
		barber: barber,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CheckAvailabilityRequest struct {
	ServiceID uint   `json:"servicioId" binding:"required"`
	BranchID  uint   `json:"sucursalId" binding:"required"`
	BarberID  *uint  `json:"barberoId"`
	From      string `json:"fechaInicio" binding:"required"`
	To        string `json:"fechaFin" binding:"required"`
}

// ======================================================
// CHECK
// ======================================================

func (h *AvailabilityHandler) Check(c *gin.Context) {
	var req CheckAvailabilityRequest
	if !bindJSON(c, &req) {
		return
	}

	slots, err := h.check.Execute(c.Request.Context(), availability.CheckInput{
		ServiceID: req.ServiceID,
		BranchID:  req.BranchID,
		BarberID:  req.BarberID,
		From:      req.From,
		To:        req.To,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Slots(slots))
}

// ======================================================
// BARBER (30 min grid)
// ======================================================

func (h *AvailabilityHandler) ByBarber(c *gin.Context) {
	barberID, ok := uintParam(c, "barberoId")
	if !ok {
		return
	}

	from := c.Query("fechaInicio")
	to := c.Query("fechaFin")
	if from == "" || to == "" {
		httperr.BadRequest(c, "missing_range", "fechaInicio y fechaFin son requeridos")
		return
	}

	slots, err := h.barber.Execute(c.Request.Context(), availability.BarberInput{
		BarberID: barberID,
		From:     from,
		To:       to,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Slots(slots))
}
