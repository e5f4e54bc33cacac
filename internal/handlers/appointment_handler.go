package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barberia-api/internal/httperr"
	"github.com/BruksfildServices01/barberia-api/internal/httpresp"
	"github.com/BruksfildServices01/barberia-api/internal/timezone"
	"github.com/BruksfildServices01/barberia-api/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	reserve *appointment.ReserveAppointment
	confirm *appointment.ConfirmAppointment
	cancel  *appointment.CancelAppointment
	get     *appointment.GetAppointment
	agenda  *appointment.ListAgenda
}

func NewAppointmentHandler(
	reserve *appointment.ReserveAppointment,
	confirm *appointment.ConfirmAppointment,
	cancel *appointment.CancelAppointment,
	get *appointment.GetAppointment,
	agenda *appointment.ListAgenda,
) *AppointmentHandler {
	return &AppointmentHandler{
		reserve: reserve,
		confirm: confirm,
		cancel:  cancel,
		get:     get,
		agenda:  agenda,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type ReserveAppointmentRequest struct {
	ServiceID  uint   `json:"servicioId" binding:"required"`
	BranchID   uint   `json:"sucursalId" binding:"required"`
	BarberID   uint   `json:"barberoId" binding:"required"`
	ClientID   *uint  `json:"clienteId"`
	Start      string `json:"fechaInicio" binding:"required"`
	End        string `json:"fechaFin"`
	Origin     string `json:"origen"`
	MallSlotID string `json:"slotIdMall"`
	Notes      string `json:"notas"`
}

type CancelRequest struct {
	Reason string `json:"motivo"`
}

// ======================================================
// RESERVE
// ======================================================

func (h *AppointmentHandler) Reserve(c *gin.Context) {
	var req ReserveAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	ap, err := h.reserve.Execute(c.Request.Context(), appointment.ReserveInput{
		ServiceID:       req.ServiceID,
		BranchID:        req.BranchID,
		BarberID:        req.BarberID,
		ClientID:        req.ClientID,
		Start:           req.Start,
		End:             req.End,
		Origin:          req.Origin,
		ExternalSlotRef: req.MallSlotID,
		Notes:           req.Notes,
		ActorID:         actorID(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, ap)
}

// ======================================================
// GET
// ======================================================

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	ap, err := h.get.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

// ======================================================
// CONFIRM / CANCEL
// ======================================================

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	ap, err := h.confirm.Execute(c.Request.Context(), id, actorID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req CancelRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	ap, err := h.cancel.Execute(c.Request.Context(), id, req.Reason, actorID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

// ======================================================
// AGENDA
// ?fecha=YYYY-MM-DD (default today) or ?mes=YYYY-MM
// ======================================================

func (h *AppointmentHandler) Agenda(c *gin.Context) {
	barberID, ok := uintParam(c, "barberoId")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	if month := c.Query("mes"); month != "" {
		m, err := time.Parse("2006-01", month)
		if err != nil {
			httperr.BadRequest(c, "invalid_month", "mes debe tener formato YYYY-MM")
			return
		}

		list, err := h.agenda.ByMonth(ctx, barberID, m.Year(), int(m.Month()))
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		httpresp.List(c, list)
		return
	}

	date := c.Query("fecha")
	if date == "" {
		date = timezone.Now().Format("2006-01-02")
	}

	list, err := h.agenda.ByDate(ctx, barberID, date)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, list)
}
