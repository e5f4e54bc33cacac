package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barberia-api/internal/audit"
	"github.com/BruksfildServices01/barberia-api/internal/domain/catalog"
	"github.com/BruksfildServices01/barberia-api/internal/domain/schedule"
	"github.com/BruksfildServices01/barberia-api/internal/httperr"
	"github.com/BruksfildServices01/barberia-api/internal/httpresp"
	"github.com/BruksfildServices01/barberia-api/internal/models"
	"github.com/BruksfildServices01/barberia-api/internal/timezone"
)

// ScheduleHandler administers weekly hours, per-date exceptions and
// barber breaks.
type ScheduleHandler struct {
	catalog  catalog.Repository
	resolver *schedule.Resolver
	audit    *audit.Dispatcher
}

func NewScheduleHandler(cat catalog.Repository, d *audit.Dispatcher) *ScheduleHandler {
	return &ScheduleHandler{
		catalog:  cat,
		resolver: schedule.NewResolver(cat),
		audit:    d,
	}
}

// --------- Requests ---------

// WeeklyHoursRequest carries branch_id or barber_id depending on the
// route.
type WeeklyHoursRequest struct {
	BranchID  uint   `json:"branch_id"`
	BarberID  uint   `json:"barber_id"`
	Weekday   *int   `json:"weekday" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

type ExceptionRequest struct {
	ScopeType string  `json:"scope_type" binding:"required"`
	ScopeID   uint    `json:"scope_id" binding:"required"`
	Date      string  `json:"date" binding:"required"`
	Kind      string  `json:"kind" binding:"required"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	Reason    string  `json:"reason"`
}

type BreakRequest struct {
	BarberID  uint   `json:"barber_id" binding:"required"`
	Weekday   *int   `json:"weekday" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	Label     string `json:"label"`
}

// ======================================================
// BRANCH HOURS
// ======================================================

func (h *ScheduleHandler) SaveBranchHours(c *gin.Context) {
	var req WeeklyHoursRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := catalog.ValidateHours(*req.Weekday, req.StartTime, req.EndTime); err != nil {
		httperr.Respond(c, err)
		return
	}

	if req.BranchID == 0 {
		httperr.BadRequest(c, "invalid_request", "branch_id requerido")
		return
	}

	ctx := c.Request.Context()
	if _, err := h.catalog.GetBranch(ctx, req.BranchID); err != nil {
		httperr.Respond(c, err)
		return
	}

	row := models.BranchSchedule{
		BranchID:  req.BranchID,
		Weekday:   *req.Weekday,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	if err := h.catalog.SaveBranchSchedule(ctx, &row); err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(h.audit, c, &row.BranchID, "branch_hours_saved", "branch_schedule", row.ID, row)
	c.JSON(http.StatusOK, row)
}

func (h *ScheduleHandler) ListBranchHours(c *gin.Context) {
	branchID, ok := uintParam(c, "sucursalId")
	if !ok {
		return
	}

	rows, err := h.catalog.ListBranchSchedules(c.Request.Context(), branchID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, rows)
}

func (h *ScheduleHandler) DeleteBranchHours(c *gin.Context) {
	h.delete(c, "branch_schedule", h.catalog.DeleteBranchSchedule)
}

// ======================================================
// BARBER HOURS
// ======================================================

func (h *ScheduleHandler) SaveBarberHours(c *gin.Context) {
	var req WeeklyHoursRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := catalog.ValidateHours(*req.Weekday, req.StartTime, req.EndTime); err != nil {
		httperr.Respond(c, err)
		return
	}

	if req.BarberID == 0 {
		httperr.BadRequest(c, "invalid_request", "barber_id requerido")
		return
	}

	ctx := c.Request.Context()
	barber, err := h.catalog.GetBarber(ctx, req.BarberID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	row := models.BarberSchedule{
		BarberID:  req.BarberID,
		Weekday:   *req.Weekday,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	if err := h.catalog.SaveBarberSchedule(ctx, &row); err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(h.audit, c, barber.BranchID, "barber_hours_saved", "barber_schedule", row.ID, row)
	c.JSON(http.StatusOK, row)
}

func (h *ScheduleHandler) ListBarberHours(c *gin.Context) {
	barberID, ok := uintParam(c, "barberoId")
	if !ok {
		return
	}

	rows, err := h.catalog.ListBarberSchedules(c.Request.Context(), barberID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, rows)
}

func (h *ScheduleHandler) DeleteBarberHours(c *gin.Context) {
	h.delete(c, "barber_schedule", h.catalog.DeleteBarberSchedule)
}

// BarberDay shows how the branch and barber windows combine on ?fecha.
func (h *ScheduleHandler) BarberDay(c *gin.Context) {
	barberID, ok := uintParam(c, "barberoId")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	barber, err := h.catalog.GetBarber(ctx, barberID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if barber.BranchID == nil {
		httperr.BadRequest(c, "barber_without_branch", "El barbero no tiene sucursal asignada")
		return
	}

	branch, err := h.catalog.GetBranch(ctx, *barber.BranchID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	loc := timezone.Location(branch.Timezone)
	date := c.Query("fecha")
	if date == "" {
		date = timezone.Now().In(loc).Format("2006-01-02")
	}
	day, err := schedule.ParseDay(date, loc)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	branchWin, err := h.resolver.ResolveWindow(ctx, schedule.ScopeBranch, branch.ID, day)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	barberWin, err := h.resolver.ResolveWindow(ctx, schedule.ScopeBarber, barber.ID, day)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"fecha":      date,
		"sucursal":   windowView(branchWin),
		"barbero":    windowView(barberWin),
		"efectivo":   windowView(schedule.Intersect(branchWin, barberWin)),
		"barbero_id": barber.ID,
	})
}

func windowView(w *schedule.Window) gin.H {
	if w == nil {
		return nil
	}
	return gin.H{
		"start_time": schedule.FormatClock(w.Start),
		"end_time":   schedule.FormatClock(w.End),
	}
}

// ======================================================
// EXCEPTIONS
// ======================================================

func (h *ScheduleHandler) SaveException(c *gin.Context) {
	var req ExceptionRequest
	if !bindJSON(c, &req) {
		return
	}

	row := models.ScheduleException{
		ScopeType: req.ScopeType,
		ScopeID:   req.ScopeID,
		Date:      req.Date,
		Kind:      req.Kind,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Reason:    req.Reason,
	}
	if err := catalog.ValidateException(&row); err != nil {
		httperr.Respond(c, err)
		return
	}

	ctx := c.Request.Context()
	var err error
	if row.ScopeType == models.ScopeBranch {
		_, err = h.catalog.GetBranch(ctx, row.ScopeID)
	} else {
		_, err = h.catalog.GetBarber(ctx, row.ScopeID)
	}
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := h.catalog.SaveException(ctx, &row); err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(h.audit, c, nil, "schedule_exception_saved", "schedule_exception", row.ID, row)
	c.JSON(http.StatusOK, row)
}

// ListExceptions takes ?scope_type=BRANCH|BARBER&scope_id=N.
func (h *ScheduleHandler) ListExceptions(c *gin.Context) {
	scope := schedule.Scope(c.Query("scope_type"))
	if scope != schedule.ScopeBranch && scope != schedule.ScopeBarber {
		httperr.BadRequest(c, "invalid_scope", "scope_type debe ser BRANCH o BARBER")
		return
	}
	scopeID, err := strconv.ParseUint(c.Query("scope_id"), 10, 64)
	if err != nil || scopeID == 0 {
		httperr.BadRequest(c, "invalid_scope", "scope_id requerido")
		return
	}

	rows, err := h.catalog.ListExceptions(c.Request.Context(), scope, uint(scopeID))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, rows)
}

func (h *ScheduleHandler) DeleteException(c *gin.Context) {
	h.delete(c, "schedule_exception", h.catalog.DeleteException)
}

// ======================================================
// BREAKS
// ======================================================

func (h *ScheduleHandler) CreateBreak(c *gin.Context) {
	var req BreakRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := catalog.ValidateHours(*req.Weekday, req.StartTime, req.EndTime); err != nil {
		httperr.Respond(c, err)
		return
	}

	ctx := c.Request.Context()
	barber, err := h.catalog.GetBarber(ctx, req.BarberID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	row := models.BarberBreak{
		BarberID:  req.BarberID,
		Weekday:   *req.Weekday,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Label:     req.Label,
	}
	if err := h.catalog.CreateBreak(ctx, &row); err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(h.audit, c, barber.BranchID, "barber_break_created", "barber_break", row.ID, row)
	c.JSON(http.StatusCreated, row)
}

func (h *ScheduleHandler) ListBreaks(c *gin.Context) {
	barberID, ok := uintParam(c, "barberoId")
	if !ok {
		return
	}

	rows, err := h.catalog.ListBreaks(c.Request.Context(), barberID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, rows)
}

func (h *ScheduleHandler) DeleteBreak(c *gin.Context) {
	h.delete(c, "barber_break", h.catalog.DeleteBreak)
}

// --------- shared ---------

func (h *ScheduleHandler) delete(
	c *gin.Context,
	entity string,
	del func(ctx context.Context, id uint) error,
) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if err := del(c.Request.Context(), id); err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(h.audit, c, nil, entity+"_deleted", entity, id, nil)
	c.Status(http.StatusNoContent)
}
