package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barberia-api/internal/audit"
	"github.com/BruksfildServices01/barberia-api/internal/domain/catalog"
	"github.com/BruksfildServices01/barberia-api/internal/httperr"
	"github.com/BruksfildServices01/barberia-api/internal/httpresp"
	"github.com/BruksfildServices01/barberia-api/internal/models"
)

type ServiceHandler struct {
	catalog catalog.Repository
	audit   *audit.Dispatcher
}

func NewServiceHandler(cat catalog.Repository, d *audit.Dispatcher) *ServiceHandler {
	return &ServiceHandler{catalog: cat, audit: d}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	BranchID     *uint   `json:"branch_id"`
	Name         string  `json:"name" binding:"required"`
	Description  string  `json:"description"`
	DurationMin  int     `json:"duration_min" binding:"required,min=1"`
	Price        float64 `json:"price" binding:"min=0"`
	ExternalCode string  `json:"external_code"`
}

// --------- Handlers ---------

// List accepts ?active=true|false and a free text ?query over name and
// description.
func (h *ServiceHandler) List(c *gin.Context) {
	activeStr := strings.TrimSpace(c.Query("active"))
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	services, err := h.catalog.ListServices(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	out := make([]models.Service, 0, len(services))
	for _, s := range services {
		if activeStr == "true" && !s.Active {
			continue
		}
		if activeStr == "false" && s.Active {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(s.Name), query) &&
			!strings.Contains(strings.ToLower(s.Description), query) {
			continue
		}
		out = append(out, s)
	}

	httpresp.List(c, out)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req CreateServiceRequest
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

	svc := models.Service{
		BranchID:    req.BranchID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		DurationMin: req.DurationMin,
		Price:       req.Price,
		Active:      true,
	}

	if code := strings.TrimSpace(req.ExternalCode); code != "" {
		existing, err := h.catalog.FindServiceByExternalCode(ctx, code)
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		if existing != nil {
			httperr.BadRequest(c, "external_code_taken", "El código externo ya está asignado al servicio "+existing.Name)
			return
		}
		svc.ExternalCode = &code
	}

	if err := h.catalog.CreateService(ctx, &svc); err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(h.audit, c, svc.BranchID, "service_created", "service", svc.ID, gin.H{
		"name":         svc.Name,
		"duration_min": svc.DurationMin,
		"price":        svc.Price,
	})
	httpresp.Created(c, svc)
}

func (h *ServiceHandler) Get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	svc, err := h.catalog.GetService(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, svc)
}
