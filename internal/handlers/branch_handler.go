package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barberia-api/internal/audit"
	"github.com/BruksfildServices01/barberia-api/internal/domain/catalog"
	"github.com/BruksfildServices01/barberia-api/internal/httperr"
	"github.com/BruksfildServices01/barberia-api/internal/httpresp"
	"github.com/BruksfildServices01/barberia-api/internal/models"
	"github.com/BruksfildServices01/barberia-api/internal/timezone"
)

type BranchHandler struct {
	catalog catalog.Repository
	audit   *audit.Dispatcher
}

func NewBranchHandler(cat catalog.Repository, d *audit.Dispatcher) *BranchHandler {
	return &BranchHandler{catalog: cat, audit: d}
}

type CreateBranchRequest struct {
	Name         string `json:"name" binding:"required"`
	BusinessCode string `json:"business_code"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	Timezone     string `json:"timezone"`
}

func (h *BranchHandler) Create(c *gin.Context) {
	var req CreateBranchRequest
	if !bindJSON(c, &req) {
		return
	}

	tz := strings.TrimSpace(req.Timezone)
	if tz != "" && !timezone.IsValid(tz) {
		httperr.BadRequest(c, "invalid_timezone", "Zona horaria inválida: "+tz)
		return
	}

	branch := models.Branch{
		Name:         strings.TrimSpace(req.Name),
		BusinessCode: strings.ToUpper(strings.TrimSpace(req.BusinessCode)),
		Phone:        req.Phone,
		Address:      req.Address,
		Timezone:     tz,
		Active:       true,
	}

	if err := h.catalog.CreateBranch(c.Request.Context(), &branch); err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(h.audit, c, &branch.ID, "branch_created", "branch", branch.ID, gin.H{"name": branch.Name})
	httpresp.Created(c, branch)
}

func (h *BranchHandler) List(c *gin.Context) {
	branches, err := h.catalog.ListBranches(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, branches)
}

func (h *BranchHandler) Get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	branch, err := h.catalog.GetBranch(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, branch)
}
