package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/barberia-api/internal/audit"
	"github.com/BruksfildServices01/barberia-api/internal/domain/catalog"
	"github.com/BruksfildServices01/barberia-api/internal/httperr"
	"github.com/BruksfildServices01/barberia-api/internal/httpresp"
	"github.com/BruksfildServices01/barberia-api/internal/models"
)

type ClientHandler struct {
	catalog catalog.Repository
	audit   *audit.Dispatcher
}

func NewClientHandler(cat catalog.Repository, d *audit.Dispatcher) *ClientHandler {
	return &ClientHandler{catalog: cat, audit: d}
}

type CreateClientRequest struct {
	Name         string `json:"name" binding:"required"`
	Phone        string `json:"phone"`
	Email        string `json:"email" binding:"omitempty,email"`
	ExternalCode string `json:"external_code"`
}

func (h *ClientHandler) Create(c *gin.Context) {
	var req CreateClientRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	code := strings.TrimSpace(req.ExternalCode)

	if code != "" {
		existing, err := h.catalog.FindClientByExternalCode(ctx, code)
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		if existing != nil {
			httperr.BadRequest(c, "external_code_taken", "Ya existe un cliente con ese código externo.")
			return
		}
	}

	// external_code is unique, so walk-in clients get a local one.
	if code == "" {
		code = "CLI-" + strings.ToUpper(uuid.NewString()[:8])
	}

	client := models.Client{
		Name:         strings.TrimSpace(req.Name),
		Phone:        strings.TrimSpace(req.Phone),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		ExternalCode: code,
	}

	if err := h.catalog.CreateClient(ctx, &client); err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(h.audit, c, nil, "client_created", "client", client.ID, nil)
	httpresp.Created(c, client)
}

// ======================================================
// LIST CLIENTS
// ======================================================
func (h *ClientHandler) List(c *gin.Context) {
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	clients, err := h.catalog.ListClients(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if query == "" {
		httpresp.List(c, clients)
		return
	}

	out := make([]models.Client, 0, len(clients))
	for _, cl := range clients {
		if strings.Contains(strings.ToLower(cl.Name), query) ||
			strings.Contains(cl.Phone, query) ||
			strings.Contains(strings.ToLower(cl.Email), query) ||
			strings.Contains(strings.ToLower(cl.ExternalCode), query) {
			out = append(out, cl)
		}
	}
	httpresp.List(c, out)
}

func (h *ClientHandler) Get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	client, err := h.catalog.GetClient(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, client)
}
