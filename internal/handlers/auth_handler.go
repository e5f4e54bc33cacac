package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barberia-api/internal/auth"
	"github.com/BruksfildServices01/barberia-api/internal/httperr"
	"github.com/BruksfildServices01/barberia-api/internal/models"
	"github.com/BruksfildServices01/barberia-api/internal/validators"
)

type AuthHandler struct {
	verifier *auth.Verifier
	tokens   *auth.TokenIssuer

	// emailDomainOK is swapped in tests to stay off the network.
	emailDomainOK func(string) bool
}

func NewAuthHandler(verifier *auth.Verifier, tokens *auth.TokenIssuer) *AuthHandler {
	return &AuthHandler{
		verifier:      verifier,
		tokens:        tokens,
		emailDomainOK: validators.IsEmailDomainValid,
	}
}

// --------- Requests ---------

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"omitempty,oneof=admin manager"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

// Register creates a staff account. Mounted behind the admin role.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !h.emailDomainOK(email) {
		httperr.BadRequest(c, "invalid_email_domain", "El dominio del email no parece válido.")
		return
	}

	user, err := h.verifier.Register(c.Request.Context(), req.Name, email, req.Password, req.Role)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": userView(user)})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.verifier.Verify(c.Request.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		httperr.Unauthorized(c, "invalid_credentials", "Credenciales inválidas.")
		return
	case errors.Is(err, auth.ErrNotAllowed):
		httperr.Write(c, http.StatusForbidden, "not_allowed", "Cuenta sin acceso.")
		return
	case err != nil:
		httperr.Respond(c, err)
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "No se pudo generar el token.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  userView(user),
		"token": token,
	})
}

func userView(u *models.User) gin.H {
	return gin.H{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
		"role":  u.Role,
	}
}
