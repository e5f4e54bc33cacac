package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barberia-api/internal/auth"
	"github.com/BruksfildServices01/barberia-api/internal/httperr"
)

type MeHandler struct {
	users auth.UserStore
}

func NewMeHandler(users auth.UserStore) *MeHandler {
	return &MeHandler{users: users}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	id := actorID(c)
	if id == nil {
		httperr.Unauthorized(c, "user_not_in_context", "No autorizado")
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), *id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if !user.Active {
		httperr.Unauthorized(c, "user_inactive", "Cuenta inactiva")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userView(user)})
}
