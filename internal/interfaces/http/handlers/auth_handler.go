package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/perimetra/devscope/internal/application/dto"
	"github.com/perimetra/devscope/internal/application/service"
	"github.com/perimetra/devscope/pkg/errors"
	"github.com/perimetra/devscope/pkg/logger"
)

// AuthHandler serves the login endpoint.
type AuthHandler struct {
	auth   service.AuthAppService
	logger logger.Logger
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(auth service.AuthAppService, log logger.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		logger: log.WithComponent("auth_handler"),
	}
}

// Login handles POST /v1/auth/login. A body that does not bind is a 400; any
// rejected credential pair is a 401 with a message that never says which part
// was wrong.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, errors.ErrInvalidRequest("username and password are required"))
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respondOK(c, http.StatusOK, resp)
}
