// Package handlers implements the HTTP endpoint handlers. Every response uses
// the uniform envelope: {success:true, data} or {success:false, message}.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/perimetra/devscope/internal/application/dto"
	"github.com/perimetra/devscope/pkg/errors"
	"github.com/perimetra/devscope/pkg/logger"
)

// respondOK writes a success envelope.
func respondOK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, dto.OK(data))
}

// respondError maps an application error to its HTTP status and client-safe
// message. Anything that is not an AppError is an unexpected internal failure
// and is logged with its detail but reported generically.
func respondError(c *gin.Context, log logger.Logger, err error) {
	if appErr, ok := errors.AsAppError(err); ok {
		if appErr.HTTPStatus() >= http.StatusInternalServerError {
			log.Error(c.Request.Context(), "request failed", err)
		}
		c.JSON(appErr.HTTPStatus(), dto.Fail(appErr.Message()))
		return
	}

	log.Error(c.Request.Context(), "unclassified error", err)
	c.JSON(http.StatusInternalServerError, dto.Fail("internal server error"))
}
