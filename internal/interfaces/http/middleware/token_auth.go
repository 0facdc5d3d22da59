// Package middleware provides the Gin middleware chain: token authentication
// and request observability.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/perimetra/devscope/internal/application/dto"
	"github.com/perimetra/devscope/internal/domain/models"
	domainservice "github.com/perimetra/devscope/internal/domain/service"
	"github.com/perimetra/devscope/internal/infrastructure/monitoring"
	"github.com/perimetra/devscope/pkg/constants"
	"github.com/perimetra/devscope/pkg/errors"
	"github.com/perimetra/devscope/pkg/logger"
)

// extractBearer pulls the token out of an Authorization header value. Tokens
// are accepted from this header only; anything a client puts in the query
// string is never treated as a credential, so tokens cannot leak into access
// logs or browser history through URLs.
func extractBearer(authHeader string) string {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// TokenAuth verifies the bearer token on every request it guards and stores
// the decoded claims in the Gin context. All failures are 401 with the same
// client-facing message; the distinction between malformed, tampered, and
// expired tokens survives only in logs and metrics.
func TokenAuth(codec domainservice.TokenCodec, metrics *monitoring.Metrics, log logger.Logger) gin.HandlerFunc {
	log = log.WithComponent("token_auth")

	return func(c *gin.Context) {
		tokenString := extractBearer(c.GetHeader("Authorization"))
		if tokenString == "" {
			metrics.RecordTokenFailure("missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.Fail("invalid token"))
			return
		}

		claims, err := codec.Decode(c.Request.Context(), tokenString)
		if err != nil {
			reason := failureReason(err)
			metrics.RecordTokenFailure(reason)
			log.Warn(c.Request.Context(), "token rejected",
				logger.String("reason", reason),
				logger.String("client_ip", c.ClientIP()),
			)

			status := http.StatusUnauthorized
			message := "invalid token"
			if appErr, ok := errors.AsAppError(err); ok {
				status = appErr.HTTPStatus()
				message = appErr.Message()
			}
			c.AbortWithStatusJSON(status, dto.Fail(message))
			return
		}

		c.Set(constants.GinKeyClaims, claims)
		c.Next()
	}
}

func failureReason(err error) string {
	switch {
	case errors.HasCode(err, errors.CodeTokenExpired):
		return "expired"
	case errors.HasCode(err, errors.CodeTokenSignature):
		return "signature"
	default:
		return "malformed"
	}
}

// ClaimsFromContext retrieves the claims placed by TokenAuth. The second
// return is false when the middleware did not run, which handlers must treat
// as unauthenticated.
func ClaimsFromContext(c *gin.Context) (*models.Claims, bool) {
	value, exists := c.Get(constants.GinKeyClaims)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*models.Claims)
	return claims, ok
}
