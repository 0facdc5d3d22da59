package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/perimetra/devscope/pkg/logger"
)

// ReadinessCheck probes one dependency. A non-nil error marks the service not
// ready.
type ReadinessCheck func(ctx context.Context) error

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	checks map[string]ReadinessCheck
	logger logger.Logger
}

// NewHealthHandler creates the health handler with named dependency checks.
func NewHealthHandler(checks map[string]ReadinessCheck, log logger.Logger) *HealthHandler {
	return &HealthHandler{
		checks: checks,
		logger: log.WithComponent("health"),
	}
}

// Live handles GET /health/live. The process is alive if it can answer.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready handles GET /health/ready. It runs every dependency check and reports
// per-dependency status; any failure yields 503.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(gin.H, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			status = http.StatusServiceUnavailable
			results[name] = "unavailable"
			h.logger.Warn(ctx, "readiness check failed",
				logger.String("dependency", name),
				logger.Err(err),
			)
			continue
		}
		results[name] = "ok"
	}

	c.JSON(status, gin.H{"status": statusWord(status), "dependencies": results})
}

func statusWord(status int) string {
	if status == http.StatusOK {
		return "ok"
	}
	return "degraded"
}
