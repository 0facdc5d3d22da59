package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/perimetra/devscope/internal/infrastructure/monitoring"
	"github.com/perimetra/devscope/pkg/constants"
	"github.com/perimetra/devscope/pkg/logger"
)

// RequestID assigns each request a correlation identifier, honoring an
// inbound X-Request-ID when present, and echoes it on the response. The ID is
// stored both in the Gin context and the request context so the logger and
// audit sinks can pick it up.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set(constants.GinKeyRequestID, requestID)
		ctx := context.WithValue(c.Request.Context(), constants.ContextKeyRequestID, requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Writer.Header().Set(constants.HeaderRequestID, requestID)
		c.Next()
	}
}

// Observability wraps each request in a trace span, records HTTP metrics, and
// writes an access log line. Metric labels use the route template, not the
// raw path, to keep cardinality bounded.
func Observability(tracer trace.Tracer, metrics *monitoring.Metrics, log logger.Logger) gin.HandlerFunc {
	log = log.WithComponent("http")

	return func(c *gin.Context) {
		start := time.Now()

		ctx := c.Request.Context()
		if tracer != nil {
			var span trace.Span
			ctx, span = tracer.Start(ctx, c.Request.Method+" "+c.FullPath())
			defer span.End()
			c.Request = c.Request.WithContext(ctx)

			defer func() {
				span.SetAttributes(
					attribute.String("http.method", c.Request.Method),
					attribute.String("http.route", c.FullPath()),
					attribute.Int("http.status_code", c.Writer.Status()),
				)
			}()
		}

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := c.Writer.Status()
		duration := time.Since(start)

		if metrics != nil {
			metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(status)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(duration.Seconds())
		}

		log.Info(c.Request.Context(), "request handled",
			logger.String("method", c.Request.Method),
			logger.String("path", path),
			logger.Int("status", status),
			logger.Duration("duration", duration),
			logger.String("client_ip", c.ClientIP()),
		)
	}
}
