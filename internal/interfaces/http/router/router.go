// Package router assembles the Gin engine and owns the HTTP server lifecycle.
package router

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/perimetra/devscope/internal/application/dto"
	"github.com/perimetra/devscope/internal/config"
	"github.com/perimetra/devscope/internal/infrastructure/monitoring"
	"github.com/perimetra/devscope/internal/interfaces/http/handlers"
	"github.com/perimetra/devscope/internal/interfaces/http/middleware"
	"github.com/perimetra/devscope/pkg/logger"
)

// Router wires middleware, handlers, and routes onto a Gin engine.
type Router struct {
	engine         *gin.Engine
	config         *config.Config
	logger         logger.Logger
	healthHandler  *handlers.HealthHandler
	authHandler    *handlers.AuthHandler
	deviceHandler  *handlers.DeviceHandler
	authMiddleware gin.HandlerFunc
	tracer         trace.Tracer
	metrics        *monitoring.Metrics
	gatherer       prometheus.Gatherer
	server         *http.Server
}

// NewRouter creates the router. tracer may be nil when tracing is disabled.
func NewRouter(
	cfg *config.Config,
	log logger.Logger,
	healthHandler *handlers.HealthHandler,
	authHandler *handlers.AuthHandler,
	deviceHandler *handlers.DeviceHandler,
	authMiddleware gin.HandlerFunc,
	tracer trace.Tracer,
	metrics *monitoring.Metrics,
	gatherer prometheus.Gatherer,
) *Router {
	gin.SetMode(gin.ReleaseMode)

	return &Router{
		engine:         gin.New(),
		config:         cfg,
		logger:         log.WithComponent("router"),
		healthHandler:  healthHandler,
		authHandler:    authHandler,
		deviceHandler:  deviceHandler,
		authMiddleware: authMiddleware,
		tracer:         tracer,
		metrics:        metrics,
		gatherer:       gatherer,
	}
}

// SetupRoutes installs the middleware chain and all routes.
func (r *Router) SetupRoutes() {
	r.engine.Use(gin.Recovery())
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.Observability(r.tracer, r.metrics, r.logger))

	r.engine.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))

	r.engine.GET("/health/live", r.healthHandler.Live)
	r.engine.GET("/health/ready", r.healthHandler.Ready)

	r.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})))

	if r.config.Monitoring.PprofEnabled {
		pprof.Register(r.engine)
	}

	v1 := r.engine.Group("/v1")
	{
		v1.POST("/auth/login", r.authHandler.Login)

		devices := v1.Group("/devices")
		devices.Use(r.authMiddleware)
		{
			devices.GET("", r.deviceHandler.ListDevices)
			devices.GET("/:deviceId", r.deviceHandler.GetDevice)
		}
	}

	r.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.Fail("resource not found"))
	})
}

// Start runs the HTTP server and blocks until it stops. Shutdown is driven by
// Stop, typically from the signal handler in main.
func (r *Router) Start() error {
	r.SetupRoutes()

	addr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	r.server = &http.Server{
		Addr:           addr,
		Handler:        r.engine,
		ReadTimeout:    r.config.Server.ReadTimeout,
		WriteTimeout:   r.config.Server.WriteTimeout,
		IdleTimeout:    r.config.Server.IdleTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	r.logger.Info(context.Background(), "starting HTTP server", logger.String("address", addr))

	if err := r.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop drains in-flight requests and shuts the server down.
func (r *Router) Stop(ctx context.Context) error {
	if r.server == nil {
		return nil
	}
	r.logger.Info(ctx, "stopping HTTP server")
	return r.server.Shutdown(ctx)
}

// Engine exposes the underlying engine for tests.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
