// Command server runs the device monitoring API.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/perimetra/devscope/internal/application/service"
	"github.com/perimetra/devscope/internal/config"
	domainservice "github.com/perimetra/devscope/internal/domain/service"
	"github.com/perimetra/devscope/internal/infrastructure/audit"
	"github.com/perimetra/devscope/internal/infrastructure/crypto"
	"github.com/perimetra/devscope/internal/infrastructure/monitoring"
	"github.com/perimetra/devscope/internal/infrastructure/persistence/postgres"
	redisinfra "github.com/perimetra/devscope/internal/infrastructure/persistence/redis"
	"github.com/perimetra/devscope/internal/interfaces/http/handlers"
	"github.com/perimetra/devscope/internal/interfaces/http/middleware"
	"github.com/perimetra/devscope/internal/interfaces/http/router"
	"github.com/perimetra/devscope/pkg/logger"
)

func main() {
	loader := config.NewLoader()
	cfg, err := loader.Load()
	if err != nil {
		log.Fatalf("load configuration: %v", err)
	}

	appLogger, err := monitoring.NewZapLogger(&cfg.Log)
	if err != nil {
		log.Fatalf("initialize logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, loader, appLogger); err != nil {
		appLogger.Fatal(ctx, "server exited", err)
	}
}

func run(ctx context.Context, cfg *config.Config, loader *config.Loader, appLogger logger.Logger) error {
	tracer, shutdownTracer, err := monitoring.InitTracer(&cfg.Tracing, appLogger)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(shutdownCtx); err != nil {
			appLogger.Warn(shutdownCtx, "tracer shutdown failed", logger.Err(err))
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := monitoring.NewMetrics(registry)

	db, err := postgres.NewDBConnection(&cfg.Database, appLogger)
	if err != nil {
		return err
	}

	checks := map[string]handlers.ReadinessCheck{
		"postgres": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}

	var deviceCache service.DeviceCache
	if cfg.Redis.Enabled {
		redisClient, err := redisinfra.NewClient(&cfg.Redis, appLogger)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
		if cfg.Cache.Enabled {
			deviceCache = redisinfra.NewDeviceCache(redisClient, cfg.Cache.DeviceTTL, appLogger)
		}
	}

	secret, err := crypto.LoadSigningSecret(ctx, cfg, appLogger)
	if err != nil {
		return err
	}
	codec, err := crypto.NewHMACTokenCodec(secret, cfg.Auth.ClockLeeway, appLogger)
	if err != nil {
		return err
	}
	codec = crypto.NewCachingTokenCodec(codec)

	auditSink := newAuditSink(cfg, appLogger)
	defer func() {
		if err := auditSink.Close(); err != nil {
			appLogger.Warn(context.Background(), "audit sink close failed", logger.Err(err))
		}
	}()

	enforcer := domainservice.NewAccessEnforcer()
	credentialStore := postgres.NewCredentialStore(db, appLogger)
	deviceRepo := postgres.NewDeviceRepository(db, appLogger)

	authService := service.NewAuthAppService(credentialStore, codec, auditSink, metrics, appLogger, cfg.Auth.TokenTTL)
	deviceService := service.NewDeviceAppService(deviceRepo, deviceCache, metrics, appLogger)

	httpRouter := router.NewRouter(
		cfg,
		appLogger,
		handlers.NewHealthHandler(checks, appLogger),
		handlers.NewAuthHandler(authService, appLogger),
		handlers.NewDeviceHandler(deviceService, enforcer, auditSink, metrics, appLogger),
		middleware.TokenAuth(codec, metrics, appLogger),
		tracer,
		metrics,
		registry,
	)

	// Dynamic settings only. Everything structural is fixed at startup.
	loader.Watch(func(updated *config.Config) {
		if setter, ok := appLogger.(interface{ SetLevel(string) }); ok {
			setter.SetLevel(updated.Log.Level)
		}
		appLogger.Info(context.Background(), "configuration reloaded",
			logger.String("log_level", updated.Log.Level),
		)
	})

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(httpRouter.Start)
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := httpRouter.Stop(shutdownCtx); err != nil {
			return err
		}
		return closeDB(db)
	})

	return group.Wait()
}

// newAuditSink picks Kafka when brokers are configured and falls back to the
// structured log otherwise, so an audit trail always exists.
func newAuditSink(cfg *config.Config, log logger.Logger) domainservice.AuditService {
	if len(cfg.Kafka.Brokers) > 0 {
		return audit.NewKafkaProducer(cfg.Kafka, log)
	}
	return audit.NewLoggerSink(log)
}

func closeDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
