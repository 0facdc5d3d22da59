package monitoring

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/perimetra/devscope/internal/config"
	"github.com/perimetra/devscope/pkg/logger"
)

// InitTracer sets up the global OpenTelemetry tracer provider with a Jaeger
// exporter. When tracing is disabled the default no-op provider stays in
// place and the returned shutdown does nothing.
func InitTracer(cfg *config.TracingConfig, log logger.Logger) (trace.Tracer, func(context.Context) error, error) {
	if !cfg.Enabled {
		log.Info(context.Background(), "tracing disabled")
		return otel.Tracer(cfg.ServiceName), func(context.Context) error { return nil }, nil
	}

	exporter, err := jaeger.New(jaeger.WithCollectorEndpoint(
		jaeger.WithEndpoint(cfg.JaegerEndpoint),
	))
	if err != nil {
		return nil, nil, fmt.Errorf("create jaeger exporter: %w", err)
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(semconv.ServiceNameKey.String(cfg.ServiceName)),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("create resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.SamplingRate)),
	)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	log.Info(context.Background(), "tracing initialized",
		logger.String("endpoint", cfg.JaegerEndpoint),
		logger.Any("sampling_rate", cfg.SamplingRate),
	)

	return provider.Tracer(cfg.ServiceName), provider.Shutdown, nil
}
