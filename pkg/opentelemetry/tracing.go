package opentelemetry

import (
	"context"

	"github.com/testdeck/testdeck/config"
	"github.com/testdeck/testdeck/pkg/constants"
	"github.com/testdeck/testdeck/pkg/lumber"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.7.0"
)

// InitTracer configures the global tracer provider with an OTLP gRPC
// exporter. Returns a shutdown function to flush pending spans. When no
// collector endpoint is configured tracing stays disabled and the
// shutdown function is a no-op.
func InitTracer(ctx context.Context, cfg *config.Config, logger lumber.Logger) (func(context.Context) error, error) {
	if cfg.Tracing.OtelEndpoint == "" {
		logger.Debugf("tracing collector endpoint not configured, skipping tracer setup")
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.Tracing.OtelEndpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		logger.Errorf("failed to create OTLP trace exporter, error: %v", err)
		return nil, err
	}

	res, err := sdkresource.New(ctx,
		sdkresource.WithAttributes(
			semconv.ServiceNameKey.String(constants.ServiceName),
			semconv.DeploymentEnvironmentKey.String(cfg.Env),
		),
	)
	if err != nil {
		logger.Errorf("failed to create tracing resource, error: %v", err)
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	logger.Infof("tracer provider initialized, exporting to %s", cfg.Tracing.OtelEndpoint)

	return tp.Shutdown, nil
}
