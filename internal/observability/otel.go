// Package observability provides OpenTelemetry trace export.
//
// Spans are exported to a local collector over OTLP HTTP. The exporter is
// optional infrastructure: when disabled, or when the collector cannot be
// reached at startup, tracing degrades to a no-op and never blocks the
// application.
//
// Configuration (~/.quill/config.yaml):
//
//	telemetry:
//	  enabled: true
//	  endpoint: "localhost:4318"
//	  environment: "dev"
//	  service_name: "quill"
package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/quillchat/quill/internal/config"
)

// DefaultEndpoint is the default collector OTLP HTTP endpoint.
const DefaultEndpoint = "localhost:4318"

// nopShutdown is returned whenever tracing is disabled or unavailable.
func nopShutdown(context.Context) error { return nil }

// Setup registers a global tracer provider exporting to the configured
// OTLP collector. Returns a shutdown function that flushes pending spans.
//
// Setup never fails hard: if the exporter cannot be created, tracing is
// disabled with a warning and a no-op shutdown is returned.
func Setup(ctx context.Context, cfg config.TelemetryConfig) func(context.Context) error {
	if !cfg.Enabled {
		return nopShutdown
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(), // local collector, no TLS
	)
	if err != nil {
		slog.Warn("failed to create OTLP exporter, tracing disabled", "error", err)
		return nopShutdown
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("deployment.environment", cfg.Environment),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	slog.Debug("tracing enabled",
		"endpoint", endpoint,
		"service", cfg.ServiceName,
		"environment", cfg.Environment,
	)

	return tp.Shutdown
}
