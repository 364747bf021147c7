// Package telemetry installs the process-wide logger and, when an OTLP collector
// is configured, the log and trace exporters behind it.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"recipebrowser/internal/config"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const ServiceName = "recipebrowser"

// ShutdownFunc flushes and stops whatever Setup started.
type ShutdownFunc func(context.Context) error

// Setup makes a logger writing to w the slog default. With an OTLP endpoint
// configured, records are also exported and a global tracer provider is installed.
func Setup(ctx context.Context, cfg config.LoggingConfig, w io.Writer) (ShutdownFunc, error) {
	opts := &slog.HandlerOptions{Level: cfg.Level}
	var local slog.Handler
	switch cfg.Format {
	case "json":
		local = slog.NewJSONHandler(w, opts)
	case "", "text":
		local = slog.NewTextHandler(w, opts)
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	if !cfg.OTLPEnabled() {
		slog.SetDefault(slog.New(local))
		return func(context.Context) error { return nil }, nil
	}

	res := resource.NewSchemaless(attribute.String("service.name", ServiceName))

	// exporters pick up OTEL_EXPORTER_OTLP_* from the environment themselves
	logExporter, err := otlploghttp.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("create otlp log exporter: %w", err)
	}
	loggerProvider := sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(logExporter)),
	)
	global.SetLoggerProvider(loggerProvider)

	traceExporter, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("create otlp trace exporter: %w", err), loggerProvider.Shutdown(ctx))
	}
	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(traceExporter),
	)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	remote := otelslog.NewHandler(ServiceName, otelslog.WithLoggerProvider(loggerProvider))
	slog.SetDefault(slog.New(NewFanout(cfg.Level, local, remote)))

	return func(ctx context.Context) error {
		return errors.Join(tracerProvider.Shutdown(ctx), loggerProvider.Shutdown(ctx))
	}, nil
}
