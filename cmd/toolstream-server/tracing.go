package main

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"toolstream/internal/config"
)

// newTracer builds a tracer that exports spans over OTLP/HTTP or Zipkin
// depending on cfg.TraceExporter, and a no-op tracer when tracing isn't
// enabled at all.
func newTracer(ctx context.Context, cfg config.RuntimeConfig) (trace.Tracer, func(context.Context) error, error) {
	if !cfg.TracingEnabled {
		return noop.NewTracerProvider().Tracer("toolstream"), func(context.Context) error { return nil }, nil
	}

	var exporter sdktrace.SpanExporter
	var err error

	switch cfg.TraceExporter {
	case "zipkin":
		exporter, err = zipkin.New(cfg.ZipkinEndpoint)
	case "otlp":
		exporter, err = otlptracehttp.New(ctx, otlptracehttp.WithEndpoint(cfg.OTLPEndpoint), otlptracehttp.WithInsecure())
	default:
		return nil, nil, fmt.Errorf("toolstream-server: unsupported trace exporter: %s", cfg.TraceExporter)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("toolstream-server: build %s exporter: %w", cfg.TraceExporter, err)
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceName("toolstream-server"),
	))
	if err != nil {
		return nil, nil, fmt.Errorf("toolstream-server: build resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	return provider.Tracer("toolstream"), provider.Shutdown, nil
}
