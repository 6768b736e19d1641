// Package apm wires OpenTelemetry tracing. The provider is selected at
// startup; spans are created by infra code through otel.Tracer.
package apm

import (
	"context"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.10.0"

	"github.com/Travisswop/swap-engine/internal/logger"
)

// Provider selects the span exporter.
type Provider string

const (
	ZipkinProvider  Provider = "zipkin"
	OTLPProvider    Provider = "otlp"
	ConsoleProvider Provider = "console"
	EmptyProvider   Provider = "empty"
)

// TraceProvider owns the exporter lifecycle.
type TraceProvider interface {
	Stop() error
}

type traceProvider struct {
	tp *sdktrace.TracerProvider
}

type emptyProvider struct{}

func (emptyProvider) Stop() error { return nil }

// New sets up the global tracer provider for the given exporter.
// Endpoint comes from OTEL_EXPORTER_OTLP_ENDPOINT; the OTLP exporter
// honors OTEL_EXPORTER_OTLP_PROTOCOL ("http/protobuf" vs gRPC).
func New(provider Provider, log logger.LoggerInterface) TraceProvider {
	serviceName := os.Getenv("OTEL_SERVICE_NAME")
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")

	exp, err := newExporter(provider, endpoint)
	if err != nil {
		log.Error(context.Background(), "failed to create trace exporter, tracing disabled",
			"provider", string(provider), "error", err)
		return emptyProvider{}
	}
	if exp == nil {
		return emptyProvider{}
	}

	rsrc, _ := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
			attribute.String("otel.provider", string(provider)),
		))

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(rsrc),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))

	return &traceProvider{tp}
}

func newExporter(provider Provider, endpoint string) (sdktrace.SpanExporter, error) {
	switch provider {
	case ZipkinProvider:
		return zipkin.New(endpoint)
	case OTLPProvider:
		if os.Getenv("OTEL_EXPORTER_OTLP_PROTOCOL") == "http/protobuf" {
			return otlptracehttp.New(context.Background(),
				otlptracehttp.WithEndpointURL(endpoint))
		}
		return otlptracegrpc.New(context.Background(),
			otlptracegrpc.WithEndpointURL(endpoint))
	case ConsoleProvider:
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	default:
		return nil, nil
	}
}

func (o *traceProvider) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return o.tp.Shutdown(ctx)
}
