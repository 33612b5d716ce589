package observability

import (
	"fmt"
	"io"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// NewTracerProvider exports finished spans as JSON lines to w. Spans are
// written synchronously so nothing is buffered when a Lambda sandbox freezes.
func NewTracerProvider(serviceName string, w io.Writer, sampleRatio float64) (*sdktrace.TracerProvider, error) {
	if sampleRatio < 0 || sampleRatio > 1 {
		return nil, fmt.Errorf("sample ratio %v outside [0,1]", sampleRatio)
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, fmt.Errorf("trace exporter init failed: %w", err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", serviceName))),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sampleRatio))),
	), nil
}
