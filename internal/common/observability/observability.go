package observability

import (
	"context"
	"strconv"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Observability bundles the invocation-level meter and the pipeline tracer.
type Observability struct {
	meterProvider *metric.MeterProvider
	tracer        trace.Tracer
	invocations   otelmetric.Int64Counter
	duration      otelmetric.Float64Histogram
}

type options struct {
	registerer     promclient.Registerer
	tracerProvider trace.TracerProvider
}

type Option func(*options)

// WithRegisterer sets the prometheus registry the meter exports to.
func WithRegisterer(r promclient.Registerer) Option {
	return func(o *options) { o.registerer = r }
}

// WithTracerProvider overrides the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracerProvider = tp }
}

// New always returns a usable value. When it also returns an error the value
// traces but records no metrics.
func New(serviceName string, opts ...Option) (*Observability, error) {
	o := options{
		registerer:     promclient.DefaultRegisterer,
		tracerProvider: otel.GetTracerProvider(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	obs := &Observability{tracer: o.tracerProvider.Tracer(serviceName)}

	exporter, err := prometheus.New(prometheus.WithRegisterer(o.registerer))
	if err != nil {
		return obs, err
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	meter := provider.Meter(serviceName)

	invocations, err := meter.Int64Counter(
		"blog_invocations",
		otelmetric.WithDescription("Number of handled invocations"),
	)
	if err != nil {
		return obs, err
	}

	duration, err := meter.Float64Histogram(
		"blog_invocation_duration",
		otelmetric.WithDescription("End-to-end invocation duration"),
		otelmetric.WithUnit("ms"),
	)
	if err != nil {
		return obs, err
	}

	obs.meterProvider = provider
	obs.invocations = invocations
	obs.duration = duration
	return obs, nil
}

// StartSpan opens a child span for one pipeline stage. A nil receiver
// returns a no-op span.
func (o *Observability) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if o == nil || o.tracer == nil {
		return ctx, noop.Span{}
	}
	return o.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// RecordInvocation counts one handled request and its duration, labelled by status.
func (o *Observability) RecordInvocation(ctx context.Context, status int, d time.Duration) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(attribute.String("status", strconv.Itoa(status)))
	if o.invocations != nil {
		o.invocations.Add(ctx, 1, attrs)
	}
	if o.duration != nil {
		o.duration.Record(ctx, float64(d.Milliseconds()), attrs)
	}
}

func (o *Observability) Shutdown(ctx context.Context) error {
	if o == nil || o.meterProvider == nil {
		return nil
	}
	return o.meterProvider.Shutdown(ctx)
}
