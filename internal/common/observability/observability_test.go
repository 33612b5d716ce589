package observability

import (
	"context"
	"strings"
	"testing"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestObservability_SpansAndMetrics(t *testing.T) {
	reg := promclient.NewRegistry()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	obs, err := New("blog-generator", WithRegisterer(reg), WithTracerProvider(tp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = obs.Shutdown(context.Background()) })

	ctx, span := obs.StartSpan(context.Background(), "generation.invoke", attribute.String("model_id", "m"))
	span.End()

	obs.RecordInvocation(ctx, 200, 15*time.Millisecond)
	obs.RecordInvocation(ctx, 500, 3*time.Millisecond)

	ended := sr.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "generation.invoke", ended[0].Name())

	families, err := reg.Gather()
	require.NoError(t, err)

	var counter, histogram bool
	for _, mf := range families {
		assert.NotContains(t, mf.GetName(), ".", "metric names use underscores")
		switch {
		case strings.HasPrefix(mf.GetName(), "blog_invocations"):
			counter = true
			assert.Len(t, mf.GetMetric(), 2)
		case strings.HasPrefix(mf.GetName(), "blog_invocation_duration"):
			histogram = true
			assert.Len(t, mf.GetMetric(), 2)
		}
	}
	assert.True(t, counter, "invocation counter not exported")
	assert.True(t, histogram, "invocation duration not exported")
}

func TestObservability_ZeroValueIsSafe(t *testing.T) {
	obs := &Observability{}
	assert.NotPanics(t, func() {
		obs.RecordInvocation(context.Background(), 200, time.Second)
	})
	assert.NoError(t, obs.Shutdown(context.Background()))
}

func TestObservability_NilReceiver(t *testing.T) {
	var obs *Observability
	ctx, span := obs.StartSpan(context.Background(), "noop")
	assert.NotNil(t, ctx)
	assert.False(t, span.SpanContext().IsValid())
	span.End()
	obs.RecordInvocation(ctx, 200, time.Second)
	assert.NoError(t, obs.Shutdown(ctx))
}
