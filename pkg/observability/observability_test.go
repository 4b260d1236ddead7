package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	require.Equal(t, "braincore", config.ServiceName)
	require.Equal(t, "1.0.0", config.ServiceVersion)
	require.Equal(t, "development", config.Environment)
	require.Equal(t, "localhost:4317", config.OTLPEndpoint)
	require.Equal(t, 1.0, config.SampleRate)
	require.True(t, config.Enabled)
	require.False(t, config.Insecure)
}

func TestNewProviderDisabled(t *testing.T) {
	config := &Config{
		Enabled: false,
	}

	p, err := New(context.Background(), config)
	require.NoError(t, err)
	require.NotNil(t, p)

	// Should not fail even when disabled
	tracer := p.Tracer()
	require.NotNil(t, tracer)

	meter := p.Meter()
	require.NotNil(t, meter)
}

func TestTrackOperation(t *testing.T) {
	p, err := New(context.Background(), &Config{Enabled: false})
	require.NoError(t, err)

	ctx := context.Background()
	attrs := RequestOperation("t1", "req-1", "invoices/match")

	newCtx, finish := p.TrackOperation(ctx, "gate.route", attrs...)
	require.NotNil(t, newCtx)

	// Simulate some work
	time.Sleep(1 * time.Millisecond)

	// Call finish without error
	finish(nil)
}

func TestTrackOperationWithError(t *testing.T) {
	p, err := New(context.Background(), &Config{Enabled: false})
	require.NoError(t, err)

	_, finish := p.TrackOperation(context.Background(), "replay.run")

	// Call finish with error
	finish(errors.New("test error"))

	// Should not panic
}

func TestRecordMetricsWhenDisabled(t *testing.T) {
	p, err := New(context.Background(), &Config{Enabled: false})
	require.NoError(t, err)

	ctx := context.Background()

	// These should not panic when provider is disabled
	p.RecordRequest(ctx, attribute.String("test", "value"))
	p.RecordError(ctx, errors.New("test"), attribute.String("test", "value"))
	p.RecordDuration(ctx, 100*time.Millisecond, attribute.String("test", "value"))
	p.RecordGateDenial(ctx, "t1", "stale context hash")
	p.RecordAIOverride(ctx, "t1")
	p.RecordReplayDuration(ctx, "t1", 250*time.Millisecond)
}

func TestStartSpan(t *testing.T) {
	p, err := New(context.Background(), &Config{Enabled: false})
	require.NoError(t, err)

	newCtx, span := p.StartSpan(context.Background(), "test.span")
	require.NotNil(t, newCtx)
	require.NotNil(t, span)

	span.End()
}

func TestShutdown(t *testing.T) {
	p, err := New(context.Background(), &Config{Enabled: false})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, p.Shutdown(ctx))
}

func TestRequestOperation(t *testing.T) {
	attrs := RequestOperation("t1", "req-9", "invoices/match")
	require.Len(t, attrs, 3)
	require.Equal(t, "braincore.tenant.id", string(attrs[0].Key))
	require.Equal(t, "t1", attrs[0].Value.AsString())
}

func TestArbitrationOperation(t *testing.T) {
	attrs := ArbitrationOperation("t1", "PAYMENT_HOLD", true)
	require.Len(t, attrs, 3)
	require.Equal(t, "braincore.arbiter.ai_discarded", string(attrs[2].Key))
	require.Equal(t, true, attrs[2].Value.AsBool())
}

func TestReplayOperation(t *testing.T) {
	attrs := ReplayOperation("t1", "sha256:abc", 120)
	require.Len(t, attrs, 3)
	require.Equal(t, int64(120), attrs[2].Value.AsInt64())
}

func TestSpanFromContext(t *testing.T) {
	span := SpanFromContext(context.Background())
	require.NotNil(t, span) // Returns a no-op span if none
}

func TestAddSpanEvent(t *testing.T) {
	// Should not panic
	AddSpanEvent(context.Background(), "test.event", attribute.String("key", "value"))
}

func TestSetSpanStatus(t *testing.T) {
	// Should not panic
	SetSpanStatus(context.Background(), errors.New("test error"))
	SetSpanStatus(context.Background(), nil)
}
