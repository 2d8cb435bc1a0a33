package kafka

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/Gobusters/ectologger"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/Ramsey-B/clover/pkg/tracing"
)

func newTestProducer() *Producer {
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	return NewProducer(ProducerConfig{
		Brokers: []string{"localhost:9092"},
		Topic:   "match-events",
	}, logger)
}

func headerValue(msg kafkago.Message, key string) (string, bool) {
	for _, header := range msg.Headers {
		if header.Key == key {
			return string(header.Value), true
		}
	}
	return "", false
}

func TestBuildMessages(t *testing.T) {
	producer := newTestProducer()

	events := []*MatchEvent{
		{
			EventType:     "match.found",
			SourceItemID:  "source-1",
			MatchedItemID: "candidate-1",
			Confidence:    0.91,
			SchemaVersion: "1.0",
		},
		{
			EventType:     "match.completed",
			SourceItemID:  "source-1",
			TotalMatches:  1,
			SchemaVersion: "1.0",
		},
	}

	messages, err := producer.buildMessages(context.Background(), events)
	require.NoError(t, err)
	require.Len(t, messages, 2)

	for i, msg := range messages {
		assert.Equal(t, "match-events", msg.Topic)
		assert.Equal(t, []byte("source-1"), msg.Key)

		eventType, ok := headerValue(msg, "event_type")
		require.True(t, ok)
		assert.Equal(t, events[i].EventType, eventType)

		version, ok := headerValue(msg, "schema_version")
		require.True(t, ok)
		assert.Equal(t, "1.0", version)

		_, ok = headerValue(msg, "traceparent")
		assert.False(t, ok, "no active span, so no traceparent header")

		var decoded MatchEvent
		require.NoError(t, json.Unmarshal(msg.Value, &decoded))
		assert.Equal(t, events[i].EventType, decoded.EventType)
		assert.False(t, decoded.Timestamp.IsZero())
	}
}

func TestBuildMessages_TraceParentHeader(t *testing.T) {
	provider := sdktrace.NewTracerProvider()
	tracing.SetTracer(provider.Tracer("test"))
	t.Cleanup(func() { tracing.SetTracer(nil) })

	ctx, span := tracing.StartSpan(context.Background(), "test-span")
	defer span.End()

	producer := newTestProducer()
	messages, err := producer.buildMessages(ctx, []*MatchEvent{
		{EventType: "match.found", SourceItemID: "source-1", SchemaVersion: "1.0"},
	})
	require.NoError(t, err)
	require.Len(t, messages, 1)

	traceParent, ok := headerValue(messages[0], "traceparent")
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(traceParent, "00-"), "expected a W3C traceparent, got %q", traceParent)
	assert.Contains(t, traceParent, span.SpanContext().TraceID().String())
}
