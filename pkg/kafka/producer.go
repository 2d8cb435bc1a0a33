// Package kafka publishes match events to the platform event bus.
package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/segmentio/kafka-go"

	"github.com/Ramsey-B/clover/pkg/tracing"
)

// Producer handles Kafka event emission
type Producer struct {
	writer *kafka.Writer
	logger ectologger.Logger
	topic  string
}

// ProducerConfig holds Kafka producer configuration
type ProducerConfig struct {
	Brokers      []string
	Topic        string
	BatchSize    int
	BatchTimeout time.Duration
	RequiredAcks int
	Compression  string
}

// NewProducer creates a new Kafka producer
func NewProducer(cfg ProducerConfig, logger ectologger.Logger) *Producer {
	compression := kafka.Snappy
	switch cfg.Compression {
	case "gzip":
		compression = kafka.Gzip
	case "lz4":
		compression = kafka.Lz4
	case "zstd":
		compression = kafka.Zstd
	case "none":
		compression = 0
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.LeastBytes{},
		BatchSize:              cfg.BatchSize,
		BatchTimeout:           cfg.BatchTimeout,
		RequiredAcks:           kafka.RequiredAcks(cfg.RequiredAcks),
		Compression:            compression,
		AllowAutoTopicCreation: true,
	}

	return &Producer{
		writer: writer,
		logger: logger,
		topic:  cfg.Topic,
	}
}

// Close closes the producer
func (p *Producer) Close() error {
	return p.writer.Close()
}

// MatchEvent represents an event about a matched item pair
type MatchEvent struct {
	EventType       string    `json:"event_type"` // match.found, match.completed
	SourceItemID    string    `json:"source_item_id"`
	MatchedItemID   string    `json:"matched_item_id,omitempty"`
	SimilarityScore float64   `json:"similarity_score,omitempty"`
	Confidence      float64   `json:"confidence,omitempty"`
	MatchReasons    []string  `json:"match_reasons,omitempty"`
	TotalMatches    int       `json:"total_matches"`
	CorrelationID   string    `json:"correlation_id,omitempty"`
	SchemaVersion   string    `json:"schema_version"`
	Timestamp       time.Time `json:"timestamp"`
}

// PublishMatchEvent publishes a single match event to Kafka
func (p *Producer) PublishMatchEvent(ctx context.Context, event *MatchEvent) error {
	return p.PublishMatchEvents(ctx, []*MatchEvent{event})
}

// PublishMatchEvents publishes match events in a batch, keyed by source
// item so all events for one match run land on the same partition.
func (p *Producer) PublishMatchEvents(ctx context.Context, events []*MatchEvent) error {
	ctx, span := tracing.StartSpan(ctx, "kafka.Producer.PublishMatchEvents")
	defer span.End()

	if len(events) == 0 {
		return nil
	}

	messages, err := p.buildMessages(ctx, events)
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, messages...); err != nil {
		p.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"batch_size": len(events),
		}).Error("Failed to publish match events")
		return err
	}

	p.logger.WithContext(ctx).WithFields(map[string]any{
		"batch_size": len(events),
	}).Debug("Published match events")

	return nil
}

// buildMessages serializes each event with its routing headers. The active
// trace context rides along as a traceparent header so consumers can join
// their spans to the match run that produced the event.
func (p *Producer) buildMessages(ctx context.Context, events []*MatchEvent) ([]kafka.Message, error) {
	traceParent := tracing.GetTraceParent(ctx)

	messages := make([]kafka.Message, len(events))
	for i, event := range events {
		if event.Timestamp.IsZero() {
			event.Timestamp = time.Now().UTC()
		}

		data, err := json.Marshal(event)
		if err != nil {
			return nil, err
		}

		headers := []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "source_item_id", Value: []byte(event.SourceItemID)},
			{Key: "schema_version", Value: []byte(event.SchemaVersion)},
		}
		if traceParent != "" {
			headers = append(headers, kafka.Header{Key: "traceparent", Value: []byte(traceParent)})
		}

		messages[i] = kafka.Message{
			Topic:   p.topic,
			Key:     []byte(event.SourceItemID),
			Value:   data,
			Headers: headers,
		}
	}

	return messages, nil
}
