// Package events handles event emission for match runs
package events

import (
	"context"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	"github.com/Ramsey-B/clover/pkg/kafka"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// SchemaVersion is the current event schema version
const SchemaVersion = "1.0"

// Event types emitted by the matching API.
const (
	EventTypeMatchFound     = "match.found"
	EventTypeMatchCompleted = "match.completed"
)

// Emitter publishes match-run events so downstream consumers (notifications,
// analytics) can react to new potential recoveries.
type Emitter struct {
	producer *kafka.Producer
	logger   ectologger.Logger
}

// NewEmitter creates a new event emitter
func NewEmitter(producer *kafka.Producer, logger ectologger.Logger) *Emitter {
	return &Emitter{
		producer: producer,
		logger:   logger,
	}
}

// EmitMatchesFound publishes one match.found event per matched pair plus a
// match.completed summary, all sharing a correlation id. Emission failures
// are logged and returned but never affect the match response itself.
func (e *Emitter) EmitMatchesFound(ctx context.Context, response *models.MatchResponse) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitMatchesFound")
	defer span.End()

	correlationID := uuid.New().String()

	batch := make([]*kafka.MatchEvent, 0, len(response.Matches)+1)
	for _, match := range response.Matches {
		batch = append(batch, &kafka.MatchEvent{
			EventType:       EventTypeMatchFound,
			SourceItemID:    response.SourceItemID,
			MatchedItemID:   match.ItemID,
			SimilarityScore: match.SimilarityScore,
			Confidence:      match.Confidence,
			MatchReasons:    match.MatchReasons,
			TotalMatches:    response.TotalMatches,
			CorrelationID:   correlationID,
			SchemaVersion:   SchemaVersion,
		})
	}

	batch = append(batch, &kafka.MatchEvent{
		EventType:     EventTypeMatchCompleted,
		SourceItemID:  response.SourceItemID,
		TotalMatches:  response.TotalMatches,
		CorrelationID: correlationID,
		SchemaVersion: SchemaVersion,
	})

	if err := e.producer.PublishMatchEvents(ctx, batch); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit match events")
		return err
	}

	return nil
}
