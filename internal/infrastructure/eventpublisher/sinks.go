package eventpublisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/iho/splitledger/internal/domain"
)

// LogPublisher writes every event as one structured log line.
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs the event with its payload as raw JSON.
func (p *LogPublisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", event.EventType, err)
	}

	p.logger.Info().
		Str("event_id", event.ID).
		Str("event_type", event.EventType).
		Str("aggregate_type", event.AggregateType).
		Str("aggregate_id", event.AggregateID).
		Time("occurred_at", event.CreatedAt).
		RawJSON("payload", payload).
		Msg("ledger event")
	return nil
}

// FanOut sends each event to every sink in order and stops at the first
// failure. The event is then retried against all sinks, so sinks must
// tolerate duplicates.
type FanOut []Publisher

// Publish implements Publisher.
func (f FanOut) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	for i, p := range f {
		if err := p.Publish(ctx, event); err != nil {
			return fmt.Errorf("sink %d: %w", i, err)
		}
	}
	return nil
}
