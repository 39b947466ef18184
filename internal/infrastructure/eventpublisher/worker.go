package eventpublisher

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/infrastructure/metrics"
	"github.com/iho/splitledger/internal/usecase"
)

const (
	defaultBatchSize     = 100
	defaultInterval      = 5 * time.Second
	defaultPurgeInterval = time.Hour
)

// Publisher delivers one ledger event to an external sink.
type Publisher interface {
	Publish(ctx context.Context, event *domain.OutboxEvent) error
}

// Config for EventPublisher.
type Config struct {
	OutboxRepo    usecase.OutboxRepository
	Publisher     Publisher
	Logger        zerolog.Logger
	Metrics       *metrics.Metrics // optional
	BatchSize     int
	Interval      time.Duration
	Retention     time.Duration // 0 keeps published events forever
	PurgeInterval time.Duration
}

// EventPublisher polls the outbox and hands pending events to a Publisher
// in commit order. Events of one transaction or participant never overtake
// each other: after a failure the rest of that aggregate waits for the
// next poll.
type EventPublisher struct {
	outboxRepo    usecase.OutboxRepository
	publisher     Publisher
	logger        zerolog.Logger
	metrics       *metrics.Metrics
	batchSize     int
	interval      time.Duration
	retention     time.Duration
	purgeInterval time.Duration
	lastPurge     time.Time
	now           func() time.Time
}

// NewEventPublisher creates a new EventPublisher.
func NewEventPublisher(cfg Config) *EventPublisher {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	if cfg.PurgeInterval <= 0 {
		cfg.PurgeInterval = defaultPurgeInterval
	}

	return &EventPublisher{
		outboxRepo:    cfg.OutboxRepo,
		publisher:     cfg.Publisher,
		logger:        cfg.Logger,
		metrics:       cfg.Metrics,
		batchSize:     cfg.BatchSize,
		interval:      cfg.Interval,
		retention:     cfg.Retention,
		purgeInterval: cfg.PurgeInterval,
		now:           time.Now,
	}
}

// Start polls until ctx is cancelled and then returns ctx.Err().
func (ep *EventPublisher) Start(ctx context.Context) error {
	ep.logger.Info().
		Int("batch_size", ep.batchSize).
		Dur("interval", ep.interval).
		Dur("retention", ep.retention).
		Msg("event publisher started")

	ticker := time.NewTicker(ep.interval)
	defer ticker.Stop()

	for {
		ep.drain(ctx)
		ep.maybePurge(ctx)

		select {
		case <-ctx.Done():
			ep.logger.Info().Msg("event publisher stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// drain publishes batches until the outbox is empty, a batch makes no
// progress, or ctx ends.
func (ep *EventPublisher) drain(ctx context.Context) {
	for ctx.Err() == nil {
		fetched, published, err := ep.processBatch(ctx)
		if err != nil {
			ep.logger.Error().Err(err).Msg("outbox poll failed")
			return
		}
		if fetched < ep.batchSize || published == 0 {
			return
		}
	}
}

// processBatch publishes one batch and reports how many events it fetched
// and how many it marked published.
func (ep *EventPublisher) processBatch(ctx context.Context) (fetched, published int, err error) {
	events, err := ep.outboxRepo.GetUnpublished(ctx, ep.batchSize)
	if err != nil {
		return 0, 0, err
	}

	blocked := make(map[string]bool)
	for _, event := range events {
		key := event.AggregateType + "/" + event.AggregateID
		if blocked[key] {
			continue
		}

		if err := ep.publisher.Publish(ctx, event); err != nil {
			blocked[key] = true
			ep.logger.Error().
				Err(err).
				Str("event_id", event.ID).
				Str("event_type", event.EventType).
				Str("aggregate", key).
				Msg("publish failed, holding aggregate until next poll")
			if ep.metrics != nil {
				ep.metrics.EventsFailed.Inc()
			}
			continue
		}
		if ep.metrics != nil {
			ep.metrics.EventsPublished.WithLabelValues(event.EventType).Inc()
		}

		if err := ep.outboxRepo.MarkPublished(ctx, event.ID, ep.now()); err != nil {
			// The sink saw it; it is sent again next poll.
			blocked[key] = true
			ep.logger.Error().Err(err).Str("event_id", event.ID).Msg("mark published failed")
			continue
		}
		published++
	}

	if len(events) > 0 {
		ep.logger.Debug().Int("fetched", len(events)).Int("published", published).Msg("outbox batch done")
	}
	return len(events), published, nil
}

func (ep *EventPublisher) maybePurge(ctx context.Context) {
	if ep.retention <= 0 {
		return
	}
	now := ep.now()
	if !ep.lastPurge.IsZero() && now.Sub(ep.lastPurge) < ep.purgeInterval {
		return
	}
	ep.lastPurge = now

	cutoff := now.Add(-ep.retention)
	if err := ep.outboxRepo.DeletePublished(ctx, cutoff); err != nil {
		ep.logger.Warn().Err(err).Time("cutoff", cutoff).Msg("purge of published events failed")
	}
}
