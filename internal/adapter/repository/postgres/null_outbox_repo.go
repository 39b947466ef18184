package postgres

import (
	"context"
	"time"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/usecase"
)

// NullOutboxRepository drops every event. The server uses it when
// OUTBOX_ENABLED is false, which also leaves history endpoints empty.
type NullOutboxRepository struct{}

var _ usecase.OutboxRepository = NullOutboxRepository{}

// NewNullOutboxRepository creates a new NullOutboxRepository.
func NewNullOutboxRepository() NullOutboxRepository {
	return NullOutboxRepository{}
}

func (NullOutboxRepository) Create(context.Context, usecase.Transaction, *domain.OutboxEvent) error {
	return nil
}

func (NullOutboxRepository) GetUnpublished(context.Context, int) ([]*domain.OutboxEvent, error) {
	return nil, nil
}

func (NullOutboxRepository) MarkPublished(context.Context, string, time.Time) error {
	return nil
}

func (NullOutboxRepository) GetByAggregate(context.Context, string, string, int, int) ([]*domain.OutboxEvent, error) {
	return []*domain.OutboxEvent{}, nil
}

func (NullOutboxRepository) DeletePublished(context.Context, time.Time) error {
	return nil
}
