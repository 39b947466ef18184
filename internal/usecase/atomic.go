package usecase

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/iho/splitledger/internal/domain"
)

// ErrCacheMiss is returned by Cache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// inTransaction runs fn inside one database transaction with DefaultTransactionTimeout.
// The whole attempt is re-run through retrier on transient failures.
func inTransaction(ctx context.Context, txManager TransactionManager, retrier Retrier, fn func(ctx context.Context, tx Transaction) error) error {
	attempt := func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		if err := fn(txCtx, tx); err != nil {
			return err
		}

		return tx.Commit(txCtx)
	}

	if retrier == nil {
		return attempt()
	}

	return retrier.Retry(ctx, attempt)
}

// checkConservation verifies the paid money moved by a batch equals want.
func checkConservation(before, after []*domain.Transaction, want decimal.Decimal) error {
	if got := domain.PaidDelta(before, after); !got.Equal(want) {
		return domain.ErrConservationViolated
	}
	return nil
}

// originalsOf returns the loaded versions of the transactions in changed.
func originalsOf(loaded, changed []*domain.Transaction) []*domain.Transaction {
	byID := make(map[string]*domain.Transaction, len(loaded))
	for _, tx := range loaded {
		byID[tx.ID] = tx
	}
	out := make([]*domain.Transaction, 0, len(changed))
	for _, tx := range changed {
		if orig, ok := byID[tx.ID]; ok {
			out = append(out, orig)
		}
	}
	return out
}

func newEvent(idGen IDGenerator, aggregateType, aggregateID, eventType string, payload map[string]any, now time.Time) *domain.OutboxEvent {
	return &domain.OutboxEvent{
		ID:            idGen.Generate(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Payload:       payload,
		CreatedAt:     now,
		Published:     false,
	}
}

func ids(txs []*domain.Transaction) []string {
	out := make([]string, 0, len(txs))
	for _, tx := range txs {
		out = append(out, tx.ID)
	}
	return out
}

func dateOr(d *civil.Date, now time.Time) civil.Date {
	if d != nil && !d.IsZero() {
		return *d
	}
	return civil.DateOf(now)
}
