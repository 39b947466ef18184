package usecase

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/infrastructure/metrics"
)

// SettlementUseCase handles lump-sum repayments from participants.
type SettlementUseCase struct {
	txManager  TransactionManager
	txRepo     TransactionRepository
	outboxRepo OutboxRepository
	idGen      IDGenerator
	retrier    Retrier
	metrics    *metrics.Metrics
}

// NewSettlementUseCase creates a new SettlementUseCase.
func NewSettlementUseCase(
	txManager TransactionManager,
	txRepo TransactionRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	retrier Retrier,
	metrics *metrics.Metrics,
) *SettlementUseCase {
	return &SettlementUseCase{
		txManager:  txManager,
		txRepo:     txRepo,
		outboxRepo: outboxRepo,
		idGen:      idGen,
		retrier:    retrier,
		metrics:    metrics,
	}
}

// SettleBulkInput represents a lump payment from one person.
type SettleBulkInput struct {
	Name   string
	Amount decimal.Decimal
	Date   *civil.Date
}

// SettleBulk allocates a payment over the person's bills, oldest first, and
// persists every touched transaction atomically.
func (uc *SettlementUseCase) SettleBulk(ctx context.Context, input SettleBulkInput) (*domain.Allocation, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrInvalidParticipant
	}
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	var alloc *domain.Allocation
	err := inTransaction(ctx, uc.txManager, uc.retrier, func(ctx context.Context, dbTx Transaction) error {
		now := time.Now().UTC()

		txs, err := uc.txRepo.ListByParticipantsForUpdate(ctx, dbTx, []string{name})
		if err != nil {
			return err
		}

		a, err := domain.AllocatePayment(name, input.Amount, txs, dateOr(input.Date, now), uc.idGen.Generate)
		if err != nil {
			return err
		}
		for _, tx := range a.Transactions {
			tx.UpdatedAt = now
		}

		if err := checkConservation(originalsOf(txs, a.Transactions), a.Transactions, input.Amount); err != nil {
			return err
		}

		if err := uc.txRepo.SaveBatch(ctx, dbTx, a.Transactions); err != nil {
			return err
		}

		event := newEvent(uc.idGen, domain.AggregateTypeParticipant, name, domain.EventTypeSettlementAllocated, map[string]any{
			"name":         name,
			"amount":       input.Amount.String(),
			"credit":       a.Credit.String(),
			"transactions": ids(a.Transactions),
		}, now)
		if err := uc.outboxRepo.Create(ctx, dbTx, event); err != nil {
			return err
		}

		alloc = a
		return nil
	})
	if err != nil {
		if uc.metrics != nil {
			uc.metrics.LedgerErrors.WithLabelValues("settle_bulk").Inc()
		}
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.SettlementsApplied.Inc()
		uc.metrics.SettlementAmount.Observe(input.Amount.InexactFloat64())
		uc.metrics.BatchSize.Observe(float64(len(alloc.Transactions)))
	}

	return alloc, nil
}
