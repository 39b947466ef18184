package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/iho/splitledger/internal/domain"
)

// LedgerUseCase handles ledger-wide reporting.
type LedgerUseCase struct {
	txRepo     TransactionRepository
	outboxRepo OutboxRepository
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(txRepo TransactionRepository, outboxRepo OutboxRepository) *LedgerUseCase {
	return &LedgerUseCase{
		txRepo:     txRepo,
		outboxRepo: outboxRepo,
	}
}

// Balances returns what every participant owes, sorted by name.
func (uc *LedgerUseCase) Balances(ctx context.Context) ([]domain.ParticipantBalance, error) {
	txs, err := uc.txRepo.ListWithSplits(ctx)
	if err != nil {
		return nil, err
	}
	return domain.SummarizeParticipants(txs), nil
}

// ParticipantLedger is one person's balance with the bills behind it.
type ParticipantLedger struct {
	Balance      domain.ParticipantBalance
	Transactions []*domain.Transaction
}

// Participant returns the balance and transactions of one person, oldest first.
func (uc *LedgerUseCase) Participant(ctx context.Context, name string) (*ParticipantLedger, error) {
	txs, err := uc.txRepo.ListWithSplits(ctx)
	if err != nil {
		return nil, err
	}

	var mine []*domain.Transaction
	for _, tx := range txs {
		if tx.ItemFor(name) != nil {
			mine = append(mine, tx)
		}
	}
	if len(mine) == 0 {
		return nil, domain.ErrParticipantNotFound
	}
	domain.SortByDate(mine)

	balances := domain.SummarizeParticipants(mine)
	for _, b := range balances {
		if b.Name == name {
			return &ParticipantLedger{Balance: b, Transactions: mine}, nil
		}
	}
	return nil, domain.ErrParticipantNotFound
}

// ConsistencyReport is the result of CheckConsistency.
type ConsistencyReport struct {
	Checked    int
	Consistent bool
	Problems   []domain.Inconsistency
	CheckedAt  time.Time
}

// CheckConsistency verifies the derived fields of every split in the ledger.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (*ConsistencyReport, error) {
	txs, err := uc.txRepo.ListWithSplits(ctx)
	if err != nil {
		return nil, err
	}

	problems := domain.CheckSplitConsistency(txs)
	return &ConsistencyReport{
		Checked:    len(txs),
		Consistent: len(problems) == 0,
		Problems:   problems,
		CheckedAt:  time.Now().UTC(),
	}, nil
}

// HistoryQuery selects the recorded events of one transaction or participant.
type HistoryQuery struct {
	AggregateType string
	AggregateID   string
	Limit         int
	Offset        int
}

// History returns the events recorded for one aggregate, oldest first.
// Events are only kept while the outbox is enabled and within its retention.
func (uc *LedgerUseCase) History(ctx context.Context, q HistoryQuery) ([]*domain.OutboxEvent, error) {
	switch q.AggregateType {
	case domain.AggregateTypeTransaction, domain.AggregateTypeParticipant:
	default:
		return nil, fmt.Errorf("%w: unknown aggregate %q", domain.ErrInvalidHistory, q.AggregateType)
	}
	if q.AggregateID == "" {
		return nil, fmt.Errorf("%w: missing aggregate id", domain.ErrInvalidHistory)
	}
	if q.Limit <= 0 {
		q.Limit = DefaultHistoryLimit
	}
	if q.Limit > MaxHistoryLimit {
		q.Limit = MaxHistoryLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	return uc.outboxRepo.GetByAggregate(ctx, q.AggregateType, q.AggregateID, q.Limit, q.Offset)
}
