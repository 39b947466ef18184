package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/usecase"
	"github.com/iho/splitledger/internal/usecase/mocks"
)

func TestLedgerUseCase_Balances(t *testing.T) {
	txRepo := mocks.NewMockTransactionRepository()
	txRepo.Seed(
		lent(t, "tx-1", "2024-01-01", "Alex", "10", "25"),
		lent(t, "tx-2", "2024-02-01", "Alex", "30", "0"),
		lent(t, "tx-3", "2024-01-15", "Sam", "50", "20"),
		plain(t, "tx-4", "2024-01-20", "8", "coffee"),
	)
	uc := usecase.NewLedgerUseCase(txRepo, mocks.NewMockOutboxRepository())

	balances, err := uc.Balances(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(balances) != 2 {
		t.Fatalf("expected 2 participants, got %d", len(balances))
	}

	alex := balances[0]
	if alex.Name != "Alex" {
		t.Fatalf("balances should be sorted by name, got %s first", alex.Name)
	}
	if !alex.Outstanding.Equal(dec("30")) || !alex.Credit.Equal(dec("15")) || !alex.Net().Equal(dec("15")) {
		t.Errorf("unexpected Alex balance: %+v", alex)
	}
	if !balances[1].Outstanding.Equal(dec("30")) {
		t.Errorf("unexpected Sam balance: %+v", balances[1])
	}
}

func TestLedgerUseCase_Participant(t *testing.T) {
	txRepo := mocks.NewMockTransactionRepository()
	txRepo.Seed(
		lent(t, "tx-2", "2024-02-01", "Alex", "30", "0"),
		lent(t, "tx-1", "2024-01-01", "Alex", "10", "10"),
		lent(t, "tx-3", "2024-01-15", "Sam", "50", "20"),
	)
	uc := usecase.NewLedgerUseCase(txRepo, mocks.NewMockOutboxRepository())

	ledger, err := uc.Participant(context.Background(), "Alex")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ledger.Transactions) != 2 || ledger.Transactions[0].ID != "tx-1" {
		t.Errorf("expected Alex's bills oldest first, got %+v", ledger.Transactions)
	}
	if ledger.Balance.OpenItems != 1 {
		t.Errorf("open items = %d, want 1", ledger.Balance.OpenItems)
	}

	if _, err := uc.Participant(context.Background(), "Kim"); !errors.Is(err, domain.ErrParticipantNotFound) {
		t.Errorf("expected ErrParticipantNotFound, got %v", err)
	}
}

func TestLedgerUseCase_CheckConsistency(t *testing.T) {
	broken := lent(t, "tx-2", "2024-02-01", "Alex", "30", "10")
	broken.SplitDetails.Items[0].PaidAmount = dec("12")

	txRepo := mocks.NewMockTransactionRepository()
	txRepo.Seed(lent(t, "tx-1", "2024-01-01", "Alex", "10", "10"), broken)
	uc := usecase.NewLedgerUseCase(txRepo, mocks.NewMockOutboxRepository())

	report, err := uc.CheckConsistency(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Checked != 2 {
		t.Errorf("checked = %d, want 2", report.Checked)
	}
	if report.Consistent || len(report.Problems) != 1 {
		t.Fatalf("expected exactly one problem, got %+v", report.Problems)
	}
	if report.Problems[0].TransactionID != "tx-2" {
		t.Errorf("problem on %s, want tx-2", report.Problems[0].TransactionID)
	}
}

func TestLedgerUseCase_History(t *testing.T) {
	outbox := mocks.NewMockOutboxRepository()
	ctx := context.Background()
	for i, e := range []struct{ aggType, aggID string }{
		{domain.AggregateTypeTransaction, "tx-1"},
		{domain.AggregateTypeParticipant, "Alex"},
		{domain.AggregateTypeTransaction, "tx-1"},
		{domain.AggregateTypeTransaction, "tx-2"},
	} {
		event := &domain.OutboxEvent{ID: fmt.Sprintf("evt-%d", i), AggregateType: e.aggType, AggregateID: e.aggID}
		if err := outbox.Create(ctx, nil, event); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}
	uc := usecase.NewLedgerUseCase(mocks.NewMockTransactionRepository(), outbox)

	events, err := uc.History(ctx, usecase.HistoryQuery{AggregateType: domain.AggregateTypeTransaction, AggregateID: "tx-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 2 || events[0].ID != "evt-0" || events[1].ID != "evt-2" {
		t.Fatalf("unexpected events %+v", events)
	}

	events, err = uc.History(ctx, usecase.HistoryQuery{AggregateType: domain.AggregateTypeTransaction, AggregateID: "tx-1", Limit: 1, Offset: 1})
	if err != nil || len(events) != 1 || events[0].ID != "evt-2" {
		t.Fatalf("expected second page to hold evt-2, got %+v (%v)", events, err)
	}

	if _, err := uc.History(ctx, usecase.HistoryQuery{AggregateType: "rule", AggregateID: "r-1"}); !errors.Is(err, domain.ErrInvalidHistory) {
		t.Errorf("expected ErrInvalidHistory for unknown aggregate, got %v", err)
	}
	if _, err := uc.History(ctx, usecase.HistoryQuery{AggregateType: domain.AggregateTypeParticipant}); !errors.Is(err, domain.ErrInvalidHistory) {
		t.Errorf("expected ErrInvalidHistory for missing id, got %v", err)
	}
}

func TestLedgerUseCase_HistoryClampsLimit(t *testing.T) {
	var gotLimit, gotOffset int
	outbox := &limitRecordingOutbox{MockOutboxRepository: mocks.NewMockOutboxRepository(), limit: &gotLimit, offset: &gotOffset}
	uc := usecase.NewLedgerUseCase(mocks.NewMockTransactionRepository(), outbox)

	if _, err := uc.History(context.Background(), usecase.HistoryQuery{
		AggregateType: domain.AggregateTypeParticipant,
		AggregateID:   "Alex",
		Limit:         10_000,
		Offset:        -3,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != usecase.MaxHistoryLimit || gotOffset != 0 {
		t.Fatalf("limit/offset = %d/%d", gotLimit, gotOffset)
	}
}

type limitRecordingOutbox struct {
	*mocks.MockOutboxRepository
	limit, offset *int
}

func (o *limitRecordingOutbox) GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error) {
	*o.limit, *o.offset = limit, offset
	return nil, nil
}
