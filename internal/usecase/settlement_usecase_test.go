package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/usecase"
	"github.com/iho/splitledger/internal/usecase/mocks"
)

func newSettlementFixture(t *testing.T) (*usecase.SettlementUseCase, *mocks.MockTransactionRepository, *mocks.MockOutboxRepository) {
	t.Helper()
	txRepo := mocks.NewMockTransactionRepository()
	txRepo.Seed(
		lent(t, "tx-jan", "2024-01-01", "Alex", "10", "0"),
		lent(t, "tx-feb", "2024-02-01", "Alex", "20", "0"),
		lent(t, "tx-sam", "2024-01-15", "Sam", "50", "0"),
	)
	outbox := mocks.NewMockOutboxRepository()
	uc := usecase.NewSettlementUseCase(mocks.NewMockTransactionManager(), txRepo, outbox, mocks.NewMockIDGenerator(), nil, nil)
	return uc, txRepo, outbox
}

func TestSettlementUseCase_SettleBulk(t *testing.T) {
	tests := []struct {
		name       string
		amount     string
		wantJan    string
		wantFeb    string
		wantCredit string
	}{
		{name: "oldest first", amount: "12", wantJan: "10", wantFeb: "2", wantCredit: "0"},
		{name: "exact total", amount: "30", wantJan: "10", wantFeb: "20", wantCredit: "0"},
		{name: "overpayment lands on newest", amount: "40", wantJan: "10", wantFeb: "30", wantCredit: "10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, txRepo, outbox := newSettlementFixture(t)
			before := totalPaid(txRepo, "tx-jan", "tx-feb", "tx-sam")

			alloc, err := uc.SettleBulk(context.Background(), usecase.SettleBulkInput{
				Name:   "Alex",
				Amount: dec(tt.amount),
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got := txRepo.Stored("tx-jan").ItemFor("Alex").PaidAmount; !got.Equal(dec(tt.wantJan)) {
				t.Errorf("jan paid = %s, want %s", got, tt.wantJan)
			}
			if got := txRepo.Stored("tx-feb").ItemFor("Alex").PaidAmount; !got.Equal(dec(tt.wantFeb)) {
				t.Errorf("feb paid = %s, want %s", got, tt.wantFeb)
			}
			if !alloc.Credit.Equal(dec(tt.wantCredit)) {
				t.Errorf("credit = %s, want %s", alloc.Credit, tt.wantCredit)
			}
			if !alloc.Applied().Equal(dec(tt.amount)) {
				t.Errorf("applied = %s, want %s", alloc.Applied(), tt.amount)
			}

			after := totalPaid(txRepo, "tx-jan", "tx-feb", "tx-sam")
			if !after.Sub(before).Equal(dec(tt.amount)) {
				t.Errorf("paid grew by %s, want %s", after.Sub(before), tt.amount)
			}
			if !txRepo.Stored("tx-sam").ItemFor("Sam").PaidAmount.IsZero() {
				t.Error("other participants must not be touched")
			}
			if len(outbox.Events()) != 1 {
				t.Errorf("expected 1 event, got %d", len(outbox.Events()))
			}
		})
	}
}

func TestSettlementUseCase_SettleBulk_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   usecase.SettleBulkInput
		wantErr error
	}{
		{name: "unknown person", input: usecase.SettleBulkInput{Name: "Kim", Amount: dec("5")}, wantErr: domain.ErrParticipantNotFound},
		{name: "zero amount", input: usecase.SettleBulkInput{Name: "Alex", Amount: dec("0")}, wantErr: domain.ErrInvalidAmount},
		{name: "fraction of a cent", input: usecase.SettleBulkInput{Name: "Alex", Amount: dec("10.005")}, wantErr: domain.ErrInvalidAmount},
		{name: "blank name", input: usecase.SettleBulkInput{Name: "  ", Amount: dec("5")}, wantErr: domain.ErrInvalidParticipant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, txRepo, outbox := newSettlementFixture(t)

			_, err := uc.SettleBulk(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if !totalPaid(txRepo, "tx-jan", "tx-feb", "tx-sam").IsZero() {
				t.Error("nothing should be paid on failure")
			}
			if len(outbox.Events()) != 0 {
				t.Error("no event should be written on failure")
			}
		})
	}
}

func TestSettlementUseCase_SettleBulk_VersionConflict(t *testing.T) {
	uc, txRepo, _ := newSettlementFixture(t)
	txRepo.SaveBatchFunc = func(ctx context.Context, tx usecase.Transaction, txs []*domain.Transaction) error {
		return domain.ErrVersionConflict
	}

	_, err := uc.SettleBulk(context.Background(), usecase.SettleBulkInput{Name: "Alex", Amount: dec("5")})
	if !errors.Is(err, domain.ErrVersionConflict) {
		t.Fatalf("expected version conflict, got %v", err)
	}
}
