package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/usecase"
	"github.com/iho/splitledger/internal/usecase/mocks"
)

type duplicateFixture struct {
	txRepo     *mocks.MockTransactionRepository
	reviewRepo *mocks.MockDuplicateReviewRepository
	outbox     *mocks.MockOutboxRepository
	uc         *usecase.DuplicateUseCase
}

func newDuplicateFixture(t *testing.T) *duplicateFixture {
	t.Helper()
	existing := lent(t, "tx-existing", "2023-10-20", "Alex", "20", "5")

	incoming := plain(t, "tx-incoming", "2023-10-21", "40", "HARDWARE STORE #12")
	incoming.Status = domain.StatusPotentialDuplicate
	incoming.IsReviewed = false
	incoming.Version = 0

	f := &duplicateFixture{
		txRepo:     mocks.NewMockTransactionRepository(),
		reviewRepo: mocks.NewMockDuplicateReviewRepository(),
		outbox:     mocks.NewMockOutboxRepository(),
	}
	f.txRepo.Seed(existing)
	f.reviewRepo.Seed(&domain.DuplicateReview{
		ID:         "rev-1",
		Existing:   existing.Clone(),
		Incoming:   incoming,
		Confidence: domain.DuplicateConfidence,
		CreatedAt:  time.Now(),
	})
	f.uc = usecase.NewDuplicateUseCase(mocks.NewMockTransactionManager(), f.reviewRepo, f.txRepo, f.outbox, mocks.NewMockIDGenerator(), nil, nil)
	return f
}

func TestDuplicateUseCase_Resolve(t *testing.T) {
	tests := []struct {
		name          string
		resolution    domain.Resolution
		wantCount     int
		wantExisting  bool
		wantIncoming  bool
		wantRemovedID string
	}{
		{name: "keep both", resolution: domain.ResolutionKeepBoth, wantCount: 2, wantExisting: true, wantIncoming: true},
		{name: "discard incoming", resolution: domain.ResolutionDiscardIncoming, wantCount: 1, wantExisting: true},
		{name: "replace existing", resolution: domain.ResolutionReplaceExisting, wantCount: 1, wantIncoming: true, wantRemovedID: "tx-existing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newDuplicateFixture(t)

			result, err := f.uc.Resolve(context.Background(), "rev-1", tt.resolution)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got := f.txRepo.Count(); got != tt.wantCount {
				t.Errorf("ledger has %d transactions, want %d", got, tt.wantCount)
			}
			if got := f.txRepo.Stored("tx-existing") != nil; got != tt.wantExisting {
				t.Errorf("existing kept = %v, want %v", got, tt.wantExisting)
			}
			if got := f.txRepo.Stored("tx-incoming") != nil; got != tt.wantIncoming {
				t.Errorf("incoming stored = %v, want %v", got, tt.wantIncoming)
			}
			if result.RemovedID != tt.wantRemovedID {
				t.Errorf("removed = %q, want %q", result.RemovedID, tt.wantRemovedID)
			}
			if f.reviewRepo.Count() != 0 {
				t.Error("review should be deleted")
			}
			if len(f.outbox.Events()) != 1 {
				t.Errorf("expected 1 event, got %d", len(f.outbox.Events()))
			}

			if tt.wantIncoming {
				stored := f.txRepo.Stored("tx-incoming")
				if stored.Status != domain.StatusVerified || !stored.IsReviewed {
					t.Errorf("accepted record should be verified and reviewed, got %s/%v", stored.Status, stored.IsReviewed)
				}
			}
		})
	}
}

func TestDuplicateUseCase_Resolve_ReplaceCarriesSplit(t *testing.T) {
	f := newDuplicateFixture(t)

	if _, err := f.uc.Resolve(context.Background(), "rev-1", domain.ResolutionReplaceExisting); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	item := f.txRepo.Stored("tx-incoming").ItemFor("Alex")
	if item == nil {
		t.Fatal("split should move to the replacement")
	}
	if !item.PaidAmount.Equal(dec("5")) {
		t.Errorf("paid = %s, want 5", item.PaidAmount)
	}
}

func TestDuplicateUseCase_Resolve_Errors(t *testing.T) {
	tests := []struct {
		name       string
		reviewID   string
		resolution domain.Resolution
		wantErr    error
	}{
		{name: "unknown resolution", reviewID: "rev-1", resolution: "merge", wantErr: domain.ErrInvalidResolution},
		{name: "unknown review", reviewID: "rev-404", resolution: domain.ResolutionKeepBoth, wantErr: domain.ErrReviewNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newDuplicateFixture(t)

			_, err := f.uc.Resolve(context.Background(), tt.reviewID, tt.resolution)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if f.reviewRepo.Count() != 1 {
				t.Error("review must survive a failed resolution")
			}
		})
	}
}

func TestDuplicateUseCase_ListReviews(t *testing.T) {
	f := newDuplicateFixture(t)

	reviews, err := f.uc.ListReviews(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reviews) != 1 || reviews[0].ID != "rev-1" {
		t.Fatalf("unexpected reviews: %+v", reviews)
	}
}
