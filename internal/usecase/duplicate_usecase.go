package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/infrastructure/metrics"
)

// DuplicateUseCase handles the duplicate review queue.
type DuplicateUseCase struct {
	txManager  TransactionManager
	reviewRepo DuplicateReviewRepository
	txRepo     TransactionRepository
	outboxRepo OutboxRepository
	idGen      IDGenerator
	retrier    Retrier
	metrics    *metrics.Metrics
}

// NewDuplicateUseCase creates a new DuplicateUseCase.
func NewDuplicateUseCase(
	txManager TransactionManager,
	reviewRepo DuplicateReviewRepository,
	txRepo TransactionRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	retrier Retrier,
	metrics *metrics.Metrics,
) *DuplicateUseCase {
	return &DuplicateUseCase{
		txManager:  txManager,
		reviewRepo: reviewRepo,
		txRepo:     txRepo,
		outboxRepo: outboxRepo,
		idGen:      idGen,
		retrier:    retrier,
		metrics:    metrics,
	}
}

// ListReviews lists pending duplicate reviews, oldest first.
func (uc *DuplicateUseCase) ListReviews(ctx context.Context, limit, offset int) ([]*domain.DuplicateReview, error) {
	limit, offset, _ = domain.ValidatePagination(limit, offset)
	return uc.reviewRepo.List(ctx, limit, offset)
}

// ResolveResult reports what a resolution wrote.
type ResolveResult struct {
	Resolution domain.Resolution
	Inserted   *domain.Transaction
	RemovedID  string
}

// Resolve applies the user's verdict on a pending review.
func (uc *DuplicateUseCase) Resolve(ctx context.Context, reviewID string, resolution domain.Resolution) (*ResolveResult, error) {
	if !resolution.IsValid() {
		return nil, domain.ErrInvalidResolution
	}

	var result *ResolveResult
	err := inTransaction(ctx, uc.txManager, uc.retrier, func(ctx context.Context, dbTx Transaction) error {
		review, err := uc.reviewRepo.GetByIDForUpdate(ctx, dbTx, reviewID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		res := &ResolveResult{Resolution: resolution}

		switch resolution {
		case domain.ResolutionKeepBoth:
			res.Inserted = uc.accept(review.Incoming, now)

		case domain.ResolutionReplaceExisting:
			incoming := uc.accept(review.Incoming, now)
			existing, err := uc.txRepo.GetByIDForUpdate(ctx, dbTx, review.Existing.ID)
			switch {
			case errors.Is(err, domain.ErrTransactionNotFound):
			case err != nil:
				return err
			default:
				// The lending history of the replaced entry moves with it.
				incoming.SplitDetails = existing.SplitDetails.Clone()
				if err := uc.txRepo.Delete(ctx, dbTx, existing.ID, existing.Version); err != nil {
					return err
				}
				res.RemovedID = existing.ID
			}
			res.Inserted = incoming

		case domain.ResolutionDiscardIncoming:
		}

		if res.Inserted != nil {
			if err := uc.txRepo.Create(ctx, dbTx, res.Inserted); err != nil {
				return err
			}
		}
		if err := uc.reviewRepo.Delete(ctx, dbTx, review.ID); err != nil {
			return err
		}

		payload := map[string]any{
			"review_id":   review.ID,
			"resolution":  string(resolution),
			"existing_id": review.Existing.ID,
		}
		if res.Inserted != nil {
			payload["inserted_id"] = res.Inserted.ID
		}
		event := newEvent(uc.idGen, domain.AggregateTypeReview, review.ID, domain.EventTypeDuplicateResolved, payload, now)
		if err := uc.outboxRepo.Create(ctx, dbTx, event); err != nil {
			return err
		}

		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.DuplicatesResolved.WithLabelValues(string(resolution)).Inc()
	}

	return result, nil
}

func (uc *DuplicateUseCase) accept(incoming *domain.Transaction, now time.Time) *domain.Transaction {
	tx := incoming.Clone()
	tx.MarkReviewed()
	tx.Version = 0
	tx.UpdatedAt = now
	return tx
}
