package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/infrastructure/postgres/generated"
	"github.com/iho/splitledger/internal/usecase"
)

// DuplicateReviewRepository implements usecase.DuplicateReviewRepository.
// Both sides of a pair are stored as JSON snapshots.
type DuplicateReviewRepository struct {
	queries *generated.Queries
}

var _ usecase.DuplicateReviewRepository = (*DuplicateReviewRepository)(nil)

// NewDuplicateReviewRepository creates a new DuplicateReviewRepository.
func NewDuplicateReviewRepository(db generated.DBTX) *DuplicateReviewRepository {
	return &DuplicateReviewRepository{queries: generated.New(db)}
}

// Create stores a review within tx.
func (r *DuplicateReviewRepository) Create(ctx context.Context, tx usecase.Transaction, review *domain.DuplicateReview) error {
	queries, err := queriesFor(tx)
	if err != nil {
		return err
	}

	existing, err := encodeTransaction(review.Existing)
	if err != nil {
		return fmt.Errorf("encode existing: %w", err)
	}
	incoming, err := encodeTransaction(review.Incoming)
	if err != nil {
		return fmt.Errorf("encode incoming: %w", err)
	}

	return queries.CreateDuplicateReview(ctx, generated.CreateDuplicateReviewParams{
		ID:         review.ID,
		ExistingID: review.Existing.ID,
		Existing:   existing,
		Incoming:   incoming,
		Confidence: decimalToNumeric(review.Confidence),
		CreatedAt:  timeToPgTimestamptz(review.CreatedAt),
	})
}

// GetByIDForUpdate locks and returns a review.
func (r *DuplicateReviewRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.DuplicateReview, error) {
	queries, err := queriesFor(tx)
	if err != nil {
		return nil, err
	}

	row, err := queries.GetDuplicateReviewByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReviewNotFound
		}
		return nil, err
	}

	return rowToDuplicateReview(row)
}

// List returns pending reviews, oldest first.
func (r *DuplicateReviewRepository) List(ctx context.Context, limit, offset int) ([]*domain.DuplicateReview, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := r.queries.ListDuplicateReviews(ctx, generated.ListDuplicateReviewsParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	reviews := make([]*domain.DuplicateReview, 0, len(rows))
	for _, row := range rows {
		review, err := rowToDuplicateReview(row)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}

	return reviews, nil
}

// Delete removes a resolved review.
func (r *DuplicateReviewRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	queries, err := queriesFor(tx)
	if err != nil {
		return err
	}

	affected, err := queries.DeleteDuplicateReview(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrReviewNotFound
	}

	return nil
}

func rowToDuplicateReview(row generated.DuplicateReview) (*domain.DuplicateReview, error) {
	existing, err := decodeTransaction(row.Existing)
	if err != nil {
		return nil, fmt.Errorf("decode existing for review %s: %w", row.ID, err)
	}
	incoming, err := decodeTransaction(row.Incoming)
	if err != nil {
		return nil, fmt.Errorf("decode incoming for review %s: %w", row.ID, err)
	}

	return &domain.DuplicateReview{
		ID:         row.ID,
		Existing:   existing,
		Incoming:   incoming,
		Confidence: numericToDecimal(row.Confidence),
		CreatedAt:  row.CreatedAt.Time,
	}, nil
}
