package postgres

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/jackc/pgx/v5"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/infrastructure/postgres/generated"
	"github.com/iho/splitledger/internal/usecase"
)

const defaultListLimit = 100

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	queries *generated.Queries
}

var _ usecase.TransactionRepository = (*TransactionRepository)(nil)

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db generated.DBTX) *TransactionRepository {
	return &TransactionRepository{queries: generated.New(db)}
}

// Create inserts a transaction within tx.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, t *domain.Transaction) error {
	queries, err := queriesFor(tx)
	if err != nil {
		return err
	}

	split, err := encodeSplitDetails(t.SplitDetails)
	if err != nil {
		return fmt.Errorf("encode split details: %w", err)
	}

	return queries.CreateTransaction(ctx, generated.CreateTransactionParams{
		ID:                  t.ID,
		Date:                dateToPgDate(t.Date),
		Amount:              decimalToNumeric(t.Amount),
		OriginalDescription: t.OriginalDescription,
		EnhancedDescription: t.EnhancedDescription,
		Category:            t.Category,
		Tags:                nonNilTags(t.Tags),
		Source:              t.Source,
		AccountID:           textPtr(t.AccountID),
		IsExpense:           t.IsExpense,
		Status:              string(t.Status),
		Confidence:          int32(t.Confidence),
		IsReviewed:          t.IsReviewed,
		SplitDetails:        split,
		Version:             t.Version,
		CreatedAt:           timeToPgTimestamptz(t.CreatedAt),
		UpdatedAt:           timeToPgTimestamptz(t.UpdatedAt),
	})
}

// GetByID retrieves a transaction by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	row, err := r.queries.GetTransactionByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}

	return rowToTransaction(row)
}

// GetByIDForUpdate retrieves a transaction by ID with a FOR UPDATE lock.
func (r *TransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error) {
	queries, err := queriesFor(tx)
	if err != nil {
		return nil, err
	}

	row, err := queries.GetTransactionByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}

	return rowToTransaction(row)
}

// List returns transactions matching filter, newest first.
func (r *TransactionRepository) List(ctx context.Context, filter usecase.TransactionFilter) ([]*domain.Transaction, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := r.queries.ListTransactions(ctx, generated.ListTransactionsParams{
		Status:    optionalText(string(filter.Status)),
		Category:  optionalText(filter.Category),
		Tag:       optionalText(filter.Tag),
		AccountID: optionalText(filter.AccountID),
		FromDate:  optionalDate(filter.From),
		ToDate:    optionalDate(filter.To),
		Limit:     int32(limit),
		Offset:    int32(filter.Offset),
	})
	if err != nil {
		return nil, err
	}

	return rowsToTransactions(rows)
}

// ListInDateRange returns transactions dated within [from, to].
func (r *TransactionRepository) ListInDateRange(ctx context.Context, from, to civil.Date) ([]*domain.Transaction, error) {
	rows, err := r.queries.ListTransactionsInDateRange(ctx, generated.ListTransactionsInDateRangeParams{
		Date:   dateToPgDate(from),
		Date_2: dateToPgDate(to),
	})
	if err != nil {
		return nil, err
	}

	return rowsToTransactions(rows)
}

// ListWithSplits returns every transaction carrying split details.
func (r *TransactionRepository) ListWithSplits(ctx context.Context) ([]*domain.Transaction, error) {
	rows, err := r.queries.ListTransactionsWithSplits(ctx)
	if err != nil {
		return nil, err
	}

	return rowsToTransactions(rows)
}

// ListByParticipantsForUpdate locks every transaction owing money to any of names.
func (r *TransactionRepository) ListByParticipantsForUpdate(ctx context.Context, tx usecase.Transaction, names []string) ([]*domain.Transaction, error) {
	if len(names) == 0 {
		return nil, nil
	}

	queries, err := queriesFor(tx)
	if err != nil {
		return nil, err
	}

	rows, err := queries.ListTransactionsByParticipantsForUpdate(ctx, names)
	if err != nil {
		return nil, err
	}

	return rowsToTransactions(rows)
}

// ListByTagForUpdate locks every transaction carrying tag.
func (r *TransactionRepository) ListByTagForUpdate(ctx context.Context, tx usecase.Transaction, tag string) ([]*domain.Transaction, error) {
	queries, err := queriesFor(tx)
	if err != nil {
		return nil, err
	}

	rows, err := queries.ListTransactionsByTagForUpdate(ctx, tag)
	if err != nil {
		return nil, err
	}

	return rowsToTransactions(rows)
}

// ListAllForUpdate locks the whole ledger.
func (r *TransactionRepository) ListAllForUpdate(ctx context.Context, tx usecase.Transaction) ([]*domain.Transaction, error) {
	queries, err := queriesFor(tx)
	if err != nil {
		return nil, err
	}

	rows, err := queries.ListAllTransactionsForUpdate(ctx)
	if err != nil {
		return nil, err
	}

	return rowsToTransactions(rows)
}

// SaveBatch writes every transaction under optimistic locking. Each stored
// version must still match the loaded one; on success versions are bumped in place.
func (r *TransactionRepository) SaveBatch(ctx context.Context, tx usecase.Transaction, txs []*domain.Transaction) error {
	queries, err := queriesFor(tx)
	if err != nil {
		return err
	}

	for _, t := range txs {
		split, err := encodeSplitDetails(t.SplitDetails)
		if err != nil {
			return fmt.Errorf("encode split details for %s: %w", t.ID, err)
		}

		affected, err := queries.UpdateTransaction(ctx, generated.UpdateTransactionParams{
			ID:                  t.ID,
			Date:                dateToPgDate(t.Date),
			Amount:              decimalToNumeric(t.Amount),
			EnhancedDescription: t.EnhancedDescription,
			Category:            t.Category,
			Tags:                nonNilTags(t.Tags),
			AccountID:           textPtr(t.AccountID),
			IsExpense:           t.IsExpense,
			Status:              string(t.Status),
			Confidence:          int32(t.Confidence),
			IsReviewed:          t.IsReviewed,
			SplitDetails:        split,
			UpdatedAt:           timeToPgTimestamptz(t.UpdatedAt),
			Version:             t.Version,
		})
		if err != nil {
			return err
		}
		if affected == 0 {
			return fmt.Errorf("%w: %s", domain.ErrVersionConflict, t.ID)
		}
	}

	for _, t := range txs {
		t.Version++
	}

	return nil
}

// Delete removes a transaction if its stored version still matches.
func (r *TransactionRepository) Delete(ctx context.Context, tx usecase.Transaction, id string, version int64) error {
	queries, err := queriesFor(tx)
	if err != nil {
		return err
	}

	affected, err := queries.DeleteTransaction(ctx, generated.DeleteTransactionParams{ID: id, Version: version})
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	if _, err := queries.GetTransactionByID(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTransactionNotFound
		}
		return err
	}

	return domain.ErrVersionConflict
}

func rowsToTransactions(rows []generated.Transaction) ([]*domain.Transaction, error) {
	txs := make([]*domain.Transaction, 0, len(rows))
	for _, row := range rows {
		t, err := rowToTransaction(row)
		if err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, nil
}

func rowToTransaction(row generated.Transaction) (*domain.Transaction, error) {
	split, err := decodeSplitDetails(row.SplitDetails)
	if err != nil {
		return nil, fmt.Errorf("decode split details for %s: %w", row.ID, err)
	}

	return &domain.Transaction{
		ID:                  row.ID,
		Date:                pgDateToDate(row.Date),
		Amount:              numericToDecimal(row.Amount),
		OriginalDescription: row.OriginalDescription,
		EnhancedDescription: row.EnhancedDescription,
		Category:            row.Category,
		Tags:                nonNilTags(row.Tags),
		Source:              row.Source,
		AccountID:           pgTextToPtr(row.AccountID),
		IsExpense:           row.IsExpense,
		Status:              domain.Status(row.Status),
		Confidence:          int(row.Confidence),
		IsReviewed:          row.IsReviewed,
		SplitDetails:        split,
		Version:             row.Version,
		CreatedAt:           row.CreatedAt.Time,
		UpdatedAt:           row.UpdatedAt.Time,
	}, nil
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
