package usecase

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/iho/splitledger/internal/domain"
)

// TransactionUseCase handles manual edits of ledger transactions.
type TransactionUseCase struct {
	txManager   TransactionManager
	txRepo      TransactionRepository
	accountRepo AccountRepository
	idGen       IDGenerator
	retrier     Retrier
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(
	txManager TransactionManager,
	txRepo TransactionRepository,
	accountRepo AccountRepository,
	idGen IDGenerator,
	retrier Retrier,
) *TransactionUseCase {
	return &TransactionUseCase{
		txManager:   txManager,
		txRepo:      txRepo,
		accountRepo: accountRepo,
		idGen:       idGen,
		retrier:     retrier,
	}
}

// CreateTransactionInput represents a manually entered transaction.
type CreateTransactionInput struct {
	Date                civil.Date
	Amount              decimal.Decimal
	OriginalDescription string
	EnhancedDescription string
	Category            string
	Tags                []string
	AccountID           *string
	IsExpense           bool
}

// CreateTransaction records a manual entry. Manual entries start out verified and reviewed.
func (uc *TransactionUseCase) CreateTransaction(ctx context.Context, input CreateTransactionInput) (*domain.Transaction, error) {
	now := time.Now().UTC()

	tx := &domain.Transaction{
		ID:                  uc.idGen.Generate(),
		Date:                input.Date,
		Amount:              input.Amount.Round(2),
		OriginalDescription: strings.TrimSpace(input.OriginalDescription),
		EnhancedDescription: strings.TrimSpace(input.EnhancedDescription),
		Category:            input.Category,
		Tags:                []string{},
		Source:              "manual",
		IsExpense:           input.IsExpense,
		Status:              domain.StatusVerified,
		Confidence:          100,
		IsReviewed:          true,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if tx.EnhancedDescription == "" {
		tx.EnhancedDescription = tx.OriginalDescription
	}
	for _, tag := range input.Tags {
		if err := domain.ValidateTag(tag); err != nil {
			return nil, err
		}
	}
	tx.AddTags(input.Tags...)

	if input.AccountID != nil {
		account, err := uc.accountRepo.GetByID(ctx, *input.AccountID)
		if err != nil {
			return nil, err
		}
		tx.AccountID = &account.ID
		tx.Source = account.Label()
	}

	if err := tx.Validate(); err != nil {
		return nil, err
	}

	err := inTransaction(ctx, uc.txManager, uc.retrier, func(ctx context.Context, dbTx Transaction) error {
		return uc.txRepo.Create(ctx, dbTx, tx)
	})
	if err != nil {
		return nil, err
	}

	return tx, nil
}

// GetTransaction retrieves a transaction by ID.
func (uc *TransactionUseCase) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return uc.txRepo.GetByID(ctx, id)
}

// ListTransactions lists transactions, newest first.
func (uc *TransactionUseCase) ListTransactions(ctx context.Context, filter TransactionFilter) ([]*domain.Transaction, error) {
	filter.Limit, filter.Offset, _ = domain.ValidatePagination(filter.Limit, filter.Offset)
	return uc.txRepo.List(ctx, filter)
}

// UpdateTransactionInput represents an edit. Nil fields are left unchanged.
// Version must match the stored version.
type UpdateTransactionInput struct {
	ID                  string
	Version             int64
	Date                *civil.Date
	Amount              *decimal.Decimal
	EnhancedDescription *string
	Category            *string
	Tags                []string
	AccountID           *string
	IsExpense           *bool
}

// UpdateTransaction edits a transaction with optimistic concurrency.
func (uc *TransactionUseCase) UpdateTransaction(ctx context.Context, input UpdateTransactionInput) (*domain.Transaction, error) {
	var out *domain.Transaction
	err := inTransaction(ctx, uc.txManager, uc.retrier, func(ctx context.Context, dbTx Transaction) error {
		tx, err := uc.txRepo.GetByIDForUpdate(ctx, dbTx, input.ID)
		if err != nil {
			return err
		}
		if tx.Version != input.Version {
			return domain.ErrVersionConflict
		}

		updated := tx.Clone()
		if input.Date != nil {
			updated.Date = *input.Date
		}
		if input.Amount != nil {
			amount := input.Amount.Round(2)
			if updated.SplitDetails != nil && updated.SplitDetails.TotalLent.GreaterThan(amount) {
				return domain.ErrOverAllocation
			}
			updated.Amount = amount
		}
		if input.EnhancedDescription != nil {
			updated.EnhancedDescription = strings.TrimSpace(*input.EnhancedDescription)
		}
		if input.Category != nil {
			updated.Category = *input.Category
		}
		if input.Tags != nil {
			for _, tag := range input.Tags {
				if err := domain.ValidateTag(tag); err != nil {
					return err
				}
			}
			updated.Tags = []string{}
			updated.AddTags(input.Tags...)
		}
		if input.AccountID != nil {
			if *input.AccountID == "" {
				updated.AccountID = nil
			} else {
				if _, err := uc.accountRepo.GetByID(ctx, *input.AccountID); err != nil {
					return err
				}
				id := *input.AccountID
				updated.AccountID = &id
			}
		}
		if input.IsExpense != nil {
			updated.IsExpense = *input.IsExpense
		}
		updated.UpdatedAt = time.Now().UTC()

		if err := updated.Validate(); err != nil {
			return err
		}
		if err := uc.txRepo.SaveBatch(ctx, dbTx, []*domain.Transaction{updated}); err != nil {
			return err
		}

		out = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// MarkReviewed confirms a transaction after manual review.
func (uc *TransactionUseCase) MarkReviewed(ctx context.Context, id string) (*domain.Transaction, error) {
	var out *domain.Transaction
	err := inTransaction(ctx, uc.txManager, uc.retrier, func(ctx context.Context, dbTx Transaction) error {
		tx, err := uc.txRepo.GetByIDForUpdate(ctx, dbTx, id)
		if err != nil {
			return err
		}

		updated := tx.Clone()
		updated.MarkReviewed()
		updated.UpdatedAt = time.Now().UTC()
		if err := uc.txRepo.SaveBatch(ctx, dbTx, []*domain.Transaction{updated}); err != nil {
			return err
		}

		out = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// DeleteTransaction removes a transaction and its split.
func (uc *TransactionUseCase) DeleteTransaction(ctx context.Context, id string) error {
	return inTransaction(ctx, uc.txManager, uc.retrier, func(ctx context.Context, dbTx Transaction) error {
		tx, err := uc.txRepo.GetByIDForUpdate(ctx, dbTx, id)
		if err != nil {
			return err
		}
		return uc.txRepo.Delete(ctx, dbTx, tx.ID, tx.Version)
	})
}

// RenameTag renames a tag on every transaction that carries it.
// Returns the number of transactions changed.
func (uc *TransactionUseCase) RenameTag(ctx context.Context, from, to string) (int, error) {
	if err := domain.ValidateTag(to); err != nil {
		return 0, err
	}
	return uc.rewriteTag(ctx, from, func(tx *domain.Transaction) bool {
		return tx.RenameTag(from, strings.TrimSpace(to))
	})
}

// DeleteTag removes a tag from every transaction that carries it.
func (uc *TransactionUseCase) DeleteTag(ctx context.Context, tag string) (int, error) {
	return uc.rewriteTag(ctx, tag, func(tx *domain.Transaction) bool {
		return tx.RemoveTag(tag)
	})
}

func (uc *TransactionUseCase) rewriteTag(ctx context.Context, tag string, fn func(tx *domain.Transaction) bool) (int, error) {
	if err := domain.ValidateTag(tag); err != nil {
		return 0, err
	}

	changed := 0
	err := inTransaction(ctx, uc.txManager, uc.retrier, func(ctx context.Context, dbTx Transaction) error {
		txs, err := uc.txRepo.ListByTagForUpdate(ctx, dbTx, tag)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		var updated []*domain.Transaction
		for _, tx := range txs {
			c := tx.Clone()
			if fn(c) {
				c.UpdatedAt = now
				updated = append(updated, c)
			}
		}
		if len(updated) > 0 {
			if err := uc.txRepo.SaveBatch(ctx, dbTx, updated); err != nil {
				return err
			}
		}

		changed = len(updated)
		return nil
	})
	if err != nil {
		return 0, err
	}

	return changed, nil
}
