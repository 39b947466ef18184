package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/infrastructure/postgres/generated"
	"github.com/iho/splitledger/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	queries *generated.Queries
}

var _ usecase.AccountRepository = (*AccountRepository)(nil)

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db generated.DBTX) *AccountRepository {
	return &AccountRepository{queries: generated.New(db)}
}

// Create creates a new account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	err := r.queries.CreateAccount(ctx, generated.CreateAccountParams{
		ID:          account.ID,
		Name:        account.Name,
		Type:        string(account.Type),
		Last4Digits: account.Last4Digits,
		Color:       account.Color,
		Institution: account.Institution,
		CreatedAt:   timeToPgTimestamptz(account.CreatedAt),
		UpdatedAt:   timeToPgTimestamptz(account.UpdatedAt),
	})

	return mapUniqueViolation(err)
}

// Update overwrites an account.
func (r *AccountRepository) Update(ctx context.Context, account *domain.Account) error {
	affected, err := r.queries.UpdateAccount(ctx, generated.UpdateAccountParams{
		ID:          account.ID,
		Name:        account.Name,
		Type:        string(account.Type),
		Last4Digits: account.Last4Digits,
		Color:       account.Color,
		Institution: account.Institution,
		UpdatedAt:   timeToPgTimestamptz(account.UpdatedAt),
	})
	if err != nil {
		return mapUniqueViolation(err)
	}
	if affected == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// Delete removes an account. Transactions keep their weak reference.
func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	affected, err := r.queries.DeleteAccount(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row, err := r.queries.GetAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return rowToAccount(row), nil
}

// List returns every account ordered by name.
func (r *AccountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	rows, err := r.queries.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts, nil
}

func rowToAccount(row generated.Account) *domain.Account {
	return &domain.Account{
		ID:          row.ID,
		Name:        row.Name,
		Type:        domain.AccountType(row.Type),
		Last4Digits: row.Last4Digits,
		Color:       row.Color,
		Institution: row.Institution,
		CreatedAt:   row.CreatedAt.Time,
		UpdatedAt:   row.UpdatedAt.Time,
	}
}
