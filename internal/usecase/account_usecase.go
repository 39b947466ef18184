package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/iho/splitledger/internal/domain"
)

// AccountUseCase handles account business logic.
type AccountUseCase struct {
	accountRepo AccountRepository
	idGen       IDGenerator
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accountRepo AccountRepository, idGen IDGenerator) *AccountUseCase {
	return &AccountUseCase{
		accountRepo: accountRepo,
		idGen:       idGen,
	}
}

// AccountInput represents the editable fields of an account.
type AccountInput struct {
	Name        string
	Type        domain.AccountType
	Last4Digits string
	Color       string
	Institution string
}

// CreateAccount creates a new account.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input AccountInput) (*domain.Account, error) {
	now := time.Now().UTC()

	account := &domain.Account{
		ID:          uc.idGen.Generate(),
		Name:        strings.TrimSpace(input.Name),
		Type:        input.Type,
		Last4Digits: input.Last4Digits,
		Color:       input.Color,
		Institution: strings.TrimSpace(input.Institution),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if account.Type == "" {
		account.Type = domain.AccountTypeOther
	}

	if err := account.Validate(); err != nil {
		return nil, err
	}
	if err := uc.ensureUniqueName(ctx, account.ID, account.Name); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// UpdateAccount replaces the editable fields of an account.
func (uc *AccountUseCase) UpdateAccount(ctx context.Context, id string, input AccountInput) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	account.Name = strings.TrimSpace(input.Name)
	account.Type = input.Type
	account.Last4Digits = input.Last4Digits
	account.Color = input.Color
	account.Institution = strings.TrimSpace(input.Institution)
	account.UpdatedAt = time.Now().UTC()

	if err := account.Validate(); err != nil {
		return nil, err
	}
	if err := uc.ensureUniqueName(ctx, account.ID, account.Name); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.Update(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// DeleteAccount removes an account. Transactions keep a dangling, weak reference.
func (uc *AccountUseCase) DeleteAccount(ctx context.Context, id string) error {
	return uc.accountRepo.Delete(ctx, id)
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// ListAccounts lists every account.
func (uc *AccountUseCase) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	return uc.accountRepo.List(ctx)
}

func (uc *AccountUseCase) ensureUniqueName(ctx context.Context, id, name string) error {
	accounts, err := uc.accountRepo.List(ctx)
	if err != nil {
		return err
	}
	for _, a := range accounts {
		if a.ID != id && strings.EqualFold(a.Name, name) {
			return domain.ErrDuplicateName
		}
	}
	return nil
}
