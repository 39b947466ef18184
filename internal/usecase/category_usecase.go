package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/iho/splitledger/internal/domain"
)

// CategoryUseCase handles category business logic.
type CategoryUseCase struct {
	categoryRepo CategoryRepository
	idGen        IDGenerator
}

// NewCategoryUseCase creates a new CategoryUseCase.
func NewCategoryUseCase(categoryRepo CategoryRepository, idGen IDGenerator) *CategoryUseCase {
	return &CategoryUseCase{
		categoryRepo: categoryRepo,
		idGen:        idGen,
	}
}

// CategoryInput represents the editable fields of a category.
type CategoryInput struct {
	Name     string
	Color    string
	Position *int
}

// CreateCategory appends a category, or inserts it at Position when given.
func (uc *CategoryUseCase) CreateCategory(ctx context.Context, input CategoryInput) (*domain.Category, error) {
	existing, err := uc.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	category := &domain.Category{
		ID:        uc.idGen.Generate(),
		Name:      strings.TrimSpace(input.Name),
		Color:     input.Color,
		Position:  len(existing),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if input.Position != nil {
		category.Position = *input.Position
	}

	if err := category.Validate(); err != nil {
		return nil, err
	}
	for _, c := range existing {
		if strings.EqualFold(c.Name, category.Name) {
			return nil, domain.ErrDuplicateName
		}
	}

	if err := uc.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// UpdateCategory replaces the editable fields of a category.
func (uc *CategoryUseCase) UpdateCategory(ctx context.Context, id string, input CategoryInput) (*domain.Category, error) {
	category, err := uc.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	category.Name = strings.TrimSpace(input.Name)
	category.Color = input.Color
	if input.Position != nil {
		category.Position = *input.Position
	}
	category.UpdatedAt = time.Now().UTC()

	if err := category.Validate(); err != nil {
		return nil, err
	}

	existing, err := uc.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range existing {
		if c.ID != id && strings.EqualFold(c.Name, category.Name) {
			return nil, domain.ErrDuplicateName
		}
	}

	if err := uc.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// DeleteCategory removes a category. Transactions keep the name they were given.
func (uc *CategoryUseCase) DeleteCategory(ctx context.Context, id string) error {
	return uc.categoryRepo.Delete(ctx, id)
}

// ListCategories returns categories in display order.
func (uc *CategoryUseCase) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return uc.categoryRepo.List(ctx)
}
