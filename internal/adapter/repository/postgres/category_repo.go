package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/infrastructure/postgres/generated"
	"github.com/iho/splitledger/internal/usecase"
)

const pgErrUniqueViolation = "23505"

// CategoryRepository implements usecase.CategoryRepository.
type CategoryRepository struct {
	queries *generated.Queries
}

var _ usecase.CategoryRepository = (*CategoryRepository)(nil)

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db generated.DBTX) *CategoryRepository {
	return &CategoryRepository{queries: generated.New(db)}
}

// Create creates a new category.
func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	err := r.queries.CreateCategory(ctx, generated.CreateCategoryParams{
		ID:        category.ID,
		Name:      category.Name,
		Color:     category.Color,
		Position:  int32(category.Position),
		CreatedAt: timeToPgTimestamptz(category.CreatedAt),
		UpdatedAt: timeToPgTimestamptz(category.UpdatedAt),
	})

	return mapUniqueViolation(err)
}

// Update overwrites a category.
func (r *CategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	affected, err := r.queries.UpdateCategory(ctx, generated.UpdateCategoryParams{
		ID:        category.ID,
		Name:      category.Name,
		Color:     category.Color,
		Position:  int32(category.Position),
		UpdatedAt: timeToPgTimestamptz(category.UpdatedAt),
	})
	if err != nil {
		return mapUniqueViolation(err)
	}
	if affected == 0 {
		return domain.ErrCategoryNotFound
	}

	return nil
}

// Delete removes a category.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	affected, err := r.queries.DeleteCategory(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrCategoryNotFound
	}

	return nil
}

// GetByID retrieves a category by ID.
func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	row, err := r.queries.GetCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}

	return rowToCategory(row), nil
}

// List returns categories ordered by position.
func (r *CategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	rows, err := r.queries.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	categories := make([]*domain.Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, rowToCategory(row))
	}

	return categories, nil
}

func rowToCategory(row generated.Category) *domain.Category {
	return &domain.Category{
		ID:        row.ID,
		Name:      row.Name,
		Color:     row.Color,
		Position:  int(row.Position),
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}

// mapUniqueViolation turns the case-insensitive name index violation into a domain error.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
		return domain.ErrDuplicateName
	}
	return err
}
