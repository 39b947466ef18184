package usecase

import (
	"context"
	"time"

	"cloud.google.com/go/civil"

	"github.com/iho/splitledger/internal/domain"
)

// TransactionFilter narrows transaction listings.
type TransactionFilter struct {
	Status    domain.Status
	Category  string
	Tag       string
	AccountID string
	From      *civil.Date
	To        *civil.Date
	Limit     int
	Offset    int
}

// TransactionRepository defines data access for ledger transactions.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, t *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Transaction, error)
	List(ctx context.Context, filter TransactionFilter) ([]*domain.Transaction, error)
	ListInDateRange(ctx context.Context, from, to civil.Date) ([]*domain.Transaction, error)
	ListWithSplits(ctx context.Context) ([]*domain.Transaction, error)
	// ListByParticipantsForUpdate locks every transaction with a split item for any of names.
	ListByParticipantsForUpdate(ctx context.Context, tx Transaction, names []string) ([]*domain.Transaction, error)
	ListByTagForUpdate(ctx context.Context, tx Transaction, tag string) ([]*domain.Transaction, error)
	ListAllForUpdate(ctx context.Context, tx Transaction) ([]*domain.Transaction, error)
	// SaveBatch writes every transaction, failing with domain.ErrVersionConflict if any
	// stored version differs from the one loaded. Versions are bumped in place.
	SaveBatch(ctx context.Context, tx Transaction, txs []*domain.Transaction) error
	Delete(ctx context.Context, tx Transaction, id string, version int64) error
}

// RuleRepository defines data access for automation rules.
type RuleRepository interface {
	Create(ctx context.Context, rule *domain.Rule) error
	Update(ctx context.Context, rule *domain.Rule) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Rule, error)
	// List returns rules ordered by position.
	List(ctx context.Context) ([]*domain.Rule, error)
	Reorder(ctx context.Context, tx Transaction, ids []string) error
}

// CategoryRepository defines data access for categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
}

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	Update(ctx context.Context, account *domain.Account) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	List(ctx context.Context) ([]*domain.Account, error)
}

// DuplicateReviewRepository defines data access for pending duplicate reviews.
type DuplicateReviewRepository interface {
	Create(ctx context.Context, tx Transaction, review *domain.DuplicateReview) error
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.DuplicateReview, error)
	List(ctx context.Context, limit, offset int) ([]*domain.DuplicateReview, error)
	Delete(ctx context.Context, tx Transaction, id string) error
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error)
	DeletePublished(ctx context.Context, before time.Time) error
}

// Document is raw input for the extraction service.
type Document struct {
	Name     string
	MIMEType string
	Data     []byte
}

// DocumentExtractor turns a statement or receipt into candidate records.
type DocumentExtractor interface {
	Extract(ctx context.Context, doc Document, categories []string) ([]domain.Candidate, error)
}

// DocumentStore fetches documents referenced by URI.
type DocumentStore interface {
	Fetch(ctx context.Context, uri string) (*Document, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key whose request did not complete, so it can be retried.
	Release(ctx context.Context, key string) error
}
