package mocks

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"cloud.google.com/go/civil"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/usecase"
)

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	mu sync.Mutex

	BeginFunc    func(ctx context.Context) (usecase.Transaction, error)
	Transactions []*MockTransaction
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &MockTransaction{}
	m.Transactions = append(m.Transactions, tx)
	return tx, nil
}

// Last returns the most recently started transaction.
func (m *MockTransactionManager) Last() *MockTransaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Transactions) == 0 {
		return nil
	}
	return m.Transactions[len(m.Transactions)-1]
}

// MockTransaction is a mock implementation of Transaction.
// Repository writes are staged on it and only applied on Commit.
type MockTransaction struct {
	mu         sync.Mutex
	staged     []func()
	Committed  bool
	RolledBack bool

	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

// Stage defers a write until commit.
func (m *MockTransaction) Stage(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.staged = append(m.staged, fn)
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		if err := m.CommitFunc(ctx); err != nil {
			return err
		}
	}
	m.mu.Lock()
	staged := m.staged
	m.staged = nil
	m.Committed = true
	m.mu.Unlock()

	for _, fn := range staged {
		fn()
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Committed {
		return nil
	}
	m.staged = nil
	m.RolledBack = true
	return nil
}

// stage applies fn on commit when tx is a MockTransaction, immediately otherwise.
func stage(tx usecase.Transaction, fn func()) {
	if mt, ok := tx.(*MockTransaction); ok {
		mt.Stage(fn)
		return
	}
	fn()
}

// MockTransactionRepository is an in-memory TransactionRepository.
type MockTransactionRepository struct {
	mu  sync.RWMutex
	txs map[string]*domain.Transaction

	CreateFunc                      func(ctx context.Context, tx usecase.Transaction, t *domain.Transaction) error
	GetByIDFunc                     func(ctx context.Context, id string) (*domain.Transaction, error)
	SaveBatchFunc                   func(ctx context.Context, tx usecase.Transaction, txs []*domain.Transaction) error
	ListByParticipantsForUpdateFunc func(ctx context.Context, tx usecase.Transaction, names []string) ([]*domain.Transaction, error)
	ListInDateRangeFunc             func(ctx context.Context, from, to civil.Date) ([]*domain.Transaction, error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		txs: make(map[string]*domain.Transaction),
	}
}

// Seed stores copies of txs directly.
func (m *MockTransactionRepository) Seed(txs ...*domain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range txs {
		m.txs[t.ID] = t.Clone()
	}
}

// Stored returns a copy of the committed state of id, or nil.
func (m *MockTransactionRepository) Stored(id string) *domain.Transaction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.txs[id].Clone()
}

// Count returns the number of committed transactions.
func (m *MockTransactionRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.txs)
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, t *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, t)
	}
	m.mu.RLock()
	_, exists := m.txs[t.ID]
	m.mu.RUnlock()
	if exists {
		return fmt.Errorf("transaction %s already exists", t.ID)
	}
	c := t.Clone()
	stage(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.txs[c.ID] = c
	})
	return nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.txs[id]; ok {
		return t.Clone(), nil
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error) {
	return m.GetByID(ctx, id)
}

func (m *MockTransactionRepository) List(ctx context.Context, filter usecase.TransactionFilter) ([]*domain.Transaction, error) {
	out := m.selectWhere(func(t *domain.Transaction) bool {
		if filter.Status != "" && t.Status != filter.Status {
			return false
		}
		if filter.Category != "" && t.Category != filter.Category {
			return false
		}
		if filter.Tag != "" && !t.HasTag(filter.Tag) {
			return false
		}
		if filter.AccountID != "" && (t.AccountID == nil || *t.AccountID != filter.AccountID) {
			return false
		}
		if filter.From != nil && t.Date.Before(*filter.From) {
			return false
		}
		if filter.To != nil && t.Date.After(*filter.To) {
			return false
		}
		return true
	})
	slices.Reverse(out)

	if filter.Offset >= len(out) {
		return nil, nil
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (m *MockTransactionRepository) ListInDateRange(ctx context.Context, from, to civil.Date) ([]*domain.Transaction, error) {
	if m.ListInDateRangeFunc != nil {
		return m.ListInDateRangeFunc(ctx, from, to)
	}
	return m.selectWhere(func(t *domain.Transaction) bool {
		return !t.Date.Before(from) && !t.Date.After(to)
	}), nil
}

func (m *MockTransactionRepository) ListWithSplits(ctx context.Context) ([]*domain.Transaction, error) {
	return m.selectWhere(func(t *domain.Transaction) bool {
		return t.SplitDetails != nil
	}), nil
}

func (m *MockTransactionRepository) ListByParticipantsForUpdate(ctx context.Context, tx usecase.Transaction, names []string) ([]*domain.Transaction, error) {
	if m.ListByParticipantsForUpdateFunc != nil {
		return m.ListByParticipantsForUpdateFunc(ctx, tx, names)
	}
	out := m.selectWhere(func(t *domain.Transaction) bool {
		for _, name := range names {
			if t.ItemFor(name) != nil {
				return true
			}
		}
		return false
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockTransactionRepository) ListByTagForUpdate(ctx context.Context, tx usecase.Transaction, tag string) ([]*domain.Transaction, error) {
	return m.selectWhere(func(t *domain.Transaction) bool {
		return t.HasTag(tag)
	}), nil
}

func (m *MockTransactionRepository) ListAllForUpdate(ctx context.Context, tx usecase.Transaction) ([]*domain.Transaction, error) {
	return m.selectWhere(func(*domain.Transaction) bool { return true }), nil
}

func (m *MockTransactionRepository) SaveBatch(ctx context.Context, tx usecase.Transaction, txs []*domain.Transaction) error {
	if m.SaveBatchFunc != nil {
		return m.SaveBatchFunc(ctx, tx, txs)
	}
	m.mu.RLock()
	for _, t := range txs {
		stored, ok := m.txs[t.ID]
		if !ok {
			m.mu.RUnlock()
			return domain.ErrTransactionNotFound
		}
		if stored.Version != t.Version {
			m.mu.RUnlock()
			return domain.ErrVersionConflict
		}
	}
	m.mu.RUnlock()

	copies := make([]*domain.Transaction, 0, len(txs))
	for _, t := range txs {
		t.Version++
		copies = append(copies, t.Clone())
	}
	stage(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for _, c := range copies {
			m.txs[c.ID] = c
		}
	})
	return nil
}

func (m *MockTransactionRepository) Delete(ctx context.Context, tx usecase.Transaction, id string, version int64) error {
	m.mu.RLock()
	stored, ok := m.txs[id]
	m.mu.RUnlock()
	if !ok {
		return domain.ErrTransactionNotFound
	}
	if stored.Version != version {
		return domain.ErrVersionConflict
	}
	stage(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.txs, id)
	})
	return nil
}

// selectWhere returns copies of matching transactions ordered by date, then ID.
func (m *MockTransactionRepository) selectWhere(keep func(t *domain.Transaction) bool) []*domain.Transaction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Transaction
	for _, t := range m.txs {
		if keep(t) {
			out = append(out, t.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date == out[j].Date {
			return out[i].ID < out[j].ID
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// MockRuleRepository is an in-memory RuleRepository.
type MockRuleRepository struct {
	mu    sync.RWMutex
	rules map[string]*domain.Rule

	ListFunc  func(ctx context.Context) ([]*domain.Rule, error)
	ListCalls int
}

func NewMockRuleRepository() *MockRuleRepository {
	return &MockRuleRepository{
		rules: make(map[string]*domain.Rule),
	}
}

func (m *MockRuleRepository) Create(ctx context.Context, rule *domain.Rule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *rule
	m.rules[rule.ID] = &c
	return nil
}

func (m *MockRuleRepository) Update(ctx context.Context, rule *domain.Rule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rules[rule.ID]; !ok {
		return domain.ErrRuleNotFound
	}
	c := *rule
	m.rules[rule.ID] = &c
	return nil
}

func (m *MockRuleRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rules[id]; !ok {
		return domain.ErrRuleNotFound
	}
	delete(m.rules, id)
	return nil
}

func (m *MockRuleRepository) GetByID(ctx context.Context, id string) (*domain.Rule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.rules[id]; ok {
		c := *r
		return &c, nil
	}
	return nil, domain.ErrRuleNotFound
}

func (m *MockRuleRepository) List(ctx context.Context) ([]*domain.Rule, error) {
	m.mu.Lock()
	m.ListCalls++
	m.mu.Unlock()
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Rule, 0, len(m.rules))
	for _, r := range m.rules {
		c := *r
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position == out[j].Position {
			return out[i].ID < out[j].ID
		}
		return out[i].Position < out[j].Position
	})
	return out, nil
}

func (m *MockRuleRepository) Reorder(ctx context.Context, tx usecase.Transaction, ids []string) error {
	stage(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, id := range ids {
			if r, ok := m.rules[id]; ok {
				r.Position = i
			}
		}
	})
	return nil
}

// MockCategoryRepository is an in-memory CategoryRepository.
type MockCategoryRepository struct {
	mu         sync.RWMutex
	categories map[string]*domain.Category

	ListFunc func(ctx context.Context) ([]*domain.Category, error)
}

func NewMockCategoryRepository(categories ...*domain.Category) *MockCategoryRepository {
	m := &MockCategoryRepository{
		categories: make(map[string]*domain.Category),
	}
	for _, c := range categories {
		m.categories[c.ID] = c
	}
	return m
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories[category.ID] = category
	return nil
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[category.ID]; !ok {
		return domain.ErrCategoryNotFound
	}
	m.categories[category.ID] = category
	return nil
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	delete(m.categories, id)
	return nil
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.categories[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, domain.ErrCategoryNotFound
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Category, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

// MockAccountRepository is an in-memory AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc  func(ctx context.Context, account *domain.Account) error
	GetByIDFunc func(ctx context.Context, id string) (*domain.Account, error)
}

func NewMockAccountRepository(accounts ...*domain.Account) *MockAccountRepository {
	m := &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
	for _, a := range accounts {
		m.accounts[a.ID] = a
	}
	return m
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
	return nil
}

func (m *MockAccountRepository) Update(ctx context.Context, account *domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[account.ID]; !ok {
		return domain.ErrAccountNotFound
	}
	m.accounts[account.ID] = account
	return nil
}

func (m *MockAccountRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[id]; !ok {
		return domain.ErrAccountNotFound
	}
	delete(m.accounts, id)
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		c := *acc
		return &c, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, acc := range m.accounts {
		accounts = append(accounts, acc)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Name < accounts[j].Name })
	return accounts, nil
}

// MockDuplicateReviewRepository is an in-memory DuplicateReviewRepository.
type MockDuplicateReviewRepository struct {
	mu      sync.RWMutex
	reviews map[string]*domain.DuplicateReview

	CreateFunc func(ctx context.Context, tx usecase.Transaction, review *domain.DuplicateReview) error
}

func NewMockDuplicateReviewRepository() *MockDuplicateReviewRepository {
	return &MockDuplicateReviewRepository{
		reviews: make(map[string]*domain.DuplicateReview),
	}
}

// Seed stores reviews directly.
func (m *MockDuplicateReviewRepository) Seed(reviews ...*domain.DuplicateReview) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range reviews {
		m.reviews[r.ID] = r
	}
}

// Count returns the number of committed reviews.
func (m *MockDuplicateReviewRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.reviews)
}

func (m *MockDuplicateReviewRepository) Create(ctx context.Context, tx usecase.Transaction, review *domain.DuplicateReview) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, review)
	}
	stage(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.reviews[review.ID] = review
	})
	return nil
}

func (m *MockDuplicateReviewRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.DuplicateReview, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.reviews[id]; ok {
		return r, nil
	}
	return nil, domain.ErrReviewNotFound
}

func (m *MockDuplicateReviewRepository) List(ctx context.Context, limit, offset int) ([]*domain.DuplicateReview, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.DuplicateReview, 0, len(m.reviews))
	for _, r := range m.reviews {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockDuplicateReviewRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	m.mu.RLock()
	_, ok := m.reviews[id]
	m.mu.RUnlock()
	if !ok {
		return domain.ErrReviewNotFound
	}
	stage(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.reviews, id)
	})
	return nil
}

// MockOutboxRepository is an in-memory OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events []*domain.OutboxEvent

	CreateFunc func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

// Events returns the committed events.
func (m *MockOutboxRepository) Events() []*domain.OutboxEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.OutboxEvent(nil), m.events...)
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	stage(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.events = append(m.events, event)
	})
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.OutboxEvent
	for _, e := range m.events {
		if !e.Published {
			out = append(out, e)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
		}
	}
	return nil
}

func (m *MockOutboxRepository) GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.OutboxEvent
	for _, e := range m.events {
		if e.AggregateType == aggregateType && e.AggregateID == aggregateID {
			out = append(out, e)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.events[:0]
	for _, e := range m.events {
		if e.Published && e.PublishedAt != nil && e.PublishedAt.Before(before) {
			continue
		}
		kept = append(kept, e)
	}
	m.events = kept
	return nil
}

// MockCache is an in-memory Cache.
type MockCache struct {
	mu   sync.RWMutex
	data map[string][]byte

	GetFunc func(ctx context.Context, key string) ([]byte, error)
}

func NewMockCache() *MockCache {
	return &MockCache{
		data: make(map[string][]byte),
	}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, usecase.ErrCacheMiss
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Has reports whether key is cached.
func (m *MockCache) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[key]
	return ok
}

// MockRetrier is a mock implementation of Retrier. It runs the operation
// up to Attempts times while it fails with RetryOn.
type MockRetrier struct {
	Attempts int
	RetryOn  error
	Calls    int
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	attempts := m.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		m.Calls++
		err = operation()
		if err == nil || m.RetryOn == nil || !errors.Is(err, m.RetryOn) {
			return err
		}
	}
	return err
}

// MockRuleSource serves a fixed rule list.
type MockRuleSource struct {
	Rules []*domain.Rule
	Err   error
}

func (m *MockRuleSource) ActiveRules(ctx context.Context) ([]*domain.Rule, error) {
	return m.Rules, m.Err
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%03d", m.counter)
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Stored returns the value held for key.
func (m *MockIdempotencyStore) Stored(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}
