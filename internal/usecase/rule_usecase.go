package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/infrastructure/metrics"
)

// RuleUseCase handles automation rules.
type RuleUseCase struct {
	txManager  TransactionManager
	ruleRepo   RuleRepository
	txRepo     TransactionRepository
	outboxRepo OutboxRepository
	cache      Cache
	idGen      IDGenerator
	retrier    Retrier
	cacheTTL   time.Duration
	logger     zerolog.Logger
	metrics    *metrics.Metrics
}

// NewRuleUseCase creates a new RuleUseCase. cache may be nil.
func NewRuleUseCase(
	txManager TransactionManager,
	ruleRepo RuleRepository,
	txRepo TransactionRepository,
	outboxRepo OutboxRepository,
	cache Cache,
	idGen IDGenerator,
	retrier Retrier,
	cacheTTL time.Duration,
	logger zerolog.Logger,
	metrics *metrics.Metrics,
) *RuleUseCase {
	if cacheTTL <= 0 {
		cacheTTL = DefaultRulesCacheTTL
	}
	return &RuleUseCase{
		txManager:  txManager,
		ruleRepo:   ruleRepo,
		txRepo:     txRepo,
		outboxRepo: outboxRepo,
		cache:      cache,
		idGen:      idGen,
		retrier:    retrier,
		cacheTTL:   cacheTTL,
		logger:     logger.With().Str("component", "rules").Logger(),
		metrics:    metrics,
	}
}

// RuleInput represents the editable fields of a rule.
type RuleInput struct {
	Name     string
	IsActive bool
	Criteria domain.Criteria
	Actions  domain.Actions
}

// CreateRule validates and appends a rule to the end of the list.
func (uc *RuleUseCase) CreateRule(ctx context.Context, input RuleInput) (*domain.Rule, error) {
	existing, err := uc.ruleRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	position := 0
	for _, r := range existing {
		if r.Position >= position {
			position = r.Position + 1
		}
	}

	rule := &domain.Rule{
		ID:       uc.idGen.Generate(),
		Name:     input.Name,
		Position: position,
		IsActive: input.IsActive,
		Criteria: input.Criteria,
		Actions:  input.Actions,
	}
	if err := rule.Validate(); err != nil {
		return nil, err
	}

	if err := uc.ruleRepo.Create(ctx, rule); err != nil {
		return nil, err
	}
	uc.invalidate(ctx)

	return rule, nil
}

// UpdateRule replaces the editable fields of a rule, keeping its position.
func (uc *RuleUseCase) UpdateRule(ctx context.Context, id string, input RuleInput) (*domain.Rule, error) {
	rule, err := uc.ruleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rule.Name = input.Name
	rule.IsActive = input.IsActive
	rule.Criteria = input.Criteria
	rule.Actions = input.Actions
	if err := rule.Validate(); err != nil {
		return nil, err
	}

	if err := uc.ruleRepo.Update(ctx, rule); err != nil {
		return nil, err
	}
	uc.invalidate(ctx)

	return rule, nil
}

// DeleteRule removes a rule.
func (uc *RuleUseCase) DeleteRule(ctx context.Context, id string) error {
	if err := uc.ruleRepo.Delete(ctx, id); err != nil {
		return err
	}
	uc.invalidate(ctx)
	return nil
}

// GetRule retrieves a rule by ID.
func (uc *RuleUseCase) GetRule(ctx context.Context, id string) (*domain.Rule, error) {
	return uc.ruleRepo.GetByID(ctx, id)
}

// ListRules returns every rule in evaluation order.
func (uc *RuleUseCase) ListRules(ctx context.Context) ([]*domain.Rule, error) {
	return uc.ruleRepo.List(ctx)
}

// ReorderRules sets the evaluation order. ids must name every rule exactly once.
func (uc *RuleUseCase) ReorderRules(ctx context.Context, ids []string) error {
	existing, err := uc.ruleRepo.List(ctx)
	if err != nil {
		return err
	}
	if len(ids) != len(existing) {
		return domain.ErrInvalidRule
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return domain.ErrInvalidRule
		}
		seen[id] = true
	}
	for _, r := range existing {
		if !seen[r.ID] {
			return domain.ErrRuleNotFound
		}
	}

	err = inTransaction(ctx, uc.txManager, uc.retrier, func(ctx context.Context, dbTx Transaction) error {
		return uc.ruleRepo.Reorder(ctx, dbTx, ids)
	})
	if err != nil {
		return err
	}
	uc.invalidate(ctx)
	return nil
}

// ActiveRules returns the active rules in evaluation order, served from cache when possible.
func (uc *RuleUseCase) ActiveRules(ctx context.Context) ([]*domain.Rule, error) {
	rules, err := uc.cachedRules(ctx)
	if err != nil {
		return nil, err
	}

	active := make([]*domain.Rule, 0, len(rules))
	for _, r := range rules {
		if r.IsActive {
			active = append(active, r)
		}
	}
	return active, nil
}

func (uc *RuleUseCase) cachedRules(ctx context.Context) ([]*domain.Rule, error) {
	if uc.cache != nil {
		data, err := uc.cache.Get(ctx, RulesCacheKey)
		switch {
		case err == nil:
			var rules []*domain.Rule
			if jsonErr := json.Unmarshal(data, &rules); jsonErr == nil {
				return rules, nil
			}
			uc.logger.Warn().Msg("discarding undecodable cached rules")
		case !errors.Is(err, ErrCacheMiss):
			uc.logger.Warn().Err(err).Msg("rules cache read failed")
		}
	}

	rules, err := uc.ruleRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if data, err := json.Marshal(rules); err == nil {
			if err := uc.cache.Set(ctx, RulesCacheKey, data, uc.cacheTTL); err != nil {
				uc.logger.Warn().Err(err).Msg("rules cache write failed")
			}
		}
	}
	return rules, nil
}

func (uc *RuleUseCase) invalidate(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Delete(ctx, RulesCacheKey); err != nil {
		uc.logger.Warn().Err(err).Msg("rules cache invalidation failed")
	}
}

// ApplyToLedger re-runs the active rules over every stored transaction and
// saves the ones that changed. Returns the number of transactions updated.
func (uc *RuleUseCase) ApplyToLedger(ctx context.Context) (int, error) {
	rules, err := uc.ActiveRules(ctx)
	if err != nil {
		return 0, err
	}

	updatedCount := 0
	err = inTransaction(ctx, uc.txManager, uc.retrier, func(ctx context.Context, dbTx Transaction) error {
		txs, err := uc.txRepo.ListAllForUpdate(ctx, dbTx)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		var updated []*domain.Transaction
		for _, tx := range txs {
			out, matched := domain.ApplyRules(tx, rules)
			if !matched || sameEnrichment(tx, out) {
				continue
			}
			out.UpdatedAt = now
			updated = append(updated, out)
		}
		if len(updated) == 0 {
			updatedCount = 0
			return nil
		}

		if err := uc.txRepo.SaveBatch(ctx, dbTx, updated); err != nil {
			return err
		}

		event := newEvent(uc.idGen, domain.AggregateTypeRule, "all", domain.EventTypeRulesApplied, map[string]any{
			"rules":        len(rules),
			"transactions": ids(updated),
		}, now)
		if err := uc.outboxRepo.Create(ctx, dbTx, event); err != nil {
			return err
		}

		updatedCount = len(updated)
		return nil
	})
	if err != nil {
		return 0, err
	}

	if uc.metrics != nil {
		uc.metrics.RuleMatches.Add(float64(updatedCount))
	}
	uc.logger.Info().Int("updated", updatedCount).Int("rules", len(rules)).Msg("rules applied to ledger")

	return updatedCount, nil
}

func sameEnrichment(a, b *domain.Transaction) bool {
	return a.EnhancedDescription == b.EnhancedDescription &&
		a.Category == b.Category &&
		slices.Equal(a.Tags, b.Tags) &&
		a.IsReviewed == b.IsReviewed &&
		a.Confidence == b.Confidence &&
		a.Status == b.Status
}
