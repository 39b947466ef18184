package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/infrastructure/postgres/generated"
	"github.com/iho/splitledger/internal/usecase"
)

// RuleRepository implements usecase.RuleRepository.
type RuleRepository struct {
	queries *generated.Queries
}

var _ usecase.RuleRepository = (*RuleRepository)(nil)

// NewRuleRepository creates a new RuleRepository.
func NewRuleRepository(db generated.DBTX) *RuleRepository {
	return &RuleRepository{queries: generated.New(db)}
}

// Create creates a new rule.
func (r *RuleRepository) Create(ctx context.Context, rule *domain.Rule) error {
	criteria, actions, err := encodeRule(rule)
	if err != nil {
		return err
	}

	return r.queries.CreateRule(ctx, generated.CreateRuleParams{
		ID:       rule.ID,
		Name:     rule.Name,
		Position: int32(rule.Position),
		IsActive: rule.IsActive,
		Criteria: criteria,
		Actions:  actions,
	})
}

// Update overwrites a rule.
func (r *RuleRepository) Update(ctx context.Context, rule *domain.Rule) error {
	criteria, actions, err := encodeRule(rule)
	if err != nil {
		return err
	}

	affected, err := r.queries.UpdateRule(ctx, generated.UpdateRuleParams{
		ID:       rule.ID,
		Name:     rule.Name,
		Position: int32(rule.Position),
		IsActive: rule.IsActive,
		Criteria: criteria,
		Actions:  actions,
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrRuleNotFound
	}

	return nil
}

// Delete removes a rule.
func (r *RuleRepository) Delete(ctx context.Context, id string) error {
	affected, err := r.queries.DeleteRule(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrRuleNotFound
	}

	return nil
}

// GetByID retrieves a rule by ID.
func (r *RuleRepository) GetByID(ctx context.Context, id string) (*domain.Rule, error) {
	row, err := r.queries.GetRuleByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRuleNotFound
		}
		return nil, err
	}

	return decodeRule(row.ID, row.Name, row.Position, row.IsActive, row.Criteria, row.Actions)
}

// List returns rules ordered by position.
func (r *RuleRepository) List(ctx context.Context) ([]*domain.Rule, error) {
	rows, err := r.queries.ListRules(ctx)
	if err != nil {
		return nil, err
	}

	rules := make([]*domain.Rule, 0, len(rows))
	for _, row := range rows {
		rule, err := decodeRule(row.ID, row.Name, row.Position, row.IsActive, row.Criteria, row.Actions)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}

	return rules, nil
}

// Reorder assigns positions following the order of ids.
func (r *RuleRepository) Reorder(ctx context.Context, tx usecase.Transaction, ids []string) error {
	queries, err := queriesFor(tx)
	if err != nil {
		return err
	}

	for i, id := range ids {
		if err := queries.UpdateRulePosition(ctx, generated.UpdateRulePositionParams{
			ID:       id,
			Position: int32(i),
		}); err != nil {
			return err
		}
	}

	return nil
}

func encodeRule(rule *domain.Rule) ([]byte, []byte, error) {
	criteria, err := json.Marshal(criteriaRecord{
		Field:    string(rule.Criteria.Field),
		Operator: string(rule.Criteria.Operator),
		Value:    rule.Criteria.Value,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("encode criteria: %w", err)
	}

	actions, err := json.Marshal(actionsRecord{
		RenameTo:    rule.Actions.RenameTo,
		SetCategory: rule.Actions.SetCategory,
		AddTags:     rule.Actions.AddTags,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("encode actions: %w", err)
	}

	return criteria, actions, nil
}

func decodeRule(id, name string, position int32, active bool, criteriaJSON, actionsJSON []byte) (*domain.Rule, error) {
	var c criteriaRecord
	if err := json.Unmarshal(criteriaJSON, &c); err != nil {
		return nil, fmt.Errorf("decode criteria for rule %s: %w", id, err)
	}

	var a actionsRecord
	if len(actionsJSON) > 0 {
		if err := json.Unmarshal(actionsJSON, &a); err != nil {
			return nil, fmt.Errorf("decode actions for rule %s: %w", id, err)
		}
	}

	return &domain.Rule{
		ID:       id,
		Name:     name,
		Position: int(position),
		IsActive: active,
		Criteria: domain.Criteria{
			Field:    domain.Field(c.Field),
			Operator: domain.Operator(c.Operator),
			Value:    c.Value,
		},
		Actions: domain.Actions{
			RenameTo:    a.RenameTo,
			SetCategory: a.SetCategory,
			AddTags:     a.AddTags,
		},
	}, nil
}
