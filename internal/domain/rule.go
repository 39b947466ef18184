package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Field names a transaction attribute a rule can inspect.
type Field string

const (
	FieldOriginalDescription Field = "originalDescription"
	FieldEnhancedDescription Field = "enhancedDescription"
	FieldAmount              Field = "amount"
)

// Operator is a rule comparison.
type Operator string

const (
	OperatorContains    Operator = "contains"
	OperatorEquals      Operator = "equals"
	OperatorStartsWith  Operator = "starts_with"
	OperatorGreaterThan Operator = "greater_than"
	OperatorLessThan    Operator = "less_than"
)

func (o Operator) numeric() bool {
	return o == OperatorGreaterThan || o == OperatorLessThan
}

// Criteria selects the transactions a rule applies to.
type Criteria struct {
	Field    Field
	Operator Operator
	Value    string
}

// Actions are applied to every matching transaction. Empty fields are skipped.
type Actions struct {
	RenameTo    string
	SetCategory string
	AddTags     []string
}

// Rule is a user-defined automation. Rules run in Position order.
type Rule struct {
	ID       string
	Name     string
	Position int
	IsActive bool
	Criteria Criteria
	Actions  Actions
}

// Validate rejects rules that could never be evaluated meaningfully.
// Numeric operators are only allowed on the amount field.
func (r *Rule) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrInvalidRule
	}
	switch r.Criteria.Field {
	case FieldOriginalDescription, FieldEnhancedDescription, FieldAmount:
	default:
		return ErrInvalidRule
	}
	switch r.Criteria.Operator {
	case OperatorContains, OperatorEquals, OperatorStartsWith:
	case OperatorGreaterThan, OperatorLessThan:
		if r.Criteria.Field != FieldAmount {
			return ErrInvalidRule
		}
		if _, err := decimal.NewFromString(strings.TrimSpace(r.Criteria.Value)); err != nil {
			return ErrInvalidRule
		}
	default:
		return ErrInvalidRule
	}
	if strings.TrimSpace(r.Criteria.Value) == "" {
		return ErrInvalidRule
	}
	if r.Actions.RenameTo == "" && r.Actions.SetCategory == "" && len(r.Actions.AddTags) == 0 {
		return ErrInvalidRule
	}
	return nil
}

// Matches evaluates the rule criteria against tx. An empty criteria value never matches.
// Numeric operators on text fields and unparseable numbers are false.
func (r *Rule) Matches(tx *Transaction) bool {
	literal := r.Criteria.Value
	if strings.TrimSpace(literal) == "" {
		return false
	}

	if r.Criteria.Field == FieldAmount {
		want, err := decimal.NewFromString(strings.TrimSpace(literal))
		if err != nil {
			return false
		}
		return compareAmount(r.Criteria.Operator, tx.Amount, want)
	}

	var got string
	switch r.Criteria.Field {
	case FieldOriginalDescription:
		got = tx.OriginalDescription
	case FieldEnhancedDescription:
		got = tx.EnhancedDescription
	default:
		return false
	}
	return compareText(r.Criteria.Operator, strings.ToLower(got), strings.ToLower(literal))
}

func compareAmount(op Operator, got, want decimal.Decimal) bool {
	switch op {
	case OperatorEquals:
		return got.Equal(want)
	case OperatorGreaterThan:
		return got.GreaterThan(want)
	case OperatorLessThan:
		return got.LessThan(want)
	case OperatorContains:
		return strings.Contains(got.String(), want.String())
	case OperatorStartsWith:
		return strings.HasPrefix(got.String(), want.String())
	}
	return false
}

func compareText(op Operator, got, want string) bool {
	switch op {
	case OperatorContains:
		return strings.Contains(got, want)
	case OperatorEquals:
		return got == want
	case OperatorStartsWith:
		return strings.HasPrefix(got, want)
	}
	return false
}

func (r *Rule) apply(tx *Transaction) {
	if r.Actions.RenameTo != "" {
		tx.EnhancedDescription = r.Actions.RenameTo
	}
	if r.Actions.SetCategory != "" {
		tx.Category = r.Actions.SetCategory
	}
	tx.AddTags(r.Actions.AddTags...)
	tx.IsReviewed = true
	tx.Confidence = 100
	tx.Status = StatusVerified
}

// ApplyRules runs every active rule against a copy of tx in list order.
// Later rules overwrite what earlier ones set. Reports whether any rule matched.
func ApplyRules(tx *Transaction, rules []*Rule) (*Transaction, bool) {
	out := tx.Clone()
	matched := false
	for _, rule := range rules {
		if rule == nil || !rule.IsActive {
			continue
		}
		if rule.Matches(out) {
			rule.apply(out)
			matched = true
		}
	}
	return out, matched
}
