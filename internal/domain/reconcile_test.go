package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amountPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestReconcile_PartitionsBatch(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	accountID := "acc-1"
	ledger := []*Transaction{
		{ID: "existing", Date: mustDate(t, "2024-05-30"), Amount: dec("18.00"), OriginalDescription: "UBER TRIP"},
	}
	rules := []*Rule{{
		Name:     "uber",
		IsActive: true,
		Criteria: Criteria{FieldOriginalDescription, OperatorContains, "uber"},
		Actions:  Actions{SetCategory: "Travel", AddTags: []string{"rides"}},
	}}
	candidates := []Candidate{
		{Date: "2024-05-31", Amount: amountPtr("18.00"), OriginalDescription: "UBER *TRIP", Confidence: 95},
		{Date: "2024-05-31", Amount: amountPtr("7.25"), OriginalDescription: "Corner cafe", Category: "food", Confidence: 60, Tags: []string{"coffee"}},
		{Date: "", Amount: amountPtr("1"), OriginalDescription: "no date"},
		{Date: "2024-05-31", OriginalDescription: "no amount"},
		{Date: "2024-05-31", Amount: amountPtr("3"), OriginalDescription: ""},
		{Date: "31/05/2024", Amount: amountPtr("3"), OriginalDescription: "bad date"},
		{Date: "2024-05-31", Amount: amountPtr("-3"), OriginalDescription: "negative"},
		{Date: "2024-06-01", Amount: amountPtr("18.00"), OriginalDescription: "Uber again", Category: "Mystery", Confidence: 85},
	}

	result := Reconcile(candidates, ledger, rules, ReconcileOptions{
		AllowedCategories: []string{"Food", "Travel"},
		Source:            "Chase Checking",
		AccountID:         &accountID,
		Now:               now,
		NewID:             sequence("tx"),
	})

	require.Len(t, result.Duplicates, 1)
	dup := result.Duplicates[0]
	assert.Equal(t, "existing", dup.Existing.ID)
	assert.Equal(t, StatusPotentialDuplicate, dup.Incoming.Status)
	assert.True(t, dup.Confidence.Equal(dec("0.9")))

	require.Len(t, result.Accepted, 2)
	cafe := result.Accepted[0]
	assert.Equal(t, "Food", cafe.Category)
	assert.Equal(t, "Corner cafe", cafe.EnhancedDescription)
	assert.Equal(t, StatusNeedsReview, cafe.Status)
	assert.False(t, cafe.IsReviewed)
	assert.Equal(t, []string{"coffee"}, cafe.Tags)
	assert.Equal(t, "Chase Checking", cafe.Source)
	require.NotNil(t, cafe.AccountID)
	assert.Equal(t, accountID, *cafe.AccountID)
	assert.Equal(t, now, cafe.CreatedAt)

	// Two days away from the existing record: accepted, enriched by the rule.
	again := result.Accepted[1]
	assert.Equal(t, "Travel", again.Category)
	assert.Equal(t, StatusVerified, again.Status)
	assert.True(t, again.IsReviewed)
	assert.Equal(t, 100, again.Confidence)

	require.Len(t, result.Dropped, 5)
	assert.Equal(t, 2, result.Dropped[0].Index)
	assert.True(t, errors.Is(result.Dropped[0].Reason, ErrMissingField))
	assert.True(t, errors.Is(result.Dropped[3].Reason, ErrInvalidDate))
	assert.True(t, errors.Is(result.Dropped[4].Reason, ErrInvalidAmount))

	assert.True(t, result.NeedsReview())
}

func TestReconcile_OnlyComparesAgainstPriorLedger(t *testing.T) {
	candidates := []Candidate{
		{Date: "2024-05-31", Amount: amountPtr("9.99"), OriginalDescription: "Netflix", Confidence: 99},
		{Date: "2024-05-31", Amount: amountPtr("9.99"), OriginalDescription: "Netflix", Confidence: 99},
	}

	result := Reconcile(candidates, nil, nil, ReconcileOptions{NewID: sequence("tx")})

	assert.Len(t, result.Accepted, 2)
	assert.Empty(t, result.Duplicates)
	assert.NotEqual(t, result.Accepted[0].ID, result.Accepted[1].ID)
	assert.False(t, result.NeedsReview())
}

func TestReconcile_TrustsCategoryWithoutAllowedSet(t *testing.T) {
	result := Reconcile([]Candidate{
		{Date: "2024-05-31", Amount: amountPtr("1"), OriginalDescription: "x", Category: "Anything", Confidence: 80},
	}, nil, nil, ReconcileOptions{NewID: sequence("tx")})

	require.Len(t, result.Accepted, 1)
	assert.Equal(t, "Anything", result.Accepted[0].Category)
	assert.Equal(t, StatusVerified, result.Accepted[0].Status)
}
