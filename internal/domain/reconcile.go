package domain

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// OtherCategory receives candidates whose category is not in the allowed set.
const OtherCategory = "Other"

// Candidate is an unvalidated record produced by document extraction or manual upload.
type Candidate struct {
	Date                string // YYYY-MM-DD
	Amount              *decimal.Decimal
	OriginalDescription string
	EnhancedDescription string
	Category            string
	IsExpense           bool
	Tags                []string
	Confidence          int
}

// ReconcileOptions carries what Reconcile needs beyond the records themselves.
type ReconcileOptions struct {
	AllowedCategories []string
	Source            string
	AccountID         *string
	Now               time.Time
	NewID             IDFunc
}

// DroppedCandidate reports a candidate that failed validation.
type DroppedCandidate struct {
	Index  int
	Reason error
}

// ReconcileResult partitions an import batch.
type ReconcileResult struct {
	Accepted   []*Transaction
	Duplicates []DuplicatePair
	Dropped    []DroppedCandidate
}

// NeedsReview reports whether the user should be sent to the review surface.
func (r *ReconcileResult) NeedsReview() bool {
	if len(r.Duplicates) > 0 {
		return true
	}
	for _, tx := range r.Accepted {
		if tx.Status == StatusNeedsReview {
			return true
		}
	}
	return false
}

// Reconcile validates candidates, enriches them with rules and splits them into
// accepted records and duplicate pairs. Duplicates are only searched in ledger,
// never among records accepted earlier in the same batch.
func Reconcile(candidates []Candidate, ledger []*Transaction, rules []*Rule, opts ReconcileOptions) ReconcileResult {
	var result ReconcileResult
	for idx, c := range candidates {
		tx, err := c.toTransaction(opts)
		if err != nil {
			result.Dropped = append(result.Dropped, DroppedCandidate{Index: idx, Reason: err})
			continue
		}

		tx, _ = ApplyRules(tx, rules)

		if existing := FindDuplicate(tx, ledger); existing != nil {
			tx.Status = StatusPotentialDuplicate
			result.Duplicates = append(result.Duplicates, DuplicatePair{
				Existing:   existing,
				Incoming:   tx,
				Confidence: DuplicateConfidence,
			})
			continue
		}
		result.Accepted = append(result.Accepted, tx)
	}
	return result
}

func (c Candidate) toTransaction(opts ReconcileOptions) (*Transaction, error) {
	if strings.TrimSpace(c.Date) == "" || c.Amount == nil || strings.TrimSpace(c.OriginalDescription) == "" {
		return nil, ErrMissingField
	}
	date, err := civil.ParseDate(strings.TrimSpace(c.Date))
	if err != nil || !date.IsValid() {
		return nil, ErrInvalidDate
	}
	if c.Amount.IsNegative() {
		return nil, ErrInvalidAmount
	}

	confidence := c.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 100 {
		confidence = 100
	}

	enhanced := c.EnhancedDescription
	if strings.TrimSpace(enhanced) == "" {
		enhanced = c.OriginalDescription
	}

	tx := &Transaction{
		ID:                  opts.NewID(),
		Date:                date,
		Amount:              roundMoney(*c.Amount),
		OriginalDescription: c.OriginalDescription,
		EnhancedDescription: enhanced,
		Category:            canonicalCategory(c.Category, opts.AllowedCategories),
		Tags:                []string{},
		Source:              opts.Source,
		IsExpense:           c.IsExpense,
		Status:              DefaultStatus(confidence),
		Confidence:          confidence,
		CreatedAt:           opts.Now,
		UpdatedAt:           opts.Now,
	}
	if opts.AccountID != nil {
		id := *opts.AccountID
		tx.AccountID = &id
	}
	tx.AddTags(c.Tags...)
	return tx, nil
}

// canonicalCategory maps name onto the allowed set, case-insensitively.
// With no allowed set the name is trusted as is.
func canonicalCategory(name string, allowed []string) string {
	if len(allowed) == 0 {
		return name
	}
	trimmed := strings.TrimSpace(name)
	for _, a := range allowed {
		if strings.EqualFold(a, trimmed) {
			return a
		}
	}
	return OtherCategory
}
