package domain

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Status is the review state of a transaction.
type Status string

const (
	StatusVerified           Status = "verified"
	StatusPotentialDuplicate Status = "potential_duplicate"
	StatusNeedsReview        Status = "needs_review"
)

// IsValid checks if the status is one of the known values.
func (s Status) IsValid() bool {
	switch s {
	case StatusVerified, StatusPotentialDuplicate, StatusNeedsReview:
		return true
	}
	return false
}

// ReviewConfidenceThreshold is the minimum extraction confidence for an imported
// transaction to start out verified.
const ReviewConfidenceThreshold = 80

// Transaction is a single ledger entry.
type Transaction struct {
	ID                  string
	Date                civil.Date
	Amount              decimal.Decimal
	OriginalDescription string
	EnhancedDescription string
	Category            string
	Tags                []string
	Source              string
	AccountID           *string
	IsExpense           bool
	Status              Status
	Confidence          int
	IsReviewed          bool
	SplitDetails        *SplitDetails
	Version             int64
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Validate checks the fields every stored transaction must carry.
func (t *Transaction) Validate() error {
	if t.Date.IsZero() || !t.Date.IsValid() {
		return ErrInvalidDate
	}
	if t.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if t.OriginalDescription == "" {
		return ErrMissingField
	}
	if !t.Status.IsValid() {
		return ErrInvalidStatus
	}
	if t.Confidence < 0 || t.Confidence > 100 {
		return ErrInvalidConfidence
	}
	return nil
}

// Clone returns a deep copy. Domain operations never mutate their inputs in place
// except through the explicit SplitItem state machine.
func (t *Transaction) Clone() *Transaction {
	if t == nil {
		return nil
	}
	c := *t
	if t.Tags != nil {
		c.Tags = append([]string(nil), t.Tags...)
	}
	if t.AccountID != nil {
		id := *t.AccountID
		c.AccountID = &id
	}
	c.SplitDetails = t.SplitDetails.Clone()
	return &c
}

// HasTag reports whether the transaction carries tag.
func (t *Transaction) HasTag(tag string) bool {
	for _, existing := range t.Tags {
		if existing == tag {
			return true
		}
	}
	return false
}

// AddTags unions tags into the tag set, keeping insertion order and skipping duplicates.
func (t *Transaction) AddTags(tags ...string) {
	for _, tag := range tags {
		if tag == "" || t.HasTag(tag) {
			continue
		}
		t.Tags = append(t.Tags, tag)
	}
}

// RenameTag replaces from with to. Reports whether anything changed.
func (t *Transaction) RenameTag(from, to string) bool {
	if !t.HasTag(from) {
		return false
	}
	out := make([]string, 0, len(t.Tags))
	for _, tag := range t.Tags {
		if tag == from {
			tag = to
		}
		if tag == "" || containsString(out, tag) {
			continue
		}
		out = append(out, tag)
	}
	t.Tags = out
	return true
}

// RemoveTag drops tag from the set. Reports whether anything changed.
func (t *Transaction) RemoveTag(tag string) bool {
	return t.RenameTag(tag, "")
}

// MarkReviewed records a manual confirmation by the user.
func (t *Transaction) MarkReviewed() {
	t.IsReviewed = true
	t.Status = StatusVerified
}

// ItemFor returns the split item belonging to name, if any.
func (t *Transaction) ItemFor(name string) *SplitItem {
	if t.SplitDetails == nil {
		return nil
	}
	for i := range t.SplitDetails.Items {
		if t.SplitDetails.Items[i].Name == name {
			return &t.SplitDetails.Items[i]
		}
	}
	return nil
}

// Item returns the split item with the given id, if any.
func (t *Transaction) Item(id string) *SplitItem {
	if t.SplitDetails == nil {
		return nil
	}
	for i := range t.SplitDetails.Items {
		if t.SplitDetails.Items[i].ID == id {
			return &t.SplitDetails.Items[i]
		}
	}
	return nil
}

// Participants returns the names of everyone with a split item on this transaction.
func (t *Transaction) Participants() []string {
	if t.SplitDetails == nil {
		return nil
	}
	names := make([]string, 0, len(t.SplitDetails.Items))
	for _, item := range t.SplitDetails.Items {
		names = append(names, item.Name)
	}
	return names
}

// DefaultStatus derives the initial status of an imported record from its confidence.
func DefaultStatus(confidence int) Status {
	if confidence >= ReviewConfidenceThreshold {
		return StatusVerified
	}
	return StatusNeedsReview
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
