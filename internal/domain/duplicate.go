package domain

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// DuplicateConfidence is the fixed confidence attached to every detected pair.
var DuplicateConfidence = decimal.New(9, -1)

// DuplicateWindowDays is the inclusive day distance within which two records may match.
const DuplicateWindowDays = 1

// FindDuplicate returns the first ledger entry that looks like the same real-world
// event as incoming, or nil.
func FindDuplicate(incoming *Transaction, ledger []*Transaction) *Transaction {
	for _, existing := range ledger {
		if existing == nil {
			continue
		}
		if !nearlyEqual(existing.Amount, incoming.Amount) {
			continue
		}
		if dayDistance(existing.Date, incoming.Date) <= DuplicateWindowDays {
			return existing
		}
	}
	return nil
}

func dayDistance(a, b civil.Date) int {
	d := a.DaysSince(b)
	if d < 0 {
		return -d
	}
	return d
}

// DuplicatePair is a candidate suspected to repeat an existing entry.
type DuplicatePair struct {
	Existing   *Transaction
	Incoming   *Transaction
	Confidence decimal.Decimal
}

// Resolution is the user's verdict on a duplicate review.
type Resolution string

const (
	ResolutionKeepBoth        Resolution = "keep_both"
	ResolutionDiscardIncoming Resolution = "discard_incoming"
	ResolutionReplaceExisting Resolution = "replace_existing"
)

// IsValid checks if the resolution is known.
func (r Resolution) IsValid() bool {
	switch r {
	case ResolutionKeepBoth, ResolutionDiscardIncoming, ResolutionReplaceExisting:
		return true
	}
	return false
}

// DuplicateReview is a persisted pair awaiting resolution.
type DuplicateReview struct {
	ID         string
	Existing   *Transaction
	Incoming   *Transaction
	Confidence decimal.Decimal
	CreatedAt  time.Time
}
