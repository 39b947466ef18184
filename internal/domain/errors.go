package domain

import "errors"

var (
	// Transaction errors
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidDate         = errors.New("invalid date")
	ErrInvalidStatus       = errors.New("invalid transaction status")
	ErrInvalidConfidence   = errors.New("confidence must be between 0 and 100")
	ErrVersionConflict     = errors.New("transaction was modified concurrently")
	ErrInvalidHistory      = errors.New("invalid history query")

	// Import errors
	ErrMissingField      = errors.New("missing required field")
	ErrExternalService   = errors.New("document extraction failed")
	ErrEmptyDocument     = errors.New("document is empty")
	ErrInvalidURI        = errors.New("invalid document uri")
	ErrReviewNotFound    = errors.New("duplicate review not found")
	ErrInvalidResolution = errors.New("invalid duplicate resolution")

	// Split errors
	ErrOverAllocation       = errors.New("split amounts exceed transaction total")
	ErrInvalidShares        = errors.New("total shares must be positive")
	ErrInvalidSplitType     = errors.New("invalid split type")
	ErrNoParticipants       = errors.New("split has no participants")
	ErrSplitNotFound        = errors.New("transaction has no split")
	ErrSplitItemNotFound    = errors.New("split item not found")
	ErrParticipantNotFound  = errors.New("participant has no split items")
	ErrInvalidParticipant   = errors.New("invalid participant name")
	ErrConservationViolated = errors.New("batch does not conserve paid money")
	ErrPaidItemRemoved      = errors.New("cannot drop a participant who has already paid")

	// Reference data errors
	ErrRuleNotFound     = errors.New("rule not found")
	ErrInvalidRule      = errors.New("invalid rule")
	ErrCategoryNotFound = errors.New("category not found")
	ErrAccountNotFound  = errors.New("account not found")
	ErrDuplicateName    = errors.New("name already exists")
)
