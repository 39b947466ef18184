package domain

import "time"

// Event types
const (
	EventTypeImportCompleted     = "import.completed"
	EventTypeSplitSaved          = "split.saved"
	EventTypeSplitRemoved        = "split.removed"
	EventTypeItemSettled         = "split_item.settled"
	EventTypeItemUnsettled       = "split_item.unsettled"
	EventTypePaymentRecorded     = "payment.recorded"
	EventTypeSettlementAllocated = "settlement.allocated"
	EventTypeParticipantRenamed  = "participant.renamed"
	EventTypeDuplicateResolved   = "duplicate.resolved"
	EventTypeRulesApplied        = "rules.applied"
)

// Aggregate types
const (
	AggregateTypeTransaction = "transaction"
	AggregateTypeParticipant = "participant"
	AggregateTypeImport      = "import"
	AggregateTypeReview      = "duplicate_review"
	AggregateTypeRule        = "rule"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}
