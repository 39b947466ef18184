package dto

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/usecase"
)

// CreateTransactionRequest represents a manually entered transaction.
type CreateTransactionRequest struct {
	Date                civil.Date      `json:"date"`
	Amount              decimal.Decimal `json:"amount"`
	OriginalDescription string          `json:"original_description"`
	EnhancedDescription string          `json:"enhanced_description,omitempty"`
	Category            string          `json:"category"`
	Tags                []string        `json:"tags,omitempty"`
	AccountID           *string         `json:"account_id,omitempty"`
	IsExpense           *bool           `json:"is_expense,omitempty"`
}

// ToUseCaseInput converts to use case input. Entries are expenses unless stated otherwise.
func (r *CreateTransactionRequest) ToUseCaseInput() usecase.CreateTransactionInput {
	isExpense := true
	if r.IsExpense != nil {
		isExpense = *r.IsExpense
	}
	return usecase.CreateTransactionInput{
		Date:                r.Date,
		Amount:              r.Amount,
		OriginalDescription: r.OriginalDescription,
		EnhancedDescription: r.EnhancedDescription,
		Category:            r.Category,
		Tags:                r.Tags,
		AccountID:           r.AccountID,
		IsExpense:           isExpense,
	}
}

// UpdateTransactionRequest represents a partial edit. An empty account_id unlinks the account.
type UpdateTransactionRequest struct {
	Version             int64            `json:"version"`
	Date                *civil.Date      `json:"date,omitempty"`
	Amount              *decimal.Decimal `json:"amount"`
	EnhancedDescription *string          `json:"enhanced_description,omitempty"`
	Category            *string          `json:"category,omitempty"`
	Tags                []string         `json:"tags,omitempty"`
	AccountID           *string          `json:"account_id,omitempty"`
	IsExpense           *bool            `json:"is_expense,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateTransactionRequest) ToUseCaseInput(id string) usecase.UpdateTransactionInput {
	return usecase.UpdateTransactionInput{
		ID:                  id,
		Version:             r.Version,
		Date:                r.Date,
		Amount:              r.Amount,
		EnhancedDescription: r.EnhancedDescription,
		Category:            r.Category,
		Tags:                r.Tags,
		AccountID:           r.AccountID,
		IsExpense:           r.IsExpense,
	}
}

// RenameRequest renames a tag or a participant.
type RenameRequest struct {
	To string `json:"to"`
}

// ParticipantRequest is one person in a split form.
type ParticipantRequest struct {
	Name     string          `json:"name"`
	IsOwner  bool            `json:"is_owner,omitempty"`
	Selected bool            `json:"selected,omitempty"`
	Shares   int             `json:"shares,omitempty"`
	Amount   decimal.Decimal `json:"amount"`
}

// SaveSplitRequest creates or re-edits the split of a transaction.
type SaveSplitRequest struct {
	SplitType    string               `json:"split_type"`
	Participants []ParticipantRequest `json:"participants"`
	DateLent     *civil.Date          `json:"date_lent,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *SaveSplitRequest) ToUseCaseInput(transactionID string) usecase.SaveSplitInput {
	participants := make([]domain.ParticipantShare, 0, len(r.Participants))
	for _, p := range r.Participants {
		participants = append(participants, domain.ParticipantShare{
			Name:     p.Name,
			IsOwner:  p.IsOwner,
			Selected: p.Selected,
			Shares:   p.Shares,
			Amount:   p.Amount,
		})
	}
	return usecase.SaveSplitInput{
		TransactionID: transactionID,
		SplitType:     domain.SplitType(r.SplitType),
		Participants:  participants,
		DateLent:      r.DateLent,
	}
}

// PaymentRequest records money received against one split item.
type PaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Date   *civil.Date     `json:"date,omitempty"`
}

// SetSettledRequest toggles an item's settled flag.
type SetSettledRequest struct {
	Settled bool        `json:"settled"`
	Date    *civil.Date `json:"date,omitempty"`
}

// SettleRequest is a lump payment from one person.
type SettleRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Date   *civil.Date     `json:"date,omitempty"`
}

// CandidateRequest is one extracted record submitted for import.
type CandidateRequest struct {
	Date                string           `json:"date"`
	Amount              *decimal.Decimal `json:"amount"`
	OriginalDescription string           `json:"original_description"`
	EnhancedDescription string           `json:"enhanced_description,omitempty"`
	Category            string           `json:"category,omitempty"`
	IsExpense           bool             `json:"is_expense"`
	Tags                []string         `json:"tags,omitempty"`
	Confidence          int              `json:"confidence"`
}

// ImportRequest submits a batch of candidate records.
type ImportRequest struct {
	Candidates []CandidateRequest `json:"candidates"`
	AccountID  *string            `json:"account_id,omitempty"`
	Source     string             `json:"source,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *ImportRequest) ToUseCaseInput() usecase.ImportInput {
	candidates := make([]domain.Candidate, 0, len(r.Candidates))
	for _, c := range r.Candidates {
		candidates = append(candidates, domain.Candidate{
			Date:                c.Date,
			Amount:              c.Amount,
			OriginalDescription: c.OriginalDescription,
			EnhancedDescription: c.EnhancedDescription,
			Category:            c.Category,
			IsExpense:           c.IsExpense,
			Tags:                c.Tags,
			Confidence:          c.Confidence,
		})
	}
	return usecase.ImportInput{
		Candidates: candidates,
		AccountID:  r.AccountID,
		Source:     r.Source,
	}
}

// ImportDocumentRequest references a stored document, e.g. gs://bucket/statement.pdf.
type ImportDocumentRequest struct {
	URI       string  `json:"uri"`
	AccountID *string `json:"account_id,omitempty"`
	Source    string  `json:"source,omitempty"`
}

// ResolveRequest carries the verdict on a duplicate review.
type ResolveRequest struct {
	Resolution string `json:"resolution"`
}

// CriteriaRequest is the condition part of a rule.
type CriteriaRequest struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// ActionsRequest is the effect part of a rule.
type ActionsRequest struct {
	RenameTo    string   `json:"rename_to,omitempty"`
	SetCategory string   `json:"set_category,omitempty"`
	AddTags     []string `json:"add_tags,omitempty"`
}

// RuleRequest creates or replaces a rule.
type RuleRequest struct {
	Name     string          `json:"name"`
	IsActive *bool           `json:"is_active,omitempty"`
	Criteria CriteriaRequest `json:"criteria"`
	Actions  ActionsRequest  `json:"actions"`
}

// ToUseCaseInput converts to use case input. Rules are active unless stated otherwise.
func (r *RuleRequest) ToUseCaseInput() usecase.RuleInput {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return usecase.RuleInput{
		Name:     r.Name,
		IsActive: active,
		Criteria: domain.Criteria{
			Field:    domain.Field(r.Criteria.Field),
			Operator: domain.Operator(r.Criteria.Operator),
			Value:    r.Criteria.Value,
		},
		Actions: domain.Actions{
			RenameTo:    r.Actions.RenameTo,
			SetCategory: r.Actions.SetCategory,
			AddTags:     r.Actions.AddTags,
		},
	}
}

// ReorderRulesRequest lists every rule ID in the new evaluation order.
type ReorderRulesRequest struct {
	IDs []string `json:"ids"`
}

// CategoryRequest creates or edits a category.
type CategoryRequest struct {
	Name     string `json:"name"`
	Color    string `json:"color,omitempty"`
	Position *int   `json:"position,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CategoryRequest) ToUseCaseInput() usecase.CategoryInput {
	return usecase.CategoryInput{Name: r.Name, Color: r.Color, Position: r.Position}
}

// AccountRequest creates or edits an account.
type AccountRequest struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Last4Digits string `json:"last4_digits,omitempty"`
	Color       string `json:"color,omitempty"`
	Institution string `json:"institution,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *AccountRequest) ToUseCaseInput() usecase.AccountInput {
	return usecase.AccountInput{
		Name:        r.Name,
		Type:        domain.AccountType(r.Type),
		Last4Digits: r.Last4Digits,
		Color:       r.Color,
		Institution: r.Institution,
	}
}
