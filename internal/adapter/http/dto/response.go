package dto

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/usecase"
)

// PaymentResponse represents a payment on a split item.
type PaymentResponse struct {
	ID     string          `json:"id"`
	Date   civil.Date      `json:"date"`
	Amount decimal.Decimal `json:"amount"`
	Kind   string          `json:"kind"`
}

// SplitItemResponse represents one participant's share.
type SplitItemResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Amount      decimal.Decimal   `json:"amount"`
	PaidAmount  decimal.Decimal   `json:"paid_amount"`
	Outstanding decimal.Decimal   `json:"outstanding"`
	IsSettled   bool              `json:"is_settled"`
	DateSettled *civil.Date       `json:"date_settled,omitempty"`
	Payments    []PaymentResponse `json:"payments"`
}

// SplitResponse represents the split of a transaction.
type SplitResponse struct {
	SplitType string              `json:"split_type"`
	DateLent  civil.Date          `json:"date_lent"`
	TotalLent decimal.Decimal     `json:"total_lent"`
	Items     []SplitItemResponse `json:"items"`
}

// SplitFromDomain converts domain split details to response.
func SplitFromDomain(d *domain.SplitDetails) *SplitResponse {
	if d == nil {
		return nil
	}
	items := make([]SplitItemResponse, len(d.Items))
	for i := range d.Items {
		item := &d.Items[i]
		payments := make([]PaymentResponse, len(item.Payments))
		for j, p := range item.Payments {
			payments[j] = PaymentResponse{ID: p.ID, Date: p.Date, Amount: p.Amount, Kind: string(p.Kind)}
		}
		items[i] = SplitItemResponse{
			ID:          item.ID,
			Name:        item.Name,
			Amount:      item.Amount,
			PaidAmount:  item.PaidAmount,
			Outstanding: item.Outstanding(),
			IsSettled:   item.IsSettled,
			DateSettled: item.DateSettled,
			Payments:    payments,
		}
	}
	return &SplitResponse{
		SplitType: string(d.SplitType),
		DateLent:  d.DateLent,
		TotalLent: d.TotalLent,
		Items:     items,
	}
}

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID                  string          `json:"id"`
	Date                civil.Date      `json:"date"`
	Amount              decimal.Decimal `json:"amount"`
	OriginalDescription string          `json:"original_description"`
	EnhancedDescription string          `json:"enhanced_description"`
	Category            string          `json:"category"`
	Tags                []string        `json:"tags"`
	Source              string          `json:"source,omitempty"`
	AccountID           *string         `json:"account_id,omitempty"`
	IsExpense           bool            `json:"is_expense"`
	Status              string          `json:"status"`
	Confidence          int             `json:"confidence"`
	IsReviewed          bool            `json:"is_reviewed"`
	Split               *SplitResponse  `json:"split,omitempty"`
	Version             int64           `json:"version"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// TransactionFromDomain converts domain transaction to response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	if t == nil {
		return nil
	}
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return &TransactionResponse{
		ID:                  t.ID,
		Date:                t.Date,
		Amount:              t.Amount,
		OriginalDescription: t.OriginalDescription,
		EnhancedDescription: t.EnhancedDescription,
		Category:            t.Category,
		Tags:                tags,
		Source:              t.Source,
		AccountID:           t.AccountID,
		IsExpense:           t.IsExpense,
		Status:              string(t.Status),
		Confidence:          t.Confidence,
		IsReviewed:          t.IsReviewed,
		Split:               SplitFromDomain(t.SplitDetails),
		Version:             t.Version,
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           t.UpdatedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txs []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txs))
	for i, t := range txs {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// SplitResultResponse is returned after saving a split.
type SplitResultResponse struct {
	Transaction *TransactionResponse   `json:"transaction"`
	SweptFrom   []*TransactionResponse `json:"swept_from"`
	Swept       decimal.Decimal        `json:"swept"`
	OwnerShare  decimal.Decimal        `json:"owner_share"`
}

// SplitResultFromUseCase converts a split result to response.
func SplitResultFromUseCase(r *usecase.SplitResult) *SplitResultResponse {
	return &SplitResultResponse{
		Transaction: TransactionFromDomain(r.Transaction),
		SweptFrom:   TransactionsFromDomain(r.SweptFrom),
		Swept:       r.Swept,
		OwnerShare:  r.OwnerShare,
	}
}

// ApplicationResponse is one slice of a bulk payment.
type ApplicationResponse struct {
	TransactionID string          `json:"transaction_id"`
	ItemID        string          `json:"item_id"`
	Amount        decimal.Decimal `json:"amount"`
	Overflow      bool            `json:"overflow,omitempty"`
}

// AllocationResponse is returned after a bulk settlement.
type AllocationResponse struct {
	Name         string                 `json:"name"`
	Amount       decimal.Decimal        `json:"amount"`
	Applied      decimal.Decimal        `json:"applied"`
	Credit       decimal.Decimal        `json:"credit"`
	Applications []ApplicationResponse  `json:"applications"`
	Transactions []*TransactionResponse `json:"transactions"`
}

// AllocationFromDomain converts a domain allocation to response.
func AllocationFromDomain(a *domain.Allocation) *AllocationResponse {
	apps := make([]ApplicationResponse, len(a.Applications))
	for i, app := range a.Applications {
		apps[i] = ApplicationResponse{
			TransactionID: app.TransactionID,
			ItemID:        app.ItemID,
			Amount:        app.Amount,
			Overflow:      app.Overflow,
		}
	}
	return &AllocationResponse{
		Name:         a.Name,
		Amount:       a.Amount,
		Applied:      a.Applied(),
		Credit:       a.Credit,
		Applications: apps,
		Transactions: TransactionsFromDomain(a.Transactions),
	}
}

// ReviewResponse represents a pending duplicate review.
type ReviewResponse struct {
	ID         string               `json:"id"`
	Existing   *TransactionResponse `json:"existing"`
	Incoming   *TransactionResponse `json:"incoming"`
	Confidence decimal.Decimal      `json:"confidence"`
	CreatedAt  time.Time            `json:"created_at"`
}

// ReviewFromDomain converts a domain review to response.
func ReviewFromDomain(r *domain.DuplicateReview) *ReviewResponse {
	return &ReviewResponse{
		ID:         r.ID,
		Existing:   TransactionFromDomain(r.Existing),
		Incoming:   TransactionFromDomain(r.Incoming),
		Confidence: r.Confidence,
		CreatedAt:  r.CreatedAt,
	}
}

// ReviewsFromDomain converts domain reviews to responses.
func ReviewsFromDomain(reviews []*domain.DuplicateReview) []*ReviewResponse {
	result := make([]*ReviewResponse, len(reviews))
	for i, r := range reviews {
		result[i] = ReviewFromDomain(r)
	}
	return result
}

// ResolveResponse reports what a resolution wrote.
type ResolveResponse struct {
	Resolution string               `json:"resolution"`
	Inserted   *TransactionResponse `json:"inserted,omitempty"`
	RemovedID  string               `json:"removed_id,omitempty"`
}

// ResolveFromUseCase converts a resolve result to response.
func ResolveFromUseCase(r *usecase.ResolveResult) *ResolveResponse {
	return &ResolveResponse{
		Resolution: string(r.Resolution),
		Inserted:   TransactionFromDomain(r.Inserted),
		RemovedID:  r.RemovedID,
	}
}

// DroppedResponse reports a candidate that failed validation.
type DroppedResponse struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// ImportResponse is returned after an import batch.
type ImportResponse struct {
	ID          string                 `json:"id"`
	Accepted    []*TransactionResponse `json:"accepted"`
	Duplicates  []*ReviewResponse      `json:"duplicates"`
	Dropped     []DroppedResponse      `json:"dropped"`
	NeedsReview bool                   `json:"needs_review"`
}

// ImportFromUseCase converts an import result to response.
func ImportFromUseCase(r *usecase.ImportResult) *ImportResponse {
	dropped := make([]DroppedResponse, len(r.Dropped))
	for i, d := range r.Dropped {
		dropped[i] = DroppedResponse{Index: d.Index, Reason: d.Reason.Error()}
	}
	return &ImportResponse{
		ID:          r.ID,
		Accepted:    TransactionsFromDomain(r.Accepted),
		Duplicates:  ReviewsFromDomain(r.Duplicates),
		Dropped:     dropped,
		NeedsReview: r.NeedsReview,
	}
}

// CriteriaResponse is the condition part of a rule.
type CriteriaResponse struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// ActionsResponse is the effect part of a rule.
type ActionsResponse struct {
	RenameTo    string   `json:"rename_to,omitempty"`
	SetCategory string   `json:"set_category,omitempty"`
	AddTags     []string `json:"add_tags,omitempty"`
}

// RuleResponse represents a rule in API responses.
type RuleResponse struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Position int              `json:"position"`
	IsActive bool             `json:"is_active"`
	Criteria CriteriaResponse `json:"criteria"`
	Actions  ActionsResponse  `json:"actions"`
}

// RuleFromDomain converts a domain rule to response.
func RuleFromDomain(r *domain.Rule) *RuleResponse {
	return &RuleResponse{
		ID:       r.ID,
		Name:     r.Name,
		Position: r.Position,
		IsActive: r.IsActive,
		Criteria: CriteriaResponse{
			Field:    string(r.Criteria.Field),
			Operator: string(r.Criteria.Operator),
			Value:    r.Criteria.Value,
		},
		Actions: ActionsResponse{
			RenameTo:    r.Actions.RenameTo,
			SetCategory: r.Actions.SetCategory,
			AddTags:     r.Actions.AddTags,
		},
	}
}

// RulesFromDomain converts domain rules to responses.
func RulesFromDomain(rules []*domain.Rule) []*RuleResponse {
	result := make([]*RuleResponse, len(rules))
	for i, r := range rules {
		result[i] = RuleFromDomain(r)
	}
	return result
}

// CategoryResponse represents a category in API responses.
type CategoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CategoryFromDomain converts a domain category to response.
func CategoryFromDomain(c *domain.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Color:     c.Color,
		Position:  c.Position,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// CategoriesFromDomain converts domain categories to responses.
func CategoriesFromDomain(categories []*domain.Category) []*CategoryResponse {
	result := make([]*CategoryResponse, len(categories))
	for i, c := range categories {
		result[i] = CategoryFromDomain(c)
	}
	return result
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Last4Digits string    `json:"last4_digits,omitempty"`
	Color       string    `json:"color,omitempty"`
	Institution string    `json:"institution,omitempty"`
	Label       string    `json:"label"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:          a.ID,
		Name:        a.Name,
		Type:        string(a.Type),
		Last4Digits: a.Last4Digits,
		Color:       a.Color,
		Institution: a.Institution,
		Label:       a.Label(),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// BalanceResponse is one participant's standing.
type BalanceResponse struct {
	Name        string          `json:"name"`
	TotalLent   decimal.Decimal `json:"total_lent"`
	TotalPaid   decimal.Decimal `json:"total_paid"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Credit      decimal.Decimal `json:"credit"`
	Net         decimal.Decimal `json:"net"`
	OpenItems   int             `json:"open_items"`
}

// BalanceFromDomain converts a domain balance to response.
func BalanceFromDomain(b domain.ParticipantBalance) BalanceResponse {
	return BalanceResponse{
		Name:        b.Name,
		TotalLent:   b.TotalLent,
		TotalPaid:   b.TotalPaid,
		Outstanding: b.Outstanding,
		Credit:      b.Credit,
		Net:         b.Net(),
		OpenItems:   b.OpenItems,
	}
}

// BalancesFromDomain converts domain balances to responses.
func BalancesFromDomain(balances []domain.ParticipantBalance) []BalanceResponse {
	result := make([]BalanceResponse, len(balances))
	for i, b := range balances {
		result[i] = BalanceFromDomain(b)
	}
	return result
}

// ParticipantLedgerResponse is one person's balance with the bills behind it.
type ParticipantLedgerResponse struct {
	Balance      BalanceResponse        `json:"balance"`
	Transactions []*TransactionResponse `json:"transactions"`
}

// ParticipantLedgerFromUseCase converts a participant ledger to response.
func ParticipantLedgerFromUseCase(l *usecase.ParticipantLedger) *ParticipantLedgerResponse {
	return &ParticipantLedgerResponse{
		Balance:      BalanceFromDomain(l.Balance),
		Transactions: TransactionsFromDomain(l.Transactions),
	}
}

// InconsistencyResponse describes one broken split invariant.
type InconsistencyResponse struct {
	TransactionID string `json:"transaction_id"`
	ItemID        string `json:"item_id,omitempty"`
	Problem       string `json:"problem"`
}

// ConsistencyResponse is the result of a consistency check.
type ConsistencyResponse struct {
	Checked    int                     `json:"checked"`
	Consistent bool                    `json:"consistent"`
	Problems   []InconsistencyResponse `json:"problems"`
	CheckedAt  time.Time               `json:"checked_at"`
}

// ConsistencyFromUseCase converts a consistency report to response.
func ConsistencyFromUseCase(r *usecase.ConsistencyReport) *ConsistencyResponse {
	problems := make([]InconsistencyResponse, len(r.Problems))
	for i, p := range r.Problems {
		problems[i] = InconsistencyResponse{TransactionID: p.TransactionID, ItemID: p.ItemID, Problem: p.Problem}
	}
	return &ConsistencyResponse{
		Checked:    r.Checked,
		Consistent: r.Consistent,
		Problems:   problems,
		CheckedAt:  r.CheckedAt,
	}
}

// EventResponse is one recorded change to a transaction or participant.
type EventResponse struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	Payload     map[string]any `json:"payload,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	PublishedAt *time.Time     `json:"published_at,omitempty"`
}

// EventsFromDomain converts outbox events to responses.
func EventsFromDomain(events []*domain.OutboxEvent) []EventResponse {
	result := make([]EventResponse, len(events))
	for i, e := range events {
		result[i] = EventResponse{
			ID:          e.ID,
			Type:        e.EventType,
			Payload:     e.Payload,
			CreatedAt:   e.CreatedAt,
			PublishedAt: e.PublishedAt,
		}
	}
	return result
}

// ListTransactionsResponse represents a page of transactions.
type ListTransactionsResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
	Total        int64                  `json:"total"`
}

// ListReviewsResponse represents a page of pending duplicate reviews.
type ListReviewsResponse struct {
	Reviews []*ReviewResponse `json:"reviews"`
	Total   int64             `json:"total"`
}

// CountResponse reports how many records a bulk operation changed.
type CountResponse struct {
	Updated int `json:"updated"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
