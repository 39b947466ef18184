package postgres

import (
	"encoding/json"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/iho/splitledger/internal/domain"
)

// JSONB shapes. Field names follow the document layout clients already see.

type paymentRecord struct {
	ID     string          `json:"id"`
	Date   civil.Date      `json:"date"`
	Amount decimal.Decimal `json:"amount"`
	Kind   string          `json:"kind"`
}

type splitItemRecord struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"`
	PaidAmount  decimal.Decimal `json:"paidAmount"`
	IsSettled   bool            `json:"isSettled"`
	DateSettled *civil.Date     `json:"dateSettled,omitempty"`
	Payments    []paymentRecord `json:"payments"`
}

type splitDetailsRecord struct {
	TotalLent decimal.Decimal   `json:"totalLent"`
	Items     []splitItemRecord `json:"items"`
	DateLent  civil.Date        `json:"dateLent"`
	SplitType string            `json:"splitType"`
}

type transactionRecord struct {
	ID                  string              `json:"id"`
	Date                civil.Date          `json:"date"`
	Amount              decimal.Decimal     `json:"amount"`
	OriginalDescription string              `json:"originalDescription"`
	EnhancedDescription string              `json:"enhancedDescription"`
	Category            string              `json:"category"`
	Tags                []string            `json:"tags"`
	Source              string              `json:"source"`
	AccountID           *string             `json:"accountId,omitempty"`
	IsExpense           bool                `json:"isExpense"`
	Status              string              `json:"status"`
	Confidence          int                 `json:"confidence"`
	IsReviewed          bool                `json:"isReviewed"`
	SplitDetails        *splitDetailsRecord `json:"splitDetails,omitempty"`
	Version             int64               `json:"version"`
	CreatedAt           time.Time           `json:"createdAt"`
	UpdatedAt           time.Time           `json:"updatedAt"`
}

type criteriaRecord struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

type actionsRecord struct {
	RenameTo    string   `json:"renameTo,omitempty"`
	SetCategory string   `json:"setCategory,omitempty"`
	AddTags     []string `json:"addTags,omitempty"`
}

func encodeSplitDetails(d *domain.SplitDetails) ([]byte, error) {
	if d == nil {
		return nil, nil
	}
	return json.Marshal(toSplitRecord(d))
}

func decodeSplitDetails(data []byte) (*domain.SplitDetails, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var rec splitDetailsRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return fromSplitRecord(&rec), nil
}

func toSplitRecord(d *domain.SplitDetails) *splitDetailsRecord {
	if d == nil {
		return nil
	}
	rec := &splitDetailsRecord{
		TotalLent: d.TotalLent,
		Items:     make([]splitItemRecord, 0, len(d.Items)),
		DateLent:  d.DateLent,
		SplitType: string(d.SplitType),
	}
	for _, item := range d.Items {
		ir := splitItemRecord{
			ID:          item.ID,
			Name:        item.Name,
			Amount:      item.Amount,
			PaidAmount:  item.PaidAmount,
			IsSettled:   item.IsSettled,
			DateSettled: item.DateSettled,
			Payments:    make([]paymentRecord, 0, len(item.Payments)),
		}
		for _, p := range item.Payments {
			ir.Payments = append(ir.Payments, paymentRecord{ID: p.ID, Date: p.Date, Amount: p.Amount, Kind: string(p.Kind)})
		}
		rec.Items = append(rec.Items, ir)
	}
	return rec
}

func fromSplitRecord(rec *splitDetailsRecord) *domain.SplitDetails {
	if rec == nil {
		return nil
	}
	d := &domain.SplitDetails{
		TotalLent: rec.TotalLent,
		Items:     make([]domain.SplitItem, 0, len(rec.Items)),
		DateLent:  rec.DateLent,
		SplitType: domain.SplitType(rec.SplitType),
	}
	for _, ir := range rec.Items {
		item := domain.SplitItem{
			ID:          ir.ID,
			Name:        ir.Name,
			Amount:      ir.Amount,
			PaidAmount:  ir.PaidAmount,
			IsSettled:   ir.IsSettled,
			DateSettled: ir.DateSettled,
			Payments:    make([]domain.Payment, 0, len(ir.Payments)),
		}
		for _, p := range ir.Payments {
			item.Payments = append(item.Payments, domain.Payment{ID: p.ID, Date: p.Date, Amount: p.Amount, Kind: domain.PaymentKind(p.Kind)})
		}
		d.Items = append(d.Items, item)
	}
	return d
}

func encodeTransaction(tx *domain.Transaction) ([]byte, error) {
	return json.Marshal(transactionRecord{
		ID:                  tx.ID,
		Date:                tx.Date,
		Amount:              tx.Amount,
		OriginalDescription: tx.OriginalDescription,
		EnhancedDescription: tx.EnhancedDescription,
		Category:            tx.Category,
		Tags:                tx.Tags,
		Source:              tx.Source,
		AccountID:           tx.AccountID,
		IsExpense:           tx.IsExpense,
		Status:              string(tx.Status),
		Confidence:          tx.Confidence,
		IsReviewed:          tx.IsReviewed,
		SplitDetails:        toSplitRecord(tx.SplitDetails),
		Version:             tx.Version,
		CreatedAt:           tx.CreatedAt,
		UpdatedAt:           tx.UpdatedAt,
	})
}

func decodeTransaction(data []byte) (*domain.Transaction, error) {
	var rec transactionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	tags := rec.Tags
	if tags == nil {
		tags = []string{}
	}
	return &domain.Transaction{
		ID:                  rec.ID,
		Date:                rec.Date,
		Amount:              rec.Amount,
		OriginalDescription: rec.OriginalDescription,
		EnhancedDescription: rec.EnhancedDescription,
		Category:            rec.Category,
		Tags:                tags,
		Source:              rec.Source,
		AccountID:           rec.AccountID,
		IsExpense:           rec.IsExpense,
		Status:              domain.Status(rec.Status),
		Confidence:          rec.Confidence,
		IsReviewed:          rec.IsReviewed,
		SplitDetails:        fromSplitRecord(rec.SplitDetails),
		Version:             rec.Version,
		CreatedAt:           rec.CreatedAt,
		UpdatedAt:           rec.UpdatedAt,
	}, nil
}
