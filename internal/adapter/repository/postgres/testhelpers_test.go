package postgres

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/usecase"
)

var transactionColumns = []string{
	"id", "date", "amount", "original_description", "enhanced_description", "category",
	"tags", "source", "account_id", "is_expense", "status", "confidence", "is_reviewed",
	"split_details", "version", "created_at", "updated_at",
}

var testTime = time.Date(2023, 10, 21, 9, 30, 0, 0, time.UTC)

func beginMockTx(t *testing.T, pool pgxmock.PgxPoolIface) usecase.Transaction {
	t.Helper()
	pool.ExpectBeginTx(ledgerTxOptions)
	tx, err := newTxManagerWithPool(pool).Begin(context.Background())
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	return tx
}

func mustDate(t *testing.T, s string) civil.Date {
	t.Helper()
	d, err := civil.ParseDate(s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

// addTransactionRow appends tx as a scanned row, encoding fields the way Postgres returns them.
func addTransactionRow(t *testing.T, rows *pgxmock.Rows, tx *domain.Transaction) *pgxmock.Rows {
	t.Helper()
	split, err := encodeSplitDetails(tx.SplitDetails)
	if err != nil {
		t.Fatalf("encode split: %v", err)
	}
	return rows.AddRow(
		tx.ID,
		dateToPgDate(tx.Date),
		decimalToNumeric(tx.Amount),
		tx.OriginalDescription,
		tx.EnhancedDescription,
		tx.Category,
		nonNilTags(tx.Tags),
		tx.Source,
		textPtr(tx.AccountID),
		tx.IsExpense,
		string(tx.Status),
		int32(tx.Confidence),
		tx.IsReviewed,
		split,
		tx.Version,
		timeToPgTimestamptz(tx.CreatedAt),
		timeToPgTimestamptz(tx.UpdatedAt),
	)
}

func splitTransaction(t *testing.T) *domain.Transaction {
	t.Helper()
	settled := mustDate(t, "2023-10-25")
	accountID := "acc-1"
	return &domain.Transaction{
		ID:                  "tx-1",
		Date:                mustDate(t, "2023-10-20"),
		Amount:              decimal.RequireFromString("60.00"),
		OriginalDescription: "TRATTORIA 0042",
		EnhancedDescription: "Trattoria",
		Category:            "Dining",
		Tags:                []string{"trip"},
		Source:              "statement.pdf",
		AccountID:           &accountID,
		IsExpense:           true,
		Status:              domain.StatusVerified,
		Confidence:          95,
		IsReviewed:          true,
		SplitDetails: &domain.SplitDetails{
			TotalLent: decimal.RequireFromString("30.00"),
			DateLent:  mustDate(t, "2023-10-20"),
			SplitType: domain.SplitEqual,
			Items: []domain.SplitItem{{
				ID:          "item-alex",
				Name:        "Alex",
				Amount:      decimal.RequireFromString("30.00"),
				PaidAmount:  decimal.RequireFromString("30.00"),
				IsSettled:   true,
				DateSettled: &settled,
				Payments: []domain.Payment{{
					ID:     "pay-1",
					Date:   settled,
					Amount: decimal.RequireFromString("30.00"),
					Kind:   domain.PaymentKindPayment,
				}},
			}},
		},
		Version:   3,
		CreatedAt: testTime,
		UpdatedAt: testTime,
	}
}
