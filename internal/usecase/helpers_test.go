package usecase_test

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/usecase/mocks"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(t *testing.T, s string) civil.Date {
	t.Helper()
	d, err := civil.ParseDate(s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

// lent builds a stored transaction with one split item for name.
func lent(t *testing.T, id, on, name, amount, paid string) *domain.Transaction {
	t.Helper()
	d := date(t, on)
	item := domain.SplitItem{
		ID:         domain.SplitItemID(id, name),
		Name:       name,
		Amount:     dec(amount),
		PaidAmount: dec(paid),
		Payments:   []domain.Payment{},
	}
	if !item.PaidAmount.IsZero() {
		item.Payments = append(item.Payments, domain.Payment{ID: id + "-p0", Date: d, Amount: dec(paid), Kind: domain.PaymentKindPayment})
	}
	if item.PaidAmount.GreaterThanOrEqual(item.Amount.Sub(domain.Epsilon)) {
		item.IsSettled = true
		item.DateSettled = &d
	}

	tx := &domain.Transaction{
		ID:                  id,
		Date:                d,
		Amount:              dec(amount).Mul(decimal.NewFromInt(2)),
		OriginalDescription: "dinner " + id,
		EnhancedDescription: "dinner " + id,
		Tags:                []string{},
		Status:              domain.StatusVerified,
		Confidence:          100,
		IsReviewed:          true,
		SplitDetails: &domain.SplitDetails{
			Items:     []domain.SplitItem{item},
			DateLent:  d,
			SplitType: domain.SplitExact,
		},
		Version: 1,
	}
	tx.SplitDetails.Recompute()
	return tx
}

// plain builds a stored transaction without a split.
func plain(t *testing.T, id, on, amount, description string) *domain.Transaction {
	t.Helper()
	return &domain.Transaction{
		ID:                  id,
		Date:                date(t, on),
		Amount:              dec(amount),
		OriginalDescription: description,
		EnhancedDescription: description,
		Category:            "Dining",
		Tags:                []string{},
		Status:              domain.StatusVerified,
		Confidence:          100,
		IsReviewed:          true,
		Version:             1,
	}
}

// totalPaid sums PaidAmount over every stored item of ids.
func totalPaid(repo *mocks.MockTransactionRepository, ids ...string) decimal.Decimal {
	total := decimal.Zero
	for _, id := range ids {
		tx := repo.Stored(id)
		if tx == nil || tx.SplitDetails == nil {
			continue
		}
		for _, item := range tx.SplitDetails.Items {
			total = total.Add(item.PaidAmount)
		}
	}
	return total
}
