package domain

import (
	"fmt"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

func mustDate(t *testing.T, s string) civil.Date {
	t.Helper()
	d, err := civil.ParseDate(s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sequence(prefix string) IDFunc {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// lentTx builds a transaction with a single split item for name.
func lentTx(t *testing.T, id, date, name, amount, paid string) *Transaction {
	t.Helper()
	item := SplitItem{
		ID:         SplitItemID(id, name),
		Name:       name,
		Amount:     dec(amount),
		PaidAmount: dec(paid),
		Payments:   []Payment{},
	}
	if !item.PaidAmount.IsZero() {
		item.Payments = append(item.Payments, Payment{ID: id + "-p0", Date: mustDate(t, date), Amount: dec(paid), Kind: PaymentKindPayment})
	}
	item.refresh(mustDate(t, date))
	tx := &Transaction{
		ID:                  id,
		Date:                mustDate(t, date),
		Amount:              dec(amount).Mul(decimal.NewFromInt(2)),
		OriginalDescription: "dinner " + id,
		Status:              StatusVerified,
		SplitDetails: &SplitDetails{
			Items:     []SplitItem{item},
			DateLent:  mustDate(t, date),
			SplitType: SplitExact,
		},
	}
	tx.SplitDetails.Recompute()
	return tx
}
