package domain

import (
	"errors"
	"testing"

	"cloud.google.com/go/civil"
)

func TestTransaction_Validate(t *testing.T) {
	valid := func() *Transaction {
		return &Transaction{
			ID:                  "tx",
			Date:                mustDate(t, "2024-01-01"),
			Amount:              dec("1"),
			OriginalDescription: "x",
			Status:              StatusVerified,
			Confidence:          50,
		}
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	tests := []struct {
		name string
		mut  func(tx *Transaction)
		want error
	}{
		{"negative amount", func(tx *Transaction) { tx.Amount = dec("-1") }, ErrInvalidAmount},
		{"missing description", func(tx *Transaction) { tx.OriginalDescription = "" }, ErrMissingField},
		{"bad status", func(tx *Transaction) { tx.Status = "pending" }, ErrInvalidStatus},
		{"confidence too high", func(tx *Transaction) { tx.Confidence = 101 }, ErrInvalidConfidence},
		{"zero date", func(tx *Transaction) { tx.Date = civil.Date{} }, ErrInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid()
			tt.mut(tx)
			if err := tx.Validate(); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestTransaction_Tags(t *testing.T) {
	tx := &Transaction{}
	tx.AddTags("food", "", "travel", "food")
	if len(tx.Tags) != 2 || tx.Tags[0] != "food" || tx.Tags[1] != "travel" {
		t.Fatalf("unexpected tags %v", tx.Tags)
	}

	if !tx.RenameTag("food", "travel") {
		t.Fatal("expected rename to report a change")
	}
	if len(tx.Tags) != 1 || tx.Tags[0] != "travel" {
		t.Fatalf("rename onto an existing tag should merge, got %v", tx.Tags)
	}

	if tx.RemoveTag("missing") {
		t.Fatal("expected removing a missing tag to be a no-op")
	}
	if !tx.RemoveTag("travel") || len(tx.Tags) != 0 {
		t.Fatalf("expected empty tags, got %v", tx.Tags)
	}
}

func TestTransaction_CloneIsDeep(t *testing.T) {
	tx := lentTx(t, "T1", "2024-01-01", "Alex", "10", "4")
	tx.Tags = []string{"a"}

	c := tx.Clone()
	c.Tags[0] = "b"
	c.ItemFor("Alex").PaidAmount = dec("9")
	c.ItemFor("Alex").Payments[0].Amount = dec("9")

	if tx.Tags[0] != "a" {
		t.Fatal("tags shared between clone and original")
	}
	if !tx.ItemFor("Alex").PaidAmount.Equal(dec("4")) || !tx.ItemFor("Alex").Payments[0].Amount.Equal(dec("4")) {
		t.Fatal("split items shared between clone and original")
	}
}

func TestDefaultStatus(t *testing.T) {
	if DefaultStatus(80) != StatusVerified {
		t.Fatal("80 should be verified")
	}
	if DefaultStatus(79) != StatusNeedsReview {
		t.Fatal("79 should need review")
	}
}
