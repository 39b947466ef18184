package domain

import (
	"testing"
)

func TestFindDuplicate_DayBoundary(t *testing.T) {
	existing := &Transaction{ID: "e1", Date: mustDate(t, "2023-10-20"), Amount: dec("12.50")}
	ledger := []*Transaction{existing}

	tests := []struct {
		name   string
		date   string
		amount string
		match  bool
	}{
		{"same day", "2023-10-20", "12.50", true},
		{"one day after", "2023-10-21", "12.50", true},
		{"one day before", "2023-10-19", "12.50", true},
		{"two days after", "2023-10-22", "12.50", false},
		{"amount within a cent", "2023-10-20", "12.505", true},
		{"amount one cent off", "2023-10-20", "12.51", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			incoming := &Transaction{ID: "in", Date: mustDate(t, tt.date), Amount: dec(tt.amount)}
			got := FindDuplicate(incoming, ledger)
			if tt.match && got != existing {
				t.Fatalf("expected match with %s, got %v", existing.ID, got)
			}
			if !tt.match && got != nil {
				t.Fatalf("expected no match, got %s", got.ID)
			}
		})
	}
}

func TestFindDuplicate_FirstMatchWins(t *testing.T) {
	first := &Transaction{ID: "first", Date: mustDate(t, "2023-10-19"), Amount: dec("5")}
	closer := &Transaction{ID: "closer", Date: mustDate(t, "2023-10-20"), Amount: dec("5")}

	got := FindDuplicate(&Transaction{Date: mustDate(t, "2023-10-20"), Amount: dec("5")}, []*Transaction{first, closer})
	if got != first {
		t.Fatalf("expected first ledger match, got %v", got)
	}
}

func TestResolution_IsValid(t *testing.T) {
	for _, r := range []Resolution{ResolutionKeepBoth, ResolutionDiscardIncoming, ResolutionReplaceExisting} {
		if !r.IsValid() {
			t.Fatalf("expected %s to be valid", r)
		}
	}
	if Resolution("merge").IsValid() {
		t.Fatal("expected merge to be invalid")
	}
}
