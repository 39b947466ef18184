package domain

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// ParticipantBalance aggregates everything a person owes across the ledger.
type ParticipantBalance struct {
	Name        string
	TotalLent   decimal.Decimal
	TotalPaid   decimal.Decimal
	Outstanding decimal.Decimal
	Credit      decimal.Decimal
	OpenItems   int
}

// Net is what the person still owes after their credit is counted.
func (b ParticipantBalance) Net() decimal.Decimal {
	return b.Outstanding.Sub(b.Credit)
}

// SummarizeParticipants returns one balance per participant name, sorted by name.
func SummarizeParticipants(txs []*Transaction) []ParticipantBalance {
	byName := make(map[string]*ParticipantBalance)
	for _, tx := range txs {
		if tx == nil || tx.SplitDetails == nil {
			continue
		}
		for i := range tx.SplitDetails.Items {
			item := &tx.SplitDetails.Items[i]
			b, ok := byName[item.Name]
			if !ok {
				b = &ParticipantBalance{
					Name:        item.Name,
					TotalLent:   decimal.Zero,
					TotalPaid:   decimal.Zero,
					Outstanding: decimal.Zero,
					Credit:      decimal.Zero,
				}
				byName[item.Name] = b
			}
			b.TotalLent = b.TotalLent.Add(item.Amount)
			b.TotalPaid = b.TotalPaid.Add(item.PaidAmount)
			b.Outstanding = b.Outstanding.Add(item.Outstanding())
			b.Credit = b.Credit.Add(item.Credit())
			if !item.IsSettled {
				b.OpenItems++
			}
		}
	}

	out := make([]ParticipantBalance, 0, len(byName))
	for _, b := range byName {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Inconsistency describes one broken split invariant.
type Inconsistency struct {
	TransactionID string
	ItemID        string
	Problem       string
}

// CheckSplitConsistency verifies the derived fields of every split in txs.
func CheckSplitConsistency(txs []*Transaction) []Inconsistency {
	var problems []Inconsistency
	for _, tx := range txs {
		if tx == nil || tx.SplitDetails == nil {
			continue
		}
		d := tx.SplitDetails
		total := decimal.Zero
		for i := range d.Items {
			item := &d.Items[i]
			total = total.Add(item.Amount)

			paid := decimal.Zero
			for _, p := range item.Payments {
				paid = paid.Add(p.Amount)
			}
			if !paid.Equal(item.PaidAmount) {
				problems = append(problems, Inconsistency{
					TransactionID: tx.ID,
					ItemID:        item.ID,
					Problem:       fmt.Sprintf("payments sum to %s but paid amount is %s", paid, item.PaidAmount),
				})
			}
			if item.IsSettled != item.settledNow() {
				problems = append(problems, Inconsistency{
					TransactionID: tx.ID,
					ItemID:        item.ID,
					Problem:       fmt.Sprintf("settled flag is %t for paid %s of %s", item.IsSettled, item.PaidAmount, item.Amount),
				})
			}
			if item.IsSettled && item.DateSettled == nil {
				problems = append(problems, Inconsistency{
					TransactionID: tx.ID,
					ItemID:        item.ID,
					Problem:       "settled item has no settlement date",
				})
			}
		}
		if !total.Equal(d.TotalLent) {
			problems = append(problems, Inconsistency{
				TransactionID: tx.ID,
				Problem:       fmt.Sprintf("total lent is %s but items sum to %s", d.TotalLent, total),
			})
		}
	}
	return problems
}
