package domain

import "github.com/shopspring/decimal"

// Epsilon is the tolerance used for every money comparison in the ledger.
var Epsilon = decimal.New(1, -2)

// roundMoney rounds to cents.
func roundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// isCents reports whether d has no digits below the cent.
func isCents(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}

// nearlyEqual reports whether |a-b| < Epsilon.
func nearlyEqual(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(Epsilon)
}

// sumPaid returns the total PaidAmount across all split items of the given transactions.
func sumPaid(txs []*Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		if tx == nil || tx.SplitDetails == nil {
			continue
		}
		for _, item := range tx.SplitDetails.Items {
			total = total.Add(item.PaidAmount)
		}
	}
	return total
}

// PaidDelta returns sum(after.paid) - sum(before.paid) for a batch of transactions.
// Used as the conservation post-condition on sweeps and settlements.
func PaidDelta(before, after []*Transaction) decimal.Decimal {
	return sumPaid(after).Sub(sumPaid(before))
}
