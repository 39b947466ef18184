package domain

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Application is one slice of a bulk payment landing on one item.
type Application struct {
	TransactionID string
	ItemID        string
	Amount        decimal.Decimal
	Overflow      bool
}

// Allocation is the outcome of AllocatePayment.
type Allocation struct {
	Name         string
	Amount       decimal.Decimal
	Transactions []*Transaction
	Applications []Application
	Credit       decimal.Decimal
}

// Applied returns the total amount distributed across items.
func (a *Allocation) Applied() decimal.Decimal {
	total := decimal.Zero
	for _, app := range a.Applications {
		total = total.Add(app.Amount)
	}
	return total
}

// AllocatePayment spreads a lump payment from name over their items, oldest
// transaction first. Only money left after every outstanding debt is cleared
// lands on the most recent item as credit. Amounts must be whole cents. Inputs
// are not modified; the returned transactions are the copies that changed.
func AllocatePayment(name string, amount decimal.Decimal, txs []*Transaction, on civil.Date, newID IDFunc) (*Allocation, error) {
	if !amount.IsPositive() || !isCents(amount) {
		return nil, ErrInvalidAmount
	}

	var owned []*Transaction
	for _, tx := range txs {
		if tx != nil && tx.ItemFor(name) != nil {
			owned = append(owned, tx.Clone())
		}
	}
	if len(owned) == 0 {
		return nil, ErrParticipantNotFound
	}
	SortByDate(owned)

	alloc := &Allocation{Name: name, Amount: amount, Credit: decimal.Zero}
	changed := make(map[string]bool)
	remaining := amount

	for _, tx := range owned {
		if !remaining.IsPositive() {
			break
		}
		item := tx.ItemFor(name)
		outstanding := item.Outstanding()
		if !outstanding.IsPositive() {
			continue
		}
		portion := decimal.Min(remaining, outstanding)
		item.record(newID(), on, portion, PaymentKindPayment)
		item.refresh(on)
		remaining = remaining.Sub(portion)
		changed[tx.ID] = true
		alloc.Applications = append(alloc.Applications, Application{
			TransactionID: tx.ID,
			ItemID:        item.ID,
			Amount:        portion,
		})
	}

	// The loop clears every outstanding item before anything is left over.
	if remaining.IsPositive() {
		latest := owned[len(owned)-1]
		item := latest.ItemFor(name)
		item.record(newID(), on, remaining, PaymentKindPayment)
		item.refresh(on)
		changed[latest.ID] = true
		alloc.Credit = remaining
		alloc.Applications = append(alloc.Applications, Application{
			TransactionID: latest.ID,
			ItemID:        item.ID,
			Amount:        remaining,
			Overflow:      true,
		})
	}

	for _, tx := range owned {
		if changed[tx.ID] {
			alloc.Transactions = append(alloc.Transactions, tx)
		}
	}
	return alloc, nil
}
