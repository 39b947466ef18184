package domain

import (
	"sort"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SplitType records how a split was computed.
type SplitType string

const (
	SplitEqual  SplitType = "equal"
	SplitExact  SplitType = "exact"
	SplitShares SplitType = "shares"
)

// IsValid checks if the split type is known.
func (s SplitType) IsValid() bool {
	switch s {
	case SplitEqual, SplitExact, SplitShares:
		return true
	}
	return false
}

// PaymentKind distinguishes real receipts from credit moved between bills.
type PaymentKind string

const (
	PaymentKindPayment   PaymentKind = "payment"
	PaymentKindCreditIn  PaymentKind = "credit_in"
	PaymentKindCreditOut PaymentKind = "credit_out"
)

// IDFunc generates unique identifiers for payments.
type IDFunc func() string

// Payment is an immutable receipt on a split item.
type Payment struct {
	ID     string
	Date   civil.Date
	Amount decimal.Decimal
	Kind   PaymentKind
}

// SplitItem is one participant's share of one transaction.
type SplitItem struct {
	ID          string
	Name        string
	Amount      decimal.Decimal
	PaidAmount  decimal.Decimal
	IsSettled   bool
	DateSettled *civil.Date
	Payments    []Payment
}

// SplitDetails is owned by its parent transaction.
type SplitDetails struct {
	TotalLent decimal.Decimal
	Items     []SplitItem
	DateLent  civil.Date
	SplitType SplitType
}

// Clone returns a deep copy.
func (d *SplitDetails) Clone() *SplitDetails {
	if d == nil {
		return nil
	}
	c := *d
	c.Items = make([]SplitItem, len(d.Items))
	for i, item := range d.Items {
		c.Items[i] = item.clone()
	}
	return &c
}

// Recompute refreshes TotalLent from the items.
func (d *SplitDetails) Recompute() {
	total := decimal.Zero
	for _, item := range d.Items {
		total = total.Add(item.Amount)
	}
	d.TotalLent = total
}

func (i SplitItem) clone() SplitItem {
	c := i
	c.Payments = append([]Payment{}, i.Payments...)
	if i.DateSettled != nil {
		d := *i.DateSettled
		c.DateSettled = &d
	}
	return c
}

// Outstanding is what is still owed on the item, never negative.
func (i *SplitItem) Outstanding() decimal.Decimal {
	left := i.Amount.Sub(i.PaidAmount)
	if left.IsNegative() {
		return decimal.Zero
	}
	return left
}

// Credit is the overpayment carried by the item, never negative.
func (i *SplitItem) Credit() decimal.Decimal {
	over := i.PaidAmount.Sub(i.Amount)
	if over.IsNegative() {
		return decimal.Zero
	}
	return over
}

// settledNow derives the settled flag from the amounts.
func (i *SplitItem) settledNow() bool {
	return i.PaidAmount.GreaterThanOrEqual(i.Amount.Sub(Epsilon))
}

// refresh re-derives IsSettled. DateSettled is stamped only on the
// unsettled to settled transition and cleared while unsettled.
func (i *SplitItem) refresh(on civil.Date) {
	settled := i.settledNow()
	switch {
	case settled && !i.IsSettled:
		d := on
		i.DateSettled = &d
	case !settled:
		i.DateSettled = nil
	}
	i.IsSettled = settled
}

func (i *SplitItem) record(id string, on civil.Date, amount decimal.Decimal, kind PaymentKind) {
	i.PaidAmount = i.PaidAmount.Add(amount)
	i.Payments = append(i.Payments, Payment{ID: id, Date: on, Amount: amount, Kind: kind})
}

// ApplyPayment credits amount to the item. Paying more than is owed leaves a credit.
func (i *SplitItem) ApplyPayment(amount decimal.Decimal, on civil.Date, newID IDFunc) error {
	if !amount.IsPositive() || !isCents(amount) {
		return ErrInvalidAmount
	}
	i.record(newID(), on, amount, PaymentKindPayment)
	i.refresh(on)
	return nil
}

// Settle marks the item as fully paid, recording a payment for whatever is outstanding.
func (i *SplitItem) Settle(on civil.Date, newID IDFunc) {
	if i.IsSettled {
		return
	}
	if left := i.Outstanding(); left.IsPositive() {
		i.record(newID(), on, left, PaymentKindPayment)
	}
	i.refresh(on)
	// An item within epsilon of its amount is already settled by derivation.
	if !i.IsSettled {
		i.IsSettled = true
		d := on
		i.DateSettled = &d
	}
}

// Unsettle wipes the payment history of a settled item and returns it to
// unpaid. Partial payments on an unsettled item are kept. Reports whether
// anything changed.
func (i *SplitItem) Unsettle() bool {
	if !i.IsSettled {
		return false
	}
	i.PaidAmount = decimal.Zero
	i.Payments = []Payment{}
	i.DateSettled = nil
	i.IsSettled = false
	return true
}

// ParticipantShare is one row of split input.
type ParticipantShare struct {
	Name     string
	IsOwner  bool
	Selected bool            // equal mode
	Shares   int             // shares mode
	Amount   decimal.Decimal // exact mode
}

// ItemShare is a computed owed amount for one non-owner participant.
type ItemShare struct {
	Name   string
	Amount decimal.Decimal
}

// SplitPlan is the result of ComputeSplit.
type SplitPlan struct {
	Type       SplitType
	Items      []ItemShare
	OwnerShare decimal.Decimal
}

// ComputeSplit divides amount among participants. The owner never gets an item.
func ComputeSplit(amount decimal.Decimal, splitType SplitType, participants []ParticipantShare) (SplitPlan, error) {
	if amount.IsNegative() {
		return SplitPlan{}, ErrInvalidAmount
	}
	if err := validateParticipants(participants); err != nil {
		return SplitPlan{}, err
	}

	var (
		plan SplitPlan
		err  error
	)
	switch splitType {
	case SplitEqual:
		plan, err = computeEqual(amount, participants)
	case SplitShares:
		plan, err = computeShares(amount, participants)
	case SplitExact:
		plan, err = computeExact(amount, participants)
	default:
		return SplitPlan{}, ErrInvalidSplitType
	}
	if err != nil {
		return SplitPlan{}, err
	}

	plan.Type = splitType
	if len(plan.Items) == 0 {
		return SplitPlan{}, ErrNoParticipants
	}
	return plan, nil
}

func validateParticipants(participants []ParticipantShare) error {
	seen := make(map[string]bool, len(participants))
	for _, p := range participants {
		if p.IsOwner {
			continue
		}
		name := strings.TrimSpace(p.Name)
		if name == "" || name != p.Name || seen[name] {
			return ErrInvalidParticipant
		}
		seen[name] = true
	}
	return nil
}

func computeEqual(amount decimal.Decimal, participants []ParticipantShare) (SplitPlan, error) {
	heads := 0
	for _, p := range participants {
		if p.Selected {
			heads++
		}
	}
	if heads == 0 {
		return SplitPlan{}, ErrNoParticipants
	}

	each := roundMoney(amount.Div(decimal.NewFromInt(int64(heads))))
	plan := SplitPlan{}
	for _, p := range participants {
		if !p.Selected {
			continue
		}
		if p.IsOwner {
			plan.OwnerShare = each
			continue
		}
		if each.IsPositive() {
			plan.Items = append(plan.Items, ItemShare{Name: p.Name, Amount: each})
		}
	}
	return plan, nil
}

func computeShares(amount decimal.Decimal, participants []ParticipantShare) (SplitPlan, error) {
	total := int64(0)
	for _, p := range participants {
		if p.Shares < 0 {
			return SplitPlan{}, ErrInvalidShares
		}
		total += int64(p.Shares)
	}
	if total == 0 {
		return SplitPlan{}, ErrInvalidShares
	}

	totalShares := decimal.NewFromInt(total)
	plan := SplitPlan{}
	for _, p := range participants {
		owed := roundMoney(amount.Mul(decimal.NewFromInt(int64(p.Shares))).Div(totalShares))
		if p.IsOwner {
			plan.OwnerShare = owed
			continue
		}
		if owed.IsZero() {
			continue
		}
		plan.Items = append(plan.Items, ItemShare{Name: p.Name, Amount: owed})
	}
	return plan, nil
}

func computeExact(amount decimal.Decimal, participants []ParticipantShare) (SplitPlan, error) {
	sum := decimal.Zero
	plan := SplitPlan{}
	for _, p := range participants {
		if p.IsOwner {
			continue
		}
		if p.Amount.IsNegative() {
			return SplitPlan{}, ErrInvalidAmount
		}
		owed := roundMoney(p.Amount)
		sum = sum.Add(owed)
		if owed.IsZero() {
			continue
		}
		plan.Items = append(plan.Items, ItemShare{Name: p.Name, Amount: owed})
	}
	if sum.GreaterThan(amount) {
		return SplitPlan{}, ErrOverAllocation
	}
	plan.OwnerShare = amount.Sub(sum)
	return plan, nil
}

var splitItemNamespace = uuid.MustParse("6f1c2a4e-9a3b-5d7e-8c21-4b0a9e3f7d15")

// SplitItemID is the stable id of name's item on a transaction.
func SplitItemID(transactionID, name string) string {
	return uuid.NewSHA1(splitItemNamespace, []byte(transactionID+"\x00"+name)).String()
}

// ApplySplit returns a copy of tx carrying plan as its split. Items of participants
// that stay in the split keep their id, paid amount and payment history.
// Dropping a participant who has already paid is refused.
func ApplySplit(tx *Transaction, plan SplitPlan, dateLent, on civil.Date) (*Transaction, error) {
	if !plan.Type.IsValid() {
		return nil, ErrInvalidSplitType
	}
	if len(plan.Items) == 0 {
		return nil, ErrNoParticipants
	}

	out := tx.Clone()
	previous := make(map[string]SplitItem)
	if out.SplitDetails != nil {
		for _, item := range out.SplitDetails.Items {
			previous[item.Name] = item
		}
		if dateLent.IsZero() {
			dateLent = out.SplitDetails.DateLent
		}
	}
	if dateLent.IsZero() {
		dateLent = on
	}

	items := make([]SplitItem, 0, len(plan.Items))
	for _, share := range plan.Items {
		item, ok := previous[share.Name]
		if !ok {
			item = SplitItem{
				ID:         SplitItemID(tx.ID, share.Name),
				Name:       share.Name,
				PaidAmount: decimal.Zero,
				Payments:   []Payment{},
			}
		}
		delete(previous, share.Name)
		item.Amount = share.Amount
		item.refresh(on)
		items = append(items, item)
	}

	for _, dropped := range previous {
		if !dropped.PaidAmount.IsZero() {
			return nil, ErrPaidItemRemoved
		}
	}

	out.SplitDetails = &SplitDetails{
		Items:     items,
		DateLent:  dateLent,
		SplitType: plan.Type,
	}
	out.SplitDetails.Recompute()
	return out, nil
}

// SweepCredits moves every surplus other transactions hold for the target's participants
// onto the target's items. Sources are capped back to their own amount and settled.
// Returns the updated target and the mutated sources, in ledger order. Inputs are not modified.
func SweepCredits(target *Transaction, ledger []*Transaction, on civil.Date, newID IDFunc) (*Transaction, []*Transaction) {
	out := target.Clone()
	if out.SplitDetails == nil {
		return out, nil
	}

	touched := make(map[string]*Transaction)
	for i := range out.SplitDetails.Items {
		item := &out.SplitDetails.Items[i]
		for _, other := range ledger {
			if other == nil || other.ID == out.ID {
				continue
			}
			src := touched[other.ID]
			if src == nil {
				src = other
			}
			srcItem := src.ItemFor(item.Name)
			if srcItem == nil {
				continue
			}
			surplus := srcItem.PaidAmount.Sub(srcItem.Amount)
			if !surplus.IsPositive() {
				continue
			}

			if touched[other.ID] == nil {
				src = other.Clone()
				touched[other.ID] = src
				srcItem = src.ItemFor(item.Name)
			}
			srcItem.record(newID(), on, surplus.Neg(), PaymentKindCreditOut)
			srcItem.refresh(on)
			item.record(newID(), on, surplus, PaymentKindCreditIn)
		}
		item.refresh(on)
	}

	var sources []*Transaction
	for _, other := range ledger {
		if other == nil {
			continue
		}
		if src, ok := touched[other.ID]; ok {
			src.SplitDetails.Recompute()
			sources = append(sources, src)
		}
	}
	return out, sources
}

// RenameParticipant renames name's item on tx. Reports whether anything changed.
// If to already has an item on tx, the rename is refused with ErrInvalidParticipant.
func RenameParticipant(tx *Transaction, from, to string) (bool, error) {
	item := tx.ItemFor(from)
	if item == nil {
		return false, nil
	}
	if tx.ItemFor(to) != nil {
		return false, ErrInvalidParticipant
	}
	item.Name = to
	return true, nil
}

// SortByDate orders transactions oldest first, keeping the input order for equal dates.
func SortByDate(txs []*Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date.Before(txs[j].Date)
	})
}
