package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/infrastructure/metrics"
)

// SplitUseCase handles the lending ledger of individual transactions.
type SplitUseCase struct {
	txManager  TransactionManager
	txRepo     TransactionRepository
	outboxRepo OutboxRepository
	idGen      IDGenerator
	retrier    Retrier
	metrics    *metrics.Metrics
}

// NewSplitUseCase creates a new SplitUseCase.
func NewSplitUseCase(
	txManager TransactionManager,
	txRepo TransactionRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	retrier Retrier,
	metrics *metrics.Metrics,
) *SplitUseCase {
	return &SplitUseCase{
		txManager:  txManager,
		txRepo:     txRepo,
		outboxRepo: outboxRepo,
		idGen:      idGen,
		retrier:    retrier,
		metrics:    metrics,
	}
}

// SaveSplitInput represents input for creating or re-editing a split.
type SaveSplitInput struct {
	TransactionID string
	SplitType     domain.SplitType
	Participants  []domain.ParticipantShare
	DateLent      *civil.Date
}

// SplitResult is the outcome of SaveSplit.
type SplitResult struct {
	Transaction *domain.Transaction
	SweptFrom   []*domain.Transaction
	Swept       decimal.Decimal
	OwnerShare  decimal.Decimal
}

// SaveSplit computes the split, sweeps the participants' credit from other bills
// and writes every touched transaction in one batch.
func (uc *SplitUseCase) SaveSplit(ctx context.Context, input SaveSplitInput) (*SplitResult, error) {
	if !input.SplitType.IsValid() {
		return nil, domain.ErrInvalidSplitType
	}

	var result *SplitResult
	err := inTransaction(ctx, uc.txManager, uc.retrier, func(ctx context.Context, dbTx Transaction) error {
		now := time.Now().UTC()
		on := civil.DateOf(now)

		tx, err := uc.txRepo.GetByIDForUpdate(ctx, dbTx, input.TransactionID)
		if err != nil {
			return err
		}

		plan, err := domain.ComputeSplit(tx.Amount, input.SplitType, input.Participants)
		if err != nil {
			return err
		}

		var dateLent civil.Date
		if input.DateLent != nil {
			dateLent = *input.DateLent
		}
		split, err := domain.ApplySplit(tx, plan, dateLent, on)
		if err != nil {
			return err
		}

		ledger, err := uc.txRepo.ListByParticipantsForUpdate(ctx, dbTx, split.Participants())
		if err != nil {
			return err
		}

		target, sources := domain.SweepCredits(split, ledger, on, uc.idGen.Generate)
		target.UpdatedAt = now
		for _, src := range sources {
			src.UpdatedAt = now
		}

		before := append([]*domain.Transaction{tx}, originalsOf(ledger, sources)...)
		after := append([]*domain.Transaction{target}, sources...)
		if err := checkConservation(before, after, decimal.Zero); err != nil {
			return err
		}

		if err := uc.txRepo.SaveBatch(ctx, dbTx, after); err != nil {
			return err
		}

		event := newEvent(uc.idGen, domain.AggregateTypeTransaction, target.ID, domain.EventTypeSplitSaved, map[string]any{
			"transaction_id": target.ID,
			"split_type":     string(target.SplitDetails.SplitType),
			"total_lent":     target.SplitDetails.TotalLent.String(),
			"participants":   target.Participants(),
			"swept_from":     ids(sources),
		}, now)
		if err := uc.outboxRepo.Create(ctx, dbTx, event); err != nil {
			return err
		}

		result = &SplitResult{
			Transaction: target,
			SweptFrom:   sources,
			Swept:       domain.PaidDelta([]*domain.Transaction{split}, []*domain.Transaction{target}),
			OwnerShare:  plan.OwnerShare,
		}
		return nil
	})
	if err != nil {
		uc.recordError("save_split")
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.SplitsSaved.WithLabelValues(string(input.SplitType)).Inc()
		uc.metrics.BatchSize.Observe(float64(1 + len(result.SweptFrom)))
		if len(result.SweptFrom) > 0 {
			uc.metrics.CreditSwept.Add(float64(len(result.SweptFrom)))
			uc.metrics.CreditSweepAmount.Observe(result.Swept.InexactFloat64())
		}
	}

	return result, nil
}

// RemoveSplit drops the split of a transaction. Splits that already carry payments
// must be un-settled first.
func (uc *SplitUseCase) RemoveSplit(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	var out *domain.Transaction
	err := inTransaction(ctx, uc.txManager, uc.retrier, func(ctx context.Context, dbTx Transaction) error {
		tx, err := uc.txRepo.GetByIDForUpdate(ctx, dbTx, transactionID)
		if err != nil {
			return err
		}
		if tx.SplitDetails == nil {
			return domain.ErrSplitNotFound
		}
		for _, item := range tx.SplitDetails.Items {
			if !item.PaidAmount.IsZero() {
				return domain.ErrPaidItemRemoved
			}
		}

		now := time.Now().UTC()
		updated := tx.Clone()
		updated.SplitDetails = nil
		updated.UpdatedAt = now

		if err := uc.txRepo.SaveBatch(ctx, dbTx, []*domain.Transaction{updated}); err != nil {
			return err
		}

		event := newEvent(uc.idGen, domain.AggregateTypeTransaction, updated.ID, domain.EventTypeSplitRemoved, map[string]any{
			"transaction_id": updated.ID,
		}, now)
		if err := uc.outboxRepo.Create(ctx, dbTx, event); err != nil {
			return err
		}

		out = updated
		return nil
	})
	if err != nil {
		uc.recordError("remove_split")
		return nil, err
	}

	return out, nil
}

// SetItemSettledInput represents a manual settle toggle.
type SetItemSettledInput struct {
	TransactionID string
	ItemID        string
	Settled       bool
	Date          *civil.Date
}

// errItemUnchanged makes mutateItem return the stored transaction without
// writing anything.
var errItemUnchanged = errors.New("item unchanged")

// SetItemSettled toggles an item. Settling pays whatever is outstanding.
// Un-settling wipes the payment history of a settled item; asking to
// un-settle an item that is not settled leaves its partial payments alone.
func (uc *SplitUseCase) SetItemSettled(ctx context.Context, input SetItemSettledInput) (*domain.Transaction, error) {
	eventType := domain.EventTypeItemUnsettled
	if input.Settled {
		eventType = domain.EventTypeItemSettled
	}

	return uc.mutateItem(ctx, input.TransactionID, input.ItemID, eventType, "set_settled", func(item *domain.SplitItem, now time.Time) (decimal.Decimal, error) {
		on := dateOr(input.Date, now)
		before := item.PaidAmount
		if input.Settled {
			if item.IsSettled {
				return decimal.Zero, errItemUnchanged
			}
			item.Settle(on, uc.idGen.Generate)
		} else if !item.Unsettle() {
			return decimal.Zero, errItemUnchanged
		}
		return item.PaidAmount.Sub(before), nil
	})
}

// RecordPaymentInput represents a single payment against one item.
type RecordPaymentInput struct {
	TransactionID string
	ItemID        string
	Amount        decimal.Decimal
	Date          *civil.Date
}

// RecordPayment credits a partial or full payment to one item.
func (uc *SplitUseCase) RecordPayment(ctx context.Context, input RecordPaymentInput) (*domain.Transaction, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	return uc.mutateItem(ctx, input.TransactionID, input.ItemID, domain.EventTypePaymentRecorded, "record_payment", func(item *domain.SplitItem, now time.Time) (decimal.Decimal, error) {
		if err := item.ApplyPayment(input.Amount, dateOr(input.Date, now), uc.idGen.Generate); err != nil {
			return decimal.Zero, err
		}
		return input.Amount, nil
	})
}

// mutateItem loads one transaction, applies fn to one of its items and saves it.
// fn returns the paid delta it intended, which is checked against the result.
func (uc *SplitUseCase) mutateItem(
	ctx context.Context,
	transactionID, itemID, eventType, operation string,
	fn func(item *domain.SplitItem, now time.Time) (decimal.Decimal, error),
) (*domain.Transaction, error) {
	var out *domain.Transaction
	err := inTransaction(ctx, uc.txManager, uc.retrier, func(ctx context.Context, dbTx Transaction) error {
		tx, err := uc.txRepo.GetByIDForUpdate(ctx, dbTx, transactionID)
		if err != nil {
			return err
		}
		if tx.SplitDetails == nil {
			return domain.ErrSplitNotFound
		}

		now := time.Now().UTC()
		updated := tx.Clone()
		item := updated.Item(itemID)
		if item == nil {
			return domain.ErrSplitItemNotFound
		}

		want, err := fn(item, now)
		if errors.Is(err, errItemUnchanged) {
			out = tx
			return nil
		}
		if err != nil {
			return err
		}
		updated.SplitDetails.Recompute()
		updated.UpdatedAt = now

		if err := checkConservation([]*domain.Transaction{tx}, []*domain.Transaction{updated}, want); err != nil {
			return err
		}

		if err := uc.txRepo.SaveBatch(ctx, dbTx, []*domain.Transaction{updated}); err != nil {
			return err
		}

		event := newEvent(uc.idGen, domain.AggregateTypeTransaction, updated.ID, eventType, map[string]any{
			"transaction_id": updated.ID,
			"item_id":        item.ID,
			"name":           item.Name,
			"paid_amount":    item.PaidAmount.String(),
			"is_settled":     item.IsSettled,
		}, now)
		if err := uc.outboxRepo.Create(ctx, dbTx, event); err != nil {
			return err
		}

		out = updated
		return nil
	})
	if err != nil {
		uc.recordError(operation)
		return nil, err
	}

	return out, nil
}

// RenameParticipant renames a person across every transaction they appear on.
// Returns the number of transactions changed.
func (uc *SplitUseCase) RenameParticipant(ctx context.Context, from, to string) (int, error) {
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	if err := domain.ValidateName(to); err != nil {
		return 0, domain.ErrInvalidParticipant
	}
	if from == "" || from == to {
		return 0, domain.ErrInvalidParticipant
	}

	changed := 0
	err := inTransaction(ctx, uc.txManager, uc.retrier, func(ctx context.Context, dbTx Transaction) error {
		changed = 0
		txs, err := uc.txRepo.ListByParticipantsForUpdate(ctx, dbTx, []string{from})
		if err != nil {
			return err
		}
		if len(txs) == 0 {
			return domain.ErrParticipantNotFound
		}

		now := time.Now().UTC()
		var updated []*domain.Transaction
		for _, tx := range txs {
			c := tx.Clone()
			ok, err := domain.RenameParticipant(c, from, to)
			if err != nil {
				return err
			}
			if ok {
				c.UpdatedAt = now
				updated = append(updated, c)
			}
		}

		if err := checkConservation(originalsOf(txs, updated), updated, decimal.Zero); err != nil {
			return err
		}
		if err := uc.txRepo.SaveBatch(ctx, dbTx, updated); err != nil {
			return err
		}

		event := newEvent(uc.idGen, domain.AggregateTypeParticipant, to, domain.EventTypeParticipantRenamed, map[string]any{
			"from":         from,
			"to":           to,
			"transactions": ids(updated),
		}, now)
		if err := uc.outboxRepo.Create(ctx, dbTx, event); err != nil {
			return err
		}

		changed = len(updated)
		return nil
	})
	if err != nil {
		uc.recordError("rename_participant")
		return 0, err
	}

	return changed, nil
}

func (uc *SplitUseCase) recordError(operation string) {
	if uc.metrics != nil {
		uc.metrics.LedgerErrors.WithLabelValues(operation).Inc()
	}
}
