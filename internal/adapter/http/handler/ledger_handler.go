package handler

import (
	"context"
	"net/http"

	"github.com/iho/splitledger/internal/adapter/http/dto"
	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/usecase"
)

// LedgerService defines the read side needed by LedgerHandler.
type LedgerService interface {
	Balances(ctx context.Context) ([]domain.ParticipantBalance, error)
	Participant(ctx context.Context, name string) (*usecase.ParticipantLedger, error)
	CheckConsistency(ctx context.Context) (*usecase.ConsistencyReport, error)
	History(ctx context.Context, q usecase.HistoryQuery) ([]*domain.OutboxEvent, error)
}

// SettlementService defines the write side needed by LedgerHandler.
type SettlementService interface {
	SettleBulk(ctx context.Context, input usecase.SettleBulkInput) (*domain.Allocation, error)
}

// LedgerHandler handles participant balances and settlements.
type LedgerHandler struct {
	ledgerUC     LedgerService
	settlementUC SettlementService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService, settlementUC SettlementService) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC, settlementUC: settlementUC}
}

// Balances lists every participant's standing.
func (h *LedgerHandler) Balances(w http.ResponseWriter, r *http.Request) {
	balances, err := h.ledgerUC.Balances(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute balances", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalancesFromDomain(balances))
}

// Participant returns one person's balance with the bills behind it.
func (h *LedgerHandler) Participant(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "missing participant name", "")
		return
	}

	ledger, err := h.ledgerUC.Participant(r.Context(), name)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get participant", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ParticipantLedgerFromUseCase(ledger))
}

// Settle allocates a lump payment from one person over their bills.
func (h *LedgerHandler) Settle(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "missing participant name", "")
		return
	}

	var req dto.SettleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	alloc, err := h.settlementUC.SettleBulk(r.Context(), usecase.SettleBulkInput{
		Name:   name,
		Amount: req.Amount,
		Date:   req.Date,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to settle", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.AllocationFromDomain(alloc))
}

// Consistency verifies the derived fields of every split.
func (h *LedgerHandler) Consistency(w http.ResponseWriter, r *http.Request) {
	report, err := h.ledgerUC.CheckConsistency(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to check consistency", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ConsistencyFromUseCase(report))
}

// TransactionHistory lists the events recorded for one transaction.
func (h *LedgerHandler) TransactionHistory(w http.ResponseWriter, r *http.Request) {
	h.history(w, r, domain.AggregateTypeTransaction, pathParam(r, "id"))
}

// ParticipantHistory lists settlements and renames recorded for one person.
func (h *LedgerHandler) ParticipantHistory(w http.ResponseWriter, r *http.Request) {
	h.history(w, r, domain.AggregateTypeParticipant, pathParam(r, "name"))
}

func (h *LedgerHandler) history(w http.ResponseWriter, r *http.Request, aggregateType, id string) {
	events, err := h.ledgerUC.History(r.Context(), usecase.HistoryQuery{
		AggregateType: aggregateType,
		AggregateID:   id,
		Limit:         parseIntQuery(r, "limit", 0),
		Offset:        parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to load history", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EventsFromDomain(events))
}
