package handler

import (
	"context"
	"net/http"

	"github.com/iho/splitledger/internal/adapter/http/dto"
	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/usecase"
)

// SplitService defines the behavior needed by SplitHandler.
type SplitService interface {
	SaveSplit(ctx context.Context, input usecase.SaveSplitInput) (*usecase.SplitResult, error)
	RemoveSplit(ctx context.Context, transactionID string) (*domain.Transaction, error)
	SetItemSettled(ctx context.Context, input usecase.SetItemSettledInput) (*domain.Transaction, error)
	RecordPayment(ctx context.Context, input usecase.RecordPaymentInput) (*domain.Transaction, error)
	RenameParticipant(ctx context.Context, from, to string) (int, error)
}

// SplitHandler handles split and split item HTTP requests.
type SplitHandler struct {
	splitUC SplitService
}

// NewSplitHandler creates a new SplitHandler.
func NewSplitHandler(splitUC SplitService) *SplitHandler {
	return &SplitHandler{splitUC: splitUC}
}

// Save creates or re-edits the split of a transaction.
func (h *SplitHandler) Save(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	var req dto.SaveSplitRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.splitUC.SaveSplit(r.Context(), req.ToUseCaseInput(id))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to save split", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SplitResultFromUseCase(result))
}

// Remove deletes the split of a transaction.
func (h *SplitHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	tx, err := h.splitUC.RemoveSplit(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to remove split", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(tx))
}

// SetSettled toggles the settled flag of one item.
func (h *SplitHandler) SetSettled(w http.ResponseWriter, r *http.Request) {
	id, itemID := pathParam(r, "id"), pathParam(r, "itemID")
	if id == "" || itemID == "" {
		writeError(w, http.StatusBadRequest, "missing transaction or item ID", "")
		return
	}

	var req dto.SetSettledRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tx, err := h.splitUC.SetItemSettled(r.Context(), usecase.SetItemSettledInput{
		TransactionID: id,
		ItemID:        itemID,
		Settled:       req.Settled,
		Date:          req.Date,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update item", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(tx))
}

// RecordPayment credits a payment to one item.
func (h *SplitHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	id, itemID := pathParam(r, "id"), pathParam(r, "itemID")
	if id == "" || itemID == "" {
		writeError(w, http.StatusBadRequest, "missing transaction or item ID", "")
		return
	}

	var req dto.PaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tx, err := h.splitUC.RecordPayment(r.Context(), usecase.RecordPaymentInput{
		TransactionID: id,
		ItemID:        itemID,
		Amount:        req.Amount,
		Date:          req.Date,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to record payment", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(tx))
}

// RenameParticipant renames a person on every split they appear in.
func (h *SplitHandler) RenameParticipant(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "missing participant name", "")
		return
	}

	var req dto.RenameRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	n, err := h.splitUC.RenameParticipant(r.Context(), name, req.To)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to rename participant", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CountResponse{Updated: n})
}
