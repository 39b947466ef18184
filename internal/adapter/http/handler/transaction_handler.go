package handler

import (
	"context"
	"net/http"

	"github.com/iho/splitledger/internal/adapter/http/dto"
	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/usecase"
)

// TransactionService defines the behavior needed by TransactionHandler.
type TransactionService interface {
	CreateTransaction(ctx context.Context, input usecase.CreateTransactionInput) (*domain.Transaction, error)
	GetTransaction(ctx context.Context, id string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, filter usecase.TransactionFilter) ([]*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, input usecase.UpdateTransactionInput) (*domain.Transaction, error)
	MarkReviewed(ctx context.Context, id string) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
	RenameTag(ctx context.Context, from, to string) (int, error)
	DeleteTag(ctx context.Context, tag string) (int, error)
}

// TransactionHandler handles transaction and tag HTTP requests.
type TransactionHandler struct {
	transactionUC TransactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionUC TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionUC: transactionUC}
}

// Create records a manually entered transaction.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tx, err := h.transactionUC.CreateTransaction(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create transaction", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(tx))
}

// Get retrieves a transaction by ID.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	tx, err := h.transactionUC.GetTransaction(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get transaction", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(tx))
}

// List lists transactions, newest first.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	from, err := parseDateQuery(r, "from")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid query", err.Error())
		return
	}
	to, err := parseDateQuery(r, "to")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid query", err.Error())
		return
	}

	query := r.URL.Query()
	status := domain.Status(query.Get("status"))
	if status != "" && !status.IsValid() {
		writeError(w, http.StatusBadRequest, "invalid query", domain.ErrInvalidStatus.Error())
		return
	}

	txs, err := h.transactionUC.ListTransactions(r.Context(), usecase.TransactionFilter{
		Status:    status,
		Category:  query.Get("category"),
		Tag:       query.Get("tag"),
		AccountID: query.Get("account_id"),
		From:      from,
		To:        to,
		Limit:     parseIntQuery(r, "limit", 0),
		Offset:    parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.TransactionsFromDomain(txs),
		Total:        int64(len(txs)),
	})
}

// Update edits a transaction. The request must carry the version it was read at.
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	var req dto.UpdateTransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tx, err := h.transactionUC.UpdateTransaction(r.Context(), req.ToUseCaseInput(id))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update transaction", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(tx))
}

// MarkReviewed confirms a transaction after the user looked at it.
func (h *TransactionHandler) MarkReviewed(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	tx, err := h.transactionUC.MarkReviewed(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to mark transaction reviewed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(tx))
}

// Delete removes a transaction and its split.
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	if err := h.transactionUC.DeleteTransaction(r.Context(), id); err != nil {
		writeError(w, mapDomainError(err), "failed to delete transaction", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RenameTag renames a tag across the ledger.
func (h *TransactionHandler) RenameTag(w http.ResponseWriter, r *http.Request) {
	tag := pathParam(r, "tag")
	if tag == "" {
		writeError(w, http.StatusBadRequest, "missing tag", "")
		return
	}

	var req dto.RenameRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	n, err := h.transactionUC.RenameTag(r.Context(), tag, req.To)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to rename tag", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CountResponse{Updated: n})
}

// DeleteTag removes a tag from every transaction.
func (h *TransactionHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	tag := pathParam(r, "tag")
	if tag == "" {
		writeError(w, http.StatusBadRequest, "missing tag", "")
		return
	}

	n, err := h.transactionUC.DeleteTag(r.Context(), tag)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to delete tag", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CountResponse{Updated: n})
}
