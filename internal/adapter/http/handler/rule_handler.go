package handler

import (
	"context"
	"net/http"

	"github.com/iho/splitledger/internal/adapter/http/dto"
	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/usecase"
)

// RuleService defines the behavior needed by RuleHandler.
type RuleService interface {
	CreateRule(ctx context.Context, input usecase.RuleInput) (*domain.Rule, error)
	UpdateRule(ctx context.Context, id string, input usecase.RuleInput) (*domain.Rule, error)
	DeleteRule(ctx context.Context, id string) error
	GetRule(ctx context.Context, id string) (*domain.Rule, error)
	ListRules(ctx context.Context) ([]*domain.Rule, error)
	ReorderRules(ctx context.Context, ids []string) error
	ApplyToLedger(ctx context.Context) (int, error)
}

// RuleHandler handles automation rules.
type RuleHandler struct {
	ruleUC RuleService
}

// NewRuleHandler creates a new RuleHandler.
func NewRuleHandler(ruleUC RuleService) *RuleHandler {
	return &RuleHandler{ruleUC: ruleUC}
}

// Create adds a rule at the end of the evaluation order.
func (h *RuleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.RuleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	rule, err := h.ruleUC.CreateRule(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create rule", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.RuleFromDomain(rule))
}

// Get retrieves a rule by ID.
func (h *RuleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing rule ID", "")
		return
	}

	rule, err := h.ruleUC.GetRule(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get rule", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.RuleFromDomain(rule))
}

// List lists rules in evaluation order.
func (h *RuleHandler) List(w http.ResponseWriter, r *http.Request) {
	rules, err := h.ruleUC.ListRules(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list rules", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.RulesFromDomain(rules))
}

// Update replaces a rule's definition.
func (h *RuleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing rule ID", "")
		return
	}

	var req dto.RuleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	rule, err := h.ruleUC.UpdateRule(r.Context(), id, req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update rule", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.RuleFromDomain(rule))
}

// Delete removes a rule.
func (h *RuleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing rule ID", "")
		return
	}

	if err := h.ruleUC.DeleteRule(r.Context(), id); err != nil {
		writeError(w, mapDomainError(err), "failed to delete rule", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Reorder sets the evaluation order.
func (h *RuleHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req dto.ReorderRulesRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.ruleUC.ReorderRules(r.Context(), req.IDs); err != nil {
		writeError(w, mapDomainError(err), "failed to reorder rules", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Apply re-runs the active rules over the whole ledger.
func (h *RuleHandler) Apply(w http.ResponseWriter, r *http.Request) {
	n, err := h.ruleUC.ApplyToLedger(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to apply rules", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CountResponse{Updated: n})
}
