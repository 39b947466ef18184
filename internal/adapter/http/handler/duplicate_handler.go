package handler

import (
	"context"
	"net/http"

	"github.com/iho/splitledger/internal/adapter/http/dto"
	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/usecase"
)

// DuplicateService defines the behavior needed by DuplicateHandler.
type DuplicateService interface {
	ListReviews(ctx context.Context, limit, offset int) ([]*domain.DuplicateReview, error)
	Resolve(ctx context.Context, reviewID string, resolution domain.Resolution) (*usecase.ResolveResult, error)
}

// DuplicateHandler handles the duplicate review queue.
type DuplicateHandler struct {
	duplicateUC DuplicateService
}

// NewDuplicateHandler creates a new DuplicateHandler.
func NewDuplicateHandler(duplicateUC DuplicateService) *DuplicateHandler {
	return &DuplicateHandler{duplicateUC: duplicateUC}
}

// List lists pending reviews, oldest first.
func (h *DuplicateHandler) List(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.duplicateUC.ListReviews(r.Context(), parseIntQuery(r, "limit", 0), parseIntQuery(r, "offset", 0))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list reviews", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListReviewsResponse{
		Reviews: dto.ReviewsFromDomain(reviews),
		Total:   int64(len(reviews)),
	})
}

// Resolve applies the user's verdict on a review.
func (h *DuplicateHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing review ID", "")
		return
	}

	var req dto.ResolveRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.duplicateUC.Resolve(r.Context(), id, domain.Resolution(req.Resolution))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to resolve review", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ResolveFromUseCase(result))
}
