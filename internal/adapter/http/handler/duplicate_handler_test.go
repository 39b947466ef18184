package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/splitledger/internal/adapter/http/dto"
	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/usecase"
)

type duplicateServiceStub struct {
	listFn    func(ctx context.Context, limit, offset int) ([]*domain.DuplicateReview, error)
	resolveFn func(ctx context.Context, reviewID string, resolution domain.Resolution) (*usecase.ResolveResult, error)
}

func (s *duplicateServiceStub) ListReviews(ctx context.Context, limit, offset int) ([]*domain.DuplicateReview, error) {
	return s.listFn(ctx, limit, offset)
}

func (s *duplicateServiceStub) Resolve(ctx context.Context, reviewID string, resolution domain.Resolution) (*usecase.ResolveResult, error) {
	return s.resolveFn(ctx, reviewID, resolution)
}

func TestDuplicateHandler_List(t *testing.T) {
	handler := NewDuplicateHandler(&duplicateServiceStub{
		listFn: func(ctx context.Context, limit, offset int) ([]*domain.DuplicateReview, error) {
			if limit != 10 || offset != 0 {
				t.Fatalf("expected limit=10 offset=0, got %d %d", limit, offset)
			}
			return []*domain.DuplicateReview{{
				ID:         "rev-1",
				Existing:   sampleTransaction("tx-1"),
				Incoming:   sampleTransaction("tx-new"),
				Confidence: decimal.NewFromInt(1),
			}}, nil
		},
	})

	rec := httptest.NewRecorder()
	handler.List(rec, httptest.NewRequest(http.MethodGet, "/duplicates?limit=10", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp dto.ListReviewsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Total != 1 || resp.Reviews[0].Existing.ID != "tx-1" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestDuplicateHandler_Resolve(t *testing.T) {
	handler := NewDuplicateHandler(&duplicateServiceStub{
		resolveFn: func(ctx context.Context, reviewID string, resolution domain.Resolution) (*usecase.ResolveResult, error) {
			if reviewID != "rev-1" || resolution != domain.ResolutionReplaceExisting {
				t.Fatalf("unexpected resolve %s %s", reviewID, resolution)
			}
			return &usecase.ResolveResult{
				Resolution: resolution,
				Inserted:   sampleTransaction("tx-new"),
				RemovedID:  "tx-1",
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/duplicates/rev-1/resolve", bytes.NewBufferString(`{"resolution":"replace_existing"}`))
	rec := httptest.NewRecorder()
	handler.Resolve(rec, setChiURLParam(req, "id", "rev-1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp dto.ResolveResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.RemovedID != "tx-1" || resp.Inserted == nil || resp.Inserted.ID != "tx-new" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestDuplicateHandler_Resolve_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"invalid resolution", domain.ErrInvalidResolution, http.StatusBadRequest},
		{"review gone", domain.ErrReviewNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewDuplicateHandler(&duplicateServiceStub{
				resolveFn: func(ctx context.Context, reviewID string, resolution domain.Resolution) (*usecase.ResolveResult, error) {
					return nil, tt.err
				},
			})

			req := httptest.NewRequest(http.MethodPost, "/duplicates/rev-1/resolve", bytes.NewBufferString(`{"resolution":"maybe"}`))
			rec := httptest.NewRecorder()
			handler.Resolve(rec, setChiURLParam(req, "id", "rev-1"))

			if rec.Code != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, rec.Code)
			}
		})
	}
}
