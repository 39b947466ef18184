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

type splitServiceStub struct {
	saveFn    func(ctx context.Context, input usecase.SaveSplitInput) (*usecase.SplitResult, error)
	removeFn  func(ctx context.Context, transactionID string) (*domain.Transaction, error)
	settleFn  func(ctx context.Context, input usecase.SetItemSettledInput) (*domain.Transaction, error)
	paymentFn func(ctx context.Context, input usecase.RecordPaymentInput) (*domain.Transaction, error)
	renameFn  func(ctx context.Context, from, to string) (int, error)
}

func (s *splitServiceStub) SaveSplit(ctx context.Context, input usecase.SaveSplitInput) (*usecase.SplitResult, error) {
	return s.saveFn(ctx, input)
}

func (s *splitServiceStub) RemoveSplit(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return s.removeFn(ctx, transactionID)
}

func (s *splitServiceStub) SetItemSettled(ctx context.Context, input usecase.SetItemSettledInput) (*domain.Transaction, error) {
	return s.settleFn(ctx, input)
}

func (s *splitServiceStub) RecordPayment(ctx context.Context, input usecase.RecordPaymentInput) (*domain.Transaction, error) {
	return s.paymentFn(ctx, input)
}

func (s *splitServiceStub) RenameParticipant(ctx context.Context, from, to string) (int, error) {
	return s.renameFn(ctx, from, to)
}

func TestSplitHandler_Save(t *testing.T) {
	var captured usecase.SaveSplitInput
	handler := NewSplitHandler(&splitServiceStub{
		saveFn: func(ctx context.Context, input usecase.SaveSplitInput) (*usecase.SplitResult, error) {
			captured = input
			return &usecase.SplitResult{
				Transaction: sampleTransaction("tx-1"),
				Swept:       decimal.RequireFromString("5"),
				OwnerShare:  decimal.RequireFromString("30"),
			}, nil
		},
	})

	body := `{"split_type":"equal","participants":[{"name":"Me","is_owner":true,"selected":true},{"name":"Alex","selected":true}]}`
	req := setChiURLParam(httptest.NewRequest(http.MethodPut, "/transactions/tx-1/split", bytes.NewBufferString(body)), "id", "tx-1")
	rec := httptest.NewRecorder()

	handler.Save(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.TransactionID != "tx-1" || captured.SplitType != domain.SplitEqual || len(captured.Participants) != 2 {
		t.Fatalf("unexpected input %+v", captured)
	}

	var resp dto.SplitResultResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Swept.Equal(decimal.NewFromInt(5)) || resp.Transaction.ID != "tx-1" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestSplitHandler_Save_DomainErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"over allocation", domain.ErrOverAllocation, http.StatusUnprocessableEntity},
		{"paid participant dropped", domain.ErrPaidItemRemoved, http.StatusUnprocessableEntity},
		{"no participants", domain.ErrNoParticipants, http.StatusBadRequest},
		{"invalid split type", domain.ErrInvalidSplitType, http.StatusBadRequest},
		{"missing transaction", domain.ErrTransactionNotFound, http.StatusNotFound},
		{"conflict", domain.ErrVersionConflict, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewSplitHandler(&splitServiceStub{
				saveFn: func(ctx context.Context, input usecase.SaveSplitInput) (*usecase.SplitResult, error) {
					return nil, tt.err
				},
			})

			req := setChiURLParam(httptest.NewRequest(http.MethodPut, "/transactions/tx-1/split", bytes.NewBufferString(`{"split_type":"exact"}`)), "id", "tx-1")
			rec := httptest.NewRecorder()
			handler.Save(rec, req)

			if rec.Code != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, rec.Code)
			}
		})
	}
}

func TestSplitHandler_ItemOperations(t *testing.T) {
	var settled usecase.SetItemSettledInput
	var payment usecase.RecordPaymentInput
	handler := NewSplitHandler(&splitServiceStub{
		settleFn: func(ctx context.Context, input usecase.SetItemSettledInput) (*domain.Transaction, error) {
			settled = input
			return sampleTransaction(input.TransactionID), nil
		},
		paymentFn: func(ctx context.Context, input usecase.RecordPaymentInput) (*domain.Transaction, error) {
			payment = input
			return sampleTransaction(input.TransactionID), nil
		},
		removeFn: func(ctx context.Context, transactionID string) (*domain.Transaction, error) {
			return nil, domain.ErrSplitNotFound
		},
	})

	req := httptest.NewRequest(http.MethodPut, "/transactions/tx-1/items/item-1/settled", bytes.NewBufferString(`{"settled":true,"date":"2023-10-25"}`))
	rec := httptest.NewRecorder()
	handler.SetSettled(rec, setChiURLParams(req, "id", "tx-1", "itemID", "item-1"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !settled.Settled || settled.ItemID != "item-1" || settled.Date == nil || settled.Date.Day != 25 {
		t.Fatalf("unexpected settle input %+v", settled)
	}

	req = httptest.NewRequest(http.MethodPost, "/transactions/tx-1/items/item-1/payments", bytes.NewBufferString(`{"amount":"12.50"}`))
	rec = httptest.NewRecorder()
	handler.RecordPayment(rec, setChiURLParams(req, "id", "tx-1", "itemID", "item-1"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if !payment.Amount.Equal(decimal.RequireFromString("12.5")) || payment.Date != nil {
		t.Fatalf("unexpected payment input %+v", payment)
	}

	rec = httptest.NewRecorder()
	handler.Remove(rec, setChiURLParam(httptest.NewRequest(http.MethodDelete, "/transactions/tx-1/split", nil), "id", "tx-1"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestSplitHandler_MissingItemID(t *testing.T) {
	handler := NewSplitHandler(&splitServiceStub{})

	req := httptest.NewRequest(http.MethodPost, "/transactions/tx-1/items//payments", bytes.NewBufferString(`{"amount":"1"}`))
	rec := httptest.NewRecorder()
	handler.RecordPayment(rec, setChiURLParam(req, "id", "tx-1"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSplitHandler_RenameParticipant(t *testing.T) {
	handler := NewSplitHandler(&splitServiceStub{
		renameFn: func(ctx context.Context, from, to string) (int, error) {
			if from != "Alex" || to != "Alexandra" {
				t.Fatalf("unexpected rename %s -> %s", from, to)
			}
			return 4, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/participants/Alex/rename", bytes.NewBufferString(`{"to":"Alexandra"}`))
	rec := httptest.NewRecorder()
	handler.RenameParticipant(rec, setChiURLParam(req, "name", "Alex"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp dto.CountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Updated != 4 {
		t.Fatalf("expected 4 updated, got %+v (%v)", resp, err)
	}
}
