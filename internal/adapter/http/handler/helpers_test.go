package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"cloud.google.com/go/civil"

	"github.com/iho/splitledger/internal/adapter/http/dto"
	"github.com/iho/splitledger/internal/domain"
)

func TestParseIntQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/transactions?limit=50", nil)
	if got := parseIntQuery(req, "limit", 10); got != 50 {
		t.Fatalf("expected limit=50, got %d", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/transactions?limit=invalid", nil)
	if got := parseIntQuery(req, "limit", 10); got != 10 {
		t.Fatalf("expected fallback to default, got %d", got)
	}

	req.URL = &url.URL{RawQuery: ""}
	if got := parseIntQuery(req, "limit", 25); got != 25 {
		t.Fatalf("expected default when missing, got %d", got)
	}
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"transaction not found", domain.ErrTransactionNotFound, http.StatusNotFound},
		{"wrapped item not found", fmt.Errorf("item-9: %w", domain.ErrSplitItemNotFound), http.StatusNotFound},
		{"participant not found", domain.ErrParticipantNotFound, http.StatusNotFound},
		{"version conflict", domain.ErrVersionConflict, http.StatusConflict},
		{"duplicate name", domain.ErrDuplicateName, http.StatusConflict},
		{"over allocation", domain.ErrOverAllocation, http.StatusUnprocessableEntity},
		{"paid item removed", domain.ErrPaidItemRemoved, http.StatusUnprocessableEntity},
		{"extraction failed", domain.ErrExternalService, http.StatusBadGateway},
		{"conservation", domain.ErrConservationViolated, http.StatusInternalServerError},
		{"invalid amount", domain.ErrInvalidAmount, http.StatusBadRequest},
		{"invalid shares", domain.ErrInvalidShares, http.StatusBadRequest},
		{"invalid rule", domain.ErrInvalidRule, http.StatusBadRequest},
		{"empty document", domain.ErrEmptyDocument, http.StatusBadRequest},
		{"invalid uri", domain.ErrInvalidURI, http.StatusBadRequest},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := mapDomainError(tt.err); got != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	payload := map[string]string{"status": "ok"}

	writeJSON(rr, http.StatusCreated, payload)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rr.Code)
	}

	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected content-type application/json, got %s", ct)
	}

	var decoded map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if decoded["status"] != "ok" {
		t.Fatalf("expected payload to round-trip, got %+v", decoded)
	}
}

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()

	writeError(rr, http.StatusBadRequest, "bad request", "detail")

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}

	if resp.Error != "bad request" {
		t.Fatalf("expected error message to propagate, got %+v", resp)
	}
}

func TestParseDateQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/transactions?from=2023-10-01", nil)
	got, err := parseDateQuery(req, "from")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || *got != (civil.Date{Year: 2023, Month: 10, Day: 1}) {
		t.Fatalf("expected 2023-10-01, got %v", got)
	}

	if got, err := parseDateQuery(req, "to"); err != nil || got != nil {
		t.Fatalf("expected nil for missing parameter, got %v, %v", got, err)
	}

	req = httptest.NewRequest(http.MethodGet, "/transactions?from=10/01/2023", nil)
	if _, err := parseDateQuery(req, "from"); !errors.Is(err, domain.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestPathParam(t *testing.T) {
	r := setChiURLParams(httptest.NewRequest(http.MethodGet, "/", nil), "name", "Sam%2FLee", "tag", "50%off")

	if got := pathParam(r, "name"); got != "Sam/Lee" {
		t.Fatalf("expected Sam/Lee, got %q", got)
	}
	if got := pathParam(r, "tag"); got != "50%off" {
		t.Fatalf("expected raw value kept, got %q", got)
	}
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantOK   bool
		wantCode int
	}{
		{"valid", `{"amount":"25"}`, true, http.StatusOK},
		{"malformed", `{"amount":`, false, http.StatusBadRequest},
		{"too large", `{"note":"` + strings.Repeat("x", maxJSONBody) + `"}`, false, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))

			var dst map[string]any
			if ok := decodeJSON(rec, req, &dst); ok != tt.wantOK {
				t.Fatalf("decodeJSON = %v, want %v", ok, tt.wantOK)
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
		})
	}
}
