package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iho/splitledger/internal/adapter/http/dto"
	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/usecase"
)

type importServiceStub struct {
	candidatesFn func(ctx context.Context, input usecase.ImportInput) (*usecase.ImportResult, error)
	documentFn   func(ctx context.Context, input usecase.ImportDocumentInput) (*usecase.ImportResult, error)
}

func (s *importServiceStub) ImportCandidates(ctx context.Context, input usecase.ImportInput) (*usecase.ImportResult, error) {
	return s.candidatesFn(ctx, input)
}

func (s *importServiceStub) ImportDocument(ctx context.Context, input usecase.ImportDocumentInput) (*usecase.ImportResult, error) {
	return s.documentFn(ctx, input)
}

func TestImportHandler_Candidates(t *testing.T) {
	var captured usecase.ImportInput
	handler := NewImportHandler(&importServiceStub{
		candidatesFn: func(ctx context.Context, input usecase.ImportInput) (*usecase.ImportResult, error) {
			captured = input
			return &usecase.ImportResult{
				ID:       "imp-1",
				Accepted: []*domain.Transaction{sampleTransaction("tx-1")},
				Dropped:  []domain.DroppedCandidate{{Index: 1, Reason: domain.ErrInvalidDate}},
			}, nil
		},
	}, 0)

	body := `{"source":"upload","candidates":[{"date":"2023-10-20","amount":"60","original_description":"DINNER","confidence":90},{"date":"nope","amount":"1","original_description":"X"}]}`
	rec := httptest.NewRecorder()
	handler.Candidates(rec, httptest.NewRequest(http.MethodPost, "/imports", bytes.NewBufferString(body)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(captured.Candidates) != 2 || captured.Source != "upload" {
		t.Fatalf("unexpected input %+v", captured)
	}

	var resp dto.ImportResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Accepted) != 1 || len(resp.Dropped) != 1 || resp.Dropped[0].Reason != domain.ErrInvalidDate.Error() {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestImportHandler_Document_Multipart(t *testing.T) {
	var captured usecase.ImportDocumentInput
	handler := NewImportHandler(&importServiceStub{
		documentFn: func(ctx context.Context, input usecase.ImportDocumentInput) (*usecase.ImportResult, error) {
			captured = input
			return &usecase.ImportResult{ID: "imp-2"}, nil
		},
	}, 1<<20)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "statement.pdf")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	part.Write([]byte("%PDF-1.4 fake"))
	mw.WriteField("account_id", "acc-1")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/imports/document", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()

	handler.Document(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.Document == nil || captured.Document.Name != "statement.pdf" || string(captured.Document.Data) != "%PDF-1.4 fake" {
		t.Fatalf("unexpected document %+v", captured.Document)
	}
	if captured.Document.MIMEType != "application/pdf" {
		t.Fatalf("expected MIME type from extension, got %q", captured.Document.MIMEType)
	}
	if captured.Source != "statement.pdf" || captured.AccountID == nil || *captured.AccountID != "acc-1" {
		t.Fatalf("unexpected input %+v", captured)
	}
}

func TestImportHandler_Document_URI(t *testing.T) {
	var captured usecase.ImportDocumentInput
	handler := NewImportHandler(&importServiceStub{
		documentFn: func(ctx context.Context, input usecase.ImportDocumentInput) (*usecase.ImportResult, error) {
			captured = input
			return nil, fmt.Errorf("%w: extract document: model unavailable", domain.ErrExternalService)
		},
	}, 0)

	rec := httptest.NewRecorder()
	handler.Document(rec, httptest.NewRequest(http.MethodPost, "/imports/document", bytes.NewBufferString(`{"uri":"gs://bucket/oct.pdf"}`)))

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	if captured.URI != "gs://bucket/oct.pdf" || captured.Document != nil {
		t.Fatalf("unexpected input %+v", captured)
	}
}

func TestImportHandler_Document_TooLarge(t *testing.T) {
	handler := NewImportHandler(&importServiceStub{
		documentFn: func(ctx context.Context, input usecase.ImportDocumentInput) (*usecase.ImportResult, error) {
			t.Fatal("ImportDocument should not be called for an oversized upload")
			return nil, errors.New("unreachable")
		},
	}, 16)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, _ := mw.CreateFormFile("file", "big.pdf")
	part.Write(bytes.Repeat([]byte("x"), 1024))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/imports/document", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()

	handler.Document(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
