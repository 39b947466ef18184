package handler

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/iho/splitledger/internal/adapter/http/dto"
	"github.com/iho/splitledger/internal/usecase"
)

// DefaultMaxDocumentBytes bounds uploaded statements when no limit is configured.
const DefaultMaxDocumentBytes = 20 << 20

// ImportService defines the behavior needed by ImportHandler.
type ImportService interface {
	ImportCandidates(ctx context.Context, input usecase.ImportInput) (*usecase.ImportResult, error)
	ImportDocument(ctx context.Context, input usecase.ImportDocumentInput) (*usecase.ImportResult, error)
}

// ImportHandler handles batch imports.
type ImportHandler struct {
	importUC ImportService
	maxBytes int64
}

// NewImportHandler creates a new ImportHandler. maxBytes limits uploaded documents.
func NewImportHandler(importUC ImportService, maxBytes int64) *ImportHandler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxDocumentBytes
	}
	return &ImportHandler{importUC: importUC, maxBytes: maxBytes}
}

// Candidates imports already extracted records.
func (h *ImportHandler) Candidates(w http.ResponseWriter, r *http.Request) {
	var req dto.ImportRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.importUC.ImportCandidates(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to import", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.ImportFromUseCase(result))
}

// Document extracts records from an uploaded file (multipart field "file") or
// from a stored document referenced by {"uri": ...}, then imports them.
func (h *ImportHandler) Document(w http.ResponseWriter, r *http.Request) {
	var (
		input usecase.ImportDocumentInput
		err   error
	)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		input, err = h.fromMultipart(w, r)
	} else {
		input, err = h.fromJSON(r)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.importUC.ImportDocument(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to import document", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.ImportFromUseCase(result))
}

func (h *ImportHandler) fromJSON(r *http.Request) (usecase.ImportDocumentInput, error) {
	var req dto.ImportDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return usecase.ImportDocumentInput{}, err
	}
	return usecase.ImportDocumentInput{
		URI:       req.URI,
		AccountID: req.AccountID,
		Source:    req.Source,
	}, nil
}

func (h *ImportHandler) fromMultipart(w http.ResponseWriter, r *http.Request) (usecase.ImportDocumentInput, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		return usecase.ImportDocumentInput{}, err
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return usecase.ImportDocumentInput{}, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return usecase.ImportDocumentInput{}, err
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(header.Filename))); byExt != "" {
			mimeType = byExt
		}
	}

	input := usecase.ImportDocumentInput{
		Document: &usecase.Document{Name: header.Filename, MIMEType: mimeType, Data: data},
		Source:   r.FormValue("source"),
	}
	if input.Source == "" {
		input.Source = header.Filename
	}
	if accountID := r.FormValue("account_id"); accountID != "" {
		input.AccountID = &accountID
	}
	return input, nil
}
