// Package gemini extracts transaction candidates from statements and receipts
// with a Gemini model.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"google.golang.org/genai"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/usecase"
)

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "gemini-2.5-flash"

// Generator is the part of the genai client the extractor needs.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Config for Extractor.
type Config struct {
	Model      string
	Timeout    time.Duration // per extraction, retries included; 0 means no limit
	MaxRetries int
	Logger     zerolog.Logger
}

// Extractor implements usecase.DocumentExtractor.
type Extractor struct {
	gen             Generator
	model           string
	timeout         time.Duration
	maxRetries      int
	initialInterval time.Duration
	logger          zerolog.Logger
}

var _ usecase.DocumentExtractor = (*Extractor)(nil)

// NewClient creates a genai client for the Gemini API.
func NewClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return client, nil
}

// NewExtractor creates an Extractor. Pass client.Models as gen.
func NewExtractor(gen Generator, cfg Config) *Extractor {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	return &Extractor{
		gen:             gen,
		model:           cfg.Model,
		timeout:         cfg.Timeout,
		maxRetries:      cfg.MaxRetries,
		initialInterval: 500 * time.Millisecond,
		logger:          cfg.Logger,
	}
}

// Extract sends the document to the model and maps its answer to candidates.
func (e *Extractor) Extract(ctx context.Context, doc usecase.Document, categories []string) ([]domain.Candidate, error) {
	if len(doc.Data) == 0 {
		return nil, domain.ErrEmptyDocument
	}
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: buildPrompt(categories)},
				{
					InlineData: &genai.Blob{
						MIMEType: mimeTypeOf(doc),
						Data:     doc.Data,
					},
				},
			},
		},
	}

	raw, err := e.generate(ctx, contents)
	if err != nil {
		return nil, err
	}

	candidates, err := parseCandidates(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExternalService, err)
	}

	e.logger.Debug().
		Str("document", doc.Name).
		Int("candidates", len(candidates)).
		Msg("document extracted")

	return candidates, nil
}

func (e *Extractor) generate(ctx context.Context, contents []*genai.Content) (string, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = e.initialInterval
	b.MaxElapsedTime = 0

	var text string
	attempt := 0
	err := backoff.Retry(func() error {
		resp, err := e.gen.GenerateContent(ctx, e.model, contents, nil)
		if err != nil {
			if !isTransient(err) {
				return backoff.Permanent(err)
			}
			attempt++
			if attempt > e.maxRetries {
				return backoff.Permanent(err)
			}
			e.logger.Warn().
				Err(err).
				Int("retry", attempt).
				Msg("transient extraction error, retrying")
			return err
		}
		text = resp.Text()
		return nil
	}, backoff.WithContext(b, ctx))
	if err != nil {
		return "", fmt.Errorf("%w: generate content: %v", domain.ErrExternalService, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty response from model", domain.ErrExternalService)
	}
	return text, nil
}

// isTransient reports whether a model call may succeed when repeated.
func isTransient(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		}
		return false
	}
	return false
}

func mimeTypeOf(doc usecase.Document) string {
	if doc.MIMEType != "" {
		return doc.MIMEType
	}
	return "application/pdf"
}

func buildPrompt(categories []string) string {
	var sb strings.Builder
	sb.WriteString("You are a parser for bank statements, card statements and receipts.\n\n")
	sb.WriteString("Task:\n")
	sb.WriteString("- Extract ALL transactions from the attached document.\n")
	sb.WriteString("- Output STRICT JSON only: a JSON array of objects.\n\n")
	sb.WriteString("Each object must have these fields:\n")
	sb.WriteString("- \"date\": string, ISO format \"YYYY-MM-DD\"\n")
	sb.WriteString("- \"amount\": number, always positive\n")
	sb.WriteString("- \"original_description\": string, exactly as printed\n")
	sb.WriteString("- \"enhanced_description\": string, a short readable merchant name\n")
	sb.WriteString("- \"category\": string, one of the allowed categories\n")
	sb.WriteString("- \"is_expense\": boolean, false for refunds, salary and other money in\n")
	sb.WriteString("- \"tags\": array of strings, may be empty\n")
	sb.WriteString("- \"confidence\": integer from 0 to 100\n\n")

	if len(categories) > 0 {
		sb.WriteString("Allowed categories:\n")
		for _, c := range categories {
			sb.WriteString("- ")
			sb.WriteString(c)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Return ONLY valid raw JSON.\n")
	sb.WriteString("Do NOT wrap the response in code fences.\n")
	sb.WriteString("Output must begin with \"[\" and end with \"]\".\n")
	return sb.String()
}

type record struct {
	Date                string           `json:"date"`
	Amount              *decimal.Decimal `json:"amount"`
	OriginalDescription string           `json:"original_description"`
	EnhancedDescription string           `json:"enhanced_description"`
	Category            string           `json:"category"`
	IsExpense           *bool            `json:"is_expense"`
	Tags                []string         `json:"tags"`
	Confidence          float64          `json:"confidence"`
}

// parseCandidates decodes the model output. Amounts are made positive and
// IsExpense defaults to true when the model leaves it out.
func parseCandidates(raw string) ([]domain.Candidate, error) {
	var records []record
	if err := json.Unmarshal([]byte(cleanModelJSON(raw)), &records); err != nil {
		return nil, fmt.Errorf("unmarshal model output: %w", err)
	}

	candidates := make([]domain.Candidate, 0, len(records))
	for _, r := range records {
		c := domain.Candidate{
			Date:                strings.TrimSpace(r.Date),
			OriginalDescription: r.OriginalDescription,
			EnhancedDescription: r.EnhancedDescription,
			Category:            r.Category,
			IsExpense:           true,
			Tags:                r.Tags,
			Confidence:          int(r.Confidence + 0.5),
		}
		if r.Amount != nil {
			amount := r.Amount.Abs()
			c.Amount = &amount
		}
		if r.IsExpense != nil {
			c.IsExpense = *r.IsExpense
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

// cleanModelJSON strips markdown fences and any text around the JSON array.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		idx := strings.Index(s, "\n")
		if idx == -1 {
			return s
		}
		s = strings.TrimSpace(s[idx+1:])
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	if start := strings.Index(s, "["); start != -1 {
		if end := strings.LastIndex(s, "]"); end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}
	return s
}
