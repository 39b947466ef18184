package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/infrastructure/metrics"
)

// RuleSource supplies the active rules in evaluation order.
type RuleSource interface {
	ActiveRules(ctx context.Context) ([]*domain.Rule, error)
}

// ImportUseCase turns candidate records into ledger transactions.
type ImportUseCase struct {
	txManager    TransactionManager
	txRepo       TransactionRepository
	reviewRepo   DuplicateReviewRepository
	categoryRepo CategoryRepository
	accountRepo  AccountRepository
	outboxRepo   OutboxRepository
	rules        RuleSource
	extractor    DocumentExtractor
	store        DocumentStore
	idGen        IDGenerator
	retrier      Retrier
	logger       zerolog.Logger
	metrics      *metrics.Metrics
}

// ImportDeps groups the collaborators of ImportUseCase.
type ImportDeps struct {
	TxManager    TransactionManager
	TxRepo       TransactionRepository
	ReviewRepo   DuplicateReviewRepository
	CategoryRepo CategoryRepository
	AccountRepo  AccountRepository
	OutboxRepo   OutboxRepository
	Rules        RuleSource
	Extractor    DocumentExtractor
	Store        DocumentStore
	IDGen        IDGenerator
	Retrier      Retrier
	Logger       zerolog.Logger
	Metrics      *metrics.Metrics
}

// NewImportUseCase creates a new ImportUseCase. Extractor and Store may be nil,
// in which case document imports fail with domain.ErrExternalService.
func NewImportUseCase(deps ImportDeps) *ImportUseCase {
	return &ImportUseCase{
		txManager:    deps.TxManager,
		txRepo:       deps.TxRepo,
		reviewRepo:   deps.ReviewRepo,
		categoryRepo: deps.CategoryRepo,
		accountRepo:  deps.AccountRepo,
		outboxRepo:   deps.OutboxRepo,
		rules:        deps.Rules,
		extractor:    deps.Extractor,
		store:        deps.Store,
		idGen:        deps.IDGen,
		retrier:      deps.Retrier,
		logger:       deps.Logger.With().Str("component", "import").Logger(),
		metrics:      deps.Metrics,
	}
}

// ImportInput represents a batch of candidate records.
type ImportInput struct {
	Candidates []domain.Candidate
	AccountID  *string
	Source     string
}

// ImportDocumentInput represents a document to extract candidates from.
// Exactly one of Document and URI is expected.
type ImportDocumentInput struct {
	Document  *Document
	URI       string
	AccountID *string
	Source    string
}

// ImportResult is the outcome of an import batch.
type ImportResult struct {
	ID          string
	Accepted    []*domain.Transaction
	Duplicates  []*domain.DuplicateReview
	Dropped     []domain.DroppedCandidate
	NeedsReview bool
}

// ImportCandidates reconciles the candidates against the ledger and stores the
// accepted records and the duplicate reviews in one transaction.
func (uc *ImportUseCase) ImportCandidates(ctx context.Context, input ImportInput) (*ImportResult, error) {
	start := time.Now()

	source := strings.TrimSpace(input.Source)
	if input.AccountID != nil {
		account, err := uc.accountRepo.GetByID(ctx, *input.AccountID)
		if err != nil {
			return nil, err
		}
		if source == "" {
			source = account.Label()
		}
	}

	allowed, err := uc.allowedCategories(ctx)
	if err != nil {
		return nil, err
	}

	rules, err := uc.rules.ActiveRules(ctx)
	if err != nil {
		return nil, err
	}

	ledger, err := uc.ledgerFor(ctx, input.Candidates)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	reconciled := domain.Reconcile(input.Candidates, ledger, rules, domain.ReconcileOptions{
		AllowedCategories: allowed,
		Source:            source,
		AccountID:         input.AccountID,
		Now:               now,
		NewID:             uc.idGen.Generate,
	})

	result := &ImportResult{
		ID:          uc.idGen.Generate(),
		Accepted:    reconciled.Accepted,
		Dropped:     reconciled.Dropped,
		NeedsReview: reconciled.NeedsReview(),
	}
	for _, pair := range reconciled.Duplicates {
		result.Duplicates = append(result.Duplicates, &domain.DuplicateReview{
			ID:         uc.idGen.Generate(),
			Existing:   pair.Existing,
			Incoming:   pair.Incoming,
			Confidence: pair.Confidence,
			CreatedAt:  now,
		})
	}

	err = inTransaction(ctx, uc.txManager, uc.retrier, func(ctx context.Context, dbTx Transaction) error {
		for _, tx := range result.Accepted {
			if err := uc.txRepo.Create(ctx, dbTx, tx); err != nil {
				return err
			}
		}
		for _, review := range result.Duplicates {
			if err := uc.reviewRepo.Create(ctx, dbTx, review); err != nil {
				return err
			}
		}

		event := newEvent(uc.idGen, domain.AggregateTypeImport, result.ID, domain.EventTypeImportCompleted, map[string]any{
			"import_id":    result.ID,
			"source":       source,
			"accepted":     len(result.Accepted),
			"duplicates":   len(result.Duplicates),
			"dropped":      len(result.Dropped),
			"needs_review": result.NeedsReview,
		}, now)
		return uc.outboxRepo.Create(ctx, dbTx, event)
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.ImportsCompleted.Inc()
		uc.metrics.ImportedRecords.WithLabelValues("accepted").Add(float64(len(result.Accepted)))
		uc.metrics.ImportedRecords.WithLabelValues("duplicate").Add(float64(len(result.Duplicates)))
		uc.metrics.ImportedRecords.WithLabelValues("dropped").Add(float64(len(result.Dropped)))
		uc.metrics.ImportDuration.Observe(time.Since(start).Seconds())
	}

	for _, d := range result.Dropped {
		uc.logger.Debug().Int("index", d.Index).Err(d.Reason).Msg("candidate dropped")
	}
	uc.logger.Info().
		Str("import_id", result.ID).
		Int("accepted", len(result.Accepted)).
		Int("duplicates", len(result.Duplicates)).
		Int("dropped", len(result.Dropped)).
		Msg("import completed")

	return result, nil
}

// ImportDocument extracts candidates from a document and imports them.
// Nothing is written when the document cannot be fetched or extracted.
func (uc *ImportUseCase) ImportDocument(ctx context.Context, input ImportDocumentInput) (*ImportResult, error) {
	doc := input.Document
	if doc == nil && input.URI != "" {
		if uc.store == nil {
			return nil, fmt.Errorf("%w: no document store configured", domain.ErrExternalService)
		}
		fetched, err := uc.store.Fetch(ctx, input.URI)
		if err != nil {
			return nil, externalError("fetch document", err)
		}
		doc = fetched
	}
	if doc == nil || len(doc.Data) == 0 {
		return nil, domain.ErrEmptyDocument
	}
	if uc.extractor == nil {
		return nil, fmt.Errorf("%w: no extractor configured", domain.ErrExternalService)
	}

	allowed, err := uc.allowedCategories(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	candidates, err := uc.extractor.Extract(ctx, *doc, allowed)
	if uc.metrics != nil {
		uc.metrics.ExtractionDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		if uc.metrics != nil {
			uc.metrics.ExtractionErrors.Inc()
		}
		uc.logger.Error().Err(err).Str("document", doc.Name).Msg("extraction failed")
		return nil, externalError("extract document", err)
	}

	return uc.ImportCandidates(ctx, ImportInput{
		Candidates: candidates,
		AccountID:  input.AccountID,
		Source:     input.Source,
	})
}

func (uc *ImportUseCase) allowedCategories(ctx context.Context) ([]string, error) {
	categories, err := uc.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return domain.CategoryNames(categories), nil
}

// ledgerFor loads the part of the ledger a duplicate could come from.
func (uc *ImportUseCase) ledgerFor(ctx context.Context, candidates []domain.Candidate) ([]*domain.Transaction, error) {
	var from, to civil.Date
	for _, c := range candidates {
		d, err := civil.ParseDate(strings.TrimSpace(c.Date))
		if err != nil {
			continue
		}
		if from.IsZero() || d.Before(from) {
			from = d
		}
		if to.IsZero() || d.After(to) {
			to = d
		}
	}
	if from.IsZero() {
		return nil, nil
	}

	return uc.txRepo.ListInDateRange(ctx, from.AddDays(-domain.DuplicateWindowDays), to.AddDays(domain.DuplicateWindowDays))
}

func externalError(op string, err error) error {
	if errors.Is(err, domain.ErrExternalService) ||
		errors.Is(err, domain.ErrEmptyDocument) ||
		errors.Is(err, domain.ErrInvalidURI) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrExternalService, op, err)
}
