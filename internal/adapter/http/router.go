package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/splitledger/internal/adapter/http/handler"
	"github.com/iho/splitledger/internal/adapter/http/middleware"
	"github.com/iho/splitledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	TransactionHandler *handler.TransactionHandler
	SplitHandler       *handler.SplitHandler
	LedgerHandler      *handler.LedgerHandler
	ImportHandler      *handler.ImportHandler
	DuplicateHandler   *handler.DuplicateHandler
	RuleHandler        *handler.RuleHandler
	CategoryHandler    *handler.CategoryHandler
	AccountHandler     *handler.AccountHandler
	HealthHandler      *handler.HealthHandler

	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration

	// ExtractionLimiter throttles document uploads. Nil disables throttling.
	ExtractionLimiter *middleware.RateLimiter

	Logger zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.NewRecovery(cfg.Logger))
	r.Use(middleware.Metrics)

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Transactions
		r.Route("/transactions", func(r chi.Router) {
			r.Post("/", cfg.TransactionHandler.Create)
			r.Get("/", cfg.TransactionHandler.List)
			r.Get("/{id}", cfg.TransactionHandler.Get)
			r.Patch("/{id}", cfg.TransactionHandler.Update)
			r.Delete("/{id}", cfg.TransactionHandler.Delete)
			r.Post("/{id}/review", cfg.TransactionHandler.MarkReviewed)
			r.Get("/{id}/history", cfg.LedgerHandler.TransactionHistory)

			// Splits
			r.Put("/{id}/split", cfg.SplitHandler.Save)
			r.Delete("/{id}/split", cfg.SplitHandler.Remove)
			r.Put("/{id}/items/{itemID}/settled", cfg.SplitHandler.SetSettled)
			r.Post("/{id}/items/{itemID}/payments", cfg.SplitHandler.RecordPayment)
		})

		// Tags
		r.Post("/tags/{tag}/rename", cfg.TransactionHandler.RenameTag)
		r.Delete("/tags/{tag}", cfg.TransactionHandler.DeleteTag)

		// Participants
		r.Route("/participants", func(r chi.Router) {
			r.Get("/", cfg.LedgerHandler.Balances)
			r.Get("/{name}", cfg.LedgerHandler.Participant)
			r.Get("/{name}/history", cfg.LedgerHandler.ParticipantHistory)
			r.Post("/{name}/settlements", cfg.LedgerHandler.Settle)
			r.Post("/{name}/rename", cfg.SplitHandler.RenameParticipant)
		})
		r.Get("/ledger/consistency", cfg.LedgerHandler.Consistency)

		// Imports
		r.Route("/imports", func(r chi.Router) {
			r.Post("/", cfg.ImportHandler.Candidates)
			if cfg.ExtractionLimiter != nil {
				r.With(cfg.ExtractionLimiter.Limit).Post("/document", cfg.ImportHandler.Document)
			} else {
				r.Post("/document", cfg.ImportHandler.Document)
			}
		})

		// Duplicate review
		r.Route("/duplicates", func(r chi.Router) {
			r.Get("/", cfg.DuplicateHandler.List)
			r.Post("/{id}/resolve", cfg.DuplicateHandler.Resolve)
		})

		// Rules
		r.Route("/rules", func(r chi.Router) {
			r.Post("/", cfg.RuleHandler.Create)
			r.Get("/", cfg.RuleHandler.List)
			r.Put("/order", cfg.RuleHandler.Reorder)
			r.Post("/apply", cfg.RuleHandler.Apply)
			r.Get("/{id}", cfg.RuleHandler.Get)
			r.Put("/{id}", cfg.RuleHandler.Update)
			r.Delete("/{id}", cfg.RuleHandler.Delete)
		})

		// Categories
		r.Route("/categories", func(r chi.Router) {
			r.Post("/", cfg.CategoryHandler.Create)
			r.Get("/", cfg.CategoryHandler.List)
			r.Put("/{id}", cfg.CategoryHandler.Update)
			r.Delete("/{id}", cfg.CategoryHandler.Delete)
		})

		// Accounts
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Create)
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Put("/{id}", cfg.AccountHandler.Update)
			r.Delete("/{id}", cfg.AccountHandler.Delete)
		})
	})

	return r
}
