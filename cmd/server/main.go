package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/iho/splitledger/internal/adapter/extraction/gemini"
	httpAdapter "github.com/iho/splitledger/internal/adapter/http"
	"github.com/iho/splitledger/internal/adapter/http/handler"
	"github.com/iho/splitledger/internal/adapter/http/middleware"
	bqPublisher "github.com/iho/splitledger/internal/adapter/publisher/bigquery"
	postgresRepo "github.com/iho/splitledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/splitledger/internal/adapter/repository/redis"
	"github.com/iho/splitledger/internal/adapter/storage/gcs"
	"github.com/iho/splitledger/internal/infrastructure/config"
	"github.com/iho/splitledger/internal/infrastructure/eventpublisher"
	"github.com/iho/splitledger/internal/infrastructure/logger"
	"github.com/iho/splitledger/internal/infrastructure/metrics"
	"github.com/iho/splitledger/internal/infrastructure/postgres"
	"github.com/iho/splitledger/internal/infrastructure/redis"
	"github.com/iho/splitledger/internal/usecase"
)

// limiterIdleTimeout is how long a client IP keeps its extraction limiter.
const limiterIdleTimeout = 10 * time.Minute

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	appLogger := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "splitledger",
	})
	log.Logger = appLogger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Fatal().Err(err).Msg("server failed")
	}
}

func run(ctx context.Context, cfg *config.Config, appLogger zerolog.Logger) error {
	// Run migrations
	if cfg.RunMigrations {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, appLogger); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	appLogger.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL, logger.Component(appLogger, "redis"))
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	appLogger.Info().Msg("connected to redis")

	m := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	txRepo := postgresRepo.NewTransactionRepository(pool)
	reviewRepo := postgresRepo.NewDuplicateReviewRepository(pool)
	ruleRepo := postgresRepo.NewRuleRepository(pool)
	categoryRepo := postgresRepo.NewCategoryRepository(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	var outboxRepo usecase.OutboxRepository = postgresRepo.NewNullOutboxRepository()
	if cfg.OutboxEnabled {
		outboxRepo = postgresRepo.NewOutboxRepository(pool)
	}
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(logger.Component(appLogger, "retrier"))

	// Initialize use cases
	transactionUC := usecase.NewTransactionUseCase(txManager, txRepo, accountRepo, idGen, retrier)
	splitUC := usecase.NewSplitUseCase(txManager, txRepo, outboxRepo, idGen, retrier, m)
	settlementUC := usecase.NewSettlementUseCase(txManager, txRepo, outboxRepo, idGen, retrier, m)
	ledgerUC := usecase.NewLedgerUseCase(txRepo, outboxRepo)
	ruleUC := usecase.NewRuleUseCase(txManager, ruleRepo, txRepo, outboxRepo, cache, idGen, retrier,
		cfg.RulesCacheTTL, logger.Component(appLogger, "rules"), m)
	duplicateUC := usecase.NewDuplicateUseCase(txManager, reviewRepo, txRepo, outboxRepo, idGen, retrier, m)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo, idGen)
	accountUC := usecase.NewAccountUseCase(accountRepo, idGen)

	importDeps := usecase.ImportDeps{
		TxManager:    txManager,
		TxRepo:       txRepo,
		ReviewRepo:   reviewRepo,
		CategoryRepo: categoryRepo,
		AccountRepo:  accountRepo,
		OutboxRepo:   outboxRepo,
		Rules:        ruleUC,
		IDGen:        idGen,
		Retrier:      retrier,
		Logger:       logger.Component(appLogger, "import"),
		Metrics:      m,
	}
	if cfg.ExtractionEnabled() {
		genaiClient, err := gemini.NewClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			return err
		}
		importDeps.Extractor = gemini.NewExtractor(genaiClient.Models, gemini.Config{
			Model:   cfg.GeminiModel,
			Timeout: cfg.ExtractionTimeout,
			Logger:  logger.Component(appLogger, "extraction"),
		})

		reader, err := gcs.NewClientReader(ctx, cfg.GCPCredentialsFile)
		if err != nil {
			appLogger.Warn().Err(err).Msg("gcs unavailable, document imports by uri are disabled")
		} else {
			defer reader.Close()
			importDeps.Store = gcs.NewStore(reader, cfg.MaxDocumentBytes, logger.Component(appLogger, "gcs"))
		}
		appLogger.Info().Str("model", cfg.GeminiModel).Msg("document extraction enabled")
	}
	importUC := usecase.NewImportUseCase(importDeps)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(
		handler.Dependency{Name: "postgres", Pinger: pool},
		handler.Dependency{Name: "redis", Pinger: handler.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})},
	)

	extractionLimiter := middleware.NewRateLimiter(cfg.ExtractionRateLimit, cfg.ExtractionBurst)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		TransactionHandler: handler.NewTransactionHandler(transactionUC),
		SplitHandler:       handler.NewSplitHandler(splitUC),
		LedgerHandler:      handler.NewLedgerHandler(ledgerUC, settlementUC),
		ImportHandler:      handler.NewImportHandler(importUC, cfg.MaxDocumentBytes),
		DuplicateHandler:   handler.NewDuplicateHandler(duplicateUC),
		RuleHandler:        handler.NewRuleHandler(ruleUC),
		CategoryHandler:    handler.NewCategoryHandler(categoryUC),
		AccountHandler:     handler.NewAccountHandler(accountUC),
		HealthHandler:      healthHandler,
		IdempotencyStore:   idempotencyStore,
		IdempotencyTTL:     cfg.IdempotencyTTL,
		ExtractionLimiter:  extractionLimiter,
		Logger:             logger.Component(appLogger, "http"),
	})

	// Start outbox publisher
	if cfg.OutboxEnabled {
		publisher, closePublisher, err := buildPublisher(ctx, cfg, appLogger)
		if err != nil {
			return err
		}
		defer closePublisher()

		ep := eventpublisher.NewEventPublisher(eventpublisher.Config{
			OutboxRepo: outboxRepo,
			Publisher:  publisher,
			Logger:     logger.Component(appLogger, "outbox"),
			Metrics:    m,
			BatchSize:  cfg.OutboxBatchSize,
			Interval:   cfg.OutboxPublishInterval,
			Retention:  cfg.OutboxRetention,
		})
		go func() {
			if err := ep.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				appLogger.Error().Err(err).Msg("event publisher stopped")
			}
		}()
	}

	go cleanupLimiters(ctx, extractionLimiter, limiterIdleTimeout)

	// Create server
	server := &http.Server{
		Addr:         listenAddr(cfg),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		appLogger.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	appLogger.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	appLogger.Info().Msg("server stopped")
	return nil
}

func listenAddr(cfg *config.Config) string {
	return fmt.Sprintf(":%s", cfg.HTTPPort)
}

// buildPublisher logs every outbox event and, when configured, streams it to BigQuery.
func buildPublisher(ctx context.Context, cfg *config.Config, appLogger zerolog.Logger) (eventpublisher.Publisher, func(), error) {
	logPublisher := eventpublisher.NewLogPublisher(logger.Component(appLogger, "events"))
	if !cfg.BigQueryEnabled() {
		return logPublisher, func() {}, nil
	}

	client, err := bqPublisher.NewClient(ctx, cfg.GCPProject, cfg.GCPCredentialsFile)
	if err != nil {
		return nil, nil, err
	}
	inserter := bqPublisher.TableInserter(client, cfg.BigQueryDataset, cfg.BigQueryTable)
	appLogger.Info().
		Str("dataset", cfg.BigQueryDataset).
		Str("table", cfg.BigQueryTable).
		Msg("streaming outbox events to bigquery")

	closeClient := func() {
		if err := client.Close(); err != nil {
			appLogger.Warn().Err(err).Msg("failed to close bigquery client")
		}
	}
	return eventpublisher.FanOut{logPublisher, bqPublisher.NewPublisher(inserter)}, closeClient, nil
}

func cleanupLimiters(ctx context.Context, rl *middleware.RateLimiter, idle time.Duration) {
	ticker := time.NewTicker(idle)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.CleanupLimiters(idle)
		}
	}
}
