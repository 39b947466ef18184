package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/splitledger/internal/adapter/repository/postgres"
	"github.com/iho/splitledger/internal/domain"
	infraPostgres "github.com/iho/splitledger/internal/infrastructure/postgres"
	"github.com/iho/splitledger/internal/usecase"
)

// newIntegrationPool connects to DATABASE_URL, migrates it and empties the
// ledger tables. Tests are skipped without a database.
func newIntegrationPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	require.NoError(t, infraPostgres.RunMigrations(dbURL, "../../../../migrations", zerolog.Nop()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pool, err := infraPostgres.NewPool(ctx, dbURL, 5, 1)
	require.NoError(t, err)

	truncate := func() {
		_, err := pool.Exec(context.Background(),
			"TRUNCATE transactions, duplicate_reviews, outbox_events, rules CASCADE")
		require.NoError(t, err)
	}
	truncate()
	t.Cleanup(func() {
		truncate()
		pool.Close()
	})
	return pool
}

func TestIntegration_SplitAndSettle(t *testing.T) {
	pool := newIntegrationPool(t)
	ctx := context.Background()

	txManager := postgres.NewTxManager(pool)
	txRepo := postgres.NewTransactionRepository(pool)
	accountRepo := postgres.NewAccountRepository(pool)
	outboxRepo := postgres.NewOutboxRepository(pool)
	idGen := postgres.NewULIDGenerator()
	retrier := postgres.NewRetrier(zerolog.Nop())

	transactionUC := usecase.NewTransactionUseCase(txManager, txRepo, accountRepo, idGen, retrier)
	splitUC := usecase.NewSplitUseCase(txManager, txRepo, outboxRepo, idGen, retrier, nil)
	settlementUC := usecase.NewSettlementUseCase(txManager, txRepo, outboxRepo, idGen, retrier, nil)
	ledgerUC := usecase.NewLedgerUseCase(txRepo, outboxRepo)

	dinner, err := transactionUC.CreateTransaction(ctx, usecase.CreateTransactionInput{
		Date:                civil.Date{Year: 2023, Month: 10, Day: 20},
		Amount:              decimal.NewFromInt(60),
		OriginalDescription: "DINNER",
		IsExpense:           true,
	})
	require.NoError(t, err)
	taxi, err := transactionUC.CreateTransaction(ctx, usecase.CreateTransactionInput{
		Date:                civil.Date{Year: 2023, Month: 10, Day: 22},
		Amount:              decimal.NewFromInt(30),
		OriginalDescription: "TAXI",
		IsExpense:           true,
	})
	require.NoError(t, err)

	for _, tx := range []*domain.Transaction{dinner, taxi} {
		_, err := splitUC.SaveSplit(ctx, usecase.SaveSplitInput{
			TransactionID: tx.ID,
			SplitType:     domain.SplitEqual,
			Participants: []domain.ParticipantShare{
				{Name: "Me", IsOwner: true, Selected: true},
				{Name: "Sam", Selected: true},
			},
		})
		require.NoError(t, err)
	}

	alloc, err := settlementUC.SettleBulk(ctx, usecase.SettleBulkInput{
		Name:   "Sam",
		Amount: decimal.NewFromInt(50),
	})
	require.NoError(t, err)
	assert.True(t, alloc.Credit.Equal(decimal.NewFromInt(5)), "credit = %s", alloc.Credit)

	balances, err := ledgerUC.Balances(ctx)
	require.NoError(t, err)
	require.Len(t, balances, 1)
	assert.Equal(t, "Sam", balances[0].Name)
	assert.True(t, balances[0].Outstanding.IsZero(), "outstanding = %s", balances[0].Outstanding)

	report, err := ledgerUC.CheckConsistency(ctx)
	require.NoError(t, err)
	assert.True(t, report.Consistent, "problems: %v", report.Problems)

	events, err := outboxRepo.GetUnpublished(ctx, 100)
	require.NoError(t, err)
	assert.NotEmpty(t, events)
}

func TestIntegration_OverAllocationLeavesLedgerUntouched(t *testing.T) {
	pool := newIntegrationPool(t)
	ctx := context.Background()

	txManager := postgres.NewTxManager(pool)
	txRepo := postgres.NewTransactionRepository(pool)
	accountRepo := postgres.NewAccountRepository(pool)
	idGen := postgres.NewULIDGenerator()
	retrier := postgres.NewRetrier(zerolog.Nop())

	transactionUC := usecase.NewTransactionUseCase(txManager, txRepo, accountRepo, idGen, retrier)
	splitUC := usecase.NewSplitUseCase(txManager, txRepo, postgres.NewNullOutboxRepository(), idGen, retrier, nil)

	tx, err := transactionUC.CreateTransaction(ctx, usecase.CreateTransactionInput{
		Date:                civil.Date{Year: 2023, Month: 10, Day: 20},
		Amount:              decimal.NewFromInt(40),
		OriginalDescription: "GROCERIES",
		IsExpense:           true,
	})
	require.NoError(t, err)

	_, err = splitUC.SaveSplit(ctx, usecase.SaveSplitInput{
		TransactionID: tx.ID,
		SplitType:     domain.SplitExact,
		Participants: []domain.ParticipantShare{
			{Name: "Sam", Amount: decimal.NewFromInt(30)},
			{Name: "Alex", Amount: decimal.NewFromInt(20)},
		},
	})
	require.ErrorIs(t, err, domain.ErrOverAllocation)

	stored, err := txRepo.GetByID(ctx, tx.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.SplitDetails)
}
