package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// RulesCacheKey holds the serialized rule list
	RulesCacheKey = "rules:all"

	// DefaultRulesCacheTTL bounds how stale cached rules may get
	DefaultRulesCacheTTL = 5 * time.Minute

	// DefaultHistoryLimit and MaxHistoryLimit page event history reads
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500
)
