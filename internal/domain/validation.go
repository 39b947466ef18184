package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidName        = errors.New("invalid name")
	ErrInvalidColor       = errors.New("invalid color")
	ErrInvalidLast4       = errors.New("last 4 digits must be exactly 4 digits")
	ErrInvalidAccountType = errors.New("invalid account type")
	ErrInvalidTag         = errors.New("invalid tag")
	ErrAmountTooLarge     = errors.New("amount exceeds maximum allowed")
)

// Validation constants
const (
	MaxNameLength = 255
	MaxTagLength  = 64
	MaxAmount     = "1000000000" // 1 billion
)

var (
	colorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	last4Regex = regexp.MustCompile(`^[0-9]{4}$`)
)

// ValidateName validates category, account and participant names
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}

	if len(trimmed) > MaxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidName, MaxNameLength)
	}

	return nil
}

// ValidateColor validates a #rrggbb color. Empty means default.
func ValidateColor(color string) error {
	if color == "" {
		return nil
	}
	if !colorRegex.MatchString(color) {
		return fmt.Errorf("%w: %q is not #rrggbb", ErrInvalidColor, color)
	}
	return nil
}

// ValidateLast4 validates the optional card suffix.
func ValidateLast4(digits string) error {
	if digits == "" || last4Regex.MatchString(digits) {
		return nil
	}
	return ErrInvalidLast4
}

// ValidateTag validates a single tag
func ValidateTag(tag string) error {
	tag = strings.TrimSpace(tag)
	if tag == "" || len(tag) > MaxTagLength {
		return ErrInvalidTag
	}
	return nil
}

// ValidateAmount validates a payment amount: positive, whole cents, bounded.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if !isCents(amount) {
		return fmt.Errorf("%w: %s has fractions of a cent", ErrInvalidAmount, amount)
	}

	maxAmount, _ := decimal.NewFromString(MaxAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxAmount)
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int, error) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset, nil
}
