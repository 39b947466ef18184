package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateName(t *testing.T) {
	t.Parallel()

	t.Run("valid name", func(t *testing.T) {
		if err := ValidateName("Groceries"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("empty name rejected", func(t *testing.T) {
		if err := ValidateName("   "); !errors.Is(err, ErrInvalidName) {
			t.Fatalf("expected ErrInvalidName, got %v", err)
		}
	})

	t.Run("name too long", func(t *testing.T) {
		if err := ValidateName(strings.Repeat("a", MaxNameLength+1)); !errors.Is(err, ErrInvalidName) {
			t.Fatalf("expected ErrInvalidName, got %v", err)
		}
	})
}

func TestValidateColor(t *testing.T) {
	t.Parallel()

	for _, ok := range []string{"", "#A1b2C3"} {
		if err := ValidateColor(ok); err != nil {
			t.Fatalf("expected %q to be valid, got %v", ok, err)
		}
	}
	for _, bad := range []string{"red", "#fff", "#12345g"} {
		if err := ValidateColor(bad); !errors.Is(err, ErrInvalidColor) {
			t.Fatalf("expected ErrInvalidColor for %q, got %v", bad, err)
		}
	}
}

func TestAccount_ValidateAndLabel(t *testing.T) {
	t.Parallel()

	acc := &Account{Name: "Checking", Type: AccountTypeChecking, Last4Digits: "1234", Institution: "Chase"}
	if err := acc.Validate(); err != nil {
		t.Fatalf("expected valid account, got %v", err)
	}
	if got := acc.Label(); got != "Chase Checking ••1234" {
		t.Fatalf("unexpected label %q", got)
	}

	acc.Last4Digits = "12a4"
	if err := acc.Validate(); !errors.Is(err, ErrInvalidLast4) {
		t.Fatalf("expected ErrInvalidLast4, got %v", err)
	}

	acc.Last4Digits = ""
	acc.Type = "brokerage"
	if err := acc.Validate(); !errors.Is(err, ErrInvalidAccountType) {
		t.Fatalf("expected ErrInvalidAccountType, got %v", err)
	}
}

func TestValidateAmount(t *testing.T) {
	t.Parallel()

	if err := ValidateAmount(decimal.NewFromInt(0)); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}

	if err := ValidateAmount(decimal.RequireFromString("10.005")); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for a fraction of a cent, got %v", err)
	}
	if err := ValidateAmount(decimal.RequireFromString("10.500")); err != nil {
		t.Fatalf("expected whole cents to pass, got %v", err)
	}

	tooLarge := decimal.RequireFromString(MaxAmount).Add(decimal.NewFromInt(1))
	if err := ValidateAmount(tooLarge); !errors.Is(err, ErrAmountTooLarge) {
		t.Fatalf("expected ErrAmountTooLarge, got %v", err)
	}
}

func TestValidatePagination(t *testing.T) {
	t.Parallel()

	limit, offset, err := ValidatePagination(-1, -5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if limit != 50 || offset != 0 {
		t.Fatalf("expected defaults, got limit=%d offset=%d", limit, offset)
	}

	limit, _, _ = ValidatePagination(5000, 0)
	if limit != 1000 {
		t.Fatalf("expected limit capped to 1000, got %d", limit)
	}
}
