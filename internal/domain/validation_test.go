package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateCurrency(t *testing.T) {
	t.Parallel()

	if err := ValidateCurrency("usd"); err != nil {
		t.Fatalf("expected uppercase conversion to succeed, got %v", err)
	}

	if err := ValidateCurrency(" jpy "); err != nil {
		t.Fatalf("expected trimmed code to succeed, got %v", err)
	}

	for _, code := range []string{"XYZ", "", "EURO", "US"} {
		if err := ValidateCurrency(code); !errors.Is(err, ErrInvalidCurrency) {
			t.Fatalf("expected ErrInvalidCurrency for %q, got %v", code, err)
		}
	}
}

func TestValidateAmount(t *testing.T) {
	t.Parallel()

	if err := ValidateAmount(decimal.NewFromFloat(100.25)); err != nil {
		t.Fatalf("expected valid amount, got %v", err)
	}

	if err := ValidateAmount(decimal.Zero); err != nil {
		t.Fatalf("expected zero to be allowed, got %v", err)
	}

	if err := ValidateAmount(decimal.NewFromInt(-1)); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}

	tooLarge, _ := decimal.NewFromString(MaxExpenseAmount)
	if err := ValidateAmount(tooLarge.Add(decimal.NewFromInt(1))); !errors.Is(err, ErrAmountTooLarge) {
		t.Fatalf("expected ErrAmountTooLarge, got %v", err)
	}
}

func TestValidateDescription(t *testing.T) {
	t.Parallel()

	if err := ValidateDescription("Museum tickets"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := ValidateDescription("   "); !errors.Is(err, ErrInvalidDescription) {
		t.Fatalf("expected ErrInvalidDescription, got %v", err)
	}

	if err := ValidateDescription(strings.Repeat("a", MaxDescriptionLength+1)); !errors.Is(err, ErrInvalidDescription) {
		t.Fatalf("expected ErrInvalidDescription, got %v", err)
	}
}

func TestValidateID(t *testing.T) {
	t.Parallel()

	if err := ValidateID("01HZX3"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := ValidateID(""); !errors.Is(err, ErrInvalidIDFormat) {
		t.Fatalf("expected ErrInvalidIDFormat, got %v", err)
	}

	if err := ValidateID(strings.Repeat("x", MaxIDLength+1)); !errors.Is(err, ErrInvalidIDFormat) {
		t.Fatalf("expected ErrInvalidIDFormat, got %v", err)
	}
}
