package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidAmount      = errors.New("amount must not be negative")
	ErrAmountTooLarge     = errors.New("amount exceeds maximum allowed")
	ErrInvalidCurrency    = errors.New("invalid currency code")
	ErrInvalidStatus      = errors.New("invalid lifecycle status")
	ErrInvalidSplitPolicy = errors.New("invalid split policy")
	ErrInvalidDescription = errors.New("invalid description")
	ErrInvalidIDFormat    = errors.New("invalid ID format")
)

// Validation constants
const (
	MaxDescriptionLength = 255
	MaxExpenseAmount     = "1000000000" // 1 billion
	MaxIDLength          = 64
)

// NormalizeCurrency upper-cases and trims a currency code.
func NormalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidateCurrency checks the code against the ISO 4217 table.
func ValidateCurrency(code string) error {
	code = NormalizeCurrency(code)

	if len(code) != 3 || money.GetCurrency(code) == nil {
		return fmt.Errorf("%w: %q is not a valid ISO 4217 currency code", ErrInvalidCurrency, code)
	}

	return nil
}

// ValidateAmount rejects negative and oversized amounts. Zero is allowed.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrInvalidAmount
	}

	maxAmount, _ := decimal.NewFromString(MaxExpenseAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxExpenseAmount)
	}

	return nil
}

// ValidateDescription validates a free-text label.
func ValidateDescription(description string) error {
	description = strings.TrimSpace(description)

	if description == "" {
		return fmt.Errorf("%w: description cannot be empty", ErrInvalidDescription)
	}

	if len(description) > MaxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrInvalidDescription, MaxDescriptionLength)
	}

	return nil
}

// ValidateID validates an identifier received from a caller.
func ValidateID(id string) error {
	id = strings.TrimSpace(id)

	if id == "" || len(id) > MaxIDLength {
		return ErrInvalidIDFormat
	}

	return nil
}
