// backend/src/security/validation/field_validator.go
package validation

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/username/patrimonio/backend/src/models"
)

// ErrValidationFailed wraps every user-input rejection so handlers can map
// it to a 400 uniformly.
var ErrValidationFailed = errors.New("validation failed")

const maxNameLength = 120

// ValidateName sanitizes and checks a user-supplied display name.
func ValidateName(name string) (string, error) {
	cleaned := SanitizeText(name)
	if cleaned == "" {
		return "", fmt.Errorf("%w: name cannot be empty", ErrValidationFailed)
	}
	if len(cleaned) > maxNameLength {
		return "", fmt.Errorf("%w: name exceeds %d characters", ErrValidationFailed, maxNameLength)
	}
	return cleaned, nil
}

// ValidatePaymentSchedule enforces the invariants the calculation engine
// assumes: a known frequency, non-negative amounts and months within 1..12.
// The engine itself only double-checks these defensively; this is the layer
// that turns bad input into a user-facing error.
func ValidatePaymentSchedule(schedule models.PaymentSchedule) error {
	if !models.ValidFrequency(schedule.Frequency) {
		return fmt.Errorf("%w: unknown frequency %q", ErrValidationFailed, schedule.Frequency)
	}
	if schedule.Amount.IsNegative() {
		return fmt.Errorf("%w: amount cannot be negative", ErrValidationFailed)
	}
	for _, month := range schedule.Months {
		if month < 1 || month > 12 {
			return fmt.Errorf("%w: month %d out of range 1..12", ErrValidationFailed, month)
		}
	}
	for month, amount := range schedule.CustomAmounts {
		if month < 1 || month > 12 {
			return fmt.Errorf("%w: custom amount month %d out of range 1..12", ErrValidationFailed, month)
		}
		if amount.IsNegative() {
			return fmt.Errorf("%w: custom amount for month %d cannot be negative", ErrValidationFailed, month)
		}
	}
	if schedule.Frequency != models.FrequencyCustom && len(schedule.CustomAmounts) > 0 {
		return fmt.Errorf("%w: custom amounts are only allowed with the custom frequency", ErrValidationFailed)
	}
	return nil
}

// ValidateTransactionType checks the buy/sell enum.
func ValidateTransactionType(t models.TransactionType) error {
	if t != models.TransactionBuy && t != models.TransactionSell {
		return fmt.Errorf("%w: transaction type must be BUY or SELL", ErrValidationFailed)
	}
	return nil
}

// ValidateAmount rejects negative monetary input.
func ValidateAmount(field string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: %s cannot be negative", ErrValidationFailed, field)
	}
	return nil
}
