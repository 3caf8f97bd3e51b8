// backend/src/security/validation/field_validator_test.go
package validation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/username/patrimonio/backend/src/models"
)

func d(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func TestValidateName(t *testing.T) {
	cleaned, err := ValidateName("  Vanguard FTSE All-World  ")
	assert.NoError(t, err)
	assert.Equal(t, "Vanguard FTSE All-World", cleaned)

	_, err = ValidateName("   ")
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = ValidateName("<script>alert(1)</script>")
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestValidatePaymentSchedule(t *testing.T) {
	tests := []struct {
		name     string
		schedule models.PaymentSchedule
		wantErr  bool
	}{
		{
			name:     "valid monthly",
			schedule: models.PaymentSchedule{Frequency: models.FrequencyMonthly, Amount: d("100")},
		},
		{
			name:     "valid custom",
			schedule: models.PaymentSchedule{Frequency: models.FrequencyCustom, Amount: d("50"), Months: []int{3, 9}, CustomAmounts: map[int]decimal.Decimal{9: d("75")}},
		},
		{
			name:     "unknown frequency",
			schedule: models.PaymentSchedule{Frequency: "weekly", Amount: d("10")},
			wantErr:  true,
		},
		{
			name:     "negative amount",
			schedule: models.PaymentSchedule{Frequency: models.FrequencyMonthly, Amount: d("-1")},
			wantErr:  true,
		},
		{
			name:     "month out of range",
			schedule: models.PaymentSchedule{Frequency: models.FrequencyQuarterly, Amount: d("10"), Months: []int{13}},
			wantErr:  true,
		},
		{
			name:     "negative custom amount",
			schedule: models.PaymentSchedule{Frequency: models.FrequencyCustom, Amount: d("10"), Months: []int{6}, CustomAmounts: map[int]decimal.Decimal{6: d("-5")}},
			wantErr:  true,
		},
		{
			name:     "custom amounts on non-custom frequency",
			schedule: models.PaymentSchedule{Frequency: models.FrequencyMonthly, Amount: d("10"), CustomAmounts: map[int]decimal.Decimal{6: d("5")}},
			wantErr:  true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePaymentSchedule(tc.schedule)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrValidationFailed)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateTransactionType(t *testing.T) {
	assert.NoError(t, ValidateTransactionType(models.TransactionBuy))
	assert.NoError(t, ValidateTransactionType(models.TransactionSell))
	assert.ErrorIs(t, ValidateTransactionType("HOLD"), ErrValidationFailed)
}

func TestValidateAmount(t *testing.T) {
	assert.NoError(t, ValidateAmount("price", d("0")))
	assert.ErrorIs(t, ValidateAmount("price", d("-0.01")), ErrValidationFailed)
}
