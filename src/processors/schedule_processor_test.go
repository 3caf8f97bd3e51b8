package processors

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/patrimonio/backend/src/models"
)

func d(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func TestScheduleProcessor_Normalize(t *testing.T) {
	twelve := decimal.NewFromInt(12)

	tests := []struct {
		name         string
		schedule     models.PaymentSchedule
		wantMonthly  decimal.Decimal
		wantAnnual   decimal.Decimal
		wantMonths   []int
		wantErr      bool
	}{
		{
			name:        "none frequency is all zero",
			schedule:    models.PaymentSchedule{Frequency: models.FrequencyNone, Amount: d("500")},
			wantMonthly: decimal.Zero,
			wantAnnual:  decimal.Zero,
			wantMonths:  []int{},
		},
		{
			name:        "monthly pays every month",
			schedule:    models.PaymentSchedule{Frequency: models.FrequencyMonthly, Amount: d("100")},
			wantMonthly: d("100"),
			wantAnnual:  d("1200"),
			wantMonths:  []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12},
		},
		{
			name:        "quarterly with explicit months",
			schedule:    models.PaymentSchedule{Frequency: models.FrequencyQuarterly, Amount: d("300"), Months: []int{1, 4, 7, 10}},
			wantMonthly: d("1200").Div(twelve),
			wantAnnual:  d("1200"),
			wantMonths:  []int{1, 4, 7, 10},
		},
		{
			name:        "quarterly defaults to march june september december",
			schedule:    models.PaymentSchedule{Frequency: models.FrequencyQuarterly, Amount: d("250")},
			wantMonthly: d("1000").Div(twelve),
			wantAnnual:  d("1000"),
			wantMonths:  []int{3, 6, 9, 12},
		},
		{
			name:        "annually with a paying month",
			schedule:    models.PaymentSchedule{Frequency: models.FrequencyAnnually, Amount: d("1200"), Months: []int{6}},
			wantMonthly: d("100"),
			wantAnnual:  d("1200"),
			wantMonths:  []int{6},
		},
		{
			name:        "annually without months yields empty paying set",
			schedule:    models.PaymentSchedule{Frequency: models.FrequencyAnnually, Amount: d("600")},
			wantMonthly: d("50"),
			wantAnnual:  d("600"),
			wantMonths:  []int{},
		},
		{
			name: "custom with per month override",
			schedule: models.PaymentSchedule{
				Frequency:     models.FrequencyCustom,
				Amount:        d("100"),
				Months:        []int{3, 9},
				CustomAmounts: map[int]decimal.Decimal{9: d("150")},
			},
			wantMonthly: d("250").Div(twelve),
			wantAnnual:  d("250"),
			wantMonths:  []int{3, 9},
		},
		{
			name: "custom months are deduplicated and sorted",
			schedule: models.PaymentSchedule{
				Frequency: models.FrequencyCustom,
				Amount:    d("10"),
				Months:    []int{12, 6, 6, 13, 0},
			},
			wantMonthly: d("20").Div(twelve),
			wantAnnual:  d("20"),
			wantMonths:  []int{6, 12},
		},
		{
			name:     "negative amount fails fast",
			schedule: models.PaymentSchedule{Frequency: models.FrequencyMonthly, Amount: d("-1")},
			wantErr:  true,
		},
		{
			name: "negative custom amount fails fast",
			schedule: models.PaymentSchedule{
				Frequency:     models.FrequencyCustom,
				Amount:        d("100"),
				Months:        []int{3},
				CustomAmounts: map[int]decimal.Decimal{3: d("-5")},
			},
			wantErr: true,
		},
		{
			name:     "unknown frequency fails fast",
			schedule: models.PaymentSchedule{Frequency: "weekly", Amount: d("10")},
			wantErr:  true,
		},
	}

	processor := NewScheduleProcessor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := processor.Normalize(tt.schedule)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidSchedule)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.MonthlyAmount.Equal(tt.wantMonthly), "monthly: got %s want %s", got.MonthlyAmount, tt.wantMonthly)
			assert.True(t, got.AnnualAmount.Equal(tt.wantAnnual), "annual: got %s want %s", got.AnnualAmount, tt.wantAnnual)
			assert.Equal(t, tt.wantMonths, got.PayingMonths)
		})
	}
}

func TestScheduleProcessor_Breakdown(t *testing.T) {
	processor := NewScheduleProcessor()

	t.Run("custom schedule uses overrides where present", func(t *testing.T) {
		breakdown, err := processor.Breakdown(models.PaymentSchedule{
			Frequency:     models.FrequencyCustom,
			Amount:        d("100"),
			Months:        []int{3, 9},
			CustomAmounts: map[int]decimal.Decimal{9: d("150")},
		})
		require.NoError(t, err)
		require.Len(t, breakdown, 2)
		assert.True(t, breakdown[3].Equal(d("100")))
		assert.True(t, breakdown[9].Equal(d("150")))
	})

	t.Run("monthly schedule pays the same amount every month", func(t *testing.T) {
		breakdown, err := processor.Breakdown(models.PaymentSchedule{
			Frequency: models.FrequencyMonthly,
			Amount:    d("42"),
		})
		require.NoError(t, err)
		require.Len(t, breakdown, 12)
		for month := 1; month <= 12; month++ {
			assert.True(t, breakdown[month].Equal(d("42")), "month %d", month)
		}
	})

	t.Run("none schedule has no payments", func(t *testing.T) {
		breakdown, err := processor.Breakdown(models.PaymentSchedule{Frequency: models.FrequencyNone})
		require.NoError(t, err)
		assert.Empty(t, breakdown)
	})
}

func TestNormalizedSchedule_PaysInMonth(t *testing.T) {
	processor := NewScheduleProcessor()
	normalized, err := processor.Normalize(models.PaymentSchedule{
		Frequency: models.FrequencyQuarterly,
		Amount:    d("100"),
	})
	require.NoError(t, err)

	assert.True(t, normalized.PaysInMonth(3))
	assert.False(t, normalized.PaysInMonth(4))
}
