package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/patrimonio/backend/src/models"
	"github.com/username/patrimonio/backend/src/processors"
)

func newTestIncomeService(store KVStore) IncomeService {
	return NewIncomeService(processors.NewScheduleProcessor(), store)
}

func dividendAsset(id int64, schedule *models.PaymentSchedule) *models.AssetDefinition {
	return &models.AssetDefinition{ID: id, Name: "Dividend stock", DividendSchedule: schedule}
}

func TestIncomeService_GetOrCompute_MissThenHit(t *testing.T) {
	store := newMemoryStore()
	svc := newTestIncomeService(store)

	asset := dividendAsset(1, &models.PaymentSchedule{
		Frequency: models.FrequencyQuarterly,
		Amount:    d("25"),
	})

	first, err := svc.AssetIncome(asset)
	require.NoError(t, err)
	assert.False(t, first.CacheHit)

	second, err := svc.AssetIncome(asset)
	require.NoError(t, err)
	assert.True(t, second.CacheHit)

	assert.True(t, first.MonthlyAmount.Equal(second.MonthlyAmount))
	assert.True(t, first.AnnualAmount.Equal(second.AnnualAmount))
	assert.True(t, first.AnnualAmount.Equal(d("100")))
}

func TestIncomeService_GetOrCompute_ComputesOnce(t *testing.T) {
	svc := newTestIncomeService(newMemoryStore())
	asset := dividendAsset(1, &models.PaymentSchedule{Frequency: models.FrequencyMonthly, Amount: d("10")})

	calls := 0
	compute := func() (models.AssetIncome, error) {
		calls++
		return models.AssetIncome{
			MonthlyAmount:    d("10"),
			AnnualAmount:     d("120"),
			MonthlyBreakdown: map[int]decimal.Decimal{},
		}, nil
	}

	_, err := svc.GetOrCompute(asset, compute)
	require.NoError(t, err)
	_, err = svc.GetOrCompute(asset, compute)
	require.NoError(t, err)

	assert.Equal(t, 1, calls, "second call must be served from the cache")
}

func TestIncomeService_FingerprintChangesOnScheduleEdit(t *testing.T) {
	store := newMemoryStore()
	svc := newTestIncomeService(store)

	asset := dividendAsset(1, &models.PaymentSchedule{Frequency: models.FrequencyMonthly, Amount: d("10")})
	first, err := svc.AssetIncome(asset)
	require.NoError(t, err)
	assert.False(t, first.CacheHit)

	// Editing an income-relevant field produces a new fingerprint; the old
	// entry is orphaned, not updated.
	asset.DividendSchedule.Amount = d("20")
	second, err := svc.AssetIncome(asset)
	require.NoError(t, err)
	assert.False(t, second.CacheHit)
	assert.True(t, second.AnnualAmount.Equal(d("240")))
	assert.Equal(t, 2, store.len(), "the stale entry stays until ClearCache")
}

func TestIncomeService_ClearCache(t *testing.T) {
	store := newMemoryStore()
	svc := newTestIncomeService(store)

	asset := dividendAsset(1, &models.PaymentSchedule{Frequency: models.FrequencyAnnually, Amount: d("60"), Months: []int{6}})

	_, err := svc.AssetIncome(asset)
	require.NoError(t, err)

	svc.ClearCache()
	assert.Zero(t, store.len())

	income, err := svc.AssetIncome(asset)
	require.NoError(t, err)
	assert.False(t, income.CacheHit, "cleared cache recomputes")
}

func TestIncomeService_AssetIncome_Breakdown(t *testing.T) {
	svc := newTestIncomeService(newMemoryStore())

	asset := dividendAsset(1, &models.PaymentSchedule{
		Frequency:     models.FrequencyCustom,
		Amount:        d("100"),
		Months:        []int{3, 9},
		CustomAmounts: map[int]decimal.Decimal{9: d("150")},
	})

	income, err := svc.AssetIncome(asset)
	require.NoError(t, err)

	assert.True(t, income.AnnualAmount.Equal(d("250")))
	assert.True(t, income.MonthlyAmount.Equal(d("250").Div(decimal.NewFromInt(12))))
	require.Len(t, income.MonthlyBreakdown, 2)
	assert.True(t, income.MonthlyBreakdown[3].Equal(d("100")))
	assert.True(t, income.MonthlyBreakdown[9].Equal(d("150")))
}

func TestIncomeService_AssetIncome_NoSchedule(t *testing.T) {
	svc := newTestIncomeService(newMemoryStore())

	income, err := svc.AssetIncome(&models.AssetDefinition{ID: 7, Name: "Cash"})
	require.NoError(t, err)

	assert.True(t, income.MonthlyAmount.IsZero())
	assert.True(t, income.AnnualAmount.IsZero())
	assert.Empty(t, income.MonthlyBreakdown)
}

func TestIncomeService_InvalidScheduleSurfaces(t *testing.T) {
	svc := newTestIncomeService(newMemoryStore())

	asset := dividendAsset(1, &models.PaymentSchedule{Frequency: models.FrequencyMonthly, Amount: d("-1")})

	_, err := svc.AssetIncome(asset)
	require.Error(t, err)
	assert.ErrorIs(t, err, processors.ErrInvalidSchedule)
}
