// backend/src/services/income_service.go
package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/username/patrimonio/backend/src/models"
	"github.com/username/patrimonio/backend/src/processors"
)

const ckAssetIncome = "dividend_income_%s"

type incomeServiceImpl struct {
	schedules processors.ScheduleProcessor
	store     KVStore
}

// NewIncomeService builds the per-asset income memo service on top of the
// schedule processor and an injected KV store.
func NewIncomeService(schedules processors.ScheduleProcessor, store KVStore) IncomeService {
	return &incomeServiceImpl{schedules: schedules, store: store}
}

func (s *incomeServiceImpl) GetOrCompute(asset *models.AssetDefinition, compute func() (models.AssetIncome, error)) (models.AssetIncome, error) {
	key := fmt.Sprintf(ckAssetIncome, fingerprintAsset(asset))

	if cached, found := s.store.Get(key); found {
		income := cached.(models.AssetIncome)
		income.CacheHit = true
		return income, nil
	}

	income, err := compute()
	if err != nil {
		return models.AssetIncome{}, err
	}
	income.CacheHit = false

	// Stored without the hit flag so concurrent writers stay equivalent.
	s.store.Set(key, income)
	return income, nil
}

func (s *incomeServiceImpl) AssetIncome(asset *models.AssetDefinition) (models.AssetIncome, error) {
	return s.GetOrCompute(asset, func() (models.AssetIncome, error) {
		if asset.DividendSchedule == nil {
			return models.AssetIncome{
				MonthlyAmount:    decimal.Zero,
				AnnualAmount:     decimal.Zero,
				MonthlyBreakdown: map[int]decimal.Decimal{},
			}, nil
		}

		normalized, err := s.schedules.Normalize(*asset.DividendSchedule)
		if err != nil {
			return models.AssetIncome{}, err
		}
		breakdown, err := s.schedules.Breakdown(*asset.DividendSchedule)
		if err != nil {
			return models.AssetIncome{}, err
		}

		return models.AssetIncome{
			MonthlyAmount:    normalized.MonthlyAmount,
			AnnualAmount:     normalized.AnnualAmount,
			MonthlyBreakdown: breakdown,
		}, nil
	})
}

func (s *incomeServiceImpl) ClearCache() {
	s.store.Clear()
}

// fingerprintAsset hashes the income-relevant fields of the asset. Any edit
// to those fields produces a new key; stale entries are never looked up
// again and are only reclaimed by ClearCache or store expiry.
func fingerprintAsset(asset *models.AssetDefinition) string {
	var b strings.Builder
	fmt.Fprintf(&b, "asset:%d;", asset.ID)

	if schedule := asset.DividendSchedule; schedule != nil {
		fmt.Fprintf(&b, "freq:%s;amount:%s;", schedule.Frequency, schedule.Amount)

		months := append([]int(nil), schedule.Months...)
		sort.Ints(months)
		fmt.Fprintf(&b, "months:%v;", months)

		customMonths := make([]int, 0, len(schedule.CustomAmounts))
		for month := range schedule.CustomAmounts {
			customMonths = append(customMonths, month)
		}
		sort.Ints(customMonths)
		for _, month := range customMonths {
			fmt.Fprintf(&b, "custom:%d=%s;", month, schedule.CustomAmounts[month])
		}
	}

	hash := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(hash[:])
}
