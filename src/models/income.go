package models

import "github.com/shopspring/decimal"

// AssetIncome is the memoized per-asset income figure derived from the
// asset's dividend schedule. MonthlyBreakdown maps calendar month (1..12) to
// the amount paid in that month. CacheHit reports whether the value came from
// the income cache rather than a fresh computation.
type AssetIncome struct {
	MonthlyAmount    decimal.Decimal         `json:"monthly_amount"`
	AnnualAmount     decimal.Decimal         `json:"annual_amount"`
	MonthlyBreakdown map[int]decimal.Decimal `json:"monthly_breakdown"`
	CacheHit         bool                    `json:"cache_hit"`
}
