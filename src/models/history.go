package models

import "github.com/shopspring/decimal"

// PortfolioHistoryDay is one day of the reconstructed net-worth timeline.
// Dates use the YYYY-MM-DD format. The series is derived output, regenerated
// wholesale on each rebuild, never mutated incrementally.
type PortfolioHistoryDay struct {
	Date             string          `json:"date"`
	Value            decimal.Decimal `json:"value"`
	Change           decimal.Decimal `json:"change"`
	ChangePercentage decimal.Decimal `json:"change_percentage"`
}

// NetWorthSummary holds the current aggregate figures for the dashboard.
type NetWorthSummary struct {
	TotalAssetValue  decimal.Decimal `json:"total_asset_value"`
	LiabilitiesTotal decimal.Decimal `json:"liabilities_total"`
	NetWorth         decimal.Decimal `json:"net_worth"`
}
