// backend/src/services/interfaces.go
package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/username/patrimonio/backend/src/models"
)

// Define common service errors
var (
	// ErrHistoryUnavailable is returned when a valuation timeline is
	// requested before any snapshot has been computed. The caller decides
	// how to message it; the services never retry internally.
	ErrHistoryUnavailable = errors.New("portfolio history not available")
)

// KVStore is the injected key-value cache abstraction used to memoize
// computed results. Implementations must support concurrent read/insert;
// last writer wins on colliding keys, which is benign because all writers
// for the same key compute the same value.
type KVStore interface {
	Get(key string) (any, bool)
	Set(key string, value any)
	Remove(key string)
	Clear()
}

// ValuationService replays asset transactions against historical price data
// to reconstruct and serve the day-by-day net-worth timeline.
type ValuationService interface {
	// BuildHistory computes one PortfolioHistoryDay per calendar date from
	// startDate to endDate inclusive. It is pure over its inputs: no I/O,
	// deterministic, safe to invoke concurrently.
	BuildHistory(positions []models.PortfolioPosition, liabilitiesTotal decimal.Decimal, startDate, endDate time.Time) []models.PortfolioHistoryDay

	// RebuildHistory recalculates the user's snapshot series over the
	// configured window and persists it, replacing any previous series.
	RebuildHistory(userID int64) error

	// GetHistoryChart returns the stored timeline, or ErrHistoryUnavailable
	// when no snapshots exist yet.
	GetHistoryChart(userID int64) ([]models.PortfolioHistoryDay, error)

	// GetNetWorth computes the current aggregate figures.
	GetNetWorth(userID int64) (*models.NetWorthSummary, error)

	// InvalidateUserCache drops the user's memoized chart reads. Call it
	// after any mutation that affects valuations.
	InvalidateUserCache(userID int64)
}

// IncomeService memoizes per-asset income figures derived from dividend
// schedules, keyed by a content fingerprint of the asset's income-relevant
// fields.
type IncomeService interface {
	// GetOrCompute returns the cached income for the asset's fingerprint, or
	// invokes compute, stores the result and returns it. CacheHit reports
	// which path was taken.
	GetOrCompute(asset *models.AssetDefinition, compute func() (models.AssetIncome, error)) (models.AssetIncome, error)

	// AssetIncome is the standard computation: the asset's dividend schedule
	// normalized to monthly/annual amounts with a per-month breakdown.
	AssetIncome(asset *models.AssetDefinition) (models.AssetIncome, error)

	// ClearCache drops all memoized entries. There is no partial
	// invalidation; a mutated asset simply fingerprints to a new key.
	ClearCache()
}

// CashflowService aggregates recurring incomes and expenses into the
// dashboard's monthly/annual equivalent totals.
type CashflowService interface {
	Summary(userID int64) (*models.CashflowSummary, error)
	InvalidateUserCache(userID int64)
}
