// backend/src/processors/interfaces.go
package processors

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/username/patrimonio/backend/src/models"
)

// ErrInvalidSchedule marks a payment schedule that should have been rejected
// by the validation layer (negative amounts, unknown frequency). It is a
// programming error when it reaches the processors, not a user-facing one.
var ErrInvalidSchedule = errors.New("invalid payment schedule")

// ScheduleProcessor normalizes heterogeneous payment schedules into
// comparable monthly/annual cash-flow figures.
type ScheduleProcessor interface {
	// Normalize converts a schedule into its monthly amount, annual amount
	// and the set of calendar months that receive a payment.
	Normalize(schedule models.PaymentSchedule) (models.NormalizedSchedule, error)

	// Breakdown returns the amount paid in each calendar month (1..12).
	// Months without a payment are absent from the map.
	Breakdown(schedule models.PaymentSchedule) (map[int]decimal.Decimal, error)
}

// PriceResolver resolves the effective price of an asset on a given date from
// its sparse price history.
type PriceResolver interface {
	// ResolvePrice returns the price for the target date: an exact match if
	// one exists, otherwise the most recent prior point, otherwise the
	// asset's current price, otherwise zero.
	ResolvePrice(history []models.PriceHistoryPoint, date time.Time, currentPrice *decimal.Decimal) decimal.Decimal
}

// ReplayProcessor reconstructs point-in-time held quantities from buy/sell
// transactions.
type ReplayProcessor interface {
	// QuantityAsOf sums the signed quantities of all transactions dated on or
	// before the target date. The result may be negative when recorded sells
	// exceed buys; no clamping is applied.
	QuantityAsOf(transactions []models.AssetTransaction, date time.Time) decimal.Decimal
}
