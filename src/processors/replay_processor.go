// backend/src/processors/replay_processor.go
package processors

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/username/patrimonio/backend/src/models"
)

type replayProcessorImpl struct{}

func NewReplayProcessor() ReplayProcessor {
	return &replayProcessorImpl{}
}

// QuantityAsOf nets all buys and sells dated on or before the target date.
// The sum is order-independent, so same-day transactions need no tie-break.
// Sells exceeding buys yield a negative quantity; keeping the data faithful
// is preferred over clamping here, the CRUD layer owns that invariant.
func (r *replayProcessorImpl) QuantityAsOf(transactions []models.AssetTransaction, date time.Time) decimal.Decimal {
	target := DayOf(date)

	total := decimal.Zero
	for _, tx := range transactions {
		if DayOf(tx.PurchaseDate).After(target) {
			continue
		}
		switch tx.TransactionType {
		case models.TransactionBuy:
			total = total.Add(tx.Quantity)
		case models.TransactionSell:
			total = total.Sub(tx.Quantity)
		}
	}
	return total
}
