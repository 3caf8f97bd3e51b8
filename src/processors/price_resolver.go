// backend/src/processors/price_resolver.go
package processors

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/username/patrimonio/backend/src/models"
)

type priceResolverImpl struct{}

func NewPriceResolver() PriceResolver {
	return &priceResolverImpl{}
}

// ResolvePrice walks the fallback chain: exact date match, then the most
// recent point strictly before the target date, then the asset's current
// price, then zero. When several points share a date, the last one in input
// order wins. History is scanned as supplied; no sorting of the input slice.
func (r *priceResolverImpl) ResolvePrice(history []models.PriceHistoryPoint, date time.Time, currentPrice *decimal.Decimal) decimal.Decimal {
	target := DayOf(date)

	var (
		exact      decimal.Decimal
		exactFound bool
		prior      decimal.Decimal
		priorDate  time.Time
		priorFound bool
	)

	for _, point := range history {
		day := DayOf(point.Date)
		if day.Equal(target) {
			exact = point.Price
			exactFound = true
			continue
		}
		if day.Before(target) {
			// >= keeps the later of two points sharing the same prior date.
			if !priorFound || !day.Before(priorDate) {
				prior = point.Price
				priorDate = day
				priorFound = true
			}
		}
	}

	if exactFound {
		return exact
	}
	if priorFound {
		return prior
	}
	if currentPrice != nil {
		return *currentPrice
	}
	return decimal.Zero
}
