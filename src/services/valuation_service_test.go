package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/patrimonio/backend/src/models"
	"github.com/username/patrimonio/backend/src/processors"
)

func newTestValuationService() ValuationService {
	return NewValuationService(
		nil, // BuildHistory is pure; no database needed here
		processors.NewPriceResolver(),
		processors.NewReplayProcessor(),
		newMemoryStore(),
		30,
		discardLogger(),
	)
}

func position(asset *models.AssetDefinition, transactions ...models.AssetTransaction) models.PortfolioPosition {
	return models.PortfolioPosition{AssetDefinition: asset, Transactions: transactions}
}

func buyTx(date, quantity string) models.AssetTransaction {
	return models.AssetTransaction{
		PurchaseDate:    day(date),
		Quantity:        d(quantity),
		TransactionType: models.TransactionBuy,
	}
}

func TestValuationService_BuildHistory_ConstantPrice(t *testing.T) {
	svc := newTestValuationService()

	asset := &models.AssetDefinition{
		ID:   1,
		Name: "World ETF",
		PriceHistory: []models.PriceHistoryPoint{
			{Date: day("2024-01-01"), Price: d("100")},
		},
	}
	positions := []models.PortfolioPosition{
		position(asset, buyTx("2024-01-01", "1")),
	}

	days := svc.BuildHistory(positions, decimal.Zero, day("2024-01-01"), day("2024-01-03"))

	require.Len(t, days, 3)
	for i, dayResult := range days {
		assert.True(t, dayResult.Value.Equal(d("100")), "day %d value: got %s", i, dayResult.Value)
		assert.True(t, dayResult.Change.IsZero(), "day %d change: got %s", i, dayResult.Change)
		assert.True(t, dayResult.ChangePercentage.IsZero(), "day %d pct: got %s", i, dayResult.ChangePercentage)
	}
	assert.Equal(t, "2024-01-01", days[0].Date)
	assert.Equal(t, "2024-01-03", days[2].Date)
}

func TestValuationService_BuildHistory_PriceJump(t *testing.T) {
	svc := newTestValuationService()

	asset := &models.AssetDefinition{
		ID:   1,
		Name: "Tech stock",
		PriceHistory: []models.PriceHistoryPoint{
			{Date: day("2024-01-01"), Price: d("100")},
			{Date: day("2024-01-02"), Price: d("110")},
		},
	}
	positions := []models.PortfolioPosition{
		position(asset, buyTx("2024-01-01", "1")),
	}

	days := svc.BuildHistory(positions, decimal.Zero, day("2024-01-01"), day("2024-01-02"))

	require.Len(t, days, 2)
	assert.True(t, days[0].Value.Equal(d("100")))
	assert.True(t, days[1].Value.Equal(d("110")))
	assert.True(t, days[1].Change.Equal(d("10")), "change: got %s", days[1].Change)
	assert.True(t, days[1].ChangePercentage.Equal(d("10")), "pct: got %s", days[1].ChangePercentage)
}

func TestValuationService_BuildHistory_NoPositions(t *testing.T) {
	svc := newTestValuationService()

	days := svc.BuildHistory(nil, d("250"), day("2024-01-01"), day("2024-01-03"))

	require.Len(t, days, 3, "absence of assets is valid state, not an error")
	for _, dayResult := range days {
		assert.True(t, dayResult.Value.Equal(d("-250")), "liabilities-only series: got %s", dayResult.Value)
		assert.True(t, dayResult.Change.IsZero())
		// Previous net worth is non-zero from day two on, but the series is
		// flat so the percentage stays zero.
		assert.True(t, dayResult.ChangePercentage.IsZero())
	}
}

func TestValuationService_BuildHistory_LiabilitiesAppliedEveryDay(t *testing.T) {
	svc := newTestValuationService()

	asset := &models.AssetDefinition{
		ID:           1,
		Name:         "Apartment",
		CurrentPrice: decimalPtr(d("200000")),
	}
	positions := []models.PortfolioPosition{
		position(asset, buyTx("2023-06-01", "1")),
	}

	days := svc.BuildHistory(positions, d("150000"), day("2024-01-01"), day("2024-01-02"))

	require.Len(t, days, 2)
	for _, dayResult := range days {
		assert.True(t, dayResult.Value.Equal(d("50000")), "got %s", dayResult.Value)
	}
}

func TestValuationService_BuildHistory_CurrentPriceFallback(t *testing.T) {
	svc := newTestValuationService()

	// No price history at all: real estate style asset priced by
	// CurrentPrice on every day of the range.
	asset := &models.AssetDefinition{ID: 1, Name: "House", CurrentPrice: decimalPtr(d("300000"))}
	positions := []models.PortfolioPosition{
		position(asset, buyTx("2020-01-01", "1")),
	}

	days := svc.BuildHistory(positions, decimal.Zero, day("2024-01-01"), day("2024-01-01"))

	require.Len(t, days, 1)
	assert.True(t, days[0].Value.Equal(d("300000")))
}

func TestValuationService_BuildHistory_SkipsInvalidPosition(t *testing.T) {
	svc := newTestValuationService()

	good := &models.AssetDefinition{ID: 1, Name: "ETF", CurrentPrice: decimalPtr(d("10"))}
	positions := []models.PortfolioPosition{
		{AssetDefinition: nil, Transactions: []models.AssetTransaction{buyTx("2024-01-01", "5")}},
		position(good, buyTx("2024-01-01", "2")),
	}

	days := svc.BuildHistory(positions, decimal.Zero, day("2024-01-01"), day("2024-01-01"))

	require.Len(t, days, 1, "a bad position must not abort the run")
	assert.True(t, days[0].Value.Equal(d("20")), "only the valid position contributes: got %s", days[0].Value)
}

func TestValuationService_BuildHistory_QuantityFollowsTransactions(t *testing.T) {
	svc := newTestValuationService()

	asset := &models.AssetDefinition{
		ID: 1,
		PriceHistory: []models.PriceHistoryPoint{
			{Date: day("2024-01-01"), Price: d("10")},
		},
	}
	sellTx := models.AssetTransaction{
		PurchaseDate:    day("2024-01-03"),
		Quantity:        d("4"),
		TransactionType: models.TransactionSell,
	}
	positions := []models.PortfolioPosition{
		position(asset, buyTx("2024-01-01", "10"), sellTx),
	}

	days := svc.BuildHistory(positions, decimal.Zero, day("2024-01-01"), day("2024-01-04"))

	require.Len(t, days, 4)
	assert.True(t, days[0].Value.Equal(d("100")))
	assert.True(t, days[1].Value.Equal(d("100")))
	assert.True(t, days[2].Value.Equal(d("60")), "sell on day three nets the position")
	assert.True(t, days[3].Value.Equal(d("60")))

	assert.True(t, days[2].Change.Equal(d("-40")))
	assert.True(t, days[2].ChangePercentage.Equal(d("-40")), "got %s", days[2].ChangePercentage)
}

func TestValuationService_BuildHistory_Deterministic(t *testing.T) {
	svc := newTestValuationService()

	asset := &models.AssetDefinition{
		ID: 1,
		PriceHistory: []models.PriceHistoryPoint{
			{Date: day("2024-01-02"), Price: d("12")},
			{Date: day("2024-01-01"), Price: d("10")},
		},
	}
	positions := []models.PortfolioPosition{
		position(asset, buyTx("2024-01-01", "3")),
	}

	first := svc.BuildHistory(positions, d("5"), day("2024-01-01"), day("2024-01-05"))
	second := svc.BuildHistory(positions, d("5"), day("2024-01-01"), day("2024-01-05"))

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Date, second[i].Date)
		assert.True(t, first[i].Value.Equal(second[i].Value))
		assert.True(t, first[i].Change.Equal(second[i].Change))
		assert.True(t, first[i].ChangePercentage.Equal(second[i].ChangePercentage))
	}
}

func decimalPtr(value decimal.Decimal) *decimal.Decimal {
	return &value
}
