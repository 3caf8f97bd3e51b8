package processors

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/username/patrimonio/backend/src/models"
)

func buy(date, quantity string) models.AssetTransaction {
	return models.AssetTransaction{PurchaseDate: day(date), Quantity: d(quantity), TransactionType: models.TransactionBuy}
}

func sell(date, quantity string) models.AssetTransaction {
	return models.AssetTransaction{PurchaseDate: day(date), Quantity: d(quantity), TransactionType: models.TransactionSell}
}

func TestReplayProcessor_QuantityAsOf(t *testing.T) {
	transactions := []models.AssetTransaction{
		buy("2024-01-01", "10"),
		sell("2024-02-01", "4"),
	}

	tests := []struct {
		name         string
		transactions []models.AssetTransaction
		date         time.Time
		want         decimal.Decimal
	}{
		{
			name:         "before the sell only the buy counts",
			transactions: transactions,
			date:         day("2024-01-15"),
			want:         d("10"),
		},
		{
			name:         "after the sell the position is netted",
			transactions: transactions,
			date:         day("2024-02-15"),
			want:         d("6"),
		},
		{
			name:         "transaction on the target date is included",
			transactions: transactions,
			date:         day("2024-02-01"),
			want:         d("6"),
		},
		{
			name:         "before any transaction the position is zero",
			transactions: transactions,
			date:         day("2023-12-31"),
			want:         decimal.Zero,
		},
		{
			name:         "sells exceeding buys go negative",
			transactions: []models.AssetTransaction{buy("2024-01-01", "3"), sell("2024-01-02", "5")},
			date:         day("2024-01-10"),
			want:         d("-2"),
		},
		{
			name:         "no transactions means zero",
			transactions: nil,
			date:         day("2024-01-01"),
			want:         decimal.Zero,
		},
		{
			name:         "fractional quantities are preserved",
			transactions: []models.AssetTransaction{buy("2024-01-01", "0.5"), buy("2024-01-02", "0.25")},
			date:         day("2024-01-03"),
			want:         d("0.75"),
		},
	}

	replay := NewReplayProcessor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := replay.QuantityAsOf(tt.transactions, tt.date)
			assert.True(t, got.Equal(tt.want), "got %s want %s", got, tt.want)
		})
	}
}

func TestReplayProcessor_OrderIndependent(t *testing.T) {
	forward := []models.AssetTransaction{
		buy("2024-01-01", "10"),
		sell("2024-01-01", "4"),
		buy("2024-01-01", "2"),
	}
	reversed := []models.AssetTransaction{forward[2], forward[1], forward[0]}

	replay := NewReplayProcessor()
	at := day("2024-01-01")

	a := replay.QuantityAsOf(forward, at)
	b := replay.QuantityAsOf(reversed, at)
	assert.True(t, a.Equal(b), "same-day ordering must not affect the sum")
	assert.True(t, a.Equal(d("8")))
}

func TestEachDay(t *testing.T) {
	var got []string
	for dte := range EachDay(day("2024-02-27"), day("2024-03-01")) {
		got = append(got, dte.Format(DateFormat))
	}
	// 2024 is a leap year; the 29th must be present.
	assert.Equal(t, []string{"2024-02-27", "2024-02-28", "2024-02-29", "2024-03-01"}, got)

	t.Run("single day range", func(t *testing.T) {
		var days []time.Time
		for dte := range EachDay(day("2024-01-01"), day("2024-01-01")) {
			days = append(days, dte)
		}
		assert.Len(t, days, 1)
	})

	t.Run("inverted range is empty", func(t *testing.T) {
		count := 0
		for range EachDay(day("2024-01-02"), day("2024-01-01")) {
			count++
		}
		assert.Zero(t, count)
	})

	t.Run("restartable", func(t *testing.T) {
		seq := EachDay(day("2024-01-01"), day("2024-01-03"))
		first, second := 0, 0
		for range seq {
			first++
		}
		for range seq {
			second++
		}
		assert.Equal(t, first, second)
	})
}
