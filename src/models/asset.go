package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType marks an asset transaction as a purchase or a sale.
type TransactionType string

const (
	TransactionBuy  TransactionType = "BUY"
	TransactionSell TransactionType = "SELL"
)

// PriceHistoryPoint is one entry of an asset's sparse price record.
// Points are not necessarily daily and arrive in no guaranteed order.
type PriceHistoryPoint struct {
	Date  time.Time       `json:"date"`
	Price decimal.Decimal `json:"price"`
}

// AssetTransaction is a single buy or sell of an asset.
// A BUY contributes +Quantity to the held position, a SELL contributes -Quantity.
type AssetTransaction struct {
	ID              int64           `json:"id,omitempty"`
	AssetID         int64           `json:"asset_id"`
	PurchaseDate    time.Time       `json:"purchase_date"`
	Quantity        decimal.Decimal `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	TransactionType TransactionType `json:"transaction_type"`
	Value           decimal.Decimal `json:"value"`
}

// AssetDefinition describes one underlying asset, owned independently of any
// position. CurrentPrice is optional and acts as the pricing fallback for
// assets without usable history (real estate, unlisted bonds).
// DividendSchedule is optional and drives per-asset income figures.
type AssetDefinition struct {
	ID               int64               `json:"id"`
	UserID           int64               `json:"user_id"`
	Name             string              `json:"name"`
	Category         string              `json:"category"`
	CurrentPrice     *decimal.Decimal    `json:"current_price,omitempty"`
	DividendSchedule *PaymentSchedule    `json:"dividend_schedule,omitempty"`
	PriceHistory     []PriceHistoryPoint `json:"price_history,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// PortfolioPosition aggregates all transactions for one asset definition.
type PortfolioPosition struct {
	AssetDefinition *AssetDefinition   `json:"asset_definition"`
	Transactions    []AssetTransaction `json:"transactions"`
}
