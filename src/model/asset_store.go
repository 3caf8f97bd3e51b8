// backend/src/model/asset_store.go
package model

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/username/patrimonio/backend/src/models"
)

var ErrAssetNotFound = errors.New("asset not found")

const dateLayout = "2006-01-02"

// assetRow mirrors the asset_definitions table. Schedule months and custom
// amounts are stored as JSON text columns.
type assetRow struct {
	ID                int64
	UserID            int64
	Name              string
	Category          string
	CurrentPrice      sql.NullString
	DividendFrequency sql.NullString
	DividendAmount    sql.NullString
	DividendMonths    sql.NullString
	DividendCustom    sql.NullString
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (r assetRow) toModel() (*models.AssetDefinition, error) {
	asset := &models.AssetDefinition{
		ID:        r.ID,
		UserID:    r.UserID,
		Name:      r.Name,
		Category:  r.Category,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}

	if r.CurrentPrice.Valid {
		price, err := decimal.NewFromString(r.CurrentPrice.String)
		if err != nil {
			return nil, fmt.Errorf("asset %d: invalid current price %q: %w", r.ID, r.CurrentPrice.String, err)
		}
		asset.CurrentPrice = &price
	}

	if r.DividendFrequency.Valid {
		schedule := models.PaymentSchedule{Frequency: models.ScheduleFrequency(r.DividendFrequency.String)}
		if r.DividendAmount.Valid {
			amount, err := decimal.NewFromString(r.DividendAmount.String)
			if err != nil {
				return nil, fmt.Errorf("asset %d: invalid dividend amount %q: %w", r.ID, r.DividendAmount.String, err)
			}
			schedule.Amount = amount
		}
		if r.DividendMonths.Valid && r.DividendMonths.String != "" {
			if err := json.Unmarshal([]byte(r.DividendMonths.String), &schedule.Months); err != nil {
				return nil, fmt.Errorf("asset %d: invalid dividend months: %w", r.ID, err)
			}
		}
		if r.DividendCustom.Valid && r.DividendCustom.String != "" {
			if err := json.Unmarshal([]byte(r.DividendCustom.String), &schedule.CustomAmounts); err != nil {
				return nil, fmt.Errorf("asset %d: invalid dividend custom amounts: %w", r.ID, err)
			}
		}
		asset.DividendSchedule = &schedule
	}

	return asset, nil
}

func scheduleColumns(schedule *models.PaymentSchedule) (frequency, amount, months, custom any, err error) {
	if schedule == nil {
		return nil, nil, nil, nil, nil
	}
	frequency = string(schedule.Frequency)
	amount = schedule.Amount.String()
	if len(schedule.Months) > 0 {
		raw, err := json.Marshal(schedule.Months)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		months = string(raw)
	}
	if len(schedule.CustomAmounts) > 0 {
		raw, err := json.Marshal(schedule.CustomAmounts)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		custom = string(raw)
	}
	return frequency, amount, months, custom, nil
}

func currentPriceColumn(asset *models.AssetDefinition) any {
	if asset.CurrentPrice == nil {
		return nil
	}
	return asset.CurrentPrice.String()
}

func CreateAsset(db *sql.DB, asset *models.AssetDefinition) error {
	frequency, amount, months, custom, err := scheduleColumns(asset.DividendSchedule)
	if err != nil {
		return err
	}
	result, err := db.Exec(`
		INSERT INTO asset_definitions
			(user_id, name, category, current_price, dividend_frequency, dividend_amount, dividend_months, dividend_custom_amounts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		asset.UserID, asset.Name, asset.Category, currentPriceColumn(asset), frequency, amount, months, custom,
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	asset.ID = id
	return nil
}

func UpdateAsset(db *sql.DB, asset *models.AssetDefinition) error {
	frequency, amount, months, custom, err := scheduleColumns(asset.DividendSchedule)
	if err != nil {
		return err
	}
	result, err := db.Exec(`
		UPDATE asset_definitions
		SET name = ?, category = ?, current_price = ?, dividend_frequency = ?, dividend_amount = ?,
		    dividend_months = ?, dividend_custom_amounts = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ?`,
		asset.Name, asset.Category, currentPriceColumn(asset), frequency, amount, months, custom,
		asset.ID, asset.UserID,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAssetNotFound
	}
	return nil
}

func DeleteAsset(db *sql.DB, userID, assetID int64) error {
	result, err := db.Exec(`DELETE FROM asset_definitions WHERE id = ? AND user_id = ?`, assetID, userID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAssetNotFound
	}
	return nil
}

const assetSelect = `
	SELECT id, user_id, name, category, current_price, dividend_frequency, dividend_amount,
	       dividend_months, dividend_custom_amounts, created_at, updated_at
	FROM asset_definitions`

func scanAssetRow(scanner interface{ Scan(...any) error }) (*models.AssetDefinition, error) {
	var row assetRow
	err := scanner.Scan(
		&row.ID, &row.UserID, &row.Name, &row.Category, &row.CurrentPrice,
		&row.DividendFrequency, &row.DividendAmount, &row.DividendMonths, &row.DividendCustom,
		&row.CreatedAt, &row.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return row.toModel()
}

func GetAssetByID(db *sql.DB, userID, assetID int64) (*models.AssetDefinition, error) {
	asset, err := scanAssetRow(db.QueryRow(assetSelect+` WHERE id = ? AND user_id = ?`, assetID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAssetNotFound
	}
	if err != nil {
		return nil, err
	}
	asset.PriceHistory, err = GetPriceHistory(db, assetID)
	if err != nil {
		return nil, err
	}
	return asset, nil
}

func ListAssetsByUser(db *sql.DB, userID int64) ([]*models.AssetDefinition, error) {
	rows, err := db.Query(assetSelect+` WHERE user_id = ? ORDER BY name ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []*models.AssetDefinition
	for rows.Next() {
		asset, err := scanAssetRow(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	return assets, rows.Err()
}

// InsertPricePoint appends one point to an asset's price history. Insertion
// order is preserved through the autoincrement id, which is what makes the
// resolver's "last duplicate wins" rule reproducible from storage.
func InsertPricePoint(db *sql.DB, assetID int64, point models.PriceHistoryPoint) error {
	_, err := db.Exec(
		`INSERT INTO asset_price_history (asset_id, date, price) VALUES (?, ?, ?)`,
		assetID, point.Date.Format(dateLayout), point.Price.String(),
	)
	return err
}

func GetPriceHistory(db *sql.DB, assetID int64) ([]models.PriceHistoryPoint, error) {
	rows, err := db.Query(
		`SELECT date, price FROM asset_price_history WHERE asset_id = ? ORDER BY id ASC`,
		assetID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []models.PriceHistoryPoint
	for rows.Next() {
		var dateStr, priceStr string
		if err := rows.Scan(&dateStr, &priceStr); err != nil {
			return nil, err
		}
		date, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("asset %d: invalid price date %q: %w", assetID, dateStr, err)
		}
		price, err := decimal.NewFromString(priceStr)
		if err != nil {
			return nil, fmt.Errorf("asset %d: invalid price %q: %w", assetID, priceStr, err)
		}
		history = append(history, models.PriceHistoryPoint{Date: date, Price: price})
	}
	return history, rows.Err()
}

func InsertTransaction(db *sql.DB, tx *models.AssetTransaction) error {
	result, err := db.Exec(`
		INSERT INTO asset_transactions (asset_id, purchase_date, quantity, price, transaction_type, value)
		VALUES (?, ?, ?, ?, ?, ?)`,
		tx.AssetID, tx.PurchaseDate.Format(dateLayout), tx.Quantity.String(), tx.Price.String(),
		string(tx.TransactionType), tx.Value.String(),
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	tx.ID = id
	return nil
}

func DeleteTransaction(db *sql.DB, userID, transactionID int64) error {
	result, err := db.Exec(`
		DELETE FROM asset_transactions
		WHERE id = ? AND asset_id IN (SELECT id FROM asset_definitions WHERE user_id = ?)`,
		transactionID, userID,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func ListTransactionsByAsset(db *sql.DB, assetID int64) ([]models.AssetTransaction, error) {
	rows, err := db.Query(`
		SELECT id, asset_id, purchase_date, quantity, price, transaction_type, value
		FROM asset_transactions WHERE asset_id = ? ORDER BY purchase_date ASC, id ASC`,
		assetID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func collectTransactions(rows *sql.Rows) ([]models.AssetTransaction, error) {
	var transactions []models.AssetTransaction
	for rows.Next() {
		var (
			tx                             models.AssetTransaction
			dateStr, qtyStr, priceStr, valStr, typeStr string
		)
		if err := rows.Scan(&tx.ID, &tx.AssetID, &dateStr, &qtyStr, &priceStr, &typeStr, &valStr); err != nil {
			return nil, err
		}
		date, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: invalid date %q: %w", tx.ID, dateStr, err)
		}
		tx.PurchaseDate = date
		if tx.Quantity, err = decimal.NewFromString(qtyStr); err != nil {
			return nil, fmt.Errorf("transaction %d: invalid quantity %q: %w", tx.ID, qtyStr, err)
		}
		if tx.Price, err = decimal.NewFromString(priceStr); err != nil {
			return nil, fmt.Errorf("transaction %d: invalid price %q: %w", tx.ID, priceStr, err)
		}
		if tx.Value, err = decimal.NewFromString(valStr); err != nil {
			return nil, fmt.Errorf("transaction %d: invalid value %q: %w", tx.ID, valStr, err)
		}
		tx.TransactionType = models.TransactionType(typeStr)
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}

// ListPositionsByUser loads every asset of the user together with its price
// history and transactions, ready for the valuation timeline.
func ListPositionsByUser(db *sql.DB, userID int64) ([]models.PortfolioPosition, error) {
	assets, err := ListAssetsByUser(db, userID)
	if err != nil {
		return nil, err
	}

	positions := make([]models.PortfolioPosition, 0, len(assets))
	for _, asset := range assets {
		asset.PriceHistory, err = GetPriceHistory(db, asset.ID)
		if err != nil {
			return nil, err
		}
		transactions, err := ListTransactionsByAsset(db, asset.ID)
		if err != nil {
			return nil, err
		}
		positions = append(positions, models.PortfolioPosition{
			AssetDefinition: asset,
			Transactions:    transactions,
		})
	}
	return positions, nil
}
