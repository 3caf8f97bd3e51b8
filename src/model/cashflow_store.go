package model

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/username/patrimonio/backend/src/models"
)

var ErrEntryNotFound = errors.New("entry not found")

func CreateCashflowEntry(db *sql.DB, entry *models.CashflowEntry) error {
	frequency, amount, months, custom, err := scheduleColumns(&entry.Schedule)
	if err != nil {
		return err
	}
	result, err := db.Exec(`
		INSERT INTO cashflow_entries (user_id, kind, name, category, frequency, amount, months, custom_amounts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.UserID, string(entry.Kind), entry.Name, entry.Category, frequency, amount, months, custom,
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	entry.ID = id
	return nil
}

func UpdateCashflowEntry(db *sql.DB, entry *models.CashflowEntry) error {
	frequency, amount, months, custom, err := scheduleColumns(&entry.Schedule)
	if err != nil {
		return err
	}
	result, err := db.Exec(`
		UPDATE cashflow_entries
		SET name = ?, category = ?, frequency = ?, amount = ?, months = ?, custom_amounts = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ?`,
		entry.Name, entry.Category, frequency, amount, months, custom, entry.ID, entry.UserID,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func DeleteCashflowEntry(db *sql.DB, userID, entryID int64) error {
	result, err := db.Exec(`DELETE FROM cashflow_entries WHERE id = ? AND user_id = ?`, entryID, userID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// ListCashflowEntries returns the user's entries, optionally filtered by kind
// (income or expense). An empty kind returns everything.
func ListCashflowEntries(db *sql.DB, userID int64, kind models.CashflowKind) ([]models.CashflowEntry, error) {
	query := `
		SELECT id, user_id, kind, name, category, frequency, amount, months, custom_amounts, created_at, updated_at
		FROM cashflow_entries WHERE user_id = ?`
	args := []any{userID}
	if kind != "" {
		query += ` AND kind = ?`
		args = append(args, string(kind))
	}
	query += ` ORDER BY name ASC`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.CashflowEntry
	for rows.Next() {
		var (
			entry          models.CashflowEntry
			kindStr        string
			frequencyStr   string
			amountStr      string
			months, custom sql.NullString
		)
		err := rows.Scan(
			&entry.ID, &entry.UserID, &kindStr, &entry.Name, &entry.Category,
			&frequencyStr, &amountStr, &months, &custom, &entry.CreatedAt, &entry.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		entry.Kind = models.CashflowKind(kindStr)
		entry.Schedule.Frequency = models.ScheduleFrequency(frequencyStr)
		if entry.Schedule.Amount, err = decimal.NewFromString(amountStr); err != nil {
			return nil, fmt.Errorf("entry %d: invalid amount %q: %w", entry.ID, amountStr, err)
		}
		if months.Valid && months.String != "" {
			if err := json.Unmarshal([]byte(months.String), &entry.Schedule.Months); err != nil {
				return nil, fmt.Errorf("entry %d: invalid months: %w", entry.ID, err)
			}
		}
		if custom.Valid && custom.String != "" {
			if err := json.Unmarshal([]byte(custom.String), &entry.Schedule.CustomAmounts); err != nil {
				return nil, fmt.Errorf("entry %d: invalid custom amounts: %w", entry.ID, err)
			}
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func CreateLiability(db *sql.DB, liability *models.Liability) error {
	result, err := db.Exec(`
		INSERT INTO liabilities (user_id, name, category, amount) VALUES (?, ?, ?, ?)`,
		liability.UserID, liability.Name, liability.Category, liability.Amount.String(),
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	liability.ID = id
	return nil
}

func UpdateLiability(db *sql.DB, liability *models.Liability) error {
	result, err := db.Exec(`
		UPDATE liabilities SET name = ?, category = ?, amount = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ?`,
		liability.Name, liability.Category, liability.Amount.String(), liability.ID, liability.UserID,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func DeleteLiability(db *sql.DB, userID, liabilityID int64) error {
	result, err := db.Exec(`DELETE FROM liabilities WHERE id = ? AND user_id = ?`, liabilityID, userID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func ListLiabilities(db *sql.DB, userID int64) ([]models.Liability, error) {
	rows, err := db.Query(`
		SELECT id, user_id, name, category, amount, created_at, updated_at
		FROM liabilities WHERE user_id = ? ORDER BY name ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var liabilities []models.Liability
	for rows.Next() {
		var (
			liability models.Liability
			amountStr string
		)
		err := rows.Scan(
			&liability.ID, &liability.UserID, &liability.Name, &liability.Category,
			&amountStr, &liability.CreatedAt, &liability.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		if liability.Amount, err = decimal.NewFromString(amountStr); err != nil {
			return nil, fmt.Errorf("liability %d: invalid amount %q: %w", liability.ID, amountStr, err)
		}
		liabilities = append(liabilities, liability)
	}
	return liabilities, rows.Err()
}

// SumLiabilities returns the current total of the user's liabilities.
func SumLiabilities(db *sql.DB, userID int64) (decimal.Decimal, error) {
	liabilities, err := ListLiabilities(db, userID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, liability := range liabilities {
		total = total.Add(liability.Amount)
	}
	return total, nil
}
