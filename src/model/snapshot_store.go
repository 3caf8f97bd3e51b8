package model

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/username/patrimonio/backend/src/models"
)

// ReplaceSnapshots swaps the user's stored valuation timeline for a freshly
// computed one. The series is derived data, so a full delete-and-insert keeps
// it consistent; inserts are chunked to stay under SQLite parameter limits.
func ReplaceSnapshots(db *sql.DB, userID int64, days []models.PortfolioHistoryDay) error {
	if _, err := db.Exec(`DELETE FROM portfolio_snapshots WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear previous snapshots: %w", err)
	}
	if len(days) == 0 {
		return nil
	}

	const chunkSize = 200
	for i := 0; i < len(days); i += chunkSize {
		end := i + chunkSize
		if end > len(days) {
			end = len(days)
		}
		batch := days[i:end]

		query := `INSERT INTO portfolio_snapshots (user_id, date, value, change, change_percentage) VALUES `
		args := make([]any, 0, len(batch)*5)
		for j, day := range batch {
			if j > 0 {
				query += ","
			}
			query += "(?, ?, ?, ?, ?)"
			args = append(args, userID, day.Date, day.Value.String(), day.Change.String(), day.ChangePercentage.String())
		}
		if _, err := db.Exec(query, args...); err != nil {
			return fmt.Errorf("snapshot batch insert failed: %w", err)
		}
	}
	return nil
}

// GetSnapshots returns the stored timeline in ascending date order.
func GetSnapshots(db *sql.DB, userID int64) ([]models.PortfolioHistoryDay, error) {
	rows, err := db.Query(`
		SELECT date, value, change, change_percentage
		FROM portfolio_snapshots WHERE user_id = ? ORDER BY date ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []models.PortfolioHistoryDay
	for rows.Next() {
		var (
			day                        models.PortfolioHistoryDay
			valueStr, changeStr, pctStr string
		)
		if err := rows.Scan(&day.Date, &valueStr, &changeStr, &pctStr); err != nil {
			return nil, err
		}
		if day.Value, err = decimal.NewFromString(valueStr); err != nil {
			return nil, fmt.Errorf("snapshot %s: invalid value %q: %w", day.Date, valueStr, err)
		}
		if day.Change, err = decimal.NewFromString(changeStr); err != nil {
			return nil, fmt.Errorf("snapshot %s: invalid change %q: %w", day.Date, changeStr, err)
		}
		if day.ChangePercentage, err = decimal.NewFromString(pctStr); err != nil {
			return nil, fmt.Errorf("snapshot %s: invalid change percentage %q: %w", day.Date, pctStr, err)
		}
		days = append(days, day)
	}
	return days, rows.Err()
}
