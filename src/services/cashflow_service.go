package services

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/username/patrimonio/backend/src/model"
	"github.com/username/patrimonio/backend/src/models"
	"github.com/username/patrimonio/backend/src/processors"
)

const ckCashflowSummary = "agg_cashflow_summary_user_%d"

type cashflowServiceImpl struct {
	db          *sql.DB
	schedules   processors.ScheduleProcessor
	reportCache KVStore
}

// NewCashflowService aggregates recurring entries into monthly/annual totals.
func NewCashflowService(db *sql.DB, schedules processors.ScheduleProcessor, reportCache KVStore) CashflowService {
	return &cashflowServiceImpl{db: db, schedules: schedules, reportCache: reportCache}
}

func (s *cashflowServiceImpl) Summary(userID int64) (*models.CashflowSummary, error) {
	cacheKey := fmt.Sprintf(ckCashflowSummary, userID)
	if cached, found := s.reportCache.Get(cacheKey); found {
		return cached.(*models.CashflowSummary), nil
	}

	entries, err := model.ListCashflowEntries(s.db, userID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list cashflow entries: %w", err)
	}

	monthlyIncome := decimal.Zero
	annualIncome := decimal.Zero
	monthlyExpenses := decimal.Zero
	annualExpenses := decimal.Zero

	for _, entry := range entries {
		normalized, err := s.schedules.Normalize(entry.Schedule)
		if err != nil {
			// A schedule this malformed should have been stopped by the
			// validation layer; surface it instead of skipping silently.
			return nil, fmt.Errorf("entry %d (%s): %w", entry.ID, entry.Name, err)
		}
		switch entry.Kind {
		case models.CashflowIncome:
			monthlyIncome = monthlyIncome.Add(normalized.MonthlyAmount)
			annualIncome = annualIncome.Add(normalized.AnnualAmount)
		case models.CashflowExpense:
			monthlyExpenses = monthlyExpenses.Add(normalized.MonthlyAmount)
			annualExpenses = annualExpenses.Add(normalized.AnnualAmount)
		}
	}

	summary := &models.CashflowSummary{
		MonthlyIncome:   monthlyIncome,
		AnnualIncome:    annualIncome,
		MonthlyExpenses: monthlyExpenses,
		AnnualExpenses:  annualExpenses,
		MonthlySavings:  monthlyIncome.Sub(monthlyExpenses),
	}

	s.reportCache.Set(cacheKey, summary)
	return summary, nil
}

func (s *cashflowServiceImpl) InvalidateUserCache(userID int64) {
	s.reportCache.Remove(fmt.Sprintf(ckCashflowSummary, userID))
}
