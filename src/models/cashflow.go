package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashflowKind distinguishes recurring incomes from recurring expenses.
type CashflowKind string

const (
	CashflowIncome  CashflowKind = "income"
	CashflowExpense CashflowKind = "expense"
)

// CashflowEntry is a recurring income or expense with its payment schedule.
type CashflowEntry struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	Kind      CashflowKind    `json:"kind"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Schedule  PaymentSchedule `json:"schedule"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Liability is a debt position. Only its current amount is tracked; the
// valuation timeline applies the current total to every historical day.
type Liability struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CashflowSummary aggregates normalized schedules across all of a user's
// entries, for the dashboard's "monthly equivalent" totals.
type CashflowSummary struct {
	MonthlyIncome   decimal.Decimal `json:"monthly_income"`
	AnnualIncome    decimal.Decimal `json:"annual_income"`
	MonthlyExpenses decimal.Decimal `json:"monthly_expenses"`
	AnnualExpenses  decimal.Decimal `json:"annual_expenses"`
	MonthlySavings  decimal.Decimal `json:"monthly_savings"`
}
