package models

import "github.com/shopspring/decimal"

// ScheduleFrequency enumerates how often a recurring cash flow pays out.
type ScheduleFrequency string

const (
	FrequencyMonthly   ScheduleFrequency = "monthly"
	FrequencyQuarterly ScheduleFrequency = "quarterly"
	FrequencyAnnually  ScheduleFrequency = "annually"
	FrequencyCustom    ScheduleFrequency = "custom"
	FrequencyNone      ScheduleFrequency = "none"
)

// ValidFrequency reports whether f is one of the known schedule frequencies.
func ValidFrequency(f ScheduleFrequency) bool {
	switch f {
	case FrequencyMonthly, FrequencyQuarterly, FrequencyAnnually, FrequencyCustom, FrequencyNone:
		return true
	}
	return false
}

// PaymentSchedule describes how often and how much a recurring cash flow pays.
// Months and CustomAmounts are only meaningful for FrequencyCustom; for
// quarterly/annual schedules Months optionally pins the paying months.
// Amount is the default per-occurrence value; CustomAmounts overrides it for
// specific months.
type PaymentSchedule struct {
	Frequency     ScheduleFrequency       `json:"frequency"`
	Amount        decimal.Decimal         `json:"amount"`
	Months        []int                   `json:"months,omitempty"`
	CustomAmounts map[int]decimal.Decimal `json:"custom_amounts,omitempty"`
}

// NormalizedSchedule is the monthly/annual equivalent of a PaymentSchedule.
// PayingMonths is sorted ascending and holds calendar months 1..12.
type NormalizedSchedule struct {
	MonthlyAmount decimal.Decimal `json:"monthly_amount"`
	AnnualAmount  decimal.Decimal `json:"annual_amount"`
	PayingMonths  []int           `json:"paying_months"`
}

// PaysInMonth reports whether the normalized schedule pays out in the given
// calendar month (1..12).
func (n NormalizedSchedule) PaysInMonth(month int) bool {
	for _, m := range n.PayingMonths {
		if m == month {
			return true
		}
	}
	return false
}
