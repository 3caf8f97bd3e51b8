// backend/src/processors/schedule_processor.go
package processors

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/username/patrimonio/backend/src/models"
)

var (
	twelve = decimal.NewFromInt(12)
	four   = decimal.NewFromInt(4)
)

// defaultQuarterMonths is the documented fallback spacing for quarterly
// schedules that do not pin their paying months explicitly.
var defaultQuarterMonths = []int{3, 6, 9, 12}

type scheduleProcessorImpl struct{}

func NewScheduleProcessor() ScheduleProcessor {
	return &scheduleProcessorImpl{}
}

func (p *scheduleProcessorImpl) Normalize(s models.PaymentSchedule) (models.NormalizedSchedule, error) {
	if err := checkSchedule(s); err != nil {
		return models.NormalizedSchedule{}, err
	}

	switch s.Frequency {
	case models.FrequencyNone:
		return models.NormalizedSchedule{
			MonthlyAmount: decimal.Zero,
			AnnualAmount:  decimal.Zero,
			PayingMonths:  []int{},
		}, nil

	case models.FrequencyMonthly:
		return models.NormalizedSchedule{
			MonthlyAmount: s.Amount,
			AnnualAmount:  s.Amount.Mul(twelve),
			PayingMonths:  []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12},
		}, nil

	case models.FrequencyQuarterly:
		annual := s.Amount.Mul(four)
		months := cleanMonths(s.Months)
		if len(months) == 0 {
			months = defaultQuarterMonths
		}
		return models.NormalizedSchedule{
			MonthlyAmount: annual.Div(twelve),
			AnnualAmount:  annual,
			PayingMonths:  months,
		}, nil

	case models.FrequencyAnnually:
		months := cleanMonths(s.Months)
		if len(months) > 1 {
			// An annual schedule pays once; only the first supplied month counts.
			months = months[:1]
		}
		return models.NormalizedSchedule{
			MonthlyAmount: s.Amount.Div(twelve),
			AnnualAmount:  s.Amount,
			PayingMonths:  months,
		}, nil

	case models.FrequencyCustom:
		months := cleanMonths(s.Months)
		annual := decimal.Zero
		for _, m := range months {
			annual = annual.Add(contributionFor(s, m))
		}
		return models.NormalizedSchedule{
			MonthlyAmount: annual.Div(twelve),
			AnnualAmount:  annual,
			PayingMonths:  months,
		}, nil
	}

	// checkSchedule already rejected unknown frequencies.
	return models.NormalizedSchedule{}, fmt.Errorf("%w: unhandled frequency %q", ErrInvalidSchedule, s.Frequency)
}

func (p *scheduleProcessorImpl) Breakdown(s models.PaymentSchedule) (map[int]decimal.Decimal, error) {
	normalized, err := p.Normalize(s)
	if err != nil {
		return nil, err
	}

	breakdown := make(map[int]decimal.Decimal, len(normalized.PayingMonths))
	for _, m := range normalized.PayingMonths {
		if s.Frequency == models.FrequencyCustom {
			breakdown[m] = contributionFor(s, m)
		} else {
			breakdown[m] = s.Amount
		}
	}
	return breakdown, nil
}

// contributionFor returns the amount a custom schedule pays in the given
// month: the per-month override if present, the default amount otherwise.
func contributionFor(s models.PaymentSchedule, month int) decimal.Decimal {
	if override, ok := s.CustomAmounts[month]; ok {
		return override
	}
	return s.Amount
}

// checkSchedule fails fast on inputs the validation layer should never let
// through. These are treated as programming errors, not recoverable ones.
func checkSchedule(s models.PaymentSchedule) error {
	if !models.ValidFrequency(s.Frequency) {
		return fmt.Errorf("%w: unknown frequency %q", ErrInvalidSchedule, s.Frequency)
	}
	if s.Amount.IsNegative() {
		return fmt.Errorf("%w: negative amount %s", ErrInvalidSchedule, s.Amount)
	}
	for month, amount := range s.CustomAmounts {
		if amount.IsNegative() {
			return fmt.Errorf("%w: negative custom amount %s for month %d", ErrInvalidSchedule, amount, month)
		}
	}
	return nil
}

// cleanMonths drops out-of-range months, removes duplicates and returns the
// result sorted ascending.
func cleanMonths(months []int) []int {
	seen := make(map[int]bool, len(months))
	cleaned := make([]int, 0, len(months))
	for _, m := range months {
		if m < 1 || m > 12 || seen[m] {
			continue
		}
		seen[m] = true
		cleaned = append(cleaned, m)
	}
	sort.Ints(cleaned)
	return cleaned
}
