// backend/src/services/valuation_service.go
package services

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"github.com/username/patrimonio/backend/src/model"
	"github.com/username/patrimonio/backend/src/models"
	"github.com/username/patrimonio/backend/src/processors"
)

const ckHistoryChart = "res_history_chart_user_%d"

var oneHundred = decimal.NewFromInt(100)

type valuationServiceImpl struct {
	db            *sql.DB
	priceResolver processors.PriceResolver
	replay        processors.ReplayProcessor
	reportCache   KVStore
	windowDays    int
	log           *slog.Logger
}

// NewValuationService builds the portfolio valuation timeline service.
// windowDays controls how far back RebuildHistory reaches (endDate is today).
func NewValuationService(
	db *sql.DB,
	priceResolver processors.PriceResolver,
	replay processors.ReplayProcessor,
	reportCache KVStore,
	windowDays int,
	log *slog.Logger,
) ValuationService {
	return &valuationServiceImpl{
		db:            db,
		priceResolver: priceResolver,
		replay:        replay,
		reportCache:   reportCache,
		windowDays:    windowDays,
		log:           log,
	}
}

// BuildHistory walks every calendar day of the range and values each position
// as quantity-as-of-day times resolved price. Liabilities are applied at
// their current total for every day; they are not replayed historically.
// An empty position list yields a flat liabilities-only series, absence of
// assets is valid state. A position without an asset definition is skipped
// with a diagnostic so one bad row cannot corrupt the rest of the timeline.
func (s *valuationServiceImpl) BuildHistory(
	positions []models.PortfolioPosition,
	liabilitiesTotal decimal.Decimal,
	startDate, endDate time.Time,
) []models.PortfolioHistoryDay {
	var days []models.PortfolioHistoryDay
	previousNetWorth := decimal.Zero
	first := true

	for day := range processors.EachDay(startDate, endDate) {
		totalAssetValue := decimal.Zero
		for i, position := range positions {
			if position.AssetDefinition == nil {
				s.log.Warn("Skipping position without asset definition", "index", i, "date", day.Format(processors.DateFormat))
				continue
			}
			price := s.priceResolver.ResolvePrice(position.AssetDefinition.PriceHistory, day, position.AssetDefinition.CurrentPrice)
			quantity := s.replay.QuantityAsOf(position.Transactions, day)
			totalAssetValue = totalAssetValue.Add(quantity.Mul(price))
		}

		netWorth := totalAssetValue.Sub(liabilitiesTotal)

		change := decimal.Zero
		changePercentage := decimal.Zero
		if !first {
			change = netWorth.Sub(previousNetWorth)
			if !previousNetWorth.IsZero() {
				changePercentage = change.Div(previousNetWorth).Mul(oneHundred)
			}
		}

		days = append(days, models.PortfolioHistoryDay{
			Date:             day.Format(processors.DateFormat),
			Value:            netWorth,
			Change:           change,
			ChangePercentage: changePercentage,
		})

		previousNetWorth = netWorth
		first = false
	}
	return days
}

func (s *valuationServiceImpl) RebuildHistory(userID int64) error {
	started := time.Now()
	s.log.Info("Starting history rebuild", "userID", userID, "windowDays", s.windowDays)

	positions, err := model.ListPositionsByUser(s.db, userID)
	if err != nil {
		return fmt.Errorf("failed to load positions for history rebuild: %w", err)
	}
	liabilitiesTotal, err := model.SumLiabilities(s.db, userID)
	if err != nil {
		return fmt.Errorf("failed to load liabilities for history rebuild: %w", err)
	}

	endDate := processors.DayOf(time.Now().UTC())
	startDate := endDate.AddDate(0, 0, -(s.windowDays - 1))

	days := s.BuildHistory(positions, liabilitiesTotal, startDate, endDate)
	if err := model.ReplaceSnapshots(s.db, userID, days); err != nil {
		return fmt.Errorf("failed to persist snapshots: %w", err)
	}

	s.InvalidateUserCache(userID)
	s.log.Info("History rebuild complete", "userID", userID, "days", len(days), "duration", time.Since(started))
	return nil
}

func (s *valuationServiceImpl) GetHistoryChart(userID int64) ([]models.PortfolioHistoryDay, error) {
	cacheKey := fmt.Sprintf(ckHistoryChart, userID)
	if cached, found := s.reportCache.Get(cacheKey); found {
		return cached.([]models.PortfolioHistoryDay), nil
	}

	days, err := model.GetSnapshots(s.db, userID)
	if err != nil {
		return nil, err
	}
	if len(days) == 0 {
		return nil, ErrHistoryUnavailable
	}

	s.reportCache.Set(cacheKey, days)
	return days, nil
}

func (s *valuationServiceImpl) GetNetWorth(userID int64) (*models.NetWorthSummary, error) {
	positions, err := model.ListPositionsByUser(s.db, userID)
	if err != nil {
		return nil, err
	}
	liabilitiesTotal, err := model.SumLiabilities(s.db, userID)
	if err != nil {
		return nil, err
	}

	today := processors.DayOf(time.Now().UTC())
	totalAssetValue := decimal.Zero
	for _, position := range positions {
		if position.AssetDefinition == nil {
			continue
		}
		price := s.priceResolver.ResolvePrice(position.AssetDefinition.PriceHistory, today, position.AssetDefinition.CurrentPrice)
		quantity := s.replay.QuantityAsOf(position.Transactions, today)
		totalAssetValue = totalAssetValue.Add(quantity.Mul(price))
	}

	return &models.NetWorthSummary{
		TotalAssetValue:  totalAssetValue,
		LiabilitiesTotal: liabilitiesTotal,
		NetWorth:         totalAssetValue.Sub(liabilitiesTotal),
	}, nil
}

func (s *valuationServiceImpl) InvalidateUserCache(userID int64) {
	s.reportCache.Remove(fmt.Sprintf(ckHistoryChart, userID))
}
