// backend/src/handlers/portfolio_handler.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/username/patrimonio/backend/src/logger"
	"github.com/username/patrimonio/backend/src/services"
	"github.com/username/patrimonio/backend/src/utils"
)

type PortfolioHandler struct {
	valuationService services.ValuationService
}

func NewPortfolioHandler(valuationService services.ValuationService) *PortfolioHandler {
	return &PortfolioHandler{valuationService: valuationService}
}

// HandleGetNetWorth serves the current aggregate asset value, liabilities
// total and net worth.
func (h *PortfolioHandler) HandleGetNetWorth(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	summary, err := h.valuationService.GetNetWorth(userID)
	if err != nil {
		logger.ErrorFromContext(r.Context(), "Failed to compute net worth", "error", err)
		utils.SendJSONError(w, "Failed to compute net worth", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, summary)
}

// HandleGetHistoryChart serves the stored day-by-day valuation series.
func (h *PortfolioHandler) HandleGetHistoryChart(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	days, err := h.valuationService.GetHistoryChart(userID)
	if err != nil {
		if errors.Is(err, services.ErrHistoryUnavailable) {
			utils.SendJSONError(w, "Portfolio history not available yet", http.StatusNotFound)
			return
		}
		logger.ErrorFromContext(r.Context(), "Failed to fetch history chart", "error", err)
		utils.SendJSONError(w, "Failed to fetch history chart", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, days)
}

// HandleRebuildHistory recalculates the snapshot series synchronously and
// returns the fresh chart.
func (h *PortfolioHandler) HandleRebuildHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	if err := h.valuationService.RebuildHistory(userID); err != nil {
		logger.ErrorFromContext(r.Context(), "History rebuild failed", "error", err)
		utils.SendJSONError(w, "Failed to rebuild history", http.StatusInternalServerError)
		return
	}

	days, err := h.valuationService.GetHistoryChart(userID)
	if err != nil {
		logger.ErrorFromContext(r.Context(), "Failed to fetch chart after rebuild", "error", err)
		utils.SendJSONError(w, "Failed to fetch history chart", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, days)
}
