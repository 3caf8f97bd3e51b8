// backend/src/handlers/income_handler.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/username/patrimonio/backend/src/database"
	"github.com/username/patrimonio/backend/src/logger"
	"github.com/username/patrimonio/backend/src/model"
	"github.com/username/patrimonio/backend/src/processors"
	"github.com/username/patrimonio/backend/src/utils"
)

// HandleGetAssetIncome serves the asset's dividend income figures, memoized
// by content fingerprint so repeated dashboard loads skip the recompute.
func (h *AssetHandler) HandleGetAssetIncome(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	assetID, err := idParam(r, "assetID")
	if err != nil {
		utils.SendJSONError(w, "Invalid asset ID", http.StatusBadRequest)
		return
	}

	asset, err := model.GetAssetByID(database.DB, userID, assetID)
	if err != nil {
		if errors.Is(err, model.ErrAssetNotFound) {
			utils.SendJSONError(w, "Asset not found", http.StatusNotFound)
			return
		}
		logger.ErrorFromContext(r.Context(), "Failed to fetch asset for income", "assetID", assetID, "error", err)
		utils.SendJSONError(w, "Failed to fetch asset", http.StatusInternalServerError)
		return
	}

	income, err := h.incomeService.AssetIncome(asset)
	if err != nil {
		if errors.Is(err, processors.ErrInvalidSchedule) {
			utils.SendJSONError(w, "Asset has an invalid dividend schedule", http.StatusUnprocessableEntity)
			return
		}
		logger.ErrorFromContext(r.Context(), "Failed to compute asset income", "assetID", assetID, "error", err)
		utils.SendJSONError(w, "Failed to compute asset income", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, income)
}
