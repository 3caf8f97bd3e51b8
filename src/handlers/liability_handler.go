// backend/src/handlers/liability_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/username/patrimonio/backend/src/database"
	"github.com/username/patrimonio/backend/src/logger"
	"github.com/username/patrimonio/backend/src/model"
	"github.com/username/patrimonio/backend/src/models"
	"github.com/username/patrimonio/backend/src/security/validation"
	"github.com/username/patrimonio/backend/src/services"
	"github.com/username/patrimonio/backend/src/utils"
)

type LiabilityHandler struct {
	valuationService services.ValuationService
}

func NewLiabilityHandler(valuationService services.ValuationService) *LiabilityHandler {
	return &LiabilityHandler{valuationService: valuationService}
}

type liabilityInput struct {
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

func (in *liabilityInput) validate() (string, error) {
	name, err := validation.ValidateName(in.Name)
	if err != nil {
		return "", err
	}
	if err := validation.ValidateAmount("amount", in.Amount); err != nil {
		return "", err
	}
	return name, nil
}

func (h *LiabilityHandler) HandleListLiabilities(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	liabilities, err := model.ListLiabilities(database.DB, userID)
	if err != nil {
		logger.ErrorFromContext(r.Context(), "Failed to list liabilities", "error", err)
		utils.SendJSONError(w, "Failed to list liabilities", http.StatusInternalServerError)
		return
	}
	if liabilities == nil {
		liabilities = []models.Liability{}
	}

	utils.WriteJSON(w, http.StatusOK, liabilities)
}

func (h *LiabilityHandler) HandleCreateLiability(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var input liabilityInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	name, err := input.validate()
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	liability := &models.Liability{
		UserID:   userID,
		Name:     name,
		Category: validation.SanitizeText(input.Category),
		Amount:   input.Amount,
	}
	if err := model.CreateLiability(database.DB, liability); err != nil {
		logger.ErrorFromContext(r.Context(), "Failed to create liability", "error", err)
		utils.SendJSONError(w, "Failed to create liability", http.StatusInternalServerError)
		return
	}

	h.afterLiabilityMutation(userID)
	utils.WriteJSON(w, http.StatusCreated, liability)
}

func (h *LiabilityHandler) HandleUpdateLiability(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	liabilityID, err := idParam(r, "liabilityID")
	if err != nil {
		utils.SendJSONError(w, "Invalid liability ID", http.StatusBadRequest)
		return
	}

	var input liabilityInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	name, err := input.validate()
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	liability := &models.Liability{
		ID:       liabilityID,
		UserID:   userID,
		Name:     name,
		Category: validation.SanitizeText(input.Category),
		Amount:   input.Amount,
	}
	if err := model.UpdateLiability(database.DB, liability); err != nil {
		if errors.Is(err, model.ErrEntryNotFound) {
			utils.SendJSONError(w, "Liability not found", http.StatusNotFound)
			return
		}
		logger.ErrorFromContext(r.Context(), "Failed to update liability", "liabilityID", liabilityID, "error", err)
		utils.SendJSONError(w, "Failed to update liability", http.StatusInternalServerError)
		return
	}

	h.afterLiabilityMutation(userID)
	utils.WriteJSON(w, http.StatusOK, liability)
}

func (h *LiabilityHandler) HandleDeleteLiability(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	liabilityID, err := idParam(r, "liabilityID")
	if err != nil {
		utils.SendJSONError(w, "Invalid liability ID", http.StatusBadRequest)
		return
	}

	if err := model.DeleteLiability(database.DB, userID, liabilityID); err != nil {
		if errors.Is(err, model.ErrEntryNotFound) {
			utils.SendJSONError(w, "Liability not found", http.StatusNotFound)
			return
		}
		logger.ErrorFromContext(r.Context(), "Failed to delete liability", "liabilityID", liabilityID, "error", err)
		utils.SendJSONError(w, "Failed to delete liability", http.StatusInternalServerError)
		return
	}

	h.afterLiabilityMutation(userID)
	w.WriteHeader(http.StatusNoContent)
}

// Liabilities feed directly into net worth, so the snapshot series is
// rebuilt in the background after every change.
func (h *LiabilityHandler) afterLiabilityMutation(userID int64) {
	h.valuationService.InvalidateUserCache(userID)
	go func() {
		if err := h.valuationService.RebuildHistory(userID); err != nil {
			logger.L.Error("Background history rebuild failed", "userID", userID, "error", err)
		}
	}()
}
