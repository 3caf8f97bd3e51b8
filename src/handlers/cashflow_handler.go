// backend/src/handlers/cashflow_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/username/patrimonio/backend/src/database"
	"github.com/username/patrimonio/backend/src/logger"
	"github.com/username/patrimonio/backend/src/model"
	"github.com/username/patrimonio/backend/src/models"
	"github.com/username/patrimonio/backend/src/processors"
	"github.com/username/patrimonio/backend/src/security/validation"
	"github.com/username/patrimonio/backend/src/services"
	"github.com/username/patrimonio/backend/src/utils"
)

type CashflowHandler struct {
	cashflowService services.CashflowService
}

func NewCashflowHandler(cashflowService services.CashflowService) *CashflowHandler {
	return &CashflowHandler{cashflowService: cashflowService}
}

type cashflowInput struct {
	Kind     models.CashflowKind    `json:"kind"`
	Name     string                 `json:"name"`
	Category string                 `json:"category"`
	Schedule models.PaymentSchedule `json:"schedule"`
}

func (in *cashflowInput) validate() (string, error) {
	if in.Kind != models.CashflowIncome && in.Kind != models.CashflowExpense {
		return "", errors.New("kind must be income or expense")
	}
	name, err := validation.ValidateName(in.Name)
	if err != nil {
		return "", err
	}
	if err := validation.ValidatePaymentSchedule(in.Schedule); err != nil {
		return "", err
	}
	return name, nil
}

func (h *CashflowHandler) HandleListCashflows(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	kind := models.CashflowKind(r.URL.Query().Get("kind"))
	entries, err := model.ListCashflowEntries(database.DB, userID, kind)
	if err != nil {
		logger.ErrorFromContext(r.Context(), "Failed to list cashflow entries", "error", err)
		utils.SendJSONError(w, "Failed to list cashflow entries", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []models.CashflowEntry{}
	}

	utils.WriteJSON(w, http.StatusOK, entries)
}

func (h *CashflowHandler) HandleCreateCashflow(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var input cashflowInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	name, err := input.validate()
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	entry := &models.CashflowEntry{
		UserID:   userID,
		Kind:     input.Kind,
		Name:     name,
		Category: validation.SanitizeText(input.Category),
		Schedule: input.Schedule,
	}
	if err := model.CreateCashflowEntry(database.DB, entry); err != nil {
		logger.ErrorFromContext(r.Context(), "Failed to create cashflow entry", "error", err)
		utils.SendJSONError(w, "Failed to create cashflow entry", http.StatusInternalServerError)
		return
	}

	h.cashflowService.InvalidateUserCache(userID)
	utils.WriteJSON(w, http.StatusCreated, entry)
}

func (h *CashflowHandler) HandleUpdateCashflow(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	entryID, err := idParam(r, "entryID")
	if err != nil {
		utils.SendJSONError(w, "Invalid entry ID", http.StatusBadRequest)
		return
	}

	var input cashflowInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	name, err := input.validate()
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	entry := &models.CashflowEntry{
		ID:       entryID,
		UserID:   userID,
		Kind:     input.Kind,
		Name:     name,
		Category: validation.SanitizeText(input.Category),
		Schedule: input.Schedule,
	}
	if err := model.UpdateCashflowEntry(database.DB, entry); err != nil {
		if errors.Is(err, model.ErrEntryNotFound) {
			utils.SendJSONError(w, "Entry not found", http.StatusNotFound)
			return
		}
		logger.ErrorFromContext(r.Context(), "Failed to update cashflow entry", "entryID", entryID, "error", err)
		utils.SendJSONError(w, "Failed to update cashflow entry", http.StatusInternalServerError)
		return
	}

	h.cashflowService.InvalidateUserCache(userID)
	utils.WriteJSON(w, http.StatusOK, entry)
}

func (h *CashflowHandler) HandleDeleteCashflow(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	entryID, err := idParam(r, "entryID")
	if err != nil {
		utils.SendJSONError(w, "Invalid entry ID", http.StatusBadRequest)
		return
	}

	if err := model.DeleteCashflowEntry(database.DB, userID, entryID); err != nil {
		if errors.Is(err, model.ErrEntryNotFound) {
			utils.SendJSONError(w, "Entry not found", http.StatusNotFound)
			return
		}
		logger.ErrorFromContext(r.Context(), "Failed to delete cashflow entry", "entryID", entryID, "error", err)
		utils.SendJSONError(w, "Failed to delete cashflow entry", http.StatusInternalServerError)
		return
	}

	h.cashflowService.InvalidateUserCache(userID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *CashflowHandler) HandleGetCashflowSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	summary, err := h.cashflowService.Summary(userID)
	if err != nil {
		if errors.Is(err, processors.ErrInvalidSchedule) {
			utils.SendJSONError(w, "A cashflow entry has an invalid schedule", http.StatusUnprocessableEntity)
			return
		}
		logger.ErrorFromContext(r.Context(), "Failed to compute cashflow summary", "error", err)
		utils.SendJSONError(w, "Failed to compute cashflow summary", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, summary)
}
