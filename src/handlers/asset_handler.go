// backend/src/handlers/asset_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/username/patrimonio/backend/src/database"
	"github.com/username/patrimonio/backend/src/logger"
	"github.com/username/patrimonio/backend/src/model"
	"github.com/username/patrimonio/backend/src/models"
	"github.com/username/patrimonio/backend/src/processors"
	"github.com/username/patrimonio/backend/src/security/validation"
	"github.com/username/patrimonio/backend/src/services"
	"github.com/username/patrimonio/backend/src/utils"
)

type AssetHandler struct {
	valuationService services.ValuationService
	incomeService    services.IncomeService
}

func NewAssetHandler(valuationService services.ValuationService, incomeService services.IncomeService) *AssetHandler {
	return &AssetHandler{
		valuationService: valuationService,
		incomeService:    incomeService,
	}
}

type assetInput struct {
	Name             string                  `json:"name"`
	Category         string                  `json:"category"`
	CurrentPrice     *decimal.Decimal        `json:"current_price"`
	DividendSchedule *models.PaymentSchedule `json:"dividend_schedule"`
}

func (in *assetInput) validate() (string, error) {
	name, err := validation.ValidateName(in.Name)
	if err != nil {
		return "", err
	}
	if in.CurrentPrice != nil {
		if err := validation.ValidateAmount("current price", *in.CurrentPrice); err != nil {
			return "", err
		}
	}
	if in.DividendSchedule != nil {
		if err := validation.ValidatePaymentSchedule(*in.DividendSchedule); err != nil {
			return "", err
		}
	}
	return name, nil
}

func (h *AssetHandler) HandleListAssets(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	assets, err := model.ListAssetsByUser(database.DB, userID)
	if err != nil {
		logger.ErrorFromContext(r.Context(), "Failed to list assets", "error", err)
		utils.SendJSONError(w, "Failed to list assets", http.StatusInternalServerError)
		return
	}
	if assets == nil {
		assets = []*models.AssetDefinition{}
	}

	utils.WriteJSON(w, http.StatusOK, assets)
}

func (h *AssetHandler) HandleGetAsset(w http.ResponseWriter, r *http.Request) {
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
		logger.ErrorFromContext(r.Context(), "Failed to fetch asset", "assetID", assetID, "error", err)
		utils.SendJSONError(w, "Failed to fetch asset", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, asset)
}

func (h *AssetHandler) HandleCreateAsset(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var input assetInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	name, err := input.validate()
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	asset := &models.AssetDefinition{
		UserID:           userID,
		Name:             name,
		Category:         validation.SanitizeText(input.Category),
		CurrentPrice:     input.CurrentPrice,
		DividendSchedule: input.DividendSchedule,
	}
	if err := model.CreateAsset(database.DB, asset); err != nil {
		logger.ErrorFromContext(r.Context(), "Failed to create asset", "error", err)
		utils.SendJSONError(w, "Failed to create asset", http.StatusInternalServerError)
		return
	}

	h.afterPortfolioMutation(userID)
	utils.WriteJSON(w, http.StatusCreated, asset)
}

func (h *AssetHandler) HandleUpdateAsset(w http.ResponseWriter, r *http.Request) {
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

	var input assetInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	name, err := input.validate()
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	asset := &models.AssetDefinition{
		ID:               assetID,
		UserID:           userID,
		Name:             name,
		Category:         validation.SanitizeText(input.Category),
		CurrentPrice:     input.CurrentPrice,
		DividendSchedule: input.DividendSchedule,
	}
	if err := model.UpdateAsset(database.DB, asset); err != nil {
		if errors.Is(err, model.ErrAssetNotFound) {
			utils.SendJSONError(w, "Asset not found", http.StatusNotFound)
			return
		}
		logger.ErrorFromContext(r.Context(), "Failed to update asset", "assetID", assetID, "error", err)
		utils.SendJSONError(w, "Failed to update asset", http.StatusInternalServerError)
		return
	}

	// Income lookups key on a fingerprint of the schedule, so an edit
	// naturally misses the old cache entry. Valuations need the refresh.
	h.afterPortfolioMutation(userID)
	utils.WriteJSON(w, http.StatusOK, asset)
}

func (h *AssetHandler) HandleDeleteAsset(w http.ResponseWriter, r *http.Request) {
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

	if err := model.DeleteAsset(database.DB, userID, assetID); err != nil {
		if errors.Is(err, model.ErrAssetNotFound) {
			utils.SendJSONError(w, "Asset not found", http.StatusNotFound)
			return
		}
		logger.ErrorFromContext(r.Context(), "Failed to delete asset", "assetID", assetID, "error", err)
		utils.SendJSONError(w, "Failed to delete asset", http.StatusInternalServerError)
		return
	}

	h.afterPortfolioMutation(userID)
	w.WriteHeader(http.StatusNoContent)
}

type pricePointInput struct {
	Date  string          `json:"date"`
	Price decimal.Decimal `json:"price"`
}

func (h *AssetHandler) HandleAddPricePoint(w http.ResponseWriter, r *http.Request) {
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
	if _, err := model.GetAssetByID(database.DB, userID, assetID); err != nil {
		utils.SendJSONError(w, "Asset not found", http.StatusNotFound)
		return
	}

	var input pricePointInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	date, err := time.Parse(processors.DateFormat, input.Date)
	if err != nil {
		utils.SendJSONError(w, "Invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	if err := validation.ValidateAmount("price", input.Price); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	point := models.PriceHistoryPoint{Date: date, Price: input.Price}
	if err := model.InsertPricePoint(database.DB, assetID, point); err != nil {
		logger.ErrorFromContext(r.Context(), "Failed to insert price point", "assetID", assetID, "error", err)
		utils.SendJSONError(w, "Failed to insert price point", http.StatusInternalServerError)
		return
	}

	h.afterPortfolioMutation(userID)
	utils.WriteJSON(w, http.StatusCreated, point)
}

func (h *AssetHandler) HandleGetPriceHistory(w http.ResponseWriter, r *http.Request) {
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
	if _, err := model.GetAssetByID(database.DB, userID, assetID); err != nil {
		utils.SendJSONError(w, "Asset not found", http.StatusNotFound)
		return
	}

	history, err := model.GetPriceHistory(database.DB, assetID)
	if err != nil {
		logger.ErrorFromContext(r.Context(), "Failed to fetch price history", "assetID", assetID, "error", err)
		utils.SendJSONError(w, "Failed to fetch price history", http.StatusInternalServerError)
		return
	}
	if history == nil {
		history = []models.PriceHistoryPoint{}
	}

	utils.WriteJSON(w, http.StatusOK, history)
}

type transactionInput struct {
	PurchaseDate    string                 `json:"purchase_date"`
	Quantity        decimal.Decimal        `json:"quantity"`
	Price           decimal.Decimal        `json:"price"`
	TransactionType models.TransactionType `json:"transaction_type"`
}

func (h *AssetHandler) HandleAddTransaction(w http.ResponseWriter, r *http.Request) {
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
	if _, err := model.GetAssetByID(database.DB, userID, assetID); err != nil {
		utils.SendJSONError(w, "Asset not found", http.StatusNotFound)
		return
	}

	var input transactionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	date, err := time.Parse(processors.DateFormat, input.PurchaseDate)
	if err != nil {
		utils.SendJSONError(w, "Invalid purchase_date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	if err := validation.ValidateTransactionType(input.TransactionType); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidateAmount("quantity", input.Quantity); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidateAmount("price", input.Price); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	tx := &models.AssetTransaction{
		AssetID:         assetID,
		PurchaseDate:    date,
		Quantity:        input.Quantity,
		Price:           input.Price,
		TransactionType: input.TransactionType,
		Value:           input.Quantity.Mul(input.Price),
	}
	if err := model.InsertTransaction(database.DB, tx); err != nil {
		logger.ErrorFromContext(r.Context(), "Failed to insert transaction", "assetID", assetID, "error", err)
		utils.SendJSONError(w, "Failed to insert transaction", http.StatusInternalServerError)
		return
	}

	h.afterPortfolioMutation(userID)
	utils.WriteJSON(w, http.StatusCreated, tx)
}

func (h *AssetHandler) HandleListTransactions(w http.ResponseWriter, r *http.Request) {
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
	if _, err := model.GetAssetByID(database.DB, userID, assetID); err != nil {
		utils.SendJSONError(w, "Asset not found", http.StatusNotFound)
		return
	}

	transactions, err := model.ListTransactionsByAsset(database.DB, assetID)
	if err != nil {
		logger.ErrorFromContext(r.Context(), "Failed to list transactions", "assetID", assetID, "error", err)
		utils.SendJSONError(w, "Failed to list transactions", http.StatusInternalServerError)
		return
	}
	if transactions == nil {
		transactions = []models.AssetTransaction{}
	}

	utils.WriteJSON(w, http.StatusOK, transactions)
}

func (h *AssetHandler) HandleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	transactionID, err := idParam(r, "transactionID")
	if err != nil {
		utils.SendJSONError(w, "Invalid transaction ID", http.StatusBadRequest)
		return
	}

	if err := model.DeleteTransaction(database.DB, userID, transactionID); err != nil {
		utils.SendJSONError(w, "Transaction not found", http.StatusNotFound)
		return
	}

	h.afterPortfolioMutation(userID)
	w.WriteHeader(http.StatusNoContent)
}

// afterPortfolioMutation drops derived caches and kicks off a snapshot
// rebuild in the background. Reads served before the rebuild completes see
// the previous series, which is acceptable for a dashboard.
func (h *AssetHandler) afterPortfolioMutation(userID int64) {
	h.valuationService.InvalidateUserCache(userID)
	go func() {
		if err := h.valuationService.RebuildHistory(userID); err != nil {
			logger.L.Error("Background history rebuild failed", "userID", userID, "error", err)
		}
	}()
}

func idParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
