package main

import (
	stdlog "log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/patrickmn/go-cache"
	"github.com/username/patrimonio/backend/src/config"
	"github.com/username/patrimonio/backend/src/database"
	"github.com/username/patrimonio/backend/src/handlers"
	"github.com/username/patrimonio/backend/src/logger"
	"github.com/username/patrimonio/backend/src/processors"
	"github.com/username/patrimonio/backend/src/security"
	"github.com/username/patrimonio/backend/src/services"
	"github.com/username/patrimonio/backend/src/utils"
	"golang.org/x/time/rate"
)

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			logger.L.Warn("Rate limit exceeded", "path", r.URL.Path)
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	allowed := make(map[string]bool, len(config.Cfg.AllowedOrigins))
	for _, origin := range config.Cfg.AllowedOrigins {
		allowed[origin] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, PATCH")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-Requested-With, Cookie")
			w.Header().Set("Access-Control-Expose-Headers", "X-CSRF-Token")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	logger.L.Info("Patrimonio backend server starting...")

	if len(config.Cfg.JWTSecret) < 32 {
		logger.L.Error("JWT_SECRET configuration invalid, need at least 32 characters.")
		os.Exit(1)
	}

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	database.RunMigrations(config.Cfg.DatabasePath)

	reportCache := services.NewGoCacheStore(
		cache.New(services.DefaultCacheExpiration, services.CacheCleanupInterval),
		services.DefaultCacheExpiration,
	)
	// Income entries key on content fingerprints, so they never go stale and
	// are kept until explicitly cleared.
	incomeCache := services.NewGoCacheStore(
		cache.New(cache.NoExpiration, services.CacheCleanupInterval),
		cache.NoExpiration,
	)

	authService := security.NewAuthService(config.Cfg.JWTSecret)

	scheduleProcessor := processors.NewScheduleProcessor()
	priceResolver := processors.NewPriceResolver()
	replayProcessor := processors.NewReplayProcessor()

	valuationService := services.NewValuationService(
		database.DB,
		priceResolver,
		replayProcessor,
		reportCache,
		config.Cfg.HistoryWindowDays,
		logger.L,
	)
	incomeService := services.NewIncomeService(scheduleProcessor, incomeCache)
	cashflowService := services.NewCashflowService(database.DB, scheduleProcessor, reportCache)

	userHandler := handlers.NewUserHandler(authService)
	assetHandler := handlers.NewAssetHandler(valuationService, incomeService)
	cashflowHandler := handlers.NewCashflowHandler(cashflowService)
	liabilityHandler := handlers.NewLiabilityHandler(valuationService)
	portfolioHandler := handlers.NewPortfolioHandler(valuationService)

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(handlers.ContextualLoggerMiddleware)
	r.Use(enableCORS)
	r.Use(rateLimitMiddleware)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Patrimonio backend is running"})
	})

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Group(func(r chi.Router) {
			r.Get("/auth/csrf", handlers.GetCSRFToken)
		})

		// Auth routes, CSRF protected
		r.Group(func(r chi.Router) {
			r.Use(handlers.CSRFMiddleware(config.Cfg.CSRFAuthKey))
			r.Post("/auth/register", userHandler.RegisterUserHandler)
			r.Post("/auth/login", userHandler.LoginUserHandler)
			r.Post("/auth/refresh", userHandler.RefreshTokenHandler)
			r.With(userHandler.AuthMiddleware).Post("/auth/logout", userHandler.LogoutUserHandler)
		})

		// Protected routes, require auth and CSRF
		r.Group(func(r chi.Router) {
			r.Use(handlers.CSRFMiddleware(config.Cfg.CSRFAuthKey))
			r.Use(userHandler.AuthMiddleware)

			r.Get("/assets", assetHandler.HandleListAssets)
			r.Post("/assets", assetHandler.HandleCreateAsset)
			r.Get("/assets/{assetID}", assetHandler.HandleGetAsset)
			r.Put("/assets/{assetID}", assetHandler.HandleUpdateAsset)
			r.Delete("/assets/{assetID}", assetHandler.HandleDeleteAsset)

			r.Get("/assets/{assetID}/prices", assetHandler.HandleGetPriceHistory)
			r.Post("/assets/{assetID}/prices", assetHandler.HandleAddPricePoint)
			r.Get("/assets/{assetID}/transactions", assetHandler.HandleListTransactions)
			r.Post("/assets/{assetID}/transactions", assetHandler.HandleAddTransaction)
			r.Delete("/transactions/{transactionID}", assetHandler.HandleDeleteTransaction)
			r.Get("/assets/{assetID}/income", assetHandler.HandleGetAssetIncome)

			r.Get("/cashflows", cashflowHandler.HandleListCashflows)
			r.Post("/cashflows", cashflowHandler.HandleCreateCashflow)
			r.Put("/cashflows/{entryID}", cashflowHandler.HandleUpdateCashflow)
			r.Delete("/cashflows/{entryID}", cashflowHandler.HandleDeleteCashflow)
			r.Get("/cashflows/summary", cashflowHandler.HandleGetCashflowSummary)

			r.Get("/liabilities", liabilityHandler.HandleListLiabilities)
			r.Post("/liabilities", liabilityHandler.HandleCreateLiability)
			r.Put("/liabilities/{liabilityID}", liabilityHandler.HandleUpdateLiability)
			r.Delete("/liabilities/{liabilityID}", liabilityHandler.HandleDeleteLiability)

			r.Get("/networth", portfolioHandler.HandleGetNetWorth)
			r.Get("/history/chart", portfolioHandler.HandleGetHistoryChart)
			r.Post("/history/rebuild", portfolioHandler.HandleRebuildHistory)
		})
	})

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		stdlog.Fatalf("Failed to start server: %v", err)
	}
}
