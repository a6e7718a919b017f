package main

import (
	"encoding/json"
	"net/http"
	"time"

	"pricescout/config"
	"pricescout/database"
	"pricescout/handlers"
	"pricescout/logger"
	"pricescout/middleware"
	"pricescout/repository"
	"pricescout/scheduler"
	"pricescout/scraper"
	"pricescout/search"
	"pricescout/services"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load environment variables
	envErr := godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg.LogLevel)
	if envErr != nil {
		logger.Log.Info("No .env file found, using environment variables")
	}

	// Initialize database
	if err := database.InitDatabase(cfg.DatabaseURL); err != nil {
		logger.Log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDatabase()

	if err := database.CreateTables(); err != nil {
		logger.Log.Fatalf("Failed to create tables: %v", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository()
	dealRepo := repository.NewDealRepository()

	// Price pipeline
	registry := scraper.NewRegistry()
	resolver := scraper.NewOfferResolver(registry, scraper.ResolverOptions{
		FetchTimeout:    cfg.FetchTimeout,
		PerDomainDelay:  cfg.PerDomainDelay,
		PriceFloor:      cfg.PriceFloor,
		SnippetFallback: true,
	})
	ranking := services.NewRankingService(resolver, services.RankingOptions{
		MaxPerStore: cfg.MaxPerStore,
		TopN:        cfg.TopN,
	})

	// External services
	searcher := search.NewGoogleClient(cfg.SearchAPIKey, cfg.SearchEngineID)
	barcode := services.NewBarcodeService()
	alternatives := services.NewAlternativesService()
	ocr := services.NewOCRService(cfg.VisionAPIKey)
	recipes := services.NewRecipeService(cfg.GeminiAPIKey, cfg.GeminiModel)
	dealsScraper := scraper.NewDealsScraper(cfg.FetchTimeout)
	auth := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)

	// Deals snapshot refresh
	refresher := scheduler.NewDealsRefresher(dealsScraper, dealRepo, cfg.DealsRefreshSpec)
	if err := refresher.Start(); err != nil {
		logger.Log.Fatalf("Failed to start deals refresher: %v", err)
	}
	defer refresher.Stop()

	// Handlers
	h := handlers.NewHandlers(searcher, ranking, barcode, alternatives, ocr, recipes, dealsScraper, dealRepo)
	authHandlers := handlers.NewAuthHandlers(auth)

	// Setup router
	r := mux.NewRouter()
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.RateLimitMiddleware(5))

	r.HandleFunc("/health", healthCheck).Methods("GET")

	r.HandleFunc("/search", h.Search).Methods("GET")
	r.HandleFunc("/search/stores", h.SearchStores).Methods("GET")
	r.HandleFunc("/scan", h.Scan).Methods("POST")
	r.HandleFunc("/scan-and-search", h.ScanAndSearch).Methods("POST")
	r.HandleFunc("/barcode/{code}", h.Barcode).Methods("GET")
	r.HandleFunc("/deals", h.Deals).Methods("GET")
	r.HandleFunc("/alternatives", h.Alternatives).Methods("POST")
	r.HandleFunc("/recipes", h.Recipe).Methods("POST")

	r.HandleFunc("/auth/register", authHandlers.Register).Methods("POST")
	r.HandleFunc("/auth/login", authHandlers.Login).Methods("POST")

	authed := r.PathPrefix("/auth").Subrouter()
	authed.Use(middleware.AuthMiddleware(auth))
	authed.HandleFunc("/me", authHandlers.Me).Methods("GET")

	// CORS configuration
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	addr := cfg.Host + ":" + cfg.Port
	logger.Log.Infof("Server starting on %s", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      c.Handler(r),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
	}
	logger.Log.Fatal(srv.ListenAndServe())
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"service":   "pricescout",
		"status":    "healthy",
		"timestamp": time.Now(),
	})
}
