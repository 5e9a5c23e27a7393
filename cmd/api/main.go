package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/yalshehri/tripsplit/docs"
	"github.com/yalshehri/tripsplit/internal/config"
	"github.com/yalshehri/tripsplit/internal/database"
	"github.com/yalshehri/tripsplit/internal/expense"
	expensesplit "github.com/yalshehri/tripsplit/internal/expense/split"
	"github.com/yalshehri/tripsplit/internal/fx"
	"github.com/yalshehri/tripsplit/internal/settlement"
	"github.com/yalshehri/tripsplit/internal/trip"
	"github.com/yalshehri/tripsplit/pkg/logging"
	mw "github.com/yalshehri/tripsplit/pkg/middleware"
)

// @title        TripSplit API
// @version      1.0
// @description  Shared trip expenses in multiple currencies, settled with a minimal set of transfers.
// @BasePath     /api/v1
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	logging.Setup()

	// Load configuration
	cfg := config.Load()

	// Initialize database connection
	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	slog.Info("Connected to database")

	// Split strategy factory
	splitFactory := expensesplit.NewFactory()

	// FX snapshot provider. Rates are only consulted at expense creation;
	// swap in a real provider implementation here when one is available.
	rates := fx.NewStaticProvider(nil)

	// Trip feature
	tripRepo := trip.NewRepository(db)
	tripService := trip.NewService(tripRepo)
	tripHandler := trip.NewHandler(tripService)

	// Expense feature
	expenseRepo := expense.NewRepository(db)
	expenseService := expense.NewService(expenseRepo, tripRepo, rates, splitFactory)
	expenseHandler := expense.NewHandler(expenseService)

	// Settlement engine
	settlementRepo := settlement.NewRepository(db)
	settlementService := settlement.NewService(settlementRepo, expenseRepo, tripRepo)
	settlementHandler := settlement.NewHandler(settlementService)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.ActorMiddleware)

		r.Mount("/trips", tripHandler.Routes())
		r.Mount("/expenses", expenseHandler.Routes())
		r.Mount("/settlements", settlementHandler.Routes())
	})

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	slog.Info("Server starting", "port", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
