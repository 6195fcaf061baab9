package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/yzahrani/billsplit/docs"
	"github.com/yzahrani/billsplit/internal/activity"
	"github.com/yzahrani/billsplit/internal/bill"
	billsplit "github.com/yzahrani/billsplit/internal/bill/split"
	"github.com/yzahrani/billsplit/internal/config"
	"github.com/yzahrani/billsplit/internal/database"
	"github.com/yzahrani/billsplit/internal/debt"
	"github.com/yzahrani/billsplit/internal/user"
	"github.com/yzahrani/billsplit/pkg/clock"
	"github.com/yzahrani/billsplit/pkg/logging"
	mw "github.com/yzahrani/billsplit/pkg/middleware"
)

// @title           Bill Splitting API
// @version         1.0
// @description     Bill splitting and multi-party debt settlement service
// @BasePath        /api/v1
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()
	logging.Setup(cfg.Env, cfg.LogLevel)

	// Initialize database connection
	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	slog.Info("connected to database")

	clk := clock.New()

	// Split Strategy Factory (Factory Pattern)
	splitFactory := billsplit.NewFactory()

	// User feature
	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(userService)

	// Activity feature
	activityRepo := activity.NewRepository(db)
	activityService := activity.NewService(activityRepo)
	activityHandler := activity.NewHandler(activityService)

	// Bill feature (with split factory injected)
	billRepo := bill.NewRepository(db)
	billService := bill.NewService(billRepo, splitFactory, activityService, clk)
	billHandler := bill.NewHandler(billService)

	// Debt feature
	debtRepo := debt.NewRepository(db)
	aggregator := debt.NewAggregator(clk, cfg.UpcomingWindowDays)
	scorer := debt.NewScorer(clk)
	debtService := debt.NewService(debtRepo, billRepo, aggregator, scorer, activityService, clk)
	debtHandler := debt.NewHandler(debtService)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(mw.UserHeaderMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/swagger/*", httpSwagger.Handler())

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Mount feature routers
		r.Mount("/users", userHandler.Routes())
		r.Mount("/bills", billHandler.Routes())
		r.Mount("/debts", debtHandler.Routes())
		r.Mount("/activities", activityHandler.Routes())
	})

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	slog.Info("server starting", "port", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
