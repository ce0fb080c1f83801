package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/courtside/payments-engine/internal/config"
	"github.com/courtside/payments-engine/internal/domain"
	"github.com/courtside/payments-engine/internal/handler"
	"github.com/courtside/payments-engine/internal/logging"
	"github.com/courtside/payments-engine/internal/middleware"
	"github.com/courtside/payments-engine/internal/report"
	"github.com/courtside/payments-engine/internal/repository"
	"github.com/courtside/payments-engine/internal/service"
	"github.com/courtside/payments-engine/internal/service/payments"
	"github.com/courtside/payments-engine/internal/service/revenue"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("payments-engine", cfg.LogLevel, cfg.AppEnv)

	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := repository.Connect(connectCtx, cfg.DatabaseURL, repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
	})
	cancelConnect()
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	paymentRepo := repository.NewPaymentRepository(db)
	transitionRepo := repository.NewTransitionRepository(db)

	gatewayTimeout := time.Duration(cfg.GatewayTimeoutS) * time.Second
	gateway := service.NewGatewayClient(cfg.GatewayURL, gatewayTimeout)
	tournaments := service.NewTournamentClient(cfg.TournamentServiceURL, gatewayTimeout)

	paymentSvc := payments.NewService(
		paymentRepo,
		transitionRepo,
		gateway,
		tournaments,
		db,
		cfg.GatewaySecret,
		domain.Currency(cfg.DefaultCurrency),
	)
	revenueSvc := revenue.NewService(paymentRepo)
	renderer := report.NewRenderer("COURTSIDE")

	paymentHandler := handler.NewPaymentHandler(paymentSvc)
	revenueHandler := handler.NewRevenueHandler(revenueSvc)
	reportHandler := handler.NewReportHandler(paymentSvc, renderer)
	healthHandler := handler.NewHealthHandler(db)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler.Liveness)
	mux.HandleFunc("GET /health/ready", healthHandler.Readiness)

	mux.HandleFunc("POST /api/v1/payments", paymentHandler.Initiate)
	mux.HandleFunc("GET /api/v1/payments", paymentHandler.List)
	mux.HandleFunc("GET /api/v1/payments/{id}", paymentHandler.Get)
	mux.HandleFunc("POST /api/v1/payments/{id}/verify", paymentHandler.Verify)
	mux.HandleFunc("POST /api/v1/payments/{id}/refund", paymentHandler.Refund)
	mux.HandleFunc("GET /api/v1/payments/{id}/transitions", paymentHandler.Transitions)
	mux.HandleFunc("GET /api/v1/payments/{id}/receipt", reportHandler.Receipt)

	mux.HandleFunc("GET /api/v1/revenue/organizer/{ref}", revenueHandler.Organizer)
	mux.HandleFunc("GET /api/v1/revenue/admin", revenueHandler.Admin)
	mux.HandleFunc("GET /api/v1/revenue/payer/{ref}", revenueHandler.Payer)

	mux.HandleFunc("GET /api/v1/reports/payments", reportHandler.PaymentsReport)

	var root http.Handler = mux
	root = middleware.Recovery(root)
	root = middleware.Logging(root)
	root = middleware.Tracing(root)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           root,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
