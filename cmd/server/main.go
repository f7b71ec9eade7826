package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/buildhub/homeowner-gateway/internal/config"
	"github.com/buildhub/homeowner-gateway/internal/db"
	"github.com/buildhub/homeowner-gateway/internal/goroutine"
	"github.com/buildhub/homeowner-gateway/internal/http/handlers"
	"github.com/buildhub/homeowner-gateway/internal/http/router"
	"github.com/buildhub/homeowner-gateway/internal/logger"
	"github.com/buildhub/homeowner-gateway/internal/payment"
	"github.com/buildhub/homeowner-gateway/internal/report"
	"github.com/buildhub/homeowner-gateway/internal/repository"
	"github.com/buildhub/homeowner-gateway/internal/service"
	"github.com/buildhub/homeowner-gateway/internal/storage"
	"github.com/buildhub/homeowner-gateway/internal/store"
	"github.com/buildhub/homeowner-gateway/internal/upstream"
	"github.com/buildhub/homeowner-gateway/internal/ws"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("info")
		logger.Log.WithError(err).Fatal("config load failed")
	}
	logger.Init(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Log.WithError(err).Fatal("postgres connect failed")
	}
	defer conn.Close()

	if err := db.RunMigrations(ctx, conn, cfg.MigrationsPath); err != nil {
		logger.Log.WithError(err).Fatal("migrations failed")
	}

	client := upstream.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamTimeout)

	unlockRepo := repository.NewUnlockRepository(conn)
	tourRepo := repository.NewTourRepository(conn)
	auditRepo := repository.NewPaymentAuditRepository(conn)

	receiptStore, err := storage.NewReceiptStorage(cfg.ReceiptStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		logger.Log.WithError(err).Fatal("receipt storage init failed")
	}

	hub := ws.NewHub()
	hub.Run()

	manager := store.NewManager(client, hub, cfg.PollInterval, cfg.SessionIdleTTL)
	manager.StartReaper(ctx)

	tokens := service.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)
	flow := payment.NewFlow(client, unlockRepo, auditRepo, hub)
	reports := report.NewGenerator(report.NewTextRasterizer())

	dashboardSvc := service.NewDashboardService(manager, client, unlockRepo)
	estimateSvc := service.NewEstimateService(manager, client, reports)
	wizardSvc := service.NewWizardService(client)
	progressSvc := service.NewProgressService(client)
	supportSvc := service.NewSupportService(client)
	tourSvc := service.NewTourService(tourRepo)
	receiptSvc := service.NewReceiptService(client, receiptStore)

	engine := router.New(cfg, tokens, router.Handlers{
		Session:   handlers.NewSessionHandler(client, tokens, dashboardSvc),
		Dashboard: handlers.NewDashboardHandler(dashboardSvc),
		Estimate:  handlers.NewEstimateHandler(estimateSvc, receiptSvc),
		Payment:   handlers.NewPaymentHandler(flow),
		Wizard:    handlers.NewWizardHandler(wizardSvc),
		Progress:  handlers.NewProgressHandler(progressSvc),
		Support:   handlers.NewSupportHandler(supportSvc),
		Tour:      handlers.NewTourHandler(tourSvc),
		WS:        handlers.NewWSHandler(hub, cfg.AllowedOrigins),
		Health:    handlers.NewHealthHandler(conn),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	goroutine.SafeGo("http-server", func() {
		logger.Log.WithField("port", cfg.HTTPPort).Info("gateway listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.WithError(err).Fatal("http server failed")
		}
	})

	<-ctx.Done()
	logger.Log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("http shutdown failed")
	}
	manager.StopAll()
	logger.Log.Info("bye")
}
