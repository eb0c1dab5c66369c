package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/carbonview/dashboard/config"
	"github.com/carbonview/dashboard/internal/bootstrap"
	"github.com/carbonview/dashboard/internal/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := bootstrap.NewLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("startup failed", zap.Error(err))
	}
	defer app.Close()

	bootstrap.SetGinMode(cfg.App.Environment)
	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    cfg.App.ServiceName,
		Version:        cfg.App.Version,
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
		MaxUploadBytes: cfg.Uploads.MaxBytes(),
		Service:        app.Service,
		DB:             app.DBPinger(),
		Verifier:       app.Verifier,
		Logger:         logger,
	})

	// Catalog warming only pays off when there is a shared cache to fill.
	var sched *scheduler.Scheduler
	if app.Redis != nil {
		sched, err = scheduler.New(cfg.Jobs.CatalogRefreshCron, app.Service, cfg.CarbonAPI.ServiceToken, logger)
		if err != nil {
			logger.Fatal("scheduler", zap.Error(err))
		}
		sched.Start()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening",
			zap.String("addr", srv.Addr),
			zap.String("carbon_api", cfg.CarbonAPI.BaseURL),
			zap.String("env", cfg.App.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if sched != nil {
		sched.Stop(shutdownCtx)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}
