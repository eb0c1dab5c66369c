package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/carbonview/dashboard/config"
	"github.com/carbonview/dashboard/internal/bootstrap"
	"github.com/carbonview/dashboard/internal/scheduler"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: worker <warm|migrate|run>")
	}

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

	switch os.Args[1] {
	case "warm":
		app := mustApp(ctx, cfg, logger)
		defer app.Close()
		if app.Redis == nil {
			logger.Warn("REDIS_ADDR is not set; nothing to warm")
			return
		}
		sched := mustScheduler(cfg, app, logger)
		sched.RefreshCatalogs()
	case "migrate":
		if cfg.Database.DSN == "" {
			logger.Fatal("DB_DSN is required for migrate")
		}
		// NewApp creates the receipts table as part of startup.
		app := mustApp(ctx, cfg, logger)
		app.Close()
		logger.Info("receipts schema is up to date")
	case "run":
		app := mustApp(ctx, cfg, logger)
		defer app.Close()
		sched := mustScheduler(cfg, app, logger)
		sched.Start()
		<-ctx.Done()
		sched.Stop(context.Background())
	default:
		logger.Fatal("unknown command", zap.String("command", os.Args[1]))
	}
}

func mustApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) *bootstrap.App {
	app, err := bootstrap.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("startup failed", zap.Error(err))
	}
	return app
}

func mustScheduler(cfg *config.Config, app *bootstrap.App, logger *zap.Logger) *scheduler.Scheduler {
	sched, err := scheduler.New(cfg.Jobs.CatalogRefreshCron, app.Service, cfg.CarbonAPI.ServiceToken, logger)
	if err != nil {
		logger.Fatal("scheduler", zap.Error(err))
	}
	return sched
}
