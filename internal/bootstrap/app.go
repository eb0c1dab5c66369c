package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/carbonview/dashboard/config"
	httpapi "github.com/carbonview/dashboard/internal/api/http"
	"github.com/carbonview/dashboard/internal/cache"
	"github.com/carbonview/dashboard/internal/carbonapi"
	"github.com/carbonview/dashboard/internal/dashboard/service"
	"github.com/carbonview/dashboard/internal/logging"
	"github.com/carbonview/dashboard/internal/session"
	"github.com/carbonview/dashboard/internal/uploads"
)

// App holds the process-wide dependencies built from the configuration.
// Optional dependencies stay nil when their settings are empty.
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Service  *service.Service
	Pool     *pgxpool.Pool
	Redis    *redis.Client
	Verifier session.TokenVerifier
}

// NewApp connects every configured dependency and assembles the dashboard
// service on top of them.
func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	app := &App{Config: cfg, Logger: logger}

	layout := config.FlowLayout{}
	if cfg.Flow.LayoutFile != "" {
		l, err := config.LoadFlowLayout(cfg.Flow.LayoutFile)
		if err != nil {
			return nil, err
		}
		layout = l
	}

	opts := service.Options{
		CacheTTL:       cfg.Redis.TTL,
		Flow:           layout.Options(),
		MaxUploadBytes: cfg.Uploads.MaxBytes(),
		Logger:         logger,
	}

	if cfg.Redis.Enabled() {
		client, err := OpenRedis(ctx, RedisOptions{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			app.Close()
			return nil, err
		}
		app.Redis = client
		opts.Cache = cache.NewRedisStore(client)
		logger.Info("redis cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	if cfg.Database.DSN != "" {
		pool, err := OpenDB(ctx, DBOptions{DSN: cfg.Database.DSN})
		if err != nil {
			app.Close()
			return nil, err
		}
		app.Pool = pool
		repo := uploads.NewReceiptRepository(SQLDB(pool))
		if err := repo.EnsureSchema(ctx); err != nil {
			app.Close()
			return nil, fmt.Errorf("receipts schema: %w", err)
		}
		opts.Receipts = repo
		logger.Info("upload receipts enabled")
	}

	if cfg.Uploads.ArchiveBucket != "" {
		archiver, err := uploads.NewS3ArchiverFromEnv(ctx, cfg.Uploads.AWSRegion, cfg.Uploads.ArchiveBucket)
		if err != nil {
			app.Close()
			return nil, err
		}
		opts.Archiver = archiver
		logger.Info("upload archive enabled", zap.String("bucket", cfg.Uploads.ArchiveBucket))
	}

	if cfg.Auth.FirebaseCredentialsPath != "" {
		verifier, err := session.NewFirebaseVerifier(ctx, cfg.Auth.FirebaseCredentialsPath)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.Verifier = verifier
	} else {
		logger.Warn("no Firebase credentials configured; trusting X-User-Id headers")
	}

	client := carbonapi.New(carbonapi.Options{
		BaseURL:       cfg.CarbonAPI.BaseURL,
		Timeout:       cfg.CarbonAPI.Timeout,
		UploadTimeout: cfg.CarbonAPI.UploadTimeout,
		RPS:           cfg.CarbonAPI.RPS,
		Burst:         cfg.CarbonAPI.Burst,
		Logger:        logger,
	})
	app.Service = service.New(client, opts)
	return app, nil
}

// DBPinger returns the database for health checks, or nil without one.
func (a *App) DBPinger() httpapi.Pinger {
	if a.Pool == nil {
		return nil
	}
	return a.Pool
}

func (a *App) Close() {
	if a.Pool != nil {
		a.Pool.Close()
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
}

// NewLogger builds the process logger from the app settings.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	logger, err := logging.New(cfg.App.LogLevel, cfg.App.Environment)
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("service", cfg.App.ServiceName)), nil
}
