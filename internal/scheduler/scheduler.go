// Package scheduler runs the periodic jobs of the dashboard process.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/carbonview/dashboard/internal/session"
)

// CatalogWarmer refreshes the cached material and element catalogs.
type CatalogWarmer interface {
	WarmCatalogs(ctx context.Context, id session.Identity) error
}

type Scheduler struct {
	cron    *cron.Cron
	warmer  CatalogWarmer
	id      session.Identity
	timeout time.Duration
	logger  *zap.Logger
}

// New builds a scheduler whose catalog job runs as the service identity
// holding token. schedule uses the six-field (seconds first) cron syntax.
func New(schedule string, warmer CatalogWarmer, token string, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		warmer:  warmer,
		id:      session.Service(token),
		timeout: time.Minute,
		logger:  logger,
	}
	if _, err := s.cron.AddFunc(schedule, s.RefreshCatalogs); err != nil {
		return nil, fmt.Errorf("catalog refresh schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start runs the jobs in the background.
func (s *Scheduler) Start() {
	s.logger.Info("cron scheduler started", zap.Int("jobs", len(s.cron.Entries())))
	s.cron.Start()
}

// Stop halts scheduling and waits for a running job until ctx ends.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// RefreshCatalogs is the job body. It is exported so the worker binary can
// run it once without scheduling.
func (s *Scheduler) RefreshCatalogs() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	if err := s.warmer.WarmCatalogs(ctx, s.id); err != nil {
		s.logger.Warn("catalog refresh failed", zap.Error(err))
		return
	}
	s.logger.Info("catalog refresh completed", zap.Duration("took", time.Since(start)))
}
