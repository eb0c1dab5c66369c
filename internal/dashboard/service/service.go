// Package service loads the dashboard pages. Every loader takes the caller's
// identity explicitly and fills one viewstate.Result per backend fetch.
package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/carbonview/dashboard/internal/cache"
	"github.com/carbonview/dashboard/internal/chartdata"
	"github.com/carbonview/dashboard/internal/domain"
	"github.com/carbonview/dashboard/internal/logging"
	"github.com/carbonview/dashboard/internal/session"
	"github.com/carbonview/dashboard/internal/uploads"
)

// Backend is the carbon backend as the loaders use it.
type Backend interface {
	ListProjects(ctx context.Context, id session.Identity) ([]domain.Project, error)
	GetProject(ctx context.Context, id session.Identity, projectID string) (*domain.Project, error)
	CreateProject(ctx context.Context, id session.Identity, in domain.ProjectInput) (*domain.Project, error)
	UpdateProject(ctx context.Context, id session.Identity, projectID string, in domain.ProjectInput) (*domain.Project, error)
	DeleteProject(ctx context.Context, id session.Identity, projectID string) error
	GetHistory(ctx context.Context, id session.Identity, projectID string) ([]domain.UploadVersion, error)
	GetBreakdown(ctx context.Context, id session.Identity, projectID string, version int) (*domain.BreakdownSummary, error)
	GetEcBreakdown(ctx context.Context, id session.Identity, projectID string, version int) (*domain.EcBreakdownTree, error)
	UploadIFC(ctx context.Context, id session.Identity, projectID, fileName string, content []byte, comment string) (*domain.UploadVersion, error)
	ListMaterials(ctx context.Context, id session.Identity) ([]domain.Material, error)
	ListElements(ctx context.Context, id session.Identity) ([]domain.Element, error)
}

const (
	defaultFetchLimit = 4
	defaultCacheTTL   = time.Hour
)

type Options struct {
	Cache    cache.Store
	CacheTTL time.Duration
	Flow     chartdata.FlowOptions
	// Receipts and Archiver are optional.
	Receipts       uploads.ReceiptLog
	Archiver       uploads.Archiver
	MaxUploadBytes int64
	// FetchLimit bounds the concurrent backend fetches of one page load.
	FetchLimit int
	Logger     *zap.Logger
}

type Service struct {
	backend        Backend
	cache          cache.Store
	cacheTTL       time.Duration
	flow           chartdata.FlowOptions
	receipts       uploads.ReceiptLog
	archiver       uploads.Archiver
	maxUploadBytes int64
	fetchLimit     int
	logger         *zap.Logger
}

func New(backend Backend, opts Options) *Service {
	if opts.Cache == nil {
		opts.Cache = &cache.Nop{}
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = defaultCacheTTL
	}
	if opts.FetchLimit <= 0 {
		opts.FetchLimit = defaultFetchLimit
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Flow.ElementIdentity == "" {
		opts.Flow.ElementIdentity = chartdata.ElementsByName
	}
	return &Service{
		backend:        backend,
		cache:          opts.Cache,
		cacheTTL:       opts.CacheTTL,
		flow:           opts.Flow,
		receipts:       opts.Receipts,
		archiver:       opts.Archiver,
		maxUploadBytes: opts.MaxUploadBytes,
		fetchLimit:     opts.FetchLimit,
		logger:         opts.Logger,
	}
}

// CacheStats reports cache hits and misses.
func (s *Service) CacheStats() cache.Stats { return s.cache.Stats() }

// Ping checks the cache connection.
func (s *Service) Ping(ctx context.Context) error { return s.cache.Ping(ctx) }

// CacheEnabled reports whether a real cache store is configured.
func (s *Service) CacheEnabled() bool {
	_, nop := s.cache.(*cache.Nop)
	return !nop
}

// cached reads key from the cache, falling back to fetch. Values are written
// back only when store is true. Cache failures never fail the fetch.
func cached[T any](ctx context.Context, s *Service, operation, key string, store bool, fetch func() (T, error)) (T, error) {
	logger := logging.FromContext(ctx, s.logger)

	if store {
		var v T
		found, err := s.cache.GetJSON(ctx, key, &v)
		if err != nil {
			logger.LogWarnf(operation, "cache read %s: %v", key, err)
		}
		if found {
			return v, nil
		}
	}

	v, err := fetch()
	if err != nil {
		return v, err
	}
	if store {
		if err := s.cache.SetJSON(ctx, key, v, s.cacheTTL); err != nil {
			logger.LogWarnf(operation, "cache write %s: %v", key, err)
		}
	}
	return v, nil
}

func deref[T any](p *T, err error) (T, error) {
	if err != nil || p == nil {
		var zero T
		return zero, err
	}
	return *p, nil
}
