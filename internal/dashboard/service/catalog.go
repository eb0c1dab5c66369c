package service

import (
	"context"
	"fmt"

	"github.com/carbonview/dashboard/internal/cache"
	"github.com/carbonview/dashboard/internal/domain"
	"github.com/carbonview/dashboard/internal/logging"
	"github.com/carbonview/dashboard/internal/session"
	"github.com/carbonview/dashboard/internal/viewstate"
)

const (
	catalogMaterials = "materials"
	catalogElements  = "elements"
)

func (s *Service) Materials(ctx context.Context, id session.Identity) viewstate.Result[[]domain.Material] {
	ms, err := cached(ctx, s, "ListMaterials", cache.CatalogKey(catalogMaterials), true,
		func() ([]domain.Material, error) { return s.backend.ListMaterials(ctx, id) })
	return viewstate.From("materials", ms, err)
}

func (s *Service) Elements(ctx context.Context, id session.Identity) viewstate.Result[[]domain.Element] {
	es, err := cached(ctx, s, "ListElements", cache.CatalogKey(catalogElements), true,
		func() ([]domain.Element, error) { return s.backend.ListElements(ctx, id) })
	return viewstate.From("elements", es, err)
}

// WarmCatalogs refetches both catalogs and overwrites their cache entries.
func (s *Service) WarmCatalogs(ctx context.Context, id session.Identity) error {
	logger := logging.FromContext(ctx, s.logger)

	ms, err := s.backend.ListMaterials(ctx, id)
	if err != nil {
		return fmt.Errorf("refresh materials: %w", err)
	}
	if err := s.cache.SetJSON(ctx, cache.CatalogKey(catalogMaterials), ms, s.cacheTTL); err != nil {
		return fmt.Errorf("cache materials: %w", err)
	}

	es, err := s.backend.ListElements(ctx, id)
	if err != nil {
		return fmt.Errorf("refresh elements: %w", err)
	}
	if err := s.cache.SetJSON(ctx, cache.CatalogKey(catalogElements), es, s.cacheTTL); err != nil {
		return fmt.Errorf("cache elements: %w", err)
	}

	logger.LogInfof("WarmCatalogs", "cached %d materials and %d elements", len(ms), len(es))
	return nil
}
