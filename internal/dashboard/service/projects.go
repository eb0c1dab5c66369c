package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/carbonview/dashboard/internal/cache"
	"github.com/carbonview/dashboard/internal/domain"
	"github.com/carbonview/dashboard/internal/logging"
	"github.com/carbonview/dashboard/internal/session"
)

func validateProjectInput(in *domain.ProjectInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return fmt.Errorf("project name is required: %w", domain.ErrInvalidInput)
	}
	for _, kv := range in.Benchmarks {
		if kv.Value < 0 {
			return fmt.Errorf("benchmark %q must not be negative: %w", kv.Key, domain.ErrInvalidInput)
		}
	}
	return nil
}

func (s *Service) CreateProject(ctx context.Context, id session.Identity, in domain.ProjectInput) (*domain.Project, error) {
	if err := validateProjectInput(&in); err != nil {
		return nil, err
	}
	return s.backend.CreateProject(ctx, id, in)
}

func (s *Service) UpdateProject(ctx context.Context, id session.Identity, projectID string, in domain.ProjectInput) (*domain.Project, error) {
	if err := validateProjectInput(&in); err != nil {
		return nil, err
	}
	return s.backend.UpdateProject(ctx, id, projectID, in)
}

func (s *Service) DeleteProject(ctx context.Context, id session.Identity, projectID string) error {
	if err := s.backend.DeleteProject(ctx, id, projectID); err != nil {
		return err
	}
	if err := cache.InvalidateProject(ctx, s.cache, projectID); err != nil {
		logging.FromContext(ctx, s.logger).LogWarnf("DeleteProject", "cache invalidation: %v", err)
	}
	return nil
}
