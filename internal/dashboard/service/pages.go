package service

import (
	"context"
	"errors"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/carbonview/dashboard/internal/cache"
	"github.com/carbonview/dashboard/internal/chartdata"
	"github.com/carbonview/dashboard/internal/domain"
	"github.com/carbonview/dashboard/internal/session"
	"github.com/carbonview/dashboard/internal/viewstate"
)

func (s *Service) group() *errgroup.Group {
	g := &errgroup.Group{}
	g.SetLimit(s.fetchLimit)
	return g
}

func (s *Service) LoadProjects(ctx context.Context, id session.Identity) viewstate.ProjectsPage {
	projects, err := s.backend.ListProjects(ctx, id)
	return viewstate.ProjectsPage{Projects: viewstate.From("projects", projects, err)}
}

func (s *Service) loadProject(ctx context.Context, id session.Identity, projectID string) viewstate.Result[domain.Project] {
	p, err := deref(s.backend.GetProject(ctx, id, projectID))
	return viewstate.From("project", p, err)
}

// LoadProject loads the single-version page. rawVersion is the requested
// version number; empty selects the latest. The returned error is non-nil
// only when the selection itself is invalid.
func (s *Service) LoadProject(ctx context.Context, id session.Identity, projectID, rawVersion string) (viewstate.ProjectPage, error) {
	page := viewstate.ProjectPage{
		Breakdown: viewstate.Loading[domain.BreakdownSummary](),
		Tree:      viewstate.Loading[domain.EcBreakdownTree](),
	}

	g := s.group()
	g.Go(func() error {
		page.Project = s.loadProject(ctx, id, projectID)
		return nil
	})
	g.Go(func() error {
		page.Materials = s.Materials(ctx, id)
		return nil
	})
	g.Go(func() error {
		page.Elements = s.Elements(ctx, id)
		return nil
	})
	_ = g.Wait()

	if !page.Project.IsReady() {
		return page, nil
	}
	project := page.Project.Data

	version, err := viewstate.SelectVersion(&project, rawVersion)
	switch {
	case errors.Is(err, domain.ErrNoVersions):
		// A project without uploads shows an empty page, not an error.
		page.Breakdown = viewstate.Ready(domain.BreakdownSummary{})
		page.Tree = viewstate.Ready(domain.EcBreakdownTree{})
		s.derive(&page, project)
		return page, nil
	case err != nil:
		return page, err
	}
	page.SelectedVersion = version.Version
	page.Version = &version

	g = s.group()
	g.Go(func() error {
		page.Breakdown = s.breakdown(ctx, id, projectID, version)
		return nil
	})
	g.Go(func() error {
		page.Tree = s.tree(ctx, id, projectID, version)
		return nil
	})
	_ = g.Wait()

	s.derive(&page, project)
	return page, nil
}

// derive fills the chart structures from whatever results are ready.
func (s *Service) derive(page *viewstate.ProjectPage, project domain.Project) {
	if page.Version != nil {
		page.Intensity = chartdata.Intensity(page.Version.TotalEC, page.Version.GFA)
		page.Benchmarks = chartdata.BenchmarkStatus(project.Benchmarks, *page.Version)
	} else {
		page.Benchmarks = chartdata.BenchmarkStatus(project.Benchmarks, domain.UploadVersion{})
	}
	if page.Breakdown.IsReady() {
		charts := chartdata.SummaryCharts(page.Breakdown.Data)
		page.Charts = &charts
	}
	if page.Tree.IsReady() {
		flow := chartdata.BuildFlowGraph(page.Tree.Data, s.flowOptions(page))
		page.Flow = &flow
	}
}

// flowOptions adds the catalog names after the configured layout names so
// node ids stay put across versions that lack some of them. Catalog
// elements carry no category, so they are left out when elements are keyed
// by category.
func (s *Service) flowOptions(page *viewstate.ProjectPage) chartdata.FlowOptions {
	opts := s.flow
	if page.Elements.IsReady() && opts.ElementIdentity != chartdata.ElementsByCategory {
		opts.Elements = append(slices.Clip(opts.Elements), domain.ElementNames(page.Elements.Data)...)
	}
	if page.Materials.IsReady() {
		opts.Materials = append(slices.Clip(opts.Materials), domain.MaterialNames(page.Materials.Data)...)
	}
	return opts
}

// breakdown and tree read through the cache for completed versions only.
// Callers must have fetched the project for id first: the backend's access
// check on that fetch is what gates the shared cache entry.
func (s *Service) breakdown(ctx context.Context, id session.Identity, projectID string, v domain.UploadVersion) viewstate.Result[domain.BreakdownSummary] {
	b, err := cached(ctx, s, "GetBreakdown", cache.BreakdownKey(projectID, v.Version), v.Completed(),
		func() (domain.BreakdownSummary, error) {
			return deref(s.backend.GetBreakdown(ctx, id, projectID, v.Version))
		})
	return viewstate.From("breakdown", b, err)
}

func (s *Service) tree(ctx context.Context, id session.Identity, projectID string, v domain.UploadVersion) viewstate.Result[domain.EcBreakdownTree] {
	t, err := cached(ctx, s, "GetEcBreakdown", cache.TreeKey(projectID, v.Version), v.Completed(),
		func() (domain.EcBreakdownTree, error) {
			return deref(s.backend.GetEcBreakdown(ctx, id, projectID, v.Version))
		})
	return viewstate.From("carbon breakdown", t, err)
}

// LoadCompare loads the breakdowns of the versions listed in rawTargets
// (comma separated, empty for the latest two) and compares them along
// rawDimension.
func (s *Service) LoadCompare(ctx context.Context, id session.Identity, projectID, rawTargets, rawDimension string) (viewstate.ComparePage, error) {
	dim, err := viewstate.ParseDimension(rawDimension)
	if err != nil {
		return viewstate.ComparePage{}, err
	}
	page := viewstate.ComparePage{
		Project:    s.loadProject(ctx, id, projectID),
		Dimension:  dim,
		Targets:    []int{},
		Breakdowns: []viewstate.VersionBreakdown{},
	}
	if !page.Project.IsReady() {
		return page, nil
	}
	project := page.Project.Data

	targets, err := viewstate.ParseTargets(&project, rawTargets)
	if errors.Is(err, domain.ErrNoVersions) {
		return page, nil
	}
	if err != nil {
		return page, err
	}
	page.Targets = targets
	page.Breakdowns = make([]viewstate.VersionBreakdown, len(targets))

	g := s.group()
	for i, n := range targets {
		v, _ := project.FindVersion(n)
		g.Go(func() error {
			page.Breakdowns[i] = viewstate.VersionBreakdown{
				Version:   n,
				Breakdown: s.breakdown(ctx, id, projectID, v),
			}
			return nil
		})
	}
	_ = g.Wait()

	values := make([]chartdata.VersionValues, 0, len(targets))
	for _, b := range page.Breakdowns {
		if b.Breakdown.IsReady() {
			values = append(values, chartdata.VersionValues{Version: b.Version, Values: dim.Pick(b.Breakdown.Data)})
		}
	}
	if len(values) > 0 {
		cmp := chartdata.CompareVersions(values)
		page.Comparison = &cmp
	}
	return page, nil
}

func (s *Service) LoadHistory(ctx context.Context, id session.Identity, projectID string) viewstate.HistoryPage {
	var page viewstate.HistoryPage

	g := s.group()
	g.Go(func() error {
		page.Project = s.loadProject(ctx, id, projectID)
		return nil
	})
	g.Go(func() error {
		history, err := s.backend.GetHistory(ctx, id, projectID)
		page.History = viewstate.From("history", history, err)
		return nil
	})
	_ = g.Wait()

	if page.History.IsReady() {
		series := chartdata.HistorySeries(page.History.Data)
		page.Series = &series
	}
	return page
}
