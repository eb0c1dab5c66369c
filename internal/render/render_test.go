package render

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carbonview/dashboard/internal/chartdata"
	"github.com/carbonview/dashboard/internal/domain"
	"github.com/carbonview/dashboard/internal/viewstate"
)

func sampleTree() domain.EcBreakdownTree {
	return domain.EcBreakdownTree{Categories: []domain.TreeCategory{{
		Name: "Structure", Total: 100,
		Elements: []domain.TreeElement{{
			Name: "Concrete", Total: 100,
			Materials: []domain.TreeMaterial{{Name: "Concrete", Total: 100}},
		}},
	}}}
}

func TestUniqueNames(t *testing.T) {
	g := chartdata.BuildFlowGraph(sampleTree(), chartdata.FlowOptions{})
	names := uniqueNames(g.Nodes)

	seen := map[string]bool{}
	for _, n := range names {
		assert.False(t, seen[n], "duplicate sankey name %q", n)
		seen[n] = true
	}
	assert.Equal(t, "Concrete", names[2])
	assert.Equal(t, "Concrete\u200b", names[3])
}

func TestProject_RendersCharts(t *testing.T) {
	summary := domain.BreakdownSummary{
		ByMaterial:       domain.FromPairs("concrete", 100.0),
		ByElement:        domain.FromPairs("wall", 100.0),
		ByBuildingSystem: domain.FromPairs("structure", 100.0),
	}
	charts := chartdata.SummaryCharts(summary)
	flow := chartdata.BuildFlowGraph(sampleTree(), chartdata.FlowOptions{})
	page := viewstate.ProjectPage{
		Project:         viewstate.Ready(domain.Project{ID: "p1", Name: "Harbour Tower"}),
		SelectedVersion: 2,
		Breakdown:       viewstate.Ready(summary),
		Charts:          &charts,
		Tree:            viewstate.Ready(sampleTree()),
		Flow:            &flow,
	}

	var buf bytes.Buffer
	require.NoError(t, Project(&buf, page))
	html := buf.String()

	assert.Contains(t, html, "Harbour Tower (v2)")
	assert.Contains(t, html, "Carbon flow (v2)")
	assert.Contains(t, html, "sankey")
	assert.Contains(t, html, "By material")
	assert.Contains(t, html, "By building system")
	assert.Contains(t, html, "Total EC")
}

func TestProject_FailedFetches(t *testing.T) {
	page := viewstate.ProjectPage{
		Project:   viewstate.Ready(domain.Project{ID: "p1", Name: "Depot"}),
		Breakdown: viewstate.Failed[domain.BreakdownSummary]("breakdown", errors.New("timeout")),
		Tree:      viewstate.Ready(domain.EcBreakdownTree{}),
	}
	flow := chartdata.BuildFlowGraph(domain.EcBreakdownTree{}, chartdata.FlowOptions{})
	page.Flow = &flow

	var buf bytes.Buffer
	require.NoError(t, Project(&buf, page))
	html := buf.String()
	assert.Contains(t, html, "Failed to fetch breakdown")
	assert.NotContains(t, html, "By material")
}

func TestProject_ProjectFailure(t *testing.T) {
	page := viewstate.ProjectPage{
		Project: viewstate.Failed[domain.Project]("project", errors.New("boom")),
	}
	var buf bytes.Buffer
	require.NoError(t, Project(&buf, page))
	assert.Contains(t, buf.String(), "Failed to fetch project")
	assert.NotContains(t, buf.String(), "Carbon flow")
}

func TestCompareAndHistory(t *testing.T) {
	cmp := chartdata.CompareVersions([]chartdata.VersionValues{
		{Version: 1, Values: domain.FromPairs("concrete", 100.0)},
		{Version: 2, Values: domain.FromPairs("concrete", 80.0)},
	})
	var buf bytes.Buffer
	require.NoError(t, Compare(&buf, viewstate.ComparePage{
		Project:    viewstate.Ready(domain.Project{Name: "Depot"}),
		Dimension:  viewstate.ByMaterial,
		Comparison: &cmp,
	}))
	assert.Contains(t, buf.String(), "Depot by material")

	versions := []domain.UploadVersion{{Version: 1, TotalEC: 10, GFA: 2}}
	series := chartdata.HistorySeries(versions)
	buf.Reset()
	require.NoError(t, History(&buf, viewstate.HistoryPage{
		Project: viewstate.Ready(domain.Project{Name: "Depot"}),
		History: viewstate.Ready(versions),
		Series:  &series,
	}))
	assert.Contains(t, buf.String(), "Version history")
	assert.Contains(t, buf.String(), "Total EC (kgCO2e)")
}
