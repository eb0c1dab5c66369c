package chartdata

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carbonview/dashboard/internal/domain"
)

func singleChainTree() domain.EcBreakdownTree {
	return domain.EcBreakdownTree{Categories: []domain.TreeCategory{{
		Name:  "substructure",
		Total: 100,
		Elements: []domain.TreeElement{{
			Name:      "slab",
			Total:     100,
			Materials: []domain.TreeMaterial{{Name: "concrete", Total: 100}},
		}},
	}}}
}

func TestBuildFlowGraph_EmptyTree(t *testing.T) {
	t.Run("no placeholders", func(t *testing.T) {
		g := BuildFlowGraph(domain.EcBreakdownTree{}, FlowOptions{})
		assert.Equal(t, []FlowNode{{Name: RootName, ID: 0}}, g.Nodes)
		assert.Empty(t, g.Links)
	})

	t.Run("fixed category placeholders", func(t *testing.T) {
		g := BuildFlowGraph(domain.EcBreakdownTree{}, FlowOptions{
			Categories: []string{"substructure", "superstructure"},
		})
		want := []FlowNode{
			{Name: RootName, ID: 0},
			{Name: "substructure", ID: 1},
			{Name: "superstructure", ID: 2},
		}
		if diff := cmp.Diff(want, g.Nodes); diff != "" {
			t.Errorf("nodes mismatch (-want +got):\n%s", diff)
		}
		assert.Empty(t, g.Links)
	})
}

func TestBuildFlowGraph_SingleChain(t *testing.T) {
	g := BuildFlowGraph(singleChainTree(), FlowOptions{})

	wantNodes := []FlowNode{
		{Name: RootName, ID: 0},
		{Name: "substructure", ID: 1},
		{Name: "slab", ID: 2},
		{Name: "concrete", ID: 3},
	}
	wantLinks := []FlowLink{
		{Source: 0, Target: 1, Value: 100},
		{Source: 1, Target: 2, Value: 100},
		{Source: 2, Target: 3, Value: 100},
	}
	if diff := cmp.Diff(wantNodes, g.Nodes); diff != "" {
		t.Errorf("nodes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantLinks, g.Links); diff != "" {
		t.Errorf("links mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, g.Nodes[1:], 3)
}

func TestBuildFlowGraph_Deterministic(t *testing.T) {
	tree := domain.EcBreakdownTree{Categories: []domain.TreeCategory{
		{Name: "superstructure", Total: 70, Elements: []domain.TreeElement{
			{Name: "frame", Total: 40, Materials: []domain.TreeMaterial{{Name: "steel", Total: 25}, {Name: "concrete", Total: 15}}},
			{Name: "roof", Total: 30, Materials: []domain.TreeMaterial{{Name: "timber", Total: 30}}},
		}},
		{Name: "substructure", Total: 50, Elements: []domain.TreeElement{
			{Name: "foundation", Total: 50, Materials: []domain.TreeMaterial{{Name: "concrete", Total: 50}}},
		}},
	}}
	opts := FlowOptions{Materials: []string{"glass"}}

	a, err := json.Marshal(BuildFlowGraph(tree, opts))
	require.NoError(t, err)
	b, err := json.Marshal(BuildFlowGraph(tree, opts))
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))

	g := BuildFlowGraph(tree, opts)
	names := make([]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		names = append(names, n.Name)
	}
	assert.Equal(t, []string{
		RootName, "superstructure", "substructure",
		"frame", "roof", "foundation",
		"glass", "steel", "concrete", "timber",
	}, names)

	// root links first, then category→element, then element→material
	require.Len(t, g.Links, 2+3+4)
	assert.Equal(t, FlowLink{Source: 0, Target: 1, Value: 70}, g.Links[0])
	assert.Equal(t, FlowLink{Source: 0, Target: 2, Value: 50}, g.Links[1])
	assert.Equal(t, FlowLink{Source: 1, Target: 3, Value: 40}, g.Links[2])
	assert.Equal(t, FlowLink{Source: 5, Target: 8, Value: 50}, g.Links[8])
}

func TestBuildFlowGraph_MissingMaterials(t *testing.T) {
	var tree domain.EcBreakdownTree
	err := json.Unmarshal([]byte(`{"categories":[{"name":"substructure","total":10,"elements":[{"name":"piles","total":10}]}]}`), &tree)
	require.NoError(t, err)

	g := BuildFlowGraph(tree, FlowOptions{})
	require.Len(t, g.Nodes, 3)
	piles := g.Nodes[2]
	assert.Equal(t, "piles", piles.Name)
	for _, l := range g.Links {
		assert.NotEqual(t, piles.ID, l.Source, "element without materials must have no outgoing links")
	}
}

func TestBuildFlowGraph_CategoryWithoutElements(t *testing.T) {
	tree := domain.EcBreakdownTree{Categories: []domain.TreeCategory{
		{Name: "external works", Total: 0},
		{Name: "services", Total: 12},
	}}
	g := BuildFlowGraph(tree, FlowOptions{})
	assert.Equal(t, []FlowLink{
		{Source: 0, Target: 1, Value: 0},
		{Source: 0, Target: 2, Value: 12},
	}, g.Links)
}

func TestBuildFlowGraph_DuplicateElementNames(t *testing.T) {
	tree := domain.EcBreakdownTree{Categories: []domain.TreeCategory{
		{Name: "substructure", Total: 10, Elements: []domain.TreeElement{{Name: "wall", Total: 10}}},
		{Name: "superstructure", Total: 20, Elements: []domain.TreeElement{{Name: "wall", Total: 20}}},
	}}

	t.Run("by name collapses", func(t *testing.T) {
		g := BuildFlowGraph(tree, FlowOptions{})
		require.Len(t, g.Nodes, 4)
		assert.Equal(t, FlowLink{Source: 1, Target: 3, Value: 10}, g.Links[2])
		assert.Equal(t, FlowLink{Source: 2, Target: 3, Value: 20}, g.Links[3])
	})

	t.Run("by category keeps both", func(t *testing.T) {
		g := BuildFlowGraph(tree, FlowOptions{ElementIdentity: ElementsByCategory})
		require.Len(t, g.Nodes, 5)
		assert.Equal(t, "wall", g.Nodes[3].Name)
		assert.Equal(t, "wall", g.Nodes[4].Name)
		assert.Equal(t, FlowLink{Source: 1, Target: 3, Value: 10}, g.Links[2])
		assert.Equal(t, FlowLink{Source: 2, Target: 4, Value: 20}, g.Links[3])
	})
}

func TestBuildFlowGraph_PreknownNamesKeepIDsStable(t *testing.T) {
	opts := FlowOptions{
		Elements:  []string{"column", "slab"},
		Materials: []string{"steel", "concrete"},
	}
	g := BuildFlowGraph(singleChainTree(), opts)

	want := []FlowNode{
		{Name: RootName, ID: 0},
		{Name: "substructure", ID: 1},
		{Name: "column", ID: 2},
		{Name: "slab", ID: 3},
		{Name: "steel", ID: 4},
		{Name: "concrete", ID: 5},
	}
	if diff := cmp.Diff(want, g.Nodes); diff != "" {
		t.Errorf("nodes mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, FlowLink{Source: 3, Target: 5, Value: 100}, g.Links[2])

	n, ok := g.NodeByID(4)
	assert.True(t, ok)
	assert.Equal(t, "steel", n.Name)
	_, ok = g.NodeByID(99)
	assert.False(t, ok)
}

func TestBuildFlowGraph_SameNameAcrossLevels(t *testing.T) {
	tree := domain.EcBreakdownTree{Categories: []domain.TreeCategory{
		{Name: "timber", Total: 5, Elements: []domain.TreeElement{
			{Name: "timber", Total: 5, Materials: []domain.TreeMaterial{{Name: "timber", Total: 5}}},
		}},
	}}
	g := BuildFlowGraph(tree, FlowOptions{})
	assert.Len(t, g.Nodes, 4)
	assert.Len(t, g.Links, 3)
}
