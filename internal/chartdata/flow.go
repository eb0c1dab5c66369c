// Package chartdata turns backend breakdown JSON into the shapes chart
// renderers consume. Every function here is pure and deterministic.
package chartdata

import "github.com/carbonview/dashboard/internal/domain"

// RootName is the synthetic source node of every flow graph.
const RootName = "Total EC"

// ElementIdentity decides when two tree elements share a flow node.
type ElementIdentity string

const (
	// ElementsByName collapses same-named elements of different categories
	// into one node that receives an inbound link from each category.
	ElementsByName ElementIdentity = "name"
	// ElementsByCategory keeps one node per category/element pair.
	ElementsByCategory ElementIdentity = "category"
)

// FlowOptions carries the names registered before the tree is walked, so
// node ids stay stable across versions that lack some of them.
type FlowOptions struct {
	Categories      []string
	Elements        []string
	Materials       []string
	ElementIdentity ElementIdentity
}

type FlowNode struct {
	Name string `json:"name"`
	ID   int    `json:"id"`
}

type FlowLink struct {
	Source int     `json:"source"`
	Target int     `json:"target"`
	Value  float64 `json:"value"`
}

// FlowGraph is a node/link list for Sankey-style renderers.
type FlowGraph struct {
	Nodes []FlowNode `json:"nodes"`
	Links []FlowLink `json:"links"`
}

type level int

const (
	levelRoot level = iota
	levelCategory
	levelElement
	levelMaterial
)

type nodeKey struct {
	level level
	scope string
	name  string
}

type nodeIndex struct {
	ids   map[nodeKey]int
	nodes []FlowNode
}

func (x *nodeIndex) register(k nodeKey) int {
	if id, ok := x.ids[k]; ok {
		return id
	}
	id := len(x.nodes)
	x.ids[k] = id
	x.nodes = append(x.nodes, FlowNode{Name: k.name, ID: id})
	return id
}

func (x *nodeIndex) lookup(k nodeKey) int {
	return x.ids[k]
}

// BuildFlowGraph flattens tree into nodes and links. Ids are assigned in
// first-seen order: root, categories, elements, then materials, with the
// pre-known names of opts ahead of the tree's own names at each level.
// Links come level by level in tree order and carry the target's value.
func BuildFlowGraph(tree domain.EcBreakdownTree, opts FlowOptions) FlowGraph {
	idx := &nodeIndex{ids: make(map[nodeKey]int)}
	root := idx.register(nodeKey{level: levelRoot, name: RootName})

	elemKey := func(category, name string) nodeKey {
		if opts.ElementIdentity == ElementsByCategory {
			return nodeKey{level: levelElement, scope: category, name: name}
		}
		return nodeKey{level: levelElement, name: name}
	}

	for _, name := range opts.Categories {
		idx.register(nodeKey{level: levelCategory, name: name})
	}
	for _, c := range tree.Categories {
		idx.register(nodeKey{level: levelCategory, name: c.Name})
	}

	// Pre-known elements have no category; in by-category mode they stay
	// placeholders and never receive links.
	for _, name := range opts.Elements {
		idx.register(elemKey("", name))
	}
	for _, c := range tree.Categories {
		for _, e := range c.Elements {
			idx.register(elemKey(c.Name, e.Name))
		}
	}

	for _, name := range opts.Materials {
		idx.register(nodeKey{level: levelMaterial, name: name})
	}
	for _, c := range tree.Categories {
		for _, e := range c.Elements {
			for _, m := range e.Materials {
				idx.register(nodeKey{level: levelMaterial, name: m.Name})
			}
		}
	}

	links := make([]FlowLink, 0)
	for _, c := range tree.Categories {
		links = append(links, FlowLink{
			Source: root,
			Target: idx.lookup(nodeKey{level: levelCategory, name: c.Name}),
			Value:  c.Total,
		})
	}
	for _, c := range tree.Categories {
		cid := idx.lookup(nodeKey{level: levelCategory, name: c.Name})
		for _, e := range c.Elements {
			links = append(links, FlowLink{
				Source: cid,
				Target: idx.lookup(elemKey(c.Name, e.Name)),
				Value:  e.Total,
			})
		}
	}
	for _, c := range tree.Categories {
		for _, e := range c.Elements {
			eid := idx.lookup(elemKey(c.Name, e.Name))
			for _, m := range e.Materials {
				links = append(links, FlowLink{
					Source: eid,
					Target: idx.lookup(nodeKey{level: levelMaterial, name: m.Name}),
					Value:  m.Total,
				})
			}
		}
	}

	return FlowGraph{Nodes: idx.nodes, Links: links}
}

// NodeByID returns the node with the given id.
func (g FlowGraph) NodeByID(id int) (FlowNode, bool) {
	if id < 0 || id >= len(g.Nodes) {
		return FlowNode{}, false
	}
	return g.Nodes[id], true
}
