package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/carbonview/dashboard/internal/chartdata"
)

// FlowLayout lists the flow-graph nodes registered before any tree is walked.
//
//	categories: [Structure, Envelope]
//	elements: [Wall, Slab]
//	materials: [Concrete, Steel]
//	element_identity: name   # or "category"
type FlowLayout struct {
	Categories      []string `yaml:"categories"`
	Elements        []string `yaml:"elements"`
	Materials       []string `yaml:"materials"`
	ElementIdentity string   `yaml:"element_identity"`
}

// LoadFlowLayout reads a layout file. An empty path yields the zero layout.
func LoadFlowLayout(path string) (FlowLayout, error) {
	var l FlowLayout
	if path == "" {
		return l, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return l, fmt.Errorf("read flow layout: %w", err)
	}
	if err := yaml.Unmarshal(b, &l); err != nil {
		return l, fmt.Errorf("parse flow layout %s: %w", path, err)
	}

	switch chartdata.ElementIdentity(l.ElementIdentity) {
	case "", chartdata.ElementsByName, chartdata.ElementsByCategory:
	default:
		return l, fmt.Errorf("flow layout %s: element_identity must be %q or %q, got %q",
			path, chartdata.ElementsByName, chartdata.ElementsByCategory, l.ElementIdentity)
	}
	return l, nil
}

// Options converts the layout into flow-graph options.
func (l FlowLayout) Options() chartdata.FlowOptions {
	id := chartdata.ElementIdentity(l.ElementIdentity)
	if id == "" {
		id = chartdata.ElementsByName
	}
	return chartdata.FlowOptions{
		Categories:      l.Categories,
		Elements:        l.Elements,
		Materials:       l.Materials,
		ElementIdentity: id,
	}
}
