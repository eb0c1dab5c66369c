package chartdata

import (
	"unicode"
	"unicode/utf8"

	"github.com/carbonview/dashboard/internal/domain"
)

// DefaultDatasetLabel names the single dataset of a breakdown chart.
const DefaultDatasetLabel = "Embodied Carbon (kgCO2e)"

type Dataset struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BackgroundColor []string  `json:"backgroundColor,omitempty"`
}

// SeriesData is the labels/datasets shape used by bar, pie and line charts.
type SeriesData struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Empty reports whether there is nothing to plot.
func (s SeriesData) Empty() bool {
	return len(s.Labels) == 0
}

// SeriesFromValues pivots a flat mapping into a single-dataset series. Labels
// keep the mapping's order with their first character upper-cased (see
// Labels). An empty mapping yields no labels and no datasets.
func SeriesFromValues(values domain.OrderedValues, label string) SeriesData {
	out := SeriesData{Labels: []string{}, Datasets: []Dataset{}}
	if values.Len() == 0 {
		return out
	}
	if label == "" {
		label = DefaultDatasetLabel
	}

	ds := Dataset{
		Label:           label,
		Data:            make([]float64, 0, values.Len()),
		BackgroundColor: make([]string, 0, values.Len()),
	}
	out.Labels = Labels(values.Keys())
	for i, kv := range values {
		ds.Data = append(ds.Data, kv.Value)
		ds.BackgroundColor = append(ds.BackgroundColor, Color(i))
	}
	out.Datasets = append(out.Datasets, ds)
	return out
}

// Labels capitalizes keys for display. Keys that would share a label, such
// as "steel" and "Steel", keep their raw spelling instead.
func Labels(keys []string) []string {
	seen := make(map[string]int, len(keys))
	for _, k := range keys {
		seen[CapitalizeFirst(k)]++
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		label := CapitalizeFirst(k)
		if seen[label] > 1 {
			label = k
		}
		out = append(out, label)
	}
	return out
}

// CapitalizeFirst upper-cases the first rune of s and leaves the rest alone.
func CapitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// BreakdownCharts are the three summary charts of a project page.
type BreakdownCharts struct {
	ByMaterial       SeriesData `json:"by_material"`
	ByElement        SeriesData `json:"by_element"`
	ByBuildingSystem SeriesData `json:"by_building_system"`
}

func SummaryCharts(s domain.BreakdownSummary) BreakdownCharts {
	return BreakdownCharts{
		ByMaterial:       SeriesFromValues(s.ByMaterial, ""),
		ByElement:        SeriesFromValues(s.ByElement, ""),
		ByBuildingSystem: SeriesFromValues(s.ByBuildingSystem, ""),
	}
}
