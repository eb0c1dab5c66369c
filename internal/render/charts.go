// Package render draws dashboard pages as standalone ECharts HTML.
package render

import (
	"fmt"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/carbonview/dashboard/internal/chartdata"
)

const (
	chartWidth  = "1100px"
	chartHeight = "520px"
)

func initOpts(title, subtitle string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

// Sankey draws a flow graph. ECharts identifies Sankey nodes by name, so
// repeated names (an element and a material sharing a name, or one element
// per category) get invisible suffixes to stay distinct.
func Sankey(title string, g chartdata.FlowGraph) *charts.Sankey {
	s := charts.NewSankey()
	s.SetGlobalOptions(initOpts(title, "")...)

	names := uniqueNames(g.Nodes)
	nodes := make([]opts.SankeyNode, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		nodes = append(nodes, opts.SankeyNode{Name: names[n.ID]})
	}
	links := make([]opts.SankeyLink, 0, len(g.Links))
	for _, l := range g.Links {
		links = append(links, opts.SankeyLink{
			Source: names[l.Source],
			Target: names[l.Target],
			Value:  float32(l.Value),
		})
	}

	s.AddSeries("Embodied carbon", nodes, links,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "right"}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: "source", Curveness: 0.5}),
	)
	return s
}

func uniqueNames(nodes []chartdata.FlowNode) map[int]string {
	out := make(map[int]string, len(nodes))
	seen := make(map[string]int, len(nodes))
	for _, n := range nodes {
		k := seen[n.Name]
		seen[n.Name] = k + 1
		out[n.ID] = n.Name + strings.Repeat("\u200b", k)
	}
	return out
}

// Bar draws one bar series per dataset.
func Bar(title string, s chartdata.SeriesData) *charts.Bar {
	b := charts.NewBar()
	b.SetGlobalOptions(append(initOpts(title, ""),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(len(s.Datasets) > 1)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "kgCO2e"}),
	)...)
	b.SetXAxis(s.Labels)
	for _, ds := range s.Datasets {
		data := make([]opts.BarData, 0, len(ds.Data))
		for _, v := range ds.Data {
			data = append(data, opts.BarData{Value: v})
		}
		var style []charts.SeriesOpts
		if len(ds.BackgroundColor) > 0 {
			style = append(style, charts.WithItemStyleOpts(opts.ItemStyle{Color: ds.BackgroundColor[0]}))
		}
		b.AddSeries(ds.Label, data, style...)
	}
	return b
}

// Line draws one line series per dataset.
func Line(title string, s chartdata.SeriesData) *charts.Line {
	l := charts.NewLine()
	l.SetGlobalOptions(append(initOpts(title, ""),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)...)
	l.SetXAxis(s.Labels)
	for _, ds := range s.Datasets {
		data := make([]opts.LineData, 0, len(ds.Data))
		for _, v := range ds.Data {
			data = append(data, opts.LineData{Value: v})
		}
		l.AddSeries(ds.Label, data)
	}
	return l
}

// Pie draws the first dataset as shares of the total.
func Pie(title string, s chartdata.SeriesData) *charts.Pie {
	p := charts.NewPie()
	p.SetGlobalOptions(initOpts(title, "")...)
	if len(s.Datasets) == 0 {
		return p
	}
	ds := s.Datasets[0]
	data := make([]opts.PieData, 0, len(ds.Data))
	for i, v := range ds.Data {
		if i < len(s.Labels) {
			data = append(data, opts.PieData{Name: s.Labels[i], Value: v})
		}
	}
	p.AddSeries(ds.Label, data,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {d}%"}),
		charts.WithPieChartOpts(opts.PieChart{Radius: []string{"40%", "70%"}}),
	)
	return p
}

// Notice is an empty chart whose title carries a failed fetch's message.
func Notice(message, detail string) *charts.Bar {
	b := charts.NewBar()
	b.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: "120px"}),
		charts.WithTitleOpts(opts.Title{Title: message, Subtitle: detail}),
	)
	return b
}

func versionTitle(name string, version int) string {
	if version == 0 {
		return name
	}
	return fmt.Sprintf("%s (v%d)", name, version)
}
