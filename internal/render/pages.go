package render

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/components"

	"github.com/carbonview/dashboard/internal/viewstate"
)

func newPage(title string) *components.Page {
	page := components.NewPage()
	page.PageTitle = title
	page.SetLayout(components.PageFlexLayout)
	return page
}

// notice adds a failure chart for every failed result and reports whether
// res was ready.
func notice[T any](page *components.Page, res viewstate.Result[T]) bool {
	if res.IsReady() {
		return true
	}
	if res.Status == viewstate.StatusError {
		page.AddCharts(Notice(res.Message(), res.Detail()))
	}
	return false
}

// Project renders the single-version page: the carbon flow, one bar chart
// per breakdown and the building-system share.
func Project(w io.Writer, p viewstate.ProjectPage) error {
	title := "Embodied carbon"
	if p.Project.IsReady() {
		title = p.Project.Data.Name
	}
	page := newPage(versionTitle(title, p.SelectedVersion))

	if !notice(page, p.Project) {
		return page.Render(w)
	}

	if notice(page, p.Tree) && p.Flow != nil {
		page.AddCharts(Sankey(versionTitle("Carbon flow", p.SelectedVersion), *p.Flow))
	}
	if notice(page, p.Breakdown) && p.Charts != nil {
		page.AddCharts(
			Bar("By material", p.Charts.ByMaterial),
			Bar("By element", p.Charts.ByElement),
			Pie("By building system", p.Charts.ByBuildingSystem),
		)
	}
	return page.Render(w)
}

// Compare renders the version comparison as grouped bars.
func Compare(w io.Writer, p viewstate.ComparePage) error {
	page := newPage("Version comparison")
	if !notice(page, p.Project) {
		return page.Render(w)
	}
	for _, b := range p.Breakdowns {
		notice(page, b.Breakdown)
	}
	if p.Comparison != nil {
		page.AddCharts(Bar(fmt.Sprintf("%s by %s", p.Project.Data.Name, p.Dimension), p.Comparison.Series))
	}
	return page.Render(w)
}

// History renders total EC and intensity across versions.
func History(w io.Writer, p viewstate.HistoryPage) error {
	page := newPage("Version history")
	notice(page, p.Project)
	if notice(page, p.History) && p.Series != nil {
		page.AddCharts(Line("Version history", *p.Series))
	}
	return page.Render(w)
}
