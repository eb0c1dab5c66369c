package cli

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	ColorBorder = lipgloss.Color("#575653")
	ColorText   = lipgloss.Color("#FFFCF0")
	ColorAccent = lipgloss.Color("#3AA99F")
	ColorGreen  = lipgloss.Color("#879A39")
	ColorRed    = lipgloss.Color("#D14D41")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Foreground(ColorText).Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)

	okStyle   = lipgloss.NewStyle().Foreground(ColorGreen)
	failStyle = lipgloss.NewStyle().Foreground(ColorRed)
)

// Table is a bordered text table. The first column is left aligned, the
// rest are treated as numbers.
type Table struct {
	Headers []string
	Rows    [][]string
}

func RenderTitle(title string) string {
	return titleStyle.Render(title)
}

func RenderTable(t Table) string {
	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorBorder)).
		Headers(t.Headers...).
		Rows(t.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return cellStyle
			default:
				return numberStyle
			}
		})
	return tbl.Render() + "\n"
}

// RenderVerdict marks a pass/fail value.
func RenderVerdict(ok bool, text string) string {
	if ok {
		return okStyle.Render(text)
	}
	return failStyle.Render(text)
}
