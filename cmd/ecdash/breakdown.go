package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/carbonview/dashboard/internal/chartdata"
	"github.com/carbonview/dashboard/internal/cli"
	"github.com/carbonview/dashboard/internal/viewstate"
)

var (
	flagProject string
	flagVersion string
	flagBy      string
)

var breakdownCmd = &cobra.Command{
	Use:   "breakdown",
	Short: "Show one version's embodied carbon by material, element or system",
	RunE:  runBreakdown,
}

func init() {
	breakdownCmd.Flags().StringVarP(&flagBy, "by", "b", "material", "Dimension: material, element or system")
	for _, c := range []*cobra.Command{breakdownCmd, flowCmd, exportCmd} {
		c.Flags().StringVarP(&flagProject, "project", "p", "", "Project id")
		c.Flags().StringVarP(&flagVersion, "version", "v", "", "Version number (default: latest)")
		_ = c.MarkFlagRequired("project")
		rootCmd.AddCommand(c)
	}
}

func loadProjectPage(cmd *cobra.Command) (viewstate.ProjectPage, error) {
	svc, err := newService()
	if err != nil {
		return viewstate.ProjectPage{}, err
	}
	page, err := svc.LoadProject(cmd.Context(), identity(), flagProject, flagVersion)
	if err != nil {
		return page, err
	}
	return page, resultErr(page.Project)
}

func runBreakdown(cmd *cobra.Command, _ []string) error {
	dim, err := viewstate.ParseDimension(flagBy)
	if err != nil {
		return err
	}
	page, err := loadProjectPage(cmd)
	if err != nil {
		return err
	}
	if page.Version == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "Project has no versions yet.")
		return nil
	}
	if err := resultErr(page.Breakdown); err != nil {
		return err
	}

	values := dim.Pick(page.Breakdown.Data)
	total := values.Sum()
	labels := chartdata.Labels(values.Keys())
	rows := make([][]string, 0, values.Len()+2)
	for i, kv := range values {
		rows = append(rows, []string{labels[i], cli.FormatEC(kv.Value), cli.FormatShare(kv.Value, total)})
	}
	rows = append(rows, []string{"Total", cli.FormatEC(total), cli.FormatShare(total, total)})

	out := cmd.OutOrStdout()
	title := fmt.Sprintf("%s  v%s  by %s", page.Project.Data.Name, strconv.Itoa(page.SelectedVersion), dim)
	fmt.Fprintln(out, cli.RenderTitle(title))
	fmt.Fprint(out, cli.RenderTable(cli.Table{
		Headers: []string{"Category", "Embodied carbon", "Share"},
		Rows:    rows,
	}))
	fmt.Fprintf(out, "Intensity: %s\n", cli.FormatIntensity(page.Intensity))

	if len(page.Benchmarks) > 0 {
		brows := make([][]string, 0, len(page.Benchmarks))
		for _, b := range page.Benchmarks {
			verdict := "above target"
			if b.Meets {
				verdict = "meets target"
			}
			brows = append(brows, []string{b.Standard, cli.FormatIntensity(b.Target), cli.RenderVerdict(b.Meets, verdict)})
		}
		fmt.Fprint(out, cli.RenderTable(cli.Table{
			Headers: []string{"Benchmark", "Target", "Status"},
			Rows:    brows,
		}))
	}
	return nil
}
