package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/carbonview/dashboard/internal/chartdata"
	"github.com/carbonview/dashboard/internal/cli"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List projects with their latest totals",
	RunE:  runProjects,
}

func init() {
	rootCmd.AddCommand(projectsCmd)
}

func runProjects(cmd *cobra.Command, _ []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	page := svc.LoadProjects(cmd.Context(), identity())
	if err := resultErr(page.Projects); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(page.Projects.Data) == 0 {
		fmt.Fprintln(out, "No projects found.")
		return nil
	}

	rows := make([][]string, 0, len(page.Projects.Data))
	for _, p := range page.Projects.Data {
		latest, total, intensity := "-", "-", "-"
		if v, ok := p.LatestVersion(); ok {
			latest = "v" + strconv.Itoa(v.Version)
			total = cli.FormatEC(v.TotalEC)
			intensity = cli.FormatIntensity(chartdata.Intensity(v.TotalEC, v.GFA))
		}
		rows = append(rows, []string{p.Name, p.ID, latest, total, intensity})
	}

	fmt.Fprintln(out, cli.RenderTitle(fmt.Sprintf("PROJECTS  %d", len(rows))))
	fmt.Fprint(out, cli.RenderTable(cli.Table{
		Headers: []string{"Project", "ID", "Latest", "Total EC", "Intensity"},
		Rows:    rows,
	}))
	return nil
}
