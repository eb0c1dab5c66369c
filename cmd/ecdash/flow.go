package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

var flowCmd = &cobra.Command{
	Use:   "flow",
	Short: "Print the carbon flow graph of a version as JSON",
	RunE:  runFlow,
}

func runFlow(cmd *cobra.Command, _ []string) error {
	page, err := loadProjectPage(cmd)
	if err != nil {
		return err
	}
	if err := resultErr(page.Tree); err != nil && page.Version != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(page.Flow)
}
