package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/carbonview/dashboard/internal/render"
)

var flagOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a version's charts to a standalone HTML file",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagOut, "out", "o", "ecdash.html", "Output file")
}

func runExport(cmd *cobra.Command, _ []string) error {
	page, err := loadProjectPage(cmd)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := render.Project(&buf, page); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if err := os.WriteFile(flagOut, buf.Bytes(), 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", flagOut, buf.Len())
	return nil
}
