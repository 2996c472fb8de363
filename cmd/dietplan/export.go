// ABOUTME: CLI commands for full backups.
// ABOUTME: Exports and imports foods, meals, profiles, plans, and swap history.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export all data",
	Long: `Export all dietplan data: foods, meals, profiles, plans, and swap history.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export (human-readable)

For a single plan as Markdown, use 'dietplan plan show <plan> --format markdown'.

EXAMPLES:

  dietplan export json                  # Export all data as JSON
  dietplan export json -o backup.json   # Save to file
  dietplan export yaml                  # Export as YAML`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml"},
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			data []byte
			err  error
		)
		switch args[0] {
		case "json":
			data, err = db.ExportJSON()
		case "yaml", "yml":
			data, err = db.ExportYAML()
		default:
			return fmt.Errorf("unknown format: %s (use json or yaml)", args[0])
		}
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		return writeOutput(exportOutput, data)
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a full backup from JSON or YAML",
	Long: `Import a backup written by 'dietplan export'. Records are matched by ID,
so importing the same file twice leaves the data unchanged.

EXAMPLES:

  dietplan import backup.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]
		format, err := formatFromPath(filename)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		if format == "json" {
			err = db.ImportJSON(data)
		} else {
			err = db.ImportYAML(data)
		}
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		color.Green("✓ Imported from %s", filename)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
