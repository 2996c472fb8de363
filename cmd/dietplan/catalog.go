// ABOUTME: CLI commands for catalog seed files.
// ABOUTME: Imports and exports foods and meals as JSON or YAML.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/harperreed/dietplan/internal/storage"
	"github.com/spf13/cobra"
)

var catalogOutput string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Import and export the food and meal catalog",
}

var catalogImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import foods and meals from a JSON or YAML file",
	Long: `Import foods and meals from a catalog seed file. The format follows the
file extension (.json, .yaml, .yml). Records without an ID get one;
records with an existing ID are updated. Profiles and plans in the file
are ignored; use 'dietplan import' for full backups.

EXAMPLES:

  dietplan catalog import meals.yaml
  dietplan catalog import backup.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]
		format, err := formatFromPath(filename)
		if err != nil {
			return err
		}

		raw, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		data, err := storage.ParseExport(raw, format)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		data.Profiles, data.Plans, data.Substitutions = nil, nil, nil

		if err := db.ImportData(data); err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		color.Green("✓ Imported %d foods and %d meals from %s", len(data.Foods), len(data.Meals), filename)
		return nil
	},
}

var catalogExportCmd = &cobra.Command{
	Use:       "export <format>",
	Short:     "Export foods and meals as JSON or YAML",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml"},
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := db.ExportCatalog(args[0])
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		return writeOutput(catalogOutput, data)
	},
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	color.Green("✓ Exported to %s", path)
	return nil
}

func init() {
	catalogExportCmd.Flags().StringVarP(&catalogOutput, "output", "o", "", "output file (default: stdout)")

	catalogCmd.AddCommand(catalogImportCmd, catalogExportCmd)
	rootCmd.AddCommand(catalogCmd)
}
