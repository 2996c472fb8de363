// ABOUTME: CLI command that copies the dietplan database to a new data directory.
// ABOUTME: Moves foods, meals, profiles, plans, and history, and can repoint the config.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/harperreed/dietplan/internal/config"
	"github.com/harperreed/dietplan/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	migrateTo     string
	migrateForce  bool
	migrateDryRun bool
	migrateSave   bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy all data to another data directory",
	Long: `Copy every food, meal, profile, plan, and substitution from the current
database into a new data directory.

IMPORTANT:

  - The destination must be empty unless --force is given
  - The current database is left untouched
  - Run with --dry-run first to see what would be copied

USAGE:

  dietplan migrate --to ~/Dropbox/dietplan --dry-run
  dietplan migrate --to ~/Dropbox/dietplan --save   # also update config.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateTo == "" {
			return fmt.Errorf("--to is required")
		}
		dir := config.ExpandPath(migrateTo)
		if abs, err := filepath.Abs(dir); err == nil {
			dir = abs
		}
		if filepath.Clean(dir) == filepath.Clean(filepath.Dir(db.Path())) {
			return fmt.Errorf("destination is the current data directory: %s", dir)
		}

		nonEmpty, err := storage.IsDirNonEmpty(dir)
		if err != nil {
			return err
		}
		if nonEmpty && !migrateForce {
			return fmt.Errorf("destination %s is not empty (use --force to merge into it)", dir)
		}

		if migrateDryRun {
			color.Yellow("Dry run mode - no changes will be made")
			fmt.Println()
			all, err := db.GetAllData()
			if err != nil {
				return fmt.Errorf("failed to read data: %w", err)
			}
			printMigrateCounts(&storage.MigrateSummary{
				Foods:         len(all.Foods),
				Meals:         len(all.Meals),
				Profiles:      len(all.Profiles),
				Plans:         len(all.Plans),
				Substitutions: len(all.Substitutions),
			})
			return nil
		}

		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
		dst, err := storage.Open(filepath.Join(dir, "dietplan.db"))
		if err != nil {
			return fmt.Errorf("failed to open destination: %w", err)
		}
		defer func() { _ = dst.Close() }()

		summary, err := storage.MigrateData(db, dst)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		logr.Info("migrated data", zap.String("to", dst.Path()), zap.Int("plans", summary.Plans))

		color.Green("✓ Migrated to %s", dst.Path())
		printMigrateCounts(summary)

		if migrateSave {
			cfg.DataDir = dir
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			fmt.Println()
			fmt.Printf("Config updated: %s\n", config.GetConfigPath())
		}
		return nil
	},
}

func printMigrateCounts(s *storage.MigrateSummary) {
	fmt.Printf("  Foods          %d\n", s.Foods)
	fmt.Printf("  Meals          %d\n", s.Meals)
	fmt.Printf("  Profiles       %d\n", s.Profiles)
	fmt.Printf("  Plans          %d\n", s.Plans)
	fmt.Printf("  Substitutions  %d\n", s.Substitutions)
}

func init() {
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "destination data directory (required)")
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "allow a non-empty destination")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	migrateCmd.Flags().BoolVar(&migrateSave, "save", false, "point config.json at the new directory")
	rootCmd.AddCommand(migrateCmd)
}
