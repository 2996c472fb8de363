// ABOUTME: Root Cobra command for dietplan CLI.
// ABOUTME: Resolves config, builds the logger, and manages the storage lifecycle via PersistentPre/PostRunE.
package main

import (
	"fmt"
	"os"

	"github.com/harperreed/dietplan/internal/config"
	"github.com/harperreed/dietplan/internal/logger"
	"github.com/harperreed/dietplan/internal/matcher"
	"github.com/harperreed/dietplan/internal/planner"
	"github.com/harperreed/dietplan/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfg  *config.Config
	db   *storage.DB
	svc  *planner.Service
	logr = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "dietplan",
	Short: "Diet plan tailoring engine",
	Long: `Dietplan builds personalized meal plans and swaps meals without breaking
your macros.

WHAT IT DOES:

  Targets        BMR, TDEE, daily calories, and macro split from your profile
  Scaling        nutrition for any quantity of a catalog food
  Matching       replacement meals within a per-macro tolerance (default 15%)
  Plans          multi-day plans with swaps and ingredient edits, plus history

QUICK START:

  $ dietplan catalog import meals.yaml                   # Load foods and meals
  $ dietplan profile set alex --weight 70 --height 175 --age 30 --sex male
  $ dietplan targets alex                                # Show daily targets
  $ dietplan plan create alex --days 7                   # Build a week
  $ dietplan plan show 1a2b3c4d                          # View it
  $ dietplan swap 1a2b3c4d 2 1                           # Swap day 2 slot 1

INGREDIENTS:

  $ dietplan food scale "chicken breast" 150 g           # Scale a food
  $ dietplan ingredient set 1a2b3c4d 1 0 0 200 g         # Change a quantity
  $ dietplan ingredient add 1a2b3c4d 1 0 rice 100 g      # Add an ingredient

MCP INTEGRATION:

  Run 'dietplan mcp' to start the Model Context Protocol server for use with
  Claude Desktop or other MCP-compatible AI assistants.

CONFIGURATION:

  ~/.config/dietplan/config.json, a .env file in the working directory, and
  DIETPLAN_DATA_DIR, DIETPLAN_TOLERANCE, DIETPLAN_LOG_LEVEL,
  DIETPLAN_STRICT_BUDGET environment variables (highest precedence).

DATA STORAGE:

  SQLite database at ~/.local/share/dietplan/dietplan.db`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip storage init for commands that don't need it
		if cmd.Name() == "help" || cmd.Name() == "install-skill" {
			return nil
		}

		var err error
		cfg, err = config.Resolve()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		l, err := logger.New(os.Getenv("DIETPLAN_ENV"), cfg.GetLogLevel())
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
		logr = l

		db, err = cfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}

		var matcherOpts []matcher.Option
		if cfg.StrictBudget {
			matcherOpts = append(matcherOpts, matcher.WithStrictBudget())
		}
		svc = planner.NewService(db,
			planner.WithLogger(logr),
			planner.WithTolerance(cfg.GetTolerance()),
			planner.WithMatcherOptions(matcherOpts...),
		)

		logr.Debug("storage opened", zap.String("path", db.Path()), zap.Float64("tolerance_pct", svc.Tolerance()))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		defer logger.Sync(logr)
		if db != nil {
			err := db.Close()
			db = nil
			return err
		}
		return nil
	},
}
