// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs the stdio MCP server until stdin closes or a signal arrives.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/dietplan/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server communicates via stdin/stdout and shares the same database and
tolerance settings as the CLI.

CLAUDE DESKTOP CONFIGURATION:

  {
    "mcpServers": {
      "dietplan": {
        "command": "dietplan",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  calculate_targets   BMR, TDEE, calories, and macros for a profile
  scale_food          Nutrition of a catalog food at a quantity
  find_replacement    Rank replacement meals without changing a plan
  swap_meal           Swap a plan slot's meal and record it
  list_meals          List catalog meals by timing
  edit_ingredient     Set, add, or remove an ingredient in a plan meal

AVAILABLE RESOURCES:

  dietplan://catalog     Foods and meals with counts
  dietplan://profiles    Profiles with targets and meal budgets`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(db, svc, logr)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
