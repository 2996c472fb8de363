// ABOUTME: CLI command that swaps a plan slot's meal for the closest catalog match.
// ABOUTME: Records the substitution and prints the replacement with runner-ups.
package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/dietplan/internal/matcher"
	"github.com/harperreed/dietplan/internal/planner"
	"github.com/spf13/cobra"
)

var swapTolerance float64

var swapCmd = &cobra.Command{
	Use:   "swap <plan> <day> <slot>",
	Short: "Replace a plan meal with a nutritionally similar one",
	Long: `Replace the meal at a plan day and slot with the best catalog match for
the plan's profile. Calories, protein, carbs, and fats must each be within
the tolerance of the original. The swap is added to the plan history.

Days start at 1 and slots at 0, as shown by 'dietplan plan show'.

EXAMPLES:

  dietplan swap 1a2b3c4d 1 2
  dietplan swap 1a2b3c4d 3 0 --tolerance 20
  dietplan swap 1a2b3c4d 3 0 --tolerance 0    # exact macros only`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		day, slot, err := parseSlot(args[1], args[2])
		if err != nil {
			return err
		}

		res, err := svc.Swap(cmd.Context(), args[0], day, slot, toleranceFlag(cmd, swapTolerance))
		if errors.Is(err, planner.ErrNoMatch) {
			color.Yellow(matcher.NoMatchMessage)
			return nil
		}
		if err != nil {
			return fmt.Errorf("swap failed: %w", err)
		}

		color.Green("✓ Swapped day %d slot %d", res.Day, res.Slot)
		o := res.Original
		fmt.Printf("  %s %s  %s\n", faint.Sprint("was"), padRight(truncate(o.Name, 28), 28),
			faint.Sprint(macroLine(o.Calories, o.Protein, o.Carbs, o.Fats)))
		r := res.Replacement.Meal
		fmt.Printf("  %s %s  %s\n", faint.Sprint("now"), padRight(truncate(r.Name, 28), 28),
			macroLine(r.Calories, r.Protein, r.Carbs, r.Fats))

		if len(res.Alternatives) > 0 {
			fmt.Println()
			faint.Println("Other options:")
			for i, c := range res.Alternatives {
				printCandidate(i+1, c)
			}
		}
		return nil
	},
}

func init() {
	swapCmd.Flags().Float64Var(&swapTolerance, "tolerance", 0, "per-macro tolerance in percent, 0 for exact macros (default from config)")

	rootCmd.AddCommand(swapCmd)
}
