// ABOUTME: CLI command for daily energy and macro targets.
// ABOUTME: Recomputes a profile's targets and prints grams and per-meal budgets.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/dietplan/internal/models"
	"github.com/harperreed/dietplan/internal/targets"
	"github.com/spf13/cobra"
)

var targetsCmd = &cobra.Command{
	Use:     "targets <profile>",
	Aliases: []string{"t"},
	Short:   "Show daily calorie and macro targets",
	Long: `Recompute and show a profile's daily targets.

BMR uses Mifflin-St Jeor when weight, height, age, and sex are all set, and
a default of 1500 kcal otherwise. TDEE applies the activity multiplier, the
goal adjusts calories, and the diet type and goal choose the macro split.

EXAMPLES:

  dietplan targets alex`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := db.GetProfile(args[0])
		if err != nil {
			return fmt.Errorf("profile not found: %s", args[0])
		}

		*p = targets.NewCalculator(logr).Apply(*p)
		if err := db.SaveProfile(p); err != nil {
			return fmt.Errorf("failed to save targets: %w", err)
		}

		printTargets(p)
		return nil
	},
}

func printTargets(p *models.UserDietaryProfile) {
	t := p.Targets
	bold := color.New(color.Bold)

	bold.Printf("  %d kcal/day", t.RecommendedCalories)
	faint.Printf("  (BMR %d, TDEE %d)\n", t.BMR, t.TDEE)
	if t.UsedDefaultBMR {
		color.Yellow("  biometrics incomplete, using default BMR of %d", targets.DefaultBMR)
	}

	g := targets.Grams(t.RecommendedCalories, t.MacroSplit)
	fmt.Printf("  Protein %3d%%  %4.0f g\n", t.MacroSplit.Protein, g.Protein)
	fmt.Printf("  Carbs   %3d%%  %4.0f g\n", t.MacroSplit.Carbs, g.Carbs)
	fmt.Printf("  Fats    %3d%%  %4.0f g\n", t.MacroSplit.Fats, g.Fats)

	fmt.Println()
	for _, timing := range models.AllMealTimings {
		fmt.Printf("  %s %d kcal\n", padRight(string(timing), 10), targets.MealCalorieBudget(t.RecommendedCalories, timing))
	}
}

func init() {
	rootCmd.AddCommand(targetsCmd)
}
