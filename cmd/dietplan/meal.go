// ABOUTME: CLI commands for catalog meals.
// ABOUTME: Lists and shows meals and ranks replacements for a profile.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/dietplan/internal/matcher"
	"github.com/harperreed/dietplan/internal/models"
	"github.com/spf13/cobra"
)

var (
	mealTiming string
	mealLimit  int

	suggestProfile   string
	suggestTolerance float64
	suggestLimit     int
)

var mealCmd = &cobra.Command{
	Use:     "meal",
	Aliases: []string{"m"},
	Short:   "Browse catalog meals",
}

var mealListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List catalog meals",
	Long: `List catalog meals.

OUTPUT FORMAT:

  Each line shows: ID  NAME  TIMING  KCAL  PROTEIN  CARBS  FATS

EXAMPLES:

  dietplan meal list
  dietplan meal list --timing breakfast`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var timing *models.MealTiming
		if mealTiming != "" {
			t, err := parseEnum("meal timing", mealTiming, models.AllMealTimings)
			if err != nil {
				return err
			}
			timing = &t
		}

		meals, err := db.ListMeals(timing, mealLimit)
		if err != nil {
			return fmt.Errorf("failed to list meals: %w", err)
		}
		if len(meals) == 0 {
			fmt.Println("No meals found.")
			return nil
		}

		for _, m := range meals {
			fmt.Printf("%s %s %s %s\n",
				faint.Sprint(shortID(m.ID)),
				padRight(truncate(m.Name, 28), 28),
				padRight(string(m.Timing), 10),
				macroLine(m.Calories, m.Protein, m.Carbs, m.Fats))
		}
		return nil
	},
}

var mealShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a meal with its tags and ingredients",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := db.GetMeal(args[0])
		if err != nil {
			return fmt.Errorf("meal not found: %s", args[0])
		}
		printMeal(m)
		return nil
	},
}

var mealSuggestCmd = &cobra.Command{
	Use:   "suggest <id>",
	Short: "Rank replacements for a meal",
	Long: `Rank catalog meals that could replace a meal for a profile, without
changing any plan. Every candidate is within the tolerance on calories,
protein, carbs, and fats, and passes the profile's hard filters.

EXAMPLES:

  dietplan meal suggest 1a2b3c4d --profile alex
  dietplan meal suggest 1a2b3c4d --profile alex --tolerance 25`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if suggestProfile == "" {
			return fmt.Errorf("--profile is required")
		}
		m, err := db.GetMeal(args[0])
		if err != nil {
			return fmt.Errorf("meal not found: %s", args[0])
		}

		ranked, err := svc.Suggest(cmd.Context(), *m, suggestProfile, toleranceFlag(cmd, suggestTolerance))
		if err != nil {
			return err
		}
		if len(ranked) == 0 {
			color.Yellow(matcher.NoMatchMessage)
			return nil
		}
		if suggestLimit > 0 && len(ranked) > suggestLimit {
			ranked = ranked[:suggestLimit]
		}

		for i, c := range ranked {
			printCandidate(i+1, c)
		}
		return nil
	},
}

func printMeal(m *models.Meal) {
	color.New(color.Bold).Printf("%s ", m.Name)
	faint.Printf("%s %s\n", shortID(m.ID), m.Timing)
	fmt.Printf("  %s\n", macroLine(m.Calories, m.Protein, m.Carbs, m.Fats))

	var tags []string
	tags = append(tags, stringsOf(m.DietaryTags)...)
	tags = append(tags, stringsOf(m.NutritionalTags)...)
	if len(tags) > 0 {
		fmt.Printf("  Tags       %s\n", strings.Join(tags, ", "))
	}
	if len(m.SuitableFor) > 0 {
		fmt.Printf("  Suits      %s\n", joinValues(m.SuitableFor))
	}
	if m.Cuisine != "" {
		fmt.Printf("  Cuisine    %s\n", m.Cuisine)
	}
	if m.Preparation.Minutes > 0 || m.Preparation.Difficulty != "" {
		fmt.Printf("  Prep       %d min, %s\n", m.Preparation.Minutes, orDash(string(m.Preparation.Difficulty)))
	}
	if m.BudgetTier != "" {
		fmt.Printf("  Budget     %s\n", m.BudgetTier)
	}

	if m.HasStructuredIngredients() {
		fmt.Println()
		for i, ing := range m.StructuredIngredients {
			fmt.Printf("  %s %s %g %s  %s\n",
				faint.Sprintf("[%d]", i),
				padRight(truncate(ing.Name, 24), 24),
				ing.Quantity, ing.Unit,
				faint.Sprint(macroLine(ing.Current.Calories, ing.Current.Protein, ing.Current.Carbs, ing.Current.Fats)))
		}
	} else if len(m.Ingredients) > 0 {
		fmt.Printf("  Contains   %s\n", strings.Join(m.Ingredients, ", "))
	}
}

func printCandidate(rank int, c matcher.Candidate) {
	d := c.Deviation
	fmt.Printf("%d. %s %s %s\n",
		rank,
		faint.Sprint(shortID(c.Meal.ID)),
		padRight(truncate(c.Meal.Name, 28), 28),
		macroLine(c.Meal.Calories, c.Meal.Protein, c.Meal.Carbs, c.Meal.Fats))
	faint.Printf("   deviation kcal %.1f%%  P %.1f%%  C %.1f%%  F %.1f%%\n",
		d.Calories*100, d.Protein*100, d.Carbs*100, d.Fats*100)
}

func stringsOf[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

func init() {
	mealListCmd.Flags().StringVarP(&mealTiming, "timing", "t", "", "filter by timing (breakfast, lunch, dinner, snack)")
	mealListCmd.Flags().IntVarP(&mealLimit, "limit", "n", 50, "max number of results")

	mealSuggestCmd.Flags().StringVarP(&suggestProfile, "profile", "p", "", "profile name or ID (required)")
	mealSuggestCmd.Flags().Float64Var(&suggestTolerance, "tolerance", 0, "per-macro tolerance in percent, 0 for exact macros (default from config)")
	mealSuggestCmd.Flags().IntVarP(&suggestLimit, "limit", "n", 5, "max number of candidates")

	mealCmd.AddCommand(mealListCmd, mealShowCmd, mealSuggestCmd)
	rootCmd.AddCommand(mealCmd)
}
