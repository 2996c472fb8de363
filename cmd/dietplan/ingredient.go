// ABOUTME: CLI commands that edit the structured ingredients of a plan meal.
// ABOUTME: Each edit rescales the ingredient and recomputes the meal totals.
package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/harperreed/dietplan/internal/models"
	"github.com/harperreed/dietplan/internal/planner"
	"github.com/spf13/cobra"
)

var ingredientCmd = &cobra.Command{
	Use:     "ingredient",
	Aliases: []string{"ing"},
	Short:   "Edit ingredient quantities of a plan meal",
	Long: `Edit the ingredients of the meal in a plan slot. Only the plan's copy of
the meal changes; the catalog meal is left alone.

Ingredient indexes are shown by 'dietplan meal show' and start at 0.`,
}

var ingredientSetCmd = &cobra.Command{
	Use:   "set <plan> <day> <slot> <index> <quantity> <unit>",
	Short: "Change an ingredient's quantity",
	Long: `Change an ingredient's quantity and rescale its nutrition.

EXAMPLES:

  dietplan ingredient set 1a2b3c4d 1 0 0 200 g`,
	Args: cobra.ExactArgs(6),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := parseIndex(args[3])
		if err != nil {
			return err
		}
		qty, unit, err := parseQuantity(args[4], args[5])
		if err != nil {
			return err
		}
		return runIngredientEdit(cmd, args[0], args[1], args[2], planner.IngredientEdit{
			Op: planner.EditSet, Index: idx, Quantity: qty, Unit: unit,
		})
	},
}

var ingredientAddCmd = &cobra.Command{
	Use:   "add <plan> <day> <slot> <food> <quantity> <unit>",
	Short: "Add a catalog food to a plan meal",
	Long: `Add a catalog food, by ID prefix or name, to the meal in a plan slot.

EXAMPLES:

  dietplan ingredient add 1a2b3c4d 1 0 "white rice" 150 g`,
	Args: cobra.ExactArgs(6),
	RunE: func(cmd *cobra.Command, args []string) error {
		qty, unit, err := parseQuantity(args[4], args[5])
		if err != nil {
			return err
		}
		return runIngredientEdit(cmd, args[0], args[1], args[2], planner.IngredientEdit{
			Op: planner.EditAdd, FoodRef: args[3], Quantity: qty, Unit: unit,
		})
	},
}

var ingredientRemoveCmd = &cobra.Command{
	Use:     "remove <plan> <day> <slot> <index>",
	Aliases: []string{"rm"},
	Short:   "Remove an ingredient from a plan meal",
	Args:    cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := parseIndex(args[3])
		if err != nil {
			return err
		}
		return runIngredientEdit(cmd, args[0], args[1], args[2], planner.IngredientEdit{
			Op: planner.EditRemove, Index: idx,
		})
	},
}

func parseIndex(s string) (int, error) {
	idx, err := strconv.Atoi(s)
	if err != nil || idx < 0 {
		return 0, fmt.Errorf("invalid ingredient index: %s", s)
	}
	return idx, nil
}

func runIngredientEdit(cmd *cobra.Command, planRef, dayStr, slotStr string, edit planner.IngredientEdit) error {
	day, slot, err := parseSlot(dayStr, slotStr)
	if err != nil {
		return err
	}

	m, err := svc.EditIngredient(cmd.Context(), planRef, day, slot, edit)
	if err != nil {
		return fmt.Errorf("edit failed: %w", err)
	}

	color.Green("✓ Updated %s", m.Name)
	printMealTotals(m)
	return nil
}

func printMealTotals(m *models.Meal) {
	fmt.Printf("  %s\n", macroLine(m.Calories, m.Protein, m.Carbs, m.Fats))
	for i, ing := range m.StructuredIngredients {
		fmt.Printf("  %s %s %g %s\n",
			faint.Sprintf("[%d]", i),
			padRight(truncate(ing.Name, 24), 24),
			ing.Quantity, ing.Unit)
	}
}

func init() {
	ingredientCmd.AddCommand(ingredientSetCmd, ingredientAddCmd, ingredientRemoveCmd)
	rootCmd.AddCommand(ingredientCmd)
}
