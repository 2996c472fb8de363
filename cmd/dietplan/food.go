// ABOUTME: CLI commands for catalog foods.
// ABOUTME: Adds, lists, deletes, and scales foods with the nutrition scaler.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/dietplan/internal/models"
	"github.com/harperreed/dietplan/internal/nutrition"
	"github.com/spf13/cobra"
)

var (
	foodCategory string
	foodRefQty   float64
	foodRefUnit  string
	foodCalories float64
	foodProtein  float64
	foodCarbs    float64
	foodFats     float64
	foodFiber    float64
	foodSugar    float64
	foodSodium   float64
	foodBrand    string
	foodBarcode  string

	foodListCategory string
	foodListLimit    int
)

var foodCmd = &cobra.Command{
	Use:     "food",
	Aliases: []string{"f"},
	Short:   "Manage catalog foods",
}

var foodAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a food to the catalog",
	Long: `Add a food with nutrition defined at a reference quantity.

Optional nutrients (fiber, sugar, sodium) are stored only when given, so
"unknown" stays distinct from zero.

EXAMPLES:

  dietplan food add "Chicken breast" --category protein --calories 165 --protein 31 --fats 3.6
  dietplan food add "Whole milk" --category dairy --ref-qty 240 --unit ml --calories 149 --protein 8 --carbs 12 --fats 8`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		category, err := parseEnum("food category", foodCategory, models.AllFoodCategories)
		if err != nil {
			return err
		}
		if !models.IsValidUnit(foodRefUnit) {
			return fmt.Errorf("unknown unit: %s\nValid units: %s", foodRefUnit, joinValues(models.AllUnits))
		}
		if foodRefQty <= 0 {
			return fmt.Errorf("reference quantity must be positive, got %g", foodRefQty)
		}

		n := models.NutritionValues{
			Calories: foodCalories,
			Protein:  foodProtein,
			Carbs:    foodCarbs,
			Fats:     foodFats,
		}
		flags := cmd.Flags()
		if flags.Changed("fiber") {
			n.Fiber = models.Float(foodFiber)
		}
		if flags.Changed("sugar") {
			n.Sugar = models.Float(foodSugar)
		}
		if flags.Changed("sodium") {
			n.Sodium = models.Float(foodSodium)
		}

		f := models.NewFoodItem(args[0], category, foodRefQty, models.Unit(foodRefUnit), n)
		if foodBrand != "" {
			f.WithBrand(foodBrand)
		}
		if foodBarcode != "" {
			f.WithBarcode(foodBarcode)
		}

		if err := db.CreateFood(f); err != nil {
			return fmt.Errorf("failed to create food: %w", err)
		}

		color.Green("✓ Added %s", f.Name)
		fmt.Printf("  %s per %g %s: %s\n",
			faint.Sprint(shortID(f.ID)),
			f.ReferenceQuantity, f.ReferenceUnit,
			macroLine(n.Calories, n.Protein, n.Carbs, n.Fats))
		return nil
	},
}

var foodListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List catalog foods",
	RunE: func(cmd *cobra.Command, args []string) error {
		var category *models.FoodCategory
		if foodListCategory != "" {
			c, err := parseEnum("food category", foodListCategory, models.AllFoodCategories)
			if err != nil {
				return err
			}
			category = &c
		}

		foods, err := db.ListFoods(category, foodListLimit)
		if err != nil {
			return fmt.Errorf("failed to list foods: %w", err)
		}
		if len(foods) == 0 {
			fmt.Println("No foods found.")
			return nil
		}

		for _, f := range foods {
			fmt.Printf("%s %s %s %s\n",
				faint.Sprint(shortID(f.ID)),
				padRight(truncate(f.Name, 28), 28),
				padRight(string(f.Category), 10),
				faint.Sprintf("per %g %s: %.0f kcal", f.ReferenceQuantity, f.ReferenceUnit, f.Nutrition.Calories))
		}
		return nil
	},
}

var foodScaleCmd = &cobra.Command{
	Use:   "scale <food> <quantity> <unit>",
	Short: "Scale a food's nutrition to a quantity",
	Long: `Show a food's nutrition for a quantity. The food is an ID prefix or name.

Units convert within their family (mass: g, oz; volume: ml, cup, tbsp,
tsp). Pieces and servings only match themselves. Cross-family conversion
is not supported.

EXAMPLES:

  dietplan food scale "chicken breast" 150 g
  dietplan food scale milk 1 cup`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := db.FindFood(args[0])
		if err != nil {
			return fmt.Errorf("food not found: %s", args[0])
		}
		qty, unit, err := parseQuantity(args[1], args[2])
		if err != nil {
			return err
		}

		n, err := nutrition.Scale(*f, qty, unit)
		if err != nil {
			return fmt.Errorf("failed to scale %s: %w", f.Name, err)
		}

		color.New(color.Bold).Printf("%s, %g %s\n", f.Name, qty, unit)
		fmt.Printf("  %s\n", macroLine(n.Calories, n.Protein, n.Carbs, n.Fats))
		printOptional("Fiber", n.Fiber, "g")
		printOptional("Sugar", n.Sugar, "g")
		printOptional("Saturated fat", n.SaturatedFat, "g")
		printOptional("Sodium", n.Sodium, "mg")
		printOptional("Cholesterol", n.Cholesterol, "mg")
		printOptional("Potassium", n.Potassium, "mg")
		return nil
	},
}

var foodDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a food by ID or prefix",
	Long: `Delete a catalog food. Meals and plans keep their ingredient snapshots,
so deleting a food never changes an existing meal.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := db.GetFood(args[0])
		if err != nil {
			return fmt.Errorf("food not found: %s", args[0])
		}
		if err := db.DeleteFood(f.ID.String()); err != nil {
			return fmt.Errorf("failed to delete food: %w", err)
		}

		color.Yellow("✗ Deleted %s", f.Name)
		return nil
	},
}

func printOptional(label string, v *float64, unit string) {
	if v == nil {
		return
	}
	fmt.Printf("  %s %.1f %s\n", padRight(label, 14), *v, unit)
}

func init() {
	f := foodAddCmd.Flags()
	f.StringVarP(&foodCategory, "category", "c", "other", "food category")
	f.Float64Var(&foodRefQty, "ref-qty", 100, "reference quantity the nutrition is given for")
	f.StringVarP(&foodRefUnit, "unit", "u", "g", "reference unit")
	f.Float64Var(&foodCalories, "calories", 0, "calories at the reference quantity")
	f.Float64Var(&foodProtein, "protein", 0, "protein grams")
	f.Float64Var(&foodCarbs, "carbs", 0, "carbohydrate grams")
	f.Float64Var(&foodFats, "fats", 0, "fat grams")
	f.Float64Var(&foodFiber, "fiber", 0, "fiber grams (optional)")
	f.Float64Var(&foodSugar, "sugar", 0, "sugar grams (optional)")
	f.Float64Var(&foodSodium, "sodium", 0, "sodium milligrams (optional)")
	f.StringVar(&foodBrand, "brand", "", "brand name")
	f.StringVar(&foodBarcode, "barcode", "", "barcode")

	foodListCmd.Flags().StringVarP(&foodListCategory, "category", "c", "", "filter by category")
	foodListCmd.Flags().IntVarP(&foodListLimit, "limit", "n", 50, "max number of results")

	foodCmd.AddCommand(foodAddCmd, foodListCmd, foodScaleCmd, foodDeleteCmd)
	rootCmd.AddCommand(foodCmd)
}
