// ABOUTME: MCP tool implementations for the dietplan engine.
// ABOUTME: Exposes target calculation, food scaling, meal matching, swaps, and ingredient edits.
package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/harperreed/dietplan/internal/matcher"
	"github.com/harperreed/dietplan/internal/models"
	"github.com/harperreed/dietplan/internal/nutrition"
	"github.com/harperreed/dietplan/internal/planner"
	"github.com/harperreed/dietplan/internal/storage"
	"github.com/harperreed/dietplan/internal/targets"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

func (s *Server) registerTools() {
	// calculate_targets
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "calculate_targets",
		Description: "Compute BMR, TDEE, recommended calories, macro split, and per-meal budgets",
	}, s.handleCalculateTargets)

	// scale_food
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "scale_food",
		Description: "Scale a catalog food's nutrition to a quantity and unit",
	}, s.handleScaleFood)

	// find_replacement
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "find_replacement",
		Description: "Rank catalog meals that can replace a meal for a profile without changing any plan",
	}, s.handleFindReplacement)

	// swap_meal
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "swap_meal",
		Description: "Replace the meal in a plan slot with the best match and record the substitution",
	}, s.handleSwapMeal)

	// list_meals
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_meals",
		Description: "List catalog meals, optionally filtered by timing",
	}, s.handleListMeals)

	// edit_ingredient
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "edit_ingredient",
		Description: "Set, add, or remove a structured ingredient of a plan slot meal and recompute totals",
	}, s.handleEditIngredient)
}

// Tool input/output types

type calculateTargetsInput struct {
	Profile       string   `json:"profile,omitempty" jsonschema:"Profile name or ID; fields not given are taken from it"`
	WeightKg      *float64 `json:"weight_kg,omitempty" jsonschema:"Body weight in kilograms"`
	HeightCm      *float64 `json:"height_cm,omitempty" jsonschema:"Height in centimeters"`
	Age           *int     `json:"age,omitempty" jsonschema:"Age in years"`
	Sex           string   `json:"sex,omitempty" jsonschema:"male or female"`
	ActivityLevel string   `json:"activity_level,omitempty" jsonschema:"sedentary, lightly_active, moderately_active, very_active, or extremely_active"`
	Goal          string   `json:"goal,omitempty" jsonschema:"weight_loss, muscle_building, maintenance, general_health, or weight_gain"`
	DietType      string   `json:"diet_type,omitempty" jsonschema:"Diet type such as balanced, keto, vegan, low_carb"`
	Save          bool     `json:"save,omitempty" jsonschema:"Store the inputs and targets on the named profile"`
}

type targetsOutput struct {
	Profile     string             `json:"profile,omitempty"`
	Targets     models.Targets     `json:"targets"`
	Grams       targets.MacroGrams `json:"grams"`
	MealBudgets map[string]int     `json:"meal_budgets"`
	Saved       bool               `json:"saved"`
	Message     string             `json:"message"`
}

type scaleFoodInput struct {
	Food     string  `json:"food" jsonschema:"Food ID, ID prefix, or name"`
	Quantity float64 `json:"quantity" jsonschema:"Quantity to scale to"`
	Unit     string  `json:"unit" jsonschema:"Unit such as g, oz, ml, cup, tbsp, piece"`
}

type scaleFoodOutput struct {
	Food      string                 `json:"food"`
	Quantity  float64                `json:"quantity"`
	Unit      string                 `json:"unit"`
	Nutrition models.NutritionValues `json:"nutrition"`
}

type findReplacementInput struct {
	Meal         string   `json:"meal" jsonschema:"Catalog meal ID or prefix to replace"`
	Profile      string   `json:"profile" jsonschema:"Profile name or ID"`
	TolerancePct *float64 `json:"tolerance_pct,omitempty" jsonschema:"Allowed per-macro deviation in percent; omit for the configured default, 0 for exact macros"`
	Limit        int      `json:"limit,omitempty" jsonschema:"Max candidates (default 5)"`
}

type candidateOutput struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Calories     float64           `json:"calories"`
	Protein      float64           `json:"protein"`
	Carbs        float64           `json:"carbs"`
	Fats         float64           `json:"fats"`
	Cuisine      string            `json:"cuisine,omitempty"`
	Deviation    matcher.Deviation `json:"deviation"`
	Score        float64           `json:"score"`
	CuisineMatch bool              `json:"cuisine_match"`
}

type findReplacementOutput struct {
	Original   string            `json:"original"`
	Candidates []candidateOutput `json:"candidates"`
	Message    string            `json:"message"`
}

type swapMealInput struct {
	Plan         string   `json:"plan" jsonschema:"Plan ID or prefix"`
	Day          int      `json:"day" jsonschema:"Plan day, starting at 1"`
	Slot         int      `json:"slot" jsonschema:"Slot index within the day, starting at 0"`
	TolerancePct *float64 `json:"tolerance_pct,omitempty" jsonschema:"Allowed per-macro deviation in percent; omit for the configured default, 0 for exact macros"`
}

type swapMealOutput struct {
	Swapped      bool              `json:"swapped"`
	Original     string            `json:"original,omitempty"`
	Replacement  *candidateOutput  `json:"replacement,omitempty"`
	Alternatives []candidateOutput `json:"alternatives,omitempty"`
	Message      string            `json:"message"`
}

type listMealsInput struct {
	Timing string `json:"timing,omitempty" jsonschema:"Filter by timing: breakfast, lunch, dinner, or snack"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type mealSummary struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Timing   string  `json:"timing"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
	Cuisine  string  `json:"cuisine,omitempty"`
	Budget   string  `json:"budget,omitempty"`
}

type listMealsOutput struct {
	Meals   []mealSummary `json:"meals"`
	Count   int           `json:"count"`
	Message string        `json:"message,omitempty"`
}

type editIngredientInput struct {
	Plan     string  `json:"plan" jsonschema:"Plan ID or prefix"`
	Day      int     `json:"day" jsonschema:"Plan day, starting at 1"`
	Slot     int     `json:"slot" jsonschema:"Slot index within the day, starting at 0"`
	Op       string  `json:"op" jsonschema:"set, add, or remove"`
	Index    int     `json:"index,omitempty" jsonschema:"Ingredient index for set and remove"`
	Food     string  `json:"food,omitempty" jsonschema:"Food ID or name for add"`
	Quantity float64 `json:"quantity,omitempty" jsonschema:"New quantity for set and add"`
	Unit     string  `json:"unit,omitempty" jsonschema:"Unit for set and add"`
}

type editIngredientOutput struct {
	Meal        string             `json:"meal"`
	Calories    float64            `json:"calories"`
	Protein     float64            `json:"protein"`
	Carbs       float64            `json:"carbs"`
	Fats        float64            `json:"fats"`
	Ingredients []ingredientOutput `json:"ingredients"`
	Message     string             `json:"message"`
}

type ingredientOutput struct {
	Index    int     `json:"index"`
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Calories float64 `json:"calories"`
}

// Tool handlers

func (s *Server) handleCalculateTargets(ctx context.Context, req *mcp.CallToolRequest, input calculateTargetsInput) (*mcp.CallToolResult, targetsOutput, error) {
	var p *models.UserDietaryProfile
	if input.Profile != "" {
		existing, err := s.repo.GetProfile(input.Profile)
		switch {
		case err == nil:
			p = existing
		case errors.Is(err, storage.ErrNotFound):
			p = models.NewProfile(input.Profile)
		default:
			return nil, targetsOutput{}, fmt.Errorf("failed to load profile: %w", err)
		}
	} else {
		p = models.NewProfile("")
	}

	if err := applyTargetInputs(p, input); err != nil {
		return nil, targetsOutput{}, err
	}

	*p = s.calc.Apply(*p)

	saved := false
	if input.Save {
		if p.Name == "" {
			return nil, targetsOutput{}, fmt.Errorf("profile name is required to save targets")
		}
		if err := s.repo.SaveProfile(p); err != nil {
			return nil, targetsOutput{}, fmt.Errorf("failed to save profile: %w", err)
		}
		saved = true
	}

	budgets := make(map[string]int, len(models.AllMealTimings))
	for _, timing := range models.AllMealTimings {
		budgets[string(timing)] = targets.MealCalorieBudget(p.Targets.RecommendedCalories, timing)
	}

	msg := fmt.Sprintf("Recommended %d kcal/day (BMR %d, TDEE %d)", p.Targets.RecommendedCalories, p.Targets.BMR, p.Targets.TDEE)
	if p.Targets.UsedDefaultBMR {
		msg += "; biometrics incomplete, default BMR used"
	}

	return nil, targetsOutput{
		Profile:     p.Name,
		Targets:     p.Targets,
		Grams:       targets.Grams(p.Targets.RecommendedCalories, p.Targets.MacroSplit),
		MealBudgets: budgets,
		Saved:       saved,
		Message:     msg,
	}, nil
}

func applyTargetInputs(p *models.UserDietaryProfile, input calculateTargetsInput) error {
	if input.WeightKg != nil {
		p.Biometrics.WeightKg = input.WeightKg
	}
	if input.HeightCm != nil {
		p.Biometrics.HeightCm = input.HeightCm
	}
	if input.Age != nil {
		p.Biometrics.Age = input.Age
	}
	if input.Sex != "" {
		if !models.IsValidSex(input.Sex) {
			return fmt.Errorf("unknown sex: %s", input.Sex)
		}
		p.Biometrics.Sex = models.Sex(input.Sex)
	}
	if input.ActivityLevel != "" {
		if !models.IsValidActivityLevel(input.ActivityLevel) {
			return fmt.Errorf("unknown activity level: %s", input.ActivityLevel)
		}
		p.ActivityLevel = models.ActivityLevel(input.ActivityLevel)
	}
	if input.Goal != "" {
		if !models.IsValidGoal(input.Goal) {
			return fmt.Errorf("unknown goal: %s", input.Goal)
		}
		p.Goal = models.Goal(input.Goal)
	}
	if input.DietType != "" {
		if !models.IsValidDietType(input.DietType) {
			return fmt.Errorf("unknown diet type: %s", input.DietType)
		}
		p.DietType = models.DietType(input.DietType)
	}
	return nil
}

func (s *Server) handleScaleFood(ctx context.Context, req *mcp.CallToolRequest, input scaleFoodInput) (*mcp.CallToolResult, scaleFoodOutput, error) {
	if !models.IsValidUnit(input.Unit) {
		return nil, scaleFoodOutput{}, fmt.Errorf("unknown unit: %s", input.Unit)
	}

	food, err := s.repo.FindFood(input.Food)
	if err != nil {
		return nil, scaleFoodOutput{}, fmt.Errorf("food not found: %s", input.Food)
	}

	n, err := nutrition.Scale(*food, input.Quantity, models.Unit(input.Unit))
	if err != nil {
		return nil, scaleFoodOutput{}, fmt.Errorf("failed to scale %s: %w", food.Name, err)
	}

	return nil, scaleFoodOutput{
		Food:      food.Name,
		Quantity:  input.Quantity,
		Unit:      input.Unit,
		Nutrition: n,
	}, nil
}

func (s *Server) handleFindReplacement(ctx context.Context, req *mcp.CallToolRequest, input findReplacementInput) (*mcp.CallToolResult, findReplacementOutput, error) {
	if input.Limit <= 0 {
		input.Limit = 5
	}

	meal, err := s.repo.GetMeal(input.Meal)
	if err != nil {
		return nil, findReplacementOutput{}, fmt.Errorf("meal not found: %s", input.Meal)
	}

	ranked, err := s.svc.Suggest(ctx, *meal, input.Profile, input.TolerancePct)
	if err != nil {
		return nil, findReplacementOutput{}, fmt.Errorf("failed to rank replacements: %w", err)
	}

	out := findReplacementOutput{Original: meal.Name, Candidates: []candidateOutput{}}
	if len(ranked) == 0 {
		out.Message = matcher.NoMatchMessage
		return nil, out, nil
	}
	if len(ranked) > input.Limit {
		ranked = ranked[:input.Limit]
	}
	for _, c := range ranked {
		out.Candidates = append(out.Candidates, toCandidateOutput(c))
	}
	out.Message = fmt.Sprintf("Best replacement for %s: %s", meal.Name, ranked[0].Meal.Name)
	return nil, out, nil
}

func (s *Server) handleSwapMeal(ctx context.Context, req *mcp.CallToolRequest, input swapMealInput) (*mcp.CallToolResult, swapMealOutput, error) {
	res, err := s.svc.Swap(ctx, input.Plan, input.Day, input.Slot, input.TolerancePct)
	if errors.Is(err, planner.ErrNoMatch) {
		return nil, swapMealOutput{Swapped: false, Message: matcher.NoMatchMessage}, nil
	}
	if err != nil {
		return nil, swapMealOutput{}, fmt.Errorf("failed to swap meal: %w", err)
	}

	replacement := toCandidateOutput(res.Replacement)
	out := swapMealOutput{
		Swapped:     true,
		Original:    res.Original.Name,
		Replacement: &replacement,
		Message:     fmt.Sprintf("Swapped %s for %s on day %d", res.Original.Name, res.Replacement.Meal.Name, res.Day),
	}
	for _, alt := range res.Alternatives {
		out.Alternatives = append(out.Alternatives, toCandidateOutput(alt))
	}

	s.log.Debug("swap_meal", zap.String("plan", res.PlanID), zap.String("replacement", res.Replacement.Meal.Name))
	return nil, out, nil
}

func (s *Server) handleListMeals(ctx context.Context, req *mcp.CallToolRequest, input listMealsInput) (*mcp.CallToolResult, listMealsOutput, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	var timing *models.MealTiming
	if input.Timing != "" {
		if !models.IsValidMealTiming(input.Timing) {
			return nil, listMealsOutput{}, fmt.Errorf("unknown meal timing: %s", input.Timing)
		}
		t := models.MealTiming(input.Timing)
		timing = &t
	}

	meals, err := s.repo.ListMeals(timing, input.Limit)
	if err != nil {
		return nil, listMealsOutput{}, fmt.Errorf("failed to list meals: %w", err)
	}

	out := listMealsOutput{Meals: make([]mealSummary, 0, len(meals)), Count: len(meals)}
	for _, m := range meals {
		out.Meals = append(out.Meals, toMealSummary(m))
	}
	if len(meals) == 0 {
		out.Message = "No meals found."
	}
	return nil, out, nil
}

func (s *Server) handleEditIngredient(ctx context.Context, req *mcp.CallToolRequest, input editIngredientInput) (*mcp.CallToolResult, editIngredientOutput, error) {
	edit := planner.IngredientEdit{
		Op:       planner.EditOp(input.Op),
		Index:    input.Index,
		FoodRef:  input.Food,
		Quantity: input.Quantity,
		Unit:     models.Unit(input.Unit),
	}

	meal, err := s.svc.EditIngredient(ctx, input.Plan, input.Day, input.Slot, edit)
	if err != nil {
		return nil, editIngredientOutput{}, fmt.Errorf("failed to edit ingredient: %w", err)
	}

	ingredients := make([]ingredientOutput, len(meal.StructuredIngredients))
	for i, ing := range meal.StructuredIngredients {
		ingredients[i] = ingredientOutput{
			Index:    i,
			Name:     ing.Name,
			Quantity: ing.Quantity,
			Unit:     string(ing.Unit),
			Calories: ing.Current.Calories,
		}
	}

	return nil, editIngredientOutput{
		Meal:        meal.Name,
		Calories:    meal.Calories,
		Protein:     meal.Protein,
		Carbs:       meal.Carbs,
		Fats:        meal.Fats,
		Ingredients: ingredients,
		Message:     fmt.Sprintf("Updated %s: %.0f kcal", meal.Name, meal.Calories),
	}, nil
}

func toCandidateOutput(c matcher.Candidate) candidateOutput {
	return candidateOutput{
		ID:           c.Meal.ID.String()[:8],
		Name:         c.Meal.Name,
		Calories:     c.Meal.Calories,
		Protein:      c.Meal.Protein,
		Carbs:        c.Meal.Carbs,
		Fats:         c.Meal.Fats,
		Cuisine:      string(c.Meal.Cuisine),
		Deviation:    c.Deviation,
		Score:        c.Score,
		CuisineMatch: c.CuisineMatch,
	}
}

func toMealSummary(m *models.Meal) mealSummary {
	return mealSummary{
		ID:       m.ID.String()[:8],
		Name:     m.Name,
		Timing:   string(m.Timing),
		Calories: m.Calories,
		Protein:  m.Protein,
		Carbs:    m.Carbs,
		Fats:     m.Fats,
		Cuisine:  string(m.Cuisine),
		Budget:   string(m.BudgetTier),
	}
}
