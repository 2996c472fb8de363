// ABOUTME: Tests for the plan assembler service against a temporary SQLite store.
// ABOUTME: Covers swaps with audit history, no-match handling, ingredient edits, and plan generation.
package planner

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/harperreed/dietplan/internal/matcher"
	"github.com/harperreed/dietplan/internal/models"
	"github.com/harperreed/dietplan/internal/nutrition"
	"github.com/harperreed/dietplan/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var planStart = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func openStore(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "dietplan.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func tol(pct float64) *float64 {
	return &pct
}

func wrap(name string, calories float64) *models.Meal {
	return models.NewMeal(name, models.TimingLunch, calories, 30, 45, 14)
}

// seedSwap stores a profile, the given catalog, and a one-day plan whose
// only slot holds original.
func seedSwap(t *testing.T, db *storage.DB, original *models.Meal, catalog ...*models.Meal) *models.DietPlan {
	t.Helper()

	p := models.NewProfile("casey")
	require.NoError(t, db.SaveProfile(p))
	require.NoError(t, db.CreateMeal(original))
	for _, m := range catalog {
		require.NoError(t, db.CreateMeal(m))
	}

	plan := models.NewDietPlan(p.ID, "test week", planStart)
	plan.Days = []models.PlanDay{{Day: 1, Slots: []models.PlanSlot{{Index: 0, Meal: *original}}}}
	require.NoError(t, db.CreatePlan(plan))
	return plan
}

func TestSwapPersistsReplacementAndHistory(t *testing.T) {
	db := openStore(t)
	plan := seedSwap(t, db, wrap("Chicken wrap", 450),
		wrap("Light salad", 380), wrap("Turkey wrap", 470), wrap("Burger", 600))

	core, logs := observer.New(zapcore.InfoLevel)
	svc := NewService(db, WithLogger(zap.New(core)))

	res, err := svc.Swap(context.Background(), plan.ID.String()[:8], 1, 0, tol(15))
	require.NoError(t, err)
	assert.Equal(t, "Chicken wrap", res.Original.Name)
	assert.Equal(t, "Turkey wrap", res.Replacement.Meal.Name)
	assert.Empty(t, res.Alternatives)

	stored, err := db.GetPlan(plan.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Turkey wrap", stored.Slot(1, 0).Meal.Name)

	history, err := db.ListSubstitutions(plan.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Chicken wrap", history[0].OriginalMeal)
	assert.Equal(t, "Turkey wrap", history[0].ReplacementMeal)
	assert.True(t, history[0].Date.Equal(planStart))

	assert.Equal(t, 1, logs.FilterMessage("swapped meal").Len())
}

func TestSwapNoMatchLeavesPlanUntouched(t *testing.T) {
	db := openStore(t)
	plan := seedSwap(t, db, wrap("Chicken wrap", 450), wrap("Burger", 600))
	svc := NewService(db)

	_, err := svc.Swap(context.Background(), plan.ID.String(), 1, 0, tol(15))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoMatch))
	assert.Contains(t, err.Error(), matcher.NoMatchMessage)

	stored, _ := db.GetPlan(plan.ID.String())
	assert.Equal(t, "Chicken wrap", stored.Slot(1, 0).Meal.Name)
	history, _ := db.ListSubstitutions(plan.ID)
	assert.Empty(t, history)
}

func TestSwapUsesServiceToleranceWhenUnset(t *testing.T) {
	db := openStore(t)
	plan := seedSwap(t, db, wrap("Chicken wrap", 450), wrap("Burger", 600))

	_, err := NewService(db).Swap(context.Background(), plan.ID.String(), 1, 0, nil)
	assert.ErrorIs(t, err, ErrNoMatch)

	res, err := NewService(db, WithTolerance(40)).Swap(context.Background(), plan.ID.String(), 1, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, "Burger", res.Replacement.Meal.Name)
}

func TestSwapZeroToleranceIsExact(t *testing.T) {
	db := openStore(t)
	plan := seedSwap(t, db, wrap("Chicken wrap", 450), wrap("Turkey wrap", 470))
	svc := NewService(db, WithTolerance(40))

	_, err := svc.Swap(context.Background(), plan.ID.String(), 1, 0, tol(0))
	assert.ErrorIs(t, err, ErrNoMatch)

	stored, err := db.GetPlan(plan.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Chicken wrap", stored.Slot(1, 0).Meal.Name)
}

func TestNegativeToleranceIsRejected(t *testing.T) {
	db := openStore(t)
	original := wrap("Chicken wrap", 450)
	plan := seedSwap(t, db, original, wrap("Turkey wrap", 470))
	svc := NewService(db)

	_, err := svc.Swap(context.Background(), plan.ID.String(), 1, 0, tol(-10))
	assert.ErrorIs(t, err, matcher.ErrInvalidTolerance)
	assert.NotErrorIs(t, err, ErrNoMatch)

	_, err = svc.Suggest(context.Background(), *original, "casey", tol(-10))
	var tolErr *matcher.ToleranceError
	require.ErrorAs(t, err, &tolErr)
	assert.Equal(t, -10.0, tolErr.Pct)

	history, _ := db.ListSubstitutions(plan.ID)
	assert.Empty(t, history)
}

func TestWithTolerance(t *testing.T) {
	assert.Equal(t, matcher.DefaultTolerancePct, NewService(nil).Tolerance())
	assert.Equal(t, 0.0, NewService(nil, WithTolerance(0)).Tolerance())
	assert.Equal(t, 25.0, NewService(nil, WithTolerance(25)).Tolerance())
	assert.Equal(t, matcher.DefaultTolerancePct, NewService(nil, WithTolerance(-1)).Tolerance())
}

func TestSwapRespectsProfileExclusions(t *testing.T) {
	db := openStore(t)
	plan := seedSwap(t, db, wrap("Chicken wrap", 450),
		wrap("Satay wrap", 455).WithIngredients("peanut sauce"), wrap("Falafel wrap", 480))

	p, err := db.GetProfile("casey")
	require.NoError(t, err)
	p.ExcludedIngredients = []string{"Peanut"}
	require.NoError(t, db.SaveProfile(p))

	res, err := NewService(db).Swap(context.Background(), plan.ID.String(), 1, 0, tol(15))
	require.NoError(t, err)
	assert.Equal(t, "Falafel wrap", res.Replacement.Meal.Name)
}

func TestSwapReturnsAlternatives(t *testing.T) {
	db := openStore(t)
	plan := seedSwap(t, db, wrap("Chicken wrap", 450),
		wrap("A", 455), wrap("B", 460), wrap("C", 465), wrap("D", 470), wrap("E", 475))

	res, err := NewService(db).Swap(context.Background(), plan.ID.String(), 1, 0, tol(15))
	require.NoError(t, err)
	assert.Equal(t, "A", res.Replacement.Meal.Name)
	require.Len(t, res.Alternatives, maxAlternatives)
	assert.Equal(t, "B", res.Alternatives[0].Meal.Name)
}

func TestSwapErrors(t *testing.T) {
	db := openStore(t)
	plan := seedSwap(t, db, wrap("Chicken wrap", 450), wrap("Turkey wrap", 470))
	svc := NewService(db)

	_, err := svc.Swap(context.Background(), plan.ID.String(), 2, 0, tol(15))
	assert.ErrorIs(t, err, ErrSlotNotFound)

	_, err = svc.Swap(context.Background(), "ffffffff", 1, 0, tol(15))
	assert.ErrorIs(t, err, storage.ErrNotFound)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.Swap(ctx, plan.ID.String(), 1, 0, tol(15))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSuggestDoesNotModifyPlan(t *testing.T) {
	db := openStore(t)
	original := wrap("Chicken wrap", 450)
	plan := seedSwap(t, db, original, wrap("Turkey wrap", 470), wrap("Veggie wrap", 440))

	ranked, err := NewService(db).Suggest(context.Background(), *original, "casey", tol(15))
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "Veggie wrap", ranked[0].Meal.Name)

	history, _ := db.ListSubstitutions(plan.ID)
	assert.Empty(t, history)
}

func TestEditIngredientLifecycle(t *testing.T) {
	db := openStore(t)
	chicken := models.NewFoodItem("Chicken breast", models.CategoryProtein, 100, models.UnitGram,
		models.NutritionValues{Calories: 165, Protein: 31, Carbs: 0, Fats: 3.6})
	rice := models.NewFoodItem("Brown rice", models.CategoryGrain, 100, models.UnitGram,
		models.NutritionValues{Calories: 123, Protein: 2.7, Carbs: 25.6, Fats: 1})
	require.NoError(t, db.CreateFood(chicken))
	require.NoError(t, db.CreateFood(rice))

	plan := seedSwap(t, db, wrap("Rice bowl", 450))
	svc := NewService(db)
	ctx := context.Background()

	m, err := svc.EditIngredient(ctx, plan.ID.String(), 1, 0, IngredientEdit{Op: EditAdd, FoodRef: "chicken breast", Quantity: 150, Unit: models.UnitGram})
	require.NoError(t, err)
	assert.Equal(t, 248.0, m.Calories)

	m, err = svc.EditIngredient(ctx, plan.ID.String(), 1, 0, IngredientEdit{Op: EditAdd, FoodRef: rice.ID.String()[:8], Quantity: 200, Unit: models.UnitGram})
	require.NoError(t, err)
	assert.Equal(t, 494.0, m.Calories)

	m, err = svc.EditIngredient(ctx, plan.ID.String(), 1, 0, IngredientEdit{Op: EditSet, Index: 0, Quantity: 100, Unit: models.UnitGram})
	require.NoError(t, err)
	assert.Equal(t, 411.0, m.Calories)

	m, err = svc.EditIngredient(ctx, plan.ID.String(), 1, 0, IngredientEdit{Op: EditRemove, Index: 1})
	require.NoError(t, err)
	assert.Equal(t, 165.0, m.Calories)
	assert.Equal(t, 31.0, m.Protein)

	stored, _ := db.GetPlan(plan.ID.String())
	slot := stored.Slot(1, 0).Meal
	assert.Equal(t, 165.0, slot.Calories)
	require.Len(t, slot.StructuredIngredients, 1)
	assert.Equal(t, "Chicken breast", slot.StructuredIngredients[0].Name)
	assert.True(t, nutrition.TotalsConsistent(slot, 0.5))

	// The catalog meal is never touched by plan edits.
	catalogMeal, err := db.GetMeal(slot.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 450.0, catalogMeal.Calories)
}

func TestEditIngredientErrors(t *testing.T) {
	db := openStore(t)
	plan := seedSwap(t, db, wrap("Rice bowl", 450))
	svc := NewService(db)
	ctx := context.Background()

	_, err := svc.EditIngredient(ctx, plan.ID.String(), 1, 0, IngredientEdit{Op: EditRemove, Index: 0})
	assert.ErrorIs(t, err, nutrition.ErrIngredientNotFound)

	_, err = svc.EditIngredient(ctx, plan.ID.String(), 1, 0, IngredientEdit{Op: EditAdd, FoodRef: "unobtainium", Quantity: 1, Unit: models.UnitGram})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = svc.EditIngredient(ctx, plan.ID.String(), 1, 3, IngredientEdit{Op: EditRemove})
	assert.ErrorIs(t, err, ErrSlotNotFound)

	_, err = svc.EditIngredient(ctx, plan.ID.String(), 1, 0, IngredientEdit{Op: "rename"})
	assert.ErrorContains(t, err, "unknown edit operation")
}

func TestGeneratePlan(t *testing.T) {
	db := openStore(t)
	vegan := []models.DietaryTag{models.DietaryVegan}
	for _, m := range []*models.Meal{
		models.NewMeal("Tofu scramble", models.TimingBreakfast, 380, 24, 18, 22).WithTags(vegan, nil, nil),
		models.NewMeal("Peanut oats", models.TimingBreakfast, 560, 16, 70, 20).WithTags(vegan, nil, nil),
		models.NewMeal("Bacon and eggs", models.TimingBreakfast, 580, 30, 2, 45),
		models.NewMeal("Chana masala", models.TimingLunch, 700, 19, 100, 14).WithTags(vegan, nil, nil),
		models.NewMeal("Steak frites", models.TimingDinner, 800, 50, 60, 40),
	} {
		require.NoError(t, db.CreateMeal(m))
	}
	p := models.NewProfile("robin")
	p.DietaryRestrictions = vegan
	require.NoError(t, db.SaveProfile(p))

	plan, err := NewService(db).GeneratePlan(context.Background(), "robin", "", 3, planStart)
	require.NoError(t, err)

	assert.Equal(t, "robin 2026-03-02", plan.Name)
	require.Len(t, plan.Days, 3)
	for _, day := range plan.Days {
		require.Len(t, day.Slots, 2, "day %d", day.Day)
		assert.Equal(t, models.TimingBreakfast, day.Slots[0].Meal.Timing)
		assert.Equal(t, "Chana masala", day.Slots[1].Meal.Name)
	}
	// Breakfast budget is 581 kcal, so the closer meal leads the rotation.
	assert.Equal(t, "Peanut oats", plan.Days[0].Slots[0].Meal.Name)
	assert.Equal(t, "Tofu scramble", plan.Days[1].Slots[0].Meal.Name)
	assert.Equal(t, "Peanut oats", plan.Days[2].Slots[0].Meal.Name)

	stored, err := db.GetPlan(plan.ID.String())
	require.NoError(t, err)
	assert.Len(t, stored.Days, 3)

	updated, err := db.GetProfile("robin")
	require.NoError(t, err)
	assert.Equal(t, 2325, updated.Targets.RecommendedCalories)
	assert.True(t, updated.Targets.UsedDefaultBMR)
}

func TestGeneratePlanErrors(t *testing.T) {
	db := openStore(t)
	require.NoError(t, db.CreateMeal(models.NewMeal("Peanut oats", models.TimingBreakfast, 500, 15, 70, 18).WithIngredients("peanut butter")))
	p := models.NewProfile("jo")
	p.ExcludedIngredients = []string{"peanut"}
	require.NoError(t, db.SaveProfile(p))
	svc := NewService(db)
	ctx := context.Background()

	_, err := svc.GeneratePlan(ctx, "jo", "", 0, planStart)
	assert.ErrorIs(t, err, ErrInvalidDays)
	_, err = svc.GeneratePlan(ctx, "jo", "", MaxPlanDays+1, planStart)
	assert.ErrorIs(t, err, ErrInvalidDays)

	_, err = svc.GeneratePlan(ctx, "jo", "", 7, planStart)
	assert.ErrorIs(t, err, ErrNoCandidates)

	_, err = svc.GeneratePlan(ctx, "nobody", "", 7, planStart)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
