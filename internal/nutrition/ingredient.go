// ABOUTME: Structured ingredient snapshots and meal aggregate recomputation.
// ABOUTME: Ingredient edits always rescale from the stored reference values.
package nutrition

import (
	"errors"
	"fmt"

	"github.com/harperreed/dietplan/internal/models"
)

// ErrIngredientNotFound is returned for an ingredient index outside the meal.
var ErrIngredientNotFound = errors.New("ingredient not found")

// NewStructuredIngredient snapshots food at qty of unit.
func NewStructuredIngredient(food models.FoodItem, qty float64, unit models.Unit) (models.StructuredIngredient, error) {
	current, err := Scale(food, qty, unit)
	if err != nil {
		return models.StructuredIngredient{}, fmt.Errorf("%s: %w", food.Name, err)
	}
	return models.StructuredIngredient{
		FoodID:            food.ID,
		Name:              food.Name,
		Quantity:          qty,
		Unit:              unit,
		Current:           current,
		ReferenceQuantity: food.ReferenceQuantity,
		ReferenceUnit:     food.ReferenceUnit,
		Reference:         food.Nutrition,
	}, nil
}

// Rescale returns ing at a new quantity. It scales from the reference
// snapshot, so repeated rescaling never accumulates rounding drift.
func Rescale(ing models.StructuredIngredient, qty float64, unit models.Unit) (models.StructuredIngredient, error) {
	current, err := scaleReference(ing.Reference, ing.ReferenceQuantity, ing.ReferenceUnit, qty, unit)
	if err != nil {
		return models.StructuredIngredient{}, fmt.Errorf("%s: %w", ing.Name, err)
	}
	ing.Quantity = qty
	ing.Unit = unit
	ing.Current = current
	return ing, nil
}

// RecomputeTotals sets the meal's aggregates to the sum of its structured
// ingredients. Meals with only free-text ingredients are returned as is.
func RecomputeTotals(m models.Meal) models.Meal {
	if !m.HasStructuredIngredients() {
		return m
	}
	return withTotals(m)
}

func withTotals(m models.Meal) models.Meal {
	var cal, protein, carbs, fats float64
	for _, si := range m.StructuredIngredients {
		cal += si.Current.Calories
		protein += si.Current.Protein
		carbs += si.Current.Carbs
		fats += si.Current.Fats
	}
	m.Calories = RoundCalories(cal)
	m.Protein = RoundGrams(protein)
	m.Carbs = RoundGrams(carbs)
	m.Fats = RoundGrams(fats)
	return m
}

// TotalsConsistent reports whether the aggregates match the ingredient sum
// within tol. Free-text only meals are always consistent.
func TotalsConsistent(m models.Meal, tol float64) bool {
	if !m.HasStructuredIngredients() {
		return true
	}
	want := withTotals(m)
	return within(m.Calories, want.Calories, tol) &&
		within(m.Protein, want.Protein, tol) &&
		within(m.Carbs, want.Carbs, tol) &&
		within(m.Fats, want.Fats, tol)
}

func within(a, b, tol float64) bool {
	d := a - b
	return d <= tol && d >= -tol
}

// AddIngredient appends food at qty of unit and recomputes totals.
func AddIngredient(m models.Meal, food models.FoodItem, qty float64, unit models.Unit) (models.Meal, error) {
	si, err := NewStructuredIngredient(food, qty, unit)
	if err != nil {
		return models.Meal{}, err
	}
	out := m.Clone()
	out.StructuredIngredients = append(out.StructuredIngredients, si)
	return withTotals(out), nil
}

// UpdateIngredient rescales the ingredient at index and recomputes totals.
func UpdateIngredient(m models.Meal, index int, qty float64, unit models.Unit) (models.Meal, error) {
	if index < 0 || index >= len(m.StructuredIngredients) {
		return models.Meal{}, fmt.Errorf("%w: index %d", ErrIngredientNotFound, index)
	}
	si, err := Rescale(m.StructuredIngredients[index], qty, unit)
	if err != nil {
		return models.Meal{}, err
	}
	out := m.Clone()
	out.StructuredIngredients[index] = si
	return withTotals(out), nil
}

// RemoveIngredient drops the ingredient at index and recomputes totals.
func RemoveIngredient(m models.Meal, index int) (models.Meal, error) {
	if index < 0 || index >= len(m.StructuredIngredients) {
		return models.Meal{}, fmt.Errorf("%w: index %d", ErrIngredientNotFound, index)
	}
	out := m.Clone()
	out.StructuredIngredients = append(out.StructuredIngredients[:index], out.StructuredIngredients[index+1:]...)
	return withTotals(out), nil
}
