// ABOUTME: Nutrition scaler converting reference nutrition to a requested quantity.
// ABOUTME: Holds the closed unit conversion table and the rounding policy.
package nutrition

import (
	"errors"
	"fmt"
	"math"

	"github.com/harperreed/dietplan/internal/models"
)

var (
	// ErrInvalidQuantity is returned for quantities that are not > 0.
	ErrInvalidQuantity = errors.New("invalid quantity")
	// ErrUnsupportedUnitConversion is returned when no conversion path exists.
	ErrUnsupportedUnitConversion = errors.New("unsupported unit conversion")
)

// QuantityError names the offending field of an invalid quantity.
type QuantityError struct {
	Field    string
	Quantity float64
}

func (e *QuantityError) Error() string {
	return fmt.Sprintf("%s: %s must be > 0, got %g", ErrInvalidQuantity, e.Field, e.Quantity)
}

func (e *QuantityError) Unwrap() error { return ErrInvalidQuantity }

// ConversionError names the units that could not be converted.
type ConversionError struct {
	From models.Unit
	To   models.Unit
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("%s: %s to %s", ErrUnsupportedUnitConversion, e.From, e.To)
}

func (e *ConversionError) Unwrap() error { return ErrUnsupportedUnitConversion }

type unitFamily string

const (
	familyMass    unitFamily = "mass"
	familyVolume  unitFamily = "volume"
	familyPiece   unitFamily = "piece"
	familyServing unitFamily = "serving"
)

type unitDef struct {
	family unitFamily
	toBase float64
}

// Mass is based on grams and volume on milliliters. Count units only
// convert to themselves.
var unitTable = map[models.Unit]unitDef{
	models.UnitGram:       {family: familyMass, toBase: 1},
	models.UnitOunce:      {family: familyMass, toBase: 28.3495},
	models.UnitMilliliter: {family: familyVolume, toBase: 1},
	models.UnitCup:        {family: familyVolume, toBase: 240},
	models.UnitTablespoon: {family: familyVolume, toBase: 15},
	models.UnitTeaspoon:   {family: familyVolume, toBase: 5},
	models.UnitPiece:      {family: familyPiece, toBase: 1},
	models.UnitServing:    {family: familyServing, toBase: 1},
}

// Convert expresses qty of from in the to unit.
func Convert(qty float64, from, to models.Unit) (float64, error) {
	if from == to {
		if _, ok := unitTable[from]; ok {
			return qty, nil
		}
	}
	f, ok := unitTable[from]
	if !ok {
		return 0, &ConversionError{From: from, To: to}
	}
	t, ok := unitTable[to]
	if !ok || f.family != t.family {
		return 0, &ConversionError{From: from, To: to}
	}
	return qty * f.toBase / t.toBase, nil
}

// CanConvert reports whether a conversion path exists.
func CanConvert(from, to models.Unit) bool {
	_, err := Convert(1, from, to)
	return err == nil
}

// Scale returns the food's nutrition for qty of unit.
func Scale(food models.FoodItem, qty float64, unit models.Unit) (models.NutritionValues, error) {
	return scaleReference(food.Nutrition, food.ReferenceQuantity, food.ReferenceUnit, qty, unit)
}

func scaleReference(ref models.NutritionValues, refQty float64, refUnit models.Unit, qty float64, unit models.Unit) (models.NutritionValues, error) {
	if qty <= 0 || math.IsNaN(qty) || math.IsInf(qty, 0) {
		return models.NutritionValues{}, &QuantityError{Field: "quantity", Quantity: qty}
	}
	if refQty <= 0 {
		return models.NutritionValues{}, &QuantityError{Field: "reference_quantity", Quantity: refQty}
	}
	normalized, err := Convert(qty, unit, refUnit)
	if err != nil {
		return models.NutritionValues{}, err
	}
	return multiplyRatio(ref, normalized, refQty), nil
}

// multiplyRatio computes v*num/den per field and applies the rounding
// policy. The order matches round(v*q/ref) exactly.
func multiplyRatio(n models.NutritionValues, num, den float64) models.NutritionValues {
	f := func(v float64) float64 { return v * num / den }
	opt := func(v *float64) *float64 {
		if v == nil {
			return nil
		}
		r := RoundGrams(f(*v))
		return &r
	}
	return models.NutritionValues{
		Calories:     RoundCalories(f(n.Calories)),
		Protein:      RoundGrams(f(n.Protein)),
		Carbs:        RoundGrams(f(n.Carbs)),
		Fats:         RoundGrams(f(n.Fats)),
		Fiber:        opt(n.Fiber),
		Sugar:        opt(n.Sugar),
		SaturatedFat: opt(n.SaturatedFat),
		Sodium:       opt(n.Sodium),
		Cholesterol:  opt(n.Cholesterol),
		Potassium:    opt(n.Potassium),
	}
}

// RoundCalories rounds to the nearest whole calorie.
func RoundCalories(v float64) float64 {
	return math.Round(v)
}

// RoundGrams rounds to one decimal place.
func RoundGrams(v float64) float64 {
	return math.Round(v*10) / 10
}
