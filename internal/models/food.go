// ABOUTME: FoodItem model, Unit and FoodCategory enums, and NutritionValues.
// ABOUTME: Nutrition is always defined at the food's reference quantity.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Unit is a unit of measure accepted for foods and ingredients.
type Unit string

const (
	UnitGram       Unit = "g"
	UnitMilliliter Unit = "ml"
	UnitOunce      Unit = "oz"
	UnitCup        Unit = "cup"
	UnitTablespoon Unit = "tbsp"
	UnitTeaspoon   Unit = "tsp"
	UnitPiece      Unit = "piece"
	UnitServing    Unit = "serving"
)

// AllUnits lists every accepted unit.
var AllUnits = []Unit{
	UnitGram, UnitMilliliter, UnitOunce, UnitCup,
	UnitTablespoon, UnitTeaspoon, UnitPiece, UnitServing,
}

// IsValidUnit checks if a string is a valid unit.
func IsValidUnit(s string) bool {
	return isValid(AllUnits, s)
}

// FoodCategory classifies a food item.
type FoodCategory string

const (
	CategoryProtein   FoodCategory = "protein"
	CategoryGrain     FoodCategory = "grain"
	CategoryVegetable FoodCategory = "vegetable"
	CategoryFruit     FoodCategory = "fruit"
	CategoryDairy     FoodCategory = "dairy"
	CategoryFat       FoodCategory = "fat"
	CategoryLegume    FoodCategory = "legume"
	CategoryNutSeed   FoodCategory = "nut_seed"
	CategoryBeverage  FoodCategory = "beverage"
	CategoryCondiment FoodCategory = "condiment"
	CategoryOther     FoodCategory = "other"
)

// AllFoodCategories lists every food category.
var AllFoodCategories = []FoodCategory{
	CategoryProtein, CategoryGrain, CategoryVegetable, CategoryFruit,
	CategoryDairy, CategoryFat, CategoryLegume, CategoryNutSeed,
	CategoryBeverage, CategoryCondiment, CategoryOther,
}

// IsValidFoodCategory checks if a string is a valid food category.
func IsValidFoodCategory(s string) bool {
	return isValid(AllFoodCategories, s)
}

// NutritionValues holds macro and micronutrient amounts for some quantity of food.
// Optional fields are nil when the source has no data, which is not the same as zero.
type NutritionValues struct {
	Calories     float64  `json:"calories" yaml:"calories"`
	Protein      float64  `json:"protein" yaml:"protein"`
	Carbs        float64  `json:"carbs" yaml:"carbs"`
	Fats         float64  `json:"fats" yaml:"fats"`
	Fiber        *float64 `json:"fiber,omitempty" yaml:"fiber,omitempty"`
	Sugar        *float64 `json:"sugar,omitempty" yaml:"sugar,omitempty"`
	SaturatedFat *float64 `json:"saturated_fat,omitempty" yaml:"saturated_fat,omitempty"`
	Sodium       *float64 `json:"sodium,omitempty" yaml:"sodium,omitempty"`
	Cholesterol  *float64 `json:"cholesterol,omitempty" yaml:"cholesterol,omitempty"`
	Potassium    *float64 `json:"potassium,omitempty" yaml:"potassium,omitempty"`
}

// FoodItem is a catalog food with nutrition defined at ReferenceQuantity of ReferenceUnit.
type FoodItem struct {
	ID                uuid.UUID       `json:"id" yaml:"id"`
	Name              string          `json:"name" yaml:"name"`
	Brand             *string         `json:"brand,omitempty" yaml:"brand,omitempty"`
	Barcode           *string         `json:"barcode,omitempty" yaml:"barcode,omitempty"`
	Category          FoodCategory    `json:"category" yaml:"category"`
	ReferenceQuantity float64         `json:"reference_quantity" yaml:"reference_quantity"`
	ReferenceUnit     Unit            `json:"reference_unit" yaml:"reference_unit"`
	Nutrition         NutritionValues `json:"nutrition" yaml:"nutrition"`
	CreatedAt         time.Time       `json:"created_at" yaml:"created_at"`
}

// NewFoodItem creates a new FoodItem with generated UUID.
func NewFoodItem(name string, category FoodCategory, refQty float64, refUnit Unit, n NutritionValues) *FoodItem {
	return &FoodItem{
		ID:                uuid.New(),
		Name:              name,
		Category:          category,
		ReferenceQuantity: refQty,
		ReferenceUnit:     refUnit,
		Nutrition:         n,
		CreatedAt:         time.Now(),
	}
}

// WithBrand sets the brand name.
func (f *FoodItem) WithBrand(brand string) *FoodItem {
	f.Brand = &brand
	return f
}

// WithBarcode sets the barcode.
func (f *FoodItem) WithBarcode(barcode string) *FoodItem {
	f.Barcode = &barcode
	return f
}

// Float returns a pointer to v, for populating optional nutrition fields.
func Float(v float64) *float64 {
	return &v
}

func isValid[T ~string](all []T, s string) bool {
	for _, v := range all {
		if string(v) == s {
			return true
		}
	}
	return false
}
