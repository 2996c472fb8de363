// ABOUTME: Meal and StructuredIngredient models plus the five tag vocabularies.
// ABOUTME: Tags cover nutrition profile, health suitability, diet, cuisine, and lifestyle.
package models

import (
	"slices"

	"github.com/google/uuid"
)

// MealTiming is the slot a meal fills within a day.
type MealTiming string

const (
	TimingBreakfast MealTiming = "breakfast"
	TimingLunch     MealTiming = "lunch"
	TimingDinner    MealTiming = "dinner"
	TimingSnack     MealTiming = "snack"
)

// AllMealTimings lists the slots in day order.
var AllMealTimings = []MealTiming{TimingBreakfast, TimingLunch, TimingDinner, TimingSnack}

// IsValidMealTiming checks if a string is a valid meal timing.
func IsValidMealTiming(s string) bool {
	return isValid(AllMealTimings, s)
}

// NutritionalTag describes a meal's own macro profile.
type NutritionalTag string

const (
	TagHighProtein NutritionalTag = "high_protein"
	TagLowCarb     NutritionalTag = "low_carb"
	TagLowFat      NutritionalTag = "low_fat"
	TagHighFiber   NutritionalTag = "high_fiber"
	TagLowCalorie  NutritionalTag = "low_calorie"
	TagBalanced    NutritionalTag = "balanced"
	TagLowSodium   NutritionalTag = "low_sodium"
	TagLowSugar    NutritionalTag = "low_sugar"
)

// AllNutritionalTags lists every valid nutritional tag.
var AllNutritionalTags = []NutritionalTag{
	TagHighProtein, TagLowCarb, TagLowFat, TagHighFiber,
	TagLowCalorie, TagBalanced, TagLowSodium, TagLowSugar,
}

// IsValidNutritionalTag checks if a string is a valid nutritional tag.
func IsValidNutritionalTag(s string) bool {
	return isValid(AllNutritionalTags, s)
}

// SuitableFor marks health-condition compatibility.
type SuitableFor string

const (
	SuitableDiabetes     SuitableFor = "diabetes_friendly"
	SuitableHeart        SuitableFor = "heart_healthy"
	SuitableHypertension SuitableFor = "hypertension_friendly"
	SuitablePCOS         SuitableFor = "pcos_friendly"
	SuitableThyroid      SuitableFor = "thyroid_friendly"
	SuitableKidney       SuitableFor = "kidney_friendly"
	SuitablePregnancy    SuitableFor = "pregnancy_safe"
	SuitableWeightLoss   SuitableFor = "weight_loss_friendly"
)

// AllSuitableFor lists every valid suitability tag.
var AllSuitableFor = []SuitableFor{
	SuitableDiabetes, SuitableHeart, SuitableHypertension, SuitablePCOS,
	SuitableThyroid, SuitableKidney, SuitablePregnancy, SuitableWeightLoss,
}

// IsValidSuitableFor checks if a string is a valid suitability tag.
func IsValidSuitableFor(s string) bool {
	return isValid(AllSuitableFor, s)
}

// DietaryTag marks hard dietary-restriction compliance.
type DietaryTag string

const (
	DietaryVegan       DietaryTag = "vegan"
	DietaryVegetarian  DietaryTag = "vegetarian"
	DietaryPescatarian DietaryTag = "pescatarian"
	DietaryGlutenFree  DietaryTag = "gluten_free"
	DietaryDairyFree   DietaryTag = "dairy_free"
	DietaryNutFree     DietaryTag = "nut_free"
	DietaryEggFree     DietaryTag = "egg_free"
	DietaryKeto        DietaryTag = "keto"
	DietaryPaleo       DietaryTag = "paleo"
	DietaryHalal       DietaryTag = "halal"
	DietaryKosher      DietaryTag = "kosher"
)

// AllDietaryTags lists every valid dietary tag.
var AllDietaryTags = []DietaryTag{
	DietaryVegan, DietaryVegetarian, DietaryPescatarian, DietaryGlutenFree,
	DietaryDairyFree, DietaryNutFree, DietaryEggFree, DietaryKeto,
	DietaryPaleo, DietaryHalal, DietaryKosher,
}

// IsValidDietaryTag checks if a string is a valid dietary tag.
func IsValidDietaryTag(s string) bool {
	return isValid(AllDietaryTags, s)
}

// Cuisine is a meal's single cuisine value.
type Cuisine string

const (
	CuisineIndian        Cuisine = "indian"
	CuisineMediterranean Cuisine = "mediterranean"
	CuisineAmerican      Cuisine = "american"
	CuisineMexican       Cuisine = "mexican"
	CuisineChinese       Cuisine = "chinese"
	CuisineItalian       Cuisine = "italian"
	CuisineJapanese      Cuisine = "japanese"
	CuisineThai          Cuisine = "thai"
	CuisineMiddleEastern Cuisine = "middle_eastern"
	CuisineContinental   Cuisine = "continental"
)

// AllCuisines lists every known cuisine.
var AllCuisines = []Cuisine{
	CuisineIndian, CuisineMediterranean, CuisineAmerican, CuisineMexican,
	CuisineChinese, CuisineItalian, CuisineJapanese, CuisineThai,
	CuisineMiddleEastern, CuisineContinental,
}

// IsValidCuisine checks if a string is a known cuisine.
func IsValidCuisine(s string) bool {
	return isValid(AllCuisines, s)
}

// Difficulty is preparation difficulty, also used for a user's cooking skill.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// AllDifficulties lists preparation difficulties from easiest.
var AllDifficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// IsValidDifficulty checks if a string is a valid difficulty.
func IsValidDifficulty(s string) bool {
	return isValid(AllDifficulties, s)
}

// BudgetTier is an ordered cost tier.
type BudgetTier string

const (
	BudgetLow    BudgetTier = "low"
	BudgetMedium BudgetTier = "medium"
	BudgetHigh   BudgetTier = "high"
)

// AllBudgetTiers lists budget tiers from cheapest.
var AllBudgetTiers = []BudgetTier{BudgetLow, BudgetMedium, BudgetHigh}

// IsValidBudgetTier checks if a string is a valid budget tier.
func IsValidBudgetTier(s string) bool {
	return isValid(AllBudgetTiers, s)
}

// Rank orders tiers from cheapest (0). Unknown tiers rank as medium.
func (b BudgetTier) Rank() int {
	switch b {
	case BudgetLow:
		return 0
	case BudgetHigh:
		return 2
	default:
		return 1
	}
}

// Preparation describes lifestyle constraints of cooking a meal.
type Preparation struct {
	Difficulty       Difficulty `json:"difficulty" yaml:"difficulty"`
	Minutes          int        `json:"minutes" yaml:"minutes"`
	MealPrepFriendly bool       `json:"meal_prep_friendly" yaml:"meal_prep_friendly"`
}

// StructuredIngredient is a FoodItem snapshot at a quantity. It keeps the
// reference values so it can be re-scaled without the source food.
type StructuredIngredient struct {
	FoodID            uuid.UUID       `json:"food_id" yaml:"food_id"`
	Name              string          `json:"name" yaml:"name"`
	Quantity          float64         `json:"quantity" yaml:"quantity"`
	Unit              Unit            `json:"unit" yaml:"unit"`
	Current           NutritionValues `json:"current" yaml:"current"`
	ReferenceQuantity float64         `json:"reference_quantity" yaml:"reference_quantity"`
	ReferenceUnit     Unit            `json:"reference_unit" yaml:"reference_unit"`
	Reference         NutritionValues `json:"reference" yaml:"reference"`
}

// Meal is a catalog or plan meal.
type Meal struct {
	ID                    uuid.UUID              `json:"id" yaml:"id"`
	Name                  string                 `json:"name" yaml:"name"`
	Timing                MealTiming             `json:"timing" yaml:"timing"`
	Calories              float64                `json:"calories" yaml:"calories"`
	Protein               float64                `json:"protein" yaml:"protein"`
	Carbs                 float64                `json:"carbs" yaml:"carbs"`
	Fats                  float64                `json:"fats" yaml:"fats"`
	Ingredients           []string               `json:"ingredients,omitempty" yaml:"ingredients,omitempty"`
	StructuredIngredients []StructuredIngredient `json:"structured_ingredients,omitempty" yaml:"structured_ingredients,omitempty"`
	NutritionalTags       []NutritionalTag       `json:"nutritional_tags,omitempty" yaml:"nutritional_tags,omitempty"`
	SuitableFor           []SuitableFor          `json:"suitable_for,omitempty" yaml:"suitable_for,omitempty"`
	DietaryTags           []DietaryTag           `json:"dietary_tags,omitempty" yaml:"dietary_tags,omitempty"`
	Cuisine               Cuisine                `json:"cuisine,omitempty" yaml:"cuisine,omitempty"`
	Preparation           Preparation            `json:"preparation" yaml:"preparation"`
	BudgetTier            BudgetTier             `json:"budget_tier,omitempty" yaml:"budget_tier,omitempty"`
}

// NewMeal creates a new Meal with generated UUID and the given aggregates.
func NewMeal(name string, timing MealTiming, calories, protein, carbs, fats float64) *Meal {
	return &Meal{
		ID:         uuid.New(),
		Name:       name,
		Timing:     timing,
		Calories:   calories,
		Protein:    protein,
		Carbs:      carbs,
		Fats:       fats,
		BudgetTier: BudgetMedium,
	}
}

// WithTags sets the dietary and suitability tags.
func (m *Meal) WithTags(dietary []DietaryTag, suitable []SuitableFor, nutritional []NutritionalTag) *Meal {
	m.DietaryTags = dietary
	m.SuitableFor = suitable
	m.NutritionalTags = nutritional
	return m
}

// WithCuisine sets the cuisine.
func (m *Meal) WithCuisine(c Cuisine) *Meal {
	m.Cuisine = c
	return m
}

// WithPreparation sets the preparation details.
func (m *Meal) WithPreparation(d Difficulty, minutes int, mealPrep bool) *Meal {
	m.Preparation = Preparation{Difficulty: d, Minutes: minutes, MealPrepFriendly: mealPrep}
	return m
}

// WithBudget sets the budget tier.
func (m *Meal) WithBudget(b BudgetTier) *Meal {
	m.BudgetTier = b
	return m
}

// WithIngredients sets the free-text ingredient list.
func (m *Meal) WithIngredients(ingredients ...string) *Meal {
	m.Ingredients = ingredients
	return m
}

// HasStructuredIngredients reports whether aggregates are derived from ingredients.
func (m *Meal) HasStructuredIngredients() bool {
	return len(m.StructuredIngredients) > 0
}

// IngredientNames returns free-text and structured ingredient names.
func (m *Meal) IngredientNames() []string {
	names := make([]string, 0, len(m.Ingredients)+len(m.StructuredIngredients))
	names = append(names, m.Ingredients...)
	for _, si := range m.StructuredIngredients {
		names = append(names, si.Name)
	}
	return names
}

// Clone returns a deep copy so callers can derive a new meal without
// touching shared catalog data.
func (m Meal) Clone() Meal {
	m.Ingredients = slices.Clone(m.Ingredients)
	m.StructuredIngredients = slices.Clone(m.StructuredIngredients)
	m.NutritionalTags = slices.Clone(m.NutritionalTags)
	m.SuitableFor = slices.Clone(m.SuitableFor)
	m.DietaryTags = slices.Clone(m.DietaryTags)
	return m
}
