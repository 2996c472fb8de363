// ABOUTME: UserDietaryProfile model with biometrics and calculated targets.
// ABOUTME: Defines sex, activity level, goal, diet type, and health condition enums.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Sex selects the Mifflin-St Jeor offset.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// AllSexes lists the sexes used by the BMR formula.
var AllSexes = []Sex{SexMale, SexFemale}

// IsValidSex checks if a string is a valid sex.
func IsValidSex(s string) bool {
	return isValid(AllSexes, s)
}

// ActivityLevel selects the TDEE multiplier.
type ActivityLevel string

const (
	ActivitySedentary        ActivityLevel = "sedentary"
	ActivityLightlyActive    ActivityLevel = "lightly_active"
	ActivityModeratelyActive ActivityLevel = "moderately_active"
	ActivityVeryActive       ActivityLevel = "very_active"
	ActivityExtremelyActive  ActivityLevel = "extremely_active"
)

// AllActivityLevels lists activity levels from least active.
var AllActivityLevels = []ActivityLevel{
	ActivitySedentary, ActivityLightlyActive, ActivityModeratelyActive,
	ActivityVeryActive, ActivityExtremelyActive,
}

// IsValidActivityLevel checks if a string is a valid activity level.
func IsValidActivityLevel(s string) bool {
	return isValid(AllActivityLevels, s)
}

// Goal is the user's fitness goal.
type Goal string

const (
	GoalWeightLoss     Goal = "weight_loss"
	GoalWeightGain     Goal = "weight_gain"
	GoalMuscleBuilding Goal = "muscle_building"
	GoalMaintenance    Goal = "maintenance"
	GoalGeneralHealth  Goal = "general_health"
)

// AllGoals lists every valid goal.
var AllGoals = []Goal{
	GoalWeightLoss, GoalWeightGain, GoalMuscleBuilding, GoalMaintenance, GoalGeneralHealth,
}

// IsValidGoal checks if a string is a valid goal.
func IsValidGoal(s string) bool {
	return isValid(AllGoals, s)
}

// DietType is the user's chosen diet style.
type DietType string

const (
	DietBalanced      DietType = "balanced"
	DietKeto          DietType = "keto"
	DietVegetarian    DietType = "vegetarian"
	DietVegan         DietType = "vegan"
	DietPaleo         DietType = "paleo"
	DietMediterranean DietType = "mediterranean"
	DietLowCarb       DietType = "low_carb"
	DietHighProtein   DietType = "high_protein"
)

// AllDietTypes lists every valid diet type.
var AllDietTypes = []DietType{
	DietBalanced, DietKeto, DietVegetarian, DietVegan,
	DietPaleo, DietMediterranean, DietLowCarb, DietHighProtein,
}

// IsValidDietType checks if a string is a valid diet type.
func IsValidDietType(s string) bool {
	return isValid(AllDietTypes, s)
}

// HealthCondition is a declared condition that narrows meal suitability.
type HealthCondition string

const (
	ConditionDiabetes      HealthCondition = "diabetes"
	ConditionHypertension  HealthCondition = "hypertension"
	ConditionHeartDisease  HealthCondition = "heart_disease"
	ConditionPCOS          HealthCondition = "pcos"
	ConditionThyroid       HealthCondition = "thyroid"
	ConditionKidneyDisease HealthCondition = "kidney_disease"
	ConditionPregnancy     HealthCondition = "pregnancy"
)

// AllHealthConditions lists every valid health condition.
var AllHealthConditions = []HealthCondition{
	ConditionDiabetes, ConditionHypertension, ConditionHeartDisease, ConditionPCOS,
	ConditionThyroid, ConditionKidneyDisease, ConditionPregnancy,
}

// IsValidHealthCondition checks if a string is a valid health condition.
func IsValidHealthCondition(s string) bool {
	return isValid(AllHealthConditions, s)
}

// conditionSuitability maps each condition to the meal tag it requires.
var conditionSuitability = map[HealthCondition]SuitableFor{
	ConditionDiabetes:      SuitableDiabetes,
	ConditionHypertension:  SuitableHypertension,
	ConditionHeartDisease:  SuitableHeart,
	ConditionPCOS:          SuitablePCOS,
	ConditionThyroid:       SuitableThyroid,
	ConditionKidneyDisease: SuitableKidney,
	ConditionPregnancy:     SuitablePregnancy,
}

// RequiredSuitability returns the SuitableFor tag a meal needs for this condition.
func (c HealthCondition) RequiredSuitability() (SuitableFor, bool) {
	s, ok := conditionSuitability[c]
	return s, ok
}

// Biometrics are onboarding measurements. Any of them may be missing.
type Biometrics struct {
	WeightKg *float64 `json:"weight_kg,omitempty" yaml:"weight_kg,omitempty"`
	HeightCm *float64 `json:"height_cm,omitempty" yaml:"height_cm,omitempty"`
	Age      *int     `json:"age,omitempty" yaml:"age,omitempty"`
	Sex      Sex      `json:"sex,omitempty" yaml:"sex,omitempty"`
}

// MacroSplit is a percentage split of daily calories.
type MacroSplit struct {
	Protein int `json:"protein" yaml:"protein"`
	Carbs   int `json:"carbs" yaml:"carbs"`
	Fats    int `json:"fats" yaml:"fats"`
}

// Targets is the output of the target calculator.
type Targets struct {
	BMR                 int        `json:"bmr" yaml:"bmr"`
	TDEE                int        `json:"tdee" yaml:"tdee"`
	RecommendedCalories int        `json:"recommended_calories" yaml:"recommended_calories"`
	MacroSplit          MacroSplit `json:"macro_split" yaml:"macro_split"`
	UsedDefaultBMR      bool       `json:"used_default_bmr,omitempty" yaml:"used_default_bmr,omitempty"`
}

// UserDietaryProfile is a user's dietary snapshot used for matching.
type UserDietaryProfile struct {
	ID                  uuid.UUID         `json:"id" yaml:"id"`
	Name                string            `json:"name" yaml:"name"`
	Biometrics          Biometrics        `json:"biometrics" yaml:"biometrics"`
	ActivityLevel       ActivityLevel     `json:"activity_level" yaml:"activity_level"`
	Goal                Goal              `json:"goal" yaml:"goal"`
	DietType            DietType          `json:"diet_type" yaml:"diet_type"`
	HealthConditions    []HealthCondition `json:"health_conditions,omitempty" yaml:"health_conditions,omitempty"`
	DietaryRestrictions []DietaryTag      `json:"dietary_restrictions,omitempty" yaml:"dietary_restrictions,omitempty"`
	ExcludedIngredients []string          `json:"excluded_ingredients,omitempty" yaml:"excluded_ingredients,omitempty"`
	CuisinePreferences  []Cuisine         `json:"cuisine_preferences,omitempty" yaml:"cuisine_preferences,omitempty"`
	CookingTimeMinutes  int               `json:"cooking_time_minutes,omitempty" yaml:"cooking_time_minutes,omitempty"`
	CookingSkill        Difficulty        `json:"cooking_skill,omitempty" yaml:"cooking_skill,omitempty"`
	BudgetTier          BudgetTier        `json:"budget_tier,omitempty" yaml:"budget_tier,omitempty"`
	Targets             Targets           `json:"targets" yaml:"targets"`
	CreatedAt           time.Time         `json:"created_at" yaml:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at" yaml:"updated_at"`
}

// NewProfile creates a profile with balanced defaults.
func NewProfile(name string) *UserDietaryProfile {
	now := time.Now()
	return &UserDietaryProfile{
		ID:            uuid.New(),
		Name:          name,
		ActivityLevel: ActivityModeratelyActive,
		Goal:          GoalMaintenance,
		DietType:      DietBalanced,
		BudgetTier:    BudgetMedium,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// RequiredSuitability collects the SuitableFor tags implied by the profile's conditions.
func (p *UserDietaryProfile) RequiredSuitability() []SuitableFor {
	var out []SuitableFor
	seen := make(map[SuitableFor]bool)
	for _, c := range p.HealthConditions {
		if s, ok := c.RequiredSuitability(); ok && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// PrefersCuisine reports whether c is among the soft cuisine preferences.
func (p *UserDietaryProfile) PrefersCuisine(c Cuisine) bool {
	if c == "" {
		return false
	}
	for _, pc := range p.CuisinePreferences {
		if pc == c {
			return true
		}
	}
	return false
}
