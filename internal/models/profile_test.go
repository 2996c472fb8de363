// ABOUTME: Tests for UserDietaryProfile and health condition mapping.
// ABOUTME: Validates defaults, suitability derivation, and cuisine preference lookup.
package models

import (
	"testing"
)

func TestNewProfileDefaults(t *testing.T) {
	p := NewProfile("alex")

	if p.ActivityLevel != ActivityModeratelyActive {
		t.Errorf("ActivityLevel = %s", p.ActivityLevel)
	}
	if p.Goal != GoalMaintenance || p.DietType != DietBalanced || p.BudgetTier != BudgetMedium {
		t.Errorf("unexpected defaults %+v", p)
	}
	if p.Biometrics.WeightKg != nil || p.Biometrics.Age != nil {
		t.Error("biometrics should start empty")
	}
	if !p.CreatedAt.Equal(p.UpdatedAt) {
		t.Error("CreatedAt and UpdatedAt should match on creation")
	}
}

func TestEveryConditionMapsToSuitability(t *testing.T) {
	for _, c := range AllHealthConditions {
		s, ok := c.RequiredSuitability()
		if !ok {
			t.Errorf("condition %s has no suitability tag", c)
			continue
		}
		if !IsValidSuitableFor(string(s)) {
			t.Errorf("condition %s maps to unknown tag %s", c, s)
		}
	}
	if _, ok := HealthCondition("gout").RequiredSuitability(); ok {
		t.Error("unknown condition should not map")
	}
}

func TestProfileRequiredSuitability(t *testing.T) {
	p := NewProfile("sam")
	if got := p.RequiredSuitability(); len(got) != 0 {
		t.Errorf("no conditions should require nothing, got %v", got)
	}

	p.HealthConditions = []HealthCondition{ConditionDiabetes, ConditionHeartDisease, ConditionDiabetes}
	got := p.RequiredSuitability()
	want := []SuitableFor{SuitableDiabetes, SuitableHeart}
	if len(got) != len(want) {
		t.Fatalf("RequiredSuitability() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("RequiredSuitability()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestPrefersCuisine(t *testing.T) {
	p := NewProfile("kai")
	p.CuisinePreferences = []Cuisine{CuisineIndian, CuisineJapanese}

	if !p.PrefersCuisine(CuisineJapanese) {
		t.Error("expected japanese to be preferred")
	}
	if p.PrefersCuisine(CuisineMexican) {
		t.Error("mexican is not preferred")
	}
	if p.PrefersCuisine("") {
		t.Error("a meal without a cuisine matches no preference")
	}
}

func TestProfileEnumValidation(t *testing.T) {
	if !IsValidSex("female") || IsValidSex("other") {
		t.Error("sex validation")
	}
	if !IsValidActivityLevel("very_active") || IsValidActivityLevel("active") {
		t.Error("activity validation")
	}
	if !IsValidGoal("general_health") || !IsValidDietType("low_carb") || !IsValidHealthCondition("pcos") {
		t.Error("expected valid enums")
	}
}
