// ABOUTME: Tests for FoodItem model and unit/category enums.
// ABOUTME: Validates constructor defaults, builder methods, and enum checks.
package models

import (
	"testing"
)

func TestNewFoodItem(t *testing.T) {
	f := NewFoodItem("Chicken breast", CategoryProtein, 100, UnitGram, NutritionValues{
		Calories: 165, Protein: 31, Fats: 3.6, Sodium: Float(74),
	})

	if f.ID.String() == "" {
		t.Error("expected UUID to be set")
	}
	if f.ReferenceQuantity != 100 || f.ReferenceUnit != UnitGram {
		t.Errorf("reference = %v %s, want 100 g", f.ReferenceQuantity, f.ReferenceUnit)
	}
	if f.Nutrition.Fiber != nil {
		t.Error("expected unset fiber to stay nil")
	}
	if f.Nutrition.Sodium == nil || *f.Nutrition.Sodium != 74 {
		t.Error("expected sodium 74")
	}
	if f.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestFoodItemBuilders(t *testing.T) {
	f := NewFoodItem("Greek yogurt", CategoryDairy, 170, UnitGram, NutritionValues{Calories: 100}).
		WithBrand("Fage").
		WithBarcode("0689544001737")

	if f.Brand == nil || *f.Brand != "Fage" {
		t.Errorf("Brand = %v, want Fage", f.Brand)
	}
	if f.Barcode == nil || *f.Barcode != "0689544001737" {
		t.Errorf("Barcode = %v", f.Barcode)
	}
}

func TestIsValidUnit(t *testing.T) {
	for _, u := range AllUnits {
		if !IsValidUnit(string(u)) {
			t.Errorf("IsValidUnit(%q) = false", u)
		}
	}
	for _, s := range []string{"", "kg", "G", "pinch"} {
		if IsValidUnit(s) {
			t.Errorf("IsValidUnit(%q) = true, want false", s)
		}
	}
}

func TestIsValidFoodCategory(t *testing.T) {
	if !IsValidFoodCategory("legume") {
		t.Error("expected legume to be valid")
	}
	if IsValidFoodCategory("candy") {
		t.Error("expected candy to be invalid")
	}
}
