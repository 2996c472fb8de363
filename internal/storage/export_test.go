// ABOUTME: Tests for export and import functionality.
// ABOUTME: Verifies JSON and YAML backups, catalog seed import, and Markdown plan rendering.
package storage

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/harperreed/dietplan/internal/models"
	"gopkg.in/yaml.v3"
)

func TestExportJSON(t *testing.T) {
	db := setupTestDB(t)
	db.CreateFood(chicken())
	db.CreateMeal(tofuBowl())
	_, plan := seedPlan(t, db)
	db.AppendSubstitution(models.NewSubstitution(plan.ID, 1, 0, plan.DateOf(1), "Oats", "Muesli"))

	data, err := db.ExportJSON()
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	var export ExportData
	if err := json.Unmarshal(data, &export); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}
	if export.Version != "1.0" || export.Tool != "dietplan" {
		t.Errorf("unexpected header %s/%s", export.Version, export.Tool)
	}
	if len(export.Foods) != 1 || len(export.Meals) != 1 || len(export.Profiles) != 1 {
		t.Errorf("unexpected counts foods=%d meals=%d profiles=%d", len(export.Foods), len(export.Meals), len(export.Profiles))
	}
	if len(export.Plans) != 1 || len(export.Plans[0].Days) != 2 {
		t.Fatalf("expected full plan in export, got %+v", export.Plans)
	}
	if len(export.Substitutions) != 1 {
		t.Errorf("expected 1 substitution, got %d", len(export.Substitutions))
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	src := setupTestDB(t)
	src.CreateFood(chicken())
	src.CreateMeal(tofuBowl())
	_, plan := seedPlan(t, src)
	src.AppendSubstitution(models.NewSubstitution(plan.ID, 1, 0, plan.DateOf(1), "Oats", "Muesli"))

	data, err := src.ExportJSON()
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	dst := setupTestDB(t)
	if err := dst.ImportJSON(data); err != nil {
		t.Fatalf("ImportJSON failed: %v", err)
	}
	// Importing twice updates in place.
	if err := dst.ImportJSON(data); err != nil {
		t.Fatalf("second ImportJSON failed: %v", err)
	}

	foods, _ := dst.ListFoods(nil, 0)
	meals, _ := dst.ListMeals(nil, 0)
	if len(foods) != 1 || len(meals) != 1 {
		t.Errorf("expected 1 food and 1 meal, got %d and %d", len(foods), len(meals))
	}
	got, err := dst.GetPlan(plan.ID.String())
	if err != nil {
		t.Fatalf("GetPlan after import failed: %v", err)
	}
	if len(got.Days) != 2 || got.Slot(1, 1).Meal.Name != "Tofu bowl" {
		t.Errorf("plan did not survive import: %+v", got.Days)
	}
	subs, _ := dst.ListSubstitutions(plan.ID)
	if len(subs) != 1 {
		t.Errorf("expected 1 substitution, got %d", len(subs))
	}
}

func TestExportYAML(t *testing.T) {
	db := setupTestDB(t)
	db.CreateMeal(tofuBowl())

	data, err := db.ExportYAML()
	if err != nil {
		t.Fatalf("ExportYAML failed: %v", err)
	}

	var export ExportData
	if err := yaml.Unmarshal(data, &export); err != nil {
		t.Fatalf("Failed to parse YAML: %v", err)
	}
	if len(export.Meals) != 1 || export.Meals[0].Cuisine != models.CuisineJapanese {
		t.Errorf("unexpected meals %+v", export.Meals)
	}
	if export.Meals[0].ID == uuid.Nil {
		t.Error("expected meal ID to survive YAML")
	}
}

func TestImportYAMLSeedAssignsIDs(t *testing.T) {
	db := setupTestDB(t)

	seed := `
version: "1.0"
tool: dietplan
foods:
  - name: Brown rice
    category: grain
    reference_quantity: 100
    reference_unit: g
    nutrition:
      calories: 123
      protein: 2.7
      carbs: 25.6
      fats: 1
      fiber: 1.6
meals:
  - name: Chana masala
    timing: lunch
    calories: 510
    protein: 19
    carbs: 70
    fats: 14
    cuisine: indian
    dietary_tags: [vegan, gluten_free]
    suitable_for: [diabetes_friendly]
    ingredients: [chickpeas, tomato, onion]
    preparation:
      difficulty: easy
      minutes: 35
`
	if err := db.ImportYAML([]byte(seed)); err != nil {
		t.Fatalf("ImportYAML failed: %v", err)
	}

	foods, _ := db.ListFoods(nil, 0)
	if len(foods) != 1 || foods[0].ID == uuid.Nil {
		t.Fatalf("expected seeded food with ID, got %+v", foods)
	}
	if foods[0].Nutrition.Fiber == nil || *foods[0].Nutrition.Fiber != 1.6 {
		t.Error("expected fiber 1.6")
	}
	if foods[0].Nutrition.Sodium != nil {
		t.Error("expected absent sodium to stay nil")
	}

	meals, _ := db.ListMeals(nil, 0)
	if len(meals) != 1 {
		t.Fatalf("expected 1 meal, got %d", len(meals))
	}
	m := meals[0]
	if m.ID == uuid.Nil || m.BudgetTier != models.BudgetMedium || m.Preparation.Minutes != 35 {
		t.Errorf("unexpected seeded meal %+v", m)
	}
	if len(m.DietaryTags) != 2 || m.SuitableFor[0] != models.SuitableDiabetes {
		t.Errorf("tags not seeded: %v %v", m.DietaryTags, m.SuitableFor)
	}
}

func TestImportRejectsInvalidRecords(t *testing.T) {
	tests := []struct {
		name string
		data *ExportData
		want string
	}{
		{"food without reference", &ExportData{Foods: []*models.FoodItem{{Name: "Salt", ReferenceUnit: models.UnitGram}}}, "reference quantity"},
		{"food with bad unit", &ExportData{Foods: []*models.FoodItem{{Name: "Salt", ReferenceQuantity: 1, ReferenceUnit: "pinch"}}}, "invalid unit"},
		{"meal with bad timing", &ExportData{Meals: []*models.Meal{{Name: "Brunch", Timing: "brunch"}}}, "invalid timing"},
		{"meal without name", &ExportData{Meals: []*models.Meal{{Timing: models.TimingLunch}}}, "name is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			err := db.ImportData(tt.data)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("ImportData error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestExportCatalog(t *testing.T) {
	db := setupTestDB(t)
	db.CreateFood(chicken())
	db.CreateMeal(tofuBowl())
	seedPlan(t, db)

	data, err := db.ExportCatalog("json")
	if err != nil {
		t.Fatalf("ExportCatalog failed: %v", err)
	}
	var export ExportData
	if err := json.Unmarshal(data, &export); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}
	if len(export.Foods) != 1 || len(export.Meals) != 1 {
		t.Errorf("unexpected catalog counts %d/%d", len(export.Foods), len(export.Meals))
	}
	if len(export.Profiles) != 0 || len(export.Plans) != 0 {
		t.Error("catalog export must not include profiles or plans")
	}

	if _, err := db.ExportCatalog("yaml"); err != nil {
		t.Errorf("yaml export failed: %v", err)
	}
	if _, err := db.ExportCatalog("csv"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestPlanMarkdown(t *testing.T) {
	db := setupTestDB(t)
	_, plan := seedPlan(t, db)
	subs := []*models.Substitution{models.NewSubstitution(plan.ID, 1, 0, plan.DateOf(1), "Oats", "Muesli")}

	md := PlanMarkdown(plan, subs)

	for _, want := range []string{
		"# week",
		"Starts: 2026-03-02",
		"## Day 1 (Mon Mar 2)",
		"## Day 2 (Tue Mar 3)",
		"| lunch | Tofu bowl | 520 | 28.0 g | 60.0 g | 18.0 g |",
		"Total: 870 kcal",
		"## Substitutions",
		"| 2026-03-02 | 1 | 0 | Oats | Muesli |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestParseExport(t *testing.T) {
	db := setupTestDB(t)
	db.CreateMeal(tofuBowl())

	for _, format := range []string{"json", "yaml", "yml"} {
		t.Run(format, func(t *testing.T) {
			data, err := db.ExportCatalog(format)
			if err != nil {
				t.Fatalf("ExportCatalog failed: %v", err)
			}
			parsed, err := ParseExport(data, format)
			if err != nil {
				t.Fatalf("ParseExport failed: %v", err)
			}
			if len(parsed.Meals) != 1 || parsed.Meals[0].Name != "Tofu bowl" {
				t.Errorf("unexpected meals %+v", parsed.Meals)
			}
		})
	}

	if _, err := ParseExport([]byte("{}"), "csv"); err == nil {
		t.Error("Expected error for unknown format")
	}
	if _, err := ParseExport([]byte("{not json"), "json"); err == nil {
		t.Error("Expected error for malformed JSON")
	}
}
