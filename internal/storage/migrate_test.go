// ABOUTME: Tests for data migration between diet plan databases.
// ABOUTME: Covers full copies, counts, and directory checks.
package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/harperreed/dietplan/internal/models"
)

func TestMigrateData(t *testing.T) {
	src := setupTestDB(t)
	src.CreateFood(chicken())
	src.CreateMeal(tofuBowl())
	_, plan := seedPlan(t, src)
	src.AppendSubstitution(models.NewSubstitution(plan.ID, 2, 0, plan.DateOf(2), "Eggs", "Tofu scramble"))

	dst := setupTestDB(t)
	summary, err := MigrateData(src, dst)
	if err != nil {
		t.Fatalf("MigrateData failed: %v", err)
	}

	want := MigrateSummary{Foods: 1, Meals: 1, Profiles: 1, Plans: 1, Substitutions: 1}
	if *summary != want {
		t.Errorf("summary = %+v, want %+v", *summary, want)
	}

	got, err := dst.GetPlan(plan.ID.String())
	if err != nil {
		t.Fatalf("GetPlan from dst failed: %v", err)
	}
	if len(got.Days) != 2 || got.Slot(2, 0).Meal.Name != "Eggs" {
		t.Errorf("plan slots not migrated: %+v", got.Days)
	}
	subs, _ := dst.ListSubstitutions(plan.ID)
	if len(subs) != 1 || subs[0].ReplacementMeal != "Tofu scramble" {
		t.Errorf("history not migrated: %v", subs)
	}
}

func TestMigrateDataEmptySource(t *testing.T) {
	summary, err := MigrateData(setupTestDB(t), setupTestDB(t))
	if err != nil {
		t.Fatalf("MigrateData failed: %v", err)
	}
	if *summary != (MigrateSummary{}) {
		t.Errorf("expected empty summary, got %+v", *summary)
	}
}

func TestIsDirNonEmpty(t *testing.T) {
	dir := t.TempDir()

	got, err := IsDirNonEmpty(filepath.Join(dir, "missing"))
	if err != nil || got {
		t.Errorf("missing dir: got %v, %v", got, err)
	}

	got, _ = IsDirNonEmpty(dir)
	if got {
		t.Error("empty dir reported non-empty")
	}

	if err := os.WriteFile(filepath.Join(dir, "f"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	got, _ = IsDirNonEmpty(dir)
	if !got {
		t.Error("expected non-empty dir")
	}
}
