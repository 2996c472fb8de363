// ABOUTME: Export and import functionality for diet plan data.
// ABOUTME: Supports JSON and YAML backups, catalog seed files, and Markdown plan rendering.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/dietplan/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportData represents the full export format. A catalog seed file is an
// ExportData with only foods and meals.
type ExportData struct {
	Version       string                       `json:"version" yaml:"version"`
	ExportedAt    time.Time                    `json:"exported_at" yaml:"exported_at"`
	Tool          string                       `json:"tool" yaml:"tool"`
	Foods         []*models.FoodItem           `json:"foods" yaml:"foods"`
	Meals         []*models.Meal               `json:"meals" yaml:"meals"`
	Profiles      []*models.UserDietaryProfile `json:"profiles,omitempty" yaml:"profiles,omitempty"`
	Plans         []*models.DietPlan           `json:"plans,omitempty" yaml:"plans,omitempty"`
	Substitutions []*models.Substitution       `json:"substitutions,omitempty" yaml:"substitutions,omitempty"`
}

func newExportData() *ExportData {
	return &ExportData{Version: "1.0", ExportedAt: time.Now(), Tool: "dietplan"}
}

// GetCatalogData retrieves foods and meals only.
func (d *DB) GetCatalogData() (*ExportData, error) {
	data := newExportData()

	var err error
	if data.Foods, err = d.ListFoods(nil, 0); err != nil {
		return nil, fmt.Errorf("list foods: %w", err)
	}
	if data.Meals, err = d.ListMeals(nil, 0); err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	return data, nil
}

// GetAllData retrieves all data for export.
func (d *DB) GetAllData() (*ExportData, error) {
	data, err := d.GetCatalogData()
	if err != nil {
		return nil, err
	}

	if data.Profiles, err = d.ListProfiles(); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	headers, err := d.ListPlans(nil, 0)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	for _, h := range headers {
		p, err := d.GetPlan(h.ID.String())
		if err != nil {
			return nil, fmt.Errorf("load plan %s: %w", h.ID, err)
		}
		data.Plans = append(data.Plans, p)

		subs, err := d.ListSubstitutions(p.ID)
		if err != nil {
			return nil, fmt.Errorf("list substitutions: %w", err)
		}
		data.Substitutions = append(data.Substitutions, subs...)
	}

	return data, nil
}

// ImportData imports data from an export or seed file. Existing records
// with the same ID are updated, so importing the same file twice is safe.
// Foods and meals without an ID get a fresh one.
func (d *DB) ImportData(data *ExportData) error {
	for _, f := range data.Foods {
		if err := validateFood(f); err != nil {
			return fmt.Errorf("import food: %w", err)
		}
		if f.ID == uuid.Nil {
			f.ID = uuid.New()
		}
		if f.CreatedAt.IsZero() {
			f.CreatedAt = time.Now()
		}
		if err := d.upsertFood(f, true); err != nil {
			return fmt.Errorf("import food %s: %w", f.Name, err)
		}
	}

	for _, m := range data.Meals {
		if err := validateMeal(m); err != nil {
			return fmt.Errorf("import meal: %w", err)
		}
		if m.ID == uuid.Nil {
			m.ID = uuid.New()
		}
		if m.BudgetTier == "" {
			m.BudgetTier = models.BudgetMedium
		}
		if err := d.upsertMeal(m, true); err != nil {
			return fmt.Errorf("import meal %s: %w", m.Name, err)
		}
	}

	for _, p := range data.Profiles {
		if err := d.SaveProfile(p); err != nil {
			return fmt.Errorf("import profile %s: %w", p.Name, err)
		}
	}

	if len(data.Plans) > 0 {
		if err := d.importPlans(data.Plans); err != nil {
			return err
		}
	}

	for _, s := range data.Substitutions {
		if err := d.AppendSubstitution(s); err != nil {
			return fmt.Errorf("import substitution: %w", err)
		}
	}

	return nil
}

func (d *DB) importPlans(plans []*models.DietPlan) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("import plans: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, p := range plans {
		if err := insertPlan(tx, p, true); err != nil {
			return fmt.Errorf("import plan %s: %w", p.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("import plans: %w", err)
	}
	return nil
}

func validateFood(f *models.FoodItem) error {
	if strings.TrimSpace(f.Name) == "" {
		return errors.New("food name is required")
	}
	if f.ReferenceQuantity <= 0 {
		return fmt.Errorf("food %s: reference quantity must be positive", f.Name)
	}
	if !models.IsValidUnit(string(f.ReferenceUnit)) {
		return fmt.Errorf("food %s: invalid unit %q", f.Name, f.ReferenceUnit)
	}
	return nil
}

func validateMeal(m *models.Meal) error {
	if strings.TrimSpace(m.Name) == "" {
		return errors.New("meal name is required")
	}
	if !models.IsValidMealTiming(string(m.Timing)) {
		return fmt.Errorf("meal %s: invalid timing %q", m.Name, m.Timing)
	}
	return nil
}

// ExportJSON exports all data as JSON.
func (d *DB) ExportJSON() ([]byte, error) {
	data, err := d.GetAllData()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML exports all data as YAML.
func (d *DB) ExportYAML() ([]byte, error) {
	data, err := d.GetAllData()
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(data)
}

// ExportCatalog exports foods and meals in format "json" or "yaml".
func (d *DB) ExportCatalog(format string) ([]byte, error) {
	data, err := d.GetCatalogData()
	if err != nil {
		return nil, err
	}
	switch format {
	case "json":
		return json.MarshalIndent(data, "", "  ")
	case "yaml", "yml":
		return yaml.Marshal(data)
	default:
		return nil, fmt.Errorf("unknown format: %s (use json or yaml)", format)
	}
}

// ParseExport decodes an export or catalog file in format "json" or "yaml".
func ParseExport(data []byte, format string) (*ExportData, error) {
	var exportData ExportData
	switch format {
	case "json":
		if err := json.Unmarshal(data, &exportData); err != nil {
			return nil, fmt.Errorf("unmarshal JSON: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &exportData); err != nil {
			return nil, fmt.Errorf("unmarshal YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown format: %s (use json or yaml)", format)
	}
	return &exportData, nil
}

// ImportJSON imports data from JSON bytes.
func (d *DB) ImportJSON(data []byte) error {
	exportData, err := ParseExport(data, "json")
	if err != nil {
		return err
	}
	return d.ImportData(exportData)
}

// ImportYAML imports data from YAML bytes.
func (d *DB) ImportYAML(data []byte) error {
	exportData, err := ParseExport(data, "yaml")
	if err != nil {
		return err
	}
	return d.ImportData(exportData)
}

// PlanMarkdown renders a plan and its swap history as Markdown.
func PlanMarkdown(p *models.DietPlan, subs []*models.Substitution) string {
	var sb strings.Builder

	title := p.Name
	if title == "" {
		title = "Diet Plan"
	}
	sb.WriteString(fmt.Sprintf("# %s\n\n", title))
	sb.WriteString(fmt.Sprintf("Starts: %s\n\n", p.StartDate.Format("2006-01-02")))

	for _, day := range p.Days {
		var total float64
		sb.WriteString(fmt.Sprintf("## Day %d (%s)\n\n", day.Day, p.DateOf(day.Day).Format("Mon Jan 2")))
		sb.WriteString("| Slot | Meal | kcal | Protein | Carbs | Fats |\n")
		sb.WriteString("|------|------|------|---------|-------|------|\n")
		for _, slot := range day.Slots {
			m := slot.Meal
			total += m.Calories
			sb.WriteString(fmt.Sprintf("| %s | %s | %.0f | %.1f g | %.1f g | %.1f g |\n",
				m.Timing, m.Name, m.Calories, m.Protein, m.Carbs, m.Fats))
		}
		sb.WriteString(fmt.Sprintf("\nTotal: %.0f kcal\n\n", total))
	}

	if len(subs) > 0 {
		sb.WriteString("## Substitutions\n\n")
		sb.WriteString("| Date | Day | Slot | Original | Replacement |\n")
		sb.WriteString("|------|-----|------|----------|-------------|\n")
		for _, s := range subs {
			sb.WriteString(fmt.Sprintf("| %s | %d | %d | %s | %s |\n",
				s.Date.Format("2006-01-02"), s.Day, s.SlotIndex, s.OriginalMeal, s.ReplacementMeal))
		}
	}

	return sb.String()
}
