// ABOUTME: Meal catalog CRUD operations for SQLite storage.
// ABOUTME: Aggregates are columns; tag sets, preparation, and ingredient lists are JSON columns.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/dietplan/internal/models"
)

const mealColumns = `id, name, timing, calories, protein, carbs, fats, cuisine, budget_tier, preparation,
	ingredients, structured_ingredients, nutritional_tags, suitable_for, dietary_tags`

// mealRow is the JSON-encoded form of the list-valued meal fields. Nil
// slices encode as null so they decode back to nil.
type mealRow struct {
	preparation, ingredients, structured, nutritional, suitable, dietary string
}

func encodeMeal(m *models.Meal) (mealRow, error) {
	var r mealRow
	fields := []struct {
		dst *string
		v   any
	}{
		{&r.preparation, m.Preparation},
		{&r.ingredients, m.Ingredients},
		{&r.structured, m.StructuredIngredients},
		{&r.nutritional, m.NutritionalTags},
		{&r.suitable, m.SuitableFor},
		{&r.dietary, m.DietaryTags},
	}
	for _, f := range fields {
		b, err := json.Marshal(f.v)
		if err != nil {
			return r, fmt.Errorf("encode meal %s: %w", m.Name, err)
		}
		*f.dst = string(b)
	}
	return r, nil
}

// CreateMeal stores a new catalog meal.
func (d *DB) CreateMeal(m *models.Meal) error {
	if err := d.upsertMeal(m, false); err != nil {
		return fmt.Errorf("create meal: %w", err)
	}
	return nil
}

func (d *DB) upsertMeal(m *models.Meal, replace bool) error {
	r, err := encodeMeal(m)
	if err != nil {
		return err
	}

	query := `INSERT INTO meals (` + mealColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if replace {
		query += ` ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, timing = excluded.timing, calories = excluded.calories,
			protein = excluded.protein, carbs = excluded.carbs, fats = excluded.fats,
			cuisine = excluded.cuisine, budget_tier = excluded.budget_tier,
			preparation = excluded.preparation, ingredients = excluded.ingredients,
			structured_ingredients = excluded.structured_ingredients,
			nutritional_tags = excluded.nutritional_tags, suitable_for = excluded.suitable_for,
			dietary_tags = excluded.dietary_tags`
	}
	_, err = d.db.Exec(query,
		m.ID.String(), m.Name, string(m.Timing),
		m.Calories, m.Protein, m.Carbs, m.Fats,
		string(m.Cuisine), string(m.BudgetTier),
		r.preparation, r.ingredients, r.structured, r.nutritional, r.suitable, r.dietary,
	)
	return err
}

// GetMeal retrieves a catalog meal by ID or ID prefix.
func (d *DB) GetMeal(idOrPrefix string) (*models.Meal, error) {
	id, err := d.resolveID("meals", idOrPrefix)
	if err != nil {
		return nil, err
	}

	m, err := scanMeal(d.db.QueryRow(`SELECT `+mealColumns+` FROM meals WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("get meal: %w", err)
	}
	return m, nil
}

// ListMeals retrieves catalog meals with optional filtering by timing.
// Results are sorted by name so catalog order is stable across runs.
func (d *DB) ListMeals(timing *models.MealTiming, limit int) ([]*models.Meal, error) {
	query := `SELECT ` + mealColumns + ` FROM meals`
	var args []any

	if timing != nil {
		query += ` WHERE timing = ?`
		args = append(args, string(*timing))
	}
	query += ` ORDER BY name COLLATE NOCASE, id`
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	defer rows.Close()

	var meals []*models.Meal
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			return nil, err
		}
		meals = append(meals, m)
	}
	return meals, rows.Err()
}

// UpdateMeal overwrites an existing catalog meal.
func (d *DB) UpdateMeal(m *models.Meal) error {
	r, err := encodeMeal(m)
	if err != nil {
		return fmt.Errorf("update meal: %w", err)
	}

	result, err := d.db.Exec(`
		UPDATE meals SET name = ?, timing = ?, calories = ?, protein = ?, carbs = ?, fats = ?,
			cuisine = ?, budget_tier = ?, preparation = ?, ingredients = ?, structured_ingredients = ?,
			nutritional_tags = ?, suitable_for = ?, dietary_tags = ?
		WHERE id = ?`,
		m.Name, string(m.Timing), m.Calories, m.Protein, m.Carbs, m.Fats,
		string(m.Cuisine), string(m.BudgetTier),
		r.preparation, r.ingredients, r.structured, r.nutritional, r.suitable, r.dietary,
		m.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("update meal: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update meal: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update meal: %w: %s", ErrNotFound, m.ID)
	}
	return nil
}

// DeleteMeal removes a catalog meal. Plans keep their own snapshots.
func (d *DB) DeleteMeal(idOrPrefix string) error {
	if err := d.deleteByID("meals", idOrPrefix); err != nil {
		return fmt.Errorf("delete meal: %w", err)
	}
	return nil
}

func scanMeal(row rowScanner) (*models.Meal, error) {
	var m models.Meal
	var idStr, timing string
	var cuisine, budget sql.NullString
	var r mealRow

	err := row.Scan(&idStr, &m.Name, &timing, &m.Calories, &m.Protein, &m.Carbs, &m.Fats,
		&cuisine, &budget, &r.preparation,
		&r.ingredients, &r.structured, &r.nutritional, &r.suitable, &r.dietary)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan meal: %w", err)
	}

	m.ID, _ = uuid.Parse(idStr)
	m.Timing = models.MealTiming(timing)
	m.Cuisine = models.Cuisine(cuisine.String)
	m.BudgetTier = models.BudgetTier(budget.String)

	fields := []struct {
		src string
		dst any
	}{
		{r.preparation, &m.Preparation},
		{r.ingredients, &m.Ingredients},
		{r.structured, &m.StructuredIngredients},
		{r.nutritional, &m.NutritionalTags},
		{r.suitable, &m.SuitableFor},
		{r.dietary, &m.DietaryTags},
	}
	for _, f := range fields {
		if err := json.Unmarshal([]byte(f.src), f.dst); err != nil {
			return nil, fmt.Errorf("decode meal %s: %w", m.Name, err)
		}
	}

	return &m, nil
}
