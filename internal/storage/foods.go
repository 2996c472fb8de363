// ABOUTME: FoodItem CRUD operations for SQLite storage.
// ABOUTME: Nutrition values are stored as JSON so optional fields keep their nil/zero distinction.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/dietplan/internal/models"
)

const foodColumns = `id, name, brand, barcode, category, reference_quantity, reference_unit, nutrition, created_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// CreateFood stores a new food in the database.
func (d *DB) CreateFood(f *models.FoodItem) error {
	if err := d.upsertFood(f, false); err != nil {
		return fmt.Errorf("create food: %w", err)
	}
	return nil
}

func (d *DB) upsertFood(f *models.FoodItem, replace bool) error {
	nutrition, err := json.Marshal(f.Nutrition)
	if err != nil {
		return fmt.Errorf("encode nutrition: %w", err)
	}

	query := `INSERT INTO foods (` + foodColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if replace {
		query += ` ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, brand = excluded.brand, barcode = excluded.barcode,
			category = excluded.category, reference_quantity = excluded.reference_quantity,
			reference_unit = excluded.reference_unit, nutrition = excluded.nutrition`
	}
	_, err = d.db.Exec(query,
		f.ID.String(),
		f.Name,
		f.Brand,
		f.Barcode,
		string(f.Category),
		f.ReferenceQuantity,
		string(f.ReferenceUnit),
		string(nutrition),
		f.CreatedAt.Format(time.RFC3339),
	)
	return err
}

// GetFood retrieves a food by ID or ID prefix.
func (d *DB) GetFood(idOrPrefix string) (*models.FoodItem, error) {
	id, err := d.resolveID("foods", idOrPrefix)
	if err != nil {
		return nil, err
	}

	f, err := scanFood(d.db.QueryRow(`SELECT `+foodColumns+` FROM foods WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("get food: %w", err)
	}
	return f, nil
}

// FindFood looks a food up by ID prefix, then by case-insensitive name.
func (d *DB) FindFood(idOrName string) (*models.FoodItem, error) {
	f, err := d.GetFood(idOrName)
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	rows, err := d.db.Query(`SELECT `+foodColumns+` FROM foods WHERE LOWER(name) = LOWER(?)`, strings.TrimSpace(idOrName))
	if err != nil {
		return nil, fmt.Errorf("find food: %w", err)
	}
	defer rows.Close()

	foods, err := scanFoods(rows)
	if err != nil {
		return nil, err
	}
	switch len(foods) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, idOrName)
	case 1:
		return foods[0], nil
	default:
		return nil, fmt.Errorf("%w %s: matches multiple foods", ErrAmbiguousPrefix, idOrName)
	}
}

// ListFoods retrieves foods with optional filtering by category, sorted by name.
func (d *DB) ListFoods(category *models.FoodCategory, limit int) ([]*models.FoodItem, error) {
	query := `SELECT ` + foodColumns + ` FROM foods`
	var args []any

	if category != nil {
		query += ` WHERE category = ?`
		args = append(args, string(*category))
	}
	query += ` ORDER BY name COLLATE NOCASE, id`
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list foods: %w", err)
	}
	defer rows.Close()

	return scanFoods(rows)
}

// DeleteFood removes a food by ID or prefix. Meals keep their ingredient snapshots.
func (d *DB) DeleteFood(idOrPrefix string) error {
	if err := d.deleteByID("foods", idOrPrefix); err != nil {
		return fmt.Errorf("delete food: %w", err)
	}
	return nil
}

func scanFood(row rowScanner) (*models.FoodItem, error) {
	var f models.FoodItem
	var idStr, category, refUnit, nutrition, createdAt string
	var brand, barcode sql.NullString

	err := row.Scan(&idStr, &f.Name, &brand, &barcode, &category, &f.ReferenceQuantity, &refUnit, &nutrition, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan food: %w", err)
	}

	f.ID, _ = uuid.Parse(idStr)
	f.Category = models.FoodCategory(category)
	f.ReferenceUnit = models.Unit(refUnit)
	f.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if brand.Valid {
		f.Brand = &brand.String
	}
	if barcode.Valid {
		f.Barcode = &barcode.String
	}
	if err := json.Unmarshal([]byte(nutrition), &f.Nutrition); err != nil {
		return nil, fmt.Errorf("decode nutrition for %s: %w", f.Name, err)
	}

	return &f, nil
}

func scanFoods(rows *sql.Rows) ([]*models.FoodItem, error) {
	var foods []*models.FoodItem
	for rows.Next() {
		f, err := scanFood(rows)
		if err != nil {
			return nil, err
		}
		foods = append(foods, f)
	}
	return foods, rows.Err()
}
