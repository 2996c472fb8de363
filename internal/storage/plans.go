// ABOUTME: DietPlan and Substitution persistence for SQLite storage.
// ABOUTME: Slot meals are JSON snapshots; swaps update a slot and append history in one transaction.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/dietplan/internal/models"
)

// CreatePlan stores a plan and all of its slots.
func (d *DB) CreatePlan(p *models.DietPlan) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("create plan: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := insertPlan(tx, p, false); err != nil {
		return fmt.Errorf("create plan: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("create plan: %w", err)
	}
	return nil
}

// insertPlan writes the plan header and its slots. With replace set, an
// existing plan keeps its history and has its slots rewritten.
func insertPlan(tx *sql.Tx, p *models.DietPlan, replace bool) error {
	query := `INSERT INTO plans (id, profile_id, name, start_date, created_at) VALUES (?, ?, ?, ?, ?)`
	if replace {
		query += ` ON CONFLICT(id) DO UPDATE SET
			profile_id = excluded.profile_id, name = excluded.name, start_date = excluded.start_date`
	}
	_, err := tx.Exec(query,
		p.ID.String(),
		p.ProfileID.String(),
		p.Name,
		p.StartDate.Format(time.RFC3339),
		p.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return err
	}

	if replace {
		if _, err := tx.Exec(`DELETE FROM plan_slots WHERE plan_id = ?`, p.ID.String()); err != nil {
			return err
		}
	}

	stmt, err := tx.Prepare(`INSERT INTO plan_slots (plan_id, day, slot_index, meal) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, day := range p.Days {
		for _, slot := range day.Slots {
			meal, err := json.Marshal(slot.Meal)
			if err != nil {
				return fmt.Errorf("encode slot meal: %w", err)
			}
			if _, err := stmt.Exec(p.ID.String(), day.Day, slot.Index, string(meal)); err != nil {
				return fmt.Errorf("insert slot day %d slot %d: %w", day.Day, slot.Index, err)
			}
		}
	}
	return nil
}

// GetPlan retrieves a plan with its slots by ID or ID prefix.
func (d *DB) GetPlan(idOrPrefix string) (*models.DietPlan, error) {
	id, err := d.resolveID("plans", idOrPrefix)
	if err != nil {
		return nil, err
	}

	p, err := scanPlan(d.db.QueryRow(`SELECT id, profile_id, name, start_date, created_at FROM plans WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("get plan: %w", err)
	}
	if err := d.loadSlots(p); err != nil {
		return nil, fmt.Errorf("get plan: %w", err)
	}
	return p, nil
}

// ListPlans returns plan headers (without slots), most recent first.
func (d *DB) ListPlans(profileID *uuid.UUID, limit int) ([]*models.DietPlan, error) {
	query := `SELECT id, profile_id, name, start_date, created_at FROM plans`
	var args []any

	if profileID != nil {
		query += ` WHERE profile_id = ?`
		args = append(args, profileID.String())
	}
	query += ` ORDER BY created_at DESC, rowid DESC`
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	var plans []*models.DietPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

// ReplaceSlotMeal overwrites the meal snapshot in one plan slot.
func (d *DB) ReplaceSlotMeal(planID uuid.UUID, day, slot int, meal models.Meal) error {
	if err := replaceSlot(d.db, planID, day, slot, meal); err != nil {
		return fmt.Errorf("replace slot meal: %w", err)
	}
	return nil
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func replaceSlot(ex execer, planID uuid.UUID, day, slot int, meal models.Meal) error {
	data, err := json.Marshal(meal)
	if err != nil {
		return fmt.Errorf("encode slot meal: %w", err)
	}

	result, err := ex.Exec(`UPDATE plan_slots SET meal = ? WHERE plan_id = ? AND day = ? AND slot_index = ?`,
		string(data), planID.String(), day, slot)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: plan %s day %d slot %d", ErrNotFound, planID.String()[:8], day, slot)
	}
	return nil
}

// DeletePlan removes a plan with its slots and substitution history.
func (d *DB) DeletePlan(idOrPrefix string) error {
	if err := d.deleteByID("plans", idOrPrefix); err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	return nil
}

// AppendSubstitution adds an audit record to a plan's history.
func (d *DB) AppendSubstitution(s *models.Substitution) error {
	if err := insertSubstitution(d.db, s); err != nil {
		return fmt.Errorf("append substitution: %w", err)
	}
	return nil
}

// RecordSwap replaces a slot meal and appends its audit record atomically.
func (d *DB) RecordSwap(s *models.Substitution, replacement models.Meal) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("record swap: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := replaceSlot(tx, s.PlanID, s.Day, s.SlotIndex, replacement); err != nil {
		return fmt.Errorf("record swap: %w", err)
	}
	if err := insertSubstitution(tx, s); err != nil {
		return fmt.Errorf("record swap: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record swap: %w", err)
	}
	return nil
}

func insertSubstitution(ex execer, s *models.Substitution) error {
	_, err := ex.Exec(`
		INSERT INTO substitutions (id, plan_id, day, slot_index, date, original_meal, replacement_meal, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING`,
		s.ID.String(),
		s.PlanID.String(),
		s.Day,
		s.SlotIndex,
		s.Date.Format(time.RFC3339),
		s.OriginalMeal,
		s.ReplacementMeal,
		s.CreatedAt.Format(time.RFC3339),
	)
	return err
}

// ListSubstitutions returns a plan's swap history, oldest first.
func (d *DB) ListSubstitutions(planID uuid.UUID) ([]*models.Substitution, error) {
	rows, err := d.db.Query(`
		SELECT id, plan_id, day, slot_index, date, original_meal, replacement_meal, created_at
		FROM substitutions
		WHERE plan_id = ?
		ORDER BY created_at, rowid`, planID.String())
	if err != nil {
		return nil, fmt.Errorf("list substitutions: %w", err)
	}
	defer rows.Close()

	var subs []*models.Substitution
	for rows.Next() {
		var s models.Substitution
		var idStr, planStr, date, createdAt string
		if err := rows.Scan(&idStr, &planStr, &s.Day, &s.SlotIndex, &date, &s.OriginalMeal, &s.ReplacementMeal, &createdAt); err != nil {
			return nil, fmt.Errorf("scan substitution: %w", err)
		}
		s.ID, _ = uuid.Parse(idStr)
		s.PlanID, _ = uuid.Parse(planStr)
		s.Date, _ = time.Parse(time.RFC3339, date)
		s.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		subs = append(subs, &s)
	}
	return subs, rows.Err()
}

func scanPlan(row rowScanner) (*models.DietPlan, error) {
	var p models.DietPlan
	var idStr, profileStr, start, createdAt string

	if err := row.Scan(&idStr, &profileStr, &p.Name, &start, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan plan: %w", err)
	}

	p.ID, _ = uuid.Parse(idStr)
	p.ProfileID, _ = uuid.Parse(profileStr)
	p.StartDate, _ = time.Parse(time.RFC3339, start)
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &p, nil
}

func (d *DB) loadSlots(p *models.DietPlan) error {
	rows, err := d.db.Query(`SELECT day, slot_index, meal FROM plan_slots WHERE plan_id = ? ORDER BY day, slot_index`, p.ID.String())
	if err != nil {
		return fmt.Errorf("load slots: %w", err)
	}
	defer rows.Close()

	p.Days = nil
	for rows.Next() {
		var day, index int
		var data string
		if err := rows.Scan(&day, &index, &data); err != nil {
			return fmt.Errorf("scan slot: %w", err)
		}
		var meal models.Meal
		if err := json.Unmarshal([]byte(data), &meal); err != nil {
			return fmt.Errorf("decode slot day %d slot %d: %w", day, index, err)
		}
		if n := len(p.Days); n == 0 || p.Days[n-1].Day != day {
			p.Days = append(p.Days, models.PlanDay{Day: day})
		}
		last := &p.Days[len(p.Days)-1]
		last.Slots = append(last.Slots, models.PlanSlot{Index: index, Meal: meal})
	}
	return rows.Err()
}
