// ABOUTME: UserDietaryProfile persistence for SQLite storage.
// ABOUTME: Profiles are stored as a JSON document keyed by ID with a unique name.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/dietplan/internal/models"
)

// SaveProfile inserts or updates a profile.
func (d *DB) SaveProfile(p *models.UserDietaryProfile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	_, err = d.db.Exec(`
		INSERT INTO profiles (id, name, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, data = excluded.data, updated_at = excluded.updated_at`,
		p.ID.String(),
		p.Name,
		string(data),
		p.CreatedAt.Format(time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// GetProfile retrieves a profile by exact name (case-insensitive), then by ID or prefix.
func (d *DB) GetProfile(idOrName string) (*models.UserDietaryProfile, error) {
	p, err := scanProfile(d.db.QueryRow(`SELECT data FROM profiles WHERE LOWER(name) = LOWER(?)`, strings.TrimSpace(idOrName)))
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	id, err := d.resolveID("profiles", idOrName)
	if err != nil {
		return nil, err
	}
	p, err = scanProfile(d.db.QueryRow(`SELECT data FROM profiles WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// ListProfiles returns every profile sorted by name.
func (d *DB) ListProfiles() ([]*models.UserDietaryProfile, error) {
	rows, err := d.db.Query(`SELECT data FROM profiles ORDER BY name COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*models.UserDietaryProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// DeleteProfile removes a profile along with its plans and their history.
func (d *DB) DeleteProfile(idOrPrefix string) error {
	if err := d.deleteByID("profiles", idOrPrefix); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}

func scanProfile(row rowScanner) (*models.UserDietaryProfile, error) {
	var data string
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan profile: %w", err)
	}

	var p models.UserDietaryProfile
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &p, nil
}
