// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Defines tables for foods, meals, profiles, plans, plan slots, and substitutions.
package storage

// initSchema creates or updates the database schema.
// Tag sets, ingredient lists, and meal snapshots are stored as JSON text.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS foods (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		brand TEXT,
		barcode TEXT,
		category TEXT NOT NULL,
		reference_quantity REAL NOT NULL,
		reference_unit TEXT NOT NULL,
		nutrition TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS meals (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		timing TEXT NOT NULL,
		calories REAL NOT NULL,
		protein REAL NOT NULL,
		carbs REAL NOT NULL,
		fats REAL NOT NULL,
		cuisine TEXT,
		budget_tier TEXT,
		preparation TEXT NOT NULL,
		ingredients TEXT NOT NULL,
		structured_ingredients TEXT NOT NULL,
		nutritional_tags TEXT NOT NULL,
		suitable_for TEXT NOT NULL,
		dietary_tags TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS profiles (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		data TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS plans (
		id TEXT PRIMARY KEY,
		profile_id TEXT NOT NULL,
		name TEXT NOT NULL,
		start_date DATETIME NOT NULL,
		created_at DATETIME NOT NULL,
		FOREIGN KEY (profile_id) REFERENCES profiles(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS plan_slots (
		plan_id TEXT NOT NULL,
		day INTEGER NOT NULL,
		slot_index INTEGER NOT NULL,
		meal TEXT NOT NULL,
		PRIMARY KEY (plan_id, day, slot_index),
		FOREIGN KEY (plan_id) REFERENCES plans(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS substitutions (
		id TEXT PRIMARY KEY,
		plan_id TEXT NOT NULL,
		day INTEGER NOT NULL,
		slot_index INTEGER NOT NULL,
		date DATETIME NOT NULL,
		original_meal TEXT NOT NULL,
		replacement_meal TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		FOREIGN KEY (plan_id) REFERENCES plans(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_foods_name ON foods(name);
	CREATE INDEX IF NOT EXISTS idx_meals_timing ON meals(timing);
	CREATE INDEX IF NOT EXISTS idx_plans_profile ON plans(profile_id, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_substitutions_plan ON substitutions(plan_id, created_at);
	`

	_, err := d.db.Exec(schema)
	return err
}
