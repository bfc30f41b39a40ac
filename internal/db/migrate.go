package db

import (
	"fmt"
	"strings"
)

// migration is one versioned schema change. Migrations ship in the binary and
// are applied in version order inside a transaction.
type migration struct {
	Version int
	Name    string
	Stmts   []string
}

var migrations = []migration{
	{
		Version: 1,
		Name:    "create schedules",
		Stmts: []string{`
			CREATE TABLE IF NOT EXISTS schedules (
				id              TEXT PRIMARY KEY,
				client_name     TEXT NOT NULL,
				tests_to_be_run TEXT,
				from_date       DATETIME,
				to_date         DATETIME,
				days_of_week    TEXT,
				at_time         TEXT,
				last_run_time   DATETIME,
				is_active       INTEGER NOT NULL DEFAULT 1,
				created_at      DATETIME NOT NULL,
				updated_at      DATETIME NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_schedules_active ON schedules (is_active)`,
		},
	},
}

// Migrate applies all pending migrations.
func (db *DB) Migrate() error {
	if err := db.createSchemaTable(); err != nil {
		return fmt.Errorf("failed to create schema table: %w", err)
	}

	applied, err := db.appliedVersions()
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		if err := db.applyMigration(m); err != nil {
			return fmt.Errorf("failed to apply migration %d (%s): %w", m.Version, m.Name, err)
		}
	}

	return nil
}

// SchemaVersion returns the highest applied migration version.
// Returns 0 if no migrations have been applied.
func (db *DB) SchemaVersion() (int, error) {
	var version int
	query := "SELECT COALESCE(MAX(version), 0) FROM schema_migrations"

	err := db.QueryRow(query).Scan(&version)
	if err != nil {
		// If table doesn't exist, return 0
		if strings.Contains(err.Error(), "no such table") ||
			strings.Contains(err.Error(), "does not exist") {
			return 0, nil
		}
		return 0, err
	}

	return version, nil
}

func (db *DB) createSchemaTable() error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`
	_, err := db.Exec(query)
	return err
}

func (db *DB) appliedVersions() (map[int]bool, error) {
	rows, err := db.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		applied[v] = true
	}

	return applied, rows.Err()
}

func (db *DB) applyMigration(m migration) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range m.Stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}

	if _, err := tx.Exec("INSERT INTO schema_migrations (version, name) VALUES (?, ?)", m.Version, m.Name); err != nil {
		return err
	}

	return tx.Commit()
}
