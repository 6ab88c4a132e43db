package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"time"

	"github.com/google/uuid"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

func MigrateUp(db *sql.DB) error {
	return applyMigrations(db, ".up.sql")
}

func MigrateDown(db *sql.DB) error {
	return applyMigrations(db, ".down.sql")
}

func applyMigrations(db *sql.DB, suffix string) error {
	entries, err := fs.Glob(migrationFiles, "migrations/*"+suffix)
	if err != nil {
		return fmt.Errorf("glob migrations: %w", err)
	}
	sort.Strings(entries)
	for _, name := range entries {
		sqlBytes, readErr := migrationFiles.ReadFile(name)
		if readErr != nil {
			return fmt.Errorf("read migration %s: %w", name, readErr)
		}
		if _, execErr := db.Exec(string(sqlBytes)); execErr != nil {
			return fmt.Errorf("apply migration %s: %w", name, execErr)
		}
	}
	return nil
}

// Seed inserts the default category and priority catalogs. Rows are
// keyed by unique name, so calling it on every startup is safe.
func Seed(db *sql.DB) error {
	now := time.Now().UTC().Format(sqliteTimeLayout)

	defaultCategories := []struct {
		name  string
		color string
	}{
		{defaultCategoryName, "#3B82F6"},
		{"Work", "#EF4444"},
		{"Personal", "#10B981"},
		{"Study", "#F59E0B"},
		{"Family", "#8B5CF6"},
		{"Health", "#EC4899"},
		{"Shopping", "#14B8A6"},
		{"Travel", "#06B6D4"},
	}
	for _, cat := range defaultCategories {
		_, err := db.Exec(`INSERT OR IGNORE INTO categories (id, name, color, created_at) VALUES (?, ?, ?, ?)`,
			uuid.NewString(), cat.name, cat.color, now)
		if err != nil {
			return fmt.Errorf("seed category %s: %w", cat.name, err)
		}
	}

	defaultPriorities := []struct {
		name  string
		rank  int
		color string
	}{
		{"Low", 1, "#3B82F6"},
		{"Medium", 2, "#F59E0B"},
		{"High", 3, "#EF4444"},
	}
	for _, pri := range defaultPriorities {
		_, err := db.Exec(`INSERT OR IGNORE INTO priorities (id, name, rank, color) VALUES (?, ?, ?, ?)`,
			uuid.NewString(), pri.name, pri.rank, pri.color)
		if err != nil {
			return fmt.Errorf("seed priority %s: %w", pri.name, err)
		}
	}
	return nil
}
