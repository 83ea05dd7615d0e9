package database

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
)

const migrationTable = "schema_migrations"

var (
	ErrMigrationOrder    = errors.New("migrations must have strictly increasing positive versions")
	ErrMigrationModified = errors.New("migration was modified after it was applied")
)

// Migration is one versioned schema change.
type Migration struct {
	Version     int
	Description string
	SQL         string
}

// Checksum identifies the SQL text that was applied.
func (m Migration) Checksum() string {
	sum := sha256.Sum256([]byte(m.SQL))
	return hex.EncodeToString(sum[:])
}

// AppliedMigration is a bookkeeping row from schema_migrations.
type AppliedMigration struct {
	Version     int
	Description string
	Checksum    string
	AppliedAt   time.Time
}

// ApplyMigrations runs every migration that is not yet recorded, each in its own transaction.
func ApplyMigrations(ctx context.Context, sqlDB *sql.DB, migrations []Migration) error {
	if sqlDB == nil {
		return fmt.Errorf("sql db is required")
	}
	if err := validateMigrations(migrations); err != nil {
		return err
	}

	createSQL := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
    version INTEGER PRIMARY KEY,
    description TEXT NOT NULL,
    checksum TEXT NOT NULL,
    applied_at DATETIME NOT NULL
);
`, migrationTable)
	if _, err := sqlDB.ExecContext(ctx, createSQL); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	applied, err := AppliedVersions(ctx, sqlDB)
	if err != nil {
		return err
	}
	recorded := make(map[int]AppliedMigration, len(applied))
	for _, a := range applied {
		recorded[a.Version] = a
	}

	for _, m := range migrations {
		if prev, ok := recorded[m.Version]; ok {
			if prev.Checksum != m.Checksum() {
				return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, ErrMigrationModified)
			}
			continue
		}
		if err := applyOne(ctx, sqlDB, m); err != nil {
			return err
		}
	}

	return nil
}

func applyOne(ctx context.Context, sqlDB *sql.DB, m Migration) error {
	tx, err := sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration %d: %w", m.Version, err)
	}

	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		if !IsAlreadyExistsError(err) {
			_ = tx.Rollback()
			return fmt.Errorf("exec migration %d (%s): %w", m.Version, m.Description, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf("INSERT INTO %s (version, description, checksum, applied_at) VALUES (?, ?, ?, ?)", migrationTable),
		m.Version, m.Description, m.Checksum(), time.Now().UTC(),
	); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("record migration %d: %w", m.Version, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %d: %w", m.Version, err)
	}
	return nil
}

// AppliedVersions lists recorded migrations in version order.
func AppliedVersions(ctx context.Context, sqlDB *sql.DB) ([]AppliedMigration, error) {
	rows, err := sqlDB.QueryContext(ctx,
		"SELECT version, description, checksum, applied_at FROM "+migrationTable+" ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("list applied migrations: %w", err)
	}
	defer rows.Close()

	var out []AppliedMigration
	for rows.Next() {
		var a AppliedMigration
		if err := rows.Scan(&a.Version, &a.Description, &a.Checksum, &a.AppliedAt); err != nil {
			return nil, fmt.Errorf("scan applied migration: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// IsAlreadyExistsError reports whether this error indicates idempotent DDL success.
func IsAlreadyExistsError(err error) bool {
	value := strings.ToLower(err.Error())
	return strings.Contains(value, "already exists") || strings.Contains(value, "duplicate column name")
}

func validateMigrations(migrations []Migration) error {
	last := 0
	for _, m := range migrations {
		if m.Version <= last {
			return fmt.Errorf("version %d after %d: %w", m.Version, last, ErrMigrationOrder)
		}
		if strings.TrimSpace(m.Description) == "" {
			return fmt.Errorf("migration %d has no description", m.Version)
		}
		last = m.Version
	}
	return nil
}
