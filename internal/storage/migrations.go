package storage

import (
	"context"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the schema version Migrate brings a database to.
const ExpectedSchemaVersion = 2

// Migration is one schema step. Version is written to PRAGMA user_version
// in the same transaction as the statements.
type Migration struct {
	Description string
	Statements  []string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Preferences table",
		Statements: []string{`CREATE TABLE IF NOT EXISTS preferences (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL
		)`},
	},
	{
		Version:     2,
		Description: "Track preference update time",
		Statements:  []string{`ALTER TABLE preferences ADD COLUMN updated_at DATETIME`},
	},
}

// Migrate applies every migration newer than the database's user_version.
func (s *SQLitePreferences) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	current, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		if err := s.apply(ctx, m); err != nil {
			return err
		}
		slog.Debug("Applied migration", "version", m.Version, "description", m.Description)
	}

	final, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	if final != ExpectedSchemaVersion {
		return fmt.Errorf("preference schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, final)
	}
	return nil
}

func (s *SQLitePreferences) apply(ctx context.Context, m Migration) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration %d: %w", m.Version, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, stmt := range m.Statements {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", m.Version, err)
		}
	}
	// PRAGMA does not accept bound parameters.
	if _, err = tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", m.Version)); err != nil {
		return fmt.Errorf("failed to record schema version %d: %w", m.Version, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
	}
	return nil
}

// SchemaVersion reports the database's current schema version.
func (s *SQLitePreferences) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return v, nil
}
