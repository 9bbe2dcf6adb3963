// Package storage persists local client preferences.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Veraticus/cardspend/internal/common"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// SQLitePreferences implements service.PreferenceStore using SQLite.
type SQLitePreferences struct {
	db     *sql.DB
	dbPath string
}

// NewSQLitePreferences opens (creating if needed) the database at dbPath.
// Call Migrate before use.
func NewSQLitePreferences(dbPath string) (*SQLitePreferences, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	dsn := dbPath
	if dbPath != MemoryPath {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = dbPath + "?_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection keeps an in-memory database alive for the process.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLitePreferences{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// Get returns the value stored under key.
func (s *SQLitePreferences) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(ctx, key); err != nil {
		return nil, err
	}

	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM preferences WHERE key = ?`, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("preference %q: %w", key, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read preference %q: %w", common.ErrPersistence, key, err)
	}
	return value, nil
}

// Put stores value under key, replacing any previous value.
func (s *SQLitePreferences) Put(ctx context.Context, key string, value []byte) error {
	if err := validateKey(ctx, key); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preferences (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("%w: write preference %q: %w", common.ErrPersistence, key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *SQLitePreferences) Delete(ctx context.Context, key string) error {
	if err := validateKey(ctx, key); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM preferences WHERE key = ?`, key); err != nil {
		return fmt.Errorf("%w: delete preference %q: %w", common.ErrPersistence, key, err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLitePreferences) Close() error {
	return s.db.Close()
}
