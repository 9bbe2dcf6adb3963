package storage

import (
	"context"
	"fmt"

	"github.com/Veraticus/cardspend/internal/common"
	"github.com/Veraticus/cardspend/internal/service"
)

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendDiskv  = "diskv"
)

// Open returns a ready preference store for the named backend. For sqlite,
// path is the database file; for diskv, it is a directory.
func Open(ctx context.Context, backend, path string) (service.PreferenceStore, error) {
	switch backend {
	case BackendSQLite, "":
		prefs, err := NewSQLitePreferences(path)
		if err != nil {
			return nil, err
		}
		if err := prefs.Migrate(ctx); err != nil {
			_ = prefs.Close()
			return nil, fmt.Errorf("failed to migrate preferences: %w", err)
		}
		return prefs, nil
	case BackendDiskv:
		return NewDiskvPreferences(path)
	default:
		return nil, fmt.Errorf("%w: unknown state backend %q", common.ErrInvalidConfig, backend)
	}
}
