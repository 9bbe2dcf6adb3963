// Package testutil provides shared fakes and fixtures for cardspend tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Veraticus/cardspend/internal/service"
	"github.com/Veraticus/cardspend/internal/storage"
)

// SetupPreferences opens a preference store on the given backend and closes
// it when the test ends. SQLite runs in memory; diskv uses a temp dir.
//
// Example:
//
//	prefs := testutil.SetupPreferences(t, storage.BackendSQLite)
//	state := filter.New(ctx, prefs)
func SetupPreferences(t *testing.T, backend string) service.PreferenceStore {
	t.Helper()

	path := storage.MemoryPath
	if backend == storage.BackendDiskv {
		path = filepath.Join(t.TempDir(), "state")
	}

	prefs, err := storage.Open(context.Background(), backend, path)
	if err != nil {
		t.Fatalf("failed to open %s preferences: %v", backend, err)
	}

	t.Cleanup(func() {
		if err := prefs.Close(); err != nil {
			t.Errorf("failed to close preferences: %v", err)
		}
	})

	return prefs
}
