package testutil

import (
	"path/filepath"
	"testing"

	"github.com/medrush/opsconsole/internal/snapshot"
)

// NewTestStore creates a temporary snapshot database with migrations applied.
func NewTestStore(t *testing.T) *snapshot.Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "snapshots.db")
	store, err := snapshot.Open(dbPath)
	if err != nil {
		t.Fatalf("create test snapshot store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}
