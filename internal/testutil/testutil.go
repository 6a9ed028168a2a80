// Package testutil provides shared test helpers for setting up vaults.
// Each helper builds per-test state owned by the caller; nothing is
// process-wide.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/raido/internal/storage"
)

// TestVault creates a temporary vault directory with a storage.Provider.
func TestVault(t *testing.T) (string, storage.Provider) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir, ".md")
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// Touch sets the modify time of a vault file, for sort-order tests.
func Touch(t *testing.T, root, rel string, mtime time.Time) {
	t.Helper()
	if err := os.Chtimes(filepath.Join(root, rel), mtime, mtime); err != nil {
		t.Fatal(err)
	}
}
