// Package testing provides testing utilities and helpers for the aether project.
package testing

import (
	"path/filepath"
	"testing"

	"github.com/aetherwealth/aether/internal/database"
)

// NewTestDB creates a file-backed SQLite database in a per-test temporary
// directory and applies the embedded schema matching name ("wealth", "auth").
// Unknown names produce an empty database. The database is closed when the
// test finishes.
func NewTestDB(t *testing.T, name string) *database.DB {
	t.Helper()

	db, err := database.New(database.Config{
		Path:    filepath.Join(t.TempDir(), name+".db"),
		Profile: database.ProfileStandard,
		Name:    name,
	})
	if err != nil {
		t.Fatalf("Failed to create test database %s: %v", name, err)
	}

	if err := db.Migrate(); err != nil {
		_ = db.Close()
		t.Fatalf("Failed to migrate test database %s: %v", name, err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: Failed to close test database %s: %v", name, err)
		}
	})

	return db
}
