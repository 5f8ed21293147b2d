// Tests for the SQLite backend lifecycle.
package sqlite

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

func TestBackend_Attach(t *testing.T) {
	tmpDir := t.TempDir()

	b := NewBackend()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: tmpDir,
	}

	err := b.Attach(config)
	if err != nil {
		t.Fatalf("Attach failed: %v", err)
	}

	// Verify database file created
	dbPath := filepath.Join(tmpDir, dbFileName)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("%s not created", dbFileName)
	}

	// Verify double attach fails
	err = b.Attach(config)
	if err != types.ErrAlreadyAttached {
		t.Errorf("expected ErrAlreadyAttached, got %v", err)
	}

	b.Detach()
}

func TestBackend_AttachRejectsInvalidConfig(t *testing.T) {
	b := NewBackend()
	err := b.Attach(types.Config{Backend: "pocketbase", DataDir: t.TempDir()})
	if !errors.Is(err, types.ErrBackendUnknown) {
		t.Errorf("expected ErrBackendUnknown, got %v", err)
	}
}

func TestBackend_Detach(t *testing.T) {
	tmpDir := t.TempDir()

	b := NewBackend()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: tmpDir,
	}

	if err := b.Attach(config); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	coll, err := b.Collection(types.CollectionTasks)
	if err != nil {
		t.Fatalf("Collection failed: %v", err)
	}

	err = b.Detach()
	if err != nil {
		t.Fatalf("Detach failed: %v", err)
	}

	// Verify idempotent
	err = b.Detach()
	if err != nil {
		t.Errorf("second Detach should not error, got %v", err)
	}

	// Verify operations fail after detach
	_, err = b.Collection(types.CollectionTasks)
	if err != types.ErrDatastoreDetached {
		t.Errorf("expected ErrDatastoreDetached, got %v", err)
	}

	// A collection obtained before Detach fails too
	_, err = coll.List(t.Context(), types.SortCreatedDesc)
	if !errors.Is(err, types.ErrDatastoreDetached) || !errors.Is(err, types.ErrFetch) {
		t.Errorf("expected fetch failure wrapping ErrDatastoreDetached, got %v", err)
	}
}

func TestBackend_Collection(t *testing.T) {
	b := NewBackend()
	if err := b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	defer b.Detach()

	for _, name := range types.StandardCollectionNames {
		c, err := b.Collection(name)
		if err != nil {
			t.Errorf("Collection(%q) failed: %v", name, err)
		}
		if c == nil {
			t.Errorf("Collection(%q) returned nil", name)
		}
	}

	_, err := b.Collection("notes")
	if !errors.Is(err, types.ErrCollectionNotFound) {
		t.Errorf("expected ErrCollectionNotFound for unknown collection, got %v", err)
	}
}

func TestJSONLFilesCreatedOnAttach(t *testing.T) {
	tmpDir := t.TempDir()

	b := NewBackend()
	if err := b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: tmpDir}); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	defer b.Detach()

	for _, name := range types.StandardCollectionNames {
		info, err := os.Stat(jsonlPath(tmpDir, name))
		if err != nil {
			t.Errorf("expected %s.jsonl to be created: %v", name, err)
			continue
		}
		if info.Size() != 0 {
			t.Errorf("expected empty %s.jsonl, got %d bytes", name, info.Size())
		}
	}
}
