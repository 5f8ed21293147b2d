// Package sqlite is the public entry point to the SQLite datastore.
package sqlite

import (
	"github.com/mesh-intelligence/taskdesk/internal/sqlite"
	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

// NewBackend returns a detached SQLite datastore. Attach it with a Config
// whose Backend is types.BackendSQLite:
//
//	store := sqlite.NewBackend()
//	err := store.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: dir,
//	})
//	defer store.Detach()
func NewBackend() types.Datastore {
	return sqlite.NewBackend()
}
