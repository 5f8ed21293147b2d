// Package sqlite implements the SQLite storage backend for taskdesk.
// SQLite is the query engine; one JSONL file per collection in DataDir is the
// source of truth, loaded on Attach and rewritten after every mutation.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/golang/glog"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

// dbFileName is the SQLite file created inside DataDir.
const dbFileName = "taskdesk.db"

// Compile-time interface check.
var _ types.Datastore = (*Backend)(nil)

// Backend implements the Datastore interface using SQLite as the query engine
// and JSONL files as the source of truth.
type Backend struct {
	mu          sync.RWMutex
	attached    bool
	config      types.Config
	db          *sql.DB
	collections map[string]*collection
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{
		collections: make(map[string]*collection),
	}
}

// Collection returns the Collection for the specified name.
// Returns ErrCollectionNotFound if the name is not recognized.
// Returns ErrDatastoreDetached if the backend is not attached.
func (b *Backend) Collection(name string) (types.Collection, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrDatastoreDetached
	}

	c, ok := b.collections[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", types.ErrCollectionNotFound, name)
	}
	return c, nil
}

// Attach initializes the backend with the given configuration.
// Creates DataDir if it does not exist, rebuilds the SQLite database from
// the JSONL files, and creates collection accessors.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}
	config.DataDir = dataDir

	// The database is a cache of the JSONL files; start from a fresh file.
	dbPath := filepath.Join(dataDir, dbFileName)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return fmt.Errorf("create schema: %w", err)
	}

	if err := initJSONLFiles(dataDir); err != nil {
		db.Close()
		return fmt.Errorf("init JSONL: %w", err)
	}

	if err := loadAllJSONL(db, dataDir); err != nil {
		db.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}

	b.db = db
	b.config = config
	b.attached = true

	for _, name := range types.StandardCollectionNames {
		b.collections[name] = &collection{name: name, backend: b}
	}

	glog.V(1).Infof("datastore attached: data_dir=%s", dataDir)
	return nil
}

// Detach releases all resources held by the backend. After Detach, all
// collection operations return ErrDatastoreDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}

	b.attached = false
	b.collections = make(map[string]*collection)

	glog.V(1).Infof("datastore detached: data_dir=%s", b.config.DataDir)
	return nil
}

// newUUID generates a UUID v7 for record IDs. UUID v7 is time ordered,
// which keeps ID order consistent with creation order.
func newUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}
