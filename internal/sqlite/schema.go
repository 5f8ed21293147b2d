package sqlite

import (
	"database/sql"
	"fmt"
)

// Schema DDL. Every collection shares the records table; fields are stored
// as a JSON document.
const (
	createRecords = `CREATE TABLE records (
    id TEXT PRIMARY KEY,
    collection TEXT NOT NULL,
    fields TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	idxRecordsCreated = `CREATE INDEX idx_records_created ON records(collection, created_at);`
	idxRecordsUpdated = `CREATE INDEX idx_records_updated ON records(collection, updated_at);`
)

// schemaDDL lists all statements in execution order.
var schemaDDL = []string{
	createRecords,
	idxRecordsCreated,
	idxRecordsUpdated,
}

// createSchema executes the DDL against a fresh database.
func createSchema(db *sql.DB) error {
	for _, stmt := range schemaDDL {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("executing %q: %w", stmt, err)
		}
	}
	return nil
}
