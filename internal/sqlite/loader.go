package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/golang/glog"

	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

// loadAllJSONL reads each collection's JSONL file from dataDir and inserts
// the records into SQLite. Loading is transactional: all collections load or
// the database stays empty. Malformed records and duplicate IDs are skipped.
// Unknown keys in a line are ignored.
func loadAllJSONL(db *sql.DB, dataDir string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		"INSERT INTO records (id, collection, fields, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, name := range types.StandardCollectionNames {
		path := jsonlPath(dataDir, name)
		lines, err := readJSONL(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		loaded := 0
		for _, line := range lines {
			var rj recordJSON
			if err := json.Unmarshal(line, &rj); err != nil || rj.ID == "" {
				glog.Warningf("skipping invalid record in %s", path)
				continue
			}
			rec, err := rj.toRecord(name)
			if err != nil {
				glog.Warningf("skipping record %s in %s: %v", rj.ID, path, err)
				continue
			}
			fields, err := json.Marshal(rec.Fields)
			if err != nil {
				glog.Warningf("skipping record %s in %s: %v", rj.ID, path, err)
				continue
			}
			if _, err := stmt.Exec(rec.ID, name, string(fields), formatTime(rec.Created), formatTime(rec.Updated)); err != nil {
				glog.Warningf("skipping record %s in %s: %v", rj.ID, path, err)
				continue
			}
			loaded++
		}
		glog.V(1).Infof("loaded %d records into %s", loaded, name)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}
