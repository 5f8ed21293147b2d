package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang/glog"

	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

// Compile-time interface check: collection must implement Collection.
var _ types.Collection = (*collection)(nil)

// collection implements types.Collection for one named collection. Each
// mutation runs in a SQLite transaction and then rewrites the collection's
// JSONL file.
type collection struct {
	name    string
	backend *Backend
}

// sortColumns maps the sort keys accepted by List to SQL columns.
var sortColumns = map[string]string{
	types.SortCreated: "created_at",
	types.SortUpdated: "updated_at",
}

// orderBy translates a sort key into an ORDER BY clause. An empty key sorts
// by creation time, newest first. The id tie-break keeps the order total.
func orderBy(sort string) (string, error) {
	if sort == "" {
		sort = types.SortCreatedDesc
	}
	dir := "ASC"
	key := sort
	if strings.HasPrefix(sort, "-") {
		dir = "DESC"
		key = sort[1:]
	}
	col, ok := sortColumns[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", types.ErrInvalidSort, sort)
	}
	return fmt.Sprintf(" ORDER BY %s %s, id %s", col, dir, dir), nil
}

// List returns every record in the collection in sort order.
// Errors wrap types.ErrFetch.
func (c *collection) List(ctx context.Context, sort string) ([]types.Record, error) {
	c.backend.mu.RLock()
	defer c.backend.mu.RUnlock()

	if !c.backend.attached {
		return nil, fetchErr(c.name, types.ErrDatastoreDetached)
	}

	order, err := orderBy(sort)
	if err != nil {
		return nil, fetchErr(c.name, err)
	}

	rows, err := c.backend.db.QueryContext(ctx,
		"SELECT id, fields, created_at, updated_at FROM records WHERE collection = ?"+order,
		c.name,
	)
	if err != nil {
		return nil, fetchErr(c.name, err)
	}
	defer rows.Close()

	records := []types.Record{}
	for rows.Next() {
		rec, err := c.scan(rows)
		if err != nil {
			return nil, fetchErr(c.name, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fetchErr(c.name, err)
	}
	return records, nil
}

// Create validates payload, assigns a UUID v7 and timestamps, and stores the
// record. Errors wrap types.ErrValidation or types.ErrTransport.
func (c *collection) Create(ctx context.Context, payload types.Payload) (types.Record, error) {
	c.backend.mu.Lock()
	defer c.backend.mu.Unlock()

	if !c.backend.attached {
		return types.Record{}, transportErr("create", c.name, types.ErrDatastoreDetached)
	}

	fields, err := validateFields(c.name, payload)
	if err != nil {
		return types.Record{}, err
	}

	now := time.Now().UTC()
	rec := types.Record{
		ID:         newUUID(),
		Collection: c.name,
		Created:    now,
		Updated:    now,
		Fields:     fields,
	}

	err = c.inTx(ctx, func(tx *sql.Tx) error {
		doc, err := json.Marshal(rec.Fields)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO records (id, collection, fields, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
			rec.ID, c.name, string(doc), formatTime(rec.Created), formatTime(rec.Updated),
		)
		return err
	})
	if err != nil {
		return types.Record{}, transportErr("create", c.name, err)
	}

	glog.V(1).Infof("created %s/%s", c.name, rec.ID)
	return rec, nil
}

// Update merges payload into the stored fields of record id and stores the
// result. The author field is immutable after creation; a payload value for
// it is ignored. Errors wrap types.ErrValidation or types.ErrTransport; an
// unknown id also wraps types.ErrNotFound.
func (c *collection) Update(ctx context.Context, id string, payload types.Payload) (types.Record, error) {
	if id == "" {
		return types.Record{}, transportErr("update", c.name, types.ErrInvalidID)
	}

	c.backend.mu.Lock()
	defer c.backend.mu.Unlock()

	if !c.backend.attached {
		return types.Record{}, transportErr("update", c.name, types.ErrDatastoreDetached)
	}

	existing, err := c.get(ctx, id)
	if err != nil {
		return types.Record{}, transportErr("update", c.name, err)
	}

	merged := existing.Clone()
	for k, v := range payload {
		if k == types.FieldAuthor {
			continue
		}
		merged.Fields[k] = v
	}

	fields, err := validateFields(c.name, merged.Fields)
	if err != nil {
		return types.Record{}, err
	}
	merged.Fields = fields
	merged.Updated = time.Now().UTC()

	err = c.inTx(ctx, func(tx *sql.Tx) error {
		doc, err := json.Marshal(merged.Fields)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			"UPDATE records SET fields = ?, updated_at = ? WHERE id = ? AND collection = ?",
			string(doc), formatTime(merged.Updated), id, c.name,
		)
		return err
	})
	if err != nil {
		return types.Record{}, transportErr("update", c.name, err)
	}

	glog.V(1).Infof("updated %s/%s", c.name, id)
	return merged, nil
}

// Delete removes record id. Errors wrap types.ErrTransport; an unknown id
// also wraps types.ErrNotFound.
func (c *collection) Delete(ctx context.Context, id string) error {
	if id == "" {
		return transportErr("delete", c.name, types.ErrInvalidID)
	}

	c.backend.mu.Lock()
	defer c.backend.mu.Unlock()

	if !c.backend.attached {
		return transportErr("delete", c.name, types.ErrDatastoreDetached)
	}

	err := c.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"DELETE FROM records WHERE id = ? AND collection = ?", id, c.name,
		)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: %s", types.ErrNotFound, id)
		}
		return nil
	})
	if err != nil {
		return transportErr("delete", c.name, err)
	}

	glog.V(1).Infof("deleted %s/%s", c.name, id)
	return nil
}

// inTx runs fn in a transaction and, once committed, rewrites the JSONL
// file. The caller must hold backend.mu.
func (c *collection) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := c.backend.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	if err := c.persistJSONL(); err != nil {
		return fmt.Errorf("persisting %s.jsonl: %w", c.name, err)
	}
	return nil
}

// get loads a single record. The caller must hold backend.mu.
func (c *collection) get(ctx context.Context, id string) (types.Record, error) {
	row := c.backend.db.QueryRowContext(ctx,
		"SELECT id, fields, created_at, updated_at FROM records WHERE id = ? AND collection = ?",
		id, c.name,
	)
	rec, err := c.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Record{}, fmt.Errorf("%w: %s", types.ErrNotFound, id)
	}
	return rec, err
}

// persistJSONL rewrites <collection>.jsonl from the records table in
// creation order. The caller must hold backend.mu.
func (c *collection) persistJSONL() error {
	rows, err := c.backend.db.Query(
		"SELECT id, fields, created_at, updated_at FROM records WHERE collection = ? ORDER BY created_at, id",
		c.name,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	var lines []json.RawMessage
	for rows.Next() {
		var rj recordJSON
		var doc string
		if err := rows.Scan(&rj.ID, &doc, &rj.CreatedAt, &rj.UpdatedAt); err != nil {
			return err
		}
		if err := json.Unmarshal([]byte(doc), &rj.Fields); err != nil {
			return err
		}
		line, err := json.Marshal(rj)
		if err != nil {
			return err
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return writeJSONL(jsonlPath(c.backend.config.DataDir, c.name), lines)
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scan hydrates one row into a types.Record.
func (c *collection) scan(s scanner) (types.Record, error) {
	var rj recordJSON
	var doc string
	if err := s.Scan(&rj.ID, &doc, &rj.CreatedAt, &rj.UpdatedAt); err != nil {
		return types.Record{}, err
	}
	if err := json.Unmarshal([]byte(doc), &rj.Fields); err != nil {
		return types.Record{}, fmt.Errorf("decoding fields of %s: %w", rj.ID, err)
	}
	return rj.toRecord(c.name)
}

// fetchErr classifies a List failure.
func fetchErr(collection string, err error) error {
	return fmt.Errorf("%w: list %s: %w", types.ErrFetch, collection, err)
}

// transportErr classifies a create/update/delete failure.
func transportErr(op, collection string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", types.ErrTransport, op, collection, err)
}
