package sqlite

import (
	"time"

	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

// timeLayout is the fixed-width UTC layout used for created_at and
// updated_at, so that lexical order in SQLite equals chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// recordJSON represents a record in <collection>.jsonl.
type recordJSON struct {
	ID        string         `json:"id"`
	Fields    map[string]any `json:"fields"`
	CreatedAt string         `json:"created_at"`
	UpdatedAt string         `json:"updated_at"`
}

// formatTime renders t in timeLayout after converting to UTC.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime parses a timestamp written by formatTime. RFC 3339 values
// written by hand into a JSONL file are accepted too.
func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

// toRecord converts a JSONL line into a types.Record of the given collection.
func (rj recordJSON) toRecord(collection string) (types.Record, error) {
	created, err := parseTime(rj.CreatedAt)
	if err != nil {
		return types.Record{}, err
	}
	updated, err := parseTime(rj.UpdatedAt)
	if err != nil {
		return types.Record{}, err
	}
	fields := rj.Fields
	if fields == nil {
		fields = make(map[string]any)
	}
	return types.Record{
		ID:         rj.ID,
		Collection: collection,
		Created:    created,
		Updated:    updated,
		Fields:     fields,
	}, nil
}
