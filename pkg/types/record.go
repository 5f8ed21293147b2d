package types

import (
	"encoding/json"
	"strconv"
	"time"
)

// Record is one persisted entity of a collection: a task or a contact.
// ID, Created, and Updated are assigned by the store; Fields holds the
// domain values keyed by field name.
type Record struct {
	ID         string         `json:"id"`
	Collection string         `json:"collection"`
	Created    time.Time      `json:"created"`
	Updated    time.Time      `json:"updated"`
	Fields     map[string]any `json:"fields"`
}

// Payload is the body of a create or update call.
type Payload map[string]any

// String returns the field as a string, or "" if absent or not a string.
func (r Record) String(key string) string {
	switch v := r.Fields[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

// Int returns the field as an int. Numbers decoded from JSON arrive as
// float64 or json.Number; numeric strings are accepted. Returns 0 when the
// field is absent or not numeric.
func (r Record) Int(key string) int {
	switch v := r.Fields[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0
		}
		return int(n)
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// Time returns the field as a time. Stored timestamps are RFC 3339 strings;
// a time.Time value is returned as is. Returns the zero time when the field
// is absent or unparseable.
func (r Record) Time(key string) time.Time {
	switch v := r.Fields[key].(type) {
	case time.Time:
		return v
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return time.Time{}
		}
		return t
	default:
		return time.Time{}
	}
}

// Clone returns a copy of the record whose Fields map can be modified
// without affecting r.
func (r Record) Clone() Record {
	c := r
	c.Fields = make(map[string]any, len(r.Fields))
	for k, v := range r.Fields {
		c.Fields[k] = v
	}
	return c
}
