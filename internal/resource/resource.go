// Package resource describes the collections a screen can edit: which form
// fields they have, how raw form input becomes a store payload, how a record
// is rendered back into form defaults, and which delete policy the list
// applies.
package resource

import (
	"fmt"
	"time"

	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

// Fields holds raw form input keyed by field name.
type Fields map[string]string

// DeletePolicy selects how a list reflects a confirmed delete.
type DeletePolicy int

const (
	// DeleteReload re-fetches the whole collection after a delete so the
	// list also picks up concurrent remote changes.
	DeleteReload DeletePolicy = iota

	// DeleteLocal removes the deleted record from the held list without a
	// round-trip. It assumes no concurrent editors.
	DeleteLocal
)

// String returns the policy name used in logs.
func (p DeletePolicy) String() string {
	switch p {
	case DeleteReload:
		return "reload"
	case DeleteLocal:
		return "local"
	default:
		return fmt.Sprintf("DeletePolicy(%d)", int(p))
	}
}

// Schema describes one editable collection.
type Schema interface {
	// Collection is the store collection name.
	Collection() string

	// Sort is the key passed to Collection.List.
	Sort() string

	// DeletePolicy is applied by the list after a confirmed delete.
	DeletePolicy() DeletePolicy

	// FieldNames lists the form fields in display order.
	FieldNames() []string

	// Extract validates raw form input and builds the payload for create or
	// update. It never sets the author. Errors wrap types.ErrValidation.
	Extract(f Fields) (types.Payload, error)

	// Defaults renders r as form input.
	Defaults(r types.Record) Fields

	// Columns renders r as list columns, matching FieldNames order minus
	// fields that are not shown in lists.
	Columns(r types.Record) []string

	// Headers are the list column titles.
	Headers() []string
}

// DateTimeLayout is the form representation of timestamps: local date and
// time truncated to the minute.
const DateTimeLayout = "2006-01-02T15:04"

// Empty returns form input with every field of s present and blank.
func Empty(s Schema) Fields {
	f := make(Fields, len(s.FieldNames()))
	for _, name := range s.FieldNames() {
		f[name] = ""
	}
	return f
}

// For returns the schema of a standard collection. Timestamps in forms are
// interpreted and rendered in loc; a nil loc means time.Local.
func For(collection string, loc *time.Location) (Schema, error) {
	switch collection {
	case types.CollectionTasks:
		return NewTasks(loc), nil
	case types.CollectionContacts:
		return NewContacts(), nil
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrCollectionNotFound, collection)
	}
}

// requireText returns the trimmed-nonblank value of name or a validation error.
func requireText(f Fields, name string) (string, error) {
	v, ok := f[name]
	if !ok {
		return "", fmt.Errorf("%w: %s is missing", types.ErrValidation, name)
	}
	if isBlank(v) {
		return "", fmt.Errorf("%w: %s is required", types.ErrValidation, name)
	}
	return v, nil
}
