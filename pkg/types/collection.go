package types

import (
	"context"
	"errors"
)

// Collection provides list/create/update/delete over one named collection
// of records.
type Collection interface {
	// List returns every record in the collection ordered by sort. Sort is a
	// field name optionally prefixed with "-" for descending order
	// ("-created" lists newest first).
	List(ctx context.Context, sort string) ([]Record, error)

	// Create validates and stores a new record built from payload. The
	// store assigns ID, Created, and Updated.
	Create(ctx context.Context, payload Payload) (Record, error)

	// Update patches the record with the given ID: keys present in payload
	// replace stored values, absent keys are kept.
	Update(ctx context.Context, id string, payload Payload) (Record, error)

	// Delete removes the record with the given ID.
	Delete(ctx context.Context, id string) error
}

// Failure classes. Every error returned by a Collection, and every store
// failure the screen components pass on, wraps exactly one of these.
// Preconditions checked before any store call (ErrUnauthenticated on submit,
// ErrNotFound on selecting a record that is not held) are returned without
// a class.
var (
	ErrFetch      = errors.New("fetch failure")
	ErrValidation = errors.New("validation failure")
	ErrTransport  = errors.New("transport failure")
)

// Causes, wrapped alongside a failure class.
var (
	ErrNotFound        = errors.New("record not found")
	ErrInvalidID       = errors.New("invalid record ID")
	ErrInvalidSort     = errors.New("invalid sort key")
	ErrUnauthenticated = errors.New("no authenticated user")
)
