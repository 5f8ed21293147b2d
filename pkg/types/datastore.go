package types

import "errors"

// Datastore defines the interface for backend-agnostic storage access.
// Callers attach to a backend, access collections by name, and detach when
// done.
type Datastore interface {
	// Collection returns the Collection for the given name.
	// Returns ErrCollectionNotFound if the name is not a standard collection.
	Collection(name string) (Collection, error)

	// Attach connects the Datastore to the backend described by config.
	// Creates the DataDir if it does not exist. Returns ErrAlreadyAttached
	// if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls succeed.
	// After Detach, collection operations return ErrDatastoreDetached.
	Detach() error
}

// Datastore lifecycle errors.
var (
	ErrDatastoreDetached  = errors.New("datastore is detached")
	ErrAlreadyAttached    = errors.New("datastore is already attached")
	ErrCollectionNotFound = errors.New("collection not found")
)
