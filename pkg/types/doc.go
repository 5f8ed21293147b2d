// Package types defines the record model, the Datastore and Collection
// interfaces, session identity, and the standard errors shared by the
// taskdesk store, session, and screen packages.
package types
