// Package screen holds the state behind a resource screen: the list of
// records (ListStore), the form's create/edit mode (EditSession), the
// transient success/error banner (Notification), and the Controller that
// submits the form. A Screen binds the four to one collection and one
// session and owns their lifetime.
//
// Every container is safe for concurrent use and notifies subscribers
// synchronously after each change. Subscribers must not call back into the
// mutating methods of the container that notified them.
package screen

import (
	"errors"
	"fmt"

	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

// ErrClosed is returned when a result arrives after the screen was torn
// down. The result is discarded.
var ErrClosed = errors.New("screen is closed")

// Session exposes the authenticated identity reactively.
type Session interface {
	CurrentUser() (types.Identity, bool)
	Subscribe(fn func(types.Identity, bool)) (cancel func())
}

// classify makes sure err wraps class. Errors that already carry a failure
// class keep it.
func classify(class, err error) error {
	if errors.Is(err, types.ErrFetch) || errors.Is(err, types.ErrValidation) || errors.Is(err, types.ErrTransport) {
		return err
	}
	return fmt.Errorf("%w: %w", class, err)
}
