package screen

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang/glog"

	"github.com/mesh-intelligence/taskdesk/internal/resource"
	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

// Controller turns a form submission into a create or an update depending on
// the edit session, then refreshes the list and reports the outcome.
type Controller struct {
	coll    types.Collection
	schema  resource.Schema
	list    *ListStore
	edit    *EditSession
	notice  *Notification
	session Session
	reset   func()
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithFormReset registers fn to run after a successful submit so the
// presentation layer can clear its inputs.
func WithFormReset(fn func()) ControllerOption {
	return func(c *Controller) { c.reset = fn }
}

// NewController wires a controller to the screen state it drives.
func NewController(coll types.Collection, schema resource.Schema, list *ListStore, edit *EditSession, notice *Notification, session Session, opts ...ControllerOption) *Controller {
	c := &Controller{
		coll:    coll,
		schema:  schema,
		list:    list,
		edit:    edit,
		notice:  notice,
		session: session,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit validates f and saves it. Editing sends an update of the target
// without touching its author; Creating sends a create authored by the
// current user. On success the list is reloaded, the edit session returns to
// Creating, and a success notice is shown. On failure an error notice is
// shown and the list and edit session are left as they were.
func (c *Controller) Submit(ctx context.Context, f resource.Fields) error {
	c.notice.Clear()

	if err := c.submit(ctx, f); err != nil {
		if errors.Is(err, ErrClosed) {
			return err
		}
		glog.Warningf("submit %s: %v", c.schema.Collection(), err)
		c.notice.ReportError()
		return err
	}

	c.notice.ReportSuccess()
	if c.reset != nil {
		c.reset()
	}
	return nil
}

func (c *Controller) submit(ctx context.Context, f resource.Fields) error {
	payload, err := c.schema.Extract(f)
	if err != nil {
		return err
	}

	user, ok := c.session.CurrentUser()
	if !ok {
		return types.ErrUnauthenticated
	}

	target, editing := c.edit.Target()
	if editing {
		if _, err := c.coll.Update(ctx, target.ID, payload); err != nil {
			return classify(types.ErrTransport, fmt.Errorf("update %s: %w", target.ID, err))
		}
		glog.V(1).Infof("updated %s/%s", c.schema.Collection(), target.ID)
	} else {
		payload[types.FieldAuthor] = user.ID
		rec, err := c.coll.Create(ctx, payload)
		if err != nil {
			return classify(types.ErrTransport, fmt.Errorf("create: %w", err))
		}
		glog.V(1).Infof("created %s/%s", c.schema.Collection(), rec.ID)
	}

	if err := c.list.Reload(ctx); err != nil {
		return err
	}
	if c.list.isClosed() {
		return ErrClosed
	}
	if editing {
		c.edit.resetFrom(target.ID)
	}
	return nil
}
