package screen

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/mesh-intelligence/taskdesk/internal/resource"
	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

// Option configures a Screen.
type Option func(*options)

type options struct {
	delay time.Duration
	reset func()
}

// WithNoticeDelay sets how long a success notice stays up.
func WithNoticeDelay(d time.Duration) Option {
	return func(o *options) { o.delay = d }
}

// WithResetHook registers fn to run after every successful submit.
func WithResetHook(fn func()) Option {
	return func(o *options) { o.reset = fn }
}

// Screen is the state of one resource view for its whole lifetime. It owns a
// ListStore, an EditSession, a Notification, and the Controller that ties them
// together, all bound to one collection and one session.
type Screen struct {
	schema  resource.Schema
	session Session

	List   *ListStore
	Edit   *EditSession
	Notice *Notification
	ctrl   *Controller

	ctx    context.Context // canceled by Close
	cancel context.CancelFunc

	mu     sync.Mutex
	unsub  func()
	userID string // identity the held list and edit target belong to
	closed bool
}

// New builds a screen for coll. Nothing is fetched until Open.
func New(coll types.Collection, schema resource.Schema, session Session, opts ...Option) *Screen {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Screen{
		schema:  schema,
		session: session,
		List:    NewListStore(coll, schema),
		Edit:    NewEditSession(schema),
		Notice:  NewNotification(o.delay),
		ctx:     ctx,
		cancel:  cancel,
	}
	var copts []ControllerOption
	if o.reset != nil {
		copts = append(copts, WithFormReset(o.reset))
	}
	s.ctrl = NewController(coll, schema, s.List, s.Edit, s.Notice, session, copts...)
	return s
}

// Schema returns the schema the screen edits.
func (s *Screen) Schema() resource.Schema { return s.schema }

// Open subscribes to session changes and performs the initial load. A screen
// opened without a signed-in user stays empty and returns
// types.ErrUnauthenticated; it loads as soon as someone signs in.
func (s *Screen) Open(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.unsub == nil {
		s.unsub = s.session.Subscribe(s.sessionChanged)
	}
	user, ok := s.session.CurrentUser()
	if ok {
		s.userID = user.ID
	}
	s.mu.Unlock()

	if !ok {
		return types.ErrUnauthenticated
	}
	return s.Reload(ctx)
}

// Reload re-fetches the list. Failures show the error notice.
func (s *Screen) Reload(ctx context.Context) error {
	s.Notice.Dismiss()
	ctx, stop := s.bind(ctx)
	defer stop()

	err := s.List.Reload(ctx)
	s.reportFailure(err)
	return err
}

// Submit saves the form input. See Controller.Submit.
func (s *Screen) Submit(ctx context.Context, f resource.Fields) error {
	ctx, stop := s.bind(ctx)
	defer stop()
	return s.ctrl.Submit(ctx, f)
}

// Delete removes the record with the given id. If it was the edit target the
// form returns to Creating. Failures show the error notice.
func (s *Screen) Delete(ctx context.Context, id string) error {
	s.Notice.Dismiss()
	ctx, stop := s.bind(ctx)
	defer stop()

	if err := s.List.Delete(ctx, id); err != nil {
		s.reportFailure(err)
		return err
	}
	s.Edit.resetFrom(id)
	return nil
}

// SelectForEdit puts the held record with the given id into the form.
func (s *Screen) SelectForEdit(id string) error {
	r, ok := s.List.Find(id)
	if !ok {
		return fmt.Errorf("%w: %s", types.ErrNotFound, id)
	}
	s.Edit.SelectForEdit(r)
	return nil
}

// CancelEdit returns the form to Creating.
func (s *Screen) CancelEdit() {
	s.Edit.Reset()
}

// FormDefaults returns the initial form input for the current edit state.
func (s *Screen) FormDefaults() resource.Fields {
	return s.Edit.FormDefaults()
}

// Close tears the screen down: the session subscription ends, the pending
// notice timer is canceled, and results of calls still in flight are
// discarded. Close is idempotent.
func (s *Screen) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	unsub := s.unsub
	s.unsub = nil
	s.mu.Unlock()

	if unsub != nil {
		unsub()
	}
	s.cancel()
	s.Notice.Close()
	s.List.Close()
	s.Edit.Close()
}

// sessionChanged hides everything on sign-out and loads on sign-in. A switch
// straight to another identity drops the previous user's list and edit
// target before the reload.
func (s *Screen) sessionChanged(id types.Identity, ok bool) {
	s.mu.Lock()
	prev := s.userID
	s.userID = id.ID
	s.mu.Unlock()

	if !ok {
		glog.V(1).Infof("%s: signed out, clearing", s.schema.Collection())
		s.Edit.Reset()
		s.List.Clear()
		return
	}
	if prev != "" && prev != id.ID {
		glog.V(1).Infof("%s: identity changed from %s to %s, clearing", s.schema.Collection(), prev, id.ID)
		s.Edit.Reset()
		s.List.Clear()
	}
	glog.V(1).Infof("%s: signed in as %s, reloading", s.schema.Collection(), id.ID)
	_ = s.Reload(s.ctx)
}

func (s *Screen) reportFailure(err error) {
	if err == nil || errors.Is(err, ErrClosed) {
		return
	}
	s.Notice.ReportError()
}

// bind derives a context that is also canceled when the screen closes.
func (s *Screen) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
