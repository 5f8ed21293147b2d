package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/golang/glog"

	"github.com/mesh-intelligence/taskdesk/internal/resource"
	"github.com/mesh-intelligence/taskdesk/internal/screen"
	"github.com/mesh-intelligence/taskdesk/internal/session"
	"github.com/mesh-intelligence/taskdesk/pkg/sqlite"
	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

// app is what a command needs to reach the data: the resolved settings, an
// attached datastore, and the session restored from the token file.
type app struct {
	settings settings
	store    types.Datastore
	session  *session.Provider
}

// openApp loads settings, attaches the datastore, and restores the saved
// session. The caller must call close.
func openApp() (*app, error) {
	s, err := loadSettings()
	if err != nil {
		return nil, err
	}

	store := sqlite.NewBackend()
	if err := store.Attach(s.store); err != nil {
		return nil, fmt.Errorf("attach datastore: %w", err)
	}

	a := &app{settings: s, store: store, session: session.NewProvider(s.secret)}
	if err := a.restoreSession(); err != nil {
		_ = store.Detach()
		return nil, err
	}
	return a, nil
}

// restoreSession signs in with the saved token, if any. A token that no
// longer verifies leaves the session signed out.
func (a *app) restoreSession() error {
	token, err := session.LoadToken(session.TokenPath(a.settings.configDir))
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}
	if _, err := a.session.SignIn(token); err != nil {
		glog.Warningf("ignoring saved session: %v", err)
	}
	return nil
}

func (a *app) close() {
	if err := a.store.Detach(); err != nil {
		glog.Warningf("detach datastore: %v", err)
	}
}

// newScreen builds the screen of a standard collection.
func (a *app) newScreen(collection string, opts ...screen.Option) (*screen.Screen, error) {
	schema, err := resource.For(collection, a.settings.location)
	if err != nil {
		return nil, err
	}
	coll, err := a.store.Collection(collection)
	if err != nil {
		return nil, err
	}
	opts = append([]screen.Option{screen.WithNoticeDelay(a.settings.delay)}, opts...)
	return screen.New(coll, schema, a.session, opts...), nil
}

// openScreen builds and opens a screen. Signed-out users get a hint to log
// in.
func (a *app) openScreen(ctx context.Context, collection string) (*screen.Screen, error) {
	s, err := a.newScreen(collection)
	if err != nil {
		return nil, err
	}
	if err := s.Open(ctx); err != nil {
		s.Close()
		return nil, signInHint(err)
	}
	return s, nil
}

func signInHint(err error) error {
	if errors.Is(err, types.ErrUnauthenticated) {
		return fmt.Errorf("%w: run \"taskdesk login\" first", err)
	}
	return err
}

func writeJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
