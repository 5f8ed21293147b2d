package testutil

import (
	"github.com/mesh-intelligence/taskdesk/internal/observable"
	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

type sessionState struct {
	id types.Identity
	ok bool
}

// FakeSession is a session whose identity tests set directly.
type FakeSession struct {
	value *observable.Value[sessionState]
}

// NewFakeSession returns a session signed in as userID, or signed out when
// userID is empty.
func NewFakeSession(userID string) *FakeSession {
	s := &FakeSession{value: observable.New(sessionState{})}
	if userID != "" {
		s.value.Set(sessionState{id: types.Identity{ID: userID}, ok: true})
	}
	return s
}

// CurrentUser returns the identity set by SignIn.
func (s *FakeSession) CurrentUser() (types.Identity, bool) {
	st := s.value.Get()
	return st.id, st.ok
}

// Subscribe registers fn for identity changes.
func (s *FakeSession) Subscribe(fn func(types.Identity, bool)) func() {
	return s.value.Subscribe(func(st sessionState) { fn(st.id, st.ok) })
}

// SignIn makes userID current and notifies subscribers.
func (s *FakeSession) SignIn(userID string) {
	s.value.Set(sessionState{id: types.Identity{ID: userID}, ok: true})
}

// SignOut clears the identity and notifies subscribers.
func (s *FakeSession) SignOut() {
	s.value.Set(sessionState{})
}
