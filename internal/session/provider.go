// Package session tracks the authenticated identity of the running client.
// A Provider holds the current session token and notifies subscribers when
// the user signs in or out. Tokens are HS256 JWTs carrying the identity as
// claims.
package session

import (
	"github.com/golang/glog"

	"github.com/mesh-intelligence/taskdesk/internal/observable"
	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

// state is the value observed by subscribers. A zero state means signed out.
type state struct {
	token    string
	identity types.Identity
	ok       bool
}

// Provider exposes the current identity reactively.
type Provider struct {
	secret []byte
	value  *observable.Value[state]
}

// NewProvider returns a signed-out Provider that verifies tokens with secret.
func NewProvider(secret []byte) *Provider {
	return &Provider{
		secret: secret,
		value:  observable.New(state{}),
	}
}

// CurrentUser returns the signed-in identity, or false when signed out.
func (p *Provider) CurrentUser() (types.Identity, bool) {
	s := p.value.Get()
	return s.identity, s.ok
}

// Token returns the token of the current session, or "" when signed out.
func (p *Provider) Token() string {
	return p.value.Get().token
}

// SignIn verifies token and makes its identity current. An invalid token
// leaves the provider unchanged.
func (p *Provider) SignIn(token string) (types.Identity, error) {
	id, err := ParseToken(p.secret, token)
	if err != nil {
		return types.Identity{}, err
	}
	p.value.Set(state{token: token, identity: id, ok: true})
	glog.V(1).Infof("session: signed in as %s", id.ID)
	return id, nil
}

// SignOut clears the current session. Signing out while signed out does not
// notify subscribers.
func (p *Provider) SignOut() {
	changed := p.value.Update(func(cur state) (state, bool) {
		return state{}, cur.ok
	})
	if changed {
		glog.V(1).Infof("session: signed out")
	}
}

// Subscribe calls fn with the new identity after every sign-in and sign-out.
func (p *Provider) Subscribe(fn func(types.Identity, bool)) (cancel func()) {
	return p.value.Subscribe(func(s state) { fn(s.identity, s.ok) })
}
