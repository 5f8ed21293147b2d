package session

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

var secret = []byte("test-secret")

func TestIssueAndParseToken(t *testing.T) {
	id := types.Identity{ID: "u1", Email: "u1@example.com", Name: "Ana"}

	token, err := IssueToken(secret, id, time.Hour)
	require.NoError(t, err)

	got, err := ParseToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestParseTokenRejects(t *testing.T) {
	valid, err := IssueToken(secret, types.Identity{ID: "u1"}, time.Hour)
	require.NoError(t, err)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   "u1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}).SignedString(secret)
	require.NoError(t, err)

	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "someone-else", Subject: "u1"},
	}).SignedString(secret)
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: issuer},
	}).SignedString(secret)
	require.NoError(t, err)

	tests := []struct {
		name   string
		secret []byte
		token  string
	}{
		{"wrong secret", []byte("other"), valid},
		{"garbage", secret, "not-a-jwt"},
		{"expired", secret, expired},
		{"foreign issuer", secret, foreign},
		{"missing subject", secret, noSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseToken(tt.secret, tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestTokenRequiresSecret(t *testing.T) {
	_, err := IssueToken(nil, types.Identity{ID: "u1"}, 0)
	assert.ErrorIs(t, err, ErrSecretEmpty)

	_, err = ParseToken(nil, "x")
	assert.ErrorIs(t, err, ErrSecretEmpty)

	_, err = IssueToken(secret, types.Identity{}, 0)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestProviderSignInOut(t *testing.T) {
	p := NewProvider(secret)

	_, ok := p.CurrentUser()
	assert.False(t, ok, "new provider is signed out")

	type event struct {
		id types.Identity
		ok bool
	}
	var events []event
	cancel := p.Subscribe(func(id types.Identity, ok bool) { events = append(events, event{id, ok}) })
	defer cancel()

	token, err := IssueToken(secret, types.Identity{ID: "u1"}, 0)
	require.NoError(t, err)

	id, err := p.SignIn(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", id.ID)

	cur, ok := p.CurrentUser()
	assert.True(t, ok)
	assert.Equal(t, "u1", cur.ID)
	assert.Equal(t, token, p.Token())

	p.SignOut()
	p.SignOut()

	_, ok = p.CurrentUser()
	assert.False(t, ok)
	assert.Empty(t, p.Token())

	require.Len(t, events, 2, "second sign-out does not notify")
	assert.Equal(t, event{types.Identity{ID: "u1"}, true}, events[0])
	assert.Equal(t, event{types.Identity{}, false}, events[1])
}

func TestProviderSignInInvalidTokenKeepsSession(t *testing.T) {
	p := NewProvider(secret)
	token, err := IssueToken(secret, types.Identity{ID: "u1"}, 0)
	require.NoError(t, err)
	_, err = p.SignIn(token)
	require.NoError(t, err)

	_, err = p.SignIn("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	cur, ok := p.CurrentUser()
	assert.True(t, ok)
	assert.Equal(t, "u1", cur.ID)
}

func TestTokenFile(t *testing.T) {
	path := TokenPath(filepath.Join(t.TempDir(), "config"))

	got, err := LoadToken(path)
	require.NoError(t, err)
	assert.Empty(t, got, "missing file means signed out")

	require.NoError(t, SaveToken(path, "abc.def.ghi"))
	got, err = LoadToken(path)
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", got)

	require.NoError(t, RemoveToken(path))
	require.NoError(t, RemoveToken(path))
	got, err = LoadToken(path)
	require.NoError(t, err)
	assert.Empty(t, got)
}
