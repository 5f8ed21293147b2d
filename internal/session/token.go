package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

// issuer is the iss claim of every token this package signs.
const issuer = "taskdesk"

// Token errors.
var (
	ErrSecretEmpty  = errors.New("session secret must not be empty")
	ErrInvalidToken = errors.New("invalid session token")
)

// claims is the JWT body: the identity plus registered claims. The subject
// is the identity ID.
type claims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// IssueToken signs a token for id valid for ttl. A ttl of zero issues a token
// without expiry.
func IssueToken(secret []byte, id types.Identity, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", ErrSecretEmpty
	}
	if id.ID == "" {
		return "", fmt.Errorf("%w: identity has no ID", ErrInvalidToken)
	}

	now := time.Now()
	c := claims{
		Email: id.Email,
		Name:  id.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   issuer,
			Subject:  id.ID,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		c.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(secret)
}

// ParseToken verifies token with secret and returns the identity it carries.
// Errors wrap ErrInvalidToken.
func ParseToken(secret []byte, token string) (types.Identity, error) {
	if len(secret) == 0 {
		return types.Identity{}, ErrSecretEmpty
	}

	var c claims
	_, err := jwt.ParseWithClaims(token, &c,
		func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
	)
	if err != nil {
		return types.Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if c.Subject == "" {
		return types.Identity{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return types.Identity{ID: c.Subject, Email: c.Email, Name: c.Name}, nil
}
