package identity

import (
	"context"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// LocalIssuer is the iss claim of locally minted tokens.
const LocalIssuer = "blogsite-local"

// Claims describe the user a local token is minted for.
type Claims struct {
	UID     string
	Email   string
	Name    string
	Picture string
}

// MintToken signs an HS256 token for c that expires after ttl. Every call
// produces a distinct token.
func MintToken(secret []byte, c Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":     c.UID,
		"user_id": c.UID,
		"email":   c.Email,
		"name":    c.Name,
		"picture": c.Picture,
		"iss":     LocalIssuer,
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
		"jti":     uuid.New().String(),
	})

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", errors.Wrap(err, "identity: sign local token")
	}
	return signed, nil
}

// LocalAuth is a development provider that mints its own tokens. The server
// accepts them when it runs with AUTH_MODE=local and the same secret.
type LocalAuth struct {
	secret []byte
	ttl    time.Duration
	state  *authState
}

// NewLocalAuth creates a LocalAuth whose tokens live for ttl.
func NewLocalAuth(secret string, ttl time.Duration) *LocalAuth {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &LocalAuth{
		secret: []byte(secret),
		ttl:    ttl,
		state:  newAuthState(),
	}
}

// SignIn makes c the current user.
func (a *LocalAuth) SignIn(c Claims) User {
	u := &localUser{auth: a, claims: c}
	a.state.set(u)
	return u
}

// SignOut clears the current user.
func (a *LocalAuth) SignOut() {
	a.state.set(nil)
}

// Settle marks the auth state as known without signing anyone in.
func (a *LocalAuth) Settle() {
	a.state.settle()
}

// CurrentUser implements Provider.
func (a *LocalAuth) CurrentUser() User {
	return a.state.current()
}

// Ready implements Provider.
func (a *LocalAuth) Ready() <-chan struct{} {
	return a.state.ready
}

type localUser struct {
	auth   *LocalAuth
	claims Claims

	mu      sync.Mutex
	token   string
	expires time.Time
}

func (u *localUser) UID() string         { return u.claims.UID }
func (u *localUser) Email() string       { return u.claims.Email }
func (u *localUser) DisplayName() string { return u.claims.Name }
func (u *localUser) PhotoURL() string    { return u.claims.Picture }

func (u *localUser) IDToken(ctx context.Context, forceRefresh bool) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if !forceRefresh && u.token != "" && time.Now().Before(u.expires) {
		return u.token, nil
	}

	token, err := MintToken(u.auth.secret, u.claims, u.auth.ttl)
	if err != nil {
		return "", err
	}
	u.token = token
	u.expires = time.Now().Add(u.auth.ttl)
	return token, nil
}
