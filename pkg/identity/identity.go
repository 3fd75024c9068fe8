// Package identity adapts third-party sign-in providers to the small surface
// the request pipeline needs: the current user, a token accessor that can be
// forced to refresh, and a one-shot signal that the initial auth state is known.
package identity

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// ErrNoSession is returned when a token is requested after sign-out.
var ErrNoSession = errors.New("identity: no signed-in user")

// User is a signed-in session.
type User interface {
	UID() string
	Email() string
	DisplayName() string
	PhotoURL() string
	// IDToken returns a bearer token. With forceRefresh it always round-trips
	// to the provider; otherwise a cached, unexpired token may be returned.
	IDToken(ctx context.Context, forceRefresh bool) (string, error)
}

// Provider exposes the current session.
type Provider interface {
	// CurrentUser returns nil when nobody is signed in.
	CurrentUser() User
	// Ready is closed once the provider knows whether a session exists.
	Ready() <-chan struct{}
}

// authState holds the current user and the readiness signal. The signal
// closes exactly once, on the first sign-in, restore or settle.
type authState struct {
	mu    sync.RWMutex
	user  User
	once  sync.Once
	ready chan struct{}
}

func newAuthState() *authState {
	return &authState{ready: make(chan struct{})}
}

func (s *authState) set(u User) {
	s.mu.Lock()
	s.user = u
	s.mu.Unlock()
	s.settle()
}

func (s *authState) current() User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *authState) settle() {
	s.once.Do(func() { close(s.ready) })
}
