package client_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"blogsite/pkg/client"
	"blogsite/pkg/identity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUser hands out "cached" until forced, then "fresh-N".
type fakeUser struct {
	refreshes  int32
	refreshErr error
}

func (u *fakeUser) UID() string         { return "uid-1" }
func (u *fakeUser) Email() string       { return "ada@example.com" }
func (u *fakeUser) DisplayName() string { return "Ada" }
func (u *fakeUser) PhotoURL() string    { return "" }

func (u *fakeUser) IDToken(ctx context.Context, forceRefresh bool) (string, error) {
	if !forceRefresh {
		return "cached", nil
	}
	if u.refreshErr != nil {
		return "", u.refreshErr
	}
	n := atomic.AddInt32(&u.refreshes, 1)
	return fmt.Sprintf("fresh-%d", n), nil
}

type fakeProvider struct {
	mu    sync.Mutex
	user  identity.User
	ready chan struct{}
}

func newProvider(user identity.User) *fakeProvider {
	p := &fakeProvider{user: user, ready: make(chan struct{})}
	close(p.ready)
	return p
}

func (p *fakeProvider) CurrentUser() identity.User {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.user
}

func (p *fakeProvider) signIn(u identity.User) {
	p.mu.Lock()
	p.user = u
	p.mu.Unlock()
	close(p.ready)
}

func (p *fakeProvider) Ready() <-chan struct{} { return p.ready }

type seen struct {
	mu      sync.Mutex
	headers []string
	bodies  []string
}

func (s *seen) record(r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.headers = append(s.headers, r.Header.Get("Authorization"))
	s.bodies = append(s.bodies, string(body))
}

func (s *seen) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.headers)
}

// newServer answers 200 for accepted tokens and status otherwise.
func newServer(s *seen, status int, accept func(header string) bool) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		if accept(r.Header.Get("Authorization")) {
			_, _ = w.Write([]byte(`{"ok":true}`))
			return
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"message":"Forbidden: Invalid token"}`))
	}))
}

func TestPipeline_CachedTokenSucceeds(t *testing.T) {
	s := &seen{}
	srv := newServer(s, http.StatusUnauthorized, func(string) bool { return true })
	defer srv.Close()

	user := &fakeUser{}
	p := client.NewPipeline(srv.URL, newProvider(user), srv.Client())

	resp, err := p.Do(context.Background(), client.Request{Method: http.MethodGet, Path: "/blogs"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"Bearer cached"}, s.headers)
	assert.Equal(t, int32(0), atomic.LoadInt32(&user.refreshes))
}

func TestPipeline_RetriesOnceWithRefreshedToken(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			s := &seen{}
			srv := newServer(s, status, func(h string) bool { return h == "Bearer fresh-1" })
			defer srv.Close()

			user := &fakeUser{}
			p := client.NewPipeline(srv.URL, newProvider(user), srv.Client())

			resp, err := p.Do(context.Background(), client.Request{
				Method: http.MethodPost,
				Path:   "/comments",
				Body:   []byte(`{"rating":5}`),
			})
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, []string{"Bearer cached", "Bearer fresh-1"}, s.headers)
			assert.Equal(t, []string{`{"rating":5}`, `{"rating":5}`}, s.bodies)
			assert.Equal(t, int32(1), atomic.LoadInt32(&user.refreshes))
		})
	}
}

func TestPipeline_SecondRejectionSurfacesFirstError(t *testing.T) {
	s := &seen{}
	srv := newServer(s, http.StatusUnauthorized, func(string) bool { return false })
	defer srv.Close()

	user := &fakeUser{}
	p := client.NewPipeline(srv.URL, newProvider(user), srv.Client())

	_, err := p.Do(context.Background(), client.Request{Method: http.MethodGet, Path: "/blogs/liked/user"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, client.ErrAuthenticationExpired))

	var statusErr *client.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.JSONEq(t, `{"message":"Forbidden: Invalid token"}`, string(statusErr.Body))
	assert.Equal(t, []string{"Bearer cached", "Bearer fresh-1"}, s.headers, "exactly one retry")
	assert.Equal(t, int32(1), atomic.LoadInt32(&user.refreshes))
}

func TestPipeline_NonAuthErrorsAreNotRetried(t *testing.T) {
	s := &seen{}
	srv := newServer(s, http.StatusInternalServerError, func(string) bool { return false })
	defer srv.Close()

	user := &fakeUser{}
	p := client.NewPipeline(srv.URL, newProvider(user), srv.Client())

	_, err := p.Do(context.Background(), client.Request{Method: http.MethodGet, Path: "/blogs"})
	var statusErr *client.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.False(t, errors.Is(err, client.ErrAuthenticationExpired))
	assert.Equal(t, 1, s.count())
	assert.Equal(t, int32(0), atomic.LoadInt32(&user.refreshes))
}

func TestPipeline_NoSession(t *testing.T) {
	s := &seen{}
	srv := newServer(s, http.StatusUnauthorized, func(h string) bool { return h == "" })
	defer srv.Close()

	p := client.NewPipeline(srv.URL, newProvider(nil), srv.Client())

	// Public endpoints work without a credential.
	_, err := p.Do(context.Background(), client.Request{Method: http.MethodGet, Path: "/blogs/recent"})
	require.NoError(t, err)
	assert.Equal(t, []string{""}, s.headers)

	srvAuth := newServer(&seen{}, http.StatusUnauthorized, func(string) bool { return false })
	defer srvAuth.Close()
	p = client.NewPipeline(srvAuth.URL, newProvider(nil), srvAuth.Client())

	_, err = p.Do(context.Background(), client.Request{Method: http.MethodGet, Path: "/blogs/liked/user"})
	assert.True(t, errors.Is(err, client.ErrAuthenticationUnavailable))
}

func TestPipeline_RefreshFailure(t *testing.T) {
	s := &seen{}
	srv := newServer(s, http.StatusUnauthorized, func(string) bool { return false })
	defer srv.Close()

	user := &fakeUser{refreshErr: errors.New("TOKEN_EXPIRED")}
	p := client.NewPipeline(srv.URL, newProvider(user), srv.Client())

	_, err := p.Do(context.Background(), client.Request{Method: http.MethodGet, Path: "/blogs/liked/user"})
	assert.True(t, errors.Is(err, client.ErrAuthenticationUnavailable))
	assert.Contains(t, err.Error(), "TOKEN_EXPIRED")
	assert.Equal(t, 1, s.count())
}

func TestPipeline_ConcurrentCallsRetryIndependently(t *testing.T) {
	s := &seen{}
	srv := newServer(s, http.StatusUnauthorized, func(h string) bool { return strings.HasPrefix(h, "Bearer fresh-") })
	defer srv.Close()

	user := &fakeUser{}
	p := client.NewPipeline(srv.URL, newProvider(user), srv.Client())

	const calls = 8
	var wg sync.WaitGroup
	errs := make(chan error, calls)
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := p.Do(context.Background(), client.Request{Method: http.MethodGet, Path: "/blogs"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 2*calls, s.count())
	assert.Equal(t, int32(calls), atomic.LoadInt32(&user.refreshes))
}

func TestPipeline_WaitsForReadiness(t *testing.T) {
	s := &seen{}
	srv := newServer(s, http.StatusUnauthorized, func(string) bool { return true })
	defer srv.Close()

	provider := &fakeProvider{ready: make(chan struct{})}
	p := client.NewPipeline(srv.URL, provider, srv.Client())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Do(ctx, client.Request{Method: http.MethodGet, Path: "/blogs"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, s.count())

	done := make(chan error, 1)
	go func() {
		_, err := p.Do(context.Background(), client.Request{Method: http.MethodGet, Path: "/blogs"})
		done <- err
	}()

	provider.signIn(&fakeUser{})
	require.NoError(t, <-done)
	assert.Equal(t, []string{"Bearer cached"}, s.headers)
}
