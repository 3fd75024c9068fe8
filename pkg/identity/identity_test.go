package identity_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"blogsite/pkg/identity"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isClosed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

func TestLocalAuth_TokenCaching(t *testing.T) {
	auth := identity.NewLocalAuth("secret", time.Hour)
	assert.False(t, isClosed(auth.Ready()))
	assert.Nil(t, auth.CurrentUser())

	user := auth.SignIn(identity.Claims{UID: "u1", Email: "ada@example.com", Name: "Ada"})
	assert.True(t, isClosed(auth.Ready()))
	assert.Equal(t, "ada@example.com", auth.CurrentUser().Email())

	ctx := context.Background()
	first, err := user.IDToken(ctx, false)
	require.NoError(t, err)
	cached, err := user.IDToken(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, first, cached)

	forced, err := user.IDToken(ctx, true)
	require.NoError(t, err)
	assert.NotEqual(t, first, forced)

	parsed, err := jwt.Parse(forced, func(*jwt.Token) (interface{}, error) { return []byte("secret"), nil })
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, identity.LocalIssuer, claims["iss"])
	assert.Equal(t, "u1", claims["user_id"])
}

func TestLocalAuth_SettleThenSignOut(t *testing.T) {
	auth := identity.NewLocalAuth("secret", 0)
	auth.Settle()
	auth.Settle()
	assert.True(t, isClosed(auth.Ready()))

	auth.SignIn(identity.Claims{UID: "u1", Email: "ada@example.com"})
	assert.NotNil(t, auth.CurrentUser())
	auth.SignOut()
	assert.Nil(t, auth.CurrentUser())
}

func fakeIDToken(t *testing.T, uid, email string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": uid,
		"email":   email,
		"name":    "Ada",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("unused"))
	assert.NoError(t, err)
	return signed
}

func newFirebaseServer(t *testing.T, refreshes *int32) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/accounts:signInWithPassword", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "correct" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"code":400,"message":"INVALID_PASSWORD"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"idToken":      fakeIDToken(t, "uid-1", body["email"].(string)),
			"refreshToken": "refresh-1",
			"expiresIn":    "3600",
			"localId":      "uid-1",
		})
	})
	mux.HandleFunc("/v1/token", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		if r.Form.Get("refresh_token") != "refresh-1" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"code":400,"message":"INVALID_REFRESH_TOKEN"}}`))
			return
		}
		atomic.AddInt32(refreshes, 1)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"id_token":      fakeIDToken(t, "uid-1", "ada@example.com"),
			"refresh_token": "refresh-1",
			"expires_in":    "3600",
		})
	})
	return httptest.NewServer(mux)
}

func newFirebaseAuth(srv *httptest.Server) *identity.FirebaseAuth {
	return identity.NewFirebaseAuth(identity.FirebaseConfig{
		APIKey:      "key",
		IdentityURL: srv.URL + "/v1",
		TokenURL:    srv.URL + "/v1",
		HTTPClient:  srv.Client(),
	})
}

func TestFirebaseAuth_SignInAndRefresh(t *testing.T) {
	var refreshes int32
	srv := newFirebaseServer(t, &refreshes)
	defer srv.Close()

	auth := newFirebaseAuth(srv)
	ctx := context.Background()

	user, err := auth.SignInWithPassword(ctx, "ada@example.com", "correct")
	require.NoError(t, err)
	assert.True(t, isClosed(auth.Ready()))
	assert.Equal(t, "uid-1", user.UID())
	assert.Equal(t, "ada@example.com", user.Email())
	assert.Equal(t, "Ada", user.DisplayName())
	assert.Equal(t, "refresh-1", user.RefreshToken())

	_, err = user.IDToken(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, int32(0), atomic.LoadInt32(&refreshes))

	_, err = user.IDToken(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&refreshes))
}

func TestFirebaseAuth_SignInFailure(t *testing.T) {
	var refreshes int32
	srv := newFirebaseServer(t, &refreshes)
	defer srv.Close()

	auth := newFirebaseAuth(srv)
	_, err := auth.SignInWithPassword(context.Background(), "ada@example.com", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INVALID_PASSWORD")
	assert.Nil(t, auth.CurrentUser())
	assert.False(t, isClosed(auth.Ready()))
}

func TestFirebaseAuth_Restore(t *testing.T) {
	var refreshes int32
	srv := newFirebaseServer(t, &refreshes)
	defer srv.Close()

	auth := newFirebaseAuth(srv)
	_, err := auth.Restore(context.Background(), "stale")
	require.Error(t, err)
	assert.True(t, isClosed(auth.Ready()))
	assert.Nil(t, auth.CurrentUser())

	user, err := auth.Restore(context.Background(), "refresh-1")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", auth.CurrentUser().UID())
	assert.Equal(t, "ada@example.com", user.Email())
}
