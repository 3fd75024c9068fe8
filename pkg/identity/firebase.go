package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
)

// Default Firebase REST endpoints.
const (
	DefaultIdentityURL = "https://identitytoolkit.googleapis.com/v1"
	DefaultTokenURL    = "https://securetoken.googleapis.com/v1"
)

// expirySkew refreshes cached tokens slightly before they expire.
const expirySkew = 5 * time.Minute

// FirebaseConfig configures FirebaseAuth.
type FirebaseConfig struct {
	APIKey      string
	IdentityURL string
	TokenURL    string
	HTTPClient  *http.Client
}

// FirebaseAuth signs users in with the Firebase Auth REST API and exchanges
// refresh tokens for fresh ID tokens.
type FirebaseAuth struct {
	cfg   FirebaseConfig
	state *authState
}

// NewFirebaseAuth creates a FirebaseAuth. Empty URLs use the public endpoints.
func NewFirebaseAuth(cfg FirebaseConfig) *FirebaseAuth {
	if cfg.IdentityURL == "" {
		cfg.IdentityURL = DefaultIdentityURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultTokenURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &FirebaseAuth{cfg: cfg, state: newAuthState()}
}

// CurrentUser implements Provider.
func (a *FirebaseAuth) CurrentUser() User {
	return a.state.current()
}

// Ready implements Provider.
func (a *FirebaseAuth) Ready() <-chan struct{} {
	return a.state.ready
}

// Settle marks the auth state as known without signing anyone in.
func (a *FirebaseAuth) Settle() {
	a.state.settle()
}

// SignOut clears the current user.
func (a *FirebaseAuth) SignOut() {
	a.state.set(nil)
}

type signInResponse struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
}

// SignInWithPassword signs in an email/password account.
func (a *FirebaseAuth) SignInWithPassword(ctx context.Context, email, password string) (*FirebaseUser, error) {
	var resp signInResponse
	err := a.postJSON(ctx, a.cfg.IdentityURL+"/accounts:signInWithPassword", map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &resp)
	if err != nil {
		return nil, errors.Wrap(err, "identity: sign in")
	}
	return a.adopt(resp.IDToken, resp.RefreshToken, resp.ExpiresIn)
}

// SignUp creates an email/password account and signs it in. A non-empty
// displayName is written to the profile.
func (a *FirebaseAuth) SignUp(ctx context.Context, email, password, displayName string) (*FirebaseUser, error) {
	var resp signInResponse
	err := a.postJSON(ctx, a.cfg.IdentityURL+"/accounts:signUp", map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &resp)
	if err != nil {
		return nil, errors.Wrap(err, "identity: sign up")
	}

	if displayName != "" {
		err = a.postJSON(ctx, a.cfg.IdentityURL+"/accounts:update", map[string]interface{}{
			"idToken":           resp.IDToken,
			"displayName":       displayName,
			"returnSecureToken": true,
		}, &resp)
		if err != nil {
			return nil, errors.Wrap(err, "identity: set display name")
		}
	}
	return a.adopt(resp.IDToken, resp.RefreshToken, resp.ExpiresIn)
}

// Restore resumes a session from a stored refresh token. The auth state
// becomes known whether or not the exchange succeeds.
func (a *FirebaseAuth) Restore(ctx context.Context, refreshToken string) (*FirebaseUser, error) {
	defer a.state.settle()

	u := &FirebaseUser{auth: a, refreshToken: refreshToken}
	if _, err := u.IDToken(ctx, true); err != nil {
		return nil, errors.Wrap(err, "identity: restore session")
	}
	a.state.set(u)
	return u, nil
}

func (a *FirebaseAuth) adopt(idToken, refreshToken, expiresIn string) (*FirebaseUser, error) {
	u := &FirebaseUser{auth: a, refreshToken: refreshToken}
	if err := u.store(idToken, refreshToken, expiresIn); err != nil {
		return nil, err
	}
	a.state.set(u)
	return u, nil
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (a *FirebaseAuth) postJSON(ctx context.Context, endpoint string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "encode request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.keyed(endpoint), bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	return a.do(req, out)
}

func (a *FirebaseAuth) postForm(ctx context.Context, endpoint string, form url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.keyed(endpoint), strings.NewReader(form.Encode()))
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(req, out)
}

func (a *FirebaseAuth) keyed(endpoint string) string {
	return endpoint + "?key=" + url.QueryEscape(a.cfg.APIKey)
}

func (a *FirebaseAuth) do(req *http.Request, out interface{}) error {
	resp, err := a.cfg.HTTPClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "send request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error.Message != "" {
			return errors.Errorf("%s (status %d)", apiErr.Error.Message, resp.StatusCode)
		}
		return errors.Errorf("unexpected status %d", resp.StatusCode)
	}
	return errors.Wrap(json.NewDecoder(resp.Body).Decode(out), "decode response")
}

// FirebaseUser is a Firebase session. Profile fields are read from the
// claims of the most recent ID token.
type FirebaseUser struct {
	auth *FirebaseAuth

	mu           sync.RWMutex
	uid          string
	email        string
	name         string
	picture      string
	idToken      string
	refreshToken string
	expires      time.Time
}

func (u *FirebaseUser) UID() string         { return u.read(func() string { return u.uid }) }
func (u *FirebaseUser) Email() string       { return u.read(func() string { return u.email }) }
func (u *FirebaseUser) DisplayName() string { return u.read(func() string { return u.name }) }
func (u *FirebaseUser) PhotoURL() string    { return u.read(func() string { return u.picture }) }

// RefreshToken returns the long-lived token that Restore accepts.
func (u *FirebaseUser) RefreshToken() string {
	return u.read(func() string { return u.refreshToken })
}

func (u *FirebaseUser) read(f func() string) string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return f()
}

type refreshResponse struct {
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    string `json:"expires_in"`
}

// IDToken implements User.
func (u *FirebaseUser) IDToken(ctx context.Context, forceRefresh bool) (string, error) {
	u.mu.RLock()
	token, expires, refresh := u.idToken, u.expires, u.refreshToken
	u.mu.RUnlock()

	if !forceRefresh && token != "" && time.Now().Before(expires.Add(-expirySkew)) {
		return token, nil
	}
	if refresh == "" {
		return "", ErrNoSession
	}

	var resp refreshResponse
	err := u.auth.postForm(ctx, u.auth.cfg.TokenURL+"/token", url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refresh},
	}, &resp)
	if err != nil {
		return "", errors.Wrap(err, "identity: refresh token")
	}
	if err := u.store(resp.IDToken, resp.RefreshToken, resp.ExpiresIn); err != nil {
		return "", err
	}
	return resp.IDToken, nil
}

func (u *FirebaseUser) store(idToken, refreshToken, expiresIn string) error {
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(idToken, claims); err != nil {
		return errors.Wrap(err, "identity: parse id token")
	}
	seconds, err := strconv.Atoi(expiresIn)
	if err != nil {
		return errors.Wrapf(err, "identity: parse expiry %q", expiresIn)
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	u.idToken = idToken
	if refreshToken != "" {
		u.refreshToken = refreshToken
	}
	u.expires = time.Now().Add(time.Duration(seconds) * time.Second)
	u.uid, _ = claims["user_id"].(string)
	if u.uid == "" {
		u.uid, _ = claims["sub"].(string)
	}
	u.email, _ = claims["email"].(string)
	u.name, _ = claims["name"].(string)
	u.picture, _ = claims["picture"].(string)
	return nil
}
