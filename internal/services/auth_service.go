package services

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"blogsite/pkg/identity"

	"github.com/dgrijalva/jwt-go"
)

// Identity is the verified caller behind a bearer token.
type Identity struct {
	UID     string
	Email   string
	Name    string
	Picture string
}

// TokenVerifier turns a bearer token into a verified identity.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, tokenString string) (*Identity, error)
}

// AuthService verifies identity tokens. In firebase mode tokens are RS256
// signed by Google and checked against the project's audience and issuer.
// In local mode they are HS256 tokens minted by identity.LocalAuth.
type AuthService struct {
	local     bool
	jwtSecret []byte

	projectID  string
	certsURL   string
	httpClient *http.Client

	mu        sync.RWMutex
	keys      map[string]*rsa.PublicKey
	keysUntil time.Time
	now       func() time.Time
}

// NewLocalAuthService creates an AuthService that accepts HS256 tokens signed with jwtSecret.
func NewLocalAuthService(jwtSecret string) *AuthService {
	return &AuthService{
		local:     true,
		jwtSecret: []byte(jwtSecret),
		now:       time.Now,
	}
}

// NewFirebaseAuthService creates an AuthService that verifies Firebase ID tokens.
// Signing certificates are fetched from certsURL and cached for the max-age
// the endpoint advertises.
func NewFirebaseAuthService(projectID, certsURL string, httpClient *http.Client) *AuthService {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &AuthService{
		projectID:  projectID,
		certsURL:   certsURL,
		httpClient: httpClient,
		now:        time.Now,
	}
}

// VerifyToken parses and validates a token, returning the caller's identity.
// Every failure wraps ErrInvalidToken.
func (s *AuthService) VerifyToken(ctx context.Context, tokenString string) (*Identity, error) {
	var (
		token *jwt.Token
		err   error
	)
	if s.local {
		token, err = jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.jwtSecret, nil
		})
	} else {
		token, err = jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			kid, _ := token.Header["kid"].(string)
			return s.signingKey(ctx, kid)
		})
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if s.local {
		if !claims.VerifyIssuer(identity.LocalIssuer, true) {
			return nil, fmt.Errorf("%w: unexpected issuer", ErrInvalidToken)
		}
	} else {
		if !claims.VerifyAudience(s.projectID, true) {
			return nil, fmt.Errorf("%w: unexpected audience", ErrInvalidToken)
		}
		if !claims.VerifyIssuer("https://securetoken.google.com/"+s.projectID, true) {
			return nil, fmt.Errorf("%w: unexpected issuer", ErrInvalidToken)
		}
	}

	id := &Identity{
		UID:     stringClaim(claims, "user_id"),
		Email:   stringClaim(claims, "email"),
		Name:    stringClaim(claims, "name"),
		Picture: stringClaim(claims, "picture"),
	}
	if id.UID == "" {
		id.UID = stringClaim(claims, "sub")
	}
	if id.UID == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return id, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	v, _ := claims[key].(string)
	return v
}

// signingKey returns the certificate key for kid, refreshing the cached set
// when it has expired or does not know kid.
func (s *AuthService) signingKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	s.mu.RLock()
	key, ok := s.keys[kid]
	fresh := s.now().Before(s.keysUntil)
	s.mu.RUnlock()
	if ok && fresh {
		return key, nil
	}

	if err := s.refreshKeys(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	key, ok = s.keys[kid]
	if !ok {
		return nil, fmt.Errorf("no signing certificate for kid %q", kid)
	}
	return key, nil
}

func (s *AuthService) refreshKeys(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.certsURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build certificate request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch signing certificates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to fetch signing certificates: status %d", resp.StatusCode)
	}

	var certs map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&certs); err != nil {
		return fmt.Errorf("failed to decode signing certificates: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(certs))
	for kid, pem := range certs {
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pem))
		if err != nil {
			return fmt.Errorf("failed to parse certificate %s: %w", kid, err)
		}
		keys[kid] = key
	}

	s.mu.Lock()
	s.keys = keys
	s.keysUntil = s.now().Add(maxAge(resp.Header.Get("Cache-Control")))
	s.mu.Unlock()
	return nil
}

// maxAge extracts max-age from a Cache-Control header. Zero means the keys
// are refetched on the next verification.
func maxAge(cacheControl string) time.Duration {
	for _, directive := range strings.Split(cacheControl, ",") {
		directive = strings.TrimSpace(directive)
		if !strings.HasPrefix(directive, "max-age=") {
			continue
		}
		seconds, err := strconv.Atoi(strings.TrimPrefix(directive, "max-age="))
		if err != nil || seconds < 0 {
			return 0
		}
		return time.Duration(seconds) * time.Second
	}
	return 0
}
