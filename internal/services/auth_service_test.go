package services_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"blogsite/internal/services"
	"blogsite/pkg/identity"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_LocalToken(t *testing.T) {
	service := services.NewLocalAuthService("test_jwt_secret")

	token, err := identity.MintToken([]byte("test_jwt_secret"), identity.Claims{
		UID: "uid-1", Email: "ada@example.com", Name: "Ada", Picture: "https://img/ada.png",
	}, time.Hour)
	require.NoError(t, err)

	id, err := service.VerifyToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, &services.Identity{UID: "uid-1", Email: "ada@example.com", Name: "Ada", Picture: "https://img/ada.png"}, id)
}

func TestAuthService_LocalTokenRejected(t *testing.T) {
	service := services.NewLocalAuthService("test_jwt_secret")

	wrongSecret, err := identity.MintToken([]byte("other"), identity.Claims{UID: "u"}, time.Hour)
	require.NoError(t, err)
	_, err = service.VerifyToken(context.Background(), wrongSecret)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	expired, err := identity.MintToken([]byte("test_jwt_secret"), identity.Claims{UID: "u"}, -time.Minute)
	require.NoError(t, err)
	_, err = service.VerifyToken(context.Background(), expired)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u", "iss": "someone-else", "exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := foreign.SignedString([]byte("test_jwt_secret"))
	require.NoError(t, err)
	_, err = service.VerifyToken(context.Background(), signed)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	_, err = service.VerifyToken(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}

type certServer struct {
	*httptest.Server
	key     *rsa.PrivateKey
	fetches int32
}

func newCertServer(t *testing.T) *certServer {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "securetoken"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)
	certPEM := string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}))

	cs := &certServer{key: key}
	cs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&cs.fetches, 1)
		w.Header().Set("Cache-Control", "public, max-age=3600, must-revalidate")
		_ = json.NewEncoder(w).Encode(map[string]string{"kid-1": certPEM})
	}))
	return cs
}

func (cs *certServer) sign(t *testing.T, kid string, claims jwt.MapClaims) string {
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(cs.key)
	require.NoError(t, err)
	return signed
}

func firebaseClaims(projectID string) jwt.MapClaims {
	return jwt.MapClaims{
		"iss":     "https://securetoken.google.com/" + projectID,
		"aud":     projectID,
		"sub":     "uid-1",
		"user_id": "uid-1",
		"email":   "ada@example.com",
		"name":    "Ada",
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
}

func TestAuthService_FirebaseToken(t *testing.T) {
	cs := newCertServer(t)
	defer cs.Close()
	service := services.NewFirebaseAuthService("my-blog", cs.URL, cs.Client())

	for i := 0; i < 3; i++ {
		id, err := service.VerifyToken(context.Background(), cs.sign(t, "kid-1", firebaseClaims("my-blog")))
		require.NoError(t, err)
		assert.Equal(t, "uid-1", id.UID)
		assert.Equal(t, "ada@example.com", id.Email)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&cs.fetches), "certificates are cached for max-age")
}

func TestAuthService_FirebaseTokenRejected(t *testing.T) {
	cs := newCertServer(t)
	defer cs.Close()
	service := services.NewFirebaseAuthService("my-blog", cs.URL, cs.Client())
	ctx := context.Background()

	_, err := service.VerifyToken(ctx, cs.sign(t, "kid-1", firebaseClaims("other-project")))
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	_, err = service.VerifyToken(ctx, cs.sign(t, "unknown-kid", firebaseClaims("my-blog")))
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	hs, err := identity.MintToken([]byte("secret"), identity.Claims{UID: "u"}, time.Hour)
	require.NoError(t, err)
	_, err = service.VerifyToken(ctx, hs)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}
