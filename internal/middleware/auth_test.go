package middleware_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"blogsite/internal/middleware"
	"blogsite/internal/services"
	"blogsite/pkg/identity"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test_jwt_secret"

func setupApp() *fiber.App {
	verifier := services.NewLocalAuthService(secret)
	app := fiber.New()
	app.Use(middleware.RequestLogger(zerolog.Nop()))

	whoami := func(c *fiber.Ctx) error {
		id := middleware.IdentityFrom(c)
		if id == nil {
			return c.JSON(fiber.Map{"email": ""})
		}
		return c.JSON(fiber.Map{"email": id.Email})
	}
	app.Get("/required", middleware.AuthRequired(verifier, zerolog.Nop()), whoami)
	app.Get("/optional", middleware.AuthOptional(verifier, zerolog.Nop()), whoami)
	return app
}

func mint(t *testing.T, key string) string {
	token, err := identity.MintToken([]byte(key), identity.Claims{UID: "u1", Email: "ada@example.com"}, time.Hour)
	require.NoError(t, err)
	return token
}

func do(t *testing.T, app *fiber.App, path, authHeader string) (int, string) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	var body map[string]interface{}
	_ = json.Unmarshal(buf.Bytes(), &body)
	email, _ := body["email"].(string)
	return resp.StatusCode, email
}

func TestAuthRequired(t *testing.T) {
	app := setupApp()

	status, _ := do(t, app, "/required", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = do(t, app, "/required", "Token abc")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = do(t, app, "/required", "Bearer "+mint(t, "wrong-secret"))
	assert.Equal(t, http.StatusForbidden, status)

	status, email := do(t, app, "/required", "Bearer "+mint(t, secret))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ada@example.com", email)
}

func TestAuthOptional(t *testing.T) {
	app := setupApp()

	status, email := do(t, app, "/optional", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, email)

	status, email = do(t, app, "/optional", "Bearer garbage")
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, email)

	status, email = do(t, app, "/optional", "Bearer "+mint(t, "wrong-secret"))
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, email)

	status, email = do(t, app, "/optional", "Token abc")
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, email)

	status, email = do(t, app, "/optional", "Bearer "+mint(t, secret))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ada@example.com", email)
}
