package middleware

import (
	"strings"

	"blogsite/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

const identityKey = "identity"

// AuthRequired rejects requests without a valid bearer token. A missing or
// malformed header is 401, a token that fails verification is 403.
func AuthRequired(verifier services.TokenVerifier, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unauthorized: No token",
			})
		}

		token, ok := bearerToken(authHeader)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		id, err := verifier.VerifyToken(c.UserContext(), token)
		if err != nil {
			log.Warn().Err(err).Str("path", c.Path()).Msg("token verification failed")
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Forbidden: Invalid token",
			})
		}

		c.Locals(identityKey, id)
		return c.Next()
	}
}

// AuthOptional attaches the caller when a valid token is present. Requests
// with a missing, malformed or rejected token continue anonymously.
func AuthOptional(verifier services.TokenVerifier, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Next()
		}

		token, ok := bearerToken(authHeader)
		if !ok {
			log.Warn().Str("path", c.Path()).Msg("malformed authorization header, continuing anonymously")
			return c.Next()
		}

		id, err := verifier.VerifyToken(c.UserContext(), token)
		if err != nil {
			log.Warn().Err(err).Str("path", c.Path()).Msg("token verification failed, continuing anonymously")
			return c.Next()
		}

		c.Locals(identityKey, id)
		return c.Next()
	}
}

// bearerToken extracts the token from "Bearer <token>".
func bearerToken(authHeader string) (string, bool) {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// IdentityFrom returns the verified caller, or nil for anonymous requests.
func IdentityFrom(c *fiber.Ctx) *services.Identity {
	id, _ := c.Locals(identityKey).(*services.Identity)
	return id
}
