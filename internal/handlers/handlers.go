package handlers

import (
	"errors"
	"fmt"
	"strings"

	"blogsite/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// Guards are the auth middlewares routes are registered behind.
type Guards struct {
	Required fiber.Handler
	Optional fiber.Handler
}

// respondError maps a service error to its status code. Store failures are
// logged and answered with fallback as the message.
func respondError(c *fiber.Ctx, log zerolog.Logger, err error, fallback string) error {
	status := fiber.StatusInternalServerError
	message := fallback

	var verr *services.ValidationError
	var nferr *services.NotFoundError
	switch {
	case errors.As(err, &verr):
		status, message = fiber.StatusBadRequest, verr.Error()
	case errors.As(err, &nferr):
		status, message = fiber.StatusNotFound, notFoundMessage(nferr.Resource)
	case errors.Is(err, services.ErrNotFound):
		status, message = fiber.StatusNotFound, "Not found"
	case errors.Is(err, services.ErrSelfReview):
		status, message = fiber.StatusForbidden, "You cannot review your own blog"
	case errors.Is(err, services.ErrForbidden):
		status, message = fiber.StatusForbidden, "Forbidden"
	case errors.Is(err, services.ErrConflict):
		status, message = fiber.StatusConflict, "Conflict"
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg(fallback)
	}

	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

// notFoundMessage turns "wishlist entry" into "Wishlist entry not found".
func notFoundMessage(resource string) string {
	if resource == "" {
		return "Not found"
	}
	return strings.ToUpper(resource[:1]) + resource[1:] + " not found"
}

func invalidBody(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}

// validateStruct answers 400 with one message per failing field and
// reports whether the request was rejected.
func validateStruct(c *fiber.Ctx, validate *validator.Validate, s interface{}) (bool, error) {
	err := validate.Struct(s)
	if err == nil {
		return false, nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return true, invalidBody(c, err)
	}
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return true, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}
