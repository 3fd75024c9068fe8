package handlers

import (
	"blogsite/internal/middleware"
	"blogsite/internal/models"
	"blogsite/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// UserHandler handles HTTP requests for user profiles.
type UserHandler struct {
	service  *services.UserService
	validate *validator.Validate
	log      zerolog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService, log zerolog.Logger) *UserHandler {
	return &UserHandler{
		service:  service,
		validate: validator.New(),
		log:      log,
	}
}

// RegisterRoutes registers the user routes. Every route needs a caller.
func (h *UserHandler) RegisterRoutes(router fiber.Router, guards Guards) {
	userRoutes := router.Group("/users", guards.Required)
	userRoutes.Post("/", h.HandleSaveUser)
	userRoutes.Get("/", h.HandleGetUser)
	userRoutes.Put("/:id", h.HandleUpdateUser)
}

// HandleSaveUser stores the caller's profile on first sign-in.
func (h *UserHandler) HandleSaveUser(c *fiber.Ctx) error {
	var user models.User
	if err := c.BodyParser(&user); err != nil {
		return invalidBody(c, err)
	}
	if rejected, err := validateStruct(c, h.validate, user); rejected {
		return err
	}
	user.ID = ""

	created, err := h.service.SaveUser(c.UserContext(), middleware.IdentityFrom(c), &user)
	if err != nil {
		return respondError(c, h.log, err, "Error saving user")
	}
	if !created {
		return c.JSON(fiber.Map{"message": "User already exists"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully",
		"user":    user,
	})
}

// HandleGetUser fetches a profile by email or uid.
func (h *UserHandler) HandleGetUser(c *fiber.Ctx) error {
	user, err := h.service.GetUser(c.UserContext(), c.Query("email"), c.Query("uid"))
	if err != nil {
		return respondError(c, h.log, err, "Error fetching user")
	}
	return c.JSON(user)
}

// HandleUpdateUser patches the caller's own profile.
func (h *UserHandler) HandleUpdateUser(c *fiber.Ctx) error {
	var patch models.ProfilePatch
	if err := c.BodyParser(&patch); err != nil {
		return invalidBody(c, err)
	}
	if rejected, err := validateStruct(c, h.validate, patch); rejected {
		return err
	}

	user, err := h.service.UpdateProfile(c.UserContext(), middleware.IdentityFrom(c), c.Params("id"), patch)
	if err != nil {
		return respondError(c, h.log, err, "Error updating user")
	}
	return c.JSON(fiber.Map{
		"message": "User updated successfully",
		"user":    user,
	})
}
