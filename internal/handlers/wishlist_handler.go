package handlers

import (
	"net/url"

	"blogsite/internal/middleware"
	"blogsite/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// WishlistHandler handles HTTP requests for bookmarks.
type WishlistHandler struct {
	service  *services.WishlistService
	validate *validator.Validate
	log      zerolog.Logger
}

// NewWishlistHandler creates a new WishlistHandler.
func NewWishlistHandler(service *services.WishlistService, log zerolog.Logger) *WishlistHandler {
	return &WishlistHandler{
		service:  service,
		validate: validator.New(),
		log:      log,
	}
}

// RegisterRoutes registers the wishlist routes. Every route needs a caller.
func (h *WishlistHandler) RegisterRoutes(router fiber.Router, guards Guards) {
	wishlistRoutes := router.Group("/wishlist", guards.Required)
	wishlistRoutes.Post("/", h.HandleAdd)
	wishlistRoutes.Get("/details/:email", h.HandleDetails)
	wishlistRoutes.Delete("/:id", h.HandleRemove)
}

// AddWishlistRequest represents the request body for a bookmark.
type AddWishlistRequest struct {
	UserEmail string `json:"userEmail" validate:"required,email"`
	BlogID    string `json:"blogId" validate:"required"`
}

// HandleAdd bookmarks a blog for the caller.
func (h *WishlistHandler) HandleAdd(c *fiber.Ctx) error {
	var req AddWishlistRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if rejected, err := validateStruct(c, h.validate, req); rejected {
		return err
	}

	added, err := h.service.AddToWishlist(c.UserContext(), middleware.IdentityFrom(c), req.UserEmail, req.BlogID)
	if err != nil {
		return respondError(c, h.log, err, "Could not add to wishlist")
	}
	if !added {
		return c.JSON(fiber.Map{
			"success": false,
			"message": "Already in wishlist",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true})
}

// HandleDetails lists the caller's bookmarks joined with their blogs.
func (h *WishlistHandler) HandleDetails(c *fiber.Ctx) error {
	email, err := url.PathUnescape(c.Params("email"))
	if err != nil {
		return invalidBody(c, err)
	}

	items, err := h.service.WishlistDetails(c.UserContext(), middleware.IdentityFrom(c), email)
	if err != nil {
		return respondError(c, h.log, err, "Could not retrieve wishlist")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    items,
	})
}

// HandleRemove deletes one of the caller's bookmarks.
func (h *WishlistHandler) HandleRemove(c *fiber.Ctx) error {
	if err := h.service.RemoveFromWishlist(c.UserContext(), middleware.IdentityFrom(c), c.Params("id")); err != nil {
		return respondError(c, h.log, err, "Could not remove from wishlist")
	}
	return c.JSON(fiber.Map{"success": true})
}
