package handlers

import (
	"blogsite/internal/middleware"
	"blogsite/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// CommentHandler handles HTTP requests for reviews.
type CommentHandler struct {
	service  *services.CommentService
	validate *validator.Validate
	log      zerolog.Logger
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(service *services.CommentService, log zerolog.Logger) *CommentHandler {
	return &CommentHandler{
		service:  service,
		validate: validator.New(),
		log:      log,
	}
}

// RegisterRoutes registers the comment routes.
func (h *CommentHandler) RegisterRoutes(router fiber.Router, guards Guards) {
	commentRoutes := router.Group("/comments")
	commentRoutes.Get("/top-rated", h.HandleTopRated)
	commentRoutes.Get("/", guards.Optional, h.HandleListComments)
	commentRoutes.Post("/", guards.Required, h.HandleAddComment)
}

// AddCommentRequest represents the request body for a review.
type AddCommentRequest struct {
	BlogID    string `json:"blogId" validate:"required"`
	Text      string `json:"text" validate:"required"`
	UserName  string `json:"userName" validate:"required"`
	UserImage string `json:"userImage"`
	Rating    *int   `json:"rating" validate:"required"`
}

// HandleListComments lists a blog's comments with the caller's flags.
func (h *CommentHandler) HandleListComments(c *fiber.Ctx) error {
	thread, err := h.service.ListComments(c.UserContext(), c.Query("blogId"), middleware.IdentityFrom(c))
	if err != nil {
		return respondError(c, h.log, err, "Could not retrieve comments")
	}
	return c.JSON(thread)
}

// HandleAddComment stores a review and returns the refreshed list.
func (h *CommentHandler) HandleAddComment(c *fiber.Ctx) error {
	var req AddCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if rejected, err := validateStruct(c, h.validate, req); rejected {
		return err
	}

	comments, err := h.service.AddComment(c.UserContext(), middleware.IdentityFrom(c), services.NewComment{
		BlogID:    req.BlogID,
		Text:      req.Text,
		UserName:  req.UserName,
		UserImage: req.UserImage,
		Rating:    *req.Rating,
	})
	if err != nil {
		return respondError(c, h.log, err, "Could not add comment")
	}
	return c.Status(fiber.StatusCreated).JSON(comments)
}

// HandleTopRated returns the best rated comments across all blogs.
func (h *CommentHandler) HandleTopRated(c *fiber.Ctx) error {
	comments, err := h.service.TopRated(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err, "Could not retrieve top rated comments")
	}
	return c.JSON(comments)
}
