package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"

	"blogsite/internal/middleware"
	"blogsite/internal/models"
	"blogsite/internal/services"
	"blogsite/pkg/content"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// Listing defaults.
const (
	defaultPage  = 1
	defaultLimit = 10
)

// BlogHandler handles HTTP requests for blogs and likes.
type BlogHandler struct {
	service  *services.BlogService
	validate *validator.Validate
	log      zerolog.Logger
}

// NewBlogHandler creates a new BlogHandler.
func NewBlogHandler(service *services.BlogService, log zerolog.Logger) *BlogHandler {
	return &BlogHandler{
		service:  service,
		validate: validator.New(),
		log:      log,
	}
}

// RegisterRoutes registers the blog routes. Fixed paths go before /:id.
func (h *BlogHandler) RegisterRoutes(router fiber.Router, guards Guards) {
	blogRoutes := router.Group("/blogs")
	blogRoutes.Get("/recent", guards.Optional, h.HandleRecentBlogs)
	blogRoutes.Get("/liked/user", guards.Required, h.HandleLikedBlogs)
	blogRoutes.Get("/:id/liked-by/:email", guards.Required, h.HandleIsLikedBy)
	blogRoutes.Post("/", guards.Required, h.HandleCreateBlog)
	blogRoutes.Get("/", guards.Optional, h.HandleListBlogs)
	blogRoutes.Get("/:id", guards.Required, h.HandleGetBlog)
	blogRoutes.Put("/:id", guards.Required, h.HandleUpdateBlog)
	blogRoutes.Post("/:id/like", guards.Required, h.HandleToggleLike)
}

// tagList accepts either a JSON array or a comma separated string.
type tagList []string

func (t *tagList) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte(`"`)) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = content.ParseTags(s)
		return nil
	}
	var tags []string
	if err := json.Unmarshal(data, &tags); err != nil {
		return err
	}
	*t = tags
	return nil
}

// CreateBlogRequest represents the request body for a new blog.
type CreateBlogRequest struct {
	Title            string        `json:"title" validate:"required"`
	Image            string        `json:"image"`
	Category         string        `json:"category" validate:"required"`
	ShortDescription string        `json:"shortDescription"`
	LongDescription  string        `json:"longDescription"`
	Tags             tagList       `json:"tags"`
	ReadTime         string        `json:"readTime"`
	IsFeatured       bool          `json:"isFeatured"`
	IsPublished      bool          `json:"isPublished"`
	Author           models.Author `json:"author" validate:"required"`
}

// HandleCreateBlog creates a blog written by the caller.
func (h *BlogHandler) HandleCreateBlog(c *fiber.Ctx) error {
	var req CreateBlogRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if rejected, err := validateStruct(c, h.validate, req); rejected {
		return err
	}

	blog := &models.Blog{
		Title:            req.Title,
		Image:            req.Image,
		Category:         req.Category,
		ShortDescription: req.ShortDescription,
		LongDescription:  req.LongDescription,
		Tags:             []string(req.Tags),
		ReadTime:         req.ReadTime,
		IsFeatured:       req.IsFeatured,
		IsPublished:      req.IsPublished,
		Author:           req.Author,
	}
	if err := h.service.CreateBlog(c.UserContext(), middleware.IdentityFrom(c), blog); err != nil {
		return respondError(c, h.log, err, "Could not create blog")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Blog created",
		"blogId":  blog.ID,
	})
}

// HandleListBlogs lists blogs with optional search, category and author
// filters.
func (h *BlogHandler) HandleListBlogs(c *fiber.Ctx) error {
	page, err := positiveQuery(c, "page", defaultPage)
	if err != nil {
		return respondError(c, h.log, err, "Could not list blogs")
	}
	limit, err := positiveQuery(c, "limit", defaultLimit)
	if err != nil {
		return respondError(c, h.log, err, "Could not list blogs")
	}

	result, err := h.service.ListBlogs(c.UserContext(), models.BlogFilter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Author:   c.Query("author"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return respondError(c, h.log, err, "Could not list blogs")
	}
	return c.JSON(result)
}

func positiveQuery(c *fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, &services.ValidationError{Field: key, Message: "must be a positive integer"}
	}
	return n, nil
}

// HandleRecentBlogs returns the newest published blogs.
func (h *BlogHandler) HandleRecentBlogs(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit"))
	blogs, err := h.service.RecentBlogs(c.UserContext(), limit)
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch recent blogs")
	}
	return c.JSON(blogs)
}

// HandleGetBlog returns a single blog.
func (h *BlogHandler) HandleGetBlog(c *fiber.Ctx) error {
	blog, err := h.service.GetBlog(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err, "Could not retrieve blog")
	}
	return c.JSON(blog)
}

// HandleUpdateBlog updates a blog the caller wrote.
func (h *BlogHandler) HandleUpdateBlog(c *fiber.Ctx) error {
	var update models.BlogUpdate
	if err := c.BodyParser(&update); err != nil {
		return invalidBody(c, err)
	}
	if rejected, err := validateStruct(c, h.validate, update); rejected {
		return err
	}

	blog, err := h.service.UpdateBlog(c.UserContext(), middleware.IdentityFrom(c), c.Params("id"), update)
	if errors.Is(err, services.ErrNoChanges) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "No changes made to the blog",
		})
	}
	if err != nil {
		return respondError(c, h.log, err, "Could not update blog")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Blog updated successfully",
		"blog":    blog,
	})
}

// HandleToggleLike likes or unlikes a blog for the caller.
func (h *BlogHandler) HandleToggleLike(c *fiber.Ctx) error {
	liked, likes, err := h.service.ToggleLike(c.UserContext(), middleware.IdentityFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err, "Could not toggle like")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"liked":   liked,
		"likes":   likes,
	})
}

// HandleIsLikedBy reports whether the given email likes the blog.
func (h *BlogHandler) HandleIsLikedBy(c *fiber.Ctx) error {
	email, err := url.PathUnescape(c.Params("email"))
	if err != nil {
		return invalidBody(c, err)
	}
	liked, err := h.service.IsLikedBy(c.UserContext(), c.Params("id"), email)
	if err != nil {
		return respondError(c, h.log, err, "Could not check like")
	}
	return c.JSON(fiber.Map{"liked": liked})
}

// HandleLikedBlogs lists the blogs the caller likes.
func (h *BlogHandler) HandleLikedBlogs(c *fiber.Ctx) error {
	blogs, err := h.service.LikedByCaller(c.UserContext(), middleware.IdentityFrom(c))
	if err != nil {
		return respondError(c, h.log, err, "Could not retrieve liked blogs")
	}
	return c.JSON(blogs)
}
