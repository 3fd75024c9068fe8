package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"blogsite/internal/models"
	"blogsite/internal/repositories"
	"blogsite/pkg/content"

	"github.com/rs/zerolog"
)

// DefaultRecentLimit is the size of the recent feed when no limit is given.
const DefaultRecentLimit = 6

// Larger limits are clamped to these.
const (
	MaxListLimit   = 100
	MaxRecentLimit = 50
)

// BlogService handles business logic related to blogs and likes.
type BlogService struct {
	blogRepo repositories.BlogRepository
	events   *Events
	cache    FeedCache
	cacheTTL time.Duration
	log      zerolog.Logger
}

// NewBlogService creates a new BlogService. events and cache may be nil.
func NewBlogService(blogRepo repositories.BlogRepository, events *Events, cache FeedCache, cacheTTL time.Duration, log zerolog.Logger) *BlogService {
	return &BlogService{
		blogRepo: blogRepo,
		events:   events,
		cache:    cacheOrNop(cache),
		cacheTTL: cacheTTL,
		log:      log,
	}
}

// CreateBlog stores a new blog written by the caller.
func (s *BlogService) CreateBlog(ctx context.Context, caller *Identity, blog *models.Blog) error {
	if caller.Email != blog.Author.Email {
		return fmt.Errorf("author email does not match the signed-in user: %w", ErrForbidden)
	}

	derived := content.Prepare(content.Fields{Title: blog.Title, LongDescription: blog.LongDescription})
	blog.Slug = derived.Slug
	blog.LongDescription = derived.LongDescription

	now := time.Now().UTC()
	blog.CreatedAt = now
	blog.UpdatedAt = now
	blog.Likes = 0
	blog.LikedBy = []string{}
	if blog.Tags == nil {
		blog.Tags = []string{}
	}

	if err := s.blogRepo.Create(ctx, blog); err != nil {
		return fmt.Errorf("failed to create blog: %w", err)
	}

	s.invalidateRecent(ctx)
	s.events.Emit(EventBlogCreated, caller.Email, map[string]string{"blogId": blog.ID, "title": blog.Title})
	return nil
}

// ListBlogs returns one page of blogs matching filter.
func (s *BlogService) ListBlogs(ctx context.Context, filter models.BlogFilter) (*models.BlogPage, error) {
	if filter.Page < 1 {
		return nil, invalid("page", "must be a positive integer")
	}
	if filter.Limit < 1 {
		return nil, invalid("limit", "must be a positive integer")
	}
	if filter.Limit > MaxListLimit {
		filter.Limit = MaxListLimit
	}
	// (page-1)*limit must fit the store's offset.
	if filter.Page-1 > math.MaxInt/filter.Limit {
		return nil, invalid("page", "is out of range")
	}

	blogs, total, err := s.blogRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list blogs: %w", err)
	}
	if blogs == nil {
		blogs = []models.Blog{}
	}

	return &models.BlogPage{
		Blogs: blogs,
		Pagination: models.Pagination{
			Total:      total,
			Page:       filter.Page,
			Limit:      filter.Limit,
			TotalPages: pageCount(total, filter.Limit),
		},
	}, nil
}

func pageCount(total int64, limit int) int {
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return int(pages)
}

// RecentBlogs returns the newest published blogs. A non-positive limit
// falls back to DefaultRecentLimit and larger ones stop at MaxRecentLimit.
func (s *BlogService) RecentBlogs(ctx context.Context, limit int) ([]models.Blog, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}

	key := fmt.Sprintf("%s%d", recentBlogsPrefix, limit)
	var blogs []models.Blog
	if hit, err := s.cache.Get(ctx, key, &blogs); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
	} else if hit {
		return blogs, nil
	}

	blogs, err := s.blogRepo.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent blogs: %w", err)
	}
	if blogs == nil {
		blogs = []models.Blog{}
	}

	if err := s.cache.Set(ctx, key, blogs, s.cacheTTL); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
	return blogs, nil
}

// GetBlog retrieves a single blog by its ID.
func (s *BlogService) GetBlog(ctx context.Context, id string) (*models.Blog, error) {
	return s.blogRepo.GetByID(ctx, id)
}

// UpdateBlog applies update to a blog the caller wrote and returns the
// stored result. A new title re-derives the slug.
func (s *BlogService) UpdateBlog(ctx context.Context, caller *Identity, id string, update models.BlogUpdate) (*models.Blog, error) {
	blog, err := s.blogRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if blog.Author.Email != caller.Email {
		return nil, fmt.Errorf("you can only update your own blogs: %w", ErrForbidden)
	}
	if update.Empty() {
		return nil, ErrNoChanges
	}

	fields := content.Fields{Title: blog.Title, LongDescription: blog.LongDescription}
	if update.Title != nil {
		fields.Title = *update.Title
	}
	if update.LongDescription != nil {
		fields.LongDescription = *update.LongDescription
	}
	derived := content.Prepare(fields)
	if update.Title != nil {
		update.Slug = &derived.Slug
	}
	if update.LongDescription != nil {
		update.LongDescription = &derived.LongDescription
	}

	if err := s.blogRepo.UpdateFields(ctx, id, update); err != nil {
		return nil, fmt.Errorf("failed to update blog %s: %w", id, err)
	}

	updated, err := s.blogRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload blog %s: %w", id, err)
	}

	s.invalidateRecent(ctx)
	s.events.Emit(EventBlogUpdated, caller.Email, map[string]interface{}{"blogId": id, "fields": update.Fields()})
	return updated, nil
}

// ToggleLike flips the caller's like on a blog and returns the new state
// and like count.
func (s *BlogService) ToggleLike(ctx context.Context, caller *Identity, id string) (bool, int, error) {
	blog, err := s.blogRepo.GetByID(ctx, id)
	if err != nil {
		return false, 0, err
	}

	liked := !blog.IsLikedBy(caller.Email)
	if err := s.blogRepo.SetLike(ctx, id, caller.Email, liked); err != nil {
		return false, 0, fmt.Errorf("failed to toggle like on blog %s: %w", id, err)
	}

	updated, err := s.blogRepo.GetByID(ctx, id)
	if err != nil {
		return false, 0, fmt.Errorf("failed to reload blog %s: %w", id, err)
	}

	s.invalidateRecent(ctx)
	s.events.Emit(EventBlogLiked, caller.Email, map[string]interface{}{"blogId": id, "liked": liked, "likes": updated.Likes})
	return updated.IsLikedBy(caller.Email), updated.Likes, nil
}

// IsLikedBy reports whether email likes the blog.
func (s *BlogService) IsLikedBy(ctx context.Context, id, email string) (bool, error) {
	blog, err := s.blogRepo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return blog.IsLikedBy(email), nil
}

// LikedByCaller returns every blog the caller likes.
func (s *BlogService) LikedByCaller(ctx context.Context, caller *Identity) ([]models.Blog, error) {
	blogs, err := s.blogRepo.LikedBy(ctx, caller.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to get liked blogs: %w", err)
	}
	if blogs == nil {
		blogs = []models.Blog{}
	}
	return blogs, nil
}

func (s *BlogService) invalidateRecent(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, recentBlogsPrefix); err != nil {
		s.log.Warn().Err(err).Msg("failed to invalidate recent blogs cache")
	}
}
