package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"blogsite/internal/models"
	"blogsite/internal/repositories"

	"github.com/rs/zerolog"
)

// TopRatedLimit is the size of the top-rated feed.
const TopRatedLimit = 3

// NewComment is the caller-supplied part of a review.
type NewComment struct {
	BlogID    string
	Text      string
	UserName  string
	UserImage string
	Rating    int
}

// CommentService handles business logic related to reviews.
type CommentService struct {
	commentRepo repositories.CommentRepository
	blogRepo    repositories.BlogRepository
	events      *Events
	cache       FeedCache
	cacheTTL    time.Duration
	log         zerolog.Logger
}

// NewCommentService creates a new CommentService. events and cache may be nil.
func NewCommentService(commentRepo repositories.CommentRepository, blogRepo repositories.BlogRepository, events *Events, cache FeedCache, cacheTTL time.Duration, log zerolog.Logger) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		blogRepo:    blogRepo,
		events:      events,
		cache:       cacheOrNop(cache),
		cacheTTL:    cacheTTL,
		log:         log,
	}
}

// ListComments returns the blog's comments, newest first. For a signed-in
// caller it also reports whether they wrote the blog or already reviewed it.
// caller may be nil.
func (s *CommentService) ListComments(ctx context.Context, blogID string, caller *Identity) (*models.CommentThread, error) {
	if blogID == "" {
		return nil, invalid("blogId", "query parameter is required")
	}

	comments, err := s.listByBlog(ctx, blogID)
	if err != nil {
		return nil, err
	}
	thread := &models.CommentThread{Comments: comments}
	if caller == nil || caller.Email == "" {
		return thread, nil
	}

	blog, err := s.blogRepo.GetByID(ctx, blogID)
	if errors.Is(err, repositories.ErrNotFound) {
		return thread, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get blog %s: %w", blogID, err)
	}

	thread.IsOwner = blog.Author.Email == caller.Email
	if !thread.IsOwner {
		thread.HasReviewed, err = s.commentRepo.Exists(ctx, blogID, caller.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to check review: %w", err)
		}
	}
	return thread, nil
}

// AddComment stores a review by the caller and returns the blog's refreshed
// comment list. Authors cannot review their own blog and a caller reviews
// a blog at most once.
func (s *CommentService) AddComment(ctx context.Context, caller *Identity, input NewComment) ([]models.Comment, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, invalid("rating", "rating must be a number between 1 and 5")
	}

	blog, err := s.blogRepo.GetByID(ctx, input.BlogID)
	if err != nil {
		return nil, err
	}
	if blog.Author.Email == caller.Email {
		return nil, ErrSelfReview
	}

	reviewed, err := s.commentRepo.Exists(ctx, input.BlogID, caller.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check review: %w", err)
	}
	if reviewed {
		return nil, fmt.Errorf("you have already reviewed this blog: %w", ErrConflict)
	}

	comment := &models.Comment{
		BlogID:    input.BlogID,
		Text:      input.Text,
		Rating:    input.Rating,
		UserName:  input.UserName,
		UserImage: input.UserImage,
		UserEmail: caller.Email,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	if err := s.cache.Invalidate(ctx, topRatedKey); err != nil {
		s.log.Warn().Err(err).Msg("failed to invalidate top-rated cache")
	}
	s.events.Emit(EventCommentCreated, caller.Email, map[string]interface{}{"blogId": input.BlogID, "commentId": comment.ID, "rating": comment.Rating})

	return s.listByBlog(ctx, input.BlogID)
}

// TopRated returns the highest rated comments across all blogs.
func (s *CommentService) TopRated(ctx context.Context) ([]models.Comment, error) {
	var comments []models.Comment
	if hit, err := s.cache.Get(ctx, topRatedKey, &comments); err != nil {
		s.log.Warn().Err(err).Str("key", topRatedKey).Msg("cache read failed")
	} else if hit {
		return comments, nil
	}

	comments, err := s.commentRepo.TopRated(ctx, TopRatedLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top rated comments: %w", err)
	}
	if comments == nil {
		comments = []models.Comment{}
	}

	if err := s.cache.Set(ctx, topRatedKey, comments, s.cacheTTL); err != nil {
		s.log.Warn().Err(err).Str("key", topRatedKey).Msg("cache write failed")
	}
	return comments, nil
}

func (s *CommentService) listByBlog(ctx context.Context, blogID string) ([]models.Comment, error) {
	comments, err := s.commentRepo.ListByBlog(ctx, blogID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return comments, nil
}
