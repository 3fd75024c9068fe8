package repositories

import (
	"context"
	"sort"
	"sync"

	"blogsite/internal/models"

	"github.com/google/uuid"
)

// MockCommentRepository is an in-memory implementation of CommentRepository.
type MockCommentRepository struct {
	comments []models.Comment
	mu       sync.RWMutex
}

// NewMockCommentRepository creates a new instance of MockCommentRepository.
func NewMockCommentRepository() *MockCommentRepository {
	return &MockCommentRepository{}
}

// Create appends a new comment.
func (r *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	r.comments = append(r.comments, *comment)
	return nil
}

// ListByBlog returns the blog's comments, newest first.
func (r *MockCommentRepository) ListByBlog(ctx context.Context, blogID string) ([]models.Comment, error) {
	comments := r.newestFirst(func(c models.Comment) bool { return c.BlogID == blogID })
	return comments, nil
}

// Exists reports whether userEmail already reviewed the blog.
func (r *MockCommentRepository) Exists(ctx context.Context, blogID, userEmail string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.comments {
		if c.BlogID == blogID && c.UserEmail == userEmail {
			return true, nil
		}
	}
	return false, nil
}

// TopRated returns the highest rated comments.
func (r *MockCommentRepository) TopRated(ctx context.Context, limit int) ([]models.Comment, error) {
	comments := r.newestFirst(func(models.Comment) bool { return true })
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].Rating > comments[j].Rating
	})
	if len(comments) > limit {
		comments = comments[:limit]
	}
	return comments, nil
}

func (r *MockCommentRepository) newestFirst(keep func(models.Comment) bool) []models.Comment {
	r.mu.RLock()
	defer r.mu.RUnlock()

	comments := []models.Comment{}
	for i := len(r.comments) - 1; i >= 0; i-- {
		if keep(r.comments[i]) {
			comments = append(comments, r.comments[i])
		}
	}
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
	return comments
}
