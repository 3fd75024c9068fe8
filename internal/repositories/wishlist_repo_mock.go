package repositories

import (
	"context"
	"sync"

	"blogsite/internal/models"

	"github.com/google/uuid"
)

// MockWishlistRepository is an in-memory implementation of WishlistRepository.
// Details joins against the given blog repository.
type MockWishlistRepository struct {
	entries []models.WishlistEntry
	blogs   BlogRepository
	mu      sync.RWMutex
}

// NewMockWishlistRepository creates a new instance of MockWishlistRepository.
func NewMockWishlistRepository(blogs BlogRepository) *MockWishlistRepository {
	return &MockWishlistRepository{blogs: blogs}
}

// Create appends a new entry.
func (r *MockWishlistRepository) Create(ctx context.Context, entry *models.WishlistEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	r.entries = append(r.entries, *entry)
	return nil
}

// Exists reports whether the user already bookmarked the blog.
func (r *MockWishlistRepository) Exists(ctx context.Context, userEmail, blogID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.entries {
		if e.UserEmail == userEmail && e.BlogID == blogID {
			return true, nil
		}
	}
	return false, nil
}

// GetByID returns a single entry.
func (r *MockWishlistRepository) GetByID(ctx context.Context, id string) (*models.WishlistEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.entries {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, notFound("wishlist entry", id)
}

// Delete removes an entry if present.
func (r *MockWishlistRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, e := range r.entries {
		if e.ID == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			break
		}
	}
	return nil
}

// Details joins the user's entries with their blogs.
func (r *MockWishlistRepository) Details(ctx context.Context, userEmail string) ([]models.WishlistItem, error) {
	r.mu.RLock()
	var entries []models.WishlistEntry
	for _, e := range r.entries {
		if e.UserEmail == userEmail {
			entries = append(entries, e)
		}
	}
	r.mu.RUnlock()

	var blogs []models.Blog
	for _, e := range entries {
		blog, err := r.blogs.GetByID(ctx, e.BlogID)
		if err != nil {
			continue
		}
		blogs = append(blogs, *blog)
	}
	return joinWishlist(entries, blogs), nil
}
