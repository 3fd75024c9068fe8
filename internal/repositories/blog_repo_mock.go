package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"blogsite/internal/models"

	"github.com/google/uuid"
)

// MockBlogRepository is an in-memory implementation of BlogRepository.
type MockBlogRepository struct {
	blogs map[string]models.Blog
	seq   map[string]int
	next  int
	mu    sync.RWMutex
}

// NewMockBlogRepository creates a new instance of MockBlogRepository.
func NewMockBlogRepository() *MockBlogRepository {
	return &MockBlogRepository{
		blogs: make(map[string]models.Blog),
		seq:   make(map[string]int),
	}
}

// Create adds a new blog.
func (r *MockBlogRepository) Create(ctx context.Context, blog *models.Blog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if blog.ID == "" {
		blog.ID = uuid.New().String()
	}
	if blog.Tags == nil {
		blog.Tags = []string{}
	}
	if blog.LikedBy == nil {
		blog.LikedBy = []string{}
	}
	r.blogs[blog.ID] = *blog
	r.seq[blog.ID] = r.next
	r.next++
	return nil
}

// GetByID returns a blog by its ID.
func (r *MockBlogRepository) GetByID(ctx context.Context, id string) (*models.Blog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	blog, ok := r.blogs[id]
	if !ok {
		return nil, notFound("blog", id)
	}
	return &blog, nil
}

// List returns one page of matching blogs, newest first.
func (r *MockBlogRepository) List(ctx context.Context, filter models.BlogFilter) ([]models.Blog, int64, error) {
	matches := r.sorted(func(b models.Blog) bool {
		if filter.Search != "" && !matchesSearch(b, filter.Search) {
			return false
		}
		if filter.Category != "" && b.Category != filter.Category {
			return false
		}
		if filter.Author != "" && b.Author.Email != filter.Author {
			return false
		}
		return true
	})

	total := int64(len(matches))
	start := (filter.Page - 1) * filter.Limit
	if start >= len(matches) {
		return []models.Blog{}, total, nil
	}
	end := start + filter.Limit
	if end > len(matches) {
		end = len(matches)
	}
	return matches[start:end], total, nil
}

func matchesSearch(b models.Blog, search string) bool {
	needle := strings.ToLower(search)
	for _, field := range []string{b.Title, b.ShortDescription, b.LongDescription} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// Recent returns the newest published blogs.
func (r *MockBlogRepository) Recent(ctx context.Context, limit int) ([]models.Blog, error) {
	blogs := r.sorted(func(b models.Blog) bool { return b.IsPublished })
	if len(blogs) > limit {
		blogs = blogs[:limit]
	}
	return blogs, nil
}

// UpdateFields applies update to the stored blog.
func (r *MockBlogRepository) UpdateFields(ctx context.Context, id string, update models.BlogUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	blog, ok := r.blogs[id]
	if !ok {
		return notFound("blog", id)
	}
	update.Apply(&blog)
	blog.UpdatedAt = time.Now()
	r.blogs[id] = blog
	return nil
}

// SetLike adds or removes email from the liker set.
func (r *MockBlogRepository) SetLike(ctx context.Context, id, email string, liked bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	blog, ok := r.blogs[id]
	if !ok {
		return notFound("blog", id)
	}
	if blog.IsLikedBy(email) == liked {
		return nil
	}

	likedBy := make([]string, 0, len(blog.LikedBy)+1)
	for _, e := range blog.LikedBy {
		if e != email {
			likedBy = append(likedBy, e)
		}
	}
	if liked {
		likedBy = append(likedBy, email)
		blog.Likes++
	} else {
		blog.Likes--
	}
	blog.LikedBy = likedBy
	blog.UpdatedAt = time.Now()
	r.blogs[id] = blog
	return nil
}

// LikedBy returns the blogs whose liker set contains email.
func (r *MockBlogRepository) LikedBy(ctx context.Context, email string) ([]models.Blog, error) {
	return r.sorted(func(b models.Blog) bool { return b.IsLikedBy(email) }), nil
}

// sorted returns the blogs accepted by keep, newest first. Blogs created at
// the same instant are ordered by insertion, latest first.
func (r *MockBlogRepository) sorted(keep func(models.Blog) bool) []models.Blog {
	r.mu.RLock()
	defer r.mu.RUnlock()

	blogs := []models.Blog{}
	for _, b := range r.blogs {
		if keep(b) {
			blogs = append(blogs, b)
		}
	}
	sort.Slice(blogs, func(i, j int) bool {
		if !blogs[i].CreatedAt.Equal(blogs[j].CreatedAt) {
			return blogs[i].CreatedAt.After(blogs[j].CreatedAt)
		}
		return r.seq[blogs[i].ID] > r.seq[blogs[j].ID]
	})
	return blogs
}
