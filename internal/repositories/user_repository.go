package repositories

import (
	"context"
	"errors"
	"fmt"

	"blogsite/internal/models"
)

// ErrNotFound is returned when no document matches the lookup.
var ErrNotFound = errors.New("not found")

// NotFoundError names the kind of document a lookup missed. It matches
// ErrNotFound under errors.Is.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Resource, e.Key, ErrNotFound)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func notFound(resource, key string) error {
	return &NotFoundError{Resource: resource, Key: key}
}

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUID(ctx context.Context, uid string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

// BlogRepository defines the interface for blog data access.
type BlogRepository interface {
	Create(ctx context.Context, blog *models.Blog) error
	GetByID(ctx context.Context, id string) (*models.Blog, error)
	// List returns one page of matches, newest first, and the total match count.
	List(ctx context.Context, filter models.BlogFilter) ([]models.Blog, int64, error)
	// Recent returns the newest published blogs.
	Recent(ctx context.Context, limit int) ([]models.Blog, error)
	UpdateFields(ctx context.Context, id string, update models.BlogUpdate) error
	// SetLike adds email to, or removes it from, the liker set and adjusts the count.
	SetLike(ctx context.Context, id, email string, liked bool) error
	LikedBy(ctx context.Context, email string) ([]models.Blog, error)
}

// CommentRepository defines the interface for comment data access.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	// ListByBlog returns the blog's comments, newest first.
	ListByBlog(ctx context.Context, blogID string) ([]models.Comment, error)
	Exists(ctx context.Context, blogID, userEmail string) (bool, error)
	// TopRated returns the highest rated comments across all blogs.
	TopRated(ctx context.Context, limit int) ([]models.Comment, error)
}

// WishlistRepository defines the interface for wishlist data access.
type WishlistRepository interface {
	Create(ctx context.Context, entry *models.WishlistEntry) error
	Exists(ctx context.Context, userEmail, blogID string) (bool, error)
	GetByID(ctx context.Context, id string) (*models.WishlistEntry, error)
	Delete(ctx context.Context, id string) error
	// Details joins the user's entries with their blogs. Entries whose blog
	// no longer exists are dropped.
	Details(ctx context.Context, userEmail string) ([]models.WishlistItem, error)
}

// Store bundles one implementation of every repository.
type Store struct {
	Users    UserRepository
	Blogs    BlogRepository
	Comments CommentRepository
	Wishlist WishlistRepository
}
