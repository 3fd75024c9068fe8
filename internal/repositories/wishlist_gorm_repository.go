package repositories

import (
	"context"
	"errors"
	"fmt"

	"blogsite/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMWishlistRepository is a GORM implementation of WishlistRepository.
type GORMWishlistRepository struct {
	db *gorm.DB
}

// NewGORMWishlistRepository creates a new instance of GORMWishlistRepository.
func NewGORMWishlistRepository(db *gorm.DB) *GORMWishlistRepository {
	return &GORMWishlistRepository{
		db: db,
	}
}

// Create inserts a new wishlist entry.
func (r *GORMWishlistRepository) Create(ctx context.Context, entry *models.WishlistEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create wishlist entry: %w", err)
	}
	return nil
}

// Exists reports whether the user already bookmarked the blog.
func (r *GORMWishlistRepository) Exists(ctx context.Context, userEmail, blogID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.WishlistEntry{}).
		Where("user_email = ? AND blog_id = ?", userEmail, blogID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check wishlist for %s: %w", userEmail, err)
	}
	return count > 0, nil
}

// GetByID retrieves a single entry.
func (r *GORMWishlistRepository) GetByID(ctx context.Context, id string) (*models.WishlistEntry, error) {
	var entry models.WishlistEntry
	if err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("wishlist entry", id)
		}
		return nil, fmt.Errorf("failed to get wishlist entry %s: %w", id, err)
	}
	return &entry, nil
}

// Delete removes an entry. Deleting a missing entry is not an error.
func (r *GORMWishlistRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&models.WishlistEntry{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete wishlist entry %s: %w", id, err)
	}
	return nil
}

// Details joins the user's entries with their blogs.
func (r *GORMWishlistRepository) Details(ctx context.Context, userEmail string) ([]models.WishlistItem, error) {
	var entries []models.WishlistEntry
	if err := r.db.WithContext(ctx).Where("user_email = ?", userEmail).Order("added_at ASC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to get wishlist for %s: %w", userEmail, err)
	}
	if len(entries) == 0 {
		return []models.WishlistItem{}, nil
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.BlogID)
	}
	var blogs []models.Blog
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&blogs).Error; err != nil {
		return nil, fmt.Errorf("failed to load wishlist blogs for %s: %w", userEmail, err)
	}

	return joinWishlist(entries, blogs), nil
}

// joinWishlist pairs each entry with its blog, dropping entries whose blog is gone.
func joinWishlist(entries []models.WishlistEntry, blogs []models.Blog) []models.WishlistItem {
	byID := make(map[string]models.Blog, len(blogs))
	for _, b := range blogs {
		byID[b.ID] = b
	}

	items := make([]models.WishlistItem, 0, len(entries))
	for _, e := range entries {
		blog, ok := byID[e.BlogID]
		if !ok {
			continue
		}
		items = append(items, models.WishlistItem{WishlistEntry: e, BlogDetails: blog})
	}
	return items
}
