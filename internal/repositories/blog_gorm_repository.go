package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"blogsite/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMBlogRepository is a GORM implementation of BlogRepository. Tags and
// the liker set are stored as JSON text columns.
type GORMBlogRepository struct {
	db *gorm.DB
}

// NewGORMBlogRepository creates a new instance of GORMBlogRepository.
func NewGORMBlogRepository(db *gorm.DB) *GORMBlogRepository {
	return &GORMBlogRepository{
		db: db,
	}
}

// Create inserts a new blog.
func (r *GORMBlogRepository) Create(ctx context.Context, blog *models.Blog) error {
	if blog.ID == "" {
		blog.ID = uuid.New().String()
	}
	if blog.Tags == nil {
		blog.Tags = []string{}
	}
	if blog.LikedBy == nil {
		blog.LikedBy = []string{}
	}
	if err := r.db.WithContext(ctx).Create(blog).Error; err != nil {
		return fmt.Errorf("failed to create blog: %w", err)
	}
	return nil
}

// GetByID retrieves a single blog by its ID.
func (r *GORMBlogRepository) GetByID(ctx context.Context, id string) (*models.Blog, error) {
	var blog models.Blog
	if err := r.db.WithContext(ctx).First(&blog, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("blog", id)
		}
		return nil, fmt.Errorf("failed to get blog %s: %w", id, err)
	}
	return &blog, nil
}

// List returns one page of blogs matching filter.
func (r *GORMBlogRepository) List(ctx context.Context, filter models.BlogFilter) ([]models.Blog, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Blog{}).Scopes(blogFilterScope(filter)).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count blogs: %w", err)
	}

	var blogs []models.Blog
	err := r.db.WithContext(ctx).
		Scopes(blogFilterScope(filter)).
		Order("created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&blogs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list blogs: %w", err)
	}
	return blogs, total, nil
}

func blogFilterScope(filter models.BlogFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.Search != "" {
			like := "%" + strings.ToLower(filter.Search) + "%"
			db = db.Where("(LOWER(title) LIKE ? OR LOWER(short_description) LIKE ? OR LOWER(long_description) LIKE ?)", like, like, like)
		}
		if filter.Category != "" {
			db = db.Where("category = ?", filter.Category)
		}
		if filter.Author != "" {
			db = db.Where("author_email = ?", filter.Author)
		}
		return db
	}
}

// Recent returns the newest published blogs.
func (r *GORMBlogRepository) Recent(ctx context.Context, limit int) ([]models.Blog, error) {
	var blogs []models.Blog
	err := r.db.WithContext(ctx).
		Where("is_published = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Find(&blogs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get recent blogs: %w", err)
	}
	return blogs, nil
}

// UpdateFields writes the set fields of update and bumps updatedAt.
func (r *GORMBlogRepository) UpdateFields(ctx context.Context, id string, update models.BlogUpdate) error {
	blog, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	update.Apply(blog)
	blog.UpdatedAt = time.Now()

	columns := []string{"updated_at"}
	for field := range update.Fields() {
		columns = append(columns, r.db.NamingStrategy.ColumnName("", field))
	}

	if err := r.db.WithContext(ctx).Model(blog).Select(columns).Updates(blog).Error; err != nil {
		return fmt.Errorf("failed to update blog %s: %w", id, err)
	}
	return nil
}

// SetLike toggles email's membership in the liker set. The read and the
// write are separate statements.
func (r *GORMBlogRepository) SetLike(ctx context.Context, id, email string, liked bool) error {
	blog, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if blog.IsLikedBy(email) == liked {
		return nil
	}

	if liked {
		blog.LikedBy = append(blog.LikedBy, email)
		blog.Likes++
	} else {
		kept := make([]string, 0, len(blog.LikedBy))
		for _, e := range blog.LikedBy {
			if e != email {
				kept = append(kept, e)
			}
		}
		blog.LikedBy = kept
		blog.Likes--
	}
	blog.UpdatedAt = time.Now()

	err = r.db.WithContext(ctx).Model(blog).Select("likes", "liked_by", "updated_at").Updates(blog).Error
	if err != nil {
		return fmt.Errorf("failed to update likes on blog %s: %w", id, err)
	}
	return nil
}

// LikedBy returns every blog whose liker set contains email.
func (r *GORMBlogRepository) LikedBy(ctx context.Context, email string) ([]models.Blog, error) {
	var candidates []models.Blog
	err := r.db.WithContext(ctx).
		Where("liked_by LIKE ?", `%"`+email+`"%`).
		Order("created_at DESC").
		Find(&candidates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get blogs liked by %s: %w", email, err)
	}

	blogs := make([]models.Blog, 0, len(candidates))
	for _, b := range candidates {
		if b.IsLikedBy(email) {
			blogs = append(blogs, b)
		}
	}
	return blogs, nil
}
