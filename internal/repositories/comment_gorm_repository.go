package repositories

import (
	"context"
	"fmt"

	"blogsite/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCommentRepository is a GORM implementation of CommentRepository.
type GORMCommentRepository struct {
	db *gorm.DB
}

// NewGORMCommentRepository creates a new instance of GORMCommentRepository.
func NewGORMCommentRepository(db *gorm.DB) *GORMCommentRepository {
	return &GORMCommentRepository{
		db: db,
	}
}

// Create inserts a new comment.
func (r *GORMCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// ListByBlog returns the blog's comments, newest first.
func (r *GORMCommentRepository) ListByBlog(ctx context.Context, blogID string) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := r.db.WithContext(ctx).
		Where("blog_id = ?", blogID).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list comments for blog %s: %w", blogID, err)
	}
	return comments, nil
}

// Exists reports whether userEmail already reviewed the blog.
func (r *GORMCommentRepository) Exists(ctx context.Context, blogID, userEmail string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("blog_id = ? AND user_email = ?", blogID, userEmail).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check comment for blog %s: %w", blogID, err)
	}
	return count > 0, nil
}

// TopRated returns the highest rated comments, newest first on ties.
func (r *GORMCommentRepository) TopRated(ctx context.Context, limit int) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := r.db.WithContext(ctx).
		Order("rating DESC").
		Order("created_at DESC").
		Limit(limit).
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get top rated comments: %w", err)
	}
	return comments, nil
}
