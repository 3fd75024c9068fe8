package repositories

import (
	"context"
	"fmt"

	"blogsite/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCommentRepository stores comments in the "comments" collection.
type MongoCommentRepository struct {
	coll *mongo.Collection
}

// NewMongoCommentRepository creates a new instance of MongoCommentRepository.
func NewMongoCommentRepository(db *mongo.Database) *MongoCommentRepository {
	return &MongoCommentRepository{coll: db.Collection(commentsCollection)}
}

func (r *MongoCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if comment.ID == "" {
		comment.ID = newDocumentID()
	}
	if _, err := r.coll.InsertOne(ctx, comment); err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

func (r *MongoCommentRepository) ListByBlog(ctx context.Context, blogID string) ([]models.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	comments, err := r.find(ctx, bson.M{"blogId": blogID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments for blog %s: %w", blogID, err)
	}
	return comments, nil
}

func (r *MongoCommentRepository) Exists(ctx context.Context, blogID, userEmail string) (bool, error) {
	found, err := exists(ctx, r.coll, bson.M{"blogId": blogID, "userEmail": userEmail})
	if err != nil {
		return false, fmt.Errorf("failed to check comment for blog %s: %w", blogID, err)
	}
	return found, nil
}

func (r *MongoCommentRepository) TopRated(ctx context.Context, limit int) ([]models.Comment, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "rating", Value: -1}, {Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))
	comments, err := r.find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get top rated comments: %w", err)
	}
	return comments, nil
}

func (r *MongoCommentRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Comment, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	comments := []models.Comment{}
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}
