package repositories

import (
	"context"
	"fmt"
	"time"

	"blogsite/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBlogRepository stores blogs in the "blogs" collection. Search uses
// the text index created by EnsureMongoIndexes.
type MongoBlogRepository struct {
	coll *mongo.Collection
}

// NewMongoBlogRepository creates a new instance of MongoBlogRepository.
func NewMongoBlogRepository(db *mongo.Database) *MongoBlogRepository {
	return &MongoBlogRepository{coll: db.Collection(blogsCollection)}
}

func (r *MongoBlogRepository) Create(ctx context.Context, blog *models.Blog) error {
	if blog.ID == "" {
		blog.ID = newDocumentID()
	}
	if blog.Tags == nil {
		blog.Tags = []string{}
	}
	if blog.LikedBy == nil {
		blog.LikedBy = []string{}
	}
	if _, err := r.coll.InsertOne(ctx, blog); err != nil {
		return fmt.Errorf("failed to create blog: %w", err)
	}
	return nil
}

func (r *MongoBlogRepository) GetByID(ctx context.Context, id string) (*models.Blog, error) {
	var blog models.Blog
	if err := findOne(ctx, r.coll, bson.M{"_id": id}, &blog, "blog", id); err != nil {
		return nil, err
	}
	return &blog, nil
}

func (r *MongoBlogRepository) List(ctx context.Context, filter models.BlogFilter) ([]models.Blog, int64, error) {
	query := bson.M{}
	if filter.Search != "" {
		query["$text"] = bson.M{"$search": filter.Search}
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Author != "" {
		query["author.email"] = filter.Author
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count blogs: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))
	blogs, err := r.find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list blogs: %w", err)
	}
	return blogs, total, nil
}

func (r *MongoBlogRepository) Recent(ctx context.Context, limit int) ([]models.Blog, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))
	blogs, err := r.find(ctx, bson.M{"isPublished": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent blogs: %w", err)
	}
	return blogs, nil
}

func (r *MongoBlogRepository) UpdateFields(ctx context.Context, id string, update models.BlogUpdate) error {
	set := bson.M{"updatedAt": time.Now()}
	for field, value := range update.Fields() {
		set[field] = value
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update blog %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return notFound("blog", id)
	}
	return nil
}

func (r *MongoBlogRepository) SetLike(ctx context.Context, id, email string, liked bool) error {
	update := bson.M{
		"$addToSet": bson.M{"likedBy": email},
		"$inc":      bson.M{"likes": 1},
		"$set":      bson.M{"updatedAt": time.Now()},
	}
	if !liked {
		update = bson.M{
			"$pull": bson.M{"likedBy": email},
			"$inc":  bson.M{"likes": -1},
			"$set":  bson.M{"updatedAt": time.Now()},
		}
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update likes on blog %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return notFound("blog", id)
	}
	return nil
}

func (r *MongoBlogRepository) LikedBy(ctx context.Context, email string) ([]models.Blog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	blogs, err := r.find(ctx, bson.M{"likedBy": email}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get blogs liked by %s: %w", email, err)
	}
	return blogs, nil
}

func (r *MongoBlogRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Blog, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	blogs := []models.Blog{}
	if err := cursor.All(ctx, &blogs); err != nil {
		return nil, err
	}
	return blogs, nil
}
