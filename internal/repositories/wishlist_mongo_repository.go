package repositories

import (
	"context"
	"fmt"

	"blogsite/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoWishlistRepository stores entries in the "wishlist" collection.
type MongoWishlistRepository struct {
	coll *mongo.Collection
}

// NewMongoWishlistRepository creates a new instance of MongoWishlistRepository.
func NewMongoWishlistRepository(db *mongo.Database) *MongoWishlistRepository {
	return &MongoWishlistRepository{coll: db.Collection(wishlistCollection)}
}

func (r *MongoWishlistRepository) Create(ctx context.Context, entry *models.WishlistEntry) error {
	if entry.ID == "" {
		entry.ID = newDocumentID()
	}
	if _, err := r.coll.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to create wishlist entry: %w", err)
	}
	return nil
}

func (r *MongoWishlistRepository) Exists(ctx context.Context, userEmail, blogID string) (bool, error) {
	found, err := exists(ctx, r.coll, bson.M{"userEmail": userEmail, "blogId": blogID})
	if err != nil {
		return false, fmt.Errorf("failed to check wishlist for %s: %w", userEmail, err)
	}
	return found, nil
}

func (r *MongoWishlistRepository) GetByID(ctx context.Context, id string) (*models.WishlistEntry, error) {
	var entry models.WishlistEntry
	if err := findOne(ctx, r.coll, bson.M{"_id": id}, &entry, "wishlist entry", id); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *MongoWishlistRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete wishlist entry %s: %w", id, err)
	}
	return nil
}

// Details runs a $lookup against blogs; $unwind drops entries without a blog.
func (r *MongoWishlistRepository) Details(ctx context.Context, userEmail string) ([]models.WishlistItem, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "userEmail", Value: userEmail}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: blogsCollection},
			{Key: "localField", Value: "blogId"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "blogDetails"},
		}}},
		{{Key: "$unwind", Value: "$blogDetails"}},
		{{Key: "$sort", Value: bson.D{{Key: "addedAt", Value: 1}}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate wishlist for %s: %w", userEmail, err)
	}
	items := []models.WishlistItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode wishlist for %s: %w", userEmail, err)
	}
	return items, nil
}
