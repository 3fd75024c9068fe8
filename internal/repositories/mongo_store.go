package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names.
const (
	usersCollection    = "users"
	blogsCollection    = "blogs"
	commentsCollection = "comments"
	wishlistCollection = "wishlist"
)

// ConnectMongo dials uri, pings the primary and returns the named database.
func ConnectMongo(ctx context.Context, uri, database string) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return client, client.Database(database), nil
}

// EnsureMongoIndexes creates the blog text index used by search plus the
// lookup indexes. Existing indexes are left as they are.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(blogsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "title", Value: "text"},
				{Key: "shortDescription", Value: "text"},
				{Key: "longDescription", Value: "text"},
			},
			Options: options.Index().SetName("BlogsTextIndex"),
		},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "author.email", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create blog indexes: %w", err)
	}

	if _, err := db.Collection(commentsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "blogId", Value: 1}, {Key: "userEmail", Value: 1}},
	}); err != nil {
		return fmt.Errorf("failed to create comment index: %w", err)
	}

	if _, err := db.Collection(wishlistCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userEmail", Value: 1}, {Key: "blogId", Value: 1}},
	}); err != nil {
		return fmt.Errorf("failed to create wishlist index: %w", err)
	}

	if _, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "uid", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("failed to create user index: %w", err)
	}
	return nil
}

// NewMongoStore wires every MongoDB repository to db.
func NewMongoStore(db *mongo.Database) *Store {
	return &Store{
		Users:    NewMongoUserRepository(db),
		Blogs:    NewMongoBlogRepository(db),
		Comments: NewMongoCommentRepository(db),
		Wishlist: NewMongoWishlistRepository(db),
	}
}

// newDocumentID returns a fresh ObjectID in its hex form. Documents are
// keyed by the hex string so every backend shares one ID format.
func newDocumentID() string {
	return primitive.NewObjectID().Hex()
}

func findOne(ctx context.Context, coll *mongo.Collection, filter bson.M, out interface{}, resource, key string) error {
	err := coll.FindOne(ctx, filter).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return notFound(resource, key)
	}
	if err != nil {
		return fmt.Errorf("failed to get %s %s: %w", resource, key, err)
	}
	return nil
}

func exists(ctx context.Context, coll *mongo.Collection, filter bson.M) (bool, error) {
	n, err := coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
