package services_test

import (
	"context"
	"time"

	"blogsite/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUID(ctx context.Context, uid string) (*models.User, error) {
	args := m.Called(uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

// MockBlogRepository is a mock implementation of repositories.BlogRepository
type MockBlogRepository struct {
	mock.Mock
}

func (m *MockBlogRepository) Create(ctx context.Context, blog *models.Blog) error {
	args := m.Called(blog)
	return args.Error(0)
}

func (m *MockBlogRepository) GetByID(ctx context.Context, id string) (*models.Blog, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Blog), args.Error(1)
}

func (m *MockBlogRepository) List(ctx context.Context, filter models.BlogFilter) ([]models.Blog, int64, error) {
	args := m.Called(filter)
	return args.Get(0).([]models.Blog), args.Get(1).(int64), args.Error(2)
}

func (m *MockBlogRepository) Recent(ctx context.Context, limit int) ([]models.Blog, error) {
	args := m.Called(limit)
	return args.Get(0).([]models.Blog), args.Error(1)
}

func (m *MockBlogRepository) UpdateFields(ctx context.Context, id string, update models.BlogUpdate) error {
	args := m.Called(id, update)
	return args.Error(0)
}

func (m *MockBlogRepository) SetLike(ctx context.Context, id, email string, liked bool) error {
	args := m.Called(id, email, liked)
	return args.Error(0)
}

func (m *MockBlogRepository) LikedBy(ctx context.Context, email string) ([]models.Blog, error) {
	args := m.Called(email)
	return args.Get(0).([]models.Blog), args.Error(1)
}

// MockCommentRepository is a mock implementation of repositories.CommentRepository
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	args := m.Called(comment)
	return args.Error(0)
}

func (m *MockCommentRepository) ListByBlog(ctx context.Context, blogID string) ([]models.Comment, error) {
	args := m.Called(blogID)
	return args.Get(0).([]models.Comment), args.Error(1)
}

func (m *MockCommentRepository) Exists(ctx context.Context, blogID, userEmail string) (bool, error) {
	args := m.Called(blogID, userEmail)
	return args.Bool(0), args.Error(1)
}

func (m *MockCommentRepository) TopRated(ctx context.Context, limit int) ([]models.Comment, error) {
	args := m.Called(limit)
	return args.Get(0).([]models.Comment), args.Error(1)
}

// MockWishlistRepository is a mock implementation of repositories.WishlistRepository
type MockWishlistRepository struct {
	mock.Mock
}

func (m *MockWishlistRepository) Create(ctx context.Context, entry *models.WishlistEntry) error {
	args := m.Called(entry)
	return args.Error(0)
}

func (m *MockWishlistRepository) Exists(ctx context.Context, userEmail, blogID string) (bool, error) {
	args := m.Called(userEmail, blogID)
	return args.Bool(0), args.Error(1)
}

func (m *MockWishlistRepository) GetByID(ctx context.Context, id string) (*models.WishlistEntry, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WishlistEntry), args.Error(1)
}

func (m *MockWishlistRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockWishlistRepository) Details(ctx context.Context, userEmail string) ([]models.WishlistItem, error) {
	args := m.Called(userEmail)
	return args.Get(0).([]models.WishlistItem), args.Error(1)
}

// MockPublisher is a mock implementation of services.Publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(exchange, routingKey string, body []byte) error {
	args := m.Called(exchange, routingKey, body)
	return args.Error(0)
}

// MockFeedCache is a mock implementation of services.FeedCache
type MockFeedCache struct {
	mock.Mock
}

func (m *MockFeedCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	args := m.Called(key, dest)
	return args.Bool(0), args.Error(1)
}

func (m *MockFeedCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	args := m.Called(key, value, ttl)
	return args.Error(0)
}

func (m *MockFeedCache) Invalidate(ctx context.Context, prefix string) error {
	args := m.Called(prefix)
	return args.Error(0)
}
