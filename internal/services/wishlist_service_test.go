package services_test

import (
	"context"
	"testing"

	"blogsite/internal/models"
	"blogsite/internal/repositories"
	"blogsite/internal/services"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestWishlistService_AddToWishlist(t *testing.T) {
	mockWishlist := new(MockWishlistRepository)
	mockBlogs := new(MockBlogRepository)
	mockPub := new(MockPublisher)
	events := services.NewEvents(mockPub, "blog_events", zerolog.Nop())
	service := services.NewWishlistService(mockWishlist, mockBlogs, events, zerolog.Nop())
	ctx := context.Background()

	mockBlogs.On("GetByID", "b1").Return(adasBlog, nil)
	mockWishlist.On("Exists", "bob@example.com", "b1").Return(false, nil).Once()
	mockWishlist.On("Create", mock.AnythingOfType("*models.WishlistEntry")).Return(nil).Once()
	mockPub.On("Publish", "blog_events", services.EventWishlistAdded, mock.Anything).Return(nil).Once()

	added, err := service.AddToWishlist(ctx, bob, "bob@example.com", "b1")
	require.NoError(t, err)
	assert.True(t, added)

	mockWishlist.On("Exists", "bob@example.com", "b1").Return(true, nil).Once()
	added, err = service.AddToWishlist(ctx, bob, "bob@example.com", "b1")
	require.NoError(t, err)
	assert.False(t, added)

	mockWishlist.AssertExpectations(t)
	mockPub.AssertExpectations(t)
}

func TestWishlistService_AddToWishlistRejected(t *testing.T) {
	mockWishlist := new(MockWishlistRepository)
	mockBlogs := new(MockBlogRepository)
	service := services.NewWishlistService(mockWishlist, mockBlogs, nil, zerolog.Nop())
	ctx := context.Background()

	mockBlogs.On("GetByID", "gone").Return(nil, repositories.ErrNotFound)

	_, err := service.AddToWishlist(ctx, bob, "ada@example.com", "b1")
	assert.ErrorIs(t, err, services.ErrForbidden)

	_, err = service.AddToWishlist(ctx, bob, "bob@example.com", "gone")
	assert.ErrorIs(t, err, services.ErrNotFound)

	mockWishlist.AssertNotCalled(t, "Create", mock.Anything)
}

func TestWishlistService_WishlistDetails(t *testing.T) {
	mockWishlist := new(MockWishlistRepository)
	service := services.NewWishlistService(mockWishlist, new(MockBlogRepository), nil, zerolog.Nop())

	items := []models.WishlistItem{{WishlistEntry: models.WishlistEntry{ID: "w1"}, BlogDetails: *adasBlog}}
	mockWishlist.On("Details", "bob@example.com").Return(items, nil).Once()

	got, err := service.WishlistDetails(context.Background(), bob, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, items, got)

	_, err = service.WishlistDetails(context.Background(), ada, "bob@example.com")
	assert.ErrorIs(t, err, services.ErrForbidden)
	mockWishlist.AssertExpectations(t)
}

func TestWishlistService_RemoveFromWishlist(t *testing.T) {
	mockWishlist := new(MockWishlistRepository)
	service := services.NewWishlistService(mockWishlist, new(MockBlogRepository), nil, zerolog.Nop())
	ctx := context.Background()

	entry := &models.WishlistEntry{ID: "w1", UserEmail: "bob@example.com", BlogID: "b1"}
	mockWishlist.On("GetByID", "w1").Return(entry, nil)
	mockWishlist.On("Delete", "w1").Return(nil).Once()

	assert.ErrorIs(t, service.RemoveFromWishlist(ctx, ada, "w1"), services.ErrForbidden)
	assert.NoError(t, service.RemoveFromWishlist(ctx, bob, "w1"))
	mockWishlist.AssertExpectations(t)
}
