package services

import (
	"context"
	"fmt"
	"time"

	"blogsite/internal/models"
	"blogsite/internal/repositories"

	"github.com/rs/zerolog"
)

// WishlistService handles business logic related to bookmarks.
type WishlistService struct {
	wishlistRepo repositories.WishlistRepository
	blogRepo     repositories.BlogRepository
	events       *Events
	log          zerolog.Logger
}

// NewWishlistService creates a new WishlistService. events may be nil.
func NewWishlistService(wishlistRepo repositories.WishlistRepository, blogRepo repositories.BlogRepository, events *Events, log zerolog.Logger) *WishlistService {
	return &WishlistService{
		wishlistRepo: wishlistRepo,
		blogRepo:     blogRepo,
		events:       events,
		log:          log,
	}
}

// AddToWishlist bookmarks blogID for the caller. It reports false when the
// entry already existed.
func (s *WishlistService) AddToWishlist(ctx context.Context, caller *Identity, userEmail, blogID string) (bool, error) {
	if caller.Email != userEmail {
		return false, fmt.Errorf("you can only change your own wishlist: %w", ErrForbidden)
	}
	if _, err := s.blogRepo.GetByID(ctx, blogID); err != nil {
		return false, err
	}

	exists, err := s.wishlistRepo.Exists(ctx, userEmail, blogID)
	if err != nil {
		return false, fmt.Errorf("failed to check wishlist: %w", err)
	}
	if exists {
		return false, nil
	}

	entry := &models.WishlistEntry{
		UserEmail: userEmail,
		BlogID:    blogID,
		AddedAt:   time.Now().UTC(),
	}
	if err := s.wishlistRepo.Create(ctx, entry); err != nil {
		return false, fmt.Errorf("failed to add to wishlist: %w", err)
	}

	s.events.Emit(EventWishlistAdded, caller.Email, map[string]string{"entryId": entry.ID, "blogId": blogID})
	return true, nil
}

// WishlistDetails returns the user's entries joined with their blogs.
func (s *WishlistService) WishlistDetails(ctx context.Context, caller *Identity, userEmail string) ([]models.WishlistItem, error) {
	if caller.Email != userEmail {
		return nil, fmt.Errorf("you can only view your own wishlist: %w", ErrForbidden)
	}

	items, err := s.wishlistRepo.Details(ctx, userEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to get wishlist: %w", err)
	}
	if items == nil {
		items = []models.WishlistItem{}
	}
	return items, nil
}

// RemoveFromWishlist deletes an entry owned by the caller.
func (s *WishlistService) RemoveFromWishlist(ctx context.Context, caller *Identity, id string) error {
	entry, err := s.wishlistRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if entry.UserEmail != caller.Email {
		return fmt.Errorf("you can only change your own wishlist: %w", ErrForbidden)
	}

	if err := s.wishlistRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to remove wishlist entry %s: %w", id, err)
	}

	s.events.Emit(EventWishlistRemoved, caller.Email, map[string]string{"entryId": id, "blogId": entry.BlogID})
	return nil
}
