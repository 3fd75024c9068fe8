package repositories

// NewMockStore wires every in-memory repository together.
func NewMockStore() *Store {
	blogs := NewMockBlogRepository()
	return &Store{
		Users:    NewMockUserRepository(),
		Blogs:    blogs,
		Comments: NewMockCommentRepository(),
		Wishlist: NewMockWishlistRepository(blogs),
	}
}
