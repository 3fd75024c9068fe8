package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"blogsite/internal/models"
	"blogsite/pkg/client"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_ListBlogsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/blogs", r.URL.Path)
		assert.Equal(t, "go", r.URL.Query().Get("search"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Empty(t, r.URL.Query().Get("category"))
		_ = json.NewEncoder(w).Encode(models.BlogPage{
			Blogs:      []models.Blog{{ID: "b1", Title: "Go"}},
			Pagination: models.Pagination{Total: 6, Page: 2, Limit: 5, TotalPages: 2},
		})
	}))
	defer srv.Close()

	c := client.New(srv.URL+"/api", newProvider(nil), srv.Client())
	page, err := c.ListBlogs(context.Background(), client.ListOptions{Search: "go", Page: 2, Limit: 5})
	require.NoError(t, err)
	assert.Len(t, page.Blogs, 1)
	assert.Equal(t, 2, page.Pagination.TotalPages)
}

func TestClient_WishlistAndLikes(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/wishlist", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ada@example.com", body["userEmail"])
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true}`))
	})
	mux.HandleFunc("/api/blogs/b1/like", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer cached", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"success":true,"liked":true,"likes":3}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := client.New(srv.URL+"/api", newProvider(&fakeUser{}), srv.Client())
	ctx := context.Background()

	added, err := c.AddToWishlist(ctx, "ada@example.com", "b1")
	require.NoError(t, err)
	assert.True(t, added)

	liked, likes, err := c.ToggleLike(ctx, "b1")
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 3, likes)
}
