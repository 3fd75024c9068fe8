package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"blogsite/internal/models"
	"blogsite/pkg/identity"
)

// Client is a typed client for the blog API.
type Client struct {
	pipeline *Pipeline
}

// New creates a Client for the API rooted at baseURL, for example
// "http://localhost:3000/api".
func New(baseURL string, provider identity.Provider, httpClient *http.Client) *Client {
	return &Client{pipeline: NewPipeline(baseURL, provider, httpClient)}
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, in, out interface{}) (*Response, error) {
	req := Request{Method: method, Path: path, Query: query}
	if in != nil {
		body, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		req.Body = body
	}

	resp, err := c.pipeline.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	if out != nil {
		if err := resp.Decode(out); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// SaveUser stores the signed-in user's profile. It reports whether a new
// profile was created.
func (c *Client) SaveUser(ctx context.Context, user models.User) (bool, error) {
	resp, err := c.send(ctx, http.MethodPost, "/users", nil, user, nil)
	if err != nil {
		return false, err
	}
	return resp.StatusCode == http.StatusCreated, nil
}

// GetUser fetches a profile by email.
func (c *Client) GetUser(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if _, err := c.send(ctx, http.MethodGet, "/users", url.Values{"email": {email}}, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser patches the profile with document id.
func (c *Client) UpdateUser(ctx context.Context, id string, patch models.ProfilePatch) (*models.User, error) {
	var out struct {
		User models.User `json:"user"`
	}
	if _, err := c.send(ctx, http.MethodPut, "/users/"+url.PathEscape(id), nil, patch, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// CreateBlog publishes blog and returns its id.
func (c *Client) CreateBlog(ctx context.Context, blog models.Blog) (string, error) {
	var out struct {
		BlogID string `json:"blogId"`
	}
	if _, err := c.send(ctx, http.MethodPost, "/blogs", nil, blog, &out); err != nil {
		return "", err
	}
	return out.BlogID, nil
}

// ListOptions filter and page a blog listing. Zero values are omitted.
type ListOptions struct {
	Search   string
	Category string
	Author   string
	Page     int
	Limit    int
}

func (o ListOptions) values() url.Values {
	q := url.Values{}
	if o.Search != "" {
		q.Set("search", o.Search)
	}
	if o.Category != "" {
		q.Set("category", o.Category)
	}
	if o.Author != "" {
		q.Set("author", o.Author)
	}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	return q
}

// ListBlogs returns one page of blogs.
func (c *Client) ListBlogs(ctx context.Context, opts ListOptions) (*models.BlogPage, error) {
	var page models.BlogPage
	if _, err := c.send(ctx, http.MethodGet, "/blogs", opts.values(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// RecentBlogs returns the newest published blogs. A zero limit uses the
// server default.
func (c *Client) RecentBlogs(ctx context.Context, limit int) ([]models.Blog, error) {
	var q url.Values
	if limit > 0 {
		q = url.Values{"limit": {strconv.Itoa(limit)}}
	}
	var blogs []models.Blog
	if _, err := c.send(ctx, http.MethodGet, "/blogs/recent", q, nil, &blogs); err != nil {
		return nil, err
	}
	return blogs, nil
}

// GetBlog fetches one blog.
func (c *Client) GetBlog(ctx context.Context, id string) (*models.Blog, error) {
	var blog models.Blog
	if _, err := c.send(ctx, http.MethodGet, "/blogs/"+url.PathEscape(id), nil, nil, &blog); err != nil {
		return nil, err
	}
	return &blog, nil
}

// UpdateBlog changes the set fields of update and returns the stored blog.
func (c *Client) UpdateBlog(ctx context.Context, id string, update models.BlogUpdate) (*models.Blog, error) {
	var out struct {
		Blog models.Blog `json:"blog"`
	}
	if _, err := c.send(ctx, http.MethodPut, "/blogs/"+url.PathEscape(id), nil, update, &out); err != nil {
		return nil, err
	}
	return &out.Blog, nil
}

// ToggleLike flips the caller's like and returns the new state and count.
func (c *Client) ToggleLike(ctx context.Context, id string) (bool, int, error) {
	var out struct {
		Liked bool `json:"liked"`
		Likes int  `json:"likes"`
	}
	if _, err := c.send(ctx, http.MethodPost, "/blogs/"+url.PathEscape(id)+"/like", nil, nil, &out); err != nil {
		return false, 0, err
	}
	return out.Liked, out.Likes, nil
}

// IsLikedBy reports whether email likes the blog.
func (c *Client) IsLikedBy(ctx context.Context, id, email string) (bool, error) {
	var out struct {
		Liked bool `json:"liked"`
	}
	path := "/blogs/" + url.PathEscape(id) + "/liked-by/" + url.PathEscape(email)
	if _, err := c.send(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return false, err
	}
	return out.Liked, nil
}

// LikedBlogs lists the blogs the caller likes.
func (c *Client) LikedBlogs(ctx context.Context) ([]models.Blog, error) {
	var blogs []models.Blog
	if _, err := c.send(ctx, http.MethodGet, "/blogs/liked/user", nil, nil, &blogs); err != nil {
		return nil, err
	}
	return blogs, nil
}

// Comments lists a blog's comments with the caller's flags.
func (c *Client) Comments(ctx context.Context, blogID string) (*models.CommentThread, error) {
	var thread models.CommentThread
	if _, err := c.send(ctx, http.MethodGet, "/comments", url.Values{"blogId": {blogID}}, nil, &thread); err != nil {
		return nil, err
	}
	return &thread, nil
}

// NewComment is a review to submit.
type NewComment struct {
	BlogID    string `json:"blogId"`
	Text      string `json:"text"`
	UserName  string `json:"userName"`
	UserImage string `json:"userImage,omitempty"`
	Rating    int    `json:"rating"`
}

// AddComment submits a review and returns the blog's refreshed comments.
func (c *Client) AddComment(ctx context.Context, comment NewComment) ([]models.Comment, error) {
	var comments []models.Comment
	if _, err := c.send(ctx, http.MethodPost, "/comments", nil, comment, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// TopRated returns the best rated comments across all blogs.
func (c *Client) TopRated(ctx context.Context) ([]models.Comment, error) {
	var comments []models.Comment
	if _, err := c.send(ctx, http.MethodGet, "/comments/top-rated", nil, nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// AddToWishlist bookmarks a blog. It reports false when it was already there.
func (c *Client) AddToWishlist(ctx context.Context, userEmail, blogID string) (bool, error) {
	var out struct {
		Success bool `json:"success"`
	}
	in := map[string]string{"userEmail": userEmail, "blogId": blogID}
	if _, err := c.send(ctx, http.MethodPost, "/wishlist", nil, in, &out); err != nil {
		return false, err
	}
	return out.Success, nil
}

// Wishlist returns the user's bookmarks joined with their blogs.
func (c *Client) Wishlist(ctx context.Context, userEmail string) ([]models.WishlistItem, error) {
	var out struct {
		Data []models.WishlistItem `json:"data"`
	}
	if _, err := c.send(ctx, http.MethodGet, "/wishlist/details/"+url.PathEscape(userEmail), nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// RemoveFromWishlist deletes a bookmark.
func (c *Client) RemoveFromWishlist(ctx context.Context, id string) error {
	_, err := c.send(ctx, http.MethodDelete, "/wishlist/"+url.PathEscape(id), nil, nil, nil)
	return err
}
