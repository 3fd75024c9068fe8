// Package client talks to the blog API. Every call goes through a Pipeline
// that attaches the signed-in user's bearer token and, when the server
// rejects it, refreshes the token once and replays the call.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"blogsite/pkg/identity"
)

var (
	// ErrAuthenticationExpired is the cause of a call rejected again after
	// its token was refreshed.
	ErrAuthenticationExpired = errors.New("authentication expired")
	// ErrAuthenticationUnavailable is the cause of a rejected call when no
	// fresh token could be obtained.
	ErrAuthenticationUnavailable = errors.New("authentication unavailable")
)

// StatusError is a response with a status of 400 or above. Status and body
// are the server's, unchanged.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
	cause      error
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
	var body struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(e.Body, &body) == nil && body.Message != "" {
		msg += ": " + body.Message
	}
	if e.cause != nil {
		msg += " (" + e.cause.Error() + ")"
	}
	return msg
}

// Unwrap returns the authentication cause, if any.
func (e *StatusError) Unwrap() error {
	return e.cause
}

// Request is one API call. Body is kept as bytes so the call can be replayed.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   []byte
}

// Response is a successful API response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v interface{}) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Pipeline sends requests with the current user's credential.
type Pipeline struct {
	baseURL    string
	provider   identity.Provider
	httpClient *http.Client
}

// NewPipeline creates a Pipeline for the API rooted at baseURL.
func NewPipeline(baseURL string, provider identity.Provider, httpClient *http.Client) *Pipeline {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Pipeline{
		baseURL:    strings.TrimRight(baseURL, "/"),
		provider:   provider,
		httpClient: httpClient,
	}
}

// call is the per-call state. retried is never shared between calls.
type call struct {
	req     Request
	retried bool
}

// Do sends req. A 401 or 403 triggers one forced token refresh and one
// replay; if the replay is rejected too, the first rejection is returned
// with ErrAuthenticationExpired as its cause.
func (p *Pipeline) Do(ctx context.Context, req Request) (*Response, error) {
	c := &call{req: req}

	token, err := p.cachedToken(ctx)
	if err != nil {
		return nil, err
	}

	var rejected *StatusError
	for {
		resp, err := p.dispatch(ctx, c.req, token)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < 400 {
			return resp, nil
		}

		statusErr := &StatusError{Method: c.req.Method, Path: c.req.Path, StatusCode: resp.StatusCode, Body: resp.Body}
		if !isAuthFailure(resp.StatusCode) {
			return nil, statusErr
		}
		if c.retried {
			rejected.cause = ErrAuthenticationExpired
			return nil, rejected
		}

		rejected = statusErr
		c.retried = true
		token, err = p.freshToken(ctx)
		if err != nil {
			rejected.cause = err
			return nil, rejected
		}
	}
}

func isAuthFailure(status int) bool {
	return status == http.StatusUnauthorized || status == http.StatusForbidden
}

// cachedToken returns the user's cached token, waiting for the provider to
// settle first if nobody is signed in yet. An empty token means the call
// goes out anonymously.
func (p *Pipeline) cachedToken(ctx context.Context) (string, error) {
	user := p.provider.CurrentUser()
	if user == nil {
		select {
		case <-p.provider.Ready():
		case <-ctx.Done():
			return "", ctx.Err()
		}
		user = p.provider.CurrentUser()
	}
	if user == nil {
		return "", nil
	}

	token, err := user.IDToken(ctx, false)
	if err != nil {
		// Sent anonymously; a rejection forces a refresh.
		return "", nil
	}
	return token, nil
}

func (p *Pipeline) freshToken(ctx context.Context) (string, error) {
	user := p.provider.CurrentUser()
	if user == nil {
		return "", ErrAuthenticationUnavailable
	}
	token, err := user.IDToken(ctx, true)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuthenticationUnavailable, err)
	}
	if token == "" {
		return "", ErrAuthenticationUnavailable
	}
	return token, nil
}

func (p *Pipeline) dispatch(ctx context.Context, req Request, token string) (*Response, error) {
	target := p.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: failed to read response: %w", req.Method, req.Path, err)
	}
	return &Response{StatusCode: httpResp.StatusCode, Header: httpResp.Header, Body: respBody}, nil
}
