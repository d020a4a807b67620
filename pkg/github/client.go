// Package github wraps the go-github SDK with the handful of operations the
// dashboard provisioner needs: identity lookup, repository ensure, Pages
// configuration, Actions secrets, workflow dispatch, and Contents API uploads.
package github

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"
)

const defaultBaseURL = "https://api.github.com"

// Client provides authenticated access to the GitHub API.
type Client struct {
	gh      *github.Client
	token   string
	baseURL string
	timeout time.Duration
	httpc   *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL (used by tests).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client entirely.
// The oauth2 transport is not applied in this case.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) {
		c.httpc = httpc
	}
}

// NewClient creates a new GitHub API client authenticated with token.
func NewClient(token string, opts ...Option) (*Client, error) {
	c := &Client{
		token:   token,
		baseURL: defaultBaseURL,
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}

	httpc := c.httpc
	if httpc == nil {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpc = oauth2.NewClient(nil, ts)
		httpc.Timeout = c.timeout
	}

	gh := github.NewClient(httpc)
	if c.baseURL != defaultBaseURL {
		base := c.baseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		parsed, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("invalid base URL %q: %w", c.baseURL, err)
		}
		gh.BaseURL = parsed
	}
	c.gh = gh

	return c, nil
}

// GitHubClient exposes the underlying go-github client.
func (c *Client) GitHubClient() *github.Client {
	return c.gh
}
