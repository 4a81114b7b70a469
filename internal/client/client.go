// Package client is the thin HTTP/JSON wrapper the console uses to talk to
// the farm backend. It injects the bearer token and a request ID, decodes
// the {"data": ...} envelope and propagates errors unchanged: there are no
// retries, no caching and no timeouts beyond the transport defaults.
package client

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

// Client talks to the backend REST API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for per-request debug lines.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a client targeting baseURL (e.g. "https://granja.example/api").
// The token is captured once; a token issued later (after login) requires a
// new client, see WithToken.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
		log:        zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// WithToken returns a copy of the client that sends token instead.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// BaseURL returns the API base URL without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// HasToken reports whether requests carry an Authorization header.
func (c *Client) HasToken() bool { return c.token != "" }
