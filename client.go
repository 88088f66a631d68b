package searxng

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	// UserAgent is the default User-Agent header sent with every request.
	UserAgent = "searxng-go/1.0"

	// Environment variables read by NewFromEnvironment.
	BaseURLEnvVar  = "SEARXNG_BASE_URL"
	UsernameEnvVar = "SEARXNG_USERNAME"
	PasswordEnvVar = "SEARXNG_PASSWORD"
)

// ResponseFormat selects the response format requested from the instance.
type ResponseFormat string

const (
	// FormatJSON is the standard JSON response format. It is the only format
	// the normalizer understands; instances must have it enabled in their
	// search.formats setting.
	FormatJSON ResponseFormat = "json"
)

// Client is the entry point for the SearXNG API. It holds the base
// configuration for one instance and is safe for concurrent use; each search
// owns its own builder, request and response.
type Client struct {
	baseURL   string
	format    ResponseFormat
	username  string
	password  string
	userAgent string
	client    HTTPClient
	logger    *logrus.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default rate-limited HTTP client.
func WithHTTPClient(hc HTTPClient) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithLogger sets the logger used for request/response diagnostics. Without
// it the client stays silent.
func WithLogger(logger *logrus.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithBasicAuth sets credentials for instances behind HTTP basic auth.
func WithBasicAuth(username, password string) Option {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// WithUserAgent overrides the default User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a client for the SearXNG instance at baseURL, e.g.
// "https://searx.be". The URL must be http or https.
func New(baseURL string, format ResponseFormat, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}
	if format == "" {
		format = FormatJSON
	}

	c := &Client{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		format:    format,
		userAgent: UserAgent,
		client:    NewRateLimitedHTTPClient(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = discardLogger()
	}
	return c, nil
}

// NewFromEnvironment creates a client from SEARXNG_BASE_URL, with optional
// SEARXNG_USERNAME and SEARXNG_PASSWORD for basic auth. Explicit options take
// precedence over the environment.
func NewFromEnvironment(opts ...Option) (*Client, error) {
	baseURL := os.Getenv(BaseURLEnvVar)
	if baseURL == "" {
		return nil, fmt.Errorf("%s is not set", BaseURLEnvVar)
	}
	envOpts := []Option{}
	if username := os.Getenv(UsernameEnvVar); username != "" {
		envOpts = append(envOpts, WithBasicAuth(username, os.Getenv(PasswordEnvVar)))
	}
	return New(baseURL, FormatJSON, append(envOpts, opts...)...)
}

// Search starts a new search query and returns a builder to configure and
// execute it. Builders are single-use; create a fresh one per query.
func (c *Client) Search(query string) *SearchBuilder {
	return newSearchBuilder(c, query)
}

// searchURL is the instance's search endpoint.
func (c *Client) searchURL() string {
	return c.baseURL + "/search"
}

func discardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
