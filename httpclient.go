package searxng

import (
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// HTTPClient is an interface for making HTTP requests
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

const (
	// DefaultRateLimit is the default maximum requests per second
	DefaultRateLimit = 10
	// RateLimitEnvVar is the environment variable for configuring rate limit
	RateLimitEnvVar = "SEARXNG_RATE_LIMIT"
	// DefaultTimeout is the default per-request timeout
	DefaultTimeout = 30 * time.Second
)

// RateLimitedHTTPClient implements HTTPClient with rate limiting
type RateLimitedHTTPClient struct {
	client  *http.Client
	limiter *rate.Limiter
	mu      sync.Mutex
}

// getRateLimit returns the configured rate limit for instance requests
func getRateLimit() float64 {
	if envValue := os.Getenv(RateLimitEnvVar); envValue != "" {
		if value, err := strconv.ParseFloat(envValue, 64); err == nil && value > 0 {
			return value
		}
	}
	return DefaultRateLimit
}

// NewRateLimitedHTTPClient creates a new rate-limited HTTP client
func NewRateLimitedHTTPClient() *RateLimitedHTTPClient {
	rateLimit := getRateLimit()
	return &RateLimitedHTTPClient{
		client: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(rateLimit), 1), // Allow burst of 1
	}
}

// Do implements the HTTPClient interface with rate limiting. The wait honours
// the request's own context, so cancellation aborts the call.
func (c *RateLimitedHTTPClient) Do(req *http.Request) (*http.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}

	return c.client.Do(req)
}
