package client

import (
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/maisonhq/runway/backoff"
)

// Option configures a Client.
type Option func(*Client)

// WithToken sets the bearer token sent with every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithRetries enables retrying of server errors and network failures:
// up to maxRetries attempts after the first, delayed per strategy.
// A nil strategy uses backoff.DefaultStrategy.
func WithRetries(maxRetries int, strategy backoff.Strategy) Option {
	return func(c *Client) {
		if strategy == nil {
			strategy = backoff.DefaultStrategy()
		}
		c.maxRetries = maxRetries
		c.backoff = strategy
	}
}

// WithRateLimit caps outgoing requests at rps per second with the given
// burst. Useful when many wizard instances share one endpoint quota.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}
