package webhook

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Option configures the webhook client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client. The client's transport is used as
// is; callers wanting tracing should wrap it themselves.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout bounds each attempt. Zero leaves attempts unbounded.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithHeaders adds static headers to every request. Content-Type cannot be
// overridden.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		for k, v := range headers {
			key := strings.TrimSpace(k)
			if key == "" || strings.EqualFold(key, "Content-Type") {
				continue
			}
			c.headers[http.CanonicalHeaderKey(key)] = v
		}
	}
}

// WithRetries enables up to n additional attempts for temporary failures.
func WithRetries(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.retries = n
		}
	}
}

// WithBackoff sets the pause between retry attempts.
func WithBackoff(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.backoff = d
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}
