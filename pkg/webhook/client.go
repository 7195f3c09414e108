package webhook

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// IdempotencyHeader carries the delivery ID when retries are enabled.
const IdempotencyHeader = "Idempotency-Key"

// Delivery is one payload bound for one endpoint.
type Delivery struct {
	ID       string
	Endpoint string
	Payload  []byte
}

// Client posts JSON payloads to webhook endpoints.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
	headers    map[string]string
	retries    int
	backoff    time.Duration
	logger     *slog.Logger
}

// New constructs a client with an otelhttp-instrumented transport, no timeout
// and no retries.
func New(options ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		headers: make(map[string]string),
		backoff: 500 * time.Millisecond,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// Deliver posts the payload. It returns nil for a 2xx answer and a
// *TransportError otherwise.
func (c *Client) Deliver(ctx context.Context, d Delivery) error {
	endpoint := strings.TrimSpace(d.Endpoint)
	if endpoint == "" {
		return ErrEndpointNotConfigured
	}

	attempts := c.retries + 1
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := c.post(ctx, endpoint, d)
		if err == nil {
			c.logger.Debug("webhook delivered",
				slog.String("delivery_id", d.ID),
				slog.Int("attempt", attempt),
			)
			return nil
		}
		lastErr = err

		c.logger.Warn("webhook delivery failed",
			slog.String("delivery_id", d.ID),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", attempts),
			slog.String("error", err.Error()),
		)

		if attempt == attempts || !isTemporary(err) || ctx.Err() != nil {
			break
		}
		if err := sleep(ctx, c.backoff); err != nil {
			break
		}
	}
	return lastErr
}

func (c *Client) post(ctx context.Context, endpoint string, d Delivery) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(d.Payload))
	if err != nil {
		return &TransportError{Endpoint: endpoint, Err: err}
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.retries > 0 && d.ID != "" {
		req.Header.Set(IdempotencyHeader, d.ID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &TransportError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}
	return nil
}

func isTemporary(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Temporary()
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
