// Package fetch downloads image bytes over HTTP with a bounded timeout.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	// DefaultTimeout bounds each image download. One attempt per URL; there
	// is no retry policy.
	DefaultTimeout = 20 * time.Second

	// DefaultUserAgent is the fixed identification header sent with every
	// request.
	DefaultUserAgent = "Mozilla/5.0"
)

// Client downloads raw bytes from image URLs.
type Client struct {
	http      *http.Client
	userAgent string
	logger    *slog.Logger
}

// New creates a fetch client. Zero timeout and empty userAgent fall back
// to the defaults.
func New(timeout time.Duration, userAgent string, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{
		http: &http.Client{
			Timeout: timeout,
		},
		userAgent: userAgent,
		logger:    logger,
	}
}

// Get downloads the body at url. Non-2xx responses return a *StatusError.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	c.logger.Debug("fetching image", "url", url)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return body, nil
}
