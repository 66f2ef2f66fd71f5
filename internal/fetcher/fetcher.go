package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Client fetches JSON documents over HTTP with retry and exponential backoff.
// Transient failures (5xx, timeouts, connection errors) are retried up to
// MaxRetries attempts; definitive answers (200, 404, other 4xx) are returned
// immediately.
type Client struct {
	httpClient *http.Client
	maxRetries int
	retryDelay time.Duration
	logger     *zap.Logger

	// sleep is replaceable in tests to avoid real backoff delays.
	sleep func(ctx context.Context, d time.Duration) error
}

// Options configures a fetcher Client.
type Options struct {
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// NewClient creates a fetcher with the given options. Zero values fall back
// to the production defaults (10s timeout, 3 attempts, 1s base delay).
func NewClient(opts Options, logger *zap.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: opts.Timeout},
		maxRetries: opts.MaxRetries,
		retryDelay: opts.RetryDelay,
		logger:     logger,
		sleep:      sleepCtx,
	}
}

// FetchJSON issues a GET request for url and returns the response body.
// Returns nil, nil when the provider has no data for the query (404 or any
// other 4xx). Transient failures are retried with exponential backoff; after
// exhaustion nil, nil is returned and the failure is only logged.
func (c *Client) FetchJSON(ctx context.Context, url string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff: base delay doubled per attempt.
			delay := c.retryDelay * (1 << (attempt - 1))
			if err := c.sleep(ctx, delay); err != nil {
				return nil, err
			}
		}

		body, retryable, err := c.fetchOnce(ctx, url)
		if err == nil {
			return body, nil
		}
		if !retryable {
			if err == errNoData {
				return nil, nil
			}
			return nil, err
		}

		lastErr = err
		c.logger.Warn("Transient fetch failure, will retry",
			zap.String("url", url),
			zap.Int("attempt", attempt+1),
			zap.Int("maxRetries", c.maxRetries),
			zap.Error(err),
		)
	}

	c.logger.Error("All retry attempts failed",
		zap.String("url", url),
		zap.Error(lastErr),
	)
	return nil, nil
}

// errNoData marks a definitive "no data" answer from the provider.
var errNoData = fmt.Errorf("no data")

// fetchOnce performs a single attempt. The second return value reports
// whether the failure is transient and worth retrying.
func (c *Client) fetchOnce(ctx context.Context, url string) (body []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Network errors and client timeouts are transient.
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return nil, false, fmt.Errorf("failed to read response body: %w", err)
		}
		return body, false, nil

	case resp.StatusCode == http.StatusNotFound:
		// Provider has no data for this exact query.
		c.logger.Debug("Data not found", zap.String("url", url))
		return nil, false, errNoData

	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("server error: %d", resp.StatusCode)

	default:
		// Remaining 4xx: caller error, retrying will not help.
		c.logger.Warn("Client error from provider",
			zap.String("url", url),
			zap.Int("status", resp.StatusCode),
		)
		return nil, false, errNoData
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
