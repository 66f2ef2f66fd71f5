package provider

import (
	"context"
	"time"
)

// Rate is a raw exchange rate from an upstream source. ActualDate is the
// trading date the source actually published the rate for, which may differ
// from the requested date.
type Rate struct {
	Rate       float64
	ActualDate time.Time
}

// RateSource is an adapter over one upstream rate provider.
// Implementations return nil, nil when the source has no data for the exact
// query; errors are reserved for unexpected failures.
type RateSource interface {
	// FetchRate returns the rate for 1 unit of base in target units on the
	// given calendar date, or nil when the source has nothing for that date.
	FetchRate(ctx context.Context, base, target string, date time.Time) (*Rate, error)

	// Name returns the source name for logs and metrics.
	Name() string
}

// Fetcher is the HTTP client the adapters fetch JSON documents with.
// nil, nil means the provider definitively has no data for the URL.
type Fetcher interface {
	FetchJSON(ctx context.Context, url string) ([]byte, error)
}
