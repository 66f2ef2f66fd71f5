package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kursline/rate-service/internal/model"
)

// Frankfurter is the multi-currency historical source for major pairs.
// It is queried by exact ISO date; a date with no published rate (weekend,
// holiday) yields no data rather than an error.
type Frankfurter struct {
	baseURL string
	fetcher Fetcher
	logger  *zap.Logger
}

// NewFrankfurter creates a Frankfurter adapter.
func NewFrankfurter(baseURL string, fetcher Fetcher, logger *zap.Logger) *Frankfurter {
	if baseURL == "" {
		baseURL = "https://api.frankfurter.app"
	}
	return &Frankfurter{
		baseURL: baseURL,
		fetcher: fetcher,
		logger:  logger,
	}
}

func (f *Frankfurter) Name() string { return "frankfurter" }

type frankfurterResponse struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

// FetchRate returns the target-per-base rate published for the given date.
func (f *Frankfurter) FetchRate(ctx context.Context, base, target string, date time.Time) (*Rate, error) {
	url := fmt.Sprintf("%s/%s?from=%s&to=%s", f.baseURL, date.Format(model.DateLayout), base, target)

	body, err := f.fetcher.FetchJSON(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("frankfurter fetch failed: %w", err)
	}
	if body == nil {
		return nil, nil
	}

	var resp frankfurterResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode frankfurter response: %w", err)
	}

	rate, ok := resp.Rates[target]
	if !ok {
		f.logger.Warn("Frankfurter response missing target rate",
			zap.String("base", base),
			zap.String("target", target),
			zap.String("date", date.Format(model.DateLayout)),
		)
		return nil, nil
	}

	actual, err := time.Parse(model.DateLayout, resp.Date)
	if err != nil {
		// Response carried no usable date; assume the requested one.
		actual = model.Day(date)
	}

	return &Rate{Rate: rate, ActualDate: actual}, nil
}
