package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kursline/rate-service/internal/model"
)

// ExchangeRateAPI is the backup latest-rate source. It has no historical
// capability, so it only answers when the requested date is the current
// calendar date.
type ExchangeRateAPI struct {
	baseURL string
	fetcher Fetcher
	logger  *zap.Logger

	// now is replaceable in tests.
	now func() time.Time
}

// NewExchangeRateAPI creates the backup adapter.
func NewExchangeRateAPI(baseURL string, fetcher Fetcher, logger *zap.Logger) *ExchangeRateAPI {
	if baseURL == "" {
		baseURL = "https://api.exchangerate-api.com/v4/latest"
	}
	return &ExchangeRateAPI{
		baseURL: baseURL,
		fetcher: fetcher,
		logger:  logger,
		now:     time.Now,
	}
}

func (e *ExchangeRateAPI) Name() string { return "exchangerate-api" }

type exchangeRateAPIResponse struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

// FetchRate returns today's target-per-base rate, or nil for any other date.
func (e *ExchangeRateAPI) FetchRate(ctx context.Context, base, target string, date time.Time) (*Rate, error) {
	if !model.SameDay(date, e.now()) {
		return nil, nil
	}

	url := fmt.Sprintf("%s/%s", e.baseURL, base)

	body, err := e.fetcher.FetchJSON(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("exchangerate-api fetch failed: %w", err)
	}
	if body == nil {
		return nil, nil
	}

	var resp exchangeRateAPIResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode exchangerate-api response: %w", err)
	}

	rate, ok := resp.Rates[target]
	if !ok {
		e.logger.Warn("Backup source missing target rate",
			zap.String("base", base),
			zap.String("target", target),
		)
		return nil, nil
	}

	actual, err := time.Parse(model.DateLayout, resp.Date)
	if err != nil {
		actual = model.Day(date)
	}

	return &Rate{Rate: rate, ActualDate: actual}, nil
}
