package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kursline/rate-service/internal/model"
)

// nbuDateLayout is the authority's own date format (DD.MM.YYYY).
const nbuDateLayout = "02.01.2006"

// NBU is the national bank authority source for UAH pairs. It is always
// denominated in UAH: a query for code X on date D answers "UAH per 1 unit
// of X". Orientation and inversion are the caller's responsibility.
type NBU struct {
	baseURL string
	fetcher Fetcher
	logger  *zap.Logger
}

// NewNBU creates an NBU adapter.
func NewNBU(baseURL string, fetcher Fetcher, logger *zap.Logger) *NBU {
	if baseURL == "" {
		baseURL = "https://bank.gov.ua/NBUStatService/v1/statdirectory/exchange"
	}
	return &NBU{
		baseURL: baseURL,
		fetcher: fetcher,
		logger:  logger,
	}
}

func (n *NBU) Name() string { return "nbu" }

type nbuRecord struct {
	Rate         float64 `json:"rate"`
	Code         string  `json:"cc"`
	ExchangeDate string  `json:"exchangedate"`
}

// FetchRate returns the UAH-per-target rate for the given date. The base
// argument is ignored: the authority has a single home currency. The
// authority may settle on a different date than requested; its exchangedate
// field becomes the ActualDate.
func (n *NBU) FetchRate(ctx context.Context, _, target string, date time.Time) (*Rate, error) {
	url := fmt.Sprintf("%s?valcode=%s&date=%s&json", n.baseURL, target, date.Format("20060102"))

	body, err := n.fetcher.FetchJSON(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("nbu fetch failed: %w", err)
	}
	if body == nil {
		return nil, nil
	}

	var records []nbuRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("failed to decode nbu response: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	rec := records[0]
	if rec.Rate <= 0 {
		// Invalid data from the authority: never cached, never returned.
		n.logger.Error("Invalid rate from NBU",
			zap.String("target", target),
			zap.Float64("rate", rec.Rate),
		)
		return nil, nil
	}

	actual, err := time.Parse(nbuDateLayout, rec.ExchangeDate)
	if err != nil {
		actual = model.Day(date)
	}

	return &Rate{Rate: rec.Rate, ActualDate: actual}, nil
}
