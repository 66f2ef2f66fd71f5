package provider

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kursline/rate-service/internal/model"
)

// FallbackSource wraps a RateSource with a date-proximity search: when the
// requested date yields nothing, it walks backward one calendar day at a time
// until a rate is found or the lookback window is exhausted. The first hit
// wins; future dates are never substituted. A trading gap wider than the
// window is reported as no data rather than a stale rate.
type FallbackSource struct {
	source  RateSource
	maxDays int
	enabled bool
	logger  *zap.Logger
}

// NewFallbackSource wraps source with a lookback window of maxDays. When
// enabled is false only the requested date is tried.
func NewFallbackSource(source RateSource, maxDays int, enabled bool, logger *zap.Logger) *FallbackSource {
	if maxDays <= 0 {
		maxDays = 7
	}
	return &FallbackSource{
		source:  source,
		maxDays: maxDays,
		enabled: enabled,
		logger:  logger,
	}
}

func (f *FallbackSource) Name() string { return f.source.Name() }

// FetchRate tries the requested date first, then earlier days within the
// window. If the requested date itself answers, the walk never begins.
func (f *FallbackSource) FetchRate(ctx context.Context, base, target string, date time.Time) (*Rate, error) {
	day := model.Day(date)

	rate, err := f.source.FetchRate(ctx, base, target, day)
	if err != nil || rate != nil {
		return rate, err
	}

	if !f.enabled {
		return nil, nil
	}

	for back := 1; back <= f.maxDays; back++ {
		try := day.AddDate(0, 0, -back)

		rate, err = f.source.FetchRate(ctx, base, target, try)
		if err != nil {
			return nil, err
		}
		if rate != nil {
			f.logger.Info("Found rate on fallback date",
				zap.String("source", f.source.Name()),
				zap.String("base", base),
				zap.String("target", target),
				zap.String("requested", day.Format(model.DateLayout)),
				zap.String("actual", rate.ActualDate.Format(model.DateLayout)),
				zap.Int("daysBack", back),
			)
			return rate, nil
		}
	}

	f.logger.Warn("No rate within fallback window",
		zap.String("source", f.source.Name()),
		zap.String("base", base),
		zap.String("target", target),
		zap.String("requested", day.Format(model.DateLayout)),
		zap.Int("maxDays", f.maxDays),
	)
	return nil, nil
}
