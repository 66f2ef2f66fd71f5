package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/kursline/rate-service/internal/cache"
	"github.com/kursline/rate-service/internal/metrics"
	"github.com/kursline/rate-service/internal/model"
	"github.com/kursline/rate-service/internal/provider"
)

// RateService resolves exchange rates for supported currency pairs. Major
// pairs go through the historical source (with date-proximity fallback) and
// then the latest-rate backup; UAH pairs go through the national authority
// with orientation handled here. Absence of data is the normal failure
// signal: both entry points return nil, nil when no provider can answer.
type RateService struct {
	cache   *cache.RateCache
	major   provider.RateSource
	uah     provider.RateSource
	backup  provider.RateSource
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewRateService creates a RateService with dependency injection. The major
// and uah sources are expected to carry their own proximity fallback; backup
// is consulted for major pairs only after the primary is exhausted. metrics
// may be nil.
func NewRateService(
	rateCache *cache.RateCache,
	major provider.RateSource,
	uah provider.RateSource,
	backup provider.RateSource,
	m *metrics.Metrics,
	logger *zap.Logger,
) *RateService {
	return &RateService{
		cache:   rateCache,
		major:   major,
		uah:     uah,
		backup:  backup,
		metrics: m,
		logger:  logger,
	}
}

// Resolve routes to ResolveMajor or ResolveUAH depending on the pair.
func (s *RateService) Resolve(ctx context.Context, base, target string, date time.Time) (*model.RateResult, error) {
	if model.InvolvesUAH(base, target) {
		return s.ResolveUAH(ctx, base, target, date)
	}
	return s.ResolveMajor(ctx, base, target, date)
}

// ResolveMajor resolves a pair not involving UAH: cache, then the historical
// source with proximity fallback, then the latest-rate backup (which only
// answers for today's date). A success is cached under the requested date.
func (s *RateService) ResolveMajor(ctx context.Context, base, target string, date time.Time) (*model.RateResult, error) {
	day := model.Day(date)
	start := time.Now()

	if result := s.fromCache(base, target, day); result != nil {
		s.recordRequest(base, target, "cache_hit", start)
		return result, nil
	}

	rate := s.fetchFrom(ctx, s.major, base, target, day)
	if rate == nil {
		rate = s.fetchFrom(ctx, s.backup, base, target, day)
	}

	if rate == nil {
		s.recordRequest(base, target, "not_found", start)
		s.logger.Warn("No rate from any provider",
			zap.String("base", base),
			zap.String("target", target),
			zap.String("date", day.Format(model.DateLayout)),
		)
		return nil, nil
	}

	s.recordRequest(base, target, "ok", start)
	return s.store(base, target, day, rate), nil
}

// ResolveUAH resolves a pair where exactly one side is UAH. When base is UAH
// the authority is queried for the target code and the raw UAH-per-target
// rate is inverted; when target is UAH the raw rate is used directly. Any
// other combination is a caller contract violation and resolves to no data.
func (s *RateService) ResolveUAH(ctx context.Context, base, target string, date time.Time) (*model.RateResult, error) {
	if !model.InvolvesUAH(base, target) {
		s.logger.Error("ResolveUAH called without a UAH side",
			zap.String("base", base),
			zap.String("target", target),
		)
		return nil, nil
	}

	day := model.Day(date)
	start := time.Now()

	if result := s.fromCache(base, target, day); result != nil {
		s.recordRequest(base, target, "cache_hit", start)
		return result, nil
	}

	// The authority is always denominated in UAH, so it is queried by the
	// non-UAH code regardless of orientation.
	code := target
	if target == model.UAH {
		code = base
	}

	raw := s.fetchFrom(ctx, s.uah, base, code, day)
	if raw == nil {
		s.recordRequest(base, target, "not_found", start)
		return nil, nil
	}

	rate := *raw
	if base == model.UAH {
		// Raw is UAH per 1 unit of target; invert for target per 1 UAH.
		rate.Rate = 1.0 / raw.Rate
	}

	s.recordRequest(base, target, "ok", start)
	return s.store(base, target, day, &rate), nil
}

// Convert resolves the rate for the pair and applies it to amount, rounding
// the result to 4 decimal places.
func (s *RateService) Convert(ctx context.Context, base, target string, date time.Time, amount decimal.Decimal) (*model.Conversion, error) {
	result, err := s.Resolve(ctx, base, target, date)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}

	converted := amount.Mul(decimal.NewFromFloat(result.Rate)).Round(4)

	return &model.Conversion{
		Amount:    amount.String(),
		Converted: converted.String(),
		Result:    *result,
	}, nil
}

// ClearCache removes all cached rates and returns the number removed.
func (s *RateService) ClearCache() int {
	count := s.cache.Clear()
	s.logger.Info("Cleared rate cache", zap.Int("entries", count))
	return count
}

// CacheStats returns rate cache introspection data.
func (s *RateService) CacheStats() model.CacheStats {
	return s.cache.Stats()
}

// fromCache returns a RateResult from the cache, or nil on miss.
func (s *RateService) fromCache(base, target string, day time.Time) *model.RateResult {
	entry := s.cache.Get(base, target, day)
	if entry == nil {
		if s.metrics != nil {
			s.metrics.RecordCacheMiss()
		}
		return nil
	}

	if s.metrics != nil {
		s.metrics.RecordCacheHit()
	}
	s.logger.Debug("Rate cache hit",
		zap.String("base", base),
		zap.String("target", target),
		zap.String("date", day.Format(model.DateLayout)),
	)
	return &model.RateResult{
		Base:       base,
		Target:     target,
		Rate:       entry.Rate,
		ActualDate: entry.ActualDate,
		IsFallback: !model.SameDay(entry.ActualDate, day),
	}
}

// fetchFrom queries one source, converging every failure mode to nil.
func (s *RateService) fetchFrom(ctx context.Context, source provider.RateSource, base, target string, day time.Time) *provider.Rate {
	if source == nil {
		return nil
	}

	start := time.Now()
	rate, err := source.FetchRate(ctx, base, target, day)
	elapsed := time.Since(start).Seconds()

	switch {
	case err != nil:
		if s.metrics != nil {
			s.metrics.RecordProviderRequest(source.Name(), "error", elapsed)
		}
		s.logger.Error("Provider request failed",
			zap.String("provider", source.Name()),
			zap.String("base", base),
			zap.String("target", target),
			zap.Error(err),
		)
		return nil
	case rate == nil:
		if s.metrics != nil {
			s.metrics.RecordProviderRequest(source.Name(), "miss", elapsed)
		}
		return nil
	default:
		if s.metrics != nil {
			s.metrics.RecordProviderRequest(source.Name(), "ok", elapsed)
			s.metrics.RecordFallbackDays(base, target, day.Sub(model.Day(rate.ActualDate)).Hours()/24)
		}
		return rate
	}
}

// store caches the resolved rate under the requested date and builds the
// caller-facing result.
func (s *RateService) store(base, target string, day time.Time, rate *provider.Rate) *model.RateResult {
	actual := model.Day(rate.ActualDate)
	s.cache.Put(base, target, day, rate.Rate, actual)

	result := &model.RateResult{
		Base:       base,
		Target:     target,
		Rate:       rate.Rate,
		ActualDate: actual,
		IsFallback: !model.SameDay(actual, day),
	}

	s.logger.Info("Resolved rate",
		zap.String("base", base),
		zap.String("target", target),
		zap.String("requested", day.Format(model.DateLayout)),
		zap.String("actual", actual.Format(model.DateLayout)),
		zap.Float64("rate", result.Rate),
		zap.Bool("fallback", result.IsFallback),
	)
	return result
}

// recordRequest records request-level metrics.
func (s *RateService) recordRequest(base, target, status string, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordRateRequest(base, target, status, time.Since(start).Seconds())
}

// FormatRate renders a result the way the conversational layer presents it.
func FormatRate(r *model.RateResult) string {
	if r == nil {
		return "no data"
	}
	if r.IsFallback {
		return fmt.Sprintf("%g (as of %s)", r.Rate, r.ActualDate.Format(model.DateLayout))
	}
	return fmt.Sprintf("%g", r.Rate)
}
