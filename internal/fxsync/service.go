package fxsync

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/meridian-tours/meridian/internal/platform/cache"
	"github.com/meridian-tours/meridian/internal/pricing"
)

const importConcurrency = 4

// RateSink persists imported exchange rates.
type RateSink interface {
	CreateExchangeRate(ctx context.Context, fx pricing.ExchangeRate) (*pricing.ExchangeRate, error)
	ListTenantIDs(ctx context.Context) ([]int64, error)
}

// RateFetcher retrieves a fresh quote from the upstream provider.
type RateFetcher interface {
	Fetch(ctx context.Context, from, to string) (*ProviderRate, error)
}

// Service imports the daily sell/cost reference rate for every tenant.
type Service struct {
	logger   *slog.Logger
	sink     RateSink
	fetcher  RateFetcher
	redis    *redis.Client
	cacheTTL time.Duration
	from     string
	to       string
}

func NewService(logger *slog.Logger, sink RateSink, fetcher RateFetcher, redisClient *redis.Client, cacheTTL time.Duration, from, to string) *Service {
	return &Service{
		logger:   logger,
		sink:     sink,
		fetcher:  fetcher,
		redis:    redisClient,
		cacheTTL: cacheTTL,
		from:     from,
		to:       to,
	}
}

// Import fetches today's rate and records one exchange_rates row per tenant.
// A cached provider response is reused within the TTL so repeated runs in a
// day do not hammer the upstream; force skips the cache read and always asks
// the provider.
func (s *Service) Import(ctx context.Context, force bool) (int, error) {
	quote, err := s.fetchCached(ctx, force)
	if err != nil {
		return 0, err
	}

	tenants, err := s.sink.ListTenantIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("fxsync: list tenants: %w", err)
	}

	// One tenant failing should not abort the rest of the run.
	var imported atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(importConcurrency)
	for _, tenantID := range tenants {
		g.Go(func() error {
			_, err := s.sink.CreateExchangeRate(gctx, pricing.ExchangeRate{
				TenantID:     tenantID,
				FromCurrency: quote.FromCurrency,
				ToCurrency:   quote.ToCurrency,
				Rate:         quote.Rate,
				RateDate:     quote.RateDate,
				Source:       "provider",
			})
			if err != nil {
				s.logger.Error("fx import failed for tenant",
					slog.Int64("tenant_id", tenantID),
					slog.Any("error", err))
				return nil
			}
			imported.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	s.logger.Info("fx import completed",
		slog.String("pair", quote.FromCurrency+"/"+quote.ToCurrency),
		slog.String("rate", quote.Rate.String()),
		slog.Time("rate_date", quote.RateDate),
		slog.Int64("tenants", imported.Load()))
	return int(imported.Load()), nil
}

func (s *Service) fetchCached(ctx context.Context, force bool) (*ProviderRate, error) {
	key := fmt.Sprintf("fxsync:%s:%s:%s", s.from, s.to, time.Now().UTC().Format("2006-01-02"))

	if s.redis != nil && !force {
		cached, ok, err := cache.GetString(ctx, s.redis, key)
		if err != nil {
			s.logger.Warn("fx cache read failed", slog.Any("error", err))
		} else if ok {
			var quote ProviderRate
			if err := json.Unmarshal([]byte(cached), &quote); err == nil {
				return &quote, nil
			}
		}
	}

	quote, err := s.fetcher.Fetch(ctx, s.from, s.to)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if raw, err := json.Marshal(quote); err == nil {
			if err := cache.SetString(ctx, s.redis, key, string(raw), s.cacheTTL); err != nil {
				s.logger.Warn("fx cache write failed", slog.Any("error", err))
			}
		}
	}
	return quote, nil
}
