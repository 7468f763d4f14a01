package pricing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/meridian-tours/meridian/internal/catalog"
	"github.com/meridian-tours/meridian/internal/money"
)

// RateRepository is the persistence surface for rate management.
type RateRepository interface {
	RateStore
	CreateRate(ctx context.Context, rate SeasonalRate) (*SeasonalRate, error)
	ListRates(ctx context.Context, tenantID, offeringID int64) ([]SeasonalRate, error)
	DeactivateRate(ctx context.Context, tenantID, rateID int64) error
	CreateExchangeRate(ctx context.Context, fx ExchangeRate) (*ExchangeRate, error)
}

// Service manages seasonal and exchange rate records.
type Service struct {
	repo      RateRepository
	offerings OfferingSource
	logger    *slog.Logger
}

// NewService constructs the rate management service.
func NewService(repo RateRepository, offerings OfferingSource, logger *slog.Logger) *Service {
	return &Service{repo: repo, offerings: offerings, logger: logger}
}

// CreateRate inserts a seasonal rate after enforcing the catalog
// invariants: the offering must exist, carry its detail record, and the
// payload variant must match its category.
func (s *Service) CreateRate(ctx context.Context, rate SeasonalRate) (*SeasonalRate, error) {
	if DateOnly(rate.SeasonTo).Before(DateOnly(rate.SeasonFrom)) {
		return nil, fmt.Errorf("%w: season_to before season_from", ErrInvalidParams)
	}

	offering, err := s.offerings.GetOffering(ctx, rate.TenantID, rate.OfferingID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, fmt.Errorf("%w: id=%d", ErrOfferingNotFound, rate.OfferingID)
		}
		return nil, fmt.Errorf("load offering: %w", err)
	}
	if !offering.Detail.Matches(offering.Category) {
		return nil, fmt.Errorf("%w: offering id=%d", ErrMissingDetail, offering.ID)
	}
	if rate.Category == "" {
		rate.Category = offering.Category
	}
	if rate.Category != offering.Category {
		return nil, fmt.Errorf("%w: rate category=%s offering category=%s", ErrCategoryMismatch, rate.Category, offering.Category)
	}
	if !rate.Payload.Matches(rate.Category) {
		return nil, fmt.Errorf("%w: payload does not match category %s", ErrCategoryMismatch, rate.Category)
	}

	created, err := s.repo.CreateRate(ctx, rate)
	if err != nil {
		return nil, err
	}
	s.logger.Info("seasonal rate created",
		slog.Int64("tenant_id", created.TenantID),
		slog.Int64("offering_id", created.OfferingID),
		slog.Int64("rate_id", created.ID),
		slog.String("season_from", DateOnly(created.SeasonFrom).Format("2006-01-02")),
		slog.String("season_to", DateOnly(created.SeasonTo).Format("2006-01-02")))
	return created, nil
}

// ListRates returns all rates for an offering.
func (s *Service) ListRates(ctx context.Context, tenantID, offeringID int64) ([]SeasonalRate, error) {
	return s.repo.ListRates(ctx, tenantID, offeringID)
}

// DeactivateRate soft-deletes a rate.
func (s *Service) DeactivateRate(ctx context.Context, tenantID, rateID int64) error {
	return s.repo.DeactivateRate(ctx, tenantID, rateID)
}

// CreateExchangeRate records one conversion-rate observation.
func (s *Service) CreateExchangeRate(ctx context.Context, fx ExchangeRate) (*ExchangeRate, error) {
	if err := money.ValidateCurrency(fx.FromCurrency); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	if err := money.ValidateCurrency(fx.ToCurrency); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	if !fx.Rate.IsPositive() {
		return nil, fmt.Errorf("%w: rate=%s", ErrInvalidRate, fx.Rate)
	}
	if fx.RateDate.IsZero() {
		return nil, fmt.Errorf("%w: rate date required", ErrInvalidParams)
	}
	if fx.Source == "" {
		fx.Source = "manual"
	}
	return s.repo.CreateExchangeRate(ctx, fx)
}

// ListExchangeRates returns the history for a pair, newest first.
func (s *Service) ListExchangeRates(ctx context.Context, tenantID int64, from, to string) ([]ExchangeRate, error) {
	return s.repo.ListExchangeRates(ctx, tenantID, from, to)
}
