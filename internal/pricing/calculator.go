package pricing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/meridian-tours/meridian/internal/catalog"
	"github.com/meridian-tours/meridian/internal/money"
	"github.com/meridian-tours/meridian/internal/observability"
)

// OfferingSource looks up offerings with their detail records.
type OfferingSource interface {
	GetOffering(ctx context.Context, tenantID, id int64) (*catalog.ServiceOffering, error)
}

// RateStore loads the rate data the calculator resolves against.
type RateStore interface {
	ListActiveRates(ctx context.Context, tenantID, offeringID int64) ([]SeasonalRate, error)
	ListExchangeRates(ctx context.Context, tenantID int64, from, to string) ([]ExchangeRate, error)
}

// QuoteRequest identifies one offering, one service date and the trip
// parameters to price.
type QuoteRequest struct {
	OfferingID  int64
	ServiceDate time.Time
	Params      TripParams
}

// Calculator orchestrates seasonal rate resolution, the category cost
// formula, exchange-rate resolution and markup into a Quote. Quoting is
// read-only and idempotent for identical inputs while the underlying rate
// data is unchanged.
type Calculator struct {
	offerings     OfferingSource
	rates         RateStore
	costCurrency  string
	sellCurrency  string
	defaultMarkup decimal.Decimal
	logger        *slog.Logger
	metrics       *observability.Metrics
}

// NewCalculator constructs a Calculator. Exchange rates are stored as one
// unit of sell currency expressed in cost currency (e.g. EUR->TRY 35.5),
// matching the division in the sell-price formula.
func NewCalculator(offerings OfferingSource, rates RateStore, costCurrency, sellCurrency string, defaultMarkup decimal.Decimal, logger *slog.Logger, metrics *observability.Metrics) *Calculator {
	return &Calculator{
		offerings:     offerings,
		rates:         rates,
		costCurrency:  costCurrency,
		sellCurrency:  sellCurrency,
		defaultMarkup: defaultMarkup,
		logger:        logger,
		metrics:       metrics,
	}
}

// GetQuote produces a Quote for the request or fails entirely; a partially
// computed quote is never returned.
func (c *Calculator) GetQuote(ctx context.Context, tenantID int64, req QuoteRequest) (*Quote, error) {
	quote, err := c.getQuote(ctx, tenantID, req)
	c.countOutcome(err)
	if err != nil {
		return nil, err
	}
	return quote, nil
}

func (c *Calculator) getQuote(ctx context.Context, tenantID int64, req QuoteRequest) (*Quote, error) {
	if req.ServiceDate.IsZero() {
		return nil, fmt.Errorf("%w: service date required", ErrInvalidParams)
	}

	offering, err := c.offerings.GetOffering(ctx, tenantID, req.OfferingID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, fmt.Errorf("%w: id=%d tenant=%d", ErrOfferingNotFound, req.OfferingID, tenantID)
		}
		return nil, fmt.Errorf("load offering: %w", err)
	}
	if !offering.IsActive {
		return nil, fmt.Errorf("%w: id=%d is inactive", ErrOfferingNotFound, req.OfferingID)
	}

	seasonRates, err := c.rates.ListActiveRates(ctx, tenantID, offering.ID)
	if err != nil {
		return nil, fmt.Errorf("load seasonal rates: %w", err)
	}
	rate, err := PickSeasonalRate(seasonRates, req.ServiceDate)
	if err != nil {
		return nil, fmt.Errorf("offering id=%d: %w", offering.ID, err)
	}

	cost, breakdown, err := CostFor(offering, rate, req.Params)
	if err != nil {
		return nil, fmt.Errorf("rate id=%d params=%+v: %w", rate.ID, req.Params, err)
	}

	// Resolved at the service date, not today, so pricing stays
	// reproducible for historical and future-dated bookings.
	fx, err := c.resolveFX(ctx, tenantID, req.ServiceDate)
	if err != nil {
		return nil, err
	}

	markup := c.defaultMarkup
	if offering.MarkupPct != nil {
		markup = *offering.MarkupPct
	}

	sell := SellPrice(cost, markup, fx.Rate)
	quote := &Quote{
		Cost:             money.Amount{Value: cost, Currency: c.costCurrency},
		SellPrice:        money.Amount{Value: sell, Currency: c.sellCurrency},
		ExchangeRateUsed: fx.Rate,
		ExchangeRateID:   fx.ID,
		MarkupPct:        markup,
		MarginPct:        MarginPct(sell, cost, fx.Rate),
		RateID:           rate.ID,
		Breakdown:        breakdown,
	}
	return quote, nil
}

// ResolveRate resolves the conversion rate effective at the given date.
// Bookings use this to fix their locked rate at creation.
func (c *Calculator) ResolveRate(ctx context.Context, tenantID int64, at time.Time) (ExchangeRate, error) {
	return c.resolveFX(ctx, tenantID, at)
}

func (c *Calculator) resolveFX(ctx context.Context, tenantID int64, at time.Time) (ExchangeRate, error) {
	rows, err := c.rates.ListExchangeRates(ctx, tenantID, c.sellCurrency, c.costCurrency)
	if err != nil {
		return ExchangeRate{}, fmt.Errorf("load exchange rates: %w", err)
	}
	fx, err := ResolveExchangeRate(rows, at)
	if err != nil {
		if errors.Is(err, ErrInvalidRate) {
			// Corrupted catalog data; surface loudly.
			c.logger.Error("invalid exchange rate in history",
				slog.Int64("tenant_id", tenantID),
				slog.Any("error", err))
		}
		return ExchangeRate{}, err
	}
	return fx, nil
}

func (c *Calculator) countOutcome(err error) {
	if c.metrics == nil {
		return
	}
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrNoApplicableRate), errors.Is(err, ErrNoRateOnOrBefore), errors.Is(err, ErrNoRatesAvailable):
		outcome = "no_rate"
	case errors.Is(err, ErrOfferingNotFound):
		outcome = "not_found"
	case errors.Is(err, ErrInvalidParams), errors.Is(err, ErrBelowMinStay), errors.Is(err, ErrBelowMinPax),
		errors.Is(err, ErrAbovePaxCapacity), errors.Is(err, ErrPaxOutOfTierRange), errors.Is(err, ErrCategoryMismatch),
		errors.Is(err, ErrMissingDetail):
		outcome = "invalid"
	default:
		outcome = "error"
	}
	c.metrics.QuotesTotal.WithLabelValues(outcome).Inc()
}
