package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/meridian-tours/meridian/internal/pricing"
)

// ErrInvalidItem indicates item parameters fail a precondition.
var ErrInvalidItem = errors.New("booking: invalid item")

// Store abstracts persistence for the booking service.
type Store interface {
	Create(ctx context.Context, b Booking) (*Booking, error)
	Get(ctx context.Context, tenantID, id int64) (*Booking, error)
	AddItem(ctx context.Context, item Item) (*Item, error)
	UpdateStatus(ctx context.Context, tenantID, id int64, status Status) error
}

// Quoter produces quotes and resolves exchange rates for rate locking.
type Quoter interface {
	GetQuote(ctx context.Context, tenantID int64, req pricing.QuoteRequest) (*pricing.Quote, error)
	ResolveRate(ctx context.Context, tenantID int64, at time.Time) (pricing.ExchangeRate, error)
}

// Service owns the booking lifecycle and the quote-freezing contract.
type Service struct {
	store  Store
	quoter Quoter
	logger *slog.Logger
	now    func() time.Time
}

// NewService constructs the booking service.
func NewService(store Store, quoter Quoter, logger *slog.Logger) *Service {
	return &Service{store: store, quoter: quoter, logger: logger, now: time.Now}
}

// Create opens a draft booking, locking the exchange rate effective today.
// The locked rate is fixed for the booking's lifetime.
func (s *Service) Create(ctx context.Context, tenantID int64, clientName string) (*Booking, error) {
	if clientName == "" {
		return nil, fmt.Errorf("%w: client name required", ErrInvalidItem)
	}
	fx, err := s.quoter.ResolveRate(ctx, tenantID, s.now())
	if err != nil {
		return nil, fmt.Errorf("lock exchange rate: %w", err)
	}
	created, err := s.store.Create(ctx, Booking{
		TenantID:           tenantID,
		ClientName:         clientName,
		Status:             StatusDraft,
		LockedExchangeRate: fx.Rate,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("booking created",
		slog.Int64("tenant_id", tenantID),
		slog.Int64("booking_id", created.ID),
		slog.String("locked_rate", fx.Rate.String()))
	return created, nil
}

// Get loads a booking with its items.
func (s *Service) Get(ctx context.Context, tenantID, id int64) (*Booking, error) {
	return s.store.Get(ctx, tenantID, id)
}

// AddCatalogItem quotes the offering and freezes the result onto a new
// item. The snapshot is written verbatim and never recalculated; qty is
// forced to 1 because the quote already reflects all quantity multipliers.
func (s *Service) AddCatalogItem(ctx context.Context, tenantID, bookingID int64, req pricing.QuoteRequest) (*Item, error) {
	quote, err := s.quoter.GetQuote(ctx, tenantID, req)
	if err != nil {
		return nil, err
	}
	snapshot := pricing.NewSnapshot(*quote, req.ServiceDate, s.now())

	item, err := s.store.AddItem(ctx, Item{
		TenantID:     tenantID,
		BookingID:    bookingID,
		OfferingID:   &req.OfferingID,
		Qty:          1,
		UnitCostTry:  quote.Cost.Value,
		UnitPriceEur: quote.SellPrice.Value,
		Snapshot:     &snapshot,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("catalog item frozen",
		slog.Int64("tenant_id", tenantID),
		slog.Int64("booking_id", bookingID),
		slog.Int64("item_id", item.ID),
		slog.String("quote_id", snapshot.QuoteID.String()))
	return item, nil
}

// AddManualItem records an item priced by hand: caller-supplied cost,
// price and qty, no snapshot.
func (s *Service) AddManualItem(ctx context.Context, tenantID, bookingID int64, qty int, unitCostTry, unitPriceEur decimal.Decimal) (*Item, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("%w: qty must be positive", ErrInvalidItem)
	}
	if unitCostTry.IsNegative() || unitPriceEur.IsNegative() {
		return nil, fmt.Errorf("%w: cost and price must not be negative", ErrInvalidItem)
	}
	return s.store.AddItem(ctx, Item{
		TenantID:     tenantID,
		BookingID:    bookingID,
		Qty:          qty,
		UnitCostTry:  unitCostTry,
		UnitPriceEur: unitPriceEur,
	})
}

// UpdateStatus transitions the booking lifecycle. Draft bookings may be
// confirmed or cancelled; confirmed bookings may only be cancelled.
func (s *Service) UpdateStatus(ctx context.Context, tenantID, id int64, status Status) error {
	current, err := s.store.Get(ctx, tenantID, id)
	if err != nil {
		return err
	}
	switch {
	case current.Status == StatusDraft && (status == StatusConfirmed || status == StatusCancelled):
	case current.Status == StatusConfirmed && status == StatusCancelled:
	default:
		return fmt.Errorf("%w: cannot move %s to %s", ErrInvalidItem, current.Status, status)
	}
	return s.store.UpdateStatus(ctx, tenantID, id, status)
}
