package payments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/meridian-tours/meridian/internal/observability"
)

// ErrInvalidTransition indicates a disallowed status change.
var ErrInvalidTransition = errors.New("payments: invalid status transition")

// Store abstracts persistence for the payment service. CreateGuarded must
// execute the ledger check and insert atomically per booking.
type Store interface {
	CreateGuarded(ctx context.Context, p Payment) (*Payment, error)
	Get(ctx context.Context, tenantID, id int64) (*Payment, error)
	ListByBooking(ctx context.Context, tenantID, bookingID int64) ([]Payment, error)
	UpdateStatus(ctx context.Context, tenantID, id int64, status Status) error
	SumCounted(ctx context.Context, tenantID, bookingID int64) (decimal.Decimal, error)
}

// Service owns the payment ledger rules.
type Service struct {
	store   Store
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewService constructs the payment service.
func NewService(store Store, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{store: store, logger: logger, metrics: metrics}
}

// Create records a payment against a booking. New payments enter as
// PENDING; the ledger guard rejects anything that would overshoot the
// booking's locked sell total.
func (s *Service) Create(ctx context.Context, tenantID, bookingID int64, amountEur decimal.Decimal, idempotencyKey uuid.UUID) (*Payment, error) {
	if idempotencyKey == uuid.Nil {
		idempotencyKey = uuid.New()
	}
	created, err := s.store.CreateGuarded(ctx, Payment{
		TenantID:       tenantID,
		BookingID:      bookingID,
		IdempotencyKey: idempotencyKey,
		AmountEur:      amountEur,
		Status:         StatusPending,
	})
	if err != nil {
		if errors.Is(err, ErrExceedsBalance) && s.metrics != nil {
			s.metrics.PaymentsRejected.Inc()
		}
		return nil, err
	}
	s.logger.Info("payment recorded",
		slog.Int64("tenant_id", tenantID),
		slog.Int64("booking_id", bookingID),
		slog.Int64("payment_id", created.ID),
		slog.String("amount_eur", created.AmountEur.String()))
	return created, nil
}

// ListByBooking returns a booking's payments with the counted running sum.
func (s *Service) ListByBooking(ctx context.Context, tenantID, bookingID int64) ([]Payment, decimal.Decimal, error) {
	list, err := s.store.ListByBooking(ctx, tenantID, bookingID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	sum, err := s.store.SumCounted(ctx, tenantID, bookingID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	return list, sum, nil
}

// UpdateStatus transitions a payment. PENDING may complete or fail;
// COMPLETED may be refunded. FAILED and REFUNDED are terminal.
func (s *Service) UpdateStatus(ctx context.Context, tenantID, id int64, status Status) (*Payment, error) {
	current, err := s.store.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !transitionAllowed(current.Status, status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, current.Status, status)
	}
	if err := s.store.UpdateStatus(ctx, tenantID, id, status); err != nil {
		return nil, err
	}
	current.Status = status
	return current, nil
}

func transitionAllowed(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusCompleted || to == StatusFailed
	case StatusCompleted:
		return to == StatusRefunded
	}
	return false
}
