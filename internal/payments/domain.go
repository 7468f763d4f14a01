package payments

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status tracks a client payment. Only PENDING and COMPLETED payments
// count against the booking's locked sell total; FAILED and REFUNDED rows
// free their headroom.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
	StatusRefunded  Status = "REFUNDED"
)

// CountsTowardTotal reports whether a payment in this status consumes
// ledger headroom.
func (s Status) CountsTowardTotal() bool {
	return s == StatusPending || s == StatusCompleted
}

// Payment is one client payment against a booking.
type Payment struct {
	ID             int64           `json:"id"`
	TenantID       int64           `json:"tenant_id"`
	BookingID      int64           `json:"booking_id"`
	IdempotencyKey uuid.UUID       `json:"idempotency_key"`
	AmountEur      decimal.Decimal `json:"amount_eur"`
	Status         Status          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
}
