package booking

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/meridian-tours/meridian/internal/pricing"
)

// Status tracks a booking through its lifecycle.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
)

// Booking aggregates line items sold to one client. The exchange rate is
// locked at creation and never changes afterwards, even when the global
// rate history is amended.
type Booking struct {
	ID                 int64           `json:"id"`
	TenantID           int64           `json:"tenant_id"`
	ClientName         string          `json:"client_name"`
	Status             Status          `json:"status"`
	LockedExchangeRate decimal.Decimal `json:"locked_exchange_rate"`
	TotalSellEur       decimal.Decimal `json:"total_sell_eur"`
	Items              []Item          `json:"items,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
}

// Item is one line of a booking. Catalog-driven items freeze a pricing
// snapshot and force qty to 1; manual items carry caller-supplied figures
// and no snapshot. After creation the cost/price fields are the source of
// truth for downstream totals regardless of later catalog changes.
type Item struct {
	ID           int64                    `json:"id"`
	TenantID     int64                    `json:"tenant_id"`
	BookingID    int64                    `json:"booking_id"`
	OfferingID   *int64                   `json:"offering_id,omitempty"`
	Qty          int                      `json:"qty"`
	UnitCostTry  decimal.Decimal          `json:"unit_cost_try"`
	UnitPriceEur decimal.Decimal          `json:"unit_price_eur"`
	Snapshot     *pricing.PricingSnapshot `json:"pricing_snapshot,omitempty"`
	CreatedAt    time.Time                `json:"created_at"`
}

// LineTotal returns qty x unit sell price.
func (i Item) LineTotal() decimal.Decimal {
	return i.UnitPriceEur.Mul(decimal.NewFromInt(int64(i.Qty)))
}
