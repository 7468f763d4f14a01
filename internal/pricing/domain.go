// Package pricing implements the quotation engine: seasonal rate
// resolution, per-category cost formulas, exchange-rate resolution and
// markup math, plus the frozen pricing snapshots booking items carry.
package pricing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/meridian-tours/meridian/internal/catalog"
	"github.com/meridian-tours/meridian/internal/money"
)

// SeasonalRate is a cost record valid over an inclusive date range for one
// offering. One row carries exactly one category payload variant.
type SeasonalRate struct {
	ID         int64            `json:"id"`
	TenantID   int64            `json:"tenant_id"`
	OfferingID int64            `json:"offering_id"`
	Category   catalog.Category `json:"category"`
	SeasonFrom time.Time        `json:"season_from"`
	SeasonTo   time.Time        `json:"season_to"`
	IsActive   bool             `json:"is_active"`
	Payload    RatePayload      `json:"payload"`
	CreatedAt  time.Time        `json:"created_at"`
}

// Covers reports whether date falls inside the inclusive season window.
// Comparison is date-only.
func (sr SeasonalRate) Covers(date time.Time) bool {
	d := DateOnly(date)
	return !d.Before(DateOnly(sr.SeasonFrom)) && !d.After(DateOnly(sr.SeasonTo))
}

// WindowDays returns the season length in days, both ends inclusive.
func (sr SeasonalRate) WindowDays() int {
	return int(DateOnly(sr.SeasonTo).Sub(DateOnly(sr.SeasonFrom)).Hours()/24) + 1
}

// DateOnly strips the time-of-day component.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// RatePayload is the tagged union of category pricing payloads. Exactly one
// field is set, matching the rate's category.
type RatePayload struct {
	Hotel    *HotelRate    `json:"hotel,omitempty"`
	Transfer *TransferRate `json:"transfer,omitempty"`
	Vehicle  *VehicleRate  `json:"vehicle,omitempty"`
	Guide    *GuideRate    `json:"guide,omitempty"`
	Activity *ActivityRate `json:"activity,omitempty"`
}

// Matches reports whether the populated payload variant corresponds to cat.
func (p RatePayload) Matches(cat catalog.Category) bool {
	switch cat {
	case catalog.CategoryHotelRoom:
		return p.Hotel != nil
	case catalog.CategoryTransfer:
		return p.Transfer != nil
	case catalog.CategoryVehicleHire:
		return p.Vehicle != nil
	case catalog.CategoryGuideService:
		return p.Guide != nil
	case catalog.CategoryActivity:
		return p.Activity != nil
	}
	return false
}

// HotelRate prices a hotel room per person per night. The single
// supplement is a per-night field and is applied per night.
type HotelRate struct {
	PerPersonDouble  decimal.Decimal `json:"per_person_double"`
	PerPersonTriple  decimal.Decimal `json:"per_person_triple"`
	SingleSupplement decimal.Decimal `json:"single_supplement"`
	Child0to2        decimal.Decimal `json:"child_0_2"`
	Child3to5        decimal.Decimal `json:"child_3_5"`
	Child6to11       decimal.Decimal `json:"child_6_11"`
}

// TransferRate prices a transfer with included distance and time and
// percentage surcharges for night and holiday runs.
type TransferRate struct {
	BaseCost            decimal.Decimal `json:"base_cost"`
	IncludedKm          int             `json:"included_km"`
	IncludedHours       int             `json:"included_hours"`
	ExtraKm             decimal.Decimal `json:"extra_km"`
	ExtraHour           decimal.Decimal `json:"extra_hour"`
	NightSurchargePct   decimal.Decimal `json:"night_surcharge_pct"`
	HolidaySurchargePct decimal.Decimal `json:"holiday_surcharge_pct"`
}

// VehicleRate prices vehicle hire in either daily or hourly billing mode.
// The deposit is refundable and never part of the chargeable cost.
type VehicleRate struct {
	DailyRate       decimal.Decimal `json:"daily_rate"`
	HourlyRate      decimal.Decimal `json:"hourly_rate"`
	MinHours        int             `json:"min_hours"`
	DailyKmIncluded int             `json:"daily_km_included"`
	ExtraKm         decimal.Decimal `json:"extra_km"`
	DriverDaily     decimal.Decimal `json:"driver_daily"`
	OneWayFee       decimal.Decimal `json:"one_way_fee"`
	Deposit         decimal.Decimal `json:"deposit"`
}

// GuideRate prices guide services by day, half day or hour, with overtime
// beyond a full day's worth of hours.
type GuideRate struct {
	DayCost             decimal.Decimal `json:"day_cost"`
	HalfDayCost         decimal.Decimal `json:"half_day_cost"`
	HourCost            decimal.Decimal `json:"hour_cost"`
	MinHours            int             `json:"min_hours"`
	OvertimeHour        decimal.Decimal `json:"overtime_hour"`
	DayEquivalentHours  int             `json:"day_equivalent_hours"`
	HolidaySurchargePct decimal.Decimal `json:"holiday_surcharge_pct"`
}

// PricingModel selects how an activity is charged.
type PricingModel string

const (
	PricePerPerson PricingModel = "PER_PERSON"
	PricePerGroup  PricingModel = "PER_GROUP"
)

// ActivityTier is one inclusive pax bracket of a group pricing table.
type ActivityTier struct {
	MinPax int             `json:"min_pax"`
	MaxPax int             `json:"max_pax"`
	Cost   decimal.Decimal `json:"cost"`
}

// ActivityRate prices an activity per person or by group tier.
type ActivityRate struct {
	PricingModel     PricingModel    `json:"pricing_model"`
	BaseCost         decimal.Decimal `json:"base_cost"`
	ChildDiscountPct decimal.Decimal `json:"child_discount_pct"`
	Tiers            []ActivityTier  `json:"tiers,omitempty"`
}

// ExchangeRate is one point in a tenant's conversion-rate history.
type ExchangeRate struct {
	ID           int64           `json:"id"`
	TenantID     int64           `json:"tenant_id"`
	FromCurrency string          `json:"from_currency"`
	ToCurrency   string          `json:"to_currency"`
	Rate         decimal.Decimal `json:"rate"`
	RateDate     time.Time       `json:"rate_date"`
	Source       string          `json:"source"`
	CreatedAt    time.Time       `json:"created_at"`
}

// TripParams are the caller-supplied parameters a formula prices against.
type TripParams struct {
	Pax        int   `json:"pax,omitempty"`
	Nights     int   `json:"nights,omitempty"`
	Days       int   `json:"days,omitempty"`
	Hours      int   `json:"hours,omitempty"`
	Distance   int   `json:"distance,omitempty"`
	Children   []int `json:"children,omitempty"` // ages
	HalfDay    bool  `json:"half_day,omitempty"`
	WithDriver bool  `json:"with_driver,omitempty"`
	OneWay     bool  `json:"one_way,omitempty"`
	IsNight    bool  `json:"is_night,omitempty"`
	IsHoliday  bool  `json:"is_holiday,omitempty"`
}

// BreakdownLine is one auditable component of a computed cost. Refundable
// lines (vehicle deposits) are informational and excluded from the total.
type BreakdownLine struct {
	Label      string          `json:"label"`
	Amount     decimal.Decimal `json:"amount"`
	Refundable bool            `json:"refundable,omitempty"`
}

// Quote is the computed cost/sell-price pair for one offering, one date
// and one set of trip parameters. It is a value object, produced fresh on
// every pricing request and never mutated.
type Quote struct {
	Cost             money.Amount    `json:"cost"`
	SellPrice        money.Amount    `json:"sell_price"`
	ExchangeRateUsed decimal.Decimal `json:"exchange_rate_used"`
	ExchangeRateID   int64           `json:"exchange_rate_id"`
	MarkupPct        decimal.Decimal `json:"markup_pct"`
	MarginPct        decimal.Decimal `json:"margin_pct"`
	RateID           int64           `json:"rate_id"`
	Breakdown        []BreakdownLine `json:"breakdown"`
}

// PricingSnapshot is the frozen, timestamped copy of a Quote persisted on a
// booking item at creation time. Once written it is never recalculated.
type PricingSnapshot struct {
	QuoteID     uuid.UUID `json:"quote_id"`
	QuotedAt    time.Time `json:"quoted_at"`
	ServiceDate time.Time `json:"service_date"`
	Quote       Quote     `json:"quote"`
}

// NewSnapshot freezes a quote at the current instant.
func NewSnapshot(q Quote, serviceDate time.Time, now time.Time) PricingSnapshot {
	return PricingSnapshot{
		QuoteID:     uuid.New(),
		QuotedAt:    now.UTC(),
		ServiceDate: DateOnly(serviceDate),
		Quote:       q,
	}
}
