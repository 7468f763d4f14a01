package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category identifies the kind of sellable service an offering represents.
type Category string

const (
	CategoryHotelRoom    Category = "HOTEL_ROOM"
	CategoryTransfer     Category = "TRANSFER"
	CategoryVehicleHire  Category = "VEHICLE_HIRE"
	CategoryGuideService Category = "GUIDE_SERVICE"
	CategoryActivity     Category = "ACTIVITY"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryHotelRoom, CategoryTransfer, CategoryVehicleHire, CategoryGuideService, CategoryActivity:
		return true
	}
	return false
}

// Supplier provides one or more offerings. Every offering belongs to
// exactly one supplier.
type Supplier struct {
	ID        int64     `json:"id"`
	TenantID  int64     `json:"tenant_id"`
	Name      string    `json:"name"`
	Contact   *string   `json:"contact,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ServiceOffering is a sellable catalog unit of one category. MarkupPct
// overrides the tenant default when set.
type ServiceOffering struct {
	ID         int64            `json:"id"`
	TenantID   int64            `json:"tenant_id"`
	SupplierID int64            `json:"supplier_id"`
	Category   Category         `json:"category"`
	Name       string           `json:"name"`
	MarkupPct  *decimal.Decimal `json:"markup_pct,omitempty"`
	IsActive   bool             `json:"is_active"`
	Detail     *OfferingDetail  `json:"detail,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}

// OfferingDetail carries the category-specific detail record. Exactly one
// field is set, matching the offering's category. A seasonal rate may only
// be created once the detail record exists.
type OfferingDetail struct {
	HotelRoom *HotelRoomDetail `json:"hotel_room,omitempty"`
	Transfer  *TransferDetail  `json:"transfer,omitempty"`
	Vehicle   *VehicleDetail   `json:"vehicle,omitempty"`
	Guide     *GuideDetail     `json:"guide,omitempty"`
	Activity  *ActivityDetail  `json:"activity,omitempty"`
}

// Matches reports whether the populated detail variant corresponds to cat.
func (d *OfferingDetail) Matches(cat Category) bool {
	if d == nil {
		return false
	}
	switch cat {
	case CategoryHotelRoom:
		return d.HotelRoom != nil
	case CategoryTransfer:
		return d.Transfer != nil
	case CategoryVehicleHire:
		return d.Vehicle != nil
	case CategoryGuideService:
		return d.Guide != nil
	case CategoryActivity:
		return d.Activity != nil
	}
	return false
}

// HotelRoomDetail describes a hotel room offering. Allotment and release
// days are informational for contracting; they do not block quoting.
type HotelRoomDetail struct {
	RoomType    string `json:"room_type"`
	BoardBasis  string `json:"board_basis"`
	MinStay     int    `json:"min_stay"`
	Allotment   int    `json:"allotment"`
	ReleaseDays int    `json:"release_days"`
}

// TransferDetail describes a point-to-point transfer offering.
type TransferDetail struct {
	VehicleClass string `json:"vehicle_class"`
	RouteFrom    string `json:"route_from"`
	RouteTo      string `json:"route_to"`
	MaxPax       int    `json:"max_pax"`
}

// VehicleDetail describes a vehicle hire offering.
type VehicleDetail struct {
	MakeModel    string `json:"make_model"`
	Seats        int    `json:"seats"`
	Transmission string `json:"transmission"`
}

// GuideDetail describes a licensed guide offering.
type GuideDetail struct {
	Languages string `json:"languages"`
	LicenceNo string `json:"licence_no"`
}

// ActivityDetail describes a bookable activity offering. MinPax and MaxPax
// bound the group size before any tier lookup.
type ActivityDetail struct {
	Location      string `json:"location"`
	DurationHours int    `json:"duration_hours"`
	MinPax        int    `json:"min_pax"`
	MaxPax        int    `json:"max_pax"`
}
