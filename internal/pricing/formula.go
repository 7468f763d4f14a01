package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/meridian-tours/meridian/internal/catalog"
)

// CostFor dispatches the resolved rate to its category formula. The
// offering supplies the detail-record bounds some formulas defend (hotel
// minimum stay, activity pax limits). The returned cost is in the rate's
// native currency.
func CostFor(offering *catalog.ServiceOffering, rate SeasonalRate, p TripParams) (decimal.Decimal, []BreakdownLine, error) {
	if !rate.Payload.Matches(offering.Category) {
		return decimal.Zero, nil, fmt.Errorf("%w: rate id=%d offering category=%s", ErrCategoryMismatch, rate.ID, offering.Category)
	}
	if !offering.Detail.Matches(offering.Category) {
		return decimal.Zero, nil, fmt.Errorf("%w: offering id=%d", ErrMissingDetail, offering.ID)
	}

	switch offering.Category {
	case catalog.CategoryHotelRoom:
		return HotelCost(*rate.Payload.Hotel, offering.Detail.HotelRoom.MinStay, p)
	case catalog.CategoryTransfer:
		return TransferCost(*rate.Payload.Transfer, p)
	case catalog.CategoryVehicleHire:
		return VehicleCost(*rate.Payload.Vehicle, p)
	case catalog.CategoryGuideService:
		return GuideCost(*rate.Payload.Guide, p)
	case catalog.CategoryActivity:
		detail := offering.Detail.Activity
		return ActivityCost(*rate.Payload.Activity, detail.MinPax, detail.MaxPax, p)
	default:
		return decimal.Zero, nil, fmt.Errorf("%w: category %q", ErrInvalidParams, offering.Category)
	}
}
