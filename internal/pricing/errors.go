package pricing

import "errors"

var (
	// ErrNoRatesAvailable indicates an empty exchange-rate history.
	ErrNoRatesAvailable = errors.New("pricing: no exchange rates available")
	// ErrNoRateOnOrBefore indicates the requested date predates all history.
	ErrNoRateOnOrBefore = errors.New("pricing: no exchange rate on or before date")
	// ErrInvalidRate indicates a resolved rate has a non-positive value.
	// This is a data integrity fault, not a caller error.
	ErrInvalidRate = errors.New("pricing: non-positive rate value")

	// ErrOfferingNotFound indicates the offering does not exist for the
	// tenant or is inactive.
	ErrOfferingNotFound = errors.New("pricing: service offering not found")
	// ErrCategoryMismatch indicates the offering's category does not match
	// the requested pricing category.
	ErrCategoryMismatch = errors.New("pricing: category mismatch")
	// ErrNoApplicableRate indicates no active season covers the service
	// date. This is a business-data gap and blocks quoting entirely.
	ErrNoApplicableRate = errors.New("pricing: no applicable seasonal rate")
	// ErrMissingDetail indicates the offering has no detail record yet, so
	// no rate may exist or be applied for it.
	ErrMissingDetail = errors.New("pricing: offering has no detail record")

	// ErrBelowMinStay indicates fewer nights than the room's minimum stay.
	ErrBelowMinStay = errors.New("pricing: nights below minimum stay")
	// ErrBelowMinPax indicates the group is smaller than the activity minimum.
	ErrBelowMinPax = errors.New("pricing: pax below activity minimum")
	// ErrAbovePaxCapacity indicates the group exceeds the activity capacity.
	ErrAbovePaxCapacity = errors.New("pricing: pax above activity capacity")
	// ErrPaxOutOfTierRange indicates no group tier bracket covers the pax count.
	ErrPaxOutOfTierRange = errors.New("pricing: pax not covered by any tier")
	// ErrInvalidParams indicates trip parameters fail a formula precondition.
	ErrInvalidParams = errors.New("pricing: invalid trip parameters")
)
