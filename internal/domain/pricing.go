package domain

import "time"

// VehiclePricing is the rate card for one vehicle type.
// It is immutable during a fare computation; updates happen out-of-band
// through the admin pricing endpoint.
type VehiclePricing struct {
	VehicleType     string
	BasePrice       float64
	PricePerKm      float64
	PricePerMin     float64
	MinimumFare     float64
	TripMultipliers map[TripType]float64
	UpdatedAt       time.Time
	UpdatedBy       string
}

// DefaultTripMultipliers returns the standard trip-type multiplier table.
// Unknown trip types fall back to 1.0 during fare calculation.
func DefaultTripMultipliers() map[TripType]float64 {
	return map[TripType]float64{
		TripTypeOneWay:    1.0,
		TripTypeRoundTrip: 1.8,
		TripTypeRental4H:  1.5,
		TripTypeRental8H:  2.5,
		TripTypeRental12H: 3.5,
	}
}

// Multiplier returns the multiplier for the given trip type, defaulting to 1.0.
func (p *VehiclePricing) Multiplier(tripType TripType) float64 {
	if m, ok := p.TripMultipliers[tripType]; ok {
		return m
	}
	return 1.0
}
