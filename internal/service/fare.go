package service

import (
	"fmt"
	"math"
	"strings"

	"hail/internal/domain"
)

const (
	// TaxRate is the flat levy applied to the fare subtotal.
	TaxRate = 0.05

	// CommissionRate is the platform's cut of the ride total before the
	// driver is credited.
	CommissionRate = 0.20
)

// FareBreakdown is the itemized output of a fare calculation.
type FareBreakdown struct {
	Items    []domain.BillItem
	Subtotal float64
	Tax      float64
	Discount float64
	Total    float64
}

// CalculateFare computes the itemized fare for a trip. It is a pure
// function of the rate card and the trip parameters.
//
// Intermediate values are kept unrounded; rounding to 2 decimal places
// happens only at the tax and total steps so per-line rounding error does
// not compound. The total is floored upward to the rate card's minimum
// fare. Negative distance or duration is a validation error, not a clamp.
func CalculateFare(pricing *domain.VehiclePricing, distance float64, duration int, tripType domain.TripType) (*FareBreakdown, error) {
	if distance < 0 {
		return nil, ErrInvalidDistance
	}
	if duration < 0 {
		return nil, ErrInvalidDuration
	}

	base := pricing.BasePrice
	distanceFare := distance * pricing.PricePerKm
	timeFare := float64(duration) * pricing.PricePerMin

	items := []domain.BillItem{
		{Description: "Base Fare", Amount: base},
		{Description: fmt.Sprintf("Distance Charge (%.1f km)", distance), Amount: distanceFare},
		{Description: fmt.Sprintf("Time Charge (%d min)", duration), Amount: timeFare},
	}

	subtotal := base + distanceFare + timeFare

	multiplier := pricing.Multiplier(tripType)
	if multiplier != 1.0 {
		surcharge := subtotal * (multiplier - 1)
		items = append(items, domain.BillItem{
			Description: tripTypeLabel(tripType) + " Charge",
			Amount:      surcharge,
		})
		subtotal += surcharge
	}

	tax := round2(subtotal * TaxRate)
	items = append(items, domain.BillItem{Description: "GST (5%)", Amount: tax})

	discount := 0.0 // No promotional rules in scope.

	total := round2(subtotal + tax - discount)
	if total < pricing.MinimumFare {
		total = pricing.MinimumFare
	}

	return &FareBreakdown{
		Items:    items,
		Subtotal: subtotal,
		Tax:      tax,
		Discount: discount,
		Total:    total,
	}, nil
}

// DriverShare returns what the driver is credited after commission.
func DriverShare(total float64) float64 {
	return round2(total * (1 - CommissionRate))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// tripTypeLabel turns RENTAL_8HR into "Rental 8hr" for bill line items.
func tripTypeLabel(tripType domain.TripType) string {
	words := strings.Split(strings.ToLower(string(tripType)), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
