package service

import (
	"errors"
	"math"
	"testing"

	"hail/internal/domain"
)

func sedanRateCard() *domain.VehiclePricing {
	return &domain.VehiclePricing{
		VehicleType:     "SEDAN",
		BasePrice:       50,
		PricePerKm:      10,
		PricePerMin:     2,
		MinimumFare:     80,
		TripMultipliers: domain.DefaultTripMultipliers(),
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCalculateFare_OneWay(t *testing.T) {
	t.Parallel()

	fare, err := CalculateFare(sedanRateCard(), 10, 20, domain.TripTypeOneWay)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 50 + 10*10 + 20*2 = 190, tax 9.50, total 199.50
	if !almostEqual(fare.Subtotal, 190) {
		t.Errorf("expected subtotal 190, got %v", fare.Subtotal)
	}
	if !almostEqual(fare.Tax, 9.50) {
		t.Errorf("expected tax 9.50, got %v", fare.Tax)
	}
	if !almostEqual(fare.Total, 199.50) {
		t.Errorf("expected total 199.50, got %v", fare.Total)
	}

	// One-way carries no surcharge line: base, distance, time, tax.
	if len(fare.Items) != 4 {
		t.Errorf("expected 4 items, got %d", len(fare.Items))
	}
}

func TestCalculateFare_RoundTripSurcharge(t *testing.T) {
	t.Parallel()

	fare, err := CalculateFare(sedanRateCard(), 5, 10, domain.TripTypeRoundTrip)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 50 + 50 + 20 = 120, surcharge 120*0.8 = 96, subtotal 216,
	// tax 10.80, total 226.80
	if !almostEqual(fare.Subtotal, 216) {
		t.Errorf("expected subtotal 216, got %v", fare.Subtotal)
	}
	if !almostEqual(fare.Tax, 10.80) {
		t.Errorf("expected tax 10.80, got %v", fare.Tax)
	}
	if !almostEqual(fare.Total, 226.80) {
		t.Errorf("expected total 226.80, got %v", fare.Total)
	}

	var surcharge *domain.BillItem
	for i := range fare.Items {
		if fare.Items[i].Description == "Round Trip Charge" {
			surcharge = &fare.Items[i]
		}
	}
	if surcharge == nil {
		t.Fatal("expected a Round Trip Charge item")
	}
	if !almostEqual(surcharge.Amount, 96) {
		t.Errorf("expected surcharge 96, got %v", surcharge.Amount)
	}
}

func TestCalculateFare_MinimumFareFloor(t *testing.T) {
	t.Parallel()

	pricing := sedanRateCard()
	pricing.MinimumFare = 500

	fare, err := CalculateFare(pricing, 1, 2, domain.TripTypeOneWay)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fare.Total != 500 {
		t.Errorf("expected total floored to 500, got %v", fare.Total)
	}
	// The floor applies to the total only; items and tax keep their values.
	if !almostEqual(fare.Subtotal, 64) {
		t.Errorf("expected subtotal 64, got %v", fare.Subtotal)
	}
}

func TestCalculateFare_ZeroDistanceAndDuration(t *testing.T) {
	t.Parallel()

	fare, err := CalculateFare(sedanRateCard(), 0, 0, domain.TripTypeOneWay)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Base 50 + tax 2.50 = 52.50, floored to the 80 minimum.
	if fare.Total != 80 {
		t.Errorf("expected total 80 (minimum fare), got %v", fare.Total)
	}
}

func TestCalculateFare_NegativeInputs(t *testing.T) {
	t.Parallel()

	if _, err := CalculateFare(sedanRateCard(), -1, 10, domain.TripTypeOneWay); !errors.Is(err, ErrInvalidDistance) {
		t.Errorf("expected ErrInvalidDistance, got %v", err)
	}
	if _, err := CalculateFare(sedanRateCard(), 10, -1, domain.TripTypeOneWay); !errors.Is(err, ErrInvalidDuration) {
		t.Errorf("expected ErrInvalidDuration, got %v", err)
	}
}

func TestCalculateFare_UnknownTripTypeDefaultsToNoSurcharge(t *testing.T) {
	t.Parallel()

	fare, err := CalculateFare(sedanRateCard(), 10, 20, domain.TripType("HELICOPTER"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !almostEqual(fare.Total, 199.50) {
		t.Errorf("expected total 199.50 with multiplier 1.0, got %v", fare.Total)
	}
}

func TestCalculateFare_Deterministic(t *testing.T) {
	t.Parallel()

	first, err := CalculateFare(sedanRateCard(), 12.7, 33, domain.TripTypeRental8H)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 10; i++ {
		again, err := CalculateFare(sedanRateCard(), 12.7, 33, domain.TripTypeRental8H)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if again.Total != first.Total || again.Tax != first.Tax || again.Subtotal != first.Subtotal {
			t.Fatalf("fare not deterministic: %+v vs %+v", again, first)
		}
	}
}

func TestDriverShare(t *testing.T) {
	t.Parallel()

	if got := DriverShare(100); got != 80 {
		t.Errorf("expected 80, got %v", got)
	}
	if got := DriverShare(199.50); got != 159.60 {
		t.Errorf("expected 159.60, got %v", got)
	}
}

func TestValidatePaymentMethod(t *testing.T) {
	t.Parallel()

	method, err := ValidatePaymentMethod("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if method != domain.PaymentMethodCash {
		t.Errorf("expected default CASH, got %s", method)
	}

	if _, err := ValidatePaymentMethod("BARTER"); !errors.Is(err, ErrInvalidPaymentMethod) {
		t.Errorf("expected ErrInvalidPaymentMethod, got %v", err)
	}
}
