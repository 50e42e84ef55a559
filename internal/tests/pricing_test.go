package tests

import (
	"context"
	"errors"
	"testing"

	"hail/internal/domain"
	"hail/internal/service"
)

func TestGetRateCard_MissingCardIsPricingUnavailable(t *testing.T) {
	t.Parallel()

	repo := NewMockPricingRepository()
	svc := service.NewPricingService(repo, nil)

	_, err := svc.GetRateCard(context.Background(), "HOVERCRAFT")
	if !errors.Is(err, service.ErrPricingUnavailable) {
		t.Errorf("expected ErrPricingUnavailable, got %v", err)
	}
}

func TestGetRateCard_CachesAfterFirstLookup(t *testing.T) {
	t.Parallel()

	repo := NewMockPricingRepository()
	cache := NewMockPricingCache()
	svc := service.NewPricingService(repo, cache)

	repo.AddRateCard(&domain.VehiclePricing{
		VehicleType:     "SEDAN",
		BasePrice:       50,
		PricePerKm:      10,
		PricePerMin:     2,
		MinimumFare:     80,
		TripMultipliers: domain.DefaultTripMultipliers(),
	})

	ctx := context.Background()

	first, err := svc.GetRateCard(ctx, "SEDAN")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cache.HasCached("SEDAN") {
		t.Error("expected rate card cached after lookup")
	}

	second, err := svc.GetRateCard(ctx, "SEDAN")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.BasePrice != first.BasePrice || second.MinimumFare != first.MinimumFare {
		t.Errorf("cached card differs: %+v vs %+v", second, first)
	}
	// Second lookup is served from cache.
	if repo.GetCallCount != 1 {
		t.Errorf("expected 1 repository read, got %d", repo.GetCallCount)
	}
}

func TestGetRateCard_CacheErrorFallsThroughToRepo(t *testing.T) {
	t.Parallel()

	repo := NewMockPricingRepository()
	cache := NewMockPricingCache()
	cache.GetError = ErrMockTimeout
	svc := service.NewPricingService(repo, cache)

	repo.AddRateCard(&domain.VehiclePricing{VehicleType: "SEDAN", BasePrice: 50})

	card, err := svc.GetRateCard(context.Background(), "SEDAN")
	if err != nil {
		t.Fatalf("expected repo fallback, got %v", err)
	}
	if card.BasePrice != 50 {
		t.Errorf("expected base price 50, got %v", card.BasePrice)
	}
}

func TestUpdateRateCard_InvalidatesCacheAndDefaultsMultipliers(t *testing.T) {
	t.Parallel()

	repo := NewMockPricingRepository()
	cache := NewMockPricingCache()
	svc := service.NewPricingService(repo, cache)

	ctx := context.Background()

	repo.AddRateCard(&domain.VehiclePricing{VehicleType: "SEDAN", BasePrice: 50, TripMultipliers: domain.DefaultTripMultipliers()})
	if _, err := svc.GetRateCard(ctx, "SEDAN"); err != nil {
		t.Fatalf("seed lookup failed: %v", err)
	}

	card := &domain.VehiclePricing{
		VehicleType: "SEDAN",
		BasePrice:   60,
		PricePerKm:  12,
		PricePerMin: 2.5,
		MinimumFare: 90,
	}
	if err := svc.UpdateRateCard(ctx, card); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cache.HasCached("SEDAN") {
		t.Error("expected cache entry invalidated after update")
	}
	if card.TripMultipliers == nil {
		t.Error("expected default trip multipliers filled in")
	}
	if card.UpdatedAt.IsZero() {
		t.Error("expected UpdatedAt set")
	}

	fresh, err := svc.GetRateCard(ctx, "SEDAN")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fresh.BasePrice != 60 {
		t.Errorf("expected updated base price 60, got %v", fresh.BasePrice)
	}
}

func TestUpdateRateCard_RejectsNegativeRates(t *testing.T) {
	t.Parallel()

	svc := service.NewPricingService(NewMockPricingRepository(), nil)

	err := svc.UpdateRateCard(context.Background(), &domain.VehiclePricing{
		VehicleType: "SEDAN",
		BasePrice:   -1,
	})
	if !errors.Is(err, service.ErrInvalidRateCard) {
		t.Errorf("expected ErrInvalidRateCard, got %v", err)
	}
}
