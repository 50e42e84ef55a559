package service

import (
	"context"
	"errors"
	"time"

	"hail/internal/domain"
	internalRedis "hail/internal/redis"
	"hail/internal/repository"
)

// PricingService serves rate-card lookups for settlement and admin updates
// of the catalog. Lookups go through a short-TTL redis cache since every
// completion reads a rate card.
type PricingService struct {
	pricingRepo repository.PricingRepository
	cache       internalRedis.PricingCacheInterface
}

// NewPricingService creates a new PricingService. cache may be nil.
func NewPricingService(pricingRepo repository.PricingRepository, cache internalRedis.PricingCacheInterface) *PricingService {
	return &PricingService{
		pricingRepo: pricingRepo,
		cache:       cache,
	}
}

// GetRateCard returns the rate card for a vehicle type.
// Returns ErrPricingUnavailable when no card exists.
func (s *PricingService) GetRateCard(ctx context.Context, vehicleType string) (*domain.VehiclePricing, error) {
	if vehicleType == "" {
		return nil, ErrInvalidVehicleType
	}

	if s.cache != nil {
		cached, err := s.cache.GetPricing(ctx, vehicleType)
		if err == nil && cached != nil {
			return cachedToPricing(cached), nil
		}
		// Cache errors fall through to the repository.
	}

	pricing, err := s.pricingRepo.GetByVehicleType(ctx, vehicleType)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPricingUnavailable
		}
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.SetPricing(ctx, pricingToCached(pricing))
	}

	return pricing, nil
}

// ListRateCards returns the full catalog.
func (s *PricingService) ListRateCards(ctx context.Context) ([]*domain.VehiclePricing, error) {
	return s.pricingRepo.GetAll(ctx)
}

// UpdateRateCard creates or replaces a rate card and invalidates its cache
// entry. This is the out-of-band administrative write path; running fare
// computations keep the card they already read.
func (s *PricingService) UpdateRateCard(ctx context.Context, pricing *domain.VehiclePricing) error {
	if pricing.VehicleType == "" {
		return ErrInvalidVehicleType
	}
	if pricing.BasePrice < 0 || pricing.PricePerKm < 0 || pricing.PricePerMin < 0 || pricing.MinimumFare < 0 {
		return ErrInvalidRateCard
	}

	if pricing.TripMultipliers == nil {
		pricing.TripMultipliers = domain.DefaultTripMultipliers()
	}
	pricing.UpdatedAt = time.Now()

	if err := s.pricingRepo.Upsert(ctx, pricing); err != nil {
		return err
	}

	if s.cache != nil {
		_ = s.cache.InvalidatePricing(ctx, pricing.VehicleType)
	}

	return nil
}

func cachedToPricing(cached *internalRedis.CachedPricing) *domain.VehiclePricing {
	multipliers := make(map[domain.TripType]float64, len(cached.TripMultipliers))
	for k, v := range cached.TripMultipliers {
		multipliers[domain.TripType(k)] = v
	}
	return &domain.VehiclePricing{
		VehicleType:     cached.VehicleType,
		BasePrice:       cached.BasePrice,
		PricePerKm:      cached.PricePerKm,
		PricePerMin:     cached.PricePerMin,
		MinimumFare:     cached.MinimumFare,
		TripMultipliers: multipliers,
	}
}

func pricingToCached(pricing *domain.VehiclePricing) *internalRedis.CachedPricing {
	multipliers := make(map[string]float64, len(pricing.TripMultipliers))
	for k, v := range pricing.TripMultipliers {
		multipliers[string(k)] = v
	}
	return &internalRedis.CachedPricing{
		VehicleType:     pricing.VehicleType,
		BasePrice:       pricing.BasePrice,
		PricePerKm:      pricing.PricePerKm,
		PricePerMin:     pricing.PricePerMin,
		MinimumFare:     pricing.MinimumFare,
		TripMultipliers: multipliers,
	}
}
