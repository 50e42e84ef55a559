package repository

import (
	"context"

	"hail/internal/domain"
)

// PricingRepository defines the persistence operations for rate cards.
type PricingRepository interface {
	// GetByVehicleType retrieves the rate card for a vehicle type.
	GetByVehicleType(ctx context.Context, vehicleType string) (*domain.VehiclePricing, error)

	// GetAll retrieves all rate cards.
	GetAll(ctx context.Context) ([]*domain.VehiclePricing, error)

	// Upsert creates or replaces the rate card for a vehicle type.
	Upsert(ctx context.Context, pricing *domain.VehiclePricing) error
}
