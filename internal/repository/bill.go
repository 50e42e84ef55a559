package repository

import (
	"context"

	"hail/internal/domain"
)

// BillRepository defines the persistence operations for bills.
type BillRepository interface {
	// Create persists a new bill. A ride has at most one bill.
	Create(ctx context.Context, bill *domain.Bill) error

	// GetByRideID retrieves the bill for a ride.
	GetByRideID(ctx context.Context, rideID string) (*domain.Bill, error)
}
