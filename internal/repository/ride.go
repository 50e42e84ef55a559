package repository

import (
	"context"

	"hail/internal/domain"
)

// RideRepository defines the persistence operations for rides.
type RideRepository interface {
	// Create persists a new ride.
	Create(ctx context.Context, ride *domain.Ride) error

	// GetByID retrieves a ride by ID.
	GetByID(ctx context.Context, id string) (*domain.Ride, error)

	// GetAll retrieves recent rides.
	GetAll(ctx context.Context) ([]*domain.Ride, error)

	// GetByCustomerID retrieves recent rides for a customer.
	GetByCustomerID(ctx context.Context, customerID string) ([]*domain.Ride, error)

	// GetByDriverID retrieves recent rides for a driver.
	GetByDriverID(ctx context.Context, driverID string) ([]*domain.Ride, error)

	// Update writes an existing ride guarded by its version: the write only
	// succeeds if the stored version matches ride.Version, and the stored
	// version is incremented. Returns ErrConflict on a lost race and
	// ErrNotFound for an unknown ride.
	Update(ctx context.Context, ride *domain.Ride) error
}
