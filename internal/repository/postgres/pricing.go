package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"hail/internal/domain"
	"hail/internal/repository"
)

// PricingRepository is a PostgreSQL implementation of repository.PricingRepository.
// The trip-type multiplier table is stored as JSONB.
type PricingRepository struct {
	q Querier
}

// NewPricingRepository creates a new PostgreSQL pricing repository.
func NewPricingRepository(db *sql.DB) *PricingRepository {
	return &PricingRepository{q: db}
}

const pricingColumns = `vehicle_type, base_price, price_per_km, price_per_min, minimum_fare, trip_multipliers, updated_at, updated_by`

// GetByVehicleType retrieves the rate card for a vehicle type.
func (r *PricingRepository) GetByVehicleType(ctx context.Context, vehicleType string) (*domain.VehiclePricing, error) {
	query := `SELECT ` + pricingColumns + ` FROM vehicle_pricing WHERE vehicle_type = $1`

	pricing, err := scanPricing(r.q.QueryRowContext(ctx, query, vehicleType))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return pricing, nil
}

// GetAll retrieves all rate cards.
func (r *PricingRepository) GetAll(ctx context.Context) ([]*domain.VehiclePricing, error) {
	query := `SELECT ` + pricingColumns + ` FROM vehicle_pricing ORDER BY vehicle_type`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []*domain.VehiclePricing
	for rows.Next() {
		pricing, err := scanPricing(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, pricing)
	}
	return cards, rows.Err()
}

// Upsert creates or replaces the rate card for a vehicle type.
func (r *PricingRepository) Upsert(ctx context.Context, pricing *domain.VehiclePricing) error {
	multipliersJSON, err := json.Marshal(pricing.TripMultipliers)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO vehicle_pricing (vehicle_type, base_price, price_per_km, price_per_min, minimum_fare, trip_multipliers, updated_at, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (vehicle_type) DO UPDATE SET
			base_price = EXCLUDED.base_price,
			price_per_km = EXCLUDED.price_per_km,
			price_per_min = EXCLUDED.price_per_min,
			minimum_fare = EXCLUDED.minimum_fare,
			trip_multipliers = EXCLUDED.trip_multipliers,
			updated_at = EXCLUDED.updated_at,
			updated_by = EXCLUDED.updated_by
	`

	_, err = r.q.ExecContext(ctx, query,
		pricing.VehicleType,
		pricing.BasePrice,
		pricing.PricePerKm,
		pricing.PricePerMin,
		pricing.MinimumFare,
		multipliersJSON,
		pricing.UpdatedAt,
		nullString(pricing.UpdatedBy),
	)
	return err
}

func scanPricing(row rowScanner) (*domain.VehiclePricing, error) {
	var pricing domain.VehiclePricing
	var multipliersJSON []byte
	var updatedBy sql.NullString

	err := row.Scan(
		&pricing.VehicleType,
		&pricing.BasePrice,
		&pricing.PricePerKm,
		&pricing.PricePerMin,
		&pricing.MinimumFare,
		&multipliersJSON,
		&pricing.UpdatedAt,
		&updatedBy,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(multipliersJSON, &pricing.TripMultipliers); err != nil {
		return nil, err
	}
	pricing.UpdatedBy = updatedBy.String

	return &pricing, nil
}

// Ensure PricingRepository implements repository.PricingRepository.
var _ repository.PricingRepository = (*PricingRepository)(nil)
