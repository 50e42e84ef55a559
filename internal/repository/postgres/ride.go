package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"hail/internal/domain"
	"hail/internal/repository"
)

// RideRepository is a PostgreSQL implementation of repository.RideRepository.
type RideRepository struct {
	q Querier
}

// NewRideRepository creates a new PostgreSQL ride repository.
func NewRideRepository(db *sql.DB) *RideRepository {
	return &RideRepository{q: db}
}

// NewRideRepositoryWithTx creates a ride repository using a transaction.
func NewRideRepositoryWithTx(tx *sql.Tx) *RideRepository {
	return &RideRepository{q: tx}
}

const rideColumns = `
	id, customer_id, driver_id,
	pickup_address, pickup_lat, pickup_lng,
	drop_address, drop_lat, drop_lng,
	vehicle_type, trip_type,
	estimated_distance, estimated_duration, estimated_fare,
	status, trip_code, actual_fare, payment_method,
	cancel_reason, rating, feedback,
	created_at, started_at, completed_at, cancelled_at, version
`

// Create persists a new ride.
func (r *RideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	query := `
		INSERT INTO rides (` + rideColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)
	`

	_, err := r.q.ExecContext(ctx, query,
		ride.ID,
		ride.CustomerID,
		nullString(ride.DriverID),
		ride.Pickup.Address,
		ride.Pickup.Lat,
		ride.Pickup.Lng,
		ride.Drop.Address,
		ride.Drop.Lat,
		ride.Drop.Lng,
		ride.VehicleType,
		ride.TripType,
		ride.EstimatedDistance,
		ride.EstimatedDuration,
		ride.EstimatedFare,
		ride.Status,
		ride.TripCode,
		nullFloat(ride.ActualFare),
		nullString(string(ride.PaymentMethod)),
		nullString(ride.CancelReason),
		nullFloat(ride.Rating),
		nullString(ride.Feedback),
		ride.CreatedAt,
		nullTime(ride.StartedAt),
		nullTime(ride.CompletedAt),
		nullTime(ride.CancelledAt),
		ride.Version,
	)

	return err
}

// GetByID retrieves a ride by ID.
func (r *RideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE id = $1`

	ride, err := scanRide(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return ride, nil
}

// GetAll retrieves recent rides.
func (r *RideRepository) GetAll(ctx context.Context) ([]*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides ORDER BY created_at DESC LIMIT 100`
	return r.queryRides(ctx, query)
}

// GetByCustomerID retrieves recent rides for a customer.
func (r *RideRepository) GetByCustomerID(ctx context.Context, customerID string) ([]*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE customer_id = $1 ORDER BY created_at DESC LIMIT 100`
	return r.queryRides(ctx, query, customerID)
}

// GetByDriverID retrieves recent rides for a driver.
func (r *RideRepository) GetByDriverID(ctx context.Context, driverID string) ([]*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE driver_id = $1 ORDER BY created_at DESC LIMIT 100`
	return r.queryRides(ctx, query, driverID)
}

// Update writes an existing ride with an optimistic version check.
// A losing concurrent writer sees repository.ErrConflict instead of
// silently overwriting the other transition.
func (r *RideRepository) Update(ctx context.Context, ride *domain.Ride) error {
	query := `
		UPDATE rides
		SET driver_id = $1, status = $2, actual_fare = $3, payment_method = $4,
		    cancel_reason = $5, rating = $6, feedback = $7,
		    started_at = $8, completed_at = $9, cancelled_at = $10,
		    version = version + 1
		WHERE id = $11 AND version = $12
	`

	result, err := r.q.ExecContext(ctx, query,
		nullString(ride.DriverID),
		ride.Status,
		nullFloat(ride.ActualFare),
		nullString(string(ride.PaymentMethod)),
		nullString(ride.CancelReason),
		nullFloat(ride.Rating),
		nullString(ride.Feedback),
		nullTime(ride.StartedAt),
		nullTime(ride.CompletedAt),
		nullTime(ride.CancelledAt),
		ride.ID,
		ride.Version,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		// Distinguish a missing ride from a lost version race.
		var exists bool
		if err := r.q.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM rides WHERE id = $1)`, ride.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return repository.ErrNotFound
		}
		return repository.ErrConflict
	}

	ride.Version++
	return nil
}

func (r *RideRepository) queryRides(ctx context.Context, query string, args ...any) ([]*domain.Ride, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rides []*domain.Ride
	for rows.Next() {
		ride, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		rides = append(rides, ride)
	}
	return rides, rows.Err()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRide(row rowScanner) (*domain.Ride, error) {
	var ride domain.Ride
	var driverID, paymentMethod, cancelReason, feedback sql.NullString
	var actualFare, rating sql.NullFloat64
	var startedAt, completedAt, cancelledAt sql.NullTime

	err := row.Scan(
		&ride.ID,
		&ride.CustomerID,
		&driverID,
		&ride.Pickup.Address,
		&ride.Pickup.Lat,
		&ride.Pickup.Lng,
		&ride.Drop.Address,
		&ride.Drop.Lat,
		&ride.Drop.Lng,
		&ride.VehicleType,
		&ride.TripType,
		&ride.EstimatedDistance,
		&ride.EstimatedDuration,
		&ride.EstimatedFare,
		&ride.Status,
		&ride.TripCode,
		&actualFare,
		&paymentMethod,
		&cancelReason,
		&rating,
		&feedback,
		&ride.CreatedAt,
		&startedAt,
		&completedAt,
		&cancelledAt,
		&ride.Version,
	)
	if err != nil {
		return nil, err
	}

	ride.DriverID = driverID.String
	ride.PaymentMethod = domain.PaymentMethod(paymentMethod.String)
	ride.CancelReason = cancelReason.String
	ride.Feedback = feedback.String
	ride.ActualFare = actualFare.Float64
	ride.Rating = rating.Float64
	if startedAt.Valid {
		ride.StartedAt = startedAt.Time
	}
	if completedAt.Valid {
		ride.CompletedAt = completedAt.Time
	}
	if cancelledAt.Valid {
		ride.CancelledAt = cancelledAt.Time
	}

	return &ride, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullFloat(f float64) sql.NullFloat64 {
	if f == 0 {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

// Ensure RideRepository implements repository.RideRepository.
var _ repository.RideRepository = (*RideRepository)(nil)
