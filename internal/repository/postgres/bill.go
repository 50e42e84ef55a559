package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"hail/internal/domain"
	"hail/internal/repository"
)

// BillRepository is a PostgreSQL implementation of repository.BillRepository.
// Line items are stored as a JSONB column to keep the bill a single row.
type BillRepository struct {
	q Querier
}

// NewBillRepository creates a new PostgreSQL bill repository.
func NewBillRepository(db *sql.DB) *BillRepository {
	return &BillRepository{q: db}
}

// NewBillRepositoryWithTx creates a bill repository using a transaction.
func NewBillRepositoryWithTx(tx *sql.Tx) *BillRepository {
	return &BillRepository{q: tx}
}

type billItemRow struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// Create persists a new bill.
func (r *BillRepository) Create(ctx context.Context, bill *domain.Bill) error {
	items := make([]billItemRow, len(bill.Items))
	for i, item := range bill.Items {
		items[i] = billItemRow{Description: item.Description, Amount: item.Amount}
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO bills (id, ride_id, customer_id, driver_id, items, subtotal, tax, discount, total, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = r.q.ExecContext(ctx, query,
		bill.ID,
		bill.RideID,
		bill.CustomerID,
		bill.DriverID,
		itemsJSON,
		bill.Subtotal,
		bill.Tax,
		bill.Discount,
		bill.Total,
		bill.GeneratedAt,
	)

	return err
}

// GetByRideID retrieves the bill for a ride.
func (r *BillRepository) GetByRideID(ctx context.Context, rideID string) (*domain.Bill, error) {
	query := `
		SELECT id, ride_id, customer_id, driver_id, items, subtotal, tax, discount, total, generated_at
		FROM bills WHERE ride_id = $1
	`

	var bill domain.Bill
	var itemsJSON []byte

	err := r.q.QueryRowContext(ctx, query, rideID).Scan(
		&bill.ID,
		&bill.RideID,
		&bill.CustomerID,
		&bill.DriverID,
		&itemsJSON,
		&bill.Subtotal,
		&bill.Tax,
		&bill.Discount,
		&bill.Total,
		&bill.GeneratedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	var items []billItemRow
	if err := json.Unmarshal(itemsJSON, &items); err != nil {
		return nil, err
	}
	bill.Items = make([]domain.BillItem, len(items))
	for i, item := range items {
		bill.Items[i] = domain.BillItem{Description: item.Description, Amount: item.Amount}
	}

	return &bill, nil
}

// Ensure BillRepository implements repository.BillRepository.
var _ repository.BillRepository = (*BillRepository)(nil)
