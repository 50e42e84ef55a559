package postgres

import (
	"context"
	"database/sql"
	"errors"

	"hail/internal/domain"
	"hail/internal/repository"
)

// WalletRepository is a PostgreSQL implementation of repository.WalletRepository.
//
// Balances live in wallet_accounts; the ledger lives in wallet_transactions
// and is append-only: there is no UPDATE or DELETE on entries, corrections
// are new entries.
type WalletRepository struct {
	q Querier
}

// NewWalletRepository creates a new PostgreSQL wallet repository.
func NewWalletRepository(db *sql.DB) *WalletRepository {
	return &WalletRepository{q: db}
}

// NewWalletRepositoryWithTx creates a wallet repository using a transaction.
func NewWalletRepositoryWithTx(tx *sql.Tx) *WalletRepository {
	return &WalletRepository{q: tx}
}

// GetBalance returns the current balance for a user, 0 for unknown accounts.
func (r *WalletRepository) GetBalance(ctx context.Context, userID string) (float64, error) {
	var balance float64
	err := r.q.QueryRowContext(ctx,
		`SELECT balance FROM wallet_accounts WHERE user_id = $1`, userID,
	).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return balance, nil
}

// LockBalance returns the balance while holding a row lock on the account.
// The lock serializes concurrent debit/credit on the same account for the
// duration of the enclosing transaction. The account row is created on
// first use.
func (r *WalletRepository) LockBalance(ctx context.Context, userID string) (float64, error) {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO wallet_accounts (user_id, balance)
		VALUES ($1, 0)
		ON CONFLICT (user_id) DO NOTHING
	`, userID)
	if err != nil {
		return 0, err
	}

	var balance float64
	err = r.q.QueryRowContext(ctx,
		`SELECT balance FROM wallet_accounts WHERE user_id = $1 FOR UPDATE`, userID,
	).Scan(&balance)
	if err != nil {
		return 0, err
	}
	return balance, nil
}

// SetBalance updates the account balance snapshot.
func (r *WalletRepository) SetBalance(ctx context.Context, userID string, balance float64) error {
	result, err := r.q.ExecContext(ctx,
		`UPDATE wallet_accounts SET balance = $1, updated_at = NOW() WHERE user_id = $2`,
		balance, userID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// AppendEntry appends an immutable ledger entry.
func (r *WalletRepository) AppendEntry(ctx context.Context, entry *domain.Transaction) error {
	query := `
		INSERT INTO wallet_transactions (id, user_id, amount, type, description, ride_id, balance_before, balance_after, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	var rideID sql.NullString
	if entry.RideID != "" {
		rideID = sql.NullString{String: entry.RideID, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		entry.ID,
		entry.UserID,
		entry.Amount,
		entry.Type,
		entry.Description,
		rideID,
		entry.BalanceBefore,
		entry.BalanceAfter,
		entry.Status,
		entry.CreatedAt,
	)

	return err
}

const transactionColumns = `id, user_id, amount, type, description, ride_id, balance_before, balance_after, status, created_at`

// GetEntriesByUserID returns a user's ledger entries oldest first.
func (r *WalletRepository) GetEntriesByUserID(ctx context.Context, userID string) ([]*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM wallet_transactions WHERE user_id = $1 ORDER BY created_at ASC`

	rows, err := r.q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.Transaction
	for rows.Next() {
		entry, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// GetEntryByRide returns the entry of the given type linked to a ride, nil if none.
func (r *WalletRepository) GetEntryByRide(ctx context.Context, rideID string, entryType domain.TransactionType) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM wallet_transactions WHERE ride_id = $1 AND type = $2 LIMIT 1`

	entry, err := scanTransaction(r.q.QueryRowContext(ctx, query, rideID, entryType))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return entry, nil
}

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	var entry domain.Transaction
	var rideID sql.NullString

	err := row.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.Amount,
		&entry.Type,
		&entry.Description,
		&rideID,
		&entry.BalanceBefore,
		&entry.BalanceAfter,
		&entry.Status,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	entry.RideID = rideID.String
	return &entry, nil
}

// Ensure WalletRepository implements repository.WalletRepository.
var _ repository.WalletRepository = (*WalletRepository)(nil)
