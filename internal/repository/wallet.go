package repository

import (
	"context"

	"hail/internal/domain"
)

// WalletRepository defines the persistence operations for wallet accounts
// and their append-only ledger.
type WalletRepository interface {
	// GetBalance returns the current balance for a user, 0 if the account
	// has no entries yet.
	GetBalance(ctx context.Context, userID string) (float64, error)

	// LockBalance returns the current balance while holding a write lock on
	// the account for the remainder of the enclosing transaction. Creates
	// the account row if it does not exist. All balance mutations on an
	// account must go through this to serialize concurrent writers.
	LockBalance(ctx context.Context, userID string) (float64, error)

	// SetBalance updates the account balance snapshot. Must only be called
	// after LockBalance within the same transaction.
	SetBalance(ctx context.Context, userID string, balance float64) error

	// AppendEntry appends an immutable ledger entry.
	AppendEntry(ctx context.Context, entry *domain.Transaction) error

	// GetEntriesByUserID returns a user's ledger entries in chronological order.
	GetEntriesByUserID(ctx context.Context, userID string) ([]*domain.Transaction, error)

	// GetEntryByRide returns the entry of the given type linked to a ride,
	// or nil if none exists. Used for settlement idempotence checks.
	GetEntryByRide(ctx context.Context, rideID string, entryType domain.TransactionType) (*domain.Transaction, error)
}
