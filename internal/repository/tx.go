package repository

import "context"

// Repositories bundles the transaction-scoped repositories handed to a
// unit of work.
type Repositories struct {
	Rides  RideRepository
	Wallet WalletRepository
	Bills  BillRepository
}

// Transactor runs a function within a single atomic unit of work. Every
// write made through the supplied repositories is committed together or
// rolled back together. Settlement depends on this: the ride transition,
// the bill and the ledger entries must never be partially applied.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(r Repositories) error) error
}
