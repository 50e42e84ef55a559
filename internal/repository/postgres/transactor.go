package postgres

import (
	"context"
	"database/sql"

	"hail/internal/repository"
)

// Transactor runs units of work inside a single SQL transaction, handing
// the callback transaction-scoped repositories. This is the transactional
// boundary around settlement: ride transition, bill insert and ledger
// writes commit or roll back together.
type Transactor struct {
	db *sql.DB
}

// NewTransactor creates a Transactor over the given database handle.
func NewTransactor(db *sql.DB) *Transactor {
	return &Transactor{db: db}
}

// WithinTx begins a transaction, runs fn with repositories bound to it and
// commits. Any error from fn rolls everything back.
func (t *Transactor) WithinTx(ctx context.Context, fn func(r repository.Repositories) error) error {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	repos := repository.Repositories{
		Rides:  NewRideRepositoryWithTx(tx),
		Wallet: NewWalletRepositoryWithTx(tx),
		Bills:  NewBillRepositoryWithTx(tx),
	}

	if err = fn(repos); err != nil {
		return err
	}

	err = tx.Commit()
	return err
}

// Ensure Transactor implements repository.Transactor.
var _ repository.Transactor = (*Transactor)(nil)
