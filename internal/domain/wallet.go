package domain

import "time"

// TransactionType represents the kind of ledger entry.
type TransactionType string

const (
	TransactionRidePayment    TransactionType = "RIDE_PAYMENT"
	TransactionWalletRecharge TransactionType = "WALLET_RECHARGE"
	TransactionRefund         TransactionType = "REFUND"
	TransactionDriverEarning  TransactionType = "DRIVER_EARNING"
	TransactionWithdrawal     TransactionType = "WITHDRAWAL"
)

// IsDebit reports whether the entry type reduces the account balance.
func (t TransactionType) IsDebit() bool {
	return t == TransactionRidePayment || t == TransactionWithdrawal
}

// TransactionStatus represents the state of a ledger entry.
type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
)

// Transaction is an immutable wallet ledger entry.
//
// Amount is always positive; the sign of the balance change is derived
// from Type. For a given account the chronologically ordered entries form
// a chain: each BalanceBefore equals the previous entry's BalanceAfter.
type Transaction struct {
	ID            string
	UserID        string
	Amount        float64
	Type          TransactionType
	Description   string
	RideID        string // optional link to the originating ride
	BalanceBefore float64
	BalanceAfter  float64
	Status        TransactionStatus
	CreatedAt     time.Time
}
