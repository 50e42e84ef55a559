package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hail/internal/domain"
	"hail/internal/repository"
)

// WalletService maintains the append-only ledger and balance per account.
// Every mutation runs inside a unit of work that locks the account row
// first, so concurrent debits/credits on the same account serialize
// instead of racing a read-modify-write.
type WalletService struct {
	transactor repository.Transactor
	walletRepo repository.WalletRepository
}

// NewWalletService creates a new WalletService.
func NewWalletService(transactor repository.Transactor, walletRepo repository.WalletRepository) *WalletService {
	return &WalletService{
		transactor: transactor,
		walletRepo: walletRepo,
	}
}

// GetBalance returns the current balance for a user (0 for a fresh account).
func (s *WalletService) GetBalance(ctx context.Context, userID string) (float64, error) {
	if userID == "" {
		return 0, ErrInvalidUserID
	}
	return s.walletRepo.GetBalance(ctx, userID)
}

// GetTransactions returns a user's ledger entries in chronological order.
func (s *WalletService) GetTransactions(ctx context.Context, userID string) ([]*domain.Transaction, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	return s.walletRepo.GetEntriesByUserID(ctx, userID)
}

// Recharge credits a user's wallet.
func (s *WalletService) Recharge(ctx context.Context, userID string, amount float64) (*domain.Transaction, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	var entry *domain.Transaction
	err := s.transactor.WithinTx(ctx, func(r repository.Repositories) error {
		var err error
		entry, err = creditAccount(ctx, r.Wallet, userID, amount, domain.TransactionWalletRecharge, "", "Wallet recharge")
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Withdraw debits a user's wallet. Fails with ErrInsufficientFunds if the
// balance cannot cover the amount.
func (s *WalletService) Withdraw(ctx context.Context, userID string, amount float64) (*domain.Transaction, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	var entry *domain.Transaction
	err := s.transactor.WithinTx(ctx, func(r repository.Repositories) error {
		var err error
		entry, err = debitAccount(ctx, r.Wallet, userID, amount, domain.TransactionWithdrawal, "", "Wallet withdrawal")
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Refund credits a user's wallet for a ride.
func (s *WalletService) Refund(ctx context.Context, userID string, amount float64, rideID string) (*domain.Transaction, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	var entry *domain.Transaction
	err := s.transactor.WithinTx(ctx, func(r repository.Repositories) error {
		var err error
		entry, err = creditAccount(ctx, r.Wallet, userID, amount, domain.TransactionRefund, rideID, fmt.Sprintf("Refund for ride %s", rideID))
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// creditAccount appends a credit entry against a locked account. Used both
// by WalletService and by ride settlement, which passes its own
// transaction-scoped repository.
func creditAccount(ctx context.Context, repo repository.WalletRepository, userID string, amount float64, entryType domain.TransactionType, rideID, description string) (*domain.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	before, err := repo.LockBalance(ctx, userID)
	if err != nil {
		return nil, err
	}

	after := round2(before + amount)
	entry := newLedgerEntry(userID, amount, entryType, rideID, description, before, after)

	if err := repo.AppendEntry(ctx, entry); err != nil {
		return nil, err
	}
	if err := repo.SetBalance(ctx, userID, after); err != nil {
		return nil, err
	}

	return entry, nil
}

// debitAccount appends a debit entry against a locked account, refusing
// to let the balance go negative.
func debitAccount(ctx context.Context, repo repository.WalletRepository, userID string, amount float64, entryType domain.TransactionType, rideID, description string) (*domain.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	before, err := repo.LockBalance(ctx, userID)
	if err != nil {
		return nil, err
	}

	after := round2(before - amount)
	if after < 0 {
		return nil, ErrInsufficientFunds
	}

	entry := newLedgerEntry(userID, amount, entryType, rideID, description, before, after)

	if err := repo.AppendEntry(ctx, entry); err != nil {
		return nil, err
	}
	if err := repo.SetBalance(ctx, userID, after); err != nil {
		return nil, err
	}

	return entry, nil
}

func newLedgerEntry(userID string, amount float64, entryType domain.TransactionType, rideID, description string, before, after float64) *domain.Transaction {
	return &domain.Transaction{
		ID:            uuid.New().String(),
		UserID:        userID,
		Amount:        amount,
		Type:          entryType,
		Description:   description,
		RideID:        rideID,
		BalanceBefore: before,
		BalanceAfter:  after,
		Status:        domain.TransactionStatusCompleted,
		CreatedAt:     time.Now(),
	}
}
