package tests

import (
	"context"
	"errors"
	"sync"
	"testing"

	"hail/internal/domain"
	"hail/internal/service"
)

func newWalletFixture() (*MockWalletRepository, *service.WalletService) {
	rides := NewMockRideRepository()
	wallet := NewMockWalletRepository()
	bills := NewMockBillRepository()
	tx := NewMockTransactor(rides, wallet, bills)
	return wallet, service.NewWalletService(tx, wallet)
}

func TestRecharge_CreditsAccount(t *testing.T) {
	t.Parallel()

	wallet, svc := newWalletFixture()

	entry, err := svc.Recharge(context.Background(), "user-1", 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if entry.Type != domain.TransactionWalletRecharge {
		t.Errorf("expected WALLET_RECHARGE, got %s", entry.Type)
	}
	if entry.BalanceBefore != 0 || entry.BalanceAfter != 500 {
		t.Errorf("expected chain 0 -> 500, got %v -> %v", entry.BalanceBefore, entry.BalanceAfter)
	}
	if got := wallet.Balance("user-1"); got != 500 {
		t.Errorf("expected balance 500, got %v", got)
	}
}

func TestRecharge_RejectsNonPositiveAmount(t *testing.T) {
	t.Parallel()

	wallet, svc := newWalletFixture()

	for _, amount := range []float64{0, -100} {
		if _, err := svc.Recharge(context.Background(), "user-1", amount); !errors.Is(err, service.ErrInvalidAmount) {
			t.Errorf("amount %v: expected ErrInvalidAmount, got %v", amount, err)
		}
	}
	if wallet.CountEntries() != 0 {
		t.Errorf("expected no entries, got %d", wallet.CountEntries())
	}
}

func TestWithdraw_DebitsAccount(t *testing.T) {
	t.Parallel()

	wallet, svc := newWalletFixture()
	wallet.SetInitialBalance("user-1", 300)

	entry, err := svc.Withdraw(context.Background(), "user-1", 120)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if entry.Type != domain.TransactionWithdrawal {
		t.Errorf("expected WITHDRAWAL, got %s", entry.Type)
	}
	if entry.BalanceBefore != 300 || entry.BalanceAfter != 180 {
		t.Errorf("expected chain 300 -> 180, got %v -> %v", entry.BalanceBefore, entry.BalanceAfter)
	}
}

func TestWithdraw_InsufficientFundsLeavesNoTrace(t *testing.T) {
	t.Parallel()

	wallet, svc := newWalletFixture()
	wallet.SetInitialBalance("user-1", 100)

	_, err := svc.Withdraw(context.Background(), "user-1", 100.01)
	if !errors.Is(err, service.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	if got := wallet.Balance("user-1"); got != 100 {
		t.Errorf("expected balance unchanged at 100, got %v", got)
	}
	if wallet.CountEntries() != 0 {
		t.Errorf("failed debit must append no entry, got %d", wallet.CountEntries())
	}
}

func TestWithdraw_ExactBalanceAllowed(t *testing.T) {
	t.Parallel()

	wallet, svc := newWalletFixture()
	wallet.SetInitialBalance("user-1", 250)

	entry, err := svc.Withdraw(context.Background(), "user-1", 250)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.BalanceAfter != 0 {
		t.Errorf("expected balance drained to 0, got %v", entry.BalanceAfter)
	}
}

func TestRefund_LinksRide(t *testing.T) {
	t.Parallel()

	wallet, svc := newWalletFixture()

	entry, err := svc.Refund(context.Background(), "user-1", 75.50, "ride-9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if entry.Type != domain.TransactionRefund {
		t.Errorf("expected REFUND, got %s", entry.Type)
	}
	if entry.RideID != "ride-9" {
		t.Errorf("expected ride link ride-9, got %q", entry.RideID)
	}
	if got := wallet.Balance("user-1"); got != 75.50 {
		t.Errorf("expected balance 75.50, got %v", got)
	}
}

func TestLedger_BalanceChainIsContinuous(t *testing.T) {
	t.Parallel()

	wallet, svc := newWalletFixture()
	ctx := context.Background()

	if _, err := svc.Recharge(ctx, "user-1", 500); err != nil {
		t.Fatalf("recharge failed: %v", err)
	}
	if _, err := svc.Withdraw(ctx, "user-1", 120.25); err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}
	if _, err := svc.Recharge(ctx, "user-1", 50); err != nil {
		t.Fatalf("recharge failed: %v", err)
	}
	if _, err := svc.Refund(ctx, "user-1", 10.75, "ride-1"); err != nil {
		t.Fatalf("refund failed: %v", err)
	}

	entries, err := svc.GetTransactions(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}

	for i := 1; i < len(entries); i++ {
		if entries[i].BalanceBefore != entries[i-1].BalanceAfter {
			t.Errorf("chain broken at entry %d: before=%v, previous after=%v",
				i, entries[i].BalanceBefore, entries[i-1].BalanceAfter)
		}
	}

	// Amounts are stored positive regardless of direction.
	for i, e := range entries {
		if e.Amount <= 0 {
			t.Errorf("entry %d has non-positive amount %v", i, e.Amount)
		}
	}

	final := entries[len(entries)-1].BalanceAfter
	if got := wallet.Balance("user-1"); got != final {
		t.Errorf("stored balance %v does not match last entry %v", got, final)
	}
}

func TestWallet_ConcurrentRechargesDoNotLoseUpdates(t *testing.T) {
	t.Parallel()

	wallet, svc := newWalletFixture()
	ctx := context.Background()

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Recharge(ctx, "user-1", 10); err != nil {
				t.Errorf("recharge failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := wallet.Balance("user-1"); got != workers*10 {
		t.Errorf("expected balance %d, got %v", workers*10, got)
	}
	if wallet.CountEntries() != workers {
		t.Errorf("expected %d entries, got %d", workers, wallet.CountEntries())
	}

	// Serialized writers mean the chain stays continuous.
	entries, _ := svc.GetTransactions(ctx, "user-1")
	for i := 1; i < len(entries); i++ {
		if entries[i].BalanceBefore != entries[i-1].BalanceAfter {
			t.Errorf("chain broken at entry %d", i)
		}
	}
}
