package tests

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"hail/internal/domain"
	"hail/internal/redis"
	"hail/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK RIDE REPOSITORY
// ──────────────────────────────────────────────

// MockRideRepository is a mock implementation of RideRepository. Update
// enforces the same version guard as the real store: a stale version
// loses with ErrConflict.
type MockRideRepository struct {
	mu    sync.RWMutex
	rides map[string]*domain.Ride

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockRideRepository creates a new mock ride repository.
func NewMockRideRepository() *MockRideRepository {
	return &MockRideRepository{
		rides: make(map[string]*domain.Ride),
	}
}

// AddRide adds a ride to the mock repository.
func (m *MockRideRepository) AddRide(ride *domain.Ride) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *ride
	m.rides[ride.ID] = &copy
}

func (m *MockRideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *ride
	m.rides[ride.ID] = &copy
	return nil
}

func (m *MockRideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ride, ok := m.rides[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *ride
	return &copy, nil
}

func (m *MockRideRepository) GetAll(ctx context.Context) ([]*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Ride, 0, len(m.rides))
	for _, r := range m.rides {
		copy := *r
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockRideRepository) GetByCustomerID(ctx context.Context, customerID string) ([]*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Ride, 0)
	for _, r := range m.rides {
		if r.CustomerID == customerID {
			copy := *r
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockRideRepository) GetByDriverID(ctx context.Context, driverID string) ([]*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Ride, 0)
	for _, r := range m.rides {
		if r.DriverID == driverID {
			copy := *r
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockRideRepository) Update(ctx context.Context, ride *domain.Ride) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.rides[ride.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if stored.Version != ride.Version {
		return repository.ErrConflict
	}
	ride.Version++
	copy := *ride
	m.rides[ride.ID] = &copy
	return nil
}

// GetRide returns the ride by ID (for test assertions).
func (m *MockRideRepository) GetRide(id string) *domain.Ride {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rides[id]
}

func (m *MockRideRepository) snapshot() map[string]*domain.Ride {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := make(map[string]*domain.Ride, len(m.rides))
	for id, r := range m.rides {
		copy := *r
		snap[id] = &copy
	}
	return snap
}

func (m *MockRideRepository) restore(snap map[string]*domain.Ride) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides = snap
}

// ──────────────────────────────────────────────
// MOCK WALLET REPOSITORY
// ──────────────────────────────────────────────

// MockWalletRepository is a mock implementation of WalletRepository.
type MockWalletRepository struct {
	mu       sync.RWMutex
	balances map[string]float64
	entries  []*domain.Transaction

	// Counters for verification
	AppendEntryCallCount int32
	LockBalanceCallCount int32

	// Error injection
	LockBalanceError error
	AppendEntryError error
	SetBalanceError  error
}

// NewMockWalletRepository creates a new mock wallet repository.
func NewMockWalletRepository() *MockWalletRepository {
	return &MockWalletRepository{
		balances: make(map[string]float64),
	}
}

// SetInitialBalance seeds an account balance for test setup.
func (m *MockWalletRepository) SetInitialBalance(userID string, balance float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[userID] = balance
}

func (m *MockWalletRepository) GetBalance(ctx context.Context, userID string) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.balances[userID], nil
}

func (m *MockWalletRepository) LockBalance(ctx context.Context, userID string) (float64, error) {
	atomic.AddInt32(&m.LockBalanceCallCount, 1)
	if m.LockBalanceError != nil {
		return 0, m.LockBalanceError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	// Creates the account like the real upsert does.
	balance, ok := m.balances[userID]
	if !ok {
		m.balances[userID] = 0
	}
	return balance, nil
}

func (m *MockWalletRepository) SetBalance(ctx context.Context, userID string, balance float64) error {
	if m.SetBalanceError != nil {
		return m.SetBalanceError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[userID] = balance
	return nil
}

func (m *MockWalletRepository) AppendEntry(ctx context.Context, entry *domain.Transaction) error {
	atomic.AddInt32(&m.AppendEntryCallCount, 1)
	if m.AppendEntryError != nil {
		return m.AppendEntryError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *entry
	m.entries = append(m.entries, &copy)
	return nil
}

func (m *MockWalletRepository) GetEntriesByUserID(ctx context.Context, userID string) ([]*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Transaction, 0)
	for _, e := range m.entries {
		if e.UserID == userID {
			copy := *e
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockWalletRepository) GetEntryByRide(ctx context.Context, rideID string, entryType domain.TransactionType) (*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.entries {
		if e.RideID == rideID && e.Type == entryType {
			copy := *e
			return &copy, nil
		}
	}
	return nil, nil
}

// CountEntries returns the total number of ledger entries.
func (m *MockWalletRepository) CountEntries() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Balance returns the stored balance for assertions.
func (m *MockWalletRepository) Balance(userID string) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.balances[userID]
}

type walletSnapshot struct {
	balances map[string]float64
	entries  []*domain.Transaction
}

func (m *MockWalletRepository) snapshot() walletSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := walletSnapshot{
		balances: make(map[string]float64, len(m.balances)),
		entries:  make([]*domain.Transaction, len(m.entries)),
	}
	for id, b := range m.balances {
		snap.balances[id] = b
	}
	copy(snap.entries, m.entries)
	return snap
}

func (m *MockWalletRepository) restore(snap walletSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances = snap.balances
	m.entries = snap.entries
}

// ──────────────────────────────────────────────
// MOCK BILL REPOSITORY
// ──────────────────────────────────────────────

// MockBillRepository is a mock implementation of BillRepository.
type MockBillRepository struct {
	mu    sync.RWMutex
	bills map[string]*domain.Bill // keyed by ride ID

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockBillRepository creates a new mock bill repository.
func NewMockBillRepository() *MockBillRepository {
	return &MockBillRepository{
		bills: make(map[string]*domain.Bill),
	}
}

func (m *MockBillRepository) Create(ctx context.Context, bill *domain.Bill) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bills[bill.RideID]; ok {
		return ErrMockDBConstraint
	}
	copy := *bill
	m.bills[bill.RideID] = &copy
	return nil
}

func (m *MockBillRepository) GetByRideID(ctx context.Context, rideID string) (*domain.Bill, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	bill, ok := m.bills[rideID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *bill
	return &copy, nil
}

// CountBills returns the number of bills.
func (m *MockBillRepository) CountBills() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.bills)
}

func (m *MockBillRepository) snapshot() map[string]*domain.Bill {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := make(map[string]*domain.Bill, len(m.bills))
	for id, b := range m.bills {
		copy := *b
		snap[id] = &copy
	}
	return snap
}

func (m *MockBillRepository) restore(snap map[string]*domain.Bill) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bills = snap
}

// ──────────────────────────────────────────────
// MOCK TRANSACTOR
// ──────────────────────────────────────────────

// MockTransactor emulates the atomic unit of work over the in-memory
// mocks: it snapshots their state before the function runs and restores
// it when the function fails, so a failed settlement leaves no partial
// writes behind. Units of work are serialized by a single mutex, the
// coarse equivalent of the database's row locks.
type MockTransactor struct {
	mu     sync.Mutex
	Rides  *MockRideRepository
	Wallet *MockWalletRepository
	Bills  *MockBillRepository

	// Counters for verification
	TxCallCount       int32
	RollbackCallCount int32

	// Error injection: returned before fn runs
	BeginError error
}

// NewMockTransactor creates a transactor over the given mocks.
func NewMockTransactor(rides *MockRideRepository, wallet *MockWalletRepository, bills *MockBillRepository) *MockTransactor {
	return &MockTransactor{
		Rides:  rides,
		Wallet: wallet,
		Bills:  bills,
	}
}

func (m *MockTransactor) WithinTx(ctx context.Context, fn func(r repository.Repositories) error) error {
	atomic.AddInt32(&m.TxCallCount, 1)
	if m.BeginError != nil {
		return m.BeginError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rideSnap := m.Rides.snapshot()
	walletSnap := m.Wallet.snapshot()
	billSnap := m.Bills.snapshot()

	err := fn(repository.Repositories{
		Rides:  m.Rides,
		Wallet: m.Wallet,
		Bills:  m.Bills,
	})
	if err != nil {
		atomic.AddInt32(&m.RollbackCallCount, 1)
		m.Rides.restore(rideSnap)
		m.Wallet.restore(walletSnap)
		m.Bills.restore(billSnap)
		return err
	}

	return nil
}

// ──────────────────────────────────────────────
// MOCK PRICING REPOSITORY
// ──────────────────────────────────────────────

// MockPricingRepository is a mock implementation of PricingRepository.
type MockPricingRepository struct {
	mu    sync.RWMutex
	cards map[string]*domain.VehiclePricing

	// Counters for verification
	GetCallCount int32

	// Error injection
	GetError error
}

// NewMockPricingRepository creates a new mock pricing repository.
func NewMockPricingRepository() *MockPricingRepository {
	return &MockPricingRepository{
		cards: make(map[string]*domain.VehiclePricing),
	}
}

// AddRateCard adds a rate card for test setup.
func (m *MockPricingRepository) AddRateCard(card *domain.VehiclePricing) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cards[card.VehicleType] = card
}

func (m *MockPricingRepository) GetByVehicleType(ctx context.Context, vehicleType string) (*domain.VehiclePricing, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	card, ok := m.cards[vehicleType]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *card
	return &copy, nil
}

func (m *MockPricingRepository) GetAll(ctx context.Context) ([]*domain.VehiclePricing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.VehiclePricing, 0, len(m.cards))
	for _, c := range m.cards {
		copy := *c
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockPricingRepository) Upsert(ctx context.Context, pricing *domain.VehiclePricing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *pricing
	m.cards[pricing.VehicleType] = &copy
	return nil
}

// ──────────────────────────────────────────────
// MOCK PRICING CACHE
// ──────────────────────────────────────────────

// MockPricingCache is a mock implementation of the rate-card cache.
type MockPricingCache struct {
	mu    sync.RWMutex
	cards map[string]*redis.CachedPricing

	// Counters for verification
	GetCallCount        int32
	SetCallCount        int32
	InvalidateCallCount int32

	// Error injection
	GetError error
}

// NewMockPricingCache creates a new mock pricing cache.
func NewMockPricingCache() *MockPricingCache {
	return &MockPricingCache{
		cards: make(map[string]*redis.CachedPricing),
	}
}

func (m *MockPricingCache) GetPricing(ctx context.Context, vehicleType string) (*redis.CachedPricing, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	card, ok := m.cards[vehicleType]
	if !ok {
		return nil, nil // Cache miss
	}
	copy := *card
	return &copy, nil
}

func (m *MockPricingCache) SetPricing(ctx context.Context, pricing *redis.CachedPricing) error {
	atomic.AddInt32(&m.SetCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *pricing
	m.cards[pricing.VehicleType] = &copy
	return nil
}

func (m *MockPricingCache) InvalidatePricing(ctx context.Context, vehicleType string) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cards, vehicleType)
	return nil
}

// HasCached checks whether a vehicle type is cached (for test assertions).
func (m *MockPricingCache) HasCached(vehicleType string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.cards[vehicleType]
	return ok
}

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

// AddUser adds a user for test setup.
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *user
	return &copy, nil
}

func (m *MockUserRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Phone == phone {
			copy := *u
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of the ride lock store.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]time.Time

	// Counters for verification
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error

	// Force lock failure
	ForceAcquireFailure bool
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]time.Time),
	}
}

func (m *MockLockStore) AcquireRideLock(ctx context.Context, rideID string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	if m.ForceAcquireFailure {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	key := "lock:ride:" + rideID
	if expiry, exists := m.locks[key]; exists {
		if time.Now().Before(expiry) {
			return false, nil // Lock still held.
		}
	}

	m.locks[key] = time.Now().Add(ttl)
	return true, nil
}

func (m *MockLockStore) ReleaseRideLock(ctx context.Context, rideID string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, "lock:ride:"+rideID)
	return nil
}

// IsLocked checks if a ride is locked (for test assertions).
func (m *MockLockStore) IsLocked(rideID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	expiry, exists := m.locks["lock:ride:"+rideID]
	return exists && time.Now().Before(expiry)
}

// ──────────────────────────────────────────────
// HELPER ERRORS
// ──────────────────────────────────────────────

var (
	ErrMockDBConstraint = errors.New("mock: unique constraint violation")
	ErrMockTimeout      = errors.New("mock: operation timeout")
)
