package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"hail/internal/domain"
	internalRedis "hail/internal/redis"
	"hail/internal/repository"
)

// rideLockTTL bounds how long a crashed instance can hold a ride lock.
const rideLockTTL = 10 * time.Second

// RideService owns the ride state machine:
//
//	REQUESTED → ACCEPTED → ONGOING → COMPLETED
//
// with CANCELLED reachable from REQUESTED and ACCEPTED. COMPLETED and
// CANCELLED are terminal. Completion settles the fare: bill, ride
// transition and wallet ledger entries are written in one unit of work.
type RideService struct {
	transactor     repository.Transactor
	rideRepo       repository.RideRepository
	billRepo       repository.BillRepository
	userRepo       repository.UserRepository
	pricingService *PricingService
	lockStore      internalRedis.LockStoreInterface
	notifier       *NotificationDispatcher
}

// NewRideService creates a new RideService. lockStore, userRepo and
// notifier may be nil.
func NewRideService(
	transactor repository.Transactor,
	rideRepo repository.RideRepository,
	billRepo repository.BillRepository,
	userRepo repository.UserRepository,
	pricingService *PricingService,
	lockStore internalRedis.LockStoreInterface,
	notifier *NotificationDispatcher,
) *RideService {
	return &RideService{
		transactor:     transactor,
		rideRepo:       rideRepo,
		billRepo:       billRepo,
		userRepo:       userRepo,
		pricingService: pricingService,
		lockStore:      lockStore,
		notifier:       notifier,
	}
}

// CreateRideRequest contains the parameters for booking a ride.
type CreateRideRequest struct {
	CustomerID        string
	Pickup            domain.Location
	Drop              domain.Location
	VehicleType       string
	TripType          domain.TripType
	EstimatedDistance float64
	EstimatedDuration int
	EstimatedFare     float64
}

// CreateRide books a new ride in REQUESTED state and generates the
// 4-digit trip-start code the driver must present at pickup.
func (s *RideService) CreateRide(ctx context.Context, req CreateRideRequest) (*domain.Ride, error) {
	if err := s.validateCreateRequest(&req); err != nil {
		return nil, err
	}

	ride := &domain.Ride{
		ID:                uuid.New().String(),
		CustomerID:        req.CustomerID,
		Pickup:            req.Pickup,
		Drop:              req.Drop,
		VehicleType:       req.VehicleType,
		TripType:          req.TripType,
		EstimatedDistance: req.EstimatedDistance,
		EstimatedDuration: req.EstimatedDuration,
		EstimatedFare:     req.EstimatedFare,
		Status:            domain.RideStatusRequested,
		TripCode:          newTripCode(),
		CreatedAt:         time.Now(),
	}

	if err := s.rideRepo.Create(ctx, ride); err != nil {
		return nil, err
	}

	s.notifyCustomer(ctx, ride.CustomerID, NotificationBookingConfirmed, ride.ID,
		fmt.Sprintf("Ride booked. Pickup: %s. Drop: %s. Fare: %.2f. Trip code: %s",
			ride.Pickup.Address, ride.Drop.Address, ride.EstimatedFare, ride.TripCode))

	return ride, nil
}

// AcceptRide assigns a driver to a REQUESTED ride. Exclusive: of two
// concurrent accepts for the same ride at most one succeeds; the loser
// gets ErrInvalidTransition or repository.ErrConflict and the winning
// assignment is left untouched.
func (s *RideService) AcceptRide(ctx context.Context, rideID, driverID string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	unlock, err := s.lockRide(ctx, rideID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if ride.Status != domain.RideStatusRequested {
		return nil, ErrInvalidTransition
	}

	ride.DriverID = driverID
	ride.Status = domain.RideStatusAccepted

	if err := s.rideRepo.Update(ctx, ride); err != nil {
		return nil, err
	}

	s.notifyCustomer(ctx, ride.CustomerID, NotificationDriverAssigned, ride.ID,
		"A driver has been assigned to your ride")

	return ride, nil
}

// StartRide moves an ACCEPTED ride to ONGOING. The presented trip-start
// code must match the one generated at booking.
func (s *RideService) StartRide(ctx context.Context, rideID, presentedCode string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}

	unlock, err := s.lockRide(ctx, rideID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if ride.Status != domain.RideStatusAccepted {
		return nil, ErrInvalidTransition
	}

	if presentedCode != ride.TripCode {
		return nil, ErrInvalidTripCode
	}

	ride.Status = domain.RideStatusOngoing
	ride.StartedAt = time.Now()

	if err := s.rideRepo.Update(ctx, ride); err != nil {
		return nil, err
	}

	s.notifyCustomer(ctx, ride.CustomerID, NotificationRideStarted, ride.ID,
		"Your trip has started")

	return ride, nil
}

// CompleteRideRequest contains the parameters for settling a ride.
type CompleteRideRequest struct {
	RideID         string
	ActualDistance float64
	ActualDuration int
	PaymentMethod  domain.PaymentMethod
}

// SettlementResult is the outcome of CompleteRide.
type SettlementResult struct {
	Ride           *domain.Ride
	Bill           *domain.Bill
	CustomerEntry  *domain.Transaction // nil unless paid by wallet
	DriverEntry    *domain.Transaction
	AlreadySettled bool
}

// CompleteRide ends an ONGOING ride and settles it: the fare is computed
// from the vehicle's rate card, a bill is issued, the customer's wallet is
// debited when paying by wallet, and the driver is credited the total
// minus commission. Ride transition, bill and ledger entries commit
// atomically; any failure rolls back all of them and the ride stays
// ONGOING.
//
// Completing an already-COMPLETED ride is a no-op returning the stored
// bill, never a second charge.
func (s *RideService) CompleteRide(ctx context.Context, req CompleteRideRequest) (*SettlementResult, error) {
	if req.RideID == "" {
		return nil, ErrInvalidRideID
	}

	paymentMethod, err := ValidatePaymentMethod(string(req.PaymentMethod))
	if err != nil {
		return nil, err
	}

	unlock, err := s.lockRide(ctx, req.RideID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	ride, err := s.rideRepo.GetByID(ctx, req.RideID)
	if err != nil {
		return nil, err
	}

	if ride.Status == domain.RideStatusCompleted {
		bill, err := s.billRepo.GetByRideID(ctx, ride.ID)
		if err != nil {
			return nil, err
		}
		return &SettlementResult{Ride: ride, Bill: bill, AlreadySettled: true}, nil
	}

	if ride.Status != domain.RideStatusOngoing {
		return nil, ErrInvalidTransition
	}

	pricing, err := s.pricingService.GetRateCard(ctx, ride.VehicleType)
	if err != nil {
		return nil, err
	}

	fare, err := CalculateFare(pricing, req.ActualDistance, req.ActualDuration, ride.TripType)
	if err != nil {
		return nil, err
	}

	bill := AssembleBill(ride, fare)

	result := &SettlementResult{Bill: bill}
	err = s.transactor.WithinTx(ctx, func(r repository.Repositories) error {
		ride.Status = domain.RideStatusCompleted
		ride.ActualFare = bill.Total
		ride.PaymentMethod = paymentMethod
		ride.CompletedAt = time.Now()

		if err := r.Rides.Update(ctx, ride); err != nil {
			return err
		}

		if err := r.Bills.Create(ctx, bill); err != nil {
			return err
		}

		if paymentMethod == domain.PaymentMethodWallet {
			entry, err := debitAccount(ctx, r.Wallet, ride.CustomerID, bill.Total,
				domain.TransactionRidePayment, ride.ID, fmt.Sprintf("Ride payment for %s", ride.ID))
			if err != nil {
				return err
			}
			result.CustomerEntry = entry
		}

		entry, err := creditAccount(ctx, r.Wallet, ride.DriverID, DriverShare(bill.Total),
			domain.TransactionDriverEarning, ride.ID, fmt.Sprintf("Earning from ride %s", ride.ID))
		if err != nil {
			return err
		}
		result.DriverEntry = entry

		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Ride = ride

	s.notifyCustomer(ctx, ride.CustomerID, NotificationBillReady, ride.ID, FormatBillText(bill))

	return result, nil
}

// CancelRide cancels a ride that has not yet started. ONGOING and terminal
// rides cannot be cancelled; settlement in particular is never interrupted.
func (s *RideService) CancelRide(ctx context.Context, rideID, reason string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}

	unlock, err := s.lockRide(ctx, rideID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if ride.Status != domain.RideStatusRequested && ride.Status != domain.RideStatusAccepted {
		return nil, ErrInvalidTransition
	}

	ride.Status = domain.RideStatusCancelled
	ride.CancelReason = reason
	ride.CancelledAt = time.Now()

	if err := s.rideRepo.Update(ctx, ride); err != nil {
		return nil, err
	}

	s.notifyCustomer(ctx, ride.CustomerID, NotificationRideCancelled, ride.ID,
		"Your ride has been cancelled")

	return ride, nil
}

// RateRide records the customer's post-trip rating and feedback.
func (s *RideService) RateRide(ctx context.Context, rideID string, rating float64, feedback string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if ride.Status != domain.RideStatusCompleted {
		return nil, ErrRideNotCompleted
	}

	ride.Rating = rating
	ride.Feedback = feedback

	if err := s.rideRepo.Update(ctx, ride); err != nil {
		return nil, err
	}

	return ride, nil
}

// GetRide retrieves a ride by ID.
func (s *RideService) GetRide(ctx context.Context, rideID string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	return s.rideRepo.GetByID(ctx, rideID)
}

// GetBill retrieves the bill for a completed ride.
func (s *RideService) GetBill(ctx context.Context, rideID string) (*domain.Bill, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	return s.billRepo.GetByRideID(ctx, rideID)
}

// GetAllRides retrieves recent rides.
func (s *RideService) GetAllRides(ctx context.Context) ([]*domain.Ride, error) {
	return s.rideRepo.GetAll(ctx)
}

// GetCustomerRides retrieves recent rides for a customer.
func (s *RideService) GetCustomerRides(ctx context.Context, customerID string) ([]*domain.Ride, error) {
	if customerID == "" {
		return nil, ErrInvalidCustomerID
	}
	return s.rideRepo.GetByCustomerID(ctx, customerID)
}

// GetDriverRides retrieves recent rides for a driver.
func (s *RideService) GetDriverRides(ctx context.Context, driverID string) ([]*domain.Ride, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}
	return s.rideRepo.GetByDriverID(ctx, driverID)
}

// lockRide takes the distributed ride lock when a lock store is wired.
// A held lock means another transition on this ride is in flight.
func (s *RideService) lockRide(ctx context.Context, rideID string) (func(), error) {
	if s.lockStore == nil {
		return func() {}, nil
	}

	locked, err := s.lockStore.AcquireRideLock(ctx, rideID, rideLockTTL)
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, repository.ErrConflict
	}

	return func() {
		_ = s.lockStore.ReleaseRideLock(context.WithoutCancel(ctx), rideID)
	}, nil
}

// notifyCustomer resolves the customer's contact and fires a notification.
// Best-effort: unknown users and delivery failures are silently dropped.
func (s *RideService) notifyCustomer(ctx context.Context, customerID string, kind NotificationKind, rideID, message string) {
	if s.notifier == nil || s.userRepo == nil {
		return
	}

	user, err := s.userRepo.GetByID(ctx, customerID)
	if err != nil {
		return
	}

	s.notifier.Notify(kind, user.Phone, rideID, message)
}

func (s *RideService) validateCreateRequest(req *CreateRideRequest) error {
	if req.CustomerID == "" {
		return ErrInvalidCustomerID
	}
	if !isValidLocation(req.Pickup) || !isValidLocation(req.Drop) {
		return ErrInvalidLocation
	}
	if req.VehicleType == "" {
		return ErrInvalidVehicleType
	}

	tripType, err := ValidateTripType(string(req.TripType))
	if err != nil {
		return err
	}
	req.TripType = tripType

	if req.EstimatedDistance <= 0 {
		return ErrInvalidDistance
	}
	if req.EstimatedDuration <= 0 {
		return ErrInvalidDuration
	}
	if req.EstimatedFare <= 0 {
		return ErrInvalidFare
	}

	return nil
}

func isValidLocation(loc domain.Location) bool {
	return loc.Address != "" &&
		loc.Lat >= -90 && loc.Lat <= 90 &&
		loc.Lng >= -180 && loc.Lng <= 180
}

// newTripCode generates the 4-digit trip-start code.
func newTripCode() string {
	return fmt.Sprintf("%04d", rand.IntN(10000))
}

// ValidatePaymentMethod validates a payment method string.
func ValidatePaymentMethod(method string) (domain.PaymentMethod, error) {
	switch domain.PaymentMethod(method) {
	case domain.PaymentMethodCash, domain.PaymentMethodCard,
		domain.PaymentMethodWallet, domain.PaymentMethodUPI:
		return domain.PaymentMethod(method), nil
	case "":
		return domain.PaymentMethodCash, nil // Default to cash
	default:
		return "", ErrInvalidPaymentMethod
	}
}

// ValidateTripType validates a trip type string.
func ValidateTripType(tripType string) (domain.TripType, error) {
	switch domain.TripType(tripType) {
	case domain.TripTypeOneWay, domain.TripTypeRoundTrip,
		domain.TripTypeRental4H, domain.TripTypeRental8H, domain.TripTypeRental12H:
		return domain.TripType(tripType), nil
	case "":
		return domain.TripTypeOneWay, nil // Default to one-way
	default:
		return "", ErrInvalidTripType
	}
}
