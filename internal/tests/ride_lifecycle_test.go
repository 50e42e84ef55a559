package tests

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"hail/internal/domain"
	"hail/internal/repository"
	"hail/internal/service"
)

// ──────────────────────────────────────────────
// FIXTURE
// ──────────────────────────────────────────────

type rideFixture struct {
	rides   *MockRideRepository
	wallet  *MockWalletRepository
	bills   *MockBillRepository
	pricing *MockPricingRepository
	users   *MockUserRepository
	locks   *MockLockStore
	tx      *MockTransactor
	svc     *service.RideService
}

func newRideFixture() *rideFixture {
	rides := NewMockRideRepository()
	wallet := NewMockWalletRepository()
	bills := NewMockBillRepository()
	pricing := NewMockPricingRepository()
	users := NewMockUserRepository()
	locks := NewMockLockStore()
	tx := NewMockTransactor(rides, wallet, bills)

	pricing.AddRateCard(&domain.VehiclePricing{
		VehicleType:     "SEDAN",
		BasePrice:       50,
		PricePerKm:      10,
		PricePerMin:     2,
		MinimumFare:     80,
		TripMultipliers: domain.DefaultTripMultipliers(),
	})

	pricingService := service.NewPricingService(pricing, nil)
	svc := service.NewRideService(tx, rides, bills, users, pricingService, locks, nil)

	return &rideFixture{
		rides:   rides,
		wallet:  wallet,
		bills:   bills,
		pricing: pricing,
		users:   users,
		locks:   locks,
		tx:      tx,
		svc:     svc,
	}
}

func validCreateRequest() service.CreateRideRequest {
	return service.CreateRideRequest{
		CustomerID:        "cust-1",
		Pickup:            domain.Location{Address: "12 MG Road", Lat: 12.97, Lng: 77.59},
		Drop:              domain.Location{Address: "Airport T2", Lat: 13.19, Lng: 77.70},
		VehicleType:       "SEDAN",
		TripType:          domain.TripTypeOneWay,
		EstimatedDistance: 10,
		EstimatedDuration: 20,
		EstimatedFare:     199.50,
	}
}

// addOngoingRide seeds a ride ready for completion.
func (f *rideFixture) addOngoingRide(id string) *domain.Ride {
	ride := &domain.Ride{
		ID:          id,
		CustomerID:  "cust-1",
		DriverID:    "drv-1",
		VehicleType: "SEDAN",
		TripType:    domain.TripTypeOneWay,
		Status:      domain.RideStatusOngoing,
		TripCode:    "4821",
	}
	f.rides.AddRide(ride)
	return ride
}

// ──────────────────────────────────────────────
// BOOKING
// ──────────────────────────────────────────────

func TestCreateRide_StartsRequestedWithTripCode(t *testing.T) {
	t.Parallel()

	f := newRideFixture()
	ride, err := f.svc.CreateRide(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ride.Status != domain.RideStatusRequested {
		t.Errorf("expected status REQUESTED, got %s", ride.Status)
	}
	if len(ride.TripCode) != 4 {
		t.Errorf("expected 4-digit trip code, got %q", ride.TripCode)
	}
	if ride.DriverID != "" {
		t.Errorf("expected no driver yet, got %s", ride.DriverID)
	}

	stored := f.rides.GetRide(ride.ID)
	if stored == nil {
		t.Fatal("ride not persisted")
	}
	if stored.TripCode != ride.TripCode {
		t.Errorf("stored trip code %q differs from returned %q", stored.TripCode, ride.TripCode)
	}
}

func TestCreateRide_Validation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		mutate  func(*service.CreateRideRequest)
		wantErr error
	}{
		{"missing customer", func(r *service.CreateRideRequest) { r.CustomerID = "" }, service.ErrInvalidCustomerID},
		{"empty pickup address", func(r *service.CreateRideRequest) { r.Pickup.Address = "" }, service.ErrInvalidLocation},
		{"latitude out of range", func(r *service.CreateRideRequest) { r.Drop.Lat = 91 }, service.ErrInvalidLocation},
		{"missing vehicle type", func(r *service.CreateRideRequest) { r.VehicleType = "" }, service.ErrInvalidVehicleType},
		{"unknown trip type", func(r *service.CreateRideRequest) { r.TripType = "TELEPORT" }, service.ErrInvalidTripType},
		{"zero distance", func(r *service.CreateRideRequest) { r.EstimatedDistance = 0 }, service.ErrInvalidDistance},
		{"negative duration", func(r *service.CreateRideRequest) { r.EstimatedDuration = -5 }, service.ErrInvalidDuration},
		{"zero fare", func(r *service.CreateRideRequest) { r.EstimatedFare = 0 }, service.ErrInvalidFare},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newRideFixture()
			req := validCreateRequest()
			tc.mutate(&req)

			_, err := f.svc.CreateRide(context.Background(), req)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
			if f.rides.CreateCallCount != 0 {
				t.Error("invalid request must not be persisted")
			}
		})
	}
}

// ──────────────────────────────────────────────
// ACCEPTANCE
// ──────────────────────────────────────────────

func TestAcceptRide_AssignsDriver(t *testing.T) {
	t.Parallel()

	f := newRideFixture()
	f.rides.AddRide(&domain.Ride{ID: "ride-1", CustomerID: "cust-1", Status: domain.RideStatusRequested})

	ride, err := f.svc.AcceptRide(context.Background(), "ride-1", "drv-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ride.Status != domain.RideStatusAccepted {
		t.Errorf("expected status ACCEPTED, got %s", ride.Status)
	}
	if ride.DriverID != "drv-1" {
		t.Errorf("expected driver drv-1, got %s", ride.DriverID)
	}
}

func TestAcceptRide_SecondAcceptLoses(t *testing.T) {
	t.Parallel()

	f := newRideFixture()
	f.rides.AddRide(&domain.Ride{ID: "ride-1", CustomerID: "cust-1", Status: domain.RideStatusRequested})

	if _, err := f.svc.AcceptRide(context.Background(), "ride-1", "drv-1"); err != nil {
		t.Fatalf("first accept failed: %v", err)
	}

	_, err := f.svc.AcceptRide(context.Background(), "ride-1", "drv-2")
	if !errors.Is(err, service.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	// The winning assignment must be untouched.
	if stored := f.rides.GetRide("ride-1"); stored.DriverID != "drv-1" {
		t.Errorf("expected winner drv-1 to keep the ride, got %s", stored.DriverID)
	}
}

func TestAcceptRide_ConcurrentAcceptsExactlyOneWinner(t *testing.T) {
	t.Parallel()

	f := newRideFixture()
	f.rides.AddRide(&domain.Ride{ID: "ride-1", CustomerID: "cust-1", Status: domain.RideStatusRequested})

	const drivers = 10
	var wins int32
	var wg sync.WaitGroup

	for i := 0; i < drivers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := f.svc.AcceptRide(context.Background(), "ride-1", "drv-"+string(rune('a'+n)))
			switch {
			case err == nil:
				atomic.AddInt32(&wins, 1)
			case errors.Is(err, service.ErrInvalidTransition), errors.Is(err, repository.ErrConflict):
				// Expected loser outcomes.
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if wins != 1 {
		t.Errorf("expected exactly 1 winning accept, got %d", wins)
	}
	if stored := f.rides.GetRide("ride-1"); stored.Status != domain.RideStatusAccepted {
		t.Errorf("expected final status ACCEPTED, got %s", stored.Status)
	}
}

func TestRideUpdate_StaleVersionConflicts(t *testing.T) {
	t.Parallel()

	rides := NewMockRideRepository()
	rides.AddRide(&domain.Ride{ID: "ride-1", Status: domain.RideStatusRequested})

	ctx := context.Background()
	stale, err := rides.GetByID(ctx, "ride-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fresh, _ := rides.GetByID(ctx, "ride-1")
	fresh.Status = domain.RideStatusAccepted
	if err := rides.Update(ctx, fresh); err != nil {
		t.Fatalf("first update failed: %v", err)
	}

	stale.Status = domain.RideStatusCancelled
	if err := rides.Update(ctx, stale); !errors.Is(err, repository.ErrConflict) {
		t.Errorf("expected ErrConflict for stale version, got %v", err)
	}
	if stored := rides.GetRide("ride-1"); stored.Status != domain.RideStatusAccepted {
		t.Errorf("losing write must not apply, status is %s", stored.Status)
	}
}

// ──────────────────────────────────────────────
// TRIP START
// ──────────────────────────────────────────────

func TestStartRide_RequiresMatchingTripCode(t *testing.T) {
	t.Parallel()

	f := newRideFixture()
	f.rides.AddRide(&domain.Ride{
		ID:         "ride-1",
		CustomerID: "cust-1",
		DriverID:   "drv-1",
		Status:     domain.RideStatusAccepted,
		TripCode:   "4821",
	})

	_, err := f.svc.StartRide(context.Background(), "ride-1", "0000")
	if !errors.Is(err, service.ErrInvalidTripCode) {
		t.Fatalf("expected ErrInvalidTripCode, got %v", err)
	}
	if stored := f.rides.GetRide("ride-1"); stored.Status != domain.RideStatusAccepted {
		t.Errorf("failed start must not change status, got %s", stored.Status)
	}

	ride, err := f.svc.StartRide(context.Background(), "ride-1", "4821")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ride.Status != domain.RideStatusOngoing {
		t.Errorf("expected status ONGOING, got %s", ride.Status)
	}
	if ride.StartedAt.IsZero() {
		t.Error("expected StartedAt to be set")
	}
}

func TestStartRide_FromRequestedFails(t *testing.T) {
	t.Parallel()

	f := newRideFixture()
	f.rides.AddRide(&domain.Ride{
		ID:       "ride-1",
		Status:   domain.RideStatusRequested,
		TripCode: "4821",
	})

	_, err := f.svc.StartRide(context.Background(), "ride-1", "4821")
	if !errors.Is(err, service.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

// ──────────────────────────────────────────────
// CANCELLATION
// ──────────────────────────────────────────────

func TestCancelRide_AllowedBeforeStart(t *testing.T) {
	t.Parallel()

	for _, status := range []domain.RideStatus{domain.RideStatusRequested, domain.RideStatusAccepted} {
		f := newRideFixture()
		f.rides.AddRide(&domain.Ride{ID: "ride-1", CustomerID: "cust-1", Status: status})

		ride, err := f.svc.CancelRide(context.Background(), "ride-1", "change of plans")
		if err != nil {
			t.Fatalf("cancel from %s failed: %v", status, err)
		}
		if ride.Status != domain.RideStatusCancelled {
			t.Errorf("expected CANCELLED, got %s", ride.Status)
		}
		if ride.CancelReason != "change of plans" {
			t.Errorf("expected reason recorded, got %q", ride.CancelReason)
		}
		if ride.CancelledAt.IsZero() {
			t.Error("expected CancelledAt to be set")
		}
	}
}

func TestCancelRide_RejectedOnceStartedOrTerminal(t *testing.T) {
	t.Parallel()

	for _, status := range []domain.RideStatus{
		domain.RideStatusOngoing,
		domain.RideStatusCompleted,
		domain.RideStatusCancelled,
	} {
		f := newRideFixture()
		f.rides.AddRide(&domain.Ride{ID: "ride-1", Status: status})

		_, err := f.svc.CancelRide(context.Background(), "ride-1", "too late")
		if !errors.Is(err, service.ErrInvalidTransition) {
			t.Errorf("cancel from %s: expected ErrInvalidTransition, got %v", status, err)
		}
		if stored := f.rides.GetRide("ride-1"); stored.Status != status {
			t.Errorf("status must stay %s, got %s", status, stored.Status)
		}
	}
}

// ──────────────────────────────────────────────
// RATING
// ──────────────────────────────────────────────

func TestRateRide_OnlyAfterCompletion(t *testing.T) {
	t.Parallel()

	f := newRideFixture()
	f.rides.AddRide(&domain.Ride{ID: "ride-1", Status: domain.RideStatusOngoing})

	_, err := f.svc.RateRide(context.Background(), "ride-1", 5, "great")
	if !errors.Is(err, service.ErrRideNotCompleted) {
		t.Fatalf("expected ErrRideNotCompleted, got %v", err)
	}

	f.rides.AddRide(&domain.Ride{ID: "ride-2", Status: domain.RideStatusCompleted})

	if _, err := f.svc.RateRide(context.Background(), "ride-2", 6, ""); !errors.Is(err, service.ErrInvalidRating) {
		t.Fatalf("expected ErrInvalidRating, got %v", err)
	}

	ride, err := f.svc.RateRide(context.Background(), "ride-2", 4.5, "smooth trip")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ride.Rating != 4.5 || ride.Feedback != "smooth trip" {
		t.Errorf("rating not recorded: %+v", ride)
	}
}

func TestGetRide_UnknownIDNotFound(t *testing.T) {
	t.Parallel()

	f := newRideFixture()
	_, err := f.svc.GetRide(context.Background(), "no-such-ride")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
