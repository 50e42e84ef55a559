package domain

import "time"

// RideStatus represents the current status of a ride.
type RideStatus string

const (
	RideStatusRequested RideStatus = "REQUESTED"
	RideStatusAccepted  RideStatus = "ACCEPTED"
	RideStatusOngoing   RideStatus = "ONGOING"
	RideStatusCompleted RideStatus = "COMPLETED"
	RideStatusCancelled RideStatus = "CANCELLED"
)

// IsTerminal reports whether no further transitions are allowed.
func (s RideStatus) IsTerminal() bool {
	return s == RideStatusCompleted || s == RideStatusCancelled
}

// TripType represents the kind of trip booked.
type TripType string

const (
	TripTypeOneWay    TripType = "ONE_WAY"
	TripTypeRoundTrip TripType = "ROUND_TRIP"
	TripTypeRental4H  TripType = "RENTAL_4HR"
	TripTypeRental8H  TripType = "RENTAL_8HR"
	TripTypeRental12H TripType = "RENTAL_12HR"
)

// PaymentMethod represents the payment method for a ride.
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "CASH"
	PaymentMethodCard   PaymentMethod = "CARD"
	PaymentMethodWallet PaymentMethod = "WALLET"
	PaymentMethodUPI    PaymentMethod = "UPI"
)

// Location is an address with coordinates.
type Location struct {
	Address string
	Lat     float64
	Lng     float64
}

// Ride represents a ride request in the system.
//
// DriverID is set only once the ride has been accepted. ActualFare and
// CompletedAt are set only on completion. Version is bumped on every
// update and guards against concurrent transitions.
type Ride struct {
	ID                string
	CustomerID        string
	DriverID          string
	Pickup            Location
	Drop              Location
	VehicleType       string
	TripType          TripType
	EstimatedDistance float64 // km
	EstimatedDuration int     // minutes
	EstimatedFare     float64
	Status            RideStatus
	TripCode          string // 4-digit code the driver must present at pickup
	ActualFare        float64
	PaymentMethod     PaymentMethod
	CancelReason      string
	Rating            float64
	Feedback          string
	CreatedAt         time.Time
	StartedAt         time.Time
	CompletedAt       time.Time
	CancelledAt       time.Time
	Version           int64
}
