package service

import "errors"

var (
	// ErrInvalidTransition is returned when a ride is not in the required
	// status for the requested transition.
	ErrInvalidTransition = errors.New("invalid ride status transition")

	// ErrInsufficientFunds is returned when a wallet debit would drive the
	// balance negative.
	ErrInsufficientFunds = errors.New("insufficient wallet funds")

	// ErrPricingUnavailable is returned when no rate card exists for the
	// ride's vehicle type.
	ErrPricingUnavailable = errors.New("no rate card for vehicle type")

	// ErrInvalidTripCode is returned when the presented trip-start code does
	// not match the one generated at booking.
	ErrInvalidTripCode = errors.New("trip start code mismatch")

	// ErrInvalidCustomerID is returned when customer ID is empty.
	ErrInvalidCustomerID = errors.New("invalid customer id")

	// ErrInvalidDriverID is returned when driver ID is empty.
	ErrInvalidDriverID = errors.New("invalid driver id")

	// ErrInvalidRideID is returned when ride ID is empty.
	ErrInvalidRideID = errors.New("invalid ride id")

	// ErrInvalidUserID is returned when user ID is empty.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrInvalidLocation is returned when a pickup/drop location is malformed.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrInvalidVehicleType is returned when vehicle type is empty.
	ErrInvalidVehicleType = errors.New("invalid vehicle type")

	// ErrInvalidTripType is returned when the trip type is unknown.
	ErrInvalidTripType = errors.New("invalid trip type")

	// ErrInvalidDistance is returned when a distance is negative or,
	// for estimates, not positive.
	ErrInvalidDistance = errors.New("invalid distance")

	// ErrInvalidDuration is returned when a duration is negative or,
	// for estimates, not positive.
	ErrInvalidDuration = errors.New("invalid duration")

	// ErrInvalidFare is returned when an estimated fare is not positive.
	ErrInvalidFare = errors.New("invalid fare")

	// ErrInvalidAmount is returned when a wallet amount is not positive.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidPaymentMethod is returned when the payment method is unknown.
	ErrInvalidPaymentMethod = errors.New("invalid payment method")

	// ErrInvalidRating is returned when a rating is outside 1..5.
	ErrInvalidRating = errors.New("invalid rating")

	// ErrRideNotCompleted is returned when rating a ride that has not completed.
	ErrRideNotCompleted = errors.New("ride not completed")

	// ErrInvalidRateCard is returned when a rate card has negative prices.
	ErrInvalidRateCard = errors.New("invalid rate card")
)
