package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hail/internal/repository"
	"hail/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidCustomerID),
		errors.Is(err, service.ErrInvalidDriverID),
		errors.Is(err, service.ErrInvalidRideID),
		errors.Is(err, service.ErrInvalidUserID),
		errors.Is(err, service.ErrInvalidLocation),
		errors.Is(err, service.ErrInvalidVehicleType),
		errors.Is(err, service.ErrInvalidTripType),
		errors.Is(err, service.ErrInvalidDistance),
		errors.Is(err, service.ErrInvalidDuration),
		errors.Is(err, service.ErrInvalidFare),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidPaymentMethod),
		errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrInvalidRateCard),
		errors.Is(err, service.ErrPricingUnavailable):
		return http.StatusBadRequest

	// Conflict errors - status precondition or lost concurrency race
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrRideNotCompleted),
		errors.Is(err, repository.ErrConflict):
		return http.StatusConflict

	// Forbidden - trip code mismatch
	case errors.Is(err, service.ErrInvalidTripCode):
		return http.StatusForbidden

	// Payment required - wallet cannot cover the debit
	case errors.Is(err, service.ErrInsufficientFunds):
		return http.StatusPaymentRequired

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
