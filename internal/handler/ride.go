package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hail/internal/domain"
	"hail/internal/service"
)

// RideHandler handles HTTP requests for rides.
type RideHandler struct {
	rideService *service.RideService
}

// NewRideHandler creates a new RideHandler.
func NewRideHandler(rideService *service.RideService) *RideHandler {
	return &RideHandler{rideService: rideService}
}

// LocationBody is the HTTP shape of a pickup/drop location.
type LocationBody struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// CreateRideRequest is the HTTP request body for booking a ride.
type CreateRideRequest struct {
	CustomerID        string       `json:"customer_id"`
	Pickup            LocationBody `json:"pickup"`
	Drop              LocationBody `json:"drop"`
	VehicleType       string       `json:"vehicle_type"`
	TripType          string       `json:"trip_type,omitempty"`
	EstimatedDistance float64      `json:"estimated_distance"`
	EstimatedDuration int          `json:"estimated_duration"`
	EstimatedFare     float64      `json:"estimated_fare"`
}

// AcceptRideRequest is the HTTP request body for accepting a ride.
type AcceptRideRequest struct {
	DriverID string `json:"driver_id"`
}

// StartRideRequest is the HTTP request body for starting a ride.
type StartRideRequest struct {
	TripCode string `json:"trip_code"`
}

// CompleteRideRequest is the HTTP request body for completing a ride.
type CompleteRideRequest struct {
	ActualDistance float64 `json:"actual_distance"`
	ActualDuration int     `json:"actual_duration"`
	PaymentMethod  string  `json:"payment_method,omitempty"` // CASH, CARD, WALLET, UPI
}

// CancelRideRequest is the HTTP request body for cancelling a ride.
type CancelRideRequest struct {
	Reason string `json:"reason,omitempty"`
}

// RateRideRequest is the HTTP request body for rating a completed ride.
type RateRideRequest struct {
	Rating   float64 `json:"rating"`
	Feedback string  `json:"feedback,omitempty"`
}

// RideResponse is the HTTP representation of a ride.
type RideResponse struct {
	ID                string       `json:"id"`
	CustomerID        string       `json:"customer_id"`
	DriverID          string       `json:"driver_id,omitempty"`
	Pickup            LocationBody `json:"pickup"`
	Drop              LocationBody `json:"drop"`
	VehicleType       string       `json:"vehicle_type"`
	TripType          string       `json:"trip_type"`
	EstimatedDistance float64      `json:"estimated_distance"`
	EstimatedDuration int          `json:"estimated_duration"`
	EstimatedFare     float64      `json:"estimated_fare"`
	Status            string       `json:"status"`
	TripCode          string       `json:"trip_code,omitempty"`
	ActualFare        float64      `json:"actual_fare,omitempty"`
	PaymentMethod     string       `json:"payment_method,omitempty"`
	CancelReason      string       `json:"cancel_reason,omitempty"`
	Rating            float64      `json:"rating,omitempty"`
	Feedback          string       `json:"feedback,omitempty"`
	CreatedAt         string       `json:"created_at"`
	StartedAt         string       `json:"started_at,omitempty"`
	CompletedAt       string       `json:"completed_at,omitempty"`
}

// BillItemBody is the HTTP shape of a bill line item.
type BillItemBody struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// BillResponse is the HTTP representation of a bill.
type BillResponse struct {
	ID          string         `json:"id"`
	RideID      string         `json:"ride_id"`
	CustomerID  string         `json:"customer_id"`
	DriverID    string         `json:"driver_id"`
	Items       []BillItemBody `json:"items"`
	Subtotal    float64        `json:"subtotal"`
	Tax         float64        `json:"tax"`
	Discount    float64        `json:"discount"`
	Total       float64        `json:"total"`
	GeneratedAt string         `json:"generated_at"`
}

// CompleteRideResponse is the HTTP response for completing a ride.
type CompleteRideResponse struct {
	Ride           RideResponse `json:"ride"`
	Bill           BillResponse `json:"bill"`
	AlreadySettled bool         `json:"already_settled"`
}

// CreateRide handles POST /v1/rides
func (h *RideHandler) CreateRide(c *gin.Context) {
	var req CreateRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.rideService.CreateRide(c.Request.Context(), service.CreateRideRequest{
		CustomerID:        req.CustomerID,
		Pickup:            domain.Location{Address: req.Pickup.Address, Lat: req.Pickup.Lat, Lng: req.Pickup.Lng},
		Drop:              domain.Location{Address: req.Drop.Address, Lat: req.Drop.Lat, Lng: req.Drop.Lng},
		VehicleType:       req.VehicleType,
		TripType:          domain.TripType(req.TripType),
		EstimatedDistance: req.EstimatedDistance,
		EstimatedDuration: req.EstimatedDuration,
		EstimatedFare:     req.EstimatedFare,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toRideResponse(ride, true))
}

// GetRide handles GET /v1/rides/:id
func (h *RideHandler) GetRide(c *gin.Context) {
	ride, err := h.rideService.GetRide(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride, false))
}

// AcceptRide handles POST /v1/rides/:id/accept
func (h *RideHandler) AcceptRide(c *gin.Context) {
	var req AcceptRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.rideService.AcceptRide(c.Request.Context(), c.Param("id"), req.DriverID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride, false))
}

// StartRide handles POST /v1/rides/:id/start
func (h *RideHandler) StartRide(c *gin.Context) {
	var req StartRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.rideService.StartRide(c.Request.Context(), c.Param("id"), req.TripCode)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride, false))
}

// CompleteRide handles POST /v1/rides/:id/complete
func (h *RideHandler) CompleteRide(c *gin.Context) {
	var req CompleteRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.rideService.CompleteRide(c.Request.Context(), service.CompleteRideRequest{
		RideID:         c.Param("id"),
		ActualDistance: req.ActualDistance,
		ActualDuration: req.ActualDuration,
		PaymentMethod:  domain.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, CompleteRideResponse{
		Ride:           toRideResponse(result.Ride, false),
		Bill:           toBillResponse(result.Bill),
		AlreadySettled: result.AlreadySettled,
	})
}

// CancelRide handles POST /v1/rides/:id/cancel
func (h *RideHandler) CancelRide(c *gin.Context) {
	var req CancelRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.rideService.CancelRide(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride, false))
}

// RateRide handles POST /v1/rides/:id/rate
func (h *RideHandler) RateRide(c *gin.Context) {
	var req RateRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.rideService.RateRide(c.Request.Context(), c.Param("id"), req.Rating, req.Feedback)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride, false))
}

// GetBill handles GET /v1/rides/:id/bill
func (h *RideHandler) GetBill(c *gin.Context) {
	bill, err := h.rideService.GetBill(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBillResponse(bill))
}

// GetAll handles GET /v1/rides
func (h *RideHandler) GetAll(c *gin.Context) {
	rides, err := h.rideService.GetAllRides(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponses(rides))
}

// GetCustomerRides handles GET /v1/customers/:customerID/rides
func (h *RideHandler) GetCustomerRides(c *gin.Context) {
	rides, err := h.rideService.GetCustomerRides(c.Request.Context(), c.Param("customerID"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponses(rides))
}

// GetDriverRides handles GET /v1/drivers/:driverID/rides
func (h *RideHandler) GetDriverRides(c *gin.Context) {
	rides, err := h.rideService.GetDriverRides(c.Request.Context(), c.Param("driverID"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponses(rides))
}

// toRideResponse converts a domain ride. The trip code is only exposed on
// creation, in the booking confirmation for the customer.
func toRideResponse(ride *domain.Ride, includeCode bool) RideResponse {
	resp := RideResponse{
		ID:                ride.ID,
		CustomerID:        ride.CustomerID,
		DriverID:          ride.DriverID,
		Pickup:            LocationBody{Address: ride.Pickup.Address, Lat: ride.Pickup.Lat, Lng: ride.Pickup.Lng},
		Drop:              LocationBody{Address: ride.Drop.Address, Lat: ride.Drop.Lat, Lng: ride.Drop.Lng},
		VehicleType:       ride.VehicleType,
		TripType:          string(ride.TripType),
		EstimatedDistance: ride.EstimatedDistance,
		EstimatedDuration: ride.EstimatedDuration,
		EstimatedFare:     ride.EstimatedFare,
		Status:            string(ride.Status),
		ActualFare:        ride.ActualFare,
		PaymentMethod:     string(ride.PaymentMethod),
		CancelReason:      ride.CancelReason,
		Rating:            ride.Rating,
		Feedback:          ride.Feedback,
		CreatedAt:         ride.CreatedAt.Format(time.RFC3339),
	}

	if includeCode {
		resp.TripCode = ride.TripCode
	}
	if !ride.StartedAt.IsZero() {
		resp.StartedAt = ride.StartedAt.Format(time.RFC3339)
	}
	if !ride.CompletedAt.IsZero() {
		resp.CompletedAt = ride.CompletedAt.Format(time.RFC3339)
	}

	return resp
}

func toRideResponses(rides []*domain.Ride) []RideResponse {
	responses := make([]RideResponse, 0, len(rides))
	for _, ride := range rides {
		responses = append(responses, toRideResponse(ride, false))
	}
	return responses
}

func toBillResponse(bill *domain.Bill) BillResponse {
	items := make([]BillItemBody, len(bill.Items))
	for i, item := range bill.Items {
		items[i] = BillItemBody{Description: item.Description, Amount: item.Amount}
	}

	return BillResponse{
		ID:          bill.ID,
		RideID:      bill.RideID,
		CustomerID:  bill.CustomerID,
		DriverID:    bill.DriverID,
		Items:       items,
		Subtotal:    bill.Subtotal,
		Tax:         bill.Tax,
		Discount:    bill.Discount,
		Total:       bill.Total,
		GeneratedAt: bill.GeneratedAt.Format(time.RFC3339),
	}
}
