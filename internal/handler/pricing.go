package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hail/internal/domain"
	"hail/internal/service"
)

// PricingHandler handles HTTP requests for the rate-card catalog.
type PricingHandler struct {
	pricingService *service.PricingService
}

// NewPricingHandler creates a new PricingHandler.
func NewPricingHandler(pricingService *service.PricingService) *PricingHandler {
	return &PricingHandler{pricingService: pricingService}
}

// PricingBody is the HTTP shape of a rate card.
type PricingBody struct {
	VehicleType     string             `json:"vehicle_type"`
	BasePrice       float64            `json:"base_price"`
	PricePerKm      float64            `json:"price_per_km"`
	PricePerMin     float64            `json:"price_per_min"`
	MinimumFare     float64            `json:"minimum_fare"`
	TripMultipliers map[string]float64 `json:"trip_multipliers,omitempty"`
	UpdatedBy       string             `json:"updated_by,omitempty"`
}

// GetAll handles GET /v1/pricing
func (h *PricingHandler) GetAll(c *gin.Context) {
	cards, err := h.pricingService.ListRateCards(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]PricingBody, 0, len(cards))
	for _, card := range cards {
		responses = append(responses, toPricingBody(card))
	}

	respondJSON(c, http.StatusOK, responses)
}

// GetByVehicleType handles GET /v1/pricing/:vehicleType
func (h *PricingHandler) GetByVehicleType(c *gin.Context) {
	card, err := h.pricingService.GetRateCard(c.Request.Context(), c.Param("vehicleType"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toPricingBody(card))
}

// Upsert handles PUT /v1/pricing/:vehicleType
func (h *PricingHandler) Upsert(c *gin.Context) {
	var req PricingBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	multipliers := make(map[domain.TripType]float64, len(req.TripMultipliers))
	for k, v := range req.TripMultipliers {
		multipliers[domain.TripType(k)] = v
	}
	if len(multipliers) == 0 {
		multipliers = nil
	}

	card := &domain.VehiclePricing{
		VehicleType:     c.Param("vehicleType"),
		BasePrice:       req.BasePrice,
		PricePerKm:      req.PricePerKm,
		PricePerMin:     req.PricePerMin,
		MinimumFare:     req.MinimumFare,
		TripMultipliers: multipliers,
		UpdatedBy:       req.UpdatedBy,
	}

	if err := h.pricingService.UpdateRateCard(c.Request.Context(), card); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toPricingBody(card))
}

func toPricingBody(card *domain.VehiclePricing) PricingBody {
	multipliers := make(map[string]float64, len(card.TripMultipliers))
	for k, v := range card.TripMultipliers {
		multipliers[string(k)] = v
	}

	return PricingBody{
		VehicleType:     card.VehicleType,
		BasePrice:       card.BasePrice,
		PricePerKm:      card.PricePerKm,
		PricePerMin:     card.PricePerMin,
		MinimumFare:     card.MinimumFare,
		TripMultipliers: multipliers,
		UpdatedBy:       card.UpdatedBy,
	}
}
