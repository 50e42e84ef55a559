package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore handles rate-card caching in Redis. Rate cards are read on
// every settlement but change rarely, so they get a short TTL cache in
// front of PostgreSQL.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// PricingCacheTTL bounds how long an out-of-band rate-card update can be
// invisible to settlement.
const PricingCacheTTL = 5 * time.Minute

const pricingCachePrefix = "cache:pricing:"

// CachedPricing is the cached representation of a rate card.
type CachedPricing struct {
	VehicleType     string             `json:"vehicle_type"`
	BasePrice       float64            `json:"base_price"`
	PricePerKm      float64            `json:"price_per_km"`
	PricePerMin     float64            `json:"price_per_min"`
	MinimumFare     float64            `json:"minimum_fare"`
	TripMultipliers map[string]float64 `json:"trip_multipliers"`
}

// GetPricing retrieves a rate card from cache. Returns nil on a miss.
func (s *CacheStore) GetPricing(ctx context.Context, vehicleType string) (*CachedPricing, error) {
	key := pricingCachePrefix + vehicleType
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var pricing CachedPricing
	if err := json.Unmarshal(data, &pricing); err != nil {
		return nil, err
	}
	return &pricing, nil
}

// SetPricing stores a rate card in cache.
func (s *CacheStore) SetPricing(ctx context.Context, pricing *CachedPricing) error {
	key := pricingCachePrefix + pricing.VehicleType
	data, err := json.Marshal(pricing)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, PricingCacheTTL).Err()
}

// InvalidatePricing removes a rate card from cache after an admin update.
func (s *CacheStore) InvalidatePricing(ctx context.Context, vehicleType string) error {
	key := pricingCachePrefix + vehicleType
	return s.client.Del(ctx, key).Err()
}
