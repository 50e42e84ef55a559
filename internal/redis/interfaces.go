package redis

import (
	"context"
	"time"
)

// LockStoreInterface defines the interface for distributed ride locking.
type LockStoreInterface interface {
	AcquireRideLock(ctx context.Context, rideID string, ttl time.Duration) (bool, error)
	ReleaseRideLock(ctx context.Context, rideID string) error
}

// PricingCacheInterface defines the interface for rate-card caching.
type PricingCacheInterface interface {
	GetPricing(ctx context.Context, vehicleType string) (*CachedPricing, error)
	SetPricing(ctx context.Context, pricing *CachedPricing) error
	InvalidatePricing(ctx context.Context, vehicleType string) error
}

// Ensure concrete types implement interfaces.
var (
	_ LockStoreInterface    = (*LockStore)(nil)
	_ PricingCacheInterface = (*CacheStore)(nil)
)
