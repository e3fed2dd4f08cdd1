package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// CatalogFetcher retrieves a vendor's raw menu payload from one platform
type CatalogFetcher interface {
	FetchCatalog(ctx context.Context, platform Platform, vendorCode string) ([]byte, error)
}

// PairingLookup resolves a vendor on one platform to its registered pairing
type PairingLookup interface {
	ResolvePairing(ctx context.Context, platform Platform, vendorCode string) (*VendorPairing, error)
}

// PairingInvalidator drops a memoized pairing so the next lookup asks the registry again
type PairingInvalidator interface {
	Invalidate(ctx context.Context, platform Platform, vendorCode string) error
}

// VendorDirectory lists the registered vendor pairings
type VendorDirectory interface {
	ListVendors(ctx context.Context) ([]VendorSummary, error)
	Stats(ctx context.Context) (*PairingStats, error)
}
