package pairing

import (
	"context"
	"fmt"
	"time"

	"github.com/menucompare/backend/internal/domain"
	"github.com/menucompare/backend/internal/infrastructure/cache"
	"github.com/menucompare/backend/internal/logger"
	"github.com/menucompare/backend/internal/metrics"
	"go.uber.org/zap"
)

// CachedLookup memoizes successful pairing lookups for a fixed TTL.
// Failures are never cached so a recovered registry is picked up on the next request.
type CachedLookup struct {
	next   domain.PairingLookup
	cache  domain.CacheRepository
	ttl    time.Duration
	logger *zap.Logger
}

var _ domain.PairingInvalidator = (*CachedLookup)(nil)

// NewCachedLookup wraps next with a cache
func NewCachedLookup(next domain.PairingLookup, c domain.CacheRepository, ttl time.Duration, log *zap.Logger) *CachedLookup {
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &CachedLookup{
		next:   next,
		cache:  c,
		ttl:    ttl,
		logger: logger.OrNop(log),
	}
}

// CacheKey returns the cache key of a vendor's pairing.
// Format: "pairing:{platform}:{vendorCode}"
func CacheKey(platform domain.Platform, vendorCode string) string {
	return fmt.Sprintf("pairing:%s:%s", platform, vendorCode)
}

// ResolvePairing returns the cached pairing when present, otherwise resolves and stores it
func (l *CachedLookup) ResolvePairing(ctx context.Context, platform domain.Platform, vendorCode string) (*domain.VendorPairing, error) {
	key := CacheKey(platform, vendorCode)

	if value, err := l.cache.Get(ctx, key); err == nil {
		var pairing domain.VendorPairing
		if err := cache.DecodeValue(value, &pairing); err == nil {
			metrics.CacheLookups.WithLabelValues("pairing", "hit").Inc()
			return &pairing, nil
		}
		l.logger.Warn("discarding undecodable pairing cache entry", zap.String("key", key))
	}
	metrics.CacheLookups.WithLabelValues("pairing", "miss").Inc()

	pairing, err := l.next.ResolvePairing(ctx, platform, vendorCode)
	if err != nil {
		return nil, err
	}

	if err := l.cache.Set(ctx, key, pairing, l.ttl); err != nil {
		// Caching is an optimization; the lookup already succeeded
		l.logger.Warn("failed to cache pairing", zap.String("key", key), zap.Error(err))
	}
	return pairing, nil
}

// Invalidate drops a vendor's cached pairing
func (l *CachedLookup) Invalidate(ctx context.Context, platform domain.Platform, vendorCode string) error {
	return l.cache.Delete(ctx, CacheKey(platform, vendorCode))
}
