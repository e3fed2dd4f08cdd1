package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/menucompare/backend/internal/domain"
	"github.com/menucompare/backend/internal/infrastructure/cache"
	"github.com/menucompare/backend/internal/logger"
	"github.com/menucompare/backend/internal/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	vendorListCacheKey  = "vendors:list"
	vendorStatsCacheKey = "vendors:stats"
)

// VendorServiceConfig holds configuration for the vendor service
type VendorServiceConfig struct {
	ListTTL time.Duration
}

// VendorService serves the registered vendor directory and per-vendor pairing metadata
type VendorService struct {
	directory domain.VendorDirectory
	pairings  domain.PairingLookup
	cache     domain.CacheRepository
	listTTL   time.Duration
	logger    *zap.Logger
}

// VendorDetails is the pairing metadata of one vendor as seen from a base platform
type VendorDetails struct {
	Platform            domain.Platform   `json:"platform"`
	VendorCode          string            `json:"vendorCode"`
	Vendor              domain.VendorInfo `json:"vendorInfo"`
	ItemCount           int               `json:"itemCount"`
	CounterpartPlatform domain.Platform   `json:"counterpartPlatform"`
	CounterpartCode     string            `json:"counterpartVendorCode"`
	CounterpartURL      string            `json:"counterpartUrl"`
}

// NewVendorService creates a new vendor service with dependencies
func NewVendorService(
	directory domain.VendorDirectory,
	pairings domain.PairingLookup,
	cache domain.CacheRepository,
	config VendorServiceConfig,
	log *zap.Logger,
) *VendorService {
	listTTL := config.ListTTL
	if listTTL == 0 {
		listTTL = 10 * time.Minute
	}

	return &VendorService{
		directory: directory,
		pairings:  pairings,
		cache:     cache,
		listTTL:   listTTL,
		logger:    logger.OrNop(log),
	}
}

// ListVendors returns the registered vendor pairings, memoized for the list TTL
func (s *VendorService) ListVendors(ctx context.Context) ([]domain.VendorSummary, error) {
	var vendors []domain.VendorSummary
	if s.fromCache(ctx, vendorListCacheKey, &vendors) {
		return vendors, nil
	}

	vendors, err := s.directory.ListVendors(ctx)
	if err != nil {
		return nil, err
	}
	s.toCache(ctx, vendorListCacheKey, vendors)
	return vendors, nil
}

// Stats returns the registry statistics, memoized for the list TTL
func (s *VendorService) Stats(ctx context.Context) (*domain.PairingStats, error) {
	var stats domain.PairingStats
	if s.fromCache(ctx, vendorStatsCacheKey, &stats) {
		return &stats, nil
	}

	fetched, err := s.directory.Stats(ctx)
	if err != nil {
		return nil, err
	}
	s.toCache(ctx, vendorStatsCacheKey, fetched)
	return fetched, nil
}

// Overview fetches the vendor list and stats concurrently. It only fails when both
// lookups fail; a single failure is reported in the overview alongside the other half.
func (s *VendorService) Overview(ctx context.Context) (*domain.VendorOverview, error) {
	var (
		vendors          []domain.VendorSummary
		stats            *domain.PairingStats
		listErr, statErr error
	)

	var g errgroup.Group
	g.Go(func() error {
		vendors, listErr = s.ListVendors(ctx)
		return nil
	})
	g.Go(func() error {
		stats, statErr = s.Stats(ctx)
		return nil
	})
	_ = g.Wait()

	if listErr != nil && statErr != nil {
		s.logger.Warn("vendor directory unavailable", zap.NamedError("vendors_error", listErr), zap.NamedError("stats_error", statErr))
		return nil, fmt.Errorf("vendor directory: %w", listErr)
	}

	overview := &domain.VendorOverview{Vendors: vendors}
	if overview.Vendors == nil {
		overview.Vendors = []domain.VendorSummary{}
	}
	if stats != nil {
		overview.Stats = *stats
	}
	if listErr != nil {
		overview.VendorsError = listErr.Error()
	}
	if statErr != nil {
		overview.StatsError = statErr.Error()
	}
	return overview, nil
}

// IsPaired reports whether the vendor code has a registered counterpart
func (s *VendorService) IsPaired(ctx context.Context, platform domain.Platform, vendorCode string) (bool, error) {
	vendors, err := s.ListVendors(ctx)
	if err != nil {
		return false, err
	}
	for _, v := range vendors {
		if (platform == domain.PlatformSnappfood && v.SfCode == vendorCode) ||
			(platform == domain.PlatformTapsifood && v.TfCode == vendorCode) {
			return true, nil
		}
	}
	return false, nil
}

// Details resolves the pairing for a vendor and describes its counterpart
func (s *VendorService) Details(ctx context.Context, platform domain.Platform, vendorCode string) (*VendorDetails, error) {
	if !platform.Valid() || !vendorCodeRegex.MatchString(vendorCode) {
		return nil, fmt.Errorf("%w: platform %q vendor %q", domain.ErrInvalidRequest, platform, vendorCode)
	}

	pairing, err := s.pairings.ResolvePairing(ctx, platform, vendorCode)
	if err != nil {
		return nil, err
	}

	counterpart := platform.Counterpart()
	counterpartCode := pairing.CodeFor(counterpart)
	return &VendorDetails{
		Platform:            platform,
		VendorCode:          vendorCode,
		Vendor:              pairing.VendorInfo,
		ItemCount:           len(pairing.ItemMappings),
		CounterpartPlatform: counterpart,
		CounterpartCode:     counterpartCode,
		CounterpartURL:      VendorPageURL(counterpart, counterpartCode),
	}, nil
}

// fromCache decodes a cached value into out. Cache backends hand back either the
// JSON-decoded generic form (memory) or the raw JSON string (redis).
func (s *VendorService) fromCache(ctx context.Context, key string, out interface{}) bool {
	if s.cache == nil {
		return false
	}
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		metrics.CacheLookups.WithLabelValues("vendors", "miss").Inc()
		return false
	}
	if err := cache.DecodeValue(value, out); err != nil {
		s.logger.Warn("discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		metrics.CacheLookups.WithLabelValues("vendors", "miss").Inc()
		return false
	}
	metrics.CacheLookups.WithLabelValues("vendors", "hit").Inc()
	return true
}

func (s *VendorService) toCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.listTTL); err != nil {
		s.logger.Warn("failed to cache vendor directory", zap.String("key", key), zap.Error(err))
	}
}
