package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/menucompare/backend/internal/domain"
	"github.com/menucompare/backend/internal/logger"
	"github.com/menucompare/backend/internal/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var vendorCodeRegex = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

// ComparisonService runs the full comparison pipeline for a vendor pair.
// Each call owns all of its intermediate state, so concurrent calls do not interfere.
type ComparisonService struct {
	pairings domain.PairingLookup
	catalogs domain.CatalogFetcher
	logger   *zap.Logger
}

// NewComparisonService creates a new comparison service with dependencies
func NewComparisonService(
	pairings domain.PairingLookup,
	catalogs domain.CatalogFetcher,
	log *zap.Logger,
) *ComparisonService {
	return &ComparisonService{
		pairings: pairings,
		catalogs: catalogs,
		logger:   logger.OrNop(log),
	}
}

// Compare reconciles two raw catalogs. mappings must be oriented from base item ids to
// counterpart item ids. A structurally invalid catalog on either side fails the whole call.
func (s *ComparisonService) Compare(
	baseRaw, counterpartRaw []byte,
	basePlatform domain.Platform,
	mappings domain.ItemMappings,
) (*domain.ComparisonOutcome, error) {
	if !basePlatform.Valid() {
		return nil, fmt.Errorf("%w: unknown platform %q", domain.ErrInvalidRequest, basePlatform)
	}

	base, err := NormalizeCatalog(basePlatform, baseRaw)
	if err != nil {
		return nil, &domain.PlatformError{Platform: basePlatform, Op: "normalize catalog", Err: err}
	}
	counterpartPlatform := basePlatform.Counterpart()
	counterpart, err := NormalizeCatalog(counterpartPlatform, counterpartRaw)
	if err != nil {
		return nil, &domain.PlatformError{Platform: counterpartPlatform, Op: "normalize catalog", Err: err}
	}

	return s.aggregate(basePlatform, base, counterpart, mappings), nil
}

// CompareVendor resolves the vendor's pairing, fetches both platform catalogs concurrently
// and compares them. Failure of either fetch fails the request; no one-sided result is built.
// Flow: resolve pairing -> fetch both catalogs -> normalize -> aggregate
func (s *ComparisonService) CompareVendor(
	ctx context.Context,
	platform domain.Platform,
	vendorCode string,
) (*domain.VendorComparison, error) {
	if !platform.Valid() || !vendorCodeRegex.MatchString(vendorCode) {
		s.record(platform, domain.ErrInvalidRequest)
		return nil, fmt.Errorf("%w: platform %q vendor %q", domain.ErrInvalidRequest, platform, vendorCode)
	}

	log := s.logger.With(zap.String("platform", platform.String()), zap.String("vendor", vendorCode))

	pairing, err := s.pairings.ResolvePairing(ctx, platform, vendorCode)
	if err != nil {
		log.Info("vendor pairing unavailable", zap.Error(err))
		s.record(platform, err)
		return nil, err
	}

	counterpartPlatform := platform.Counterpart()
	baseCode := pairing.CodeFor(platform)
	counterpartCode := pairing.CodeFor(counterpartPlatform)
	if baseCode == "" || counterpartCode == "" {
		err := fmt.Errorf("%w: pairing for %s has no vendor codes", domain.ErrPairingMalformed, vendorCode)
		s.record(platform, err)
		return nil, err
	}

	var base, counterpart *NormalizedCatalog
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		base, err = s.fetchCatalog(gctx, platform, baseCode)
		return err
	})
	g.Go(func() error {
		var err error
		counterpart, err = s.fetchCatalog(gctx, counterpartPlatform, counterpartCode)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Warn("catalog fetch failed", zap.Error(err))
		if errors.Is(err, domain.ErrCatalogNotFound) {
			// a vanished catalog usually means the pairing itself is stale
			s.invalidatePairing(ctx, platform, vendorCode)
		}
		s.record(platform, err)
		return nil, err
	}

	log.Debug("catalogs fetched",
		zap.Int("base_products", len(base.Products)),
		zap.Int("counterpart_products", len(counterpart.Products)),
		zap.Int("item_mappings", len(pairing.ItemMappings)),
	)

	outcome := s.aggregate(platform, base, counterpart, pairing.MappingsFrom(platform))
	s.record(platform, nil)

	log.Info("comparison complete",
		zap.String("vendor_name", pairing.NameFor(platform)),
		zap.Int("mappings_found", outcome.Stats.MappingsFound),
		zap.Int("valid_comparisons", outcome.Stats.ValidComparisons),
	)

	return &domain.VendorComparison{
		ComparisonOutcome: *outcome,
		BasePlatform:      platform,
		Vendor:            pairing.VendorInfo,
	}, nil
}

func (s *ComparisonService) invalidatePairing(ctx context.Context, platform domain.Platform, vendorCode string) {
	invalidator, ok := s.pairings.(domain.PairingInvalidator)
	if !ok {
		return
	}
	if err := invalidator.Invalidate(ctx, platform, vendorCode); err != nil {
		s.logger.Warn("failed to invalidate cached pairing",
			zap.String("platform", platform.String()),
			zap.String("vendor", vendorCode),
			zap.Error(err),
		)
	}
}

func (s *ComparisonService) fetchCatalog(
	ctx context.Context,
	platform domain.Platform,
	vendorCode string,
) (*NormalizedCatalog, error) {
	start := time.Now()
	raw, err := s.catalogs.FetchCatalog(ctx, platform, vendorCode)
	metrics.CatalogFetchDuration.WithLabelValues(platform.String()).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, &domain.PlatformError{Platform: platform, Op: "fetch catalog", Err: err}
	}

	catalog, err := NormalizeCatalog(platform, raw)
	if err != nil {
		return nil, &domain.PlatformError{
			Platform: platform,
			Op:       "normalize catalog",
			Err:      fmt.Errorf("%w: %w", domain.ErrUpstreamCatalog, err),
		}
	}
	if catalog.Skipped > 0 {
		s.logger.Debug("dropped malformed catalog entries",
			zap.String("platform", platform.String()),
			zap.String("vendor", vendorCode),
			zap.Int("skipped", catalog.Skipped),
		)
	}
	if len(catalog.Products) == 0 {
		s.logger.Warn("catalog parsed but contained no products",
			zap.String("platform", platform.String()),
			zap.String("vendor", vendorCode),
		)
	}
	return catalog, nil
}

func (s *ComparisonService) aggregate(
	basePlatform domain.Platform,
	base, counterpart *NormalizedCatalog,
	mappings domain.ItemMappings,
) *domain.ComparisonOutcome {
	set, stats := AggregateComparisons(base.Products, counterpart.Products, mappings)

	metrics.ComparisonItems.WithLabelValues("mapped").Add(float64(stats.MappingsFound))
	metrics.ComparisonItems.WithLabelValues("compared").Add(float64(stats.ValidComparisons))
	metrics.ComparisonItems.WithLabelValues("missing_counterpart").Add(float64(stats.MissingCounterpart))
	metrics.ComparisonItems.WithLabelValues("not_comparable").Add(float64(stats.NotComparable))
	metrics.ComparisonItems.WithLabelValues("skipped").Add(float64(base.Skipped + counterpart.Skipped))

	if stats.Dropped() > 0 {
		s.logger.Debug("mapped items dropped from comparison",
			zap.String("platform", basePlatform.String()),
			zap.Int("missing_counterpart", stats.MissingCounterpart),
			zap.Int("not_comparable", stats.NotComparable),
		)
	}

	return &domain.ComparisonOutcome{
		Comparisons: set,
		Stats:       stats.ComparisonStats,
	}
}

func (s *ComparisonService) record(platform domain.Platform, err error) {
	label := platform.String()
	if !platform.Valid() {
		label = "unknown"
	}
	metrics.ComparisonsTotal.WithLabelValues(label, outcomeLabel(err)).Inc()
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case domain.IsNotSupported(err):
		return metrics.OutcomeNotSupported
	case domain.IsUnreachable(err):
		return metrics.OutcomeUnreachable
	case errors.Is(err, domain.ErrUpstreamCatalog):
		return metrics.OutcomeError
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrInvalidCatalog):
		return metrics.OutcomeInvalid
	}
	return metrics.OutcomeError
}
