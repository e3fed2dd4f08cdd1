package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/menucompare/backend/internal/domain"
	"github.com/menucompare/backend/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockVendorDirectory is a mock implementation of domain.VendorDirectory
type MockVendorDirectory struct {
	mu         sync.Mutex
	vendors    []domain.VendorSummary
	stats      *domain.PairingStats
	listErr    error
	statsErr   error
	listCalls  int
	statsCalls int
}

func (m *MockVendorDirectory) ListVendors(ctx context.Context) ([]domain.VendorSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.vendors, nil
}

func (m *MockVendorDirectory) Stats(ctx context.Context) (*domain.PairingStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statsCalls++
	if m.statsErr != nil {
		return nil, m.statsErr
	}
	return m.stats, nil
}

// failingCache behaves like an unreachable cache backend
type failingCache struct{}

func (failingCache) Get(ctx context.Context, key string) (interface{}, error) {
	return nil, domain.ErrCacheUnavailable
}

func (failingCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return domain.ErrCacheUnavailable
}

func (failingCache) Delete(ctx context.Context, key string) error { return nil }

func (failingCache) Exists(ctx context.Context, key string) (bool, error) { return false, nil }

func newTestDirectory() *MockVendorDirectory {
	return &MockVendorDirectory{
		vendors: []domain.VendorSummary{
			{SfCode: "abc123", TfCode: "xyz789", SfName: "Pizza SF", TfName: "Pizza TF", ItemCount: 3},
			{SfCode: "def456", TfCode: "uvw000", SfName: "Burger SF", TfName: "Burger TF"},
		},
		stats: &domain.PairingStats{TotalVendors: 2, TotalItems: 3, UniqueSfVendors: 2, UniqueTfVendors: 2},
	}
}

func newTestVendorService(t *testing.T, directory *MockVendorDirectory, c domain.CacheRepository) *VendorService {
	t.Helper()
	pairings := &MockPairingLookup{pairing: testVendorPairing()}
	return NewVendorService(directory, pairings, c, VendorServiceConfig{}, nil)
}

func TestNewVendorService(t *testing.T) {
	t.Run("creates service with default values", func(t *testing.T) {
		svc := NewVendorService(newTestDirectory(), nil, nil, VendorServiceConfig{}, nil)
		if svc.listTTL != 10*time.Minute {
			t.Errorf("listTTL = %v, want 10m", svc.listTTL)
		}
	})

	t.Run("creates service with custom values", func(t *testing.T) {
		svc := NewVendorService(newTestDirectory(), nil, nil, VendorServiceConfig{ListTTL: time.Minute}, nil)
		if svc.listTTL != time.Minute {
			t.Errorf("listTTL = %v, want 1m", svc.listTTL)
		}
	})
}

func TestListVendors_Memoized(t *testing.T) {
	directory := newTestDirectory()
	memory := cache.NewMemoryCache(0)
	defer memory.Close()
	svc := newTestVendorService(t, directory, memory)

	first, err := svc.ListVendors(context.Background())
	require.NoError(t, err)
	second, err := svc.ListVendors(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, directory.listCalls)
	assert.Equal(t, first, second)
	assert.Equal(t, 3, second[0].ItemCount)
}

func TestListVendors_ErrorsNotCached(t *testing.T) {
	directory := newTestDirectory()
	directory.listErr = domain.ErrPairingUnavailable
	memory := cache.NewMemoryCache(0)
	defer memory.Close()
	svc := newTestVendorService(t, directory, memory)

	_, err := svc.ListVendors(context.Background())
	assert.ErrorIs(t, err, domain.ErrPairingUnavailable)

	directory.listErr = nil
	vendors, err := svc.ListVendors(context.Background())
	require.NoError(t, err)
	assert.Len(t, vendors, 2)
	assert.Equal(t, 2, directory.listCalls)
}

func TestListVendors_CacheDown(t *testing.T) {
	directory := newTestDirectory()
	svc := newTestVendorService(t, directory, failingCache{})

	vendors, err := svc.ListVendors(context.Background())
	require.NoError(t, err)
	assert.Len(t, vendors, 2)
}

func TestStats_Memoized(t *testing.T) {
	directory := newTestDirectory()
	memory := cache.NewMemoryCache(0)
	defer memory.Close()
	svc := newTestVendorService(t, directory, memory)

	_, err := svc.Stats(context.Background())
	require.NoError(t, err)
	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, directory.statsCalls)
	assert.Equal(t, 2, stats.TotalVendors)
	assert.Equal(t, 3, stats.TotalItems)
}

func TestOverview(t *testing.T) {
	t.Run("combines list and stats", func(t *testing.T) {
		svc := newTestVendorService(t, newTestDirectory(), nil)

		overview, err := svc.Overview(context.Background())
		require.NoError(t, err)
		assert.Len(t, overview.Vendors, 2)
		assert.Equal(t, 2, overview.Stats.TotalVendors)
		assert.Empty(t, overview.VendorsError)
		assert.Empty(t, overview.StatsError)
	})

	t.Run("stats failure is reported alongside vendors", func(t *testing.T) {
		directory := newTestDirectory()
		directory.statsErr = errors.New("stats exploded")
		svc := newTestVendorService(t, directory, nil)

		overview, err := svc.Overview(context.Background())
		require.NoError(t, err)
		assert.Len(t, overview.Vendors, 2)
		assert.Zero(t, overview.Stats.TotalVendors)
		assert.Contains(t, overview.StatsError, "stats exploded")
	})

	t.Run("list failure yields empty vendors", func(t *testing.T) {
		directory := newTestDirectory()
		directory.listErr = domain.ErrPairingUnavailable
		svc := newTestVendorService(t, directory, nil)

		overview, err := svc.Overview(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, overview.Vendors)
		assert.Empty(t, overview.Vendors)
		assert.NotEmpty(t, overview.VendorsError)
		assert.Equal(t, 2, overview.Stats.TotalVendors)
	})

	t.Run("both failures fail the call", func(t *testing.T) {
		directory := newTestDirectory()
		directory.listErr = domain.ErrPairingUnavailable
		directory.statsErr = domain.ErrPairingUnavailable
		svc := newTestVendorService(t, directory, nil)

		_, err := svc.Overview(context.Background())
		assert.ErrorIs(t, err, domain.ErrPairingUnavailable)
	})
}

func TestIsPaired(t *testing.T) {
	svc := newTestVendorService(t, newTestDirectory(), nil)
	ctx := context.Background()

	tests := []struct {
		platform domain.Platform
		code     string
		want     bool
	}{
		{domain.PlatformSnappfood, "abc123", true},
		{domain.PlatformTapsifood, "uvw000", true},
		{domain.PlatformSnappfood, "xyz789", false},
		{domain.PlatformTapsifood, "missing", false},
	}

	for _, tt := range tests {
		got, err := svc.IsPaired(ctx, tt.platform, tt.code)
		require.NoError(t, err)
		if got != tt.want {
			t.Errorf("IsPaired(%s, %s) = %v, want %v", tt.platform, tt.code, got, tt.want)
		}
	}
}

func TestDetails(t *testing.T) {
	svc := newTestVendorService(t, newTestDirectory(), nil)

	t.Run("describes counterpart from snappfood", func(t *testing.T) {
		details, err := svc.Details(context.Background(), domain.PlatformSnappfood, "abc123")
		require.NoError(t, err)
		assert.Equal(t, domain.PlatformTapsifood, details.CounterpartPlatform)
		assert.Equal(t, "xyz789", details.CounterpartCode)
		assert.Equal(t, "https://tapsi.food/vendor/xyz789", details.CounterpartURL)
		assert.Equal(t, 3, details.ItemCount)
	})

	t.Run("describes counterpart from tapsifood", func(t *testing.T) {
		details, err := svc.Details(context.Background(), domain.PlatformTapsifood, "xyz789")
		require.NoError(t, err)
		assert.Equal(t, "abc123", details.CounterpartCode)
		assert.Equal(t, "https://snappfood.ir/restaurant/menu/r-abc123", details.CounterpartURL)
	})

	t.Run("rejects invalid vendor code", func(t *testing.T) {
		_, err := svc.Details(context.Background(), domain.PlatformSnappfood, "abc 123")
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	})

	t.Run("propagates unsupported vendor", func(t *testing.T) {
		unpaired := NewVendorService(newTestDirectory(), &MockPairingLookup{err: domain.ErrVendorNotFound}, nil, VendorServiceConfig{}, nil)
		_, err := unpaired.Details(context.Background(), domain.PlatformSnappfood, "nope")
		assert.True(t, domain.IsNotSupported(err))
	})
}
