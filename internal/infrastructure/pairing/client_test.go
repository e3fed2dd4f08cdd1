package pairing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/menucompare/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vendorDataJSON = `{
	"vendor_info": {"sf_code": "0lk9x2", "tf_code": "p8q7r6", "sf_name": "Pizza Paris", "tf_name": "Pizza Paris Tapsi"},
	"item_mappings": {"101": 9001, "102": "9002"},
	"item_count": 2
}`

func TestResolvePairing_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/extension/vendor-data/snappfood/0lk9x2", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(vendorDataJSON))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, nil)
	pairing, err := client.ResolvePairing(context.Background(), domain.PlatformSnappfood, "0lk9x2")

	require.NoError(t, err)
	assert.Equal(t, "0lk9x2", pairing.SfCode)
	assert.Equal(t, "p8q7r6", pairing.TfCode)
	assert.Equal(t, "Pizza Paris", pairing.SfName)
	assert.Equal(t, domain.ItemMappings{"101": "9001", "102": "9002"}, pairing.ItemMappings)
}

func TestResolvePairing_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Vendor not found"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, nil)
	_, err := client.ResolvePairing(context.Background(), domain.PlatformTapsifood, "nope")

	assert.ErrorIs(t, err, domain.ErrVendorNotFound)
}

func TestResolvePairing_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, nil)
	_, err := client.ResolvePairing(context.Background(), domain.PlatformSnappfood, "abc")

	assert.ErrorIs(t, err, domain.ErrPairingUnavailable)
}

func TestResolvePairing_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client := NewClient(baseURL, time.Second, nil)
	_, err := client.ResolvePairing(context.Background(), domain.PlatformSnappfood, "abc")

	assert.ErrorIs(t, err, domain.ErrPairingUnavailable)
}

func TestResolvePairing_Malformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"vendor_info": {"sf_code": "abc"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, nil)
	_, err := client.ResolvePairing(context.Background(), domain.PlatformSnappfood, "abc")

	assert.ErrorIs(t, err, domain.ErrPairingMalformed)
}

func TestListVendors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/vendors", r.URL.Path)
		assert.Equal(t, "1000", r.URL.Query().Get("limit"))
		w.Write([]byte(`[
			{"sf_code": "a1", "tf_code": "b1", "sf_name": "One", "tf_name": "One", "item_count": 12},
			{"sf_code": "a2", "tf_code": "", "sf_name": "Half"}
		]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, nil)
	vendors, err := client.ListVendors(context.Background())

	require.NoError(t, err)
	require.Len(t, vendors, 1)
	assert.Equal(t, domain.VendorSummary{SfCode: "a1", TfCode: "b1", SfName: "One", TfName: "One", ItemCount: 12}, vendors[0])
}

func TestStats(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stats", r.URL.Path)
		w.Write([]byte(`{"total_vendors": 40, "total_items": 1800, "unique_sf_vendors": 40, "unique_tf_vendors": 39}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, nil)
	stats, err := client.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, &domain.PairingStats{TotalVendors: 40, TotalItems: 1800, UniqueSfVendors: 40, UniqueTfVendors: 39}, stats)
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	assert.NoError(t, NewClient(server.URL, time.Second, nil).Ping(context.Background()))
}

func TestResolvePairing_OversizedResponse(t *testing.T) {
	previous := maxResponseSize
	maxResponseSize = 64
	defer func() { maxResponseSize = previous }()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(vendorDataJSON))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, nil)
	_, err := client.ResolvePairing(context.Background(), domain.PlatformSnappfood, "0lk9x2")

	assert.ErrorIs(t, err, domain.ErrPairingUnavailable)
}
