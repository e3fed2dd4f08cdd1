package pairing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/menucompare/backend/internal/domain"
	"github.com/menucompare/backend/internal/logger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	vendorListLimit = 1000
	userAgent       = "MenuCompare/1.0"
)

// maxResponseSize caps registry response bodies. The full vendor list is the largest.
var maxResponseSize int64 = 10 << 20

// Client talks to the vendor pairing registry service
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
	logger      *zap.Logger
}

// NewClient creates a new pairing registry client
func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:     baseURL,
		rateLimiter: rate.NewLimiter(rate.Limit(20), 40),
		logger:      logger.OrNop(log),
	}
}

// ResolvePairing looks up the counterpart of a vendor together with its item mappings
func (c *Client) ResolvePairing(ctx context.Context, platform domain.Platform, vendorCode string) (*domain.VendorPairing, error) {
	endpoint := fmt.Sprintf("%s/extension/vendor-data/%s/%s", c.baseURL, url.PathEscape(platform.String()), url.PathEscape(vendorCode))

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	pairing, err := MapVendorData(body)
	if err != nil {
		c.logger.Warn("malformed pairing response",
			zap.String("platform", platform.String()),
			zap.String("vendor", vendorCode),
			zap.Error(err),
		)
		return nil, err
	}
	return pairing, nil
}

// ListVendors returns every registered vendor pairing
func (c *Client) ListVendors(ctx context.Context) ([]domain.VendorSummary, error) {
	endpoint := fmt.Sprintf("%s/vendors?limit=%d", c.baseURL, vendorListLimit)

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	return MapVendorList(body)
}

// Stats returns registry statistics
func (c *Client) Stats(ctx context.Context) (*domain.PairingStats, error) {
	body, err := c.get(ctx, c.baseURL+"/stats")
	if err != nil {
		return nil, err
	}
	return MapStats(body)
}

// Ping checks that the registry is reachable
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.get(ctx, c.baseURL+"/health")
	return err
}

// get executes a GET request. 404 maps to ErrVendorNotFound and every transport or
// server failure to ErrPairingUnavailable.
func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrPairingUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("pairing service request failed", zap.String("url", reqURL), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrPairingUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrPairingUnavailable, err)
	}
	if int64(len(body)) > maxResponseSize {
		return nil, fmt.Errorf("%w: response exceeds %d bytes", domain.ErrPairingUnavailable, maxResponseSize)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.ErrVendorNotFound
	default:
		c.logger.Warn("pairing service error", zap.String("url", reqURL), zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: status %d", domain.ErrPairingUnavailable, resp.StatusCode)
	}
}

// decodeJSON decodes with numbers preserved so numeric codes keep their exact form
func decodeJSON(body []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	return dec.Decode(v)
}
