package platform

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/menucompare/backend/internal/domain"
	"github.com/menucompare/backend/internal/logger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	maxAttempts     = 3
	maxResponseSize = 10 << 20
	userAgent       = "MenuCompare/1.0"
)

// Endpoint describes where and from which location a platform's menu is requested
type Endpoint struct {
	BaseURL   string
	Latitude  float64
	Longitude float64
}

// Config holds the catalog client configuration
type Config struct {
	Snappfood         Endpoint
	Tapsifood         Endpoint
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// Client fetches raw vendor menus from both delivery platforms
type Client struct {
	httpClient  *http.Client
	endpoints   map[domain.Platform]Endpoint
	rateLimiter *rate.Limiter
	backoff     func(attempt int) time.Duration
	logger      *zap.Logger
}

// NewClient creates a new platform catalog client
func NewClient(cfg Config, log *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 10
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		endpoints: map[domain.Platform]Endpoint{
			domain.PlatformSnappfood: cfg.Snappfood,
			domain.PlatformTapsifood: cfg.Tapsifood,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(rps), burst),
		backoff:     exponentialBackoff,
		logger:      logger.OrNop(log),
	}
}

// exponentialBackoff returns 500ms, 1s, 2s, ... for attempts 1, 2, 3, ...
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// FetchCatalog downloads the raw menu payload of a vendor. The payload is returned
// unparsed; its shape is checked by the catalog normalizer.
func (c *Client) FetchCatalog(ctx context.Context, platform domain.Platform, vendorCode string) ([]byte, error) {
	reqURL, err := c.catalogURL(platform, vendorCode)
	if err != nil {
		return nil, err
	}

	log := c.logger.With(zap.String("platform", platform.String()), zap.String("vendor", vendorCode))

	// Retry up to 3 times for transient failures
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			if err := sleepCtx(ctx, c.backoff(attempt-1)); err != nil {
				return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnreachable, err)
			}
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrCatalogUnreachable, err)
		}

		body, status, err := c.doRequest(ctx, reqURL)
		if err != nil {
			log.Warn("catalog request failed", zap.Int("attempt", attempt), zap.Error(err))
			lastErr = fmt.Errorf("%w: %v", domain.ErrCatalogUnreachable, err)
			continue
		}

		switch {
		case status == http.StatusOK:
			log.Debug("catalog fetched", zap.Int("bytes", len(body)))
			return body, nil
		case status == http.StatusNotFound:
			return nil, fmt.Errorf("%w: %s vendor %s", domain.ErrCatalogNotFound, platform, vendorCode)
		case status >= 500 || status == http.StatusTooManyRequests:
			log.Warn("catalog API error", zap.Int("attempt", attempt), zap.Int("status", status))
			lastErr = fmt.Errorf("%w: status %d", domain.ErrCatalogUnreachable, status)
			continue
		default:
			return nil, fmt.Errorf("%w: status %d", domain.ErrCatalogUnreachable, status)
		}
	}

	log.Error("all catalog retries failed", zap.Error(lastErr))
	return nil, lastErr
}

func (c *Client) catalogURL(platform domain.Platform, vendorCode string) (string, error) {
	ep, ok := c.endpoints[platform]
	if !ok || ep.BaseURL == "" {
		return "", fmt.Errorf("%w: no catalog endpoint for platform %q", domain.ErrInvalidRequest, platform)
	}

	params := url.Values{}
	switch platform {
	case domain.PlatformSnappfood:
		params.Set("lat", formatCoord(ep.Latitude))
		params.Set("long", formatCoord(ep.Longitude))
		params.Set("vendorCode", vendorCode)
		params.Set("optionalClient", "WEBSITE")
		params.Set("client", "WEBSITE")
		params.Set("deviceType", "WEBSITE")
		params.Set("appVersion", "8.1.1")
		return fmt.Sprintf("%s/mobile/v2/restaurant/details/dynamic?%s", ep.BaseURL, params.Encode()), nil
	case domain.PlatformTapsifood:
		params.Set("latitude", formatCoord(ep.Latitude))
		params.Set("longitude", formatCoord(ep.Longitude))
		return fmt.Sprintf("%s/v1/api/Vendor/%s/vendor?%s", ep.BaseURL, url.PathEscape(vendorCode), params.Encode()), nil
	}
	return "", fmt.Errorf("%w: unknown platform %q", domain.ErrInvalidRequest, platform)
}

// doRequest executes an HTTP GET request and returns the body and status code
func (c *Client) doRequest(ctx context.Context, reqURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}
	return body, resp.StatusCode, nil
}

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
