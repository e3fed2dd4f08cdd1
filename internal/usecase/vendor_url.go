package usecase

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/menucompare/backend/internal/domain"
)

// Vendor codes as they appear in platform page URLs
var (
	// https://snappfood.ir/restaurant/menu/<slug>-r-<code>/... or .../menu/r-<code>
	snappfoodVendorPattern = regexp.MustCompile(`[/-]r-([a-zA-Z0-9]+)(?:/|$)`)

	// https://tapsi.food/vendor/<code>/...
	tapsifoodVendorPattern = regexp.MustCompile(`^/vendor/([a-zA-Z0-9]+)(?:/|$)`)
)

const (
	snappfoodMenuURL = "https://snappfood.ir/restaurant/menu/r-%s"
	tapsifoodMenuURL = "https://tapsi.food/vendor/%s"
)

// ParseVendorURL extracts the platform and vendor code from a restaurant page URL
func ParseVendorURL(rawURL string) (domain.Platform, string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return "", "", fmt.Errorf("%w: not a vendor page url: %q", domain.ErrInvalidRequest, rawURL)
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")

	switch host {
	case "snappfood.ir":
		if strings.HasPrefix(u.Path, "/restaurant/") {
			if m := snappfoodVendorPattern.FindStringSubmatch(u.Path); m != nil {
				return domain.PlatformSnappfood, m[1], nil
			}
		}
	case "tapsi.food":
		if m := tapsifoodVendorPattern.FindStringSubmatch(u.Path); m != nil {
			return domain.PlatformTapsifood, m[1], nil
		}
	}
	return "", "", fmt.Errorf("%w: not a vendor page url: %q", domain.ErrInvalidRequest, rawURL)
}

// VendorPageURL builds the public menu page URL of a vendor
func VendorPageURL(platform domain.Platform, vendorCode string) string {
	if vendorCode == "" {
		return ""
	}
	if platform == domain.PlatformTapsifood {
		return fmt.Sprintf(tapsifoodMenuURL, vendorCode)
	}
	return fmt.Sprintf(snappfoodMenuURL, vendorCode)
}
