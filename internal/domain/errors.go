package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrInvalidCatalog is returned when a raw catalog does not have the expected shape
	ErrInvalidCatalog = errors.New("invalid catalog structure")

	// ErrUpstreamCatalog marks a catalog fetched from a platform that failed to parse.
	// It is always joined with ErrInvalidCatalog.
	ErrUpstreamCatalog = errors.New("platform returned a malformed catalog")

	// ErrCatalogNotFound is returned when a platform has no catalog for the vendor code
	ErrCatalogNotFound = errors.New("vendor catalog not found")

	// ErrCatalogUnreachable is returned when a platform catalog API cannot be reached
	ErrCatalogUnreachable = errors.New("vendor catalog unreachable")

	// ErrVendorNotFound is returned when a vendor has no registered counterpart
	ErrVendorNotFound = errors.New("vendor is not supported")

	// ErrPairingUnavailable is returned when the pairing service cannot be reached
	ErrPairingUnavailable = errors.New("vendor pairing service unavailable")

	// ErrPairingMalformed is returned when the pairing service response is missing fields
	ErrPairingMalformed = errors.New("malformed vendor pairing response")

	// ErrNotComparable is returned for an item pair that cannot be compared
	ErrNotComparable = errors.New("items are not comparable")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")
)

// PlatformError attributes a collaborator failure to one platform
type PlatformError struct {
	Platform Platform
	Op       string
	Err      error
}

func (e *PlatformError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Platform, e.Op, e.Err)
}

func (e *PlatformError) Unwrap() error {
	return e.Err
}

// IsNotSupported reports whether err means the vendor cannot be compared at all
func IsNotSupported(err error) bool {
	return errors.Is(err, ErrVendorNotFound) || errors.Is(err, ErrCatalogNotFound)
}

// IsUnreachable reports whether err is a connectivity failure worth retrying later
func IsUnreachable(err error) bool {
	return errors.Is(err, ErrPairingUnavailable) || errors.Is(err, ErrCatalogUnreachable)
}
