package domain

import (
	"fmt"
	"strings"
)

// Platform identifies one of the two food-delivery platforms being compared
type Platform string

const (
	PlatformSnappfood Platform = "snappfood"
	PlatformTapsifood Platform = "tapsifood"
)

// ParsePlatform accepts a platform name or its short code ("sf", "tf"), case-insensitively
func ParsePlatform(s string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "snappfood", "sf":
		return PlatformSnappfood, nil
	case "tapsifood", "tf":
		return PlatformTapsifood, nil
	}
	return "", fmt.Errorf("%w: unknown platform %q", ErrInvalidRequest, s)
}

// Counterpart returns the other platform
func (p Platform) Counterpart() Platform {
	if p == PlatformSnappfood {
		return PlatformTapsifood
	}
	return PlatformSnappfood
}

// Valid reports whether p is a known platform
func (p Platform) Valid() bool {
	return p == PlatformSnappfood || p == PlatformTapsifood
}

func (p Platform) String() string {
	return string(p)
}
