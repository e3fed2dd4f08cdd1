package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestParsePlatform(t *testing.T) {
	tests := []struct {
		input   string
		want    Platform
		wantErr bool
	}{
		{"snappfood", PlatformSnappfood, false},
		{"SF", PlatformSnappfood, false},
		{" Tapsifood ", PlatformTapsifood, false},
		{"tf", PlatformTapsifood, false},
		{"ubereats", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePlatform(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRequest) {
					t.Errorf("ParsePlatform(%q) error = %v, want ErrInvalidRequest", tt.input, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParsePlatform(%q) = (%s, %v), want %s", tt.input, got, err, tt.want)
			}
		})
	}
}

func TestPlatformCounterpart(t *testing.T) {
	if PlatformSnappfood.Counterpart() != PlatformTapsifood {
		t.Error("snappfood counterpart should be tapsifood")
	}
	if PlatformTapsifood.Counterpart() != PlatformSnappfood {
		t.Error("tapsifood counterpart should be snappfood")
	}
	if Platform("other").Valid() {
		t.Error("unknown platform should not be valid")
	}
}

func TestPlatformErrorClassification(t *testing.T) {
	notFound := &PlatformError{Platform: PlatformTapsifood, Op: "fetch catalog", Err: ErrCatalogNotFound}
	if !IsNotSupported(notFound) || IsUnreachable(notFound) {
		t.Errorf("catalog not found should classify as not supported: %v", notFound)
	}

	unreachable := fmt.Errorf("wrapped: %w", &PlatformError{Platform: PlatformSnappfood, Op: "fetch catalog", Err: ErrCatalogUnreachable})
	if !IsUnreachable(unreachable) || IsNotSupported(unreachable) {
		t.Errorf("catalog unreachable should classify as unreachable: %v", unreachable)
	}

	if got := notFound.Error(); got != "tapsifood fetch catalog: vendor catalog not found" {
		t.Errorf("Error() = %q", got)
	}
}
