package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeID(t *testing.T) {
	tests := []struct {
		name   string
		input  interface{}
		want   string
		wantOK bool
	}{
		{"int", 42, "42", true},
		{"int64", int64(42), "42", true},
		{"uint", uint(7), "7", true},
		{"integral float", 42.0, "42", true},
		{"numeric string", "42", "42", true},
		{"leading zeros", "0042", "42", true},
		{"padded string", "  42 ", "42", true},
		{"float string", "42.0", "42", true},
		{"json number", json.Number("42"), "42", true},
		{"opaque string", "abc-1", "abc-1", true},
		{"fractional float", 42.5, "", false},
		{"NaN", math.NaN(), "", false},
		{"infinity", math.Inf(1), "", false},
		{"too large for exact float", float64(1 << 60), "", false},
		{"blank string", "   ", "", false},
		{"nil", nil, "", false},
		{"unsupported type", []int{1}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeID(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("NormalizeID(%v) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestNormalizeID_NumberAndStringAgree(t *testing.T) {
	fromNumber, _ := NormalizeID(123456)
	fromString, _ := NormalizeID("123456")
	assert.Equal(t, fromNumber, fromString)
}

func TestItemMappings_UnmarshalJSON(t *testing.T) {
	var mappings ItemMappings
	err := json.Unmarshal([]byte(`{"1": 100, "02": "200", "3": 300.0, "bad": 1.5, " ": 4, "x": null}`), &mappings)
	require.NoError(t, err)

	assert.Equal(t, ItemMappings{"1": "100", "2": "200", "3": "300"}, mappings)
}

func TestNewItemMappings_CollidingKeys(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"canonical key wins", `{"1": "5", "01": "6", " 1 ": "7"}`, "5"},
		{"smallest raw key without canonical", `{"01": "6", " 1 ": "7", "001": "8"}`, "7"},
		{"invalid canonical value falls back", `{"1": 1.5, "01": "6"}`, "6"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 50; i++ {
				var mappings ItemMappings
				require.NoError(t, json.Unmarshal([]byte(tt.raw), &mappings))
				if got := mappings["1"]; got != tt.want {
					t.Fatalf("run %d: mappings[\"1\"] = %q, want %q", i, got, tt.want)
				}
			}
		})
	}
}

func TestItemMappings_Resolve(t *testing.T) {
	mappings := ItemMappings{"1": "100"}

	got, ok := mappings.Resolve("001")
	assert.True(t, ok)
	assert.Equal(t, "100", got)

	_, ok = mappings.Resolve("2")
	assert.False(t, ok)

	_, ok = mappings.Resolve("")
	assert.False(t, ok)

	var empty ItemMappings
	_, ok = empty.Resolve("1")
	assert.False(t, ok)
}

func TestItemMappings_Invert(t *testing.T) {
	t.Run("reverses direction", func(t *testing.T) {
		inverted := ItemMappings{"1": "100", "2": "200"}.Invert()
		assert.Equal(t, ItemMappings{"100": "1", "200": "2"}, inverted)
	})

	t.Run("smallest source wins on collision", func(t *testing.T) {
		for i := 0; i < 20; i++ {
			inverted := ItemMappings{"30": "100", "4": "100", "12": "100"}.Invert()
			assert.Equal(t, "4", inverted["100"])
		}
	})

	t.Run("nil mappings", func(t *testing.T) {
		var mappings ItemMappings
		assert.Empty(t, mappings.Invert())
	})
}

func TestVendorPairing_MappingsFrom(t *testing.T) {
	pairing := &VendorPairing{
		VendorInfo:   VendorInfo{SfCode: "abc", TfCode: "xyz"},
		ItemMappings: ItemMappings{"1": "100"},
	}

	assert.Equal(t, ItemMappings{"1": "100"}, pairing.MappingsFrom(PlatformSnappfood))
	assert.Equal(t, ItemMappings{"100": "1"}, pairing.MappingsFrom(PlatformTapsifood))
	assert.Equal(t, "xyz", pairing.CodeFor(PlatformTapsifood))
	assert.Equal(t, "abc", pairing.CodeFor(PlatformSnappfood))
}
