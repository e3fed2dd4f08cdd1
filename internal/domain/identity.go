package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// maxExactID is the largest integer a float64 id can carry without losing precision
const maxExactID = 1 << 53

// NormalizeID converts an item id as delivered by either platform (JSON number, numeric
// string or opaque string) into one canonical string. Integral numeric ids are rendered
// in base 10 without leading zeros, so 42, 42.0, "42" and "042" all normalize to "42".
// It returns false when v carries no usable id.
func NormalizeID(v interface{}) (string, bool) {
	switch id := v.(type) {
	case nil:
		return "", false
	case string:
		return normalizeIDString(id)
	case json.Number:
		if n, err := id.Int64(); err == nil {
			return strconv.FormatInt(n, 10), true
		}
		f, err := id.Float64()
		if err != nil {
			return "", false
		}
		return normalizeIDFloat(f)
	case float64:
		return normalizeIDFloat(id)
	case float32:
		return normalizeIDFloat(float64(id))
	case int:
		return strconv.FormatInt(int64(id), 10), true
	case int32:
		return strconv.FormatInt(int64(id), 10), true
	case int64:
		return strconv.FormatInt(id, 10), true
	case uint:
		return strconv.FormatUint(uint64(id), 10), true
	case uint32:
		return strconv.FormatUint(uint64(id), 10), true
	case uint64:
		return strconv.FormatUint(id, 10), true
	}
	return "", false
}

func normalizeIDString(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return strconv.FormatInt(n, 10), true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if id, ok := normalizeIDFloat(f); ok {
			return id, true
		}
	}
	return s, true
}

func normalizeIDFloat(f float64) (string, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > maxExactID {
		return "", false
	}
	return strconv.FormatInt(int64(f), 10), true
}

// ItemMappings maps a normalized item id on one platform to the normalized id of the
// same item on the other platform. A missing entry means the item is unmapped.
type ItemMappings map[string]string

// NewItemMappings builds mappings from a loosely typed mapping table, normalizing keys
// and values. Entries whose key or value is not a usable id are skipped. When several raw
// keys normalize to the same id, a key already in canonical form wins, then the smallest
// raw key, so the result does not depend on map order.
func NewItemMappings(raw map[string]interface{}) ItemMappings {
	mappings := make(ItemMappings, len(raw))
	winners := make(map[string]string, len(raw))
	for k, v := range raw {
		from, ok := NormalizeID(k)
		if !ok {
			continue
		}
		to, ok := NormalizeID(v)
		if !ok {
			continue
		}
		if prev, seen := winners[from]; seen && !preferRawKey(k, prev, from) {
			continue
		}
		winners[from] = k
		mappings[from] = to
	}
	return mappings
}

// preferRawKey reports whether raw key a beats raw key b for the normalized id
func preferRawKey(a, b, normalized string) bool {
	if (a == normalized) != (b == normalized) {
		return a == normalized
	}
	return a < b
}

// UnmarshalJSON accepts an object whose keys and values are ids in any supported encoding
func (m *ItemMappings) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	*m = NewItemMappings(raw)
	return nil
}

// Resolve returns the counterpart id for a base item id. The base id is normalized
// before lookup; exact match only.
func (m ItemMappings) Resolve(baseID string) (string, bool) {
	key, ok := NormalizeID(baseID)
	if !ok {
		return "", false
	}
	counterpartID, ok := m[key]
	return counterpartID, ok
}

// Invert returns the mappings in the opposite direction. When several ids map to the
// same target, the smallest source id wins so the result does not depend on map order.
func (m ItemMappings) Invert() ItemMappings {
	inverted := make(ItemMappings, len(m))
	for from, to := range m {
		if existing, ok := inverted[to]; ok && !idLess(from, existing) {
			continue
		}
		inverted[to] = from
	}
	return inverted
}

// idLess orders numeric ids numerically and everything else lexically
func idLess(a, b string) bool {
	ai, aErr := strconv.ParseInt(a, 10, 64)
	bi, bErr := strconv.ParseInt(b, 10, 64)
	if aErr == nil && bErr == nil {
		return ai < bi
	}
	return a < b
}
