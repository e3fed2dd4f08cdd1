package usecase

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/menucompare/backend/internal/domain"
	"github.com/xeipuuv/gojsonschema"
)

// Top-level payload shapes. Everything below the section arrays is checked per item so a
// single malformed product never fails the whole catalog.
var (
	snappfoodSchema = mustCompileSchema(`{
		"type": "object",
		"required": ["data"],
		"properties": {
			"data": {
				"type": "object",
				"required": ["menus"],
				"properties": {"menus": {"type": "array"}}
			}
		}
	}`)

	tapsifoodSchema = mustCompileSchema(`{
		"type": "object",
		"required": ["data"],
		"properties": {
			"data": {
				"type": "object",
				"required": ["categories"],
				"properties": {"categories": {"type": "array"}}
			}
		}
	}`)
)

func mustCompileSchema(schema string) *gojsonschema.Schema {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		panic(fmt.Sprintf("compile catalog schema: %v", err))
	}
	return compiled
}

// NormalizedCatalog is the canonical form of one raw platform catalog
type NormalizedCatalog struct {
	Products domain.Catalog
	Skipped  int // raw entries dropped because they lacked an id, name or price
}

// NormalizeCatalog converts a platform's raw menu payload into canonical products keyed by
// normalized item id. A payload without the expected top-level structure yields
// ErrInvalidCatalog; a well-formed payload without valid items yields an empty catalog.
func NormalizeCatalog(platform domain.Platform, raw []byte) (*NormalizedCatalog, error) {
	switch platform {
	case domain.PlatformSnappfood:
		if err := validateShape(snappfoodSchema, raw); err != nil {
			return nil, err
		}
		return normalizeSnappfood(raw)
	case domain.PlatformTapsifood:
		if err := validateShape(tapsifoodSchema, raw); err != nil {
			return nil, err
		}
		return normalizeTapsifood(raw)
	}
	return nil, fmt.Errorf("%w: unknown platform %q", domain.ErrInvalidRequest, platform)
}

func validateShape(schema *gojsonschema.Schema, raw []byte) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return fmt.Errorf("%w: empty payload", domain.ErrInvalidCatalog)
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidCatalog, err)
	}
	if !result.Valid() {
		reasons := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			reasons = append(reasons, e.String())
		}
		return fmt.Errorf("%w: %s", domain.ErrInvalidCatalog, strings.Join(reasons, "; "))
	}
	return nil
}

type catalogSection struct {
	Products []json.RawMessage `json:"products"`
}

type snappfoodPayload struct {
	Data struct {
		Menus []json.RawMessage `json:"menus"`
	} `json:"data"`
}

type snappfoodProduct struct {
	ID            interface{}  `json:"id"`
	Title         *string      `json:"title"`
	Price         *json.Number `json:"price"`
	Discount      *json.Number `json:"discount"`
	DiscountRatio *json.Number `json:"discountRatio"`
}

// normalizeSnappfood applies the absolute discount amount: final = price - discount
func normalizeSnappfood(raw []byte) (*NormalizedCatalog, error) {
	var payload snappfoodPayload
	if err := decodeNumbers(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCatalog, err)
	}

	out := &NormalizedCatalog{Products: make(domain.Catalog)}
	for _, rawSection := range payload.Data.Menus {
		var section catalogSection
		if err := decodeNumbers(rawSection, &section); err != nil {
			continue
		}
		for _, rawProduct := range section.Products {
			var p snappfoodProduct
			if err := decodeNumbers(rawProduct, &p); err != nil {
				out.Skipped++
				continue
			}
			id, ok := productID(p.ID)
			if !ok || p.Title == nil || p.Price == nil {
				out.Skipped++
				continue
			}
			price, ok := numberValue(p.Price)
			if !ok {
				out.Skipped++
				continue
			}
			discount, _ := numberValue(p.Discount)
			ratio, _ := numberValue(p.DiscountRatio)

			out.Products[id] = domain.CanonicalProduct{
				ID:            id,
				Name:          normalizeName(*p.Title),
				Price:         nonNegative(price - discount),
				OriginalPrice: nonNegative(price),
				Discount:      discount,
				DiscountRatio: ratio,
			}
		}
	}
	return out, nil
}

type tapsifoodPayload struct {
	Data struct {
		Categories []json.RawMessage `json:"categories"`
	} `json:"data"`
}

type tapsifoodProduct struct {
	ProductID   interface{}          `json:"productId"`
	ProductName *string              `json:"productName"`
	Variations  []tapsifoodVariation `json:"productVariations"`
}

type tapsifoodVariation struct {
	Price              *json.Number `json:"price"`
	PriceAfterDiscount *json.Number `json:"priceAfterDiscount"`
	DiscountRatio      *json.Number `json:"discountRatio"`
}

// normalizeTapsifood uses the first variation's price after discount when the platform
// provides one, falling back to its listed price
func normalizeTapsifood(raw []byte) (*NormalizedCatalog, error) {
	var payload tapsifoodPayload
	if err := decodeNumbers(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCatalog, err)
	}

	out := &NormalizedCatalog{Products: make(domain.Catalog)}
	for _, rawCategory := range payload.Data.Categories {
		var category catalogSection
		if err := decodeNumbers(rawCategory, &category); err != nil {
			continue
		}
		for _, rawProduct := range category.Products {
			var p tapsifoodProduct
			if err := decodeNumbers(rawProduct, &p); err != nil {
				out.Skipped++
				continue
			}
			id, ok := productID(p.ProductID)
			if !ok || p.ProductName == nil || len(p.Variations) == 0 {
				out.Skipped++
				continue
			}
			variation := p.Variations[0]
			price, ok := numberValue(variation.Price)
			if !ok {
				out.Skipped++
				continue
			}
			final := price
			if afterDiscount, ok := numberValue(variation.PriceAfterDiscount); ok && afterDiscount > 0 {
				final = afterDiscount
			}
			ratio, _ := numberValue(variation.DiscountRatio)

			out.Products[id] = domain.CanonicalProduct{
				ID:            id,
				Name:          normalizeName(*p.ProductName),
				Price:         nonNegative(final),
				OriginalPrice: nonNegative(price),
				Discount:      nonNegative(price - final),
				DiscountRatio: ratio,
			}
		}
	}
	return out, nil
}

func decodeNumbers(raw []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(v)
}

// productID rejects ids that are missing or zero, which the platforms use for placeholders
func productID(v interface{}) (string, bool) {
	id, ok := domain.NormalizeID(v)
	if !ok || id == "0" {
		return "", false
	}
	return id, true
}

func numberValue(n *json.Number) (float64, bool) {
	if n == nil {
		return 0, false
	}
	f, err := n.Float64()
	if err != nil {
		return 0, false
	}
	return f, true
}

func nonNegative(f float64) float64 {
	if f < 0 {
		return 0
	}
	return f
}

// normalizeName trims and collapses whitespace so names match what the pages render
func normalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}
