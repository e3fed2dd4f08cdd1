package domain

// CanonicalProduct is the platform-independent view of a single menu item.
// Price is the final price after discount.
type CanonicalProduct struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	OriginalPrice float64 `json:"originalPrice"`
	Discount      float64 `json:"discount,omitempty"`
	DiscountRatio float64 `json:"discountRatio"`
}

// Catalog maps a normalized item id to its canonical record
type Catalog map[string]CanonicalProduct

// ComparisonResult describes how the base platform's price relates to the counterpart's.
// Exactly one of IsCheaper, IsMoreExpensive and IsSamePrice is true.
type ComparisonResult struct {
	BaseProduct        CanonicalProduct `json:"baseProduct"`
	CounterpartProduct CanonicalProduct `json:"counterpartProduct"`
	PriceDiff          float64          `json:"priceDiff"`
	PercentDiff        int64            `json:"percentDiff"`
	IsCheaper          bool             `json:"isCheaper"`
	IsMoreExpensive    bool             `json:"isMoreExpensive"`
	IsSamePrice        bool             `json:"isSamePrice"`
}

// ComparisonSet holds comparison results keyed by base item id
type ComparisonSet map[string]ComparisonResult

// ComparisonStats counts resolved mappings against stored comparisons
type ComparisonStats struct {
	MappingsFound    int `json:"mappingsFound"`
	ValidComparisons int `json:"validComparisons"`
}

// Dropped returns the number of mapped items that did not produce a comparison
func (s ComparisonStats) Dropped() int {
	return s.MappingsFound - s.ValidComparisons
}

// ComparisonOutcome is the output of a single comparison run
type ComparisonOutcome struct {
	Comparisons ComparisonSet   `json:"comparisons"`
	Stats       ComparisonStats `json:"stats"`
}

// VendorComparison is a comparison outcome together with the pairing it was built from
type VendorComparison struct {
	ComparisonOutcome
	BasePlatform Platform   `json:"basePlatform"`
	Vendor       VendorInfo `json:"vendorInfo"`
}
