package domain

// VendorInfo is the shared metadata of a vendor pairing
type VendorInfo struct {
	SfCode string `json:"sf_code"`
	TfCode string `json:"tf_code"`
	SfName string `json:"sf_name"`
	TfName string `json:"tf_name"`
}

// CodeFor returns the vendor code on the given platform
func (v VendorInfo) CodeFor(p Platform) string {
	if p == PlatformTapsifood {
		return v.TfCode
	}
	return v.SfCode
}

// NameFor returns the vendor name on the given platform
func (v VendorInfo) NameFor(p Platform) string {
	if p == PlatformTapsifood {
		return v.TfName
	}
	return v.SfName
}

// VendorPairing associates a vendor on one platform with its counterpart on the other,
// including the item-level id mapping from snappfood item ids to tapsifood item ids.
type VendorPairing struct {
	VendorInfo
	ItemMappings ItemMappings `json:"item_mappings"`
}

// VendorSummary is one entry of the registered vendor directory
type VendorSummary struct {
	SfCode    string `json:"sf_code"`
	TfCode    string `json:"tf_code"`
	SfName    string `json:"sf_name"`
	TfName    string `json:"tf_name"`
	ItemCount int    `json:"item_count,omitempty"`
}

// PairingStats summarizes the size of the pairing registry
type PairingStats struct {
	TotalVendors    int `json:"totalVendors"`
	TotalItems      int `json:"totalItems"`
	UniqueSfVendors int `json:"uniqueSfVendors"`
	UniqueTfVendors int `json:"uniqueTfVendors"`
}

// VendorOverview combines the vendor directory and registry stats.
// Either half may be missing, in which case its error is reported instead.
type VendorOverview struct {
	Vendors      []VendorSummary `json:"vendors"`
	Stats        PairingStats    `json:"stats"`
	VendorsError string          `json:"vendorsError,omitempty"`
	StatsError   string          `json:"statsError,omitempty"`
}

// MappingsFrom returns the item mappings oriented from the given base platform
// to its counterpart. The registry stores them from snappfood to tapsifood.
func (p *VendorPairing) MappingsFrom(base Platform) ItemMappings {
	if base == PlatformTapsifood {
		return p.ItemMappings.Invert()
	}
	return p.ItemMappings
}
