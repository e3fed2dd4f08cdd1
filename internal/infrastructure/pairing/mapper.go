package pairing

import (
	"fmt"

	"github.com/menucompare/backend/internal/domain"
)

type vendorInfoRecord struct {
	SfCode interface{} `json:"sf_code"`
	TfCode interface{} `json:"tf_code"`
	SfName string      `json:"sf_name"`
	TfName string      `json:"tf_name"`
}

type vendorDataResponse struct {
	VendorInfo   *vendorInfoRecord    `json:"vendor_info"`
	ItemMappings *domain.ItemMappings `json:"item_mappings"`
	ItemCount    int                  `json:"item_count"`
}

type vendorRecord struct {
	vendorInfoRecord
	ItemCount int `json:"item_count"`
}

type statsResponse struct {
	TotalVendors    int `json:"total_vendors"`
	TotalItems      int `json:"total_items"`
	UniqueSfVendors int `json:"unique_sf_vendors"`
	UniqueTfVendors int `json:"unique_tf_vendors"`
}

// MapVendorData converts a vendor-data response into a pairing. Both vendor codes and
// the item mapping table are required.
func MapVendorData(body []byte) (*domain.VendorPairing, error) {
	var resp vendorDataResponse
	if err := decodeJSON(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPairingMalformed, err)
	}
	if resp.VendorInfo == nil {
		return nil, fmt.Errorf("%w: missing vendor_info", domain.ErrPairingMalformed)
	}
	info, err := mapVendorInfo(*resp.VendorInfo)
	if err != nil {
		return nil, err
	}
	if resp.ItemMappings == nil {
		return nil, fmt.Errorf("%w: missing item_mappings", domain.ErrPairingMalformed)
	}

	return &domain.VendorPairing{
		VendorInfo:   info,
		ItemMappings: *resp.ItemMappings,
	}, nil
}

// MapVendorList converts the vendor directory response. Entries without both codes are dropped.
func MapVendorList(body []byte) ([]domain.VendorSummary, error) {
	var records []vendorRecord
	if err := decodeJSON(body, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPairingMalformed, err)
	}

	vendors := make([]domain.VendorSummary, 0, len(records))
	for _, r := range records {
		info, err := mapVendorInfo(r.vendorInfoRecord)
		if err != nil {
			continue
		}
		vendors = append(vendors, domain.VendorSummary{
			SfCode:    info.SfCode,
			TfCode:    info.TfCode,
			SfName:    info.SfName,
			TfName:    info.TfName,
			ItemCount: r.ItemCount,
		})
	}
	return vendors, nil
}

// MapStats converts the registry stats response
func MapStats(body []byte) (*domain.PairingStats, error) {
	var resp statsResponse
	if err := decodeJSON(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPairingMalformed, err)
	}
	return &domain.PairingStats{
		TotalVendors:    resp.TotalVendors,
		TotalItems:      resp.TotalItems,
		UniqueSfVendors: resp.UniqueSfVendors,
		UniqueTfVendors: resp.UniqueTfVendors,
	}, nil
}

func mapVendorInfo(r vendorInfoRecord) (domain.VendorInfo, error) {
	sf, ok := vendorCode(r.SfCode)
	if !ok {
		return domain.VendorInfo{}, fmt.Errorf("%w: missing sf_code", domain.ErrPairingMalformed)
	}
	tf, ok := vendorCode(r.TfCode)
	if !ok {
		return domain.VendorInfo{}, fmt.Errorf("%w: missing tf_code", domain.ErrPairingMalformed)
	}
	return domain.VendorInfo{SfCode: sf, TfCode: tf, SfName: r.SfName, TfName: r.TfName}, nil
}

// vendorCode accepts codes sent as strings or numbers; unlike item ids they are kept verbatim
func vendorCode(v interface{}) (string, bool) {
	switch c := v.(type) {
	case string:
		if c == "" {
			return "", false
		}
		return c, true
	case fmt.Stringer:
		s := c.String()
		return s, s != ""
	}
	return "", false
}
