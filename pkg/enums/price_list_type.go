package enums

import "fmt"

// PriceListType distinguishes promotional sales from contractual overrides.
type PriceListType string

const (
	PriceListTypeSale     PriceListType = "sale"
	PriceListTypeOverride PriceListType = "override"
)

var validPriceListTypes = []PriceListType{
	PriceListTypeSale,
	PriceListTypeOverride,
}

// String implements fmt.Stringer.
func (t PriceListType) String() string {
	return string(t)
}

// IsValid reports whether the type is recognized.
func (t PriceListType) IsValid() bool {
	for _, candidate := range validPriceListTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParsePriceListType converts a raw string into a PriceListType.
func ParsePriceListType(value string) (PriceListType, error) {
	for _, candidate := range validPriceListTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid price list type %q", value)
}
