package enums

import "fmt"

// PriceListStatus controls whether a price list is applied at lookup time.
type PriceListStatus string

const (
	PriceListStatusActive PriceListStatus = "active"
	PriceListStatusDraft  PriceListStatus = "draft"
)

var validPriceListStatuses = []PriceListStatus{
	PriceListStatusActive,
	PriceListStatusDraft,
}

// String implements fmt.Stringer.
func (s PriceListStatus) String() string {
	return string(s)
}

// IsValid reports whether the status is recognized.
func (s PriceListStatus) IsValid() bool {
	for _, candidate := range validPriceListStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParsePriceListStatus converts a raw string into a PriceListStatus.
func ParsePriceListStatus(value string) (PriceListStatus, error) {
	for _, candidate := range validPriceListStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid price list status %q", value)
}
