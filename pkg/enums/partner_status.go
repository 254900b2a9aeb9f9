package enums

import "fmt"

// PartnerStatus reflects a delivery partner's availability.
type PartnerStatus string

const (
	PartnerStatusAvailable PartnerStatus = "AVAILABLE"
	PartnerStatusBusy      PartnerStatus = "BUSY"
	PartnerStatusOffline   PartnerStatus = "OFFLINE"
)

var validPartnerStatuses = []PartnerStatus{
	PartnerStatusAvailable,
	PartnerStatusBusy,
	PartnerStatusOffline,
}

// String implements fmt.Stringer.
func (s PartnerStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known PartnerStatus.
func (s PartnerStatus) IsValid() bool {
	for _, candidate := range validPartnerStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParsePartnerStatus converts raw input into a PartnerStatus.
func ParsePartnerStatus(value string) (PartnerStatus, error) {
	for _, candidate := range validPartnerStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid partner status %q", value)
}
