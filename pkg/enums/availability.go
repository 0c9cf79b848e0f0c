package enums

import "fmt"

// AvailabilityStatus tracks whether a listed vehicle can still be bought.
type AvailabilityStatus string

const (
	AvailabilityStatusAvailable    AvailabilityStatus = "available"
	AvailabilityStatusDirectImport AvailabilityStatus = "direct_import"
	AvailabilityStatusSold         AvailabilityStatus = "sold"
	AvailabilityStatusReserved     AvailabilityStatus = "reserved"
)

var validAvailabilityStatuses = []AvailabilityStatus{
	AvailabilityStatusAvailable,
	AvailabilityStatusDirectImport,
	AvailabilityStatusSold,
	AvailabilityStatusReserved,
}

// String implements fmt.Stringer.
func (a AvailabilityStatus) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AvailabilityStatus.
func (a AvailabilityStatus) IsValid() bool {
	for _, candidate := range validAvailabilityStatuses {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAvailabilityStatus converts raw input into a AvailabilityStatus.
func ParseAvailabilityStatus(value string) (AvailabilityStatus, error) {
	for _, candidate := range validAvailabilityStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid availability status %q", value)
}
