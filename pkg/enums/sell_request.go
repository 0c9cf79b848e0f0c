package enums

import "fmt"

// SellRequestStatus is the triage state of a sell-your-car request.
type SellRequestStatus string

const (
	SellRequestStatusPending   SellRequestStatus = "pending"
	SellRequestStatusReviewing SellRequestStatus = "reviewing"
	SellRequestStatusValued    SellRequestStatus = "valued"
	SellRequestStatusAccepted  SellRequestStatus = "accepted"
	SellRequestStatusRejected  SellRequestStatus = "rejected"
)

var validSellRequestStatuses = []SellRequestStatus{
	SellRequestStatusPending,
	SellRequestStatusReviewing,
	SellRequestStatusValued,
	SellRequestStatusAccepted,
	SellRequestStatusRejected,
}

// String implements fmt.Stringer.
func (s SellRequestStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SellRequestStatus.
func (s SellRequestStatus) IsValid() bool {
	for _, candidate := range validSellRequestStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSellRequestStatus converts raw input into a SellRequestStatus.
func ParseSellRequestStatus(value string) (SellRequestStatus, error) {
	for _, candidate := range validSellRequestStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sell request status %q", value)
}
