package enums

import "fmt"

// BodyType is the vehicle body style vocabulary used by the listing filters.
type BodyType string

const (
	BodyTypeSUV         BodyType = "SUV"
	BodyTypeSedan       BodyType = "Sedan"
	BodyTypeHatchback   BodyType = "Hatchback"
	BodyTypePickup      BodyType = "Pickup"
	BodyTypeCoupe       BodyType = "Coupe"
	BodyTypeConvertible BodyType = "Convertible"
	BodyTypeVan         BodyType = "Van"
	BodyTypeWagon       BodyType = "Wagon"
)

var validBodyTypes = []BodyType{
	BodyTypeSUV,
	BodyTypeSedan,
	BodyTypeHatchback,
	BodyTypePickup,
	BodyTypeCoupe,
	BodyTypeConvertible,
	BodyTypeVan,
	BodyTypeWagon,
}

// String implements fmt.Stringer.
func (b BodyType) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BodyType.
func (b BodyType) IsValid() bool {
	for _, candidate := range validBodyTypes {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBodyType converts raw input into a BodyType.
func ParseBodyType(value string) (BodyType, error) {
	for _, candidate := range validBodyTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid body type %q", value)
}
