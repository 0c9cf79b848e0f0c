package enums

// Makes lists the makes offered as quick filters on the listing page.
// Listings are not restricted to this set.
var Makes = []string{
	"Toyota",
	"Subaru",
	"Mazda",
	"Nissan",
	"Honda",
	"Mercedes-Benz",
	"BMW",
	"Audi",
	"Volkswagen",
	"Land Rover",
}

func BodyTypes() []BodyType {
	return append([]BodyType(nil), validBodyTypes...)
}

func Transmissions() []Transmission {
	return append([]Transmission(nil), validTransmissions...)
}

func FuelTypes() []FuelType {
	return append([]FuelType(nil), validFuelTypes...)
}

func Conditions() []Condition {
	return append([]Condition(nil), validConditions...)
}

func EnquiryStatuses() []EnquiryStatus {
	return append([]EnquiryStatus(nil), validEnquiryStatuses...)
}

func SellRequestStatuses() []SellRequestStatus {
	return append([]SellRequestStatus(nil), validSellRequestStatuses...)
}
