package listing

import "strings"

// Choice is a labelled select option on the listing page.
type Choice struct {
	Value string
	Label string
}

// PricePresets are the price_range values offered by the price select.
var PricePresets = []Choice{
	{Value: "", Label: "Any Price"},
	{Value: "0-1000000", Label: "Under KSH 1M"},
	{Value: "1000000-2500000", Label: "KSH 1M - 2.5M"},
	{Value: "2500000-5000000", Label: "KSH 2.5M - 5M"},
	{Value: "5000000-100000000", Label: "Above KSH 5M"},
}

// SortChoices combine sort and order as "<field>-<order>".
var SortChoices = []Choice{
	{Value: "created_at-desc", Label: "Newest First"},
	{Value: "price-asc", Label: "Price: Low to High"},
	{Value: "price-desc", Label: "Price: High to Low"},
	{Value: "views_count-desc", Label: "Most Popular"},
}

// SortPatch splits a sort choice into the sort and order keys. The split is
// on the last dash since field names contain underscores only.
func SortPatch(choice string) map[string]string {
	idx := strings.LastIndex(choice, "-")
	if idx <= 0 {
		return map[string]string{KeySort: choice}
	}
	return map[string]string{KeySort: choice[:idx], KeyOrder: choice[idx+1:]}
}

// SortValue is the sort choice matching state.
func SortValue(state FilterState) string {
	return state.Sort + "-" + state.Order
}
