package listing

import (
	"fmt"
	"net/url"
	"strings"

	pkgerrors "github.com/joramcars/dealership-web/pkg/errors"
)

// Query string keys understood by the listing page.
const (
	KeySearch     = "search"
	KeyMake       = "make"
	KeyBodyType   = "body_type"
	KeyPriceRange = "price_range"
	KeySort       = "sort"
	KeyOrder      = "order"
)

const (
	DefaultSort  = "created_at"
	DefaultOrder = "desc"
	OrderAsc     = "asc"
	OrderDesc    = "desc"
)

// FilterState is the browse intent encoded in the listing URL.
type FilterState struct {
	Search     string `json:"search"`
	Make       string `json:"make"`
	BodyType   string `json:"body_type"`
	PriceRange string `json:"price_range"`
	Sort       string `json:"sort"`
	Order      string `json:"order"`
}

// DefaultState is the state of a listing URL with no query string.
func DefaultState() FilterState {
	return FilterState{Sort: DefaultSort, Order: DefaultOrder}
}

// Parse reads the six known keys from rawQuery. Absent or empty keys take their
// default and unknown keys are ignored.
func Parse(rawQuery string) FilterState {
	// ParseQuery keeps every pair it could decode even when it returns an error.
	values, _ := url.ParseQuery(strings.TrimPrefix(rawQuery, "?"))

	state := DefaultState()
	for _, key := range []string{KeySearch, KeyMake, KeyBodyType, KeyPriceRange, KeySort, KeyOrder} {
		if v := strings.TrimSpace(values.Get(key)); v != "" {
			state, _ = state.with(key, v)
		}
	}
	return state
}

// Serialize encodes the non-empty, non-default fields with keys in alphabetical order.
func Serialize(state FilterState) string {
	values := url.Values{}
	set := func(key, value, def string) {
		if value != "" && value != def {
			values.Set(key, value)
		}
	}
	set(KeySearch, state.Search, "")
	set(KeyMake, state.Make, "")
	set(KeyBodyType, state.BodyType, "")
	set(KeyPriceRange, state.PriceRange, "")
	set(KeySort, state.Sort, DefaultSort)
	set(KeyOrder, state.Order, DefaultOrder)
	return values.Encode()
}

// With returns a copy of state with key set to value. An empty value resets
// the field to its default.
func (s FilterState) With(key, value string) (FilterState, error) {
	return s.with(key, strings.TrimSpace(value))
}

func (s FilterState) with(key, value string) (FilterState, error) {
	switch key {
	case KeySearch:
		s.Search = value
	case KeyMake:
		s.Make = value
	case KeyBodyType:
		s.BodyType = value
	case KeyPriceRange:
		s.PriceRange = value
	case KeySort:
		s.Sort = value
		if s.Sort == "" {
			s.Sort = DefaultSort
		}
	case KeyOrder:
		switch strings.ToLower(value) {
		case OrderAsc:
			s.Order = OrderAsc
		case OrderDesc, "":
			s.Order = OrderDesc
		default:
			return s, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order %q", value))
		}
	default:
		return s, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown filter %q", key))
	}
	return s, nil
}

// IsDefault reports whether no filter is active.
func (s FilterState) IsDefault() bool {
	return s == DefaultState()
}
