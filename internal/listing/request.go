package listing

import (
	"context"
	"strconv"
	"strings"

	"github.com/joramcars/dealership-web/pkg/backend"
	"github.com/joramcars/dealership-web/pkg/enums"
)

// Fetcher performs the remote listing query.
type Fetcher interface {
	ListVehicles(ctx context.Context, q backend.VehicleQuery) (*backend.VehicleList, error)
}

// Result is one listing response: server-ordered items and the total match count.
type Result struct {
	Items []backend.Vehicle `json:"items"`
	Total int               `json:"total"`
}

// BuildRequest translates state into the public listing request. Empty filters
// are left out and availability is pinned to available.
func BuildRequest(state FilterState) backend.VehicleQuery {
	q := backend.VehicleQuery{
		Make:               state.Make,
		BodyType:           state.BodyType,
		Search:             state.Search,
		SortBy:             state.Sort,
		SortOrder:          state.Order,
		AvailabilityStatus: enums.AvailabilityStatusAvailable.String(),
	}
	if q.SortBy == "" {
		q.SortBy = DefaultSort
	}
	if q.SortOrder == "" {
		q.SortOrder = DefaultOrder
	}
	if lo, hi, ok := SplitPriceRange(state.PriceRange); ok {
		q.MinPrice = lo
		q.MaxPrice = hi
	}
	return q
}

// SplitPriceRange splits "<min>-<max>" on the first dash. Anything else,
// including non-numeric parts, yields ok=false.
func SplitPriceRange(raw string) (lo, hi string, ok bool) {
	left, right, found := strings.Cut(strings.TrimSpace(raw), "-")
	if !found {
		return "", "", false
	}
	left, right = strings.TrimSpace(left), strings.TrimSpace(right)
	if _, err := strconv.ParseUint(left, 10, 64); err != nil {
		return "", "", false
	}
	if _, err := strconv.ParseUint(right, 10, 64); err != nil {
		return "", "", false
	}
	return left, right, true
}

// LoadVehicles fetches the listing for state.
func LoadVehicles(ctx context.Context, fetcher Fetcher, state FilterState) (Result, error) {
	list, err := fetcher.ListVehicles(ctx, BuildRequest(state))
	if err != nil {
		return Result{}, err
	}
	items := list.Items
	if items == nil {
		items = []backend.Vehicle{}
	}
	return Result{Items: items, Total: list.Total}, nil
}
