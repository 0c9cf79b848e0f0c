package backend

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	pkgerrors "github.com/joramcars/dealership-web/pkg/errors"
)

// VehicleQuery holds the listing request parameters. Empty fields are never sent.
type VehicleQuery struct {
	Make               string
	Model              string
	BodyType           string
	MinPrice           string
	MaxPrice           string
	Search             string
	SortBy             string
	SortOrder          string
	AvailabilityStatus string
	IsFeatured         *bool
	Page               int
	Limit              int
}

// Values encodes the query, omitting empty filters.
func (q VehicleQuery) Values() url.Values {
	values := url.Values{}
	set := func(key, value string) {
		if v := strings.TrimSpace(value); v != "" {
			values.Set(key, v)
		}
	}
	set("make", q.Make)
	set("model", q.Model)
	set("body_type", q.BodyType)
	set("min_price", q.MinPrice)
	set("max_price", q.MaxPrice)
	set("search", q.Search)
	set("sort_by", q.SortBy)
	set("sort_order", q.SortOrder)
	set("availability_status", q.AvailabilityStatus)
	if q.IsFeatured != nil {
		values.Set("is_featured", strconv.FormatBool(*q.IsFeatured))
	}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	return values
}

// ListVehicles returns the public listing for the query.
func (c *Client) ListVehicles(ctx context.Context, q VehicleQuery) (*VehicleList, error) {
	var out VehicleList
	if err := c.getJSON(ctx, "vehicles", q.Values(), &out); err != nil {
		return nil, err
	}
	if out.Items == nil {
		out.Items = []Vehicle{}
	}
	return &out, nil
}

// GetVehicle returns a single listed vehicle.
func (c *Client) GetVehicle(ctx context.Context, id string) (*Vehicle, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle id is required")
	}
	var out Vehicle
	if err := c.getJSON(ctx, "vehicles/"+url.PathEscape(trimmed), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FeaturedVehicles returns up to limit featured vehicles.
func (c *Client) FeaturedVehicles(ctx context.Context, limit int) ([]Vehicle, error) {
	return c.vehicleStrip(ctx, "vehicles/featured", limit)
}

// RecentVehicles returns up to limit most recently added vehicles.
func (c *Client) RecentVehicles(ctx context.Context, limit int) ([]Vehicle, error) {
	return c.vehicleStrip(ctx, "vehicles/recent", limit)
}

func (c *Client) vehicleStrip(ctx context.Context, path string, limit int) ([]Vehicle, error) {
	if limit <= 0 {
		limit = 8
	}
	var out []Vehicle
	if err := c.getJSON(ctx, path, url.Values{"limit": {strconv.Itoa(limit)}}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Makes returns every make present in the inventory.
func (c *Client) Makes(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.getJSON(ctx, "vehicles/makes", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Models returns the models in the inventory for make.
func (c *Client) Models(ctx context.Context, vehicleMake string) ([]string, error) {
	trimmed := strings.TrimSpace(vehicleMake)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "make is required")
	}
	var out []string
	if err := c.getJSON(ctx, "vehicles/models/"+url.PathEscape(trimmed), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
