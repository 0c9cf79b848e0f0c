package backend

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/joramcars/dealership-web/pkg/enums"
	pkgerrors "github.com/joramcars/dealership-web/pkg/errors"
	"github.com/shopspring/decimal"
)

// ListParams pages and filters an admin inbox.
type ListParams struct {
	Status string
	Search string
	Page   int
	Limit  int
}

func (p ListParams) values() url.Values {
	values := url.Values{}
	if s := strings.TrimSpace(p.Status); s != "" {
		values.Set("status", s)
	}
	if s := strings.TrimSpace(p.Search); s != "" {
		values.Set("search", s)
	}
	if p.Page > 0 {
		values.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		values.Set("limit", strconv.Itoa(p.Limit))
	}
	return values
}

func idPath(prefix, id string, suffix ...string) (string, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "id is required")
	}
	parts := append([]string{prefix, url.PathEscape(trimmed)}, suffix...)
	return strings.Join(parts, "/"), nil
}

// Dashboard returns the back-office counters.
func (c *Client) Dashboard(ctx context.Context) (*DashboardStats, error) {
	var out DashboardStats
	if err := c.getJSON(ctx, "admin/dashboard", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminVehicles lists every vehicle regardless of availability.
func (c *Client) AdminVehicles(ctx context.Context, q VehicleQuery) (*VehicleList, error) {
	var out VehicleList
	if err := c.getJSON(ctx, "admin/vehicles", q.Values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminVehicle returns a vehicle for editing.
func (c *Client) AdminVehicle(ctx context.Context, id string) (*Vehicle, error) {
	path, err := idPath("admin/vehicles", id)
	if err != nil {
		return nil, err
	}
	var out Vehicle
	if err := c.getJSON(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateVehicle adds a vehicle to the inventory.
func (c *Client) CreateVehicle(ctx context.Context, in VehicleInput) (*Vehicle, error) {
	var out Vehicle
	if err := c.doJSON(ctx, http.MethodPost, "admin/vehicles", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateVehicle applies a partial update.
func (c *Client) UpdateVehicle(ctx context.Context, id string, in VehicleInput) (*Vehicle, error) {
	path, err := idPath("admin/vehicles", id)
	if err != nil {
		return nil, err
	}
	var out Vehicle
	if err := c.doJSON(ctx, http.MethodPut, path, nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteVehicle removes a vehicle.
func (c *Client) DeleteVehicle(ctx context.Context, id string) error {
	path, err := idPath("admin/vehicles", id)
	if err != nil {
		return err
	}
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil, nil)
}

// ToggleFeatured flips the featured flag and returns the updated vehicle.
func (c *Client) ToggleFeatured(ctx context.Context, id string) (*Vehicle, error) {
	path, err := idPath("admin/vehicles", id, "feature")
	if err != nil {
		return nil, err
	}
	var out Vehicle
	if err := c.doJSON(ctx, http.MethodPatch, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadVehicleImage attaches a photo to a vehicle.
func (c *Client) UploadVehicleImage(ctx context.Context, vehicleID string, img Upload, primary bool) (*VehicleImage, error) {
	path, err := idPath("admin/vehicles", vehicleID, "upload-image")
	if err != nil {
		return nil, err
	}

	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	contentType := img.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	part, err := writer.CreatePart(filePartHeader("file", img.Filename, contentType))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create image part")
	}
	if _, err := part.Write(img.Data); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write image part")
	}
	if err := writer.Close(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "close multipart writer")
	}

	query := url.Values{"is_primary": {strconv.FormatBool(primary)}}
	req, err := c.newRequest(ctx, http.MethodPost, path, query, buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var out VehicleImage
	if err := c.send(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteVehicleImage removes a vehicle photo.
func (c *Client) DeleteVehicleImage(ctx context.Context, imageID string) error {
	path, err := idPath("admin/vehicles/images", imageID)
	if err != nil {
		return err
	}
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil, nil)
}

// Enquiries lists the enquiry inbox.
func (c *Client) Enquiries(ctx context.Context, p ListParams) (*EnquiryList, error) {
	var out EnquiryList
	if err := c.getJSON(ctx, "admin/enquiries", p.values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateEnquiryStatus moves an enquiry through triage.
func (c *Client) UpdateEnquiryStatus(ctx context.Context, id string, status enums.EnquiryStatus) (*Enquiry, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid enquiry status %q", status))
	}
	path, err := idPath("admin/enquiries", id, "status")
	if err != nil {
		return nil, err
	}
	var out Enquiry
	if err := c.doJSON(ctx, http.MethodPatch, path, nil, map[string]string{"status": status.String()}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteEnquiry removes an enquiry.
func (c *Client) DeleteEnquiry(ctx context.Context, id string) error {
	path, err := idPath("admin/enquiries", id)
	if err != nil {
		return err
	}
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil, nil)
}

// SellRequests lists the sell request inbox.
func (c *Client) SellRequests(ctx context.Context, p ListParams) (*SellRequestList, error) {
	var out SellRequestList
	if err := c.getJSON(ctx, "admin/sell-requests", p.values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateSellRequestStatus moves a sell request through triage.
func (c *Client) UpdateSellRequestStatus(ctx context.Context, id string, status enums.SellRequestStatus) (*SellRequest, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid sell request status %q", status))
	}
	path, err := idPath("admin/sell-requests", id, "status")
	if err != nil {
		return nil, err
	}
	var out SellRequest
	if err := c.doJSON(ctx, http.MethodPatch, path, nil, map[string]string{"status": status.String()}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ValueSellRequest records the dealership's valuation.
func (c *Client) ValueSellRequest(ctx context.Context, id string, amount decimal.Decimal) (*SellRequest, error) {
	if !amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "valuation amount must be positive")
	}
	path, err := idPath("admin/sell-requests", id, "valuation")
	if err != nil {
		return nil, err
	}
	var out SellRequest
	payload := map[string]decimal.Decimal{"valuation_amount": amount}
	if err := c.doJSON(ctx, http.MethodPatch, path, nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminBrands lists every brand, active or not.
func (c *Client) AdminBrands(ctx context.Context) (*BrandList, error) {
	var out BrandList
	if err := c.getJSON(ctx, "admin/brands", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateBrand adds a brand.
func (c *Client) CreateBrand(ctx context.Context, in Brand) (*Brand, error) {
	var out Brand
	if err := c.doJSON(ctx, http.MethodPost, "admin/brands", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateBrand replaces a brand.
func (c *Client) UpdateBrand(ctx context.Context, id string, in Brand) (*Brand, error) {
	path, err := idPath("admin/brands", id)
	if err != nil {
		return nil, err
	}
	var out Brand
	if err := c.doJSON(ctx, http.MethodPut, path, nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteBrand removes a brand.
func (c *Client) DeleteBrand(ctx context.Context, id string) error {
	path, err := idPath("admin/brands", id)
	if err != nil {
		return err
	}
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil, nil)
}

// Users lists back-office accounts.
func (c *Client) Users(ctx context.Context) ([]User, error) {
	var out []User
	if err := c.getJSON(ctx, "admin/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateUser adds a back-office account.
func (c *Client) CreateUser(ctx context.Context, in UserInput) (*User, error) {
	var out User
	if err := c.doJSON(ctx, http.MethodPost, "admin/users", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUser changes a back-office account.
func (c *Client) UpdateUser(ctx context.Context, id string, in UserInput) (*User, error) {
	path, err := idPath("admin/users", id)
	if err != nil {
		return nil, err
	}
	var out User
	if err := c.doJSON(ctx, http.MethodPut, path, nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
