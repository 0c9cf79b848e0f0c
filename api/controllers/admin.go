package controllers

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/joramcars/dealership-web/api/middleware"
	"github.com/joramcars/dealership-web/api/responses"
	"github.com/joramcars/dealership-web/api/validators"
	"github.com/joramcars/dealership-web/pkg/backend"
	"github.com/joramcars/dealership-web/pkg/enums"
	pkgerrors "github.com/joramcars/dealership-web/pkg/errors"
	"github.com/joramcars/dealership-web/pkg/logger"
	"github.com/joramcars/dealership-web/pkg/pagination"
	"github.com/joramcars/dealership-web/pkg/types"
	"github.com/shopspring/decimal"
)

const (
	adminImageField   = "file"
	adminMaxImageSize = 10 << 20
)

// AdminAPI is the back-office surface of the dealership API, already bound
// to the caller's bearer token.
type AdminAPI interface {
	Dashboard(ctx context.Context) (*backend.DashboardStats, error)

	AdminVehicles(ctx context.Context, q backend.VehicleQuery) (*backend.VehicleList, error)
	AdminVehicle(ctx context.Context, id string) (*backend.Vehicle, error)
	CreateVehicle(ctx context.Context, in backend.VehicleInput) (*backend.Vehicle, error)
	UpdateVehicle(ctx context.Context, id string, in backend.VehicleInput) (*backend.Vehicle, error)
	DeleteVehicle(ctx context.Context, id string) error
	ToggleFeatured(ctx context.Context, id string) (*backend.Vehicle, error)
	UploadVehicleImage(ctx context.Context, vehicleID string, img backend.Upload, primary bool) (*backend.VehicleImage, error)
	DeleteVehicleImage(ctx context.Context, imageID string) error

	Enquiries(ctx context.Context, p backend.ListParams) (*backend.EnquiryList, error)
	UpdateEnquiryStatus(ctx context.Context, id string, status enums.EnquiryStatus) (*backend.Enquiry, error)
	DeleteEnquiry(ctx context.Context, id string) error

	SellRequests(ctx context.Context, p backend.ListParams) (*backend.SellRequestList, error)
	UpdateSellRequestStatus(ctx context.Context, id string, status enums.SellRequestStatus) (*backend.SellRequest, error)
	ValueSellRequest(ctx context.Context, id string, amount decimal.Decimal) (*backend.SellRequest, error)

	AdminBrands(ctx context.Context) (*backend.BrandList, error)
	CreateBrand(ctx context.Context, in backend.Brand) (*backend.Brand, error)
	UpdateBrand(ctx context.Context, id string, in backend.Brand) (*backend.Brand, error)
	DeleteBrand(ctx context.Context, id string) error

	Users(ctx context.Context) ([]backend.User, error)
	CreateUser(ctx context.Context, in backend.UserInput) (*backend.User, error)
	UpdateUser(ctx context.Context, id string, in backend.UserInput) (*backend.User, error)
}

// AdminDeps are shared by the back-office handlers, which all run behind
// RequireSession.
type AdminDeps struct {
	API    func(token string) AdminAPI
	Logger *logger.Logger
}

// adminHandler receives the token-bound API of the signed-in admin.
type adminHandler func(w http.ResponseWriter, r *http.Request, api AdminAPI) error

// Admin adapts h into a handler. Errors returned by h are written as the
// JSON error envelope.
func Admin(deps AdminDeps, h adminHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sess := middleware.SessionFromContext(ctx)
		if sess == nil {
			responses.WriteError(ctx, deps.Logger, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "please sign in"))
			return
		}
		if err := h(w, r, deps.API(sess.Token)); err != nil {
			responses.WriteError(ctx, deps.Logger, w, err)
		}
	}
}

func AdminDashboard(w http.ResponseWriter, r *http.Request, api AdminAPI) error {
	stats, err := api.Dashboard(r.Context())
	if err != nil {
		return err
	}
	responses.WriteSuccess(w, stats)
	return nil
}

func AdminListVehicles(w http.ResponseWriter, r *http.Request, api AdminAPI) error {
	page, err := validators.ParsePage(r)
	if err != nil {
		return err
	}
	featured, err := validators.ParseQueryBool(r, "is_featured")
	if err != nil {
		return err
	}
	query := r.URL.Query()
	q := backend.VehicleQuery{
		Make:               query.Get("make"),
		Search:             validators.SanitizeString(query.Get("search"), 100),
		AvailabilityStatus: query.Get("availability_status"),
		SortBy:             query.Get("sort_by"),
		SortOrder:          query.Get("sort_order"),
		IsFeatured:         featured,
		Page:               page.Page,
		Limit:              page.Limit,
	}
	if q.AvailabilityStatus != "" {
		if _, err := enums.ParseAvailabilityStatus(q.AvailabilityStatus); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid availability status")
		}
	}
	list, err := api.AdminVehicles(r.Context(), q)
	if err != nil {
		return err
	}
	responses.WritePage(w, list.Items, page.Meta(list.Total))
	return nil
}

func AdminGetVehicle(w http.ResponseWriter, r *http.Request, api AdminAPI) error {
	id, err := validators.PathParam(r, "vehicleId")
	if err != nil {
		return err
	}
	vehicle, err := api.AdminVehicle(r.Context(), id)
	if err != nil {
		return err
	}
	responses.WriteSuccess(w, vehicle)
	return nil
}

func AdminCreateVehicle(w http.ResponseWriter, r *http.Request, api AdminAPI) error {
	var body backend.VehicleInput
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		return err
	}
	if body.Make == nil || body.Model == nil || body.Year == nil || body.Price == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "make, model, year and price are required")
	}
	if err := checkVehicleInput(body); err != nil {
		return err
	}
	vehicle, err := api.CreateVehicle(r.Context(), body)
	if err != nil {
		return err
	}
	responses.WriteSuccessStatus(w, http.StatusCreated, vehicle)
	return nil
}

func AdminUpdateVehicle(w http.ResponseWriter, r *http.Request, api AdminAPI) error {
	id, err := validators.PathParam(r, "vehicleId")
	if err != nil {
		return err
	}
	var body backend.VehicleInput
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		return err
	}
	if err := checkVehicleInput(body); err != nil {
		return err
	}
	vehicle, err := api.UpdateVehicle(r.Context(), id, body)
	if err != nil {
		return err
	}
	responses.WriteSuccess(w, vehicle)
	return nil
}

func checkVehicleInput(in backend.VehicleInput) error {
	if in.Price != nil && !in.Price.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be positive").WithDetails(map[string]string{"price": "must be greater than 0"})
	}
	if in.BodyType != nil && !in.BodyType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid body type")
	}
	if in.Transmission != nil && !in.Transmission.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid transmission")
	}
	if in.FuelType != nil && !in.FuelType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid fuel type")
	}
	if in.AvailabilityStatus != nil && !in.AvailabilityStatus.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid availability status")
	}
	if in.Description != nil {
		*in.Description = validators.SanitizeString(*in.Description, 5000)
	}
	return nil
}

func AdminDeleteVehicle(w http.ResponseWriter, r *http.Request, api AdminAPI) error {
	id, err := validators.PathParam(r, "vehicleId")
	if err != nil {
		return err
	}
	if err := api.DeleteVehicle(r.Context(), id); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func AdminToggleFeatured(w http.ResponseWriter, r *http.Request, api AdminAPI) error {
	id, err := validators.PathParam(r, "vehicleId")
	if err != nil {
		return err
	}
	vehicle, err := api.ToggleFeatured(r.Context(), id)
	if err != nil {
		return err
	}
	responses.WriteSuccess(w, vehicle)
	return nil
}

// AdminUploadVehicleImage forwards the multipart "file" part. The content
// type is sniffed rather than trusted from the browser.
func AdminUploadVehicleImage(w http.ResponseWriter, r *http.Request, api AdminAPI) error {
	id, err := validators.PathParam(r, "vehicleId")
	if err != nil {
		return err
	}
	r.Body = http.MaxBytesReader(w, r.Body, adminMaxImageSize)
	if err := r.ParseMultipartForm(adminMaxImageSize); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "image is too large or the upload is malformed")
	}
	file, header, err := r.FormFile(adminImageField)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "image file is required")
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read image")
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return pkgerrors.New(pkgerrors.CodeValidation, "file must be an image").WithDetails(map[string]string{"file": mtype.String()})
	}

	primary := false
	if raw := strings.TrimSpace(r.FormValue("is_primary")); raw != "" {
		primary, err = strconv.ParseBool(raw)
		if err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "is_primary must be true or false")
		}
	}

	img, err := api.UploadVehicleImage(r.Context(), id, backend.Upload{
		Filename:    header.Filename,
		ContentType: mtype.String(),
		Data:        data,
	}, primary)
	if err != nil {
		return err
	}
	responses.WriteSuccessStatus(w, http.StatusCreated, img)
	return nil
}

func AdminDeleteVehicleImage(w http.ResponseWriter, r *http.Request, api AdminAPI) error {
	id, err := validators.PathParam(r, "imageId")
	if err != nil {
		return err
	}
	if err := api.DeleteVehicleImage(r.Context(), id); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func listParams(r *http.Request) (backend.ListParams, error) {
	page, err := validators.ParsePage(r)
	if err != nil {
		return backend.ListParams{}, err
	}
	query := r.URL.Query()
	return backend.ListParams{
		Status: strings.TrimSpace(query.Get("status")),
		Search: validators.SanitizeString(query.Get("search"), 100),
		Page:   page.Page,
		Limit:  page.Limit,
	}, nil
}

func AdminListEnquiries(w http.ResponseWriter, r *http.Request, api AdminAPI) error {
	params, err := listParams(r)
	if err != nil {
		return err
	}
	if params.Status != "" {
		if _, err := enums.ParseEnquiryStatus(params.Status); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid enquiry status")
		}
	}
	list, err := api.Enquiries(r.Context(), params)
	if err != nil {
		return err
	}
	responses.WritePage(w, list.Items, pagination.Params{Page: params.Page, Limit: params.Limit}.Meta(list.Total))
	return nil
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

func AdminUpdateEnquiryStatus(w http.ResponseWriter, r *http.Request, api AdminAPI) error {
	id, err := validators.PathParam(r, "enquiryId")
	if err != nil {
		return err
	}
	var body statusRequest
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		return err
	}
	status, err := enums.ParseEnquiryStatus(body.Status)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid enquiry status")
	}
	enquiry, err := api.UpdateEnquiryStatus(r.Context(), id, status)
	if err != nil {
		return err
	}
	responses.WriteSuccess(w, enquiry)
	return nil
}

func AdminDeleteEnquiry(w http.ResponseWriter, r *http.Request, api AdminAPI) error {
	id, err := validators.PathParam(r, "enquiryId")
	if err != nil {
		return err
	}
	if err := api.DeleteEnquiry(r.Context(), id); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func AdminListSellRequests(w http.ResponseWriter, r *http.Request, api AdminAPI) error {
	params, err := listParams(r)
	if err != nil {
		return err
	}
	if params.Status != "" {
		if _, err := enums.ParseSellRequestStatus(params.Status); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sell request status")
		}
	}
	list, err := api.SellRequests(r.Context(), params)
	if err != nil {
		return err
	}
	responses.WritePage(w, list.Items, pagination.Params{Page: params.Page, Limit: params.Limit}.Meta(list.Total))
	return nil
}

func AdminUpdateSellRequestStatus(w http.ResponseWriter, r *http.Request, api AdminAPI) error {
	id, err := validators.PathParam(r, "sellRequestId")
	if err != nil {
		return err
	}
	var body statusRequest
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		return err
	}
	status, err := enums.ParseSellRequestStatus(body.Status)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sell request status")
	}
	req, err := api.UpdateSellRequestStatus(r.Context(), id, status)
	if err != nil {
		return err
	}
	responses.WriteSuccess(w, req)
	return nil
}

type valuationRequest struct {
	ValuationAmount decimal.Decimal `json:"valuation_amount"`
}

func AdminValueSellRequest(w http.ResponseWriter, r *http.Request, api AdminAPI) error {
	id, err := validators.PathParam(r, "sellRequestId")
	if err != nil {
		return err
	}
	var body valuationRequest
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		return err
	}
	req, err := api.ValueSellRequest(r.Context(), id, body.ValuationAmount)
	if err != nil {
		return err
	}
	responses.WriteSuccess(w, req)
	return nil
}

func AdminListBrands(w http.ResponseWriter, r *http.Request, api AdminAPI) error {
	list, err := api.AdminBrands(r.Context())
	if err != nil {
		return err
	}
	responses.WritePage(w, list.Items, types.PageMeta{Total: list.Total})
	return nil
}

func AdminCreateBrand(w http.ResponseWriter, r *http.Request, api AdminAPI) error {
	var body backend.Brand
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		return err
	}
	body.ID = ""
	body.Name = validators.SanitizeString(body.Name, 100)
	brand, err := api.CreateBrand(r.Context(), body)
	if err != nil {
		return err
	}
	responses.WriteSuccessStatus(w, http.StatusCreated, brand)
	return nil
}

func AdminUpdateBrand(w http.ResponseWriter, r *http.Request, api AdminAPI) error {
	id, err := validators.PathParam(r, "brandId")
	if err != nil {
		return err
	}
	var body backend.Brand
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		return err
	}
	body.Name = validators.SanitizeString(body.Name, 100)
	brand, err := api.UpdateBrand(r.Context(), id, body)
	if err != nil {
		return err
	}
	responses.WriteSuccess(w, brand)
	return nil
}

func AdminDeleteBrand(w http.ResponseWriter, r *http.Request, api AdminAPI) error {
	id, err := validators.PathParam(r, "brandId")
	if err != nil {
		return err
	}
	if err := api.DeleteBrand(r.Context(), id); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func AdminListUsers(w http.ResponseWriter, r *http.Request, api AdminAPI) error {
	users, err := api.Users(r.Context())
	if err != nil {
		return err
	}
	responses.WriteSuccess(w, users)
	return nil
}

func AdminCreateUser(w http.ResponseWriter, r *http.Request, api AdminAPI) error {
	var body backend.UserInput
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		return err
	}
	if body.Username == "" || body.Email == "" || body.Password == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "username, email and password are required")
	}
	if err := checkUserRole(body.Role); err != nil {
		return err
	}
	user, err := api.CreateUser(r.Context(), body)
	if err != nil {
		return err
	}
	responses.WriteSuccessStatus(w, http.StatusCreated, user)
	return nil
}

func AdminUpdateUser(w http.ResponseWriter, r *http.Request, api AdminAPI) error {
	id, err := validators.PathParam(r, "userId")
	if err != nil {
		return err
	}
	var body backend.UserInput
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		return err
	}
	if err := checkUserRole(body.Role); err != nil {
		return err
	}
	user, err := api.UpdateUser(r.Context(), id, body)
	if err != nil {
		return err
	}
	responses.WriteSuccess(w, user)
	return nil
}

func checkUserRole(role *enums.UserRole) error {
	if role != nil && !role.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}
	return nil
}
