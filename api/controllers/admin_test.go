package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/joramcars/dealership-web/pkg/auth/session"
	"github.com/joramcars/dealership-web/pkg/backend"
	"github.com/joramcars/dealership-web/pkg/enums"
	"github.com/shopspring/decimal"
)

var _ AdminAPI = (*backend.Client)(nil)

// stubAdminAPI overrides the calls a test exercises; anything else panics.
type stubAdminAPI struct {
	AdminAPI

	vehicleQuery backend.VehicleQuery
	status       enums.EnquiryStatus
	valuation    decimal.Decimal
	upload       backend.Upload
	primary      bool
	createdUser  backend.UserInput
}

func (s *stubAdminAPI) AdminVehicles(_ context.Context, q backend.VehicleQuery) (*backend.VehicleList, error) {
	s.vehicleQuery = q
	return &backend.VehicleList{Items: []backend.Vehicle{{ID: "v1"}}, Total: 41}, nil
}

func (s *stubAdminAPI) UpdateEnquiryStatus(_ context.Context, id string, status enums.EnquiryStatus) (*backend.Enquiry, error) {
	s.status = status
	return &backend.Enquiry{ID: id, Status: status}, nil
}

func (s *stubAdminAPI) ValueSellRequest(_ context.Context, id string, amount decimal.Decimal) (*backend.SellRequest, error) {
	s.valuation = amount
	return &backend.SellRequest{ID: id, ValuationAmount: &amount}, nil
}

func (s *stubAdminAPI) UploadVehicleImage(_ context.Context, vehicleID string, img backend.Upload, primary bool) (*backend.VehicleImage, error) {
	s.upload = img
	s.primary = primary
	return &backend.VehicleImage{ID: "img-1"}, nil
}

func (s *stubAdminAPI) CreateUser(_ context.Context, in backend.UserInput) (*backend.User, error) {
	s.createdUser = in
	return &backend.User{ID: "u2", Username: in.Username}, nil
}

func adminRouter(api AdminAPI, tokens *[]string) http.Handler {
	deps := AdminDeps{API: func(token string) AdminAPI {
		if tokens != nil {
			*tokens = append(*tokens, token)
		}
		return api
	}}
	r := chi.NewRouter()
	r.Get("/vehicles", Admin(deps, AdminListVehicles))
	r.Post("/vehicles/{vehicleId}/images", Admin(deps, AdminUploadVehicleImage))
	r.Patch("/enquiries/{enquiryId}/status", Admin(deps, AdminUpdateEnquiryStatus))
	r.Patch("/sell-requests/{sellRequestId}/valuation", Admin(deps, AdminValueSellRequest))
	r.Post("/users", Admin(deps, AdminCreateUser))
	r.Get("/dashboard", Admin(deps, AdminDashboard))
	return r
}

var staffSession = &session.Session{Token: "tok-staff", User: backend.User{ID: "u1", Role: enums.UserRoleStaff}}

func TestAdminRequiresSession(t *testing.T) {
	resp := serve(adminRouter(&stubAdminAPI{}, nil), httptest.NewRequest(http.MethodGet, "/vehicles", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAdminListVehiclesForwardsFilters(t *testing.T) {
	api := &stubAdminAPI{}
	var tokens []string
	req := asAdmin(httptest.NewRequest(http.MethodGet, "/vehicles?page=3&limit=20&availability_status=sold&is_featured=true", nil), staffSession)

	resp := serve(adminRouter(api, &tokens), req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if len(tokens) != 1 || tokens[0] != "tok-staff" {
		t.Fatalf("expected the session token, got %v", tokens)
	}
	q := api.vehicleQuery
	if q.Page != 3 || q.AvailabilityStatus != "sold" || q.IsFeatured == nil || !*q.IsFeatured {
		t.Fatalf("unexpected query %+v", q)
	}
	env := decodeEnvelope(t, resp, nil)
	var meta struct {
		Total int `json:"total"`
		Page  int `json:"page"`
	}
	if err := json.Unmarshal(env.Meta, &meta); err != nil {
		t.Fatalf("decode meta: %v", err)
	}
	if meta.Total != 41 || meta.Page != 3 {
		t.Fatalf("unexpected meta %+v", meta)
	}
}

func TestAdminListVehiclesRejectsBadStatus(t *testing.T) {
	req := asAdmin(httptest.NewRequest(http.MethodGet, "/vehicles?availability_status=stolen", nil), staffSession)
	resp := serve(adminRouter(&stubAdminAPI{}, nil), req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAdminEnquiryStatus(t *testing.T) {
	api := &stubAdminAPI{}
	req := asAdmin(httptest.NewRequest(http.MethodPatch, "/enquiries/e1/status", strings.NewReader(`{"status":"contacted"}`)), staffSession)

	resp := serve(adminRouter(api, nil), req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if api.status != enums.EnquiryStatus("contacted") {
		t.Fatalf("unexpected status %q", api.status)
	}

	req = asAdmin(httptest.NewRequest(http.MethodPatch, "/enquiries/e1/status", strings.NewReader(`{"status":"lost"}`)), staffSession)
	resp = serve(adminRouter(api, nil), req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for an unknown status, got %d", resp.Code)
	}
}

func TestAdminValuationKeepsDecimalPrecision(t *testing.T) {
	api := &stubAdminAPI{}
	req := asAdmin(httptest.NewRequest(http.MethodPatch, "/sell-requests/s1/valuation", strings.NewReader(`{"valuation_amount":"1450000.50"}`)), staffSession)

	resp := serve(adminRouter(api, nil), req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if !api.valuation.Equal(decimal.RequireFromString("1450000.5")) {
		t.Fatalf("unexpected valuation %s", api.valuation)
	}
}

func imageRequest(t *testing.T, data []byte, primary string) *http.Request {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	part, err := mw.CreateFormFile(adminImageField, "front.png")
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if primary != "" {
		if err := mw.WriteField("is_primary", primary); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/vehicles/v1/images", buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return asAdmin(req, staffSession)
}

func TestAdminUploadVehicleImage(t *testing.T) {
	api := &stubAdminAPI{}

	resp := serve(adminRouter(api, nil), imageRequest(t, pngBytes, "true"))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if api.upload.ContentType != "image/png" || !api.primary || api.upload.Filename != "front.png" {
		t.Fatalf("unexpected upload %+v primary=%v", api.upload, api.primary)
	}

	resp = serve(adminRouter(api, nil), imageRequest(t, []byte("plain text, not a photo"), ""))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a non-image, got %d", resp.Code)
	}
}

func TestAdminCreateUserValidatesRole(t *testing.T) {
	api := &stubAdminAPI{}
	body := `{"username":"wanjiku","email":"w@joramcars.test","password":"secret1","role":"owner"}`
	resp := serve(adminRouter(api, nil), asAdmin(httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body)), staffSession))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}

	body = `{"username":"wanjiku","email":"w@joramcars.test","password":"secret1","role":"staff"}`
	resp = serve(adminRouter(api, nil), asAdmin(httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body)), staffSession))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if api.createdUser.Username != "wanjiku" {
		t.Fatalf("unexpected user input %+v", api.createdUser)
	}
}

func TestAdminDashboardAgainstBackend(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if r.URL.Path != "/api/admin/dashboard" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"total_vehicles":12,"new_enquiries":3}`))
	}))
	defer srv.Close()

	client, err := backend.NewClient(srv.URL + "/api")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	deps := AdminDeps{API: func(token string) AdminAPI { return client.WithBearer(token) }}

	resp := serve(Admin(deps, AdminDashboard), asAdmin(httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil), staffSession))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if auth != "Bearer tok-staff" {
		t.Fatalf("unexpected authorization header %q", auth)
	}
	var stats backend.DashboardStats
	decodeEnvelope(t, resp, &stats)
	if stats.TotalVehicles != 12 || stats.NewEnquiries != 3 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}
