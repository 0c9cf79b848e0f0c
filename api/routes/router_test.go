package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/joramcars/dealership-web/api/controllers"
	"github.com/joramcars/dealership-web/api/views"
	"github.com/joramcars/dealership-web/internal/wizard"
	"github.com/joramcars/dealership-web/pkg/auth"
	"github.com/joramcars/dealership-web/pkg/auth/session"
	"github.com/joramcars/dealership-web/pkg/backend"
	"github.com/joramcars/dealership-web/pkg/config"
	"github.com/joramcars/dealership-web/pkg/enums"
	"github.com/joramcars/dealership-web/pkg/kv"
	"github.com/joramcars/dealership-web/pkg/metrics"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubVehicles struct {
	controllers.VehicleAPI
}

func (stubVehicles) ListVehicles(_ context.Context, q backend.VehicleQuery) (*backend.VehicleList, error) {
	return &backend.VehicleList{Items: []backend.Vehicle{{ID: "v1", Make: q.Make}}, Total: 1}, nil
}

type stubSubmitter struct{}

func (stubSubmitter) SubmitSellRequest(context.Context, backend.SellRequestSubmission) (*backend.SellRequest, error) {
	return &backend.SellRequest{ID: "sr-1"}, nil
}

type stubLoginAPI struct {
	token string
	role  enums.UserRole
}

func (s stubLoginAPI) Login(_ context.Context, email, _ string) (*backend.LoginResponse, error) {
	return &backend.LoginResponse{AccessToken: s.token, User: backend.User{ID: "u1", Email: email, Role: s.role}}, nil
}

func (stubLoginAPI) Revoke(context.Context, string) error {
	return nil
}

type stubAdminAPI struct {
	controllers.AdminAPI
}

func (stubAdminAPI) Dashboard(context.Context) (*backend.DashboardStats, error) {
	return &backend.DashboardStats{TotalVehicles: 7}, nil
}

func (stubAdminAPI) Users(context.Context) ([]backend.User, error) {
	return []backend.User{{ID: "u1"}}, nil
}

type denyAll struct {
	mu    sync.Mutex
	calls int
}

func (d *denyAll) FixedWindowAllow(context.Context, string, int64, time.Duration) (bool, int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	return false, int64(d.calls), nil
}

func testConfig() *config.Config {
	return &config.Config{
		App:       config.AppConfig{Env: "dev"},
		Session:   config.SessionConfig{VisitorCookie: "jc_vid", CookieMaxAge: time.Hour},
		AuthLimit: config.AuthRateLimitConfig{LoginWindow: time.Minute, LoginIPLimit: 20, LoginEmailLimit: 5},
		Wizard:    config.WizardConfig{MaxUploadMB: 1},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}
}

func liveToken(t *testing.T) string {
	t.Helper()
	claims := auth.AccessTokenClaims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return signed
}

func newTestRouter(t *testing.T, role enums.UserRole, limiter *denyAll) http.Handler {
	t.Helper()
	store := kv.NewMemoryStore()
	reg := prometheus.NewRegistry()

	wizards, err := wizard.NewService(wizard.ServiceParams{
		Store:     store,
		Submitter: stubSubmitter{},
		Metrics:   metrics.NewWizardMetrics(reg),
	})
	require.NoError(t, err)
	sessions, err := session.NewManager(stubLoginAPI{token: liveToken(t), role: role}, nil)
	require.NoError(t, err)

	deps := Deps{
		Config:         testConfig(),
		Renderer:       views.MustNew(),
		Gatherer:       reg,
		Vehicles:       stubVehicles{},
		Wizards:        wizards,
		Sessions:       sessions,
		Store:          store,
		ListingMetrics: metrics.NewListingMetrics(reg),
		AdminAPI:       func(string) controllers.AdminAPI { return stubAdminAPI{} },
		Pingers:        map[string]controllers.Pinger{"kv": stubPinger{}},
	}
	if limiter != nil {
		deps.Limiter = limiter
	}
	return NewRouter(deps)
}

// visitorClient replays the visitor cookie issued on the first response.
type visitorClient struct {
	t       *testing.T
	handler http.Handler
	cookie  *http.Cookie
}

func (c *visitorClient) do(method, target, contentType, body string) *httptest.ResponseRecorder {
	c.t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "jc_vid" {
			c.cookie = ck
		}
	}
	return rec
}

func TestHealthAndMetrics(t *testing.T) {
	router := newTestRouter(t, enums.UserRoleAdmin, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/listing?make=Toyota", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "dealer_web_listing_fetch_total")
}

func TestRootRedirectsToListing(t *testing.T) {
	router := newTestRouter(t, enums.UserRoleAdmin, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/vehicles", rec.Header().Get("Location"))
}

func TestVisitorCookieKeepsTheWizard(t *testing.T) {
	client := &visitorClient{t: t, handler: newTestRouter(t, enums.UserRoleAdmin, nil)}

	rec := client.do(http.MethodGet, "/sell", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, client.cookie, "expected a visitor cookie")

	rec = client.do(http.MethodPatch, "/api/sell/fields", "application/json", `{"fields":{"make":"Toyota","model":"Axio","year":"2015","mileage":"90000"}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = client.do(http.MethodPost, "/api/sell/next", "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var payload struct {
		Data struct {
			State wizard.State `json:"state"`
		} `json:"data"`
	}
	rec = client.do(http.MethodGet, "/api/sell", "", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Equal(t, wizard.StepPhotos, payload.Data.State.Step)
	require.Equal(t, "Toyota", payload.Data.State.Fields.Make)
}

func TestAdminRoutesRequireSignIn(t *testing.T) {
	client := &visitorClient{t: t, handler: newTestRouter(t, enums.UserRoleStaff, nil)}

	rec := client.do(http.MethodGet, "/api/admin/dashboard", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = client.do(http.MethodPost, "/api/auth/login", "application/json", `{"email":"staff@joramcars.test","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = client.do(http.MethodGet, "/api/admin/dashboard", "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = client.do(http.MethodGet, "/api/admin/users", "", "")
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminUsersAllowAdmins(t *testing.T) {
	client := &visitorClient{t: t, handler: newTestRouter(t, enums.UserRoleAdmin, nil)}

	rec := client.do(http.MethodPost, "/api/auth/login", "application/json", `{"email":"admin@joramcars.test","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = client.do(http.MethodGet, "/api/admin/users", "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestLoginIsRateLimited(t *testing.T) {
	limiter := &denyAll{}
	client := &visitorClient{t: t, handler: newTestRouter(t, enums.UserRoleAdmin, limiter)}

	rec := client.do(http.MethodPost, "/api/auth/login", "application/json", `{"email":"admin@joramcars.test","password":"pw"}`)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, 1, limiter.calls)
}
