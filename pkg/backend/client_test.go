package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"github.com/joramcars/dealership-web/pkg/enums"
	pkgerrors "github.com/joramcars/dealership-web/pkg/errors"
	"github.com/shopspring/decimal"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": {"application/json"}},
	}
}

func newTestClient(t *testing.T, rt roundTripFunc) *Client {
	t.Helper()
	client, err := NewClient("http://dealer.test/api/", WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	if _, err := NewClient("  "); err == nil {
		t.Fatal("expected empty base url to fail")
	}
}

func TestListVehiclesOmitsEmptyFilters(t *testing.T) {
	var capturedURL string
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		return jsonResponse(http.StatusOK, `{"items":[{"id":"v1","make":"Toyota","price":1500000,"availability_status":"available"}],"total":1}`), nil
	})

	list, err := client.ListVehicles(context.Background(), VehicleQuery{
		Make:               "Toyota",
		BodyType:           "",
		MinPrice:           "1000000",
		MaxPrice:           "2500000",
		SortBy:             "created_at",
		SortOrder:          "desc",
		AvailabilityStatus: "available",
	})
	if err != nil {
		t.Fatalf("list vehicles: %v", err)
	}

	const want = "http://dealer.test/api/vehicles?availability_status=available&make=Toyota&max_price=2500000&min_price=1000000&sort_by=created_at&sort_order=desc"
	if capturedURL != want {
		t.Fatalf("unexpected URL\n got %s\nwant %s", capturedURL, want)
	}
	if list.Total != 1 || len(list.Items) != 1 {
		t.Fatalf("unexpected list %+v", list)
	}
	if !list.Items[0].Price.Equal(decimal.NewFromInt(1500000)) {
		t.Fatalf("unexpected price %s", list.Items[0].Price)
	}
}

func TestListVehiclesNormalizesNullItems(t *testing.T) {
	client := newTestClient(t, func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"items":null,"total":0}`), nil
	})
	list, err := client.ListVehicles(context.Background(), VehicleQuery{})
	if err != nil {
		t.Fatalf("list vehicles: %v", err)
	}
	if list.Items == nil {
		t.Fatal("expected empty, non-nil items")
	}
}

func TestStatusErrorsMapToCodes(t *testing.T) {
	cases := []struct {
		status    int
		body      string
		code      pkgerrors.Code
		retryable bool
	}{
		{http.StatusUnprocessableEntity, `{"detail":[{"loc":["body","email"],"msg":"invalid"}]}`, pkgerrors.CodeValidation, false},
		{http.StatusUnauthorized, `{"detail":"Not authenticated"}`, pkgerrors.CodeUnauthorized, false},
		{http.StatusNotFound, `{"detail":"Vehicle not found"}`, pkgerrors.CodeNotFound, false},
		{http.StatusBadGateway, `upstream down`, pkgerrors.CodeDependency, true},
	}
	for _, tc := range cases {
		client := newTestClient(t, func(*http.Request) (*http.Response, error) {
			return jsonResponse(tc.status, tc.body), nil
		})
		_, err := client.GetVehicle(context.Background(), "v1")
		if !pkgerrors.IsCode(err, tc.code) {
			t.Fatalf("status %d: expected %s, got %v", tc.status, tc.code, err)
		}
		if pkgerrors.Retryable(err) != tc.retryable {
			t.Fatalf("status %d: unexpected retryable=%v", tc.status, !tc.retryable)
		}
	}
}

func TestValidationErrorCarriesDetail(t *testing.T) {
	client := newTestClient(t, func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusBadRequest, `{"detail":"Email already subscribed"}`), nil
	})
	_, err := client.SubscribeNewsletter(context.Background(), "a@b.co")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Details() != "Email already subscribed" {
		t.Fatalf("expected detail to be surfaced, got %#v", err)
	}
}

func TestTransportFailureIsRetryableDependency(t *testing.T) {
	client := newTestClient(t, func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})
	_, err := client.Brands(context.Background())
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) || !pkgerrors.Retryable(err) {
		t.Fatalf("expected retryable dependency error, got %v", err)
	}
}

func TestWithBearerSetsAuthorization(t *testing.T) {
	var headers []string
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		headers = append(headers, req.Header.Get("Authorization"))
		return jsonResponse(http.StatusOK, `{"total_vehicles":3}`), nil
	})

	if _, err := client.WithBearer("tok").Dashboard(context.Background()); err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if _, err := client.Dashboard(context.Background()); err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if headers[0] != "Bearer tok" || headers[1] != "" {
		t.Fatalf("expected bearer only on the scoped copy, got %q", headers)
	}
}

func TestSubmitSellRequestEncodesMultipart(t *testing.T) {
	fields := map[string]string{}
	var images []string
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		if req.Method != http.MethodPost || req.URL.Path != "/api/sell-requests" {
			t.Fatalf("unexpected request %s %s", req.Method, req.URL.Path)
		}
		mediaType, params, err := mime.ParseMediaType(req.Header.Get("Content-Type"))
		if err != nil || mediaType != "multipart/form-data" {
			t.Fatalf("unexpected content type %q", req.Header.Get("Content-Type"))
		}
		reader := multipart.NewReader(req.Body, params["boundary"])
		for {
			part, err := reader.NextPart()
			if err == io.EOF {
				break
			}
			if err != nil {
				t.Fatalf("next part: %v", err)
			}
			data, _ := io.ReadAll(part)
			if part.FormName() == SellRequestImagesField {
				images = append(images, part.FileName()+":"+part.Header.Get("Content-Type")+":"+string(data))
				continue
			}
			fields[part.FormName()] = string(data)
		}
		return jsonResponse(http.StatusCreated, `{"id":"sr_1","status":"pending"}`), nil
	})

	created, err := client.SubmitSellRequest(context.Background(), SellRequestSubmission{
		Fields: map[string]string{"make": "Toyota", "model": "Vitz", "price": ""},
		Images: []Upload{
			{Filename: "front.png", ContentType: "image/png", Data: []byte("a")},
			{ContentType: "image/jpeg", Data: []byte("b")},
		},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if created.ID != "sr_1" || created.Status != enums.SellRequestStatusPending {
		t.Fatalf("unexpected created %+v", created)
	}
	if fields["make"] != "Toyota" || fields["model"] != "Vitz" {
		t.Fatalf("unexpected fields %v", fields)
	}
	if _, ok := fields["price"]; ok {
		t.Fatal("empty fields must not be sent")
	}
	if len(images) != 2 || images[0] != "front.png:image/png:a" || images[1] != "image-2:image/jpeg:b" {
		t.Fatalf("unexpected images %v", images)
	}
}

func TestUploadVehicleImageKeepsFilename(t *testing.T) {
	names := []string{
		"gari ya Zuri ñ.jpg",
		"front\u00a0view.jpg",
		`say "cheese".png`,
	}
	for _, name := range names {
		var gotName, gotType, gotField string
		client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
			reader, err := req.MultipartReader()
			if err != nil {
				t.Fatalf("multipart reader: %v", err)
			}
			part, err := reader.NextPart()
			if err != nil {
				t.Fatalf("next part: %v", err)
			}
			gotField, gotName, gotType = part.FormName(), part.FileName(), part.Header.Get("Content-Type")
			return jsonResponse(http.StatusOK, `{}`), nil
		})

		img := Upload{Filename: name, ContentType: "image/jpeg", Data: []byte("x")}
		if _, err := client.UploadVehicleImage(context.Background(), "v1", img, true); err != nil {
			t.Fatalf("upload %q: %v", name, err)
		}
		if gotField != "file" || gotName != name || gotType != "image/jpeg" {
			t.Fatalf("upload %q arrived as field=%q name=%q type=%q", name, gotField, gotName, gotType)
		}
	}
}

func TestLoginRequiresToken(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		var payload map[string]string
		_ = json.NewDecoder(req.Body).Decode(&payload)
		if payload["email"] != "admin@joramcars.co.ke" {
			t.Fatalf("unexpected payload %v", payload)
		}
		return jsonResponse(http.StatusOK, `{"token_type":"bearer","user":{"id":"u1"}}`), nil
	})
	if _, err := client.Login(context.Background(), " admin@joramcars.co.ke ", "secret"); !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error for missing token, got %v", err)
	}
	if _, err := client.Login(context.Background(), "", ""); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAdminMutationsHitExpectedRoutes(t *testing.T) {
	type call struct{ method, path, body string }
	var calls []call
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		var body []byte
		if req.Body != nil {
			body, _ = io.ReadAll(req.Body)
		}
		calls = append(calls, call{req.Method, req.URL.Path, string(body)})
		return jsonResponse(http.StatusOK, `{}`), nil
	})
	ctx := context.Background()

	if _, err := client.ValueSellRequest(ctx, "sr_1", decimal.NewFromInt(900000)); err != nil {
		t.Fatalf("valuation: %v", err)
	}
	if _, err := client.UpdateEnquiryStatus(ctx, "e 1", enums.EnquiryStatusContacted); err != nil {
		t.Fatalf("enquiry status: %v", err)
	}
	if _, err := client.ToggleFeatured(ctx, "v1"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if err := client.DeleteVehicleImage(ctx, "img1"); err != nil {
		t.Fatalf("delete image: %v", err)
	}

	want := []call{
		{http.MethodPatch, "/api/admin/sell-requests/sr_1/valuation", `{"valuation_amount":"900000"}`},
		{http.MethodPatch, "/api/admin/enquiries/e 1/status", `{"status":"contacted"}`},
		{http.MethodPatch, "/api/admin/vehicles/v1/feature", ``},
		{http.MethodDelete, "/api/admin/vehicles/images/img1", ``},
	}
	if len(calls) != len(want) {
		t.Fatalf("expected %d calls, got %d", len(want), len(calls))
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("call %d: got %+v want %+v", i, calls[i], want[i])
		}
	}

	if _, err := client.ValueSellRequest(ctx, "sr_1", decimal.Zero); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for zero valuation, got %v", err)
	}
	if _, err := client.UpdateSellRequestStatus(ctx, "sr_1", "lost"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for unknown status, got %v", err)
	}
	if err := client.DeleteBrand(ctx, " "); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for blank id, got %v", err)
	}
}
