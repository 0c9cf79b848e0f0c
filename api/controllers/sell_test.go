package controllers

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/joramcars/dealership-web/api/views"
	"github.com/joramcars/dealership-web/internal/wizard"
	"github.com/joramcars/dealership-web/pkg/backend"
	"github.com/joramcars/dealership-web/pkg/kv"
)

const sellVisitor = "0b0f5a3e-2f6d-4f59-9a55-1f1f3c9b7a10"

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type stubSubmitter struct {
	mu   sync.Mutex
	subs []backend.SellRequestSubmission
	err  error
}

func (s *stubSubmitter) SubmitSellRequest(_ context.Context, sub backend.SellRequestSubmission) (*backend.SellRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, sub)
	if s.err != nil {
		return nil, s.err
	}
	return &backend.SellRequest{ID: "sr-1", VehicleMake: sub.Fields["make"]}, nil
}

type sellHarness struct {
	deps      SellDeps
	service   *wizard.Service
	store     *kv.MemoryStore
	submitter *stubSubmitter
}

func newSellHarness(t *testing.T) *sellHarness {
	t.Helper()
	store := kv.NewMemoryStore()
	submitter := &stubSubmitter{}
	svc, err := wizard.NewService(wizard.ServiceParams{Store: store, Submitter: submitter, SuccessPath: "/thanks"})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &sellHarness{
		deps:      SellDeps{Wizards: svc, Renderer: views.MustNew(), MaxUploadBytes: 1 << 20},
		service:   svc,
		store:     store,
		submitter: submitter,
	}
}

func (h *sellHarness) live(t *testing.T) *wizard.Wizard {
	t.Helper()
	w, _, err := h.service.Live(context.Background(), sellVisitor)
	if err != nil {
		t.Fatalf("live wizard: %v", err)
	}
	return w
}

// toReview fills every required field and walks the live wizard to the last step.
func (h *sellHarness) toReview(t *testing.T) *wizard.Wizard {
	t.Helper()
	ctx := context.Background()
	w := h.live(t)
	if _, err := w.SetFields(ctx, map[string]string{
		"make": "Toyota", "model": "Axio", "year": "2015", "mileage": "90000",
		"user_name": "Wanjiku", "user_phone": "0712345678",
	}); err != nil {
		t.Fatalf("set fields: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := w.Next(ctx); err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
	}
	return w
}

type sellResponse struct {
	State   wizard.State   `json:"state"`
	Draft   *wizard.Draft  `json:"draft"`
	Effects wizard.Effects `json:"effects"`
}

func TestSellJSONEditAndAdvance(t *testing.T) {
	h := newSellHarness(t)

	resp := serve(SellJSON(h.deps, true, nil), asVisitor(httptest.NewRequest(http.MethodPost, "/api/sell", nil), sellVisitor))
	var mounted sellResponse
	decodeEnvelope(t, resp, &mounted)
	if mounted.State.Step != wizard.StepDetails || mounted.Draft != nil {
		t.Fatalf("unexpected mount %+v", mounted)
	}

	body := jsonBody(t, map[string]any{"fields": map[string]string{"make": "Toyota", "model": "Axio", "year": "2015", "mileage": "90000"}})
	resp = serve(SellJSON(h.deps, false, SellFieldsJSON), asVisitor(httptest.NewRequest(http.MethodPatch, "/api/sell/fields", body), sellVisitor))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	resp = serve(SellJSON(h.deps, false, SellNext), asVisitor(httptest.NewRequest(http.MethodPost, "/api/sell/next", nil), sellVisitor))
	var advanced sellResponse
	decodeEnvelope(t, resp, &advanced)
	if advanced.State.Step != wizard.StepPhotos {
		t.Fatalf("expected photos step, got %d", advanced.State.Step)
	}
	if !advanced.Effects.ScrollToTop {
		t.Fatal("expected scroll to top effect")
	}
	if _, err := h.store.Get(context.Background(), "visitor:"+sellVisitor+":"+wizard.DraftKey); err != nil {
		t.Fatalf("expected draft to be saved: %v", err)
	}
}

func TestSellJSONNextValidatesTheStep(t *testing.T) {
	h := newSellHarness(t)

	resp := serve(SellJSON(h.deps, false, SellNext), asVisitor(httptest.NewRequest(http.MethodPost, "/api/sell/next", nil), sellVisitor))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	env := decodeEnvelope(t, resp, nil)
	if !strings.Contains(string(env.Error.Details), "make") {
		t.Fatalf("expected field details, got %s", env.Error.Details)
	}
	if h.live(t).State().Step != wizard.StepDetails {
		t.Fatal("step must not change on a failed advance")
	}
}

func TestSellJSONRequiresVisitor(t *testing.T) {
	h := newSellHarness(t)

	resp := serve(SellJSON(h.deps, true, nil), httptest.NewRequest(http.MethodPost, "/api/sell", nil))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestSellMountOffersStoredDraft(t *testing.T) {
	h := newSellHarness(t)
	ctx := context.Background()
	w := h.live(t)
	if _, err := w.SetFields(ctx, map[string]string{"make": "Mazda"}); err != nil {
		t.Fatalf("set fields: %v", err)
	}

	resp := serve(SellJSON(h.deps, true, nil), asVisitor(httptest.NewRequest(http.MethodPost, "/api/sell", nil), sellVisitor))
	var mounted sellResponse
	decodeEnvelope(t, resp, &mounted)
	if mounted.Draft == nil || mounted.Draft.Fields.Make != "Mazda" {
		t.Fatalf("expected the stored draft to be offered, got %+v", mounted.Draft)
	}
	if mounted.State.Fields.Make != "" {
		t.Fatal("a remount must start from a fresh form")
	}

	resp = serve(SellJSON(h.deps, false, SellResume), asVisitor(httptest.NewRequest(http.MethodPost, "/api/sell/resume", nil), sellVisitor))
	var resumed sellResponse
	decodeEnvelope(t, resp, &resumed)
	if resumed.State.Fields.Make != "Mazda" || resumed.Draft != nil {
		t.Fatalf("unexpected resume %+v", resumed)
	}
}

func TestSellStepFormSavesFieldsAndMoves(t *testing.T) {
	h := newSellHarness(t)
	form := url.Values{
		"make":      {"Toyota"},
		"model":     {"Axio"},
		"year":      {"2015"},
		"mileage":   {"90000"},
		"unknown":   {"ignored"},
		"direction": {"next"},
	}
	req := httptest.NewRequest(http.MethodPost, "/sell/step", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp := serve(SellHTML(h.deps, false, SellStepForm), asVisitor(req, sellVisitor))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "Upload Photos") {
		t.Fatal("expected the photos step to render")
	}
	if state := h.live(t).State(); state.Step != wizard.StepPhotos || state.Fields.Model != "Axio" {
		t.Fatalf("unexpected state %+v", state)
	}
}

func TestSellStepFormRerendersWithErrors(t *testing.T) {
	h := newSellHarness(t)
	form := url.Values{"make": {"Toyota"}, "direction": {"next"}}
	req := httptest.NewRequest(http.MethodPost, "/sell/step", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp := serve(SellHTML(h.deps, false, SellStepForm), asVisitor(req, sellVisitor))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	state := h.live(t).State()
	if state.Step != wizard.StepDetails || state.Fields.Make != "Toyota" {
		t.Fatalf("fields must be kept when the move is refused, got %+v", state)
	}
}

func TestSellSubmitRedirectsOnSuccess(t *testing.T) {
	h := newSellHarness(t)
	h.toReview(t)

	req := httptest.NewRequest(http.MethodPost, "/sell/submit", nil)
	resp := serve(SellHTML(h.deps, false, SellSubmit), asVisitor(req, sellVisitor))
	if resp.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 got %d", resp.Code)
	}
	if loc := resp.Header().Get("Location"); loc != "/thanks" {
		t.Fatalf("unexpected redirect %q", loc)
	}
	if len(h.submitter.subs) != 1 || h.submitter.subs[0].Fields["make"] != "Toyota" {
		t.Fatalf("unexpected submissions %+v", h.submitter.subs)
	}
	if _, err := h.store.Get(context.Background(), "visitor:"+sellVisitor+":"+wizard.DraftKey); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("expected draft to be removed, got %v", err)
	}
}

func TestSellSubmitFailureKeepsTheForm(t *testing.T) {
	h := newSellHarness(t)
	h.toReview(t)
	h.submitter.err = errors.New("backend down")

	resp := serve(SellJSON(h.deps, false, SellSubmit), asVisitor(httptest.NewRequest(http.MethodPost, "/api/sell/submit", nil), sellVisitor))
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
	state := h.live(t).State()
	if state.Step != wizard.StepReview || state.Completed || state.Fields.Make != "Toyota" {
		t.Fatalf("unexpected state after failure %+v", state)
	}
}

func TestSellImagesUploadAndRemove(t *testing.T) {
	h := newSellHarness(t)
	ctx := context.Background()
	w := h.live(t)
	if _, err := w.SetFields(ctx, map[string]string{"make": "Toyota", "model": "Axio", "year": "2015", "mileage": "90000"}); err != nil {
		t.Fatalf("set fields: %v", err)
	}
	if _, err := w.Next(ctx); err != nil {
		t.Fatalf("next: %v", err)
	}

	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for _, name := range []string{"front.png", "back.png"} {
		part, err := mw.CreateFormFile(sellImagesField, name)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write(pngBytes); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/sell/images", buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp := serve(SellJSON(h.deps, false, SellAddImages(h.deps.MaxUploadBytes)), asVisitor(req, sellVisitor))
	var uploaded sellResponse
	decodeEnvelope(t, resp, &uploaded)
	if len(uploaded.State.Images) != 2 || uploaded.State.Images[0].ContentType != "image/png" {
		t.Fatalf("unexpected images %+v", uploaded.State.Images)
	}

	r := chi.NewRouter()
	r.Delete("/api/sell/images/{index}", SellJSON(h.deps, false, SellRemoveImage))
	resp = serve(r, asVisitor(httptest.NewRequest(http.MethodDelete, "/api/sell/images/0", nil), sellVisitor))
	var removed sellResponse
	decodeEnvelope(t, resp, &removed)
	if len(removed.State.Images) != 1 || removed.State.Images[0].Filename != "back.png" {
		t.Fatalf("unexpected images after removal %+v", removed.State.Images)
	}

	resp = serve(r, asVisitor(httptest.NewRequest(http.MethodDelete, "/api/sell/images/5", nil), sellVisitor))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a missing photo, got %d", resp.Code)
	}
}

func TestSellPageMountsFresh(t *testing.T) {
	h := newSellHarness(t)
	h.toReview(t)

	resp := serve(SellHTML(h.deps, true, nil), asVisitor(httptest.NewRequest(http.MethodGet, "/sell", nil), sellVisitor))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	state := h.live(t).State()
	if state.Step != wizard.StepDetails || state.Fields.Make != "" {
		t.Fatalf("reloading the page must start a fresh form, got %+v", state)
	}
	if !state.DraftPending {
		t.Fatal("expected the saved draft to be offered after reload")
	}
}
