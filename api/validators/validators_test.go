package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	pkgerrors "github.com/joramcars/dealership-web/pkg/errors"
)

type loginBody struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func TestDecodeJSONBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.co","password":"pw"}`))
	var body loginBody
	if err := DecodeJSONBody(req, &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Email != "a@b.co" {
		t.Fatalf("unexpected body %#v", body)
	}
}

func TestDecodeJSONBodyRejects(t *testing.T) {
	cases := map[string]string{
		"unknown field": `{"email":"a@b.co","password":"pw","admin":true}`,
		"bad email":     `{"email":"nope","password":"pw"}`,
		"not json":      `{`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(raw))
			var body loginBody
			if err := DecodeJSONBody(req, &body); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestParseQueryHelpers(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?page=3&featured=true&limit=abc", nil)
	if page, err := ParseQueryInt(req, "page", 1, 1, 100); err != nil || page != 3 {
		t.Fatalf("expected page 3, got %d, %v", page, err)
	}
	if _, err := ParseQueryInt(req, "limit", 20, 1, 100); err == nil {
		t.Fatal("expected non-numeric limit to fail")
	}
	if def, err := ParseQueryInt(req, "missing", 20, 1, 100); err != nil || def != 20 {
		t.Fatalf("expected default, got %d, %v", def, err)
	}
	featured, err := ParseQueryBool(req, "featured")
	if err != nil || featured == nil || !*featured {
		t.Fatalf("expected featured=true, got %v, %v", featured, err)
	}
	if absent, _ := ParseQueryBool(req, "missing"); absent != nil {
		t.Fatal("expected nil for absent bool")
	}
}

func TestPathInt(t *testing.T) {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("index", "2")
	rctx.URLParams.Add("bad", "-1")
	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	if idx, err := PathInt(req, "index"); err != nil || idx != 2 {
		t.Fatalf("expected 2, got %d, %v", idx, err)
	}
	if _, err := PathInt(req, "bad"); err == nil {
		t.Fatal("expected negative index to fail")
	}
	if _, err := PathParam(req, "missing"); err == nil {
		t.Fatal("expected missing param to fail")
	}
}
