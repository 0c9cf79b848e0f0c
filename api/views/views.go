package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/joramcars/dealership-web/internal/listing"
	"github.com/joramcars/dealership-web/internal/wizard"
	"github.com/joramcars/dealership-web/pkg/backend"
	"github.com/joramcars/dealership-web/pkg/enums"
	"github.com/joramcars/dealership-web/pkg/money"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	PageListing  = "listing.html"
	PageSell     = "sell.html"
	PageRecovery = "recovery.html"
)

var funcs = template.FuncMap{
	"price": func(v backend.Vehicle) string { return money.FormatPrice(v.Price, v.Currency) },
	"amount": func(raw string) string {
		amount, ok := money.ParseAmount(raw)
		if !ok {
			return raw
		}
		return money.FormatPrice(amount, money.DefaultCurrency)
	},
	"mileage": money.FormatMileage,
	"mileageText": func(raw string) string {
		km, ok := money.ParseAmount(raw)
		if !ok {
			return raw
		}
		return money.FormatMileage(int(km.IntPart()))
	},
	"conditionLabel": func(raw string) string {
		c, err := enums.ParseCondition(raw)
		if err != nil {
			return raw
		}
		return c.Label()
	},
	"selected": func(a, b string) template.HTMLAttr {
		if a == b {
			return "selected"
		}
		return ""
	},
	"stepClass": func(current, step wizard.Step) string {
		switch {
		case step < current:
			return "done"
		case step == current:
			return "active"
		}
		return "todo"
	},
}

// Renderer renders the embedded page templates.
type Renderer struct {
	pages map[string]*template.Template
}

func New() (*Renderer, error) {
	r := &Renderer{pages: map[string]*template.Template{}}
	for _, page := range []string{PageListing, PageSell, PageRecovery} {
		tmpl, err := template.New(page).Funcs(funcs).ParseFS(templateFS, "templates/base.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", page, err)
		}
		r.pages[page] = tmpl
	}
	return r, nil
}

// MustNew panics when the embedded templates do not parse.
func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

// Render executes page into a buffer first so a template failure never
// leaves a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data any) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		return fmt.Errorf("rendering %s: %w", page, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// ListingPage is the data of the vehicles listing page.
type ListingPage struct {
	View         listing.View
	Makes        []string
	BodyTypes    []enums.BodyType
	PricePresets []listing.Choice
	SortChoices  []listing.Choice
	SortValue    string
}

// NewListingPage fills the select vocabularies around view.
func NewListingPage(view listing.View) ListingPage {
	return ListingPage{
		View:         view,
		Makes:        enums.Makes,
		BodyTypes:    enums.BodyTypes(),
		PricePresets: listing.PricePresets,
		SortChoices:  listing.SortChoices,
		SortValue:    listing.SortValue(view.State),
	}
}

// CountText is the "N vehicles found" line.
func (p ListingPage) CountText() string {
	if p.View.Result.Total == 1 {
		return "1 vehicle found"
	}
	return fmt.Sprintf("%d vehicles found", p.View.Result.Total)
}

// SellPage is the data of the sell-car wizard page.
type SellPage struct {
	State         wizard.State
	Draft         *wizard.Draft
	Steps         []wizard.Step
	Makes         []string
	Conditions    []enums.Condition
	Transmissions []enums.Transmission
	FuelTypes     []enums.FuelType
	MaxImages     int
	// Error is the inline message of a rejected action; FieldErrors are keyed by form name.
	Error       string
	FieldErrors map[string]string
}

func NewSellPage(state wizard.State, draft *wizard.Draft) SellPage {
	return SellPage{
		State:         state,
		Draft:         draft,
		Steps:         wizard.Steps(),
		Makes:         enums.Makes,
		Conditions:    enums.Conditions(),
		Transmissions: enums.Transmissions(),
		FuelTypes:     enums.FuelTypes(),
		MaxImages:     wizard.MaxImages,
	}
}

// RecoveryPage is shown when a request panicked.
type RecoveryPage struct {
	HomePath  string
	HomeLabel string
	RequestID string
}

// RecoveryFor picks the safe landing page for path.
func RecoveryFor(path, requestID string) RecoveryPage {
	if path == "/admin" || strings.HasPrefix(path, "/admin/") {
		return RecoveryPage{HomePath: "/admin", HomeLabel: "Return to Dashboard", RequestID: requestID}
	}
	return RecoveryPage{HomePath: "/", HomeLabel: "Return home", RequestID: requestID}
}
