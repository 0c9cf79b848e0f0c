package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/joramcars/dealership-web/api/responses"
	"github.com/joramcars/dealership-web/api/validators"
	"github.com/joramcars/dealership-web/api/views"
	"github.com/joramcars/dealership-web/internal/listing"
	"github.com/joramcars/dealership-web/pkg/backend"
	pkgerrors "github.com/joramcars/dealership-web/pkg/errors"
	"github.com/joramcars/dealership-web/pkg/logger"
	"github.com/joramcars/dealership-web/pkg/metrics"
	"github.com/joramcars/dealership-web/pkg/types"
)

// sortChoiceParam is the combined sort select of the listing form.
const sortChoiceParam = "sort_choice"

// VehicleAPI is the public vehicle surface of the dealership API.
type VehicleAPI interface {
	listing.Fetcher
	GetVehicle(ctx context.Context, id string) (*backend.Vehicle, error)
	FeaturedVehicles(ctx context.Context, limit int) ([]backend.Vehicle, error)
	RecentVehicles(ctx context.Context, limit int) ([]backend.Vehicle, error)
	Makes(ctx context.Context) ([]string, error)
	Models(ctx context.Context, vehicleMake string) ([]string, error)
}

// ListingDeps are shared by the listing handlers.
type ListingDeps struct {
	Fetcher  listing.Fetcher
	Renderer *views.Renderer
	Metrics  *metrics.ListingMetrics
	Logger   *logger.Logger
}

func (d ListingDeps) mount(ctx context.Context, loc listing.Location, opts ...listing.Option) *listing.Synchronizer {
	opts = append([]listing.Option{listing.WithLogger(d.Logger), listing.WithMetrics(d.Metrics)}, opts...)
	return listing.NewSynchronizer(ctx, d.Fetcher, loc, opts...)
}

// ListingPage renders /vehicles for the query in the URL. A submitted sort
// select is folded into sort and order and the browser is sent to the
// canonical URL.
func ListingPage(deps ListingDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if choice := strings.TrimSpace(r.URL.Query().Get(sortChoiceParam)); choice != "" {
			state := listing.Parse(r.URL.RawQuery)
			for key, value := range listing.SortPatch(choice) {
				var err error
				if state, err = state.With(key, value); err != nil {
					responses.WriteError(ctx, deps.Logger, w, err)
					return
				}
			}
			target := "/vehicles"
			if q := listing.Serialize(state); q != "" {
				target += "?" + q
			}
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}

		sync := deps.mount(ctx, listing.NewStaticLocation(r.URL.RawQuery))
		defer sync.Close()
		sync.Wait()
		if err := deps.Renderer.Render(w, http.StatusOK, views.PageListing, views.NewListingPage(sync.View())); err != nil {
			responses.WriteError(ctx, deps.Logger, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render listing"))
		}
	}
}

type listingPayload struct {
	Query   string              `json:"query"`
	Filters listing.FilterState `json:"filters"`
	Items   []backend.Vehicle   `json:"items"`
	Total   int                 `json:"total"`

	// Loaded is false when the load failed. Items are then empty and clients
	// keep showing the listing they already have.
	Loaded bool   `json:"loaded"`
	Error  string `json:"error,omitempty"`
}

func newListingPayload(view listing.View) listingPayload {
	items := view.Result.Items
	if items == nil {
		items = []backend.Vehicle{}
	}
	p := listingPayload{Query: view.Query, Filters: view.State, Items: items, Total: view.Result.Total, Loaded: view.Loaded}
	if view.Err != nil {
		p.Error = "We could not load vehicles right now. Please try again."
	}
	return p
}

// ListingData returns the listing for the query in the URL as JSON.
func ListingData(deps ListingDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sync := deps.mount(r.Context(), listing.NewStaticLocation(r.URL.RawQuery))
		defer sync.Close()
		sync.Wait()
		responses.WriteSuccess(w, newListingPayload(sync.View()))
	}
}

type listingFilterRequest struct {
	Query string            `json:"query"`
	Key   string            `json:"key,omitempty"`
	Value string            `json:"value"`
	Patch map[string]string `json:"patch,omitempty"`
	Clear bool              `json:"clear,omitempty"`
}

// ListingFilter applies one filter edit to the given query and returns the
// new canonical query alongside the refreshed listing. Only the edit loads;
// the posted query is parsed, never fetched. Clients write the returned query
// back into their address bar without adding history.
func ListingFilter(deps ListingDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var body listingFilterRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, deps.Logger, w, err)
			return
		}

		loc := listing.NewStaticLocation(strings.TrimPrefix(body.Query, "?"))
		sync := deps.mount(ctx, loc, listing.WithoutInitialFetch())
		defer sync.Close()

		var err error
		switch {
		case body.Clear:
			sync.ClearFilters()
		case body.Key == sortChoiceParam:
			err = sync.UpdateFilters(listing.SortPatch(body.Value))
		case body.Key != "":
			err = sync.UpdateFilter(body.Key, body.Value)
		case len(body.Patch) > 0:
			err = sync.UpdateFilters(body.Patch)
		default:
			err = pkgerrors.New(pkgerrors.CodeValidation, "key, patch or clear is required")
		}
		if err != nil {
			responses.WriteError(ctx, deps.Logger, w, err)
			return
		}

		sync.Wait()
		responses.WriteSuccess(w, newListingPayload(sync.View()))
	}
}

func VehicleDetail(api VehicleAPI, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathParam(r, "vehicleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		vehicle, err := api.GetVehicle(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, vehicle)
	}
}

func FeaturedVehicles(api VehicleAPI, logg *logger.Logger) http.HandlerFunc {
	return vehicleStrip(api.FeaturedVehicles, logg)
}

func RecentVehicles(api VehicleAPI, logg *logger.Logger) http.HandlerFunc {
	return vehicleStrip(api.RecentVehicles, logg)
}

func vehicleStrip(fetch func(context.Context, int) ([]backend.Vehicle, error), logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 8, 1, 50)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		items, err := fetch(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePage(w, items, types.PageMeta{Total: len(items), Limit: limit})
	}
}

func VehicleMakes(api VehicleAPI, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		makes, err := api.Makes(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, makes)
	}
}

func VehicleModels(api VehicleAPI, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vehicleMake, err := validators.PathParam(r, "make")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		models, err := api.Models(r.Context(), vehicleMake)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, models)
	}
}
