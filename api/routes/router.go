package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/joramcars/dealership-web/api/controllers"
	"github.com/joramcars/dealership-web/api/middleware"
	"github.com/joramcars/dealership-web/api/views"
	"github.com/joramcars/dealership-web/pkg/config"
	"github.com/joramcars/dealership-web/pkg/enums"
	"github.com/joramcars/dealership-web/pkg/kv"
	"github.com/joramcars/dealership-web/pkg/logger"
	"github.com/joramcars/dealership-web/pkg/metrics"
)

// Deps carries everything the router hands to its controllers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Renderer *views.Renderer
	Gatherer prometheus.Gatherer

	Vehicles controllers.VehicleAPI
	Public   controllers.PublicAPI
	Wizards  controllers.WizardService
	Sessions controllers.SessionService
	Store    kv.Backend
	// Limiter is nil when sign-in throttling is unavailable.
	Limiter        middleware.RateLimiter
	ListingMetrics *metrics.ListingMetrics

	AdminAPI   func(token string) controllers.AdminAPI
	ProfileAPI func(token string) controllers.ProfileAPI

	Pingers map[string]controllers.Pinger
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(deps.Renderer, logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
		middleware.Visitor(middleware.VisitorPolicy{
			CookieName: cfg.Session.VisitorCookie,
			Secure:     cfg.Session.CookieSecure,
			MaxAge:     cfg.Session.CookieMaxAge,
		}, logg),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthLimit.LoginWindow,
		cfg.AuthLimit.LoginIPLimit,
		cfg.AuthLimit.LoginEmailLimit,
	)

	listingDeps := controllers.ListingDeps{
		Fetcher:  deps.Vehicles,
		Renderer: deps.Renderer,
		Metrics:  deps.ListingMetrics,
		Logger:   logg,
	}
	sellDeps := controllers.SellDeps{
		Wizards:        deps.Wizards,
		Renderer:       deps.Renderer,
		Logger:         logg,
		MaxUploadBytes: cfg.Wizard.MaxUploadBytes(),
	}
	authDeps := controllers.AuthDeps{
		Sessions: deps.Sessions,
		Store:    deps.Store,
		Logger:   logg,
		Profile:  deps.ProfileAPI,
	}
	adminDeps := controllers.AdminDeps{API: deps.AdminAPI, Logger: logg}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Pingers))
	})
	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/vehicles", http.StatusFound)
	})
	r.Get("/vehicles", controllers.ListingPage(listingDeps))

	r.Route("/sell", func(r chi.Router) {
		r.Get("/", controllers.SellHTML(sellDeps, true, nil))
		r.Post("/resume", controllers.SellHTML(sellDeps, false, controllers.SellResume))
		r.Post("/discard", controllers.SellHTML(sellDeps, false, controllers.SellDiscard))
		r.Post("/step", controllers.SellHTML(sellDeps, false, controllers.SellStepForm))
		r.Post("/photos", controllers.SellHTML(sellDeps, false, controllers.SellAddImages(sellDeps.MaxUploadBytes)))
		r.Post("/photos/{index}/delete", controllers.SellHTML(sellDeps, false, controllers.SellRemoveImage))
		r.Post("/submit", controllers.SellHTML(sellDeps, false, controllers.SellSubmit))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/listing", func(r chi.Router) {
			r.Get("/", controllers.ListingData(listingDeps))
			r.Post("/", controllers.ListingFilter(listingDeps))
		})

		r.Route("/vehicles", func(r chi.Router) {
			r.Get("/featured", controllers.FeaturedVehicles(deps.Vehicles, logg))
			r.Get("/recent", controllers.RecentVehicles(deps.Vehicles, logg))
			r.Get("/makes", controllers.VehicleMakes(deps.Vehicles, logg))
			r.Get("/makes/{make}/models", controllers.VehicleModels(deps.Vehicles, logg))
			r.Get("/{vehicleId}", controllers.VehicleDetail(deps.Vehicles, logg))
		})

		r.Get("/brands", controllers.PublicBrands(deps.Public, logg))
		r.Get("/stats", controllers.PublicStats(deps.Public, logg))
		r.Post("/newsletter", controllers.NewsletterSubscribe(deps.Public, logg))
		r.Post("/enquiries", controllers.CreateEnquiry(deps.Public, logg))
		r.Post("/leads", controllers.CaptureLead(deps.Public, logg))

		r.Route("/sell", func(r chi.Router) {
			r.Post("/", controllers.SellJSON(sellDeps, true, nil))
			r.Get("/", controllers.SellJSON(sellDeps, false, nil))
			r.Post("/resume", controllers.SellJSON(sellDeps, false, controllers.SellResume))
			r.Post("/discard", controllers.SellJSON(sellDeps, false, controllers.SellDiscard))
			r.Patch("/fields", controllers.SellJSON(sellDeps, false, controllers.SellFieldsJSON))
			r.Post("/next", controllers.SellJSON(sellDeps, false, controllers.SellNext))
			r.Post("/previous", controllers.SellJSON(sellDeps, false, controllers.SellPrevious))
			r.Post("/images", controllers.SellJSON(sellDeps, false, controllers.SellAddImages(sellDeps.MaxUploadBytes)))
			r.Delete("/images/{index}", controllers.SellJSON(sellDeps, false, controllers.SellRemoveImage))
			r.Post("/submit", controllers.SellJSON(sellDeps, false, controllers.SellSubmit))
		})

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(loginPolicy, deps.Limiter, logg)).Post("/login", controllers.AuthLogin(authDeps))
			r.Post("/logout", controllers.AuthLogout(authDeps))
			r.Get("/me", controllers.AuthMe(authDeps))
			r.With(middleware.RequireSession(deps.Sessions, deps.Store, logg)).Put("/profile", controllers.AuthUpdateProfile(authDeps))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireSession(deps.Sessions, deps.Store, logg))

			r.Get("/dashboard", controllers.Admin(adminDeps, controllers.AdminDashboard))

			r.Route("/vehicles", func(r chi.Router) {
				r.Get("/", controllers.Admin(adminDeps, controllers.AdminListVehicles))
				r.Post("/", controllers.Admin(adminDeps, controllers.AdminCreateVehicle))
				r.Delete("/images/{imageId}", controllers.Admin(adminDeps, controllers.AdminDeleteVehicleImage))
				r.Get("/{vehicleId}", controllers.Admin(adminDeps, controllers.AdminGetVehicle))
				r.Put("/{vehicleId}", controllers.Admin(adminDeps, controllers.AdminUpdateVehicle))
				r.Delete("/{vehicleId}", controllers.Admin(adminDeps, controllers.AdminDeleteVehicle))
				r.Post("/{vehicleId}/feature", controllers.Admin(adminDeps, controllers.AdminToggleFeatured))
				r.Post("/{vehicleId}/images", controllers.Admin(adminDeps, controllers.AdminUploadVehicleImage))
			})

			r.Route("/enquiries", func(r chi.Router) {
				r.Get("/", controllers.Admin(adminDeps, controllers.AdminListEnquiries))
				r.Patch("/{enquiryId}/status", controllers.Admin(adminDeps, controllers.AdminUpdateEnquiryStatus))
				r.Delete("/{enquiryId}", controllers.Admin(adminDeps, controllers.AdminDeleteEnquiry))
			})

			r.Route("/sell-requests", func(r chi.Router) {
				r.Get("/", controllers.Admin(adminDeps, controllers.AdminListSellRequests))
				r.Patch("/{sellRequestId}/status", controllers.Admin(adminDeps, controllers.AdminUpdateSellRequestStatus))
				r.Patch("/{sellRequestId}/valuation", controllers.Admin(adminDeps, controllers.AdminValueSellRequest))
			})

			r.Route("/brands", func(r chi.Router) {
				r.Get("/", controllers.Admin(adminDeps, controllers.AdminListBrands))
				r.Post("/", controllers.Admin(adminDeps, controllers.AdminCreateBrand))
				r.Put("/{brandId}", controllers.Admin(adminDeps, controllers.AdminUpdateBrand))
				r.Delete("/{brandId}", controllers.Admin(adminDeps, controllers.AdminDeleteBrand))
			})

			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.UserRoleAdmin.String(), logg))
				r.Get("/", controllers.Admin(adminDeps, controllers.AdminListUsers))
				r.Post("/", controllers.Admin(adminDeps, controllers.AdminCreateUser))
				r.Put("/{userId}", controllers.Admin(adminDeps, controllers.AdminUpdateUser))
			})
		})
	})

	return r
}
