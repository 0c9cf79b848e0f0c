package controllers

import (
	"context"
	"net/http"

	"github.com/joramcars/dealership-web/api/responses"
	"github.com/joramcars/dealership-web/api/validators"
	"github.com/joramcars/dealership-web/pkg/backend"
	"github.com/joramcars/dealership-web/pkg/logger"
)

// PublicAPI is the unauthenticated non-vehicle surface of the dealership API.
type PublicAPI interface {
	Brands(ctx context.Context) ([]backend.Brand, error)
	PublicStats(ctx context.Context) (*backend.PublicStats, error)
	SubscribeNewsletter(ctx context.Context, email string) (*backend.Message, error)
	CreateEnquiry(ctx context.Context, in backend.EnquiryInput) (*backend.Enquiry, error)
	CaptureLead(ctx context.Context, in backend.LeadInput) (*backend.LeadResult, error)
}

func PublicBrands(api PublicAPI, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		brands, err := api.Brands(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, brands)
	}
}

func PublicStats(api PublicAPI, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := api.PublicStats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

type newsletterRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func NewsletterSubscribe(api PublicAPI, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body newsletterRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		msg, err := api.SubscribeNewsletter(r.Context(), validators.SanitizeString(body.Email, 255))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, msg)
	}
}

func CreateEnquiry(api PublicAPI, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body backend.EnquiryInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		body.Message = validators.SanitizeString(body.Message, 2000)
		enquiry, err := api.CreateEnquiry(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, enquiry)
	}
}

func CaptureLead(api PublicAPI, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body backend.LeadInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		body.Message = validators.SanitizeString(body.Message, 2000)
		lead, err := api.CaptureLead(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, lead)
	}
}
