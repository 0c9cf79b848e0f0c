package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/joramcars/dealership-web/api/middleware"
	"github.com/joramcars/dealership-web/api/responses"
	"github.com/joramcars/dealership-web/api/validators"
	"github.com/joramcars/dealership-web/pkg/auth/session"
	"github.com/joramcars/dealership-web/pkg/backend"
	pkgerrors "github.com/joramcars/dealership-web/pkg/errors"
	"github.com/joramcars/dealership-web/pkg/kv"
	"github.com/joramcars/dealership-web/pkg/logger"
)

// SessionService signs admins in and out of a visitor's store.
type SessionService interface {
	Login(ctx context.Context, store kv.Store, email, password string) (*session.Session, error)
	Logout(ctx context.Context, store kv.Store)
	Current(ctx context.Context, store kv.Store) (*session.Session, error)
}

// ProfileAPI updates the signed-in user's own account.
type ProfileAPI interface {
	UpdateProfile(ctx context.Context, in backend.UserInput) (*backend.User, error)
}

// AuthDeps are shared by the sign-in handlers.
type AuthDeps struct {
	Sessions SessionService
	Store    kv.Backend
	Logger   *logger.Logger
	// Profile returns the API bound to the caller's bearer token.
	Profile func(token string) ProfileAPI
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (d AuthDeps) visitorStore(ctx context.Context) (kv.Store, error) {
	visitorID := middleware.VisitorIDFromContext(ctx)
	if visitorID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing visitor")
	}
	return kv.ForVisitor(d.Store, visitorID), nil
}

func AuthLogin(deps AuthDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var body loginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, deps.Logger, w, err)
			return
		}
		store, err := deps.visitorStore(ctx)
		if err != nil {
			responses.WriteError(ctx, deps.Logger, w, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(body.Email))
		sess, err := deps.Sessions.Login(ctx, store, email, body.Password)
		if err != nil {
			responses.WriteError(ctx, deps.Logger, w, err)
			return
		}
		if deps.Logger != nil {
			ctx = deps.Logger.WithUserID(ctx, sess.User.ID)
			deps.Logger.Info(ctx, "admin signed in")
		}
		responses.WriteSuccess(w, sess.User)
	}
}

func AuthLogout(deps AuthDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		store, err := deps.visitorStore(ctx)
		if err != nil {
			responses.WriteError(ctx, deps.Logger, w, err)
			return
		}
		deps.Sessions.Logout(ctx, store)
		w.WriteHeader(http.StatusNoContent)
	}
}

func AuthMe(deps AuthDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		store, err := deps.visitorStore(ctx)
		if err != nil {
			responses.WriteError(ctx, deps.Logger, w, err)
			return
		}
		sess, err := deps.Sessions.Current(ctx, store)
		if err != nil {
			responses.WriteError(ctx, deps.Logger, w, err)
			return
		}
		if sess == nil {
			responses.WriteError(ctx, deps.Logger, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "please sign in"))
			return
		}
		responses.WriteSuccess(w, sess.User)
	}
}

// AuthUpdateProfile runs behind RequireSession. Role and active flags cannot
// be changed from here.
func AuthUpdateProfile(deps AuthDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sess := middleware.SessionFromContext(ctx)
		if sess == nil {
			responses.WriteError(ctx, deps.Logger, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "please sign in"))
			return
		}
		var body backend.UserInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, deps.Logger, w, err)
			return
		}
		body.Role = nil
		body.IsActive = nil
		body.FullName = validators.SanitizeString(body.FullName, 100)

		user, err := deps.Profile(sess.Token).UpdateProfile(ctx, body)
		if err != nil {
			responses.WriteError(ctx, deps.Logger, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}
