package middleware

import (
	"context"
	"net/http"

	"github.com/joramcars/dealership-web/api/responses"
	"github.com/joramcars/dealership-web/pkg/auth/session"
	pkgerrors "github.com/joramcars/dealership-web/pkg/errors"
	"github.com/joramcars/dealership-web/pkg/kv"
	"github.com/joramcars/dealership-web/pkg/logger"
)

// SessionReader resolves the stored admin session of a visitor.
type SessionReader interface {
	Current(ctx context.Context, store kv.Store) (*session.Session, error)
}

// RequireSession loads the visitor's admin session and rejects the request
// when there is none.
func RequireSession(sessions SessionReader, store kv.Backend, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			visitorID := VisitorIDFromContext(ctx)
			if visitorID == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing visitor"))
				return
			}

			sess, err := sessions.Current(ctx, kv.ForVisitor(store, visitorID))
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			if sess == nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "please sign in"))
				return
			}

			ctx = WithSession(ctx, sess)
			if logg != nil {
				ctx = logg.WithUserID(ctx, sess.User.ID)
				ctx = logg.WithActorRole(ctx, sess.User.Role.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
