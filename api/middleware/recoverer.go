package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/joramcars/dealership-web/api/responses"
	"github.com/joramcars/dealership-web/api/views"
	pkgerrors "github.com/joramcars/dealership-web/pkg/errors"
	"github.com/joramcars/dealership-web/pkg/logger"
)

// Recoverer turns a panic into the recovery page for browsers and the error
// envelope for API clients.
func Recoverer(renderer *views.Renderer, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					err := fmt.Errorf("panic: %v", rec)
					ctx := r.Context()
					if logg != nil {
						ctx = logg.WithFields(ctx, map[string]any{"panic": rec})
						logg.Error(ctx, "panic.recovered", err)
					}
					if renderer != nil && wantsHTML(r) {
						page := views.RecoveryFor(r.URL.Path, w.Header().Get(requestIDHeader))
						if renderErr := renderer.Render(w, http.StatusInternalServerError, views.PageRecovery, page); renderErr == nil {
							return
						}
					}
					responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "panic"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func wantsHTML(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return false
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
