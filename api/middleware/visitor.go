package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joramcars/dealership-web/pkg/logger"
)

// VisitorPolicy configures the anonymous visitor cookie.
type VisitorPolicy struct {
	CookieName string
	Secure     bool
	MaxAge     time.Duration
}

// Visitor makes sure every request carries a visitor id, issuing a cookie on
// first contact. Drafts and sessions are stored under this id.
func Visitor(policy VisitorPolicy, logg *logger.Logger) func(http.Handler) http.Handler {
	name := strings.TrimSpace(policy.CookieName)
	if name == "" {
		name = "jc_vid"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			visitorID := ""
			if cookie, err := r.Cookie(name); err == nil {
				if parsed, parseErr := uuid.Parse(cookie.Value); parseErr == nil {
					visitorID = parsed.String()
				}
			}
			if visitorID == "" {
				visitorID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     name,
					Value:    visitorID,
					Path:     "/",
					MaxAge:   int(policy.MaxAge.Seconds()),
					HttpOnly: true,
					Secure:   policy.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := WithVisitorID(r.Context(), visitorID)
			if logg != nil {
				ctx = logg.WithVisitorID(ctx, visitorID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
