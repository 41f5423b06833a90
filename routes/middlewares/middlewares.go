package middlewares

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/oauth"
	"github.com/kassemabbassi/formBuilder/config"
	"github.com/kassemabbassi/formBuilder/httpx"
	"github.com/kassemabbassi/formBuilder/log"
)

type contextKey string

// UserIDContext carries the authenticated user's durable id.
const UserIDContext contextKey = "user_id"

// Creator authorizes dashboard API requests: the bearer token must verify
// and carry a user id claim. When no token secret is configured the
// middleware is a logged pass-through; requests then run without an identity
// and ownership checks reject everything, which beats locking the whole
// server out over a missing env var.
func Creator(cfg config.Config) func(http.Handler) http.Handler {
	if !cfg.AuthEnabled() {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				log.Warn("auth.disabled: no token secret configured, request proceeds unauthenticated")
				next.ServeHTTP(w, r)
			})
		}
	}
	return func(next http.Handler) http.Handler {
		return chi.Chain(oauth.Authorize(cfg.TokenSecret, nil), creator).Handler(next)
	}
}

func creator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := r.Context().Value(oauth.ClaimsContext).(map[string]string)
		if !ok {
			httpx.LogStatus(w, http.StatusUnauthorized, log.DebugLevel, "auth.claims_missing")
			return
		}

		userID := claims["user_id"]
		if userID == "" {
			httpx.LogStatus(w, http.StatusUnauthorized, log.DebugLevel, "auth.user_id_missing")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDContext, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID extracts the authenticated user's id from the request context, or
// "" when the request carries no identity.
func UserID(r *http.Request) string {
	id, _ := r.Context().Value(UserIDContext).(string)
	return id
}
