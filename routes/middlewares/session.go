package middlewares

import (
	"net/http"
	"strconv"
	"time"

	"github.com/kassemabbassi/formBuilder/config"
	"github.com/kassemabbassi/formBuilder/log"
)

// SessionMarkerCookie records when the authenticated session began. It is
// the application's own ceiling on session age, independent of whatever
// lifetime the auth tokens themselves carry.
const SessionMarkerCookie = "app_session_started_at"

// AccessTokenCookie and RefreshTokenCookie are the browser-session auth
// cookies set at login.
const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

const signInLocation = "/auth/signin"

// SessionLifetime enforces a hard cap on authenticated session age. On every
// request carrying an access token: set the marker cookie if absent; if the
// marker says the session is older than the cap, clear all auth cookies plus
// the marker and redirect to sign-in, regardless of token validity. Requests
// without an access token just get a stale marker cleaned up. With no token
// secret configured the guard is disabled (fail open) and says so once per
// request at debug level.
func SessionLifetime(cfg config.Config) func(http.Handler) http.Handler {
	return sessionLifetime(cfg, time.Now)
}

func sessionLifetime(cfg config.Config, now func() time.Time) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.AuthEnabled() {
				log.Debug("session_guard.disabled: no token secret configured")
				next.ServeHTTP(w, r)
				return
			}

			_, err := r.Cookie(AccessTokenCookie)
			authenticated := err == nil

			marker, err := r.Cookie(SessionMarkerCookie)
			hasMarker := err == nil

			if !authenticated {
				if hasMarker {
					clearCookie(w, SessionMarkerCookie)
				}
				next.ServeHTTP(w, r)
				return
			}

			if !hasMarker {
				http.SetCookie(w, &http.Cookie{
					Name:     SessionMarkerCookie,
					Value:    strconv.FormatInt(now().UnixMilli(), 10),
					Path:     "/",
					HttpOnly: true,
					MaxAge:   int(cfg.SessionCap / time.Second),
				})
				next.ServeHTTP(w, r)
				return
			}

			startedAt, err := strconv.ParseInt(marker.Value, 10, 64)
			if err == nil && now().Sub(time.UnixMilli(startedAt)) > cfg.SessionCap {
				// Session exceeded the cap: clear everything and redirect
				// to sign-in, silently.
				clearCookie(w, AccessTokenCookie)
				clearCookie(w, RefreshTokenCookie)
				clearCookie(w, SessionMarkerCookie)
				http.Redirect(w, r, signInLocation, http.StatusTemporaryRedirect)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
