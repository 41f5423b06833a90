package middlewares

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/oauth"
	"github.com/kassemabbassi/formBuilder/httpx"
)

// CookieAuth bridges browser cookie sessions onto the bearer token scheme.
// Requests that carry no Authorization header get one from the access token
// cookie. A GET whose token is rejected is retried once after a transparent
// refresh with the refresh token cookie; other methods cannot be replayed
// after their body has been read, so they keep the 401 and the client signs
// in again. Requests with neither header nor cookies pass through untouched
// for the authorizer to judge.
func CookieAuth(bearerServer *oauth.BearerServer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "" {
				next.ServeHTTP(w, r)
				return
			}

			token, err := r.Cookie(AccessTokenCookie)
			if err != nil && !errors.Is(err, http.ErrNoCookie) {
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			hasToken := err == nil
			if hasToken {
				r.Header.Set("authorization", "Bearer "+token.Value)
			}

			// A streaming response cannot be buffered for a retry; bridge the
			// header and hand over.
			if r.Method != "GET" || strings.Contains(r.Header.Get("Accept"), "text/event-stream") {
				next.ServeHTTP(w, r)
				return
			}

			if hasToken {
				buf := httpx.NewResponseBuffer()
				next.ServeHTTP(buf, r)
				if buf.Status() != http.StatusUnauthorized {
					buf.Flush(w)
					return
				}
			}

			// token was missing or rejected: try the refresh token
			refresh, err := r.Cookie(RefreshTokenCookie)
			if err != nil {
				if !errors.Is(err, http.ErrNoCookie) {
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
				if !hasToken {
					// nothing to authenticate with at all
					next.ServeHTTP(w, r)
					return
				}
				redirectToSignIn(w, r)
				return
			}

			body := url.Values{
				"grant_type":    {"refresh_token"},
				"refresh_token": {refresh.Value},
			}
			req, err := http.NewRequest("POST", "/", strings.NewReader(body.Encode()))
			if err != nil {
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			req.Header.Set("content-type", "application/x-www-form-urlencoded")
			req.Header.Set("content-length", strconv.Itoa(len(body.Encode())))

			resp := httpx.NewResponseBuffer()
			bearerServer.UserCredentials(resp, req)
			if resp.Status() == http.StatusUnauthorized {
				clearCookie(w, RefreshTokenCookie)
				redirectToSignIn(w, r)
				return
			}
			if resp.Status() != http.StatusOK {
				http.Error(w, http.StatusText(resp.Status()), resp.Status())
				return
			}

			accessToken, ok := SetAuthCookies(w, resp.Body())
			if !ok {
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			r.Header.Set("authorization", "Bearer "+accessToken)
			next.ServeHTTP(w, r)
		})
	}
}

func redirectToSignIn(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("location", signInLocation+"?goto="+url.QueryEscape(r.RequestURI))
	w.WriteHeader(http.StatusTemporaryRedirect)
}

// SetAuthCookies mirrors an issued token response into browser cookies so
// page loads and the session lifetime guard can see them. Returns the access
// token for callers that forward it on a retried request.
func SetAuthCookies(w http.ResponseWriter, tokenResponse []byte) (string, bool) {
	var payload map[string]any
	if err := json.Unmarshal(tokenResponse, &payload); err != nil {
		return "", false
	}

	accessToken, _ := payload["access_token"].(string)
	expiresIn, _ := payload["expires_in"].(float64)
	if accessToken != "" {
		http.SetCookie(w, &http.Cookie{
			Path:     "/",
			Name:     AccessTokenCookie,
			Value:    accessToken,
			MaxAge:   int(expiresIn),
			HttpOnly: true,
		})
	}

	refreshToken, _ := payload["refresh_token"].(string)
	if refreshToken != "" {
		http.SetCookie(w, &http.Cookie{
			Path:     "/",
			Name:     RefreshTokenCookie,
			Value:    refreshToken,
			MaxAge:   int((365 * 24 * time.Hour) / time.Second),
			HttpOnly: true,
		})
	}

	return accessToken, accessToken != ""
}
