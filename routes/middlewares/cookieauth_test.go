package middlewares

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/oauth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct{}

func (fakeVerifier) ValidateUser(username, password, scope string, r *http.Request) error {
	return nil
}

func (fakeVerifier) ValidateClient(clientID, clientSecret, scope string, r *http.Request) error {
	return errors.New("not supported")
}

func (fakeVerifier) StoreTokenID(tokenType oauth.TokenType, credential, tokenID, refreshTokenID string) error {
	return nil
}

func (fakeVerifier) ValidateTokenID(tokenType oauth.TokenType, credential, tokenID, refreshTokenID string) error {
	return nil
}

func (fakeVerifier) AddClaims(tokenType oauth.TokenType, credential, tokenID, scope string, r *http.Request) (map[string]string, error) {
	return map[string]string{}, nil
}

func (fakeVerifier) AddProperties(tokenType oauth.TokenType, credential, tokenID, scope string, r *http.Request) (map[string]string, error) {
	return map[string]string{}, nil
}

func runCookieAuth(t *testing.T, bearerServer *oauth.BearerServer, next http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	CookieAuth(bearerServer)(next).ServeHTTP(w, r)
	return w
}

func TestCookieAuthBridgesAccessCookie(t *testing.T) {
	var seenAuth string
	next := func(w http.ResponseWriter, r *http.Request) {
		seenAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("dashboard"))
	}

	r := httptest.NewRequest("GET", "/api/admin/events", nil)
	r.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "tok"})

	w := runCookieAuth(t, nil, next, r)

	assert.Equal(t, "Bearer tok", seenAuth)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "dashboard", w.Body.String())
}

func TestCookieAuthLeavesExistingHeaderAlone(t *testing.T) {
	var seenAuth string
	next := func(w http.ResponseWriter, r *http.Request) {
		seenAuth = r.Header.Get("Authorization")
	}

	r := httptest.NewRequest("GET", "/api/admin/events", nil)
	r.Header.Set("Authorization", "Bearer from-client")
	r.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "from-cookie"})

	runCookieAuth(t, nil, next, r)
	assert.Equal(t, "Bearer from-client", seenAuth)
}

func TestCookieAuthPassesThroughWithoutCredentials(t *testing.T) {
	reached := false
	next := func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusUnauthorized)
	}

	r := httptest.NewRequest("GET", "/api/admin/events", nil)
	w := runCookieAuth(t, nil, next, r)

	assert.True(t, reached)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "no cookies means no redirect, the authorizer decides")
}

func TestCookieAuthNonGETBridgesWithoutRetry(t *testing.T) {
	var seenAuth string
	next := func(w http.ResponseWriter, r *http.Request) {
		seenAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusUnauthorized)
	}

	r := httptest.NewRequest("POST", "/api/admin/events", strings.NewReader("{}"))
	r.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "stale"})
	r.AddCookie(&http.Cookie{Name: RefreshTokenCookie, Value: "refresh"})

	w := runCookieAuth(t, nil, next, r)

	assert.Equal(t, "Bearer stale", seenAuth)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "a consumed body cannot be replayed after refresh")
}

func TestCookieAuthRejectedTokenWithoutRefreshRedirects(t *testing.T) {
	next := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}

	r := httptest.NewRequest("GET", "/api/admin/events?page=2", nil)
	r.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "stale"})

	w := runCookieAuth(t, nil, next, r)

	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	location := w.Result().Header.Get("Location")
	assert.True(t, strings.HasPrefix(location, "/auth/signin?goto="), "got location %q", location)
	assert.Contains(t, location, "page")
}

func TestCookieAuthInvalidRefreshTokenClearsCookieAndRedirects(t *testing.T) {
	bearerServer := oauth.NewBearerServer("testsecret", time.Minute, fakeVerifier{}, nil)
	next := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}

	r := httptest.NewRequest("GET", "/api/admin/events", nil)
	r.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "stale"})
	r.AddCookie(&http.Cookie{Name: RefreshTokenCookie, Value: "garbage"})

	w := runCookieAuth(t, bearerServer, next, r)

	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)

	var cleared *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == RefreshTokenCookie {
			cleared = c
		}
	}
	require.NotNil(t, cleared, "refresh token cookie not touched")
	assert.Empty(t, cleared.Value)
	assert.Equal(t, -1, cleared.MaxAge)
}

func TestCookieAuthEventStreamIsNotBuffered(t *testing.T) {
	var flushable bool
	next := func(w http.ResponseWriter, r *http.Request) {
		_, flushable = w.(http.Flusher)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
	}

	r := httptest.NewRequest("GET", "/api/admin/events/watch", nil)
	r.Header.Set("Accept", "text/event-stream")
	r.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "tok"})

	runCookieAuth(t, nil, next, r)
	assert.True(t, flushable, "stream handlers need the real writer, not a buffer")
}
