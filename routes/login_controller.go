package routes

import (
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-chi/render"
	"github.com/kassemabbassi/formBuilder/app"
	"github.com/kassemabbassi/formBuilder/httpx"
	"github.com/kassemabbassi/formBuilder/log"
	"github.com/kassemabbassi/formBuilder/model"
	"github.com/kassemabbassi/formBuilder/routes/middlewares"
	"golang.org/x/crypto/bcrypt"
)

type signupRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

func Signup(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := signupRequest{}
		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		if req.Email == "" || len(req.Password) < 8 {
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "signup.invalid",
				"email and a password of at least 8 characters are required")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			httpx.LogInternalError(w, "signup.hash", err)
			return
		}

		user, err := app.CreateUser(r.Context(), model.AppUser{
			Email:       strings.ToLower(strings.TrimSpace(req.Email)),
			DisplayName: strings.TrimSpace(req.DisplayName),
		}, hash)
		if err != nil {
			httpx.LogStatusMsg(w, http.StatusConflict, log.DebugLevel, "signup.create_user",
				"could not create account")
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"id":    user.ID,
			"email": user.Email,
		})
	}
}

// Login bridges basic-auth credentials into the oauth bearer server and
// mirrors the issued tokens into browser cookies so that dashboard page
// loads (and the session lifetime guard) can see them.
func Login(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok {
			httpx.LogStatus(w, http.StatusUnauthorized, log.DebugLevel, "login.basic_auth")
			return
		}

		body := url.Values{
			"grant_type": {"password"},
			"username":   {user},
			"password":   {pass},
		}
		r.Body = io.NopCloser(strings.NewReader(body.Encode()))
		r.Header.Set("content-type", "application/x-www-form-urlencoded")
		r.Header.Set("content-length", strconv.Itoa(len(body.Encode())))

		resp := httpx.NewResponseBuffer()
		app.UserCredentials(resp, r)
		if resp.Status() == http.StatusOK {
			middlewares.SetAuthCookies(w, resp.Body())
		}
		resp.Flush(w)
	}
}

func Refresh(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("authorization")
		match := regexp.MustCompile(`(?i)^refresh\s+(.*)`).FindStringSubmatch(auth)
		if len(match) == 0 {
			httpx.LogStatus(w, http.StatusUnauthorized, log.DebugLevel, "refresh.token")
			return
		}
		token := match[1]

		body := url.Values{
			"grant_type":    {"refresh_token"},
			"refresh_token": {token},
		}

		req, err := http.NewRequest("POST", "/", strings.NewReader(body.Encode()))
		if err != nil {
			httpx.LogStatus(w, http.StatusInternalServerError, log.DebugLevel, "refresh.new_request")
			return
		}
		req.Header.Set("content-type", "application/x-www-form-urlencoded")
		req.Header.Set("content-length", strconv.Itoa(len(body.Encode())))

		resp := httpx.NewResponseBuffer()
		app.UserCredentials(resp, req)
		if resp.Status() == http.StatusOK {
			middlewares.SetAuthCookies(w, resp.Body())
		}
		resp.Flush(w)
	}
}
