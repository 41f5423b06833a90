package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/kassemabbassi/formBuilder/app"
	"github.com/kassemabbassi/formBuilder/routes/middlewares"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.Logger, middleware.Recoverer)
	root.Use(middlewares.SessionLifetime(app.Config))

	root.Mount("/api", apiRouter(app))
	root.Mount("/", servePublicFiles())

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	// public form endpoints, keyed by slug
	api.Get("/forms/{slug}", PublicGetForm(app))
	api.Post("/forms/{slug}/submissions", PublicSubmitForm(app))

	// dashboard endpoints, owner only
	api.Route("/admin", func(r chi.Router) {
		r.Use(middlewares.CookieAuth(app.BearerServer))
		r.Use(middlewares.Creator(app.Config))

		r.Post("/events", CreateEvent(app))
		r.Get("/events", ListEvents(app))
		r.Get("/events/watch", WatchEvents(app))
		r.Get("/events/{id}", GetEvent(app))
		r.Put("/events/{id}", UpdateEvent(app))
		r.Delete("/events/{id}", DeleteEvent(app))
		r.Put("/events/{id}/definition", SaveDefinition(app))

		r.Get("/events/{id}/submissions", ListSubmissions(app))
		r.Get("/events/{id}/submissions/export", ExportSubmissions(app))
		r.Patch("/answers/{id}", UpdateAnswer(app))
		r.Delete("/submissions/{id}", DeleteSubmission(app))
	})

	api.Post("/signup", Signup(app))
	api.Post("/login", Login(app))
	api.Post("/refresh", Refresh(app))

	return api
}

func servePublicFiles() http.Handler {
	return http.FileServer(http.Dir("public"))
}
