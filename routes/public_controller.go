package routes

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/kassemabbassi/formBuilder/app"
	"github.com/kassemabbassi/formBuilder/form"
	"github.com/kassemabbassi/formBuilder/httpx"
	"github.com/kassemabbassi/formBuilder/log"
	"github.com/kassemabbassi/formBuilder/model"
	"github.com/kassemabbassi/formBuilder/store"
)

// publicEvent is the subset of event data a respondent gets to see.
type publicEvent struct {
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Slug           string     `json:"slug"`
	StartDate      *time.Time `json:"start_date,omitempty"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	Deadline       *time.Time `json:"deadline,omitempty"`
	Location       string     `json:"location,omitempty"`
	OrganizerName  string     `json:"organizer_name,omitempty"`
	OrganizerEmail string     `json:"organizer_email,omitempty"`
	OrganizerPhone string     `json:"organizer_phone,omitempty"`
	BannerColor    string     `json:"banner_color,omitempty"`
}

func toPublicEvent(e model.Event) publicEvent {
	return publicEvent{
		Title:          e.Title,
		Description:    e.Description,
		Slug:           e.Slug,
		StartDate:      e.StartDate,
		EndDate:        e.EndDate,
		Deadline:       e.Deadline,
		Location:       e.Location,
		OrganizerName:  e.OrganizerName,
		OrganizerEmail: e.OrganizerEmail,
		OrganizerPhone: e.OrganizerPhone,
		BannerColor:    e.BannerColor,
	}
}

// PublicGetForm serves the form definition behind a share slug. Inactive or
// unknown slugs are both a plain 404; a form past its deadline renders as a
// closed state with no fields.
func PublicGetForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")

		event, err := app.GetEventBySlug(r.Context(), slug)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				httpx.LogNotFound(w, "get_form", slug)
			} else {
				httpx.LogInternalError(w, "db.get_form", err)
			}
			return
		}
		if !event.IsActive {
			httpx.LogNotFound(w, "get_form.inactive", slug)
			return
		}

		if !event.AcceptingSubmissions(time.Now()) {
			render.JSON(w, r, map[string]any{
				"event":  toPublicEvent(event),
				"closed": true,
			})
			return
		}

		fields, err := app.ListFields(r.Context(), event.ID)
		if err != nil {
			httpx.LogInternalError(w, "db.get_form.fields", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"event":  toPublicEvent(event),
			"fields": fields,
			"closed": false,
		})
	}
}

type submitRequest struct {
	Answers map[string]string `json:"answers"`
}

// PublicSubmitForm validates and records one respondent submission.
func PublicSubmitForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")

		event, err := app.GetEventBySlug(r.Context(), slug)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				httpx.LogNotFound(w, "submit_form", slug)
			} else {
				httpx.LogInternalError(w, "db.submit_form", err)
			}
			return
		}
		if !event.IsActive {
			httpx.LogNotFound(w, "submit_form.inactive", slug)
			return
		}
		if !event.AcceptingSubmissions(time.Now()) {
			httpx.LogStatusMsg(w, http.StatusGone, log.DebugLevel, "submit_form.closed",
				"This form has reached its deadline and is no longer accepting submissions.")
			return
		}

		req := submitRequest{}
		err = render.DecodeJSON(r.Body, &req)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		fields, err := app.ListFields(r.Context(), event.ID)
		if err != nil {
			httpx.LogInternalError(w, "db.submit_form.fields", err)
			return
		}

		proto := model.Submission{
			EventID:   event.ID,
			IPAddress: r.RemoteAddr,
			UserAgent: r.UserAgent(),
		}
		submission, fieldErrors, err := form.Submit(r.Context(), app.Store, proto, fields, req.Answers)
		if err != nil {
			httpx.LogInternalError(w, "db.submit_form.insert", err)
			return
		}
		if len(fieldErrors) > 0 {
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, map[string]any{
				"errors": fieldErrors,
			})
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"id": submission.ID,
		})
	}
}
