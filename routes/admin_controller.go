package routes

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
	"github.com/kassemabbassi/formBuilder/app"
	"github.com/kassemabbassi/formBuilder/builder"
	"github.com/kassemabbassi/formBuilder/form"
	"github.com/kassemabbassi/formBuilder/httpx"
	"github.com/kassemabbassi/formBuilder/log"
	"github.com/kassemabbassi/formBuilder/model"
	"github.com/kassemabbassi/formBuilder/realtime"
	"github.com/kassemabbassi/formBuilder/routes/middlewares"
	"github.com/kassemabbassi/formBuilder/store"
)

var validate = validator.New()

// loadOwnedEvent fetches the event and checks it belongs to the caller.
// A foreign event answers 404, same as a missing one, so probing ids does
// not reveal what exists.
func loadOwnedEvent(app app.App, w http.ResponseWriter, r *http.Request, eventID string) (model.Event, bool) {
	event, err := app.GetEventByID(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.LogNotFound(w, "get_event", eventID)
		} else {
			httpx.LogInternalError(w, "db.get_event", err)
		}
		return model.Event{}, false
	}
	if event.UserID != middlewares.UserID(r) {
		httpx.LogNotFound(w, "get_event.owner", eventID)
		return model.Event{}, false
	}
	return event, true
}

func CreateEvent(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event := model.Event{}
		err := render.DecodeJSON(r.Body, &event)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		if err := validate.Struct(event); err != nil {
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "event.validate", "%s", err)
			return
		}

		event.UserID = middlewares.UserID(r)
		event.IsActive = true

		event, err = app.CreateEvent(r.Context(), event)
		if err != nil {
			httpx.LogInternalError(w, "db.insert_event", err)
			return
		}

		app.Broker.Publish(realtime.Change{Op: realtime.OpCreated, Event: event})

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, event)
	}
}

func ListEvents(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events, err := app.ListEventsByUser(r.Context(), middlewares.UserID(r))
		if err != nil {
			httpx.LogInternalError(w, "db.get_events", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"events": events,
		})
	}
}

func GetEvent(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event, ok := loadOwnedEvent(app, w, r, chi.URLParam(r, "id"))
		if !ok {
			return
		}

		fields, err := app.ListFields(r.Context(), event.ID)
		if err != nil {
			httpx.LogInternalError(w, "db.get_event.fields", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"event":  event,
			"fields": fields,
		})
	}
}

func UpdateEvent(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event, ok := loadOwnedEvent(app, w, r, chi.URLParam(r, "id"))
		if !ok {
			return
		}

		patch := event
		err := render.DecodeJSON(r.Body, &patch)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		// identity and ownership are not editable
		patch.ID = event.ID
		patch.UserID = event.UserID
		patch.Slug = event.Slug

		if err := validate.Struct(patch); err != nil {
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "event.validate", "%s", err)
			return
		}

		if err := app.Store.UpdateEvent(r.Context(), patch); err != nil {
			httpx.LogInternalError(w, "db.update_event", err)
			return
		}

		app.Broker.Publish(realtime.Change{Op: realtime.OpUpdated, Event: patch})

		render.JSON(w, r, patch)
	}
}

func DeleteEvent(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event, ok := loadOwnedEvent(app, w, r, chi.URLParam(r, "id"))
		if !ok {
			return
		}

		if err := app.Store.DeleteEvent(r.Context(), event.ID); err != nil {
			httpx.LogInternalError(w, "db.delete_event", err)
			return
		}

		app.Broker.Publish(realtime.Change{Op: realtime.OpDeleted, Event: event})

		w.WriteHeader(http.StatusNoContent)
	}
}

type saveDefinitionRequest struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	IsActive    bool              `json:"is_active"`
	Deadline    *time.Time        `json:"deadline,omitempty"`
	Fields      []model.FormField `json:"fields"`
}

// SaveDefinition replaces an event's form definition: metadata plus the full
// field set, through an editor session so the same registry checks apply as
// in the interactive editor.
func SaveDefinition(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event, ok := loadOwnedEvent(app, w, r, chi.URLParam(r, "id"))
		if !ok {
			return
		}

		req := saveDefinitionRequest{}
		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if req.Title == "" {
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "save_definition.title",
				"title must not be empty")
			return
		}

		event.Title = req.Title
		event.Description = req.Description
		event.IsActive = req.IsActive
		event.Deadline = req.Deadline

		session := builder.NewSession(app.Store, event, req.Fields)
		if err := session.Save(r.Context()); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				httpx.LogNotFound(w, "save_definition", event.ID)
			} else {
				httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "save_definition", "%s", err)
			}
			return
		}

		app.Broker.Publish(realtime.Change{Op: realtime.OpUpdated, Event: event})

		render.JSON(w, r, map[string]any{
			"event":  event,
			"fields": session.Fields,
		})
	}
}

func ListSubmissions(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event, ok := loadOwnedEvent(app, w, r, chi.URLParam(r, "id"))
		if !ok {
			return
		}

		submissions, err := app.Store.ListSubmissions(r.Context(), event.ID)
		if err != nil {
			httpx.LogInternalError(w, "db.get_submissions", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"submissions": submissions,
		})
	}
}

// ExportSubmissions streams all responses as a CSV download named
// {slug}-responses-{date}.csv.
func ExportSubmissions(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event, ok := loadOwnedEvent(app, w, r, chi.URLParam(r, "id"))
		if !ok {
			return
		}

		fields, err := app.ListFields(r.Context(), event.ID)
		if err != nil {
			httpx.LogInternalError(w, "db.export.fields", err)
			return
		}
		submissions, err := app.Store.ListSubmissions(r.Context(), event.ID)
		if err != nil {
			httpx.LogInternalError(w, "db.export.submissions", err)
			return
		}

		csv := form.ToCSV(event, fields, submissions)

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", form.ExportFilename(event, time.Now())))
		w.Write([]byte(csv))
	}
}

type updateAnswerRequest struct {
	Answer string `json:"answer"`
}

// UpdateAnswer lets the form owner correct one recorded value after the fact.
func UpdateAnswer(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		answerID := chi.URLParam(r, "id")

		eventID, err := app.GetAnswerEvent(r.Context(), answerID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				httpx.LogNotFound(w, "update_answer", answerID)
			} else {
				httpx.LogInternalError(w, "db.update_answer.event", err)
			}
			return
		}
		if _, ok := loadOwnedEvent(app, w, r, eventID); !ok {
			return
		}

		req := updateAnswerRequest{}
		err = render.DecodeJSON(r.Body, &req)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		if err := app.Store.UpdateAnswer(r.Context(), answerID, req.Answer); err != nil {
			httpx.LogInternalError(w, "db.update_answer", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// DeleteSubmission removes one response, answers first.
func DeleteSubmission(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		submissionID := chi.URLParam(r, "id")

		eventID, err := app.GetSubmissionEvent(r.Context(), submissionID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				httpx.LogNotFound(w, "delete_submission", submissionID)
			} else {
				httpx.LogInternalError(w, "db.delete_submission.event", err)
			}
			return
		}
		if _, ok := loadOwnedEvent(app, w, r, eventID); !ok {
			return
		}

		if err := app.Store.DeleteSubmission(r.Context(), submissionID); err != nil {
			httpx.LogInternalError(w, "db.delete_submission", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// WatchEvents streams event-list changes for the caller as server-sent
// events. The broker subscription lives exactly as long as the request
// context, so a closed tab releases its channel.
func WatchEvents(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			httpx.LogStatus(w, http.StatusInternalServerError, log.ErrorLevel, "watch_events.no_flusher")
			return
		}

		// The stream must outlive the server's write timeout; lift the
		// per-request deadline. Writers that cannot (test recorders) just
		// keep theirs.
		if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
			log.Debugf("watch_events.write_deadline: %s", err)
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		changes := app.Broker.Subscribe(r.Context(), middlewares.UserID(r))
		for change := range changes {
			if err := writeSSE(w, change); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, change realtime.Change) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", change.Op, payload)
	return err
}
