// Package store holds all SQL touching the form-builder tables. Handlers and
// the editor session talk to it through small interfaces so tests can swap in
// fakes; the real implementation runs on SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kassemabbassi/formBuilder/model"
)

var ErrNotFound = errors.New("not found")

type Store struct {
	DB *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{DB: db}
}

// --- users ---

func (s *Store) CreateUser(ctx context.Context, user model.AppUser, passwordHash []byte) (model.AppUser, error) {
	user.ID = model.NewID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO app_user (id, email, display_name, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.DisplayName, passwordHash, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return model.AppUser{}, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

// --- events ---

const eventColumns = `
	id, user_id, title, description, slug, is_active,
	start_date, end_date, deadline,
	location, event_type, organizer_name, organizer_email, organizer_phone,
	max_participants, banner_color, created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }) (model.Event, error) {
	var e model.Event
	err := row.Scan(
		&e.ID, &e.UserID, &e.Title, &e.Description, &e.Slug, &e.IsActive,
		&e.StartDate, &e.EndDate, &e.Deadline,
		&e.Location, &e.EventType, &e.OrganizerName, &e.OrganizerEmail, &e.OrganizerPhone,
		&e.MaxParticipants, &e.BannerColor, &e.CreatedAt, &e.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return e, ErrNotFound
	}
	return e, err
}

func (s *Store) CreateEvent(ctx context.Context, event model.Event) (model.Event, error) {
	event.ID = model.NewID()
	event.Slug = model.NewSlug()
	event.CreatedAt = time.Now()
	event.UpdatedAt = event.CreatedAt

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO event (`+eventColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.UserID, event.Title, event.Description, event.Slug, event.IsActive,
		event.StartDate, event.EndDate, event.Deadline,
		event.Location, event.EventType, event.OrganizerName, event.OrganizerEmail, event.OrganizerPhone,
		event.MaxParticipants, event.BannerColor, event.CreatedAt, event.UpdatedAt,
	)
	if err != nil {
		return model.Event{}, fmt.Errorf("insert event: %w", err)
	}
	return event, nil
}

func (s *Store) GetEventByID(ctx context.Context, id string) (model.Event, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM event WHERE id = ?`, id)
	return scanEvent(row)
}

func (s *Store) GetEventBySlug(ctx context.Context, slug string) (model.Event, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM event WHERE slug = ?`, slug)
	return scanEvent(row)
}

func (s *Store) ListEventsByUser(ctx context.Context, userID string) ([]model.Event, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT `+eventColumns+`
		FROM event
		WHERE user_id = ?
		ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []model.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *Store) UpdateEvent(ctx context.Context, event model.Event) error {
	res, err := s.DB.ExecContext(ctx, `
		UPDATE event
		SET title = ?, description = ?, is_active = ?,
			start_date = ?, end_date = ?, deadline = ?,
			location = ?, event_type = ?,
			organizer_name = ?, organizer_email = ?, organizer_phone = ?,
			max_participants = ?, banner_color = ?,
			updated_at = ?
		WHERE id = ?`,
		event.Title, event.Description, event.IsActive,
		event.StartDate, event.EndDate, event.Deadline,
		event.Location, event.EventType,
		event.OrganizerName, event.OrganizerEmail, event.OrganizerPhone,
		event.MaxParticipants, event.BannerColor,
		time.Now(),
		event.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n < 1 {
		return ErrNotFound
	}
	return nil
}

// DeleteEvent removes an event and everything hanging off it, deepest first:
// answers, submissions, fields, then the event row.
func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		DELETE FROM submission_answer
		WHERE submission_id IN (SELECT id FROM form_submission WHERE event_id = ?)`,
		id,
	)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `DELETE FROM form_submission WHERE event_id = ?`, id)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `DELETE FROM form_field WHERE event_id = ?`, id)
	if err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM event WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n < 1 {
		return ErrNotFound
	}

	return tx.Commit()
}

// --- fields ---

func (s *Store) ListFields(ctx context.Context, eventID string) ([]model.FormField, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, event_id, field_type, label, placeholder, required, options, validation, order_index, created_at
		FROM form_field
		WHERE event_id = ?
		ORDER BY order_index`,
		eventID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := []model.FormField{}
	for rows.Next() {
		var f model.FormField
		var options, validation string
		err = rows.Scan(
			&f.ID, &f.EventID, &f.FieldType, &f.Label, &f.Placeholder, &f.Required,
			&options, &validation, &f.OrderIndex, &f.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if options != "" {
			if err := json.Unmarshal([]byte(options), &f.Options); err != nil {
				return nil, fmt.Errorf("parse field options: %w", err)
			}
		}
		if validation != "" {
			f.Validation = &model.ValidationRule{}
			if err := json.Unmarshal([]byte(validation), f.Validation); err != nil {
				return nil, fmt.Errorf("parse field validation: %w", err)
			}
		}
		fields = append(fields, f)
	}
	return fields, rows.Err()
}

// SaveDefinition persists an edited form in one transaction: the event
// metadata update and the full replacement of its field set (delete all, then
// bulk insert). Every inserted field gets a fresh durable id; temporary
// editor ids never reach the database.
func (s *Store) SaveDefinition(ctx context.Context, event model.Event, fields []model.FormField) ([]model.FormField, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE event
		SET title = ?, description = ?, is_active = ?, deadline = ?, updated_at = ?
		WHERE id = ?`,
		event.Title, event.Description, event.IsActive, event.Deadline, time.Now(), event.ID,
	)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n < 1 {
		return nil, ErrNotFound
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM form_field WHERE event_id = ?`, event.ID)
	if err != nil {
		return nil, err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO form_field (id, event_id, field_type, label, placeholder, required, options, validation, order_index, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	saved := make([]model.FormField, 0, len(fields))
	now := time.Now()
	for _, f := range fields {
		f.ID = model.NewID()
		f.EventID = event.ID
		f.CreatedAt = now

		var options, validation string
		if f.Options != nil {
			b, err := json.Marshal(f.Options)
			if err != nil {
				return nil, fmt.Errorf("encode field options: %w", err)
			}
			options = string(b)
		}
		if f.Validation != nil {
			b, err := json.Marshal(f.Validation)
			if err != nil {
				return nil, fmt.Errorf("encode field validation: %w", err)
			}
			validation = string(b)
		}

		_, err = stmt.ExecContext(ctx,
			f.ID, f.EventID, f.FieldType, f.Label, f.Placeholder, f.Required,
			options, validation, f.OrderIndex, f.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		saved = append(saved, f)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return saved, nil
}

// --- submissions ---

// CreateSubmission inserts the submission row and all its answers in one
// transaction, so a failed answer insert never leaves an orphaned
// submission behind.
func (s *Store) CreateSubmission(ctx context.Context, submission model.Submission, answers []model.Answer) (model.Submission, error) {
	submission.ID = model.NewID()
	if submission.SubmittedAt.IsZero() {
		submission.SubmittedAt = time.Now()
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Submission{}, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO form_submission (id, event_id, submitted_at, ip_address, user_agent)
		VALUES (?, ?, ?, ?, ?)`,
		submission.ID, submission.EventID, submission.SubmittedAt, submission.IPAddress, submission.UserAgent,
	)
	if err != nil {
		return model.Submission{}, err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO submission_answer (id, submission_id, field_id, answer, created_at)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return model.Submission{}, err
	}
	defer stmt.Close()

	now := time.Now()
	for _, a := range answers {
		_, err = stmt.ExecContext(ctx, model.NewID(), submission.ID, a.FieldID, a.Answer, now)
		if err != nil {
			return model.Submission{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return model.Submission{}, err
	}
	return submission, nil
}

func (s *Store) ListSubmissions(ctx context.Context, eventID string) ([]model.SubmissionWithAnswers, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT
			s.id, s.event_id, s.submitted_at, s.ip_address, s.user_agent,
			a.id, a.field_id, a.answer
		FROM form_submission s
		LEFT OUTER JOIN submission_answer a ON (s.id = a.submission_id)
		WHERE s.event_id = ?
		ORDER BY s.submitted_at, s.id`,
		eventID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	submissions := []model.SubmissionWithAnswers{}
	for rows.Next() {
		var sub model.Submission
		var answerID, fieldID, answer sql.NullString
		err = rows.Scan(
			&sub.ID, &sub.EventID, &sub.SubmittedAt, &sub.IPAddress, &sub.UserAgent,
			&answerID, &fieldID, &answer,
		)
		if err != nil {
			return nil, err
		}

		lastIdx := len(submissions) - 1
		if lastIdx < 0 || submissions[lastIdx].ID != sub.ID {
			submissions = append(submissions, model.SubmissionWithAnswers{Submission: sub, Answers: []model.Answer{}})
			lastIdx++
		}
		if answerID.Valid {
			submissions[lastIdx].Answers = append(submissions[lastIdx].Answers, model.Answer{
				ID:           answerID.String,
				SubmissionID: sub.ID,
				FieldID:      fieldID.String,
				Answer:       answer.String,
			})
		}
	}
	return submissions, rows.Err()
}

// UpdateAnswer is the owner-side post-hoc edit of a single recorded value.
func (s *Store) UpdateAnswer(ctx context.Context, answerID, value string) error {
	res, err := s.DB.ExecContext(ctx, `UPDATE submission_answer SET answer = ? WHERE id = ?`, value, answerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n < 1 {
		return ErrNotFound
	}
	return nil
}

// DeleteSubmission removes answers first, then the submission row.
func (s *Store) DeleteSubmission(ctx context.Context, submissionID string) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `DELETE FROM submission_answer WHERE submission_id = ?`, submissionID)
	if err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM form_submission WHERE id = ?`, submissionID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n < 1 {
		return ErrNotFound
	}

	return tx.Commit()
}

// GetSubmissionEvent resolves which event a submission belongs to, for
// ownership checks before edits or deletes.
func (s *Store) GetSubmissionEvent(ctx context.Context, submissionID string) (string, error) {
	var eventID string
	err := s.DB.
		QueryRowContext(ctx, `SELECT event_id FROM form_submission WHERE id = ?`, submissionID).
		Scan(&eventID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return eventID, err
}

// GetAnswerEvent resolves the owning event of an answer row.
func (s *Store) GetAnswerEvent(ctx context.Context, answerID string) (string, error) {
	var eventID string
	err := s.DB.
		QueryRowContext(ctx, `
			SELECT s.event_id
			FROM submission_answer a
			INNER JOIN form_submission s ON (s.id = a.submission_id)
			WHERE a.id = ?`,
			answerID,
		).
		Scan(&eventID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return eventID, err
}
