package model

import "time"

type AppUser struct {
	ID          string    `json:"id"`
	Email       string    `json:"email" validate:"required,email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Event struct {
	ID              string     `json:"id,omitempty"`
	UserID          string     `json:"user_id,omitempty"`
	Title           string     `json:"title" validate:"required,max=200"`
	Description     string     `json:"description,omitempty"`
	Slug            string     `json:"slug,omitempty"`
	IsActive        bool       `json:"is_active"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	EndDate         *time.Time `json:"end_date,omitempty"`
	Deadline        *time.Time `json:"deadline,omitempty"`
	Location        string     `json:"location,omitempty"`
	EventType       string     `json:"event_type,omitempty"`
	OrganizerName   string     `json:"organizer_name,omitempty"`
	OrganizerEmail  string     `json:"organizer_email,omitempty" validate:"omitempty,email"`
	OrganizerPhone  string     `json:"organizer_phone,omitempty"`
	MaxParticipants *int       `json:"max_participants,omitempty"`
	BannerColor     string     `json:"banner_color,omitempty"`
	CreatedAt       time.Time  `json:"created_at,omitempty"`
	UpdatedAt       time.Time  `json:"updated_at,omitempty"`
}

// AcceptingSubmissions reports whether the public form takes submissions at
// the given instant. The deadline is inclusive of its whole day: the form
// stays open until 23:59:59.999999999 of the deadline date and closes from
// the next day on, regardless of how the deadline timestamp was stored.
func (e Event) AcceptingSubmissions(now time.Time) bool {
	if !e.IsActive {
		return false
	}
	if e.Deadline == nil {
		return true
	}
	d := *e.Deadline
	endOfDay := time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 999999999, d.Location())
	return !now.After(endOfDay)
}

type ValidationRule struct {
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
	MinLength *int     `json:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty"`
	Pattern   string   `json:"pattern,omitempty"`
}

type FormField struct {
	ID          string          `json:"id,omitempty"`
	EventID     string          `json:"event_id,omitempty"`
	FieldType   FieldType       `json:"field_type"`
	Label       string          `json:"label"`
	Placeholder string          `json:"placeholder,omitempty"`
	Required    bool            `json:"required"`
	Options     []string        `json:"options,omitempty"`
	Validation  *ValidationRule `json:"validation,omitempty"`
	OrderIndex  int             `json:"order_index"`
	CreatedAt   time.Time       `json:"created_at,omitempty"`
}

type Submission struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	SubmittedAt time.Time `json:"submitted_at"`
	IPAddress   string    `json:"ip_address,omitempty"`
	UserAgent   string    `json:"user_agent,omitempty"`
}

type Answer struct {
	ID           string    `json:"id"`
	SubmissionID string    `json:"submission_id"`
	FieldID      string    `json:"field_id"`
	Answer       string    `json:"answer"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

type SubmissionWithAnswers struct {
	Submission
	Answers []Answer `json:"answers"`
}

// AnswerFor returns the recorded value for a field, or "" when the field was
// never answered. An empty-string answer row and a missing row are treated
// the same way.
func (s SubmissionWithAnswers) AnswerFor(fieldID string) string {
	for _, a := range s.Answers {
		if a.FieldID == fieldID {
			return a.Answer
		}
	}
	return ""
}
