package form

import (
	"context"

	"github.com/kassemabbassi/formBuilder/model"
)

// Store is the slice of persistence the collector needs.
type Store interface {
	CreateSubmission(ctx context.Context, submission model.Submission, answers []model.Answer) (model.Submission, error)
}

// Submit validates the raw answers and, if they pass, records one submission
// with exactly one answer row per field in definition order; unanswered
// fields get an empty-string answer. The submission argument is a prototype
// carrying event id and respondent metadata; storage assigns id and
// timestamp. A non-empty error map means nothing was written. Whether the
// form is open at all (active, deadline) is the caller's check, not repeated
// here.
func Submit(ctx context.Context, store Store, submission model.Submission, fields []model.FormField, rawAnswers map[string]string) (model.Submission, map[string]string, error) {
	if errs := Validate(fields, rawAnswers); len(errs) > 0 {
		return model.Submission{}, errs, nil
	}

	answers := make([]model.Answer, 0, len(fields))
	for _, field := range fields {
		answers = append(answers, model.Answer{
			FieldID: field.ID,
			Answer:  rawAnswers[field.ID],
		})
	}

	submission, err := store.CreateSubmission(ctx, submission, answers)
	if err != nil {
		return model.Submission{}, nil, err
	}
	return submission, nil, nil
}
