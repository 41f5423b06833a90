package form

import (
	"strings"
	"time"

	"github.com/kassemabbassi/formBuilder/model"
)

// ExportFilename is the attachment name for a CSV download.
func ExportFilename(event model.Event, now time.Time) string {
	return event.Slug + "-responses-" + now.Format("2006-01-02") + ".csv"
}

// ToCSV renders submissions as a flat table: a header of "Submission ID",
// "Submitted At" and the current field labels in definition order, then one
// row per submission in the order supplied. Answer cells are matched to
// columns by field id, so answers to since-deleted fields are dropped and
// fields newer than a submission come out blank. Every answer cell is
// wrapped in double quotes with embedded quotes doubled; rows are joined
// with a bare newline and there is no trailing newline.
func ToCSV(event model.Event, fields []model.FormField, submissions []model.SubmissionWithAnswers) string {
	var rows []string

	header := make([]string, 0, 2+len(fields))
	header = append(header, "Submission ID", "Submitted At")
	for _, f := range fields {
		header = append(header, f.Label)
	}
	rows = append(rows, strings.Join(header, ","))

	for _, sub := range submissions {
		row := make([]string, 0, 2+len(fields))
		row = append(row, sub.ID, sub.SubmittedAt.Format("2006-01-02 15:04:05"))
		for _, f := range fields {
			row = append(row, quoteCell(sub.AnswerFor(f.ID)))
		}
		rows = append(rows, strings.Join(row, ","))
	}

	return strings.Join(rows, "\n")
}

func quoteCell(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}
