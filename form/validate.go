// Package form implements the respondent-facing half of the form model:
// answer validation, submission collection and CSV export.
package form

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/kassemabbassi/formBuilder/model"
)

const (
	msgRequired     = "This field is required"
	msgInvalidEmail = "Please enter a valid email address"
	msgInvalidURL   = "Please enter a valid URL"
	msgInvalidNum   = "Please enter a valid number"
)

// local-part@domain.tld, no whitespace around the @, at least one dot after it.
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validate runs every field's rules against the raw answers and returns a map
// of field id to error message; an empty map means the form is valid.
//
// Per field: a required field with a blank (all-whitespace) value gets the
// required error and nothing else. A blank optional field is skipped. For a
// non-blank value the type-specific check runs first and the generic length
// checks run after it, so a later rule's message overwrites an earlier one.
func Validate(fields []model.FormField, rawAnswers map[string]string) map[string]string {
	errs := map[string]string{}

	for _, field := range fields {
		value := rawAnswers[field.ID]

		if strings.TrimSpace(value) == "" {
			if field.Required {
				errs[field.ID] = msgRequired
			}
			continue
		}

		if msg := validateTyped(field, value); msg != "" {
			errs[field.ID] = msg
		}
		if msg := validateLength(field, value); msg != "" {
			errs[field.ID] = msg
		}
	}

	return errs
}

// validateTyped dispatches on the field type. The switch is exhaustive over
// the registry: adding a tag to the FieldType enum without deciding its
// validation behavior here should fail review, not slip through a default.
func validateTyped(field model.FormField, value string) string {
	switch field.FieldType {
	case model.TypeEmail:
		if !emailRe.MatchString(value) {
			return msgInvalidEmail
		}

	case model.TypeURL:
		u, err := url.Parse(value)
		if err != nil || !u.IsAbs() || u.Host == "" {
			return msgInvalidURL
		}

	case model.TypeNumber, model.TypeSlider, model.TypeRange, model.TypeRating, model.TypeScale:
		return validateNumeric(field, value)

	case model.TypeText, model.TypeTel, model.TypePassword, model.TypeTextarea,
		model.TypeSelect, model.TypeMultiselect, model.TypeRadio, model.TypeCheckbox,
		model.TypeYesNo, model.TypeDate, model.TypeTime, model.TypeDatetime,
		model.TypeMonth, model.TypeWeek, model.TypeFile, model.TypeColor, model.TypeMatrix:
		// no type-specific rule beyond the generic length checks
	}
	return ""
}

func validateNumeric(field model.FormField, value string) string {
	num, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(num) || math.IsInf(num, 0) {
		return msgInvalidNum
	}

	msg := ""
	if v := field.Validation; v != nil {
		if v.Min != nil && num < *v.Min {
			msg = fmt.Sprintf("Value must be at least %s", formatBound(*v.Min))
		}
		if v.Max != nil && num > *v.Max {
			msg = fmt.Sprintf("Value must be at most %s", formatBound(*v.Max))
		}
	}
	return msg
}

// validateLength applies minLength/maxLength to any field type. Lengths are
// counted in characters, not bytes.
func validateLength(field model.FormField, value string) string {
	v := field.Validation
	if v == nil {
		return ""
	}

	length := utf8.RuneCountInString(value)
	msg := ""
	if v.MinLength != nil && *v.MinLength > 0 && length < *v.MinLength {
		msg = fmt.Sprintf("Must be at least %d characters", *v.MinLength)
	}
	if v.MaxLength != nil && *v.MaxLength > 0 && length > *v.MaxLength {
		msg = fmt.Sprintf("Must be at most %d characters", *v.MaxLength)
	}
	return msg
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
