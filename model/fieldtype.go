package model

import "fmt"

// FieldType tags one question with its input affordance. The set is closed:
// validation dispatches over it exhaustively and the registry below is the
// single source of truth for what each tag supports.
type FieldType string

const (
	TypeText        FieldType = "text"
	TypeEmail       FieldType = "email"
	TypeNumber      FieldType = "number"
	TypeTel         FieldType = "tel"
	TypeURL         FieldType = "url"
	TypePassword    FieldType = "password"
	TypeTextarea    FieldType = "textarea"
	TypeSelect      FieldType = "select"
	TypeMultiselect FieldType = "multiselect"
	TypeRadio       FieldType = "radio"
	TypeCheckbox    FieldType = "checkbox"
	TypeYesNo       FieldType = "yesno"
	TypeDate        FieldType = "date"
	TypeTime        FieldType = "time"
	TypeDatetime    FieldType = "datetime"
	TypeMonth       FieldType = "month"
	TypeWeek        FieldType = "week"
	TypeFile        FieldType = "file"
	TypeRating      FieldType = "rating"
	TypeSlider      FieldType = "slider"
	TypeRange       FieldType = "range"
	TypeColor       FieldType = "color"
	TypeScale       FieldType = "scale"
	TypeMatrix      FieldType = "matrix"
)

// Validation rule names, as used in Capabilities.Rules.
const (
	RuleMin       = "min"
	RuleMax       = "max"
	RuleMinLength = "minLength"
	RuleMaxLength = "maxLength"
	RulePattern   = "pattern"
)

type Capabilities struct {
	Label      string
	Category   string
	HasOptions bool
	Rules      []string
}

var fieldTypes = map[FieldType]Capabilities{
	TypeText:        {Label: "Text", Category: "Basic", Rules: []string{RuleMinLength, RuleMaxLength, RulePattern}},
	TypeEmail:       {Label: "Email", Category: "Basic", Rules: []string{RuleMinLength, RuleMaxLength}},
	TypeNumber:      {Label: "Number", Category: "Basic", Rules: []string{RuleMin, RuleMax}},
	TypeTel:         {Label: "Phone", Category: "Basic", Rules: []string{RuleMinLength, RuleMaxLength, RulePattern}},
	TypeURL:         {Label: "URL", Category: "Basic", Rules: []string{RuleMinLength, RuleMaxLength}},
	TypePassword:    {Label: "Password", Category: "Basic", Rules: []string{RuleMinLength, RuleMaxLength}},
	TypeTextarea:    {Label: "Text Area", Category: "Text", Rules: []string{RuleMinLength, RuleMaxLength}},
	TypeSelect:      {Label: "Dropdown", Category: "Choice", HasOptions: true},
	TypeMultiselect: {Label: "Multi Select", Category: "Choice", HasOptions: true},
	TypeRadio:       {Label: "Radio", Category: "Choice", HasOptions: true},
	TypeCheckbox:    {Label: "Checkbox", Category: "Choice", HasOptions: true},
	TypeYesNo:       {Label: "Yes/No", Category: "Choice"},
	TypeDate:        {Label: "Date", Category: "Date & Time"},
	TypeTime:        {Label: "Time", Category: "Date & Time"},
	TypeDatetime:    {Label: "Date & Time", Category: "Date & Time"},
	TypeMonth:       {Label: "Month", Category: "Date & Time"},
	TypeWeek:        {Label: "Week", Category: "Date & Time"},
	TypeFile:        {Label: "File Upload", Category: "Advanced"},
	TypeRating:      {Label: "Rating", Category: "Advanced", Rules: []string{RuleMin, RuleMax}},
	TypeSlider:      {Label: "Slider", Category: "Advanced", Rules: []string{RuleMin, RuleMax}},
	TypeRange:       {Label: "Range", Category: "Advanced", Rules: []string{RuleMin, RuleMax}},
	TypeColor:       {Label: "Color Picker", Category: "Advanced"},
	TypeScale:       {Label: "Scale (1-10)", Category: "Advanced", Rules: []string{RuleMin, RuleMax}},
	TypeMatrix:      {Label: "Matrix", Category: "Advanced"},
}

// Categories in display order.
var Categories = []string{"Basic", "Text", "Choice", "Date & Time", "Advanced"}

func (t FieldType) Valid() bool {
	_, ok := fieldTypes[t]
	return ok
}

// LookupCapabilities returns the registry entry for a field type. An unknown
// type is a configuration error and is rejected when a definition is saved.
func LookupCapabilities(t FieldType) (Capabilities, error) {
	caps, ok := fieldTypes[t]
	if !ok {
		return Capabilities{}, fmt.Errorf("unknown field type %q", t)
	}
	return caps, nil
}

// HasOptions reports whether fields of this type carry an ordered option
// list (select, multiselect, radio, checkbox).
func (t FieldType) HasOptions() bool {
	return fieldTypes[t].HasOptions
}

// SupportsRule reports whether a validation rule is meaningful for this
// type. Rules attached to a field whose type does not support them are
// ignored at validation time, never an error.
func (t FieldType) SupportsRule(rule string) bool {
	for _, r := range fieldTypes[t].Rules {
		if r == rule {
			return true
		}
	}
	return false
}

var displayOrder = []FieldType{
	TypeText, TypeEmail, TypeNumber, TypeTel, TypeURL, TypePassword,
	TypeTextarea,
	TypeSelect, TypeMultiselect, TypeRadio, TypeCheckbox, TypeYesNo,
	TypeDate, TypeTime, TypeDatetime, TypeMonth, TypeWeek,
	TypeFile, TypeRating, TypeSlider, TypeRange, TypeColor, TypeScale, TypeMatrix,
}

// AllFieldTypes returns every registered tag in palette display order.
func AllFieldTypes() []FieldType {
	out := make([]FieldType, len(displayOrder))
	copy(out, displayOrder)
	return out
}
