// Package builder holds the in-memory editing session for one form
// definition. A session is created when the owner opens the edit view and
// thrown away when they leave it; nothing here touches storage until Save.
package builder

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/kassemabbassi/formBuilder/model"
)

// Store is the slice of persistence the editor needs.
type Store interface {
	SaveDefinition(ctx context.Context, event model.Event, fields []model.FormField) ([]model.FormField, error)
}

type Session struct {
	Event  model.Event
	Fields []model.FormField
	// SelectedID is the id of the field currently open in the editor pane,
	// or "" when none is selected.
	SelectedID string

	store Store
}

func NewSession(store Store, event model.Event, fields []model.FormField) *Session {
	return &Session{
		Event:  event,
		Fields: fields,
		store:  store,
	}
}

// AddField appends a new field of the given type with editor defaults: a
// placeholder label, not required, a single starter option for option-bearing
// types, and an order index at the end of the list. The new field becomes the
// selected one.
func (s *Session) AddField(fieldType model.FieldType) (model.FormField, error) {
	caps, err := model.LookupCapabilities(fieldType)
	if err != nil {
		return model.FormField{}, err
	}

	field := model.FormField{
		ID:         tempID(),
		EventID:    s.Event.ID,
		FieldType:  fieldType,
		Label:      fmt.Sprintf("New %s field", fieldType),
		Required:   false,
		OrderIndex: len(s.Fields),
	}
	if caps.HasOptions {
		field.Options = []string{"Option 1"}
	}

	s.Fields = append(s.Fields, field)
	s.SelectedID = field.ID
	return field, nil
}

// UpdateField replaces the field with the matching id; everything else keeps
// its place and order.
func (s *Session) UpdateField(field model.FormField) error {
	for i := range s.Fields {
		if s.Fields[i].ID == field.ID {
			s.Fields[i] = field
			return nil
		}
	}
	return fmt.Errorf("no field with id %q", field.ID)
}

// DeleteField removes the field. Remaining order_index values are NOT
// renumbered; gaps persist until the next reorder or save, matching how the
// editor has always behaved.
func (s *Session) DeleteField(id string) {
	for i := range s.Fields {
		if s.Fields[i].ID == id {
			s.Fields = append(s.Fields[:i], s.Fields[i+1:]...)
			break
		}
	}
	if s.SelectedID == id {
		s.SelectedID = ""
	}
}

// ReorderFields moves the element at fromIndex to toIndex and renumbers every
// field to its list position, 0-based and contiguous.
func (s *Session) ReorderFields(fromIndex, toIndex int) error {
	n := len(s.Fields)
	if fromIndex < 0 || fromIndex >= n || toIndex < 0 || toIndex >= n {
		return fmt.Errorf("reorder out of range: %d -> %d with %d fields", fromIndex, toIndex, n)
	}

	moved := s.Fields[fromIndex]
	rest := append(s.Fields[:fromIndex:fromIndex], s.Fields[fromIndex+1:]...)
	s.Fields = append(rest[:toIndex:toIndex], append([]model.FormField{moved}, rest[toIndex:]...)...)

	for i := range s.Fields {
		s.Fields[i].OrderIndex = i
	}
	return nil
}

// Save validates every field type against the registry and persists the
// definition: event metadata plus a full replacement of the field set. On
// success the in-memory fields are swapped for the saved ones, whose
// temporary ids have been replaced with durable ones.
func (s *Session) Save(ctx context.Context) error {
	for _, f := range s.Fields {
		if !f.FieldType.Valid() {
			return fmt.Errorf("field %q: unknown field type %q", f.Label, f.FieldType)
		}
		if f.Label == "" {
			return fmt.Errorf("field %q: label must not be empty", f.ID)
		}
		if f.FieldType.HasOptions() && len(f.Options) == 0 {
			return fmt.Errorf("field %q: %s fields need at least one option", f.Label, f.FieldType)
		}
	}

	saved, err := s.store.SaveDefinition(ctx, s.Event, s.Fields)
	if err != nil {
		return err
	}

	s.Fields = saved
	s.SelectedID = ""
	return nil
}

func tempID() string {
	return "temp-" + uuid.Must(uuid.NewV4()).String()
}
