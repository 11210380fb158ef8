package testsupport

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"testing"

	"github.com/goccy/go-json"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// SequenceIDs issues "prefix1", "prefix2", ... so tests can predict the ids the
// store generates.
type SequenceIDs struct {
	mu     sync.Mutex
	prefix string
	next   int
}

// NewSequenceIDs returns a deterministic id source. An empty prefix yields
// bare integers.
func NewSequenceIDs(prefix string) *SequenceIDs {
	return &SequenceIDs{prefix: prefix}
}

// NextID returns the next id in the sequence.
func (s *SequenceIDs) NextID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return s.prefix + strconv.Itoa(s.next)
}

// Field builds a field with the supplied id, type and order. Option types get
// the default option pair.
func Field(id string, fieldType model.FieldType, order int) model.Field {
	field := model.Field{
		ID:    id,
		Type:  fieldType,
		Label: id,
		Order: order,
	}
	if fieldType.CarriesOptions() {
		field.Options = []string{"Option 1", "Option 2"}
	}
	return field
}

// ContactForm returns a small saved form exercising required, email and
// checkbox fields.
func ContactForm() model.Form {
	return model.Form{
		ID:   "contact",
		Name: "Contact",
		Fields: []model.Field{
			{ID: "name", Type: model.FieldTypeText, Label: "Name", Required: true, Order: 0},
			{ID: "email", Type: model.FieldTypeEmail, Label: "Email", Required: true, Order: 1},
			{ID: "topics", Type: model.FieldTypeCheckbox, Label: "Topics", Required: true, Options: []string{"Sales", "Support"}, Order: 2},
		},
	}
}

// LoadState reads a JSON state fixture.
func LoadState(path string) (model.State, error) {
	if path == "" {
		return model.State{}, errors.New("testsupport: state path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return model.State{}, fmt.Errorf("testsupport: read state: %w", err)
	}
	return DecodeState(data)
}

// DecodeState decodes a persisted JSON state payload.
func DecodeState(data []byte) (model.State, error) {
	var out model.State
	if err := json.Unmarshal(data, &out); err != nil {
		return model.State{}, fmt.Errorf("testsupport: unmarshal state: %w", err)
	}
	return out, nil
}

// MustLoadState is LoadState for tests.
func MustLoadState(t *testing.T, path string) model.State {
	t.Helper()

	state, err := LoadState(path)
	if err != nil {
		t.Fatalf("load state: %v", err)
	}
	return state
}
