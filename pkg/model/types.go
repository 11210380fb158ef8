package model

import (
	"strings"
	"time"
)

// FieldType is the closed enumeration of supported field kinds. Values outside
// the enumeration are kept verbatim by the store; consumers treat them through
// the explicit text fallback (see Resolved).
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeNumber   FieldType = "number"
	FieldTypeEmail    FieldType = "email"
	FieldTypePassword FieldType = "password"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeSelect   FieldType = "select"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeRadio    FieldType = "radio"
	FieldTypeDate     FieldType = "date"
	FieldTypeFile     FieldType = "file"
)

// FieldTypes lists every known field type in palette order.
func FieldTypes() []FieldType {
	return []FieldType{
		FieldTypeText,
		FieldTypeNumber,
		FieldTypeEmail,
		FieldTypePassword,
		FieldTypeTextarea,
		FieldTypeSelect,
		FieldTypeCheckbox,
		FieldTypeRadio,
		FieldTypeDate,
		FieldTypeFile,
	}
}

// Known reports whether t is part of the enumeration.
func (t FieldType) Known() bool {
	switch t {
	case FieldTypeText, FieldTypeNumber, FieldTypeEmail, FieldTypePassword,
		FieldTypeTextarea, FieldTypeSelect, FieldTypeCheckbox, FieldTypeRadio,
		FieldTypeDate, FieldTypeFile:
		return true
	default:
		return false
	}
}

// Resolved returns t when known and FieldTypeText otherwise.
func (t FieldType) Resolved() FieldType {
	if t.Known() {
		return t
	}
	return FieldTypeText
}

// CarriesOptions reports whether fields of this type own an options list.
func (t FieldType) CarriesOptions() bool {
	switch t {
	case FieldTypeSelect, FieldTypeRadio, FieldTypeCheckbox:
		return true
	default:
		return false
	}
}

// Field is a single form element.
type Field struct {
	ID          string      `json:"id" yaml:"id"`
	Type        FieldType   `json:"type" yaml:"type"`
	Label       string      `json:"label" yaml:"label"`
	Placeholder string      `json:"placeholder" yaml:"placeholder"`
	Required    bool        `json:"required" yaml:"required"`
	Options     []string    `json:"options,omitempty" yaml:"options,omitempty"`
	Rules       []FieldRule `json:"rules,omitempty" yaml:"rules,omitempty"`
	Order       int         `json:"order" yaml:"order"`
}

// FieldRule is an extra boolean expression a non-empty value must satisfy.
// The expression sees the field's value as `value` and the whole submission,
// keyed by field id, as `values`.
type FieldRule struct {
	Expression string `json:"expression" yaml:"expression"`
	Message    string `json:"message,omitempty" yaml:"message,omitempty"`
}

// Choices returns the options that are meaningful for the field type. Fields
// whose type does not carry options always report none.
func (f Field) Choices() []string {
	if !f.Type.CarriesOptions() {
		return nil
	}
	return f.Options
}

// Clone returns a deep copy of the field.
func (f Field) Clone() Field {
	out := f
	if f.Options != nil {
		out.Options = append([]string(nil), f.Options...)
	}
	if f.Rules != nil {
		out.Rules = append([]FieldRule(nil), f.Rules...)
	}
	return out
}

// FieldConfig carries the attributes supplied when adding a field.
type FieldConfig struct {
	Type        FieldType   `json:"type" yaml:"type"`
	Label       string      `json:"label" yaml:"label"`
	Placeholder string      `json:"placeholder" yaml:"placeholder"`
	Required    bool        `json:"required" yaml:"required"`
	Options     []string    `json:"options,omitempty" yaml:"options,omitempty"`
	Rules       []FieldRule `json:"rules,omitempty" yaml:"rules,omitempty"`
}

// FieldPatch updates a subset of a field's mutable attributes. Nil pointers
// leave the attribute untouched; Options and Rules are applied when non-nil.
type FieldPatch struct {
	ID          string
	Type        *FieldType
	Label       *string
	Placeholder *string
	Required    *bool
	Options     []string
	Rules       []FieldRule
}

// Apply merges the patch onto field and returns the result. The id is never
// rewritten.
func (p FieldPatch) Apply(field Field) Field {
	out := field.Clone()
	if p.Type != nil {
		out.Type = *p.Type
	}
	if p.Label != nil {
		out.Label = *p.Label
	}
	if p.Placeholder != nil {
		out.Placeholder = *p.Placeholder
	}
	if p.Required != nil {
		out.Required = *p.Required
	}
	if p.Options != nil {
		out.Options = append([]string(nil), p.Options...)
	}
	if p.Rules != nil {
		out.Rules = append([]FieldRule(nil), p.Rules...)
	}
	return out
}

// Values maps field ids to submitted values.
type Values map[string]any

// Clone deep copies the value map, including nested lists and maps.
func (v Values) Clone() Values {
	if v == nil {
		return nil
	}
	out := make(Values, len(v))
	for key, value := range v {
		out[key] = deepCopy(value)
	}
	return out
}

// Response is one accepted submission.
type Response struct {
	Values      Values    `json:"values" yaml:"values"`
	SubmittedAt time.Time `json:"submittedAt,omitempty" yaml:"submittedAt,omitempty"`
}

// Clone returns a deep copy of the response.
func (r Response) Clone() Response {
	return Response{
		Values:      r.Values.Clone(),
		SubmittedAt: r.SubmittedAt,
	}
}

// DefaultFormID identifies the scratch form used before the first save.
const DefaultFormID = "default"

// DefaultFormName is used when a form is created without a name.
const DefaultFormName = "New Form"

// Form is a named, ordered collection of fields plus its responses.
type Form struct {
	ID        string     `json:"id" yaml:"id"`
	Name      string     `json:"name" yaml:"name"`
	Fields    []Field    `json:"fields" yaml:"fields"`
	Responses []Response `json:"responses,omitempty" yaml:"responses,omitempty"`
}

// Clone returns a deep copy so edits on the copy never alias the source.
func (f Form) Clone() Form {
	out := Form{ID: f.ID, Name: f.Name}
	out.Fields = make([]Field, len(f.Fields))
	for idx, field := range f.Fields {
		out.Fields[idx] = field.Clone()
	}
	if len(f.Responses) > 0 {
		out.Responses = make([]Response, len(f.Responses))
		for idx, response := range f.Responses {
			out.Responses[idx] = response.Clone()
		}
	}
	return out
}

// FieldByID returns the field with the supplied id.
func (f Form) FieldByID(id string) (Field, bool) {
	for _, field := range f.Fields {
		if field.ID == id {
			return field, true
		}
	}
	return Field{}, false
}

// IndexOf returns the position of the field id or -1.
func (f Form) IndexOf(id string) int {
	for idx, field := range f.Fields {
		if field.ID == id {
			return idx
		}
	}
	return -1
}

// OrderIsDense reports whether fields[i].order == i for every field.
func (f Form) OrderIsDense() bool {
	for idx, field := range f.Fields {
		if field.Order != idx {
			return false
		}
	}
	return true
}

// NewForm returns an empty form with the given id and name. Blank names fall
// back to DefaultFormName.
func NewForm(id, name string) Form {
	if strings.TrimSpace(name) == "" {
		name = DefaultFormName
	}
	return Form{ID: id, Name: name, Fields: []Field{}}
}

// State is the serialisable store state.
type State struct {
	CurrentForm Form   `json:"currentForm" yaml:"currentForm"`
	Forms       []Form `json:"forms" yaml:"forms"`
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	out := State{CurrentForm: s.CurrentForm.Clone()}
	out.Forms = make([]Form, len(s.Forms))
	for idx, form := range s.Forms {
		out.Forms[idx] = form.Clone()
	}
	return out
}

func deepCopy(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for k, v := range typed {
			clone[k] = deepCopy(v)
		}
		return clone
	case Values:
		return typed.Clone()
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = deepCopy(v)
		}
		return clone
	case []string:
		return append([]string(nil), typed...)
	default:
		return typed
	}
}
