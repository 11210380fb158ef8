// Package fieldtypes is the static catalogue of field types offered by the
// builder palette: display metadata, the rendering kind, default options and
// the validation rule family used for each type.
package fieldtypes

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Kind names the presentation behaviour selected for a field type.
type Kind string

const (
	KindTextInput     Kind = "text-input"
	KindNumberInput   Kind = "number-input"
	KindPasswordInput Kind = "password-input"
	KindTextarea      Kind = "textarea"
	KindSelect        Kind = "select"
	KindRadioGroup    Kind = "radio-group"
	KindCheckboxGroup Kind = "checkbox-group"
	KindDatePicker    Kind = "date-picker"
	KindFilePicker    Kind = "file-picker"
)

// RuleFamily names the base validation rule derived for a field type.
type RuleFamily string

const (
	RuleString    RuleFamily = "string"
	RuleEmail     RuleFamily = "email"
	RuleNumber    RuleFamily = "number"
	RuleDate      RuleFamily = "date"
	RulePassword  RuleFamily = "password"
	RuleSelection RuleFamily = "selection"
)

// Definition is an immutable catalogue entry.
type Definition struct {
	Type       model.FieldType
	Label      string
	Icon       string
	Kind       Kind
	Rule       RuleFamily
	HasOptions bool
}

var defaultOptions = []string{"Option 1", "Option 2"}

var catalogue = []Definition{
	{Type: model.FieldTypeText, Label: "Text Field", Icon: "📝", Kind: KindTextInput, Rule: RuleString},
	{Type: model.FieldTypeNumber, Label: "Number Field", Icon: "🔢", Kind: KindNumberInput, Rule: RuleNumber},
	{Type: model.FieldTypeEmail, Label: "Email Field", Icon: "✉️", Kind: KindTextInput, Rule: RuleEmail},
	{Type: model.FieldTypePassword, Label: "Password Field", Icon: "🔒", Kind: KindPasswordInput, Rule: RulePassword},
	{Type: model.FieldTypeTextarea, Label: "Text Area", Icon: "📄", Kind: KindTextarea, Rule: RuleString},
	{Type: model.FieldTypeSelect, Label: "Dropdown", Icon: "🔽", Kind: KindSelect, Rule: RuleString, HasOptions: true},
	{Type: model.FieldTypeCheckbox, Label: "Checkbox Group", Icon: "☑️", Kind: KindCheckboxGroup, Rule: RuleSelection, HasOptions: true},
	{Type: model.FieldTypeRadio, Label: "Radio Group", Icon: "⚪", Kind: KindRadioGroup, Rule: RuleString, HasOptions: true},
	{Type: model.FieldTypeDate, Label: "Date Picker", Icon: "📅", Kind: KindDatePicker, Rule: RuleDate},
	{Type: model.FieldTypeFile, Label: "File Upload", Icon: "📎", Kind: KindFilePicker, Rule: RuleString},
}

// All returns the catalogue in palette order.
func All() []Definition {
	return append([]Definition(nil), catalogue...)
}

// Lookup returns the definition for t. Unknown types resolve to the text
// definition with ok set to false so callers can tell the fallback apart.
func Lookup(t model.FieldType) (Definition, bool) {
	for _, def := range catalogue {
		if def.Type == t {
			return def, true
		}
	}
	return catalogue[0], false
}

// DefaultOptions returns a fresh copy of the options seeded on new
// option-carrying fields.
func DefaultOptions() []string {
	return append([]string(nil), defaultOptions...)
}

// DefaultConfig returns the add-field configuration the builder palette uses
// for t: a "New <Type> Field" label, empty placeholder, not required and two
// placeholder options when the type carries options.
func DefaultConfig(t model.FieldType) model.FieldConfig {
	cfg := model.FieldConfig{
		Type:  t,
		Label: "New " + capitalise(string(t)) + " Field",
	}
	if t.CarriesOptions() {
		cfg.Options = DefaultOptions()
	}
	return cfg
}

// Parse converts user input into a FieldType. Matching is case-insensitive
// against the type identifier and the display label.
func Parse(raw string) (model.FieldType, bool) {
	needle := strings.ToLower(strings.TrimSpace(raw))
	if needle == "" {
		return "", false
	}
	for _, def := range catalogue {
		if string(def.Type) == needle || strings.ToLower(def.Label) == needle {
			return def.Type, true
		}
	}
	return model.FieldType(needle), false
}

func capitalise(value string) string {
	if value == "" {
		return value
	}
	r, size := utf8.DecodeRuneInString(value)
	return string(unicode.ToUpper(r)) + value[size:]
}
