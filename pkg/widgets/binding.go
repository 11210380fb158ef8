package widgets

import (
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// Binding is everything a renderer needs for one field: the widget, the
// choices it offers, the rule to run on change and the messages to show.
type Binding struct {
	Field    model.Field
	Widget   string
	Fallback bool
	Options  []string
	Rule     validation.Rule
	Messages []string
	Value    any
}

// Masked reports whether the widget hides its input.
func (b Binding) Masked() bool {
	return b.Widget == WidgetPasswordInput
}

// Multiple reports whether the widget accepts several selections.
func (b Binding) Multiple() bool {
	return b.Widget == WidgetCheckboxGroup
}

// Selected reports whether option is part of the bound value.
func (b Binding) Selected(option string) bool {
	if text, ok := b.Value.(string); ok {
		return text == option
	}
	selected, _ := validation.AsSelection(b.Value)
	for _, candidate := range selected {
		if candidate == option {
			return true
		}
	}
	return false
}

// Validate runs the bound rule against values and returns the messages.
func (b Binding) Validate(values map[string]any) []string {
	if b.Rule == nil {
		return nil
	}
	issues := b.Rule(values[b.Field.ID], values)
	out := make([]string, 0, len(issues))
	for _, issue := range issues {
		out = append(out, issue.Message)
	}
	return out
}

// Bind resolves the widget for field and attaches the schema rule and the
// field's current messages from errs. Fields unknown to the schema get a rule
// derived on the spot.
func (r *Registry) Bind(field model.Field, schema validation.Schema, errs validation.Errors) Binding {
	widget, matched := r.Resolve(field)
	rule, ok := schema.Rule(field.ID)
	if !ok {
		rule = validation.RuleFor(field)
	}
	binding := Binding{
		Field:    field.Clone(),
		Widget:   widget,
		Fallback: !matched,
		Rule:     rule,
		Messages: append([]string(nil), errs.For(field.ID)...),
	}
	switch widget {
	case WidgetSelect, WidgetRadioGroup, WidgetCheckboxGroup:
		binding.Options = append([]string(nil), field.Options...)
	}
	return binding
}

// BindForm binds every field of form in order, attaching the entered values.
func (r *Registry) BindForm(form model.Form, schema validation.Schema, errs validation.Errors, values model.Values) []Binding {
	bindings := make([]Binding, 0, len(form.Fields))
	for _, field := range form.Fields {
		binding := r.Bind(field, schema, errs)
		if values != nil {
			binding.Value = values[field.ID]
		}
		bindings = append(bindings, binding)
	}
	return bindings
}
