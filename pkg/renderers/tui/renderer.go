// Package tui fills forms interactively in a terminal. Every field is asked
// through the prompt matching its widget, re-asked while its incremental
// validation fails, and the collected values are serialized once a full
// validation passes.
package tui

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/goccy/go-json"

	"github.com/goliatone/go-formbuilder/pkg/filler"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/validation"
	"github.com/goliatone/go-formbuilder/pkg/widgets"
)

const (
	noticeUnavailable = "Form data is missing or invalid."
	noticeSubmitted   = "Form submitted successfully."
	noneOption        = "(none)"
	confirmSubmit     = "Submit the form?"
)

// Renderer drives a terminal fill of a form.
type Renderer struct {
	driver        PromptDriver
	outputFormat  OutputFormat
	fillerOptions []filler.Option
	theme         Theme
	confirmSubmit bool
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer. Without WithPromptDriver it prompts through
// survey on the current terminal.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		theme: Theme{
			ErrorPrefix: "✗ ",
			DonePrefix:  "✓ ",
		},
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	switch r.outputFormat {
	case OutputFormatJSON, OutputFormatFormURLEncoded, OutputFormatPrettyText:
	default:
		return nil, fmt.Errorf("tui: unsupported output format %q", r.outputFormat)
	}
	return r, nil
}

// Name implements render.Renderer.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType implements render.Renderer.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render fills form interactively and returns the serialized values. Missing
// forms produce the unavailable notice instead of prompts.
func (r *Renderer) Render(ctx context.Context, form *model.Form, options render.RenderOptions) ([]byte, error) {
	if validation.CheckForm(form) != nil {
		return []byte(noticeUnavailable + "\n"), nil
	}
	if options.Submitted {
		return []byte(noticeSubmitted + "\n"), nil
	}
	f, err := filler.New(*form, r.fillerOptions...)
	if err != nil {
		return nil, err
	}
	values, err := r.fill(ctx, f, options.Values)
	if err != nil {
		return nil, err
	}
	return r.Encode(f.Form(), values)
}

// Fill drives an already opened filler until a submission is accepted and
// returns the accepted values.
func (r *Renderer) Fill(ctx context.Context, f *filler.Filler) (model.Values, error) {
	return r.fill(ctx, f, nil)
}

func (r *Renderer) fill(ctx context.Context, f *filler.Filler, defaults map[string]any) (model.Values, error) {
	bindings := f.Bindings()
	byID := make(map[string]widgets.Binding, len(bindings))
	for _, binding := range bindings {
		if value, ok := defaults[binding.Field.ID]; ok && binding.Value == nil {
			binding.Value = value
		}
		byID[binding.Field.ID] = binding
		if err := r.askUntilValid(ctx, f, binding); err != nil {
			return nil, err
		}
	}

	for {
		if err := r.confirm(ctx); err != nil {
			return nil, err
		}
		errs, err := f.Submit(ctx)
		if err != nil {
			return nil, err
		}
		if errs.Empty() {
			if err := r.driver.Info(ctx, r.theme.DonePrefix+noticeSubmitted); err != nil {
				return nil, err
			}
			return f.Values(), nil
		}
		for _, binding := range bindings {
			messages := errs.For(binding.Field.ID)
			if len(messages) == 0 {
				continue
			}
			if err := r.report(ctx, binding, messages); err != nil {
				return nil, err
			}
			current := byID[binding.Field.ID]
			current.Value, _ = f.Session().Value(binding.Field.ID)
			if err := r.askUntilValid(ctx, f, current); err != nil {
				return nil, err
			}
		}
	}
}

func (r *Renderer) confirm(ctx context.Context) error {
	if !r.confirmSubmit {
		return nil
	}
	ok, err := r.driver.Confirm(ctx, ConfirmConfig{Message: confirmSubmit, Default: true})
	if err != nil {
		return err
	}
	if !ok {
		return ErrSubmitDeclined
	}
	return nil
}

func (r *Renderer) askUntilValid(ctx context.Context, f *filler.Filler, binding widgets.Binding) error {
	for {
		value, err := r.ask(ctx, binding)
		if err != nil {
			return err
		}
		messages := f.Change(binding.Field.ID, value)
		if len(messages) == 0 {
			return nil
		}
		if err := r.report(ctx, binding, messages); err != nil {
			return err
		}
		binding.Value = value
	}
}

func (r *Renderer) report(ctx context.Context, binding widgets.Binding, messages []string) error {
	for _, message := range messages {
		if err := r.driver.Info(ctx, fmt.Sprintf("%s%s: %s", r.theme.ErrorPrefix, label(binding.Field), message)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) ask(ctx context.Context, binding widgets.Binding) (any, error) {
	field := binding.Field
	message := label(field)
	if field.Required {
		message += " *"
	}

	switch binding.Widget {
	case widgets.WidgetPasswordInput:
		return r.driver.Password(ctx, InputConfig{Message: message, Help: field.Placeholder})
	case widgets.WidgetTextarea:
		return r.driver.TextArea(ctx, TextAreaConfig{
			Message: message,
			Default: textValue(binding.Value),
			Help:    field.Placeholder,
		})
	case widgets.WidgetSelect, widgets.WidgetRadioGroup:
		options := binding.Options
		if !field.Required {
			options = append([]string{noneOption}, options...)
		}
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      options,
			DefaultIndex: indexOf(options, textValue(binding.Value)),
			Help:         field.Placeholder,
		})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(options) || options[idx] == noneOption && !field.Required {
			return "", nil
		}
		return options[idx], nil
	case widgets.WidgetCheckboxGroup:
		current, _ := validation.AsSelection(binding.Value)
		indices, err := r.driver.MultiSelect(ctx, SelectConfig{
			Message:  message,
			Options:  binding.Options,
			Defaults: indicesOf(binding.Options, current),
			Help:     field.Placeholder,
		})
		if err != nil {
			return nil, err
		}
		selected := make([]string, 0, len(indices))
		for _, idx := range indices {
			if idx >= 0 && idx < len(binding.Options) {
				selected = append(selected, binding.Options[idx])
			}
		}
		return selected, nil
	default:
		return r.driver.Input(ctx, InputConfig{
			Message: message,
			Default: textValue(binding.Value),
			Help:    inputHelp(binding),
		})
	}
}

func inputHelp(binding widgets.Binding) string {
	if binding.Field.Placeholder != "" {
		return binding.Field.Placeholder
	}
	switch binding.Widget {
	case widgets.WidgetDatePicker:
		return "YYYY-MM-DD"
	case widgets.WidgetFilePicker:
		return "path to a file"
	}
	return ""
}

func label(field model.Field) string {
	if strings.TrimSpace(field.Label) != "" {
		return field.Label
	}
	return field.ID
}

func textValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Encode serializes values in the configured output format. Pretty text
// masks passwords.
func (r *Renderer) Encode(form model.Form, values model.Values) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		encoded := url.Values{}
		for _, field := range form.Fields {
			value, ok := values[field.ID]
			if !ok {
				continue
			}
			if selected, isList := validation.AsSelection(value); isList && field.Type == model.FieldTypeCheckbox {
				for _, item := range selected {
					encoded.Add(field.ID, item)
				}
				continue
			}
			encoded.Set(field.ID, textValue(value))
		}
		return []byte(encoded.Encode()), nil
	case OutputFormatPrettyText:
		var buf bytes.Buffer
		for _, field := range form.Fields {
			value := values[field.ID]
			if field.Type == model.FieldTypePassword {
				value = "********"
			}
			if selected, ok := validation.AsSelection(value); ok && field.Type == model.FieldTypeCheckbox {
				value = strings.Join(selected, ", ")
			}
			fmt.Fprintf(&buf, "%s: %s\n", label(field), textValue(value))
		}
		return buf.Bytes(), nil
	default:
		data, err := json.MarshalIndent(values, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("tui: encode values: %w", err)
		}
		return append(data, '\n'), nil
	}
}
