// Package openapi exports a saved form as an OpenAPI 3 document describing its
// response submission endpoint, and reads such documents back into forms.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

const (
	// SubmissionPath is the templated path of the response endpoint.
	SubmissionPath = "/forms/{id}/responses"

	formExtension  = "x-formbuilder-form"
	fieldExtension = "x-formbuilder-field"
)

// Option customises document generation.
type Option func(*config)

type config struct {
	version       string
	serverURL     string
	textMaxLength int
	strictOptions bool
}

// WithVersion sets info.version (default "1.0.0").
func WithVersion(version string) Option {
	return func(cfg *config) {
		if version != "" {
			cfg.version = version
		}
	}
}

// WithServerURL adds a server entry to the document.
func WithServerURL(url string) Option {
	return func(cfg *config) {
		cfg.serverURL = strings.TrimRight(url, "/")
	}
}

// WithTextMaxLength mirrors validation.WithTextMaxLength; 0 drops the limit.
func WithTextMaxLength(n int) Option {
	return func(cfg *config) {
		if n >= 0 {
			cfg.textMaxLength = n
		}
	}
}

// WithStrictOptions emits enums for select and radio fields.
func WithStrictOptions() Option {
	return func(cfg *config) {
		cfg.strictOptions = true
	}
}

// Document builds the OpenAPI description of form's submission endpoint. The
// request body is an object keyed by field id whose property schemas mirror
// the validation rules.
func Document(form model.Form, opts ...Option) (*openapi3.T, error) {
	if err := validation.CheckForm(&form); err != nil {
		return nil, err
	}
	if strings.TrimSpace(form.ID) == "" {
		return nil, errors.New("openapi: form id is required")
	}
	cfg := config{version: "1.0.0", textMaxLength: validation.DefaultTextMaxLength}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	title := form.Name
	if strings.TrimSpace(title) == "" {
		title = form.ID
	}

	op := openapi3.NewOperation()
	op.OperationID = "submit_" + operationSafe(form.ID)
	op.Summary = "Submit a response to " + title
	op.Extensions = map[string]any{
		formExtension: map[string]any{"id": form.ID, "name": form.Name},
	}
	op.Parameters = openapi3.Parameters{
		{Value: openapi3.NewPathParameter("id").
			WithDescription("Form id").
			WithSchema(openapi3.NewStringSchema().WithEnum(form.ID))},
	}
	op.RequestBody = &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().
			WithRequired(true).
			WithDescription("Values keyed by field id").
			WithJSONSchema(valuesSchema(form, cfg)),
	}
	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusCreated, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().
				WithDescription("Response recorded").
				WithJSONSchema(responseSchema()),
		}),
		openapi3.WithStatus(http.StatusNotFound, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription("Form not found"),
		}),
		openapi3.WithStatus(http.StatusUnprocessableEntity, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().
				WithDescription("Validation failed").
				WithJSONSchema(errorsSchema()),
		}),
	)

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   title,
			Version: cfg.version,
		},
		Paths: openapi3.NewPaths(openapi3.WithPath(SubmissionPath, &openapi3.PathItem{Post: op})),
	}
	if cfg.serverURL != "" {
		doc.Servers = openapi3.Servers{{URL: cfg.serverURL}}
	}
	return doc, nil
}

// Validate runs kin-openapi's structural validation over doc.
func Validate(ctx context.Context, doc *openapi3.T) error {
	if doc == nil {
		return errors.New("openapi: document is nil")
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return fmt.Errorf("openapi: validate: %w", err)
	}
	return nil
}

func valuesSchema(form model.Form, cfg config) *openapi3.Schema {
	schema := openapi3.NewObjectSchema()
	schema.Title = form.Name
	for _, field := range form.Fields {
		schema = schema.WithProperty(field.ID, fieldSchema(field, cfg))
		if field.Required {
			schema.Required = append(schema.Required, field.ID)
		}
	}
	return schema
}

func fieldSchema(field model.Field, cfg config) *openapi3.Schema {
	var schema *openapi3.Schema
	switch field.Type {
	case model.FieldTypeNumber:
		schema = openapi3.NewFloat64Schema()
	case model.FieldTypeEmail:
		schema = openapi3.NewStringSchema().WithFormat("email")
	case model.FieldTypeDate:
		schema = openapi3.NewStringSchema().WithFormat("date")
	case model.FieldTypePassword:
		schema = openapi3.NewStringSchema().
			WithMinLength(validation.PasswordMinLength).
			WithMaxLength(validation.PasswordMaxLength)
		schema.Description = "Must mix lowercase, uppercase, digits and special characters"
	case model.FieldTypeTextarea, model.FieldTypeFile:
		schema = openapi3.NewStringSchema()
	case model.FieldTypeSelect, model.FieldTypeRadio:
		schema = openapi3.NewStringSchema()
		if cfg.strictOptions && len(field.Options) > 0 {
			schema = schema.WithEnum(enumValues(field.Options)...)
		}
	case model.FieldTypeCheckbox:
		items := openapi3.NewStringSchema()
		if len(field.Options) > 0 {
			items = items.WithEnum(enumValues(field.Options)...)
		}
		schema = openapi3.NewArraySchema().WithItems(items)
		if field.Required {
			schema = schema.WithMinItems(1)
		}
	case model.FieldTypeText:
		schema = openapi3.NewStringSchema()
		if cfg.textMaxLength > 0 {
			schema = schema.WithMaxLength(int64(cfg.textMaxLength))
		}
	default:
		schema = openapi3.NewStringSchema()
	}
	schema.Title = field.Label

	meta := map[string]any{
		"type":  string(field.Type),
		"order": field.Order,
	}
	if field.Placeholder != "" {
		meta["placeholder"] = field.Placeholder
	}
	if field.Options != nil {
		meta["options"] = append([]string(nil), field.Options...)
	}
	if len(field.Rules) > 0 {
		rules := make([]map[string]any, 0, len(field.Rules))
		for _, rule := range field.Rules {
			rules = append(rules, map[string]any{"expression": rule.Expression, "message": rule.Message})
		}
		meta["rules"] = rules
	}
	schema.Extensions = map[string]any{fieldExtension: meta}
	return schema
}

func responseSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("values", openapi3.NewObjectSchema().WithAnyAdditionalProperties()).
		WithProperty("submittedAt", openapi3.NewDateTimeSchema())
}

func errorsSchema() *openapi3.Schema {
	messages := openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())
	return openapi3.NewObjectSchema().WithAdditionalProperties(messages)
}

func enumValues(options []string) []any {
	out := make([]any, len(options))
	for i, option := range options {
		out[i] = option
	}
	return out
}

func operationSafe(id string) string {
	var b strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
