// Package formbuilder is the top-level entry point: it re-exports the core
// types and wires the store, the validation engine and the renderers for
// callers that want a form on screen in a few lines.
package formbuilder

import (
	"context"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formbuilder/pkg/filler"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/openapi"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/renderers/vanilla"
	"github.com/goliatone/go-formbuilder/pkg/responses"
	"github.com/goliatone/go-formbuilder/pkg/store"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// Form is a named, ordered collection of fields.
type Form = model.Form

// Field is a single input within a form.
type Field = model.Field

// FieldConfig carries the attributes supplied when adding a field.
type FieldConfig = model.FieldConfig

// Values maps field ids to entered values.
type Values = model.Values

// RenderOptions describes per-request overrides renderers use to prefill
// values or surface validation errors.
type RenderOptions = render.RenderOptions

// Errors maps field ids to their validation messages.
type Errors = validation.Errors

// NewStore constructs a form schema store.
func NewStore(options ...store.Option) *store.Store {
	return store.New(options...)
}

// Validate runs full validation of values against form.
func Validate(form Form, values Values, options ...validation.Option) (Errors, error) {
	if err := validation.CheckForm(&form); err != nil {
		return nil, err
	}
	return validation.BuildSchema(form.Fields, options...).Validate(values), nil
}

// RenderHTML renders form with the built-in HTML renderer.
func RenderHTML(ctx context.Context, form Form, opts RenderOptions, options ...vanilla.Option) ([]byte, error) {
	renderer, err := vanilla.New(options...)
	if err != nil {
		return nil, err
	}
	return renderer.Render(ctx, &form, opts)
}

// OpenFiller starts a fill of the saved form formID whose accepted
// submissions are recorded in s.
func OpenFiller(s *store.Store, formID string, options ...filler.Option) (*filler.Filler, error) {
	opts := append([]filler.Option{filler.WithRecorder(responses.NewRecorder(s))}, options...)
	return filler.Open(s, formID, opts...)
}

// OpenAPIDocument builds and validates the OpenAPI contract of form's
// response submission endpoint.
func OpenAPIDocument(ctx context.Context, form Form, options ...openapi.Option) (*openapi3.T, error) {
	doc, err := openapi.Document(form, options...)
	if err != nil {
		return nil, err
	}
	if err := openapi.Validate(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}
