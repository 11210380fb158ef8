package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// ErrNoSubmission reports a document without a form submission operation.
var ErrNoSubmission = errors.New("openapi: no form submission operation")

// Parse loads and validates an OpenAPI document from JSON or YAML.
func Parse(ctx context.Context, raw []byte) (*openapi3.T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if err := Validate(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// FormFromDocument rebuilds the form described by a document produced with
// Document. Field metadata comes from the x-formbuilder extensions; the
// required list comes from the request body schema.
func FormFromDocument(doc *openapi3.T) (model.Form, error) {
	if doc == nil || doc.Paths == nil {
		return model.Form{}, ErrNoSubmission
	}
	item := doc.Paths.Value(SubmissionPath)
	if item == nil || item.Post == nil {
		return model.Form{}, ErrNoSubmission
	}
	op := item.Post

	form := model.Form{Fields: []model.Field{}}
	if meta, ok := op.Extensions[formExtension].(map[string]any); ok {
		form.ID = stringValue(meta["id"])
		form.Name = stringValue(meta["name"])
	}
	if form.ID == "" {
		return model.Form{}, fmt.Errorf("%w: missing %s extension", ErrNoSubmission, formExtension)
	}

	schema := requestSchema(op.RequestBody)
	if schema == nil {
		return form, nil
	}
	required := make(map[string]bool, len(schema.Required))
	for _, id := range schema.Required {
		required[id] = true
	}
	for id, ref := range schema.Properties {
		if ref == nil || ref.Value == nil {
			continue
		}
		form.Fields = append(form.Fields, fieldFromSchema(id, ref.Value, required[id]))
	}
	sort.SliceStable(form.Fields, func(i, j int) bool {
		if form.Fields[i].Order != form.Fields[j].Order {
			return form.Fields[i].Order < form.Fields[j].Order
		}
		return form.Fields[i].ID < form.Fields[j].ID
	})
	for idx := range form.Fields {
		form.Fields[idx].Order = idx
	}
	return form, nil
}

func requestSchema(body *openapi3.RequestBodyRef) *openapi3.Schema {
	if body == nil || body.Value == nil {
		return nil
	}
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded"} {
		if mt, ok := body.Value.Content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func fieldFromSchema(id string, schema *openapi3.Schema, required bool) model.Field {
	field := model.Field{
		ID:       id,
		Label:    schema.Title,
		Required: required,
	}
	meta, _ := schema.Extensions[fieldExtension].(map[string]any)
	field.Type = model.FieldType(stringValue(meta["type"]))
	if field.Type == "" {
		field.Type = typeFromSchema(schema)
	}
	field.Placeholder = stringValue(meta["placeholder"])
	field.Order = intValue(meta["order"])
	field.Options = stringList(meta["options"])
	field.Rules = fieldRules(meta["rules"])
	if field.Options == nil && field.Type.CarriesOptions() {
		field.Options = enumStrings(schema)
	}
	return field
}

func fieldRules(raw any) []model.FieldRule {
	var items []any
	switch typed := raw.(type) {
	case []any:
		items = typed
	case []map[string]any:
		for _, item := range typed {
			items = append(items, item)
		}
	default:
		return nil
	}
	var out []model.FieldRule
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		expression := stringValue(entry["expression"])
		if expression == "" {
			continue
		}
		out = append(out, model.FieldRule{Expression: expression, Message: stringValue(entry["message"])})
	}
	return out
}

func typeFromSchema(schema *openapi3.Schema) model.FieldType {
	switch firstSchemaType(schema.Type) {
	case openapi3.TypeNumber, openapi3.TypeInteger:
		return model.FieldTypeNumber
	case openapi3.TypeArray:
		return model.FieldTypeCheckbox
	}
	switch schema.Format {
	case "email":
		return model.FieldTypeEmail
	case "date":
		return model.FieldTypeDate
	}
	if len(schema.Enum) > 0 {
		return model.FieldTypeSelect
	}
	return model.FieldTypeText
}

func enumStrings(schema *openapi3.Schema) []string {
	values := schema.Enum
	if schema.Items != nil && schema.Items.Value != nil {
		values = schema.Items.Value.Enum
	}
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, stringValue(v))
	}
	return out
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func stringValue(v any) string {
	switch typed := v.(type) {
	case string:
		return typed
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(typed))
	}
}

func intValue(v any) int {
	switch typed := v.(type) {
	case int:
		return typed
	case int64:
		return int(typed)
	case float64:
		return int(typed)
	default:
		return 0
	}
}

func stringList(v any) []string {
	switch typed := v.(type) {
	case []string:
		return append([]string(nil), typed...)
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			out = append(out, stringValue(item))
		}
		return out
	default:
		return nil
	}
}
