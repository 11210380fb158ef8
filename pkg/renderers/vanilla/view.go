package vanilla

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/widgets"
)

func controlID(fieldID string) string {
	return "fb-" + strings.TrimSpace(fieldID)
}

func inputType(binding widgets.Binding) string {
	switch binding.Widget {
	case widgets.WidgetNumberInput:
		return "number"
	case widgets.WidgetPasswordInput:
		return "password"
	case widgets.WidgetDatePicker:
		return "date"
	case widgets.WidgetFilePicker:
		return "file"
	}
	if binding.Field.Type == model.FieldTypeEmail {
		return "email"
	}
	return "text"
}

func fieldView(binding widgets.Binding) map[string]any {
	options := make([]map[string]any, 0, len(binding.Options))
	for idx, option := range binding.Options {
		options = append(options, map[string]any{
			"id":       fmt.Sprintf("%s-%d", controlID(binding.Field.ID), idx),
			"value":    option,
			"label":    sanitizeText(option),
			"selected": binding.Selected(option),
		})
	}

	value := ""
	if text, ok := binding.Value.(string); ok && binding.Widget != widgets.WidgetPasswordInput {
		value = text
	}

	return map[string]any{
		"id":          binding.Field.ID,
		"controlId":   controlID(binding.Field.ID),
		"label":       sanitizeText(binding.Field.Label),
		"placeholder": sanitizeText(binding.Field.Placeholder),
		"required":    binding.Field.Required,
		"widget":      binding.Widget,
		"inputType":   inputType(binding),
		"options":     options,
		"value":       value,
		"messages":    binding.Messages,
		"invalid":     len(binding.Messages) > 0,
	}
}
