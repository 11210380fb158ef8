// Package widgets implements rendering dispatch: it selects exactly one input
// widget for every field and binds it to the field's validation rule and
// current error messages.
package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formbuilder/pkg/fieldtypes"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Built-in widget identifiers. Each field type maps to exactly one of them.
const (
	WidgetTextInput     = string(fieldtypes.KindTextInput)
	WidgetNumberInput   = string(fieldtypes.KindNumberInput)
	WidgetPasswordInput = string(fieldtypes.KindPasswordInput)
	WidgetTextarea      = string(fieldtypes.KindTextarea)
	WidgetSelect        = string(fieldtypes.KindSelect)
	WidgetRadioGroup    = string(fieldtypes.KindRadioGroup)
	WidgetCheckboxGroup = string(fieldtypes.KindCheckboxGroup)
	WidgetDatePicker    = string(fieldtypes.KindDatePicker)
	WidgetFilePicker    = string(fieldtypes.KindFilePicker)
)

// FallbackWidget is used for fields no matcher claims.
const FallbackWidget = WidgetTextInput

const builtinPriority = 10

// Matcher decides whether a widget should handle the supplied field.
type Matcher func(field model.Field) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry selects widgets for fields through registered matchers. Higher
// priority wins; ties fall back to registration order. Fields no matcher
// claims degrade to a plain text input.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with one built-in matcher per catalogue
// field type.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a widget matcher with the provided name and priority. Higher
// priority values take precedence over the built-ins.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the widget for a field. ok is false when no matcher claimed
// the field and the fallback text input was chosen.
func (r *Registry) Resolve(field model.Field) (string, bool) {
	if r == nil {
		return FallbackWidget, false
	}
	r.mu.RLock()
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(field) {
			return entry.name, true
		}
	}
	return FallbackWidget, false
}

func (r *Registry) registerBuiltins() {
	for _, definition := range fieldtypes.All() {
		fieldType := definition.Type
		r.Register(string(definition.Kind), builtinPriority, func(field model.Field) bool {
			return field.Type == fieldType
		})
	}
}
