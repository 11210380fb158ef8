package validation

import (
	"github.com/goliatone/go-formbuilder/pkg/fieldtypes"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

// DefaultTextMaxLength bounds plain text fields unless overridden with
// WithTextMaxLength.
const DefaultTextMaxLength = 20

// Option customises schema derivation.
type Option func(*config)

type config struct {
	textMaxLength int
	strictOptions bool
	fieldRules    map[string][]Rule
}

func newConfig(options []Option) config {
	cfg := config{
		textMaxLength: DefaultTextMaxLength,
		fieldRules:    map[string][]Rule{},
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithTextMaxLength sets the maximum rune count for text fields. Zero or a
// negative value disables the limit.
func WithTextMaxLength(n int) Option {
	return func(c *config) {
		if n < 0 {
			n = 0
		}
		c.textMaxLength = n
	}
}

// WithStrictOptions requires select, radio and checkbox values to come from
// the field's options.
func WithStrictOptions() Option {
	return func(c *config) {
		c.strictOptions = true
	}
}

// WithFieldRule attaches an extra rule to the field with id. Extra rules run
// only when the value is not empty.
func WithFieldRule(id string, rule Rule) Option {
	return func(c *config) {
		if id == "" || rule == nil {
			return
		}
		c.fieldRules[id] = append(c.fieldRules[id], rule)
	}
}

// RuleFor derives the rule for a single field from its type and required
// flag. Unknown types use the plain string rule without a length limit.
func RuleFor(field model.Field, options ...Option) Rule {
	return ruleFor(field, newConfig(options))
}

func ruleFor(field model.Field, cfg config) Rule {
	definition, _ := fieldtypes.Lookup(field.Type)

	var base Rule
	switch definition.Rule {
	case fieldtypes.RuleEmail:
		base = Email()
	case fieldtypes.RuleNumber:
		base = Number()
	case fieldtypes.RuleDate:
		base = Date()
	case fieldtypes.RulePassword:
		base = Password()
	case fieldtypes.RuleSelection:
		base = Selection()
	default:
		limit := 0
		if field.Type == model.FieldTypeText {
			limit = cfg.textMaxLength
		}
		base = String(limit)
	}

	if cfg.strictOptions && definition.HasOptions {
		base = sequence(base, OneOf(field.Options))
	}
	extra := append([]Rule(nil), cfg.fieldRules[field.ID]...)
	for _, fieldRule := range field.Rules {
		// definitions are checked on import; a rule that no longer compiles is skipped
		rule, err := ExpressionRule(fieldRule.Expression, fieldRule.Message)
		if err != nil {
			continue
		}
		extra = append(extra, rule)
	}
	if len(extra) > 0 {
		base = sequence(base, All(extra...))
	}

	switch {
	case field.Required && definition.Rule == fieldtypes.RuleSelection:
		return RequiredSelection(base)
	case field.Required:
		return Required(base)
	default:
		return Optional(base)
	}
}

// sequence runs next only when first passes, so a type mismatch is not
// followed by noise from rules that assume the type.
func sequence(first, next Rule) Rule {
	return func(value any, values map[string]any) []Issue {
		if issues := first(value, values); len(issues) > 0 {
			return issues
		}
		return next(value, values)
	}
}

// Schema is the conjunction of per-field rules derived from a field list,
// keyed by field id.
type Schema struct {
	order  []string
	rules  map[string]Rule
	fields map[string]model.Field
}

// BuildSchema derives a Schema from fields. Fields without an id are
// skipped.
func BuildSchema(fields []model.Field, options ...Option) Schema {
	cfg := newConfig(options)
	schema := Schema{
		order:  make([]string, 0, len(fields)),
		rules:  make(map[string]Rule, len(fields)),
		fields: make(map[string]model.Field, len(fields)),
	}
	for _, field := range fields {
		if field.ID == "" {
			continue
		}
		if _, seen := schema.rules[field.ID]; !seen {
			schema.order = append(schema.order, field.ID)
		}
		schema.rules[field.ID] = ruleFor(field, cfg)
		schema.fields[field.ID] = field.Clone()
	}
	return schema
}

// Fields returns the field ids in form order.
func (s Schema) Fields() []string {
	return append([]string(nil), s.order...)
}

// Field returns the field definition the rule for id was derived from.
func (s Schema) Field(id string) (model.Field, bool) {
	field, ok := s.fields[id]
	return field, ok
}

// Rule returns the rule for id.
func (s Schema) Rule(id string) (Rule, bool) {
	rule, ok := s.rules[id]
	return rule, ok
}

// ValidateField evaluates the rule for id against values[id] and returns every
// violated message. Unknown ids have no rule and always pass.
func (s Schema) ValidateField(id string, values map[string]any) []string {
	return messagesOf(s.fieldIssues(id, values))
}

func (s Schema) fieldIssues(id string, values map[string]any) []Issue {
	rule, ok := s.rules[id]
	if !ok {
		return nil
	}
	issues := rule(values[id], values)
	for idx := range issues {
		issues[idx].Field = id
	}
	return issues
}

// Issues evaluates every field and returns the violations in form order.
func (s Schema) Issues(values map[string]any) []Issue {
	var out []Issue
	for _, id := range s.order {
		out = append(out, s.fieldIssues(id, values)...)
	}
	return out
}

// Validate evaluates every field without stopping at the first failure. The
// result holds one entry per failing field.
func (s Schema) Validate(values map[string]any) Errors {
	out := Errors{}
	for _, issue := range s.Issues(values) {
		out[issue.Field] = append(out[issue.Field], issue.Message)
	}
	return out
}
