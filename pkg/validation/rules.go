package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Rule checks a single field value. values is the full submission, available
// to rules that reference sibling fields.
type Rule func(value any, values map[string]any) []Issue

// All executes every rule and concatenates their issues. It never stops at
// the first failure.
func All(rules ...Rule) Rule {
	return func(value any, values map[string]any) []Issue {
		var out []Issue
		for _, rule := range rules {
			if rule == nil {
				continue
			}
			if issues := rule(value, values); len(issues) > 0 {
				out = append(out, issues...)
			}
		}
		return out
	}
}

// Required reports only the required issue for empty values and defers to
// rule otherwise.
func Required(rule Rule) Rule {
	return requiredWith(newIssue(CodeRequired, MessageRequired), rule)
}

// RequiredSelection is Required for multi-choice values: an empty selection
// yields the "select at least one option" issue.
func RequiredSelection(rule Rule) Rule {
	return requiredWith(newIssue(CodeTooFew, MessageSelectOne), rule)
}

func requiredWith(issue Issue, rule Rule) Rule {
	return func(value any, values map[string]any) []Issue {
		if IsEmpty(value) {
			return []Issue{issue}
		}
		if rule == nil {
			return nil
		}
		return rule(value, values)
	}
}

// Optional skips rule for empty values.
func Optional(rule Rule) Rule {
	return func(value any, values map[string]any) []Issue {
		if IsEmpty(value) || rule == nil {
			return nil
		}
		return rule(value, values)
	}
}

// IsEmpty reports whether value counts as "not provided": nil, a blank
// string, an empty list or false.
func IsEmpty(value any) bool {
	switch typed := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(typed) == ""
	case []string:
		return len(typed) == 0
	case []any:
		return len(typed) == 0
	case bool:
		return !typed
	default:
		return false
	}
}

// String accepts textual values. maxLength > 0 bounds the rune count.
func String(maxLength int) Rule {
	return func(value any, _ map[string]any) []Issue {
		text, ok := asText(value)
		if !ok {
			return []Issue{newIssue(CodeInvalidType, MessageNotText)}
		}
		if maxLength > 0 && utf8.RuneCountInString(text) > maxLength {
			return []Issue{newIssue(CodeTooLong, messageMaxLength(maxLength))}
		}
		return nil
	}
}

// WHATWG "valid e-mail address" grammar.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

// Email accepts strings matching the e-mail address grammar.
func Email() Rule {
	return func(value any, _ map[string]any) []Issue {
		text, ok := asText(value)
		if !ok {
			return []Issue{newIssue(CodeInvalidType, MessageNotText)}
		}
		if !emailPattern.MatchString(strings.TrimSpace(text)) {
			return []Issue{newIssue(CodeInvalidFormat, MessageInvalidEmail)}
		}
		return nil
	}
}

// Number accepts numeric values and strings that parse as finite numbers.
func Number() Rule {
	return func(value any, _ map[string]any) []Issue {
		if _, ok := ParseNumber(value); !ok {
			return []Issue{newIssue(CodeInvalidType, MessageNotNumber)}
		}
		return nil
	}
}

// ParseNumber converts value to a float64.
func ParseNumber(value any) (float64, bool) {
	var out float64
	switch typed := value.(type) {
	case float64:
		out = typed
	case float32:
		out = float64(typed)
	case int:
		out = float64(typed)
	case int32:
		out = float64(typed)
	case int64:
		out = float64(typed)
	case uint:
		out = float64(typed)
	case uint64:
		out = float64(typed)
	case json.Number:
		parsed, err := typed.Float64()
		if err != nil {
			return 0, false
		}
		out = parsed
	case string:
		trimmed := strings.TrimSpace(typed)
		if isHexLiteral(trimmed) {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, false
		}
		out = parsed
	default:
		return 0, false
	}
	if math.IsNaN(out) || math.IsInf(out, 0) {
		return 0, false
	}
	return out, true
}

// isHexLiteral reports whether raw uses the 0x prefix strconv accepts for
// hexadecimal floats. Form input is decimal only.
func isHexLiteral(raw string) bool {
	unsigned := strings.TrimLeft(raw, "+-")
	return len(unsigned) > 1 && unsigned[0] == '0' && (unsigned[1] == 'x' || unsigned[1] == 'X')
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04",
	time.RFC3339,
	time.RFC3339Nano,
}

// Date accepts time values and strings in ISO 8601 date or date-time form.
func Date() Rule {
	return func(value any, _ map[string]any) []Issue {
		if _, ok := ParseDate(value); !ok {
			return []Issue{newIssue(CodeInvalidType, MessageInvalidDate)}
		}
		return nil
	}
}

// ParseDate converts value to a time.Time.
func ParseDate(value any) (time.Time, bool) {
	switch typed := value.(type) {
	case time.Time:
		return typed, !typed.IsZero()
	case string:
		raw := strings.TrimSpace(typed)
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, raw); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}

// Password length bounds.
const (
	PasswordMinLength = 8
	PasswordMaxLength = 20
)

// Password evaluates the length bounds and the four character-class
// requirements independently, so every violation is reported.
func Password() Rule {
	return func(value any, _ map[string]any) []Issue {
		text, ok := asText(value)
		if !ok {
			return []Issue{newIssue(CodeInvalidType, MessageNotText)}
		}
		var out []Issue
		length := utf8.RuneCountInString(text)
		if length < PasswordMinLength {
			out = append(out, newIssue(CodeTooShort, fmt.Sprintf("Password must be at least %d characters", PasswordMinLength)))
		}
		if length > PasswordMaxLength {
			out = append(out, newIssue(CodeTooLong, fmt.Sprintf("Password must be at most %d characters", PasswordMaxLength)))
		}
		var lower, upper, digit, symbol bool
		for _, r := range text {
			switch {
			case unicode.IsLower(r):
				lower = true
			case unicode.IsUpper(r):
				upper = true
			case unicode.IsDigit(r):
				digit = true
			case !unicode.IsLetter(r) && !unicode.IsSpace(r):
				symbol = true
			}
		}
		if !lower {
			out = append(out, newIssue(CodePattern, MessagePasswordLower))
		}
		if !upper {
			out = append(out, newIssue(CodePattern, MessagePasswordUpper))
		}
		if !digit {
			out = append(out, newIssue(CodePattern, MessagePasswordDigit))
		}
		if !symbol {
			out = append(out, newIssue(CodePattern, MessagePasswordSymbol))
		}
		return out
	}
}

// Selection accepts a list of option strings.
func Selection() Rule {
	return func(value any, _ map[string]any) []Issue {
		if _, ok := AsSelection(value); !ok {
			return []Issue{newIssue(CodeInvalidType, MessageNotSelection)}
		}
		return nil
	}
}

// AsSelection converts a multi-choice value into its selected options. A
// single string counts as a one-item selection.
func AsSelection(value any) ([]string, bool) {
	switch typed := value.(type) {
	case nil:
		return nil, true
	case []string:
		return typed, true
	case string:
		return []string{typed}, true
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			text, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, text)
		}
		return out, true
	default:
		return nil, false
	}
}

// OneOf requires single values, or every selected option, to be listed in
// options.
func OneOf(options []string) Rule {
	allowed := make(map[string]struct{}, len(options))
	for _, option := range options {
		allowed[option] = struct{}{}
	}
	return func(value any, _ map[string]any) []Issue {
		var candidates []string
		if text, ok := value.(string); ok {
			candidates = []string{text}
		} else if selected, ok := AsSelection(value); ok {
			candidates = selected
		}
		for _, candidate := range candidates {
			if _, ok := allowed[candidate]; !ok {
				return []Issue{newIssue(CodeInvalidOption, MessageInvalidOption)}
			}
		}
		return nil
	}
}

func asText(value any) (string, bool) {
	switch typed := value.(type) {
	case string:
		return typed, true
	case fmt.Stringer:
		return typed.String(), true
	default:
		return "", false
	}
}
