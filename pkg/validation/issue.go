// Package validation derives per-field rules from a form's field list and
// evaluates submitted values against them, either one field at a time
// (incremental) or for the whole form (full). Failures never escape as Go
// errors; they resolve into Errors, a mapping from field id to the ordered
// messages violated by that field's value.
package validation

import (
	"errors"
	"fmt"
	"sort"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Code classifies a rule violation.
type Code string

const (
	CodeRequired      Code = "required"
	CodeInvalidType   Code = "invalid_type"
	CodeInvalidFormat Code = "invalid_format"
	CodeTooShort      Code = "too_short"
	CodeTooLong       Code = "too_long"
	CodePattern       Code = "pattern"
	CodeTooFew        Code = "too_few"
	CodeInvalidOption Code = "invalid_option"
	CodeCustom        Code = "custom"
)

// Messages shown to the person filling the form.
const (
	MessageRequired       = "This field is required"
	MessageInvalidEmail   = "Invalid email format"
	MessageNotNumber      = "Must be a number"
	MessageInvalidDate    = "Invalid date"
	MessageSelectOne      = "Please select at least one option"
	MessageNotText        = "Must be text"
	MessageNotSelection   = "Must be a list of options"
	MessageInvalidOption  = "Must be one of the available options"
	MessagePasswordLower  = "Password must contain at least one lowercase letter"
	MessagePasswordUpper  = "Password must contain at least one uppercase letter"
	MessagePasswordDigit  = "Password must contain at least one number"
	MessagePasswordSymbol = "Password must contain at least one special character"
)

func messageMaxLength(n int) string {
	return fmt.Sprintf("Must be at most %d characters", n)
}

// ErrFormUnavailable reports a structurally unusable form (missing form or
// field list). Renderers show an explicit notice instead of failing.
var ErrFormUnavailable = errors.New("validation: form unavailable")

// CheckForm reports ErrFormUnavailable for a nil form or a form without a
// field list.
func CheckForm(form *model.Form) error {
	if form == nil {
		return fmt.Errorf("%w: form is missing", ErrFormUnavailable)
	}
	if form.Fields == nil {
		return fmt.Errorf("%w: form %q has no field list", ErrFormUnavailable, form.ID)
	}
	return nil
}

// Issue is a single rule violation. Field is filled in by the schema.
type Issue struct {
	Field   string `json:"field,omitempty"`
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func newIssue(code Code, message string) Issue {
	return Issue{Code: code, Message: message}
}

// Errors maps field ids to their ordered violation messages. Fields without
// violations are absent.
type Errors map[string][]string

// Empty reports whether no field carries messages.
func (e Errors) Empty() bool {
	for _, messages := range e {
		if len(messages) > 0 {
			return false
		}
	}
	return true
}

// For returns the messages recorded for id.
func (e Errors) For(id string) []string {
	return e[id]
}

// Fields returns the ids with at least one message, sorted.
func (e Errors) Fields() []string {
	ids := make([]string, 0, len(e))
	for id, messages := range e {
		if len(messages) > 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Clone returns a deep copy.
func (e Errors) Clone() Errors {
	out := make(Errors, len(e))
	for id, messages := range e {
		out[id] = append([]string(nil), messages...)
	}
	return out
}

func messagesOf(issues []Issue) []string {
	if len(issues) == 0 {
		return nil
	}
	out := make([]string, len(issues))
	for idx, issue := range issues {
		out[idx] = issue.Message
	}
	return out
}
