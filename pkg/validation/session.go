package validation

import (
	"context"
	"sync"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// AcceptFunc receives a copy of the values of a submission that passed full
// validation. Returning an error leaves the submission unaccepted.
type AcceptFunc func(ctx context.Context, values model.Values) error

// SessionOption customises a Session.
type SessionOption func(*Session)

// WithAccept sets the hook invoked for valid submissions.
func WithAccept(fn AcceptFunc) SessionOption {
	return func(s *Session) {
		s.accept = fn
	}
}

// WithInitialValues seeds the session's value map.
func WithInitialValues(values model.Values) SessionOption {
	return func(s *Session) {
		if values != nil {
			s.values = values.Clone()
		}
	}
}

// Session tracks the values and errors of one fill of a form. Change runs
// incremental validation for one field; Submit runs full validation. Each
// change bumps a per-field generation so validation results computed for a
// superseded value are discarded instead of overwriting newer ones.
type Session struct {
	mu          sync.Mutex
	schema      Schema
	values      model.Values
	errors      Errors
	generations map[string]uint64
	submitted   bool
	accept      AcceptFunc
}

// NewSession starts an unsubmitted session against schema.
func NewSession(schema Schema, options ...SessionOption) *Session {
	s := &Session{
		schema:      schema,
		values:      model.Values{},
		errors:      Errors{},
		generations: map[string]uint64{},
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Schema returns the schema the session validates against.
func (s *Session) Schema() Schema {
	return s.schema
}

// Pending is an incremental validation that has been started but not yet
// applied.
type Pending struct {
	Field      string
	generation uint64
	schema     Schema
	values     model.Values
}

// Result is the outcome of an incremental validation. Stale is set when a
// newer change for the same field superseded it, in which case the messages
// were not applied.
type Result struct {
	Field    string
	Messages []string
	Stale    bool
}

// Begin records value for field and returns the pending validation of that
// value. Any earlier pending validation for the field becomes stale.
func (s *Session) Begin(field string, value any) Pending {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[field] = value
	s.generations[field]++
	return Pending{
		Field:      field,
		generation: s.generations[field],
		schema:     s.schema,
		values:     s.values.Clone(),
	}
}

// Evaluate runs the field rule against the snapshot taken by Begin. It does
// not touch the session and may run on any goroutine.
func (p Pending) Evaluate() Result {
	return Result{Field: p.Field, Messages: p.schema.ValidateField(p.Field, p.values)}
}

// Apply stores the result of p unless a newer change or a submit has
// superseded it. Passing results clear the field's entry; failing results
// replace it with every violated message.
func (s *Session) Apply(p Pending, result Result) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generations[p.Field] != p.generation {
		result.Stale = true
		return result
	}
	if len(result.Messages) == 0 {
		delete(s.errors, p.Field)
	} else {
		s.errors[p.Field] = append([]string(nil), result.Messages...)
	}
	return result
}

// Change records value for field and validates it synchronously.
func (s *Session) Change(field string, value any) []string {
	pending := s.Begin(field, value)
	return s.Apply(pending, pending.Evaluate()).Messages
}

// ChangeAsync records value for field and validates it on a separate
// goroutine. The channel yields exactly one result and is then closed. A
// cancelled context yields a stale result without applying anything.
func (s *Session) ChangeAsync(ctx context.Context, field string, value any) <-chan Result {
	pending := s.Begin(field, value)
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		result := pending.Evaluate()
		if ctx.Err() != nil {
			result.Stale = true
			out <- result
			return
		}
		out <- s.Apply(pending, result)
	}()
	return out
}

// Submit runs full validation over every field. Failing submissions populate
// the per-field errors and stay unaccepted; the entered values are kept. A
// passing submission clears all errors and is handed to the accept hook; it
// is accepted only when the hook succeeds. In-flight incremental results are
// invalidated either way.
func (s *Session) Submit(ctx context.Context) (Errors, error) {
	s.mu.Lock()
	for id := range s.generations {
		s.generations[id]++
	}
	errs := s.schema.Validate(s.values)
	s.errors = errs.Clone()
	if !errs.Empty() {
		s.submitted = false
		s.mu.Unlock()
		return errs, nil
	}
	values := s.values.Clone()
	accept := s.accept
	s.mu.Unlock()

	if accept != nil {
		if err := accept(ctx, values); err != nil {
			s.mu.Lock()
			s.submitted = false
			s.mu.Unlock()
			return Errors{}, err
		}
	}

	s.mu.Lock()
	s.submitted = true
	s.mu.Unlock()
	return Errors{}, nil
}

// Values returns a copy of the entered values.
func (s *Session) Values() model.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values.Clone()
}

// Value returns the entered value for field.
func (s *Session) Value(field string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.values[field]
	return value, ok
}

// Errors returns a copy of the current per-field errors.
func (s *Session) Errors() Errors {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errors.Clone()
}

// Submitted reports whether the last submission was accepted.
func (s *Session) Submitted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitted
}

// Reset clears values, errors and the accepted flag so the form can be
// filled again.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.generations {
		s.generations[id]++
	}
	s.values = model.Values{}
	s.errors = Errors{}
	s.submitted = false
}
