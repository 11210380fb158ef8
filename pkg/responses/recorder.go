// Package responses records accepted submissions against saved forms.
package responses

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/store"
)

// ErrFormNotSaved reports a submission against a form id with no saved
// entry, typically a form that only exists as the in-progress current form.
var ErrFormNotSaved = errors.New("responses: form has not been saved")

// Policy decides what happens to submissions against unsaved forms.
type Policy string

const (
	// RejectUnsaved returns ErrFormNotSaved.
	RejectUnsaved Policy = "reject"
	// AutoSave saves the current form first when its id matches, then
	// records the response.
	AutoSave Policy = "autosave"
)

// ParsePolicy maps a configuration value to a Policy. Empty input selects
// RejectUnsaved.
func ParsePolicy(raw string) (Policy, error) {
	switch Policy(raw) {
	case "", RejectUnsaved:
		return RejectUnsaved, nil
	case AutoSave:
		return AutoSave, nil
	default:
		return "", fmt.Errorf("responses: unknown unsaved-form policy %q", raw)
	}
}

// Option customises a Recorder.
type Option func(*Recorder)

// WithPolicy selects the unsaved-form policy.
func WithPolicy(policy Policy) Option {
	return func(r *Recorder) {
		if policy != "" {
			r.policy = policy
		}
	}
}

// WithClock overrides the submission timestamp source.
func WithClock(clock func() time.Time) Option {
	return func(r *Recorder) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Recorder appends responses to forms held by a store.
type Recorder struct {
	store  *store.Store
	policy Policy
	clock  func() time.Time
	logger *slog.Logger
}

// NewRecorder returns a Recorder backed by s.
func NewRecorder(s *store.Store, options ...Option) *Recorder {
	r := &Recorder{
		store:  s,
		policy: RejectUnsaved,
		clock:  time.Now,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Policy reports the active unsaved-form policy.
func (r *Recorder) Policy() Policy {
	return r.policy
}

// AddResponse appends values as a new response on the saved form formID and
// returns the stored record.
func (r *Recorder) AddResponse(_ context.Context, formID string, values model.Values) (model.Response, error) {
	if r == nil || r.store == nil {
		return model.Response{}, errors.New("responses: recorder has no store")
	}
	response := model.Response{
		Values:      values.Clone(),
		SubmittedAt: r.clock().UTC(),
	}
	if response.Values == nil {
		response.Values = model.Values{}
	}

	if r.store.AppendResponse(formID, response) {
		r.logger.Debug("responses: recorded", "form", formID)
		return response, nil
	}

	if r.policy == AutoSave && r.store.SaveFormIfCurrent(formID) {
		if r.store.AppendResponse(formID, response) {
			r.logger.Info("responses: saved form before recording", "form", formID)
			return response, nil
		}
	}

	r.logger.Warn("responses: submission against unsaved form", "form", formID, "policy", string(r.policy))
	return model.Response{}, fmt.Errorf("%w: %q", ErrFormNotSaved, formID)
}

// Accept adapts the recorder into a validation accept hook for formID.
func (r *Recorder) Accept(formID string) func(context.Context, model.Values) error {
	return func(ctx context.Context, values model.Values) error {
		_, err := r.AddResponse(ctx, formID, values)
		return err
	}
}
