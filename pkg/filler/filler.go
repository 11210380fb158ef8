// Package filler drives one fill of a form: it locates the form, derives its
// validation schema, tracks entered values and errors, and hands accepted
// submissions to the response recorder.
package filler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/responses"
	"github.com/goliatone/go-formbuilder/pkg/validation"
	"github.com/goliatone/go-formbuilder/pkg/widgets"
)

// ErrFormNotFound reports an unknown form id.
var ErrFormNotFound = errors.New("filler: form not found")

// Finder locates saved forms by id.
type Finder interface {
	Form(id string) (model.Form, bool)
}

// CurrentFormSource exposes the in-progress form.
type CurrentFormSource interface {
	CurrentForm() model.Form
}

// Option customises a Filler.
type Option func(*options)

type options struct {
	recorder   *responses.Recorder
	validation []validation.Option
	widgets    *widgets.Registry
	logger     *slog.Logger
}

// WithRecorder records accepted submissions. Without a recorder submissions
// are accepted but not stored, as in the builder preview.
func WithRecorder(recorder *responses.Recorder) Option {
	return func(o *options) {
		o.recorder = recorder
	}
}

// WithValidationOptions forwards options to schema derivation.
func WithValidationOptions(opts ...validation.Option) Option {
	return func(o *options) {
		o.validation = append(o.validation, opts...)
	}
}

// WithWidgets overrides the widget registry used by Bindings.
func WithWidgets(registry *widgets.Registry) Option {
	return func(o *options) {
		if registry != nil {
			o.widgets = registry
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Filler is one fill of a form.
type Filler struct {
	form    model.Form
	schema  validation.Schema
	session *validation.Session
	widgets *widgets.Registry
	logger  *slog.Logger
}

// Open locates formID through finder and starts a fill of it.
func Open(finder Finder, formID string, opts ...Option) (*Filler, error) {
	cfg := newOptions(opts)
	if finder == nil {
		cfg.logger.Warn("filler: no form source", "form", formID)
		return nil, fmt.Errorf("%w: no form source", validation.ErrFormUnavailable)
	}
	form, ok := finder.Form(formID)
	if !ok {
		cfg.logger.Warn("filler: form not found", "form", formID)
		return nil, fmt.Errorf("%w: %q", ErrFormNotFound, formID)
	}
	return start(form, cfg)
}

// OpenCurrent starts a fill of the in-progress form.
func OpenCurrent(source CurrentFormSource, opts ...Option) (*Filler, error) {
	cfg := newOptions(opts)
	if source == nil {
		cfg.logger.Warn("filler: no current form")
		return nil, fmt.Errorf("%w: no form source", validation.ErrFormUnavailable)
	}
	return start(source.CurrentForm(), cfg)
}

// New starts a fill of form directly.
func New(form model.Form, opts ...Option) (*Filler, error) {
	return start(form, newOptions(opts))
}

func newOptions(opts []Option) options {
	cfg := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.widgets == nil {
		cfg.widgets = widgets.NewRegistry()
	}
	return cfg
}

func start(form model.Form, cfg options) (*Filler, error) {
	if err := validation.CheckForm(&form); err != nil {
		cfg.logger.Warn("filler: form unavailable", "form", form.ID, "error", err)
		return nil, err
	}
	schema := validation.BuildSchema(form.Fields, cfg.validation...)
	var sessionOpts []validation.SessionOption
	if cfg.recorder != nil {
		sessionOpts = append(sessionOpts, validation.WithAccept(cfg.recorder.Accept(form.ID)))
	}
	cfg.logger.Debug("filler: opened form", "form", form.ID, "fields", len(form.Fields))
	return &Filler{
		form:    form.Clone(),
		schema:  schema,
		session: validation.NewSession(schema, sessionOpts...),
		widgets: cfg.widgets,
		logger:  cfg.logger,
	}, nil
}

// Form returns a copy of the form being filled.
func (f *Filler) Form() model.Form {
	return f.form.Clone()
}

// Session exposes the underlying validation session.
func (f *Filler) Session() *validation.Session {
	return f.session
}

// Change records a value and returns its incremental validation messages.
func (f *Filler) Change(fieldID string, value any) []string {
	return f.session.Change(fieldID, value)
}

// Submit runs full validation and records the response when it passes.
func (f *Filler) Submit(ctx context.Context) (validation.Errors, error) {
	errs, err := f.session.Submit(ctx)
	switch {
	case err != nil:
		f.logger.Warn("filler: submission not recorded", "form", f.form.ID, "error", err)
	case !errs.Empty():
		f.logger.Debug("filler: submission rejected", "form", f.form.ID, "fields", errs.Fields())
	default:
		f.logger.Debug("filler: submission accepted", "form", f.form.ID)
	}
	return errs, err
}

// Submitted reports whether the last submission was accepted.
func (f *Filler) Submitted() bool {
	return f.session.Submitted()
}

// Errors returns the current per-field errors.
func (f *Filler) Errors() validation.Errors {
	return f.session.Errors()
}

// Values returns the entered values.
func (f *Filler) Values() model.Values {
	return f.session.Values()
}

// Reset clears the fill so the form can be submitted again.
func (f *Filler) Reset() {
	f.session.Reset()
}

// Bindings returns the widget bindings for every field, in order, with the
// current values and messages.
func (f *Filler) Bindings() []widgets.Binding {
	return f.widgets.BindForm(f.form, f.schema, f.session.Errors(), f.session.Values())
}

// ShareLink builds the public fill URL for formID under baseURL.
func ShareLink(baseURL, formID string) string {
	return strings.TrimRight(baseURL, "/") + "/form/" + url.PathEscape(formID)
}
