// Package store owns the authoritative form state: the working copy being
// edited (the current form) and the catalogue of saved forms. Every mutation
// goes through one of the exported operations, which run to completion under
// a single writer lock. Lookup misses are silent no-ops.
package store

import (
	"log/slog"
	"sync"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/storage"
)

// DefaultStateKey is the backend key the state is persisted under.
const DefaultStateKey = "formBuilder"

// Option customises a Store.
type Option func(*Store)

// WithIDSource overrides the id generator (TimeIDSource by default).
func WithIDSource(source IDSource) Option {
	return func(s *Store) {
		if source != nil {
			s.ids = source
		}
	}
}

// WithBackend attaches the durable backend used by Persist and Restore.
func WithBackend(backend storage.Backend) Option {
	return func(s *Store) {
		s.backend = backend
	}
}

// WithStateKey overrides the backend key.
func WithStateKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLogger sets the logger used for transition and miss diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithState seeds the store with an existing state instead of the scratch
// form. The state is deep copied and its field order re-densified.
func WithState(state model.State) Option {
	return func(s *Store) {
		s.seed = &state
	}
}

// Store is the form schema store.
type Store struct {
	mu      sync.Mutex
	current model.Form
	forms   []model.Form

	ids     IDSource
	backend storage.Backend
	key     string
	logger  *slog.Logger
	seed    *model.State
}

// New constructs a Store holding the scratch "default" form.
func New(options ...Option) *Store {
	s := &Store{
		current: model.NewForm(model.DefaultFormID, model.DefaultFormName),
		forms:   []model.Form{},
		key:     DefaultStateKey,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.ids == nil {
		s.ids = NewTimeIDSource(nil)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.seed != nil {
		s.replaceState(*s.seed)
		s.seed = nil
	}
	return s
}

// CurrentForm returns a copy of the working form.
func (s *Store) CurrentForm() model.Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// Forms returns copies of the saved forms in insertion order.
func (s *Store) Forms() []model.Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Form, len(s.forms))
	for idx, form := range s.forms {
		out[idx] = form.Clone()
	}
	return out
}

// Form locates a saved form by id.
func (s *Store) Form(id string) (model.Form, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexOfForm(id); idx >= 0 {
		return s.forms[idx].Clone(), true
	}
	return model.Form{}, false
}

// Snapshot returns a deep copy of the full state.
func (s *Store) Snapshot() model.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() model.State {
	state := model.State{CurrentForm: s.current, Forms: s.forms}
	return state.Clone()
}

// replaceState installs state; callers hold the lock or own the store
// exclusively.
func (s *Store) replaceState(state model.State) {
	cloned := state.Clone()
	current := normaliseForm(cloned.CurrentForm)
	if current.ID == "" {
		current.ID = model.DefaultFormID
	}
	forms := make([]model.Form, 0, len(cloned.Forms))
	for _, form := range cloned.Forms {
		if form.ID == "" {
			s.logger.Warn("store: dropping persisted form without id", "name", form.Name)
			continue
		}
		forms = append(forms, normaliseForm(form))
	}
	s.current = current
	s.forms = forms

	if observer, ok := s.ids.(idObserver); ok {
		observeForm(observer, s.current)
		for _, form := range s.forms {
			observeForm(observer, form)
		}
	}
}

func (s *Store) indexOfForm(id string) int {
	for idx, form := range s.forms {
		if form.ID == id {
			return idx
		}
	}
	return -1
}

func normaliseForm(form model.Form) model.Form {
	if form.Fields == nil {
		form.Fields = []model.Field{}
	}
	densify(form.Fields)
	return form
}

// densify rewrites order so fields[i].order == i.
func densify(fields []model.Field) {
	for idx := range fields {
		fields[idx].Order = idx
	}
}

func observeForm(observer idObserver, form model.Form) {
	observer.Observe(form.ID)
	for _, field := range form.Fields {
		observer.Observe(field.ID)
	}
}
