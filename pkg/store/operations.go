package store

import (
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// CreateNewForm replaces the current form with a fresh empty form and returns
// its id. A blank name falls back to "New Form". The previous current form is
// discarded unless it was saved.
func (s *Store) CreateNewForm(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.ids.NextID()
	s.current = model.NewForm(id, name)
	s.logger.Debug("store: created form", "form", id, "name", s.current.Name)
	return id
}

// AddField appends a field built from cfg to the current form and returns the
// generated id. The field's order equals the field count before insertion.
func (s *Store) AddField(cfg model.FieldConfig) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	field := model.Field{
		ID:          s.ids.NextID(),
		Type:        cfg.Type,
		Label:       cfg.Label,
		Placeholder: cfg.Placeholder,
		Required:    cfg.Required,
		Order:       len(s.current.Fields),
	}
	if cfg.Options != nil {
		field.Options = append([]string(nil), cfg.Options...)
	}
	if cfg.Rules != nil {
		field.Rules = append([]model.FieldRule(nil), cfg.Rules...)
	}
	s.current.Fields = append(s.current.Fields, field)
	s.logger.Debug("store: added field", "form", s.current.ID, "field", field.ID, "type", string(field.Type))
	return field.ID
}

// RemoveField deletes the field with id from the current form and re-densifies
// order. Unknown ids leave the state unchanged.
func (s *Store) RemoveField(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.current.IndexOf(id)
	if idx < 0 {
		s.logger.Debug("store: remove skipped, field not found", "field", id)
		return
	}
	fields := make([]model.Field, 0, len(s.current.Fields)-1)
	fields = append(fields, s.current.Fields[:idx]...)
	fields = append(fields, s.current.Fields[idx+1:]...)
	densify(fields)
	s.current.Fields = fields
}

// UpdateField merges patch onto the matching field of the current form.
// Unknown ids leave the state unchanged.
func (s *Store) UpdateField(patch model.FieldPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.current.IndexOf(patch.ID)
	if idx < 0 {
		s.logger.Debug("store: update skipped, field not found", "field", patch.ID)
		return
	}
	updated := patch.Apply(s.current.Fields[idx])
	updated.Order = idx
	s.current.Fields[idx] = updated
}

// ReorderFields moves the field at sourceIndex so it ends up at
// destinationIndex, shifting the fields in between, then re-densifies order.
// Out-of-range indices leave the state unchanged.
func (s *Store) ReorderFields(sourceIndex, destinationIndex int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := len(s.current.Fields)
	if sourceIndex < 0 || sourceIndex >= count || destinationIndex < 0 || destinationIndex >= count {
		s.logger.Debug("store: reorder skipped, index out of range",
			"source", sourceIndex, "destination", destinationIndex, "count", count)
		return
	}
	if sourceIndex == destinationIndex {
		return
	}
	moved := s.current.Fields[sourceIndex]
	rest := make([]model.Field, 0, count-1)
	rest = append(rest, s.current.Fields[:sourceIndex]...)
	rest = append(rest, s.current.Fields[sourceIndex+1:]...)

	fields := make([]model.Field, 0, count)
	fields = append(fields, rest[:destinationIndex]...)
	fields = append(fields, moved)
	fields = append(fields, rest[destinationIndex:]...)
	densify(fields)
	s.current.Fields = fields
}

// SaveForm upserts a deep copy of the current form into the saved catalogue.
// An existing entry is replaced in place and keeps its accepted responses; a
// new one is appended. Saving twice without edits is idempotent.
func (s *Store) SaveForm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveCurrentLocked()
}

// SaveFormIfCurrent saves the current form only when its id is id. The check
// and the save happen under one lock.
func (s *Store) SaveFormIfCurrent(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current.ID != id {
		return false
	}
	s.saveCurrentLocked()
	return true
}

func (s *Store) saveCurrentLocked() {
	saved := s.current.Clone()
	if idx := s.indexOfForm(saved.ID); idx >= 0 {
		saved.Responses = s.forms[idx].Responses
		s.forms[idx] = saved
		s.logger.Debug("store: replaced saved form", "form", saved.ID)
		return
	}
	saved.Responses = nil
	s.forms = append(s.forms, saved)
	s.logger.Debug("store: saved new form", "form", saved.ID)
}

// LoadForm makes a deep copy of the saved form with id the current form.
// Unknown ids leave the state unchanged.
func (s *Store) LoadForm(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOfForm(id)
	if idx < 0 {
		s.logger.Debug("store: load skipped, form not found", "form", id)
		return
	}
	s.current = s.forms[idx].Clone()
}

// DeleteForm removes the saved form with id. The current form is untouched,
// even when it carries the same id.
func (s *Store) DeleteForm(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOfForm(id)
	if idx < 0 {
		s.logger.Debug("store: delete skipped, form not found", "form", id)
		return
	}
	forms := make([]model.Form, 0, len(s.forms)-1)
	forms = append(forms, s.forms[:idx]...)
	forms = append(forms, s.forms[idx+1:]...)
	s.forms = forms
}

// UpdateFormName renames the current form only. Saved copies keep their name
// until the next SaveForm.
func (s *Store) UpdateFormName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.Name = name
}

// AppendResponse appends a copy of response to the saved form with formID and
// reports whether the form exists. Existing responses are never modified.
func (s *Store) AppendResponse(formID string, response model.Response) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOfForm(formID)
	if idx < 0 {
		return false
	}
	s.forms[idx].Responses = append(s.forms[idx].Responses, response.Clone())
	s.logger.Debug("store: appended response", "form", formID, "count", len(s.forms[idx].Responses))
	return true
}

// Responses returns copies of the accepted responses for a saved form.
func (s *Store) Responses(formID string) ([]model.Response, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOfForm(formID)
	if idx < 0 {
		return nil, false
	}
	out := make([]model.Response, len(s.forms[idx].Responses))
	for i, response := range s.forms[idx].Responses {
		out[i] = response.Clone()
	}
	return out, true
}

// FindForms returns saved forms whose name contains query, case-insensitively.
func (s *Store) FindForms(query string) []model.Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	needle := strings.ToLower(strings.TrimSpace(query))
	var out []model.Form
	for _, form := range s.forms {
		if needle == "" || strings.Contains(strings.ToLower(form.Name), needle) {
			out = append(out, form.Clone())
		}
	}
	return out
}
