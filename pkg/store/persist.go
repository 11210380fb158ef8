package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/storage"
)

// ErrPersistenceUnavailable reports that the durable backend is missing or
// failed. The in-memory state remains authoritative.
var ErrPersistenceUnavailable = errors.New("store: persistence unavailable")

// Persist writes the full state to the backend as JSON.
func (s *Store) Persist(ctx context.Context) error {
	if s.backend == nil {
		return ErrPersistenceUnavailable
	}
	state := s.Snapshot()
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("store: encode state: %w", err)
	}
	if err := s.backend.Put(ctx, s.key, payload); err != nil {
		s.logger.Warn("store: persist failed", "key", s.key, "error", err)
		return fmt.Errorf("%w: %w", ErrPersistenceUnavailable, err)
	}
	s.logger.Debug("store: persisted state", "key", s.key, "forms", len(state.Forms))
	return nil
}

// Restore replaces the state with the one stored in the backend. A missing
// entry leaves the current state untouched and is not an error.
func (s *Store) Restore(ctx context.Context) error {
	if s.backend == nil {
		return ErrPersistenceUnavailable
	}
	payload, err := s.backend.Get(ctx, s.key)
	if errors.Is(err, storage.ErrNotFound) {
		s.logger.Debug("store: no persisted state", "key", s.key)
		return nil
	}
	if err != nil {
		s.logger.Warn("store: restore failed", "key", s.key, "error", err)
		return fmt.Errorf("%w: %w", ErrPersistenceUnavailable, err)
	}
	var state model.State
	if err := json.Unmarshal(payload, &state); err != nil {
		return fmt.Errorf("store: decode state: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaceState(state)
	s.logger.Debug("store: restored state", "key", s.key, "forms", len(s.forms))
	return nil
}
