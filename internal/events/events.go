// Package events mirrors the remote events dataset with the same
// remote -> local cache -> default fallback the catalog uses.
package events

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"kickslab/internal/devicestore"
	"kickslab/internal/domain"
	"kickslab/internal/seed"
)

const storageKey = "kickslab_events"

type Store struct {
	mu     sync.Mutex
	events []domain.Event
	store  *devicestore.Store
	logger *log.Logger
}

func New(store *devicestore.Store, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	s := &Store{store: store, logger: logger}

	var events []domain.Event
	ok, err := store.Get(storageKey, &events)
	if err != nil {
		return nil, fmt.Errorf("events: hydrate: %w", err)
	}
	if ok && len(events) > 0 {
		s.events = events
	} else {
		s.events = seed.DefaultEvents()
	}
	return s, nil
}

// List returns a copy of the current events.
func (s *Store) List() []domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Event, len(s.events))
	copy(out, s.events)
	return out
}

// Adopt installs remote state, last writer wins.
func (s *Store) Adopt(events []domain.Event) error {
	if len(events) == 0 {
		return errors.New("refusing to adopt empty event list")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = events
	if err := s.store.Put(storageKey, s.events); err != nil {
		return fmt.Errorf("events: persist: %w", err)
	}
	return nil
}

// Refresh adopts a non-empty remote list and absorbs failures.
func (s *Store) Refresh(ctx context.Context, fetch func(ctx context.Context) ([]domain.Event, error)) {
	events, err := fetch(ctx)
	if err != nil {
		s.logger.Printf("events: refresh falling back to cache: %v", err)
		return
	}
	if err := s.Adopt(events); err != nil {
		s.logger.Printf("events: refresh adopt: %v", err)
	}
}
