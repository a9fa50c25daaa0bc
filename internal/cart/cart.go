// Package cart maintains the ordered collection of line items for one
// device. Every mutation re-persists the full collection to the device
// store; totals are derived on read and never cached.
package cart

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	"kickslab/internal/devicestore"
	"kickslab/internal/domain"
)

const storageKey = "kickslab_cart"

// Event kinds delivered to the notify callback.
const (
	EventAdded   = "added"
	EventUpdated = "updated"
	EventRemoved = "removed"
)

// Event describes a user-visible cart notification.
type Event struct {
	Kind string
	Line domain.CartLine
}

type Store struct {
	mu     sync.Mutex
	lines  []domain.CartLine
	store  *devicestore.Store
	notify func(Event)
	logger *log.Logger
}

// New builds a Store hydrated from the device store. notify may be nil.
func New(store *devicestore.Store, notify func(Event), logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	s := &Store{store: store, notify: notify, logger: logger}

	var lines []domain.CartLine
	ok, err := store.Get(storageKey, &lines)
	if err != nil {
		return nil, fmt.Errorf("cart: hydrate: %w", err)
	}
	if ok {
		s.lines = lines
		logger.Printf("cart: hydrated %d lines", len(lines))
	}
	return s, nil
}

// Add appends a line, or merges quantity into the existing line with the
// same (product id, size) key. The notify callback distinguishes the cases.
func (s *Store) Add(line domain.CartLine) error {
	if strings.TrimSpace(line.Size) == "" {
		return errors.New("size required")
	}
	if line.Quantity <= 0 {
		return errors.New("quantity must be positive")
	}
	if line.UnitPriceCents <= 0 {
		return errors.New("unit price must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kind := EventAdded
	merged := line
	if i := s.index(line.Key()); i >= 0 {
		s.lines[i].Quantity += line.Quantity
		merged = s.lines[i]
		kind = EventUpdated
	} else {
		s.lines = append(s.lines, line)
	}

	if err := s.persistLocked(); err != nil {
		return err
	}
	s.emit(Event{Kind: kind, Line: merged})
	return nil
}

// Remove deletes the line with the given key. Absent keys are a no-op.
func (s *Store) Remove(key domain.LineKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(key)
	if i < 0 {
		return nil
	}
	removed := s.lines[i]
	s.lines = append(s.lines[:i], s.lines[i+1:]...)

	if err := s.persistLocked(); err != nil {
		return err
	}
	s.emit(Event{Kind: EventRemoved, Line: removed})
	return nil
}

// SetQuantity sets the quantity for a line. Quantities at or below zero
// drop the line silently.
func (s *Store) SetQuantity(key domain.LineKey, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(key)
	if i < 0 {
		return nil
	}
	if quantity <= 0 {
		s.lines = append(s.lines[:i], s.lines[i+1:]...)
	} else {
		s.lines[i].Quantity = quantity
	}
	return s.persistLocked()
}

// Clear empties the cart and removes the persisted snapshot.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil
	if err := s.store.Delete(storageKey); err != nil {
		return fmt.Errorf("cart: clear: %w", err)
	}
	return nil
}

// Lines returns a copy of the current line items in insertion order.
func (s *Store) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// TotalCents is the sum of unit price times quantity over all lines,
// shipping excluded.
func (s *Store) TotalCents() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int64
	for _, l := range s.lines {
		total += l.UnitPriceCents * int64(l.Quantity)
	}
	return total
}

// ItemCount is the sum of quantities over all lines.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, l := range s.lines {
		count += l.Quantity
	}
	return count
}

func (s *Store) index(key domain.LineKey) int {
	for i, l := range s.lines {
		if l.Key() == key {
			return i
		}
	}
	return -1
}

func (s *Store) persistLocked() error {
	if err := s.store.Put(storageKey, s.lines); err != nil {
		return fmt.Errorf("cart: persist: %w", err)
	}
	return nil
}

func (s *Store) emit(ev Event) {
	if s.notify != nil {
		s.notify(ev)
	}
}
