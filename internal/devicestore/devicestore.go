// Package devicestore is a file-backed JSON key-value store standing in for
// browser local storage: one JSON document on disk, guarded by a file lock
// for cross-process safety and a mutex within the process.
package devicestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

const (
	lockTimeout   = 3 * time.Second
	lockRetryWait = 100 * time.Millisecond
)

type Store struct {
	path     string
	fileLock *flock.Flock
	mu       sync.RWMutex
}

// New creates a store persisting to path. The file is created lazily on the
// first Put.
func New(path string) *Store {
	return &Store{
		path:     path,
		fileLock: flock.New(path + ".lock"),
	}
}

// Get unmarshals the value under key into out. The second return is false
// when the key (or the whole file) does not exist.
func (s *Store) Get(key string, out interface{}) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	unlock, err := s.acquire()
	if err != nil {
		return false, err
	}
	defer unlock()

	data, err := s.readLocked()
	if err != nil {
		return false, err
	}
	raw, ok := data[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("devicestore: decode key %q: %w", key, err)
	}
	return true, nil
}

// Put marshals value and writes it under key.
func (s *Store) Put(key string, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("devicestore: encode key %q: %w", key, err)
	}

	unlock, err := s.acquire()
	if err != nil {
		return err
	}
	defer unlock()

	data, err := s.readLocked()
	if err != nil {
		return err
	}
	data[key] = raw
	return s.writeLocked(data)
}

// Delete removes key. Absent keys are a no-op.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.acquire()
	if err != nil {
		return err
	}
	defer unlock()

	data, err := s.readLocked()
	if err != nil {
		return err
	}
	if _, ok := data[key]; !ok {
		return nil
	}
	delete(data, key)
	return s.writeLocked(data)
}

func (s *Store) acquire() (func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	locked, err := s.fileLock.TryLockContext(ctx, lockRetryWait)
	if err != nil {
		return nil, fmt.Errorf("devicestore: acquire lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("devicestore: could not acquire lock for %s", s.path)
	}
	return func() { _ = s.fileLock.Unlock() }, nil
}

func (s *Store) readLocked() (map[string]json.RawMessage, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("devicestore: read %s: %w", s.path, err)
	}
	if len(raw) == 0 {
		return map[string]json.RawMessage{}, nil
	}
	var data map[string]json.RawMessage
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("devicestore: parse %s: %w", s.path, err)
	}
	if data == nil {
		data = map[string]json.RawMessage{}
	}
	return data, nil
}

func (s *Store) writeLocked(data map[string]json.RawMessage) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("devicestore: encode store: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("devicestore: create dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("devicestore: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("devicestore: replace %s: %w", s.path, err)
	}
	return nil
}
