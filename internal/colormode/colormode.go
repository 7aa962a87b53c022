// Package colormode holds the process-wide light/dark flag. It is read from
// storage once when opened, changed only through Toggle or Set, and every
// change is written straight back to storage.
package colormode

import (
	"fmt"
	"strings"
	"sync"
)

// Mode is the active palette
type Mode string

const (
	Light Mode = "light"
	Dark  Mode = "dark"
)

// StorageKey is the local storage key holding the mode
const StorageKey = "themeMode"

// Storage is the persistence the store writes through to
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// Parse converts a stored or user-supplied value into a Mode
func Parse(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, nil
	case Dark:
		return Dark, nil
	default:
		return "", fmt.Errorf("invalid color mode %q: must be light or dark", s)
	}
}

// Opposite returns the other mode
func (m Mode) Opposite() Mode {
	if m == Dark {
		return Light
	}
	return Dark
}

// IsDark reports whether the mode is dark
func (m Mode) IsDark() bool {
	return m == Dark
}

// Store is the color mode state. Use Open to create one.
type Store struct {
	mu      sync.Mutex
	mode    Mode
	storage Storage
}

// Open initializes the mode from storage, defaulting to light when nothing
// valid is stored
func Open(storage Storage) *Store {
	mode := Light
	if v, ok := storage.Get(StorageKey); ok {
		if parsed, err := Parse(v); err == nil {
			mode = parsed
		}
	}
	return &Store{mode: mode, storage: storage}
}

// Mode returns the current mode
func (s *Store) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Toggle flips the mode and persists it. The new mode is returned even if
// persisting fails.
func (s *Store) Toggle() (Mode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mode = s.mode.Opposite()
	return s.mode, s.persist()
}

// Set forces a mode and persists it
func (s *Store) Set(mode Mode) error {
	if _, err := Parse(string(mode)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.mode = mode
	return s.persist()
}

func (s *Store) persist() error {
	if err := s.storage.Set(StorageKey, string(s.mode)); err != nil {
		return fmt.Errorf("error saving color mode: %w", err)
	}
	return nil
}
