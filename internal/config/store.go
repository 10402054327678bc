package config

import (
	"sync"
)

// Store owns the process-wide settings. It is loaded once at start and
// saved every time Update changes it.
type Store struct {
	path   string
	config *Config
	mu     sync.RWMutex
}

// NewStore loads the config at path (creating it with defaults if absent)
func NewStore(path string) (*Store, error) {
	config, err := LoadOrCreate(path)
	if err != nil {
		return nil, err
	}
	return &Store{path: path, config: config}, nil
}

// NewMemoryStore wraps a config that is never written to disk
func NewMemoryStore(config *Config) *Store {
	if config == nil {
		config = GetDefaultConfig()
	}
	return &Store{config: config}
}

// Get returns a copy of the current settings
func (s *Store) Get() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := *s.config
	c.AssetDirectories = append([]string(nil), s.config.AssetDirectories...)
	return c
}

// Update applies fn to the settings and saves them
func (s *Store) Update(fn func(*Config)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := *s.config
	next.AssetDirectories = append([]string(nil), s.config.AssetDirectories...)
	fn(&next)
	if err := next.Validate(); err != nil {
		return err
	}
	if s.path != "" {
		if err := SaveConfig(&next, s.path); err != nil {
			return err
		}
	}
	s.config = &next
	return nil
}

// Path returns the file backing the store, empty for memory stores
func (s *Store) Path() string {
	return s.path
}

// Override changes the settings for this process only. Later calls to
// Update save whatever the overrides left in place.
func (s *Store) Override(fn func(*Config) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := *s.config
	next.AssetDirectories = append([]string(nil), s.config.AssetDirectories...)
	if err := fn(&next); err != nil {
		return err
	}
	s.config = &next
	return nil
}
