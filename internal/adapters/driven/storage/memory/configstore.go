package memory

import (
	"sync"

	"github.com/custodia-labs/neardup/internal/adapters/driven/config/coerce"
	"github.com/custodia-labs/neardup/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore keeps settings in a map for the lifetime of the process.
// Tests use it in place of the TOML file.
type ConfigStore struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewConfigStore returns an empty store.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{values: make(map[string]any)}
}

func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// lookup fetches key and converts it, yielding the zero value of T when
// the key is absent or has the wrong type.
func lookup[T any](s *ConfigStore, key string, convert func(any) (T, bool)) T {
	var zero T
	v, ok := s.Get(key)
	if !ok {
		return zero
	}
	out, ok := convert(v)
	if !ok {
		return zero
	}
	return out
}

func (s *ConfigStore) GetString(key string) string { return lookup(s, key, coerce.String) }

func (s *ConfigStore) GetInt(key string) int { return lookup(s, key, coerce.Int) }

func (s *ConfigStore) GetFloat(key string) float64 { return lookup(s, key, coerce.Float) }

func (s *ConfigStore) GetBool(key string) bool { return lookup(s, key, coerce.Bool) }

func (s *ConfigStore) GetStringSlice(key string) []string {
	return lookup(s, key, coerce.StringSlice)
}

func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
	return nil
}

func (s *ConfigStore) Delete(key string) error {
	s.mu.Lock()
	delete(s.values, key)
	s.mu.Unlock()
	return nil
}

// Save and Load have nothing to persist.
func (s *ConfigStore) Save() error { return nil }

func (s *ConfigStore) Load() error { return nil }

// Path reports ":memory:", matching the SQLite in-memory DSN.
func (s *ConfigStore) Path() string { return ":memory:" }
