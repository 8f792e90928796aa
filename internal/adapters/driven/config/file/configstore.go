package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/neardup/internal/adapters/driven/config/coerce"
	"github.com/custodia-labs/neardup/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

const (
	// DefaultDirName is created under the user's home directory.
	DefaultDirName = ".neardup"

	fileName = "config.toml"
	dirPerm  = 0700
	filePerm = 0600
)

// ConfigStore keeps neardup settings in a TOML file. Keys are addressed
// with dots and stored as tables, so "dedup.n_bits" is written as n_bits
// under [dedup]. Every mutation rewrites the file.
type ConfigStore struct {
	mu   sync.RWMutex
	path string
	flat map[string]any
}

// NewConfigStore opens config.toml inside configDir, creating the
// directory when needed. An empty configDir means ~/.neardup.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}
	if err := os.MkdirAll(configDir, dirPerm); err != nil {
		return nil, fmt.Errorf("creating config dir: %w", err)
	}

	s := &ConfigStore{
		path: filepath.Join(configDir, fileName),
		flat: make(map[string]any),
	}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// DefaultDir returns ~/.neardup.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	return filepath.Join(home, DefaultDirName), nil
}

func (s *ConfigStore) Path() string { return s.path }

func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.flat[key]
	return v, ok
}

func get[T any](s *ConfigStore, key string, convert func(any) (T, bool)) T {
	if v, ok := s.Get(key); ok {
		if out, ok := convert(v); ok {
			return out
		}
	}
	var zero T
	return zero
}

func (s *ConfigStore) GetString(key string) string { return get(s, key, coerce.String) }

// GetInt reads TOML integers, which decode as int64.
func (s *ConfigStore) GetInt(key string) int { return get(s, key, coerce.Int) }

func (s *ConfigStore) GetFloat(key string) float64 { return get(s, key, coerce.Float) }

func (s *ConfigStore) GetBool(key string) bool { return get(s, key, coerce.Bool) }

// GetStringSlice reads TOML arrays, which decode as []any.
func (s *ConfigStore) GetStringSlice(key string) []string {
	return get(s, key, coerce.StringSlice)
}

// Set stores value and rewrites the file. If the write fails the previous
// value is restored.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.flat[key]
	s.flat[key] = value
	if err := s.write(); err != nil {
		if had {
			s.flat[key] = prev
		} else {
			delete(s.flat, key)
		}
		return err
	}
	return nil
}

// Delete removes key and rewrites the file. Missing keys are ignored.
func (s *ConfigStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.flat[key]
	if !ok {
		return nil
	}
	delete(s.flat, key)
	if err := s.write(); err != nil {
		s.flat[key] = prev
		return err
	}
	return nil
}

func (s *ConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write()
}

// write encodes the settings as nested tables. Callers hold mu.
func (s *ConfigStore) write() error {
	data, err := toml.Marshal(nestMap(s.flat))
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(s.path, data, filePerm); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Load replaces the in-memory settings with the file's contents. A missing
// file yields an empty configuration.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.flat = make(map[string]any)
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}

	tables := make(map[string]any)
	if err := toml.Unmarshal(data, &tables); err != nil {
		return fmt.Errorf("parsing %s: %w", s.path, err)
	}
	s.flat = flattenMap(tables, "")
	return nil
}

// flattenMap turns {"a": {"b": 1}} into {"a.b": 1}.
func flattenMap(m map[string]any, prefix string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if prefix != "" {
			k = prefix + "." + k
		}
		child, ok := v.(map[string]any)
		if !ok {
			out[k] = v
			continue
		}
		for ck, cv := range flattenMap(child, k) {
			out[ck] = cv
		}
	}
	return out
}

// nestMap inverts flattenMap. When a dotted key's parent already holds a
// scalar, the remainder of the key is kept whole in the deepest table.
func nestMap(flat map[string]any) map[string]any {
	root := make(map[string]any)
	for key, value := range flat {
		parts := strings.Split(key, ".")
		table := root
		i := 0
		for ; i < len(parts)-1; i++ {
			next, exists := table[parts[i]]
			if !exists {
				child := make(map[string]any)
				table[parts[i]] = child
				table = child
				continue
			}
			child, ok := next.(map[string]any)
			if !ok {
				break
			}
			table = child
		}
		table[strings.Join(parts[i:], ".")] = value
	}
	return root
}
