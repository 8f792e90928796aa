package driven

// ConfigStore is the key/value layer under the settings service.
// Keys are dotted paths such as "dedup.shingle_size". Typed getters return
// the zero value when a key is absent or holds an incompatible type, so
// callers check Get when they need to tell the two apart.
type ConfigStore interface {
	Get(key string) (any, bool)

	GetString(key string) string

	// GetInt truncates floating point values.
	GetInt(key string) int

	// GetFloat widens integer values.
	GetFloat(key string) float64

	GetBool(key string) bool

	GetStringSlice(key string) []string

	// Set and Delete persist immediately. Deleting a missing key is not
	// an error.
	Set(key string, value any) error
	Delete(key string) error

	// Save writes the current values; Load discards them and re-reads.
	Save() error
	Load() error

	// Path identifies the backing file, or ":memory:".
	Path() string
}
