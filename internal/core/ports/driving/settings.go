package driving

import "github.com/custodia-labs/neardup/internal/core/domain"

// SettingsService manages stored deduplication settings.
type SettingsService interface {
	// Get retrieves current settings, falling back to defaults per key.
	Get() (*domain.DedupSettings, error)

	// Save validates and persists settings.
	Save(settings *domain.DedupSettings) error

	// SetThreshold updates the Jaccard threshold.
	SetThreshold(threshold float64) error

	// SetShingleSize updates the shingle width in tokens.
	SetShingleSize(size int) error

	// SetHashes updates the sketch length.
	SetHashes(n int) error

	// SetBits updates the hash working width.
	SetBits(n int) error

	// SetHash selects the digest function by registry name.
	SetHash(name string) error

	// SetSeed fixes the permutation seed.
	SetSeed(seed int64) error

	// ClearSeed removes the stored seed so permutations are random.
	ClearSeed() error

	// Validate checks the stored settings.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.DedupSettings
}
