package services

import (
	"fmt"

	"github.com/custodia-labs/neardup/internal/core/domain"
	"github.com/custodia-labs/neardup/internal/core/ports/driven"
	"github.com/custodia-labs/neardup/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyNBits            = "dedup.n_bits"
	KeyNHashes          = "dedup.n_hashes"
	KeyJaccardThreshold = "dedup.jaccard_threshold"
	KeyShingleSize      = "dedup.shingle_size"
	KeyHash             = "dedup.hash"
	KeySeed             = "dedup.seed"
)

// SettingsService manages deduplication settings.
type SettingsService struct {
	configStore driven.ConfigStore
	hashers     driven.HasherRegistry
}

// NewSettingsService creates a new settings service.
// hashers may be nil, in which case hash names are not checked.
func NewSettingsService(configStore driven.ConfigStore, hashers driven.HasherRegistry) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		hashers:     hashers,
	}
}

// Get retrieves current settings. Missing keys fall back to defaults.
func (s *SettingsService) Get() (*domain.DedupSettings, error) {
	defaults := domain.DefaultDedupSettings()

	settings := &domain.DedupSettings{
		NBits:            s.getInt(KeyNBits, defaults.NBits),
		NHashes:          s.getInt(KeyNHashes, defaults.NHashes),
		JaccardThreshold: s.getFloat(KeyJaccardThreshold, defaults.JaccardThreshold),
		ShingleSize:      s.getInt(KeyShingleSize, defaults.ShingleSize),
		Hash:             s.getString(KeyHash, defaults.Hash),
	}

	if _, ok := s.configStore.Get(KeySeed); ok {
		seed := int64(s.configStore.GetInt(KeySeed))
		settings.Seed = &seed
	}

	return settings, nil
}

// Save validates and persists settings.
func (s *SettingsService) Save(settings *domain.DedupSettings) error {
	if err := ValidateSettings(*settings, s.hashers); err != nil {
		return err
	}

	if err := s.configStore.Set(KeyNBits, settings.NBits); err != nil {
		return fmt.Errorf("save n_bits: %w", err)
	}
	if err := s.configStore.Set(KeyNHashes, settings.NHashes); err != nil {
		return fmt.Errorf("save n_hashes: %w", err)
	}
	if err := s.configStore.Set(KeyJaccardThreshold, settings.JaccardThreshold); err != nil {
		return fmt.Errorf("save jaccard_threshold: %w", err)
	}
	if err := s.configStore.Set(KeyShingleSize, settings.ShingleSize); err != nil {
		return fmt.Errorf("save shingle_size: %w", err)
	}
	if err := s.configStore.Set(KeyHash, settings.Hash); err != nil {
		return fmt.Errorf("save hash: %w", err)
	}

	if settings.Seed == nil {
		if err := s.configStore.Delete(KeySeed); err != nil {
			return fmt.Errorf("clear seed: %w", err)
		}
		return nil
	}
	if err := s.configStore.Set(KeySeed, *settings.Seed); err != nil {
		return fmt.Errorf("save seed: %w", err)
	}

	return nil
}

// SetThreshold updates the Jaccard threshold.
func (s *SettingsService) SetThreshold(threshold float64) error {
	return s.update(func(settings *domain.DedupSettings) {
		settings.JaccardThreshold = threshold
	})
}

// SetShingleSize updates the shingle width.
func (s *SettingsService) SetShingleSize(size int) error {
	return s.update(func(settings *domain.DedupSettings) {
		settings.ShingleSize = size
	})
}

// SetHashes updates the sketch length.
func (s *SettingsService) SetHashes(n int) error {
	return s.update(func(settings *domain.DedupSettings) {
		settings.NHashes = n
	})
}

// SetBits updates the hash working width.
func (s *SettingsService) SetBits(n int) error {
	return s.update(func(settings *domain.DedupSettings) {
		settings.NBits = n
	})
}

// SetHash selects the digest function.
func (s *SettingsService) SetHash(name string) error {
	return s.update(func(settings *domain.DedupSettings) {
		settings.Hash = name
	})
}

// SetSeed fixes the permutation seed.
func (s *SettingsService) SetSeed(seed int64) error {
	return s.update(func(settings *domain.DedupSettings) {
		settings.Seed = &seed
	})
}

// ClearSeed removes the stored seed.
func (s *SettingsService) ClearSeed() error {
	return s.update(func(settings *domain.DedupSettings) {
		settings.Seed = nil
	})
}

// Validate checks the stored settings.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return ValidateSettings(*settings, s.hashers)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.DedupSettings {
	return domain.DefaultDedupSettings()
}

// update applies fn to the current settings and saves the result.
// Nothing is written if the result is invalid.
func (s *SettingsService) update(fn func(*domain.DedupSettings)) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	fn(settings)
	return s.Save(settings)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}
