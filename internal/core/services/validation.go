package services

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/neardup/internal/core/domain"
	"github.com/custodia-labs/neardup/internal/core/ports/driven"
)

// settingsValidate checks the validate tags on domain.DedupSettings.
var settingsValidate = validator.New()

// settingKeys maps settings fields to their config key suffix for messages.
var settingKeys = map[string]string{
	"NBits":            "n_bits",
	"NHashes":          "n_hashes",
	"JaccardThreshold": "jaccard_threshold",
	"ShingleSize":      "shingle_size",
	"Hash":             "hash",
}

// ValidateSettings checks settings against their constraints. When hashes is
// non-nil the hash function must also be registered.
// Every failure wraps domain.ErrConfiguration.
func ValidateSettings(settings domain.DedupSettings, hashes driven.HasherRegistry) error {
	if err := settingsValidate.Struct(settings); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return fmt.Errorf("%w: %s", domain.ErrConfiguration, describeFieldError(fieldErrs[0]))
		}
		return fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
	}

	if hashes != nil && !hashes.Has(settings.Hash) {
		return fmt.Errorf("%w: unknown hash function %q", domain.ErrConfiguration, settings.Hash)
	}

	return nil
}

func describeFieldError(fe validator.FieldError) string {
	key, ok := settingKeys[fe.Field()]
	if !ok {
		key = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return key + " is required"
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s, got %v", key, fe.Param(), fe.Value())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s, got %v", key, fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", key, fe.Tag())
	}
}
