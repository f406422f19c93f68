package driving

import "github.com/custodia-labs/docqa/internal/core/domain"

// SettingsService resolves application settings from the config file and
// the environment.
type SettingsService interface {
	// Get returns effective settings: defaults, then config file, then
	// environment. The result is normalised.
	Get() (*domain.AppSettings, error)

	// Set validates and persists one config file key.
	Set(key, value string) error

	// Keys lists the recognised config file keys.
	Keys() []string
}
