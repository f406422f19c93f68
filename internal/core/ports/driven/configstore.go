package driven

// ConfigStore provides access to application configuration.
// Implementations handle persistence (e.g., TOML files) and type conversion.
type ConfigStore interface {
	// Get retrieves a configuration value by dotted key.
	Get(key string) (any, bool)

	// GetString returns empty string if key doesn't exist or isn't a string.
	GetString(key string) string

	// GetInt returns 0 if key doesn't exist or isn't an integer.
	GetInt(key string) int

	// Set stores a configuration value in memory.
	Set(key string, value any) error

	// Save persists the current configuration to storage.
	Save() error

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}
