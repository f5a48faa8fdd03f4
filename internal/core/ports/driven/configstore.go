package driven

// ConfigStore provides persistent key-value configuration: the default
// CPC limit, permutation preset overrides, and output column names.
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value ("" when unset).
	GetString(key string) string

	// GetInt retrieves an integer configuration value (0 when unset).
	GetInt(key string) int

	// GetBool retrieves a boolean configuration value (false when unset).
	GetBool(key string) bool

	// Set stores a configuration value and persists it.
	Set(key string, value any) error

	// Delete removes a configuration value.
	Delete(key string) error

	// Load re-reads configuration from the backing store.
	Load() error
}
