package domain

import (
	"fmt"
	"time"
)

// GetDefaultModel retrieves the default model definition from configuration
// Returns an error if the default model is not found
func (c *Config) GetDefaultModel() (ModelDefinition, error) {
	if c.Preferences.DefaultModel == "" {
		return ModelDefinition{}, fmt.Errorf("no default model configured")
	}

	for _, model := range c.Models {
		if model.Name == c.Preferences.DefaultModel {
			return model, nil
		}
	}

	return ModelDefinition{}, fmt.Errorf("default model %s not found in configuration", c.Preferences.DefaultModel)
}

// FindModelByName searches for a model by its name
func (c *Config) FindModelByName(name string) (ModelDefinition, bool) {
	for _, model := range c.Models {
		if model.Name == name {
			return model, true
		}
	}
	return ModelDefinition{}, false
}

// HasModel checks if a model with the given name exists in the configuration
func (c *Config) HasModel(name string) bool {
	_, exists := c.FindModelByName(name)
	return exists
}

// PickModel resolves an explicit override, then the default model, then the first model.
func (c *Config) PickModel(override string) (ModelDefinition, error) {
	name := override
	if name == "" {
		name = c.Preferences.DefaultModel
	}
	if name == "" && len(c.Models) > 0 {
		return c.Models[0], nil
	}
	if model, ok := c.FindModelByName(name); ok {
		return model, nil
	}
	return ModelDefinition{}, fmt.Errorf("model %s not configured", name)
}

// GetTargetLanguage returns the translate action's default target language.
func (c *Config) GetTargetLanguage() string {
	if c.Preferences.TargetLanguage == "" {
		return DefaultTargetLanguage
	}
	return c.Preferences.TargetLanguage
}

// GetTimeout returns the model call timeout.
func (c *Config) GetTimeout() time.Duration {
	const defaultTimeoutSeconds = 30

	if c.Preferences.TimeoutSeconds <= 0 {
		return defaultTimeoutSeconds * time.Second
	}
	return time.Duration(c.Preferences.TimeoutSeconds) * time.Second
}

// GetHistoryBackend returns the configured backend, sqlite when unset.
func (c *Config) GetHistoryBackend() string {
	if c.History.Backend == "" {
		return HistoryBackendSQLite
	}
	return c.History.Backend
}

// GetCacheBackend returns the configured cache backend, file when unset.
func (c *Config) GetCacheBackend() string {
	if c.Cache.Backend == "" {
		return CacheBackendFile
	}
	return c.Cache.Backend
}

// GetCacheMaxEntries returns the maximum number of cache entries
func (c *Config) GetCacheMaxEntries() int {
	if c.Cache.MaxEntries <= 0 {
		return DefaultMaxCacheEntries
	}
	return c.Cache.MaxEntries
}

// GetCacheTTL returns how long a cached raw response stays valid.
func (c *Config) GetCacheTTL() time.Duration {
	if c.Cache.TTLMinutes <= 0 {
		return DefaultCacheTTL
	}
	return time.Duration(c.Cache.TTLMinutes) * time.Minute
}

// GetHistoryRetentionDays returns the number of days to retain history.
// Zero disables pruning on append.
func (c *Config) GetHistoryRetentionDays() int {
	if c.History.RetentionDays < 0 {
		return 0
	}
	return c.History.RetentionDays
}

// GetServerAddr returns the HTTP listen address.
func (c *Config) GetServerAddr() string {
	if c.Server.Addr == "" {
		return DefaultServerAddr
	}
	return c.Server.Addr
}

// ValidateConsistency checks the internal consistency of the configuration
func (c *Config) ValidateConsistency() error {
	if c.Preferences.DefaultModel != "" && len(c.Models) == 0 {
		return fmt.Errorf("default model is set but no models are configured")
	}

	if c.Preferences.DefaultModel != "" && !c.HasModel(c.Preferences.DefaultModel) {
		return fmt.Errorf("default model %s does not exist in models list", c.Preferences.DefaultModel)
	}

	return nil
}
