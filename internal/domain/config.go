package domain

// Config mirrors ~/.tunemate/config.yaml.
type Config struct {
	ConfigFormatVersion string            `yaml:"config_format_version"`
	Preferences         Preferences       `yaml:"preferences"`
	Models              []ModelDefinition `yaml:"models"`
	History             HistorySettings   `yaml:"history"`
	Cache               CacheSettings     `yaml:"cache"`
	Server              ServerSettings    `yaml:"server"`
}

// Preferences captures user level toggles.
type Preferences struct {
	DefaultModel   string `yaml:"default_model"`
	TimeoutSeconds int    `yaml:"timeout"`
	TargetLanguage string `yaml:"target_language"`
}

// HistorySettings controls the history recorder.
type HistorySettings struct {
	Enabled       bool   `yaml:"enabled"`
	Backend       string `yaml:"backend"`
	Path          string `yaml:"path"`
	RetentionDays int    `yaml:"retention_days"`
}

// CacheSettings controls raw-response caching.
type CacheSettings struct {
	Enabled    bool   `yaml:"enabled"`
	Backend    string `yaml:"backend"`
	Dir        string `yaml:"dir"`
	RedisURL   string `yaml:"redis_url"`
	TTLMinutes int    `yaml:"ttl_minutes"`
	MaxEntries int    `yaml:"max_entries"`
}

// ServerSettings configures the HTTP surface.
type ServerSettings struct {
	Addr    string `yaml:"addr"`
	DevMode bool   `yaml:"dev_mode"`
}

const (
	HistoryBackendSQLite = "sqlite"
	HistoryBackendFile   = "file"

	CacheBackendFile  = "file"
	CacheBackendRedis = "redis"
)
