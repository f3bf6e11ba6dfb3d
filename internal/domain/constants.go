package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Timeout and duration constants
const (
	// DefaultHTTPClientTimeout is the timeout for HTTP client requests
	DefaultHTTPClientTimeout = 60 * time.Second
	// DefaultCacheTTL is how long a cached raw response is reused
	DefaultCacheTTL = time.Hour
	// DefaultShutdownTimeout bounds graceful HTTP shutdown
	DefaultShutdownTimeout = 10 * time.Second
)

// Limit constants
const (
	// DefaultMaxCacheEntries is the maximum number of cache entries
	DefaultMaxCacheEntries = 100
	// MaxRequestBodyBytes caps inbound HTTP request bodies
	MaxRequestBodyBytes = 1 << 20
)

// History constants
const (
	// DefaultHistoryLimit is the default number of history records to display
	DefaultHistoryLimit = 10
	// DefaultHistorySearchLimit is the default number of search results to return
	DefaultHistorySearchLimit = 20
	// DefaultHistoryRangeLimit is the default number of date-range results
	DefaultHistoryRangeLimit = 50
	// DefaultHistoryRetainDays is the default number of days to retain history
	DefaultHistoryRetainDays = 30
)

// Model configuration constants
const (
	// DefaultMaxTokens is the default maximum number of tokens
	DefaultMaxTokens = 1024
	// DefaultGeminiModel is used when a gemini model entry omits model_id
	DefaultGeminiModel = "gemini-2.0-flash"
	// DefaultTargetLanguage is the translate action's target when none is given
	DefaultTargetLanguage = "bengali"
)

// Service constants
const (
	ServiceName    = "TuneMate API"
	ServiceVersion = "2.0.0"
	// DefaultServerAddr is the default HTTP listen address
	DefaultServerAddr = ":8080"
)

// Time formats
const (
	// TimestampFormat is the standard timestamp format
	TimestampFormat = time.RFC3339
)
