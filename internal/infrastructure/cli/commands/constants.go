package commands

import "github.com/doeshing/tunemate-go/internal/domain"

// CLI-specific constants
const (
	// DefaultEditorCommand is the default editor command
	DefaultEditorCommand = "vi"
	// TimestampFormat is used when listing history and cache entries
	TimestampFormat = "2006-01-02 15:04"
	// previewWidth truncates long inputs in list output
	previewWidth = 48
)

// Defaults re-exported for flag declarations
const (
	DefaultHistoryLimit       = domain.DefaultHistoryLimit
	DefaultHistorySearchLimit = domain.DefaultHistorySearchLimit
	DefaultHistoryRetainDays  = domain.DefaultHistoryRetainDays
)

// Error messages
const (
	ErrDoctorServiceUnavailable = "doctor service unavailable"
	ErrHistoryStoreUnavailable  = "history store unavailable (is history.enabled false?)"
	ErrCacheStoreUnavailable    = "cache store unavailable"
	ErrKeyRequired              = "--key is required"
	ErrInvalidRetainDays        = "--days must be > 0"
	ErrModelNameRequired        = "--name is required"
)

// Success messages
const (
	MsgConfigurationValid       = "Configuration valid"
	MsgNoDifferencesFromDefault = "No differences from default configuration."
	MsgNoHistoryRecorded        = "No history recorded yet."
	MsgInitCancelled            = "Init cancelled."
)
