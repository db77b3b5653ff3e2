package config

import "errors"

// Validation errors returned when configuration groups are incomplete or
// invalid. Callers match them with errors.Is.
var (
	// ErrInvalidSyncConfigs indicates invalid sync settings (for example, a
	// non-positive interval or an unknown conflict strategy).
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
	// ErrInvalidAdapterConfigs indicates invalid gateway settings
	// (for example, missing HTTP address or request timeout).
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, an empty DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidServerConfigs indicates invalid reference server settings.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidLogConfigs indicates an unknown log level.
	ErrInvalidLogConfigs = errors.New("invalid log configuration")
	// ErrInvalidToggle is returned when a boolean switch cannot be parsed.
	ErrInvalidToggle = errors.New("invalid boolean switch")
)
