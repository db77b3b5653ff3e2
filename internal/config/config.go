// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// Gateway kinds accepted by Adapter.Kind.
const (
	AdapterHTTP        = "http"
	AdapterPlaceholder = "placeholder"
	AdapterMemory      = "memory"
)

// StructuredConfig is the top-level configuration container shared by the
// client and the server. It is populated by merging environment variables,
// command-line flags, an optional JSON file and the built-in defaults.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env      : direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings.
	App App `envPrefix:"APP_"`

	// Sync holds the sync scheduler and conflict policy settings.
	Sync Sync `envPrefix:"SYNC_"`

	// Storage holds the persistence backend settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Adapter selects and configures the remote snapshot gateway.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Server holds network settings of the reference remote server.
	Server Server `envPrefix:"SERVER_"`

	// Log holds logger settings.
	Log Log `envPrefix:"LOG_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// Version is the semantic version string of the running application.
	// Env: APP_VERSION
	Version string `env:"VERSION"`

	// SeedQuotes loads the built-in quotes into an empty store on first start.
	// Env: APP_SEED_QUOTES
	SeedQuotes Toggle `env:"SEED_QUOTES"`
}

// Sync holds the settings consumed by the sync scheduler.
type Sync struct {
	// Interval is the period between automatic sync cycles.
	// Env: SYNC_INTERVAL
	Interval time.Duration `env:"INTERVAL"`

	// AutoSyncEnabled turns periodic cycles on or off. Manual triggers always
	// work.
	// Env: SYNC_AUTO_ENABLED
	AutoSyncEnabled Toggle `env:"AUTO_ENABLED"`

	// ConflictStrategy is one of remote-wins, local-wins, manual,
	// merge-keep-both.
	// Env: SYNC_CONFLICT_STRATEGY
	ConflictStrategy string `env:"CONFLICT_STRATEGY"`

	// MaxBackoff caps the delay applied after consecutive failed cycles.
	// Env: SYNC_MAX_BACKOFF
	MaxBackoff time.Duration `env:"MAX_BACKOFF"`

	// PullInterval, when longer than Interval, lets periodic ticks skip the
	// network while nothing is pending and the last sync is recent enough.
	// Env: SYNC_PULL_INTERVAL
	PullInterval time.Duration `env:"PULL_INTERVAL"`

	// LogLimit bounds the persisted sync log.
	// Env: SYNC_LOG_LIMIT
	LogLimit int `env:"LOG_LIMIT"`
}

// Storage groups the configuration for the storage backends.
type Storage struct {
	// DB holds the database connection settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the database backend.
type DB struct {
	// DSN is a SQLite file path on the client and a PostgreSQL connection
	// string on the server. "memory" keeps everything in process.
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Adapter selects the gateway used by the client to reach the remote store.
type Adapter struct {
	// Kind is one of http, placeholder, memory.
	// Env: ADAPTER_KIND
	Kind string `env:"KIND"`

	// HTTPAddress is the reference server address, "host:port" or a URL.
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// PlaceholderURL is the base URL of the JSONPlaceholder-style API.
	// Env: ADAPTER_PLACEHOLDER_URL
	PlaceholderURL string `env:"PLACEHOLDER_URL"`

	// RequestTimeout bounds every outbound gateway request.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// RetryCount is the number of transport-level retries per request.
	// Env: ADAPTER_RETRY_COUNT
	RetryCount int `env:"RETRY_COUNT"`
}

// Server holds network and timeout settings for the reference server.
type Server struct {
	// HTTPAddress is the TCP address the HTTP server listens on.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single inbound
	// request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// ShutdownTimeout bounds graceful shutdown.
	// Env: SERVER_SHUTDOWN_TIMEOUT
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`
}

// Log holds logger settings.
type Log struct {
	// File is the client log file. Empty means "logs" next to the binary.
	// Env: LOG_FILE
	File string `env:"FILE"`

	// Level is a zerolog level name.
	// Env: LOG_LEVEL
	Level string `env:"LEVEL"`
}

// GetStructuredConfig loads, merges, and validates the configuration from
// all available sources.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}
