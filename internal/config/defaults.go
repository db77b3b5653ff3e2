package config

import "time"

const (
	DefaultSyncInterval     = 30 * time.Second
	DefaultMaxBackoff       = 5 * time.Minute
	DefaultSyncLogLimit     = 50
	DefaultConflictStrategy = "remote-wins"
	DefaultClientDSN        = "quotes.db"
	DefaultPlaceholderURL   = "https://jsonplaceholder.typicode.com"
	DefaultHTTPAddress      = "localhost:8080"
	DefaultRequestTimeout   = 10 * time.Second
	DefaultShutdownTimeout  = 5 * time.Second
	DefaultLogLevel         = "debug"
)

// defaults returns the lowest-priority layer of the merge.
func defaults() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			Version:    "dev",
			SeedQuotes: ToggleOn,
		},
		Sync: Sync{
			Interval:         DefaultSyncInterval,
			AutoSyncEnabled:  ToggleOn,
			ConflictStrategy: DefaultConflictStrategy,
			MaxBackoff:       DefaultMaxBackoff,
			LogLimit:         DefaultSyncLogLimit,
		},
		Adapter: Adapter{
			Kind:           AdapterHTTP,
			HTTPAddress:    DefaultHTTPAddress,
			PlaceholderURL: DefaultPlaceholderURL,
			RequestTimeout: DefaultRequestTimeout,
		},
		Server: Server{
			HTTPAddress:     DefaultHTTPAddress,
			RequestTimeout:  30 * time.Second,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Log: Log{
			Level: DefaultLogLevel,
		},
	}
}
