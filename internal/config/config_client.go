package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-quote-sync/models"
)

// ClientApp holds client-side application settings.
type ClientApp struct {
	Version    string
	SeedQuotes bool
}

// ClientSync holds the resolved scheduler settings.
type ClientSync struct {
	Interval         time.Duration
	AutoSyncEnabled  bool
	ConflictStrategy models.Strategy
	MaxBackoff       time.Duration
	PullInterval     time.Duration
	LogLimit         int
}

// ClientAdapter holds gateway settings used by the client.
type ClientAdapter struct {
	Kind           string
	HTTPAddress    string
	PlaceholderURL string
	RequestTimeout time.Duration
	RetryCount     int
}

// BaseURL returns HTTPAddress as a URL, adding the http scheme when the
// address is a bare host:port.
func (a ClientAdapter) BaseURL() string {
	if strings.Contains(a.HTTPAddress, "://") {
		return strings.TrimRight(a.HTTPAddress, "/")
	}
	return "http://" + a.HTTPAddress
}

// ClientDB contains local database connection settings for the client.
type ClientDB struct {
	// DSN is the SQLite file used for durable state.
	DSN string
	// InMemory is set when DSN asks for process-local state only.
	InMemory bool
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	DB ClientDB
}

// LogSettings holds where and how verbosely the process logs.
type LogSettings struct {
	File  string
	Level string
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	App     ClientApp
	Sync    ClientSync
	Adapter ClientAdapter
	Storage ClientStorage
	Log     LogSettings
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	return NewClientConfig(cfg)
}

// NewClientConfig maps the fields relevant to the client runtime and
// validates the result.
func NewClientConfig(cfg *StructuredConfig) (*ClientConfig, error) {
	strategy, err := models.ParseStrategy(orDefault(cfg.Sync.ConflictStrategy, DefaultConflictStrategy))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSyncConfigs, err)
	}

	dsn := orDefault(cfg.Storage.DB.DSN, DefaultClientDSN)

	clientCfg := &ClientConfig{
		App: ClientApp{
			Version:    cfg.App.Version,
			SeedQuotes: cfg.App.SeedQuotes.Enabled(true),
		},
		Sync: ClientSync{
			Interval:         cfg.Sync.Interval,
			AutoSyncEnabled:  cfg.Sync.AutoSyncEnabled.Enabled(true),
			ConflictStrategy: strategy,
			MaxBackoff:       cfg.Sync.MaxBackoff,
			PullInterval:     cfg.Sync.PullInterval,
			LogLimit:         cfg.Sync.LogLimit,
		},
		Adapter: ClientAdapter{
			Kind:           cfg.Adapter.Kind,
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			PlaceholderURL: cfg.Adapter.PlaceholderURL,
			RequestTimeout: cfg.Adapter.RequestTimeout,
			RetryCount:     cfg.Adapter.RetryCount,
		},
		Storage: ClientStorage{
			DB: ClientDB{
				DSN:      dsn,
				InMemory: isMemoryDSN(dsn),
			},
		},
		Log: LogSettings{
			File:  cfg.Log.File,
			Level: cfg.Log.Level,
		},
	}

	if err := clientCfg.validate(); err != nil {
		return nil, err
	}
	return clientCfg, nil
}

func isMemoryDSN(dsn string) bool {
	return dsn == "memory" || dsn == ":memory:"
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
