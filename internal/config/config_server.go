package config

import (
	"fmt"
	"time"
)

// ServerApp holds server-side application settings.
type ServerApp struct {
	Version string
}

// ServerHTTP holds listener settings for the reference server.
type ServerHTTP struct {
	HTTPAddress     string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// ServerDB holds the database settings for the reference server.
type ServerDB struct {
	// DSN is a PostgreSQL connection string, or "memory".
	DSN      string
	InMemory bool
}

// ServerStorage groups server storage settings.
type ServerStorage struct {
	DB ServerDB
}

// ServerConfig is the reference server configuration assembled from
// [StructuredConfig].
type ServerConfig struct {
	App     ServerApp
	Server  ServerHTTP
	Storage ServerStorage
	Log     LogSettings
}

// GetServerConfig builds and validates the reference server config view.
func GetServerConfig() (*ServerConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	return NewServerConfig(cfg)
}

// NewServerConfig maps the fields relevant to the server and validates them.
func NewServerConfig(cfg *StructuredConfig) (*ServerConfig, error) {
	serverCfg := &ServerConfig{
		App: ServerApp{Version: cfg.App.Version},
		Server: ServerHTTP{
			HTTPAddress:     cfg.Server.HTTPAddress,
			RequestTimeout:  cfg.Server.RequestTimeout,
			ShutdownTimeout: cfg.Server.ShutdownTimeout,
		},
		Storage: ServerStorage{
			DB: ServerDB{
				DSN:      cfg.Storage.DB.DSN,
				InMemory: isMemoryDSN(cfg.Storage.DB.DSN),
			},
		},
		Log: LogSettings{File: cfg.Log.File, Level: cfg.Log.Level},
	}

	if err := serverCfg.validate(); err != nil {
		return nil, err
	}
	return serverCfg, nil
}
