package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors StructuredConfig with JSON-friendly field
// types. Durations are written as strings such as "30s".
type StructuredJSONConfig struct {
	App struct {
		Version    string `json:"version"`
		SeedQuotes Toggle `json:"seed_quotes"`
	} `json:"app,omitempty"`

	Sync struct {
		Interval         Duration `json:"interval"`
		AutoSyncEnabled  Toggle   `json:"auto_sync_enabled"`
		ConflictStrategy string   `json:"conflict_strategy"`
		MaxBackoff       Duration `json:"max_backoff"`
		PullInterval     Duration `json:"pull_interval"`
		LogLimit         int      `json:"log_limit"`
	} `json:"sync,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Adapter struct {
		Kind           string   `json:"kind"`
		HTTPAddress    string   `json:"http_address"`
		PlaceholderURL string   `json:"placeholder_url"`
		RequestTimeout Duration `json:"request_timeout"`
		RetryCount     int      `json:"retry_count"`
	} `json:"adapter,omitempty"`

	Server struct {
		HTTPAddress     string   `json:"http_address"`
		RequestTimeout  Duration `json:"request_timeout"`
		ShutdownTimeout Duration `json:"shutdown_timeout"`
	} `json:"server,omitempty"`

	Log struct {
		File  string `json:"file"`
		Level string `json:"level"`
	} `json:"log,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			Version:    jsonCfg.App.Version,
			SeedQuotes: jsonCfg.App.SeedQuotes,
		},
		Sync: Sync{
			Interval:         time.Duration(jsonCfg.Sync.Interval),
			AutoSyncEnabled:  jsonCfg.Sync.AutoSyncEnabled,
			ConflictStrategy: jsonCfg.Sync.ConflictStrategy,
			MaxBackoff:       time.Duration(jsonCfg.Sync.MaxBackoff),
			PullInterval:     time.Duration(jsonCfg.Sync.PullInterval),
			LogLimit:         jsonCfg.Sync.LogLimit,
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
		},
		Adapter: Adapter{
			Kind:           jsonCfg.Adapter.Kind,
			HTTPAddress:    jsonCfg.Adapter.HTTPAddress,
			PlaceholderURL: jsonCfg.Adapter.PlaceholderURL,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
			RetryCount:     jsonCfg.Adapter.RetryCount,
		},
		Server: Server{
			HTTPAddress:     jsonCfg.Server.HTTPAddress,
			RequestTimeout:  time.Duration(jsonCfg.Server.RequestTimeout),
			ShutdownTimeout: time.Duration(jsonCfg.Server.ShutdownTimeout),
		},
		Log: Log{
			File:  jsonCfg.Log.File,
			Level: jsonCfg.Log.Level,
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
