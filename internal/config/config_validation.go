// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/MKhiriev/go-quote-sync/models"
	"github.com/rs/zerolog"
)

// validate checks the rules shared by every consumer of the merged config.
// Role-specific rules live in the ClientConfig and ServerConfig validators.
func (cfg *StructuredConfig) validate() error {
	if cfg.Sync.Interval < 0 || cfg.Sync.MaxBackoff < 0 || cfg.Sync.PullInterval < 0 {
		return fmt.Errorf("%w: durations must not be negative", ErrInvalidSyncConfigs)
	}
	if cfg.Sync.LogLimit < 0 {
		return fmt.Errorf("%w: log limit must not be negative", ErrInvalidSyncConfigs)
	}
	if cfg.Sync.ConflictStrategy != "" {
		if _, err := models.ParseStrategy(cfg.Sync.ConflictStrategy); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidSyncConfigs, err)
		}
	}

	switch cfg.Adapter.Kind {
	case "", AdapterHTTP, AdapterPlaceholder, AdapterMemory:
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidAdapterConfigs, cfg.Adapter.Kind)
	}
	if cfg.Adapter.RequestTimeout < 0 || cfg.Adapter.RetryCount < 0 {
		return fmt.Errorf("%w: timeout and retry count must not be negative", ErrInvalidAdapterConfigs)
	}

	if cfg.Log.Level != "" {
		if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidLogConfigs, err)
		}
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Sync.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive", ErrInvalidSyncConfigs)
	}
	if cfg.Sync.LogLimit <= 0 {
		return fmt.Errorf("%w: log limit must be positive", ErrInvalidSyncConfigs)
	}
	if cfg.Sync.MaxBackoff < cfg.Sync.Interval {
		return fmt.Errorf("%w: max backoff is shorter than the interval", ErrInvalidSyncConfigs)
	}
	if !cfg.Sync.ConflictStrategy.IsValid() {
		return fmt.Errorf("%w: %w", ErrInvalidSyncConfigs, models.ErrUnknownStrategy)
	}

	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	switch cfg.Adapter.Kind {
	case AdapterHTTP:
		if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout == 0 {
			return ErrInvalidAdapterConfigs
		}
	case AdapterPlaceholder:
		if _, err := url.ParseRequestURI(cfg.Adapter.PlaceholderURL); err != nil || cfg.Adapter.RequestTimeout == 0 {
			return ErrInvalidAdapterConfigs
		}
	case AdapterMemory:
	default:
		return ErrInvalidAdapterConfigs
	}

	return nil
}

func (cfg *ServerConfig) validate() error {
	if cfg.Server.HTTPAddress == "" || cfg.Server.RequestTimeout <= 0 {
		return ErrInvalidServerConfigs
	}
	if strings.TrimSpace(cfg.Storage.DB.DSN) == "" {
		return ErrInvalidStorageConfigs
	}
	return nil
}
