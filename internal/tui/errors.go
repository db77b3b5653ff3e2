// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"
	"strings"

	"github.com/MKhiriev/go-quote-sync/internal/validators"
)

// ErrResolutionCancelled is returned to the sync cycle when the conflict
// screen is closed without a decision.
var ErrResolutionCancelled = errors.New("conflict resolution cancelled")

var networkFailureMarkers = []string{
	"connection refused",
	"dial tcp",
	"no such host",
	"network is unreachable",
	"i/o timeout",
	"context deadline exceeded",
}

const msgNetworkUnavailable = "Network is unavailable or the server cannot be reached"

// humanizeMessage replaces low-level transport failures with a short
// sentence. Other messages are returned unchanged.
func humanizeMessage(message string) string {
	s := strings.ToLower(message)
	for _, marker := range networkFailureMarkers {
		if strings.Contains(s, marker) {
			return msgNetworkUnavailable
		}
	}
	return message
}

func humanizeError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, validators.ErrEmptyText):
		return "Quote text is required"
	case errors.Is(err, validators.ErrEmptyCategory):
		return "Category is required"
	}
	return humanizeMessage(err.Error())
}
