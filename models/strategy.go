package models

import (
	"errors"
	"fmt"
)

// ErrUnknownStrategy is returned when a strategy name cannot be parsed.
var ErrUnknownStrategy = errors.New("unknown conflict strategy")

// Strategy selects how detected conflicts are resolved.
type Strategy int

const (
	StrategyRemoteWins Strategy = iota
	StrategyLocalWins
	StrategyManual
	StrategyMergeKeepBoth
)

var strategyNames = map[Strategy]string{
	StrategyRemoteWins:    "remote-wins",
	StrategyLocalWins:     "local-wins",
	StrategyManual:        "manual",
	StrategyMergeKeepBoth: "merge-keep-both",
}

// ParseStrategy converts a configuration value into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	for st, name := range strategyNames {
		if name == s {
			return st, nil
		}
	}
	return StrategyRemoteWins, fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// IsValid returns true if the strategy is recognized.
func (s Strategy) IsValid() bool {
	_, ok := strategyNames[s]
	return ok
}

// IsAutomatic reports whether the strategy can be applied without an
// external decision.
func (s Strategy) IsAutomatic() bool {
	return s == StrategyRemoteWins || s == StrategyLocalWins || s == StrategyMergeKeepBoth
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return "unknown"
}

// Description returns a human-readable description of the strategy.
func (s Strategy) Description() string {
	switch s {
	case StrategyRemoteWins:
		return "Replace local records with the remote copy"
	case StrategyLocalWins:
		return "Keep local records and push them again"
	case StrategyManual:
		return "Ask for a decision on every conflict"
	case StrategyMergeKeepBoth:
		return "Keep the local record and add the remote one as a copy"
	default:
		return "Unknown strategy"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStrategy, int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(text []byte) error {
	parsed, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
