package config

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Toggle is a boolean switch that remembers whether it was set at all, so
// an explicit "false" from one source survives the merge with the defaults.
type Toggle int8

const (
	ToggleUnset Toggle = iota
	ToggleOn
	ToggleOff
)

// Enabled reports the switch value, falling back to def when unset.
func (t Toggle) Enabled(def bool) bool {
	switch t {
	case ToggleOn:
		return true
	case ToggleOff:
		return false
	default:
		return def
	}
}

func (t Toggle) String() string {
	switch t {
	case ToggleOn:
		return "true"
	case ToggleOff:
		return "false"
	default:
		return ""
	}
}

// Set implements flag.Value.
func (t *Toggle) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidToggle, s)
	}
	if v {
		*t = ToggleOn
	} else {
		*t = ToggleOff
	}
	return nil
}

// IsBoolFlag lets "-auto-sync" be given without a value.
func (t *Toggle) IsBoolFlag() bool { return true }

func (t *Toggle) UnmarshalText(text []byte) error {
	return t.Set(string(text))
}

func (t Toggle) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalJSON accepts both JSON booleans and quoted strings.
func (t *Toggle) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case bool:
		return t.Set(strconv.FormatBool(value))
	case string:
		return t.Set(value)
	case nil:
		*t = ToggleUnset
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrInvalidToggle, string(b))
	}
}

func (t Toggle) MarshalJSON() ([]byte, error) {
	if t == ToggleUnset {
		return []byte("null"), nil
	}
	return []byte(t.String()), nil
}
