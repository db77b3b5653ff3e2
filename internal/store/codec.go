package store

import (
	"encoding/json"
	"fmt"
)

func encode(key string, v any) (Entry, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: encoding %s: %w", ErrPersistence, key, err)
	}
	return Entry{Key: key, Value: data}, nil
}

func decode(key string, data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: decoding %s: %w", ErrCorruptState, key, err)
	}
	return nil
}
