// Package storage provides the key/value blob store the agent persists
// its profile, preferences and interaction history into. The store is a
// plain get/set collaborator: no transactions, last write wins.
package storage

import (
	"context"
	"encoding/json"
)

// Well-known keys.
const (
	KeyProfile       = "userProfile"
	KeyPreferences   = "userPreferences"
	KeyHistory       = "interactionHistory"
	KeyLastQueries   = "lastGeneratedQueries"
	KeyLastQueryTime = "lastQueryGeneration"
)

// Store reads and writes JSON blobs by key. Get omits missing keys from
// the result instead of failing.
type Store interface {
	Get(ctx context.Context, keys ...string) (map[string]json.RawMessage, error)
	Set(ctx context.Context, values map[string]json.RawMessage) error
}

// GetJSON fetches one key and unmarshals it into target. It reports
// whether the key was present.
func GetJSON(ctx context.Context, store Store, key string, target any) (bool, error) {
	values, err := store.Get(ctx, key)
	if err != nil {
		return false, err
	}

	raw, ok := values[key]
	if !ok {
		return false, nil
	}

	if err := json.Unmarshal(raw, target); err != nil {
		return true, err
	}
	return true, nil
}

// SetJSON marshals value and stores it under key.
func SetJSON(ctx context.Context, store Store, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return store.Set(ctx, map[string]json.RawMessage{key: raw})
}
