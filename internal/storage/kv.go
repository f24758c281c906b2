// Package storage holds the persistent key-value backends the session is
// kept in. One backend is chosen per runtime target by Open.
package storage

import (
	"context"
	"errors"
)

// KV is a small string key-value store.
type KV interface {
	// Get returns ok=false when the key is not present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// SetMany writes every entry or none of them.
	SetMany(ctx context.Context, entries map[string]string) error
	// Delete removes the keys; missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}

var (
	ErrClosed     = errors.New("storage: store closed")
	ErrCorrupted  = errors.New("storage: document corrupted")
	ErrKeyInvalid = errors.New("storage: empty key")
)

func checkKeys(keys ...string) error {
	for _, k := range keys {
		if k == "" {
			return ErrKeyInvalid
		}
	}
	return nil
}
