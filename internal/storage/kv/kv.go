// Package kv is the key/value persistence boundary. Values are opaque strings,
// reads and writes are synchronous, there are no transactions and nothing expires.
package kv

import (
	"context"
	"errors"
	"strings"
)

// Store is one user's namespace.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}

// Backend hands out isolated per-user stores.
type Backend interface {
	For(userID string) Store
	Users(ctx context.Context) ([]string, error)
	Close() error
}

var ErrEmptyKey = errors.New("kv: empty key")

// ValidKey reports whether every backend accepts key.
func ValidKey(key string) bool {
	return strings.TrimSpace(key) != ""
}

func checkKey(key string) error {
	if !ValidKey(key) {
		return ErrEmptyKey
	}
	return nil
}
