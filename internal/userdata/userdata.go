// Package userdata moves a user's whole key/value namespace in and out as one JSON object.
package userdata

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/avan-studio/avan-backend/internal/logger"
	"github.com/avan-studio/avan-backend/internal/storage/kv"
)

var ErrInvalidImport = errors.New("Invalid file format")

type Service struct {
	backend kv.Backend
}

func New(backend kv.Backend) *Service {
	return &Service{backend: backend}
}

// Export returns every key the user owns.
func (s *Service) Export(ctx context.Context, userID string) (map[string]string, error) {
	store := s.backend.For(userID)
	keys, err := store.Keys(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(keys))
	for _, k := range keys {
		v, ok, err := store.Get(ctx, k)
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", k, err)
		}
		if ok {
			out[k] = v
		}
	}
	return out, nil
}

// Import overwrites the keys found in data. Strings are stored as is, other
// values as their JSON text. Nothing is written unless the whole file parses.
func (s *Service) Import(ctx context.Context, userID string, data []byte) (int, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil || doc == nil {
		return 0, ErrInvalidImport
	}

	values := make(map[string]string, len(doc))
	for k, raw := range doc {
		if !kv.ValidKey(k) {
			return 0, ErrInvalidImport
		}
		var str string
		if json.Unmarshal(raw, &str) == nil {
			values[k] = str
			continue
		}
		var compact bytes.Buffer
		if err := json.Compact(&compact, raw); err != nil {
			return 0, ErrInvalidImport
		}
		values[k] = compact.String()
	}

	store := s.backend.For(userID)
	n := 0
	for k, v := range values {
		if err := store.Set(ctx, k, v); err != nil {
			return n, fmt.Errorf("import %s: %w", k, err)
		}
		n++
	}

	logger.Ctx(ctx).Info().Str("user_id", userID).Int("keys", n).Msg("user data imported")
	return n, nil
}

// Erase deletes every key the user owns.
func (s *Service) Erase(ctx context.Context, userID string) error {
	store := s.backend.For(userID)
	keys, err := store.Keys(ctx)
	if err != nil {
		return err
	}
	for _, k := range keys {
		if err := store.Delete(ctx, k); err != nil {
			return fmt.Errorf("erase %s: %w", k, err)
		}
	}
	return nil
}
