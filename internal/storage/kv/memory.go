package kv

import (
	"context"
	"sort"
	"sync"
)

type MemoryBackend struct {
	mu    sync.RWMutex
	users map[string]map[string]string
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{users: make(map[string]map[string]string)}
}

func (b *MemoryBackend) For(userID string) Store {
	return &memoryStore{backend: b, userID: userID}
}

func (b *MemoryBackend) Users(_ context.Context) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]string, 0, len(b.users))
	for uid := range b.users {
		out = append(out, uid)
	}
	sort.Strings(out)
	return out, nil
}

func (b *MemoryBackend) Close() error { return nil }

type memoryStore struct {
	backend *MemoryBackend
	userID  string
}

func (s *memoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.backend.mu.RLock()
	defer s.backend.mu.RUnlock()

	v, ok := s.backend.users[s.userID][key]
	return v, ok, nil
}

func (s *memoryStore) Set(_ context.Context, key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()

	m, ok := s.backend.users[s.userID]
	if !ok {
		m = make(map[string]string)
		s.backend.users[s.userID] = m
	}
	m[key] = value
	return nil
}

func (s *memoryStore) Delete(_ context.Context, key string) error {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()

	delete(s.backend.users[s.userID], key)
	return nil
}

func (s *memoryStore) Keys(_ context.Context) ([]string, error) {
	s.backend.mu.RLock()
	defer s.backend.mu.RUnlock()

	m := s.backend.users[s.userID]
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out, nil
}
