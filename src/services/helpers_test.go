package services

import (
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// memoryStore is a minimal KVStore for tests.
type memoryStore struct {
	mu      sync.Mutex
	entries map[string]any
}

func newMemoryStore() *memoryStore {
	return &memoryStore{entries: make(map[string]any)}
}

func (s *memoryStore) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, found := s.entries[key]
	return value, found
}

func (s *memoryStore) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
}

func (s *memoryStore) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

func (s *memoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]any)
}

func (s *memoryStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func d(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func day(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}
