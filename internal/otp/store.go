package otp

import (
	"context"
	"sync"
	"time"
)

// Store persists at most one live code per purpose and email. Put replaces
// any prior unconsumed code (latest code wins).
type Store interface {
	Put(ctx context.Context, purpose Purpose, code Code, ttl time.Duration) error
	Get(ctx context.Context, purpose Purpose, email string) (*Code, error)
	Delete(ctx context.Context, purpose Purpose, email string) error
}

// MemoryStore is an in-process Store used by tests and DSN-less dev runs.
type MemoryStore struct {
	mu    sync.Mutex
	codes map[string]Code
}

// NewMemoryStore builds an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{codes: make(map[string]Code)}
}

func (s *MemoryStore) Put(_ context.Context, purpose Purpose, code Code, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[string(purpose)+":"+code.Email] = code
	return nil
}

func (s *MemoryStore) Get(_ context.Context, purpose Purpose, email string) (*Code, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	code, ok := s.codes[string(purpose)+":"+email]
	if !ok {
		return nil, ErrNoCode
	}
	return &code, nil
}

func (s *MemoryStore) Delete(_ context.Context, purpose Purpose, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, string(purpose)+":"+email)
	return nil
}
