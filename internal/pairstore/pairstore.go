package pairstore

import (
	"context"
	"sync"
)

// Pair is a user's registered base/target currency pair.
type Pair struct {
	Base   string `json:"base"`
	Target string `json:"target"`
}

// PairStore persists the user-to-pair mapping consumed by the conversational
// layer. Returns nil, nil when the user has no registered pair.
type PairStore interface {
	SetPair(ctx context.Context, userID string, pair Pair) error
	GetPair(ctx context.Context, userID string) (*Pair, error)
	Health(ctx context.Context) error
}

// MemoryStore is the in-process PairStore used when Redis is not configured.
type MemoryStore struct {
	mu    sync.RWMutex
	pairs map[string]Pair
}

// NewMemoryStore creates an empty in-memory pair store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{pairs: make(map[string]Pair)}
}

// SetPair stores the pair for a user, replacing any previous one.
func (s *MemoryStore) SetPair(_ context.Context, userID string, pair Pair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pairs[userID] = pair
	return nil
}

// GetPair returns the user's registered pair, or nil if none.
func (s *MemoryStore) GetPair(_ context.Context, userID string) (*Pair, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pair, ok := s.pairs[userID]
	if !ok {
		return nil, nil
	}
	return &pair, nil
}

// Health always succeeds for the in-memory store.
func (s *MemoryStore) Health(_ context.Context) error {
	return nil
}
