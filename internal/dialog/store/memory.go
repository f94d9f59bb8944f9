package store

import (
	"context"
	"sync"

	"github.com/dataground/geochat/server/internal/dialog/model"
)

// MemoryStore keeps dialog state in process memory. Loss on restart is
// accepted; durability belongs to the Redis-backed store.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
}

type memoryEntry struct {
	mu    sync.Mutex
	state *model.ConversationState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*memoryEntry)}
}

func (s *MemoryStore) entry(userID string) *memoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[userID]
	if !ok {
		e = &memoryEntry{state: model.NewConversationState()}
		s.entries[userID] = e
	}
	return e
}

func (s *MemoryStore) Mutate(_ context.Context, userID string, fn func(*model.ConversationState) error) error {
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.state)
}

func (s *MemoryStore) Get(_ context.Context, userID string) (*model.ConversationState, error) {
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone(), nil
}

var _ StateStore = (*MemoryStore)(nil)
