// Package state provides StateStore implementations for per-conversation
// property persistence.
package state

import (
	"context"
	"sync"
)

// InMemoryStore is a volatile StateStore keeping property bags in a process
// local map. It is safe for concurrent access and best suited for tests or
// ephemeral demo setups. Property bags are copied on the way in and out so
// callers can never mutate internal state.
type InMemoryStore struct {
	mu            sync.RWMutex
	conversations map[string]map[string][]byte
}

// NewInMemoryStore constructs an empty in-memory state store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{conversations: make(map[string]map[string][]byte)}
}

// Load returns a copy of the conversation's property bag, empty on first use.
func (s *InMemoryStore) Load(_ context.Context, conversationID string) (map[string][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	props := map[string][]byte{}
	for k, v := range s.conversations[conversationID] {
		data := make([]byte, len(v))
		copy(data, v)
		props[k] = data
	}
	return props, nil
}

// Save merges the given properties into the stored bag for the conversation.
func (s *InMemoryStore) Save(_ context.Context, conversationID string, props map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	bag, ok := s.conversations[conversationID]
	if !ok {
		bag = map[string][]byte{}
		s.conversations[conversationID] = bag
	}
	for k, v := range props {
		data := make([]byte, len(v))
		copy(data, v)
		bag[k] = data
	}
	return nil
}
