package core

import (
	"context"
	"encoding/json"
	"fmt"
)

// StateStore persists per-conversation property bags. Implementations must be
// safe for concurrent use across conversations; per-key atomicity of Save is
// the only concurrency primitive the core requires.
type StateStore interface {
	// Load returns the stored property bag for a conversation. A conversation
	// that has never been saved yields an empty (possibly nil) map, not an
	// error.
	Load(ctx context.Context, conversationID string) (map[string][]byte, error)

	// Save merges the given properties into the conversation's stored bag
	// atomically with respect to that conversation.
	Save(ctx context.Context, conversationID string, props map[string][]byte) error
}

// ConversationState is the per-turn staging layer over a StateStore. Reads
// load the stored bag lazily; writes accumulate in a staged buffer that
// becomes durable only on SaveChanges. A mutation that is never committed is
// lost when the turn ends.
type ConversationState struct {
	store          StateStore
	conversationID string
	loaded         map[string][]byte
	haveLoaded     bool
	staged         map[string][]byte
}

// NewConversationState binds a staging layer to one conversation. No I/O
// happens until the first property read or SaveChanges.
func NewConversationState(store StateStore, conversationID string) *ConversationState {
	return &ConversationState{
		store:          store,
		conversationID: conversationID,
		staged:         map[string][]byte{},
	}
}

// ConversationID returns the conversation this state is bound to.
func (s *ConversationState) ConversationID() string { return s.conversationID }

func (s *ConversationState) ensureLoaded(ctx context.Context) error {
	if s.haveLoaded {
		return nil
	}
	props, err := s.store.Load(ctx, s.conversationID)
	if err != nil {
		return fmt.Errorf("load state for conversation %s: %w", s.conversationID, err)
	}
	if props == nil {
		props = map[string][]byte{}
	}
	s.loaded = props
	s.haveLoaded = true
	return nil
}

// getProperty returns a staged value if present, else the persisted value.
func (s *ConversationState) getProperty(ctx context.Context, name string) ([]byte, bool, error) {
	if data, ok := s.staged[name]; ok {
		return data, true, nil
	}
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, false, err
	}
	data, ok := s.loaded[name]
	return data, ok, nil
}

// setProperty stages a property mutation. It is not durable until SaveChanges.
func (s *ConversationState) setProperty(name string, data []byte) {
	s.staged[name] = data
}

// HasPendingChanges reports whether any staged mutation awaits SaveChanges.
func (s *ConversationState) HasPendingChanges() bool { return len(s.staged) > 0 }

// SaveChanges commits all staged properties to the store, then clears the
// staging buffer. A persistence failure propagates so the turn fails
// observably instead of silently desynchronizing in-memory and durable state.
func (s *ConversationState) SaveChanges(ctx context.Context) error {
	if len(s.staged) == 0 {
		return nil
	}
	if err := s.store.Save(ctx, s.conversationID, s.staged); err != nil {
		return fmt.Errorf("save state for conversation %s: %w", s.conversationID, err)
	}
	if s.haveLoaded {
		for k, v := range s.staged {
			s.loaded[k] = v
		}
	}
	s.staged = map[string][]byte{}
	return nil
}

// PropertyAccessor is a typed read/modify/write wrapper bound to one named
// conversation property. Get constructs a default via the factory on miss
// without persisting it; the default becomes durable only after an explicit
// Set followed by SaveChanges.
type PropertyAccessor[T any] struct {
	name    string
	factory func() *T
}

// NewPropertyAccessor creates an accessor for the named property. A nil
// factory defaults to the zero value of T.
func NewPropertyAccessor[T any](name string, factory func() *T) *PropertyAccessor[T] {
	if factory == nil {
		factory = func() *T { return new(T) }
	}
	return &PropertyAccessor[T]{name: name, factory: factory}
}

// Name returns the property name this accessor is bound to.
func (a *PropertyAccessor[T]) Name() string { return a.name }

// Get returns the stored value or a fresh factory default on miss.
func (a *PropertyAccessor[T]) Get(tc *TurnContext) (*T, error) {
	data, ok, err := tc.State.getProperty(tc.Context, a.name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return a.factory(), nil
	}
	v := new(T)
	if err := json.Unmarshal(data, v); err != nil {
		return nil, fmt.Errorf("decode property %s: %w", a.name, err)
	}
	return v, nil
}

// Set stages the value for persistence. Durable only after SaveChanges.
func (a *PropertyAccessor[T]) Set(tc *TurnContext, v *T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode property %s: %w", a.name, err)
	}
	tc.State.setProperty(a.name, data)
	return nil
}
