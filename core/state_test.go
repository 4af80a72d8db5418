package core

import (
	"context"
	"errors"
	"testing"

	"github.com/leeroy79/cog-service-bots/logging"
)

// memStore is a minimal StateStore for exercising staging semantics.
type memStore struct {
	data  map[string]map[string][]byte
	saves int
	fail  bool
}

func newMemStore() *memStore {
	return &memStore{data: map[string]map[string][]byte{}}
}

func (m *memStore) Load(_ context.Context, conversationID string) (map[string][]byte, error) {
	if m.fail {
		return nil, errors.New("store unavailable")
	}
	props := map[string][]byte{}
	for k, v := range m.data[conversationID] {
		props[k] = v
	}
	return props, nil
}

func (m *memStore) Save(_ context.Context, conversationID string, props map[string][]byte) error {
	if m.fail {
		return errors.New("store unavailable")
	}
	m.saves++
	bag, ok := m.data[conversationID]
	if !ok {
		bag = map[string][]byte{}
		m.data[conversationID] = bag
	}
	for k, v := range props {
		bag[k] = v
	}
	return nil
}

type counterState struct {
	Count int `json:"count"`
}

func newTurnContext(store StateStore) *TurnContext {
	state := NewConversationState(store, "conv-1")
	return NewTurnContext(context.Background(), "conv-1", NewMessageActivity("hi"), state, logging.NoOpLogger{})
}

func TestPropertyAccessor_DefaultOnMissWithoutPersist(t *testing.T) {
	store := newMemStore()
	tc := newTurnContext(store)
	accessor := NewPropertyAccessor[counterState]("counter", func() *counterState { return &counterState{Count: 7} })

	v, err := accessor.Get(tc)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v.Count != 7 {
		t.Fatalf("expected factory default, got %+v", v)
	}
	if store.saves != 0 {
		t.Error("default construction must not write to the store")
	}
	if err := tc.SaveChanges(); err != nil {
		t.Fatalf("SaveChanges: %v", err)
	}
	if store.saves != 0 {
		t.Error("SaveChanges with no staged mutations must not write")
	}
}

func TestPropertyAccessor_SetVisibleInTurnButNotDurableUntilSave(t *testing.T) {
	store := newMemStore()
	tc := newTurnContext(store)
	accessor := NewPropertyAccessor[counterState]("counter", nil)

	if err := accessor.Set(tc, &counterState{Count: 3}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// Staged value is visible within the same turn.
	v, err := accessor.Get(tc)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v.Count != 3 {
		t.Fatalf("staged value not visible, got %+v", v)
	}
	if store.saves != 0 {
		t.Error("Set alone must not be durable")
	}

	if err := tc.SaveChanges(); err != nil {
		t.Fatalf("SaveChanges: %v", err)
	}
	if store.saves != 1 {
		t.Fatalf("expected one durable write, got %d", store.saves)
	}

	// A later turn observes the committed value.
	next := newTurnContext(store)
	v2, err := accessor.Get(next)
	if err != nil {
		t.Fatalf("Get on next turn: %v", err)
	}
	if v2.Count != 3 {
		t.Fatalf("committed value lost across turns, got %+v", v2)
	}
}

func TestPropertyAccessor_UncommittedMutationIsLost(t *testing.T) {
	store := newMemStore()
	tc := newTurnContext(store)
	accessor := NewPropertyAccessor[counterState]("counter", nil)

	if err := accessor.Set(tc, &counterState{Count: 9}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	// No SaveChanges: the next turn sees the default again.
	next := newTurnContext(store)
	v, err := accessor.Get(next)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v.Count != 0 {
		t.Fatalf("uncommitted mutation leaked across turns: %+v", v)
	}
}

func TestConversationState_SaveFailurePropagates(t *testing.T) {
	store := newMemStore()
	tc := newTurnContext(store)
	accessor := NewPropertyAccessor[counterState]("counter", nil)

	if err := accessor.Set(tc, &counterState{Count: 1}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	store.fail = true
	if err := tc.SaveChanges(); err == nil {
		t.Fatal("expected persistence failure to propagate")
	}
}
