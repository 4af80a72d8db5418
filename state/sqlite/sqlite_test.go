package sqlite

import (
	"context"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_LoadMissIsEmpty(t *testing.T) {
	store := newTestStore(t)

	props, err := store.Load(context.Background(), "never-seen")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(props) != 0 {
		t.Fatalf("expected empty bag, got %v", props)
	}
}

func TestStore_SaveUpsertsAndMerges(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.Save(ctx, "c1", map[string][]byte{"game": []byte(`{"n":1}`), "face": []byte(`{}`)}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save(ctx, "c1", map[string][]byte{"game": []byte(`{"n":2}`)}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	props, err := store.Load(ctx, "c1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(props["game"]) != `{"n":2}` {
		t.Fatalf("upsert wrong: %s", props["game"])
	}
	if string(props["face"]) != `{}` {
		t.Fatalf("untouched property lost: %v", props)
	}
}

func TestStore_ConversationsAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_ = store.Save(ctx, "c1", map[string][]byte{"a": []byte(`1`)})
	props, err := store.Load(ctx, "c2")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(props) != 0 {
		t.Fatalf("conversations must not share state: %v", props)
	}
}

func TestStore_SaveEmptyBagIsNoOp(t *testing.T) {
	store := newTestStore(t)
	if err := store.Save(context.Background(), "c1", nil); err != nil {
		t.Fatalf("Save: %v", err)
	}
}
