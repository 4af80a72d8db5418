package state

import (
	"context"
	"testing"
)

func TestInMemoryStore_LoadMissIsEmptyNotError(t *testing.T) {
	store := NewInMemoryStore()
	props, err := store.Load(context.Background(), "never-seen")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(props) != 0 {
		t.Fatalf("expected empty bag, got %v", props)
	}
}

func TestInMemoryStore_SaveMergesPerProperty(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	if err := store.Save(ctx, "c1", map[string][]byte{"a": []byte(`1`), "b": []byte(`2`)}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save(ctx, "c1", map[string][]byte{"b": []byte(`3`)}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	props, err := store.Load(ctx, "c1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(props["a"]) != "1" || string(props["b"]) != "3" {
		t.Fatalf("merge wrong: %v", props)
	}
}

func TestInMemoryStore_CopiesOnReadAndWrite(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	in := map[string][]byte{"a": []byte(`1`)}
	if err := store.Save(ctx, "c1", in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	in["a"][0] = 'X'

	props, _ := store.Load(ctx, "c1")
	if string(props["a"]) != "1" {
		t.Error("store must copy values on write")
	}
	props["a"][0] = 'Y'

	again, _ := store.Load(ctx, "c1")
	if string(again["a"]) != "1" {
		t.Error("store must copy values on read")
	}
}

func TestInMemoryStore_ConversationsAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	_ = store.Save(ctx, "c1", map[string][]byte{"a": []byte(`1`)})
	props, _ := store.Load(ctx, "c2")
	if len(props) != 0 {
		t.Fatalf("conversations must not share state: %v", props)
	}
}
