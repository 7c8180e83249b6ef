package state

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"
)

func TestInMemoryCheckpointStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewInMemoryCheckpointStore()
	conv, err := NewConversation("t1", time.Now())
	if err != nil {
		t.Fatalf("NewConversation() error = %v", err)
	}
	conv.Append(schema.UserMessage("hi"))

	cp := &Checkpoint{ThreadID: "t1", Node: "human_input", Paused: true, State: conv}
	if err := store.Put(context.Background(), cp); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := store.Get(context.Background(), "t1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Node != "human_input" || !got.Paused {
		t.Fatalf("unexpected checkpoint: node=%q paused=%v", got.Node, got.Paused)
	}
	if len(got.State.Messages) != 1 || got.State.Messages[0].Content != "hi" {
		t.Fatalf("unexpected state messages: %#v", got.State.Messages)
	}
}

func TestInMemoryCheckpointStoreSnapshotIsolation(t *testing.T) {
	t.Parallel()

	store := NewInMemoryCheckpointStore()
	conv, err := NewConversation("t1", time.Now())
	if err != nil {
		t.Fatalf("NewConversation() error = %v", err)
	}

	if err := store.Put(context.Background(), &Checkpoint{ThreadID: "t1", Node: "supervisor", State: conv}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	// Mutating the live conversation must not leak into the snapshot.
	conv.Append(schema.UserMessage("after save"))

	got, err := store.Get(context.Background(), "t1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(got.State.Messages) != 0 {
		t.Fatalf("snapshot picked up %d messages written after Put", len(got.State.Messages))
	}
}

func TestInMemoryCheckpointStoreNotFound(t *testing.T) {
	t.Parallel()

	store := NewInMemoryCheckpointStore()
	_, err := store.Get(context.Background(), "missing")
	if !errors.Is(err, ErrCheckpointNotFound) {
		t.Fatalf("Get() error = %v, want ErrCheckpointNotFound", err)
	}
}

func TestInMemoryMemoryStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewInMemoryMemoryStore()

	_, err := store.Get(context.Background(), "1")
	if !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("Get() error = %v, want ErrProfileNotFound", err)
	}

	put := MemoryProfile{CustomerID: "1", MusicPreferences: []string{"Rock"}}
	if err := store.Put(context.Background(), put); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := store.Get(context.Background(), "1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	// Returned slice is a copy; mutating it must not affect the store.
	got.MusicPreferences[0] = "Polka"
	again, err := store.Get(context.Background(), "1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if again.MusicPreferences[0] != "Rock" {
		t.Fatalf("stored profile mutated through returned slice: %#v", again.MusicPreferences)
	}
}

func TestInMemoryMemoryStoreRejectsEmptyCustomer(t *testing.T) {
	t.Parallel()

	store := NewInMemoryMemoryStore()
	if err := store.Put(context.Background(), MemoryProfile{}); !errors.Is(err, ErrInvalidCustomer) {
		t.Fatalf("Put() error = %v, want ErrInvalidCustomer", err)
	}
}
