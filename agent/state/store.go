package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

var (
	ErrCheckpointNotFound = errors.New("checkpoint not found")
	ErrProfileNotFound    = errors.New("memory profile not found")
	ErrNilCheckpoint      = errors.New("checkpoint is nil")
	ErrInvalidCustomer    = errors.New("customer id is empty")
)

// Checkpoint is a full snapshot of a thread's conversation plus the node
// the run is paused at. Paused is false for mid-turn and terminal
// snapshots; the executor re-enters at Node only when Paused is true.
type Checkpoint struct {
	ThreadID  string        `json:"thread_id"`
	Node      string        `json:"node"`
	Paused    bool          `json:"paused"`
	State     *Conversation `json:"state"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// CheckpointStore persists one checkpoint per thread. The graph executor
// is the only reader and writer; within a turn there is a single writer
// per thread.
type CheckpointStore interface {
	Get(ctx context.Context, threadID string) (*Checkpoint, error)
	Put(ctx context.Context, cp *Checkpoint) error
}

// MemoryStore persists one MemoryProfile per customer, full replace on
// Put. Concurrent merges for the same customer are last write wins by
// design.
type MemoryStore interface {
	Get(ctx context.Context, customerID string) (MemoryProfile, error)
	Put(ctx context.Context, profile MemoryProfile) error
}

// InMemoryCheckpointStore keeps checkpoints as serialized snapshots so a
// caller can never alias the stored state through a returned pointer.
type InMemoryCheckpointStore struct {
	mu    sync.RWMutex
	items map[string][]byte
}

func NewInMemoryCheckpointStore() *InMemoryCheckpointStore {
	return &InMemoryCheckpointStore{items: make(map[string][]byte)}
}

func (s *InMemoryCheckpointStore) Get(ctx context.Context, threadID string) (*Checkpoint, error) {
	threadID = strings.TrimSpace(threadID)
	if threadID == "" {
		return nil, ErrInvalidThread
	}

	s.mu.RLock()
	raw, ok := s.items[threadID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrCheckpointNotFound
	}

	var cp Checkpoint
	if err := json.Unmarshal(raw, &cp); err != nil {
		return nil, fmt.Errorf("unmarshal checkpoint: %w", err)
	}
	return &cp, nil
}

func (s *InMemoryCheckpointStore) Put(ctx context.Context, cp *Checkpoint) error {
	if cp == nil {
		return ErrNilCheckpoint
	}
	if strings.TrimSpace(cp.ThreadID) == "" {
		return ErrInvalidThread
	}
	if cp.UpdatedAt.IsZero() {
		cp.UpdatedAt = time.Now().UTC()
	}

	raw, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}

	s.mu.Lock()
	s.items[cp.ThreadID] = raw
	s.mu.Unlock()
	return nil
}

// InMemoryMemoryStore is the demo-grade MemoryStore. Same contract as the
// durable variant: full replace per customer id.
type InMemoryMemoryStore struct {
	mu    sync.RWMutex
	items map[string]MemoryProfile
}

func NewInMemoryMemoryStore() *InMemoryMemoryStore {
	return &InMemoryMemoryStore{items: make(map[string]MemoryProfile)}
}

func (s *InMemoryMemoryStore) Get(ctx context.Context, customerID string) (MemoryProfile, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return MemoryProfile{}, ErrInvalidCustomer
	}

	s.mu.RLock()
	profile, ok := s.items[customerID]
	s.mu.RUnlock()
	if !ok {
		return MemoryProfile{}, ErrProfileNotFound
	}

	profile.MusicPreferences = append([]string(nil), profile.MusicPreferences...)
	return profile, nil
}

func (s *InMemoryMemoryStore) Put(ctx context.Context, profile MemoryProfile) error {
	if strings.TrimSpace(profile.CustomerID) == "" {
		return ErrInvalidCustomer
	}

	profile.MusicPreferences = append([]string(nil), profile.MusicPreferences...)
	s.mu.Lock()
	s.items[profile.CustomerID] = profile
	s.mu.Unlock()
	return nil
}
