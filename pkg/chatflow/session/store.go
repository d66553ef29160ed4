package session

import (
	"context"
	"errors"
	"sync"

	"ai-assistant-be/pkg/chatflow"
)

// ErrSessionNotFound signals an unknown or already-finalized session handle.
// Callers must treat it as a client error, never create state implicitly.
var ErrSessionNotFound = errors.New("session not found")

// Store maps opaque session handles to suspended conversation snapshots.
// It is the sole owner of state between requests: implementations hand out
// snapshots, so a failed pass never corrupts the stored state.
type Store interface {
	// Put inserts or replaces the snapshot for handle unconditionally.
	Put(ctx context.Context, handle string, state *chatflow.ConversationState) error

	// Get returns a snapshot of the stored state or ErrSessionNotFound.
	Get(ctx context.Context, handle string) (*chatflow.ConversationState, error)

	// Remove evicts a session at FINALIZE. Removing an absent handle is a no-op.
	Remove(ctx context.Context, handle string) error

	// Lock returns the per-handle mutex serializing the read-modify-write
	// span of one entry-point call. Overlapping requests for the same handle
	// would otherwise race and lose updates.
	Lock(handle string) *sync.Mutex
}

// handleLocks provides per-handle mutexes shared by the store backings.
type handleLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newHandleLocks() *handleLocks {
	return &handleLocks{locks: make(map[string]*sync.Mutex)}
}

func (h *handleLocks) get(handle string) *sync.Mutex {
	h.mu.Lock()
	defer h.mu.Unlock()
	if l, ok := h.locks[handle]; ok {
		return l
	}
	l := &sync.Mutex{}
	h.locks[handle] = l
	return l
}

func (h *handleLocks) drop(handle string) {
	h.mu.Lock()
	delete(h.locks, handle)
	h.mu.Unlock()
}
