package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"ai-assistant-be/pkg/chatflow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (h *handleLocks) size() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.locks)
}

// Entry points take the per-handle lock before loading the session, so a
// forged or stale handle reaches Get with a lock entry already inserted.
// The miss must reclaim it or the map grows without bound.
func TestMemoryStoreGetMissReclaimsLockEntry(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		handle := fmt.Sprintf("forged-%d", i)
		mu := s.Lock(handle)
		mu.Lock()
		_, err := s.Get(ctx, handle)
		mu.Unlock()
		require.ErrorIs(t, err, ErrSessionNotFound)
	}

	assert.Equal(t, 0, s.locks.size())
}

func TestMemoryStoreExpiryReclaimsLockEntry(t *testing.T) {
	s := NewMemoryStore(20 * time.Millisecond)
	ctx := context.Background()

	state := chatflow.NewConversationState(
		"h1",
		"first question",
		"",
		chatflow.TenantContext{CompanyName: "Acme"},
		chatflow.RoutingContext{CompanyID: "acme", UserID: "u1", DataPartition: "live"},
	)
	require.NoError(t, s.Put(ctx, "h1", state))
	s.Lock("h1")
	require.Equal(t, 1, s.locks.size())

	// The cache janitor runs at half the TTL and fires the eviction hook.
	assert.Eventually(t, func() bool { return s.locks.size() == 0 },
		time.Second, 10*time.Millisecond)
}

func TestMemoryStoreLiveSessionKeepsLockEntry(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	ctx := context.Background()

	state := chatflow.NewConversationState(
		"h1",
		"first question",
		"",
		chatflow.TenantContext{CompanyName: "Acme"},
		chatflow.RoutingContext{CompanyID: "acme", UserID: "u1", DataPartition: "live"},
	)
	require.NoError(t, s.Put(ctx, "h1", state))

	before := s.Lock("h1")
	_, err := s.Get(ctx, "h1")
	require.NoError(t, err)

	assert.Same(t, before, s.Lock("h1"))
}
