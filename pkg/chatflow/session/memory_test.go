package session_test

import (
	"context"
	"testing"
	"time"

	"ai-assistant-be/pkg/chatflow"
	"ai-assistant-be/pkg/chatflow/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleState(id string) *chatflow.ConversationState {
	return chatflow.NewConversationState(
		id,
		"first question",
		"",
		chatflow.TenantContext{CompanyName: "Acme"},
		chatflow.RoutingContext{CompanyID: "acme", UserID: "u1", DataPartition: "live"},
	)
}

func TestMemoryStorePutGetRoundtrip(t *testing.T) {
	s := session.NewMemoryStore(time.Minute)
	ctx := context.Background()

	state := sampleState("h1")
	state.ApplyGeneration("a reply")
	require.NoError(t, s.Put(ctx, "h1", state))

	got, err := s.Get(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, state, got)
}

func TestMemoryStoreGetUnknownHandle(t *testing.T) {
	s := session.NewMemoryStore(time.Minute)
	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestMemoryStoreGetReturnsSnapshot(t *testing.T) {
	s := session.NewMemoryStore(time.Minute)
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "h1", sampleState("h1")))

	first, err := s.Get(ctx, "h1")
	require.NoError(t, err)

	// Mutating a snapshot must not leak into the stored state.
	first.ApplyGeneration("speculative reply")
	first.AppendFeedback("speculative feedback")

	second, err := s.Get(ctx, "h1")
	require.NoError(t, err)
	assert.Empty(t, second.GeneratedResponses)
	assert.Empty(t, second.HumanFeedback)
	assert.Equal(t, 0, second.FeedbackRounds)
}

func TestMemoryStorePutOverwrites(t *testing.T) {
	s := session.NewMemoryStore(time.Minute)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "h1", sampleState("h1")))

	updated := sampleState("h1")
	updated.ApplyGeneration("round one reply")
	require.NoError(t, s.Put(ctx, "h1", updated))

	got, err := s.Get(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, []string{"round one reply"}, got.GeneratedResponses)
}

func TestMemoryStoreRemove(t *testing.T) {
	s := session.NewMemoryStore(time.Minute)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "h1", sampleState("h1")))
	require.NoError(t, s.Remove(ctx, "h1"))

	_, err := s.Get(ctx, "h1")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	// Removing an absent handle is a no-op.
	assert.NoError(t, s.Remove(ctx, "h1"))
}

func TestMemoryStoreExpiry(t *testing.T) {
	s := session.NewMemoryStore(20 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "h1", sampleState("h1")))
	time.Sleep(50 * time.Millisecond)

	_, err := s.Get(ctx, "h1")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestMemoryStoreLockIsStablePerHandle(t *testing.T) {
	s := session.NewMemoryStore(time.Minute)

	assert.Same(t, s.Lock("h1"), s.Lock("h1"))
	assert.NotSame(t, s.Lock("h1"), s.Lock("h2"))
}
