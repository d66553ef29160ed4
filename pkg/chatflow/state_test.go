package chatflow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConversationStateSeedsHistoryAndQuery(t *testing.T) {
	state := newState("where is my order?")

	require.Len(t, state.ConversationHistory, 1)
	assert.Equal(t, "user", state.ConversationHistory[0].Role)
	assert.Equal(t, "where is my order?", state.ConversationHistory[0].Content)
	assert.Equal(t, "where is my order?", state.CurrentQuery)
	assert.Equal(t, 0, state.FeedbackRounds)
	assert.NotNil(t, state.GeneratedResponses)
	assert.NotNil(t, state.HumanFeedback)
}

func TestApplyRetrievalOverwrites(t *testing.T) {
	state := newState("q")
	state.ApplyRetrieval("first context")
	state.ApplyRetrieval("second context")
	assert.Equal(t, "second context", state.RetrievedContext)
}

func TestAppendFeedbackAccumulatesDuplicates(t *testing.T) {
	state := newState("q")
	state.AppendFeedback("too long")
	state.AppendFeedback("too long")
	assert.Equal(t, []string{"too long", "too long"}, state.HumanFeedback)
	assert.Equal(t, "too long", state.CurrentQuery)
}

func TestSignaledDone(t *testing.T) {
	state := newState("q")
	assert.False(t, state.SignaledDone(), "no feedback yet")

	state.AppendFeedback("not yet")
	assert.False(t, state.SignaledDone())

	state.AppendFeedback("  Done\n")
	assert.True(t, state.SignaledDone())

	state.AppendFeedback("done, but add a summary")
	assert.False(t, state.SignaledDone(), "done must match the whole entry")
}

func TestCloneIsIndependent(t *testing.T) {
	state := newState("q")
	state.ApplyGeneration("reply one")
	state.AppendFeedback("feedback one")

	cp := state.Clone()
	cp.ApplyGeneration("reply two")
	cp.AppendFeedback("feedback two")
	cp.ApplyRetrieval("other context")

	assert.Equal(t, []string{"reply one"}, state.GeneratedResponses)
	assert.Equal(t, []string{"feedback one"}, state.HumanFeedback)
	assert.Equal(t, 1, state.FeedbackRounds)
	assert.Len(t, state.ConversationHistory, 2)
	assert.Equal(t, 2, cp.FeedbackRounds)
}

func TestLatestAccessors(t *testing.T) {
	state := newState("q")
	assert.Empty(t, state.LatestReply())
	assert.Empty(t, state.LatestFeedback())

	state.ApplyGeneration("a")
	state.ApplyGeneration("b")
	state.AppendFeedback("x")
	state.AppendFeedback("y")

	assert.Equal(t, "b", state.LatestReply())
	assert.Equal(t, "y", state.LatestFeedback())
}
