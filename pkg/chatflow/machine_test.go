package chatflow_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"testing"

	"ai-assistant-be/pkg/chatflow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAggregator struct {
	context string
	calls   int
	queries []string
}

func (s *stubAggregator) Aggregate(_ context.Context, query string, _ chatflow.RoutingContext) string {
	s.calls++
	s.queries = append(s.queries, query)
	return s.context
}

type stubGenerator struct {
	replies []string
	err     error
	calls   int
}

func (s *stubGenerator) Generate(_ context.Context, _ *chatflow.ConversationState) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	if len(s.replies) > 0 {
		reply := s.replies[0]
		s.replies = s.replies[1:]
		return reply, nil
	}
	return fmt.Sprintf("reply %d", s.calls), nil
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func newState(message string) *chatflow.ConversationState {
	return chatflow.NewConversationState(
		"sess-1",
		message,
		"be brief",
		chatflow.TenantContext{CompanyName: "Acme"},
		chatflow.RoutingContext{CompanyID: "acme", UserID: "u1", DataPartition: "live"},
	)
}

func TestRunFirstPassSuspends(t *testing.T) {
	agg := &stubAggregator{context: "Main Context: docs"}
	gen := &stubGenerator{replies: []string{"hello there"}}
	flow := chatflow.NewFlow(agg, gen, 3, discardLogger())

	state := newState("how do I reset my password?")
	result, err := flow.Run(context.Background(), state)
	require.NoError(t, err)

	require.Equal(t, chatflow.StepSuspended, result.Kind)
	require.NotNil(t, result.Suspension)
	assert.Nil(t, result.Final)
	assert.Equal(t, "hello there", result.Suspension.Reply)
	assert.Equal(t, "Provide feedback or type 'done' (feedback round 1/3)", result.Suspension.Prompt)

	assert.Equal(t, 1, state.FeedbackRounds)
	assert.Equal(t, "Main Context: docs", state.RetrievedContext)
	assert.Equal(t, []string{"hello there"}, state.GeneratedResponses)
	require.Len(t, state.ConversationHistory, 2)
	assert.Equal(t, "assistant", state.ConversationHistory[1].Role)
}

func TestRunFinalizesOnDoneSignal(t *testing.T) {
	flow := chatflow.NewFlow(&stubAggregator{}, &stubGenerator{}, 3, discardLogger())
	state := newState("question")

	_, err := flow.Run(context.Background(), state)
	require.NoError(t, err)

	state.AppendFeedback("  DONE ")
	result, err := flow.Run(context.Background(), state)
	require.NoError(t, err)

	require.Equal(t, chatflow.StepFinalized, result.Kind)
	require.NotNil(t, result.Final)
	assert.Nil(t, result.Suspension)
	assert.Equal(t, 2, result.Final.FeedbackRounds)
	assert.Equal(t, []string{"  DONE "}, result.Final.FeedbackHistory)
	assert.Equal(t, state.LatestReply(), result.Final.FinalResponse)
}

func TestRunFinalizesWhenRoundBudgetExhausted(t *testing.T) {
	flow := chatflow.NewFlow(&stubAggregator{}, &stubGenerator{}, 3, discardLogger())
	state := newState("question")

	for round := 1; round <= 2; round++ {
		result, err := flow.Run(context.Background(), state)
		require.NoError(t, err)
		require.Equal(t, chatflow.StepSuspended, result.Kind, "round %d must suspend", round)
		assert.Equal(t,
			fmt.Sprintf("Provide feedback or type 'done' (feedback round %d/3)", round),
			result.Suspension.Prompt)
		state.AppendFeedback(fmt.Sprintf("make it shorter (%d)", round))
	}

	result, err := flow.Run(context.Background(), state)
	require.NoError(t, err)
	require.Equal(t, chatflow.StepFinalized, result.Kind)
	assert.Equal(t, 3, result.Final.FeedbackRounds)
	assert.Len(t, result.Final.FeedbackHistory, 2)
}

func TestRunTerminatesWithUncooperativeFeedback(t *testing.T) {
	// A user who never says done still terminates in at most maxRounds passes.
	maxRounds := 5
	flow := chatflow.NewFlow(&stubAggregator{}, &stubGenerator{}, maxRounds, discardLogger())
	state := newState("question")

	passes := 0
	for {
		passes++
		require.LessOrEqual(t, passes, maxRounds, "flow must finalize within the round budget")
		result, err := flow.Run(context.Background(), state)
		require.NoError(t, err)
		if result.Kind == chatflow.StepFinalized {
			break
		}
		state.AppendFeedback("still not happy")
	}
	assert.Equal(t, maxRounds, passes)
}

func TestRunResumesWithFeedbackAsQuery(t *testing.T) {
	agg := &stubAggregator{context: "ctx"}
	flow := chatflow.NewFlow(agg, &stubGenerator{}, 3, discardLogger())
	state := newState("initial question")

	_, err := flow.Run(context.Background(), state)
	require.NoError(t, err)

	state.AppendFeedback("focus on pricing")
	_, err = flow.Run(context.Background(), state)
	require.NoError(t, err)

	require.Equal(t, []string{"initial question", "focus on pricing"}, agg.queries)
}

func TestRunGenerateFailurePropagates(t *testing.T) {
	genErr := errors.New("endpoint unreachable")
	flow := chatflow.NewFlow(&stubAggregator{}, &stubGenerator{err: genErr}, 3, discardLogger())
	state := newState("question")

	result, err := flow.Run(context.Background(), state)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, genErr)

	// The failed pass must not count a round or record a reply.
	assert.Equal(t, 0, state.FeedbackRounds)
	assert.Empty(t, state.GeneratedResponses)
}

func TestRunDoneOnlyChecksLatestFeedback(t *testing.T) {
	flow := chatflow.NewFlow(&stubAggregator{}, &stubGenerator{}, 5, discardLogger())
	state := newState("question")

	_, err := flow.Run(context.Background(), state)
	require.NoError(t, err)

	// "done" buried in history does not finalize once newer feedback arrived.
	state.AppendFeedback("done")
	state.HumanFeedback = append(state.HumanFeedback, "actually, one more thing")
	state.CurrentQuery = "actually, one more thing"

	result, err := flow.Run(context.Background(), state)
	require.NoError(t, err)
	assert.Equal(t, chatflow.StepSuspended, result.Kind)
}

func TestNewFlowDefaultsRoundBudget(t *testing.T) {
	flow := chatflow.NewFlow(&stubAggregator{}, &stubGenerator{}, 0, discardLogger())
	assert.Equal(t, chatflow.DefaultMaxRounds, flow.MaxRounds())
}
