package service_test

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/service"
	"ai-assistant-be/pkg/chatflow"
	"ai-assistant-be/pkg/chatflow/session"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Debug(string, string, map[string]interface{}) {}
func (noopLogger) Info(string, string, map[string]interface{})  {}
func (noopLogger) Warn(string, string, map[string]interface{})  {}
func (noopLogger) Error(string, string, map[string]interface{}) {}
func (noopLogger) Sync() error                                  { return nil }

type fixedAggregator struct{}

func (fixedAggregator) Aggregate(context.Context, string, chatflow.RoutingContext) string {
	return "Main Context: seeded"
}

type scriptedGenerator struct {
	calls    int
	failOn   int // 1-based call index that errors; 0 means never
	lastSeen *chatflow.ConversationState
}

func (g *scriptedGenerator) Generate(_ context.Context, state *chatflow.ConversationState) (string, error) {
	g.calls++
	g.lastSeen = state
	if g.failOn != 0 && g.calls == g.failOn {
		return "", errors.New("model endpoint down")
	}
	return "generated reply", nil
}

func newChatService(gen *scriptedGenerator, maxRounds int) service.IChatService {
	flow := chatflow.NewFlow(fixedAggregator{}, gen, maxRounds, log.New(io.Discard, "", 0))
	store := session.NewMemoryStore(time.Minute)
	return service.NewChatService(flow, store, nil, noopLogger{})
}

func startRequest() *dto.StartChatRequest {
	return &dto.StartChatRequest{
		Message:       "how do I reset my password?",
		CompanyId:     "acme",
		UserId:        "u1",
		DataPartition: "live",
		CompanyName:   "Acme",
	}
}

func TestStartSuspendsWithHandle(t *testing.T) {
	svc := newChatService(&scriptedGenerator{}, 3)

	res, err := svc.Start(context.Background(), startRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, res.SessionId)
	assert.True(t, res.RequiresFeedback)
	assert.Equal(t, "generated reply", res.Reply)
	assert.Equal(t, "Provide feedback or type 'done' (feedback round 1/3)", res.Message)
	assert.Nil(t, res.Result)
}

func TestStartRejectsUnknownPartition(t *testing.T) {
	svc := newChatService(&scriptedGenerator{}, 3)

	req := startRequest()
	req.DataPartition = "archive"
	_, err := svc.Start(context.Background(), req)

	var fiberErr *fiber.Error
	require.ErrorAs(t, err, &fiberErr)
	assert.Equal(t, fiber.StatusBadRequest, fiberErr.Code)
}

func TestFeedbackOnUnknownSession(t *testing.T) {
	svc := newChatService(&scriptedGenerator{}, 3)

	_, err := svc.SubmitFeedback(context.Background(), &dto.ChatFeedbackRequest{
		SessionId: "never-issued",
		Feedback:  "anything",
	})
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	_, err = svc.ContinueMessage(context.Background(), &dto.ChatMessageRequest{
		SessionId: "never-issued",
		Message:   "anything",
	})
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestDoneFinalizesAndEvicts(t *testing.T) {
	svc := newChatService(&scriptedGenerator{}, 3)
	ctx := context.Background()

	started, err := svc.Start(ctx, startRequest())
	require.NoError(t, err)

	final, err := svc.SubmitFeedback(ctx, &dto.ChatFeedbackRequest{
		SessionId: started.SessionId,
		Feedback:  "done",
	})
	require.NoError(t, err)
	assert.False(t, final.RequiresFeedback)
	require.NotNil(t, final.Result)
	assert.Equal(t, "generated reply", final.Result.FinalResponse)
	assert.Equal(t, 2, final.Result.FeedbackRounds)

	// The final result is delivered exactly once; the handle is gone.
	_, err = svc.SubmitFeedback(ctx, &dto.ChatFeedbackRequest{
		SessionId: started.SessionId,
		Feedback:  "done",
	})
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestRoundBudgetFinalizes(t *testing.T) {
	svc := newChatService(&scriptedGenerator{}, 2)
	ctx := context.Background()

	started, err := svc.Start(ctx, startRequest())
	require.NoError(t, err)
	require.True(t, started.RequiresFeedback)

	final, err := svc.SubmitFeedback(ctx, &dto.ChatFeedbackRequest{
		SessionId: started.SessionId,
		Feedback:  "still not right",
	})
	require.NoError(t, err)
	assert.False(t, final.RequiresFeedback)
	require.NotNil(t, final.Result)
	assert.Equal(t, 2, final.Result.FeedbackRounds)
	assert.Equal(t, []string{"still not right"}, final.Result.FeedbackHistory)
}

func TestContinueMessageKeepsSessionOpen(t *testing.T) {
	gen := &scriptedGenerator{}
	svc := newChatService(gen, 5)
	ctx := context.Background()

	started, err := svc.Start(ctx, startRequest())
	require.NoError(t, err)

	res, err := svc.ContinueMessage(ctx, &dto.ChatMessageRequest{
		SessionId: started.SessionId,
		Message:   "and what about two-factor auth?",
	})
	require.NoError(t, err)
	assert.True(t, res.RequiresFeedback)
	assert.Equal(t, started.SessionId, res.SessionId)

	// The follow-up message became the current query of the next pass.
	require.NotNil(t, gen.lastSeen)
	assert.Equal(t, "and what about two-factor auth?", gen.lastSeen.CurrentQuery)
}

func TestGenerationFailureLeavesStoredStateIntact(t *testing.T) {
	gen := &scriptedGenerator{failOn: 2}
	svc := newChatService(gen, 5)
	ctx := context.Background()

	started, err := svc.Start(ctx, startRequest())
	require.NoError(t, err)

	// Second pass fails at GENERATE; the suspended snapshot must survive.
	_, err = svc.SubmitFeedback(ctx, &dto.ChatFeedbackRequest{
		SessionId: started.SessionId,
		Feedback:  "please expand",
	})
	require.Error(t, err)

	// Retry succeeds against the pre-failure state: still round 2, and the
	// failed pass contributed neither a round nor a duplicate feedback entry.
	res, err := svc.SubmitFeedback(ctx, &dto.ChatFeedbackRequest{
		SessionId: started.SessionId,
		Feedback:  "please expand",
	})
	require.NoError(t, err)
	assert.True(t, res.RequiresFeedback)
	assert.Equal(t, "Provide feedback or type 'done' (feedback round 2/5)", res.Message)
	assert.Equal(t, []string{"please expand"}, gen.lastSeen.HumanFeedback)
}
