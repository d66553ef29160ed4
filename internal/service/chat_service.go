package service

import (
	"context"
	"fmt"
	"time"

	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/pkg/chatflow"
	"ai-assistant-be/pkg/chatflow/session"
	"ai-assistant-be/pkg/events"
	pkgNats "ai-assistant-be/pkg/nats"
	"ai-assistant-be/pkg/store"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatService interface {
	Start(ctx context.Context, req *dto.StartChatRequest) (*dto.ChatStepResponse, error)
	ContinueMessage(ctx context.Context, req *dto.ChatMessageRequest) (*dto.ChatStepResponse, error)
	SubmitFeedback(ctx context.Context, req *dto.ChatFeedbackRequest) (*dto.ChatStepResponse, error)
}

// chatService owns the conversation lifecycle: it creates session handles,
// serializes concurrent calls per handle, drives the flow one pass at a time
// and persists or evicts the snapshot depending on the outcome.
type chatService struct {
	flow     *chatflow.Flow
	sessions session.Store
	natsPub  *pkgNats.Publisher
	logger   logger.ILogger
}

func NewChatService(
	flow *chatflow.Flow,
	sessions session.Store,
	natsPub *pkgNats.Publisher,
	sysLogger logger.ILogger,
) IChatService {
	return &chatService{
		flow:     flow,
		sessions: sessions,
		natsPub:  natsPub,
		logger:   sysLogger,
	}
}

func (s *chatService) Start(ctx context.Context, req *dto.StartChatRequest) (*dto.ChatStepResponse, error) {
	if !store.ValidPartition(req.DataPartition) {
		return nil, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("unknown data partition '%s'", req.DataPartition))
	}

	handle := uuid.NewString()
	state := chatflow.NewConversationState(
		handle,
		req.Message,
		req.CustomInstructions,
		chatflow.TenantContext{
			CompanyName:          req.CompanyName,
			CompanyWebsite:       req.CompanyWebsite,
			AssistantRole:        req.AssistantRole,
			AssistantName:        req.AssistantName,
			MainDomains:          req.MainDomains,
			SubDomains:           req.SubDomains,
			SupportContactEmails: req.SupportContactEmails,
			SupportPhoneNumbers:  req.SupportPhoneNumbers,
			SupportPageURL:       req.SupportPageURL,
			HelpCenterURL:        req.HelpCenterURL,
		},
		chatflow.RoutingContext{
			CompanyID:     req.CompanyId,
			UserID:        req.UserId,
			DataPartition: req.DataPartition,
		},
	)

	s.logger.Info("chat", "session started", map[string]interface{}{
		"session_id": handle,
		"company_id": req.CompanyId,
		"user_id":    req.UserId,
		"partition":  req.DataPartition,
	})
	s.publishEvent(ctx, events.TypeConversationStarted, state)

	mu := s.sessions.Lock(handle)
	mu.Lock()
	defer mu.Unlock()

	return s.runPass(ctx, handle, state)
}

func (s *chatService) ContinueMessage(ctx context.Context, req *dto.ChatMessageRequest) (*dto.ChatStepResponse, error) {
	mu := s.sessions.Lock(req.SessionId)
	mu.Lock()
	defer mu.Unlock()

	state, err := s.sessions.Get(ctx, req.SessionId)
	if err != nil {
		return nil, err
	}

	state.AppendUserMessage(req.Message)
	return s.runPass(ctx, req.SessionId, state)
}

func (s *chatService) SubmitFeedback(ctx context.Context, req *dto.ChatFeedbackRequest) (*dto.ChatStepResponse, error) {
	mu := s.sessions.Lock(req.SessionId)
	mu.Lock()
	defer mu.Unlock()

	state, err := s.sessions.Get(ctx, req.SessionId)
	if err != nil {
		return nil, err
	}

	state.AppendFeedback(req.Feedback)
	s.publishEvent(ctx, events.TypeFeedbackReceived, state)

	return s.runPass(ctx, req.SessionId, state)
}

// runPass drives one flow pass over a working snapshot. On failure nothing is
// written back, so the stored pre-failure state stays valid for a retry. On
// suspension the updated snapshot replaces the stored one; on finalization the
// session is evicted and the final result returned exactly once.
func (s *chatService) runPass(ctx context.Context, handle string, state *chatflow.ConversationState) (*dto.ChatStepResponse, error) {
	result, err := s.flow.Run(ctx, state)
	if err != nil {
		s.logger.Error("chat", "flow pass failed", map[string]interface{}{
			"session_id": handle,
			"error":      err.Error(),
		})
		return nil, err
	}

	if result.Kind == chatflow.StepFinalized {
		if err := s.sessions.Remove(ctx, handle); err != nil {
			s.logger.Warn("chat", "session eviction failed", map[string]interface{}{
				"session_id": handle,
				"error":      err.Error(),
			})
		}
		s.publishEvent(ctx, events.TypeConversationFinalized, state)

		return &dto.ChatStepResponse{
			SessionId:        handle,
			RequiresFeedback: false,
			Result: &dto.ChatFinalResult{
				FinalResponse:   result.Final.FinalResponse,
				FeedbackRounds:  result.Final.FeedbackRounds,
				FeedbackHistory: result.Final.FeedbackHistory,
			},
		}, nil
	}

	if err := s.sessions.Put(ctx, handle, state); err != nil {
		return nil, fmt.Errorf("persist session %s: %w", handle, err)
	}
	s.publishEvent(ctx, events.TypeConversationSuspended, state)

	return &dto.ChatStepResponse{
		SessionId:        handle,
		RequiresFeedback: true,
		Reply:            result.Suspension.Reply,
		Message:          result.Suspension.Prompt,
	}, nil
}

func (s *chatService) publishEvent(ctx context.Context, eventType string, state *chatflow.ConversationState) {
	if s.natsPub == nil {
		return
	}
	err := s.natsPub.Publish(ctx, events.ConversationEvent{
		Type:       eventType,
		SessionID:  state.SessionID,
		CompanyID:  state.Routing.CompanyID,
		UserID:     state.Routing.UserID,
		Round:      state.FeedbackRounds,
		OccurredAt: time.Now(),
	})
	if err != nil {
		s.logger.Warn("chat", "event publish failed", map[string]interface{}{
			"event":      eventType,
			"session_id": state.SessionID,
			"error":      err.Error(),
		})
	}
}
