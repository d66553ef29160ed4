package events

import "time"

// Conversation lifecycle event codes.
const (
	TypeConversationStarted   = "CONVERSATION_STARTED"
	TypeConversationSuspended = "CONVERSATION_SUSPENDED"
	TypeConversationFinalized = "CONVERSATION_FINALIZED"
	TypeFeedbackReceived      = "FEEDBACK_RECEIVED"
)

// ConversationEvent captures one lifecycle transition of a chat session.
type ConversationEvent struct {
	Type       string
	SessionID  string
	CompanyID  string
	UserID     string
	Round      int
	OccurredAt time.Time
}

func (e ConversationEvent) EventType() string {
	return e.Type
}

func (e ConversationEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"session_id":  e.SessionID,
		"company_id":  e.CompanyID,
		"user_id":     e.UserID,
		"round":       e.Round,
		"occurred_at": e.OccurredAt,
	}
}

func (e ConversationEvent) Timestamp() time.Time {
	return e.OccurredAt
}
