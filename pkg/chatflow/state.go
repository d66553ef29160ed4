package chatflow

import (
	"strings"

	"ai-assistant-be/pkg/llm"
)

// TenantContext bundles the assistant persona fields for one tenant.
// Set once at session start, never mutated afterwards.
type TenantContext struct {
	CompanyName          string `json:"company_name"`
	CompanyWebsite       string `json:"company_website"`
	AssistantRole        string `json:"assistant_role"`
	AssistantName        string `json:"assistant_name"`
	MainDomains          string `json:"main_domains"`
	SubDomains           string `json:"sub_domains"`
	SupportContactEmails string `json:"support_contact_emails"`
	SupportPhoneNumbers  string `json:"support_phone_numbers"`
	SupportPageURL       string `json:"support_page_url"`
	HelpCenterURL        string `json:"help_center_url"`
}

// RoutingContext scopes every retrieval call of a session.
// Immutable after session start.
type RoutingContext struct {
	CompanyID     string `json:"company_id"`
	UserID        string `json:"user_id"`
	DataPartition string `json:"data_partition"`
}

// ConversationState is the unit of durable state for one chat session.
// It is mutated only through the Apply*/Append*/Set* methods below, which
// encode one deterministic merge rule per field (append vs overwrite) instead
// of inferring the rule from runtime value shapes.
type ConversationState struct {
	SessionID           string         `json:"session_id"`
	ConversationHistory []llm.Message  `json:"conversation_history"`
	RetrievedContext    string         `json:"retrieved_context"`
	GeneratedResponses  []string       `json:"generated_responses"`
	HumanFeedback       []string       `json:"human_feedback"`
	FeedbackRounds      int            `json:"feedback_rounds"`
	CustomInstructions  string         `json:"custom_instructions"`
	Tenant              TenantContext  `json:"tenant"`
	Routing             RoutingContext `json:"routing"`
	CurrentQuery        string         `json:"current_query"`
}

// NewConversationState builds the initial state for a fresh session with the
// opening user message as both the first history turn and the current query.
func NewConversationState(
	sessionID string,
	message string,
	customInstructions string,
	tenant TenantContext,
	routing RoutingContext,
) *ConversationState {
	return &ConversationState{
		SessionID:           sessionID,
		ConversationHistory: []llm.Message{{Role: llm.RoleUser, Content: message}},
		GeneratedResponses:  []string{},
		HumanFeedback:       []string{},
		CustomInstructions:  customInstructions,
		Tenant:              tenant,
		Routing:             routing,
		CurrentQuery:        message,
	}
}

// ApplyRetrieval overwrites the aggregated context. Retrieval output is never
// accumulated across rounds.
func (s *ConversationState) ApplyRetrieval(context string) {
	s.RetrievedContext = context
}

// ApplyGeneration appends the model reply to the generated-response log and
// the conversation history, and counts one completed generation round.
func (s *ConversationState) ApplyGeneration(reply string) {
	s.GeneratedResponses = append(s.GeneratedResponses, reply)
	s.ConversationHistory = append(s.ConversationHistory, llm.Message{
		Role:    llm.RoleAssistant,
		Content: reply,
	})
	s.FeedbackRounds++
}

// AppendUserMessage records a follow-up user turn and makes it the query for
// the next retrieval pass.
func (s *ConversationState) AppendUserMessage(message string) {
	s.ConversationHistory = append(s.ConversationHistory, llm.Message{
		Role:    llm.RoleUser,
		Content: message,
	})
	s.CurrentQuery = message
}

// AppendFeedback records one human feedback entry and makes it the query for
// the next retrieval pass. Feedback is append-only and never deduplicated.
func (s *ConversationState) AppendFeedback(feedback string) {
	s.HumanFeedback = append(s.HumanFeedback, feedback)
	s.CurrentQuery = feedback
}

// LatestFeedback returns the most recent feedback entry, or "" if none exists.
func (s *ConversationState) LatestFeedback() string {
	if len(s.HumanFeedback) == 0 {
		return ""
	}
	return s.HumanFeedback[len(s.HumanFeedback)-1]
}

// LatestReply returns the most recent generated response, or "" if none.
func (s *ConversationState) LatestReply() string {
	if len(s.GeneratedResponses) == 0 {
		return ""
	}
	return s.GeneratedResponses[len(s.GeneratedResponses)-1]
}

// Clone returns a deep copy. The session store hands out clones so that a
// failed pass cannot corrupt the persisted snapshot.
func (s *ConversationState) Clone() *ConversationState {
	cp := *s
	cp.ConversationHistory = append([]llm.Message(nil), s.ConversationHistory...)
	cp.GeneratedResponses = append([]string(nil), s.GeneratedResponses...)
	cp.HumanFeedback = append([]string(nil), s.HumanFeedback...)
	return &cp
}

// DoneSignal is the literal feedback text that finalizes a conversation.
const DoneSignal = "done"

// SignaledDone reports whether the latest feedback is the done signal.
func (s *ConversationState) SignaledDone() bool {
	return strings.EqualFold(strings.TrimSpace(s.LatestFeedback()), DoneSignal)
}
