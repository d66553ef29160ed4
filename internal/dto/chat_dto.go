package dto

// StartChatRequest opens a new session. Persona fields are optional; empty
// ones are simply left out of the assistant preamble.
type StartChatRequest struct {
	Message            string `json:"message" validate:"required"`
	CompanyId          string `json:"company_id" validate:"required"`
	UserId             string `json:"user_id" validate:"required"`
	DataPartition      string `json:"data_partition" validate:"required"`
	CustomInstructions string `json:"custom_instructions"`

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

// ChatMessageRequest continues a suspended session with a follow-up message.
type ChatMessageRequest struct {
	SessionId string `json:"session_id" validate:"required"`
	Message   string `json:"message" validate:"required"`
}

// ChatFeedbackRequest resumes a suspended session with human feedback.
type ChatFeedbackRequest struct {
	SessionId string `json:"session_id" validate:"required"`
	Feedback  string `json:"feedback" validate:"required"`
}

// ChatFinalResult is returned once when a session finalizes.
type ChatFinalResult struct {
	FinalResponse   string   `json:"final_response"`
	FeedbackRounds  int      `json:"feedback_rounds"`
	FeedbackHistory []string `json:"feedback_history"`
}

// ChatStepResponse is the uniform reply of all three chat entry points:
// either a suspension (RequiresFeedback true, Reply+Message set) or the final
// result (RequiresFeedback false, Result set).
type ChatStepResponse struct {
	SessionId        string           `json:"session_id"`
	RequiresFeedback bool             `json:"requires_feedback"`
	Reply            string           `json:"reply,omitempty"`
	Message          string           `json:"message,omitempty"`
	Result           *ChatFinalResult `json:"result,omitempty"`
}
