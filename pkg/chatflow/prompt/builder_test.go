package prompt_test

import (
	"testing"

	"ai-assistant-be/pkg/chatflow"
	"ai-assistant-be/pkg/chatflow/prompt"

	"github.com/stretchr/testify/assert"
)

func TestPersonaPreambleSkipsEmptyFields(t *testing.T) {
	got := prompt.PersonaPreamble(chatflow.TenantContext{
		CompanyName:          "Acme Corp",
		SupportContactEmails: "help@acme.test",
	})

	assert.Contains(t, got, "You are the assistant for Acme Corp.")
	assert.Contains(t, got, "Support email(s): help@acme.test")
	assert.NotContains(t, got, "Your role is")
	assert.NotContains(t, got, "website")
	assert.NotContains(t, got, "phone")
}

func TestPersonaPreambleRoleAndNameAppearTogether(t *testing.T) {
	onlyRole := prompt.PersonaPreamble(chatflow.TenantContext{AssistantRole: "support agent"})
	assert.NotContains(t, onlyRole, "support agent")

	onlyName := prompt.PersonaPreamble(chatflow.TenantContext{AssistantName: "Ava"})
	assert.NotContains(t, onlyName, "Ava")

	both := prompt.PersonaPreamble(chatflow.TenantContext{
		AssistantRole: "support agent",
		AssistantName: "Ava",
	})
	assert.Contains(t, both, "Your role is support agent, and you are known as Ava.")
}

func TestPersonaPreambleAllEmpty(t *testing.T) {
	assert.Empty(t, prompt.PersonaPreamble(chatflow.TenantContext{}))
}

func TestBuildIncludesStateSections(t *testing.T) {
	state := chatflow.NewConversationState(
		"s1",
		"what are your hours?",
		"always answer in English",
		chatflow.TenantContext{CompanyName: "Acme"},
		chatflow.RoutingContext{CompanyID: "acme", UserID: "u1", DataPartition: "live"},
	)
	state.ApplyRetrieval("Main Context: open 9-5")
	state.ApplyGeneration("We are open 9 to 5.")
	state.AppendFeedback("mention weekends")

	got := prompt.Build(state)

	assert.Contains(t, got, "user: what are your hours?")
	assert.Contains(t, got, "assistant: We are open 9 to 5.")
	assert.Contains(t, got, "Custom Instructions: always answer in English")
	assert.Contains(t, got, "Human Feedback: mention weekends")
	assert.Contains(t, got, "Main Context: open 9-5")
	assert.Contains(t, got, "You are the assistant for Acme.")
}

func TestBuildWithoutFeedbackUsesPlaceholder(t *testing.T) {
	state := chatflow.NewConversationState("s1", "hello", "", chatflow.TenantContext{}, chatflow.RoutingContext{})
	got := prompt.Build(state)
	assert.Contains(t, got, "Human Feedback: No feedback yet")
}
