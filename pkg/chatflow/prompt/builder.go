package prompt

import (
	"fmt"
	"strings"

	"ai-assistant-be/pkg/chatflow"
)

// SystemPreamble is the fixed system instruction sent with every generation.
const SystemPreamble = "You are a helpful, empathetic, and professional AI assistant."

const noFeedbackYet = "No feedback yet"

// PersonaPreamble composes the tenant-specific assistant description from the
// non-empty persona fields only. Role and name appear together or not at all;
// every other field contributes its own line when populated.
func PersonaPreamble(t chatflow.TenantContext) string {
	var b strings.Builder

	if name := strings.TrimSpace(t.CompanyName); name != "" {
		b.WriteString(fmt.Sprintf("You are the assistant for %s.\n", name))
	}

	role := strings.TrimSpace(t.AssistantRole)
	name := strings.TrimSpace(t.AssistantName)
	if role != "" && name != "" {
		b.WriteString(fmt.Sprintf("Your role is %s, and you are known as %s.\n", role, name))
	}

	if v := strings.TrimSpace(t.CompanyWebsite); v != "" {
		b.WriteString(fmt.Sprintf("Company website: %s\n", v))
	}
	if v := strings.TrimSpace(t.MainDomains); v != "" {
		b.WriteString("For customer inquiries, you can use the following details:\n")
		b.WriteString(fmt.Sprintf("- Main domains (areas): the broad sectors or industries the company specializes in. %s\n", v))
	}
	if v := strings.TrimSpace(t.SubDomains); v != "" {
		b.WriteString(fmt.Sprintf("- Subdomains (specific areas): narrower specializations within the main domains. %s\n", v))
	}
	if v := strings.TrimSpace(t.SupportContactEmails); v != "" {
		b.WriteString(fmt.Sprintf("- Support email(s): %s\n", v))
	}
	if v := strings.TrimSpace(t.SupportPhoneNumbers); v != "" {
		b.WriteString(fmt.Sprintf("- Support phone number(s): %s\n", v))
	}
	if v := strings.TrimSpace(t.SupportPageURL); v != "" {
		b.WriteString(fmt.Sprintf("For further assistance, users can visit our Support Page: %s\n", v))
	}
	if v := strings.TrimSpace(t.HelpCenterURL); v != "" {
		b.WriteString(fmt.Sprintf("Help Center: %s\n", v))
	}

	return b.String()
}

// Build composes the full generation prompt from the conversation state: the
// history, the latest human feedback, the aggregated retrieval context and
// the persona preamble, wrapped in the grounded-answering instruction set.
func Build(state *chatflow.ConversationState) string {
	feedback := state.LatestFeedback()
	if feedback == "" {
		feedback = noFeedbackYet
	}

	history := make([]string, len(state.ConversationHistory))
	for i, msg := range state.ConversationHistory {
		history[i] = fmt.Sprintf("%s: %s", msg.Role, msg.Content)
	}

	var b strings.Builder

	b.WriteString("**Context** (Use ONLY these sources. Supplement with foundational knowledge when necessary):\n")
	b.WriteString("- Conversation History:\n")
	b.WriteString(strings.Join(history, "\n"))
	b.WriteString("\n- Custom Instructions: ")
	b.WriteString(state.CustomInstructions)
	b.WriteString("\n- Human Feedback: ")
	b.WriteString(feedback)
	b.WriteString("\n- Relevant Documents:\n")
	b.WriteString(state.RetrievedContext)
	b.WriteString("\n- Company/Assistant Info:\n")
	b.WriteString(PersonaPreamble(state.Tenant))

	b.WriteString("\n**Your Task**:\n")
	b.WriteString("Write a direct, helpful, and human-like response that solves the user's issue or answers their question without adding extra commentary or analysis.\n")

	b.WriteString("\n**Response Guidelines**:\n")
	b.WriteString("Stay:\n")
	b.WriteString("- Clear, honest, and concise\n")
	b.WriteString("- Friendly and professional, but natural, like a real person rather than a support script\n")
	b.WriteString("- Strictly within the context provided\n\n")

	b.WriteString("Do:\n")
	b.WriteString("- Use plain language and a conversational tone\n")
	b.WriteString("- Adapt your tone to match the user's style\n")
	b.WriteString("- Give answers without prefacing them\n")
	b.WriteString("- Only greet, thank, or sign off when it makes sense in context\n")
	b.WriteString("- Offer guidance or next steps when needed\n\n")

	b.WriteString("Avoid:\n")
	b.WriteString("- Meta-comments that describe the response instead of just responding\n")
	b.WriteString("- Overexplaining or stating the obvious\n")
	b.WriteString("- Robotic phrasing, templated support lines, or generic courtesy language\n")
	b.WriteString("- Offering help, suggestions, or resources unrelated to the context or task\n")
	b.WriteString("- Trying to fulfill requests outside the scope; state clearly when something is out of scope\n")
	b.WriteString("- Emojis, filler, or anything not grounded in the context\n")

	b.WriteString("\n**Reminder**:\n")
	b.WriteString("You're not writing about a response, you're just responding.\n")
	b.WriteString("If something's missing, say so clearly and offer a useful next step.\n")

	return b.String()
}
