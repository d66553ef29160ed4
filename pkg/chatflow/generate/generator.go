package generate

import (
	"context"
	"log"
	"strings"

	"ai-assistant-be/pkg/chatflow"
	"ai-assistant-be/pkg/chatflow/prompt"
	"ai-assistant-be/pkg/llm"
	"ai-assistant-be/pkg/llm/pool"
)

// Generator produces one model reply per call. Endpoint selection goes
// through the round-robin pool; model and temperature are fixed per service.
type Generator struct {
	pool        pool.ClientPool
	temperature float64
	logger      *log.Logger
}

var _ chatflow.Generator = (*Generator)(nil)

func NewGenerator(clientPool pool.ClientPool, temperature float64, logger *log.Logger) *Generator {
	return &Generator{
		pool:        clientPool,
		temperature: temperature,
		logger:      logger,
	}
}

// Generate builds the grounded prompt and invokes the next pooled client
// synchronously: a fixed system instruction plus the composed prompt as one
// user turn. Errors propagate unchanged; retry is the boundary's concern.
func (g *Generator) Generate(ctx context.Context, state *chatflow.ConversationState) (string, error) {
	promptText := prompt.Build(state)

	client := g.pool.Next()

	reply, err := client.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: prompt.SystemPreamble},
		{Role: llm.RoleUser, Content: promptText},
	}, llm.WithTemperature(g.temperature))
	if err != nil {
		return "", err
	}

	g.logger.Printf("[GENERATE] session=%s round=%d reply_len=%d", state.SessionID, state.FeedbackRounds+1, len(reply))

	return strings.TrimSpace(reply), nil
}
