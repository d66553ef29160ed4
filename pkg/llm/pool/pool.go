package pool

import (
	"fmt"
	"sync"

	"ai-assistant-be/pkg/llm"
	"ai-assistant-be/pkg/llm/ollama"
)

// ClientPool hands out LLM clients. Implementations decide the selection
// policy; the chat generator only cares about getting the next client.
type ClientPool interface {
	Next() llm.LLMProvider
}

// RoundRobin cycles through a fixed ordered list of model-serving endpoints.
// One client per endpoint is built up front with a fixed model and sampling
// temperature; Next never fails and never skips an endpoint.
type RoundRobin struct {
	mu      sync.Mutex
	cursor  int
	clients []llm.LLMProvider
}

var _ ClientPool = (*RoundRobin)(nil)

// NewRoundRobin builds one Ollama client per endpoint address.
func NewRoundRobin(endpoints []string, model string) (*RoundRobin, error) {
	if len(endpoints) == 0 {
		return nil, fmt.Errorf("round-robin pool needs at least one endpoint")
	}

	clients := make([]llm.LLMProvider, len(endpoints))
	for i, ep := range endpoints {
		clients[i] = ollama.NewOllamaProvider(ep, model)
	}

	return &RoundRobin{clients: clients}, nil
}

// NewRoundRobinFromClients wires pre-built clients (used in tests).
func NewRoundRobinFromClients(clients []llm.LLMProvider) (*RoundRobin, error) {
	if len(clients) == 0 {
		return nil, fmt.Errorf("round-robin pool needs at least one client")
	}
	return &RoundRobin{clients: clients}, nil
}

// Next returns the next client in cyclic order. The lock covers only the
// cursor advance, so concurrent callers never observe a torn read.
func (r *RoundRobin) Next() llm.LLMProvider {
	r.mu.Lock()
	client := r.clients[r.cursor]
	r.cursor = (r.cursor + 1) % len(r.clients)
	r.mu.Unlock()
	return client
}

// Size returns the number of pooled endpoints.
func (r *RoundRobin) Size() int {
	return len(r.clients)
}
