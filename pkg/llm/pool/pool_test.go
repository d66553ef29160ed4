package pool

import (
	"context"
	"sync"
	"testing"

	"ai-assistant-be/pkg/llm"
)

type namedProvider struct {
	name string
}

func (p *namedProvider) Chat(_ context.Context, _ []llm.Message, _ ...llm.Option) (string, error) {
	return p.name, nil
}

func (p *namedProvider) Generate(_ context.Context, _ string, _ ...llm.Option) (string, error) {
	return p.name, nil
}

func TestRoundRobinCycle(t *testing.T) {
	pool, err := NewRoundRobinFromClients([]llm.LLMProvider{
		&namedProvider{"A"},
		&namedProvider{"B"},
		&namedProvider{"C"},
	})
	if err != nil {
		t.Fatalf("NewRoundRobinFromClients: %v", err)
	}

	want := []string{"A", "B", "C", "A"}
	for i, w := range want {
		got, _ := pool.Next().Generate(context.Background(), "")
		if got != w {
			t.Errorf("call %d = %q, want %q", i, got, w)
		}
	}
}

func TestRoundRobinSingleEndpoint(t *testing.T) {
	pool, err := NewRoundRobin([]string{"http://localhost:11434"}, "llama3")
	if err != nil {
		t.Fatalf("NewRoundRobin: %v", err)
	}

	if pool.Next() != pool.Next() {
		t.Error("single-endpoint pool should always return the same client")
	}
}

func TestRoundRobinEmpty(t *testing.T) {
	if _, err := NewRoundRobin(nil, "llama3"); err == nil {
		t.Error("NewRoundRobin with no endpoints should error")
	}
}

func TestRoundRobinConcurrentFairness(t *testing.T) {
	pool, err := NewRoundRobinFromClients([]llm.LLMProvider{
		&namedProvider{"A"},
		&namedProvider{"B"},
	})
	if err != nil {
		t.Fatalf("NewRoundRobinFromClients: %v", err)
	}

	const calls = 100
	var mu sync.Mutex
	counts := map[string]int{}

	var wg sync.WaitGroup
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			name, _ := pool.Next().Generate(context.Background(), "")
			mu.Lock()
			counts[name]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	if counts["A"] != calls/2 || counts["B"] != calls/2 {
		t.Errorf("uneven distribution: %v", counts)
	}
}
