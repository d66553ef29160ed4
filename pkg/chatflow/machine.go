package chatflow

import (
	"context"
	"fmt"
	"log"
)

// FlowState names the four states of the conversation flow.
type FlowState string

const (
	StateRetrieve      FlowState = "RETRIEVE"
	StateGenerate      FlowState = "GENERATE"
	StateAwaitFeedback FlowState = "AWAIT_FEEDBACK"
	StateFinalize      FlowState = "FINALIZE"
)

// Aggregator produces the merged retrieval context for a query. Per-source
// failures degrade to placeholders inside the aggregator, so it returns no
// error.
type Aggregator interface {
	Aggregate(ctx context.Context, query string, routing RoutingContext) string
}

// Generator produces one model reply for the current state. Any failure
// propagates unchanged; the flow performs no local recovery.
type Generator interface {
	Generate(ctx context.Context, state *ConversationState) (string, error)
}

// StepKind tags the outcome of one pass through the flow.
type StepKind int

const (
	StepSuspended StepKind = iota
	StepFinalized
)

// Suspension is the payload returned to the caller when the flow pauses at
// AWAIT_FEEDBACK. It is a cooperative pause, not a blocked thread.
type Suspension struct {
	Reply  string `json:"reply"`
	Prompt string `json:"prompt"`
}

// FinalResult is assembled when the flow reaches FINALIZE.
type FinalResult struct {
	FinalResponse   string   `json:"final_response"`
	FeedbackRounds  int      `json:"feedback_rounds"`
	FeedbackHistory []string `json:"feedback_history"`
}

// StepResult is the tagged outcome of one Run pass: exactly one of Suspension
// or Final is set, selected by Kind.
type StepResult struct {
	Kind       StepKind
	Suspension *Suspension
	Final      *FinalResult
}

// Flow drives one conversation pass RETRIEVE -> GENERATE and then either
// suspends at AWAIT_FEEDBACK or finalizes. Resumption re-enters at RETRIEVE
// with the caller-updated state.
type Flow struct {
	aggregator Aggregator
	generator  Generator
	maxRounds  int
	logger     *log.Logger
}

const DefaultMaxRounds = 3

func NewFlow(aggregator Aggregator, generator Generator, maxRounds int, logger *log.Logger) *Flow {
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}
	return &Flow{
		aggregator: aggregator,
		generator:  generator,
		maxRounds:  maxRounds,
		logger:     logger,
	}
}

// MaxRounds returns the configured feedback-round budget.
func (f *Flow) MaxRounds() int {
	return f.maxRounds
}

// Run executes exactly one pass from the current checkpoint. A generation
// failure leaves the passed-in state untouched beyond the retrieval merge and
// is returned unchanged to the caller.
func (f *Flow) Run(ctx context.Context, state *ConversationState) (*StepResult, error) {
	// RETRIEVE
	state.ApplyRetrieval(f.aggregator.Aggregate(ctx, state.CurrentQuery, state.Routing))

	// GENERATE
	reply, err := f.generator.Generate(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	state.ApplyGeneration(reply)

	// FINALIZE fires on the pass that consumed a done signal or exhausted the
	// round budget; otherwise the flow suspends at AWAIT_FEEDBACK.
	if state.SignaledDone() || state.FeedbackRounds >= f.maxRounds {
		f.logger.Printf("[FLOW] session=%s finalized after %d round(s)", state.SessionID, state.FeedbackRounds)
		return &StepResult{
			Kind: StepFinalized,
			Final: &FinalResult{
				FinalResponse:   state.LatestReply(),
				FeedbackRounds:  state.FeedbackRounds,
				FeedbackHistory: append([]string(nil), state.HumanFeedback...),
			},
		}, nil
	}

	f.logger.Printf("[FLOW] session=%s suspended at round %d/%d", state.SessionID, state.FeedbackRounds, f.maxRounds)
	return &StepResult{
		Kind: StepSuspended,
		Suspension: &Suspension{
			Reply:  reply,
			Prompt: fmt.Sprintf("Provide feedback or type '%s' (feedback round %d/%d)", DoneSignal, state.FeedbackRounds, f.maxRounds),
		},
	}, nil
}
