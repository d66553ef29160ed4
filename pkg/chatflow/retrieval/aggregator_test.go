package retrieval_test

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"ai-assistant-be/pkg/chatflow"
	"ai-assistant-be/pkg/chatflow/retrieval"
	"ai-assistant-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

type fakeRetriever struct {
	partitions  map[string][]store.Document
	partitionEr map[string]error
	feedback    []store.Document
	feedbackErr error
}

func (f *fakeRetriever) SearchPartition(_ context.Context, _, partition, _ string) ([]store.Document, error) {
	if err := f.partitionEr[partition]; err != nil {
		return nil, err
	}
	return f.partitions[partition], nil
}

func (f *fakeRetriever) SearchUserFeedback(_ context.Context, _, _, _ string) ([]store.Document, error) {
	return f.feedback, f.feedbackErr
}

var testRouting = chatflow.RoutingContext{
	CompanyID:     "acme",
	UserID:        "u1",
	DataPartition: store.PartitionLive,
}

func newAggregator(r retrieval.Retriever) *retrieval.Aggregator {
	return retrieval.NewAggregator(r, log.New(io.Discard, "", 0))
}

func TestAggregateMergesAllSources(t *testing.T) {
	agg := newAggregator(&fakeRetriever{
		partitions: map[string][]store.Document{
			store.PartitionLive:        {{Content: "doc a"}, {Content: "doc b"}},
			store.PartitionCorrections: {{Content: "correction 1"}},
		},
		feedback: []store.Document{{Content: "feedback note"}},
	})

	got := agg.Aggregate(context.Background(), "shipping policy", testRouting)
	want := "Main Context: doc a\ndoc b\n\n" +
		"Corrections: correction 1\n\n" +
		"User Feedback Data:\nfeedback note"
	assert.Equal(t, want, got)
}

func TestAggregateEmptySourcesUsePlaceholders(t *testing.T) {
	agg := newAggregator(&fakeRetriever{})

	got := agg.Aggregate(context.Background(), "anything", testRouting)
	want := "Main Context: No main documents found\n\n" +
		"Corrections: No correction data available\n\n" +
		"User Feedback Data:\nNo feedback documents found"
	assert.Equal(t, want, got)
}

func TestAggregateOneSourceFailureDegradesToPlaceholder(t *testing.T) {
	agg := newAggregator(&fakeRetriever{
		partitions: map[string][]store.Document{
			store.PartitionLive: {{Content: "doc a"}},
		},
		partitionEr: map[string]error{
			store.PartitionCorrections: errors.New("collection missing"),
		},
		feedback: []store.Document{{Content: "fb"}},
	})

	got := agg.Aggregate(context.Background(), "q", testRouting)
	assert.Contains(t, got, "Main Context: doc a")
	assert.Contains(t, got, "Corrections: No correction data available")
	assert.Contains(t, got, "User Feedback Data:\nfb")
}

func TestAggregateAllSourcesFailing(t *testing.T) {
	boom := errors.New("store down")
	agg := newAggregator(&fakeRetriever{
		partitionEr: map[string]error{
			store.PartitionLive:        boom,
			store.PartitionCorrections: boom,
		},
		feedbackErr: boom,
	})

	got := agg.Aggregate(context.Background(), "q", testRouting)
	want := "Main Context: No main documents found\n\n" +
		"Corrections: No correction data available\n\n" +
		"User Feedback Data:\nNo feedback documents found"
	assert.Equal(t, want, got)
}

func TestAggregateWhitespaceQuerySkipsRetrieval(t *testing.T) {
	r := &fakeRetriever{
		partitions: map[string][]store.Document{
			store.PartitionLive: {{Content: "should not appear"}},
		},
	}
	agg := newAggregator(r)

	assert.Equal(t, "", agg.Aggregate(context.Background(), "   \n\t", testRouting))
	assert.Equal(t, "", agg.Aggregate(context.Background(), "", testRouting))
}
