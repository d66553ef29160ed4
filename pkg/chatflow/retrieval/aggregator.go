package retrieval

import (
	"context"
	"log"
	"strings"
	"sync"

	"ai-assistant-be/pkg/chatflow"
	"ai-assistant-be/pkg/store"
)

// Retriever is the read-only view of the document store the aggregator needs.
type Retriever interface {
	// SearchPartition queries one partition of a company collection.
	SearchPartition(ctx context.Context, companyID, partition, query string) ([]store.Document, error)

	// SearchUserFeedback queries the per-user feedback store of a company.
	SearchUserFeedback(ctx context.Context, companyID, userID, query string) ([]store.Document, error)
}

// Placeholder sentences substituted when a source returns nothing or fails.
const (
	placeholderPrimary     = "No main documents found"
	placeholderCorrections = "No correction data available"
	placeholderFeedback    = "No feedback documents found"
)

// Aggregator fans out the three context retrievals of a chat round and merges
// them into one labeled text blob. It performs no caching: every round hits
// the sources fresh.
type Aggregator struct {
	retriever Retriever
	logger    *log.Logger
}

var _ chatflow.Aggregator = (*Aggregator)(nil)

func NewAggregator(retriever Retriever, logger *log.Logger) *Aggregator {
	return &Aggregator{
		retriever: retriever,
		logger:    logger,
	}
}

// Aggregate runs the primary, corrections and user-feedback retrievals
// concurrently and joins them in that fixed order. A failed or empty source
// degrades to its placeholder sentence; the aggregate itself never fails.
// A whitespace-only query skips retrieval entirely and yields "".
func (a *Aggregator) Aggregate(ctx context.Context, query string, routing chatflow.RoutingContext) string {
	if strings.TrimSpace(query) == "" {
		return ""
	}

	var wg sync.WaitGroup
	var (
		primaryDocs, correctionDocs, feedbackDocs []store.Document
		primaryErr, correctionErr, feedbackErr    error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		primaryDocs, primaryErr = a.retriever.SearchPartition(ctx, routing.CompanyID, routing.DataPartition, query)
	}()
	go func() {
		defer wg.Done()
		correctionDocs, correctionErr = a.retriever.SearchPartition(ctx, routing.CompanyID, store.PartitionCorrections, query)
	}()
	go func() {
		defer wg.Done()
		feedbackDocs, feedbackErr = a.retriever.SearchUserFeedback(ctx, routing.CompanyID, routing.UserID, query)
	}()
	wg.Wait()

	if primaryErr != nil {
		a.logger.Printf("[RETRIEVAL] primary source failed (company=%s partition=%s): %v", routing.CompanyID, routing.DataPartition, primaryErr)
	}
	if correctionErr != nil {
		a.logger.Printf("[RETRIEVAL] corrections source failed (company=%s): %v", routing.CompanyID, correctionErr)
	}
	if feedbackErr != nil {
		a.logger.Printf("[RETRIEVAL] feedback source failed (company=%s user=%s): %v", routing.CompanyID, routing.UserID, feedbackErr)
	}

	sections := []string{
		"Main Context: " + contentOrPlaceholder(primaryDocs, placeholderPrimary),
		"Corrections: " + contentOrPlaceholder(correctionDocs, placeholderCorrections),
		"User Feedback Data:\n" + contentOrPlaceholder(feedbackDocs, placeholderFeedback),
	}

	return strings.Join(sections, "\n\n")
}

func contentOrPlaceholder(docs []store.Document, placeholder string) string {
	if len(docs) == 0 {
		return placeholder
	}
	contents := make([]string, len(docs))
	for i, d := range docs {
		contents[i] = d.Content
	}
	return strings.Join(contents, "\n")
}
