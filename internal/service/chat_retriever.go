package service

import (
	"context"
	"fmt"

	"ai-assistant-be/internal/repository"
	"ai-assistant-be/pkg/chatflow/retrieval"
	"ai-assistant-be/pkg/embedding"
	"ai-assistant-be/pkg/store"
)

const retrievalLimit = 5

// chatRetriever adapts the pgvector document repository to the chat
// aggregator: one query embedding per call, then a scoped similarity scan.
type chatRetriever struct {
	embeddingProvider embedding.EmbeddingProvider
	documents         repository.IDocumentRepository
}

var _ retrieval.Retriever = (*chatRetriever)(nil)

func NewChatRetriever(embeddingProvider embedding.EmbeddingProvider, documents repository.IDocumentRepository) retrieval.Retriever {
	return &chatRetriever{
		embeddingProvider: embeddingProvider,
		documents:         documents,
	}
}

func (r *chatRetriever) embedQuery(query string) ([]float32, error) {
	res, err := r.embeddingProvider.Generate(query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return res.Embedding.Values, nil
}

func (r *chatRetriever) SearchPartition(ctx context.Context, companyID, partition, query string) ([]store.Document, error) {
	vector, err := r.embedQuery(query)
	if err != nil {
		return nil, err
	}
	scored, err := r.documents.SearchSimilar(ctx, companyID, partition, vector, retrievalLimit)
	if err != nil {
		return nil, err
	}
	return toStoreDocuments(scored), nil
}

func (r *chatRetriever) SearchUserFeedback(ctx context.Context, companyID, userID, query string) ([]store.Document, error) {
	vector, err := r.embedQuery(query)
	if err != nil {
		return nil, err
	}
	scored, err := r.documents.SearchUserFeedback(ctx, companyID, userID, vector, retrievalLimit)
	if err != nil {
		return nil, err
	}
	return toStoreDocuments(scored), nil
}

func toStoreDocuments(scored []*repository.ScoredDocument) []store.Document {
	docs := make([]store.Document, len(scored))
	for i, s := range scored {
		docs[i] = store.Document{
			ID:       s.Document.ExternalId,
			Content:  s.Document.Content,
			Score:    float32(s.Similarity),
			Metadata: s.Document.Metadata,
		}
	}
	return docs
}
