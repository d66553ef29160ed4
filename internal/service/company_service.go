package service

import (
	"context"
	"fmt"

	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/repository"
	"ai-assistant-be/pkg/embedding"
	"ai-assistant-be/pkg/store"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ICompanyService interface {
	AddDocuments(ctx context.Context, req *dto.AddDocumentsRequest) (*dto.AddDocumentsResponse, error)
	QueryDocuments(ctx context.Context, req *dto.QueryDocumentsRequest) (*dto.QueryDocumentsResponse, error)
	DeleteDocument(ctx context.Context, req *dto.DeleteDocumentRequest) (*dto.DeleteResponse, error)
	DeleteCompanyCollections(ctx context.Context, companyId string) (*dto.DeleteResponse, error)
	ListCollections(ctx context.Context) ([]*repository.CollectionInfo, error)
	AddFeedback(ctx context.Context, req *dto.AddFeedbackRequest) (*dto.AddDocumentsResponse, error)
	QueryFeedback(ctx context.Context, req *dto.QueryFeedbackRequest) (*dto.QueryDocumentsResponse, error)
}

// companyService manages company vector collections. Documents are stored
// immediately and embedded asynchronously through the embed topic, so a write
// returns before its rows become retrievable.
type companyService struct {
	documents         repository.IDocumentRepository
	publisher         IPublisherService
	embeddingProvider embedding.EmbeddingProvider
	logger            logger.ILogger
}

func NewCompanyService(
	documents repository.IDocumentRepository,
	publisher IPublisherService,
	embeddingProvider embedding.EmbeddingProvider,
	sysLogger logger.ILogger,
) ICompanyService {
	return &companyService{
		documents:         documents,
		publisher:         publisher,
		embeddingProvider: embeddingProvider,
		logger:            sysLogger,
	}
}

func (s *companyService) AddDocuments(ctx context.Context, req *dto.AddDocumentsRequest) (*dto.AddDocumentsResponse, error) {
	if !store.ValidPartition(req.Partition) {
		return nil, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("unknown data partition '%s'", req.Partition))
	}

	docs := make([]*entity.CompanyDocument, len(req.Documents))
	for i, d := range req.Documents {
		docs[i] = &entity.CompanyDocument{
			Id:         uuid.New(),
			CompanyId:  req.CompanyId,
			Partition:  req.Partition,
			ExternalId: d.ExternalId,
			Content:    d.Content,
			Metadata:   datatypes.JSONMap(d.Metadata),
		}
	}

	if err := s.documents.CreateBulk(ctx, docs); err != nil {
		return nil, fmt.Errorf("store documents: %w", err)
	}

	for _, doc := range docs {
		if err := s.publisher.PublishEmbedDocument(ctx, doc.Id); err != nil {
			s.logger.Error("company", "embed publish failed", map[string]interface{}{
				"document_id": doc.Id.String(),
				"error":       err.Error(),
			})
		}
	}

	s.logger.Info("company", "documents queued for embedding", map[string]interface{}{
		"company_id": req.CompanyId,
		"partition":  req.Partition,
		"count":      len(docs),
	})

	return &dto.AddDocumentsResponse{Queued: len(docs)}, nil
}

func (s *companyService) QueryDocuments(ctx context.Context, req *dto.QueryDocumentsRequest) (*dto.QueryDocumentsResponse, error) {
	if !store.ValidPartition(req.Partition) {
		return nil, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("unknown data partition '%s'", req.Partition))
	}

	vector, err := s.embedQuery(req.Query)
	if err != nil {
		return nil, err
	}

	scored, err := s.documents.SearchSimilar(ctx, req.CompanyId, req.Partition, vector, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}

	return &dto.QueryDocumentsResponse{Documents: toDocumentHits(scored)}, nil
}

func (s *companyService) DeleteDocument(ctx context.Context, req *dto.DeleteDocumentRequest) (*dto.DeleteResponse, error) {
	deleted, err := s.documents.DeleteByExternalId(ctx, req.CompanyId, req.Partition, req.DocumentId)
	if err != nil {
		return nil, fmt.Errorf("delete document: %w", err)
	}
	return &dto.DeleteResponse{Deleted: deleted}, nil
}

func (s *companyService) DeleteCompanyCollections(ctx context.Context, companyId string) (*dto.DeleteResponse, error) {
	deleted, err := s.documents.DeleteCompany(ctx, companyId)
	if err != nil {
		return nil, fmt.Errorf("delete company collections: %w", err)
	}
	s.logger.Info("company", "collections deleted", map[string]interface{}{
		"company_id": companyId,
		"documents":  deleted,
	})
	return &dto.DeleteResponse{Deleted: deleted}, nil
}

func (s *companyService) ListCollections(ctx context.Context) ([]*repository.CollectionInfo, error) {
	return s.documents.ListCollections(ctx)
}

func (s *companyService) AddFeedback(ctx context.Context, req *dto.AddFeedbackRequest) (*dto.AddDocumentsResponse, error) {
	doc := &entity.CompanyDocument{
		Id:         uuid.New(),
		CompanyId:  req.CompanyId,
		Partition:  store.PartitionFeedback,
		UserId:     req.UserId,
		ExternalId: uuid.NewString(),
		Content:    req.Feedback,
	}

	if err := s.documents.CreateBulk(ctx, []*entity.CompanyDocument{doc}); err != nil {
		return nil, fmt.Errorf("store feedback: %w", err)
	}

	if err := s.publisher.PublishEmbedDocument(ctx, doc.Id); err != nil {
		s.logger.Error("company", "embed publish failed", map[string]interface{}{
			"document_id": doc.Id.String(),
			"error":       err.Error(),
		})
	}

	return &dto.AddDocumentsResponse{Queued: 1}, nil
}

func (s *companyService) QueryFeedback(ctx context.Context, req *dto.QueryFeedbackRequest) (*dto.QueryDocumentsResponse, error) {
	vector, err := s.embedQuery(req.Query)
	if err != nil {
		return nil, err
	}

	scored, err := s.documents.SearchUserFeedback(ctx, req.CompanyId, req.UserId, vector, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("query feedback: %w", err)
	}

	return &dto.QueryDocumentsResponse{Documents: toDocumentHits(scored)}, nil
}

func (s *companyService) embedQuery(query string) ([]float32, error) {
	res, err := s.embeddingProvider.Generate(query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return res.Embedding.Values, nil
}

func toDocumentHits(scored []*repository.ScoredDocument) []dto.DocumentHit {
	hits := make([]dto.DocumentHit, len(scored))
	for i, s := range scored {
		hits[i] = dto.DocumentHit{
			Id:         s.Document.ExternalId,
			Content:    s.Document.Content,
			Similarity: s.Similarity,
			Metadata:   s.Document.Metadata,
		}
	}
	return hits
}
