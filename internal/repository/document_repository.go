package repository

import (
	"context"
	"errors"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/pkg/store"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// ScoredDocument pairs a row with its cosine similarity to the query vector.
type ScoredDocument struct {
	Document   *entity.CompanyDocument
	Similarity float64
}

// CollectionInfo summarizes one company/partition pair.
type CollectionInfo struct {
	CompanyId string `json:"company_id"`
	Partition string `json:"partition"`
	Documents int64  `json:"documents"`
}

type IDocumentRepository interface {
	CreateBulk(ctx context.Context, docs []*entity.CompanyDocument) error
	FindById(ctx context.Context, id uuid.UUID) (*entity.CompanyDocument, error)
	UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) error
	SearchSimilar(ctx context.Context, companyId, partition string, embedding []float32, limit int) ([]*ScoredDocument, error)
	SearchUserFeedback(ctx context.Context, companyId, userId string, embedding []float32, limit int) ([]*ScoredDocument, error)
	DeleteByExternalId(ctx context.Context, companyId, partition, externalId string) (int64, error)
	DeleteCompany(ctx context.Context, companyId string) (int64, error)
	ListCollections(ctx context.Context) ([]*CollectionInfo, error)
}

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) IDocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) CreateBulk(ctx context.Context, docs []*entity.CompanyDocument) error {
	if len(docs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(docs).Error
}

func (r *documentRepository) FindById(ctx context.Context, id uuid.UUID) (*entity.CompanyDocument, error) {
	var doc entity.CompanyDocument
	if err := r.db.WithContext(ctx).First(&doc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepository) UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) error {
	return r.db.WithContext(ctx).
		Model(&entity.CompanyDocument{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"embedding": pgvector.NewVector(embedding),
			"embedded":  true,
		}).Error
}

// searchScored runs a cosine-similarity scan over embedded rows matching the
// extra conditions. Cosine distance in pgvector is 1 - cosine_similarity.
func (r *documentRepository) searchScored(ctx context.Context, embedding []float32, limit int, conds func(*gorm.DB) *gorm.DB) ([]*ScoredDocument, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		entity.CompanyDocument
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	q := r.db.WithContext(ctx).
		Table("company_documents").
		Select("company_documents.*, 1 - (embedding <=> ?) as similarity", queryVector).
		Where("embedded = ?", true).
		Where("deleted_at IS NULL")
	q = conds(q)

	err := q.Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*ScoredDocument, len(results))
	for i := range results {
		doc := results[i].CompanyDocument
		scored[i] = &ScoredDocument{
			Document:   &doc,
			Similarity: results[i].Similarity,
		}
	}
	return scored, nil
}

func (r *documentRepository) SearchSimilar(ctx context.Context, companyId, partition string, embedding []float32, limit int) ([]*ScoredDocument, error) {
	return r.searchScored(ctx, embedding, limit, func(q *gorm.DB) *gorm.DB {
		return q.Where("company_id = ?", companyId).Where("partition = ?", partition)
	})
}

func (r *documentRepository) SearchUserFeedback(ctx context.Context, companyId, userId string, embedding []float32, limit int) ([]*ScoredDocument, error) {
	return r.searchScored(ctx, embedding, limit, func(q *gorm.DB) *gorm.DB {
		return q.Where("company_id = ?", companyId).
			Where("partition = ?", store.PartitionFeedback).
			Where("user_id = ?", userId)
	})
}

func (r *documentRepository) DeleteByExternalId(ctx context.Context, companyId, partition, externalId string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("company_id = ?", companyId).
		Where("partition = ?", partition).
		Where("external_id = ?", externalId).
		Delete(&entity.CompanyDocument{})
	return res.RowsAffected, res.Error
}

func (r *documentRepository) DeleteCompany(ctx context.Context, companyId string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("company_id = ?", companyId).
		Delete(&entity.CompanyDocument{})
	return res.RowsAffected, res.Error
}

func (r *documentRepository) ListCollections(ctx context.Context) ([]*CollectionInfo, error) {
	var infos []*CollectionInfo
	err := r.db.WithContext(ctx).
		Table("company_documents").
		Select("company_id, partition, count(*) as documents").
		Where("deleted_at IS NULL").
		Group("company_id, partition").
		Order("company_id, partition").
		Scan(&infos).Error
	return infos, err
}
