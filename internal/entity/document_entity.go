package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CompanyDocument is one retrievable chunk in a company collection. Rows are
// scoped by company id plus partition; feedback rows additionally carry the
// owning user id. ExternalId is the caller-supplied document id used for
// targeted deletes.
type CompanyDocument struct {
	Id         uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyId  string            `gorm:"type:varchar(128);not null;index:idx_company_partition"`
	Partition  string            `gorm:"type:varchar(32);not null;index:idx_company_partition"`
	UserId     string            `gorm:"type:varchar(128);index"`
	ExternalId string            `gorm:"type:varchar(128);index"`
	Content    string            `gorm:"type:text;not null"`
	Metadata   datatypes.JSONMap `gorm:"type:jsonb"`
	Embedding  pgvector.Vector   `gorm:"type:vector(1024)"` // mxbai-embed-large dimensionality
	Embedded   bool              `gorm:"default:false;index"`
	CreatedAt  time.Time         `gorm:"autoCreateTime"`
	UpdatedAt  time.Time         `gorm:"autoUpdateTime"`
	DeletedAt  gorm.DeletedAt    `gorm:"index"`
}

func (CompanyDocument) TableName() string {
	return "company_documents"
}
