package dto

import "github.com/google/uuid"

// PublishEmbedDocumentMessage is the embed-pipeline payload: one stored
// document waiting for its embedding.
type PublishEmbedDocumentMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
}
