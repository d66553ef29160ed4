package dto

// DocumentPayload is one document to add to a company collection.
type DocumentPayload struct {
	ExternalId string                 `json:"id" validate:"required"`
	Content    string                 `json:"content" validate:"required"`
	Metadata   map[string]interface{} `json:"metadata"`
}

type AddDocumentsRequest struct {
	CompanyId string            `json:"company_id" validate:"required"`
	Partition string            `json:"partition" validate:"required"`
	Documents []DocumentPayload `json:"documents" validate:"required,min=1,dive"`
}

type AddDocumentsResponse struct {
	Queued int `json:"queued"`
}

type QueryDocumentsRequest struct {
	CompanyId string `json:"company_id" validate:"required"`
	Partition string `json:"partition" validate:"required"`
	Query     string `json:"query" validate:"required"`
	Limit     int    `json:"limit"`
}

type DocumentHit struct {
	Id         string                 `json:"id"`
	Content    string                 `json:"content"`
	Similarity float64                `json:"similarity"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

type QueryDocumentsResponse struct {
	Documents []DocumentHit `json:"documents"`
}

type DeleteDocumentRequest struct {
	CompanyId  string `json:"company_id" validate:"required"`
	Partition  string `json:"partition" validate:"required"`
	DocumentId string `json:"document_id" validate:"required"`
}

type DeleteResponse struct {
	Deleted int64 `json:"deleted"`
}

type AddFeedbackRequest struct {
	CompanyId string `json:"company_id" validate:"required"`
	UserId    string `json:"user_id" validate:"required"`
	Feedback  string `json:"feedback" validate:"required"`
}

type QueryFeedbackRequest struct {
	CompanyId string `json:"company_id" validate:"required"`
	UserId    string `json:"user_id" validate:"required"`
	Query     string `json:"query" validate:"required"`
	Limit     int    `json:"limit"`
}
