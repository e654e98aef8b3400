package dto

import "time"

type CreateKnowledgeBaseRequest struct {
	Name        string                 `json:"name" validate:"required,max=255"`
	Description string                 `json:"description"`
	Settings    map[string]interface{} `json:"settings"`
}

type CreateKnowledgeBaseResponse struct {
	Id string `json:"id"`
}

type KnowledgeBaseResponse struct {
	Id          string                 `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Settings    map[string]interface{} `json:"settings,omitempty"`
	FileCount   int                    `json:"file_count"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   *time.Time             `json:"updated_at"`
}

type ListKnowledgeBasesResponse struct {
	KnowledgeBases []*KnowledgeBaseResponse `json:"knowledge_bases"`
}
