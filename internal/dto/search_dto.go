package dto

import "github.com/google/uuid"

const (
	SearchModeHybrid  = "hybrid"
	SearchModeVector  = "vector"
	SearchModeKeyword = "keyword"
)

type SearchRequest struct {
	Query          string   `json:"query" validate:"required"`
	Mode           string   `json:"mode" validate:"omitempty,oneof=hybrid vector keyword"`
	Limit          int      `json:"limit" validate:"omitempty,gte=1,lte=100"`
	Threshold      *float64 `json:"threshold" validate:"omitempty,gte=0,lte=1"`
	IncludeContent *bool    `json:"include_content"`
}

type SearchResultItem struct {
	ChunkId       uuid.UUID `json:"chunk_id"`
	Content       string    `json:"content,omitempty"`
	ChunkIndex    int       `json:"chunk_index"`
	DocumentId    string    `json:"document_id"`
	DocumentTitle string    `json:"document_title"`
	FileId        string    `json:"file_id"`
	FileName      string    `json:"file_name"`

	// Per-signal similarities are 0..1; RankScore is an RRF sum and is
	// only meaningful for ordering, not as a probability. Similarity
	// mirrors the score the selected mode ranked by.
	VectorSimilarity  float64 `json:"vector_similarity"`
	KeywordSimilarity float64 `json:"keyword_similarity"`
	RankScore         float64 `json:"rank_score"`
	Similarity        float64 `json:"similarity"`
}

type SearchResponse struct {
	Results []*SearchResultItem `json:"results"`
	Count   int                 `json:"count"`
}

type RelevantContextRequest struct {
	Query     string `json:"query" validate:"required"`
	MaxChunks int    `json:"max_chunks" validate:"omitempty,gte=1,lte=50"`
}

type RelevantContextResponse struct {
	Context string `json:"context"`
	Sources int    `json:"sources"`
}
