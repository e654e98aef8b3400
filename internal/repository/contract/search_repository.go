package contract

import (
	"context"

	"github.com/google/uuid"
)

// SearchHit is one scored chunk row with the document and file context
// needed to render a result without further lookups.
type SearchHit struct {
	ChunkId       uuid.UUID
	Content       string
	ChunkIndex    int
	DocumentId    string
	DocumentTitle string
	FileId        string
	FileName      string
	Similarity    float64 // 0.0 to 1.0 (1.0 = identical)
}

// SearchScope narrows a search to one knowledge base. A nil scope means
// user-global: every chunk the user owns.
type SearchScope struct {
	KnowledgeBaseId string
}

type SearchRepository interface {
	// VectorSearch ranks by pgvector cosine similarity against the stored
	// embeddings, keeping rows at or above threshold.
	VectorSearch(ctx context.Context, userId uuid.UUID, queryVector []float32, scope *SearchScope, limit int, threshold float64) ([]*SearchHit, error)

	// KeywordSearch ranks by pg_trgm word_similarity between the query and
	// chunk text, keeping rows at or above threshold.
	KeywordSearch(ctx context.Context, userId uuid.UUID, query string, scope *SearchScope, limit int, threshold float64) ([]*SearchHit, error)
}
