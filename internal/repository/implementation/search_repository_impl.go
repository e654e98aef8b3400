package implementation

import (
	"context"

	"kb-platform-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type SearchRepositoryImpl struct {
	db *gorm.DB
}

func NewSearchRepository(db *gorm.DB) contract.SearchRepository {
	return &SearchRepositoryImpl{db: db}
}

// scoredRow is the scan target for both search flavors.
type scoredRow struct {
	ChunkId       uuid.UUID
	Content       string
	ChunkIndex    int
	DocumentId    string
	DocumentTitle string
	FileId        string
	FileName      string
	Similarity    float64
}

const searchColumns = `chunks.id AS chunk_id, chunks.text AS content, chunks.index AS chunk_index,
documents.id AS document_id, documents.title AS document_title,
files.id AS file_id, files.name AS file_name`

// joinChain walks a chunk up to its owning file so every result carries
// provenance and every query can be tenant-scoped on files.user_id.
func (r *SearchRepositoryImpl) joinChain(db *gorm.DB) *gorm.DB {
	return db.
		Joins("JOIN document_chunks ON document_chunks.chunk_id = chunks.id").
		Joins("JOIN documents ON documents.id = document_chunks.document_id").
		Joins("JOIN files ON files.id = documents.file_id")
}

func (r *SearchRepositoryImpl) applyScope(db *gorm.DB, scope *contract.SearchScope) *gorm.DB {
	if scope == nil || scope.KnowledgeBaseId == "" {
		return db
	}
	return db.
		Joins("JOIN knowledge_base_files ON knowledge_base_files.file_id = files.id").
		Where("knowledge_base_files.knowledge_base_id = ?", scope.KnowledgeBaseId)
}

func (r *SearchRepositoryImpl) VectorSearch(ctx context.Context, userId uuid.UUID, queryVector []float32, scope *contract.SearchScope, limit int, threshold float64) ([]*contract.SearchHit, error) {
	if limit <= 0 {
		limit = 10
	}

	// pgvector <=> is cosine distance, so 1 - distance is cosine similarity
	vec := pgvector.NewVector(queryVector)

	query := r.db.WithContext(ctx).
		Table("embeddings").
		Select(searchColumns+", 1 - (embeddings.embeddings <=> ?) AS similarity", vec).
		Joins("JOIN chunks ON chunks.id = embeddings.chunk_id")
	query = r.joinChain(query)
	query = r.applyScope(query, scope)

	var rows []scoredRow
	err := query.
		Where("files.user_id = ?", userId).
		Where("1 - (embeddings.embeddings <=> ?) >= ?", vec, threshold).
		Order("similarity DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return toSearchHits(rows), nil
}

func (r *SearchRepositoryImpl) KeywordSearch(ctx context.Context, userId uuid.UUID, queryText string, scope *contract.SearchScope, limit int, threshold float64) ([]*contract.SearchHit, error) {
	if limit <= 0 {
		limit = 10
	}

	query := r.db.WithContext(ctx).
		Table("chunks").
		Select(searchColumns+", word_similarity(?, chunks.text) AS similarity", queryText)
	query = r.joinChain(query)
	query = r.applyScope(query, scope)

	var rows []scoredRow
	err := query.
		Where("files.user_id = ?", userId).
		Where("word_similarity(?, chunks.text) >= ?", queryText, threshold).
		Order("similarity DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return toSearchHits(rows), nil
}

func toSearchHits(rows []scoredRow) []*contract.SearchHit {
	hits := make([]*contract.SearchHit, len(rows))
	for i, row := range rows {
		hits[i] = &contract.SearchHit{
			ChunkId:       row.ChunkId,
			Content:       row.Content,
			ChunkIndex:    row.ChunkIndex,
			DocumentId:    row.DocumentId,
			DocumentTitle: row.DocumentTitle,
			FileId:        row.FileId,
			FileName:      row.FileName,
			Similarity:    row.Similarity,
		}
	}
	return hits
}
