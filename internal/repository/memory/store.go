package memory

import (
	"sync"

	"kb-platform-be/internal/entity"
	"kb-platform-be/internal/repository/specification"

	"github.com/google/uuid"
)

// Store is the shared backing map set for the in-memory repositories.
// All repositories built from one Store see the same data, mirroring
// how the gorm repositories share one database.
type Store struct {
	mu sync.RWMutex

	files          map[string]entity.File
	knowledgeBases map[string]entity.KnowledgeBase
	kbFiles        []entity.KnowledgeBaseFile
	documents      map[string]entity.Document
	documentChunks []entity.DocumentChunk
	chunks         map[uuid.UUID]entity.Chunk
	embeddings     map[uuid.UUID]entity.Embedding
	tasks          map[uuid.UUID]entity.AsyncTask
}

func NewStore() *Store {
	return &Store{
		files:          make(map[string]entity.File),
		knowledgeBases: make(map[string]entity.KnowledgeBase),
		documents:      make(map[string]entity.Document),
		chunks:         make(map[uuid.UUID]entity.Chunk),
		embeddings:     make(map[uuid.UUID]entity.Embedding),
		tasks:          make(map[uuid.UUID]entity.AsyncTask),
	}
}

// query is the interpreted form of a specification list. The fakes
// support the specifications the services actually use; ordering and
// pagination are applied by the individual repositories.
type query struct {
	fields map[string]interface{}
	limit  int
	offset int
}

func interpret(specs []specification.Specification) query {
	q := query{fields: make(map[string]interface{}), limit: -1}
	for _, s := range specs {
		switch spec := s.(type) {
		case specification.ByID:
			q.fields["id"] = spec.ID
		case specification.ByKey:
			q.fields["id"] = spec.Key
		case specification.OwnedBy:
			q.fields["user_id"] = spec.UserId
		case specification.FilterBy:
			q.fields[spec.Field] = spec.Value
		case specification.Pagination:
			q.limit = spec.Limit
			q.offset = spec.Offset
		}
	}
	return q
}

func (q query) want(field string) (interface{}, bool) {
	v, ok := q.fields[field]
	return v, ok
}

// paginate applies offset/limit to an already-ordered slice.
func paginate[T any](items []T, q query) []T {
	if q.offset > 0 {
		if q.offset >= len(items) {
			return nil
		}
		items = items[q.offset:]
	}
	if q.limit >= 0 && q.limit < len(items) {
		items = items[:q.limit]
	}
	return items
}
