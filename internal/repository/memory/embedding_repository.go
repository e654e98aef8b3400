package memory

import (
	"context"
	"sort"

	"kb-platform-be/internal/entity"
	"kb-platform-be/internal/repository/contract"
	"kb-platform-be/internal/repository/specification"

	"github.com/google/uuid"
)

type EmbeddingRepository struct {
	store *Store
}

func NewEmbeddingRepository(store *Store) contract.EmbeddingRepository {
	return &EmbeddingRepository{store: store}
}

func matchEmbedding(e entity.Embedding, q query) bool {
	if v, ok := q.want("id"); ok && e.Id != v.(uuid.UUID) {
		return false
	}
	if v, ok := q.want("chunk_id"); ok && e.ChunkId != v.(uuid.UUID) {
		return false
	}
	if v, ok := q.want("user_id"); ok && e.UserId != v.(uuid.UUID) {
		return false
	}
	return true
}

func (r *EmbeddingRepository) Create(ctx context.Context, embedding *entity.Embedding) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if embedding.Id == uuid.Nil {
		embedding.Id = uuid.New()
	}
	r.store.embeddings[embedding.Id] = *embedding
	return nil
}

func (r *EmbeddingRepository) CreateBulk(ctx context.Context, embeddings []*entity.Embedding) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, e := range embeddings {
		if e.Id == uuid.Nil {
			e.Id = uuid.New()
		}
		r.store.embeddings[e.Id] = *e
	}
	return nil
}

func (r *EmbeddingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.embeddings, id)
	return nil
}

func (r *EmbeddingRepository) DeleteByChunkIds(ctx context.Context, chunkIds []uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	wanted := make(map[uuid.UUID]bool, len(chunkIds))
	for _, id := range chunkIds {
		wanted[id] = true
	}
	for id, e := range r.store.embeddings {
		if wanted[e.ChunkId] {
			delete(r.store.embeddings, id)
		}
	}
	return nil
}

func (r *EmbeddingRepository) DeleteByDocumentId(ctx context.Context, documentId string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, l := range r.store.documentChunks {
		if l.DocumentId != documentId {
			continue
		}
		for id, e := range r.store.embeddings {
			if e.ChunkId == l.ChunkId {
				delete(r.store.embeddings, id)
			}
		}
	}
	return nil
}

func (r *EmbeddingRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Embedding, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *EmbeddingRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Embedding, error) {
	q := interpret(specs)

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []*entity.Embedding
	for _, e := range r.store.embeddings {
		if matchEmbedding(e, q) {
			item := e
			out = append(out, &item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Id.String() < out[j].Id.String()
	})
	return paginate(out, q), nil
}

func (r *EmbeddingRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	return int64(len(all)), err
}
