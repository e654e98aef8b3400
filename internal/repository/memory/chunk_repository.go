package memory

import (
	"context"
	"sort"

	"kb-platform-be/internal/entity"
	"kb-platform-be/internal/repository/contract"
	"kb-platform-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ChunkRepository struct {
	store *Store
}

func NewChunkRepository(store *Store) contract.ChunkRepository {
	return &ChunkRepository{store: store}
}

func matchChunk(c entity.Chunk, q query) bool {
	if v, ok := q.want("id"); ok && c.Id != v.(uuid.UUID) {
		return false
	}
	if v, ok := q.want("user_id"); ok && c.UserId != v.(uuid.UUID) {
		return false
	}
	return true
}

func (r *ChunkRepository) Create(ctx context.Context, chunk *entity.Chunk) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if chunk.Id == uuid.Nil {
		chunk.Id = uuid.New()
	}
	r.store.chunks[chunk.Id] = *chunk
	return nil
}

func (r *ChunkRepository) CreateBulk(ctx context.Context, chunks []*entity.Chunk) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, c := range chunks {
		if c.Id == uuid.Nil {
			c.Id = uuid.New()
		}
		r.store.chunks[c.Id] = *c
	}
	return nil
}

func (r *ChunkRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.chunks, id)
	return nil
}

func (r *ChunkRepository) DeleteByDocumentId(ctx context.Context, documentId string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, l := range r.store.documentChunks {
		if l.DocumentId == documentId {
			delete(r.store.chunks, l.ChunkId)
		}
	}
	return nil
}

func (r *ChunkRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Chunk, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *ChunkRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Chunk, error) {
	q := interpret(specs)

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []*entity.Chunk
	for _, c := range r.store.chunks {
		if matchChunk(c, q) {
			item := c
			out = append(out, &item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Index < out[j].Index
	})
	return paginate(out, q), nil
}

func (r *ChunkRepository) FindByDocumentId(ctx context.Context, documentId string) ([]*entity.Chunk, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []*entity.Chunk
	for _, l := range r.store.documentChunks {
		if l.DocumentId != documentId {
			continue
		}
		if c, ok := r.store.chunks[l.ChunkId]; ok {
			item := c
			out = append(out, &item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Index < out[j].Index
	})
	return out, nil
}

func (r *ChunkRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	return int64(len(all)), err
}
