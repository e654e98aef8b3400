package memory

import (
	"context"
	"sort"

	"kb-platform-be/internal/entity"
	"kb-platform-be/internal/repository/contract"
	"kb-platform-be/internal/repository/specification"

	"github.com/google/uuid"
)

type DocumentRepository struct {
	store *Store
}

func NewDocumentRepository(store *Store) contract.DocumentRepository {
	return &DocumentRepository{store: store}
}

func matchDocument(d entity.Document, q query) bool {
	if v, ok := q.want("id"); ok && d.Id != v.(string) {
		return false
	}
	if v, ok := q.want("user_id"); ok && d.UserId != v.(uuid.UUID) {
		return false
	}
	if v, ok := q.want("file_id"); ok && d.FileId != v.(string) {
		return false
	}
	return true
}

func (r *DocumentRepository) Create(ctx context.Context, document *entity.Document) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.documents[document.Id] = *document
	return nil
}

func (r *DocumentRepository) Update(ctx context.Context, document *entity.Document) error {
	return r.Create(ctx, document)
}

func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.deleteCascadeLocked(id)
	return nil
}

func (r *DocumentRepository) DeleteByFileId(ctx context.Context, fileId string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for id, d := range r.store.documents {
		if d.FileId == fileId {
			r.deleteCascadeLocked(id)
		}
	}
	return nil
}

// deleteCascadeLocked mimics the ON DELETE CASCADE chain from documents
// through document_chunks to chunks and embeddings.
func (r *DocumentRepository) deleteCascadeLocked(documentId string) {
	delete(r.store.documents, documentId)

	links := r.store.documentChunks[:0]
	for _, l := range r.store.documentChunks {
		if l.DocumentId == documentId {
			for embId, emb := range r.store.embeddings {
				if emb.ChunkId == l.ChunkId {
					delete(r.store.embeddings, embId)
				}
			}
			delete(r.store.chunks, l.ChunkId)
			continue
		}
		links = append(links, l)
	}
	r.store.documentChunks = links
}

func (r *DocumentRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *DocumentRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error) {
	q := interpret(specs)

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []*entity.Document
	for _, d := range r.store.documents {
		if matchDocument(d, q) {
			item := d
			out = append(out, &item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Id < out[j].Id
	})
	return paginate(out, q), nil
}

func (r *DocumentRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	return int64(len(all)), err
}

func (r *DocumentRepository) CreateChunkLinksBulk(ctx context.Context, links []*entity.DocumentChunk) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, l := range links {
		r.store.documentChunks = append(r.store.documentChunks, *l)
	}
	return nil
}
