package memory

import (
	"context"
	"sort"

	"kb-platform-be/internal/entity"
	"kb-platform-be/internal/repository/contract"
	"kb-platform-be/internal/repository/specification"

	"github.com/google/uuid"
)

type KnowledgeBaseRepository struct {
	store *Store
}

func NewKnowledgeBaseRepository(store *Store) contract.KnowledgeBaseRepository {
	return &KnowledgeBaseRepository{store: store}
}

func matchKnowledgeBase(kb entity.KnowledgeBase, q query) bool {
	if v, ok := q.want("id"); ok && kb.Id != v.(string) {
		return false
	}
	if v, ok := q.want("user_id"); ok && kb.UserId != v.(uuid.UUID) {
		return false
	}
	if v, ok := q.want("name"); ok && kb.Name != v.(string) {
		return false
	}
	return true
}

func (r *KnowledgeBaseRepository) Create(ctx context.Context, kb *entity.KnowledgeBase) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.knowledgeBases[kb.Id] = *kb
	return nil
}

func (r *KnowledgeBaseRepository) Update(ctx context.Context, kb *entity.KnowledgeBase) error {
	return r.Create(ctx, kb)
}

func (r *KnowledgeBaseRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.knowledgeBases, id)

	// cascade on the join table, like the FK constraint would
	links := r.store.kbFiles[:0]
	for _, l := range r.store.kbFiles {
		if l.KnowledgeBaseId != id {
			links = append(links, l)
		}
	}
	r.store.kbFiles = links
	return nil
}

func (r *KnowledgeBaseRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.KnowledgeBase, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *KnowledgeBaseRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.KnowledgeBase, error) {
	q := interpret(specs)

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []*entity.KnowledgeBase
	for _, kb := range r.store.knowledgeBases {
		if matchKnowledgeBase(kb, q) {
			item := kb
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

func (r *KnowledgeBaseRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	return int64(len(all)), err
}

func (r *KnowledgeBaseRepository) LinkFile(ctx context.Context, link *entity.KnowledgeBaseFile) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, l := range r.store.kbFiles {
		if l.KnowledgeBaseId == link.KnowledgeBaseId && l.FileId == link.FileId {
			return nil
		}
	}
	r.store.kbFiles = append(r.store.kbFiles, *link)
	return nil
}

func (r *KnowledgeBaseRepository) UnlinkFile(ctx context.Context, knowledgeBaseId, fileId string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	links := r.store.kbFiles[:0]
	for _, l := range r.store.kbFiles {
		if !(l.KnowledgeBaseId == knowledgeBaseId && l.FileId == fileId) {
			links = append(links, l)
		}
	}
	r.store.kbFiles = links
	return nil
}

func (r *KnowledgeBaseRepository) UnlinkFileEverywhere(ctx context.Context, fileId string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	links := r.store.kbFiles[:0]
	for _, l := range r.store.kbFiles {
		if l.FileId != fileId {
			links = append(links, l)
		}
	}
	r.store.kbFiles = links
	return nil
}

func (r *KnowledgeBaseRepository) FindFiles(ctx context.Context, knowledgeBaseId string) ([]*entity.File, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []*entity.File
	for _, l := range r.store.kbFiles {
		if l.KnowledgeBaseId != knowledgeBaseId {
			continue
		}
		if f, ok := r.store.files[l.FileId]; ok {
			item := f
			out = append(out, &item)
		}
	}
	return out, nil
}
