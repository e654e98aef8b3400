package memory

import (
	"context"
	"sort"

	"kb-platform-be/internal/entity"
	"kb-platform-be/internal/repository/contract"
	"kb-platform-be/internal/repository/specification"

	"github.com/google/uuid"
)

type FileRepository struct {
	store *Store
}

func NewFileRepository(store *Store) contract.FileRepository {
	return &FileRepository{store: store}
}

func matchFile(f entity.File, q query) bool {
	if v, ok := q.want("id"); ok && f.Id != v.(string) {
		return false
	}
	if v, ok := q.want("user_id"); ok && f.UserId != v.(uuid.UUID) {
		return false
	}
	if v, ok := q.want("name"); ok && f.Name != v.(string) {
		return false
	}
	return true
}

func (r *FileRepository) Create(ctx context.Context, file *entity.File) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.files[file.Id] = *file
	return nil
}

func (r *FileRepository) Update(ctx context.Context, file *entity.File) error {
	return r.Create(ctx, file)
}

func (r *FileRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.files, id)
	return nil
}

func (r *FileRepository) DeleteAllByUserId(ctx context.Context, userId uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for id, f := range r.store.files {
		if f.UserId == userId {
			delete(r.store.files, id)
		}
	}
	return nil
}

func (r *FileRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.File, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *FileRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.File, error) {
	q := interpret(specs)

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []*entity.File
	for _, f := range r.store.files {
		if matchFile(f, q) {
			item := f
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

func (r *FileRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	return int64(len(all)), err
}
