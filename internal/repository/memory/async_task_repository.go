package memory

import (
	"context"
	"sort"

	"kb-platform-be/internal/entity"
	"kb-platform-be/internal/repository/contract"
	"kb-platform-be/internal/repository/specification"

	"github.com/google/uuid"
)

type AsyncTaskRepository struct {
	store *Store
}

func NewAsyncTaskRepository(store *Store) contract.AsyncTaskRepository {
	return &AsyncTaskRepository{store: store}
}

func matchTask(t entity.AsyncTask, q query) bool {
	if v, ok := q.want("id"); ok && t.Id != v.(uuid.UUID) {
		return false
	}
	if v, ok := q.want("user_id"); ok && t.UserId != v.(uuid.UUID) {
		return false
	}
	if v, ok := q.want("type"); ok && t.Type != v.(string) {
		return false
	}
	if v, ok := q.want("status"); ok && string(t.Status) != v.(string) {
		return false
	}
	return true
}

func (r *AsyncTaskRepository) Create(ctx context.Context, task *entity.AsyncTask) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if task.Id == uuid.Nil {
		task.Id = uuid.New()
	}
	r.store.tasks[task.Id] = *task
	return nil
}

func (r *AsyncTaskRepository) Update(ctx context.Context, task *entity.AsyncTask) error {
	return r.Create(ctx, task)
}

func (r *AsyncTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.tasks, id)
	return nil
}

func (r *AsyncTaskRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AsyncTask, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *AsyncTaskRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AsyncTask, error) {
	q := interpret(specs)

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []*entity.AsyncTask
	for _, t := range r.store.tasks {
		if matchTask(t, q) {
			item := t
			out = append(out, &item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Id.String() < out[j].Id.String()
	})
	return paginate(out, q), nil
}

func (r *AsyncTaskRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	return int64(len(all)), err
}
