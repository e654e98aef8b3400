package implementation

import (
	"context"
	"errors"

	"kb-platform-be/internal/entity"
	"kb-platform-be/internal/mapper"
	"kb-platform-be/internal/model"
	"kb-platform-be/internal/repository/contract"
	"kb-platform-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AsyncTaskRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AsyncTaskMapper
}

func NewAsyncTaskRepository(db *gorm.DB) contract.AsyncTaskRepository {
	return &AsyncTaskRepositoryImpl{
		db:     db,
		mapper: mapper.NewAsyncTaskMapper(),
	}
}

func (r *AsyncTaskRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *AsyncTaskRepositoryImpl) Create(ctx context.Context, task *entity.AsyncTask) error {
	m := r.mapper.ToModel(task)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*task = *r.mapper.ToEntity(m)
	return nil
}

func (r *AsyncTaskRepositoryImpl) Update(ctx context.Context, task *entity.AsyncTask) error {
	m := r.mapper.ToModel(task)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*task = *r.mapper.ToEntity(m)
	return nil
}

func (r *AsyncTaskRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.AsyncTask{}, id).Error
}

func (r *AsyncTaskRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AsyncTask, error) {
	var m model.AsyncTask
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *AsyncTaskRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AsyncTask, error) {
	var models []*model.AsyncTask
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.AsyncTask, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *AsyncTaskRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.AsyncTask{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
