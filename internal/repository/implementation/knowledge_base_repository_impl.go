package implementation

import (
	"context"
	"errors"

	"kb-platform-be/internal/entity"
	"kb-platform-be/internal/mapper"
	"kb-platform-be/internal/model"
	"kb-platform-be/internal/repository/contract"
	"kb-platform-be/internal/repository/specification"

	"gorm.io/gorm"
)

type KnowledgeBaseRepositoryImpl struct {
	db         *gorm.DB
	mapper     *mapper.KnowledgeBaseMapper
	fileMapper *mapper.FileMapper
}

func NewKnowledgeBaseRepository(db *gorm.DB) contract.KnowledgeBaseRepository {
	return &KnowledgeBaseRepositoryImpl{
		db:         db,
		mapper:     mapper.NewKnowledgeBaseMapper(),
		fileMapper: mapper.NewFileMapper(),
	}
}

func (r *KnowledgeBaseRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *KnowledgeBaseRepositoryImpl) Create(ctx context.Context, kb *entity.KnowledgeBase) error {
	m := r.mapper.ToModel(kb)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*kb = *r.mapper.ToEntity(m)
	return nil
}

func (r *KnowledgeBaseRepositoryImpl) Update(ctx context.Context, kb *entity.KnowledgeBase) error {
	m := r.mapper.ToModel(kb)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*kb = *r.mapper.ToEntity(m)
	return nil
}

func (r *KnowledgeBaseRepositoryImpl) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.KnowledgeBase{}).Error
}

func (r *KnowledgeBaseRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.KnowledgeBase, error) {
	var m model.KnowledgeBase
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *KnowledgeBaseRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.KnowledgeBase, error) {
	var models []*model.KnowledgeBase
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.KnowledgeBase, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *KnowledgeBaseRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.KnowledgeBase{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *KnowledgeBaseRepositoryImpl) LinkFile(ctx context.Context, link *entity.KnowledgeBaseFile) error {
	m := r.mapper.AssociationToModel(link)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*link = *r.mapper.AssociationToEntity(m)
	return nil
}

func (r *KnowledgeBaseRepositoryImpl) UnlinkFile(ctx context.Context, knowledgeBaseId, fileId string) error {
	return r.db.WithContext(ctx).
		Where("knowledge_base_id = ? AND file_id = ?", knowledgeBaseId, fileId).
		Delete(&model.KnowledgeBaseFile{}).Error
}

func (r *KnowledgeBaseRepositoryImpl) UnlinkFileEverywhere(ctx context.Context, fileId string) error {
	return r.db.WithContext(ctx).
		Where("file_id = ?", fileId).
		Delete(&model.KnowledgeBaseFile{}).Error
}

func (r *KnowledgeBaseRepositoryImpl) FindFiles(ctx context.Context, knowledgeBaseId string) ([]*entity.File, error) {
	var models []*model.File
	err := r.db.WithContext(ctx).
		Joins("JOIN knowledge_base_files ON knowledge_base_files.file_id = files.id").
		Where("knowledge_base_files.knowledge_base_id = ?", knowledgeBaseId).
		Order("knowledge_base_files.created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	entities := make([]*entity.File, len(models))
	for i, m := range models {
		entities[i] = r.fileMapper.ToEntity(m)
	}
	return entities, nil
}
