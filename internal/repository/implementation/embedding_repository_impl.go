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

// embeddings columns: id, chunk_id, embeddings, model, user_id, created_at
const embeddingColumns = 6

type EmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.EmbeddingMapper
}

func NewEmbeddingRepository(db *gorm.DB) contract.EmbeddingRepository {
	return &EmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewEmbeddingMapper(),
	}
}

func (r *EmbeddingRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *EmbeddingRepositoryImpl) Create(ctx context.Context, embedding *entity.Embedding) error {
	m := r.mapper.ToModel(embedding)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*embedding = *r.mapper.ToEntity(m)
	return nil
}

func (r *EmbeddingRepositoryImpl) CreateBulk(ctx context.Context, embeddings []*entity.Embedding) error {
	if len(embeddings) == 0 {
		return nil
	}
	models := r.mapper.ToModels(embeddings)

	batch := bulkBatchSize(embeddingColumns)
	if err := r.db.WithContext(ctx).CreateInBatches(models, batch).Error; err != nil {
		return err
	}

	for i, m := range models {
		*embeddings[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *EmbeddingRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Embedding{}, id).Error
}

func (r *EmbeddingRepositoryImpl) DeleteByChunkIds(ctx context.Context, chunkIds []uuid.UUID) error {
	if len(chunkIds) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("chunk_id IN ?", chunkIds).Delete(&model.Embedding{}).Error
}

func (r *EmbeddingRepositoryImpl) DeleteByDocumentId(ctx context.Context, documentId string) error {
	subQuery := r.db.Table("document_chunks").Select("chunk_id").Where("document_id = ?", documentId)
	return r.db.WithContext(ctx).Where("chunk_id IN (?)", subQuery).Delete(&model.Embedding{}).Error
}

func (r *EmbeddingRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Embedding, error) {
	var m model.Embedding
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *EmbeddingRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Embedding, error) {
	var models []*model.Embedding
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *EmbeddingRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Embedding{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
