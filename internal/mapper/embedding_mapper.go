package mapper

import (
	"kb-platform-be/internal/entity"
	"kb-platform-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type EmbeddingMapper struct{}

func NewEmbeddingMapper() *EmbeddingMapper {
	return &EmbeddingMapper{}
}

func (m *EmbeddingMapper) ToEntity(e *model.Embedding) *entity.Embedding {
	if e == nil {
		return nil
	}

	return &entity.Embedding{
		Id:         e.Id,
		ChunkId:    e.ChunkId,
		Embeddings: e.Embeddings.Slice(),
		Model:      e.Model,
		UserId:     e.UserId,
		CreatedAt:  e.CreatedAt,
	}
}

func (m *EmbeddingMapper) ToModel(e *entity.Embedding) *model.Embedding {
	if e == nil {
		return nil
	}

	return &model.Embedding{
		Id:         e.Id,
		ChunkId:    e.ChunkId,
		Embeddings: pgvector.NewVector(e.Embeddings),
		Model:      e.Model,
		UserId:     e.UserId,
		CreatedAt:  e.CreatedAt,
	}
}

func (m *EmbeddingMapper) ToEntities(embeddings []*model.Embedding) []*entity.Embedding {
	entities := make([]*entity.Embedding, len(embeddings))
	for i, e := range embeddings {
		entities[i] = m.ToEntity(e)
	}
	return entities
}

func (m *EmbeddingMapper) ToModels(embeddings []*entity.Embedding) []*model.Embedding {
	models := make([]*model.Embedding, len(embeddings))
	for i, e := range embeddings {
		models[i] = m.ToModel(e)
	}
	return models
}
