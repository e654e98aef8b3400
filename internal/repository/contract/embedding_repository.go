package contract

import (
	"context"

	"kb-platform-be/internal/entity"
	"kb-platform-be/internal/repository/specification"

	"github.com/google/uuid"
)

type EmbeddingRepository interface {
	Create(ctx context.Context, embedding *entity.Embedding) error
	CreateBulk(ctx context.Context, embeddings []*entity.Embedding) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByChunkIds(ctx context.Context, chunkIds []uuid.UUID) error
	DeleteByDocumentId(ctx context.Context, documentId string) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Embedding, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Embedding, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
