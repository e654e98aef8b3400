package contract

import (
	"context"

	"kb-platform-be/internal/entity"
	"kb-platform-be/internal/repository/specification"
)

type DocumentRepository interface {
	Create(ctx context.Context, document *entity.Document) error
	Update(ctx context.Context, document *entity.Document) error
	Delete(ctx context.Context, id string) error
	DeleteByFileId(ctx context.Context, fileId string) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// Associations (document_chunks join table)
	CreateChunkLinksBulk(ctx context.Context, links []*entity.DocumentChunk) error
}
