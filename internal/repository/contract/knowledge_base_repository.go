package contract

import (
	"context"

	"kb-platform-be/internal/entity"
	"kb-platform-be/internal/repository/specification"
)

type KnowledgeBaseRepository interface {
	Create(ctx context.Context, kb *entity.KnowledgeBase) error
	Update(ctx context.Context, kb *entity.KnowledgeBase) error
	Delete(ctx context.Context, id string) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.KnowledgeBase, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.KnowledgeBase, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// Membership (knowledge_base_files join table)
	LinkFile(ctx context.Context, link *entity.KnowledgeBaseFile) error
	UnlinkFile(ctx context.Context, knowledgeBaseId, fileId string) error
	UnlinkFileEverywhere(ctx context.Context, fileId string) error
	FindFiles(ctx context.Context, knowledgeBaseId string) ([]*entity.File, error)
}
