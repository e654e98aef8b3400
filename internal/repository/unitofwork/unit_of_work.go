package unitofwork

import (
	"context"

	"kb-platform-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	FileRepository() contract.FileRepository
	KnowledgeBaseRepository() contract.KnowledgeBaseRepository
	DocumentRepository() contract.DocumentRepository
	ChunkRepository() contract.ChunkRepository
	EmbeddingRepository() contract.EmbeddingRepository
	AsyncTaskRepository() contract.AsyncTaskRepository
	SearchRepository() contract.SearchRepository
}
