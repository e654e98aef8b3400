package memory

import (
	"context"

	"kb-platform-be/internal/repository/contract"
	"kb-platform-be/internal/repository/unitofwork"
)

// UnitOfWork hands out repositories over one shared Store. Begin,
// Commit and Rollback are accepted but not transactional; tests that
// need rollback semantics assert on the store contents instead.
type UnitOfWork struct {
	store *Store
}

func NewUnitOfWork(store *Store) *UnitOfWork {
	return &UnitOfWork{store: store}
}

type Factory struct {
	store *Store
}

func NewFactory(store *Store) *Factory {
	return &Factory{store: store}
}

func (f *Factory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return NewUnitOfWork(f.store)
}

func (u *UnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *UnitOfWork) Commit() error                   { return nil }
func (u *UnitOfWork) Rollback() error                 { return nil }

func (u *UnitOfWork) FileRepository() contract.FileRepository {
	return NewFileRepository(u.store)
}

func (u *UnitOfWork) KnowledgeBaseRepository() contract.KnowledgeBaseRepository {
	return NewKnowledgeBaseRepository(u.store)
}

func (u *UnitOfWork) DocumentRepository() contract.DocumentRepository {
	return NewDocumentRepository(u.store)
}

func (u *UnitOfWork) ChunkRepository() contract.ChunkRepository {
	return NewChunkRepository(u.store)
}

func (u *UnitOfWork) EmbeddingRepository() contract.EmbeddingRepository {
	return NewEmbeddingRepository(u.store)
}

func (u *UnitOfWork) AsyncTaskRepository() contract.AsyncTaskRepository {
	return NewAsyncTaskRepository(u.store)
}

func (u *UnitOfWork) SearchRepository() contract.SearchRepository {
	return NewSearchRepository(u.store)
}
