package contract

import (
	"context"

	"kb-platform-be/internal/entity"
	"kb-platform-be/internal/repository/specification"

	"github.com/google/uuid"
)

type AsyncTaskRepository interface {
	Create(ctx context.Context, task *entity.AsyncTask) error
	Update(ctx context.Context, task *entity.AsyncTask) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AsyncTask, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AsyncTask, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
