package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"kb-platform-be/internal/dto"
	"kb-platform-be/internal/entity"
	"kb-platform-be/internal/repository/specification"
	"kb-platform-be/internal/repository/unitofwork"
	"kb-platform-be/pkg/storage"

	"github.com/google/uuid"
)

const TaskTypeProcessFile = "file_processing"

var (
	ErrFileNotFound          = errors.New("file not found")
	ErrKnowledgeBaseNotFound = errors.New("knowledge base not found")
)

type ITaskService interface {
	CreateProcessTask(ctx context.Context, userId uuid.UUID, fileId string) (uuid.UUID, error)
	GetTaskStatus(ctx context.Context, userId uuid.UUID, taskId uuid.UUID) (*dto.TaskStatusResponse, error)
	DeleteFileData(ctx context.Context, userId uuid.UUID, fileId string) error
}

type taskService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	progressCache    *ProgressCache
	blobs            storage.BlobStore
}

func NewTaskService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	progressCache *ProgressCache,
	blobs storage.BlobStore,
) ITaskService {
	return &taskService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		progressCache:    progressCache,
		blobs:            blobs,
	}
}

// CreateProcessTask inserts a pending task, links it to the file and
// fires the pipeline message. The caller gets the task id immediately
// and polls GetTaskStatus for progress.
func (s *taskService) CreateProcessTask(ctx context.Context, userId uuid.UUID, fileId string) (uuid.UUID, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	file, err := uow.FileRepository().FindOne(ctx,
		specification.ByKey{Key: fileId},
		specification.OwnedBy{UserId: userId},
	)
	if err != nil {
		return uuid.Nil, err
	}
	if file == nil {
		return uuid.Nil, ErrFileNotFound
	}

	task := entity.AsyncTask{
		Id:        uuid.New(),
		Type:      TaskTypeProcessFile,
		Status:    entity.TaskStatusPending,
		Progress:  0,
		Message:   "queued",
		UserId:    userId,
		CreatedAt: time.Now(),
	}
	if err := uow.AsyncTaskRepository().Create(ctx, &task); err != nil {
		return uuid.Nil, err
	}

	file.ChunkTaskId = &task.Id
	if err := uow.FileRepository().Update(ctx, file); err != nil {
		return uuid.Nil, err
	}

	payload := dto.PublishProcessFileMessage{
		FileId: file.Id,
		TaskId: task.Id,
		UserId: userId,
	}
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return uuid.Nil, err
	}
	if err := s.publisherService.Publish(ctx, payloadJson); err != nil {
		return uuid.Nil, err
	}

	return task.Id, nil
}

func (s *taskService) GetTaskStatus(ctx context.Context, userId uuid.UUID, taskId uuid.UUID) (*dto.TaskStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	task, err := uow.AsyncTaskRepository().FindOne(ctx,
		specification.ByID{ID: taskId},
		specification.OwnedBy{UserId: userId},
	)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, nil // Not found
	}

	progress := task.Progress
	message := task.Message
	// A running pipeline pushes snapshots between task-row writes; show
	// the freshest position while the task is still live.
	if !task.Status.Terminal() {
		if snap, ok := s.progressCache.Get(task.Id); ok && snap.Progress > progress {
			progress = snap.Progress
			message = snap.Message
		}
	}

	var errMsg *string
	if task.Error != nil {
		m := task.Error.Message
		errMsg = &m
	}

	return &dto.TaskStatusResponse{
		Id:        task.Id,
		Type:      task.Type,
		Status:    string(task.Status),
		Progress:  progress,
		Message:   message,
		Error:     errMsg,
		Duration:  task.Duration,
		CreatedAt: task.CreatedAt,
		UpdatedAt: task.UpdatedAt,
	}, nil
}

// DeleteFileData removes everything derived from a file: embeddings,
// chunks, document associations, documents, knowledge base links, the
// file row and finally the blob itself.
func (s *taskService) DeleteFileData(ctx context.Context, userId uuid.UUID, fileId string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	file, err := uow.FileRepository().FindOne(ctx,
		specification.ByKey{Key: fileId},
		specification.OwnedBy{UserId: userId},
	)
	if err != nil {
		return err
	}
	if file == nil {
		return ErrFileNotFound
	}

	documents, err := uow.DocumentRepository().FindAll(ctx,
		specification.Filter("file_id", fileId),
	)
	if err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	for _, doc := range documents {
		if err := uow.EmbeddingRepository().DeleteByDocumentId(ctx, doc.Id); err != nil {
			return err
		}
		if err := uow.ChunkRepository().DeleteByDocumentId(ctx, doc.Id); err != nil {
			return err
		}
		if err := uow.DocumentRepository().Delete(ctx, doc.Id); err != nil {
			return err
		}
	}

	if err := uow.KnowledgeBaseRepository().UnlinkFileEverywhere(ctx, fileId); err != nil {
		return err
	}
	if err := uow.FileRepository().Delete(ctx, fileId); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	// Blob removal is best effort; orphaned objects are reclaimable
	// out of band and must not resurrect the DB rows.
	if key := storage.ExtractKeyFromURL(file.Url); key != "" {
		if err := s.blobs.Delete(ctx, key); err != nil {
			log.Printf("[WARN] Failed to delete blob %s for file %s: %v", key, fileId, err)
		}
	}

	return nil
}
