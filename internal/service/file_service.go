package service

import (
	"context"
	"time"

	"kb-platform-be/internal/dto"
	"kb-platform-be/internal/entity"
	"kb-platform-be/internal/repository/specification"
	"kb-platform-be/internal/repository/unitofwork"
	"kb-platform-be/pkg/parser"
	"kb-platform-be/pkg/utils"

	"github.com/google/uuid"
)

type IFileService interface {
	RegisterFile(ctx context.Context, userId uuid.UUID, knowledgeBaseId string, req *dto.RegisterFileRequest) (*dto.RegisterFileResponse, error)
	DeleteFile(ctx context.Context, userId uuid.UUID, fileId string) error
}

type fileService struct {
	uowFactory  unitofwork.RepositoryFactory
	taskService ITaskService
}

func NewFileService(
	uowFactory unitofwork.RepositoryFactory,
	taskService ITaskService,
) IFileService {
	return &fileService{
		uowFactory:  uowFactory,
		taskService: taskService,
	}
}

// RegisterFile records an uploaded blob as a file, attaches it to the
// knowledge base and kicks off ingestion.
func (s *fileService) RegisterFile(ctx context.Context, userId uuid.UUID, knowledgeBaseId string, req *dto.RegisterFileRequest) (*dto.RegisterFileResponse, error) {
	fileType, err := parser.ParseFileType(req.FileType)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	kb, err := uow.KnowledgeBaseRepository().FindOne(ctx,
		specification.ByKey{Key: knowledgeBaseId},
		specification.OwnedBy{UserId: userId},
	)
	if err != nil {
		return nil, err
	}
	if kb == nil {
		return nil, ErrKnowledgeBaseNotFound
	}

	now := time.Now()
	file := entity.File{
		Id:        utils.NewFileId(),
		UserId:    userId,
		FileType:  string(fileType),
		Name:      req.Name,
		Size:      req.Size,
		Url:       req.Url,
		Metadata:  req.Metadata,
		CreatedAt: now,
	}
	if err := uow.FileRepository().Create(ctx, &file); err != nil {
		return nil, err
	}

	link := entity.KnowledgeBaseFile{
		KnowledgeBaseId: knowledgeBaseId,
		FileId:          file.Id,
		UserId:          userId,
		CreatedAt:       now,
	}
	if err := uow.KnowledgeBaseRepository().LinkFile(ctx, &link); err != nil {
		return nil, err
	}

	taskId, err := s.taskService.CreateProcessTask(ctx, userId, file.Id)
	if err != nil {
		return nil, err
	}

	return &dto.RegisterFileResponse{
		FileId: file.Id,
		TaskId: taskId,
	}, nil
}

func (s *fileService) DeleteFile(ctx context.Context, userId uuid.UUID, fileId string) error {
	return s.taskService.DeleteFileData(ctx, userId, fileId)
}
