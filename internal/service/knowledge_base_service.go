package service

import (
	"context"
	"log"
	"time"

	"kb-platform-be/internal/dto"
	"kb-platform-be/internal/entity"
	"kb-platform-be/internal/repository/specification"
	"kb-platform-be/internal/repository/unitofwork"
	"kb-platform-be/pkg/events"
	pktNats "kb-platform-be/pkg/nats"
	"kb-platform-be/pkg/utils"

	"github.com/google/uuid"
)

type IKnowledgeBaseService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateKnowledgeBaseRequest) (*dto.CreateKnowledgeBaseResponse, error)
	List(ctx context.Context, userId uuid.UUID) (*dto.ListKnowledgeBasesResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id string) error
	ListFiles(ctx context.Context, userId uuid.UUID, id string) (*dto.ListFilesResponse, error)
}

type knowledgeBaseService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
}

func NewKnowledgeBaseService(
	uowFactory unitofwork.RepositoryFactory,
	eventPublisher *pktNats.Publisher,
) IKnowledgeBaseService {
	return &knowledgeBaseService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
	}
}

func (s *knowledgeBaseService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateKnowledgeBaseRequest) (*dto.CreateKnowledgeBaseResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	kb := entity.KnowledgeBase{
		Id:          utils.NewKnowledgeBaseId(),
		Name:        req.Name,
		Description: req.Description,
		Settings:    req.Settings,
		UserId:      userId,
		CreatedAt:   time.Now(),
	}
	if err := uow.KnowledgeBaseRepository().Create(ctx, &kb); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: "KNOWLEDGE_BASE_CREATED",
			Data: map[string]interface{}{
				"knowledge_base_id": kb.Id,
				"name":              kb.Name,
				"user_id":           userId,
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			log.Printf("[WARN] Failed to publish KNOWLEDGE_BASE_CREATED event: %v", err)
		}
	}

	return &dto.CreateKnowledgeBaseResponse{Id: kb.Id}, nil
}

func (s *knowledgeBaseService) List(ctx context.Context, userId uuid.UUID) (*dto.ListKnowledgeBasesResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	kbs, err := uow.KnowledgeBaseRepository().FindAll(ctx,
		specification.OwnedBy{UserId: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.KnowledgeBaseResponse, len(kbs))
	for i, kb := range kbs {
		files, err := uow.KnowledgeBaseRepository().FindFiles(ctx, kb.Id)
		if err != nil {
			return nil, err
		}
		out[i] = &dto.KnowledgeBaseResponse{
			Id:          kb.Id,
			Name:        kb.Name,
			Description: kb.Description,
			Settings:    kb.Settings,
			FileCount:   len(files),
			CreatedAt:   kb.CreatedAt,
			UpdatedAt:   kb.UpdatedAt,
		}
	}
	return &dto.ListKnowledgeBasesResponse{KnowledgeBases: out}, nil
}

// Delete removes the knowledge base and its file links. Files and
// their ingested data survive; a file can belong to other bases and
// is destroyed only through DeleteFileData.
func (s *knowledgeBaseService) Delete(ctx context.Context, userId uuid.UUID, id string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	kb, err := uow.KnowledgeBaseRepository().FindOne(ctx,
		specification.ByKey{Key: id},
		specification.OwnedBy{UserId: userId},
	)
	if err != nil {
		return err
	}
	if kb == nil {
		return ErrKnowledgeBaseNotFound
	}

	return uow.KnowledgeBaseRepository().Delete(ctx, id)
}

func (s *knowledgeBaseService) ListFiles(ctx context.Context, userId uuid.UUID, id string) (*dto.ListFilesResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	kb, err := uow.KnowledgeBaseRepository().FindOne(ctx,
		specification.ByKey{Key: id},
		specification.OwnedBy{UserId: userId},
	)
	if err != nil {
		return nil, err
	}
	if kb == nil {
		return nil, ErrKnowledgeBaseNotFound
	}

	files, err := uow.KnowledgeBaseRepository().FindFiles(ctx, id)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.FileResponse, len(files))
	for i, f := range files {
		out[i] = &dto.FileResponse{
			Id:          f.Id,
			Name:        f.Name,
			FileType:    f.FileType,
			Size:        f.Size,
			Url:         f.Url,
			Metadata:    f.Metadata,
			ChunkTaskId: f.ChunkTaskId,
			CreatedAt:   f.CreatedAt,
		}
	}
	return &dto.ListFilesResponse{Files: out}, nil
}
