package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"kb-platform-be/internal/dto"
	"kb-platform-be/internal/entity"
	"kb-platform-be/internal/repository/specification"
	"kb-platform-be/internal/repository/unitofwork"
	"kb-platform-be/pkg/chunker"
	"kb-platform-be/pkg/embedding"
	"kb-platform-be/pkg/events"
	pktNats "kb-platform-be/pkg/nats"
	"kb-platform-be/pkg/parser"
	"kb-platform-be/pkg/storage"
	"kb-platform-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// Pipeline progress checkpoints. Parse covers 10-30, chunking 35-50,
// embedding 55-95, completion is 100.
const (
	progressParsing  = 10
	progressParsed   = 30
	progressChunking = 35
	progressChunked  = 50
	progressEmbed    = 55
	progressEmbedded = 95
	progressDone     = 100
)

type IPipelineService interface {
	Consume(ctx context.Context) error
	ProcessFile(ctx context.Context, msg *dto.PublishProcessFileMessage) error
}

type pipelineService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	uowFactory     unitofwork.RepositoryFactory
	parser         *parser.Parser
	embedder       *embedding.Embedder
	progressCache  *ProgressCache
	eventPublisher *pktNats.Publisher
}

func NewPipelineService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	docParser *parser.Parser,
	embedder *embedding.Embedder,
	progressCache *ProgressCache,
	eventPublisher *pktNats.Publisher,
) IPipelineService {
	return &pipelineService{
		pubSub:         pubSub,
		topicName:      topicName,
		uowFactory:     uowFactory,
		parser:         docParser,
		embedder:       embedder,
		progressCache:  progressCache,
		eventPublisher: eventPublisher,
	}
}

func (s *pipelineService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (s *pipelineService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishProcessFileMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal pipeline message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	// Failures are terminal and recorded on the task row; redelivery
	// would only rerun a finished task, so Ack either way.
	if err := s.ProcessFile(ctx, &payload); err != nil {
		log.Printf("[ERROR] Pipeline failed for file %s (task %s): %v", payload.FileId, payload.TaskId, err)
	}
	msg.Ack()
}

// ProcessFile runs the full ingestion pipeline for one file: parse,
// document insert, chunk, embed, persist. A parse failure leaves
// nothing behind; an embed failure keeps the document and chunks so a
// later run can re-embed.
func (s *pipelineService) ProcessFile(ctx context.Context, payload *dto.PublishProcessFileMessage) error {
	start := time.Now()
	uow := s.uowFactory.NewUnitOfWork(ctx)

	task, err := uow.AsyncTaskRepository().FindOne(ctx, specification.ByID{ID: payload.TaskId})
	if err != nil {
		return err
	}
	if task == nil {
		return fmt.Errorf("task %s not found", payload.TaskId)
	}

	file, err := uow.FileRepository().FindOne(ctx,
		specification.ByKey{Key: payload.FileId},
		specification.OwnedBy{UserId: payload.UserId},
	)
	if err != nil {
		return s.failTask(ctx, uow, task, start, err)
	}
	if file == nil {
		return s.failTask(ctx, uow, task, start, ErrFileNotFound)
	}

	// Stage 1: parse
	if err := s.markRunning(ctx, uow, task, progressParsing, "parsing file"); err != nil {
		return err
	}

	fileType, err := parser.ParseFileType(file.FileType)
	if err != nil {
		return s.failTask(ctx, uow, task, start, err)
	}

	blobKey := storage.ExtractKeyFromURL(file.Url)
	parsed, err := s.parser.Parse(ctx, blobKey, fileType)
	if err != nil {
		return s.failTask(ctx, uow, task, start, err)
	}
	s.snapshot(task, progressParsed, "parsed")

	// Stage 2: chunk
	s.snapshot(task, progressChunking, "chunking")

	title := parsed.Metadata.Title
	if title == "" {
		title = file.Name
	}

	document := entity.Document{
		Id:         utils.NewDocumentId(),
		Title:      title,
		Content:    parsed.Content,
		FileType:   file.FileType,
		Filename:   file.Name,
		SourceType: "file",
		Source:     file.Url,
		FileId:     file.Id,
		UserId:     payload.UserId,
		CreatedAt:  time.Now(),
		Metadata: map[string]interface{}{
			"page_count": parsed.Metadata.PageCount,
			"word_count": parsed.Metadata.WordCount,
		},
	}

	pieces := chunker.Split(parsed.Content, chunker.Options{})
	s.snapshot(task, progressChunked, fmt.Sprintf("%d chunks", len(pieces)))

	chunks := make([]*entity.Chunk, len(pieces))
	links := make([]*entity.DocumentChunk, len(pieces))
	now := time.Now()
	for i, piece := range pieces {
		chunks[i] = &entity.Chunk{
			Id:     uuid.New(),
			Text:   piece.Content,
			Index:  piece.Index,
			UserId: payload.UserId,
			Metadata: map[string]interface{}{
				"start_offset": piece.StartOffset,
				"end_offset":   piece.EndOffset,
				"char_count":   piece.CharCount,
			},
			CreatedAt: now,
		}
		links[i] = &entity.DocumentChunk{
			DocumentId: document.Id,
			ChunkId:    chunks[i].Id,
			UserId:     payload.UserId,
			CreatedAt:  now,
		}
	}

	// Persist the document and its chunks, replacing any previous
	// ingestion of the same file.
	if err := s.persistDocument(ctx, uow, file.Id, &document, chunks, links); err != nil {
		return s.failTask(ctx, uow, task, start, err)
	}

	// Stage 3: embed
	s.snapshot(task, progressEmbed, "embedding")

	if len(chunks) > 0 {
		texts := make([]string, len(chunks))
		for i, c := range chunks {
			texts[i] = c.Text
		}

		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			// Document and chunks stay; only the vectors are missing.
			return s.failTask(ctx, uow, task, start, err)
		}
		s.snapshot(task, progressEmbedded, "embedded")

		embeddings := make([]*entity.Embedding, len(vectors))
		for i, vec := range vectors {
			embeddings[i] = &entity.Embedding{
				Id:         uuid.New(),
				ChunkId:    chunks[i].Id,
				Embeddings: vec,
				Model:      s.embedder.Model(),
				UserId:     payload.UserId,
				CreatedAt:  now,
			}
		}

		if err := s.persistEmbeddings(ctx, uow, embeddings); err != nil {
			return s.failTask(ctx, uow, task, start, err)
		}
	}

	if err := s.completeTask(ctx, uow, task, start, len(chunks)); err != nil {
		return err
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: "FILE_PROCESSED",
			Data: map[string]interface{}{
				"file_id":     file.Id,
				"document_id": document.Id,
				"task_id":     task.Id,
				"user_id":     payload.UserId,
				"chunks":      len(chunks),
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			log.Printf("[WARN] Failed to publish FILE_PROCESSED event: %v", err)
		}
	}

	return nil
}

func (s *pipelineService) persistDocument(ctx context.Context, uow unitofwork.UnitOfWork, fileId string, document *entity.Document, chunks []*entity.Chunk, links []*entity.DocumentChunk) error {
	oldDocs, err := uow.DocumentRepository().FindAll(ctx, specification.Filter("file_id", fileId))
	if err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	for _, old := range oldDocs {
		if err := uow.EmbeddingRepository().DeleteByDocumentId(ctx, old.Id); err != nil {
			return err
		}
		if err := uow.ChunkRepository().DeleteByDocumentId(ctx, old.Id); err != nil {
			return err
		}
		if err := uow.DocumentRepository().Delete(ctx, old.Id); err != nil {
			return err
		}
	}

	if err := uow.DocumentRepository().Create(ctx, document); err != nil {
		return err
	}
	if err := uow.ChunkRepository().CreateBulk(ctx, chunks); err != nil {
		return err
	}
	if err := uow.DocumentRepository().CreateChunkLinksBulk(ctx, links); err != nil {
		return err
	}

	return uow.Commit()
}

func (s *pipelineService) persistEmbeddings(ctx context.Context, uow unitofwork.UnitOfWork, embeddings []*entity.Embedding) error {
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.EmbeddingRepository().CreateBulk(ctx, embeddings); err != nil {
		return err
	}
	return uow.Commit()
}

// snapshot records intermediate progress in the cache only; the task
// row is written at stage boundaries that must survive a crash.
func (s *pipelineService) snapshot(task *entity.AsyncTask, progress int, message string) {
	s.progressCache.Set(task.Id, progress, message)
}

func (s *pipelineService) markRunning(ctx context.Context, uow unitofwork.UnitOfWork, task *entity.AsyncTask, progress int, message string) error {
	now := time.Now()
	task.Status = entity.TaskStatusProcessing
	task.Progress = progress
	task.Message = message
	task.UpdatedAt = &now
	s.progressCache.Set(task.Id, progress, message)
	return uow.AsyncTaskRepository().Update(ctx, task)
}

func (s *pipelineService) completeTask(ctx context.Context, uow unitofwork.UnitOfWork, task *entity.AsyncTask, start time.Time, chunkCount int) error {
	now := time.Now()
	duration := now.Sub(start).Seconds()
	task.Status = entity.TaskStatusCompleted
	task.Progress = progressDone
	task.Message = fmt.Sprintf("processed %d chunks", chunkCount)
	task.Error = nil
	task.Duration = &duration
	task.UpdatedAt = &now
	s.progressCache.Delete(task.Id)
	return uow.AsyncTaskRepository().Update(ctx, task)
}

// failTask marks the task failed and returns the original error so the
// consumer can log it. Failed is terminal; a retry is a new task.
func (s *pipelineService) failTask(ctx context.Context, uow unitofwork.UnitOfWork, task *entity.AsyncTask, start time.Time, cause error) error {
	now := time.Now()
	duration := now.Sub(start).Seconds()
	task.Status = entity.TaskStatusFailed
	task.Error = &entity.TaskError{Message: cause.Error()}
	task.Duration = &duration
	task.UpdatedAt = &now
	s.progressCache.Delete(task.Id)
	if err := uow.AsyncTaskRepository().Update(ctx, task); err != nil {
		log.Printf("[ERROR] Failed to record task failure %s: %v", task.Id, err)
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: "FILE_FAILED",
			Data: map[string]interface{}{
				"task_id": task.Id,
				"user_id": task.UserId,
				"error":   cause.Error(),
			},
			OccurredAt: now,
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			log.Printf("[WARN] Failed to publish FILE_FAILED event: %v", err)
		}
	}

	return cause
}
