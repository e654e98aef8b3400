package service

import (
	"context"
	"errors"
	"testing"

	"kb-platform-be/internal/dto"
	"kb-platform-be/internal/entity"
	"kb-platform-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineProcessesTextFile(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	userId := uuid.New()

	kbId := h.createKnowledgeBase(t, userId, "research")
	resp := h.uploadAndRegister(t, userId, kbId, "notes.txt", "txt", []byte("The quick brown fox jumps over the lazy dog."))

	msg := h.lastPublished(t)
	assert.Equal(t, resp.FileId, msg.FileId)
	assert.Equal(t, resp.TaskId, msg.TaskId)
	assert.Equal(t, userId, msg.UserId)

	require.NoError(t, h.pipeline.ProcessFile(ctx, msg))

	status, err := h.tasks.GetTaskStatus(ctx, userId, resp.TaskId)
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, string(entity.TaskStatusCompleted), status.Status)
	assert.Equal(t, 100, status.Progress)
	assert.Nil(t, status.Error)
	require.NotNil(t, status.Duration)
	assert.GreaterOrEqual(t, *status.Duration, 0.0)

	uow := h.factory.NewUnitOfWork(ctx)
	docs, err := uow.DocumentRepository().FindAll(ctx, specification.Filter("file_id", resp.FileId))
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "notes.txt", docs[0].Title)
	assert.Equal(t, userId, docs[0].UserId)

	chunks, err := uow.ChunkRepository().FindByDocumentId(ctx, docs[0].Id)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
		assert.Equal(t, userId, c.UserId)
	}

	embeddings, err := uow.EmbeddingRepository().FindAll(ctx, specification.OwnedBy{UserId: userId})
	require.NoError(t, err)
	assert.Len(t, embeddings, len(chunks))
	assert.Equal(t, "stub-embed", embeddings[0].Model)
}

func TestPipelineParseFailureLeavesNothingPersisted(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	userId := uuid.New()

	kbId := h.createKnowledgeBase(t, userId, "kb")

	// Register a file whose blob was never uploaded; the parse stage
	// fails on the blob read.
	resp, err := h.files.RegisterFile(ctx, userId, kbId, &dto.RegisterFileRequest{
		Name:     "ghost.txt",
		FileType: "txt",
		Size:     10,
		Url:      "memory://local/uploads/ghost.txt",
	})
	require.NoError(t, err)

	err = h.pipeline.ProcessFile(ctx, h.lastPublished(t))
	require.Error(t, err)

	status, err := h.tasks.GetTaskStatus(ctx, userId, resp.TaskId)
	require.NoError(t, err)
	assert.Equal(t, string(entity.TaskStatusFailed), status.Status)
	require.NotNil(t, status.Error)

	uow := h.factory.NewUnitOfWork(ctx)
	docs, err := uow.DocumentRepository().FindAll(ctx, specification.Filter("file_id", resp.FileId))
	require.NoError(t, err)
	assert.Empty(t, docs)

	chunks, err := uow.ChunkRepository().FindAll(ctx, specification.OwnedBy{UserId: userId})
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestPipelineEmbedFailureKeepsDocumentAndChunks(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	userId := uuid.New()

	kbId := h.createKnowledgeBase(t, userId, "kb")
	resp := h.uploadAndRegister(t, userId, kbId, "doc.txt", "txt", []byte("some embeddable text"))

	h.provider.failAll = true
	err := h.pipeline.ProcessFile(ctx, h.lastPublished(t))
	require.Error(t, err)

	status, err := h.tasks.GetTaskStatus(ctx, userId, resp.TaskId)
	require.NoError(t, err)
	assert.Equal(t, string(entity.TaskStatusFailed), status.Status)
	require.NotNil(t, status.Error)

	uow := h.factory.NewUnitOfWork(ctx)
	docs, err := uow.DocumentRepository().FindAll(ctx, specification.Filter("file_id", resp.FileId))
	require.NoError(t, err)
	require.Len(t, docs, 1)

	chunks, err := uow.ChunkRepository().FindByDocumentId(ctx, docs[0].Id)
	require.NoError(t, err)
	assert.NotEmpty(t, chunks)

	embeddings, err := uow.EmbeddingRepository().FindAll(ctx, specification.OwnedBy{UserId: userId})
	require.NoError(t, err)
	assert.Empty(t, embeddings)
}

func TestPipelineReingestReplacesPreviousDocument(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	userId := uuid.New()

	kbId := h.createKnowledgeBase(t, userId, "kb")
	resp := h.ingest(t, userId, kbId, "doc.txt", "txt", []byte("first version"))

	// Reprocess the same file.
	taskId, err := h.tasks.CreateProcessTask(ctx, userId, resp.FileId)
	require.NoError(t, err)
	require.NoError(t, h.pipeline.ProcessFile(ctx, h.lastPublished(t)))

	status, err := h.tasks.GetTaskStatus(ctx, userId, taskId)
	require.NoError(t, err)
	assert.Equal(t, string(entity.TaskStatusCompleted), status.Status)

	uow := h.factory.NewUnitOfWork(ctx)
	docs, err := uow.DocumentRepository().FindAll(ctx, specification.Filter("file_id", resp.FileId))
	require.NoError(t, err)
	assert.Len(t, docs, 1, "reingestion must replace, not accumulate")
}

func TestGetTaskStatusPrefersFresherSnapshot(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	userId := uuid.New()

	kbId := h.createKnowledgeBase(t, userId, "kb")
	resp := h.uploadAndRegister(t, userId, kbId, "doc.txt", "txt", []byte("text"))

	// Simulate a running pipeline that has written a snapshot past the
	// last task-row update.
	h.progress.Set(resp.TaskId, 50, "chunking")

	status, err := h.tasks.GetTaskStatus(ctx, userId, resp.TaskId)
	require.NoError(t, err)
	assert.Equal(t, 50, status.Progress)
	assert.Equal(t, "chunking", status.Message)
}

func TestGetTaskStatusScopedToOwner(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := uuid.New()

	kbId := h.createKnowledgeBase(t, owner, "kb")
	resp := h.uploadAndRegister(t, owner, kbId, "doc.txt", "txt", []byte("text"))

	status, err := h.tasks.GetTaskStatus(ctx, uuid.New(), resp.TaskId)
	require.NoError(t, err)
	assert.Nil(t, status, "foreign task must be invisible")
}

func TestCreateProcessTaskUnknownFile(t *testing.T) {
	h := newHarness(t)

	_, err := h.tasks.CreateProcessTask(context.Background(), uuid.New(), "file_missing")
	assert.True(t, errors.Is(err, ErrFileNotFound))
}

func TestDeleteFileDataRemovesEverything(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	userId := uuid.New()

	kbId := h.createKnowledgeBase(t, userId, "kb")
	resp := h.ingest(t, userId, kbId, "doc.txt", "txt", []byte("content to be removed"))

	require.NoError(t, h.tasks.DeleteFileData(ctx, userId, resp.FileId))

	uow := h.factory.NewUnitOfWork(ctx)

	file, err := uow.FileRepository().FindOne(ctx, specification.ByKey{Key: resp.FileId})
	require.NoError(t, err)
	assert.Nil(t, file)

	docs, err := uow.DocumentRepository().FindAll(ctx, specification.Filter("file_id", resp.FileId))
	require.NoError(t, err)
	assert.Empty(t, docs)

	chunks, err := uow.ChunkRepository().FindAll(ctx, specification.OwnedBy{UserId: userId})
	require.NoError(t, err)
	assert.Empty(t, chunks)

	embeddings, err := uow.EmbeddingRepository().FindAll(ctx, specification.OwnedBy{UserId: userId})
	require.NoError(t, err)
	assert.Empty(t, embeddings)

	kbFiles, err := uow.KnowledgeBaseRepository().FindFiles(ctx, kbId)
	require.NoError(t, err)
	assert.Empty(t, kbFiles)

	_, err = h.blobs.Get(ctx, "uploads/doc.txt")
	assert.Error(t, err, "blob must be deleted")
}

func TestDeleteFileDataScopedToOwner(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := uuid.New()

	kbId := h.createKnowledgeBase(t, owner, "kb")
	resp := h.ingest(t, owner, kbId, "doc.txt", "txt", []byte("content"))

	err := h.tasks.DeleteFileData(ctx, uuid.New(), resp.FileId)
	assert.True(t, errors.Is(err, ErrFileNotFound))
}
