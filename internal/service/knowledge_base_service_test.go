package service

import (
	"context"
	"errors"
	"testing"

	"kb-platform-be/internal/dto"
	"kb-platform-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndListKnowledgeBases(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	userId := uuid.New()

	first, err := h.kbs.Create(ctx, userId, &dto.CreateKnowledgeBaseRequest{
		Name:        "research",
		Description: "papers and notes",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, first.Id)

	second, err := h.kbs.Create(ctx, userId, &dto.CreateKnowledgeBaseRequest{Name: "scratch"})
	require.NoError(t, err)

	h.uploadAndRegister(t, userId, first.Id, "a.txt", "txt", []byte("aaa"))
	h.uploadAndRegister(t, userId, first.Id, "b.txt", "txt", []byte("bbb"))

	list, err := h.kbs.List(ctx, userId)
	require.NoError(t, err)
	require.Len(t, list.KnowledgeBases, 2)

	byId := map[string]*dto.KnowledgeBaseResponse{}
	for _, kb := range list.KnowledgeBases {
		byId[kb.Id] = kb
	}
	assert.Equal(t, "research", byId[first.Id].Name)
	assert.Equal(t, "papers and notes", byId[first.Id].Description)
	assert.Equal(t, 2, byId[first.Id].FileCount)
	assert.Equal(t, 0, byId[second.Id].FileCount)
}

func TestListKnowledgeBasesScopedToOwner(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.createKnowledgeBase(t, uuid.New(), "theirs")

	list, err := h.kbs.List(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, list.KnowledgeBases)
}

func TestDeleteKnowledgeBaseKeepsFiles(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	userId := uuid.New()

	kbId := h.createKnowledgeBase(t, userId, "kb")
	resp := h.ingest(t, userId, kbId, "doc.txt", "txt", []byte("survives the base"))

	require.NoError(t, h.kbs.Delete(ctx, userId, kbId))

	uow := h.factory.NewUnitOfWork(ctx)

	kb, err := uow.KnowledgeBaseRepository().FindOne(ctx, specification.ByKey{Key: kbId})
	require.NoError(t, err)
	assert.Nil(t, kb)

	// The file and its ingested data stay; only DeleteFileData destroys
	// them.
	file, err := uow.FileRepository().FindOne(ctx, specification.ByKey{Key: resp.FileId})
	require.NoError(t, err)
	assert.NotNil(t, file)

	docs, err := uow.DocumentRepository().FindAll(ctx, specification.Filter("file_id", resp.FileId))
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestDeleteKnowledgeBaseScopedToOwner(t *testing.T) {
	h := newHarness(t)
	owner := uuid.New()

	kbId := h.createKnowledgeBase(t, owner, "kb")

	err := h.kbs.Delete(context.Background(), uuid.New(), kbId)
	assert.True(t, errors.Is(err, ErrKnowledgeBaseNotFound))
}

func TestListFilesReturnsRegisteredFiles(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	userId := uuid.New()

	kbId := h.createKnowledgeBase(t, userId, "kb")
	resp := h.uploadAndRegister(t, userId, kbId, "report.pdf", "pdf", []byte("%PDF-1.4 stub"))

	list, err := h.kbs.ListFiles(ctx, userId, kbId)
	require.NoError(t, err)
	require.Len(t, list.Files, 1)
	assert.Equal(t, resp.FileId, list.Files[0].Id)
	assert.Equal(t, "report.pdf", list.Files[0].Name)
	assert.Equal(t, "pdf", list.Files[0].FileType)
	require.NotNil(t, list.Files[0].ChunkTaskId)
	assert.Equal(t, resp.TaskId, *list.Files[0].ChunkTaskId)
}

func TestListFilesUnknownKnowledgeBase(t *testing.T) {
	h := newHarness(t)

	_, err := h.kbs.ListFiles(context.Background(), uuid.New(), "kb_missing")
	assert.True(t, errors.Is(err, ErrKnowledgeBaseNotFound))
}

func TestRegisterFileRejectsUnsupportedType(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	userId := uuid.New()

	kbId := h.createKnowledgeBase(t, userId, "kb")

	_, err := h.files.RegisterFile(ctx, userId, kbId, &dto.RegisterFileRequest{
		Name:     "binary.exe",
		FileType: "exe",
		Size:     1,
		Url:      "memory://local/uploads/binary.exe",
	})
	assert.Error(t, err)
}

func TestRegisterFileUnknownKnowledgeBase(t *testing.T) {
	h := newHarness(t)

	_, err := h.files.RegisterFile(context.Background(), uuid.New(), "kb_missing", &dto.RegisterFileRequest{
		Name:     "a.txt",
		FileType: "txt",
		Size:     1,
		Url:      "memory://local/uploads/a.txt",
	})
	assert.True(t, errors.Is(err, ErrKnowledgeBaseNotFound))
}
