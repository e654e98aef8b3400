package service

import (
	"context"
	"encoding/json"
	"errors"
	"hash/fnv"
	"testing"
	"time"

	"kb-platform-be/internal/dto"
	"kb-platform-be/internal/repository/memory"
	"kb-platform-be/pkg/embedding"
	"kb-platform-be/pkg/parser"
	"kb-platform-be/pkg/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// stubProvider returns canned vectors for known texts and a
// deterministic hash-derived vector otherwise.
type stubProvider struct {
	dims    int
	vectors map[string][]float32
	failAll bool
	calls   int
}

func (p *stubProvider) Model() string   { return "stub-embed" }
func (p *stubProvider) Dimensions() int { return p.dims }

func (p *stubProvider) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	p.calls++
	if p.failAll {
		return nil, errors.New("provider down")
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if v, ok := p.vectors[text]; ok {
			out[i] = v
			continue
		}
		out[i] = hashVector(text, p.dims)
	}
	return out, nil
}

func hashVector(text string, dims int) []float32 {
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()
	v := make([]float32, dims)
	for i := range v {
		seed = seed*1664525 + 1013904223
		v[i] = float32(seed%1000)/1000 - 0.5
	}
	return v
}

type capturingPublisher struct {
	payloads [][]byte
}

func (c *capturingPublisher) Publish(_ context.Context, payload []byte) error {
	c.payloads = append(c.payloads, payload)
	return nil
}

type harness struct {
	store    *memory.Store
	factory  *memory.Factory
	blobs    storage.BlobStore
	provider *stubProvider

	publisher *capturingPublisher
	progress  *ProgressCache

	tasks    ITaskService
	files    IFileService
	kbs      IKnowledgeBaseService
	pipeline IPipelineService
	search   ISearchService
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	store := memory.NewStore()
	factory := memory.NewFactory(store)
	blobs := storage.NewMemoryStore()
	provider := &stubProvider{dims: 8, vectors: map[string][]float32{}}
	embedder := embedding.NewEmbedder(provider, embedding.WithRetryDelay(time.Millisecond))
	progress := NewProgressCache()
	publisher := &capturingPublisher{}

	tasks := NewTaskService(factory, publisher, progress, blobs)

	return &harness{
		store:     store,
		factory:   factory,
		blobs:     blobs,
		provider:  provider,
		publisher: publisher,
		progress:  progress,
		tasks:     tasks,
		files:     NewFileService(factory, tasks),
		kbs:       NewKnowledgeBaseService(factory, nil),
		pipeline:  NewPipelineService(nil, "test-topic", factory, parser.New(blobs), embedder, progress, nil),
		search:    NewSearchService(factory, embedder, nil),
	}
}

func (h *harness) createKnowledgeBase(t *testing.T, userId uuid.UUID, name string) string {
	t.Helper()
	resp, err := h.kbs.Create(context.Background(), userId, &dto.CreateKnowledgeBaseRequest{Name: name})
	require.NoError(t, err)
	return resp.Id
}

// uploadAndRegister puts a blob in storage, registers it as a file in
// the knowledge base and returns the registration response.
func (h *harness) uploadAndRegister(t *testing.T, userId uuid.UUID, kbId, name, fileType string, content []byte) *dto.RegisterFileResponse {
	t.Helper()
	ctx := context.Background()

	url, err := h.blobs.Put(ctx, "uploads/"+name, content, "application/octet-stream")
	require.NoError(t, err)

	resp, err := h.files.RegisterFile(ctx, userId, kbId, &dto.RegisterFileRequest{
		Name:     name,
		FileType: fileType,
		Size:     int64(len(content)),
		Url:      url,
	})
	require.NoError(t, err)
	return resp
}

func (h *harness) lastPublished(t *testing.T) *dto.PublishProcessFileMessage {
	t.Helper()
	require.NotEmpty(t, h.publisher.payloads)
	var msg dto.PublishProcessFileMessage
	require.NoError(t, json.Unmarshal(h.publisher.payloads[len(h.publisher.payloads)-1], &msg))
	return &msg
}

// ingest runs upload, registration and the pipeline synchronously.
func (h *harness) ingest(t *testing.T, userId uuid.UUID, kbId, name, fileType string, content []byte) *dto.RegisterFileResponse {
	t.Helper()
	resp := h.uploadAndRegister(t, userId, kbId, name, fileType, content)
	require.NoError(t, h.pipeline.ProcessFile(context.Background(), h.lastPublished(t)))
	return resp
}
