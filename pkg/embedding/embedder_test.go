package embedding

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"
)

// mockProvider counts calls and can fail the first N of them.
type mockProvider struct {
	dims      int
	failFirst int
	calls     int
	batches   [][]string
}

func (m *mockProvider) Model() string   { return "mock-embed" }
func (m *mockProvider) Dimensions() int { return m.dims }

func (m *mockProvider) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.calls++
	m.batches = append(m.batches, texts)
	if m.calls <= m.failFirst {
		return nil, fmt.Errorf("transient failure %d", m.calls)
	}

	vectors := make([][]float32, len(texts))
	for i := range texts {
		v := make([]float32, m.dims)
		// Tag each vector with the length of its input so order is checkable.
		v[0] = float32(len(texts[i]))
		vectors[i] = v
	}
	return vectors, nil
}

func newTestEmbedder(p Provider) *Embedder {
	return NewEmbedder(p, WithRetryDelay(time.Millisecond))
}

func TestEmbedBatchRetriesTransientFailures(t *testing.T) {
	p := &mockProvider{dims: 4, failFirst: 2}
	e := newTestEmbedder(p)

	vectors, err := e.EmbedBatch(context.Background(), []string{"a", "bb"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vectors) != 2 {
		t.Fatalf("got %d vectors, want 2", len(vectors))
	}
	if p.calls != 3 {
		t.Errorf("provider calls = %d, want 3", p.calls)
	}
}

func TestEmbedBatchExhaustsRetryBudget(t *testing.T) {
	p := &mockProvider{dims: 4, failFirst: 3}
	e := newTestEmbedder(p)

	_, err := e.EmbedBatch(context.Background(), []string{"a"})

	var embedErr *EmbedError
	if !errors.As(err, &embedErr) {
		t.Fatalf("error = %v, want *EmbedError", err)
	}
	if p.calls != 3 {
		t.Errorf("provider calls = %d, want exactly 3", p.calls)
	}
}

func TestEmbedBatchPreservesInputOrder(t *testing.T) {
	p := &mockProvider{dims: 2}
	e := newTestEmbedder(p)

	texts := []string{"a", "bb", "ccc", "dddd"}
	vectors, err := e.EmbedBatch(context.Background(), texts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, text := range texts {
		if got := vectors[i][0]; got != float32(len(text)) {
			t.Errorf("vector %d tagged %v, want %d", i, got, len(text))
		}
	}
}

func TestEmbedBatchSplitsLargeInputs(t *testing.T) {
	p := &mockProvider{dims: 2}
	e := newTestEmbedder(p)

	texts := make([]string, 250)
	for i := range texts {
		texts[i] = "chunk"
	}

	vectors, err := e.EmbedBatch(context.Background(), texts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vectors) != 250 {
		t.Fatalf("got %d vectors, want 250", len(vectors))
	}
	if len(p.batches) != 3 {
		t.Fatalf("got %d batches, want 3", len(p.batches))
	}
	if len(p.batches[0]) != BatchSize || len(p.batches[1]) != BatchSize || len(p.batches[2]) != 50 {
		t.Errorf("batch sizes = %d/%d/%d, want 100/100/50",
			len(p.batches[0]), len(p.batches[1]), len(p.batches[2]))
	}
}

type wrongDimsProvider struct{}

func (wrongDimsProvider) Model() string   { return "bad" }
func (wrongDimsProvider) Dimensions() int { return 1024 }

func (wrongDimsProvider) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i := range vectors {
		vectors[i] = make([]float32, 768)
	}
	return vectors, nil
}

func TestEmbedBatchRejectsWrongDimensions(t *testing.T) {
	e := newTestEmbedder(wrongDimsProvider{})

	_, err := e.EmbedBatch(context.Background(), []string{"a"})

	var embedErr *EmbedError
	if !errors.As(err, &embedErr) {
		t.Fatalf("error = %v, want *EmbedError", err)
	}
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("error = %v, want ErrDimensionMismatch in chain", err)
	}
}

func TestEmbedBatchEmptyInput(t *testing.T) {
	p := &mockProvider{dims: 2}
	e := newTestEmbedder(p)

	vectors, err := e.EmbedBatch(context.Background(), nil)
	if err != nil || vectors != nil {
		t.Errorf("got (%v, %v), want (nil, nil)", vectors, err)
	}
	if p.calls != 0 {
		t.Errorf("provider called %d times for empty input", p.calls)
	}
}

func TestCosineSimilarity(t *testing.T) {
	a := []float32{1, 0, 0}
	b := []float32{0, 1, 0}

	if got, _ := CosineSimilarity(a, a); math.Abs(got-1) > 1e-9 {
		t.Errorf("self similarity = %v, want 1", got)
	}
	if got, _ := CosineSimilarity(a, b); math.Abs(got) > 1e-9 {
		t.Errorf("orthogonal similarity = %v, want 0", got)
	}

	neg := []float32{-1, 0, 0}
	if got, _ := CosineSimilarity(a, neg); math.Abs(got+1) > 1e-9 {
		t.Errorf("opposite similarity = %v, want -1", got)
	}

	ab, _ := CosineSimilarity(a, b)
	ba, _ := CosineSimilarity(b, a)
	if ab != ba {
		t.Errorf("similarity not symmetric: %v vs %v", ab, ba)
	}

	if _, err := CosineSimilarity(a, []float32{1, 2}); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("length mismatch error = %v, want ErrDimensionMismatch", err)
	}

	zero := []float32{0, 0, 0}
	if got, err := CosineSimilarity(a, zero); err != nil || got != 0 {
		t.Errorf("zero vector similarity = (%v, %v), want (0, nil)", got, err)
	}
}
