package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	// BatchSize caps texts per provider call (provider batch limits).
	BatchSize = 100

	maxRetries     = 3
	retryBaseDelay = time.Second
)

var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// EmbedError marks an embedding run that exhausted its retry budget (or
// produced invalid vectors). Terminal for the pipeline run that hit it.
type EmbedError struct {
	Err error
}

func (e *EmbedError) Error() string {
	return fmt.Sprintf("embedding failed: %v", e.Err)
}

func (e *EmbedError) Unwrap() error {
	return e.Err
}

// Embedder wraps a Provider with batching, retry-with-backoff and
// dimension validation.
type Embedder struct {
	provider   Provider
	retryDelay time.Duration
}

type Option func(*Embedder)

// WithRetryDelay overrides the base backoff delay. Mainly for tests.
func WithRetryDelay(d time.Duration) Option {
	return func(e *Embedder) {
		e.retryDelay = d
	}
}

func NewEmbedder(provider Provider, opts ...Option) *Embedder {
	e := &Embedder{
		provider:   provider,
		retryDelay: retryBaseDelay,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Embedder) Model() string {
	return e.provider.Model()
}

func (e *Embedder) Dimensions() int {
	return e.provider.Dimensions()
}

// Embed generates a single vector.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch embeds texts in input order. Inputs are grouped into
// batches of at most BatchSize; batches run sequentially, each with its
// own retry budget. All-or-nothing: any batch exhausting its retries
// fails the whole call.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	results := make([][]float32, 0, len(texts))

	for start := 0; start < len(texts); start += BatchSize {
		end := start + BatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[start:end]

		vectors, err := e.embedWithRetry(ctx, batch)
		if err != nil {
			return nil, &EmbedError{Err: err}
		}
		if len(vectors) != len(batch) {
			return nil, &EmbedError{Err: fmt.Errorf("provider returned %d vectors for %d inputs", len(vectors), len(batch))}
		}
		for i, v := range vectors {
			if len(v) != e.provider.Dimensions() {
				return nil, &EmbedError{Err: fmt.Errorf("%w: input %d has %d dims, want %d",
					ErrDimensionMismatch, start+i, len(v), e.provider.Dimensions())}
			}
		}

		results = append(results, vectors...)
	}

	return results, nil
}

func (e *Embedder) embedWithRetry(ctx context.Context, batch []string) ([][]float32, error) {
	var lastErr error

	delay := e.retryDelay
	for attempt := 1; attempt <= maxRetries; attempt++ {
		vectors, err := e.provider.EmbedBatch(ctx, batch)
		if err == nil {
			return vectors, nil
		}
		lastErr = err

		if attempt < maxRetries {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			delay *= 2
		}
	}

	return nil, lastErr
}
