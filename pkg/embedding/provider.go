package embedding

import "context"

// Provider is a single-call embedding backend. One call embeds one
// batch of texts; batching policy and retries live in Embedder.
type Provider interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Model() string
	Dimensions() int
}
