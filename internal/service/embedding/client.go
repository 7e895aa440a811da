package embedding

import "context"

// Client defines the interface for text embedding providers.
// Implementations include the Gemini embedding API; tests use fakes.
type Client interface {
	// Embed returns the embedding vector for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns embedding vectors for multiple texts, in order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}
