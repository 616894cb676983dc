// Package embedding provides the embedding provider client and the
// persistent vector cache.
package embedding

import "context"

// Embedder produces vector embeddings for text. Implementations are
// best-effort: callers treat any error as "fall back to keyword matching".
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}
