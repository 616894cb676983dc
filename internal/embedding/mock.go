package embedding

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"sync/atomic"

	"github.com/tallerlink/pricebot/internal/models"
	"github.com/tallerlink/pricebot/pkg/utils"
)

// MockEmbedder is a deterministic embedder for tests. It hashes every token
// of the text into a fixed-dimension bag-of-words vector, so texts sharing
// words get genuinely similar embeddings while the same text always maps to
// the same vector.
type MockEmbedder struct {
	dimensions int
	calls      atomic.Int64
	// FailAll forces every call to fail, simulating a dead provider.
	FailAll bool
}

// NewMockEmbedder returns an embedder producing deterministic embeddings of
// the given dimensions.
func NewMockEmbedder(dimensions int) *MockEmbedder {
	if dimensions <= 0 {
		dimensions = 64
	}
	return &MockEmbedder{dimensions: dimensions}
}

// Embed returns a normalized hashed bag-of-words vector for text.
func (e *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.calls.Add(1)
	if e.FailAll {
		return nil, fmt.Errorf("%w: mock failure", models.ErrEmbeddingProvider)
	}
	vec := make([]float32, e.dimensions)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(tok))
		vec[int(h.Sum32())%e.dimensions] += 1
	}
	utils.NormalizeL2(vec)
	return vec, nil
}

// EmbedBatch calls Embed for each text.
func (e *MockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

// Calls returns how many Embed calls were issued (batch calls count once per
// text). Used to verify index-build idempotence.
func (e *MockEmbedder) Calls() int64 {
	return e.calls.Load()
}

// Dimensions returns the embedding dimension.
func (e *MockEmbedder) Dimensions() int {
	return e.dimensions
}

// Close is a no-op for MockEmbedder.
func (e *MockEmbedder) Close() error {
	return nil
}
