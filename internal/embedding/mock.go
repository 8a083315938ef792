package embedding

import (
	"context"
	"hash/fnv"
	"math"
)

// MockEmbedder produces a deterministic pseudo-random unit vector seeded
// from the FNV hash of the input text. Used when EMBEDDING_PROVIDER=mock
// or MOCK_MODE=true, and as the default in tests — grounded on the
// original source's MockLLMClient, which returned a random vector per
// call; this implementation is deterministic instead, since the testable
// properties (§8) require byte-identical output for identical input.
type MockEmbedder struct {
	dim int
}

func NewMockEmbedder(dim int) *MockEmbedder {
	if dim <= 0 {
		dim = DefaultDim
	}
	return &MockEmbedder{dim: dim}
}

func (m *MockEmbedder) Dim() int { return m.dim }

func (m *MockEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	vec := make([]float64, m.dim)
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	seed := h.Sum64()
	for i := range vec {
		seed = seed*6364136223846793005 + 1442695040888963407
		vec[i] = (float64(seed>>11) / float64(1<<53)) - 0.5
	}
	normalize(vec)
	return vec, nil
}

func normalize(vec []float64) {
	var sumSq float64
	for _, v := range vec {
		sumSq += v * v
	}
	if sumSq == 0 {
		return
	}
	norm := math.Sqrt(sumSq)
	for i := range vec {
		vec[i] /= norm
	}
}
