// Package embedding implements the pluggable Embedder interface (C3): a
// fixed-dimension text-to-vector boundary. Per Design Note 3 ("mutable
// global LLM client"), no embedder is ever a package-level global — every
// component that needs one receives it through its constructor.
package embedding

import "context"

// Embedder maps text to a fixed-dimension vector. Implementations must be
// deterministic for identical input within one provider revision and must
// honor context cancellation — this is one of the three blocking I/O
// boundaries named in the concurrency model (§5).
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	Dim() int
}

// DefaultDim is the vector dimension used when no provider-specific
// dimension is configured.
const DefaultDim = 384
