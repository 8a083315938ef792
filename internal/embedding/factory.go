package embedding

import (
	"context"
	"fmt"
)

// Config carries the environment-derived embedder selection (spec §6).
type Config struct {
	Provider string // "gemini" | "mock"
	APIKey   string
	Model    string
	Dim      int
	MockMode bool
}

// New selects an Embedder per cfg, defaulting to the mock embedder when
// MockMode is set or the provider is explicitly "mock". Unknown providers
// are a ConfigError (§7): the process must refuse to start rather than
// silently fall back.
func New(ctx context.Context, cfg Config) (Embedder, error) {
	if cfg.MockMode || cfg.Provider == "mock" || cfg.Provider == "" {
		return NewMockEmbedder(cfg.Dim), nil
	}
	switch cfg.Provider {
	case "gemini":
		return NewGeminiEmbedder(ctx, cfg.APIKey, cfg.Model, cfg.Dim)
	default:
		return nil, fmt.Errorf("embedding: unrecognized EMBEDDING_PROVIDER %q", cfg.Provider)
	}
}
