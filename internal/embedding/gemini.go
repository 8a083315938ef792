package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"google.golang.org/genai"
)

// GeminiEmbedder is the real Embedder backed by google.golang.org/genai's
// embed-content call. Retries are bounded and live only at this external
// boundary — the core pipeline never retries internally (§5, §7
// ExternalTransient).
type GeminiEmbedder struct {
	client *genai.Client
	model  string
	dim    int
}

// NewGeminiEmbedder constructs a real embedder. apiKey may be empty if the
// genai client is configured to pick up credentials from its own
// environment variables.
func NewGeminiEmbedder(ctx context.Context, apiKey, model string, dim int) (*GeminiEmbedder, error) {
	if model == "" {
		model = "text-embedding-004"
	}
	if dim <= 0 {
		dim = DefaultDim
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("embedding: construct genai client: %w", err)
	}
	return &GeminiEmbedder{client: client, model: model, dim: dim}, nil
}

func (g *GeminiEmbedder) Dim() int { return g.dim }

func (g *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	var vec []float64
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)

	op := func() error {
		resp, err := g.client.Models.EmbedContent(ctx, g.model,
			[]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}, nil)
		if err != nil {
			return err
		}
		if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
			return backoff.Permanent(fmt.Errorf("embedding: empty response from provider"))
		}
		values := resp.Embeddings[0].Values
		vec = make([]float64, len(values))
		for i, v := range values {
			vec[i] = float64(v)
		}
		return nil
	}

	start := time.Now()
	if err := backoff.Retry(op, policy); err != nil {
		return nil, fmt.Errorf("embedding: embed text after retries (elapsed %s): %w", time.Since(start), err)
	}
	return vec, nil
}
