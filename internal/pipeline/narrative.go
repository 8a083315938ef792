package pipeline

import (
	"context"
	"fmt"

	"github.com/quakecase/engine/internal/embedding"
	"github.com/quakecase/engine/internal/memory"
	"github.com/quakecase/engine/internal/metrics"
	"github.com/quakecase/engine/internal/response"
	"github.com/quakecase/engine/internal/similarity"
	"github.com/quakecase/engine/internal/situation"
	"go.opentelemetry.io/otel/trace"
)

// NarrativePipeline is the live-request path used by the HTTP surface: it
// embeds the current narrative, retrieves candidates from the memory
// store's approximate kNN index, and runs the shared C5-C9 chain.
type NarrativePipeline struct {
	Embedder embedding.Embedder
	Store    memory.Store
	Engine   *similarity.Engine
	TopK     int
	Metrics  *metrics.Metrics
	Tracer   trace.Tracer
}

func NewNarrativePipeline(embedder embedding.Embedder, store memory.Store, engine *similarity.Engine) *NarrativePipeline {
	return &NarrativePipeline{Embedder: embedder, Store: store, Engine: engine, TopK: 20}
}

// Run embeds narrative, retrieves the kNN cohort, and formats a response
// against the query situation supplied by the caller; the narrative text
// alone drives retrieval.
func (p *NarrativePipeline) Run(ctx context.Context, query situation.EarthquakeSituation, narrative string) (response.SystemResponse, error) {
	vector, err := p.Embedder.Embed(ctx, narrative)
	if err != nil {
		return response.SystemResponse{}, fmt.Errorf("pipeline: embed narrative: %w", err)
	}

	k := p.TopK
	if k <= 0 {
		k = 20
	}
	candidates, err := p.Store.Knn(ctx, vector, k)
	if err != nil {
		return response.SystemResponse{}, fmt.Errorf("pipeline: retrieve candidates: %w", err)
	}

	return CoreStagesWithMetrics(ctx, query, candidates, p.Engine, p.Metrics, p.Tracer), nil
}
