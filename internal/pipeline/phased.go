package pipeline

import (
	"context"

	"github.com/quakecase/engine/internal/memory"
	"github.com/quakecase/engine/internal/response"
	"github.com/quakecase/engine/internal/similarity"
	"github.com/quakecase/engine/internal/situation"
)

// PhasedPipeline runs the experience-unit query path directly against an
// in-memory candidate list, bypassing the embedder/store boundary. Used
// by the replay evaluator (C11), which already holds the full historical
// memory in process.
type PhasedPipeline struct {
	Engine *similarity.Engine
}

func NewPhasedPipeline(engine *similarity.Engine) *PhasedPipeline {
	return &PhasedPipeline{Engine: engine}
}

// Run ranks candidates directly (no kNN pre-filter — the replay evaluator
// already holds a small, bounded historical memory) and runs them through
// the shared C5-C9 chain.
func (p *PhasedPipeline) Run(_ context.Context, query situation.EarthquakeSituation, candidates []situation.ExperienceUnit) response.SystemResponse {
	scored := make([]memory.ScoredUnit, len(candidates))
	for i, c := range candidates {
		scored[i] = memory.ScoredUnit{Unit: c, Score: 1.0}
	}
	return CoreStages(query, scored, p.Engine)
}
