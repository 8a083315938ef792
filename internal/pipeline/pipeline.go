// Package pipeline composes C5-C9 as a shared function (CoreStages) used by
// two concrete pipelines: the HTTP surface uses NarrativePipeline for live
// requests, while the replay evaluator (C11) uses PhasedPipeline. The two
// have no common Go interface, and the HTTP layer does not select between
// them per request.
package pipeline

import (
	"context"

	"github.com/quakecase/engine/internal/confidence"
	"github.com/quakecase/engine/internal/intervention"
	"github.com/quakecase/engine/internal/memory"
	"github.com/quakecase/engine/internal/metrics"
	"github.com/quakecase/engine/internal/response"
	"github.com/quakecase/engine/internal/similarity"
	"github.com/quakecase/engine/internal/situation"
	"github.com/quakecase/engine/internal/timeline"
	"go.opentelemetry.io/otel/trace"
)

// NarrativePipeline and PhasedPipeline are the two entry points into the
// query path. They deliberately do not share a Go interface: one embeds a
// narrative and retrieves through the store's kNN boundary, the other
// already holds its candidate list in process. What they share is
// CoreStages, the C5-C9 chain below.

// CoreStages is the shared C5-C9 chain used by both concrete pipelines.
// It is exported as a plain function (not a type) because neither
// NarrativePipeline nor PhasedPipeline need to vary it — they vary only in
// how the cohort and query situation are obtained.
func CoreStages(query situation.EarthquakeSituation, cohort []memory.ScoredUnit, engine *similarity.Engine) response.SystemResponse {
	return CoreStagesWithMetrics(context.Background(), query, cohort, engine, nil, nil)
}

// CoreStagesWithMetrics is CoreStages with optional Prometheus
// instrumentation (m may be nil) and optional per-stage tracing (tracer
// may be nil) — one span is opened per C5-C9 stage, named
// quakecase.similarity / quakecase.timeline / quakecase.intervention /
// quakecase.confidence / quakecase.response.
func CoreStagesWithMetrics(ctx context.Context, query situation.EarthquakeSituation, cohort []memory.ScoredUnit, engine *similarity.Engine, m *metrics.Metrics, tracer trace.Tracer) response.SystemResponse {
	ranked := withSpan(ctx, tracer, "quakecase.similarity", func() []similarity.Result {
		return engine.Rank(query, cohort)
	})

	topK := ranked
	if len(topK) > 5 {
		topK = topK[:5]
	}
	if m != nil {
		m.CohortSize.Observe(float64(len(topK)))
	}

	queryPhase := query.EventIdentity.Phase
	rawProjections := withSpan(ctx, tracer, "quakecase.timeline", func() map[string]timeline.Projection {
		return timeline.Project(queryPhase, topK)
	})
	rawInterventions := withSpan(ctx, tracer, "quakecase.intervention", func() []intervention.Recommendation {
		return intervention.Recommend(queryPhase, topK)
	})

	calibratedProjections, calibratedInterventions := withSpan2(ctx, tracer, "quakecase.confidence", func() (map[string]confidence.Assessment, []confidence.AssessedRecommendation) {
		cp := confidence.CalibrateProjections(rawProjections)
		ci := confidence.CalibrateInterventions(rawInterventions, cp)
		return cp, ci
	})

	out := withSpan(ctx, tracer, "quakecase.response", func() response.SystemResponse {
		return response.Format(query, rawProjections, calibratedProjections, calibratedInterventions, len(topK))
	})
	if m != nil && out.ConfidenceOverview.OverallLevel == confidence.LabelLow {
		m.LowConfidenceTotal.Inc()
	}
	return out
}

// withSpan runs fn inside a span named name when tracer is non-nil,
// otherwise runs it untraced. The pipeline's own stages are synchronous
// and return no error, so the span only marks duration.
func withSpan[T any](ctx context.Context, tracer trace.Tracer, name string, fn func() T) T {
	if tracer == nil {
		return fn()
	}
	_, span := tracer.Start(ctx, name)
	defer span.End()
	return fn()
}

func withSpan2[A, B any](ctx context.Context, tracer trace.Tracer, name string, fn func() (A, B)) (A, B) {
	if tracer == nil {
		return fn()
	}
	_, span := tracer.Start(ctx, name)
	defer span.End()
	return fn()
}
