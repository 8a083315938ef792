package pipeline

import (
	"context"
	"testing"

	dto "github.com/prometheus/client_model/go"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/quakecase/engine/internal/memory"
	"github.com/quakecase/engine/internal/metrics"
	"github.com/quakecase/engine/internal/similarity"
	"github.com/quakecase/engine/internal/situation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func buildQuery(magnitude float64, phase situation.TimePhase) situation.EarthquakeSituation {
	return situation.EarthquakeSituation{
		EventIdentity: situation.EventIdentity{
			Magnitude: situation.NewNumeric(magnitude, "t", situation.ConfidenceMedium),
			Phase:     phase,
		},
	}
}

func TestCoreStagesProducesResponseWithoutMetricsOrTracer(t *testing.T) {
	query := buildQuery(7.0, situation.T0Impact)
	unit := situation.ExperienceUnit{Situation: query, Phase: situation.T0Impact}
	engine := similarity.NewDefault()

	resp := CoreStages(query, []memory.ScoredUnit{{Unit: unit, Score: 1.0}}, engine)

	assert.NotEmpty(t, resp.ConfidenceOverview.OverallLevel)
}

func TestCoreStagesWithMetricsObservesCohortSize(t *testing.T) {
	query := buildQuery(7.0, situation.T0Impact)
	unit := situation.ExperienceUnit{Situation: query, Phase: situation.T0Impact}
	engine := similarity.NewDefault()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	// A real tracer (backed by the global no-op provider, since no SDK is
	// registered in this test) must not change the computed result, only
	// wrap each stage in a span.
	tracer := otel.GetTracerProvider().Tracer("pipeline-test")

	resp := CoreStagesWithMetrics(context.Background(), query, []memory.ScoredUnit{{Unit: unit, Score: 1.0}}, engine, m, tracer)

	assert.NotEmpty(t, resp.ConfidenceOverview.OverallLevel)

	var metric dto.Metric
	require.NoError(t, m.CohortSize.Write(&metric))
	assert.Equal(t, uint64(1), metric.GetHistogram().GetSampleCount())
}
