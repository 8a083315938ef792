package replay

import (
	"context"
	"testing"

	"github.com/quakecase/engine/internal/pipeline"
	"github.com/quakecase/engine/internal/similarity"
	"github.com/quakecase/engine/internal/situation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplayCaseProducesOnePhaseLogPerSlice(t *testing.T) {
	raw := map[string]any{
		"identity": map[string]any{"event_id": "e1", "magnitude": 7.0},
		"damage":   map[string]any{"building_collapse": "moderate"},
		"actions":  map[string]any{"rescue": "deployed", "evacuation": "completed"},
		"outcomes": map[string]any{"casualties": 20.0, "economic_loss": "moderate"},
	}

	historical := []situation.ExperienceUnit{
		{
			Situation: situation.EarthquakeSituation{
				EventIdentity: situation.EventIdentity{Magnitude: situation.NewNumeric(7.1, "t", situation.ConfidenceMedium), Phase: situation.T0Impact},
			},
			Phase:              situation.T0Impact,
			SourceCaseID:       "other-case",
			SubsequentOutcomes: &situation.Outcomes{Casualties: situation.NewNumeric(15, "t", situation.ConfidenceMedium)},
		},
	}

	evaluator := NewEvaluator(pipeline.NewPhasedPipeline(similarity.NewDefault()))
	logs := evaluator.ReplayCase(context.Background(), "e1", raw, historical)

	// No medical or logistics action is present, so ingestion emits no T2
	// slice: T0, T1 and T3 only.
	require.Len(t, logs, 3)
	assert.Equal(t, "T3_OUTCOME", logs[2].Phase)
	assert.Contains(t, logs[2].Validation.ActualFinalOutcomes, "20")
	assert.NotEmpty(t, logs[1].Validation.ActualSubsequentActions)
	assert.Equal(t, CurrentAlgorithmVersion, logs[0].AlgorithmVersion)
}

func TestIsComparableRejectsOlderMinimumVersion(t *testing.T) {
	evaluator := NewEvaluator(pipeline.NewPhasedPipeline(similarity.NewDefault()))

	comparable, err := evaluator.IsComparable()
	require.NoError(t, err)
	assert.True(t, comparable, "no minimum set means every version is comparable")

	require.NoError(t, evaluator.SetMinComparableVersion("0.1.0"))
	comparable, err = evaluator.IsComparable()
	require.NoError(t, err)
	assert.True(t, comparable)

	require.NoError(t, evaluator.SetMinComparableVersion("99.0.0"))
	comparable, err = evaluator.IsComparable()
	require.NoError(t, err)
	assert.False(t, comparable)

	assert.Error(t, evaluator.SetMinComparableVersion("not-a-version"))
}
