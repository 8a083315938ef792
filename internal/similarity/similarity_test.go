package similarity

import (
	"testing"

	"github.com/quakecase/engine/internal/memory"
	"github.com/quakecase/engine/internal/situation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSituation(magnitude float64, phase situation.TimePhase, region string) situation.EarthquakeSituation {
	return situation.EarthquakeSituation{
		EventIdentity: situation.EventIdentity{
			Magnitude: situation.NewNumeric(magnitude, "t", situation.ConfidenceMedium),
			Phase:     phase,
		},
		SpatialContext: situation.SpatialContext{
			RegionType: situation.NewString(region, "t", situation.ConfidenceMedium),
		},
	}
}

// TestSimilarityIdentical is scenario S2: identical situation, same phase,
// expect score >= 0.8 with no phase penalty.
func TestSimilarityIdentical(t *testing.T) {
	s := buildSituation(7.0, situation.T0Impact, "urban")
	s.HumanExposure.PopulationDensity = situation.NewString("high", "t", situation.ConfidenceMedium)
	s.BuiltEnvironment.DominantBuildingTypes = situation.NewStringList([]string{"masonry"}, "t", situation.ConfidenceMedium)
	unit := situation.ExperienceUnit{Situation: s, Phase: situation.T0Impact}

	e := NewDefault()
	results := e.Rank(s, []memory.ScoredUnit{{Unit: unit, Score: 1.0}})
	require.Len(t, results, 1)
	assert.GreaterOrEqual(t, results[0].Score, 0.8)
	assert.Empty(t, results[0].Penalties)
}

// TestPhaseMismatchPenalty is scenario S3.
func TestPhaseMismatchPenalty(t *testing.T) {
	query := buildSituation(7.0, situation.T0Impact, "urban")
	query.EventIdentity.Phase = situation.T0Impact
	candidate := buildSituation(5.0, situation.T3Outcome, "urban")
	unit := situation.ExperienceUnit{Situation: candidate, Phase: situation.T3Outcome}

	e := NewDefault()
	results := e.Rank(query, []memory.ScoredUnit{{Unit: unit, Score: 1.0}})
	require.Len(t, results, 1)
	assert.NotEmpty(t, results[0].Penalties)
	// scale dim = 1 - 2/3 = 1/3 -> weighted into final score, then * 0.8
	assert.InDelta(t, 1.0/3.0, results[0].Dimensions.Scale, 0.0001)
}

func TestDeterministicOutput(t *testing.T) {
	query := buildSituation(7.0, situation.T0Impact, "urban")
	candidate := buildSituation(7.0, situation.T0Impact, "urban")
	unit := situation.ExperienceUnit{Situation: candidate, Phase: situation.T0Impact}

	e := NewDefault()
	r1 := e.Rank(query, []memory.ScoredUnit{{Unit: unit}})
	r2 := e.Rank(query, []memory.ScoredUnit{{Unit: unit}})
	assert.Equal(t, r1, r2)
}
